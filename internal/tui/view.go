package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"

	"github.com/grandstand/vendorboard/internal/order"
)

// View 实现 tea.Model
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString(styleError.Render(fmt.Sprintf("  Error: %v", m.err)))
		b.WriteString("\n")
	} else if m.statusLine != "" {
		b.WriteString(styleMuted.Render("  " + m.statusLine))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	switch m.view {
	case ViewOrders:
		b.WriteString(m.renderOrdersView())
	case ViewPrints:
		b.WriteString(m.renderPrintsView())
	case ViewAnalytics:
		b.WriteString(m.renderAnalyticsView())
	}

	b.WriteString("\n")
	b.WriteString(m.renderHelp())
	return b.String()
}

func (m Model) renderHeader() string {
	title := "  Vendorboard"
	if m.deps.VendorName != "" {
		title += " · " + m.deps.VendorName
	}

	var flags []string
	if m.available != nil {
		if *m.available {
			flags = append(flags, "OPEN")
		} else {
			flags = append(flags, "CLOSED")
		}
	}
	if m.deps.Settings.AutoComplete() {
		flags = append(flags, "auto-print")
	}
	if m.deps.Alerts.Indicator() {
		flags = append(flags, "🔔 NEW ORDERS")
	}
	if last := m.deps.Orders.LastSync(); !last.IsZero() {
		flags = append(flags, fmt.Sprintf("synced %ds ago", int(time.Since(last).Seconds())))
	}
	if err := m.deps.Orders.Err(); err != nil {
		flags = append(flags, "backend unreachable, showing last data")
	}

	right := strings.Join(flags, "  ")
	pad := m.width - len([]rune(title)) - len([]rune(right)) - 4
	if pad < 1 {
		pad = 1
	}
	return styleHeader.Width(m.width).Render(title + strings.Repeat(" ", pad) + right)
}

func (m Model) renderOrdersView() string {
	var b strings.Builder

	// 页签带角标
	var tabs []string
	for i, status := range statusTabs {
		label := tabLabel(status)
		if n := order.CountByStatus(m.orders, status); n > 0 {
			label = fmt.Sprintf("%s(%d)", label, n)
		}
		if i == m.statusTab {
			tabs = append(tabs, styleTabActive.Render(label))
		} else {
			tabs = append(tabs, styleTab.Render(label))
		}
	}
	b.WriteString("  " + strings.Join(tabs, " "))
	b.WriteString("\n\n")

	visible := m.visibleForTab()
	if len(visible) == 0 {
		b.WriteString(styleMuted.Render("  No orders in this tab."))
		b.WriteString("\n")
		return b.String()
	}

	header := fmt.Sprintf("  %-8s │ %-8s │ %-16s │ %-8s │ %-28s │ %10s",
		"Order", "Time", "Customer", "Type", "Items", "Amount")
	b.WriteString(styleTableHeader.Width(m.width).Render(header))
	b.WriteString("\n")
	b.WriteString(styleMuted.Render(strings.Repeat("─", m.width)))
	b.WriteString("\n")

	visibleRows := m.height - 14
	if visibleRows < 4 {
		visibleRows = 4
	}
	start := 0
	if m.selectedIdx >= visibleRows {
		start = m.selectedIdx - visibleRows + 1
	}
	end := start + visibleRows
	if end > len(visible) {
		end = len(visible)
	}

	for i := start; i < end; i++ {
		b.WriteString(m.renderOrderRow(visible[i], i == m.selectedIdx))
		b.WriteString("\n")
	}
	if len(visible) > visibleRows {
		b.WriteString(styleMuted.Render(fmt.Sprintf("  Showing %d-%d of %d orders", start+1, end, len(visible))))
		b.WriteString("\n")
	}

	// 选中订单的详情与可用操作
	if selected, ok := m.selectedOrder(); ok {
		b.WriteString("\n")
		b.WriteString(m.renderOrderDetail(selected))
	}

	if m.rejecting {
		b.WriteString("\n")
		box := styleBox.Render("Reject order #" + fmt.Sprint(m.rejectOrderID) + "\n" +
			m.rejectInput.View() + "\n" +
			styleMuted.Render("enter to submit, esc to cancel"))
		b.WriteString(box)
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) renderOrderRow(o order.Order, selected bool) string {
	row := fmt.Sprintf("  #%-7d │ %-8s │ %-16s │ %-8s │ %-28s │ %10.2f",
		o.OrderID,
		clockOf(o.CreatedAt),
		truncate(o.CustomerName, 16),
		string(o.FulfilmentType),
		truncate(itemsSummary(o.Items), 28),
		o.TotalAmount,
	)
	if m.deps.Controller.InFlight(o.OrderID) {
		row += "  …"
	}
	if selected {
		return styleRowSelected.Width(m.width).Render(row)
	}
	return styleRow.Render(row)
}

func (m Model) renderOrderDetail(o order.Order) string {
	var lines []string
	lines = append(lines, fmt.Sprintf("#%d  %s  %s", o.OrderID, statusBadge(string(o.OrderStatus)), string(o.FulfilmentType)))
	lines = append(lines, fmt.Sprintf("%s  %s", o.CustomerName, o.CustomerPhone))
	for _, it := range o.Items {
		lines = append(lines, fmt.Sprintf("  %dx %s", it.Quantity, it.Name))
	}
	if o.Instructions != "" {
		lines = append(lines, "Note: "+o.Instructions)
	}

	actions := order.ActionsFor(o.OrderStatus)
	if len(actions) > 0 {
		var hints []string
		for _, a := range actions {
			switch a {
			case order.ActionAccept:
				hints = append(hints, "[a] accept")
			case order.ActionReject:
				hints = append(hints, "[x] reject")
			case order.ActionPrepare:
				hints = append(hints, "[s] preparing")
			case order.ActionReady:
				hints = append(hints, "[d] ready")
			}
		}
		lines = append(lines, styleMuted.Render(strings.Join(hints, "  ")))
	}
	return styleBox.Render(strings.Join(lines, "\n"))
}

func (m Model) renderPrintsView() string {
	var b strings.Builder

	state := m.deps.Reconciler.State()
	b.WriteString("  Print queue: ")
	switch state.String() {
	case "idle":
		b.WriteString(styleMuted.Render("idle"))
	case "awaiting_confirmation":
		b.WriteString(styleBadge.Render("printed, awaiting confirmation  [y] ok  [n] retry"))
	default:
		b.WriteString(styleOK.Render(state.String()))
	}
	b.WriteString("\n")

	if err := m.deps.Reconciler.Err(); err != nil {
		b.WriteString(styleError.Render(fmt.Sprintf("  Last print error: %v", err)))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if len(m.prints) == 0 {
		b.WriteString(styleMuted.Render("  Nothing waiting to print."))
		b.WriteString("\n")
		return b.String()
	}

	header := fmt.Sprintf("  %-8s │ %-6s │ %-16s │ %-8s │ %10s",
		"Order", "Token", "Customer", "Type", "Total")
	b.WriteString(styleTableHeader.Width(m.width).Render(header))
	b.WriteString("\n")
	b.WriteString(styleMuted.Render(strings.Repeat("─", m.width)))
	b.WriteString("\n")

	for i, p := range m.prints {
		row := fmt.Sprintf("  #%-7d │ %-6d │ %-16s │ %-8s │ %10.2f",
			p.OrderID, p.TokenNumber, truncate(p.CustomerName, 16), p.FulfilmentType, p.GrandTotal)
		if i == m.selectedIdx && m.view == ViewPrints {
			b.WriteString(styleRowSelected.Width(m.width).Render(row))
		} else {
			b.WriteString(styleRow.Render(row))
		}
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) renderAnalyticsView() string {
	var b strings.Builder

	if m.analytics == nil {
		b.WriteString(styleMuted.Render("  Report not loaded yet."))
		b.WriteString("\n")
		return b.String()
	}

	today := m.analytics.Today
	yesterday := m.analytics.Yesterday

	rows := [][2]string{
		{"Orders today", fmt.Sprintf("%d (yesterday %d, %+.1f%%)", today.TotalOrders, yesterday.TotalOrders, m.analytics.OrdersChangePercent)},
		{"Revenue", fmt.Sprintf("%.2f (yesterday %.2f, %+.1f%%)", today.TotalRevenue, yesterday.TotalRevenue, m.analytics.RevenueChangePercent)},
		{"Net revenue", fmt.Sprintf("%.2f", today.NetRevenue)},
		{"Completed", fmt.Sprint(today.CompletedOrders)},
		{"Cancelled", fmt.Sprint(today.CancelledOrders)},
		{"Rejected", fmt.Sprint(today.RejectedOrders)},
		{"Avg order", fmt.Sprintf("%.2f", today.AverageOrderValue)},
	}
	var lines []string
	for _, r := range rows {
		lines = append(lines, fmt.Sprintf("%-14s %s", r[0], r[1]))
	}
	b.WriteString(styleBox.Render(strings.Join(lines, "\n")))
	b.WriteString("\n\n")

	// 七日趋势的简易条形图
	if trend := m.analytics.SevenDayTrend; len(trend) > 0 {
		max := 0.0
		for _, d := range trend {
			if d.TotalRevenue > max {
				max = d.TotalRevenue
			}
		}
		b.WriteString("  7-day revenue\n")
		for _, d := range trend {
			width := 0
			if max > 0 {
				width = int(d.TotalRevenue / max * 30)
			}
			b.WriteString(fmt.Sprintf("  %-10s %s %.0f\n", d.Date, styleOK.Render(strings.Repeat("█", width)), d.TotalRevenue))
		}
	}

	return b.String()
}

func (m Model) renderHelp() string {
	common := "[tab] view  [r] refresh  [v] open/close  [t] auto-print  [q] quit"
	switch m.view {
	case ViewOrders:
		return styleHelp.Render("  [↑/↓] select  [←/→] status  [a]ccept [x] reject [s]tart [d]one  " + common)
	case ViewPrints:
		return styleHelp.Render("  [p] print now  [y] confirm printed  [n] retry later  " + common)
	default:
		return styleHelp.Render("  " + common)
	}
}

// 辅助函数

func tabLabel(s order.Status) string {
	switch s {
	case order.StatusPlaced:
		return "New"
	case order.StatusAccepted:
		return "Accepted"
	case order.StatusPreparing:
		return "Preparing"
	case order.StatusReady:
		return "Ready"
	case order.StatusCompleted:
		return "Completed"
	default:
		return string(s)
	}
}

// truncate 按显示宽度裁剪，避免把多字节字符切成乱码。
func truncate(s string, max int) string {
	if max <= 3 {
		return runewidth.Truncate(s, max, "")
	}
	return runewidth.Truncate(s, max, "...")
}

func itemsSummary(items []order.Item) string {
	parts := make([]string, 0, len(items))
	for _, it := range items {
		parts = append(parts, fmt.Sprintf("%dx %s", it.Quantity, it.Name))
	}
	return strings.Join(parts, ", ")
}

// clockOf 从 RFC3339 时间串里取 HH:MM 展示，解析失败时原样截断。
func clockOf(createdAt string) string {
	if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
		return t.Local().Format("15:04")
	}
	if len(createdAt) > 8 {
		return createdAt[:8]
	}
	return createdAt
}
