package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/grandstand/vendorboard/internal/order"
)

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		// 任何按键都算一次操作员交互。
		m.deps.Alerts.MarkInteracted()
		if m.rejecting {
			return m.handleRejectKey(msg)
		}
		return m.handleKey(msg)

	case subscribedMsg:
		m.ordersCh = msg.orders
		m.printsCh = msg.prints
		m.analyticsCh = msg.analytics
		return m, tea.Batch(
			waitOrders(m.ordersCh),
			waitPrints(m.printsCh),
			waitAnalytics(m.analyticsCh),
		)

	case ordersMsg:
		m.orders = msg
		m.clampSelection()
		return m, waitOrders(m.ordersCh)

	case printsMsg:
		m.prints = msg
		return m, waitPrints(m.printsCh)

	case analyticsMsg:
		m.analytics = msg.report
		return m, waitAnalytics(m.analyticsCh)

	case actionDoneMsg:
		if msg.err != nil {
			m.err = msg.err
			m.statusLine = ""
		} else {
			m.err = nil
			m.statusLine = msg.note
		}
		return m, nil

	case availabilityMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		open := msg.open
		m.available = &open
		m.err = nil
		if open {
			m.statusLine = "store open"
		} else {
			m.statusLine = "store closed"
		}
		return m, nil

	case tickMsg:
		// 秒级重绘：刷新倒计时、告警角标与对账器状态展示。
		return m, tickCmd()
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.NextView):
		m.view = (m.view + 1) % 3
		m.selectedIdx = 0
		m.deps.Alerts.SetOnOrdersView(m.view == ViewOrders)
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if m.selectedIdx > 0 {
			m.selectedIdx--
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.selectedIdx < m.listLen()-1 {
			m.selectedIdx++
		}
		return m, nil

	case key.Matches(msg, m.keys.Left):
		if m.view == ViewOrders {
			m.statusTab--
			if m.statusTab < 0 {
				m.statusTab = len(statusTabs) - 1
			}
			m.selectedIdx = 0
		}
		return m, nil

	case key.Matches(msg, m.keys.Right):
		if m.view == ViewOrders {
			m.statusTab = (m.statusTab + 1) % len(statusTabs)
			m.selectedIdx = 0
		}
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		m.deps.Orders.Invalidate()
		m.deps.Prints.Invalidate()
		m.deps.Analytics.Invalidate()
		m.statusLine = "refreshing"
		return m, nil

	case key.Matches(msg, m.keys.Available):
		next := true
		if m.available != nil {
			next = !*m.available
		}
		return m, m.toggleAvailabilityCmd(next)

	case key.Matches(msg, m.keys.AutoMode):
		return m, m.toggleAutoCompleteCmd()
	}

	switch m.view {
	case ViewOrders:
		return m.handleOrdersKey(msg)
	case ViewPrints:
		return m.handlePrintsKey(msg)
	}
	return m, nil
}

func (m Model) handleOrdersKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	selected, ok := m.selectedOrder()
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Accept):
		return m, m.applyActionCmd(selected.OrderID, order.ActionAccept, "")

	case key.Matches(msg, m.keys.Reject):
		if !order.CanApply(selected.OrderStatus, order.ActionReject) {
			return m, nil
		}
		m.rejecting = true
		m.rejectOrderID = selected.OrderID
		m.rejectInput.SetValue("")
		m.rejectInput.Focus()
		return m, nil

	case key.Matches(msg, m.keys.Prepare):
		return m, m.applyActionCmd(selected.OrderID, order.ActionPrepare, "")

	case key.Matches(msg, m.keys.Ready):
		return m, m.applyActionCmd(selected.OrderID, order.ActionReady, "")
	}
	return m, nil
}

func (m Model) handlePrintsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Print):
		return m, m.printNowCmd()

	case key.Matches(msg, m.keys.Confirm):
		return m, m.confirmPrintCmd()

	case key.Matches(msg, m.keys.Decline):
		if err := m.deps.Reconciler.Decline(); err != nil {
			m.err = err
		} else {
			m.err = nil
			m.statusLine = "batch kept for retry"
		}
		return m, nil
	}
	return m, nil
}

// handleRejectKey 处理拒单理由输入框的按键。
func (m Model) handleRejectKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.rejecting = false
		m.rejectInput.Blur()
		return m, nil

	case tea.KeyEnter:
		reason := m.rejectInput.Value()
		orderID := m.rejectOrderID
		m.rejecting = false
		m.rejectInput.Blur()
		return m, m.applyActionCmd(orderID, order.ActionReject, reason)
	}

	var cmd tea.Cmd
	m.rejectInput, cmd = m.rejectInput.Update(msg)
	return m, cmd
}

// listLen 返回当前视图可滚动列表的长度。
func (m Model) listLen() int {
	switch m.view {
	case ViewOrders:
		return len(m.visibleForTab())
	case ViewPrints:
		return len(m.prints)
	}
	return 0
}

func (m *Model) clampSelection() {
	if n := m.listLen(); m.selectedIdx >= n {
		if n == 0 {
			m.selectedIdx = 0
		} else {
			m.selectedIdx = n - 1
		}
	}
}
