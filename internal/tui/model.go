package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/grandstand/vendorboard/internal/alert"
	"github.com/grandstand/vendorboard/internal/backend"
	"github.com/grandstand/vendorboard/internal/order"
	"github.com/grandstand/vendorboard/internal/poll"
	"github.com/grandstand/vendorboard/internal/printer"
	"github.com/grandstand/vendorboard/internal/settings"
)

// ViewType 表示当前视图
type ViewType int

const (
	ViewOrders    ViewType = iota // 订单看板
	ViewPrints                    // 打印队列
	ViewAnalytics                 // 经营报表
)

// statusTabs 是订单看板的页签顺序，终态只保留 COMPLETED。
var statusTabs = []order.Status{
	order.StatusPlaced,
	order.StatusAccepted,
	order.StatusPreparing,
	order.StatusReady,
	order.StatusCompleted,
}

// Deps 组装仪表盘依赖的核心组件。
type Deps struct {
	Orders     *poll.Resource[[]order.Order]
	Prints     *poll.Resource[[]printer.PrintOrder]
	Analytics  *poll.Resource[*backend.CanteenAnalytics]
	Controller *order.Controller
	Reconciler *printer.Reconciler
	Alerts     *alert.Notifier
	Settings   *settings.Service
	Backend    *backend.Client
	VendorName string
}

// Model 是主 TUI 模型
type Model struct {
	deps Deps

	// 数据快照
	orders    []order.Order
	prints    []printer.PrintOrder
	analytics *backend.CanteenAnalytics

	// 订阅通道，消息到达后重新挂起等待
	ordersCh    <-chan []order.Order
	printsCh    <-chan []printer.PrintOrder
	analyticsCh <-chan *backend.CanteenAnalytics

	// 视图状态
	view        ViewType
	statusTab   int
	selectedIdx int

	// 拒单理由输入
	rejecting     bool
	rejectOrderID int64
	rejectInput   textinput.Model

	// 堂食开关；后端确认前为 nil
	available *bool

	// 终端尺寸
	width  int
	height int

	// 状态
	statusLine string
	err        error

	keys keyMap
}

// keyMap 定义全部按键绑定
type keyMap struct {
	Up        key.Binding
	Down      key.Binding
	Left      key.Binding
	Right     key.Binding
	NextView  key.Binding
	Accept    key.Binding
	Reject    key.Binding
	Prepare   key.Binding
	Ready     key.Binding
	Print     key.Binding
	Confirm   key.Binding
	Decline   key.Binding
	AutoMode  key.Binding
	Available key.Binding
	Refresh   key.Binding
	Quit      key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "prev tab"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "next tab"),
		),
		NextView: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "switch view"),
		),
		Accept: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "accept"),
		),
		Reject: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "reject"),
		),
		Prepare: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "start preparing"),
		),
		Ready: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "ready"),
		),
		Print: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "print"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "printed ok"),
		),
		Decline: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "retry later"),
		),
		AutoMode: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "toggle auto-complete"),
		),
		Available: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "toggle availability"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// NewModel 创建新的 TUI 模型
func NewModel(deps Deps) Model {
	input := textinput.New()
	input.Placeholder = "reject reason"
	input.CharLimit = 120
	input.Width = 40

	return Model{
		deps:        deps,
		view:        ViewOrders,
		keys:        defaultKeyMap(),
		rejectInput: input,
	}
}

// Init 实现 tea.Model
func (m Model) Init() tea.Cmd {
	m.deps.Alerts.SetOnOrdersView(true)
	ordersCh := m.deps.Orders.Subscribe()
	printsCh := m.deps.Prints.Subscribe()
	analyticsCh := m.deps.Analytics.Subscribe()

	// 通道引用要先存进模型再返回命令；tea 的值语义下
	// Init 里存不进去，交给首个消息前的 cmd 闭包携带。
	return tea.Batch(
		subscribeMsgCmd(ordersCh, printsCh, analyticsCh),
		tickCmd(),
	)
}

// 消息类型

type subscribedMsg struct {
	orders    <-chan []order.Order
	prints    <-chan []printer.PrintOrder
	analytics <-chan *backend.CanteenAnalytics
}

type ordersMsg []order.Order

type printsMsg []printer.PrintOrder

type analyticsMsg struct {
	report *backend.CanteenAnalytics
}

type actionDoneMsg struct {
	note string
	err  error
}

type availabilityMsg struct {
	open bool
	err  error
}

type tickMsg time.Time

// 命令

func subscribeMsgCmd(
	orders <-chan []order.Order,
	prints <-chan []printer.PrintOrder,
	analytics <-chan *backend.CanteenAnalytics,
) tea.Cmd {
	return func() tea.Msg {
		return subscribedMsg{orders: orders, prints: prints, analytics: analytics}
	}
}

func waitOrders(ch <-chan []order.Order) tea.Cmd {
	return func() tea.Msg {
		snapshot, ok := <-ch
		if !ok {
			return nil
		}
		return ordersMsg(snapshot)
	}
}

func waitPrints(ch <-chan []printer.PrintOrder) tea.Cmd {
	return func() tea.Msg {
		snapshot, ok := <-ch
		if !ok {
			return nil
		}
		return printsMsg(snapshot)
	}
}

func waitAnalytics(ch <-chan *backend.CanteenAnalytics) tea.Cmd {
	return func() tea.Msg {
		report, ok := <-ch
		if !ok {
			return nil
		}
		return analyticsMsg{report: report}
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

const actionTimeout = 15 * time.Second

func (m Model) applyActionCmd(orderID int64, action order.Action, reason string) tea.Cmd {
	ctrl := m.deps.Controller
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
		defer cancel()
		if err := ctrl.Apply(ctx, orderID, action, reason); err != nil {
			return actionDoneMsg{err: err}
		}
		return actionDoneMsg{note: string(action) + " applied"}
	}
}

func (m Model) printNowCmd() tea.Cmd {
	rec := m.deps.Reconciler
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
		defer cancel()
		if err := rec.PrintNow(ctx); err != nil {
			return actionDoneMsg{err: err}
		}
		return actionDoneMsg{note: "batch printed"}
	}
}

func (m Model) confirmPrintCmd() tea.Cmd {
	rec := m.deps.Reconciler
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
		defer cancel()
		if err := rec.Confirm(ctx); err != nil {
			return actionDoneMsg{err: err}
		}
		return actionDoneMsg{note: "batch confirmed"}
	}
}

func (m Model) toggleAvailabilityCmd(open bool) tea.Cmd {
	client := m.deps.Backend
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
		defer cancel()
		state, err := client.SetAvailability(ctx, open)
		if err != nil {
			return availabilityMsg{err: err}
		}
		return availabilityMsg{open: state}
	}
}

func (m Model) toggleAutoCompleteCmd() tea.Cmd {
	svc := m.deps.Settings
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
		defer cancel()
		enabled, err := svc.ToggleAutoComplete(ctx)
		if err != nil {
			return actionDoneMsg{err: err}
		}
		if enabled {
			return actionDoneMsg{note: "auto-complete on"}
		}
		return actionDoneMsg{note: "auto-complete off"}
	}
}

// visibleForTab 返回当前页签下的订单。
func (m Model) visibleForTab() []order.Order {
	return order.FilterByStatus(m.orders, statusTabs[m.statusTab])
}

// selectedOrder 返回当前选中的订单。
func (m Model) selectedOrder() (order.Order, bool) {
	visible := m.visibleForTab()
	if len(visible) == 0 || m.selectedIdx >= len(visible) {
		return order.Order{}, false
	}
	return visible[m.selectedIdx], true
}
