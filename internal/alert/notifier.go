package alert

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Decision 说明一次观察之后要不要提醒。
type Decision struct {
	Fire   bool
	Reason string
}

// Decide 是提醒规则的纯函数形态：
//   - 首次观察只记基线，不提醒（prev < 0 表示尚无基线）；
//   - 新订单数超过上次观察、操作员已有过交互、且不在订单
//     视图上时，提醒一次；
//   - 其余情况不提醒（周期性重复提醒由 Notifier 的循环负责）。
func Decide(prev, curr int, hasInteracted, onOrdersView bool) Decision {
	if prev < 0 {
		return Decision{Reason: "baseline"}
	}
	if curr <= prev {
		return Decision{Reason: "no new orders"}
	}
	if !hasInteracted {
		return Decision{Reason: "no interaction yet"}
	}
	if onOrdersView {
		return Decision{Reason: "already on orders view"}
	}
	return Decision{Fire: true, Reason: "new orders arrived"}
}

// Sounder 播放一次提示音。播放失败属于尽力而为的副作用，
// 绝不允许阻塞或拖垮调用方。
type Sounder interface {
	Play() error
}

// SounderFunc 把函数适配成 Sounder。
type SounderFunc func() error

func (f SounderFunc) Play() error { return f() }

// Stats 统计提醒次数。
type Stats interface {
	AlertFired()
}

// Notifier 观察待接单数量随时间的变化并触发提醒。
// 它只产生提醒这一种副作用，从不改动订单或打印状态。
type Notifier struct {
	sounder Sounder
	logger  *slog.Logger
	remind  time.Duration
	stats   Stats

	mu            sync.Mutex
	prevCount     int
	hasBaseline   bool
	hasInteracted bool
	onOrdersView  bool
	pendingCount  int
	indicator     bool
}

// NewNotifier 创建提醒器；remind 是待接单非零期间的重复提醒周期。
func NewNotifier(sounder Sounder, remind time.Duration, logger *slog.Logger) *Notifier {
	if logger == nil {
		logger = slog.Default()
	}
	if remind <= 0 {
		remind = 30 * time.Second
	}
	return &Notifier{sounder: sounder, remind: remind, logger: logger}
}

// SetStats 绑定指标统计，可为空。
func (n *Notifier) SetStats(stats Stats) {
	n.mu.Lock()
	n.stats = stats
	n.mu.Unlock()
}

// MarkInteracted 记录操作员已与界面交互过。
func (n *Notifier) MarkInteracted() {
	n.mu.Lock()
	n.hasInteracted = true
	n.mu.Unlock()
}

// SetOnOrdersView 记录操作员当前是否停留在订单视图。
func (n *Notifier) SetOnOrdersView(on bool) {
	n.mu.Lock()
	n.onOrdersView = on
	if on {
		n.indicator = false
	}
	n.mu.Unlock()
}

// Observe 接收一次轮询得到的待接单数量，按规则判定是否提醒。
func (n *Notifier) Observe(count int) {
	n.mu.Lock()
	prev := -1
	if n.hasBaseline {
		prev = n.prevCount
	}
	decision := Decide(prev, count, n.hasInteracted, n.onOrdersView)
	n.prevCount = count
	n.hasBaseline = true
	n.pendingCount = count
	if count == 0 {
		n.indicator = false
	}
	if decision.Fire {
		n.indicator = true
	}
	n.mu.Unlock()

	if decision.Fire {
		n.fire("delta")
	}
}

// Run 驱动重复提醒：待接单数保持非零且操作员已交互时，
// 每个 remind 周期提醒一次，直到数量归零。
func (n *Notifier) Run(ctx context.Context) {
	ticker := time.NewTicker(n.remind)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n.mu.Lock()
			due := n.pendingCount > 0 && n.hasInteracted && !n.onOrdersView
			if due {
				n.indicator = true
			}
			n.mu.Unlock()
			if due {
				n.fire("reminder")
			}
		}
	}
}

// Indicator 返回视觉提醒标志的当前值，进入订单视图后清除。
func (n *Notifier) Indicator() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.indicator
}

func (n *Notifier) fire(kind string) {
	n.mu.Lock()
	stats := n.stats
	n.mu.Unlock()
	if stats != nil {
		stats.AlertFired()
	}
	if n.sounder != nil {
		if err := n.sounder.Play(); err != nil {
			// 提示音失败不往外传播。
			n.logger.Debug("alert sound failed", "error", err)
		}
	}
	n.logger.Info("new order alert", "kind", kind)
}
