package printer

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/grandstand/vendorboard/internal/poll"
)

// State 是对账器在一个轮询周期内的阶段。
type State int

const (
	StateIdle State = iota
	StateHasPending
	StatePrinting
	StateAwaitingConfirmation
	StateCompleting
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateHasPending:
		return "has_pending"
	case StatePrinting:
		return "printing"
	case StateAwaitingConfirmation:
		return "awaiting_confirmation"
	case StateCompleting:
		return "completing"
	default:
		return "unknown"
	}
}

// ErrNotAwaiting 表示当前没有等待确认的批次。
var ErrNotAwaiting = errors.New("printer: no batch awaiting confirmation")

// CompletionAPI 是打印完成回执的远端接口。
type CompletionAPI interface {
	MarkPrintComplete(ctx context.Context, orderID int64) error
}

// SettingSource 在打印完成时刻读取自动完成开关。
type SettingSource interface {
	AutoComplete() bool
}

// AuditLog 在本地记录已打印的批次，nil 时跳过。
// 记录失败只告警，不影响对账。
type AuditLog interface {
	RecordPrinted(ctx context.Context, batch []PrintOrder, mode string) error
}

// Stats 接收对账器的计数事件，nil 时跳过。
type Stats interface {
	PrintStarted()
	PrintCompleted(count int)
	CompletionFailed()
}

// Options 组装对账器的依赖。
type Options struct {
	Queue    *poll.Resource[[]PrintOrder]
	API      CompletionAPI
	Printer  Printer
	Settings SettingSource
	Audit    AuditLog
	Stats    Stats
	Logger   *slog.Logger
	// Debounce 是自动模式下进入 HasPending 后到触发打印的延迟，
	// 用来压平紧挨着的重复轮询。
	Debounce time.Duration
}

// Reconciler 驱动打印队列：轮询待打印批次、触发打印动作、
// 按自动/人工策略回执完成，并保证每单恰好确认一次。
type Reconciler struct {
	queue    *poll.Resource[[]PrintOrder]
	api      CompletionAPI
	printer  Printer
	settings SettingSource
	audit    AuditLog
	stats    Stats
	logger   *slog.Logger
	debounce time.Duration

	mu       sync.Mutex
	state    State
	pending  []PrintOrder
	printing bool
	lastErr  error
}

// NewReconciler 创建打印队列对账器。
func NewReconciler(opts Options) *Reconciler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = 1500 * time.Millisecond
	}
	return &Reconciler{
		queue:    opts.Queue,
		api:      opts.API,
		printer:  opts.Printer,
		settings: opts.Settings,
		audit:    opts.Audit,
		stats:    opts.Stats,
		logger:   logger,
		debounce: debounce,
		state:    StateIdle,
	}
}

// Run 消费队列快照直到 ctx 取消。
func (r *Reconciler) Run(ctx context.Context) {
	snapshots := r.queue.Subscribe()
	for {
		select {
		case <-ctx.Done():
			return
		case batch := <-snapshots:
			r.Observe(ctx, batch)
		}
	}
}

// Observe 接收一次队列快照并推进状态机。
// 空转：打印或确认进行中时，快照只更新待打印列表展示，
// 不打断流程。
func (r *Reconciler) Observe(ctx context.Context, batch []PrintOrder) {
	r.mu.Lock()
	switch r.state {
	case StateIdle:
		if len(batch) == 0 {
			r.mu.Unlock()
			return
		}
		r.pending = batch
		r.state = StateHasPending
		auto := r.settings.AutoComplete()
		alreadyPrinting := r.printing
		r.mu.Unlock()

		if auto && !alreadyPrinting {
			// 自动模式：延迟一拍再打，压平紧挨着的重复轮询。
			time.AfterFunc(r.debounce, func() {
				r.autoPrint(ctx)
			})
		}
	case StateHasPending:
		if len(batch) == 0 {
			r.state = StateIdle
			r.pending = nil
		} else {
			r.pending = batch
		}
		r.mu.Unlock()
	default:
		// Printing/Awaiting/Completing：流程以触发时的批次为准。
		r.mu.Unlock()
	}
}

// autoPrint 是防抖到期后的自动触发入口。
func (r *Reconciler) autoPrint(ctx context.Context) {
	r.mu.Lock()
	if r.state != StateHasPending || r.printing || !r.settings.AutoComplete() {
		r.mu.Unlock()
		return
	}
	r.mu.Unlock()
	if err := r.PrintNow(ctx); err != nil {
		r.logger.Warn("auto print cycle failed", "error", err)
	}
}

// PrintNow 触发一次打印。打印动作返回即视为完成事件：
// 自动模式随即批量回执，人工模式转入等待操作员确认。
func (r *Reconciler) PrintNow(ctx context.Context) error {
	r.mu.Lock()
	if r.printing {
		r.mu.Unlock()
		return nil
	}
	if len(r.pending) == 0 {
		r.mu.Unlock()
		return nil
	}
	batch := r.pending
	r.printing = true
	r.state = StatePrinting
	r.lastErr = nil
	r.mu.Unlock()

	if r.stats != nil {
		r.stats.PrintStarted()
	}
	if err := r.printer.Print(ctx, batch); err != nil {
		r.mu.Lock()
		r.printing = false
		r.state = StateHasPending
		r.lastErr = err
		r.mu.Unlock()
		return err
	}

	if r.settings.AutoComplete() {
		return r.complete(ctx, batch, "auto")
	}

	r.mu.Lock()
	r.printing = false
	r.state = StateAwaitingConfirmation
	r.mu.Unlock()
	return nil
}

// Confirm 是人工模式下操作员确认"已打印"的入口。
func (r *Reconciler) Confirm(ctx context.Context) error {
	r.mu.Lock()
	if r.state != StateAwaitingConfirmation {
		r.mu.Unlock()
		return ErrNotAwaiting
	}
	batch := r.pending
	r.mu.Unlock()
	return r.complete(ctx, batch, "manual")
}

// Decline 是人工模式下操作员选择"重试"的入口：
// 不发任何网络请求，队列原样回到 HasPending。
func (r *Reconciler) Decline() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != StateAwaitingConfirmation {
		return ErrNotAwaiting
	}
	r.state = StateHasPending
	return nil
}

// complete 对整批订单并行发送打印完成回执。整批只有全部
// 成功才算已对账：任一失败则回滚乐观清空，等下一轮轮询
// 重新给出仍然待打印的子集；失败后不自动重试。
func (r *Reconciler) complete(ctx context.Context, batch []PrintOrder, mode string) error {
	r.mu.Lock()
	r.state = StateCompleting
	r.mu.Unlock()

	err := r.queue.Mutate(ctx, []PrintOrder{}, func(ctx context.Context) error {
		g, gctx := errgroup.WithContext(ctx)
		for _, id := range OrderIDs(batch) {
			id := id
			g.Go(func() error {
				return r.api.MarkPrintComplete(gctx, id)
			})
		}
		return g.Wait()
	})

	r.mu.Lock()
	r.printing = false
	if err != nil {
		r.state = StateHasPending
		r.lastErr = err
		r.mu.Unlock()
		if r.stats != nil {
			r.stats.CompletionFailed()
		}
		return err
	}
	r.state = StateIdle
	r.pending = nil
	r.lastErr = nil
	r.mu.Unlock()

	if r.stats != nil {
		r.stats.PrintCompleted(len(batch))
	}
	if r.audit != nil {
		if auditErr := r.audit.RecordPrinted(ctx, batch, mode); auditErr != nil {
			r.logger.Warn("print audit record failed", "error", auditErr)
		}
	}
	r.logger.Info("print batch reconciled", "orders", len(batch), "mode", mode)
	return nil
}

// State 返回当前阶段。
func (r *Reconciler) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Pending 返回当前待打印批次的副本。
func (r *Reconciler) Pending() []PrintOrder {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]PrintOrder, len(r.pending))
	copy(out, r.pending)
	return out
}

// Err 返回最近一次打印或回执错误。
func (r *Reconciler) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastErr
}
