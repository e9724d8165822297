package poll

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// FetchFunc 从真相源拉取一份完整的资源快照。
type FetchFunc[T any] func(ctx context.Context) (T, error)

// Observer 接收资源级别的拉取事件，用于指标统计。
type Observer interface {
	FetchSucceeded(name string)
	FetchFailed(name string)
}

// Resource 是一个按固定间隔轮询的缓存条目。
//
// 约束：
//   - 同一资源最多只有一个拉取在途，与在途拉取重叠的
//     定时 tick 被丢弃而不是排队；
//   - Invalidate 触发一次立即重拉，连续多次 Invalidate
//     合并为至多一次额外拉取；
//   - Mutate 以整值替换的方式应用乐观值，失败时整值回滚，
//     读者永远不会看到半应用状态；
//   - 拉取失败保留最近一次成功值，只记录错误。
type Resource[T any] struct {
	name     string
	fetch    FetchFunc[T]
	interval time.Duration
	logger   *slog.Logger
	observer Observer

	mu       sync.Mutex
	value    T
	hasValue bool
	inflight bool
	lastErr  error
	lastSync time.Time
	// gen 在每次"权威写入"（成功拉取或乐观替换）时递增，
	// 用来丢弃过期的拉取结果和过期的回滚。
	gen uint64

	kick chan struct{}
	subs []chan T
}

// Option 配置 Resource 的可选项。
type Option[T any] func(*Resource[T])

// WithLogger 指定日志器。
func WithLogger[T any](logger *slog.Logger) Option[T] {
	return func(r *Resource[T]) { r.logger = logger }
}

// WithObserver 挂接指标观察者。
func WithObserver[T any](obs Observer) Option[T] {
	return func(r *Resource[T]) { r.observer = obs }
}

// NewResource 创建轮询资源；interval 为重拉间隔。
func NewResource[T any](name string, interval time.Duration, fetch FetchFunc[T], opts ...Option[T]) *Resource[T] {
	r := &Resource[T]{
		name:     name,
		fetch:    fetch,
		interval: interval,
		logger:   slog.Default(),
		kick:     make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Name 返回资源的语义键。
func (r *Resource[T]) Name() string { return r.name }

// Run 启动轮询循环：先立即拉取一次，之后按间隔重拉，
// Invalidate 信号触发立即重拉。ctx 取消后不再产生任何拉取。
func (r *Resource[T]) Run(ctx context.Context) {
	r.Refresh(ctx)
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Refresh(ctx)
		case <-r.kick:
			r.Refresh(ctx)
		}
	}
}

// Refresh 同步执行一次拉取。已有拉取在途时直接返回。
func (r *Resource[T]) Refresh(ctx context.Context) {
	r.mu.Lock()
	if r.inflight {
		r.mu.Unlock()
		return
	}
	r.inflight = true
	startGen := r.gen
	r.mu.Unlock()

	value, err := r.fetch(ctx)

	r.mu.Lock()
	r.inflight = false
	if err != nil {
		// 保留最近一次成功值，只标记错误。
		r.lastErr = err
		r.mu.Unlock()
		if r.observer != nil {
			r.observer.FetchFailed(r.name)
		}
		if ctx.Err() == nil {
			r.logger.Warn("poll fetch failed", "resource", r.name, "error", err)
		}
		return
	}
	if r.gen != startGen {
		// 拉取期间发生了乐观替换，结果已过期，丢弃并等待下一轮。
		r.mu.Unlock()
		return
	}
	r.value = value
	r.hasValue = true
	r.lastErr = nil
	r.lastSync = time.Now()
	r.gen++
	subs := r.subs
	r.mu.Unlock()

	if r.observer != nil {
		r.observer.FetchSucceeded(r.name)
	}
	notify(subs, value)
}

// Invalidate 将缓存标记为过期并触发一次立即重拉。
// 多次调用合并，至多引入一次额外的在途拉取。
func (r *Resource[T]) Invalidate() {
	select {
	case r.kick <- struct{}{}:
	default:
	}
}

// Mutate 原子地把缓存值替换为 optimistic，执行 op：
// 成功则 Invalidate 强制以服务端真相回填，失败则回滚快照并返回错误。
func (r *Resource[T]) Mutate(ctx context.Context, optimistic T, op func(ctx context.Context) error) error {
	r.mu.Lock()
	prev := r.value
	hadValue := r.hasValue
	r.value = optimistic
	r.hasValue = true
	r.gen++
	swappedGen := r.gen
	subs := r.subs
	r.mu.Unlock()
	notify(subs, optimistic)

	if err := op(ctx); err != nil {
		r.mu.Lock()
		// 只有在没有更新的权威写入覆盖过乐观值时才回滚。
		if r.gen == swappedGen {
			r.value = prev
			r.hasValue = hadValue
			r.gen++
			subs = r.subs
		} else {
			subs = nil
		}
		r.mu.Unlock()
		if subs != nil && hadValue {
			notify(subs, prev)
		}
		return err
	}
	r.Invalidate()
	return nil
}

// Get 返回最近一次已知值；从未成功拉取时 ok 为 false。
func (r *Resource[T]) Get() (T, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.value, r.hasValue
}

// Err 返回最近一次拉取错误；最近一次成功后为 nil。
func (r *Resource[T]) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastErr
}

// LastSync 返回最近一次成功拉取的时间。
func (r *Resource[T]) LastSync() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastSync
}

// Subscribe 返回一个接收完整快照的通道。通道带缓冲，
// 消费不及时时旧快照被丢弃，订阅者总能赶上最新值。
func (r *Resource[T]) Subscribe() <-chan T {
	ch := make(chan T, 1)
	r.mu.Lock()
	r.subs = append(r.subs, ch)
	if r.hasValue {
		ch <- r.value
	}
	r.mu.Unlock()
	return ch
}

func notify[T any](subs []chan T, value T) {
	for _, ch := range subs {
		select {
		case ch <- value:
		default:
			// 丢弃旧快照，腾出位置放最新值。
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- value:
			default:
			}
		}
	}
}
