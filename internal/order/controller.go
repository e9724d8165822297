package order

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/grandstand/vendorboard/internal/poll"
)

var (
	// ErrEmptyReason 表示拒单理由为空；校验在任何网络调用之前完成。
	ErrEmptyReason = errors.New("order: reject reason is required")
	// ErrInvalidAction 表示该操作在订单当前状态下不可用。
	ErrInvalidAction = errors.New("order: action not available in current status")
	// ErrUnknownOrder 表示订单不在当前可见列表中。
	ErrUnknownOrder = errors.New("order: order not found in live list")
	// ErrTransitionInFlight 表示该订单已有一次流转在途。
	ErrTransitionInFlight = errors.New("order: a transition for this order is already in flight")
)

// API 是四个状态流转端点的远端接口。
type API interface {
	AcceptOrder(ctx context.Context, orderID int64) error
	RejectOrder(ctx context.Context, orderID int64, reason string) error
	MarkPreparing(ctx context.Context, orderID int64) error
	MarkReady(ctx context.Context, orderID int64) error
}

// Stats 接收流转计数事件，nil 时跳过。
type Stats interface {
	TransitionApplied(action string)
	TransitionFailed(action string)
}

// Controller 在订单列表缓存之上应用操作员动作。
//
// 正确性取舍：流转成功后不做乐观状态改写，只失效 "orders"
// 缓存强制回源——服务端才是流转合法性的唯一仲裁者（另一位
// 操作员或超时可能已经改过状态），客户端把自己的动作只当作
// 一次刷新的触发器。
type Controller struct {
	orders *poll.Resource[[]Order]
	api    API
	stats  Stats
	logger *slog.Logger

	mu    sync.Mutex
	inFly map[int64]bool
}

// NewController 创建生命周期控制器。
func NewController(orders *poll.Resource[[]Order], api API, stats Stats, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		orders: orders,
		api:    api,
		stats:  stats,
		logger: logger,
		inFly:  make(map[int64]bool),
	}
}

// Accept 接单：ORDER_PLACED → ACCEPTED。
func (c *Controller) Accept(ctx context.Context, orderID int64) error {
	return c.transition(ctx, orderID, ActionAccept, "")
}

// Reject 拒单：ORDER_PLACED → REJECTED，必须给出非空理由。
func (c *Controller) Reject(ctx context.Context, orderID int64, reason string) error {
	if strings.TrimSpace(reason) == "" {
		return ErrEmptyReason
	}
	return c.transition(ctx, orderID, ActionReject, reason)
}

// Prepare 开始备餐：ACCEPTED → PREPARING。
func (c *Controller) Prepare(ctx context.Context, orderID int64) error {
	return c.transition(ctx, orderID, ActionPrepare, "")
}

// Ready 出餐完成：PREPARING → READY。
func (c *Controller) Ready(ctx context.Context, orderID int64) error {
	return c.transition(ctx, orderID, ActionReady, "")
}

// Apply 按名称分发一次动作，供 CLI 与 TUI 复用。
func (c *Controller) Apply(ctx context.Context, orderID int64, action Action, reason string) error {
	switch action {
	case ActionAccept:
		return c.Accept(ctx, orderID)
	case ActionReject:
		return c.Reject(ctx, orderID, reason)
	case ActionPrepare:
		return c.Prepare(ctx, orderID)
	case ActionReady:
		return c.Ready(ctx, orderID)
	default:
		return fmt.Errorf("order: unknown action %q", action)
	}
}

func (c *Controller) transition(ctx context.Context, orderID int64, action Action, reason string) error {
	// 先做本地校验：状态机不允许的动作不发网络请求。
	if snapshot, ok := c.orders.Get(); ok {
		found := false
		for _, o := range Visible(snapshot) {
			if o.OrderID != orderID {
				continue
			}
			found = true
			if !CanApply(o.OrderStatus, action) {
				return fmt.Errorf("%w: %s on %s", ErrInvalidAction, action, o.OrderStatus)
			}
			break
		}
		if !found {
			return ErrUnknownOrder
		}
	}

	c.mu.Lock()
	if c.inFly[orderID] {
		c.mu.Unlock()
		return ErrTransitionInFlight
	}
	c.inFly[orderID] = true
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		delete(c.inFly, orderID)
		c.mu.Unlock()
	}()

	var err error
	switch action {
	case ActionAccept:
		err = c.api.AcceptOrder(ctx, orderID)
	case ActionReject:
		err = c.api.RejectOrder(ctx, orderID, reason)
	case ActionPrepare:
		err = c.api.MarkPreparing(ctx, orderID)
	case ActionReady:
		err = c.api.MarkReady(ctx, orderID)
	}
	if err != nil {
		if c.stats != nil {
			c.stats.TransitionFailed(string(action))
		}
		return fmt.Errorf("apply %s to order %d: %w", action, orderID, err)
	}

	if c.stats != nil {
		c.stats.TransitionApplied(string(action))
	}
	c.logger.Info("order transition applied", "order", orderID, "action", action)
	c.orders.Invalidate()
	return nil
}

// InFlight 判断某订单是否有流转在途，供界面禁用按钮。
func (c *Controller) InFlight(orderID int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inFly[orderID]
}
