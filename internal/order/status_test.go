package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestActionsFor(t *testing.T) {
	tests := []struct {
		status Status
		want   []Action
	}{
		{StatusPlaced, []Action{ActionAccept, ActionReject}},
		{StatusAccepted, []Action{ActionPrepare}},
		{StatusPreparing, []Action{ActionReady}},
		{StatusReady, nil},
		{StatusCompleted, nil},
		{StatusRejected, nil},
		{StatusCancelled, nil},
		{StatusExpired, nil},
	}
	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.want, ActionsFor(tt.status))
		})
	}
}

func TestIsTerminal(t *testing.T) {
	terminal := []Status{StatusCompleted, StatusRejected, StatusCancelled, StatusExpired}
	for _, s := range terminal {
		assert.True(t, s.IsTerminal(), s)
	}
	active := []Status{StatusPlaced, StatusAccepted, StatusPreparing, StatusReady}
	for _, s := range active {
		assert.False(t, s.IsTerminal(), s)
	}
}

func TestCanApplyForbidsSkippingStates(t *testing.T) {
	// 不允许越级：新订单不能直接备餐或出餐。
	assert.False(t, CanApply(StatusPlaced, ActionPrepare))
	assert.False(t, CanApply(StatusPlaced, ActionReady))
	assert.False(t, CanApply(StatusAccepted, ActionReady))
	// 不允许回退或重复。
	assert.False(t, CanApply(StatusPreparing, ActionAccept))
	assert.False(t, CanApply(StatusReady, ActionReady))
}

func TestNextStatus(t *testing.T) {
	assert.Equal(t, StatusAccepted, NextStatus(ActionAccept))
	assert.Equal(t, StatusRejected, NextStatus(ActionReject))
	assert.Equal(t, StatusPreparing, NextStatus(ActionPrepare))
	assert.Equal(t, StatusReady, NextStatus(ActionReady))
}

func TestVisibleFiltersUnpaidAndExpired(t *testing.T) {
	orders := []Order{
		{OrderID: 1, PaymentStatus: PaymentPaid, OrderStatus: StatusPlaced},
		{OrderID: 2, PaymentStatus: PaymentPending, OrderStatus: StatusPlaced},
		{OrderID: 3, PaymentStatus: PaymentPaid, OrderStatus: StatusExpired},
		{OrderID: 4, PaymentStatus: PaymentPaid, OrderStatus: StatusCompleted},
	}

	visible := Visible(orders)
	ids := make([]int64, 0, len(visible))
	for _, o := range visible {
		ids = append(ids, o.OrderID)
	}
	assert.Equal(t, []int64{1, 4}, ids)

	// 幂等：再过滤一次结果不变。
	assert.Equal(t, visible, Visible(visible))
}

func TestPendingCount(t *testing.T) {
	orders := []Order{
		{OrderID: 1, PaymentStatus: PaymentPaid, OrderStatus: StatusPlaced},
		{OrderID: 2, PaymentStatus: PaymentPaid, OrderStatus: StatusPlaced},
		{OrderID: 3, PaymentStatus: PaymentPending, OrderStatus: StatusPlaced},
		{OrderID: 4, PaymentStatus: PaymentPaid, OrderStatus: StatusAccepted},
	}
	assert.Equal(t, 2, PendingCount(orders))
}
