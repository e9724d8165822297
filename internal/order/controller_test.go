package order

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grandstand/vendorboard/internal/poll"
)

type fakeAPI struct {
	mu       sync.Mutex
	accepts  []int64
	rejects  map[int64]string
	prepares []int64
	readies  []int64
	err      error
	block    chan struct{}
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{rejects: make(map[int64]string)}
}

func (f *fakeAPI) AcceptOrder(ctx context.Context, id int64) error {
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.accepts = append(f.accepts, id)
	return f.err
}

func (f *fakeAPI) RejectOrder(ctx context.Context, id int64, reason string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rejects[id] = reason
	return f.err
}

func (f *fakeAPI) MarkPreparing(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prepares = append(f.prepares, id)
	return f.err
}

func (f *fakeAPI) MarkReady(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.readies = append(f.readies, id)
	return f.err
}

func (f *fakeAPI) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.accepts) + len(f.rejects) + len(f.prepares) + len(f.readies)
}

func ordersResource(t *testing.T, orders []Order) *poll.Resource[[]Order] {
	t.Helper()
	r := poll.NewResource("orders", time.Minute, func(ctx context.Context) ([]Order, error) {
		return orders, nil
	})
	r.Refresh(context.Background())
	return r
}

func placed(id int64) Order {
	return Order{OrderID: id, PaymentStatus: PaymentPaid, OrderStatus: StatusPlaced}
}

func TestAcceptHappyPath(t *testing.T) {
	api := newFakeAPI()
	res := ordersResource(t, []Order{placed(11)})
	ctrl := NewController(res, api, nil, nil)

	require.NoError(t, ctrl.Accept(context.Background(), 11))
	assert.Equal(t, []int64{11}, api.accepts)
}

func TestRejectRequiresReasonBeforeNetwork(t *testing.T) {
	api := newFakeAPI()
	res := ordersResource(t, []Order{placed(5)})
	ctrl := NewController(res, api, nil, nil)

	err := ctrl.Reject(context.Background(), 5, "   ")
	assert.ErrorIs(t, err, ErrEmptyReason)
	assert.Zero(t, api.callCount(), "validation failure must not reach the API")

	require.NoError(t, ctrl.Reject(context.Background(), 5, "out of stock"))
	assert.Equal(t, "out of stock", api.rejects[5])
}

func TestInvalidActionSkipsNetwork(t *testing.T) {
	api := newFakeAPI()
	res := ordersResource(t, []Order{
		{OrderID: 1, PaymentStatus: PaymentPaid, OrderStatus: StatusReady},
	})
	ctrl := NewController(res, api, nil, nil)

	err := ctrl.Accept(context.Background(), 1)
	assert.ErrorIs(t, err, ErrInvalidAction)
	assert.Zero(t, api.callCount())
}

func TestUnknownOrderRejected(t *testing.T) {
	api := newFakeAPI()
	res := ordersResource(t, []Order{placed(1)})
	ctrl := NewController(res, api, nil, nil)

	err := ctrl.Accept(context.Background(), 999)
	assert.ErrorIs(t, err, ErrUnknownOrder)
	assert.Zero(t, api.callCount())
}

func TestUnpaidOrderIsInvisibleToActions(t *testing.T) {
	api := newFakeAPI()
	res := ordersResource(t, []Order{
		{OrderID: 8, PaymentStatus: PaymentPending, OrderStatus: StatusPlaced},
	})
	ctrl := NewController(res, api, nil, nil)

	err := ctrl.Accept(context.Background(), 8)
	assert.ErrorIs(t, err, ErrUnknownOrder)
}

func TestTransitionInFlightGuard(t *testing.T) {
	api := newFakeAPI()
	api.block = make(chan struct{})
	res := ordersResource(t, []Order{placed(3)})
	ctrl := NewController(res, api, nil, nil)

	done := make(chan error, 1)
	go func() {
		done <- ctrl.Accept(context.Background(), 3)
	}()

	require.Eventually(t, func() bool {
		return ctrl.InFlight(3)
	}, time.Second, 5*time.Millisecond)

	err := ctrl.Accept(context.Background(), 3)
	assert.ErrorIs(t, err, ErrTransitionInFlight)

	close(api.block)
	require.NoError(t, <-done)
	assert.False(t, ctrl.InFlight(3))
}

func TestFailedTransitionPropagatesError(t *testing.T) {
	api := newFakeAPI()
	api.err = errors.New("backend says no")
	res := ordersResource(t, []Order{placed(2)})

	stats := &recordingStats{}
	ctrl := NewController(res, api, stats, nil)

	err := ctrl.Accept(context.Background(), 2)
	require.Error(t, err)
	assert.Equal(t, []string{"accept"}, stats.failed)
	assert.Empty(t, stats.applied)
}

func TestApplyDispatches(t *testing.T) {
	api := newFakeAPI()
	res := ordersResource(t, []Order{
		{OrderID: 1, PaymentStatus: PaymentPaid, OrderStatus: StatusAccepted},
	})
	ctrl := NewController(res, api, nil, nil)

	require.NoError(t, ctrl.Apply(context.Background(), 1, ActionPrepare, ""))
	assert.Equal(t, []int64{1}, api.prepares)

	err := ctrl.Apply(context.Background(), 1, Action("teleport"), "")
	assert.Error(t, err)
}

type recordingStats struct {
	applied []string
	failed  []string
}

func (s *recordingStats) TransitionApplied(action string) { s.applied = append(s.applied, action) }
func (s *recordingStats) TransitionFailed(action string)  { s.failed = append(s.failed, action) }
