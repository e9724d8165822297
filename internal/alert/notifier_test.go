package alert

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecide(t *testing.T) {
	tests := []struct {
		name          string
		prev, curr    int
		hasInteracted bool
		onOrdersView  bool
		wantFire      bool
	}{
		{"first observation is baseline only", -1, 5, true, false, false},
		{"no change", 2, 2, true, false, false},
		{"count decreased", 3, 1, true, false, false},
		{"new orders fire", 1, 3, true, false, true},
		{"no interaction yet suppresses", 1, 3, false, false, false},
		{"on orders view suppresses", 1, 3, true, true, false},
		{"baseline with zero then growth", 0, 1, true, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Decide(tt.prev, tt.curr, tt.hasInteracted, tt.onOrdersView)
			assert.Equal(t, tt.wantFire, d.Fire, d.Reason)
		})
	}
}

type countingSounder struct {
	mu    sync.Mutex
	plays int
}

func (s *countingSounder) Play() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.plays++
	return nil
}

func (s *countingSounder) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.plays
}

func TestNotifierBaselineSuppressesStartupBurst(t *testing.T) {
	snd := &countingSounder{}
	n := NewNotifier(snd, 0, nil)
	n.MarkInteracted()

	// 启动时已有 5 单待接：只记基线，不响铃。
	n.Observe(5)
	assert.Zero(t, snd.count())

	// 数量增长才提醒。
	n.Observe(6)
	assert.Equal(t, 1, snd.count())
}

func TestNotifierSuppressedOnOrdersView(t *testing.T) {
	snd := &countingSounder{}
	n := NewNotifier(snd, 0, nil)
	n.MarkInteracted()
	n.SetOnOrdersView(true)

	n.Observe(0)
	n.Observe(2)
	assert.Zero(t, snd.count())

	// 离开订单视图后新订单再提醒。
	n.SetOnOrdersView(false)
	n.Observe(4)
	assert.Equal(t, 1, snd.count())
}

func TestIndicatorClearsOnOrdersViewEntry(t *testing.T) {
	snd := &countingSounder{}
	n := NewNotifier(snd, 0, nil)
	n.MarkInteracted()

	n.Observe(0)
	n.Observe(1)
	assert.True(t, n.Indicator())

	n.SetOnOrdersView(true)
	assert.False(t, n.Indicator())
}

func TestIndicatorClearsWhenQueueDrains(t *testing.T) {
	snd := &countingSounder{}
	n := NewNotifier(snd, 0, nil)
	n.MarkInteracted()

	n.Observe(0)
	n.Observe(2)
	assert.True(t, n.Indicator())

	n.Observe(0)
	assert.False(t, n.Indicator())
}

type countingAlertStats struct {
	mu    sync.Mutex
	fired int
}

func (s *countingAlertStats) AlertFired() {
	s.mu.Lock()
	s.fired++
	s.mu.Unlock()
}

func TestNotifierReportsStats(t *testing.T) {
	snd := &countingSounder{}
	stats := &countingAlertStats{}
	n := NewNotifier(snd, 0, nil)
	n.SetStats(stats)
	n.MarkInteracted()

	n.Observe(0)
	n.Observe(1)
	assert.Equal(t, 1, stats.fired)
}

func TestNotifierWithoutInteractionNeverFires(t *testing.T) {
	snd := &countingSounder{}
	n := NewNotifier(snd, time.Millisecond, nil)

	n.Observe(0)
	n.Observe(3)
	assert.Zero(t, snd.count())
	assert.False(t, n.Indicator())

	// 重复提醒循环同样被交互门挡住。
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	n.Run(ctx)
	assert.Zero(t, snd.count())
}

// 无界面模式在启动时调用一次 MarkInteracted，增量与重复提醒
// 从第一轮轮询起就能触发。
func TestNotifierStartupInteractionEnablesAlerts(t *testing.T) {
	snd := &countingSounder{}
	n := NewNotifier(snd, time.Millisecond, nil)
	n.MarkInteracted()

	n.Observe(0)
	n.Observe(3)
	assert.Equal(t, 1, snd.count())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go n.Run(ctx)
	require.Eventually(t, func() bool {
		return snd.count() >= 3
	}, time.Second, time.Millisecond, "reminder loop should keep firing while orders wait")
}

func TestSounderErrorIsSwallowed(t *testing.T) {
	n := NewNotifier(SounderFunc(func() error {
		return assert.AnError
	}), 0, nil)
	n.MarkInteracted()

	n.Observe(0)
	// 播放失败不 panic 也不向外传播。
	n.Observe(3)
	assert.True(t, n.Indicator())
}
