package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetGetRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewStore(Options{DefaultTTL: time.Minute})

	require.NoError(t, s.Set(ctx, "k", 42, 0))
	got, ok := s.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, 42, got)

	_, ok = s.Get(ctx, "missing")
	assert.False(t, ok)
}

func TestExpiryHonoursTTL(t *testing.T) {
	ctx := context.Background()
	s := NewStore(Options{DefaultTTL: time.Minute, CleanupInterval: 10 * time.Millisecond})

	require.NoError(t, s.Set(ctx, "short", "v", 5*time.Millisecond))
	require.Eventually(t, func() bool {
		_, ok := s.Get(ctx, "short")
		return !ok
	}, time.Second, 5*time.Millisecond)
}

func TestJSONRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewStore(Options{DefaultTTL: time.Minute})

	type payload struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}
	require.NoError(t, s.SetJSON(ctx, "p", payload{Name: "thali", Count: 3}, 0))

	var out payload
	ok, err := s.GetJSON(ctx, "p", &out)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, payload{Name: "thali", Count: 3}, out)
}

func TestGetJSONMissAndTypeMismatch(t *testing.T) {
	ctx := context.Background()
	s := NewStore(Options{DefaultTTL: time.Minute})

	var out map[string]string
	ok, err := s.GetJSON(ctx, "missing", &out)
	require.NoError(t, err)
	assert.False(t, ok)

	// 非 JSON 写入的条目按未命中处理。
	require.NoError(t, s.Set(ctx, "raw", 1, 0))
	ok, err = s.GetJSON(ctx, "raw", &out)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNamespaceIsolatesKeys(t *testing.T) {
	ctx := context.Background()
	root := NewStore(Options{DefaultTTL: time.Minute})
	menu := root.Namespace("menu")
	reports := root.Namespace("reports")

	require.NoError(t, menu.Set(ctx, "today", "idli", 0))

	_, ok := reports.Get(ctx, "today")
	assert.False(t, ok)

	got, ok := menu.Get(ctx, "today")
	require.True(t, ok)
	assert.Equal(t, "idli", got)

	// 嵌套命名空间共用同一后端，仅键前缀不同。
	nested := menu.Namespace("veg")
	require.NoError(t, nested.Set(ctx, "today", "dosa", 0))
	got, ok = menu.Get(ctx, "today")
	require.True(t, ok)
	assert.Equal(t, "idli", got)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	s := NewStore(Options{DefaultTTL: time.Minute})

	require.NoError(t, s.Set(ctx, "k", "v", 0))
	s.Delete(ctx, "k")
	_, ok := s.Get(ctx, "k")
	assert.False(t, ok)
}
