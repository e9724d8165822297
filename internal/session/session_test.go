package session

import (
	"context"
	"encoding/base64"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grandstand/vendorboard/internal/backend"
	"github.com/grandstand/vendorboard/internal/repository"
	"github.com/grandstand/vendorboard/internal/settings"
)

type memoryRepo struct {
	mu     sync.Mutex
	values map[string]repository.Setting
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{values: make(map[string]repository.Setting)}
}

func (r *memoryRepo) Get(ctx context.Context, key string) (*repository.Setting, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.values[key]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &s, nil
}

func (r *memoryRepo) Upsert(ctx context.Context, setting *repository.Setting) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values[setting.Key] = *setting
	return nil
}

func (r *memoryRepo) Delete(ctx context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.values[key]; !ok {
		return repository.ErrNotFound
	}
	delete(r.values, key)
	return nil
}

func (r *memoryRepo) List(ctx context.Context) ([]repository.Setting, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]repository.Setting, 0, len(r.values))
	for _, s := range r.values {
		out = append(out, s)
	}
	return out, nil
}

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	svc := settings.NewService(newMemoryRepo())
	require.NoError(t, svc.Load(context.Background()))
	return NewManager(svc, nil)
}

// unsignedJWT 拼一个无签名 JWT，只为测试不验签的过期时间读取。
func unsignedJWT(t *testing.T, exp time.Time) string {
	t.Helper()
	enc := base64.RawURLEncoding
	header := enc.EncodeToString([]byte(`{"alg":"none","typ":"JWT"}`))
	payload := enc.EncodeToString([]byte(fmt.Sprintf(`{"exp":%d}`, exp.Unix())))
	return header + "." + payload + "."
}

func TestStoreLoginPersistsEverything(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t)

	require.NoError(t, m.StoreLogin(ctx, "9876543210", &backend.LoginResponse{
		VendorID:    12,
		Name:        "Annapurna Canteen",
		ServiceType: "canteen",
		Token:       "jwt-token",
	}))

	assert.True(t, m.LoggedIn())
	assert.Equal(t, "jwt-token", m.Token())

	profile, ok := m.Profile()
	require.True(t, ok)
	assert.Equal(t, int64(12), profile.VendorID)
	assert.Equal(t, "Annapurna Canteen", profile.Name)
}

func TestProfileMissingWhenNeverLoggedIn(t *testing.T) {
	m := newTestManager(t)

	assert.False(t, m.LoggedIn())
	_, ok := m.Profile()
	assert.False(t, ok)
}

func TestLogoutClearsSessionButKeepsPhone(t *testing.T) {
	ctx := context.Background()
	svc := settings.NewService(newMemoryRepo())
	require.NoError(t, svc.Load(ctx))
	m := NewManager(svc, nil)

	require.NoError(t, m.StoreLogin(ctx, "9876543210", &backend.LoginResponse{Token: "tok"}))
	require.NoError(t, m.Logout(ctx))

	assert.False(t, m.LoggedIn())
	_, ok := m.Profile()
	assert.False(t, ok)
	assert.Equal(t, "9876543210", svc.RememberedPhone())
}

func TestForceLogoutClearsSession(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t)

	require.NoError(t, m.StoreLogin(ctx, "", &backend.LoginResponse{Token: "tok"}))
	m.ForceLogout()

	assert.False(t, m.LoggedIn())
}

func TestExpiresAtReadsClaim(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t)

	exp := time.Now().Add(2 * time.Hour).Truncate(time.Second)
	require.NoError(t, m.StoreLogin(ctx, "", &backend.LoginResponse{Token: unsignedJWT(t, exp)}))

	got, ok := m.ExpiresAt()
	require.True(t, ok)
	assert.True(t, got.Equal(exp), "expected %v, got %v", exp, got)
}

func TestExpiresAtFallbacks(t *testing.T) {
	ctx := context.Background()

	t.Run("no token", func(t *testing.T) {
		m := newTestManager(t)
		_, ok := m.ExpiresAt()
		assert.False(t, ok)
	})

	t.Run("opaque token", func(t *testing.T) {
		m := newTestManager(t)
		require.NoError(t, m.StoreLogin(ctx, "", &backend.LoginResponse{Token: "not-a-jwt"}))
		_, ok := m.ExpiresAt()
		assert.False(t, ok)
	})
}

func TestExpiringSoon(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t)

	require.NoError(t, m.StoreLogin(ctx, "", &backend.LoginResponse{
		Token: unsignedJWT(t, time.Now().Add(time.Hour)),
	}))

	assert.True(t, m.ExpiringSoon(24*time.Hour))
	assert.False(t, m.ExpiringSoon(time.Minute))
}
