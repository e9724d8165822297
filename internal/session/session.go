// Package session 管理商家登录态：令牌与档案的持久化、
// 过期预警，以及 401/403 触发的强制下线。
package session

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/grandstand/vendorboard/internal/backend"
	"github.com/grandstand/vendorboard/internal/settings"
)

// Manager 是登录态的读写入口。
type Manager struct {
	settings *settings.Service
	logger   *slog.Logger
}

// NewManager 创建会话管理器。
func NewManager(s *settings.Service, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{settings: s, logger: logger}
}

// Token 返回当前令牌，实现 backend.TokenSource。
func (m *Manager) Token() string {
	return m.settings.Token()
}

// LoggedIn 判断是否存在已保存的令牌。
func (m *Manager) LoggedIn() bool {
	return m.settings.Token() != ""
}

// StoreLogin 保存一次成功登录的产物：令牌、档案缓存与手机号。
func (m *Manager) StoreLogin(ctx context.Context, phone string, resp *backend.LoginResponse) error {
	if err := m.settings.SetToken(ctx, resp.Token); err != nil {
		return err
	}
	info, err := json.Marshal(resp)
	if err == nil {
		if err := m.settings.SetVendorInfo(ctx, string(info)); err != nil {
			return err
		}
	}
	if phone != "" {
		if err := m.settings.SetRememberedPhone(ctx, phone); err != nil {
			return err
		}
	}
	return nil
}

// Profile 返回缓存的登录档案；没有缓存时 ok 为 false。
func (m *Manager) Profile() (*backend.LoginResponse, bool) {
	raw := m.settings.VendorInfo()
	if raw == "" {
		return nil, false
	}
	var resp backend.LoginResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		return nil, false
	}
	return &resp, true
}

// ExpiresAt 解析令牌里的过期时间。令牌由后端签发与校验，
// 这里只做不验签的读取，用于提前提示续期。
func (m *Manager) ExpiresAt() (time.Time, bool) {
	token := m.settings.Token()
	if token == "" {
		return time.Time{}, false
	}
	claims := jwt.RegisteredClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

// ExpiringSoon 判断令牌是否将在 within 内过期。
func (m *Manager) ExpiringSoon(within time.Duration) bool {
	exp, ok := m.ExpiresAt()
	if !ok {
		return false
	}
	return time.Until(exp) < within
}

// Logout 清除本地登录态。
func (m *Manager) Logout(ctx context.Context) error {
	return m.settings.ClearSession(ctx)
}

// ForceLogout 是 401/403 的全局处理：清除登录态并记录原因。
// 不做任何部分会话恢复。
func (m *Manager) ForceLogout() {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := m.settings.ClearSession(ctx); err != nil {
		m.logger.Error("force logout: clear session failed", "error", err)
		return
	}
	m.logger.Warn("session invalidated by backend, logged out")
}
