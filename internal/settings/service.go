// Package settings 提供持久化的进程级设置：启动时整体加载，
// 每次修改立即写回本地 SQLite，读取一律走内存副本。
package settings

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/grandstand/vendorboard/internal/repository"
)

// 设置键。与浏览器版的 localStorage 键一一对应。
const (
	KeyVendorToken       = "vendor_token"
	KeyVendorInfo        = "vendor_info"
	KeyRememberedPhone   = "remembered_phone"
	KeyPrintAutoComplete = "print_auto_complete"
)

// Service 是设置的读写入口。并发安全。
type Service struct {
	repo repository.SettingRepository

	mu     sync.RWMutex
	values map[string]string
}

// NewService 创建设置服务；调用 Load 之前读取到的都是零值。
func NewService(repo repository.SettingRepository) *Service {
	return &Service{
		repo:   repo,
		values: make(map[string]string),
	}
}

// Load 把全部设置读入内存。启动时调用一次。
func (s *Service) Load(ctx context.Context) error {
	list, err := s.repo.List(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values = make(map[string]string, len(list))
	for _, item := range list {
		s.values[item.Key] = item.Value
	}
	return nil
}

func (s *Service) get(key string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.values[key]
}

func (s *Service) set(ctx context.Context, key, value string) error {
	if err := s.repo.Upsert(ctx, &repository.Setting{
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now().UTC(),
	}); err != nil {
		return err
	}
	s.mu.Lock()
	s.values[key] = value
	s.mu.Unlock()
	return nil
}

func (s *Service) delete(ctx context.Context, key string) error {
	if err := s.repo.Delete(ctx, key); err != nil && !errors.Is(err, repository.ErrNotFound) {
		return err
	}
	s.mu.Lock()
	delete(s.values, key)
	s.mu.Unlock()
	return nil
}

// Token 返回已保存的鉴权令牌，实现 backend.TokenSource。
func (s *Service) Token() string {
	return s.get(KeyVendorToken)
}

// SetToken 保存鉴权令牌；空串等价于清除。
func (s *Service) SetToken(ctx context.Context, token string) error {
	if token == "" {
		return s.delete(ctx, KeyVendorToken)
	}
	return s.set(ctx, KeyVendorToken, token)
}

// VendorInfo 返回缓存的商家档案 JSON，可能为空。
func (s *Service) VendorInfo() string {
	return s.get(KeyVendorInfo)
}

// SetVendorInfo 保存商家档案 JSON。
func (s *Service) SetVendorInfo(ctx context.Context, raw string) error {
	if raw == "" {
		return s.delete(ctx, KeyVendorInfo)
	}
	return s.set(ctx, KeyVendorInfo, raw)
}

// RememberedPhone 返回上次登录用的手机号。
func (s *Service) RememberedPhone() string {
	return s.get(KeyRememberedPhone)
}

// SetRememberedPhone 记住登录手机号。
func (s *Service) SetRememberedPhone(ctx context.Context, phone string) error {
	return s.set(ctx, KeyRememberedPhone, phone)
}

// AutoComplete 返回打印自动完成开关，实现 printer.SettingSource。
func (s *Service) AutoComplete() bool {
	v, err := strconv.ParseBool(s.get(KeyPrintAutoComplete))
	return err == nil && v
}

// SetAutoComplete 设置打印自动完成开关并立即持久化。
func (s *Service) SetAutoComplete(ctx context.Context, on bool) error {
	return s.set(ctx, KeyPrintAutoComplete, strconv.FormatBool(on))
}

// ToggleAutoComplete 翻转开关并返回新值。
func (s *Service) ToggleAutoComplete(ctx context.Context) (bool, error) {
	next := !s.AutoComplete()
	if err := s.SetAutoComplete(ctx, next); err != nil {
		return !next, err
	}
	return next, nil
}

// ClearSession 清除令牌与缓存档案，用于登出与强制下线。
func (s *Service) ClearSession(ctx context.Context) error {
	if err := s.delete(ctx, KeyVendorToken); err != nil {
		return err
	}
	return s.delete(ctx, KeyVendorInfo)
}
