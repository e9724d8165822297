package repository

import (
	"context"
	"time"
)

// SettingRepository 读写本地键值设置。
type SettingRepository interface {
	Get(ctx context.Context, key string) (*Setting, error)
	Upsert(ctx context.Context, setting *Setting) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) ([]Setting, error)
}

// PrintLogRepository 读写本地打印审计记录。
type PrintLogRepository interface {
	Insert(ctx context.Context, entry *PrintLogEntry) error
	ListRecent(ctx context.Context, limit int) ([]PrintLogEntry, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
