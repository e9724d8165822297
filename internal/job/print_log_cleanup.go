package job

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/grandstand/vendorboard/internal/repository"
)

// PrintLogCleanupJob prunes print audit rows past the retention window.
type PrintLogCleanupJob struct {
	Logs          repository.PrintLogRepository
	RetentionDays int
	Logger        *slog.Logger
}

// NewPrintLogCleanupJob creates a new PrintLogCleanupJob.
func NewPrintLogCleanupJob(logs repository.PrintLogRepository, retentionDays int, logger *slog.Logger) *PrintLogCleanupJob {
	if logger == nil {
		logger = slog.Default()
	}
	if retentionDays <= 0 {
		retentionDays = 30
	}
	return &PrintLogCleanupJob{
		Logs:          logs,
		RetentionDays: retentionDays,
		Logger:        logger,
	}
}

// Name implements Runnable interface.
func (j *PrintLogCleanupJob) Name() string {
	return "print_log.cleanup"
}

// Run implements Runnable interface.
func (j *PrintLogCleanupJob) Run(ctx context.Context) error {
	if j == nil || j.Logs == nil {
		return fmt.Errorf("print log cleanup job dependencies not configured / 打印日志清理任务依赖未配置")
	}

	cutoff := time.Now().AddDate(0, 0, -j.RetentionDays)
	deleted, err := j.Logs.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("print log cleanup job: %w", err)
	}

	if deleted > 0 {
		j.Logger.Info("cleaned up old print logs", "deleted_rows", deleted, "cutoff", cutoff)
	}

	return nil
}
