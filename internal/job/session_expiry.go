package job

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// SessionInspector reports the lifetime of the stored vendor session.
type SessionInspector interface {
	LoggedIn() bool
	ExpiresAt() (time.Time, bool)
}

// SessionExpiryJob warns ahead of the bearer token running out so the
// operator can log in again before polls start failing.
type SessionExpiryJob struct {
	Session SessionInspector
	Within  time.Duration
	Logger  *slog.Logger
}

// NewSessionExpiryJob creates a new SessionExpiryJob.
func NewSessionExpiryJob(session SessionInspector, within time.Duration, logger *slog.Logger) *SessionExpiryJob {
	if logger == nil {
		logger = slog.Default()
	}
	if within <= 0 {
		within = 24 * time.Hour
	}
	return &SessionExpiryJob{Session: session, Within: within, Logger: logger}
}

// Name implements Runnable interface.
func (j *SessionExpiryJob) Name() string {
	return "session.expiry_check"
}

// Run implements Runnable interface.
func (j *SessionExpiryJob) Run(ctx context.Context) error {
	if j == nil || j.Session == nil {
		return fmt.Errorf("session expiry job dependencies not configured / 会话检查任务依赖未配置")
	}
	if !j.Session.LoggedIn() {
		return nil
	}

	expiresAt, ok := j.Session.ExpiresAt()
	if !ok || expiresAt.IsZero() {
		return nil
	}

	remaining := time.Until(expiresAt)
	switch {
	case remaining <= 0:
		j.Logger.Warn("vendor session expired", "expired_at", expiresAt)
	case remaining <= j.Within:
		j.Logger.Warn("vendor session expiring soon", "expires_at", expiresAt, "remaining", remaining)
	}
	return nil
}
