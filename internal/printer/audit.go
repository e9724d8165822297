package printer

import (
	"context"
	"time"

	"github.com/grandstand/vendorboard/internal/repository"
)

// RepoAudit 把打印审计写入本地打印日志表。
type RepoAudit struct {
	Logs repository.PrintLogRepository
}

func (a RepoAudit) RecordPrinted(ctx context.Context, batch []PrintOrder, mode string) error {
	now := time.Now().UTC()
	for _, p := range batch {
		entry := repository.PrintLogEntry{
			OrderID:     p.OrderID,
			TokenNumber: p.TokenNumber,
			Mode:        mode,
			GrandTotal:  p.GrandTotal,
			PrintedAt:   now,
		}
		if err := a.Logs.Insert(ctx, &entry); err != nil {
			return err
		}
	}
	return nil
}
