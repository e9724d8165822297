package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/grandstand/vendorboard/internal/repository"
)

type printLogRepo struct {
	db *sql.DB
}

func (r *printLogRepo) Insert(ctx context.Context, entry *repository.PrintLogEntry) error {
	const stmt = `INSERT INTO print_log(order_id, token_number, mode, grand_total, printed_at)
                  VALUES(?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, stmt,
		entry.OrderID, entry.TokenNumber, entry.Mode, entry.GrandTotal, entry.PrintedAt)
	if err != nil {
		return err
	}
	if id, err := res.LastInsertId(); err == nil {
		entry.ID = id
	}
	return nil
}

func (r *printLogRepo) ListRecent(ctx context.Context, limit int) ([]repository.PrintLogEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	const query = `SELECT id, order_id, token_number, mode, grand_total, printed_at
                   FROM print_log ORDER BY printed_at DESC, id DESC LIMIT ?`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []repository.PrintLogEntry
	for rows.Next() {
		var e repository.PrintLogEntry
		if err := rows.Scan(&e.ID, &e.OrderID, &e.TokenNumber, &e.Mode, &e.GrandTotal, &e.PrintedAt); err != nil {
			return nil, err
		}
		list = append(list, e)
	}
	return list, rows.Err()
}

func (r *printLogRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	const stmt = `DELETE FROM print_log WHERE printed_at < ?`
	res, err := r.db.ExecContext(ctx, stmt, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
