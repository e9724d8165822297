package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/grandstand/vendorboard/internal/repository"
)

type settingRepo struct {
	db *sql.DB
}

func (r *settingRepo) Get(ctx context.Context, key string) (*repository.Setting, error) {
	const query = `SELECT key, value, updated_at FROM settings WHERE key = ?`
	row := r.db.QueryRowContext(ctx, query, key)
	var s repository.Setting
	if err := row.Scan(&s.Key, &s.Value, &s.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *settingRepo) Upsert(ctx context.Context, setting *repository.Setting) error {
	const stmt = `INSERT INTO settings(key, value, updated_at) VALUES(?, ?, ?)
                  ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`
	_, err := r.db.ExecContext(ctx, stmt, setting.Key, setting.Value, setting.UpdatedAt)
	return err
}

func (r *settingRepo) Delete(ctx context.Context, key string) error {
	const stmt = `DELETE FROM settings WHERE key = ?`
	_, err := r.db.ExecContext(ctx, stmt, key)
	return err
}

func (r *settingRepo) List(ctx context.Context) ([]repository.Setting, error) {
	const query = `SELECT key, value, updated_at FROM settings ORDER BY key`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []repository.Setting
	for rows.Next() {
		var s repository.Setting
		if err := rows.Scan(&s.Key, &s.Value, &s.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, s)
	}
	return list, rows.Err()
}
