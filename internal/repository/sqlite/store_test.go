package sqlite

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grandstand/vendorboard/internal/bootstrap"
	"github.com/grandstand/vendorboard/internal/migrations"
	"github.com/grandstand/vendorboard/internal/repository"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := bootstrap.OpenSQLite(filepath.Join(t.TempDir(), "vendorboard.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, migrations.Up(db))
	return NewStore(db)
}

func TestSettingUpsertAndGet(t *testing.T) {
	ctx := context.Background()
	repo := newTestStore(t).Settings()

	now := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, repo.Upsert(ctx, &repository.Setting{
		Key: "vendor_token", Value: "tok-1", UpdatedAt: now,
	}))

	got, err := repo.Get(ctx, "vendor_token")
	require.NoError(t, err)
	assert.Equal(t, "tok-1", got.Value)

	// 同键再写覆盖旧值。
	require.NoError(t, repo.Upsert(ctx, &repository.Setting{
		Key: "vendor_token", Value: "tok-2", UpdatedAt: now.Add(time.Minute),
	}))
	got, err = repo.Get(ctx, "vendor_token")
	require.NoError(t, err)
	assert.Equal(t, "tok-2", got.Value)
}

func TestSettingGetMissing(t *testing.T) {
	repo := newTestStore(t).Settings()

	_, err := repo.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestSettingDeleteAndList(t *testing.T) {
	ctx := context.Background()
	repo := newTestStore(t).Settings()

	now := time.Now().UTC()
	for _, key := range []string{"b", "a", "c"} {
		require.NoError(t, repo.Upsert(ctx, &repository.Setting{Key: key, Value: key, UpdatedAt: now}))
	}
	require.NoError(t, repo.Delete(ctx, "b"))
	require.NoError(t, repo.Delete(ctx, "missing"), "deleting a missing key is a no-op")

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "a", list[0].Key)
	assert.Equal(t, "c", list[1].Key)
}

func TestPrintLogInsertAssignsID(t *testing.T) {
	ctx := context.Background()
	repo := newTestStore(t).PrintLogs()

	entry := &repository.PrintLogEntry{
		OrderID:     901,
		TokenNumber: 37,
		Mode:        "auto",
		GrandTotal:  255.50,
		PrintedAt:   time.Now().UTC(),
	}
	require.NoError(t, repo.Insert(ctx, entry))
	assert.Positive(t, entry.ID)
}

func TestPrintLogListRecentOrdersNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := newTestStore(t).PrintLogs()

	base := time.Now().UTC().Truncate(time.Second)
	for i := 0; i < 5; i++ {
		require.NoError(t, repo.Insert(ctx, &repository.PrintLogEntry{
			OrderID:     int64(100 + i),
			TokenNumber: i,
			Mode:        "manual",
			PrintedAt:   base.Add(time.Duration(i) * time.Minute),
		}))
	}

	list, err := repo.ListRecent(ctx, 3)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, int64(104), list[0].OrderID)
	assert.Equal(t, int64(102), list[2].OrderID)
}

func TestPrintLogListRecentDefaultLimit(t *testing.T) {
	ctx := context.Background()
	repo := newTestStore(t).PrintLogs()

	require.NoError(t, repo.Insert(ctx, &repository.PrintLogEntry{OrderID: 1, PrintedAt: time.Now().UTC()}))

	list, err := repo.ListRecent(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestPrintLogDeleteOlderThan(t *testing.T) {
	ctx := context.Background()
	repo := newTestStore(t).PrintLogs()

	now := time.Now().UTC()
	for _, age := range []time.Duration{-40 * 24 * time.Hour, -35 * 24 * time.Hour, -time.Hour} {
		require.NoError(t, repo.Insert(ctx, &repository.PrintLogEntry{
			OrderID:   1,
			PrintedAt: now.Add(age),
		}))
	}

	deleted, err := repo.DeleteOlderThan(ctx, now.AddDate(0, 0, -30))
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	list, err := repo.ListRecent(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestMigrationsDownRollsBack(t *testing.T) {
	db, err := bootstrap.OpenSQLite(filepath.Join(t.TempDir(), "vendorboard.db"))
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, migrations.Up(db))
	require.NoError(t, migrations.Down(db))

	var name sql.NullString
	err = db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name='settings'`).Scan(&name)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}
