package sqlite

import (
	"database/sql"

	"github.com/grandstand/vendorboard/internal/repository"
)

// Store wires SQLite-backed repository implementations.
type Store struct {
	db        *sql.DB
	settings  repository.SettingRepository
	printLogs repository.PrintLogRepository
}

// NewStore constructs a SQLite-backed repository store.
func NewStore(db *sql.DB) *Store {
	return &Store{
		db:        db,
		settings:  &settingRepo{db: db},
		printLogs: &printLogRepo{db: db},
	}
}

func (s *Store) Settings() repository.SettingRepository {
	return s.settings
}

func (s *Store) PrintLogs() repository.PrintLogRepository {
	return s.printLogs
}
