package store

import (
	"context"
	"database/sql"

	"github.com/cataloro/cataloro-probe/internal/store/migrations"
)

// Store provides access to all storage repositories.
type Store struct {
	db     *sql.DB
	runs   *RunStore
	checks *CheckStore
}

func NewStore(db *sql.DB) *Store {
	qi := NewQueryInterceptor(db)
	return &Store{
		db:     db,
		runs:   NewRunStore(qi),
		checks: NewCheckStore(qi),
	}
}

func (s *Store) Migrate(ctx context.Context) error {
	return migrations.Run(ctx, s.db)
}

func (s *Store) Runs() *RunStore {
	return s.runs
}

func (s *Store) Checks() *CheckStore {
	return s.checks
}

func (s *Store) Close() error {
	return s.db.Close()
}
