package cmd

import (
	"context"
	"fmt"

	"github.com/cataloro/cataloro-probe/internal/store"
)

// openStore opens and migrates the history database. It returns nil when
// history is disabled.
func (a *app) openStore(ctx context.Context) (*store.Store, error) {
	if a.cfg.Store.Disabled {
		return nil, nil
	}

	db, err := store.NewDB(a.cfg.Store.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database %s: %w", a.cfg.Store.Path, err)
	}

	st := store.NewStore(db)
	if err := st.Migrate(ctx); err != nil {
		st.Close()
		return nil, fmt.Errorf("failed to migrate history database: %w", err)
	}
	return st, nil
}

// mustStore is openStore for the history commands, which need the database.
func (a *app) mustStore(ctx context.Context) (*store.Store, error) {
	if a.cfg.Store.Disabled {
		return nil, fmt.Errorf("run history is disabled")
	}
	return a.openStore(ctx)
}
