package app

import (
	"context"
	"fmt"

	"github.com/haulmatch/taxadmin/internal/admin/store"
	"github.com/haulmatch/taxadmin/internal/admin/store/drivers/postgres"
	"github.com/haulmatch/taxadmin/internal/admin/store/drivers/sqlite"
)

// OpenStore connects the configured driver and applies pending migrations.
func OpenStore(ctx context.Context, cfg Config) (store.Store, error) {
	var (
		st  store.Store
		err error
	)

	switch cfg.DatabaseDriver {
	case DriverPostgres:
		st, err = postgres.NewStore(ctx, cfg.DatabaseURL)
	default:
		st, err = sqlite.NewStore(fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", cfg.DatabaseFile))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to initialize %s database: %w", cfg.DatabaseDriver, err)
	}

	if err := st.ApplyMigrations(); err != nil {
		_ = st.Close()
		return nil, fmt.Errorf("failed to apply database migrations: %w", err)
	}
	return st, nil
}
