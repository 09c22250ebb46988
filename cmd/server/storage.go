package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ogurasousui/leave-clean-arch/internal/adapters/repository/memory"
	"github.com/ogurasousui/leave-clean-arch/internal/adapters/repository/postgres"
	"github.com/ogurasousui/leave-clean-arch/internal/adapters/repository/sqlite"
	"github.com/ogurasousui/leave-clean-arch/internal/core/auth"
	"github.com/ogurasousui/leave-clean-arch/internal/core/leave"
	"github.com/ogurasousui/leave-clean-arch/internal/platform/config"
	pg "github.com/ogurasousui/leave-clean-arch/internal/platform/db/postgres"
	"github.com/ogurasousui/leave-clean-arch/internal/platform/seed"
)

type personStore interface {
	leave.PersonDirectory
	seed.PersonStore
}

type credentialStore interface {
	auth.CredentialStore
	seed.CredentialStore
}

// storage は設定されたドライバーに応じた永続化実装の組です。
type storage struct {
	people      personStore
	credentials credentialStore
	requests    leave.Repository
	tx          leave.TransactionManager
	pinger      interface{ Ping(context.Context) error }
	close       func()
}

func openStorage(ctx context.Context, cfg *config.Config, log *zap.SugaredLogger) (*storage, error) {
	switch cfg.Storage.Driver {
	case config.DriverPostgres:
		pool, err := pg.NewPool(ctx, cfg.Database, log.Named("postgres"))
		if err != nil {
			return nil, err
		}
		return &storage{
			people:      postgres.NewPersonRepository(pool),
			credentials: postgres.NewCredentialRepository(pool),
			requests:    postgres.NewLeaveRequestRepository(pool),
			tx:          pg.NewTransactionManager(pool),
			pinger:      pool,
			close:       pool.Close,
		}, nil
	case config.DriverSQLite:
		store, err := sqlite.New(cfg.Storage.SQLitePath)
		if err != nil {
			return nil, err
		}
		return &storage{
			people:      store,
			credentials: store,
			requests:    store.LeaveRequests(),
			pinger:      store,
			close:       func() { _ = store.Close() },
		}, nil
	case config.DriverMemory:
		store := memory.NewStore()
		return &storage{
			people:      store,
			credentials: store,
			requests:    store.LeaveRequests(),
			pinger:      store,
			close:       func() {},
		}, nil
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.Storage.Driver)
	}
}
