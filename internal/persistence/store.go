package persistence

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/initiative-bkd/petition-service/internal/config"
	"github.com/initiative-bkd/petition-service/internal/repository"
	"github.com/initiative-bkd/petition-service/internal/repository/memory"
	"github.com/initiative-bkd/petition-service/internal/repository/sqlite"
)

// Store bundles the repositories of the selected backend.
type Store struct {
	Driver     string
	Signatures repository.SignatureRepository
	Visits     repository.VisitRepository
	Admins     repository.AdminRepository
	Accounts   repository.AccountRepository

	ping  func(ctx context.Context) error
	close func()
}

// OpenStore connects the backend named by cfg.Store.Driver.
func OpenStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Store, error) {
	switch cfg.Store.Driver {
	case config.StoreDriverPostgres:
		pg, err := NewPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		return &Store{
			Driver:     cfg.Store.Driver,
			Signatures: repository.NewSignatureRepository(pg.Pool),
			Visits:     repository.NewVisitRepository(pg.Pool),
			Admins:     repository.NewAdminRepository(pg.Pool),
			Accounts:   repository.NewAccountRepository(pg.Pool),
			ping:       pg.Ping,
			close:      pg.Close,
		}, nil
	case config.StoreDriverSQLite:
		db, err := sqlite.Open(ctx, cfg.Store.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		logger.Info("opened sqlite store", zap.String("path", cfg.Store.SQLitePath))
		return NewSQLiteStore(db), nil
	case config.StoreDriverMemory:
		logger.Warn("using in-memory store; data is lost on restart")
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

// NewSQLiteStore wraps an already migrated SQLite handle.
func NewSQLiteStore(db *sql.DB) *Store {
	return &Store{
		Driver:     config.StoreDriverSQLite,
		Signatures: sqlite.NewSignatureStore(db),
		Visits:     sqlite.NewVisitStore(db),
		Admins:     sqlite.NewAdminStore(db),
		Accounts:   sqlite.NewAccountStore(db),
		ping:       db.PingContext,
		close:      func() { _ = db.Close() },
	}
}

// NewMemoryStore returns a process-local store.
func NewMemoryStore() *Store {
	return &Store{
		Driver:     config.StoreDriverMemory,
		Signatures: memory.NewSignatureStore(),
		Visits:     memory.NewVisitStore(),
		Admins:     memory.NewAdminStore(),
		Accounts:   memory.NewAccountStore(),
	}
}

// Ping reports whether the backend is reachable.
func (s *Store) Ping(ctx context.Context) error {
	if s == nil {
		return fmt.Errorf("store not configured")
	}
	if s.ping == nil {
		return nil
	}
	return s.ping(ctx)
}

// Close releases backend resources.
func (s *Store) Close() {
	if s != nil && s.close != nil {
		s.close()
	}
}
