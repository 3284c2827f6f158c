package backend

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jhoicas/campus-store/internal/application/store"
	"github.com/jhoicas/campus-store/internal/domain/repository"
	"github.com/jhoicas/campus-store/internal/infrastructure/badgerstore"
	"github.com/jhoicas/campus-store/internal/infrastructure/postgres"
	"github.com/jhoicas/campus-store/pkg/config"
)

// Backend almacenamiento del libro seleccionado por STORE_DRIVER.
type Backend struct {
	Driver string
	Runner store.TxRunner
	Repos  store.Repositories
	Users  repository.UserRepository
	close  func()
}

// Close libera el pool o la base embebida.
func (b *Backend) Close() {
	if b.close != nil {
		b.close()
	}
}

// Open abre PostgreSQL (con migraciones si DB_AUTO_MIGRATE) o badger según la configuración.
func Open(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Backend, error) {
	switch cfg.Store.Driver {
	case config.DriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		if cfg.DB.AutoMigrate {
			if err := postgres.Migrate(ctx, pool, log); err != nil {
				pool.Close()
				return nil, fmt.Errorf("migraciones: %w", err)
			}
		}
		return &Backend{
			Driver: cfg.Store.Driver,
			Runner: postgres.NewTxRunner(pool, cfg.Store.LockTimeout),
			Repos:  postgres.NewRepositories(pool),
			Users:  postgres.NewUserRepository(pool),
			close:  pool.Close,
		}, nil

	case config.DriverBadger:
		db, err := badgerstore.Open(cfg.Store.BadgerDir, log)
		if err != nil {
			return nil, fmt.Errorf("abrir badger: %w", err)
		}
		return &Backend{
			Driver: cfg.Store.Driver,
			Runner: badgerstore.NewTxRunner(db),
			Repos:  db.Repositories(),
			Users:  badgerstore.NewUserRepository(db),
			close: func() {
				if err := db.Close(); err != nil {
					log.Error().Err(err).Msg("cerrar badger")
				}
			},
		}, nil
	}
	return nil, fmt.Errorf("driver de almacenamiento desconocido %q", cfg.Store.Driver)
}

// StoreConfig traduce la configuración de la app a la del libro.
func StoreConfig(cfg *config.Config) store.Config {
	return store.Config{
		LockTimeout:       cfg.Store.LockTimeout,
		EnforceThresholds: cfg.Store.EnforceThresholds,
		ItemPrefix:        cfg.Store.ItemPrefix,
		TransactionPrefix: cfg.Store.TransactionPrefix,
		RequestPrefix:     cfg.Store.RequestPrefix,
	}
}
