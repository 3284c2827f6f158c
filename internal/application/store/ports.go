package store

import (
	"context"
	"time"

	"github.com/jhoicas/campus-store/internal/domain/entity"
	"github.com/jhoicas/campus-store/internal/domain/repository"
	ledger "github.com/jhoicas/campus-store/internal/domain/store"
)

// StoreTx repositorios atados a una misma transacción del backend.
type StoreTx interface {
	Items() repository.ItemRepository
	Transactions() repository.StockTransactionRepository
	Requests() repository.StoreRequestRepository
	Sequences() repository.SequenceRepository
}

// TxRunner ejecuta fn dentro de una transacción: Commit si fn devuelve nil, Rollback en otro caso.
// Los errores de conflicto del backend se devuelven envueltos en domain.ErrConflict.
type TxRunner interface {
	Run(ctx context.Context, fn func(tx StoreTx) error) error
}

// Repositories repositorios de lectura fuera de transacción (solo datos confirmados).
type Repositories struct {
	Items        repository.ItemRepository
	Transactions repository.StockTransactionRepository
	Requests     repository.StoreRequestRepository
}

// ItemLocker bloqueo opcional por artículo (p. ej. Redis) tomado antes de la transacción.
// Lock respeta el deadline de ctx y devuelve domain.ErrConflict si no logra el bloqueo.
type ItemLocker interface {
	Lock(ctx context.Context, itemID string) (unlock func(), err error)
}

// LowStockNotifier recibe avisos de stock bajo después del commit.
type LowStockNotifier interface {
	NotifyLowStock(ctx context.Context, alert entity.LowStockAlert) error
}

// Config parámetros del libro de stock.
type Config struct {
	LockTimeout       time.Duration // espera máxima por llamada (bloqueo + transacción)
	EnforceThresholds bool          // rechaza min ≤ reorder ≤ max inválido en vez de advertir
	ItemPrefix        string
	TransactionPrefix string
	RequestPrefix     string
}

func (c Config) withDefaults() Config {
	if c.LockTimeout <= 0 {
		c.LockTimeout = 5 * time.Second
	}
	if c.ItemPrefix == "" {
		c.ItemPrefix = ledger.DefaultItemPrefix
	}
	if c.TransactionPrefix == "" {
		c.TransactionPrefix = ledger.DefaultTransactionPrefix
	}
	if c.RequestPrefix == "" {
		c.RequestPrefix = ledger.DefaultRequestPrefix
	}
	return c
}
