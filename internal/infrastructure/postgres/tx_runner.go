package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/campus-store/internal/application/store"
	"github.com/jhoicas/campus-store/internal/domain/repository"
)

// Ensure TxRunner implements store.TxRunner.
var _ store.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool        *pgxpool.Pool
	lockTimeout time.Duration
}

// NewTxRunner construye el runner. lockTimeout acota la espera de SELECT … FOR UPDATE (0 = sin límite propio).
func NewTxRunner(pool *pgxpool.Pool, lockTimeout time.Duration) *TxRunner {
	return &TxRunner{pool: pool, lockTimeout: lockTimeout}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(tx store.StoreTx) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return classify("begin transaction", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if r.lockTimeout > 0 {
		// lock_timeout local a la transacción: la espera del bloqueo de fila termina en 55P03 (ErrConflict).
		if _, err := tx.Exec(ctx, `SELECT set_config('lock_timeout', $1, true)`,
			fmt.Sprintf("%dms", r.lockTimeout.Milliseconds())); err != nil {
			return classify("set lock_timeout", err)
		}
	}

	if err := fn(&storeTx{tx: tx}); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return classify("commit transaction", err)
	}
	return nil
}

type storeTx struct {
	tx pgx.Tx
}

func (t *storeTx) Items() repository.ItemRepository { return NewItemRepository(t.tx) }

func (t *storeTx) Transactions() repository.StockTransactionRepository {
	return NewStockTransactionRepository(t.tx)
}

func (t *storeTx) Requests() repository.StoreRequestRepository { return NewStoreRequestRepository(t.tx) }

func (t *storeTx) Sequences() repository.SequenceRepository { return NewSequenceRepository(t.tx) }

// NewRepositories repositorios de lectura sobre el pool (fuera de transacción).
func NewRepositories(pool *pgxpool.Pool) store.Repositories {
	return store.Repositories{
		Items:        NewItemRepository(pool),
		Transactions: NewStockTransactionRepository(pool),
		Requests:     NewStoreRequestRepository(pool),
	}
}
