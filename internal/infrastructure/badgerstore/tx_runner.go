package badgerstore

import (
	"context"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/jhoicas/campus-store/internal/application/store"
	"github.com/jhoicas/campus-store/internal/domain/repository"
)

var _ store.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción badger de lectura/escritura.
type TxRunner struct {
	db *DB
}

// NewTxRunner construye el runner.
func NewTxRunner(db *DB) *TxRunner {
	return &TxRunner{db: db}
}

// Run abre la transacción, ejecuta fn con repos atados a ella y hace Commit o Discard.
// Si otra transacción confirmó antes una clave leída aquí, Commit falla con domain.ErrConflict.
func (r *TxRunner) Run(ctx context.Context, fn func(tx store.StoreTx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	txn := r.db.db.NewTransaction(true)
	defer txn.Discard()

	if err := fn(&storeTx{db: r.db, txn: txn}); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := txn.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", translateCommitError(err))
	}
	return nil
}

type storeTx struct {
	db  *DB
	txn *badger.Txn
}

func (t *storeTx) Items() repository.ItemRepository {
	return &ItemRepo{q: txnQuerier{txn: t.txn}}
}

func (t *storeTx) Transactions() repository.StockTransactionRepository {
	return &StockTransactionRepo{q: txnQuerier{txn: t.txn}}
}

func (t *storeTx) Requests() repository.StoreRequestRepository {
	return &StoreRequestRepo{q: txnQuerier{txn: t.txn}}
}

func (t *storeTx) Sequences() repository.SequenceRepository {
	return &SequenceRepo{db: t.db}
}

// Repositories repositorios de lectura fuera de transacción.
func (d *DB) Repositories() store.Repositories {
	q := dbQuerier{db: d.db}
	return store.Repositories{
		Items:        &ItemRepo{q: q},
		Transactions: &StockTransactionRepo{q: q},
		Requests:     &StoreRequestRepo{q: q},
	}
}

// SequenceRepo contadores atómicos sobre badger.Sequence.
type SequenceRepo struct {
	db *DB
}

var _ repository.SequenceRepository = (*SequenceRepo)(nil)

// NewSequenceRepository construye el servicio de secuencias.
func NewSequenceRepository(db *DB) *SequenceRepo {
	return &SequenceRepo{db: db}
}

// Next devuelve el siguiente número; no participa del rollback de la transacción.
func (r *SequenceRepo) Next(_ context.Context, name string) (uint64, error) {
	return r.db.next(name)
}
