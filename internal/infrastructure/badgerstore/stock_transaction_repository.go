package badgerstore

import (
	"context"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/jhoicas/campus-store/internal/domain"
	"github.com/jhoicas/campus-store/internal/domain/entity"
	"github.com/jhoicas/campus-store/internal/domain/repository"
)

var _ repository.StockTransactionRepository = (*StockTransactionRepo)(nil)

const (
	stxnPrefix     = "stxn/"
	stxnCodePrefix = "idx/stxn_code/"
	stxnTimePrefix = "idx/stxn_time/"
	stxnItemPrefix = "idx/stxn_item/"
)

func stxnKey(id string) []byte       { return []byte(stxnPrefix + id) }
func stxnCodeKey(code string) []byte { return []byte(stxnCodePrefix + code) }

// La clave de tiempo ordena por fecha de transacción y luego por código (secuencial).
func stxnTimeKey(t *entity.StockTransaction) []byte {
	return []byte(stxnTimePrefix + sortableTime(t.TransactionDate) + "/" + t.Code)
}

func stxnItemKey(t *entity.StockTransaction) []byte {
	return []byte(stxnItemPrefix + t.ItemID + "/" + sortableTime(t.TransactionDate) + "/" + t.Code)
}

// sortableTime codifica t en hexadecimal de ancho fijo con los segundos en binario desplazado,
// de modo que el orden lexicográfico coincide con el cronológico también antes de 1970.
func sortableTime(t time.Time) string {
	return fmt.Sprintf("%016x%08x", uint64(t.Unix())^(1<<63), t.Nanosecond())
}

// StockTransactionRepo libro de transacciones (solo inserción) con índices por código, fecha y artículo.
type StockTransactionRepo struct {
	q querier
}

// NewStockTransactionRepository repositorio de transacciones fuera de transacción.
func NewStockTransactionRepository(db *DB) *StockTransactionRepo {
	return &StockTransactionRepo{q: dbQuerier{db: db.db}}
}

// Create agrega la entrada al libro. Una entrada existente nunca se sobrescribe.
func (r *StockTransactionRepo) Create(_ context.Context, t *entity.StockTransaction) error {
	return r.q.update(func(txn *badger.Txn) error {
		for _, key := range [][]byte{stxnKey(t.ID), stxnCodeKey(t.Code)} {
			found, err := exists(txn, key)
			if err != nil {
				return fmt.Errorf("insert stock transaction: %w", err)
			}
			if found {
				return fmt.Errorf("%w: transacción %s", domain.ErrDuplicate, t.Code)
			}
		}
		if err := setJSON(txn, stxnKey(t.ID), t); err != nil {
			return fmt.Errorf("insert stock transaction: %w", err)
		}
		for _, key := range [][]byte{stxnCodeKey(t.Code), stxnTimeKey(t), stxnItemKey(t)} {
			if err := txn.Set(key, []byte(t.ID)); err != nil {
				return fmt.Errorf("insert stock transaction index: %w", err)
			}
		}
		return nil
	})
}

// GetByID obtiene una transacción; (nil, nil) si no existe.
func (r *StockTransactionRepo) GetByID(_ context.Context, id string) (*entity.StockTransaction, error) {
	var out *entity.StockTransaction
	err := r.q.view(func(txn *badger.Txn) error {
		var err error
		out, err = loadTransaction(txn, id)
		return err
	})
	return out, err
}

// GetByCode obtiene una transacción por código; (nil, nil) si no existe.
func (r *StockTransactionRepo) GetByCode(_ context.Context, code string) (*entity.StockTransaction, error) {
	var out *entity.StockTransaction
	err := r.q.view(func(txn *badger.Txn) error {
		id, err := getRef(txn, stxnCodeKey(code))
		if err != nil {
			return fmt.Errorf("get stock transaction by code: %w", err)
		}
		if id == "" {
			return nil
		}
		out, err = loadTransaction(txn, id)
		return err
	})
	return out, err
}

// List recorre el índice de tiempo (o el del artículo) en orden inverso: más recientes primero.
func (r *StockTransactionRepo) List(_ context.Context, filter repository.TransactionFilter) ([]*entity.StockTransaction, int, error) {
	prefix := []byte(stxnTimePrefix)
	if filter.ItemID != "" {
		prefix = []byte(stxnItemPrefix + filter.ItemID + "/")
	}
	var (
		page  []*entity.StockTransaction
		total int
	)
	err := r.q.view(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		opts.PrefetchValues = false
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		seek := append(append([]byte{}, prefix...), 0xFF)
		for it.Seek(seek); it.ValidForPrefix(prefix); it.Next() {
			id, err := it.Item().ValueCopy(nil)
			if err != nil {
				return fmt.Errorf("scan stock transaction index: %w", err)
			}
			t, err := loadTransaction(txn, string(id))
			if err != nil {
				return err
			}
			if t == nil || !matchTransaction(t, filter) {
				continue
			}
			total++
			if total > filter.Offset && (filter.Limit <= 0 || len(page) < filter.Limit) {
				page = append(page, t)
			}
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	if page == nil {
		page = []*entity.StockTransaction{}
	}
	return page, total, nil
}

func matchTransaction(t *entity.StockTransaction, f repository.TransactionFilter) bool {
	if f.ItemID != "" && t.ItemID != f.ItemID {
		return false
	}
	if f.Type != "" && t.Type != f.Type {
		return false
	}
	if f.Department != "" && t.Department != f.Department {
		return false
	}
	if f.From != nil && t.TransactionDate.Before(*f.From) {
		return false
	}
	if f.To != nil && t.TransactionDate.After(*f.To) {
		return false
	}
	return true
}

func loadTransaction(txn *badger.Txn, id string) (*entity.StockTransaction, error) {
	var t entity.StockTransaction
	found, err := getJSON(txn, stxnKey(id), &t)
	if err != nil {
		return nil, fmt.Errorf("get stock transaction: %w", err)
	}
	if !found {
		return nil, nil
	}
	return &t, nil
}
