package badgerstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/dgraph-io/badger/v4"

	"github.com/jhoicas/campus-store/internal/domain"
	"github.com/jhoicas/campus-store/internal/domain/entity"
	"github.com/jhoicas/campus-store/internal/domain/repository"
)

var _ repository.ItemRepository = (*ItemRepo)(nil)

const (
	itemPrefix     = "item/"
	itemCodePrefix = "idx/item_code/"
)

func itemKey(id string) []byte       { return []byte(itemPrefix + id) }
func itemCodeKey(code string) []byte { return []byte(itemCodePrefix + code) }

// ItemRepo artículos como JSON bajo item/<id>, con índice único por código.
type ItemRepo struct {
	q querier
}

// NewItemRepository repositorio de artículos fuera de transacción.
func NewItemRepository(db *DB) *ItemRepo {
	return &ItemRepo{q: dbQuerier{db: db.db}}
}

// Create persiste un artículo nuevo. ErrDuplicate si el ID o el código ya existen.
func (r *ItemRepo) Create(_ context.Context, item *entity.Item) error {
	return r.q.update(func(txn *badger.Txn) error {
		for _, key := range [][]byte{itemKey(item.ID), itemCodeKey(item.Code)} {
			found, err := exists(txn, key)
			if err != nil {
				return fmt.Errorf("insert item: %w", err)
			}
			if found {
				return fmt.Errorf("%w: artículo %s", domain.ErrDuplicate, item.Code)
			}
		}
		if err := setJSON(txn, itemKey(item.ID), item); err != nil {
			return fmt.Errorf("insert item: %w", err)
		}
		if err := txn.Set(itemCodeKey(item.Code), []byte(item.ID)); err != nil {
			return fmt.Errorf("insert item code: %w", err)
		}
		return nil
	})
}

// GetByID obtiene un artículo por ID; (nil, nil) si no existe.
func (r *ItemRepo) GetByID(_ context.Context, id string) (*entity.Item, error) {
	var out *entity.Item
	err := r.q.view(func(txn *badger.Txn) error {
		var err error
		out, err = loadItem(txn, id)
		return err
	})
	return out, err
}

// GetByCode obtiene un artículo por código; (nil, nil) si no existe.
func (r *ItemRepo) GetByCode(_ context.Context, code string) (*entity.Item, error) {
	var out *entity.Item
	err := r.q.view(func(txn *badger.Txn) error {
		id, err := getRef(txn, itemCodeKey(code))
		if err != nil {
			return fmt.Errorf("get item by code: %w", err)
		}
		if id == "" {
			return nil
		}
		out, err = loadItem(txn, id)
		return err
	})
	return out, err
}

// GetForUpdate lee el artículo dentro de la transacción. La lectura queda registrada y el Commit
// falla con ErrConflict si otra transacción lo modificó entre tanto.
func (r *ItemRepo) GetForUpdate(ctx context.Context, id string) (*entity.Item, error) {
	return r.GetByID(ctx, id)
}

// Update persiste los campos administrativos conservando current_stock y version.
func (r *ItemRepo) Update(_ context.Context, item *entity.Item) error {
	return r.q.update(func(txn *badger.Txn) error {
		current, err := loadItem(txn, item.ID)
		if err != nil {
			return err
		}
		if current == nil {
			return fmt.Errorf("%w: artículo %s", domain.ErrNotFound, item.ID)
		}
		current.Name = item.Name
		current.Description = item.Description
		current.Category = item.Category
		current.Unit = item.Unit
		current.MinimumStock = item.MinimumStock
		current.MaximumStock = item.MaximumStock
		current.ReorderLevel = item.ReorderLevel
		current.UnitPrice = item.UnitPrice
		current.Location = item.Location
		current.Status = item.Status
		current.UpdatedAt = item.UpdatedAt
		if err := setJSON(txn, itemKey(item.ID), current); err != nil {
			return fmt.Errorf("update item: %w", err)
		}
		return nil
	})
}

// UpdateStock fija current_stock si la versión almacenada es expectedVersion.
func (r *ItemRepo) UpdateStock(_ context.Context, id string, newStock, expectedVersion int64) error {
	return r.q.update(func(txn *badger.Txn) error {
		current, err := loadItem(txn, id)
		if err != nil {
			return err
		}
		if current == nil {
			return fmt.Errorf("%w: artículo %s", domain.ErrNotFound, id)
		}
		if current.Version != expectedVersion {
			return fmt.Errorf("%w: versión del artículo %s cambió", domain.ErrConflict, current.Code)
		}
		current.CurrentStock = newStock
		current.Version++
		current.UpdatedAt = nowUTC()
		if err := setJSON(txn, itemKey(id), current); err != nil {
			return fmt.Errorf("update item stock: %w", err)
		}
		return nil
	})
}

// List filtra en memoria sobre el prefijo de artículos; orden por código.
func (r *ItemRepo) List(_ context.Context, filter repository.ItemFilter) ([]*entity.Item, int, error) {
	var all []*entity.Item
	search := strings.ToLower(strings.TrimSpace(filter.Search))
	err := r.q.view(func(txn *badger.Txn) error {
		return scanItems(txn, func(it *entity.Item) {
			if filter.Category != "" && it.Category != filter.Category {
				return
			}
			if filter.Status != "" && it.Status != filter.Status {
				return
			}
			if filter.LowStock && !it.IsLowStock() {
				return
			}
			if search != "" && !strings.Contains(strings.ToLower(it.Name), search) &&
				!strings.Contains(strings.ToLower(it.Code), search) {
				return
			}
			all = append(all, it)
		})
	})
	if err != nil {
		return nil, 0, err
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Code < all[j].Code })
	return paginate(all, filter.Limit, filter.Offset), len(all), nil
}

// ListActive devuelve todos los artículos activos ordenados por código.
func (r *ItemRepo) ListActive(_ context.Context) ([]*entity.Item, error) {
	var out []*entity.Item
	err := r.q.view(func(txn *badger.Txn) error {
		return scanItems(txn, func(it *entity.Item) {
			if it.Status == entity.ItemStatusActive {
				out = append(out, it)
			}
		})
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func loadItem(txn *badger.Txn, id string) (*entity.Item, error) {
	var it entity.Item
	found, err := getJSON(txn, itemKey(id), &it)
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	if !found {
		return nil, nil
	}
	return &it, nil
}

func scanItems(txn *badger.Txn, fn func(it *entity.Item)) error {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = []byte(itemPrefix)
	it := txn.NewIterator(opts)
	defer it.Close()
	for it.Rewind(); it.Valid(); it.Next() {
		var item entity.Item
		if err := it.Item().Value(func(val []byte) error { return json.Unmarshal(val, &item) }); err != nil {
			return fmt.Errorf("scan item: %w", err)
		}
		fn(&item)
	}
	return nil
}
