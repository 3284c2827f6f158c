package badgerstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/dgraph-io/badger/v4"

	"github.com/jhoicas/campus-store/internal/domain"
	"github.com/jhoicas/campus-store/internal/domain/entity"
	"github.com/jhoicas/campus-store/internal/domain/repository"
)

var _ repository.StoreRequestRepository = (*StoreRequestRepo)(nil)

const requestPrefix = "sreq/"

func requestKey(id string) []byte { return []byte(requestPrefix + id) }

// StoreRequestRepo solicitudes como JSON bajo sreq/<id>.
type StoreRequestRepo struct {
	q querier
}

// NewStoreRequestRepository repositorio de solicitudes fuera de transacción.
func NewStoreRequestRepository(db *DB) *StoreRequestRepo {
	return &StoreRequestRepo{q: dbQuerier{db: db.db}}
}

// Create persiste una solicitud nueva.
func (r *StoreRequestRepo) Create(_ context.Context, req *entity.StoreRequest) error {
	return r.q.update(func(txn *badger.Txn) error {
		found, err := exists(txn, requestKey(req.ID))
		if err != nil {
			return fmt.Errorf("insert store request: %w", err)
		}
		if found {
			return fmt.Errorf("%w: solicitud %s", domain.ErrDuplicate, req.Code)
		}
		if err := setJSON(txn, requestKey(req.ID), req); err != nil {
			return fmt.Errorf("insert store request: %w", err)
		}
		return nil
	})
}

// GetByID obtiene una solicitud; (nil, nil) si no existe.
func (r *StoreRequestRepo) GetByID(_ context.Context, id string) (*entity.StoreRequest, error) {
	var out *entity.StoreRequest
	err := r.q.view(func(txn *badger.Txn) error {
		var req entity.StoreRequest
		found, err := getJSON(txn, requestKey(id), &req)
		if err != nil {
			return fmt.Errorf("get store request: %w", err)
		}
		if found {
			out = &req
		}
		return nil
	})
	return out, err
}

// GetForUpdate lee la solicitud registrándola en el conjunto de lectura de la transacción.
func (r *StoreRequestRepo) GetForUpdate(ctx context.Context, id string) (*entity.StoreRequest, error) {
	return r.GetByID(ctx, id)
}

// UpdateDecision sobrescribe la solicitud con su decisión.
func (r *StoreRequestRepo) UpdateDecision(_ context.Context, req *entity.StoreRequest) error {
	return r.q.update(func(txn *badger.Txn) error {
		found, err := exists(txn, requestKey(req.ID))
		if err != nil {
			return fmt.Errorf("update store request: %w", err)
		}
		if !found {
			return fmt.Errorf("%w: solicitud %s", domain.ErrNotFound, req.ID)
		}
		if err := setJSON(txn, requestKey(req.ID), req); err != nil {
			return fmt.Errorf("update store request: %w", err)
		}
		return nil
	})
}

// List filtra por estado y departamento; más recientes primero.
func (r *StoreRequestRepo) List(_ context.Context, filter repository.RequestFilter) ([]*entity.StoreRequest, int, error) {
	var all []*entity.StoreRequest
	err := r.q.view(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(requestPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			var req entity.StoreRequest
			if err := it.Item().Value(func(val []byte) error { return json.Unmarshal(val, &req) }); err != nil {
				return fmt.Errorf("scan store request: %w", err)
			}
			if filter.Status != "" && req.Status != filter.Status {
				continue
			}
			if filter.Department != "" && req.Department != filter.Department {
				continue
			}
			all = append(all, &req)
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].Code > all[j].Code
	})
	return paginate(all, filter.Limit, filter.Offset), len(all), nil
}
