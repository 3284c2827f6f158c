package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/campus-store/internal/domain"
	"github.com/jhoicas/campus-store/internal/domain/entity"
	"github.com/jhoicas/campus-store/internal/domain/repository"
)

var _ repository.ItemRepository = (*ItemRepo)(nil)

const itemColumns = `id, code, name, description, category, unit, current_stock, minimum_stock, maximum_stock,
	reorder_level, unit_price, location, status, version, created_by, created_at, updated_at`

// ItemRepo implementación del puerto ItemRepository sobre PostgreSQL (usable con pool o tx).
type ItemRepo struct {
	q Querier
}

// NewItemRepository construye el adaptador de persistencia para artículos. Pasar pool o tx (Querier).
func NewItemRepository(q Querier) *ItemRepo {
	return &ItemRepo{q: q}
}

// Create persiste un nuevo artículo.
func (r *ItemRepo) Create(ctx context.Context, item *entity.Item) error {
	query := `
		INSERT INTO store_items (` + itemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`
	_, err := r.q.Exec(ctx, query,
		item.ID, item.Code, item.Name, item.Description, item.Category, item.Unit, item.CurrentStock,
		item.MinimumStock, item.MaximumStock, item.ReorderLevel, item.UnitPrice, item.Location,
		item.Status, item.Version, item.CreatedBy, item.CreatedAt, item.UpdatedAt,
	)
	return classify("insert item", err)
}

// GetByID obtiene un artículo por ID; (nil, nil) si no existe.
func (r *ItemRepo) GetByID(ctx context.Context, id string) (*entity.Item, error) {
	if !validUUID(id) {
		return nil, nil
	}
	return r.getOne(ctx, `SELECT `+itemColumns+` FROM store_items WHERE id = $1`, id)
}

// GetByCode obtiene un artículo por código; (nil, nil) si no existe.
func (r *ItemRepo) GetByCode(ctx context.Context, code string) (*entity.Item, error) {
	return r.getOne(ctx, `SELECT `+itemColumns+` FROM store_items WHERE code = $1`, code)
}

// GetForUpdate bloquea la fila (SELECT FOR UPDATE) hasta el fin de la transacción.
func (r *ItemRepo) GetForUpdate(ctx context.Context, id string) (*entity.Item, error) {
	if !validUUID(id) {
		return nil, nil
	}
	return r.getOne(ctx, `SELECT `+itemColumns+` FROM store_items WHERE id = $1 FOR UPDATE`, id)
}

func (r *ItemRepo) getOne(ctx context.Context, query string, arg any) (*entity.Item, error) {
	item, err := scanItem(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, classify("get item", err)
	}
	return item, nil
}

// Update actualiza los campos administrativos. No toca current_stock ni version.
func (r *ItemRepo) Update(ctx context.Context, item *entity.Item) error {
	query := `
		UPDATE store_items SET name = $2, description = $3, category = $4, unit = $5, minimum_stock = $6,
			maximum_stock = $7, reorder_level = $8, unit_price = $9, location = $10, status = $11, updated_at = $12
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		item.ID, item.Name, item.Description, item.Category, item.Unit, item.MinimumStock,
		item.MaximumStock, item.ReorderLevel, item.UnitPrice, item.Location, item.Status, item.UpdatedAt,
	)
	if err != nil {
		return classify("update item", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateStock fija current_stock si version = expectedVersion; si no, domain.ErrConflict.
func (r *ItemRepo) UpdateStock(ctx context.Context, id string, newStock, expectedVersion int64) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE store_items SET current_stock = $2, version = version + 1, updated_at = now()
		 WHERE id = $1 AND version = $3`,
		id, newStock, expectedVersion,
	)
	if err != nil {
		return classify("update item stock", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrConflict
	}
	return nil
}

// List lista artículos con filtros; el total sale de COUNT(*) OVER().
func (r *ItemRepo) List(ctx context.Context, filter repository.ItemFilter) ([]*entity.Item, int, error) {
	var w whereBuilder
	if filter.Category != "" {
		w.add("category = ?", filter.Category)
	}
	if filter.Status != "" {
		w.add("status = ?", filter.Status)
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		w.add("(name ILIKE ? OR code ILIKE ?)", "%"+s+"%")
	}
	if filter.LowStock {
		w.conds = append(w.conds, "current_stock <= reorder_level")
	}
	query := `SELECT ` + itemColumns + `, COUNT(*) OVER() FROM store_items` + w.sql() +
		` ORDER BY code` + w.page(filter.Limit, filter.Offset)

	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, 0, classify("list items", err)
	}
	defer rows.Close()
	var (
		list  []*entity.Item
		total int
	)
	for rows.Next() {
		var it entity.Item
		if err := rows.Scan(itemDest(&it, &total)...); err != nil {
			return nil, 0, classify("scan item", err)
		}
		list = append(list, &it)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, classify("list items", err)
	}
	if list == nil {
		list = []*entity.Item{}
	}
	return list, total, nil
}

// ListActive devuelve todos los artículos activos ordenados por código.
func (r *ItemRepo) ListActive(ctx context.Context) ([]*entity.Item, error) {
	rows, err := r.q.Query(ctx, `SELECT `+itemColumns+` FROM store_items WHERE status = $1 ORDER BY code`,
		entity.ItemStatusActive)
	if err != nil {
		return nil, classify("list active items", err)
	}
	defer rows.Close()
	var list []*entity.Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, classify("scan item", err)
		}
		list = append(list, it)
	}
	return list, classify("list active items", rows.Err())
}

func itemDest(it *entity.Item, extra ...any) []any {
	dest := []any{
		&it.ID, &it.Code, &it.Name, &it.Description, &it.Category, &it.Unit, &it.CurrentStock,
		&it.MinimumStock, &it.MaximumStock, &it.ReorderLevel, &it.UnitPrice, &it.Location,
		&it.Status, &it.Version, &it.CreatedBy, &it.CreatedAt, &it.UpdatedAt,
	}
	return append(dest, extra...)
}

func scanItem(row scanner) (*entity.Item, error) {
	var it entity.Item
	if err := row.Scan(itemDest(&it)...); err != nil {
		return nil, err
	}
	return &it, nil
}
