package repository

import (
	"context"

	"github.com/jhoicas/campus-store/internal/domain/entity"
)

// ItemFilter filtros para listar artículos. Campos vacíos no filtran.
type ItemFilter struct {
	Category string
	Status   string
	Search   string // coincide con código o nombre (sin distinguir mayúsculas)
	LowStock bool   // current_stock <= reorder_level
	Limit    int
	Offset   int
}

// ItemRepository define el puerto de persistencia para Item (DIP).
// GetByID/GetByCode devuelven (nil, nil) si no existe.
type ItemRepository interface {
	Create(ctx context.Context, item *entity.Item) error
	GetByID(ctx context.Context, id string) (*entity.Item, error)
	GetByCode(ctx context.Context, code string) (*entity.Item, error)
	// GetForUpdate lee el artículo reservándolo para escritura hasta el fin de la transacción
	// (SELECT FOR UPDATE en PostgreSQL, lectura con detección de conflicto en badger).
	GetForUpdate(ctx context.Context, id string) (*entity.Item, error)
	// Update modifica los campos administrativos; nunca current_stock ni version.
	Update(ctx context.Context, item *entity.Item) error
	// UpdateStock fija current_stock si la versión coincide con expectedVersion (domain.ErrConflict si no).
	UpdateStock(ctx context.Context, id string, newStock, expectedVersion int64) error
	List(ctx context.Context, filter ItemFilter) ([]*entity.Item, int, error)
	// ListActive devuelve todos los artículos activos (reportes).
	ListActive(ctx context.Context) ([]*entity.Item, error)
}
