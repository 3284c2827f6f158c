package repository

import (
	"context"
	"time"

	"github.com/jhoicas/campus-store/internal/domain/entity"
)

// TransactionFilter filtros del historial. Campos vacíos no filtran; From/To inclusivos.
type TransactionFilter struct {
	ItemID     string
	Type       string
	Department string
	From       *time.Time
	To         *time.Time
	Limit      int
	Offset     int
}

// StockTransactionRepository puerto del libro de transacciones (solo inserción).
type StockTransactionRepository interface {
	Create(ctx context.Context, tx *entity.StockTransaction) error
	GetByID(ctx context.Context, id string) (*entity.StockTransaction, error)
	GetByCode(ctx context.Context, code string) (*entity.StockTransaction, error)
	// List devuelve las transacciones más recientes primero y el total que cumple el filtro.
	List(ctx context.Context, filter TransactionFilter) ([]*entity.StockTransaction, int, error)
}
