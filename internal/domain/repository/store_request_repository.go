package repository

import (
	"context"

	"github.com/jhoicas/campus-store/internal/domain/entity"
)

// RequestFilter filtros para solicitudes.
type RequestFilter struct {
	Status     string
	Department string
	Limit      int
	Offset     int
}

// StoreRequestRepository puerto de persistencia de solicitudes al almacén.
type StoreRequestRepository interface {
	Create(ctx context.Context, req *entity.StoreRequest) error
	GetByID(ctx context.Context, id string) (*entity.StoreRequest, error)
	// GetForUpdate bloquea la solicitud hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.StoreRequest, error)
	// UpdateDecision persiste status, decided_by, decision_note, transaction_id y decided_at.
	UpdateDecision(ctx context.Context, req *entity.StoreRequest) error
	List(ctx context.Context, filter RequestFilter) ([]*entity.StoreRequest, int, error)
}
