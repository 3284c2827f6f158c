package repository

import (
	"context"

	"github.com/jhoicas/campus-store/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User (DIP).
// GetByID/GetByEmail devuelven (nil, nil) si no existe.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
}
