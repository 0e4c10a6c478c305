package repository

import (
	"context"

	"github.com/jhoicas/portal-comunitario-api/internal/domain/entity"
)

// UserFilter criterios opcionales para listar usuarios.
type UserFilter struct {
	Role   string
	Status string
}

// UserRepository define el puerto de persistencia para User (DIP).
// GetByID y GetByEmail devuelven (nil, nil) si no existe.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	List(ctx context.Context, filter UserFilter) ([]*entity.User, error)
	Update(ctx context.Context, id string, patch Fields) error
}
