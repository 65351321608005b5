package ports

import (
	"context"

	"github.com/identihub/identity-service/internal/core/domain"
)

// UserService exposes user management operations to the transport layer.
type UserService interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	List(ctx context.Context, skip, limit int64) ([]*domain.User, error)
	Update(ctx context.Context, id string, update UserUpdate) (*domain.User, error)
	Delete(ctx context.Context, id string) error
	// EnsureAdmin creates the bootstrap admin account if it does not exist.
	EnsureAdmin(ctx context.Context, email, password, fullName string) (*domain.User, error)
}
