package ports

import (
	"context"

	"github.com/identihub/identity-service/internal/core/domain"
)

// UserUpdate carries the mutable fields of a user. Nil means "leave as is".
// Password is plaintext here; the service layer hashes it before persistence.
type UserUpdate struct {
	Email    *string
	FullName *string
	Password *string
	IsActive *bool
	Role     *domain.Role
}

// UserRepository defines the persistence interface for user records.
type UserRepository interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	Update(ctx context.Context, id string, update UserUpdate) (*domain.User, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, skip, limit int64) ([]*domain.User, error)
}
