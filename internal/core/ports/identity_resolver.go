package ports

import (
	"context"

	"github.com/identihub/identity-service/internal/core/domain"
)

// IdentityResolver turns an opaque bearer token into the user it identifies.
// Every failure — missing token, failed verification, or unknown subject —
// surfaces as domain.ErrInvalidToken so callers cannot tell them apart.
type IdentityResolver interface {
	Resolve(ctx context.Context, token string) (*domain.User, error)
}
