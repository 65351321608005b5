package service

import (
	"github.com/identihub/identity-service/internal/core/domain"
)

// Guard is the ordered authorization pipeline applied to a resolved identity:
// the active check always runs first, then the allow-set role check. The
// stages are fixed so a disabled account is always reported as disabled,
// never as a role failure.
//
// A Guard is built once per protected operation with a fixed allow-set; an
// empty allow-set means any active user is authorized.
type Guard struct {
	allowed map[domain.Role]struct{}
}

func NewGuard(roles ...domain.Role) *Guard {
	allowed := make(map[domain.Role]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return &Guard{allowed: allowed}
}

// Authorize runs the chain against user. It returns ErrAccountDisabled for an
// inactive account, ErrForbidden for a role outside the allow-set, and nil
// when the user may proceed.
func (g *Guard) Authorize(user *domain.User) error {
	if user == nil {
		return domain.ErrInvalidToken
	}
	if !user.IsActive {
		return domain.ErrAccountDisabled
	}
	if len(g.allowed) == 0 {
		return nil
	}
	if _, ok := g.allowed[user.Role]; !ok {
		return domain.ErrForbidden
	}
	return nil
}
