package port

import (
	"context"

	"github.com/pharmakart/backend/internal/domain"
)

// AccessGuard resolves the caller's identity and ownership. It is consumed
// as a pre-checked gate, the core does not re-derive identity.
type AccessGuard interface {
	CurrentUser(ctx context.Context) (domain.UserRef, error)
	IsOwner(user domain.UserRef, ownerID string) bool
}
