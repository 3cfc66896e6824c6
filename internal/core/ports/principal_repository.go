package ports

import (
	"context"

	"github.com/sweetshop/sweetshop-api/internal/core/domain"
)

// PrincipalRepository persists one class of principal. Two instances exist,
// one backed by the admins store and one by the users store; the backing
// store enforces email uniqueness and is the arbiter under concurrent
// registration.
type PrincipalRepository interface {
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	FindByEmail(ctx context.Context, email string) (*domain.Principal, error)
	Create(ctx context.Context, p *domain.Principal) (*domain.Principal, error)
}
