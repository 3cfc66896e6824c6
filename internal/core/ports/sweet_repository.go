package ports

import (
	"context"

	"github.com/sweetshop/sweetshop-api/internal/core/domain"
)

// SweetRepository persists inventory items.
type SweetRepository interface {
	List(ctx context.Context) ([]domain.Sweet, error)
	FindByID(ctx context.Context, id int) (*domain.Sweet, error)
	Create(ctx context.Context, s *domain.Sweet) (*domain.Sweet, error)
	Update(ctx context.Context, s *domain.Sweet) (*domain.Sweet, error)
	Delete(ctx context.Context, id int) error
	// DecrementStock atomically subtracts quantity from the stored stock,
	// failing with domain.ErrInsufficientStock when the stored value is
	// lower than quantity. It never leaves stock negative.
	DecrementStock(ctx context.Context, id, quantity int) (*domain.Sweet, error)
}

// PurchaseRepository persists purchase audit records.
type PurchaseRepository interface {
	Create(ctx context.Context, p *domain.Purchase) error
}
