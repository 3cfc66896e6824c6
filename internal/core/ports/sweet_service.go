package ports

import (
	"context"

	"github.com/sweetshop/sweetshop-api/internal/core/domain"
)

// SweetInput carries the mutable fields of an inventory item.
type SweetInput struct {
	Name     string
	Category string
	Price    float64
	Stock    int
	ImageURL string
}

// Buyer identifies the authenticated principal performing a purchase.
type Buyer struct {
	ID    int
	Email string
	Role  string
}

// SweetService implements inventory management and purchases.
type SweetService interface {
	List(ctx context.Context) ([]domain.Sweet, error)
	Add(ctx context.Context, in SweetInput) (*domain.Sweet, error)
	Update(ctx context.Context, id int, in SweetInput) (*domain.Sweet, error)
	Delete(ctx context.Context, id int) error
	Purchase(ctx context.Context, id, quantity int, buyer Buyer) (*domain.Sweet, error)
}
