package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/sweetshop/sweetshop-api/internal/api/metrics"
	"github.com/sweetshop/sweetshop-api/internal/core/domain"
	"github.com/sweetshop/sweetshop-api/internal/core/ports"
)

// ListingCache is the interface the service uses to cache the public sweets
// listing. A miss is not an error; cache failures only cost a store read.
type ListingCache interface {
	GetSweets(ctx context.Context) ([]domain.Sweet, bool)
	SetSweets(ctx context.Context, sweets []domain.Sweet)
	Invalidate(ctx context.Context)
}

// AuditSink is the interface the service uses to hand off purchase records
// for asynchronous persistence.
type AuditSink interface {
	Enqueue(p domain.Purchase)
}

// SweetService implements inventory CRUD and guarded purchases.
type SweetService struct {
	repo   ports.SweetRepository
	cache  ListingCache
	audit  AuditSink
	logger zerolog.Logger
}

func NewSweetService(repo ports.SweetRepository, cache ListingCache, audit AuditSink, logger zerolog.Logger) *SweetService {
	return &SweetService{repo: repo, cache: cache, audit: audit, logger: logger}
}

// List returns the full inventory, served from cache when possible.
func (s *SweetService) List(ctx context.Context) ([]domain.Sweet, error) {
	if s.cache != nil {
		if sweets, ok := s.cache.GetSweets(ctx); ok {
			return sweets, nil
		}
	}

	sweets, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.SetSweets(ctx, sweets)
	}
	return sweets, nil
}

func (s *SweetService) Add(ctx context.Context, in ports.SweetInput) (*domain.Sweet, error) {
	sweet := &domain.Sweet{
		Name:     in.Name,
		Category: in.Category,
		Price:    in.Price,
		Stock:    in.Stock,
		ImageURL: in.ImageURL,
	}

	created, err := s.repo.Create(ctx, sweet)
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	s.logger.Info().Int("id", created.ID).Str("name", created.Name).Msg("sweet added")
	return created, nil
}

func (s *SweetService) Update(ctx context.Context, id int, in ports.SweetInput) (*domain.Sweet, error) {
	sweet := &domain.Sweet{
		ID:       id,
		Name:     in.Name,
		Category: in.Category,
		Price:    in.Price,
		Stock:    in.Stock,
		ImageURL: in.ImageURL,
	}

	updated, err := s.repo.Update(ctx, sweet)
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	return updated, nil
}

func (s *SweetService) Delete(ctx context.Context, id int) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.invalidate(ctx)
	s.logger.Info().Int("id", id).Msg("sweet deleted")
	return nil
}

// Purchase decrements stock by quantity, rejecting the whole request when
// stock is lower than quantity. The decrement is a single conditional update
// at the store, so concurrent purchases can never drive stock negative.
func (s *SweetService) Purchase(ctx context.Context, id, quantity int, buyer ports.Buyer) (*domain.Sweet, error) {
	if quantity < 1 {
		return nil, domain.ErrInvalidQuantity
	}

	sweet, err := s.repo.DecrementStock(ctx, id, quantity)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrSweetNotFound):
			metrics.PurchasesTotal.WithLabelValues("not_found").Inc()
		case errors.Is(err, domain.ErrInsufficientStock):
			metrics.PurchasesTotal.WithLabelValues("insufficient_stock").Inc()
		default:
			metrics.PurchasesTotal.WithLabelValues("error").Inc()
		}
		return nil, err
	}

	metrics.PurchasesTotal.WithLabelValues("ok").Inc()
	s.invalidate(ctx)

	if s.audit != nil {
		s.audit.Enqueue(domain.Purchase{
			ID:         uuid.NewString(),
			SweetID:    sweet.ID,
			SweetName:  sweet.Name,
			Quantity:   quantity,
			UnitPrice:  sweet.Price,
			BuyerEmail: buyer.Email,
			BuyerRole:  buyer.Role,
			At:         time.Now().UTC(),
		})
	}

	s.logger.Info().
		Int("sweet_id", sweet.ID).
		Int("quantity", quantity).
		Int("stock_left", sweet.Stock).
		Str("buyer", buyer.Email).
		Msg("purchase completed")

	return sweet, nil
}

func (s *SweetService) invalidate(ctx context.Context) {
	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}
}
