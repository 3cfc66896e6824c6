package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/sweetshop/sweetshop-api/internal/core/domain"
)

const purchasesCollection = "purchases"

// PurchaseRepository persists purchase audit records.
type PurchaseRepository struct {
	coll *mongo.Collection
}

func NewPurchaseRepository(db *mongo.Database) *PurchaseRepository {
	return &PurchaseRepository{coll: db.Collection(purchasesCollection)}
}

func (r *PurchaseRepository) Create(ctx context.Context, p *domain.Purchase) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, p); err != nil {
		return fmt.Errorf("insert purchase: %w", err)
	}
	return nil
}

// EnsureIndexes creates lookup indexes on the purchases collection.
func (r *PurchaseRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "sweet_id", Value: 1}}},
		{Keys: bson.D{{Key: "buyer_email", Value: 1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}
