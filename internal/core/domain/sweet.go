package domain

import (
	"errors"
	"time"
)

var (
	ErrSweetNotFound     = errors.New("sweet not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInvalidQuantity   = errors.New("quantity must be at least 1")
)

// Sweet is an inventory item. Stock never goes negative: decrements are
// applied conditionally against the stored value, not a previously read one.
type Sweet struct {
	ID       int     `json:"id" bson:"_id"`
	Name     string  `json:"name" bson:"name"`
	Category string  `json:"category" bson:"category"`
	Price    float64 `json:"price" bson:"price"`
	Stock    int     `json:"stock" bson:"stock"`
	ImageURL string  `json:"image_url,omitempty" bson:"image_url,omitempty"`
}

// Purchase is an audit record of a completed stock decrement.
type Purchase struct {
	ID         string    `json:"id" bson:"_id"`
	SweetID    int       `json:"sweet_id" bson:"sweet_id"`
	SweetName  string    `json:"sweet_name" bson:"sweet_name"`
	Quantity   int       `json:"quantity" bson:"quantity"`
	UnitPrice  float64   `json:"unit_price" bson:"unit_price"`
	BuyerEmail string    `json:"buyer_email" bson:"buyer_email"`
	BuyerRole  string    `json:"buyer_role" bson:"buyer_role"`
	At         time.Time `json:"at" bson:"at"`
}
