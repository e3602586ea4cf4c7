// Package product provides the product catalog and the inventory ledger
// backing sale settlement.
package product

import (
	"context"
	"time"

	"puntoventa/internal/core/apperror"
	"puntoventa/internal/core/id"
	"puntoventa/internal/core/types"
)

// Product represents a sellable item with its stock quantity.
// Quantity never goes negative; settlement rejects before any mutation
// that would violate this.
type Product struct {
	ID        id.ID       `db:"id" json:"id"`
	Name      string      `db:"name" json:"name"`
	Quantity  int         `db:"quantity" json:"quantity"`
	Price     types.Price `db:"price" json:"price"`
	Category  *string     `db:"category" json:"category,omitempty"`
	CreatedAt time.Time   `db:"created_at" json:"createdAt"`
}

// NewProduct creates a product with a generated ID.
func NewProduct(name string, quantity int, price types.Price, category *string) *Product {
	return &Product{
		ID:        id.New(),
		Name:      name,
		Quantity:  quantity,
		Price:     price,
		Category:  category,
		CreatedAt: time.Now().UTC(),
	}
}

// Validate checks invariants before persistence.
func (p *Product) Validate(ctx context.Context) error {
	if p.Name == "" {
		return apperror.NewValidation("name is required").
			WithDetail("field", "name")
	}

	if p.Quantity < 0 {
		return apperror.NewValidation("quantity must not be negative").
			WithDetail("field", "quantity")
	}

	if p.Price < 0 {
		return apperror.NewValidation("price must not be negative").
			WithDetail("field", "price")
	}

	return nil
}
