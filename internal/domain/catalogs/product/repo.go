package product

import (
	"context"

	"puntoventa/internal/core/id"
)

// Repository defines persistence operations for products.
type Repository interface {
	// Create inserts a new product
	Create(ctx context.Context, p *Product) error

	// GetByID retrieves a product by ID
	GetByID(ctx context.Context, productID id.ID) (*Product, error)

	// Update modifies an existing product
	Update(ctx context.Context, p *Product) error

	// UpdateQuantity sets the persisted stock quantity
	UpdateQuantity(ctx context.Context, productID id.ID, quantity int) error

	// Delete removes a product
	Delete(ctx context.Context, productID id.ID) error

	// List retrieves products with filtering
	List(ctx context.Context, filter ListFilter) ([]*Product, error)
}

// ListFilter for filtering product queries.
type ListFilter struct {
	Search   string
	Category *string
	InStock  bool

	OrderBy string
	Limit   int
	Offset  int
}

// DefaultListFilter returns sensible defaults.
func DefaultListFilter() ListFilter {
	return ListFilter{
		Limit:   50,
		OrderBy: "name",
	}
}
