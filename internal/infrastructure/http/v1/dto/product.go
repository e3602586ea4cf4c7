package dto

import (
	"puntoventa/internal/core/types"
	"puntoventa/internal/domain/catalogs/product"
)

// --- Request DTOs ---

// CreateProductRequest adds a product to the catalog.
// Price is a free-form decimal string; it is normalized to three decimals.
type CreateProductRequest struct {
	Name     string  `json:"name" binding:"required"`
	Quantity int     `json:"quantity" binding:"gte=0"`
	Price    string  `json:"price" binding:"required"`
	Category *string `json:"category,omitempty"`
}

// ToEntity converts request to domain entity.
func (r *CreateProductRequest) ToEntity() *product.Product {
	return product.NewProduct(r.Name, r.Quantity, types.ParsePrice(r.Price), r.Category)
}

// UpdateProductRequest modifies a product.
type UpdateProductRequest struct {
	Name     *string `json:"name,omitempty"`
	Quantity *int    `json:"quantity,omitempty"`
	Price    *string `json:"price,omitempty"`
	Category *string `json:"category,omitempty"`
}

// ApplyTo applies updates to an existing entity.
func (r *UpdateProductRequest) ApplyTo(p *product.Product) {
	if r.Name != nil {
		p.Name = *r.Name
	}
	if r.Quantity != nil {
		p.Quantity = *r.Quantity
	}
	if r.Price != nil {
		p.Price = types.ParsePrice(*r.Price)
	}
	if r.Category != nil {
		p.Category = r.Category
	}
}

// ProductListQuery filters product listings.
type ProductListQuery struct {
	Search   string  `form:"search"`
	Category *string `form:"category"`
	InStock  bool    `form:"inStock"`
	Limit    int     `form:"limit"`
	Offset   int     `form:"offset"`
}

// ToFilter converts the query to a repository filter.
func (q *ProductListQuery) ToFilter() product.ListFilter {
	filter := product.DefaultListFilter()
	filter.Search = q.Search
	filter.Category = q.Category
	filter.InStock = q.InStock
	if q.Limit > 0 {
		filter.Limit = q.Limit
	}
	filter.Offset = q.Offset
	return filter
}
