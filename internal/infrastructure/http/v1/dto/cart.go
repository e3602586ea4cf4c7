package dto

import (
	"puntoventa/internal/core/types"
	"puntoventa/internal/domain/cart"
)

// QuoteItemRequest is one requested cart line.
type QuoteItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,gt=0"`
}

// QuoteRequest prices a prospective cart without persisting anything.
type QuoteRequest struct {
	Items []QuoteItemRequest `json:"items" binding:"required,min=1,max=10,dive"`
}

// QuoteResponse is the fully priced cart.
type QuoteResponse struct {
	Items        []cart.LineItem `json:"items"`
	Subtotal     types.Money     `json:"subtotal"`
	TaxTotal     types.Money     `json:"taxTotal"`
	Total        types.Money     `json:"total"`
	ExchangeRate types.Money     `json:"exchangeRate"`
}
