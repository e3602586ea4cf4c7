package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"puntoventa/internal/core/apperror"
	"puntoventa/internal/core/id"
	"puntoventa/internal/domain/cart"
	"puntoventa/internal/domain/catalogs/product"
	"puntoventa/internal/domain/pricing"
	"puntoventa/internal/domain/settings"
	"puntoventa/internal/infrastructure/http/v1/dto"
)

// CartHandler prices prospective carts. Carts are transient; nothing here
// writes to storage.
type CartHandler struct {
	*BaseHandler
	products *product.Service
	settings *settings.Service
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(base *BaseHandler, products *product.Service, settings *settings.Service) *CartHandler {
	return &CartHandler{
		BaseHandler: base,
		products:    products,
		settings:    settings,
	}
}

// RegisterRoutes wires cart endpoints.
func (h *CartHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/quote", h.Quote)
}

// Quote handles POST /cart/quote
func (h *CartHandler) Quote(c *gin.Context) {
	var req dto.QuoteRequest
	if !h.BindJSON(c, &req) {
		return
	}

	ctx := c.Request.Context()

	rate, err := h.settings.GetExchangeRate(ctx)
	if err != nil {
		h.Error(c, err)
		return
	}

	engine, err := buildCart(ctx, h.products, rate, req.Items)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.QuoteResponse{
		Items:        engine.Items(),
		Subtotal:     engine.Subtotal(),
		TaxTotal:     engine.TaxTotal(),
		Total:        engine.Total(),
		ExchangeRate: rate.Rate(),
	})
}

// buildCart resolves the requested products and prices them through the
// cart engine at the given rate.
func buildCart(ctx context.Context, products *product.Service, rate pricing.ExchangeRate, items []dto.QuoteItemRequest) (*cart.Engine, error) {
	engine := cart.NewEngine(rate)

	for _, item := range items {
		productID, err := id.Parse(item.ProductID)
		if err != nil {
			return nil, apperror.NewValidation("invalid product id").
				WithDetail("productId", item.ProductID)
		}

		p, err := products.GetByID(ctx, productID)
		if err != nil {
			return nil, err
		}

		if err := engine.AddItem(p, item.Quantity); err != nil {
			return nil, err
		}
	}

	return engine, nil
}
