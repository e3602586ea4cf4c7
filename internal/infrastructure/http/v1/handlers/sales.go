package handlers

import (
	"github.com/gin-gonic/gin"

	"puntoventa/internal/domain/catalogs/product"
	"puntoventa/internal/domain/sales"
	"puntoventa/internal/domain/settings"
	"puntoventa/internal/infrastructure/http/v1/dto"
)

// SalesHandler handles sale settlement endpoints.
type SalesHandler struct {
	*BaseHandler
	service  *sales.Service
	products *product.Service
	settings *settings.Service
}

// NewSalesHandler creates a new sales handler.
func NewSalesHandler(base *BaseHandler, service *sales.Service, products *product.Service, settings *settings.Service) *SalesHandler {
	return &SalesHandler{
		BaseHandler: base,
		service:     service,
		products:    products,
		settings:    settings,
	}
}

// RegisterRoutes wires sales endpoints.
func (h *SalesHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.GET("/:id", h.Get)
	rg.GET("/:id/ticket", h.Ticket)
	rg.POST("", h.Register)
	rg.POST("/:id/cancel", h.Cancel)
}

// Register handles POST /sales
// Prices the requested items at the current exchange rate, then commits
// them as one sale group.
func (h *SalesHandler) Register(c *gin.Context) {
	var req dto.RegisterSaleRequest
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

	input, err := req.ToRegisterInput()
	if err != nil {
		h.Error(c, err)
		return
	}

	ticket, err := h.service.RegisterSale(ctx, engine.Items(), input)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, ticket)
}

// Cancel handles POST /sales/:id/cancel
func (h *SalesHandler) Cancel(c *gin.Context) {
	groupID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.CancelSaleGroup(c.Request.Context(), groupID); err != nil {
		h.Error(c, err)
		return
	}

	h.Success(c, "sale group canceled")
}

// Ticket handles GET /sales/:id/ticket
func (h *SalesHandler) Ticket(c *gin.Context) {
	groupID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	ticket, err := h.service.ReprintTicket(c.Request.Context(), groupID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, ticket)
}

// Get handles GET /sales/:id
func (h *SalesHandler) Get(c *gin.Context) {
	groupID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	group, rows, err := h.service.GetGroupWithRows(c.Request.Context(), groupID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.SaleGroupDetailResponse{
		Group:    group,
		Rows:     rows,
		Canceled: sales.IsGroupCanceled(rows),
	})
}

// List handles GET /sales
func (h *SalesHandler) List(c *gin.Context) {
	var query dto.SalesListQuery
	if !h.BindQuery(c, &query) {
		return
	}

	groups, err := h.service.List(c.Request.Context(), query.ToFilter())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.ListResponse{Items: groups, Count: len(groups)})
}
