package handlers

import (
	"github.com/gin-gonic/gin"

	"puntoventa/internal/domain/reports"
	"puntoventa/internal/infrastructure/http/v1/dto"
)

// ReportsHandler handles read-only report endpoints.
type ReportsHandler struct {
	*BaseHandler
	service *reports.Service
}

// NewReportsHandler creates a new reports handler.
func NewReportsHandler(base *BaseHandler, service *reports.Service) *ReportsHandler {
	return &ReportsHandler{
		BaseHandler: base,
		service:     service,
	}
}

// RegisterRoutes wires report endpoints.
func (h *ReportsHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/sales", h.Sales)
	rg.GET("/cash-advances", h.CashAdvances)
}

// Sales handles GET /reports/sales
func (h *ReportsHandler) Sales(c *gin.Context) {
	var query dto.SalesReportQuery
	if !h.BindQuery(c, &query) {
		return
	}

	report, err := h.service.GetSalesReport(c.Request.Context(), query.ToFilter())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, report)
}

// CashAdvances handles GET /reports/cash-advances
func (h *ReportsHandler) CashAdvances(c *gin.Context) {
	var query dto.CashAdvanceReportQuery
	if !h.BindQuery(c, &query) {
		return
	}

	summary, err := h.service.GetCashAdvanceReport(c.Request.Context(), query.ToFilter())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, summary)
}
