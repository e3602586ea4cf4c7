package handlers

import (
	"github.com/gin-gonic/gin"

	"puntoventa/internal/core/apperror"
	"puntoventa/internal/core/types"
	"puntoventa/internal/domain/settings"
	"puntoventa/internal/infrastructure/http/v1/dto"
)

// SettingsHandler handles exchange-rate endpoints.
type SettingsHandler struct {
	*BaseHandler
	service *settings.Service
}

// NewSettingsHandler creates a new settings handler.
func NewSettingsHandler(base *BaseHandler, service *settings.Service) *SettingsHandler {
	return &SettingsHandler{
		BaseHandler: base,
		service:     service,
	}
}

// RegisterRoutes wires settings endpoints.
func (h *SettingsHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/exchange-rate", h.GetExchangeRate)
	rg.PUT("/exchange-rate", h.SetExchangeRate)
	rg.GET("/exchange-rate/history", h.RateHistory)
}

// GetExchangeRate handles GET /settings/exchange-rate
func (h *SettingsHandler) GetExchangeRate(c *gin.Context) {
	rate, err := h.service.GetExchangeRate(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.ExchangeRateResponse{Rate: rate.Rate().String()})
}

// SetExchangeRate handles PUT /settings/exchange-rate (admin only).
func (h *SettingsHandler) SetExchangeRate(c *gin.Context) {
	var req dto.SetExchangeRateRequest
	if !h.BindJSON(c, &req) {
		return
	}

	rate, err := types.NewMoneyFromString(req.Rate)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid rate").WithDetail("rate", req.Rate))
		return
	}

	if err := h.service.SetExchangeRate(c.Request.Context(), rate); err != nil {
		h.Error(c, err)
		return
	}

	h.Success(c, "exchange rate updated")
}

// RateHistory handles GET /settings/exchange-rate/history
func (h *SettingsHandler) RateHistory(c *gin.Context) {
	limit := h.ParseIntQuery(c, "limit", 50)

	entries, err := h.service.RateHistory(c.Request.Context(), limit)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.ListResponse{Items: entries, Count: len(entries)})
}
