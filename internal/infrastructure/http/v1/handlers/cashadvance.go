package handlers

import (
	"github.com/gin-gonic/gin"

	"puntoventa/internal/core/apperror"
	"puntoventa/internal/core/id"
	"puntoventa/internal/domain/cashadvance"
	"puntoventa/internal/infrastructure/http/v1/dto"
)

// CashAdvanceHandler handles fund and transaction endpoints.
type CashAdvanceHandler struct {
	*BaseHandler
	service *cashadvance.Service
}

// NewCashAdvanceHandler creates a new cash advance handler.
func NewCashAdvanceHandler(base *BaseHandler, service *cashadvance.Service) *CashAdvanceHandler {
	return &CashAdvanceHandler{
		BaseHandler: base,
		service:     service,
	}
}

// RegisterRoutes wires cash advance endpoints.
func (h *CashAdvanceHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.ListFunds)
	rg.GET("/:id", h.GetFund)
	rg.POST("", h.CreateFund)
	rg.POST("/:id/deactivate", h.DeactivateFund)
	rg.POST("/:id/preview", h.Preview)
	rg.POST("/:id/transactions", h.Commit)
	rg.GET("/:id/transactions", h.ListTransactions)
}

// CreateFund handles POST /funds
func (h *CashAdvanceHandler) CreateFund(c *gin.Context) {
	var req dto.CreateFundRequest
	if !h.BindJSON(c, &req) {
		return
	}

	amount, err := dto.ParseMoney(req.InitialAmount)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid initial amount").
			WithDetail("initialAmount", req.InitialAmount))
		return
	}

	fund, err := h.service.CreateFund(c.Request.Context(), amount, req.Description)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, fund.ID.String())
}

// GetFund handles GET /funds/:id
func (h *CashAdvanceHandler) GetFund(c *gin.Context) {
	fundID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	fund, err := h.service.GetFund(c.Request.Context(), fundID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, fund)
}

// ListFunds handles GET /funds
func (h *CashAdvanceHandler) ListFunds(c *gin.Context) {
	includeInactive := c.Query("includeInactive") == "true"

	funds, err := h.service.ListFunds(c.Request.Context(), includeInactive)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.ListResponse{Items: funds, Count: len(funds)})
}

// DeactivateFund handles POST /funds/:id/deactivate
func (h *CashAdvanceHandler) DeactivateFund(c *gin.Context) {
	fundID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.DeactivateFund(c.Request.Context(), fundID); err != nil {
		h.Error(c, err)
		return
	}

	h.Success(c, "fund deactivated")
}

// Preview handles POST /funds/:id/preview
// Computes the transaction outcome without writing.
func (h *CashAdvanceHandler) Preview(c *gin.Context) {
	fundID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.PreviewTransactionRequest
	if !h.BindJSON(c, &req) {
		return
	}

	preview, err := h.buildPreview(c, fundID, req.TransactionType, req.Amount, req.FeePercentage, req.Description)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, preview)
}

// Commit handles POST /funds/:id/transactions
// Re-previews against current state, then settles.
func (h *CashAdvanceHandler) Commit(c *gin.Context) {
	fundID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.CommitTransactionRequest
	if !h.BindJSON(c, &req) {
		return
	}

	preview, err := h.buildPreview(c, fundID, req.TransactionType, req.Amount, req.FeePercentage, req.Description)
	if err != nil {
		h.Error(c, err)
		return
	}

	result, err := h.service.Commit(c.Request.Context(), preview)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, result)
}

// ListTransactions handles GET /funds/:id/transactions
func (h *CashAdvanceHandler) ListTransactions(c *gin.Context) {
	fundID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	var query dto.TransactionListQuery
	if !h.BindQuery(c, &query) {
		return
	}

	txns, err := h.service.ListTransactions(c.Request.Context(), query.ToFilter(fundID))
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.ListResponse{Items: txns, Count: len(txns)})
}

func (h *CashAdvanceHandler) buildPreview(c *gin.Context, fundID id.ID, txType, amountStr, feeStr, description string) (*cashadvance.Preview, error) {
	amount, err := dto.ParseMoney(amountStr)
	if err != nil {
		return nil, apperror.NewValidation("invalid amount").
			WithDetail("amount", amountStr)
	}

	ctx := c.Request.Context()

	switch cashadvance.TransactionType(txType) {
	case cashadvance.TypeAdvance:
		fee, err := dto.ParseMoney(feeStr)
		if err != nil {
			return nil, apperror.NewValidation("invalid fee percentage").
				WithDetail("feePercentage", feeStr)
		}
		return h.service.PreviewAdvance(ctx, fundID, amount, fee, description)

	case cashadvance.TypeReplenishment:
		return h.service.PreviewReplenishment(ctx, fundID, amount, description)

	default:
		return nil, apperror.NewValidation("unknown transaction type").
			WithDetail("transactionType", txType)
	}
}
