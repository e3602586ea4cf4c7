package dto

import (
	"time"

	"puntoventa/internal/core/id"
	"puntoventa/internal/core/types"
	"puntoventa/internal/domain/cashadvance"
)

// CreateFundRequest opens a new fund.
type CreateFundRequest struct {
	InitialAmount string `json:"initialAmount" binding:"required"`
	Description   string `json:"description"`
}

// PreviewTransactionRequest asks for a not-yet-committed transaction quote.
type PreviewTransactionRequest struct {
	TransactionType string `json:"transactionType" binding:"required,oneof=advance replenishment"`
	Amount          string `json:"amount" binding:"required"`

	// FeePercentage applies to advances only.
	FeePercentage string `json:"feePercentage,omitempty"`
	Description   string `json:"description"`
}

// CommitTransactionRequest carries a confirmed preview back for settlement.
type CommitTransactionRequest struct {
	TransactionType string `json:"transactionType" binding:"required,oneof=advance replenishment"`
	Amount          string `json:"amount" binding:"required"`
	FeePercentage   string `json:"feePercentage,omitempty"`
	Description     string `json:"description"`
}

// TransactionListQuery filters fund transaction listings.
type TransactionListQuery struct {
	TransactionType string     `form:"transactionType"`
	DateFrom        *time.Time `form:"dateFrom" time_format:"2006-01-02"`
	DateTo          *time.Time `form:"dateTo" time_format:"2006-01-02"`
	Limit           int        `form:"limit"`
	Offset          int        `form:"offset"`
}

// ToFilter converts the query to a repository filter scoped to one fund.
func (q *TransactionListQuery) ToFilter(fundID id.ID) cashadvance.TransactionFilter {
	filter := cashadvance.DefaultTransactionFilter()
	filter.FundID = &fundID
	filter.DateFrom = q.DateFrom
	filter.DateTo = q.DateTo
	if q.TransactionType != "" {
		t := cashadvance.TransactionType(q.TransactionType)
		filter.TransactionType = &t
	}
	if q.Limit > 0 {
		filter.Limit = q.Limit
	}
	filter.Offset = q.Offset
	return filter
}

// ParseMoney parses a request money field, defaulting empty to zero.
func ParseMoney(s string) (types.Money, error) {
	if s == "" {
		return types.Zero(), nil
	}
	return types.NewMoneyFromString(s)
}
