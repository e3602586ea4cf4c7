package dto

import (
	"time"

	"puntoventa/internal/core/types"
	"puntoventa/internal/domain/sales"
)

// RegisterSaleRequest commits a priced cart.
// Items reuse the quote shape; pricing is recomputed server-side at the
// current exchange rate before settlement.
type RegisterSaleRequest struct {
	Items []QuoteItemRequest `json:"items" binding:"required,min=1,max=10,dive"`

	PaymentMethod       string  `json:"paymentMethod" binding:"required"`
	SecondPaymentMethod *string `json:"secondPaymentMethod,omitempty"`

	// SplitAmount is required when SecondPaymentMethod is set: the amount
	// paid with PaymentMethod, the remainder going to the second method.
	SplitAmount *string `json:"splitAmount,omitempty"`
}

// ToRegisterInput converts the payment selection.
func (r *RegisterSaleRequest) ToRegisterInput() (sales.RegisterInput, error) {
	input := sales.RegisterInput{
		PaymentMethod:       r.PaymentMethod,
		SecondPaymentMethod: r.SecondPaymentMethod,
	}

	if r.SplitAmount != nil {
		amount, err := types.NewMoneyFromString(*r.SplitAmount)
		if err != nil {
			return sales.RegisterInput{}, err
		}
		input.SplitAmount = &amount
	}

	return input, nil
}

// SalesListQuery filters sale group listings.
type SalesListQuery struct {
	DateFrom      *time.Time `form:"dateFrom" time_format:"2006-01-02"`
	DateTo        *time.Time `form:"dateTo" time_format:"2006-01-02"`
	PaymentMethod string     `form:"paymentMethod"`
	Limit         int        `form:"limit"`
	Offset        int        `form:"offset"`
}

// ToFilter converts the query to a repository filter.
func (q *SalesListQuery) ToFilter() sales.ListFilter {
	filter := sales.DefaultListFilter()
	filter.DateFrom = q.DateFrom
	filter.DateTo = q.DateTo
	filter.PaymentMethod = q.PaymentMethod
	if q.Limit > 0 {
		filter.Limit = q.Limit
	}
	filter.Offset = q.Offset
	return filter
}

// SaleGroupDetailResponse pairs a group header with its rows.
type SaleGroupDetailResponse struct {
	Group *sales.SaleGroup `json:"group"`
	Rows  []*sales.Sale    `json:"rows"`

	// Canceled reflects the all-rows-flagged cancellation contract.
	Canceled bool `json:"canceled"`
}
