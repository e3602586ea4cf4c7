// Package reports provides read-only aggregation over persisted sales and
// cash-advance records.
package reports

import (
	"time"

	"puntoventa/internal/core/types"
)

// --- Cash advance summary ---

// CashAdvanceFilter bounds a cash-advance report.
type CashAdvanceFilter struct {
	FundID   *string
	DateFrom *time.Time
	DateTo   *time.Time
}

// CashAdvanceSummary totals fund transactions split by type.
type CashAdvanceSummary struct {
	TotalAdvances       types.Money `json:"totalAdvances"`
	TotalReplenishments types.Money `json:"totalReplenishments"`

	// NetFlow = TotalReplenishments - TotalAdvances.
	NetFlow types.Money `json:"netFlow"`

	TransactionCount int `json:"transactionCount"`
}

// --- Payment method summary ---

// MethodBucket accumulates one payment method's share.
type MethodBucket struct {
	Total        types.Money `json:"total"`
	Transactions int         `json:"transactions"`
}

// PaymentMethodSummary maps payment methods to their totals, computed
// separately for active and fully-canceled sale groups.
type PaymentMethodSummary struct {
	Active   map[string]MethodBucket `json:"active"`
	Canceled map[string]MethodBucket `json:"canceled"`
}

// --- Sales by date ---

// DateTotal is one calendar day's sales total.
type DateTotal struct {
	Date  string      `json:"date"`
	Total types.Money `json:"total"`
}

// --- Sales report ---

// SalesReportFilter bounds a sales report.
type SalesReportFilter struct {
	DateFrom      *time.Time
	DateTo        *time.Time
	PaymentMethod string
}

// SalesReport is the full sales report payload.
type SalesReport struct {
	ByPaymentMethod PaymentMethodSummary `json:"byPaymentMethod"`
	ByDate          []DateTotal          `json:"byDate"`

	ActiveGroups   int `json:"activeGroups"`
	CanceledGroups int `json:"canceledGroups"`

	ActiveTotal   types.Money `json:"activeTotal"`
	CanceledTotal types.Money `json:"canceledTotal"`
}
