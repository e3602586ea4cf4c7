package dto

import (
	"time"

	"puntoventa/internal/domain/reports"
)

// CashAdvanceReportQuery bounds a cash-advance report.
type CashAdvanceReportQuery struct {
	FundID   *string    `form:"fundId"`
	DateFrom *time.Time `form:"dateFrom" time_format:"2006-01-02"`
	DateTo   *time.Time `form:"dateTo" time_format:"2006-01-02"`
}

// ToFilter converts the query to a report filter.
func (q *CashAdvanceReportQuery) ToFilter() reports.CashAdvanceFilter {
	return reports.CashAdvanceFilter{
		FundID:   q.FundID,
		DateFrom: q.DateFrom,
		DateTo:   q.DateTo,
	}
}

// SalesReportQuery bounds a sales report.
type SalesReportQuery struct {
	DateFrom      *time.Time `form:"dateFrom" time_format:"2006-01-02"`
	DateTo        *time.Time `form:"dateTo" time_format:"2006-01-02"`
	PaymentMethod string     `form:"paymentMethod"`
}

// ToFilter converts the query to a report filter.
func (q *SalesReportQuery) ToFilter() reports.SalesReportFilter {
	return reports.SalesReportFilter{
		DateFrom:      q.DateFrom,
		DateTo:        q.DateTo,
		PaymentMethod: q.PaymentMethod,
	}
}
