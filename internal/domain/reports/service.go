package reports

import (
	"context"
	"fmt"
	"sort"

	"puntoventa/internal/core/id"
	"puntoventa/internal/core/types"
	"puntoventa/internal/domain/cashadvance"
	"puntoventa/internal/domain/sales"
)

// UnknownMethod labels sale groups whose payment method cannot be determined.
const UnknownMethod = "Desconocido"

// Service fetches date-bounded rows and reduces them into summaries.
type Service struct {
	salesRepo sales.Repository
	fundRepo  cashadvance.Repository
}

// NewService creates a new reports service.
func NewService(salesRepo sales.Repository, fundRepo cashadvance.Repository) *Service {
	return &Service{
		salesRepo: salesRepo,
		fundRepo:  fundRepo,
	}
}

// GetCashAdvanceReport fetches matching fund transactions and summarizes them.
func (s *Service) GetCashAdvanceReport(ctx context.Context, filter CashAdvanceFilter) (*CashAdvanceSummary, error) {
	txFilter := cashadvance.DefaultTransactionFilter()
	txFilter.Limit = 0 // reports reduce over the full matching set
	txFilter.DateFrom = filter.DateFrom
	txFilter.DateTo = filter.DateTo

	if filter.FundID != nil {
		fundID, err := id.Parse(*filter.FundID)
		if err != nil {
			return nil, fmt.Errorf("parse fund id: %w", err)
		}
		txFilter.FundID = &fundID
	}

	txns, err := s.fundRepo.ListTransactions(ctx, txFilter)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}

	summary := SummarizeCashAdvances(txns)
	return &summary, nil
}

// GetSalesReport fetches matching sale groups with their rows and produces
// the per-method and per-date summaries.
func (s *Service) GetSalesReport(ctx context.Context, filter SalesReportFilter) (*SalesReport, error) {
	groupFilter := sales.DefaultListFilter()
	groupFilter.Limit = 0
	groupFilter.DateFrom = filter.DateFrom
	groupFilter.DateTo = filter.DateTo
	groupFilter.PaymentMethod = filter.PaymentMethod

	groups, err := s.salesRepo.ListGroups(ctx, groupFilter)
	if err != nil {
		return nil, fmt.Errorf("list sale groups: %w", err)
	}

	groupIDs := make([]id.ID, 0, len(groups))
	for _, g := range groups {
		groupIDs = append(groupIDs, g.SaleGroupID)
	}

	rowsByGroup, err := s.salesRepo.GetSalesForGroups(ctx, groupIDs)
	if err != nil {
		return nil, fmt.Errorf("fetch sale rows: %w", err)
	}

	report := &SalesReport{
		ByPaymentMethod: SummarizeSalesByPaymentMethod(groups, rowsByGroup),
		ActiveTotal:     types.Zero(),
		CanceledTotal:   types.Zero(),
	}

	active := make([]*sales.SaleGroup, 0, len(groups))
	for _, g := range groups {
		if sales.IsGroupCanceled(rowsByGroup[g.SaleGroupID]) {
			report.CanceledGroups++
			report.CanceledTotal = report.CanceledTotal.Add(g.Total)
			continue
		}
		report.ActiveGroups++
		report.ActiveTotal = report.ActiveTotal.Add(g.Total)
		active = append(active, g)
	}

	report.ByDate = SalesByDate(active)
	return report, nil
}

// SummarizeCashAdvances reduces fund transactions into totals split by type.
func SummarizeCashAdvances(txns []*cashadvance.Transaction) CashAdvanceSummary {
	summary := CashAdvanceSummary{
		TotalAdvances:       types.Zero(),
		TotalReplenishments: types.Zero(),
	}

	for _, txn := range txns {
		switch txn.TransactionType {
		case cashadvance.TypeAdvance:
			summary.TotalAdvances = summary.TotalAdvances.Add(txn.Amount)
		case cashadvance.TypeReplenishment:
			summary.TotalReplenishments = summary.TotalReplenishments.Add(txn.Amount)
		}
		summary.TransactionCount++
	}

	summary.NetFlow = summary.TotalReplenishments.Sub(summary.TotalAdvances)
	return summary
}

// SummarizeSalesByPaymentMethod attributes each group's money to payment
// method buckets, separately for active and fully-canceled groups.
//
// Legacy groups (no primary method/paid amount) attribute their entire
// total to the old payment_method field, falling back to UnknownMethod.
// Groups with a secondary method split into two bucket entries.
func SummarizeSalesByPaymentMethod(groups []*sales.SaleGroup, rowsByGroup map[id.ID][]*sales.Sale) PaymentMethodSummary {
	summary := PaymentMethodSummary{
		Active:   make(map[string]MethodBucket),
		Canceled: make(map[string]MethodBucket),
	}

	for _, g := range groups {
		buckets := summary.Active
		if sales.IsGroupCanceled(rowsByGroup[g.SaleGroupID]) {
			buckets = summary.Canceled
		}

		if g.IsLegacy() {
			method := UnknownMethod
			if g.PaymentMethod != nil && *g.PaymentMethod != "" {
				method = *g.PaymentMethod
			}
			addToBucket(buckets, method, g.Total)
			continue
		}

		addToBucket(buckets, *g.PrimaryPaymentMethod, *g.PaidAmount)

		if g.SecondaryPaymentMethod != nil && g.SecondPaidAmount != nil {
			addToBucket(buckets, *g.SecondaryPaymentMethod, *g.SecondPaidAmount)
		}
	}

	return summary
}

func addToBucket(buckets map[string]MethodBucket, method string, amount types.Money) {
	bucket, ok := buckets[method]
	if !ok {
		bucket = MethodBucket{Total: types.Zero()}
	}
	bucket.Total = bucket.Total.Add(amount)
	bucket.Transactions++
	buckets[method] = bucket
}

// SalesByDate groups active sale groups by the calendar date of their
// stored timestamp (no timezone conversion) and sums totals, ascending.
func SalesByDate(activeGroups []*sales.SaleGroup) []DateTotal {
	byDate := make(map[string]types.Money)
	for _, g := range activeGroups {
		date := g.CreatedAt.Format("2006-01-02")
		if existing, ok := byDate[date]; ok {
			byDate[date] = existing.Add(g.Total)
		} else {
			byDate[date] = g.Total
		}
	}

	out := make([]DateTotal, 0, len(byDate))
	for date, total := range byDate {
		out = append(out, DateTotal{Date: date, Total: total})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}
