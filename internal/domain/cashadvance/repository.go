package cashadvance

import (
	"context"
	"time"

	"puntoventa/internal/core/id"
	"puntoventa/internal/core/types"
)

// Repository defines persistence operations for funds and their transactions.
type Repository interface {
	// CreateFund inserts a new fund
	CreateFund(ctx context.Context, fund *Fund) error

	// GetFund retrieves a fund by ID
	GetFund(ctx context.Context, fundID id.ID) (*Fund, error)

	// UpdateFund persists balance and active-flag changes
	UpdateFund(ctx context.Context, fundID id.ID, balance types.Money, isActive bool) error

	// ListFunds retrieves funds, optionally including inactive ones
	ListFunds(ctx context.Context, includeInactive bool) ([]*Fund, error)

	// InsertTransaction appends an immutable transaction row
	InsertTransaction(ctx context.Context, txn *Transaction) error

	// ListTransactions retrieves transactions with filtering
	ListTransactions(ctx context.Context, filter TransactionFilter) ([]*Transaction, error)
}

// TransactionFilter for filtering fund transaction queries.
type TransactionFilter struct {
	FundID          *id.ID
	TransactionType *TransactionType
	DateFrom        *time.Time
	DateTo          *time.Time

	OrderBy string
	Limit   int
	Offset  int
}

// DefaultTransactionFilter returns sensible defaults.
func DefaultTransactionFilter() TransactionFilter {
	return TransactionFilter{
		Limit:   50,
		OrderBy: "created_at DESC",
	}
}
