package sales

import (
	"context"
	"time"

	"puntoventa/internal/core/id"
)

// Repository defines persistence operations for sale records.
type Repository interface {
	// InsertSale appends one line-item row
	InsertSale(ctx context.Context, row *Sale) error

	// InsertSaleGroup appends the group header row
	InsertSaleGroup(ctx context.Context, group *SaleGroup) error

	// GetSaleGroup retrieves a group header by ID
	GetSaleGroup(ctx context.Context, groupID id.ID) (*SaleGroup, error)

	// GetSalesByGroup retrieves all line rows sharing a sale_group_id
	GetSalesByGroup(ctx context.Context, groupID id.ID) ([]*Sale, error)

	// GetSalesForGroups retrieves line rows for many groups at once,
	// keyed by sale_group_id
	GetSalesForGroups(ctx context.Context, groupIDs []id.ID) (map[id.ID][]*Sale, error)

	// MarkGroupCanceled sets is_canceled on every row of the group
	MarkGroupCanceled(ctx context.Context, groupID id.ID) error

	// ListGroups retrieves group headers with filtering
	ListGroups(ctx context.Context, filter ListFilter) ([]*SaleGroup, error)
}

// ListFilter for filtering sale group queries.
type ListFilter struct {
	DateFrom      *time.Time
	DateTo        *time.Time
	PaymentMethod string
	UserID        *id.ID

	OrderBy string
	Limit   int
	Offset  int
}

// DefaultListFilter returns sensible defaults.
func DefaultListFilter() ListFilter {
	return ListFilter{
		Limit:   50,
		OrderBy: "created_at DESC",
	}
}
