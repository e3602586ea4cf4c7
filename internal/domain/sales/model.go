// Package sales provides the sale settlement engine: committing a priced
// cart as durable records and reversing it on cancellation.
package sales

import (
	"time"

	"puntoventa/internal/core/id"
	"puntoventa/internal/core/types"
)

// SaleGroup is the header row for one checkout: the set of line items
// sharing one ticket. Immutable once created except for the cancellation
// flag on its children; never deleted.
type SaleGroup struct {
	SaleGroupID id.ID       `db:"sale_group_id" json:"saleGroupId"`
	UserID      id.ID       `db:"user_id" json:"userId"`
	Subtotal    types.Money `db:"subtotal" json:"subtotal"`
	Tax         types.Money `db:"tax" json:"tax"`
	Total       types.Money `db:"total" json:"total"`

	// SaleNumber is a random four-digit ticket number. It is cosmetic and
	// not guaranteed unique.
	SaleNumber int `db:"sale_number" json:"saleNumber"`

	PrimaryPaymentMethod   *string      `db:"primary_payment_method" json:"primaryPaymentMethod,omitempty"`
	PaidAmount             *types.Money `db:"paid_amount" json:"paidAmount,omitempty"`
	SecondaryPaymentMethod *string      `db:"secondary_payment_method" json:"secondaryPaymentMethod,omitempty"`
	SecondPaidAmount       *types.Money `db:"second_paid_amount" json:"secondPaidAmount,omitempty"`

	// PaymentMethod is the pre-split-payment legacy field. Groups written
	// by current code always carry the primary fields instead.
	PaymentMethod *string `db:"payment_method" json:"paymentMethod,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// IsLegacy reports whether the group predates the split-payment schema.
// Legacy groups attribute their entire total to PaymentMethod.
func (g *SaleGroup) IsLegacy() bool {
	return g.PrimaryPaymentMethod == nil || g.PaidAmount == nil
}

// Sale is one line-item record of a sale group.
type Sale struct {
	ID          id.ID       `db:"id" json:"id"`
	SaleGroupID id.ID       `db:"sale_group_id" json:"saleGroupId"`
	ProductID   id.ID       `db:"product_id" json:"productId"`
	ProductName string      `db:"product_name" json:"productName"`
	Quantity    int         `db:"quantity" json:"quantity"`
	Total       types.Money `db:"total" json:"total"`
	UserID      id.ID       `db:"user_id" json:"userId"`
	IsCanceled  bool        `db:"is_canceled" json:"isCanceled"`
	CreatedAt   time.Time   `db:"created_at" json:"createdAt"`
}

// IsGroupCanceled reports whether a group is canceled for reporting:
// true iff every row carries the cancellation flag. A partially-canceled
// group (only reachable by out-of-band mutation) counts as active.
func IsGroupCanceled(rows []*Sale) bool {
	if len(rows) == 0 {
		return false
	}
	for _, row := range rows {
		if !row.IsCanceled {
			return false
		}
	}
	return true
}

// TicketItem is one rendered line of a ticket.
type TicketItem struct {
	ProductID id.ID       `json:"productId"`
	Name      string      `json:"name"`
	Quantity  int         `json:"quantity"`
	Total     types.Money `json:"total"`
}

// TicketDetail is the full sale view handed to ticket rendering. It is a
// plain data structure; formatting is the consumer's concern.
type TicketDetail struct {
	SaleGroupID            id.ID        `json:"saleGroupId"`
	SaleNumber             int          `json:"saleNumber"`
	Items                  []TicketItem `json:"items"`
	Subtotal               types.Money  `json:"subtotal"`
	Tax                    types.Money  `json:"tax"`
	Total                  types.Money  `json:"total"`
	PrimaryPaymentMethod   string       `json:"primaryPaymentMethod"`
	PaidAmount             types.Money  `json:"paidAmount"`
	SecondaryPaymentMethod *string      `json:"secondaryPaymentMethod,omitempty"`
	SecondPaidAmount       *types.Money `json:"secondPaidAmount,omitempty"`
	CreatedAt              time.Time    `json:"createdAt"`
}
