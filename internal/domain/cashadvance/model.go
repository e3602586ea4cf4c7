// Package cashadvance provides the cash-advance fund engine: named cash
// pools, advance and replenishment transactions, commission computation,
// and automatic fund deactivation/reactivation.
package cashadvance

import (
	"time"

	"puntoventa/internal/core/id"
	"puntoventa/internal/core/types"
)

// TransactionType discriminates fund transactions.
type TransactionType string

const (
	TypeAdvance       TransactionType = "advance"
	TypeReplenishment TransactionType = "replenishment"
)

// Fund is a named pool of cash used to issue advances.
// CurrentBalance is the running balance and never goes negative.
// IsActive auto-transitions to false when an advance drains the balance
// to zero, and back to true on any replenishment to an inactive fund.
type Fund struct {
	ID             id.ID       `db:"id" json:"id"`
	InitialAmount  types.Money `db:"initial_amount" json:"initialAmount"`
	CurrentBalance types.Money `db:"current_balance" json:"currentBalance"`
	Description    string      `db:"description" json:"description"`
	IsActive       bool        `db:"is_active" json:"isActive"`
	CreatedAt      time.Time   `db:"created_at" json:"createdAt"`
}

// Transaction is an immutable audit record of one fund operation.
// Amount is always the fund-affecting quantity and never includes the fee;
// FinalAmount is the customer-facing charge (amount + fee for advances,
// amount for replenishments).
type Transaction struct {
	ID              id.ID           `db:"id" json:"id"`
	FundID          id.ID           `db:"fund_id" json:"fundId"`
	Amount          types.Money     `db:"amount" json:"amount"`
	FeePercentage   types.Money     `db:"fee_percentage" json:"feePercentage"`
	FeeAmount       types.Money     `db:"fee_amount" json:"feeAmount"`
	FinalAmount     types.Money     `db:"final_amount" json:"finalAmount"`
	TransactionType TransactionType `db:"transaction_type" json:"transactionType"`
	Description     string          `db:"description" json:"description"`
	CashierName     string          `db:"cashier_name" json:"cashierName"`
	CreatedAt       time.Time       `db:"created_at" json:"createdAt"`
}

// Preview holds the computed outcome of a not-yet-committed transaction.
// The caller shows it for confirmation and then passes it to Commit.
type Preview struct {
	FundID          id.ID           `json:"fundId"`
	TransactionType TransactionType `json:"transactionType"`

	// Amount is what will debit or credit the fund.
	Amount types.Money `json:"amount"`

	FeePercentage types.Money `json:"feePercentage"`
	FeeAmount     types.Money `json:"feeAmount"`

	// TotalToCharge is what the customer pays. The fee portion is margin
	// and never touches the fund balance.
	TotalToCharge types.Money `json:"totalToCharge"`

	RemainingBalance types.Money `json:"remainingBalance"`
	Description      string      `json:"description"`
}

// CommitResult pairs the persisted transaction with the updated fund so
// the caller can render a fund-closed or fund-reopened notice.
type CommitResult struct {
	Transaction *Transaction `json:"transaction"`
	Fund        *Fund        `json:"fund"`

	// Deactivated is true when this commit drained the fund to zero.
	Deactivated bool `json:"deactivated"`

	// Reactivated is true when this commit reopened an inactive fund.
	Reactivated bool `json:"reactivated"`
}
