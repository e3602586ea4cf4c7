package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"puntoventa/internal/core/id"
	"puntoventa/internal/core/types"
	"puntoventa/internal/domain/cashadvance"
)

const (
	fundsTable            = "cash_advance_fund"
	fundTransactionsTable = "cash_advance_transactions"
)

var fundColumns = []string{
	"id", "initial_amount", "current_balance", "description", "is_active", "created_at",
}

var fundTransactionColumns = []string{
	"id", "fund_id", "amount", "fee_percentage", "fee_amount", "final_amount",
	"transaction_type", "description", "cashier_name", "created_at",
}

// CashAdvanceRepo implements cashadvance.Repository.
type CashAdvanceRepo struct {
	txm *TxManager
}

// NewCashAdvanceRepo creates a new cash advance repository.
func NewCashAdvanceRepo(txm *TxManager) *CashAdvanceRepo {
	return &CashAdvanceRepo{txm: txm}
}

var _ cashadvance.Repository = (*CashAdvanceRepo)(nil)

func (r *CashAdvanceRepo) CreateFund(ctx context.Context, fund *cashadvance.Fund) error {
	q := Builder().
		Insert(fundsTable).
		Columns(fundColumns...).
		Values(
			fund.ID, fund.InitialAmount, fund.CurrentBalance,
			fund.Description, fund.IsActive, fund.CreatedAt,
		)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert fund: %w", err)
	}

	return nil
}

func (r *CashAdvanceRepo) GetFund(ctx context.Context, fundID id.ID) (*cashadvance.Fund, error) {
	q := Builder().
		Select(fundColumns...).
		From(fundsTable).
		Where(squirrel.Eq{"id": fundID})

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var fund cashadvance.Fund
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &fund, sql, args...); err != nil {
		return nil, mapNotFound(err, "fund", fundID)
	}

	return &fund, nil
}

func (r *CashAdvanceRepo) UpdateFund(ctx context.Context, fundID id.ID, balance types.Money, isActive bool) error {
	q := Builder().
		Update(fundsTable).
		Set("current_balance", balance).
		Set("is_active", isActive).
		Where(squirrel.Eq{"id": fundID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update fund: %w", err)
	}

	if result.RowsAffected() == 0 {
		return mapNotFoundResult("fund", fundID)
	}

	return nil
}

func (r *CashAdvanceRepo) ListFunds(ctx context.Context, includeInactive bool) ([]*cashadvance.Fund, error) {
	q := Builder().
		Select(fundColumns...).
		From(fundsTable).
		OrderBy("created_at DESC")

	if !includeInactive {
		q = q.Where(squirrel.Eq{"is_active": true})
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var funds []*cashadvance.Fund
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &funds, sql, args...); err != nil {
		return nil, fmt.Errorf("list funds: %w", err)
	}

	return funds, nil
}

func (r *CashAdvanceRepo) InsertTransaction(ctx context.Context, txn *cashadvance.Transaction) error {
	q := Builder().
		Insert(fundTransactionsTable).
		Columns(fundTransactionColumns...).
		Values(
			txn.ID, txn.FundID, txn.Amount, txn.FeePercentage, txn.FeeAmount,
			txn.FinalAmount, txn.TransactionType, txn.Description,
			txn.CashierName, txn.CreatedAt,
		)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}

	return nil
}

func (r *CashAdvanceRepo) ListTransactions(ctx context.Context, filter cashadvance.TransactionFilter) ([]*cashadvance.Transaction, error) {
	q := Builder().
		Select(fundTransactionColumns...).
		From(fundTransactionsTable)

	if filter.FundID != nil {
		q = q.Where(squirrel.Eq{"fund_id": *filter.FundID})
	}

	if filter.TransactionType != nil {
		q = q.Where(squirrel.Eq{"transaction_type": *filter.TransactionType})
	}

	if filter.DateFrom != nil {
		q = q.Where(squirrel.GtOrEq{"created_at": *filter.DateFrom})
	}

	if filter.DateTo != nil {
		q = q.Where(squirrel.LtOrEq{"created_at": *filter.DateTo})
	}

	orderBy := filter.OrderBy
	if orderBy == "" {
		orderBy = "created_at DESC"
	}
	q = q.OrderBy(orderBy)

	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit)).Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var txns []*cashadvance.Transaction
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &txns, sql, args...); err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}

	return txns, nil
}
