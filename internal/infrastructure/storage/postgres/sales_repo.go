package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"puntoventa/internal/core/id"
	"puntoventa/internal/domain/sales"
)

const (
	salesTable      = "sales"
	saleGroupsTable = "sale_groups"
)

var saleColumns = []string{
	"id", "sale_group_id", "product_id", "product_name",
	"quantity", "total", "user_id", "is_canceled", "created_at",
}

var saleGroupColumns = []string{
	"sale_group_id", "user_id", "subtotal", "tax", "total", "sale_number",
	"primary_payment_method", "paid_amount",
	"secondary_payment_method", "second_paid_amount",
	"payment_method", "created_at",
}

// SalesRepo implements sales.Repository.
type SalesRepo struct {
	txm *TxManager
}

// NewSalesRepo creates a new sales repository.
func NewSalesRepo(txm *TxManager) *SalesRepo {
	return &SalesRepo{txm: txm}
}

var _ sales.Repository = (*SalesRepo)(nil)

func (r *SalesRepo) InsertSale(ctx context.Context, row *sales.Sale) error {
	q := Builder().
		Insert(salesTable).
		Columns(saleColumns...).
		Values(
			row.ID, row.SaleGroupID, row.ProductID, row.ProductName,
			row.Quantity, row.Total, row.UserID, row.IsCanceled, row.CreatedAt,
		)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert sale: %w", err)
	}

	return nil
}

func (r *SalesRepo) InsertSaleGroup(ctx context.Context, group *sales.SaleGroup) error {
	q := Builder().
		Insert(saleGroupsTable).
		Columns(saleGroupColumns...).
		Values(
			group.SaleGroupID, group.UserID, group.Subtotal, group.Tax,
			group.Total, group.SaleNumber,
			group.PrimaryPaymentMethod, group.PaidAmount,
			group.SecondaryPaymentMethod, group.SecondPaidAmount,
			group.PaymentMethod, group.CreatedAt,
		)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert sale group: %w", err)
	}

	return nil
}

func (r *SalesRepo) GetSaleGroup(ctx context.Context, groupID id.ID) (*sales.SaleGroup, error) {
	q := Builder().
		Select(saleGroupColumns...).
		From(saleGroupsTable).
		Where(squirrel.Eq{"sale_group_id": groupID})

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var group sales.SaleGroup
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &group, sql, args...); err != nil {
		return nil, mapNotFound(err, "sale group", groupID)
	}

	return &group, nil
}

func (r *SalesRepo) GetSalesByGroup(ctx context.Context, groupID id.ID) ([]*sales.Sale, error) {
	q := Builder().
		Select(saleColumns...).
		From(salesTable).
		Where(squirrel.Eq{"sale_group_id": groupID}).
		OrderBy("created_at")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []*sales.Sale
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("get sales: %w", err)
	}

	return rows, nil
}

func (r *SalesRepo) GetSalesForGroups(ctx context.Context, groupIDs []id.ID) (map[id.ID][]*sales.Sale, error) {
	out := make(map[id.ID][]*sales.Sale, len(groupIDs))
	if len(groupIDs) == 0 {
		return out, nil
	}

	q := Builder().
		Select(saleColumns...).
		From(salesTable).
		Where(squirrel.Eq{"sale_group_id": groupIDs}).
		OrderBy("created_at")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []*sales.Sale
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("get sales: %w", err)
	}

	for _, row := range rows {
		out[row.SaleGroupID] = append(out[row.SaleGroupID], row)
	}

	return out, nil
}

func (r *SalesRepo) MarkGroupCanceled(ctx context.Context, groupID id.ID) error {
	q := Builder().
		Update(salesTable).
		Set("is_canceled", true).
		Where(squirrel.Eq{"sale_group_id": groupID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("mark canceled: %w", err)
	}

	if result.RowsAffected() == 0 {
		return mapNotFoundResult("sale group", groupID)
	}

	return nil
}

func (r *SalesRepo) ListGroups(ctx context.Context, filter sales.ListFilter) ([]*sales.SaleGroup, error) {
	q := Builder().
		Select(saleGroupColumns...).
		From(saleGroupsTable)

	if filter.DateFrom != nil {
		q = q.Where(squirrel.GtOrEq{"created_at": *filter.DateFrom})
	}

	if filter.DateTo != nil {
		q = q.Where(squirrel.LtOrEq{"created_at": *filter.DateTo})
	}

	if filter.PaymentMethod != "" {
		q = q.Where(squirrel.Or{
			squirrel.Eq{"primary_payment_method": filter.PaymentMethod},
			squirrel.Eq{"secondary_payment_method": filter.PaymentMethod},
			squirrel.Eq{"payment_method": filter.PaymentMethod},
		})
	}

	if filter.UserID != nil {
		q = q.Where(squirrel.Eq{"user_id": *filter.UserID})
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

	var groups []*sales.SaleGroup
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &groups, sql, args...); err != nil {
		return nil, fmt.Errorf("list sale groups: %w", err)
	}

	return groups, nil
}
