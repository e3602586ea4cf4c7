package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"puntoventa/internal/core/id"
	"puntoventa/internal/domain/catalogs/product"
)

const productsTable = "products"

var productColumns = []string{"id", "name", "quantity", "price", "category", "created_at"}

// ProductRepo implements product.Repository.
type ProductRepo struct {
	txm *TxManager
}

// NewProductRepo creates a new product repository.
func NewProductRepo(txm *TxManager) *ProductRepo {
	return &ProductRepo{txm: txm}
}

var _ product.Repository = (*ProductRepo)(nil)

func (r *ProductRepo) Create(ctx context.Context, p *product.Product) error {
	q := Builder().
		Insert(productsTable).
		Columns(productColumns...).
		Values(p.ID, p.Name, p.Quantity, p.Price, p.Category, p.CreatedAt)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert product: %w", err)
	}

	return nil
}

func (r *ProductRepo) GetByID(ctx context.Context, productID id.ID) (*product.Product, error) {
	q := Builder().
		Select(productColumns...).
		From(productsTable).
		Where(squirrel.Eq{"id": productID})

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var p product.Product
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &p, sql, args...); err != nil {
		return nil, mapNotFound(err, "product", productID)
	}

	return &p, nil
}

func (r *ProductRepo) Update(ctx context.Context, p *product.Product) error {
	q := Builder().
		Update(productsTable).
		Set("name", p.Name).
		Set("quantity", p.Quantity).
		Set("price", p.Price).
		Set("category", p.Category).
		Where(squirrel.Eq{"id": p.ID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}

	if result.RowsAffected() == 0 {
		return mapNotFoundResult("product", p.ID)
	}

	return nil
}

func (r *ProductRepo) UpdateQuantity(ctx context.Context, productID id.ID, quantity int) error {
	q := Builder().
		Update(productsTable).
		Set("quantity", quantity).
		Where(squirrel.Eq{"id": productID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update quantity: %w", err)
	}

	if result.RowsAffected() == 0 {
		return mapNotFoundResult("product", productID)
	}

	return nil
}

func (r *ProductRepo) Delete(ctx context.Context, productID id.ID) error {
	q := Builder().
		Delete(productsTable).
		Where(squirrel.Eq{"id": productID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	return nil
}

func (r *ProductRepo) List(ctx context.Context, filter product.ListFilter) ([]*product.Product, error) {
	q := Builder().
		Select(productColumns...).
		From(productsTable)

	if filter.Search != "" {
		q = q.Where(squirrel.ILike{"name": "%" + filter.Search + "%"})
	}

	if filter.Category != nil {
		q = q.Where(squirrel.Eq{"category": *filter.Category})
	}

	if filter.InStock {
		q = q.Where(squirrel.Gt{"quantity": 0})
	}

	orderBy := filter.OrderBy
	if orderBy == "" {
		orderBy = "name"
	}
	q = q.OrderBy(orderBy)

	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit)).Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []*product.Product
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	return items, nil
}
