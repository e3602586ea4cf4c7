package product

import (
	"context"
	"fmt"

	"puntoventa/internal/core/apperror"
	appctx "puntoventa/internal/core/context"
	"puntoventa/internal/core/id"
	"puntoventa/pkg/logger"
)

// Service provides catalog management and the inventory ledger operations
// used by sale settlement.
type Service struct {
	repo Repository
}

// NewService creates a new product service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// requireAdmin gates catalog writes. Sale settlement does not go through
// this; stock mutations from settlement are open to any authenticated user.
func requireAdmin(ctx context.Context) error {
	if !appctx.IsAdmin(ctx) {
		return apperror.NewForbidden("admin role required")
	}
	return nil
}

// Create adds a product to the catalog. Admin only.
func (s *Service) Create(ctx context.Context, p *Product) error {
	if err := requireAdmin(ctx); err != nil {
		return err
	}

	if err := p.Validate(ctx); err != nil {
		return err
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return fmt.Errorf("create product: %w", err)
	}

	logger.Info(ctx, "product created", "id", p.ID, "name", p.Name)
	return nil
}

// Update modifies a product. Admin only.
func (s *Service) Update(ctx context.Context, p *Product) error {
	if err := requireAdmin(ctx); err != nil {
		return err
	}

	if err := p.Validate(ctx); err != nil {
		return err
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return fmt.Errorf("update product: %w", err)
	}

	return nil
}

// Delete removes a product from the catalog. Admin only.
func (s *Service) Delete(ctx context.Context, productID id.ID) error {
	if err := requireAdmin(ctx); err != nil {
		return err
	}

	return s.repo.Delete(ctx, productID)
}

// GetByID retrieves a single product.
func (s *Service) GetByID(ctx context.Context, productID id.ID) (*Product, error) {
	return s.repo.GetByID(ctx, productID)
}

// List retrieves products with filtering.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Product, error) {
	return s.repo.List(ctx, filter)
}

// CheckStock verifies that requestedQty is available for the product.
// Returns an insufficient-stock error naming the product otherwise.
func (s *Service) CheckStock(ctx context.Context, productID id.ID, requestedQty int) error {
	p, err := s.repo.GetByID(ctx, productID)
	if err != nil {
		return err
	}

	if requestedQty > p.Quantity {
		return apperror.NewInsufficientStock(p.ID.String(), p.Name, requestedQty, p.Quantity)
	}

	return nil
}

// DecrementStock reduces the persisted quantity by qty after re-reading the
// current value. The quantity never goes below zero; a decrement that would
// cross zero is rejected before any write.
func (s *Service) DecrementStock(ctx context.Context, productID id.ID, qty int) error {
	if qty <= 0 {
		return apperror.NewValidation("quantity must be positive").
			WithDetail("quantity", qty)
	}

	p, err := s.repo.GetByID(ctx, productID)
	if err != nil {
		return err
	}

	newQuantity := p.Quantity - qty
	if newQuantity < 0 {
		return apperror.NewInsufficientStock(p.ID.String(), p.Name, qty, p.Quantity)
	}

	if err := s.repo.UpdateQuantity(ctx, productID, newQuantity); err != nil {
		return fmt.Errorf("decrement stock: %w", err)
	}

	logger.Info(ctx, "stock decremented",
		"product_id", productID,
		"qty", qty,
		"remaining", newQuantity,
	)

	return nil
}

// IncrementStock raises the persisted quantity by qty (sale cancellation).
func (s *Service) IncrementStock(ctx context.Context, productID id.ID, qty int) error {
	if qty <= 0 {
		return apperror.NewValidation("quantity must be positive").
			WithDetail("quantity", qty)
	}

	p, err := s.repo.GetByID(ctx, productID)
	if err != nil {
		return err
	}

	if err := s.repo.UpdateQuantity(ctx, productID, p.Quantity+qty); err != nil {
		return fmt.Errorf("increment stock: %w", err)
	}

	logger.Info(ctx, "stock incremented",
		"product_id", productID,
		"qty", qty,
		"total", p.Quantity+qty,
	)

	return nil
}
