package sales

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"puntoventa/internal/core/apperror"
	appctx "puntoventa/internal/core/context"
	"puntoventa/internal/core/id"
	"puntoventa/internal/core/types"
	"puntoventa/internal/domain/cart"
	"puntoventa/internal/domain/catalogs/product"
	"puntoventa/pkg/logger"
)

// Inventory is the slice of the product service that settlement needs.
type Inventory interface {
	GetByID(ctx context.Context, productID id.ID) (*product.Product, error)
	DecrementStock(ctx context.Context, productID id.ID, qty int) error
	IncrementStock(ctx context.Context, productID id.ID, qty int) error
}

// Service provides sale settlement and reversal.
//
// Settlement applies its per-item writes sequentially without a cross-item
// transaction envelope: a stock conflict partway through leaves earlier
// items committed and later items absent. This best-effort sequential
// apply is the documented contract; callers must not assume atomicity
// across line items.
type Service struct {
	repo      Repository
	inventory Inventory
}

// NewService creates a new settlement service.
func NewService(repo Repository, inventory Inventory) *Service {
	return &Service{
		repo:      repo,
		inventory: inventory,
	}
}

// RegisterInput carries the payment selection for a checkout.
type RegisterInput struct {
	PaymentMethod       string
	SecondPaymentMethod *string
	// SplitAmount is the amount paid with PaymentMethod when a second
	// method is present. Required to satisfy 0 < SplitAmount <= total.
	SplitAmount *types.Money
}

// RegisterSale commits a priced cart: one Sale row and one stock decrement
// per line in cart order, then the SaleGroup header. Returns the full
// ticket detail for rendering.
func (s *Service) RegisterSale(ctx context.Context, lines []cart.LineItem, input RegisterInput) (*TicketDetail, error) {
	user := appctx.GetUser(ctx)
	if user == nil {
		return nil, apperror.NewUnauthorized("no authenticated user")
	}

	userID, err := id.Parse(user.UserID)
	if err != nil {
		return nil, apperror.NewUnauthorized("invalid user identity")
	}

	if len(lines) == 0 {
		return nil, apperror.NewValidation("cart is empty")
	}

	if input.PaymentMethod == "" {
		return nil, apperror.NewValidation("payment method is required").
			WithDetail("field", "paymentMethod")
	}

	// Aggregate totals across all lines before any write.
	subtotal, tax, total := types.Zero(), types.Zero(), types.Zero()
	for _, line := range lines {
		subtotal = subtotal.Add(line.SubtotalLocal)
		tax = tax.Add(line.TaxTotalLocal)
		total = total.Add(line.TotalLocal)
	}

	if input.SecondPaymentMethod != nil {
		if input.SplitAmount == nil || !input.SplitAmount.IsPositive() || input.SplitAmount.GreaterThan(total) {
			return nil, apperror.NewValidation("split amount must be positive and not exceed the cart total").
				WithDetail("field", "splitAmount")
		}
	}

	groupID := id.New()
	createdAt := time.Now().UTC()

	// Best-effort sequential apply: a conflict at line k leaves lines
	// 0..k-1 committed. The conflict error names the offending product.
	for _, line := range lines {
		p, err := s.inventory.GetByID(ctx, line.ProductID)
		if err != nil {
			return nil, fmt.Errorf("read product %s: %w", line.ProductID, err)
		}

		if p.Quantity-line.Quantity < 0 {
			return nil, apperror.NewInsufficientStock(p.ID.String(), p.Name, line.Quantity, p.Quantity)
		}

		row := &Sale{
			ID:          id.New(),
			SaleGroupID: groupID,
			ProductID:   line.ProductID,
			ProductName: line.Name,
			Quantity:    line.Quantity,
			Total:       line.TotalLocal,
			UserID:      userID,
			IsCanceled:  false,
			CreatedAt:   createdAt,
		}

		if err := s.repo.InsertSale(ctx, row); err != nil {
			return nil, fmt.Errorf("insert sale row: %w", err)
		}

		if err := s.inventory.DecrementStock(ctx, line.ProductID, line.Quantity); err != nil {
			return nil, fmt.Errorf("decrement stock: %w", err)
		}
	}

	paid := total
	if input.SplitAmount != nil {
		paid = *input.SplitAmount
	}

	group := &SaleGroup{
		SaleGroupID:            groupID,
		UserID:                 userID,
		Subtotal:               subtotal,
		Tax:                    tax,
		Total:                  total,
		SaleNumber:             newSaleNumber(),
		PrimaryPaymentMethod:   &input.PaymentMethod,
		PaidAmount:             &paid,
		SecondaryPaymentMethod: input.SecondPaymentMethod,
		CreatedAt:              createdAt,
	}

	if input.SecondPaymentMethod != nil {
		second := total.Sub(paid)
		group.SecondPaidAmount = &second
	}

	if err := s.repo.InsertSaleGroup(ctx, group); err != nil {
		return nil, fmt.Errorf("insert sale group: %w", err)
	}

	logger.Info(ctx, "sale registered",
		"sale_group_id", groupID,
		"sale_number", group.SaleNumber,
		"items", len(lines),
		"total", total.String(),
	)

	return buildTicket(group, ticketItemsFromLines(lines)), nil
}

// CancelSaleGroup flags every row of the group as canceled, then restores
// each product's quantity by that line's quantity.
func (s *Service) CancelSaleGroup(ctx context.Context, groupID id.ID) error {
	rows, err := s.repo.GetSalesByGroup(ctx, groupID)
	if err != nil {
		return fmt.Errorf("read sale rows: %w", err)
	}

	if len(rows) == 0 {
		return apperror.NewNotFound("sale group", groupID)
	}

	if IsGroupCanceled(rows) {
		return apperror.NewConflict("sale group is already canceled")
	}

	if err := s.repo.MarkGroupCanceled(ctx, groupID); err != nil {
		return fmt.Errorf("mark group canceled: %w", err)
	}

	for _, row := range rows {
		if err := s.inventory.IncrementStock(ctx, row.ProductID, row.Quantity); err != nil {
			return fmt.Errorf("restore stock for %s: %w", row.ProductID, err)
		}
	}

	logger.Info(ctx, "sale group canceled",
		"sale_group_id", groupID,
		"items", len(rows),
	)

	return nil
}

// ReprintTicket re-derives a ticket view from persisted rows without
// re-running settlement. Pure read, no side effects.
func (s *Service) ReprintTicket(ctx context.Context, groupID id.ID) (*TicketDetail, error) {
	group, err := s.repo.GetSaleGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}

	rows, err := s.repo.GetSalesByGroup(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("read sale rows: %w", err)
	}

	items := make([]TicketItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, TicketItem{
			ProductID: row.ProductID,
			Name:      row.ProductName,
			Quantity:  row.Quantity,
			Total:     row.Total,
		})
	}

	return buildTicket(group, items), nil
}

// GetGroupWithRows returns a group header with its line rows.
func (s *Service) GetGroupWithRows(ctx context.Context, groupID id.ID) (*SaleGroup, []*Sale, error) {
	group, err := s.repo.GetSaleGroup(ctx, groupID)
	if err != nil {
		return nil, nil, err
	}

	rows, err := s.repo.GetSalesByGroup(ctx, groupID)
	if err != nil {
		return nil, nil, fmt.Errorf("read sale rows: %w", err)
	}

	return group, rows, nil
}

// List retrieves sale groups with filtering.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]*SaleGroup, error) {
	return s.repo.ListGroups(ctx, filter)
}

// newSaleNumber generates a random four-digit ticket number.
// Not guaranteed unique; the group UUID is the real identifier.
func newSaleNumber() int {
	return rand.IntN(9000) + 1000
}

func ticketItemsFromLines(lines []cart.LineItem) []TicketItem {
	items := make([]TicketItem, 0, len(lines))
	for _, line := range lines {
		items = append(items, TicketItem{
			ProductID: line.ProductID,
			Name:      line.Name,
			Quantity:  line.Quantity,
			Total:     line.TotalLocal,
		})
	}
	return items
}

func buildTicket(group *SaleGroup, items []TicketItem) *TicketDetail {
	ticket := &TicketDetail{
		SaleGroupID:            group.SaleGroupID,
		SaleNumber:             group.SaleNumber,
		Items:                  items,
		Subtotal:               group.Subtotal,
		Tax:                    group.Tax,
		Total:                  group.Total,
		SecondaryPaymentMethod: group.SecondaryPaymentMethod,
		SecondPaidAmount:       group.SecondPaidAmount,
		CreatedAt:              group.CreatedAt,
	}

	switch {
	case !group.IsLegacy():
		ticket.PrimaryPaymentMethod = *group.PrimaryPaymentMethod
		ticket.PaidAmount = *group.PaidAmount
	case group.PaymentMethod != nil:
		ticket.PrimaryPaymentMethod = *group.PaymentMethod
		ticket.PaidAmount = group.Total
	default:
		ticket.PrimaryPaymentMethod = "Desconocido"
		ticket.PaidAmount = group.Total
	}

	return ticket
}
