package sales

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"puntoventa/internal/core/apperror"
	appctx "puntoventa/internal/core/context"
	"puntoventa/internal/core/id"
	"puntoventa/internal/core/types"
	"puntoventa/internal/domain/cart"
	"puntoventa/internal/domain/catalogs/product"
	"puntoventa/internal/domain/pricing"
)

// --- Mocks ---

type mockRepo struct {
	rows    []*Sale
	groups  []*SaleGroup
	flagged map[id.ID]bool
}

func newMockRepo() *mockRepo {
	return &mockRepo{flagged: make(map[id.ID]bool)}
}

func (m *mockRepo) InsertSale(_ context.Context, row *Sale) error {
	m.rows = append(m.rows, row)
	return nil
}

func (m *mockRepo) InsertSaleGroup(_ context.Context, group *SaleGroup) error {
	m.groups = append(m.groups, group)
	return nil
}

func (m *mockRepo) GetSaleGroup(_ context.Context, groupID id.ID) (*SaleGroup, error) {
	for _, g := range m.groups {
		if g.SaleGroupID == groupID {
			return g, nil
		}
	}
	return nil, apperror.NewNotFound("sale group", groupID)
}

func (m *mockRepo) GetSalesByGroup(_ context.Context, groupID id.ID) ([]*Sale, error) {
	var out []*Sale
	for _, row := range m.rows {
		if row.SaleGroupID == groupID {
			copied := *row
			copied.IsCanceled = copied.IsCanceled || m.flagged[groupID]
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (m *mockRepo) GetSalesForGroups(ctx context.Context, groupIDs []id.ID) (map[id.ID][]*Sale, error) {
	out := make(map[id.ID][]*Sale)
	for _, groupID := range groupIDs {
		rows, _ := m.GetSalesByGroup(ctx, groupID)
		out[groupID] = rows
	}
	return out, nil
}

func (m *mockRepo) MarkGroupCanceled(_ context.Context, groupID id.ID) error {
	m.flagged[groupID] = true
	return nil
}

func (m *mockRepo) ListGroups(_ context.Context, _ ListFilter) ([]*SaleGroup, error) {
	return m.groups, nil
}

type mockInventory struct {
	products map[id.ID]*product.Product
}

func newMockInventory(products ...*product.Product) *mockInventory {
	m := &mockInventory{products: make(map[id.ID]*product.Product)}
	for _, p := range products {
		m.products[p.ID] = p
	}
	return m
}

func (m *mockInventory) GetByID(_ context.Context, productID id.ID) (*product.Product, error) {
	p, ok := m.products[productID]
	if !ok {
		return nil, apperror.NewNotFound("product", productID)
	}
	copied := *p
	return &copied, nil
}

func (m *mockInventory) DecrementStock(_ context.Context, productID id.ID, qty int) error {
	p := m.products[productID]
	if p.Quantity-qty < 0 {
		return apperror.NewInsufficientStock(p.ID.String(), p.Name, qty, p.Quantity)
	}
	p.Quantity -= qty
	return nil
}

func (m *mockInventory) IncrementStock(_ context.Context, productID id.ID, qty int) error {
	m.products[productID].Quantity += qty
	return nil
}

// --- Helpers ---

func userCtx(role string) context.Context {
	return appctx.WithUser(context.Background(), &appctx.UserContext{
		UserID:   id.New().String(),
		Email:    "cajero@example.com",
		FullName: "Cajero Uno",
		Role:     role,
	})
}

func pricedLines(t *testing.T, products []*product.Product, quantities []int) []cart.LineItem {
	t.Helper()
	rate, err := pricing.NewExchangeRate(types.MustMoney("36.5"))
	require.NoError(t, err)

	engine := cart.NewEngine(rate)
	for i, p := range products {
		require.NoError(t, engine.AddItem(p, quantities[i]))
	}
	return engine.Items()
}

// --- Tests ---

func TestRegisterSale(t *testing.T) {
	cafe := product.NewProduct("Cafe", 10, types.ParsePrice("10"), nil)
	pan := product.NewProduct("Pan", 5, types.ParsePrice("2.5"), nil)

	repo := newMockRepo()
	inventory := newMockInventory(cafe, pan)
	svc := NewService(repo, inventory)

	lines := pricedLines(t, []*product.Product{cafe, pan}, []int{2, 1})

	ticket, err := svc.RegisterSale(userCtx(appctx.RoleUser), lines, RegisterInput{
		PaymentMethod: "Efectivo",
	})
	require.NoError(t, err)

	// One row per line, stock decremented per line.
	require.Len(t, repo.rows, 2)
	assert.Equal(t, 8, inventory.products[cafe.ID].Quantity)
	assert.Equal(t, 4, inventory.products[pan.ID].Quantity)

	// Group totals are the sums over the lines.
	require.Len(t, repo.groups, 1)
	group := repo.groups[0]
	assert.True(t, group.Subtotal.Add(group.Tax).Equal(group.Total))
	assert.Equal(t, "Efectivo", *group.PrimaryPaymentMethod)
	assert.True(t, group.PaidAmount.Equal(group.Total))
	assert.Nil(t, group.SecondaryPaymentMethod)

	assert.Equal(t, "Efectivo", ticket.PrimaryPaymentMethod)
	assert.Len(t, ticket.Items, 2)
	assert.GreaterOrEqual(t, ticket.SaleNumber, 1000)
	assert.LessOrEqual(t, ticket.SaleNumber, 9999)
}

func TestRegisterSale_SplitPayment(t *testing.T) {
	cafe := product.NewProduct("Cafe", 10, types.ParsePrice("10"), nil)
	repo := newMockRepo()
	svc := NewService(repo, newMockInventory(cafe))

	lines := pricedLines(t, []*product.Product{cafe}, []int{2})
	second := "Tarjeta"
	split := types.MustMoney("300")

	ticket, err := svc.RegisterSale(userCtx(appctx.RoleUser), lines, RegisterInput{
		PaymentMethod:       "Efectivo",
		SecondPaymentMethod: &second,
		SplitAmount:         &split,
	})
	require.NoError(t, err)

	group := repo.groups[0]
	assert.True(t, group.PaidAmount.Equal(split))
	require.NotNil(t, group.SecondPaidAmount)
	// Second amount is the remainder; the two legs sum to the total.
	assert.True(t, group.PaidAmount.Add(*group.SecondPaidAmount).Equal(group.Total))
	assert.Equal(t, "Tarjeta", *ticket.SecondaryPaymentMethod)
}

func TestRegisterSale_SplitValidation(t *testing.T) {
	cafe := product.NewProduct("Cafe", 10, types.ParsePrice("10"), nil)
	svc := NewService(newMockRepo(), newMockInventory(cafe))
	lines := pricedLines(t, []*product.Product{cafe}, []int{1})
	second := "Tarjeta"

	// Split without an amount.
	_, err := svc.RegisterSale(userCtx(appctx.RoleUser), lines, RegisterInput{
		PaymentMethod:       "Efectivo",
		SecondPaymentMethod: &second,
	})
	assert.Error(t, err)

	// Split exceeding the total.
	excess := types.MustMoney("100000")
	_, err = svc.RegisterSale(userCtx(appctx.RoleUser), lines, RegisterInput{
		PaymentMethod:       "Efectivo",
		SecondPaymentMethod: &second,
		SplitAmount:         &excess,
	})
	assert.Error(t, err)

	// Zero split.
	zero := types.Zero()
	_, err = svc.RegisterSale(userCtx(appctx.RoleUser), lines, RegisterInput{
		PaymentMethod:       "Efectivo",
		SecondPaymentMethod: &second,
		SplitAmount:         &zero,
	})
	assert.Error(t, err)
}

func TestRegisterSale_RequiresAuthAndInput(t *testing.T) {
	cafe := product.NewProduct("Cafe", 10, types.ParsePrice("10"), nil)
	svc := NewService(newMockRepo(), newMockInventory(cafe))
	lines := pricedLines(t, []*product.Product{cafe}, []int{1})

	_, err := svc.RegisterSale(context.Background(), lines, RegisterInput{PaymentMethod: "Efectivo"})
	assert.Error(t, err)

	_, err = svc.RegisterSale(userCtx(appctx.RoleUser), nil, RegisterInput{PaymentMethod: "Efectivo"})
	assert.Error(t, err)

	_, err = svc.RegisterSale(userCtx(appctx.RoleUser), lines, RegisterInput{})
	assert.Error(t, err)
}

// A stock conflict partway through leaves earlier lines committed: no
// rollback is attempted.
func TestRegisterSale_MidSaleConflictLeavesEarlierLines(t *testing.T) {
	cafe := product.NewProduct("Cafe", 10, types.ParsePrice("10"), nil)
	pan := product.NewProduct("Pan", 5, types.ParsePrice("2.5"), nil)

	repo := newMockRepo()
	inventory := newMockInventory(cafe, pan)
	svc := NewService(repo, inventory)

	lines := pricedLines(t, []*product.Product{cafe, pan}, []int{2, 3})

	// Concurrent shopper drains Pan after the cart was priced.
	inventory.products[pan.ID].Quantity = 1

	_, err := svc.RegisterSale(userCtx(appctx.RoleUser), lines, RegisterInput{
		PaymentMethod: "Efectivo",
	})
	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientStock(err))

	// First line committed and its stock decremented; no group header.
	require.Len(t, repo.rows, 1)
	assert.Equal(t, cafe.ID, repo.rows[0].ProductID)
	assert.Equal(t, 8, inventory.products[cafe.ID].Quantity)
	assert.Equal(t, 1, inventory.products[pan.ID].Quantity)
	assert.Empty(t, repo.groups)
}

func TestCancelSaleGroup(t *testing.T) {
	cafe := product.NewProduct("Cafe", 10, types.ParsePrice("10"), nil)
	repo := newMockRepo()
	inventory := newMockInventory(cafe)
	svc := NewService(repo, inventory)

	lines := pricedLines(t, []*product.Product{cafe}, []int{3})
	ticket, err := svc.RegisterSale(userCtx(appctx.RoleUser), lines, RegisterInput{
		PaymentMethod: "Efectivo",
	})
	require.NoError(t, err)
	require.Equal(t, 7, inventory.products[cafe.ID].Quantity)

	require.NoError(t, svc.CancelSaleGroup(userCtx(appctx.RoleUser), ticket.SaleGroupID))

	// Stock restored, rows flagged.
	assert.Equal(t, 10, inventory.products[cafe.ID].Quantity)
	rows, _ := repo.GetSalesByGroup(context.Background(), ticket.SaleGroupID)
	assert.True(t, IsGroupCanceled(rows))

	// Second cancellation is a conflict and must not restore stock again.
	err = svc.CancelSaleGroup(userCtx(appctx.RoleUser), ticket.SaleGroupID)
	require.Error(t, err)
	assert.Equal(t, 10, inventory.products[cafe.ID].Quantity)

	// Unknown group.
	err = svc.CancelSaleGroup(userCtx(appctx.RoleUser), id.New())
	assert.True(t, apperror.IsNotFound(err))
}

func TestReprintTicket(t *testing.T) {
	cafe := product.NewProduct("Cafe", 10, types.ParsePrice("10"), nil)
	repo := newMockRepo()
	inventory := newMockInventory(cafe)
	svc := NewService(repo, inventory)

	lines := pricedLines(t, []*product.Product{cafe}, []int{2})
	ticket, err := svc.RegisterSale(userCtx(appctx.RoleUser), lines, RegisterInput{
		PaymentMethod: "Efectivo",
	})
	require.NoError(t, err)

	stockBefore := inventory.products[cafe.ID].Quantity

	reprinted, err := svc.ReprintTicket(context.Background(), ticket.SaleGroupID)
	require.NoError(t, err)

	assert.Equal(t, ticket.SaleNumber, reprinted.SaleNumber)
	assert.True(t, reprinted.Total.Equal(ticket.Total))
	assert.Len(t, reprinted.Items, 1)

	// Reprint is a pure read.
	assert.Equal(t, stockBefore, inventory.products[cafe.ID].Quantity)
}

func TestReprintTicket_LegacyGroups(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo, newMockInventory())

	legacyMethod := "Efectivo"
	withMethod := &SaleGroup{
		SaleGroupID:   id.New(),
		Total:         types.MustMoney("100"),
		PaymentMethod: &legacyMethod,
	}
	withoutMethod := &SaleGroup{
		SaleGroupID: id.New(),
		Total:       types.MustMoney("50"),
	}
	repo.groups = append(repo.groups, withMethod, withoutMethod)

	ticket, err := svc.ReprintTicket(context.Background(), withMethod.SaleGroupID)
	require.NoError(t, err)
	assert.Equal(t, "Efectivo", ticket.PrimaryPaymentMethod)
	assert.True(t, ticket.PaidAmount.Equal(withMethod.Total))

	ticket, err = svc.ReprintTicket(context.Background(), withoutMethod.SaleGroupID)
	require.NoError(t, err)
	assert.Equal(t, "Desconocido", ticket.PrimaryPaymentMethod)
}

func TestIsGroupCanceled(t *testing.T) {
	assert.False(t, IsGroupCanceled(nil))

	all := []*Sale{{IsCanceled: true}, {IsCanceled: true}}
	assert.True(t, IsGroupCanceled(all))

	// Partial cancellation counts as active.
	partial := []*Sale{{IsCanceled: true}, {IsCanceled: false}}
	assert.False(t, IsGroupCanceled(partial))
}
