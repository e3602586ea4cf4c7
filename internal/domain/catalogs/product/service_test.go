package product

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"puntoventa/internal/core/apperror"
	appctx "puntoventa/internal/core/context"
	"puntoventa/internal/core/id"
	"puntoventa/internal/core/types"
)

// --- Mocks ---

type mockRepo struct {
	products map[id.ID]*Product
}

func newMockRepo() *mockRepo {
	return &mockRepo{products: make(map[id.ID]*Product)}
}

func (m *mockRepo) Create(_ context.Context, p *Product) error {
	copied := *p
	m.products[p.ID] = &copied
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, productID id.ID) (*Product, error) {
	p, ok := m.products[productID]
	if !ok {
		return nil, apperror.NewNotFound("product", productID)
	}
	copied := *p
	return &copied, nil
}

func (m *mockRepo) Update(_ context.Context, p *Product) error {
	if _, ok := m.products[p.ID]; !ok {
		return apperror.NewNotFound("product", p.ID)
	}
	copied := *p
	m.products[p.ID] = &copied
	return nil
}

func (m *mockRepo) UpdateQuantity(_ context.Context, productID id.ID, quantity int) error {
	p, ok := m.products[productID]
	if !ok {
		return apperror.NewNotFound("product", productID)
	}
	p.Quantity = quantity
	return nil
}

func (m *mockRepo) Delete(_ context.Context, productID id.ID) error {
	if _, ok := m.products[productID]; !ok {
		return apperror.NewNotFound("product", productID)
	}
	delete(m.products, productID)
	return nil
}

func (m *mockRepo) List(_ context.Context, _ ListFilter) ([]*Product, error) {
	var out []*Product
	for _, p := range m.products {
		copied := *p
		out = append(out, &copied)
	}
	return out, nil
}

// --- Helpers ---

func roleCtx(role string) context.Context {
	return appctx.WithUser(context.Background(), &appctx.UserContext{
		UserID: id.New().String(),
		Email:  "user@example.com",
		Role:   role,
	})
}

// --- Tests ---

func TestService_AdminGate(t *testing.T) {
	svc := NewService(newMockRepo())
	p := NewProduct("Cafe", 10, types.ParsePrice("10"), nil)

	// Catalog writes require the admin role.
	assert.Error(t, svc.Create(roleCtx(appctx.RoleUser), p))
	assert.Error(t, svc.Update(roleCtx(appctx.RoleUser), p))
	assert.Error(t, svc.Delete(roleCtx(appctx.RoleUser), p.ID))

	require.NoError(t, svc.Create(roleCtx(appctx.RoleAdmin), p))

	got, err := svc.GetByID(roleCtx(appctx.RoleUser), p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Cafe", got.Name)
}

func TestService_Validation(t *testing.T) {
	svc := NewService(newMockRepo())
	adminCtx := roleCtx(appctx.RoleAdmin)

	err := svc.Create(adminCtx, &Product{ID: id.New(), Name: ""})
	assert.Error(t, err)

	err = svc.Create(adminCtx, &Product{ID: id.New(), Name: "X", Quantity: -1})
	assert.Error(t, err)
}

func TestCheckStock(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	p := NewProduct("Cafe", 5, types.ParsePrice("10"), nil)
	require.NoError(t, repo.Create(context.Background(), p))

	assert.NoError(t, svc.CheckStock(context.Background(), p.ID, 5))

	err := svc.CheckStock(context.Background(), p.ID, 6)
	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientStock(err))
}

func TestDecrementStock(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	p := NewProduct("Cafe", 5, types.ParsePrice("10"), nil)
	require.NoError(t, repo.Create(context.Background(), p))

	require.NoError(t, svc.DecrementStock(context.Background(), p.ID, 3))
	assert.Equal(t, 2, repo.products[p.ID].Quantity)

	// A decrement that would cross zero is rejected before any write.
	err := svc.DecrementStock(context.Background(), p.ID, 3)
	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientStock(err))
	assert.Equal(t, 2, repo.products[p.ID].Quantity)

	// Draining to exactly zero is allowed.
	require.NoError(t, svc.DecrementStock(context.Background(), p.ID, 2))
	assert.Equal(t, 0, repo.products[p.ID].Quantity)

	assert.Error(t, svc.DecrementStock(context.Background(), p.ID, 0))
	assert.Error(t, svc.DecrementStock(context.Background(), p.ID, -1))
}

func TestIncrementStock(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	p := NewProduct("Cafe", 5, types.ParsePrice("10"), nil)
	require.NoError(t, repo.Create(context.Background(), p))

	require.NoError(t, svc.IncrementStock(context.Background(), p.ID, 4))
	assert.Equal(t, 9, repo.products[p.ID].Quantity)

	assert.Error(t, svc.IncrementStock(context.Background(), p.ID, 0))
}
