package cashadvance

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
	funds map[id.ID]*Fund
	txns  []*Transaction
}

func newMockRepo() *mockRepo {
	return &mockRepo{funds: make(map[id.ID]*Fund)}
}

func (m *mockRepo) CreateFund(_ context.Context, fund *Fund) error {
	copied := *fund
	m.funds[fund.ID] = &copied
	return nil
}

func (m *mockRepo) GetFund(_ context.Context, fundID id.ID) (*Fund, error) {
	fund, ok := m.funds[fundID]
	if !ok {
		return nil, apperror.NewNotFound("fund", fundID)
	}
	copied := *fund
	return &copied, nil
}

func (m *mockRepo) UpdateFund(_ context.Context, fundID id.ID, balance types.Money, isActive bool) error {
	fund, ok := m.funds[fundID]
	if !ok {
		return apperror.NewNotFound("fund", fundID)
	}
	fund.CurrentBalance = balance
	fund.IsActive = isActive
	return nil
}

func (m *mockRepo) ListFunds(_ context.Context, includeInactive bool) ([]*Fund, error) {
	var out []*Fund
	for _, fund := range m.funds {
		if !includeInactive && !fund.IsActive {
			continue
		}
		copied := *fund
		out = append(out, &copied)
	}
	return out, nil
}

func (m *mockRepo) InsertTransaction(_ context.Context, txn *Transaction) error {
	m.txns = append(m.txns, txn)
	return nil
}

func (m *mockRepo) ListTransactions(_ context.Context, _ TransactionFilter) ([]*Transaction, error) {
	return m.txns, nil
}

type mockTxManager struct{}

func (mockTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// --- Helpers ---

func cashierCtx() context.Context {
	return appctx.WithUser(context.Background(), &appctx.UserContext{
		UserID:   id.New().String(),
		Email:    "cajero@example.com",
		FullName: "Cajero Uno",
		Role:     appctx.RoleUser,
	})
}

func newTestService(t *testing.T, initial string) (*Service, *mockRepo, *Fund) {
	t.Helper()
	repo := newMockRepo()
	svc := NewService(repo, mockTxManager{})

	fund, err := svc.CreateFund(cashierCtx(), types.MustMoney(initial), "caja chica")
	require.NoError(t, err)
	return svc, repo, fund
}

// --- Tests ---

func TestCreateFund(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo, mockTxManager{})

	fund, err := svc.CreateFund(cashierCtx(), types.MustMoney("500"), "caja chica")
	require.NoError(t, err)
	assert.True(t, fund.IsActive)
	assert.True(t, fund.CurrentBalance.Equal(fund.InitialAmount))

	_, err = svc.CreateFund(cashierCtx(), types.Zero(), "")
	assert.Error(t, err)

	_, err = svc.CreateFund(cashierCtx(), types.MustMoney("-10"), "")
	assert.Error(t, err)
}

// The fee raises what the customer pays but never touches the fund balance.
func TestAdvance_FeeIsMarginOnly(t *testing.T) {
	svc, repo, fund := newTestService(t, "500")

	preview, err := svc.PreviewAdvance(cashierCtx(), fund.ID, types.MustMoney("100"), types.MustMoney("5"), "adelanto")
	require.NoError(t, err)

	assert.True(t, preview.FeeAmount.Equal(types.MustMoney("5")))
	assert.True(t, preview.TotalToCharge.Equal(types.MustMoney("105")))
	assert.True(t, preview.RemainingBalance.Equal(types.MustMoney("400")))

	result, err := svc.Commit(cashierCtx(), preview)
	require.NoError(t, err)

	// Fund debited by the amount only.
	assert.True(t, result.Fund.CurrentBalance.Equal(types.MustMoney("400")))
	assert.True(t, result.Transaction.FinalAmount.Equal(types.MustMoney("105")))
	assert.False(t, result.Deactivated)
	assert.Equal(t, "Cajero Uno", result.Transaction.CashierName)

	stored, _ := repo.GetFund(context.Background(), fund.ID)
	assert.True(t, stored.CurrentBalance.Equal(types.MustMoney("400")))
}

func TestPreviewAdvance_Validation(t *testing.T) {
	svc, _, fund := newTestService(t, "500")

	_, err := svc.PreviewAdvance(cashierCtx(), fund.ID, types.Zero(), types.Zero(), "")
	assert.Error(t, err)

	_, err = svc.PreviewAdvance(cashierCtx(), fund.ID, types.MustMoney("10"), types.MustMoney("-1"), "")
	assert.Error(t, err)

	_, err = svc.PreviewAdvance(cashierCtx(), fund.ID, types.MustMoney("10"), types.MustMoney("101"), "")
	assert.Error(t, err)

	// Amount beyond the balance.
	_, err = svc.PreviewAdvance(cashierCtx(), fund.ID, types.MustMoney("501"), types.Zero(), "")
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeFundBalance, appErr.Code)
}

func TestAdvance_DrainDeactivates(t *testing.T) {
	svc, _, fund := newTestService(t, "200")

	preview, err := svc.PreviewAdvance(cashierCtx(), fund.ID, types.MustMoney("200"), types.MustMoney("10"), "")
	require.NoError(t, err)

	result, err := svc.Commit(cashierCtx(), preview)
	require.NoError(t, err)

	assert.True(t, result.Deactivated)
	assert.False(t, result.Fund.IsActive)
	assert.True(t, result.Fund.CurrentBalance.IsZero())

	// Advances against an inactive fund are rejected.
	_, err = svc.PreviewAdvance(cashierCtx(), fund.ID, types.MustMoney("1"), types.Zero(), "")
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeFundInactive, appErr.Code)
}

func TestReplenishment_Reactivates(t *testing.T) {
	svc, _, fund := newTestService(t, "100")

	// Drain to zero.
	preview, err := svc.PreviewAdvance(cashierCtx(), fund.ID, types.MustMoney("100"), types.Zero(), "")
	require.NoError(t, err)
	drained, err := svc.Commit(cashierCtx(), preview)
	require.NoError(t, err)
	require.True(t, drained.Deactivated)

	// Replenish reopens the fund.
	preview, err = svc.PreviewReplenishment(cashierCtx(), fund.ID, types.MustMoney("50"), "reposicion")
	require.NoError(t, err)
	assert.True(t, preview.TotalToCharge.Equal(types.MustMoney("50")))

	result, err := svc.Commit(cashierCtx(), preview)
	require.NoError(t, err)
	assert.True(t, result.Reactivated)
	assert.True(t, result.Fund.IsActive)
	assert.True(t, result.Fund.CurrentBalance.Equal(types.MustMoney("50")))
}

func TestCommit_RechecksBalance(t *testing.T) {
	svc, repo, fund := newTestService(t, "500")

	preview, err := svc.PreviewAdvance(cashierCtx(), fund.ID, types.MustMoney("400"), types.Zero(), "")
	require.NoError(t, err)

	// Balance moved between preview and commit.
	require.NoError(t, repo.UpdateFund(context.Background(), fund.ID, types.MustMoney("300"), true))

	_, err = svc.Commit(cashierCtx(), preview)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeFundBalance, appErr.Code)

	// Nothing persisted.
	assert.Empty(t, repo.txns)
}

func TestCommit_RequiresUser(t *testing.T) {
	svc, _, fund := newTestService(t, "100")

	preview, err := svc.PreviewAdvance(cashierCtx(), fund.ID, types.MustMoney("10"), types.Zero(), "")
	require.NoError(t, err)

	_, err = svc.Commit(context.Background(), preview)
	assert.Error(t, err)
}

func TestDeactivateFund(t *testing.T) {
	svc, repo, fund := newTestService(t, "100")

	require.NoError(t, svc.DeactivateFund(cashierCtx(), fund.ID))
	stored, _ := repo.GetFund(context.Background(), fund.ID)
	assert.False(t, stored.IsActive)
	// Balance untouched by manual deactivation.
	assert.True(t, stored.CurrentBalance.Equal(types.MustMoney("100")))

	// Idempotent.
	require.NoError(t, svc.DeactivateFund(cashierCtx(), fund.ID))

	err := svc.DeactivateFund(cashierCtx(), id.New())
	assert.True(t, apperror.IsNotFound(err))
}
