package settings

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
	global  *Setting
	perUser map[id.ID]*Setting
	history []*RateHistory
}

func newMockRepo() *mockRepo {
	return &mockRepo{perUser: make(map[id.ID]*Setting)}
}

func (m *mockRepo) GetSetting(_ context.Context, key string, userID *id.ID) (*Setting, error) {
	if userID == nil {
		if m.global == nil {
			return nil, apperror.NewNotFound("setting", key)
		}
		return m.global, nil
	}
	setting, ok := m.perUser[*userID]
	if !ok {
		return nil, apperror.NewNotFound("setting", key)
	}
	return setting, nil
}

func (m *mockRepo) UpsertSetting(_ context.Context, setting *Setting) error {
	if setting.UserID == nil {
		m.global = setting
	} else {
		m.perUser[*setting.UserID] = setting
	}
	return nil
}

func (m *mockRepo) InsertRateHistory(_ context.Context, entry *RateHistory) error {
	m.history = append(m.history, entry)
	return nil
}

func (m *mockRepo) ListRateHistory(_ context.Context, limit int) ([]*RateHistory, error) {
	if limit > len(m.history) {
		limit = len(m.history)
	}
	return m.history[:limit], nil
}

type mockTxManager struct{}

func (mockTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// --- Helpers ---

func ctxWithRole(userID id.ID, role string) context.Context {
	return appctx.WithUser(context.Background(), &appctx.UserContext{
		UserID: userID.String(),
		Email:  "user@example.com",
		Role:   role,
	})
}

// --- Tests ---

func TestGetExchangeRate_GlobalFirst(t *testing.T) {
	repo := newMockRepo()
	repo.global = &Setting{Key: KeyExchangeRate, Value: types.MustMoney("36.5")}

	svc := NewService(repo, mockTxManager{})

	rate, err := svc.GetExchangeRate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "36.5", rate.Rate().String())
}

func TestGetExchangeRate_LegacyUserFallback(t *testing.T) {
	userID := id.New()
	repo := newMockRepo()
	repo.perUser[userID] = &Setting{
		Key:    KeyExchangeRate,
		Value:  types.MustMoney("40"),
		UserID: &userID,
	}

	svc := NewService(repo, mockTxManager{})

	// No global row: the context user's legacy row applies.
	rate, err := svc.GetExchangeRate(ctxWithRole(userID, appctx.RoleUser))
	require.NoError(t, err)
	assert.Equal(t, "40", rate.Rate().String())

	// Different user has no row at all.
	_, err = svc.GetExchangeRate(ctxWithRole(id.New(), appctx.RoleUser))
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestSetExchangeRate(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo, mockTxManager{})
	adminCtx := ctxWithRole(id.New(), appctx.RoleAdmin)

	require.NoError(t, svc.SetExchangeRate(adminCtx, types.MustMoney("36.5")))

	// Global row replaced and history appended atomically.
	require.NotNil(t, repo.global)
	assert.True(t, repo.global.Value.Equal(types.MustMoney("36.5")))
	require.Len(t, repo.history, 1)
	assert.True(t, repo.history[0].Rate.Equal(types.MustMoney("36.5")))

	// Non-admin is rejected.
	err := svc.SetExchangeRate(ctxWithRole(id.New(), appctx.RoleUser), types.MustMoney("40"))
	assert.Error(t, err)

	// Non-positive rates are rejected.
	assert.Error(t, svc.SetExchangeRate(adminCtx, types.Zero()))
	assert.Error(t, svc.SetExchangeRate(adminCtx, types.MustMoney("-1")))

	// Unauthenticated.
	assert.Error(t, svc.SetExchangeRate(context.Background(), types.MustMoney("36.5")))
}
