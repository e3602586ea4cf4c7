package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"puntoventa/internal/core/id"
	"puntoventa/internal/domain/settings"
)

const (
	settingsTable    = "settings"
	rateHistoryTable = "exchange_rate_history"
)

var settingColumns = []string{"id", "key", "value", "user_id", "updated_at"}

var rateHistoryColumns = []string{"id", "rate", "user_id", "created_at"}

// SettingsRepo implements settings.Repository.
type SettingsRepo struct {
	txm *TxManager
}

// NewSettingsRepo creates a new settings repository.
func NewSettingsRepo(txm *TxManager) *SettingsRepo {
	return &SettingsRepo{txm: txm}
}

var _ settings.Repository = (*SettingsRepo)(nil)

func (r *SettingsRepo) GetSetting(ctx context.Context, key string, userID *id.ID) (*settings.Setting, error) {
	q := Builder().
		Select(settingColumns...).
		From(settingsTable).
		Where(squirrel.Eq{"key": key})

	if userID != nil {
		q = q.Where(squirrel.Eq{"user_id": *userID})
	} else {
		q = q.Where("user_id IS NULL")
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var setting settings.Setting
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &setting, sql, args...); err != nil {
		return nil, mapNotFound(err, "setting", key)
	}

	return &setting, nil
}

func (r *SettingsRepo) UpsertSetting(ctx context.Context, setting *settings.Setting) error {
	// Partial unique indexes cover (key) WHERE user_id IS NULL and
	// (key, user_id) WHERE user_id IS NOT NULL.
	conflictTarget := "(key, user_id) WHERE user_id IS NOT NULL"
	if setting.UserID == nil {
		conflictTarget = "(key) WHERE user_id IS NULL"
	}

	q := Builder().
		Insert(settingsTable).
		Columns(settingColumns...).
		Values(setting.ID, setting.Key, setting.Value, setting.UserID, setting.UpdatedAt).
		Suffix(fmt.Sprintf(
			"ON CONFLICT %s DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at",
			conflictTarget,
		))

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build upsert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("upsert setting: %w", err)
	}

	return nil
}

func (r *SettingsRepo) InsertRateHistory(ctx context.Context, entry *settings.RateHistory) error {
	q := Builder().
		Insert(rateHistoryTable).
		Columns(rateHistoryColumns...).
		Values(entry.ID, entry.Rate, entry.UserID, entry.CreatedAt)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert rate history: %w", err)
	}

	return nil
}

func (r *SettingsRepo) ListRateHistory(ctx context.Context, limit int) ([]*settings.RateHistory, error) {
	if limit <= 0 {
		limit = 20
	}

	q := Builder().
		Select(rateHistoryColumns...).
		From(rateHistoryTable).
		OrderBy("created_at DESC").
		Limit(uint64(limit))

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var entries []*settings.RateHistory
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &entries, sql, args...); err != nil {
		return nil, fmt.Errorf("list rate history: %w", err)
	}

	return entries, nil
}
