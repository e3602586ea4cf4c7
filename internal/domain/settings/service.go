package settings

import (
	"context"
	"fmt"
	"time"

	"puntoventa/internal/core/apperror"
	appctx "puntoventa/internal/core/context"
	"puntoventa/internal/core/id"
	"puntoventa/internal/core/tx"
	"puntoventa/internal/core/types"
	"puntoventa/internal/domain/pricing"
	"puntoventa/pkg/logger"
)

// Service provides exchange-rate lookup and administration.
type Service struct {
	repo      Repository
	txManager tx.Manager
}

// NewService creates a new settings service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	return &Service{
		repo:      repo,
		txManager: txManager,
	}
}

// GetExchangeRate resolves the current exchange rate: the global row
// first, then a per-user legacy row for the context user.
func (s *Service) GetExchangeRate(ctx context.Context) (pricing.ExchangeRate, error) {
	setting, err := s.repo.GetSetting(ctx, KeyExchangeRate, nil)
	if err != nil && !apperror.IsNotFound(err) {
		return pricing.ExchangeRate{}, fmt.Errorf("read exchange rate: %w", err)
	}

	if setting == nil || !setting.Value.IsPositive() {
		setting, err = s.legacyUserRate(ctx)
		if err != nil {
			return pricing.ExchangeRate{}, err
		}
	}

	if setting == nil {
		return pricing.ExchangeRate{}, apperror.NewNotFound("exchange rate", KeyExchangeRate)
	}

	return pricing.NewExchangeRate(setting.Value)
}

func (s *Service) legacyUserRate(ctx context.Context) (*Setting, error) {
	user := appctx.GetUser(ctx)
	if user == nil {
		return nil, nil
	}

	userID, err := id.Parse(user.UserID)
	if err != nil {
		return nil, nil
	}

	setting, err := s.repo.GetSetting(ctx, KeyExchangeRate, &userID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read legacy exchange rate: %w", err)
	}

	return setting, nil
}

// SetExchangeRate replaces the global rate and appends a history entry.
// Admin only.
func (s *Service) SetExchangeRate(ctx context.Context, rate types.Money) error {
	user := appctx.GetUser(ctx)
	if user == nil {
		return apperror.NewUnauthorized("no authenticated user")
	}

	if !appctx.IsAdmin(ctx) {
		return apperror.NewForbidden("admin role required")
	}

	if _, err := pricing.NewExchangeRate(rate); err != nil {
		return err
	}

	userID, err := id.Parse(user.UserID)
	if err != nil {
		return apperror.NewUnauthorized("invalid user identity")
	}

	now := time.Now().UTC()

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		setting := &Setting{
			ID:        id.New(),
			Key:       KeyExchangeRate,
			Value:     rate,
			UpdatedAt: now,
		}
		if err := s.repo.UpsertSetting(ctx, setting); err != nil {
			return fmt.Errorf("upsert setting: %w", err)
		}

		entry := &RateHistory{
			ID:        id.New(),
			Rate:      rate,
			UserID:    userID,
			CreatedAt: now,
		}
		if err := s.repo.InsertRateHistory(ctx, entry); err != nil {
			return fmt.Errorf("insert history: %w", err)
		}

		return nil
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "exchange rate updated", "rate", rate.String())
	return nil
}

// RateHistory lists recent exchange-rate changes.
func (s *Service) RateHistory(ctx context.Context, limit int) ([]*RateHistory, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.repo.ListRateHistory(ctx, limit)
}
