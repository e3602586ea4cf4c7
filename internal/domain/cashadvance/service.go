package cashadvance

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"puntoventa/internal/core/apperror"
	appctx "puntoventa/internal/core/context"
	"puntoventa/internal/core/id"
	"puntoventa/internal/core/tx"
	"puntoventa/internal/core/types"
	"puntoventa/pkg/logger"
)

var hundred = decimal.NewFromInt(100)

// Service provides fund lifecycle and transaction settlement.
type Service struct {
	repo      Repository
	txManager tx.Manager
}

// NewService creates a new cash-advance service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	return &Service{
		repo:      repo,
		txManager: txManager,
	}
}

// CreateFund opens a new active fund with the given starting balance.
func (s *Service) CreateFund(ctx context.Context, initialAmount types.Money, description string) (*Fund, error) {
	if !initialAmount.IsPositive() {
		return nil, apperror.NewValidation("initial amount must be positive").
			WithDetail("field", "initialAmount")
	}

	fund := &Fund{
		ID:             id.New(),
		InitialAmount:  initialAmount,
		CurrentBalance: initialAmount,
		Description:    description,
		IsActive:       true,
		CreatedAt:      time.Now().UTC(),
	}

	if err := s.repo.CreateFund(ctx, fund); err != nil {
		return nil, fmt.Errorf("create fund: %w", err)
	}

	logger.Info(ctx, "cash advance fund created",
		"fund_id", fund.ID,
		"initial_amount", initialAmount.String(),
	)

	return fund, nil
}

// PreviewAdvance computes the outcome of a cash advance without writing.
// The fee is pure margin: it raises what the customer pays but never
// touches the fund balance.
func (s *Service) PreviewAdvance(ctx context.Context, fundID id.ID, amount, feePercentage types.Money, description string) (*Preview, error) {
	if !amount.IsPositive() {
		return nil, apperror.NewValidation("amount must be positive").
			WithDetail("field", "amount")
	}

	if feePercentage.IsNegative() || feePercentage.GreaterThan(hundred) {
		return nil, apperror.NewValidation("fee percentage must be between 0 and 100").
			WithDetail("field", "feePercentage")
	}

	fund, err := s.repo.GetFund(ctx, fundID)
	if err != nil {
		return nil, err
	}

	if !fund.IsActive {
		return nil, apperror.NewBusinessRule(apperror.CodeFundInactive, "fund is inactive")
	}

	if amount.GreaterThan(fund.CurrentBalance) {
		return nil, apperror.NewFundBalance(fund.ID.String(), amount.String(), fund.CurrentBalance.String())
	}

	feeAmount := amount.Mul(feePercentage).Div(hundred)

	return &Preview{
		FundID:           fund.ID,
		TransactionType:  TypeAdvance,
		Amount:           amount,
		FeePercentage:    feePercentage,
		FeeAmount:        feeAmount,
		TotalToCharge:    amount.Add(feeAmount),
		RemainingBalance: fund.CurrentBalance.Sub(amount),
		Description:      description,
	}, nil
}

// PreviewReplenishment computes the outcome of adding cash to a fund.
// No fee concept applies.
func (s *Service) PreviewReplenishment(ctx context.Context, fundID id.ID, amount types.Money, description string) (*Preview, error) {
	if !amount.IsPositive() {
		return nil, apperror.NewValidation("amount must be positive").
			WithDetail("field", "amount")
	}

	fund, err := s.repo.GetFund(ctx, fundID)
	if err != nil {
		return nil, err
	}

	return &Preview{
		FundID:           fund.ID,
		TransactionType:  TypeReplenishment,
		Amount:           amount,
		TotalToCharge:    amount,
		RemainingBalance: fund.CurrentBalance.Add(amount),
		Description:      description,
	}, nil
}

// Commit persists a previewed transaction and applies its balance and
// state effects. The returned pair exposes every state transition so the
// caller can render the appropriate notice.
func (s *Service) Commit(ctx context.Context, preview *Preview) (*CommitResult, error) {
	user := appctx.GetUser(ctx)
	if user == nil {
		return nil, apperror.NewUnauthorized("no authenticated user")
	}

	cashierName := user.FullName
	if cashierName == "" {
		cashierName = user.Email
	}

	fund, err := s.repo.GetFund(ctx, preview.FundID)
	if err != nil {
		return nil, err
	}

	result := &CommitResult{}

	var newBalance types.Money
	newActive := fund.IsActive

	switch preview.TransactionType {
	case TypeAdvance:
		if !fund.IsActive {
			return nil, apperror.NewBusinessRule(apperror.CodeFundInactive, "fund is inactive")
		}
		// Re-check against the current balance: it may have moved since
		// the preview was computed.
		if preview.Amount.GreaterThan(fund.CurrentBalance) {
			return nil, apperror.NewFundBalance(fund.ID.String(), preview.Amount.String(), fund.CurrentBalance.String())
		}
		newBalance = fund.CurrentBalance.Sub(preview.Amount)
		if !newBalance.IsPositive() {
			newActive = false
			result.Deactivated = true
		}

	case TypeReplenishment:
		newBalance = fund.CurrentBalance.Add(preview.Amount)
		if !fund.IsActive {
			newActive = true
			result.Reactivated = true
		}

	default:
		return nil, apperror.NewValidation("unknown transaction type").
			WithDetail("transactionType", string(preview.TransactionType))
	}

	txn := &Transaction{
		ID:              id.New(),
		FundID:          fund.ID,
		Amount:          preview.Amount,
		FeePercentage:   preview.FeePercentage,
		FeeAmount:       preview.FeeAmount,
		FinalAmount:     preview.TotalToCharge,
		TransactionType: preview.TransactionType,
		Description:     preview.Description,
		CashierName:     cashierName,
		CreatedAt:       time.Now().UTC(),
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.InsertTransaction(ctx, txn); err != nil {
			return fmt.Errorf("insert transaction: %w", err)
		}
		if err := s.repo.UpdateFund(ctx, fund.ID, newBalance, newActive); err != nil {
			return fmt.Errorf("update fund: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	fund.CurrentBalance = newBalance
	fund.IsActive = newActive
	result.Transaction = txn
	result.Fund = fund

	logger.Info(ctx, "cash advance transaction committed",
		"fund_id", fund.ID,
		"type", string(txn.TransactionType),
		"amount", txn.Amount.String(),
		"balance", newBalance.String(),
		"active", newActive,
	)

	return result, nil
}

// DeactivateFund closes a fund regardless of balance. A later
// replenishment reopens it.
func (s *Service) DeactivateFund(ctx context.Context, fundID id.ID) error {
	fund, err := s.repo.GetFund(ctx, fundID)
	if err != nil {
		return err
	}

	if !fund.IsActive {
		return nil
	}

	if err := s.repo.UpdateFund(ctx, fundID, fund.CurrentBalance, false); err != nil {
		return fmt.Errorf("deactivate fund: %w", err)
	}

	logger.Info(ctx, "cash advance fund deactivated", "fund_id", fundID)
	return nil
}

// GetFund retrieves a single fund.
func (s *Service) GetFund(ctx context.Context, fundID id.ID) (*Fund, error) {
	return s.repo.GetFund(ctx, fundID)
}

// ListFunds retrieves funds.
func (s *Service) ListFunds(ctx context.Context, includeInactive bool) ([]*Fund, error) {
	return s.repo.ListFunds(ctx, includeInactive)
}

// ListTransactions retrieves fund transactions with filtering.
func (s *Service) ListTransactions(ctx context.Context, filter TransactionFilter) ([]*Transaction, error) {
	return s.repo.ListTransactions(ctx, filter)
}
