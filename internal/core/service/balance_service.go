package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/vehinfo/rc-backend/internal/core/domain"
	"github.com/vehinfo/rc-backend/internal/core/ports"
)

// BalanceCache abstracts the read cache for balance lookups (Redis).
// Best-effort: every mutation invalidates, every miss falls through to Mongo.
type BalanceCache interface {
	Get(ctx context.Context, userID string) (float64, bool, error)
	Set(ctx context.Context, userID string, amount float64) error
	Invalidate(ctx context.Context, userID string) error
}

// BalanceService implements balance reads, metered deductions, and admin
// allocations.
type BalanceService struct {
	repo    ports.BalanceRepository
	cache   BalanceCache
	pricing domain.PriceTable
	log     zerolog.Logger
}

func NewBalanceService(repo ports.BalanceRepository, cache BalanceCache, pricing domain.PriceTable, log zerolog.Logger) *BalanceService {
	return &BalanceService{repo: repo, cache: cache, pricing: pricing, log: log}
}

// Get returns the user's balance and the current price table, creating the
// balance record at 0 on first access.
func (s *BalanceService) Get(ctx context.Context, userID string) (*ports.BalanceDetail, error) {
	if amount, ok, err := s.cache.Get(ctx, userID); err != nil {
		s.log.Warn().Err(err).Str("user_id", userID).Msg("balance cache read failed")
	} else if ok {
		return &ports.BalanceDetail{Amount: amount, Pricing: s.pricing}, nil
	}

	balance, err := s.repo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, userID, balance.Amount); err != nil {
		s.log.Warn().Err(err).Str("user_id", userID).Msg("balance cache write failed")
	}
	return &ports.BalanceDetail{Amount: balance.Amount, Pricing: s.pricing}, nil
}

// Deduct debits the explicit amount, or the service tag's table price when no
// amount is given. The repository performs the conditional subtraction, so a
// concurrent credit can never be lost under this call.
func (s *BalanceService) Deduct(ctx context.Context, input ports.DeductInput) (*ports.DeductResult, error) {
	charge := input.Amount
	if charge == 0 {
		price, ok := s.pricing.PriceFor(input.Service)
		if !ok {
			return nil, domain.ErrUnknownService
		}
		charge = price
	}
	if charge <= 0 {
		return nil, domain.ErrInvalidAmount
	}

	remaining, err := s.repo.Debit(ctx, input.UserID, charge)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, input.UserID)

	s.log.Info().
		Str("user_id", input.UserID).
		Str("service", input.Service).
		Float64("charged", charge).
		Float64("remaining", remaining).
		Msg("balance deducted")

	return &ports.DeductResult{Charged: charge, Remaining: remaining}, nil
}

// Allocate replaces the user's balance with an absolute value. Negative
// values are rejected: balances never represent debt.
func (s *BalanceService) Allocate(ctx context.Context, userID string, amount float64) (float64, error) {
	if amount < 0 {
		return 0, domain.ErrInvalidAmount
	}
	stored, err := s.repo.Set(ctx, userID, amount)
	if err != nil {
		return 0, err
	}
	s.invalidate(ctx, userID)

	s.log.Info().Str("user_id", userID).Float64("amount", amount).Msg("balance allocated")
	return stored, nil
}

// Add increments the user's balance by amount.
func (s *BalanceService) Add(ctx context.Context, userID string, amount float64) (float64, error) {
	if amount <= 0 {
		return 0, domain.ErrInvalidAmount
	}
	newAmount, err := s.repo.Credit(ctx, userID, amount)
	if err != nil {
		return 0, err
	}
	s.invalidate(ctx, userID)

	s.log.Info().Str("user_id", userID).Float64("amount", amount).Msg("balance incremented")
	return newAmount, nil
}

func (s *BalanceService) invalidate(ctx context.Context, userID string) {
	if err := s.cache.Invalidate(ctx, userID); err != nil {
		s.log.Warn().Err(err).Str("user_id", userID).Msg("balance cache invalidation failed")
	}
}
