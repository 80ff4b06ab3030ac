package ports

import (
	"context"

	"github.com/vehinfo/rc-backend/internal/core/domain"
)

// DeductInput carries one debit request. When Amount is zero the price is
// resolved from the service tag's entry in the price table.
type DeductInput struct {
	UserID  string
	Amount  float64
	Service string
}

// DeductResult reports what was charged and what remains.
type DeductResult struct {
	Charged   float64
	Remaining float64
}

// BalanceDetail is the view returned by Get.
type BalanceDetail struct {
	Amount  float64
	Pricing domain.PriceTable
}

// BalanceService defines balance read, deduction, and admin allocation
// use cases.
type BalanceService interface {
	// Get returns the user's balance, lazily creating the record at 0.
	Get(ctx context.Context, userID string) (*BalanceDetail, error)
	Deduct(ctx context.Context, input DeductInput) (*DeductResult, error)
	// Allocate replaces a user's balance with an absolute value (admin only).
	Allocate(ctx context.Context, userID string, amount float64) (float64, error)
	// Add increments a user's balance (admin only).
	Add(ctx context.Context, userID string, amount float64) (float64, error)
}
