package ports

import (
	"context"

	"github.com/vehinfo/rc-backend/internal/core/domain"
)

// BalanceRepository defines persistence operations for user balances.
// Credit and Debit must be implemented as atomic storage-level mutations so
// that a concurrent crediting and deduction cannot lose an update.
type BalanceRepository interface {
	// GetOrCreate returns the user's balance, creating it at 0 when absent.
	GetOrCreate(ctx context.Context, userID string) (*domain.Balance, error)
	// Credit atomically adds amount (creating the record at 0 first when
	// absent) and returns the new total. amount > 0 is the caller's contract.
	Credit(ctx context.Context, userID string, amount float64) (float64, error)
	// Debit atomically subtracts amount and returns the new total. It fails
	// with domain.ErrInsufficientFunds when the balance is smaller than amount
	// and domain.ErrBalanceNotFound when no record exists.
	Debit(ctx context.Context, userID string, amount float64) (float64, error)
	// Set replaces the balance with an absolute value, creating the record
	// when absent, and returns the stored value.
	Set(ctx context.Context, userID string, amount float64) (float64, error)
	// AmountsFor returns the current amounts for the given users; users
	// without a balance record are reported as 0.
	AmountsFor(ctx context.Context, userIDs []string) (map[string]float64, error)
}
