package ports

import (
	"context"
	"time"

	"github.com/vehinfo/rc-backend/internal/core/domain"
)

// TransactionRepository defines persistence operations for payment attempts.
type TransactionRepository interface {
	Create(ctx context.Context, tx *domain.Transaction) error
	// FindByOrderID retrieves a transaction by order identifier. When userID
	// is non-empty the query is additionally scoped to that user.
	FindByOrderID(ctx context.Context, orderID, userID string) (*domain.Transaction, error)
	// ListByUser returns the user's transactions, newest first.
	ListByUser(ctx context.Context, userID string, limit int64) ([]*domain.Transaction, error)
	// MarkSucceeded performs the reconciliation gate: a single conditional
	// update that moves the transaction from PENDING to SUCCESS and stamps
	// paidAt. It returns the transaction and applied=true only for the one
	// caller that won the transition; every other concurrent or duplicate
	// attempt observes applied=false.
	MarkSucceeded(ctx context.Context, orderID string, paidAt time.Time) (*domain.Transaction, bool, error)
}
