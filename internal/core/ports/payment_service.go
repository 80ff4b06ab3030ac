package ports

import (
	"context"

	"github.com/vehinfo/rc-backend/internal/core/domain"
)

// OrderResult is returned after a payment order has been opened.
type OrderResult struct {
	OrderID          string
	PaymentSessionID string
	Amount           float64
	Status           domain.TransactionStatus
}

// VerifyResult reports the outcome of a user-initiated verify call.
type VerifyResult struct {
	// Settled is true when the gateway reports the order as paid.
	Settled bool
	// AlreadyProcessed is true when the transaction had left PENDING before
	// this call; no balance movement happened here.
	AlreadyProcessed bool
	// OrderStatus is the gateway's raw order status, for unpaid orders.
	OrderStatus string
	Amount      float64
	// NewBalance is set only when this call applied the credit.
	NewBalance float64
}

// WebhookInput is the raw signed notification pushed by the gateway.
type WebhookInput struct {
	RawBody   []byte
	Timestamp string
	Signature string
}

// PaymentService is the reconciliation engine: it owns every state change of
// a Transaction and is the only writer that credits balances from payments.
type PaymentService interface {
	CreateOrder(ctx context.Context, userID string, amount float64) (*OrderResult, error)
	Verify(ctx context.Context, userID, orderID string) (*VerifyResult, error)
	HandleWebhook(ctx context.Context, input WebhookInput) error
	ListTransactions(ctx context.Context, userID string) ([]*domain.Transaction, error)
}
