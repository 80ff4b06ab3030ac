package ports

import "context"

// Gateway order statuses we act on.
const (
	GatewayOrderPaid = "PAID"
)

// GatewayOrder carries everything the payment gateway needs to open an order.
type GatewayOrder struct {
	OrderID       string
	Amount        float64
	Currency      string
	CustomerID    string
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	Note          string
}

// PaymentGateway encapsulates all calls to the external payment processor and
// inbound webhook signature verification.
type PaymentGateway interface {
	// CreateOrder submits the order and returns the gateway's payment session
	// identifier, which the client uses to complete payment.
	CreateOrder(ctx context.Context, order GatewayOrder) (string, error)
	// OrderStatus polls the gateway for the authoritative settlement state.
	OrderStatus(ctx context.Context, orderID string) (string, error)
	// VerifySignature reports whether the provided webhook signature matches
	// the one recomputed over timestamp||rawBody with the shared secret.
	VerifySignature(rawBody []byte, timestamp, signature string) bool
}
