package domain

import "time"

// TransactionStatus represents the lifecycle state of a payment attempt.
type TransactionStatus string

const (
	StatusPending   TransactionStatus = "PENDING"
	StatusSuccess   TransactionStatus = "SUCCESS"
	StatusFailed    TransactionStatus = "FAILED"
	StatusCancelled TransactionStatus = "CANCELLED"
)

// validTransitions defines the allowed state machine transitions.
// PENDING is the only non-terminal state; every terminal state is absorbing.
var validTransitions = map[TransactionStatus][]TransactionStatus{
	StatusPending: {StatusSuccess, StatusFailed, StatusCancelled},
}

// CanTransitionTo reports whether a transition from the current status to next
// is valid.
func (s TransactionStatus) CanTransitionTo(next TransactionStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Terminal reports whether the status admits no further transitions.
func (s TransactionStatus) Terminal() bool {
	return len(validTransitions[s]) == 0
}

// Transaction is the immutable-until-settled record of one payment attempt.
// It is the source of truth for whether a given order was ever credited; the
// user's Balance is only ever moved by the reconciliation flow after the
// PENDING → SUCCESS transition has been applied.
type Transaction struct {
	ID               string            `json:"id" bson:"_id,omitempty"`
	UserID           string            `json:"user_id" bson:"user_id"`
	OrderID          string            `json:"order_id" bson:"order_id"`
	Amount           float64           `json:"amount" bson:"amount"`
	Status           TransactionStatus `json:"status" bson:"status"`
	PaymentSessionID string            `json:"payment_session_id,omitempty" bson:"payment_session_id,omitempty"`
	CreatedAt        time.Time         `json:"created_at" bson:"created_at"`
	PaidAt           *time.Time        `json:"paid_at,omitempty" bson:"paid_at,omitempty"`
}
