package service

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/vehinfo/rc-backend/internal/api/metrics"
	"github.com/vehinfo/rc-backend/internal/core/domain"
	"github.com/vehinfo/rc-backend/internal/core/ports"
)

const (
	minOrderAmount       = 1
	eventPaymentCaptured = "ORDER.PAYMENT.CAPTURED"
	transactionListLimit = 50
)

// WebhookDedup abstracts the idempotency fast path for webhook deliveries
// (Redis). It is an optimisation only: the conditional status update in the
// transaction repository remains the authoritative gate.
type WebhookDedup interface {
	IsDuplicate(ctx context.Context, orderID, event string) (bool, error)
	Mark(ctx context.Context, orderID, event string) error
}

// PaymentService is the reconciliation engine. It is the only writer that
// moves a Transaction out of PENDING and the only writer that credits a
// balance from a payment.
type PaymentService struct {
	gateway     ports.PaymentGateway
	txRepo      ports.TransactionRepository
	balanceRepo ports.BalanceRepository
	userRepo    ports.AuthRepository
	dedup       WebhookDedup
	log         zerolog.Logger
}

// NewPaymentService returns a PaymentService implementation.
func NewPaymentService(
	gateway ports.PaymentGateway,
	txRepo ports.TransactionRepository,
	balanceRepo ports.BalanceRepository,
	userRepo ports.AuthRepository,
	dedup WebhookDedup,
	log zerolog.Logger,
) *PaymentService {
	return &PaymentService{
		gateway:     gateway,
		txRepo:      txRepo,
		balanceRepo: balanceRepo,
		userRepo:    userRepo,
		dedup:       dedup,
		log:         log,
	}
}

// CreateOrder opens a gateway order and records a PENDING transaction.
func (s *PaymentService) CreateOrder(ctx context.Context, userID string, amount float64) (*ports.OrderResult, error) {
	if amount < minOrderAmount {
		return nil, domain.ErrInvalidAmount
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	orderID := newOrderID()
	sessionID, err := s.gateway.CreateOrder(ctx, ports.GatewayOrder{
		OrderID:       orderID,
		Amount:        amount,
		Currency:      "INR",
		CustomerID:    user.ID,
		CustomerName:  user.FullName(),
		CustomerEmail: user.Email,
		CustomerPhone: user.MobileNo,
		Note:          "Vehicle RC Search Balance Top-up",
	})
	if err != nil {
		s.log.Error().Err(err).Str("order_id", orderID).Str("user_id", userID).Msg("gateway order creation failed")
		return nil, err
	}

	tx := &domain.Transaction{
		UserID:           userID,
		OrderID:          orderID,
		Amount:           amount,
		Status:           domain.StatusPending,
		PaymentSessionID: sessionID,
		CreatedAt:        time.Now().UTC(),
	}
	if err := s.txRepo.Create(ctx, tx); err != nil {
		return nil, fmt.Errorf("create order: persist transaction: %w", err)
	}

	metrics.OrdersCreatedTotal.Inc()
	s.log.Info().Str("order_id", orderID).Str("user_id", userID).Float64("amount", amount).Msg("payment order created")

	return &ports.OrderResult{
		OrderID:          orderID,
		PaymentSessionID: sessionID,
		Amount:           amount,
		Status:           domain.StatusPending,
	}, nil
}

// Verify polls the gateway for the order's settlement state and, when paid,
// applies the credit exactly once.
func (s *PaymentService) Verify(ctx context.Context, userID, orderID string) (*ports.VerifyResult, error) {
	// Scope the lookup to the caller so one user cannot settle another
	// user's order with a known order identifier.
	tx, err := s.txRepo.FindByOrderID(ctx, orderID, userID)
	if err != nil {
		return nil, err
	}

	status, err := s.gateway.OrderStatus(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if status != ports.GatewayOrderPaid {
		return &ports.VerifyResult{OrderStatus: status, Amount: tx.Amount}, nil
	}

	settled, applied, newBalance, err := s.settle(ctx, orderID, "verify")
	if err != nil {
		return nil, err
	}
	return &ports.VerifyResult{
		Settled:          true,
		AlreadyProcessed: !applied,
		OrderStatus:      status,
		Amount:           settled.Amount,
		NewBalance:       newBalance,
	}, nil
}

// HandleWebhook processes one signed gateway notification. Signature failures
// fail closed: nothing is looked up and nothing changes.
func (s *PaymentService) HandleWebhook(ctx context.Context, input ports.WebhookInput) error {
	if !s.gateway.VerifySignature(input.RawBody, input.Timestamp, input.Signature) {
		metrics.WebhooksRejectedTotal.WithLabelValues("invalid_signature").Inc()
		return domain.ErrInvalidSignature
	}

	var envelope struct {
		Event string `json:"event"`
		Data  struct {
			Order struct {
				OrderID string `json:"order_id"`
			} `json:"order"`
		} `json:"data"`
	}
	if err := json.Unmarshal(input.RawBody, &envelope); err != nil {
		metrics.WebhooksRejectedTotal.WithLabelValues("malformed_payload").Inc()
		return fmt.Errorf("webhook: decode payload: %w", err)
	}

	if envelope.Event != eventPaymentCaptured {
		s.log.Debug().Str("event", envelope.Event).Msg("webhook event ignored")
		return nil
	}
	orderID := envelope.Data.Order.OrderID

	// Fast-path skip for redelivered notifications. Errors are tolerated:
	// the status CAS below stays correct without the dedup store.
	isDup, err := s.dedup.IsDuplicate(ctx, orderID, envelope.Event)
	if err != nil {
		s.log.Warn().Err(err).Str("order_id", orderID).Msg("webhook dedup check failed, processing anyway")
	} else if isDup {
		s.log.Debug().Str("order_id", orderID).Msg("duplicate webhook skipped")
		return nil
	}

	_, applied, _, err := s.settle(ctx, orderID, "webhook")
	if err != nil {
		if err == domain.ErrTransactionNotFound {
			// Unknown order: nothing to reconcile. Acknowledge so the
			// gateway stops redelivering.
			s.log.Warn().Str("order_id", orderID).Msg("webhook for unknown order")
			return nil
		}
		return err
	}

	if markErr := s.dedup.Mark(ctx, orderID, envelope.Event); markErr != nil {
		s.log.Warn().Err(markErr).Str("order_id", orderID).Msg("failed to set webhook dedup key")
	}

	if !applied {
		s.log.Debug().Str("order_id", orderID).Msg("webhook for already settled order")
	}
	return nil
}

// ListTransactions returns the user's payment history, newest first.
func (s *PaymentService) ListTransactions(ctx context.Context, userID string) ([]*domain.Transaction, error) {
	return s.txRepo.ListByUser(ctx, userID, transactionListLimit)
}

// settle applies the PENDING → SUCCESS transition and credits the recorded
// amount. The conditional update is the sole gate: of any number of racing
// verify and webhook calls for one order, exactly one observes applied=true
// and performs the credit. The credited amount always comes from the stored
// transaction, never from gateway-supplied data.
func (s *PaymentService) settle(ctx context.Context, orderID, trigger string) (*domain.Transaction, bool, float64, error) {
	tx, applied, err := s.txRepo.MarkSucceeded(ctx, orderID, time.Now().UTC())
	if err != nil {
		return nil, false, 0, err
	}
	if !applied {
		return tx, false, 0, nil
	}

	newBalance, err := s.balanceRepo.Credit(ctx, tx.UserID, tx.Amount)
	if err != nil {
		// The transaction is already SUCCESS; surface loudly so the credit
		// can be replayed by an operator from the audit trail.
		s.log.Error().Err(err).
			Str("order_id", orderID).
			Str("user_id", tx.UserID).
			Float64("amount", tx.Amount).
			Msg("credit failed after settlement")
		return nil, false, 0, fmt.Errorf("settle %s: credit balance: %w", orderID, err)
	}

	metrics.PaymentsCreditedTotal.WithLabelValues(trigger).Inc()
	s.log.Info().
		Str("order_id", orderID).
		Str("user_id", tx.UserID).
		Str("trigger", trigger).
		Float64("amount", tx.Amount).
		Float64("new_balance", newBalance).
		Msg("payment settled and credited")

	return tx, true, newBalance, nil
}

// newOrderID returns a high-entropy merchant order identifier. Collisions
// across concurrent calls are what the entropy is for; never derive this
// from a timestamp alone.
func newOrderID() string {
	b := make([]byte, 12)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("ORDER_%024X", time.Now().UnixNano())
	}
	return fmt.Sprintf("ORDER_%X", b)
}
