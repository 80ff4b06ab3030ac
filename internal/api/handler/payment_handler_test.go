package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/vehinfo/rc-backend/internal/core/domain"
	"github.com/vehinfo/rc-backend/internal/core/ports"
)

type stubPaymentService struct {
	createOrderFn   func(ctx context.Context, userID string, amount float64) (*ports.OrderResult, error)
	verifyFn        func(ctx context.Context, userID, orderID string) (*ports.VerifyResult, error)
	handleWebhookFn func(ctx context.Context, input ports.WebhookInput) error
	listFn          func(ctx context.Context, userID string) ([]*domain.Transaction, error)
}

func (s *stubPaymentService) CreateOrder(ctx context.Context, userID string, amount float64) (*ports.OrderResult, error) {
	return s.createOrderFn(ctx, userID, amount)
}

func (s *stubPaymentService) Verify(ctx context.Context, userID, orderID string) (*ports.VerifyResult, error) {
	return s.verifyFn(ctx, userID, orderID)
}

func (s *stubPaymentService) HandleWebhook(ctx context.Context, input ports.WebhookInput) error {
	return s.handleWebhookFn(ctx, input)
}

func (s *stubPaymentService) ListTransactions(ctx context.Context, userID string) ([]*domain.Transaction, error) {
	return s.listFn(ctx, userID)
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func TestPaymentHandler_CreateOrder(t *testing.T) {
	e := newTestEcho()
	stub := &stubPaymentService{
		createOrderFn: func(_ context.Context, userID string, amount float64) (*ports.OrderResult, error) {
			if userID != "u1" || amount != 500 {
				t.Fatalf("unexpected args: %s %v", userID, amount)
			}
			return &ports.OrderResult{
				OrderID:          "ORDER_ABC",
				PaymentSessionID: "session_1",
				Amount:           amount,
				Status:           domain.StatusPending,
			}, nil
		},
	}
	handler := NewPaymentHandler(stub)

	req := httptest.NewRequest(http.MethodPost, "/v1/payments/orders", strings.NewReader(`{"amount":500}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", "u1")
	c.Set("role", domain.RoleUser)

	if err := handler.CreateOrder(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["order_id"] != "ORDER_ABC" || resp["payment_session_id"] != "session_1" {
		t.Fatalf("unexpected response: %v", resp)
	}
	if resp["status"] != "PENDING" {
		t.Fatalf("expected PENDING status, got %v", resp["status"])
	}
}

func TestPaymentHandler_CreateOrder_Unauthenticated(t *testing.T) {
	e := newTestEcho()
	handler := NewPaymentHandler(&stubPaymentService{})

	req := httptest.NewRequest(http.MethodPost, "/v1/payments/orders", strings.NewReader(`{"amount":500}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := handler.CreateOrder(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 HTTPError, got %v", err)
	}
}

func TestPaymentHandler_CreateOrder_MissingAmount(t *testing.T) {
	e := newTestEcho()
	handler := NewPaymentHandler(&stubPaymentService{
		createOrderFn: func(context.Context, string, float64) (*ports.OrderResult, error) {
			t.Fatalf("service must not be called for invalid payloads")
			return nil, nil
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/v1/payments/orders", strings.NewReader(`{}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", "u1")

	err := handler.CreateOrder(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 HTTPError, got %v", err)
	}
}

func TestPaymentHandler_Webhook_PassesRawBodyAndHeaders(t *testing.T) {
	e := newTestEcho()
	rawBody := `{"event":"ORDER.PAYMENT.CAPTURED","data":{"order":{"order_id":"ORDER_X"}}}`

	var got ports.WebhookInput
	handler := NewPaymentHandler(&stubPaymentService{
		handleWebhookFn: func(_ context.Context, input ports.WebhookInput) error {
			got = input
			return nil
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/payments/webhook", strings.NewReader(rawBody))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set("x-webhook-signature", "c2lnbmF0dXJl")
	req.Header.Set("x-webhook-timestamp", "1700000000")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.Webhook(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	// The signature covers the exact bytes on the wire, so the handler must
	// hand them over untouched.
	if string(got.RawBody) != rawBody {
		t.Fatalf("raw body altered: %q", string(got.RawBody))
	}
	if got.Signature != "c2lnbmF0dXJl" || got.Timestamp != "1700000000" {
		t.Fatalf("headers not forwarded: %+v", got)
	}
}

func TestPaymentHandler_Webhook_ServiceErrorPropagates(t *testing.T) {
	e := newTestEcho()
	handler := NewPaymentHandler(&stubPaymentService{
		handleWebhookFn: func(context.Context, ports.WebhookInput) error {
			return domain.ErrInvalidSignature
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/payments/webhook", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.Webhook(c); err != domain.ErrInvalidSignature {
		t.Fatalf("expected ErrInvalidSignature to propagate, got %v", err)
	}
}

func TestPaymentHandler_Verify(t *testing.T) {
	e := newTestEcho()
	handler := NewPaymentHandler(&stubPaymentService{
		verifyFn: func(_ context.Context, userID, orderID string) (*ports.VerifyResult, error) {
			if userID != "u1" || orderID != "ORDER_ABC" {
				t.Fatalf("unexpected args: %s %s", userID, orderID)
			}
			return &ports.VerifyResult{Settled: true, OrderStatus: "PAID", Amount: 500, NewBalance: 750}, nil
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/v1/payments/verify", strings.NewReader(`{"order_id":"ORDER_ABC"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", "u1")

	if err := handler.Verify(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["settled"] != true || resp["new_balance"] != float64(750) {
		t.Fatalf("unexpected response: %v", resp)
	}
}
