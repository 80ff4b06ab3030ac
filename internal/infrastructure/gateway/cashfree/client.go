// Package cashfree implements the payment gateway adapter against the
// Cashfree PG REST API (api version 2022-09-01).
package cashfree

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/vehinfo/rc-backend/internal/api/metrics"
	"github.com/vehinfo/rc-backend/internal/core/domain"
	"github.com/vehinfo/rc-backend/internal/core/ports"
)

const (
	apiVersion     = "2022-09-01"
	defaultTimeout = 10 * time.Second
)

// Config carries the gateway credentials and callback targets.
type Config struct {
	APIURL     string
	AppID      string
	SecretKey  string
	WebhookURL string
	ReturnURL  string
	Timeout    time.Duration
}

// Client talks to the Cashfree order API. Calls use a bounded timeout and are
// never retried here; a timeout surfaces as ErrGatewayUnreachable.
type Client struct {
	cfg  Config
	http *http.Client
	log  zerolog.Logger
}

func NewClient(cfg Config, log zerolog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: timeout},
		log:  log,
	}
}

type customerDetails struct {
	CustomerID    string `json:"customer_id"`
	CustomerEmail string `json:"customer_email"`
	CustomerPhone string `json:"customer_phone"`
	CustomerName  string `json:"customer_name"`
}

type orderMeta struct {
	ReturnURL string `json:"return_url"`
	NotifyURL string `json:"notify_url"`
}

type createOrderRequest struct {
	OrderID         string          `json:"order_id"`
	OrderAmount     string          `json:"order_amount"`
	OrderCurrency   string          `json:"order_currency"`
	CustomerDetails customerDetails `json:"customer_details"`
	OrderMeta       orderMeta       `json:"order_meta"`
	OrderNote       string          `json:"order_note,omitempty"`
}

type orderResponse struct {
	OrderID          string `json:"order_id"`
	OrderStatus      string `json:"order_status"`
	PaymentSessionID string `json:"payment_session_id"`
	Message          string `json:"message"`
}

// CreateOrder submits a new order and returns the payment session identifier.
func (c *Client) CreateOrder(ctx context.Context, order ports.GatewayOrder) (string, error) {
	email := order.CustomerEmail
	if email == "" {
		email = order.CustomerPhone + "@vehicleinfo.com"
	}

	req := createOrderRequest{
		OrderID:       order.OrderID,
		OrderAmount:   strconv.FormatFloat(order.Amount, 'f', 2, 64),
		OrderCurrency: order.Currency,
		CustomerDetails: customerDetails{
			CustomerID:    order.CustomerID,
			CustomerEmail: email,
			CustomerPhone: order.CustomerPhone,
			CustomerName:  order.CustomerName,
		},
		OrderMeta: orderMeta{
			ReturnURL: c.cfg.ReturnURL + "?order_id=" + order.OrderID,
			NotifyURL: c.cfg.WebhookURL,
		},
		OrderNote: order.Note,
	}

	var resp orderResponse
	if err := c.do(ctx, http.MethodPost, "/orders", "create_order", req, &resp); err != nil {
		return "", err
	}
	if resp.PaymentSessionID == "" {
		return "", fmt.Errorf("%w: no payment session id returned", domain.ErrGatewayRejected)
	}

	c.log.Debug().Str("order_id", order.OrderID).Msg("gateway order created")
	return resp.PaymentSessionID, nil
}

// OrderStatus polls the gateway for the order's settlement state.
func (c *Client) OrderStatus(ctx context.Context, orderID string) (string, error) {
	var resp orderResponse
	if err := c.do(ctx, http.MethodGet, "/orders/"+orderID, "order_status", nil, &resp); err != nil {
		return "", err
	}
	return resp.OrderStatus, nil
}

func (c *Client) do(ctx context.Context, method, path, operation string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("cashfree: encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.cfg.APIURL+path, reader)
	if err != nil {
		return fmt.Errorf("cashfree: build request: %w", err)
	}
	req.Header.Set("x-client-id", c.cfg.AppID)
	req.Header.Set("x-client-secret", c.cfg.SecretKey)
	req.Header.Set("x-api-version", apiVersion)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	metrics.GatewayRequestDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrGatewayUnreachable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read response: %v", domain.ErrGatewayUnreachable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := gatewayMessage(raw)
		c.log.Warn().Int("status", resp.StatusCode).Str("message", msg).Msg("gateway request rejected")
		return fmt.Errorf("%w: %s (status %d)", domain.ErrGatewayRejected, msg, resp.StatusCode)
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("cashfree: decode response: %w", err)
		}
	}
	return nil
}

// gatewayMessage extracts the human-readable error from a gateway response,
// falling back to the raw body. Credentials never appear in either.
func gatewayMessage(raw []byte) string {
	var e struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &e); err == nil && e.Message != "" {
		return e.Message
	}
	if len(raw) > 200 {
		raw = raw[:200]
	}
	return string(raw)
}
