package handler

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/vehinfo/rc-backend/internal/core/ports"
)

// Webhook signature headers as sent by Cashfree.
const (
	headerWebhookSignature = "x-webhook-signature"
	headerWebhookTimestamp = "x-webhook-timestamp"
)

const maxWebhookBody = 1 << 20 // 1 MiB

type PaymentHandler struct {
	paymentService ports.PaymentService
}

func NewPaymentHandler(paymentService ports.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// CreateOrder opens a payment order at the gateway and records it PENDING.
//
// @Summary      Create a top-up order
// @Tags         payments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createOrderRequest  true  "Top-up amount"
// @Success      201   {object}  createOrderResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      502   {object}  map[string]string
// @Router       /v1/payments/orders [post]
func (h *PaymentHandler) CreateOrder(c echo.Context) error {
	userID, _, err := ctxUser(c)
	if err != nil {
		return err
	}

	var req createOrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	order, err := h.paymentService.CreateOrder(c.Request().Context(), userID, req.Amount)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, createOrderResponse{
		OrderID:          order.OrderID,
		PaymentSessionID: order.PaymentSessionID,
		Amount:           order.Amount,
		Status:           string(order.Status),
	})
}

// Verify re-checks an order's status at the gateway and settles it if paid.
//
// @Summary      Verify a top-up order
// @Tags         payments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      verifyOrderRequest  true  "Order to verify"
// @Success      200   {object}  verifyOrderResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      502   {object}  map[string]string
// @Router       /v1/payments/verify [post]
func (h *PaymentHandler) Verify(c echo.Context) error {
	userID, _, err := ctxUser(c)
	if err != nil {
		return err
	}

	var req verifyOrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.paymentService.Verify(c.Request().Context(), userID, req.OrderID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, verifyOrderResponse{
		Settled:          result.Settled,
		AlreadyProcessed: result.AlreadyProcessed,
		OrderStatus:      result.OrderStatus,
		Amount:           result.Amount,
		NewBalance:       result.NewBalance,
	})
}

// Transactions lists the caller's top-up history, newest first.
//
// @Summary      List transactions
// @Tags         payments
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  transactionsResponse
// @Failure      401  {object}  map[string]string
// @Router       /v1/payments/transactions [get]
func (h *PaymentHandler) Transactions(c echo.Context) error {
	userID, _, err := ctxUser(c)
	if err != nil {
		return err
	}

	txs, err := h.paymentService.ListTransactions(c.Request().Context(), userID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, transactionsResponse{Transactions: txs})
}

// Webhook receives signed payment notifications from the gateway. The body is
// read raw because the signature covers the exact bytes on the wire.
//
// @Summary      Payment gateway webhook
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        x-webhook-signature  header  string  true  "Base64 HMAC-SHA256 signature"
// @Param        x-webhook-timestamp  header  string  true  "Signature timestamp"
// @Success      200  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Router       /payments/webhook [post]
func (h *PaymentHandler) Webhook(c echo.Context) error {
	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxWebhookBody))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "unreadable body")
	}

	input := ports.WebhookInput{
		RawBody:   body,
		Timestamp: c.Request().Header.Get(headerWebhookTimestamp),
		Signature: c.Request().Header.Get(headerWebhookSignature),
	}

	if err := h.paymentService.HandleWebhook(c.Request().Context(), input); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
