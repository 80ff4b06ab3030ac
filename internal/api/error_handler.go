package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/vehinfo/rc-backend/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	// Known domain errors → deterministic HTTP codes.
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid credentials"
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, "user not found"
	case errors.Is(err, domain.ErrUserExists):
		return http.StatusConflict, "user already exists"
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "access forbidden"
	case errors.Is(err, domain.ErrBalanceNotFound):
		return http.StatusNotFound, "balance not found"
	case errors.Is(err, domain.ErrInsufficientFunds):
		return http.StatusPaymentRequired, "insufficient balance"
	case errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrUnknownService):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrTransactionNotFound):
		return http.StatusNotFound, "transaction not found"
	case errors.Is(err, domain.ErrInvalidSignature):
		return http.StatusUnauthorized, "invalid signature"
	case errors.Is(err, domain.ErrGatewayRejected):
		return http.StatusBadGateway, "payment gateway rejected the request"
	case errors.Is(err, domain.ErrGatewayUnreachable):
		return http.StatusBadGateway, "payment gateway unavailable"
	case errors.Is(err, domain.ErrProviderRejected):
		return http.StatusBadGateway, "vehicle data provider rejected the request"
	case errors.Is(err, domain.ErrProviderUnreachable):
		return http.StatusBadGateway, "vehicle data provider unavailable"
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
