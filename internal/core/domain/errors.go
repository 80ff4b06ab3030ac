package domain

import "errors"

var (
	ErrUserExists         = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrForbidden          = errors.New("access forbidden")

	ErrBalanceNotFound   = errors.New("balance not found")
	ErrInsufficientFunds = errors.New("insufficient balance")
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrInvalidInput      = errors.New("invalid input")
	ErrUnknownService    = errors.New("unknown service")

	ErrTransactionNotFound = errors.New("transaction not found")
	ErrInvalidSignature    = errors.New("invalid webhook signature")

	ErrGatewayUnreachable = errors.New("payment gateway unreachable")
	ErrGatewayRejected    = errors.New("payment gateway rejected request")

	ErrProviderUnreachable = errors.New("vehicle data provider unreachable")
	ErrProviderRejected    = errors.New("vehicle data provider rejected request")
)
