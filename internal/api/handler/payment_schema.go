package handler

import "github.com/vehinfo/rc-backend/internal/core/domain"

type createOrderRequest struct {
	Amount float64 `json:"amount" validate:"required,gte=1"`
}

type createOrderResponse struct {
	OrderID          string  `json:"order_id"`
	PaymentSessionID string  `json:"payment_session_id"`
	Amount           float64 `json:"amount"`
	Status           string  `json:"status"`
}

type verifyOrderRequest struct {
	OrderID string `json:"order_id" validate:"required"`
}

type verifyOrderResponse struct {
	Settled          bool    `json:"settled"`
	AlreadyProcessed bool    `json:"already_processed"`
	OrderStatus      string  `json:"order_status,omitempty"`
	Amount           float64 `json:"amount,omitempty"`
	NewBalance       float64 `json:"new_balance,omitempty"`
}

type transactionsResponse struct {
	Transactions []*domain.Transaction `json:"transactions"`
}
