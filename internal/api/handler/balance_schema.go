package handler

type balanceResponse struct {
	Balance float64            `json:"balance"`
	Pricing map[string]float64 `json:"pricing"`
}

type deductRequest struct {
	Amount  float64 `json:"amount"  validate:"omitempty,gt=0"`
	Service string  `json:"service" validate:"required_without=Amount"`
}

type deductResponse struct {
	Charged   float64 `json:"charged"`
	Remaining float64 `json:"remaining"`
}

type allocateRequest struct {
	UserID string  `json:"user_id" validate:"required"`
	Amount float64 `json:"amount"`
}

type addBalanceRequest struct {
	UserID string  `json:"user_id" validate:"required"`
	Amount float64 `json:"amount" validate:"required,gt=0"`
}

type adminBalanceResponse struct {
	UserID  string  `json:"user_id"`
	Balance float64 `json:"balance"`
}
