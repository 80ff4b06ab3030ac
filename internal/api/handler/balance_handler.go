package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/vehinfo/rc-backend/internal/core/ports"
)

type BalanceHandler struct {
	balanceService ports.BalanceService
}

func NewBalanceHandler(balanceService ports.BalanceService) *BalanceHandler {
	return &BalanceHandler{balanceService: balanceService}
}

// Get returns the caller's balance and the current price table.
//
// @Summary      Get balance
// @Tags         balance
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  balanceResponse
// @Failure      401  {object}  map[string]string
// @Router       /v1/balance [get]
func (h *BalanceHandler) Get(c echo.Context) error {
	userID, _, err := ctxUser(c)
	if err != nil {
		return err
	}

	detail, err := h.balanceService.Get(c.Request().Context(), userID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, balanceResponse{
		Balance: detail.Amount,
		Pricing: detail.Pricing,
	})
}

// Deduct debits the caller's balance for one metered use.
//
// @Summary      Deduct from balance
// @Tags         balance
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      deductRequest  true  "Amount or service tag"
// @Success      200   {object}  deductResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      402   {object}  map[string]string
// @Router       /v1/balance/deduct [post]
func (h *BalanceHandler) Deduct(c echo.Context) error {
	userID, _, err := ctxUser(c)
	if err != nil {
		return err
	}

	var req deductRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.balanceService.Deduct(c.Request().Context(), ports.DeductInput{
		UserID:  userID,
		Amount:  req.Amount,
		Service: req.Service,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, deductResponse{
		Charged:   result.Charged,
		Remaining: result.Remaining,
	})
}

// Allocate replaces a user's balance with an absolute value.
//
// @Summary      Set a user's balance
// @Tags         balance
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      allocateRequest  true  "Target user and new balance"
// @Success      200   {object}  adminBalanceResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Router       /v1/balance/allocate [post]
func (h *BalanceHandler) Allocate(c echo.Context) error {
	var req allocateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	balance, err := h.balanceService.Allocate(c.Request().Context(), req.UserID, req.Amount)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, adminBalanceResponse{UserID: req.UserID, Balance: balance})
}

// Add increments a user's balance by a positive amount.
//
// @Summary      Add to a user's balance
// @Tags         balance
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      addBalanceRequest  true  "Target user and amount to add"
// @Success      200   {object}  adminBalanceResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Router       /v1/balance/add [post]
func (h *BalanceHandler) Add(c echo.Context) error {
	var req addBalanceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	balance, err := h.balanceService.Add(c.Request().Context(), req.UserID, req.Amount)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, adminBalanceResponse{UserID: req.UserID, Balance: balance})
}
