package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/vehinfo/rc-backend/internal/core/ports"
)

type VehicleHandler struct {
	vehicleService ports.VehicleService
}

func NewVehicleHandler(vehicleService ports.VehicleService) *VehicleHandler {
	return &VehicleHandler{vehicleService: vehicleService}
}

// LookupRC fetches a vehicle record by registration number. The lookup price
// is debited before the provider call.
//
// @Summary      Registration number lookup
// @Tags         vehicle
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      rcLookupRequest  true  "Registration number"
// @Success      200   {object}  lookupResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      402   {object}  map[string]string
// @Failure      502   {object}  map[string]string
// @Router       /v1/vehicle/rc [post]
func (h *VehicleHandler) LookupRC(c echo.Context) error {
	userID, _, err := ctxUser(c)
	if err != nil {
		return err
	}

	var req rcLookupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.vehicleService.LookupRC(c.Request().Context(), userID, req.RegNo)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, lookupResponse{
		Record:    result.Record,
		Charged:   result.Charged,
		Remaining: result.Remaining,
	})
}

// LookupChassis fetches a vehicle record by chassis number.
//
// @Summary      Chassis number lookup
// @Tags         vehicle
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      chassisLookupRequest  true  "Chassis number"
// @Success      200   {object}  lookupResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      402   {object}  map[string]string
// @Failure      502   {object}  map[string]string
// @Router       /v1/vehicle/chassis [post]
func (h *VehicleHandler) LookupChassis(c echo.Context) error {
	userID, _, err := ctxUser(c)
	if err != nil {
		return err
	}

	var req chassisLookupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.vehicleService.LookupChassis(c.Request().Context(), userID, req.ChassisNo)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, lookupResponse{
		Record:    result.Record,
		Charged:   result.Charged,
		Remaining: result.Remaining,
	})
}

// Usage returns the caller's lookup counts for the current and previous month.
//
// @Summary      Monthly usage
// @Tags         vehicle
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.UsageStats
// @Failure      401  {object}  map[string]string
// @Router       /v1/usage [get]
func (h *VehicleHandler) Usage(c echo.Context) error {
	userID, _, err := ctxUser(c)
	if err != nil {
		return err
	}

	stats, err := h.vehicleService.Usage(c.Request().Context(), userID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, stats)
}
