package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/vehinfo/rc-backend/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register creates a new user account with a zero-value balance.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "User registration details"
// @Success      201   {object}  authResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		MobileNo:  req.MobileNo,
		Email:     req.Email,
		Password:  req.Password,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, authResponse{User: user})
}

// Login authenticates a user and returns a JWT token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	token, user, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, authResponse{Token: token, User: user})
}

// Role returns the caller's role as resolved from the bearer token.
//
// @Summary      Current user role
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  roleResponse
// @Failure      401  {object}  map[string]string
// @Router       /auth/role [get]
func (h *AuthHandler) Role(c echo.Context) error {
	_, role, err := ctxUser(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, roleResponse{Role: role})
}

// SearchUsers returns a paginated user listing with balances joined in.
//
// @Summary      Search users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        query  query     string  false  "Partial match on email or name"
// @Param        page   query     int     false  "Page number (1-based)"
// @Param        limit  query     int     false  "Rows per page"
// @Success      200    {object}  searchUsersResponse
// @Failure      401    {object}  map[string]string
// @Failure      403    {object}  map[string]string
// @Router       /v1/users/search [get]
func (h *AuthHandler) SearchUsers(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	result, err := h.authService.SearchUsers(c.Request().Context(), ports.UserSearchFilter{
		Query: c.QueryParam("query"),
		Page:  page,
		Limit: limit,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, searchUsersResponse{
		Users:       result.Users,
		TotalUsers:  result.Total,
		TotalPages:  result.TotalPages,
		CurrentPage: result.Page,
	})
}
