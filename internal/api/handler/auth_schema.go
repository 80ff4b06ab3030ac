package handler

import (
	"github.com/vehinfo/rc-backend/internal/core/domain"
	"github.com/vehinfo/rc-backend/internal/core/ports"
)

type registerRequest struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name"  validate:"required"`
	MobileNo  string `json:"mobile_no"  validate:"required"`
	Email     string `json:"email"      validate:"required,email"`
	Password  string `json:"password"   validate:"required,min=8"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type authResponse struct {
	Token string       `json:"token,omitempty"`
	User  *domain.User `json:"user,omitempty"`
}

type roleResponse struct {
	Role string `json:"role"`
}

type searchUsersResponse struct {
	Users       []ports.UserSummary `json:"users"`
	TotalUsers  int64               `json:"total_users"`
	TotalPages  int                 `json:"total_pages"`
	CurrentPage int                 `json:"current_page"`
}
