package ports

import (
	"context"

	"github.com/vehinfo/rc-backend/internal/core/domain"
)

// RegisterInput carries the data needed to create a new account.
type RegisterInput struct {
	FirstName string
	LastName  string
	MobileNo  string
	Email     string
	Password  string
}

// UserSummary is one row of the admin user-search result, with the user's
// current balance joined in.
type UserSummary struct {
	ID        string  `json:"id"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Email     string  `json:"email"`
	Balance   float64 `json:"balance"`
}

// UserSearchResult is returned by SearchUsers.
type UserSearchResult struct {
	Users      []UserSummary
	Total      int64
	Page       int
	TotalPages int
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	SearchUsers(ctx context.Context, filter UserSearchFilter) (*UserSearchResult, error)
}
