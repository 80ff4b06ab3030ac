package ports

import (
	"context"

	"github.com/vehinfo/rc-backend/internal/core/domain"
)

// UserSearchFilter carries the admin user-search query parameters.
type UserSearchFilter struct {
	Query string // partial match on email or name, case-insensitive
	Page  int    // 1-based
	Limit int    // rows per page
}

// AuthRepository defines the interface for user persistence.
type AuthRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// Search returns a page of users matching filter and the total count.
	Search(ctx context.Context, filter UserSearchFilter) ([]*domain.User, int64, error)
}
