package service

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/vehinfo/rc-backend/internal/core/domain"
	"github.com/vehinfo/rc-backend/internal/core/ports"
)

const maxSearchLimit = 100

// AuthService implements registration, login and the admin user search.
type AuthService struct {
	repo        ports.AuthRepository
	balanceRepo ports.BalanceRepository
	jwtSecret   string
	tokenTTL    time.Duration
}

func NewAuthService(repo ports.AuthRepository, balanceRepo ports.BalanceRepository, jwtSecret string, tokenTTL time.Duration) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = time.Hour
	}
	return &AuthService{repo: repo, balanceRepo: balanceRepo, jwtSecret: jwtSecret, tokenTTL: tokenTTL}
}

// Register creates an account and bootstraps its balance record at 0, so the
// first get-balance call after signup never races the lazy-create path.
func (s *AuthService) Register(ctx context.Context, input ports.RegisterInput) (*domain.User, error) {
	if input.Email == "" || input.Password == "" || input.MobileNo == "" {
		return nil, domain.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		MobileNo:     input.MobileNo,
		Email:        input.Email,
		PasswordHash: string(hash),
		Role:         domain.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	if _, err := s.balanceRepo.GetOrCreate(ctx, created.ID); err != nil {
		return nil, err
	}
	return created, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.generateToken(user)
	if err != nil {
		return "", nil, err
	}

	return token, user, nil
}

// SearchUsers returns a page of users matching the query with their balances
// joined in. Admin-only at the transport layer.
func (s *AuthService) SearchUsers(ctx context.Context, filter ports.UserSearchFilter) (*ports.UserSearchResult, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 10
	}
	if filter.Limit > maxSearchLimit {
		filter.Limit = maxSearchLimit
	}

	users, total, err := s.repo.Search(ctx, filter)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	amounts, err := s.balanceRepo.AmountsFor(ctx, ids)
	if err != nil {
		return nil, err
	}

	summaries := make([]ports.UserSummary, 0, len(users))
	for _, u := range users {
		summaries = append(summaries, ports.UserSummary{
			ID:        u.ID,
			FirstName: u.FirstName,
			LastName:  u.LastName,
			Email:     u.Email,
			Balance:   amounts[u.ID],
		})
	}

	totalPages := int((total + int64(filter.Limit) - 1) / int64(filter.Limit))
	return &ports.UserSearchResult{
		Users:      summaries,
		Total:      total,
		Page:       filter.Page,
		TotalPages: totalPages,
	}, nil
}

func (s *AuthService) generateToken(user *domain.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"role":    user.Role,
		"exp":     time.Now().Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}
