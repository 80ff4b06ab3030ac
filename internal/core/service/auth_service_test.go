package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/vehinfo/rc-backend/internal/core/domain"
	"github.com/vehinfo/rc-backend/internal/core/ports"
)

type memAuthRepo struct {
	users  map[string]*domain.User
	nextID int
}

func newMemAuthRepo() *memAuthRepo {
	return &memAuthRepo{users: make(map[string]*domain.User)}
}

func (r *memAuthRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, domain.ErrUserExists
		}
	}
	r.nextID++
	clone := *user
	clone.ID = fmt.Sprintf("user_%d", r.nextID)
	r.users[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *memAuthRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *memAuthRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *memAuthRepo) Search(_ context.Context, filter ports.UserSearchFilter) ([]*domain.User, int64, error) {
	var out []*domain.User
	for _, u := range r.users {
		clone := *u
		out = append(out, &clone)
	}
	return out, int64(len(out)), nil
}

func registerInput(email string) ports.RegisterInput {
	return ports.RegisterInput{
		FirstName: "Asha",
		LastName:  "Rao",
		MobileNo:  "9876543210",
		Email:     email,
		Password:  "correct-horse",
	}
}

func TestAuthService_Register(t *testing.T) {
	repo := newMemAuthRepo()
	balanceRepo := newStubBalanceRepo()
	svc := NewAuthService(repo, balanceRepo, "secret", time.Hour)

	user, err := svc.Register(context.Background(), registerInput("asha@example.com"))
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if user.ID == "" {
		t.Fatalf("expected assigned user id")
	}
	if user.Role != domain.RoleUser {
		t.Fatalf("new accounts must default to the user role, got %s", user.Role)
	}
	if user.PasswordHash == "correct-horse" {
		t.Fatalf("password must be stored hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("correct-horse")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}

	// Registration bootstraps the balance record at zero.
	balanceRepo.mu.Lock()
	amount, created := balanceRepo.balances[user.ID]
	balanceRepo.mu.Unlock()
	if !created || amount != 0 {
		t.Fatalf("expected zero balance record for new user, created=%v amount=%v", created, amount)
	}
}

func TestAuthService_Register_MissingFields(t *testing.T) {
	svc := NewAuthService(newMemAuthRepo(), newStubBalanceRepo(), "secret", time.Hour)

	input := registerInput("asha@example.com")
	input.Password = ""
	if _, err := svc.Register(context.Background(), input); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	svc := NewAuthService(newMemAuthRepo(), newStubBalanceRepo(), "secret", time.Hour)

	if _, err := svc.Register(context.Background(), registerInput("asha@example.com")); err != nil {
		t.Fatalf("first Register returned error: %v", err)
	}
	if _, err := svc.Register(context.Background(), registerInput("asha@example.com")); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthService_Login(t *testing.T) {
	svc := NewAuthService(newMemAuthRepo(), newStubBalanceRepo(), "secret", time.Hour)

	registered, err := svc.Register(context.Background(), registerInput("asha@example.com"))
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	token, user, err := svc.Login(context.Background(), "asha@example.com", "correct-horse")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if user.ID != registered.ID {
		t.Fatalf("unexpected user returned: %s", user.ID)
	}

	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		return []byte("secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("issued token does not verify: %v", err)
	}
	claims := parsed.Claims.(jwt.MapClaims)
	if claims["user_id"] != registered.ID {
		t.Fatalf("token user_id claim mismatch: %v", claims["user_id"])
	}
	if claims["role"] != domain.RoleUser {
		t.Fatalf("token role claim mismatch: %v", claims["role"])
	}
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	svc := NewAuthService(newMemAuthRepo(), newStubBalanceRepo(), "secret", time.Hour)

	if _, err := svc.Register(context.Background(), registerInput("asha@example.com")); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	if _, _, err := svc.Login(context.Background(), "asha@example.com", "wrong"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, _, err := svc.Login(context.Background(), "nobody@example.com", "wrong"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestAuthService_SearchUsers_JoinsBalances(t *testing.T) {
	repo := newMemAuthRepo()
	balanceRepo := newStubBalanceRepo()
	svc := NewAuthService(repo, balanceRepo, "secret", time.Hour)

	userA, _ := svc.Register(context.Background(), registerInput("a@example.com"))
	userB, _ := svc.Register(context.Background(), registerInput("b@example.com"))
	_, _ = balanceRepo.Credit(context.Background(), userA.ID, 500)

	result, err := svc.SearchUsers(context.Background(), ports.UserSearchFilter{})
	if err != nil {
		t.Fatalf("SearchUsers returned error: %v", err)
	}
	if result.Total != 2 || result.Page != 1 {
		t.Fatalf("unexpected paging: %+v", result)
	}

	byID := make(map[string]ports.UserSummary)
	for _, u := range result.Users {
		byID[u.ID] = u
	}
	if byID[userA.ID].Balance != 500 {
		t.Fatalf("expected joined balance 500, got %v", byID[userA.ID].Balance)
	}
	if byID[userB.ID].Balance != 0 {
		t.Fatalf("expected joined balance 0, got %v", byID[userB.ID].Balance)
	}
}
