package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/vehinfo/rc-backend/internal/core/domain"
	"github.com/vehinfo/rc-backend/internal/core/ports"
)

type stubBalanceCache struct {
	mu      sync.Mutex
	values  map[string]float64
	getErr  error
	setErr  error
	invErr  error
	invHits int
}

func newStubBalanceCache() *stubBalanceCache {
	return &stubBalanceCache{values: make(map[string]float64)}
}

func (c *stubBalanceCache) Get(_ context.Context, userID string) (float64, bool, error) {
	if c.getErr != nil {
		return 0, false, c.getErr
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.values[userID]
	return v, ok, nil
}

func (c *stubBalanceCache) Set(_ context.Context, userID string, amount float64) error {
	if c.setErr != nil {
		return c.setErr
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[userID] = amount
	return nil
}

func (c *stubBalanceCache) Invalidate(_ context.Context, userID string) error {
	c.mu.Lock()
	c.invHits++
	c.mu.Unlock()
	if c.invErr != nil {
		return c.invErr
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.values, userID)
	return nil
}

func testPricing() domain.PriceTable {
	return domain.PriceTable{domain.ServiceRC: 50, domain.ServiceChassis: 60}
}

func TestBalanceService_Get_CreatesAtZero(t *testing.T) {
	repo := newStubBalanceRepo()
	svc := NewBalanceService(repo, newStubBalanceCache(), testPricing(), zerolog.Nop())

	detail, err := svc.Get(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if detail.Amount != 0 {
		t.Fatalf("fresh balance must be 0, got %v", detail.Amount)
	}
	if detail.Pricing[domain.ServiceRC] != 50 || detail.Pricing[domain.ServiceChassis] != 60 {
		t.Fatalf("unexpected price table: %+v", detail.Pricing)
	}
}

func TestBalanceService_Get_CacheHitSkipsRepo(t *testing.T) {
	repo := newStubBalanceRepo()
	cache := newStubBalanceCache()
	cache.values["u1"] = 720
	svc := NewBalanceService(repo, cache, testPricing(), zerolog.Nop())

	detail, err := svc.Get(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if detail.Amount != 720 {
		t.Fatalf("expected cached amount 720, got %v", detail.Amount)
	}
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if _, created := repo.balances["u1"]; created {
		t.Fatalf("cache hit must not touch the repository")
	}
}

func TestBalanceService_Get_CacheErrorFallsThrough(t *testing.T) {
	repo := newStubBalanceRepo()
	repo.balances["u1"] = 95
	cache := newStubBalanceCache()
	cache.getErr = errors.New("redis down")
	svc := NewBalanceService(repo, cache, testPricing(), zerolog.Nop())

	detail, err := svc.Get(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Get must tolerate cache failures: %v", err)
	}
	if detail.Amount != 95 {
		t.Fatalf("expected repo amount 95, got %v", detail.Amount)
	}
}

func TestBalanceService_Deduct_ExplicitAmount(t *testing.T) {
	repo := newStubBalanceRepo()
	repo.balances["u1"] = 100
	cache := newStubBalanceCache()
	svc := NewBalanceService(repo, cache, testPricing(), zerolog.Nop())

	result, err := svc.Deduct(context.Background(), ports.DeductInput{UserID: "u1", Amount: 30})
	if err != nil {
		t.Fatalf("Deduct returned error: %v", err)
	}
	if result.Charged != 30 || result.Remaining != 70 {
		t.Fatalf("unexpected result: %+v", result)
	}
	if cache.invHits != 1 {
		t.Fatalf("deduction must invalidate the cache")
	}
}

func TestBalanceService_Deduct_ServicePrice(t *testing.T) {
	repo := newStubBalanceRepo()
	repo.balances["u1"] = 100
	svc := NewBalanceService(repo, newStubBalanceCache(), testPricing(), zerolog.Nop())

	result, err := svc.Deduct(context.Background(), ports.DeductInput{UserID: "u1", Service: domain.ServiceChassis})
	if err != nil {
		t.Fatalf("Deduct returned error: %v", err)
	}
	if result.Charged != 60 {
		t.Fatalf("expected chassis price 60, got %v", result.Charged)
	}
	if result.Remaining != 40 {
		t.Fatalf("expected remaining 40, got %v", result.Remaining)
	}
}

func TestBalanceService_Deduct_UnknownService(t *testing.T) {
	svc := NewBalanceService(newStubBalanceRepo(), newStubBalanceCache(), testPricing(), zerolog.Nop())

	if _, err := svc.Deduct(context.Background(), ports.DeductInput{UserID: "u1", Service: "pan"}); !errors.Is(err, domain.ErrUnknownService) {
		t.Fatalf("expected ErrUnknownService, got %v", err)
	}
}

func TestBalanceService_Deduct_InsufficientFunds(t *testing.T) {
	repo := newStubBalanceRepo()
	repo.balances["u1"] = 10
	svc := NewBalanceService(repo, newStubBalanceCache(), testPricing(), zerolog.Nop())

	if _, err := svc.Deduct(context.Background(), ports.DeductInput{UserID: "u1", Service: domain.ServiceRC}); !errors.Is(err, domain.ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
	if repo.amount("u1") != 10 {
		t.Fatalf("failed deduction must not change the balance")
	}
}

func TestBalanceService_Deduct_NegativeAmount(t *testing.T) {
	svc := NewBalanceService(newStubBalanceRepo(), newStubBalanceCache(), testPricing(), zerolog.Nop())

	if _, err := svc.Deduct(context.Background(), ports.DeductInput{UserID: "u1", Amount: -5}); !errors.Is(err, domain.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
}

func TestBalanceService_Allocate(t *testing.T) {
	repo := newStubBalanceRepo()
	repo.balances["u1"] = 40
	cache := newStubBalanceCache()
	svc := NewBalanceService(repo, cache, testPricing(), zerolog.Nop())

	stored, err := svc.Allocate(context.Background(), "u1", 500)
	if err != nil {
		t.Fatalf("Allocate returned error: %v", err)
	}
	if stored != 500 || repo.amount("u1") != 500 {
		t.Fatalf("allocation must replace the balance, got %v", stored)
	}
	if cache.invHits != 1 {
		t.Fatalf("allocation must invalidate the cache")
	}
}

func TestBalanceService_Allocate_NegativeRejected(t *testing.T) {
	svc := NewBalanceService(newStubBalanceRepo(), newStubBalanceCache(), testPricing(), zerolog.Nop())

	if _, err := svc.Allocate(context.Background(), "u1", -1); !errors.Is(err, domain.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
}

func TestBalanceService_Add(t *testing.T) {
	repo := newStubBalanceRepo()
	repo.balances["u1"] = 25
	svc := NewBalanceService(repo, newStubBalanceCache(), testPricing(), zerolog.Nop())

	total, err := svc.Add(context.Background(), "u1", 75)
	if err != nil {
		t.Fatalf("Add returned error: %v", err)
	}
	if total != 100 {
		t.Fatalf("expected 100, got %v", total)
	}

	if _, err := svc.Add(context.Background(), "u1", 0); !errors.Is(err, domain.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount for zero add, got %v", err)
	}
}
