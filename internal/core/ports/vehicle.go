package ports

import (
	"context"

	"github.com/vehinfo/rc-backend/internal/core/domain"
)

// VehicleProvider is the external KYC data source for registration and
// chassis lookups.
type VehicleProvider interface {
	RegistrationLookup(ctx context.Context, regNo string) (*domain.VehicleRecord, error)
	ChassisLookup(ctx context.Context, chassisNo string) (*domain.VehicleRecord, error)
}

// LookupResult is a vehicle record together with what the lookup cost.
type LookupResult struct {
	Record    *domain.VehicleRecord
	Charged   float64
	Remaining float64
}

// VehicleService defines the metered lookup use cases: each lookup debits the
// service price before calling the provider and logs a usage hit on success.
type VehicleService interface {
	LookupRC(ctx context.Context, userID, regNo string) (*LookupResult, error)
	LookupChassis(ctx context.Context, userID, chassisNo string) (*LookupResult, error)
	Usage(ctx context.Context, userID string) (*domain.UsageStats, error)
}
