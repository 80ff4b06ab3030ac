package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/vehinfo/rc-backend/internal/api/metrics"
	"github.com/vehinfo/rc-backend/internal/core/domain"
	"github.com/vehinfo/rc-backend/internal/core/ports"
)

// HitRecorder accepts usage hits for asynchronous persistence.
type HitRecorder interface {
	Record(hit domain.HitLog)
}

// VehicleService implements the metered lookup use cases. Each lookup debits
// the service price first, then calls the provider; a provider failure after
// the debit is refunded.
type VehicleService struct {
	provider ports.VehicleProvider
	balances ports.BalanceService
	hits     HitRecorder
	hitRepo  ports.HitLogRepository
	log      zerolog.Logger
}

func NewVehicleService(
	provider ports.VehicleProvider,
	balances ports.BalanceService,
	hits HitRecorder,
	hitRepo ports.HitLogRepository,
	log zerolog.Logger,
) *VehicleService {
	return &VehicleService{
		provider: provider,
		balances: balances,
		hits:     hits,
		hitRepo:  hitRepo,
		log:      log,
	}
}

func (s *VehicleService) LookupRC(ctx context.Context, userID, regNo string) (*ports.LookupResult, error) {
	return s.lookup(ctx, userID, domain.ServiceRC, regNo, s.provider.RegistrationLookup)
}

func (s *VehicleService) LookupChassis(ctx context.Context, userID, chassisNo string) (*ports.LookupResult, error) {
	return s.lookup(ctx, userID, domain.ServiceChassis, chassisNo, s.provider.ChassisLookup)
}

func (s *VehicleService) lookup(
	ctx context.Context,
	userID, serviceTag, number string,
	fetch func(context.Context, string) (*domain.VehicleRecord, error),
) (*ports.LookupResult, error) {
	number = strings.ToUpper(strings.TrimSpace(number))
	if number == "" {
		return nil, domain.ErrInvalidInput
	}

	deducted, err := s.balances.Deduct(ctx, ports.DeductInput{UserID: userID, Service: serviceTag})
	if err != nil {
		metrics.LookupsTotal.WithLabelValues(serviceTag, "rejected").Inc()
		return nil, err
	}

	record, err := fetch(ctx, number)
	if err != nil {
		metrics.LookupsTotal.WithLabelValues(serviceTag, "provider_error").Inc()
		s.log.Error().Err(err).Str("user_id", userID).Str("service", serviceTag).Msg("provider lookup failed, refunding")
		if _, refundErr := s.balances.Add(ctx, userID, deducted.Charged); refundErr != nil {
			s.log.Error().Err(refundErr).
				Str("user_id", userID).
				Float64("amount", deducted.Charged).
				Msg("refund after failed lookup did not apply")
		}
		return nil, err
	}

	s.hits.Record(domain.HitLog{UserID: userID, Service: serviceTag, Timestamp: time.Now().UTC()})
	metrics.LookupsTotal.WithLabelValues(serviceTag, "ok").Inc()

	s.log.Info().
		Str("user_id", userID).
		Str("service", serviceTag).
		Float64("charged", deducted.Charged).
		Msg("vehicle lookup served")

	return &ports.LookupResult{
		Record:    record,
		Charged:   deducted.Charged,
		Remaining: deducted.Remaining,
	}, nil
}

// Usage returns the caller's current and previous month hit counts.
func (s *VehicleService) Usage(ctx context.Context, userID string) (*domain.UsageStats, error) {
	now := time.Now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	prevStart := monthStart.AddDate(0, -1, 0)

	current, err := s.hitRepo.CountBetween(ctx, userID, monthStart, now)
	if err != nil {
		return nil, err
	}
	previous, err := s.hitRepo.CountBetween(ctx, userID, prevStart, monthStart)
	if err != nil {
		return nil, err
	}

	return &domain.UsageStats{CurrentMonth: current, PreviousMonth: previous}, nil
}
