package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nandanugg/geotoll/module/core/domain"
	"github.com/nandanugg/geotoll/module/core/geo"
	"github.com/nandanugg/geotoll/module/core/internal/repository/database"
)

// ZoneService manages the zone catalog that TrackingService evaluates.
type ZoneService struct {
	repo    database.ZoneRepository
	timeout time.Duration
	now     func() time.Time
}

func NewZoneService(repo database.ZoneRepository, timeout time.Duration) *ZoneService {
	if timeout <= 0 {
		timeout = DefaultStoreTimeout
	}
	return &ZoneService{repo: repo, timeout: timeout, now: time.Now}
}

func (s *ZoneService) Create(ctx context.Context, in *domain.ZoneInput) (*domain.Zone, error) {
	zone, err := buildZone(in)
	if err != nil {
		return nil, err
	}
	now := s.now()
	zone.ID = uuid.NewString()
	zone.Active = true
	zone.CreatedAt = now
	zone.UpdatedAt = now

	err = callWithTimeout(ctx, s.timeout, func(ctx context.Context) error {
		return s.repo.Create(ctx, zone)
	})
	if err != nil {
		return nil, domain.Dependency("create zone", err)
	}
	return zone, nil
}

func buildZone(in *domain.ZoneInput) (*domain.Zone, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.Validation("name: required")
	}
	if err := geo.ValidateRing(in.Boundary); err != nil {
		return nil, domain.Validation("boundary: " + err.Error())
	}

	zone := &domain.Zone{
		Name:        name,
		Description: in.Description,
		Boundary:    append([]domain.Coordinate(nil), in.Boundary...),
	}

	switch in.Kind {
	case domain.ZoneToll:
		if in.TollAmount <= 0 {
			return nil, domain.Validation("tollAmount: must be greater than zero")
		}
		if in.TollAmount > domain.MaxMoney {
			return nil, domain.Validation(fmt.Sprintf("tollAmount: must not exceed %v", domain.MaxMoney.Major()))
		}
		zone.Policy = domain.TollPolicy{Amount: in.TollAmount}
	case domain.ZoneDanger:
		severity := in.Severity
		if severity == "" {
			severity = domain.SeverityMedium
		}
		if !severity.Valid() {
			return nil, domain.Validation(fmt.Sprintf("severity: unknown value %q", in.Severity))
		}
		if l := in.SpeedLimit; l != nil && (*l < 0 || math.IsNaN(*l) || math.IsInf(*l, 0)) {
			return nil, domain.Validation("speedLimit: must be a non-negative number")
		}
		zone.Policy = domain.DangerPolicy{
			Severity:     severity,
			AlertMessage: in.AlertMessage,
			SpeedLimit:   in.SpeedLimit,
		}
	default:
		return nil, domain.Validation(fmt.Sprintf("zoneType: must be %q or %q", domain.ZoneToll, domain.ZoneDanger))
	}
	return zone, nil
}

func (s *ZoneService) ListActive(ctx context.Context) ([]domain.Zone, error) {
	var zones []domain.Zone
	err := callWithTimeout(ctx, s.timeout, func(ctx context.Context) error {
		var err error
		zones, err = s.repo.ListActive(ctx)
		return err
	})
	if err != nil {
		return nil, domain.Dependency("list active zones", err)
	}
	if zones == nil {
		zones = []domain.Zone{}
	}
	return zones, nil
}

func (s *ZoneService) Get(ctx context.Context, zoneID string) (*domain.Zone, error) {
	var zone *domain.Zone
	err := callWithTimeout(ctx, s.timeout, func(ctx context.Context) error {
		var err error
		zone, err = s.repo.Get(ctx, zoneID)
		return err
	})
	return zone, zoneErr("get zone", zoneID, err)
}

// Toggle flips the active flag. Deactivated zones stop being evaluated on the
// next update.
func (s *ZoneService) Toggle(ctx context.Context, zoneID string) (*domain.Zone, error) {
	var zone *domain.Zone
	err := callWithTimeout(ctx, s.timeout, func(ctx context.Context) error {
		var err error
		zone, err = s.repo.Toggle(ctx, zoneID, s.now())
		return err
	})
	return zone, zoneErr("toggle zone", zoneID, err)
}

func zoneErr(op, zoneID string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, domain.ErrNotFound):
		return domain.NotFound(fmt.Sprintf("zone %q not found", zoneID))
	default:
		return domain.Dependency(op, err)
	}
}
