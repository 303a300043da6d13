package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/nandanugg/geotoll/module/core/domain"
	"github.com/nandanugg/geotoll/module/core/geo"
	"github.com/nandanugg/geotoll/module/core/internal/metrics"
	"github.com/nandanugg/geotoll/module/core/internal/repository/database"
	"github.com/nandanugg/geotoll/module/core/internal/repository/lock"
	"github.com/nandanugg/geotoll/module/core/internal/repository/publisher"
)

const (
	DefaultDedupWindow  = 30 * time.Second
	DefaultStoreTimeout = 5 * time.Second
)

type TrackingConfig struct {
	// DedupWindow is how long a toll charge for a (vehicle, zone) pair
	// suppresses further charges while the vehicle dwells in the zone.
	DedupWindow  time.Duration
	StoreTimeout time.Duration
}

func (c TrackingConfig) withDefaults() TrackingConfig {
	if c.DedupWindow <= 0 {
		c.DedupWindow = DefaultDedupWindow
	}
	if c.StoreTimeout <= 0 {
		c.StoreTimeout = DefaultStoreTimeout
	}
	return c
}

// TrackingService evaluates location updates against the active zones. It
// keeps no state between calls; the stores are the only shared resources.
type TrackingService struct {
	vehicles  database.VehicleRepository
	zones     database.ZoneRepository
	accounts  database.AccountRepository
	ledger    database.LedgerRepository
	guard     lock.TollGuard
	publisher publisher.AlertPublisher
	cfg       TrackingConfig
	now       func() time.Time
	log       *slog.Logger
}

func NewTrackingService(
	vehicles database.VehicleRepository,
	zones database.ZoneRepository,
	accounts database.AccountRepository,
	ledger database.LedgerRepository,
	guard lock.TollGuard,
	pub publisher.AlertPublisher,
	cfg TrackingConfig,
) *TrackingService {
	return &TrackingService{
		vehicles:  vehicles,
		zones:     zones,
		accounts:  accounts,
		ledger:    ledger,
		guard:     guard,
		publisher: pub,
		cfg:       cfg.withDefaults(),
		now:       time.Now,
		log:       slog.Default().With("component", "tracking"),
	}
}

func (s *TrackingService) ProcessLocationUpdate(ctx context.Context, upd *domain.LocationUpdate) (*domain.TrackingResult, error) {
	start := time.Now()
	res, err := s.process(ctx, upd)
	metrics.UpdateDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.LocationUpdates.WithLabelValues(string(domain.KindOf(err))).Inc()
		return nil, err
	}
	metrics.LocationUpdates.WithLabelValues("ok").Inc()
	return res, nil
}

func (s *TrackingService) process(ctx context.Context, upd *domain.LocationUpdate) (*domain.TrackingResult, error) {
	if err := upd.Validate(); err != nil {
		return nil, err
	}
	loc := upd.Coordinate()

	var vehicle *domain.Vehicle
	err := s.call(ctx, func(ctx context.Context) error {
		var err error
		vehicle, err = s.vehicles.FindByDeviceID(ctx, upd.DeviceID)
		return err
	})
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.NotFound(fmt.Sprintf("vehicle with device %q not found", upd.DeviceID))
	}
	if err != nil {
		return nil, domain.Dependency("find vehicle", err)
	}

	now := s.now()
	err = s.call(ctx, func(ctx context.Context) error {
		return s.vehicles.UpdateLocation(ctx, vehicle.ID, loc, now)
	})
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.NotFound(fmt.Sprintf("vehicle %q not found", vehicle.ID))
	}
	if err != nil {
		return nil, domain.Dependency("update vehicle location", err)
	}
	vehicle.Location = loc
	vehicle.LastUpdated = now

	var zones []domain.Zone
	err = s.call(ctx, func(ctx context.Context) error {
		var err error
		zones, err = s.zones.ListActive(ctx)
		return err
	})
	if err != nil {
		return nil, domain.Dependency("list active zones", err)
	}

	res := &domain.TrackingResult{
		Vehicle: domain.VehicleSummary{
			ID:             vehicle.ID,
			RegistrationNo: vehicle.RegistrationNo,
			Location:       loc,
		},
		TriggeredZones: []domain.TriggeredZone{},
		Alerts:         []domain.Alert{},
	}

	for i := range zones {
		zone := &zones[i]
		if !geo.PointInPolygon(loc, zone.Boundary) {
			continue
		}

		tz := domain.TriggeredZone{ZoneID: zone.ID, Name: zone.Name, Type: zone.Kind()}

		switch p := zone.Policy.(type) {
		case domain.TollPolicy:
			alert, err := s.settleToll(ctx, vehicle, zone, p, now)
			if err != nil {
				tz.Error = err.Error()
				metrics.ZoneFailures.WithLabelValues(string(domain.KindOf(err))).Inc()
				s.log.Error("toll settlement failed",
					"vehicle_id", vehicle.ID, "zone_id", zone.ID, "error", err)
			}
			if alert != nil {
				res.Alerts = append(res.Alerts, *alert)
			}
		case domain.DangerPolicy:
			res.Alerts = append(res.Alerts, dangerAlert(zone, p, loc, upd.Speed))
			metrics.DangerAlerts.WithLabelValues(string(p.Severity)).Inc()
		}

		res.TriggeredZones = append(res.TriggeredZones, tz)
	}

	s.publish(ctx, res, now)
	return res, nil
}

// settleToll applies one toll zone. A nil alert with a nil error means the
// charge was suppressed by the de-dup window.
func (s *TrackingService) settleToll(ctx context.Context, v *domain.Vehicle, zone *domain.Zone, toll domain.TollPolicy, now time.Time) (*domain.Alert, error) {
	var recent *domain.SettlementRecord
	err := s.call(ctx, func(ctx context.Context) error {
		var err error
		recent, err = s.ledger.FindRecent(ctx, v.ID, zone.ID, now.Add(-s.cfg.DedupWindow))
		return err
	})
	if err != nil {
		return nil, domain.Dependency("find recent settlement", err)
	}
	if recent != nil {
		metrics.TollSettlements.WithLabelValues("deduplicated").Inc()
		return nil, nil
	}

	// The ledger check above is only a fast path; the guard is what stops two
	// concurrent updates from both charging inside the same window.
	var (
		token    string
		acquired bool
	)
	err = s.call(ctx, func(ctx context.Context) error {
		var err error
		token, acquired, err = s.guard.Acquire(ctx, v.ID, zone.ID, s.cfg.DedupWindow)
		return err
	})
	if err != nil {
		return nil, domain.Dependency("acquire toll guard", err)
	}
	if !acquired {
		metrics.TollSettlements.WithLabelValues("deduplicated").Inc()
		return nil, nil
	}

	rec := &domain.SettlementRecord{
		ID:        uuid.NewString(),
		VehicleID: v.ID,
		AccountID: v.AccountID,
		ZoneID:    zone.ID,
		Amount:    toll.Amount,
		Kind:      domain.KindTollPayment,
		Location:  v.Location,
		Timestamp: now,
	}

	var balance domain.Money
	err = s.call(ctx, func(ctx context.Context) error {
		var err error
		balance, err = s.accounts.AtomicDebit(ctx, v.AccountID, toll.Amount)
		return err
	})
	switch {
	case err == nil:
		rec.Outcome = domain.OutcomeSuccess
		rec.Remark = domain.RemarkTollPaid
	case errors.Is(err, domain.ErrInsufficientFunds):
		rec.Outcome = domain.OutcomeFailed
		rec.Remark = domain.RemarkInsufficientFunds
	default:
		s.releaseGuard(ctx, v.ID, zone.ID, token)
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NotFound(fmt.Sprintf("account %q not found", v.AccountID))
		}
		return nil, domain.Dependency("debit account", err)
	}
	metrics.TollSettlements.WithLabelValues(string(rec.Outcome)).Inc()

	amount := toll.Amount
	alert := &domain.Alert{
		Type:    domain.ZoneToll,
		Zone:    zone.Name,
		Amount:  &amount,
		Status:  rec.Outcome,
		Message: rec.Remark,
		Balance: &balance,
	}

	err = s.call(ctx, func(ctx context.Context) error {
		return s.ledger.Append(ctx, rec)
	})
	if err != nil {
		// The debit has happened and the guard still covers the window, so the
		// alert is reported and the zone is annotated instead of dropped.
		return alert, domain.Dependency("append settlement record", err)
	}
	return alert, nil
}

func (s *TrackingService) releaseGuard(ctx context.Context, vehicleID, zoneID, token string) {
	err := s.call(ctx, func(ctx context.Context) error {
		return s.guard.Release(ctx, vehicleID, zoneID, token)
	})
	if err != nil {
		s.log.Warn("release toll guard", "vehicle_id", vehicleID, "zone_id", zoneID, "error", err)
	}
}

func dangerAlert(zone *domain.Zone, p domain.DangerPolicy, loc domain.Coordinate, speed *float64) domain.Alert {
	msg := p.AlertMessage
	if msg == "" {
		msg = "Entering " + zone.Name
	}
	dist := geo.DistanceMeters(loc, geo.Centroid(zone.Boundary))

	alert := domain.Alert{
		Type:           domain.ZoneDanger,
		Zone:           zone.Name,
		Message:        msg,
		Severity:       p.Severity,
		SpeedLimit:     p.SpeedLimit,
		DistanceMeters: &dist,
	}
	if p.SpeedLimit != nil && speed != nil && *speed > *p.SpeedLimit {
		alert.Speeding = true
	}
	return alert
}

func (s *TrackingService) publish(ctx context.Context, res *domain.TrackingResult, now time.Time) {
	if s.publisher == nil || len(res.Alerts) == 0 {
		return
	}
	err := s.call(ctx, func(ctx context.Context) error {
		return s.publisher.PublishZoneAlerts(ctx, domain.NewZoneAlertEvent(res, now))
	})
	if err != nil {
		s.log.Warn("publish zone alerts", "vehicle_id", res.Vehicle.ID, "error", err)
	}
}

// call runs fn under the store timeout so no collaborator can block an update
// indefinitely.
func (s *TrackingService) call(ctx context.Context, fn func(context.Context) error) error {
	return callWithTimeout(ctx, s.cfg.StoreTimeout, fn)
}

func callWithTimeout(ctx context.Context, timeout time.Duration, fn func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return fn(ctx)
}
