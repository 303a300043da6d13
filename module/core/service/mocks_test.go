package service

import (
	"context"
	"time"

	"github.com/nandanugg/geotoll/module/core/domain"
)

type mockVehicleRepo struct {
	findByDeviceIDFn func(ctx context.Context, deviceID string) (*domain.Vehicle, error)
	updateLocationFn func(ctx context.Context, vehicleID string, loc domain.Coordinate, at time.Time) error
}

func (m *mockVehicleRepo) FindByDeviceID(ctx context.Context, deviceID string) (*domain.Vehicle, error) {
	if m.findByDeviceIDFn != nil {
		return m.findByDeviceIDFn(ctx, deviceID)
	}
	return nil, domain.ErrNotFound
}

func (m *mockVehicleRepo) UpdateLocation(ctx context.Context, vehicleID string, loc domain.Coordinate, at time.Time) error {
	if m.updateLocationFn != nil {
		return m.updateLocationFn(ctx, vehicleID, loc, at)
	}
	return nil
}

type mockZoneRepo struct {
	listActiveFn func(ctx context.Context) ([]domain.Zone, error)
	getFn        func(ctx context.Context, zoneID string) (*domain.Zone, error)
	createFn     func(ctx context.Context, zone *domain.Zone) error
	toggleFn     func(ctx context.Context, zoneID string, at time.Time) (*domain.Zone, error)
	created      []*domain.Zone
}

func (m *mockZoneRepo) ListActive(ctx context.Context) ([]domain.Zone, error) {
	if m.listActiveFn != nil {
		return m.listActiveFn(ctx)
	}
	return nil, nil
}

func (m *mockZoneRepo) Get(ctx context.Context, zoneID string) (*domain.Zone, error) {
	if m.getFn != nil {
		return m.getFn(ctx, zoneID)
	}
	return nil, domain.ErrNotFound
}

func (m *mockZoneRepo) Create(ctx context.Context, zone *domain.Zone) error {
	m.created = append(m.created, zone)
	if m.createFn != nil {
		return m.createFn(ctx, zone)
	}
	return nil
}

func (m *mockZoneRepo) Toggle(ctx context.Context, zoneID string, at time.Time) (*domain.Zone, error) {
	if m.toggleFn != nil {
		return m.toggleFn(ctx, zoneID, at)
	}
	return nil, domain.ErrNotFound
}

type mockAccountRepo struct {
	getFn          func(ctx context.Context, accountID string) (*domain.Account, error)
	atomicDebitFn  func(ctx context.Context, accountID string, amount domain.Money) (domain.Money, error)
	atomicCreditFn func(ctx context.Context, accountID string, amount domain.Money) (domain.Money, error)
}

func (m *mockAccountRepo) Get(ctx context.Context, accountID string) (*domain.Account, error) {
	if m.getFn != nil {
		return m.getFn(ctx, accountID)
	}
	return nil, domain.ErrNotFound
}

func (m *mockAccountRepo) AtomicDebit(ctx context.Context, accountID string, amount domain.Money) (domain.Money, error) {
	if m.atomicDebitFn != nil {
		return m.atomicDebitFn(ctx, accountID, amount)
	}
	return 0, nil
}

func (m *mockAccountRepo) AtomicCredit(ctx context.Context, accountID string, amount domain.Money) (domain.Money, error) {
	if m.atomicCreditFn != nil {
		return m.atomicCreditFn(ctx, accountID, amount)
	}
	return 0, nil
}

type mockLedgerRepo struct {
	findRecentFn    func(ctx context.Context, vehicleID, zoneID string, since time.Time) (*domain.SettlementRecord, error)
	appendFn        func(ctx context.Context, rec *domain.SettlementRecord) error
	listByVehicleFn func(ctx context.Context, vehicleID string, limit int) ([]domain.SettlementRecord, error)
	listByAccountFn func(ctx context.Context, accountID string, limit int) ([]domain.SettlementRecord, error)
	statsFn         func(ctx context.Context, dayStart time.Time) (*domain.LedgerStats, error)
	revenueFn       func(ctx context.Context, rng domain.RevenueRange) ([]domain.RevenueDay, error)
}

func (m *mockLedgerRepo) FindRecent(ctx context.Context, vehicleID, zoneID string, since time.Time) (*domain.SettlementRecord, error) {
	if m.findRecentFn != nil {
		return m.findRecentFn(ctx, vehicleID, zoneID, since)
	}
	return nil, nil
}

func (m *mockLedgerRepo) Append(ctx context.Context, rec *domain.SettlementRecord) error {
	if m.appendFn != nil {
		return m.appendFn(ctx, rec)
	}
	return nil
}

func (m *mockLedgerRepo) ListByVehicle(ctx context.Context, vehicleID string, limit int) ([]domain.SettlementRecord, error) {
	if m.listByVehicleFn != nil {
		return m.listByVehicleFn(ctx, vehicleID, limit)
	}
	return nil, nil
}

func (m *mockLedgerRepo) ListByAccount(ctx context.Context, accountID string, limit int) ([]domain.SettlementRecord, error) {
	if m.listByAccountFn != nil {
		return m.listByAccountFn(ctx, accountID, limit)
	}
	return nil, nil
}

func (m *mockLedgerRepo) RevenueByDay(ctx context.Context, rng domain.RevenueRange) ([]domain.RevenueDay, error) {
	if m.revenueFn != nil {
		return m.revenueFn(ctx, rng)
	}
	return nil, nil
}

func (m *mockLedgerRepo) Stats(ctx context.Context, dayStart time.Time) (*domain.LedgerStats, error) {
	if m.statsFn != nil {
		return m.statsFn(ctx, dayStart)
	}
	return &domain.LedgerStats{}, nil
}

type mockTollGuard struct {
	acquireFn func(ctx context.Context, vehicleID, zoneID string, ttl time.Duration) (string, bool, error)
	releaseFn func(ctx context.Context, vehicleID, zoneID, token string) error
}

func (m *mockTollGuard) Acquire(ctx context.Context, vehicleID, zoneID string, ttl time.Duration) (string, bool, error) {
	if m.acquireFn != nil {
		return m.acquireFn(ctx, vehicleID, zoneID, ttl)
	}
	return "token", true, nil
}

func (m *mockTollGuard) Release(ctx context.Context, vehicleID, zoneID, token string) error {
	if m.releaseFn != nil {
		return m.releaseFn(ctx, vehicleID, zoneID, token)
	}
	return nil
}

type mockAlertPublisher struct {
	publishFn func(ctx context.Context, event *domain.ZoneAlertEvent) error
	calls     []*domain.ZoneAlertEvent
}

func (m *mockAlertPublisher) PublishZoneAlerts(ctx context.Context, event *domain.ZoneAlertEvent) error {
	m.calls = append(m.calls, event)
	if m.publishFn != nil {
		return m.publishFn(ctx, event)
	}
	return nil
}
