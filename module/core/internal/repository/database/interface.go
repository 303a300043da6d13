package database

import (
	"context"
	"time"

	"github.com/nandanugg/geotoll/module/core/domain"
)

// Missing rows are reported as domain.ErrNotFound by every repository.

type VehicleRepository interface {
	FindByDeviceID(ctx context.Context, deviceID string) (*domain.Vehicle, error)
	UpdateLocation(ctx context.Context, vehicleID string, loc domain.Coordinate, at time.Time) error
}

type ZoneRepository interface {
	ListActive(ctx context.Context) ([]domain.Zone, error)
	Get(ctx context.Context, zoneID string) (*domain.Zone, error)
	Create(ctx context.Context, zone *domain.Zone) error
	Toggle(ctx context.Context, zoneID string, at time.Time) (*domain.Zone, error)
}

type AccountRepository interface {
	Get(ctx context.Context, accountID string) (*domain.Account, error)
	// AtomicDebit subtracts amount only if the balance covers it, returning the
	// resulting balance. When it does not, the balance is left untouched and
	// returned together with domain.ErrInsufficientFunds.
	AtomicDebit(ctx context.Context, accountID string, amount domain.Money) (domain.Money, error)
	AtomicCredit(ctx context.Context, accountID string, amount domain.Money) (domain.Money, error)
}

type LedgerRepository interface {
	// FindRecent returns nil, nil when no record for the pair exists since since.
	FindRecent(ctx context.Context, vehicleID, zoneID string, since time.Time) (*domain.SettlementRecord, error)
	Append(ctx context.Context, rec *domain.SettlementRecord) error
	ListByVehicle(ctx context.Context, vehicleID string, limit int) ([]domain.SettlementRecord, error)
	ListByAccount(ctx context.Context, accountID string, limit int) ([]domain.SettlementRecord, error)
	Stats(ctx context.Context, dayStart time.Time) (*domain.LedgerStats, error)
	// RevenueByDay groups successful toll payments by UTC day, oldest first.
	RevenueByDay(ctx context.Context, rng domain.RevenueRange) ([]domain.RevenueDay, error)
}
