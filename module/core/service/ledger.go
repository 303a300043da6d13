package service

import (
	"context"
	"time"

	"github.com/nandanugg/geotoll/module/core/domain"
	"github.com/nandanugg/geotoll/module/core/internal/repository/database"
)

const (
	DefaultHistoryLimit = 100
	MaxHistoryLimit     = 1000
)

// LedgerService answers read-only questions about settlement records.
type LedgerService struct {
	repo    database.LedgerRepository
	timeout time.Duration
}

func NewLedgerService(repo database.LedgerRepository, timeout time.Duration) *LedgerService {
	if timeout <= 0 {
		timeout = DefaultStoreTimeout
	}
	return &LedgerService{repo: repo, timeout: timeout}
}

// History returns the vehicle's records newest first. A non-positive limit
// means DefaultHistoryLimit.
func (s *LedgerService) History(ctx context.Context, vehicleID string, limit int) ([]domain.SettlementRecord, error) {
	if vehicleID == "" {
		return nil, domain.Validation("vehicleID: required")
	}
	return s.list(ctx, func(ctx context.Context) ([]domain.SettlementRecord, error) {
		return s.repo.ListByVehicle(ctx, vehicleID, clampLimit(limit))
	})
}

// AccountHistory returns every toll payment and recharge booked against the
// account, newest first. Limits behave as in History.
func (s *LedgerService) AccountHistory(ctx context.Context, accountID string, limit int) ([]domain.SettlementRecord, error) {
	if accountID == "" {
		return nil, domain.Validation("accountID: required")
	}
	return s.list(ctx, func(ctx context.Context) ([]domain.SettlementRecord, error) {
		return s.repo.ListByAccount(ctx, accountID, clampLimit(limit))
	})
}

func (s *LedgerService) list(ctx context.Context, fn func(context.Context) ([]domain.SettlementRecord, error)) ([]domain.SettlementRecord, error) {
	var recs []domain.SettlementRecord
	err := callWithTimeout(ctx, s.timeout, func(ctx context.Context) error {
		var err error
		recs, err = fn(ctx)
		return err
	})
	if err != nil {
		return nil, domain.Dependency("list settlements", err)
	}
	if recs == nil {
		recs = []domain.SettlementRecord{}
	}
	return recs, nil
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		return MaxHistoryLimit
	}
	return limit
}

// Stats aggregates the ledger; today's revenue counts from local midnight of now.
func (s *LedgerService) Stats(ctx context.Context, now time.Time) (*domain.LedgerStats, error) {
	var stats *domain.LedgerStats
	err := callWithTimeout(ctx, s.timeout, func(ctx context.Context) error {
		var err error
		stats, err = s.repo.Stats(ctx, startOfDay(now))
		return err
	})
	if err != nil {
		return nil, domain.Dependency("ledger stats", err)
	}
	return stats, nil
}

// Revenue returns successful toll revenue per UTC day inside rng.
func (s *LedgerService) Revenue(ctx context.Context, rng domain.RevenueRange) ([]domain.RevenueDay, error) {
	if rng.From != nil && rng.To != nil && !rng.To.After(*rng.From) {
		return nil, domain.Validation("endDate: must be after startDate")
	}

	var days []domain.RevenueDay
	err := callWithTimeout(ctx, s.timeout, func(ctx context.Context) error {
		var err error
		days, err = s.repo.RevenueByDay(ctx, rng)
		return err
	})
	if err != nil {
		return nil, domain.Dependency("revenue by day", err)
	}
	if days == nil {
		days = []domain.RevenueDay{}
	}
	return days, nil
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
