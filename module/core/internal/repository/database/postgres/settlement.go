package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/nandanugg/geotoll/module/core/domain"
	"github.com/nandanugg/geotoll/module/core/internal/repository/database"
)

var _ database.LedgerRepository = (*SettlementRepo)(nil)

const settlementColumns = `id, vehicle_id, account_id, zone_id, amount, status, kind, longitude, latitude, created_at, remarks`

type SettlementRepo struct {
	db *sql.DB
}

func NewSettlementRepo(db *sql.DB) *SettlementRepo {
	return &SettlementRepo{db: db}
}

func (r *SettlementRepo) FindRecent(ctx context.Context, vehicleID, zoneID string, since time.Time) (*domain.SettlementRecord, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+settlementColumns+` FROM settlements WHERE vehicle_id = $1 AND zone_id = $2 AND created_at >= $3 ORDER BY created_at DESC LIMIT 1`,
		vehicleID, zoneID, since,
	)
	rec, err := scanSettlement(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return rec, err
}

func (r *SettlementRepo) Append(ctx context.Context, rec *domain.SettlementRecord) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO settlements (`+settlementColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		rec.ID, nilIfEmpty(rec.VehicleID), rec.AccountID, nilIfEmpty(rec.ZoneID), int64(rec.Amount),
		string(rec.Outcome), string(rec.Kind), rec.Location.Lon, rec.Location.Lat, rec.Timestamp, rec.Remark,
	)
	return err
}

func (r *SettlementRepo) ListByVehicle(ctx context.Context, vehicleID string, limit int) ([]domain.SettlementRecord, error) {
	return r.listBy(ctx, "vehicle_id", vehicleID, limit)
}

func (r *SettlementRepo) ListByAccount(ctx context.Context, accountID string, limit int) ([]domain.SettlementRecord, error) {
	return r.listBy(ctx, "account_id", accountID, limit)
}

// listBy is only called with fixed column names.
func (r *SettlementRepo) listBy(ctx context.Context, column, id string, limit int) ([]domain.SettlementRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+settlementColumns+` FROM settlements WHERE `+column+` = $1 ORDER BY created_at DESC LIMIT $2`,
		id, limit,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var results []domain.SettlementRecord
	for rows.Next() {
		rec, err := scanSettlement(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, *rec)
	}
	return results, rows.Err()
}

func (r *SettlementRepo) Stats(ctx context.Context, dayStart time.Time) (*domain.LedgerStats, error) {
	var s domain.LedgerStats
	err := r.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'success'),
			COUNT(*) FILTER (WHERE status = 'failed'),
			COALESCE(SUM(amount) FILTER (WHERE status = 'success' AND kind = 'toll_payment'), 0),
			COALESCE(SUM(amount) FILTER (WHERE status = 'success' AND kind = 'toll_payment' AND created_at >= $1), 0)
		FROM settlements`,
		dayStart,
	).Scan(&s.Total, &s.Successful, &s.Failed, &s.TotalRevenue, &s.TodayRevenue)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SettlementRepo) RevenueByDay(ctx context.Context, rng domain.RevenueRange) ([]domain.RevenueDay, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT
			to_char(created_at AT TIME ZONE 'UTC', 'YYYY-MM-DD') AS day,
			SUM(amount)::BIGINT,
			COUNT(*)
		FROM settlements
		WHERE status = 'success' AND kind = 'toll_payment'
			AND ($1::timestamptz IS NULL OR created_at >= $1)
			AND ($2::timestamptz IS NULL OR created_at < $2)
		GROUP BY day
		ORDER BY day ASC`,
		nullTime(rng.From), nullTime(rng.To),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var days []domain.RevenueDay
	for rows.Next() {
		var d domain.RevenueDay
		if err := rows.Scan(&d.Date, &d.Total, &d.Count); err != nil {
			return nil, err
		}
		days = append(days, d)
	}
	return days, rows.Err()
}

func scanSettlement(s scanner) (*domain.SettlementRecord, error) {
	var (
		rec       domain.SettlementRecord
		vehicleID sql.NullString
		zoneID    sql.NullString
		outcome   string
		kind      string
	)
	if err := s.Scan(&rec.ID, &vehicleID, &rec.AccountID, &zoneID, &rec.Amount, &outcome, &kind,
		&rec.Location.Lon, &rec.Location.Lat, &rec.Timestamp, &rec.Remark); err != nil {
		return nil, err
	}
	rec.VehicleID = vehicleID.String
	rec.ZoneID = zoneID.String
	rec.Outcome = domain.Outcome(outcome)
	rec.Kind = domain.SettlementKind(kind)
	return &rec, nil
}

func nilIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func nullTime(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return *t
}
