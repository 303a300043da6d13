package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nandanugg/geotoll/module/core/domain"
	"github.com/nandanugg/geotoll/module/core/internal/repository/database"
)

var _ database.ZoneRepository = (*ZoneRepo)(nil)

const zoneColumns = `id, name, description, kind, boundary, toll_amount, severity, alert_message, speed_limit, is_active, created_at, updated_at`

type ZoneRepo struct {
	db *sql.DB
}

func NewZoneRepo(db *sql.DB) *ZoneRepo {
	return &ZoneRepo{db: db}
}

func (r *ZoneRepo) ListActive(ctx context.Context) ([]domain.Zone, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+zoneColumns+` FROM zones WHERE is_active = TRUE ORDER BY created_at ASC, id ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var results []domain.Zone
	for rows.Next() {
		z, err := scanZone(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, *z)
	}
	return results, rows.Err()
}

func (r *ZoneRepo) Get(ctx context.Context, zoneID string) (*domain.Zone, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+zoneColumns+` FROM zones WHERE id = $1`, zoneID)
	z, err := scanZone(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return z, err
}

func (r *ZoneRepo) Create(ctx context.Context, z *domain.Zone) error {
	boundary, err := encodeRing(z.Boundary)
	if err != nil {
		return err
	}

	var (
		toll       int64
		severity   sql.NullString
		message    sql.NullString
		speedLimit sql.NullFloat64
	)
	switch p := z.Policy.(type) {
	case domain.TollPolicy:
		toll = int64(p.Amount)
	case domain.DangerPolicy:
		severity = sql.NullString{String: string(p.Severity), Valid: true}
		message = sql.NullString{String: p.AlertMessage, Valid: p.AlertMessage != ""}
		if p.SpeedLimit != nil {
			speedLimit = sql.NullFloat64{Float64: *p.SpeedLimit, Valid: true}
		}
	default:
		return fmt.Errorf("zone %s: unknown policy %T", z.ID, z.Policy)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO zones (`+zoneColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		z.ID, z.Name, z.Description, string(z.Kind()), boundary, toll, severity, message, speedLimit,
		z.Active, z.CreatedAt, z.UpdatedAt,
	)
	return err
}

func (r *ZoneRepo) Toggle(ctx context.Context, zoneID string, at time.Time) (*domain.Zone, error) {
	row := r.db.QueryRowContext(ctx,
		`UPDATE zones SET is_active = NOT is_active, updated_at = $2 WHERE id = $1 RETURNING `+zoneColumns,
		zoneID, at,
	)
	z, err := scanZone(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return z, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanZone(s scanner) (*domain.Zone, error) {
	var (
		z          domain.Zone
		kind       string
		boundary   []byte
		toll       int64
		severity   sql.NullString
		message    sql.NullString
		speedLimit sql.NullFloat64
	)
	if err := s.Scan(&z.ID, &z.Name, &z.Description, &kind, &boundary, &toll, &severity, &message,
		&speedLimit, &z.Active, &z.CreatedAt, &z.UpdatedAt); err != nil {
		return nil, err
	}

	ring, err := decodeRing(boundary)
	if err != nil {
		return nil, fmt.Errorf("zone %s: %w", z.ID, err)
	}
	z.Boundary = ring

	switch domain.ZoneKind(kind) {
	case domain.ZoneToll:
		z.Policy = domain.TollPolicy{Amount: domain.Money(toll)}
	case domain.ZoneDanger:
		p := domain.DangerPolicy{Severity: domain.Severity(severity.String), AlertMessage: message.String}
		if speedLimit.Valid {
			limit := speedLimit.Float64
			p.SpeedLimit = &limit
		}
		z.Policy = p
	default:
		return nil, fmt.Errorf("zone %s: unknown kind %q", z.ID, kind)
	}
	return &z, nil
}

// Rings are stored as JSON [[lon, lat], ...] pairs.
func encodeRing(ring []domain.Coordinate) ([]byte, error) {
	pairs := make([][2]float64, len(ring))
	for i, p := range ring {
		pairs[i] = [2]float64{p.Lon, p.Lat}
	}
	return json.Marshal(pairs)
}

func decodeRing(b []byte) ([]domain.Coordinate, error) {
	var pairs [][2]float64
	if err := json.Unmarshal(b, &pairs); err != nil {
		return nil, fmt.Errorf("decode boundary: %w", err)
	}
	ring := make([]domain.Coordinate, len(pairs))
	for i, p := range pairs {
		ring[i] = domain.Coordinate{Lon: p[0], Lat: p[1]}
	}
	return ring, nil
}
