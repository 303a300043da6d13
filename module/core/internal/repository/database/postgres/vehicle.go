package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/nandanugg/geotoll/module/core/domain"
	"github.com/nandanugg/geotoll/module/core/internal/repository/database"
)

var _ database.VehicleRepository = (*VehicleRepo)(nil)

type VehicleRepo struct {
	db *sql.DB
}

func NewVehicleRepo(db *sql.DB) *VehicleRepo {
	return &VehicleRepo{db: db}
}

func (r *VehicleRepo) FindByDeviceID(ctx context.Context, deviceID string) (*domain.Vehicle, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, device_id, registration_no, vehicle_type, account_id, longitude, latitude, last_updated FROM vehicles WHERE device_id = $1`,
		deviceID,
	)

	var v domain.Vehicle
	err := row.Scan(&v.ID, &v.DeviceID, &v.RegistrationNo, &v.VehicleType, &v.AccountID,
		&v.Location.Lon, &v.Location.Lat, &v.LastUpdated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// UpdateLocation is a single-row write, so concurrent updates for one vehicle
// serialize on the row and the last writer wins.
func (r *VehicleRepo) UpdateLocation(ctx context.Context, vehicleID string, loc domain.Coordinate, at time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE vehicles SET longitude = $2, latitude = $3, last_updated = $4 WHERE id = $1`,
		vehicleID, loc.Lon, loc.Lat, at,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
