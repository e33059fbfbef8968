package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	intconfig "speed-backend/internal/config"
	"speed-backend/internal/domain"
	"speed-backend/internal/domain/models"
	"speed-backend/internal/utils"
)

// DriverRepository is the driver roster: online flag and last known
// location, keyed by the driver's user id.
type DriverRepository struct {
	DB *sql.DB
}

func (r DriverRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

func (r DriverRepository) SetOnlineStatus(ctx context.Context, driverID int64, online bool) error {
	_, err := r.db().ExecContext(ctx, `
		INSERT INTO drivers (id, is_online, updated_at)
		VALUES (?, ?, ?)
		ON DUPLICATE KEY UPDATE is_online = VALUES(is_online), updated_at = VALUES(updated_at)
	`, driverID, online, utils.NowUTC())
	if err != nil {
		return fmt.Errorf("set online status: %w", err)
	}
	return nil
}

func (r DriverRepository) SetLocation(ctx context.Context, driverID int64, loc models.Location) error {
	res, err := r.db().ExecContext(ctx, `
		UPDATE drivers SET lat = ?, lng = ?, updated_at = ? WHERE id = ?
	`, loc.Lat, loc.Lng, utils.NowUTC(), driverID)
	if err != nil {
		return fmt.Errorf("set location: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// zero changed rows is also what an identical update reports
		if _, err := r.GetByID(ctx, driverID); err != nil {
			return err
		}
	}
	return nil
}

const driverSelect = `
	SELECT d.id, COALESCE(u.name, ''), COALESCE(u.phone, ''), d.is_online, d.lat, d.lng, d.updated_at
	FROM drivers d
	LEFT JOIN users u ON u.id = d.id
`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDriver(row rowScanner) (models.Driver, error) {
	var (
		d        models.Driver
		lat, lng sql.NullFloat64
	)
	if err := row.Scan(&d.ID, &d.Name, &d.Phone, &d.IsOnline, &lat, &lng, &d.UpdatedAt); err != nil {
		return models.Driver{}, err
	}
	if lat.Valid && lng.Valid {
		d.Location = &models.Location{Lat: lat.Float64, Lng: lng.Float64}
	}
	return d, nil
}

func (r DriverRepository) GetByID(ctx context.Context, driverID int64) (models.Driver, error) {
	d, err := scanDriver(r.db().QueryRowContext(ctx, driverSelect+` WHERE d.id = ? LIMIT 1`, driverID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Driver{}, domain.NotFoundError{Resource: "driver"}
		}
		return models.Driver{}, fmt.Errorf("get driver: %w", err)
	}
	return d, nil
}

// ListOnline returns online drivers that also hold an approved verification.
func (r DriverRepository) ListOnline(ctx context.Context) ([]models.Driver, error) {
	rows, err := r.db().QueryContext(ctx, driverSelect+`
		JOIN verification_status s ON s.driver_id = d.id AND s.is_verified = 1
		WHERE d.is_online = 1
		ORDER BY d.updated_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list online drivers: %w", err)
	}
	defer rows.Close()

	drivers := []models.Driver{}
	for rows.Next() {
		d, err := scanDriver(rows)
		if err != nil {
			return nil, fmt.Errorf("scan driver: %w", err)
		}
		drivers = append(drivers, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list online drivers: %w", err)
	}
	return drivers, nil
}
