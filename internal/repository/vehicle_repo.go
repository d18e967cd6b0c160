package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"noleggio/internal/db"
)

const vehicleColumns = `id, license_plate, brand, model, year, maintenance_status, odometer, daily_rate_cents, created_at, updated_at`

const vehicleColumnsPrefixed = `v.id, v.license_plate, v.brand, v.model, v.year, v.maintenance_status, v.odometer, v.daily_rate_cents, v.created_at, v.updated_at`

func scanVehicle(row rowScanner) (*db.Vehicle, error) {
	var v db.Vehicle
	err := row.Scan(
		&v.ID, &v.LicensePlate, &v.Brand, &v.Model, &v.Year,
		&v.MaintenanceStatus, &v.Odometer, &v.DailyRateCents,
		&v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (s *SQLStore) CreateVehicle(v *db.Vehicle) error {
	if v.MaintenanceStatus == "" {
		v.MaintenanceStatus = db.MaintenanceOK
	}
	query := `
		INSERT INTO vehicles (license_plate, brand, model, year, maintenance_status, odometer, daily_rate_cents, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING id, created_at, updated_at`
	return s.DB.QueryRow(query,
		v.LicensePlate, v.Brand, v.Model, v.Year, v.MaintenanceStatus, v.Odometer, v.DailyRateCents,
	).Scan(&v.ID, &v.CreatedAt, &v.UpdatedAt)
}

func (s *SQLStore) GetVehicle(id int) (*db.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles WHERE id = $1`
	v, err := scanVehicle(s.DB.QueryRow(query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error querying vehicle %d: %w", id, err)
	}
	return v, nil
}

func (s *SQLStore) ListVehicles() ([]db.Vehicle, error) {
	rows, err := s.DB.Query(`SELECT ` + vehicleColumns + ` FROM vehicles ORDER BY license_plate`)
	if err != nil {
		return nil, fmt.Errorf("error listing vehicles: %w", err)
	}
	defer rows.Close()

	var vehicles []db.Vehicle
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning vehicle row: %w", err)
		}
		vehicles = append(vehicles, *v)
	}
	return vehicles, rows.Err()
}

func (s *SQLStore) UpdateVehicle(v *db.Vehicle) error {
	result, err := s.DB.Exec(`
		UPDATE vehicles
		SET license_plate = $2, brand = $3, model = $4, year = $5,
		    maintenance_status = $6, odometer = $7, daily_rate_cents = $8, updated_at = NOW()
		WHERE id = $1`,
		v.ID, v.LicensePlate, v.Brand, v.Model, v.Year, v.MaintenanceStatus, v.Odometer, v.DailyRateCents)
	if err != nil {
		return fmt.Errorf("error updating vehicle %d: %w", v.ID, err)
	}
	return requireRow(result)
}

func (s *SQLStore) SetVehicleMaintenanceStatus(id int, status string) error {
	result, err := s.DB.Exec(
		`UPDATE vehicles SET maintenance_status = $2, updated_at = NOW() WHERE id = $1`,
		id, status)
	if err != nil {
		return fmt.Errorf("error updating vehicle %d maintenance status: %w", id, err)
	}
	return requireRow(result)
}

func (s *SQLStore) DeleteVehicle(id int) error {
	result, err := s.DB.Exec(`DELETE FROM vehicles WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting vehicle %d: %w", id, err)
	}
	return requireRow(result)
}
