package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"noleggio/internal/db"
	"noleggio/internal/interval"

	"github.com/lib/pq"
)

func (s *SQLStore) CreateReservation(res *db.Reservation) error {
	query := `
		INSERT INTO reservations
		(code, vehicle_id, customer_id, type, status, start_date, end_date,
		 placeholder_spare, replacement_for_reservation_id, notes,
		 deposit_session_id, deposit_status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW(), NOW())
		RETURNING id, created_at, updated_at`
	return s.DB.QueryRow(query,
		res.Code,
		nullableInt(res.VehicleID),
		nullableInt(res.CustomerID),
		res.Type,
		res.Status,
		res.StartDate,
		nullableString(res.EndDate),
		res.PlaceholderSpare,
		nullableInt(res.ReplacementForReservationID),
		res.Notes,
		res.DepositSessionID,
		res.DepositStatus,
	).Scan(&res.ID, &res.CreatedAt, &res.UpdatedAt)
}

func (s *SQLStore) GetReservation(id int) (*db.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = $1 AND deleted_at IS NULL`
	res, err := scanReservation(s.DB.QueryRow(query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error querying reservation %d: %w", id, err)
	}
	return res, nil
}

func (s *SQLStore) GetReservationByCode(code string) (*db.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE code = $1 AND deleted_at IS NULL`
	res, err := scanReservation(s.DB.QueryRow(query, code))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error querying reservation by code %q: %w", code, err)
	}
	return res, nil
}

func (s *SQLStore) ListReservations(f ReservationFilter) ([]db.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE deleted_at IS NULL`
	args := []interface{}{}
	idx := 1

	if f.VehicleID != 0 {
		query += " AND vehicle_id = $" + strconv.Itoa(idx)
		args = append(args, f.VehicleID)
		idx++
	}
	if f.CustomerID != 0 {
		query += " AND customer_id = $" + strconv.Itoa(idx)
		args = append(args, f.CustomerID)
		idx++
	}
	if f.Status != "" {
		query += " AND status = $" + strconv.Itoa(idx)
		args = append(args, f.Status)
		idx++
	}
	if f.Type != "" {
		query += " AND type = $" + strconv.Itoa(idx)
		args = append(args, f.Type)
		idx++
	}
	if f.Date != "" {
		query += " AND start_date <= $" + strconv.Itoa(idx) +
			" AND COALESCE(end_date, $" + strconv.Itoa(idx+1) + ") >= $" + strconv.Itoa(idx)
		args = append(args, f.Date, interval.FarFuture)
		idx += 2
	}
	query += " ORDER BY start_date DESC, id DESC"

	rows, err := s.DB.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing reservations: %w", err)
	}
	defer rows.Close()

	var reservations []db.Reservation
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning reservation row: %w", err)
		}
		reservations = append(reservations, *res)
	}
	return reservations, rows.Err()
}

func (s *SQLStore) UpdateReservation(res *db.Reservation) error {
	query := `
		UPDATE reservations
		SET vehicle_id = $2, customer_id = $3, type = $4, status = $5,
		    start_date = $6, end_date = $7, placeholder_spare = $8,
		    replacement_for_reservation_id = $9, notes = $10, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL`
	result, err := s.DB.Exec(query,
		res.ID,
		nullableInt(res.VehicleID),
		nullableInt(res.CustomerID),
		res.Type,
		res.Status,
		res.StartDate,
		nullableString(res.EndDate),
		res.PlaceholderSpare,
		nullableInt(res.ReplacementForReservationID),
		res.Notes,
	)
	if err != nil {
		return fmt.Errorf("error updating reservation %d: %w", res.ID, err)
	}
	return requireRow(result)
}

func (s *SQLStore) UpdateReservationStatus(id int, status string) error {
	result, err := s.DB.Exec(
		`UPDATE reservations SET status = $2, updated_at = NOW() WHERE id = $1 AND deleted_at IS NULL`,
		id, status)
	if err != nil {
		return fmt.Errorf("error updating reservation %d status: %w", id, err)
	}
	return requireRow(result)
}

func (s *SQLStore) SetDepositInfo(id int, sessionID, status string) error {
	result, err := s.DB.Exec(
		`UPDATE reservations SET deposit_session_id = $2, deposit_status = $3, updated_at = NOW()
		 WHERE id = $1 AND deleted_at IS NULL`,
		id, sessionID, status)
	if err != nil {
		return fmt.Errorf("error updating reservation %d deposit info: %w", id, err)
	}
	return requireRow(result)
}

func (s *SQLStore) SoftDeleteReservation(id int) error {
	result, err := s.DB.Exec(
		`UPDATE reservations SET deleted_at = NOW(), updated_at = NOW() WHERE id = $1 AND deleted_at IS NULL`,
		id)
	if err != nil {
		return fmt.Errorf("error soft-deleting reservation %d: %w", id, err)
	}
	return requireRow(result)
}

// CheckReservationConflicts returns the live reservations on the vehicle
// whose interval overlaps [startDate, endDate] (nil endDate = open-ended).
// Maintenance blocks only conflict with other maintenance blocks: a rental
// continues on a spare while the vehicle is in the shop.
func (s *SQLStore) CheckReservationConflicts(vehicleID int, startDate string, endDate *string, excludeID *int, isMaintenanceBlock bool) ([]db.Reservation, error) {
	query := `
		SELECT ` + reservationColumns + `
		FROM reservations
		WHERE vehicle_id = $1
		  AND deleted_at IS NULL
		  AND status NOT IN ('cancelled', 'completed', 'returned')
		  AND start_date <= $2
		  AND COALESCE(end_date, $3) >= $4`
	args := []interface{}{vehicleID, candidateEnd(endDate), interval.FarFuture, startDate}
	idx := 5

	if isMaintenanceBlock {
		query += " AND type = $" + strconv.Itoa(idx)
	} else {
		query += " AND type <> $" + strconv.Itoa(idx)
	}
	args = append(args, db.TypeMaintenanceBlock)
	idx++

	if excludeID != nil {
		query += " AND id <> $" + strconv.Itoa(idx)
		args = append(args, *excludeID)
		idx++
	}
	query += " ORDER BY start_date"

	rows, err := s.DB.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying reservation conflicts: %w", err)
	}
	defer rows.Close()

	var conflicts []db.Reservation
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning conflict row: %w", err)
		}
		conflicts = append(conflicts, *res)
	}
	return conflicts, rows.Err()
}

func candidateEnd(endDate *string) string {
	return interval.DateRange{End: endDate}.EffectiveEnd()
}

func (s *SQLStore) GetAvailableVehicles() ([]db.Vehicle, error) {
	today := interval.Today()
	return s.GetAvailableVehiclesInRange(today, today, nil)
}

// GetAvailableVehiclesInRange returns vehicles with no conflicting
// standard/replacement reservation in the range and an eligible maintenance
// status. Maintenance blocks do not remove a vehicle from availability;
// maintenance_status does.
func (s *SQLStore) GetAvailableVehiclesInRange(startDate, endDate string, excludeVehicleID *int) ([]db.Vehicle, error) {
	query := `
		SELECT ` + vehicleColumnsPrefixed + `
		FROM vehicles v
		WHERE v.maintenance_status = $1
		  AND v.id NOT IN (
			SELECT r.vehicle_id
			FROM reservations r
			WHERE r.vehicle_id IS NOT NULL
			  AND r.deleted_at IS NULL
			  AND r.type <> $2
			  AND r.status NOT IN ('cancelled', 'completed', 'returned')
			  AND r.start_date <= $3
			  AND COALESCE(r.end_date, $4) >= $5
		  )`
	args := []interface{}{db.MaintenanceOK, db.TypeMaintenanceBlock, endDate, interval.FarFuture, startDate}

	if excludeVehicleID != nil {
		query += " AND v.id <> $6"
		args = append(args, *excludeVehicleID)
	}
	query += " ORDER BY v.license_plate"

	rows, err := s.DB.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying available vehicles: %w", err)
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

// GetLiveReplacementFor finds the replacement or placeholder still covering
// the given original reservation. Returns (nil, nil) when there is none.
func (s *SQLStore) GetLiveReplacementFor(originalReservationID int) (*db.Reservation, error) {
	query := `
		SELECT ` + reservationColumns + `
		FROM reservations
		WHERE replacement_for_reservation_id = $1
		  AND type = $2
		  AND deleted_at IS NULL
		  AND status NOT IN ('cancelled', 'completed', 'returned')
		ORDER BY id
		LIMIT 1`
	res, err := scanReservation(s.DB.QueryRow(query, originalReservationID, db.TypeReplacement))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error querying live replacement for reservation %d: %w", originalReservationID, err)
	}
	return res, nil
}

func (s *SQLStore) ListPlaceholdersDueBy(cutoffDate string) ([]db.Reservation, error) {
	query := `
		SELECT ` + reservationColumns + `
		FROM reservations
		WHERE vehicle_id IS NULL
		  AND placeholder_spare = TRUE
		  AND deleted_at IS NULL
		  AND status NOT IN ('cancelled', 'completed', 'returned')
		  AND start_date <= $1
		ORDER BY start_date`
	rows, err := s.DB.Query(query, cutoffDate)
	if err != nil {
		return nil, fmt.Errorf("error querying due placeholders: %w", err)
	}
	defer rows.Close()

	var placeholders []db.Reservation
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning placeholder row: %w", err)
		}
		placeholders = append(placeholders, *res)
	}
	return placeholders, rows.Err()
}

// AssignPlaceholder performs the assignment as one UPDATE guarded by the
// placeholder predicates, so a row that was assigned or cancelled in the
// meantime is left untouched.
func (s *SQLStore) AssignPlaceholder(reservationID, vehicleID int, endDate string) error {
	result, err := s.DB.Exec(`
		UPDATE reservations
		SET vehicle_id = $2, placeholder_spare = FALSE, end_date = $3,
		    status = $4, updated_at = NOW()
		WHERE id = $1
		  AND vehicle_id IS NULL
		  AND placeholder_spare = TRUE
		  AND deleted_at IS NULL
		  AND status NOT IN ('cancelled', 'completed', 'returned')`,
		reservationID, vehicleID, endDate, db.StatusConfirmed)
	if err != nil {
		return fmt.Errorf("error assigning vehicle to placeholder %d: %w", reservationID, err)
	}
	return requireRow(result)
}

func (s *SQLStore) ListOpenMaintenanceBlocks(vehicleID int) ([]db.Reservation, error) {
	query := `
		SELECT ` + reservationColumns + `
		FROM reservations
		WHERE vehicle_id = $1
		  AND type = $2
		  AND deleted_at IS NULL
		  AND status NOT IN ('cancelled', 'completed', 'returned')
		ORDER BY start_date`
	rows, err := s.DB.Query(query, vehicleID, db.TypeMaintenanceBlock)
	if err != nil {
		return nil, fmt.Errorf("error querying open maintenance blocks: %w", err)
	}
	defer rows.Close()

	var blocks []db.Reservation
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning maintenance block row: %w", err)
		}
		blocks = append(blocks, *res)
	}
	return blocks, rows.Err()
}

func (s *SQLStore) CloseReservation(id int, endDate, status string) error {
	result, err := s.DB.Exec(`
		UPDATE reservations
		SET end_date = $2, status = $3, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL`,
		id, endDate, status)
	if err != nil {
		return fmt.Errorf("error closing reservation %d: %w", id, err)
	}
	return requireRow(result)
}

func (s *SQLStore) ListConfirmedStartingBy(date string) ([]int, error) {
	query := `
		SELECT id FROM reservations
		WHERE status = $1 AND deleted_at IS NULL
		  AND vehicle_id IS NOT NULL AND start_date <= $2`
	return s.queryIDs(query, db.StatusConfirmed, date)
}

func (s *SQLStore) ListActiveStandardEndedBefore(date string) ([]int, error) {
	query := `
		SELECT id FROM reservations
		WHERE status = $1 AND type = $2 AND deleted_at IS NULL
		  AND end_date IS NOT NULL AND end_date < $3`
	return s.queryIDs(query, db.StatusActive, db.TypeStandard, date)
}

func (s *SQLStore) UpdateReservationStatuses(ids []int, newStatus string) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := s.DB.Exec(
		`UPDATE reservations SET status = $1, updated_at = NOW() WHERE id = ANY($2)`,
		newStatus, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("error updating reservation statuses: %w", err)
	}
	return nil
}

func (s *SQLStore) queryIDs(query string, args ...interface{}) ([]int, error) {
	rows, err := s.DB.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying reservation ids: %w", err)
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("error scanning reservation id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *SQLStore) ExportSnapshot() (*db.Snapshot, error) {
	snap := &db.Snapshot{ExportedAt: time.Now().UTC()}

	vehicles, err := s.ListVehicles()
	if err != nil {
		return nil, err
	}
	snap.Vehicles = vehicles

	customers, err := s.ListCustomers()
	if err != nil {
		return nil, err
	}
	snap.Customers = customers

	reservations, err := s.ListReservations(ReservationFilter{})
	if err != nil {
		return nil, err
	}
	snap.Reservations = reservations

	expenses, err := s.ListExpenses(0)
	if err != nil {
		return nil, err
	}
	snap.Expenses = expenses

	return snap, nil
}
