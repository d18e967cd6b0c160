package repository

import (
	"database/sql"

	"noleggio/internal/db"
)

// SQLStore implements Store on Postgres via database/sql + lib/pq.
type SQLStore struct {
	DB *sql.DB
}

func NewSQLStore(database *sql.DB) *SQLStore {
	return &SQLStore{DB: database}
}

// reservationColumns is the canonical select list; scanReservation must stay
// in sync with it.
const reservationColumns = `id, code, vehicle_id, customer_id, type, status, start_date, end_date,
	placeholder_spare, replacement_for_reservation_id, notes, deposit_session_id, deposit_status,
	created_at, updated_at, deleted_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanReservation(row rowScanner) (*db.Reservation, error) {
	var res db.Reservation
	var vehicleID, customerID, replacementFor sql.NullInt64
	var endDate sql.NullString
	var deletedAt sql.NullTime

	err := row.Scan(
		&res.ID, &res.Code, &vehicleID, &customerID, &res.Type, &res.Status,
		&res.StartDate, &endDate, &res.PlaceholderSpare, &replacementFor,
		&res.Notes, &res.DepositSessionID, &res.DepositStatus,
		&res.CreatedAt, &res.UpdatedAt, &deletedAt,
	)
	if err != nil {
		return nil, err
	}
	if vehicleID.Valid {
		v := int(vehicleID.Int64)
		res.VehicleID = &v
	}
	if customerID.Valid {
		c := int(customerID.Int64)
		res.CustomerID = &c
	}
	if replacementFor.Valid {
		r := int(replacementFor.Int64)
		res.ReplacementForReservationID = &r
	}
	if endDate.Valid {
		e := endDate.String
		res.EndDate = &e
	}
	if deletedAt.Valid {
		d := deletedAt.Time
		res.DeletedAt = &d
	}
	return &res, nil
}

func nullableInt(p *int) interface{} {
	if p == nil {
		return nil
	}
	return *p
}

func nullableString(p *string) interface{} {
	if p == nil || *p == "" {
		return nil
	}
	return *p
}

func requireRow(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
