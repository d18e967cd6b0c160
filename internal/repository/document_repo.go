package repository

import (
	"fmt"
	"strconv"

	"noleggio/internal/db"
)

func (s *SQLStore) CreateDocument(d *db.Document) error {
	query := `
		INSERT INTO documents (reservation_id, vehicle_id, file_name, object_key, content_type, size_bytes, url, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		RETURNING id, created_at`
	return s.DB.QueryRow(query,
		nullableInt(d.ReservationID), nullableInt(d.VehicleID),
		d.FileName, d.ObjectKey, d.ContentType, d.SizeBytes, d.URL,
	).Scan(&d.ID, &d.CreatedAt)
}

// ListDocuments filters by reservation and/or vehicle; zero means "any".
func (s *SQLStore) ListDocuments(reservationID, vehicleID int) ([]db.Document, error) {
	query := `SELECT id, reservation_id, vehicle_id, file_name, object_key, content_type, size_bytes, url, created_at
		FROM documents WHERE 1=1`
	args := []interface{}{}
	idx := 1

	if reservationID != 0 {
		query += " AND reservation_id = $" + strconv.Itoa(idx)
		args = append(args, reservationID)
		idx++
	}
	if vehicleID != 0 {
		query += " AND vehicle_id = $" + strconv.Itoa(idx)
		args = append(args, vehicleID)
		idx++
	}
	query += " ORDER BY created_at DESC"

	rows, err := s.DB.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing documents: %w", err)
	}
	defer rows.Close()

	var docs []db.Document
	for rows.Next() {
		var d db.Document
		var resID, vehID *int64
		if err := rows.Scan(&d.ID, &resID, &vehID, &d.FileName, &d.ObjectKey, &d.ContentType, &d.SizeBytes, &d.URL, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning document row: %w", err)
		}
		if resID != nil {
			v := int(*resID)
			d.ReservationID = &v
		}
		if vehID != nil {
			v := int(*vehID)
			d.VehicleID = &v
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

func (s *SQLStore) DeleteDocument(id int) error {
	result, err := s.DB.Exec(`DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting document %d: %w", id, err)
	}
	return requireRow(result)
}
