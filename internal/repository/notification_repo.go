package repository

import (
	"database/sql"
	"fmt"

	"noleggio/internal/db"
)

func (s *SQLStore) CreateNotification(n *db.Notification) error {
	query := `
		INSERT INTO notifications (title, message, priority, reservation_id, read, created_at)
		VALUES ($1, $2, $3, $4, FALSE, NOW())
		RETURNING id, created_at`
	return s.DB.QueryRow(query, n.Title, n.Message, n.Priority, nullableInt(n.ReservationID)).
		Scan(&n.ID, &n.CreatedAt)
}

func (s *SQLStore) ListNotifications(unreadOnly bool) ([]db.Notification, error) {
	query := `SELECT id, title, message, priority, reservation_id, read, created_at FROM notifications`
	if unreadOnly {
		query += ` WHERE read = FALSE`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.DB.Query(query)
	if err != nil {
		return nil, fmt.Errorf("error listing notifications: %w", err)
	}
	defer rows.Close()

	var notifications []db.Notification
	for rows.Next() {
		var n db.Notification
		var resID sql.NullInt64
		if err := rows.Scan(&n.ID, &n.Title, &n.Message, &n.Priority, &resID, &n.Read, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning notification row: %w", err)
		}
		if resID.Valid {
			v := int(resID.Int64)
			n.ReservationID = &v
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

func (s *SQLStore) MarkNotificationRead(id int) error {
	result, err := s.DB.Exec(`UPDATE notifications SET read = TRUE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error marking notification %d read: %w", id, err)
	}
	return requireRow(result)
}

func (s *SQLStore) MarkNotificationsReadForReservation(reservationID int) error {
	_, err := s.DB.Exec(`UPDATE notifications SET read = TRUE WHERE reservation_id = $1`, reservationID)
	if err != nil {
		return fmt.Errorf("error marking notifications read for reservation %d: %w", reservationID, err)
	}
	return nil
}
