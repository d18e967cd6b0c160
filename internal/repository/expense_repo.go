package repository

import (
	"fmt"

	"noleggio/internal/db"
)

func (s *SQLStore) CreateExpense(e *db.Expense) error {
	query := `
		INSERT INTO expenses (vehicle_id, category, amount_cents, incurred_date, note, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING id, created_at`
	return s.DB.QueryRow(query, e.VehicleID, e.Category, e.AmountCents, e.IncurredDate, e.Note).
		Scan(&e.ID, &e.CreatedAt)
}

// ListExpenses returns expenses for one vehicle, or all of them when
// vehicleID is 0.
func (s *SQLStore) ListExpenses(vehicleID int) ([]db.Expense, error) {
	query := `SELECT id, vehicle_id, category, amount_cents, incurred_date, note, created_at FROM expenses`
	args := []interface{}{}
	if vehicleID != 0 {
		query += ` WHERE vehicle_id = $1`
		args = append(args, vehicleID)
	}
	query += ` ORDER BY incurred_date DESC, id DESC`

	rows, err := s.DB.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing expenses: %w", err)
	}
	defer rows.Close()

	var expenses []db.Expense
	for rows.Next() {
		var e db.Expense
		if err := rows.Scan(&e.ID, &e.VehicleID, &e.Category, &e.AmountCents, &e.IncurredDate, &e.Note, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning expense row: %w", err)
		}
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}

func (s *SQLStore) DeleteExpense(id int) error {
	result, err := s.DB.Exec(`DELETE FROM expenses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting expense %d: %w", id, err)
	}
	return requireRow(result)
}
