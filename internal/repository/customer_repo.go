package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"noleggio/internal/db"
)

const customerColumns = `id, full_name, email, phone, license_number, created_at, updated_at`

func scanCustomer(row rowScanner) (*db.Customer, error) {
	var c db.Customer
	err := row.Scan(&c.ID, &c.FullName, &c.Email, &c.Phone, &c.LicenseNumber, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *SQLStore) CreateCustomer(c *db.Customer) error {
	query := `
		INSERT INTO customers (full_name, email, phone, license_number, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING id, created_at, updated_at`
	return s.DB.QueryRow(query, c.FullName, c.Email, c.Phone, c.LicenseNumber).
		Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
}

func (s *SQLStore) GetCustomer(id int) (*db.Customer, error) {
	c, err := scanCustomer(s.DB.QueryRow(`SELECT `+customerColumns+` FROM customers WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error querying customer %d: %w", id, err)
	}
	return c, nil
}

func (s *SQLStore) ListCustomers() ([]db.Customer, error) {
	rows, err := s.DB.Query(`SELECT ` + customerColumns + ` FROM customers ORDER BY full_name`)
	if err != nil {
		return nil, fmt.Errorf("error listing customers: %w", err)
	}
	defer rows.Close()

	var customers []db.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning customer row: %w", err)
		}
		customers = append(customers, *c)
	}
	return customers, rows.Err()
}

func (s *SQLStore) UpdateCustomer(c *db.Customer) error {
	result, err := s.DB.Exec(`
		UPDATE customers
		SET full_name = $2, email = $3, phone = $4, license_number = $5, updated_at = NOW()
		WHERE id = $1`,
		c.ID, c.FullName, c.Email, c.Phone, c.LicenseNumber)
	if err != nil {
		return fmt.Errorf("error updating customer %d: %w", c.ID, err)
	}
	return requireRow(result)
}

func (s *SQLStore) DeleteCustomer(id int) error {
	result, err := s.DB.Exec(`DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting customer %d: %w", id, err)
	}
	return requireRow(result)
}
