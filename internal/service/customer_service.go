package service

import (
	stderrors "errors"
	"fmt"
	"strings"

	"noleggio/internal/db"
	"noleggio/internal/entities"
	"noleggio/internal/errors"
	"noleggio/internal/repository"
)

// CustomerService owns the customer registry.
type CustomerService struct {
	store repository.Store
}

func NewCustomerService(store repository.Store) *CustomerService {
	return &CustomerService{store: store}
}

func (s *CustomerService) CreateCustomer(req entities.CustomerRequest) (*db.Customer, error) {
	if req.FullName == "" {
		return nil, errors.BadRequest("full_name is required")
	}
	if !strings.Contains(req.Email, "@") {
		return nil, errors.BadRequest("invalid email %q", req.Email)
	}
	c := &db.Customer{
		FullName:      req.FullName,
		Email:         req.Email,
		Phone:         req.Phone,
		LicenseNumber: req.LicenseNumber,
	}
	if err := s.store.CreateCustomer(c); err != nil {
		return nil, fmt.Errorf("error creating customer: %w", err)
	}
	return c, nil
}

func (s *CustomerService) GetCustomer(id int) (*db.Customer, error) {
	c, err := s.store.GetCustomer(id)
	if err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return nil, errors.NotFound("Customer %d not found", id)
		}
		return nil, fmt.Errorf("error getting customer: %w", err)
	}
	return c, nil
}

func (s *CustomerService) ListCustomers() ([]db.Customer, error) {
	return s.store.ListCustomers()
}

func (s *CustomerService) UpdateCustomer(id int, req entities.CustomerRequest) (*db.Customer, error) {
	c, err := s.GetCustomer(id)
	if err != nil {
		return nil, err
	}
	c.FullName = req.FullName
	c.Email = req.Email
	c.Phone = req.Phone
	c.LicenseNumber = req.LicenseNumber
	if err := s.store.UpdateCustomer(c); err != nil {
		return nil, fmt.Errorf("error updating customer: %w", err)
	}
	return c, nil
}

// DeleteCustomer removes a customer. Customers with live reservations stay.
func (s *CustomerService) DeleteCustomer(id int) error {
	c, err := s.GetCustomer(id)
	if err != nil {
		return err
	}
	reservations, err := s.store.ListReservations(repository.ReservationFilter{CustomerID: id})
	if err != nil {
		return fmt.Errorf("error listing reservations: %w", err)
	}
	for i := range reservations {
		if reservations[i].Live() {
			return errors.Conflict("Customer %s still has live reservations", c.FullName)
		}
	}
	if err := s.store.DeleteCustomer(id); err != nil {
		return fmt.Errorf("error deleting customer: %w", err)
	}
	return nil
}
