package service

import (
	stderrors "errors"
	"fmt"

	"noleggio/internal/db"
	"noleggio/internal/entities"
	"noleggio/internal/errors"
	"noleggio/internal/interval"
	"noleggio/internal/repository"

	"github.com/sirupsen/logrus"
)

// FleetService owns the vehicle catalog, availability queries and running
// costs.
type FleetService struct {
	store  repository.Store
	notify *NotifyService
}

func NewFleetService(store repository.Store, notify *NotifyService) *FleetService {
	return &FleetService{store: store, notify: notify}
}

func (s *FleetService) CreateVehicle(req entities.VehicleRequest) (*db.Vehicle, error) {
	if req.LicensePlate == "" {
		return nil, errors.BadRequest("license_plate is required")
	}
	v := &db.Vehicle{
		LicensePlate:      req.LicensePlate,
		Brand:             req.Brand,
		Model:             req.Model,
		Year:              req.Year,
		MaintenanceStatus: db.MaintenanceOK,
		Odometer:          req.Odometer,
		DailyRateCents:    req.DailyRateCents,
	}
	if err := s.store.CreateVehicle(v); err != nil {
		return nil, fmt.Errorf("error creating vehicle: %w", err)
	}
	return v, nil
}

func (s *FleetService) GetVehicle(id int) (*db.Vehicle, error) {
	v, err := s.store.GetVehicle(id)
	if err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return nil, errors.NotFound("Vehicle %d not found", id)
		}
		return nil, fmt.Errorf("error getting vehicle: %w", err)
	}
	return v, nil
}

func (s *FleetService) ListVehicles() ([]db.Vehicle, error) {
	return s.store.ListVehicles()
}

func (s *FleetService) UpdateVehicle(id int, req entities.VehicleRequest) (*db.Vehicle, error) {
	v, err := s.GetVehicle(id)
	if err != nil {
		return nil, err
	}
	v.LicensePlate = req.LicensePlate
	v.Brand = req.Brand
	v.Model = req.Model
	v.Year = req.Year
	v.Odometer = req.Odometer
	v.DailyRateCents = req.DailyRateCents
	if err := s.store.UpdateVehicle(v); err != nil {
		return nil, fmt.Errorf("error updating vehicle: %w", err)
	}
	return v, nil
}

// DeleteVehicle removes a vehicle from the catalog. Vehicles with live
// reservations cannot go.
func (s *FleetService) DeleteVehicle(id int) error {
	v, err := s.GetVehicle(id)
	if err != nil {
		return err
	}
	reservations, err := s.store.ListReservations(repository.ReservationFilter{VehicleID: id})
	if err != nil {
		return fmt.Errorf("error listing reservations: %w", err)
	}
	for i := range reservations {
		if reservations[i].Live() {
			return errors.Conflict("Vehicle %s still has live reservations", v.LicensePlate)
		}
	}
	if err := s.store.DeleteVehicle(id); err != nil {
		return fmt.Errorf("error deleting vehicle: %w", err)
	}
	return nil
}

// GetAvailableVehicles lists vehicles free right now: serviceable and with
// no reservation occupying today.
func (s *FleetService) GetAvailableVehicles() ([]db.Vehicle, error) {
	return s.store.GetAvailableVehicles()
}

// GetAvailableVehiclesInRange lists vehicles free for the whole range.
// excludeVehicleID hides the customer's own broken-down vehicle when staff
// pick a replacement.
func (s *FleetService) GetAvailableVehiclesInRange(q entities.AvailabilityQuery) ([]db.Vehicle, error) {
	rng := interval.DateRange{Start: q.StartDate, End: &q.EndDate}
	if err := rng.Validate(); err != nil {
		return nil, errors.BadRequest("%s", err.Error())
	}
	// An empty end means "free from this date onwards". The stores compare
	// date strings and must always get a concrete upper bound.
	return s.store.GetAvailableVehiclesInRange(q.StartDate, rng.EffectiveEnd(), q.ExcludeVehicleID)
}

// MarkVehicleForService flags a vehicle as unavailable for new bookings
// until it is restored. Staff get a notification so the shop queue stays
// visible.
func (s *FleetService) MarkVehicleForService(id int) (*db.Vehicle, error) {
	v, err := s.GetVehicle(id)
	if err != nil {
		return nil, err
	}
	if v.MaintenanceStatus == db.MaintenanceInService {
		return v, nil
	}
	if err := s.store.SetVehicleMaintenanceStatus(id, db.MaintenanceInService); err != nil {
		return nil, fmt.Errorf("error updating vehicle status: %w", err)
	}
	v.MaintenanceStatus = db.MaintenanceInService

	if _, err := s.notify.CreateCustomNotification(
		"Vehicle flagged for service",
		fmt.Sprintf("Vehicle %s (%s %s) was marked in service", v.LicensePlate, v.Brand, v.Model),
		db.PriorityNormal,
		nil,
	); err != nil {
		logrus.Errorf("Error creating service notification: %v", err)
	}
	return v, nil
}

// RestoreVehicle puts a serviced vehicle back into the bookable fleet.
func (s *FleetService) RestoreVehicle(id int) (*db.Vehicle, error) {
	v, err := s.GetVehicle(id)
	if err != nil {
		return nil, err
	}
	if err := s.store.SetVehicleMaintenanceStatus(id, db.MaintenanceOK); err != nil {
		return nil, fmt.Errorf("error updating vehicle status: %w", err)
	}
	v.MaintenanceStatus = db.MaintenanceOK
	return v, nil
}

// CreateExpense records a running cost against a vehicle.
func (s *FleetService) CreateExpense(req entities.ExpenseRequest) (*db.Expense, error) {
	if req.AmountCents <= 0 {
		return nil, errors.BadRequest("amount_cents must be positive")
	}
	if _, err := parseDate(req.IncurredDate); err != nil {
		return nil, errors.BadRequest("invalid incurred_date %q: expected YYYY-MM-DD", req.IncurredDate)
	}
	if _, err := s.GetVehicle(req.VehicleID); err != nil {
		return nil, err
	}
	e := &db.Expense{
		VehicleID:    req.VehicleID,
		Category:     req.Category,
		AmountCents:  req.AmountCents,
		IncurredDate: req.IncurredDate,
		Note:         req.Note,
	}
	if err := s.store.CreateExpense(e); err != nil {
		return nil, fmt.Errorf("error creating expense: %w", err)
	}
	return e, nil
}

// ListExpenses lists costs, optionally narrowed to one vehicle (0 for all).
func (s *FleetService) ListExpenses(vehicleID int) ([]db.Expense, error) {
	return s.store.ListExpenses(vehicleID)
}

func (s *FleetService) DeleteExpense(id int) error {
	if err := s.store.DeleteExpense(id); err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return errors.NotFound("Expense %d not found", id)
		}
		return fmt.Errorf("error deleting expense: %w", err)
	}
	return nil
}
