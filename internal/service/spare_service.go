package service

import (
	stderrors "errors"
	"fmt"
	"sync"

	"noleggio/internal/db"
	"noleggio/internal/entities"
	"noleggio/internal/errors"
	"noleggio/internal/interval"
	"noleggio/internal/repository"

	"github.com/sirupsen/logrus"
)

// SpareService owns the spare-vehicle workflow: placeholder bookings without
// a concrete vehicle, courtesy replacements for broken-down rentals and
// maintenance blocks.
//
// All writes run under a single mutex. Every operation here is a
// check-then-act sequence (read conflicts, then write), and the lock closes
// the window in which two concurrent requests could both pass the check.
type SpareService struct {
	store  repository.Store
	notify *NotifyService

	mu sync.Mutex
}

func NewSpareService(store repository.Store, notify *NotifyService) *SpareService {
	return &SpareService{store: store, notify: notify}
}

// CreatePlaceholder books a spare slot for the customer of a broken-down
// rental before the concrete vehicle is known. At most one live replacement
// or placeholder may cover an original reservation at a time. Staff get a
// high-priority alert so the placeholder is resolved before pick-up.
func (s *SpareService) CreatePlaceholder(req entities.CreatePlaceholderRequest) (*db.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rng := interval.DateRange{Start: req.StartDate, End: req.EndDate}
	if err := rng.Validate(); err != nil {
		return nil, errors.BadRequest("%s", err.Error())
	}

	original, err := s.store.GetReservation(req.OriginalReservationID)
	if err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return nil, errors.NotFound("Reservation %d not found", req.OriginalReservationID)
		}
		return nil, fmt.Errorf("error getting reservation: %w", err)
	}

	if existing, err := s.store.GetLiveReplacementFor(original.ID); err != nil {
		return nil, fmt.Errorf("error checking existing replacement: %w", err)
	} else if existing != nil {
		return nil, errors.Conflict("A placeholder spare reservation already exists for reservation %s (reservation %s)", original.Code, existing.Code)
	}

	customerID := original.CustomerID
	if req.CustomerID != 0 {
		customer, err := s.store.GetCustomer(req.CustomerID)
		if err != nil {
			if stderrors.Is(err, repository.ErrNotFound) {
				return nil, errors.NotFound("Customer %d not found", req.CustomerID)
			}
			return nil, fmt.Errorf("error getting customer: %w", err)
		}
		customerID = &customer.ID
	}

	res := &db.Reservation{
		Code:                        newReservationCode(),
		CustomerID:                  customerID,
		Type:                        db.TypeReplacement,
		Status:                      db.StatusPending,
		StartDate:                   req.StartDate,
		EndDate:                     req.EndDate,
		PlaceholderSpare:            true,
		ReplacementForReservationID: &original.ID,
		Notes:                       req.Notes,
	}
	if err := s.store.CreateReservation(res); err != nil {
		return nil, fmt.Errorf("error creating placeholder reservation: %w", err)
	}

	if _, err := s.notify.CreateCustomNotification(
		"Spare vehicle needed",
		fmt.Sprintf("Placeholder %s covers reservation %s from %s and has no vehicle yet", res.Code, original.Code, res.StartDate),
		db.PriorityHigh,
		&res.ID,
	); err != nil {
		logrus.Errorf("Error creating placeholder notification: %v", err)
	}

	logrus.Infof("Placeholder %s created for reservation %s starting %s", res.Code, original.Code, res.StartDate)
	return res, nil
}

// GetPlaceholderReservationsNeedingAssignment lists unassigned placeholders
// starting within the next daysAhead days, soonest first. The staff
// dashboard polls this to resolve placeholders before pick-up.
func (s *SpareService) GetPlaceholderReservationsNeedingAssignment(daysAhead int) ([]db.Reservation, error) {
	if daysAhead < 0 {
		return nil, errors.BadRequest("daysAhead must not be negative")
	}
	return s.store.ListPlaceholdersDueBy(interval.DaysFromNow(daysAhead))
}

// AssignVehicleToPlaceholder resolves a placeholder to a concrete vehicle.
// The assignment is a single guarded update: vehicle, end date, the cleared
// placeholder flag and the confirmed status land together or not at all.
func (s *SpareService) AssignVehicleToPlaceholder(reservationID int, req entities.AssignVehicleRequest) (*db.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.store.GetReservation(reservationID)
	if err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return nil, errors.NotFound("Reservation %d not found", reservationID)
		}
		return nil, fmt.Errorf("error getting reservation: %w", err)
	}
	if !res.PlaceholderSpare || res.VehicleID != nil {
		return nil, errors.Conflict("Reservation %s is not an unassigned placeholder", res.Code)
	}
	if !res.Live() {
		return nil, errors.Conflict("Reservation %s is %s and can no longer be assigned", res.Code, res.Status)
	}

	endDate := req.EndDate
	if endDate == nil {
		endDate = res.EndDate
	}
	if endDate == nil {
		return nil, errors.BadRequest("An explicit end date is required to assign an open-ended placeholder")
	}

	rng := interval.DateRange{Start: res.StartDate, End: endDate}
	if err := rng.Validate(); err != nil {
		return nil, errors.BadRequest("%s", err.Error())
	}

	vehicle, err := s.store.GetVehicle(req.VehicleID)
	if err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return nil, errors.NotFound("Vehicle %d not found", req.VehicleID)
		}
		return nil, fmt.Errorf("error getting vehicle: %w", err)
	}
	if vehicle.MaintenanceStatus == db.MaintenanceInService {
		return nil, errors.Conflict("Vehicle is currently in service and not available")
	}

	conflicts, err := s.store.CheckReservationConflicts(vehicle.ID, res.StartDate, endDate, &res.ID, false)
	if err != nil {
		return nil, fmt.Errorf("error checking conflicts: %w", err)
	}
	if len(conflicts) > 0 {
		return nil, errors.Conflict("Vehicle %s is already reserved in the requested period (reservation %s)",
			vehicle.LicensePlate, conflicts[0].Code)
	}

	if err := s.store.AssignPlaceholder(res.ID, vehicle.ID, *endDate); err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return nil, errors.Conflict("Reservation %s was modified concurrently, reload and retry", res.Code)
		}
		return nil, fmt.Errorf("error assigning placeholder: %w", err)
	}
	if err := s.store.MarkNotificationsReadForReservation(res.ID); err != nil {
		logrus.Errorf("Error clearing placeholder notifications for reservation %s: %v", res.Code, err)
	}

	assigned, err := s.store.GetReservation(res.ID)
	if err != nil {
		return nil, fmt.Errorf("error reloading reservation: %w", err)
	}
	logrus.Infof("Placeholder %s assigned vehicle %s until %s", assigned.Code, vehicle.LicensePlate, *endDate)
	return assigned, nil
}

// CreateReplacementReservation hands a courtesy vehicle to the customer of a
// running rental whose vehicle broke down. In one workflow the replacement
// reservation is opened, the broken vehicle is flagged in service and a
// maintenance block covering the replacement period is created on it.
func (s *SpareService) CreateReplacementReservation(req entities.CreateReplacementRequest) (*db.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rng := interval.DateRange{Start: req.StartDate, End: req.EndDate}
	if err := rng.Validate(); err != nil {
		return nil, errors.BadRequest("%s", err.Error())
	}

	original, err := s.store.GetReservation(req.OriginalReservationID)
	if err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return nil, errors.NotFound("Reservation %d not found", req.OriginalReservationID)
		}
		return nil, fmt.Errorf("error getting reservation: %w", err)
	}
	if original.Type != db.TypeStandard || !original.Live() || original.VehicleID == nil {
		return nil, errors.Conflict("Reservation %s is not a running rental with an assigned vehicle", original.Code)
	}

	if existing, err := s.store.GetLiveReplacementFor(original.ID); err != nil {
		return nil, fmt.Errorf("error checking existing replacement: %w", err)
	} else if existing != nil {
		return nil, errors.Conflict("A replacement reservation %s is already open for reservation %s", existing.Code, original.Code)
	}

	replacement, err := s.store.GetVehicle(req.ReplacementVehicleID)
	if err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return nil, errors.NotFound("Vehicle %d not found", req.ReplacementVehicleID)
		}
		return nil, fmt.Errorf("error getting vehicle: %w", err)
	}
	if replacement.ID == *original.VehicleID {
		return nil, errors.BadRequest("The replacement vehicle cannot be the broken-down vehicle itself")
	}
	if replacement.MaintenanceStatus == db.MaintenanceInService {
		return nil, errors.Conflict("Vehicle is currently in service and not available")
	}

	conflicts, err := s.store.CheckReservationConflicts(replacement.ID, req.StartDate, req.EndDate, nil, false)
	if err != nil {
		return nil, fmt.Errorf("error checking conflicts: %w", err)
	}
	if len(conflicts) > 0 {
		return nil, errors.Conflict("Vehicle %s is already reserved in the requested period (reservation %s)",
			replacement.LicensePlate, conflicts[0].Code)
	}

	res := &db.Reservation{
		Code:                        newReservationCode(),
		VehicleID:                   &replacement.ID,
		CustomerID:                  original.CustomerID,
		Type:                        db.TypeReplacement,
		Status:                      db.StatusActive,
		StartDate:                   req.StartDate,
		EndDate:                     req.EndDate,
		ReplacementForReservationID: &original.ID,
		Notes:                       req.Notes,
	}
	if err := s.store.CreateReservation(res); err != nil {
		return nil, fmt.Errorf("error creating replacement reservation: %w", err)
	}

	if err := s.store.SetVehicleMaintenanceStatus(*original.VehicleID, db.MaintenanceInService); err != nil {
		return nil, fmt.Errorf("error flagging vehicle in service: %w", err)
	}

	block := &db.Reservation{
		Code:      newReservationCode(),
		VehicleID: original.VehicleID,
		Type:      db.TypeMaintenanceBlock,
		Status:    db.StatusActive,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Notes:     fmt.Sprintf("Breakdown during reservation %s", original.Code),
	}
	if err := s.store.CreateReservation(block); err != nil {
		return nil, fmt.Errorf("error creating maintenance block: %w", err)
	}

	if _, err := s.notify.CreateCustomNotification(
		"Replacement vehicle handed out",
		fmt.Sprintf("Reservation %s: vehicle replaced with %s, original flagged in service", original.Code, replacement.LicensePlate),
		db.PriorityHigh,
		&original.ID,
	); err != nil {
		logrus.Errorf("Error creating replacement notification: %v", err)
	}

	logrus.Infof("Replacement %s opened for reservation %s with vehicle %s", res.Code, original.Code, replacement.LicensePlate)
	return res, nil
}

// CloseReplacementReservation returns the courtesy vehicle. The replacement
// is closed as returned, the original vehicle comes back into the bookable
// fleet and every open maintenance block on it is completed with the same
// end date.
func (s *SpareService) CloseReplacementReservation(replacementID int, req entities.CloseReplacementRequest) (*db.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.store.GetReservation(replacementID)
	if err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return nil, errors.NotFound("Reservation %d not found", replacementID)
		}
		return nil, fmt.Errorf("error getting reservation: %w", err)
	}
	if res.Type != db.TypeReplacement {
		return nil, errors.BadRequest("Reservation %s is not a replacement reservation", res.Code)
	}
	if !res.Live() {
		return nil, errors.Conflict("Reservation %s is already %s", res.Code, res.Status)
	}
	if !db.CanTransition(res.Status, db.StatusReturned) {
		return nil, errors.Conflict("Cannot transition reservation %s from %s to %s", res.Code, res.Status, db.StatusReturned)
	}

	rng := interval.DateRange{Start: res.StartDate, End: &req.EndDate}
	if err := rng.Validate(); err != nil {
		return nil, errors.BadRequest("%s", err.Error())
	}

	if err := s.store.CloseReservation(res.ID, req.EndDate, db.StatusReturned); err != nil {
		return nil, fmt.Errorf("error closing replacement reservation: %w", err)
	}

	if res.ReplacementForReservationID != nil {
		original, err := s.store.GetReservation(*res.ReplacementForReservationID)
		if err != nil {
			logrus.Errorf("Error loading original reservation %d while closing replacement %s: %v",
				*res.ReplacementForReservationID, res.Code, err)
		} else if original.VehicleID != nil {
			blocks, err := s.store.ListOpenMaintenanceBlocks(*original.VehicleID)
			if err != nil {
				return nil, fmt.Errorf("error listing maintenance blocks: %w", err)
			}
			for i := range blocks {
				if err := s.store.CloseReservation(blocks[i].ID, req.EndDate, db.StatusCompleted); err != nil {
					return nil, fmt.Errorf("error closing maintenance block: %w", err)
				}
			}
			if err := s.store.SetVehicleMaintenanceStatus(*original.VehicleID, db.MaintenanceOK); err != nil {
				return nil, fmt.Errorf("error restoring vehicle status: %w", err)
			}
		}
	}

	closed, err := s.store.GetReservation(res.ID)
	if err != nil {
		return nil, fmt.Errorf("error reloading reservation: %w", err)
	}
	logrus.Infof("Replacement %s closed on %s", closed.Code, req.EndDate)
	return closed, nil
}

// CreateMaintenanceBlock takes a vehicle out of the bookable fleet for a
// date range. Blocks conflict only with other blocks on the same vehicle, so
// planned service never collides with existing rentals here; availability
// queries hide the vehicle for the blocked period instead.
func (s *SpareService) CreateMaintenanceBlock(req entities.CreateMaintenanceBlockRequest) (*db.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rng := interval.DateRange{Start: req.StartDate, End: req.EndDate}
	if err := rng.Validate(); err != nil {
		return nil, errors.BadRequest("%s", err.Error())
	}

	vehicle, err := s.store.GetVehicle(req.VehicleID)
	if err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return nil, errors.NotFound("Vehicle %d not found", req.VehicleID)
		}
		return nil, fmt.Errorf("error getting vehicle: %w", err)
	}

	conflicts, err := s.store.CheckReservationConflicts(vehicle.ID, req.StartDate, req.EndDate, nil, true)
	if err != nil {
		return nil, fmt.Errorf("error checking conflicts: %w", err)
	}
	if len(conflicts) > 0 {
		return nil, errors.Conflict("A maintenance block already exists on vehicle %s in the requested period (reservation %s)",
			vehicle.LicensePlate, conflicts[0].Code)
	}

	block := &db.Reservation{
		Code:      newReservationCode(),
		VehicleID: &vehicle.ID,
		Type:      db.TypeMaintenanceBlock,
		Status:    db.StatusActive,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Notes:     req.Notes,
	}
	if err := s.store.CreateReservation(block); err != nil {
		return nil, fmt.Errorf("error creating maintenance block: %w", err)
	}
	logrus.Infof("Maintenance block %s created on vehicle %s from %s", block.Code, vehicle.LicensePlate, block.StartDate)
	return block, nil
}

// CloseMaintenanceBlock completes a block on the given end date. When the
// vehicle has no other open blocks it returns to the bookable fleet.
func (s *SpareService) CloseMaintenanceBlock(blockID int, req entities.CloseMaintenanceBlockRequest) (*db.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.store.GetReservation(blockID)
	if err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return nil, errors.NotFound("Reservation %d not found", blockID)
		}
		return nil, fmt.Errorf("error getting reservation: %w", err)
	}
	if res.Type != db.TypeMaintenanceBlock {
		return nil, errors.BadRequest("Reservation %s is not a maintenance block", res.Code)
	}
	if !res.Live() {
		return nil, errors.Conflict("Maintenance block %s is already %s", res.Code, res.Status)
	}

	rng := interval.DateRange{Start: res.StartDate, End: &req.EndDate}
	if err := rng.Validate(); err != nil {
		return nil, errors.BadRequest("%s", err.Error())
	}

	if err := s.store.CloseReservation(res.ID, req.EndDate, db.StatusCompleted); err != nil {
		return nil, fmt.Errorf("error closing maintenance block: %w", err)
	}

	if res.VehicleID != nil {
		open, err := s.store.ListOpenMaintenanceBlocks(*res.VehicleID)
		if err != nil {
			return nil, fmt.Errorf("error listing maintenance blocks: %w", err)
		}
		if len(open) == 0 {
			if err := s.store.SetVehicleMaintenanceStatus(*res.VehicleID, db.MaintenanceOK); err != nil {
				return nil, fmt.Errorf("error restoring vehicle status: %w", err)
			}
		}
	}

	closed, err := s.store.GetReservation(res.ID)
	if err != nil {
		return nil, fmt.Errorf("error reloading reservation: %w", err)
	}
	return closed, nil
}
