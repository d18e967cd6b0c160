package service

import (
	stderrors "errors"
	"fmt"
	"strings"

	"noleggio/internal/db"
	"noleggio/internal/entities"
	"noleggio/internal/errors"
	"noleggio/internal/interval"
	"noleggio/internal/pdf"
	"noleggio/internal/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ReservationService owns standard bookings: creation with conflict checks,
// the status lifecycle and the deposit flow around confirmation.
type ReservationService struct {
	store    repository.Store
	notify   *NotifyService
	payments *PaymentService
}

func NewReservationService(store repository.Store, notify *NotifyService, payments *PaymentService) *ReservationService {
	return &ReservationService{store: store, notify: notify, payments: payments}
}

func newReservationCode() string {
	return strings.ToUpper(uuid.NewString()[:8])
}

// CreateReservation books a vehicle for a customer. The vehicle must be
// serviceable and free for the whole requested range; open-ended bookings
// occupy the vehicle indefinitely.
func (s *ReservationService) CreateReservation(req entities.CreateReservationRequest) (*db.Reservation, error) {
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
	if vehicle.MaintenanceStatus == db.MaintenanceInService {
		return nil, errors.Conflict("Vehicle is currently in service and not available")
	}

	customer, err := s.store.GetCustomer(req.CustomerID)
	if err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return nil, errors.NotFound("Customer %d not found", req.CustomerID)
		}
		return nil, fmt.Errorf("error getting customer: %w", err)
	}

	conflicts, err := s.store.CheckReservationConflicts(req.VehicleID, req.StartDate, req.EndDate, nil, false)
	if err != nil {
		return nil, fmt.Errorf("error checking conflicts: %w", err)
	}
	if len(conflicts) > 0 {
		return nil, errors.Conflict("Vehicle %s is already reserved in the requested period (reservation %s)",
			vehicle.LicensePlate, conflicts[0].Code)
	}

	res := &db.Reservation{
		Code:       newReservationCode(),
		VehicleID:  &vehicle.ID,
		CustomerID: &customer.ID,
		Type:       db.TypeStandard,
		Status:     db.StatusPending,
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
		Notes:      req.Notes,
	}
	if err := s.store.CreateReservation(res); err != nil {
		return nil, fmt.Errorf("error creating reservation: %w", err)
	}
	logrus.Infof("Reservation %s created for vehicle %s (%s to %s)",
		res.Code, vehicle.LicensePlate, res.StartDate, rng.EffectiveEnd())
	return res, nil
}

func (s *ReservationService) GetReservation(id int) (*db.Reservation, error) {
	res, err := s.store.GetReservation(id)
	if err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return nil, errors.NotFound("Reservation %d not found", id)
		}
		return nil, fmt.Errorf("error getting reservation: %w", err)
	}
	return res, nil
}

func (s *ReservationService) GetReservationByCode(code string) (*db.Reservation, error) {
	res, err := s.store.GetReservationByCode(code)
	if err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return nil, errors.NotFound("Reservation %s not found", code)
		}
		return nil, fmt.Errorf("error getting reservation: %w", err)
	}
	return res, nil
}

func (s *ReservationService) ListReservations(f repository.ReservationFilter) ([]db.Reservation, error) {
	return s.store.ListReservations(f)
}

// UpdateReservation changes the dates or notes of a live reservation. The
// new range is conflict-checked against every other reservation of the same
// vehicle; the reservation itself is excluded so shrinking or shifting a
// booking never collides with its own row.
func (s *ReservationService) UpdateReservation(id int, req entities.UpdateReservationRequest) (*db.Reservation, error) {
	res, err := s.GetReservation(id)
	if err != nil {
		return nil, err
	}
	if !res.Live() {
		return nil, errors.Conflict("Reservation %s is %s and can no longer be modified", res.Code, res.Status)
	}

	rng := interval.DateRange{Start: req.StartDate, End: req.EndDate}
	if err := rng.Validate(); err != nil {
		return nil, errors.BadRequest("%s", err.Error())
	}

	if res.VehicleID != nil {
		conflicts, err := s.store.CheckReservationConflicts(*res.VehicleID, req.StartDate, req.EndDate, &res.ID, res.Type == db.TypeMaintenanceBlock)
		if err != nil {
			return nil, fmt.Errorf("error checking conflicts: %w", err)
		}
		if len(conflicts) > 0 {
			return nil, errors.Conflict("The new dates collide with reservation %s", conflicts[0].Code)
		}
	}

	res.StartDate = req.StartDate
	res.EndDate = req.EndDate
	res.Notes = req.Notes
	if err := s.store.UpdateReservation(res); err != nil {
		return nil, fmt.Errorf("error updating reservation: %w", err)
	}
	return res, nil
}

// ChangeStatus moves a reservation through its lifecycle. Confirming a
// standard booking opens a security-deposit checkout session when payments
// are configured; cancelling refunds a paid deposit. The customer is emailed
// on every transition.
func (s *ReservationService) ChangeStatus(id int, newStatus string) (*db.Reservation, error) {
	res, err := s.GetReservation(id)
	if err != nil {
		return nil, err
	}
	if !db.CanTransition(res.Status, newStatus) {
		return nil, errors.Conflict("Cannot transition reservation %s from %s to %s", res.Code, res.Status, newStatus)
	}
	if res.Status == newStatus {
		return res, nil
	}

	if err := s.store.UpdateReservationStatus(id, newStatus); err != nil {
		return nil, fmt.Errorf("error updating reservation status: %w", err)
	}
	res.Status = newStatus

	switch newStatus {
	case db.StatusConfirmed:
		if res.Type == db.TypeStandard && s.payments.Enabled() {
			sessionID, err := s.payments.CreateDepositSession(res)
			if err != nil {
				logrus.Errorf("Deposit session for reservation %s failed: %v", res.Code, err)
			} else if err := s.store.SetDepositInfo(res.ID, sessionID, DepositStatusPending); err != nil {
				logrus.Errorf("Error saving deposit info for reservation %s: %v", res.Code, err)
			} else {
				res.DepositSessionID = sessionID
				res.DepositStatus = DepositStatusPending
			}
		}
	case db.StatusCancelled:
		if res.DepositStatus == DepositStatusPaid && s.payments.Enabled() {
			if err := s.payments.RefundDeposit(res); err != nil {
				logrus.Errorf("Deposit refund for reservation %s failed: %v", res.Code, err)
			} else if err := s.store.SetDepositInfo(res.ID, res.DepositSessionID, DepositStatusRefunded); err != nil {
				logrus.Errorf("Error saving deposit info for reservation %s: %v", res.Code, err)
			} else {
				res.DepositStatus = DepositStatusRefunded
			}
		}
		if err := s.store.MarkNotificationsReadForReservation(res.ID); err != nil {
			logrus.Errorf("Error clearing notifications for reservation %s: %v", res.Code, err)
		}
	}

	s.emailCustomer(res)
	return res, nil
}

// CancelReservation is the customer-facing cancel.
func (s *ReservationService) CancelReservation(id int) (*db.Reservation, error) {
	return s.ChangeStatus(id, db.StatusCancelled)
}

// DeleteReservation soft-deletes a reservation. The row stays for audit and
// reporting but disappears from every conflict and listing query.
func (s *ReservationService) DeleteReservation(id int) error {
	res, err := s.GetReservation(id)
	if err != nil {
		return err
	}
	if err := s.store.SoftDeleteReservation(res.ID); err != nil {
		return fmt.Errorf("error deleting reservation: %w", err)
	}
	logrus.Infof("Reservation %s soft-deleted", res.Code)
	return nil
}

func (s *ReservationService) emailCustomer(res *db.Reservation) {
	if res.CustomerID == nil {
		return
	}
	customer, err := s.store.GetCustomer(*res.CustomerID)
	if err != nil {
		logrus.Errorf("Error loading customer %d for reservation email: %v", *res.CustomerID, err)
		return
	}
	s.notify.SendReservationStatusEmail(customer.Email, customer.FullName, res, s.vehicleLabel(res.VehicleID))
}

// CheckConflicts previews which reservations collide with a candidate range
// on a vehicle. Staff use it before moving bookings around by hand.
func (s *ReservationService) CheckConflicts(vehicleID int, startDate string, endDate *string, excludeID *int, isMaintenanceBlock bool) ([]db.Reservation, error) {
	rng := interval.DateRange{Start: startDate, End: endDate}
	if err := rng.Validate(); err != nil {
		return nil, errors.BadRequest("%s", err.Error())
	}
	if _, err := s.store.GetVehicle(vehicleID); err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return nil, errors.NotFound("Vehicle %d not found", vehicleID)
		}
		return nil, fmt.Errorf("error getting vehicle: %w", err)
	}
	conflicts, err := s.store.CheckReservationConflicts(vehicleID, startDate, endDate, excludeID, isMaintenanceBlock)
	if err != nil {
		return nil, fmt.Errorf("error checking conflicts: %w", err)
	}
	return conflicts, nil
}

// BuildContractData collects everything the printed contract needs. The
// caller stamps the company name on top.
func (s *ReservationService) BuildContractData(id int) (pdf.ContractData, error) {
	var data pdf.ContractData
	res, err := s.GetReservation(id)
	if err != nil {
		return data, err
	}

	data.ReservationCode = res.Code
	data.StartDate = res.StartDate
	data.EndDate = "open-ended"
	if res.EndDate != nil {
		data.EndDate = *res.EndDate
	}
	data.DepositStatus = res.DepositStatus
	data.Notes = res.Notes

	if res.CustomerID != nil {
		customer, err := s.store.GetCustomer(*res.CustomerID)
		if err != nil {
			return data, fmt.Errorf("error getting customer: %w", err)
		}
		data.CustomerName = customer.FullName
		data.CustomerLicense = customer.LicenseNumber
	}
	if res.VehicleID != nil {
		vehicle, err := s.store.GetVehicle(*res.VehicleID)
		if err != nil {
			return data, fmt.Errorf("error getting vehicle: %w", err)
		}
		data.VehicleLabel = fmt.Sprintf("%s %s", vehicle.Brand, vehicle.Model)
		data.LicensePlate = vehicle.LicensePlate
		data.DailyRateCents = vehicle.DailyRateCents
	}
	return data, nil
}

func (s *ReservationService) vehicleLabel(vehicleID *int) string {
	if vehicleID == nil {
		return "to be assigned"
	}
	v, err := s.store.GetVehicle(*vehicleID)
	if err != nil {
		return fmt.Sprintf("vehicle %d", *vehicleID)
	}
	return fmt.Sprintf("%s %s (%s)", v.Brand, v.Model, v.LicensePlate)
}
