package service

import (
	stderrors "errors"
	"net/http"
	"strings"
	"testing"

	"noleggio/internal/config"
	"noleggio/internal/db"
	"noleggio/internal/entities"
	"noleggio/internal/errors"
	"noleggio/internal/repository"
)

func newTestSpareService() (*repository.MemStore, *SpareService) {
	store := repository.NewMemStore()
	cfg := config.Config{CompanyName: "Noleggio"}
	notify := NewNotifyService(store, NewSenderService(cfg), cfg)
	return store, NewSpareService(store, notify)
}

func seedVehicle(t *testing.T, store *repository.MemStore, plate, status string) *db.Vehicle {
	t.Helper()
	v := &db.Vehicle{LicensePlate: plate, Brand: "Fiat", Model: "Panda", MaintenanceStatus: status, DailyRateCents: 4500}
	if err := store.CreateVehicle(v); err != nil {
		t.Fatalf("seeding vehicle: %v", err)
	}
	return v
}

func seedCustomer(t *testing.T, store *repository.MemStore, name string) *db.Customer {
	t.Helper()
	c := &db.Customer{FullName: name, Email: strings.ToLower(strings.ReplaceAll(name, " ", ".")) + "@example.com"}
	if err := store.CreateCustomer(c); err != nil {
		t.Fatalf("seeding customer: %v", err)
	}
	return c
}

func seedStandardReservation(t *testing.T, store *repository.MemStore, vehicleID, customerID int, status, start string, end *string) *db.Reservation {
	t.Helper()
	r := &db.Reservation{
		Code:       "SEED" + start,
		VehicleID:  &vehicleID,
		CustomerID: &customerID,
		Type:       db.TypeStandard,
		Status:     status,
		StartDate:  start,
		EndDate:    end,
	}
	if err := store.CreateReservation(r); err != nil {
		t.Fatalf("seeding reservation: %v", err)
	}
	return r
}

// seedRental builds the usual fixture: a customer driving a vehicle on an
// active standard rental.
func seedRental(t *testing.T, store *repository.MemStore, plate, start string, end *string) (*db.Vehicle, *db.Reservation) {
	t.Helper()
	customer := seedCustomer(t, store, "Mario "+plate)
	vehicle := seedVehicle(t, store, plate, db.MaintenanceOK)
	res := seedStandardReservation(t, store, vehicle.ID, customer.ID, db.StatusActive, start, end)
	return vehicle, res
}

func wantHTTPStatus(t *testing.T, err error, code int) *errors.HTTPError {
	t.Helper()
	if err == nil {
		t.Fatalf("expected an error with status %d, got nil", code)
	}
	var httpErr *errors.HTTPError
	if !stderrors.As(err, &httpErr) {
		t.Fatalf("expected an HTTPError, got %T: %v", err, err)
	}
	if httpErr.Code != code {
		t.Fatalf("expected status %d, got %d (%s)", code, httpErr.Code, httpErr.Message)
	}
	return httpErr
}

func TestCreatePlaceholderRejectsDuplicate(t *testing.T) {
	store, spares := newTestSpareService()
	_, original := seedRental(t, store, "AA111AA", "2024-06-01", strptr("2024-06-30"))

	first, err := spares.CreatePlaceholder(entities.CreatePlaceholderRequest{
		OriginalReservationID: original.ID,
		StartDate:             "2024-06-10",
		EndDate:               strptr("2024-06-20"),
	})
	if err != nil {
		t.Fatalf("CreatePlaceholder: %v", err)
	}
	if !first.PlaceholderSpare || first.VehicleID != nil {
		t.Fatalf("expected an unassigned placeholder, got %+v", first)
	}
	if first.ReplacementForReservationID == nil || *first.ReplacementForReservationID != original.ID {
		t.Fatal("placeholder does not reference the original reservation")
	}
	if first.CustomerID == nil || *first.CustomerID != *original.CustomerID {
		t.Fatal("placeholder did not inherit the original customer")
	}

	// Staff got a high-priority alert referencing the placeholder.
	notifications, err := store.ListNotifications(true)
	if err != nil {
		t.Fatalf("ListNotifications: %v", err)
	}
	if len(notifications) != 1 || notifications[0].Priority != db.PriorityHigh {
		t.Fatalf("expected one high-priority alert, got %+v", notifications)
	}

	// A second placeholder for the same original is refused while the first
	// is still live.
	_, err = spares.CreatePlaceholder(entities.CreatePlaceholderRequest{
		OriginalReservationID: original.ID,
		StartDate:             "2024-06-11",
	})
	httpErr := wantHTTPStatus(t, err, http.StatusConflict)
	if !strings.HasPrefix(httpErr.Message, "A placeholder spare reservation already exists") {
		t.Fatalf("unexpected message: %q", httpErr.Message)
	}

	// A different rental can get its own placeholder.
	_, other := seedRental(t, store, "BB222BB", "2024-06-01", strptr("2024-06-30"))
	if _, err := spares.CreatePlaceholder(entities.CreatePlaceholderRequest{
		OriginalReservationID: other.ID,
		StartDate:             "2024-06-10",
		EndDate:               strptr("2024-06-20"),
	}); err != nil {
		t.Fatalf("placeholder for another rental refused: %v", err)
	}

	_, err = spares.CreatePlaceholder(entities.CreatePlaceholderRequest{
		OriginalReservationID: 999,
		StartDate:             "2024-06-10",
	})
	wantHTTPStatus(t, err, http.StatusNotFound)
}

func TestAssignVehicleToPlaceholder(t *testing.T) {
	store, spares := newTestSpareService()
	_, original := seedRental(t, store, "AA111AA", "2024-06-01", strptr("2024-06-30"))
	spare := seedVehicle(t, store, "BB222BB", db.MaintenanceOK)

	placeholder, err := spares.CreatePlaceholder(entities.CreatePlaceholderRequest{
		OriginalReservationID: original.ID,
		StartDate:             "2024-07-01",
	})
	if err != nil {
		t.Fatalf("CreatePlaceholder: %v", err)
	}

	assigned, err := spares.AssignVehicleToPlaceholder(placeholder.ID, entities.AssignVehicleRequest{
		VehicleID: spare.ID,
		EndDate:   strptr("2024-07-10"),
	})
	if err != nil {
		t.Fatalf("AssignVehicleToPlaceholder: %v", err)
	}
	if assigned.VehicleID == nil || *assigned.VehicleID != spare.ID {
		t.Fatalf("vehicle not assigned: %+v", assigned)
	}
	if assigned.PlaceholderSpare {
		t.Fatal("placeholder flag should be cleared after assignment")
	}
	if assigned.Status != db.StatusConfirmed {
		t.Fatalf("expected status confirmed, got %s", assigned.Status)
	}
	if assigned.EndDate == nil || *assigned.EndDate != "2024-07-10" {
		t.Fatalf("end date not resolved: %+v", assigned.EndDate)
	}

	// The pending-assignment alert is cleared.
	unread, err := store.ListNotifications(true)
	if err != nil {
		t.Fatalf("ListNotifications: %v", err)
	}
	if len(unread) != 0 {
		t.Fatalf("expected placeholder alerts to be read, got %+v", unread)
	}

	// A second assignment attempt hits a reservation that is no longer an
	// unassigned placeholder.
	_, err = spares.AssignVehicleToPlaceholder(placeholder.ID, entities.AssignVehicleRequest{
		VehicleID: spare.ID,
		EndDate:   strptr("2024-07-10"),
	})
	wantHTTPStatus(t, err, http.StatusConflict)
}

func TestAssignOpenEndedPlaceholderRequiresEndDate(t *testing.T) {
	store, spares := newTestSpareService()
	_, original := seedRental(t, store, "AA111AA", "2024-06-01", nil)
	spare := seedVehicle(t, store, "BB222BB", db.MaintenanceOK)

	placeholder, err := spares.CreatePlaceholder(entities.CreatePlaceholderRequest{
		OriginalReservationID: original.ID,
		StartDate:             "2024-07-01",
	})
	if err != nil {
		t.Fatalf("CreatePlaceholder: %v", err)
	}

	_, err = spares.AssignVehicleToPlaceholder(placeholder.ID, entities.AssignVehicleRequest{VehicleID: spare.ID})
	httpErr := wantHTTPStatus(t, err, http.StatusBadRequest)
	if httpErr.Message != "An explicit end date is required to assign an open-ended placeholder" {
		t.Fatalf("unexpected message: %q", httpErr.Message)
	}

	// The placeholder is untouched by the failed assignment.
	r, err := store.GetReservation(placeholder.ID)
	if err != nil {
		t.Fatalf("GetReservation: %v", err)
	}
	if r.VehicleID != nil || !r.PlaceholderSpare {
		t.Fatalf("failed assignment mutated the placeholder: %+v", r)
	}
}

func TestAssignVehicleRefusesInServiceVehicle(t *testing.T) {
	store, spares := newTestSpareService()
	_, original := seedRental(t, store, "AA111AA", "2024-06-01", strptr("2024-06-30"))
	spare := seedVehicle(t, store, "BB222BB", db.MaintenanceInService)

	placeholder, err := spares.CreatePlaceholder(entities.CreatePlaceholderRequest{
		OriginalReservationID: original.ID,
		StartDate:             "2024-07-01",
		EndDate:               strptr("2024-07-10"),
	})
	if err != nil {
		t.Fatalf("CreatePlaceholder: %v", err)
	}

	_, err = spares.AssignVehicleToPlaceholder(placeholder.ID, entities.AssignVehicleRequest{VehicleID: spare.ID})
	httpErr := wantHTTPStatus(t, err, http.StatusConflict)
	if httpErr.Message != "Vehicle is currently in service and not available" {
		t.Fatalf("unexpected message: %q", httpErr.Message)
	}
}

func TestAssignVehicleRefusesBookedVehicle(t *testing.T) {
	store, spares := newTestSpareService()
	_, original := seedRental(t, store, "AA111AA", "2024-06-01", strptr("2024-06-30"))
	spare := seedVehicle(t, store, "BB222BB", db.MaintenanceOK)
	booked := seedCustomer(t, store, "Luca Bianchi")
	seedStandardReservation(t, store, spare.ID, booked.ID, db.StatusConfirmed, "2024-07-05", strptr("2024-07-15"))

	placeholder, err := spares.CreatePlaceholder(entities.CreatePlaceholderRequest{
		OriginalReservationID: original.ID,
		StartDate:             "2024-07-01",
		EndDate:               strptr("2024-07-10"),
	})
	if err != nil {
		t.Fatalf("CreatePlaceholder: %v", err)
	}

	_, err = spares.AssignVehicleToPlaceholder(placeholder.ID, entities.AssignVehicleRequest{VehicleID: spare.ID})
	wantHTTPStatus(t, err, http.StatusConflict)

	// The failed assignment left the placeholder unassigned.
	r, err := store.GetReservation(placeholder.ID)
	if err != nil {
		t.Fatalf("GetReservation: %v", err)
	}
	if r.VehicleID != nil || !r.PlaceholderSpare {
		t.Fatalf("failed assignment mutated the placeholder: %+v", r)
	}
}

func TestReplacementWorkflow(t *testing.T) {
	store, spares := newTestSpareService()
	broken, original := seedRental(t, store, "AA111AA", "2024-06-01", strptr("2024-06-30"))
	courtesy := seedVehicle(t, store, "BB222BB", db.MaintenanceOK)

	replacement, err := spares.CreateReplacementReservation(entities.CreateReplacementRequest{
		OriginalReservationID: original.ID,
		ReplacementVehicleID:  courtesy.ID,
		StartDate:             "2024-06-10",
		EndDate:               strptr("2024-06-30"),
	})
	if err != nil {
		t.Fatalf("CreateReplacementReservation: %v", err)
	}
	if replacement.Type != db.TypeReplacement || replacement.Status != db.StatusActive {
		t.Fatalf("unexpected replacement reservation: %+v", replacement)
	}
	if replacement.ReplacementForReservationID == nil || *replacement.ReplacementForReservationID != original.ID {
		t.Fatal("replacement does not reference the original reservation")
	}

	// The broken vehicle is out of the fleet and under a maintenance block.
	v, err := store.GetVehicle(broken.ID)
	if err != nil {
		t.Fatalf("GetVehicle: %v", err)
	}
	if v.MaintenanceStatus != db.MaintenanceInService {
		t.Fatalf("expected broken vehicle in service, got %s", v.MaintenanceStatus)
	}
	blocks, err := store.ListOpenMaintenanceBlocks(broken.ID)
	if err != nil {
		t.Fatalf("ListOpenMaintenanceBlocks: %v", err)
	}
	if len(blocks) != 1 {
		t.Fatalf("expected one open maintenance block, got %d", len(blocks))
	}

	// One live replacement per original.
	_, err = spares.CreateReplacementReservation(entities.CreateReplacementRequest{
		OriginalReservationID: original.ID,
		ReplacementVehicleID:  courtesy.ID,
		StartDate:             "2024-06-11",
		EndDate:               strptr("2024-06-30"),
	})
	wantHTTPStatus(t, err, http.StatusConflict)

	closed, err := spares.CloseReplacementReservation(replacement.ID, entities.CloseReplacementRequest{EndDate: "2024-06-20"})
	if err != nil {
		t.Fatalf("CloseReplacementReservation: %v", err)
	}
	if closed.Status != db.StatusReturned {
		t.Fatalf("expected status returned, got %s", closed.Status)
	}
	if closed.EndDate == nil || *closed.EndDate != "2024-06-20" {
		t.Fatalf("end date not recorded: %+v", closed.EndDate)
	}

	// The broken vehicle is back and its block is completed on the same day.
	v, err = store.GetVehicle(broken.ID)
	if err != nil {
		t.Fatalf("GetVehicle: %v", err)
	}
	if v.MaintenanceStatus != db.MaintenanceOK {
		t.Fatalf("expected vehicle restored, got %s", v.MaintenanceStatus)
	}
	block, err := store.GetReservation(blocks[0].ID)
	if err != nil {
		t.Fatalf("GetReservation: %v", err)
	}
	if block.Status != db.StatusCompleted {
		t.Fatalf("expected maintenance block completed, got %s", block.Status)
	}
	if block.EndDate == nil || *block.EndDate != "2024-06-20" {
		t.Fatalf("maintenance block end date not aligned: %+v", block.EndDate)
	}

	open, err := store.ListOpenMaintenanceBlocks(broken.ID)
	if err != nil {
		t.Fatalf("ListOpenMaintenanceBlocks: %v", err)
	}
	if len(open) != 0 {
		t.Fatalf("expected no open maintenance blocks, got %d", len(open))
	}
}

func TestReplacementRefusesOriginalVehicleAsSpare(t *testing.T) {
	store, spares := newTestSpareService()
	broken, original := seedRental(t, store, "AA111AA", "2024-06-01", strptr("2024-06-30"))

	_, err := spares.CreateReplacementReservation(entities.CreateReplacementRequest{
		OriginalReservationID: original.ID,
		ReplacementVehicleID:  broken.ID,
		StartDate:             "2024-06-10",
		EndDate:               strptr("2024-06-30"),
	})
	wantHTTPStatus(t, err, http.StatusBadRequest)
}

func TestReplacementRefusesInServiceCourtesyVehicle(t *testing.T) {
	store, spares := newTestSpareService()
	_, original := seedRental(t, store, "AA111AA", "2024-06-01", strptr("2024-06-30"))
	courtesy := seedVehicle(t, store, "BB222BB", db.MaintenanceInService)

	_, err := spares.CreateReplacementReservation(entities.CreateReplacementRequest{
		OriginalReservationID: original.ID,
		ReplacementVehicleID:  courtesy.ID,
		StartDate:             "2024-06-10",
		EndDate:               strptr("2024-06-30"),
	})
	httpErr := wantHTTPStatus(t, err, http.StatusConflict)
	if httpErr.Message != "Vehicle is currently in service and not available" {
		t.Fatalf("unexpected message: %q", httpErr.Message)
	}
}

func TestMaintenanceBlockConflictsOnlyWithBlocks(t *testing.T) {
	store, spares := newTestSpareService()
	vehicle, _ := seedRental(t, store, "AB123CD", "2024-06-01", strptr("2024-06-30"))

	// A block over an existing rental is allowed: blocks only collide with
	// other blocks.
	block, err := spares.CreateMaintenanceBlock(entities.CreateMaintenanceBlockRequest{
		VehicleID: vehicle.ID,
		StartDate: "2024-06-10",
		EndDate:   strptr("2024-06-15"),
	})
	if err != nil {
		t.Fatalf("CreateMaintenanceBlock: %v", err)
	}
	if block.Type != db.TypeMaintenanceBlock || block.CustomerID != nil {
		t.Fatalf("unexpected block: %+v", block)
	}

	_, err = spares.CreateMaintenanceBlock(entities.CreateMaintenanceBlockRequest{
		VehicleID: vehicle.ID,
		StartDate: "2024-06-12",
		EndDate:   strptr("2024-06-20"),
	})
	wantHTTPStatus(t, err, http.StatusConflict)
}

func TestCloseMaintenanceBlockRestoresVehicle(t *testing.T) {
	store, spares := newTestSpareService()
	vehicle := seedVehicle(t, store, "AB123CD", db.MaintenanceOK)

	block, err := spares.CreateMaintenanceBlock(entities.CreateMaintenanceBlockRequest{
		VehicleID: vehicle.ID,
		StartDate: "2024-06-10",
		EndDate:   strptr("2024-06-20"),
	})
	if err != nil {
		t.Fatalf("CreateMaintenanceBlock: %v", err)
	}
	if err := store.SetVehicleMaintenanceStatus(vehicle.ID, db.MaintenanceInService); err != nil {
		t.Fatalf("SetVehicleMaintenanceStatus: %v", err)
	}

	closed, err := spares.CloseMaintenanceBlock(block.ID, entities.CloseMaintenanceBlockRequest{EndDate: "2024-06-15"})
	if err != nil {
		t.Fatalf("CloseMaintenanceBlock: %v", err)
	}
	if closed.Status != db.StatusCompleted {
		t.Fatalf("expected status completed, got %s", closed.Status)
	}

	v, err := store.GetVehicle(vehicle.ID)
	if err != nil {
		t.Fatalf("GetVehicle: %v", err)
	}
	if v.MaintenanceStatus != db.MaintenanceOK {
		t.Fatalf("expected vehicle restored, got %s", v.MaintenanceStatus)
	}
}

func TestPlaceholdersNeedingAssignmentWindow(t *testing.T) {
	store, spares := newTestSpareService()
	_, overdueRental := seedRental(t, store, "AA111AA", "2024-01-01", strptr("2024-01-31"))
	_, farRental := seedRental(t, store, "BB222BB", "2999-05-01", strptr("2999-06-30"))

	soon, err := spares.CreatePlaceholder(entities.CreatePlaceholderRequest{
		OriginalReservationID: overdueRental.ID,
		StartDate:             "2024-01-02",
		EndDate:               strptr("2024-01-05"),
	})
	if err != nil {
		t.Fatalf("CreatePlaceholder: %v", err)
	}
	if _, err := spares.CreatePlaceholder(entities.CreatePlaceholderRequest{
		OriginalReservationID: farRental.ID,
		StartDate:             "2999-06-01",
		EndDate:               strptr("2999-06-10"),
	}); err != nil {
		t.Fatalf("CreatePlaceholder: %v", err)
	}

	// Past start dates are always due; far-future ones are not.
	due, err := spares.GetPlaceholderReservationsNeedingAssignment(7)
	if err != nil {
		t.Fatalf("GetPlaceholderReservationsNeedingAssignment: %v", err)
	}
	if len(due) != 1 || due[0].ID != soon.ID {
		t.Fatalf("expected exactly the overdue placeholder, got %+v", due)
	}

	if _, err := spares.GetPlaceholderReservationsNeedingAssignment(-1); err == nil {
		t.Fatal("expected an error for a negative window")
	}
}

func TestCloseReplacementRequiresActiveReservation(t *testing.T) {
	store, spares := newTestSpareService()
	_, original := seedRental(t, store, "AA111AA", "2024-01-01", strptr("2024-01-31"))

	placeholder, err := spares.CreatePlaceholder(entities.CreatePlaceholderRequest{
		OriginalReservationID: original.ID,
		StartDate:             "2024-01-02",
		EndDate:               strptr("2024-01-10"),
	})
	if err != nil {
		t.Fatalf("CreatePlaceholder: %v", err)
	}
	spare := seedVehicle(t, store, "BB222BB", db.MaintenanceOK)
	assigned, err := spares.AssignVehicleToPlaceholder(placeholder.ID, entities.AssignVehicleRequest{VehicleID: spare.ID})
	if err != nil {
		t.Fatalf("AssignVehicleToPlaceholder: %v", err)
	}
	if assigned.Status != db.StatusConfirmed {
		t.Fatalf("expected the assigned placeholder to be confirmed, got %s", assigned.Status)
	}

	// A replacement that never went active cannot jump straight to returned.
	_, err = spares.CloseReplacementReservation(assigned.ID, entities.CloseReplacementRequest{EndDate: "2024-01-05"})
	wantHTTPStatus(t, err, http.StatusConflict)

	if err := store.UpdateReservationStatus(assigned.ID, db.StatusActive); err != nil {
		t.Fatalf("UpdateReservationStatus: %v", err)
	}
	closed, err := spares.CloseReplacementReservation(assigned.ID, entities.CloseReplacementRequest{EndDate: "2024-01-05"})
	if err != nil {
		t.Fatalf("CloseReplacementReservation: %v", err)
	}
	if closed.Status != db.StatusReturned {
		t.Fatalf("expected status returned, got %s", closed.Status)
	}
}

func strptr(s string) *string { return &s }
