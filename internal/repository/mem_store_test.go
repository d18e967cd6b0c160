package repository

import (
	"testing"

	"noleggio/internal/db"
)

func strptr(s string) *string { return &s }
func intptr(i int) *int       { return &i }

func seedVehicle(t *testing.T, store *MemStore, plate string) *db.Vehicle {
	t.Helper()
	v := &db.Vehicle{LicensePlate: plate, Brand: "Fiat", Model: "Panda", Year: 2021}
	if err := store.CreateVehicle(v); err != nil {
		t.Fatalf("CreateVehicle: %v", err)
	}
	return v
}

func seedReservation(t *testing.T, store *MemStore, r *db.Reservation) *db.Reservation {
	t.Helper()
	if r.Type == "" {
		r.Type = db.TypeStandard
	}
	if r.Status == "" {
		r.Status = db.StatusConfirmed
	}
	if err := store.CreateReservation(r); err != nil {
		t.Fatalf("CreateReservation: %v", err)
	}
	return r
}

func TestCheckReservationConflictsOverlap(t *testing.T) {
	store := NewMemStore()
	v := seedVehicle(t, store, "AB123CD")
	rental := seedReservation(t, store, &db.Reservation{
		Code: "R1", VehicleID: &v.ID, CustomerID: intptr(1),
		StartDate: "2024-06-01", EndDate: strptr("2024-06-10"),
	})

	conflicts, err := store.CheckReservationConflicts(v.ID, "2024-06-05", strptr("2024-06-15"), nil, false)
	if err != nil {
		t.Fatalf("CheckReservationConflicts: %v", err)
	}
	if len(conflicts) != 1 || conflicts[0].ID != rental.ID {
		t.Fatalf("expected the confirmed rental to conflict, got %+v", conflicts)
	}

	// A disjoint request does not conflict.
	conflicts, err = store.CheckReservationConflicts(v.ID, "2024-06-11", strptr("2024-06-20"), nil, false)
	if err != nil {
		t.Fatalf("CheckReservationConflicts: %v", err)
	}
	if len(conflicts) != 0 {
		t.Fatalf("expected no conflicts after the rental ends, got %+v", conflicts)
	}
}

func TestCheckReservationConflictsMaintenanceExemption(t *testing.T) {
	store := NewMemStore()
	v := seedVehicle(t, store, "AB123CD")
	seedReservation(t, store, &db.Reservation{
		Code: "MB1", VehicleID: &v.ID, Type: db.TypeMaintenanceBlock, Status: db.StatusActive,
		StartDate: "2024-06-01", EndDate: strptr("2024-06-10"),
	})

	// A standard rental request over a maintenance block sees no conflicts:
	// the customer drives a spare while the vehicle is in the shop.
	conflicts, err := store.CheckReservationConflicts(v.ID, "2024-06-05", strptr("2024-06-08"), nil, false)
	if err != nil {
		t.Fatalf("CheckReservationConflicts: %v", err)
	}
	if len(conflicts) != 0 {
		t.Fatalf("expected maintenance block to be exempt from rental conflicts, got %+v", conflicts)
	}

	// A second maintenance block over the same window does conflict.
	conflicts, err = store.CheckReservationConflicts(v.ID, "2024-06-05", strptr("2024-06-08"), nil, true)
	if err != nil {
		t.Fatalf("CheckReservationConflicts: %v", err)
	}
	if len(conflicts) != 1 || conflicts[0].Type != db.TypeMaintenanceBlock {
		t.Fatalf("expected the open maintenance block to conflict, got %+v", conflicts)
	}

	// With isMaintenanceBlock=false the result never contains a block, and
	// with true it contains only blocks.
	seedReservation(t, store, &db.Reservation{
		Code: "R2", VehicleID: &v.ID, CustomerID: intptr(1),
		StartDate: "2024-06-03", EndDate: strptr("2024-06-07"),
	})
	rentalConflicts, _ := store.CheckReservationConflicts(v.ID, "2024-06-01", strptr("2024-06-30"), nil, false)
	for _, c := range rentalConflicts {
		if c.Type == db.TypeMaintenanceBlock {
			t.Fatalf("rental conflict set must never contain a maintenance block: %+v", c)
		}
	}
	blockConflicts, _ := store.CheckReservationConflicts(v.ID, "2024-06-01", strptr("2024-06-30"), nil, true)
	for _, c := range blockConflicts {
		if c.Type != db.TypeMaintenanceBlock {
			t.Fatalf("maintenance conflict set must contain only blocks: %+v", c)
		}
	}
}

func TestCheckReservationConflictsExclusions(t *testing.T) {
	store := NewMemStore()
	v := seedVehicle(t, store, "AB123CD")

	cancelled := seedReservation(t, store, &db.Reservation{
		Code: "C1", VehicleID: &v.ID, CustomerID: intptr(1), Status: db.StatusCancelled,
		StartDate: "2024-06-01", EndDate: strptr("2024-06-10"),
	})
	completed := seedReservation(t, store, &db.Reservation{
		Code: "C2", VehicleID: &v.ID, CustomerID: intptr(1), Status: db.StatusCompleted,
		StartDate: "2024-06-01", EndDate: strptr("2024-06-10"),
	})
	deleted := seedReservation(t, store, &db.Reservation{
		Code: "C3", VehicleID: &v.ID, CustomerID: intptr(1),
		StartDate: "2024-06-01", EndDate: strptr("2024-06-10"),
	})
	if err := store.SoftDeleteReservation(deleted.ID); err != nil {
		t.Fatalf("SoftDeleteReservation: %v", err)
	}

	conflicts, err := store.CheckReservationConflicts(v.ID, "2024-06-01", strptr("2024-06-10"), nil, false)
	if err != nil {
		t.Fatalf("CheckReservationConflicts: %v", err)
	}
	if len(conflicts) != 0 {
		t.Fatalf("cancelled (%d), completed (%d) and soft-deleted (%d) rows must never conflict, got %+v",
			cancelled.ID, completed.ID, deleted.ID, conflicts)
	}
}

func TestCheckReservationConflictsExcludeSelf(t *testing.T) {
	store := NewMemStore()
	v := seedVehicle(t, store, "AB123CD")
	rental := seedReservation(t, store, &db.Reservation{
		Code: "R1", VehicleID: &v.ID, CustomerID: intptr(1),
		StartDate: "2024-06-01", EndDate: strptr("2024-06-10"),
	})

	// An update of the same reservation must not conflict with itself.
	conflicts, err := store.CheckReservationConflicts(v.ID, "2024-06-01", strptr("2024-06-12"), &rental.ID, false)
	if err != nil {
		t.Fatalf("CheckReservationConflicts: %v", err)
	}
	if len(conflicts) != 0 {
		t.Fatalf("expected self-exclusion, got %+v", conflicts)
	}
}

func TestCheckReservationConflictsOpenEnded(t *testing.T) {
	store := NewMemStore()
	v := seedVehicle(t, store, "AB123CD")
	seedReservation(t, store, &db.Reservation{
		Code: "M1", VehicleID: &v.ID, CustomerID: intptr(1), Status: db.StatusActive,
		StartDate: "2024-06-01", // monthly rental, no end date
	})

	conflicts, err := store.CheckReservationConflicts(v.ID, "2025-03-01", strptr("2025-03-05"), nil, false)
	if err != nil {
		t.Fatalf("CheckReservationConflicts: %v", err)
	}
	if len(conflicts) != 1 {
		t.Fatalf("open-ended rental must block any later range, got %+v", conflicts)
	}

	conflicts, err = store.CheckReservationConflicts(v.ID, "2024-05-01", strptr("2024-05-20"), nil, false)
	if err != nil {
		t.Fatalf("CheckReservationConflicts: %v", err)
	}
	if len(conflicts) != 0 {
		t.Fatalf("open-ended rental must not block ranges before its start, got %+v", conflicts)
	}
}

func TestGetAvailableVehiclesInRange(t *testing.T) {
	store := NewMemStore()
	free := seedVehicle(t, store, "AA111AA")
	booked := seedVehicle(t, store, "BB222BB")
	inShop := seedVehicle(t, store, "CC333CC")
	blocked := seedVehicle(t, store, "DD444DD")

	seedReservation(t, store, &db.Reservation{
		Code: "R1", VehicleID: &booked.ID, CustomerID: intptr(1),
		StartDate: "2024-06-01", EndDate: strptr("2024-06-10"),
	})
	if err := store.SetVehicleMaintenanceStatus(inShop.ID, db.MaintenanceInService); err != nil {
		t.Fatalf("SetVehicleMaintenanceStatus: %v", err)
	}
	// A maintenance block alone does not remove a vehicle from availability.
	seedReservation(t, store, &db.Reservation{
		Code: "MB1", VehicleID: &blocked.ID, Type: db.TypeMaintenanceBlock, Status: db.StatusActive,
		StartDate: "2024-06-01", EndDate: strptr("2024-06-10"),
	})

	available, err := store.GetAvailableVehiclesInRange("2024-06-05", "2024-06-08", nil)
	if err != nil {
		t.Fatalf("GetAvailableVehiclesInRange: %v", err)
	}
	got := make(map[int]bool)
	for _, v := range available {
		got[v.ID] = true
	}
	if !got[free.ID] {
		t.Fatalf("expected unbooked vehicle %d to be available", free.ID)
	}
	if got[booked.ID] {
		t.Fatalf("expected booked vehicle %d to be unavailable", booked.ID)
	}
	if got[inShop.ID] {
		t.Fatalf("expected in-service vehicle %d to be unavailable", inShop.ID)
	}
	if !got[blocked.ID] {
		t.Fatalf("expected vehicle %d with only a maintenance block to stay available", blocked.ID)
	}

	// excludeVehicleID drops an otherwise free vehicle.
	available, err = store.GetAvailableVehiclesInRange("2024-06-05", "2024-06-08", &free.ID)
	if err != nil {
		t.Fatalf("GetAvailableVehiclesInRange: %v", err)
	}
	for _, v := range available {
		if v.ID == free.ID {
			t.Fatalf("excluded vehicle %d must not appear", free.ID)
		}
	}
}

func TestAssignPlaceholderGuards(t *testing.T) {
	store := NewMemStore()
	v := seedVehicle(t, store, "AB123CD")
	placeholder := seedReservation(t, store, &db.Reservation{
		Code: "P1", CustomerID: intptr(1), Type: db.TypeReplacement,
		PlaceholderSpare: true, Status: db.StatusPending,
		StartDate: "2024-06-01", ReplacementForReservationID: intptr(42),
	})

	if err := store.AssignPlaceholder(placeholder.ID, v.ID, "2024-06-10"); err != nil {
		t.Fatalf("AssignPlaceholder: %v", err)
	}
	got, err := store.GetReservation(placeholder.ID)
	if err != nil {
		t.Fatalf("GetReservation: %v", err)
	}
	if got.VehicleID == nil || *got.VehicleID != v.ID {
		t.Fatalf("expected vehicle %d assigned, got %+v", v.ID, got)
	}
	if got.PlaceholderSpare {
		t.Fatalf("expected placeholder flag cleared")
	}
	if got.EndDate == nil || *got.EndDate != "2024-06-10" {
		t.Fatalf("expected resolved end date, got %+v", got.EndDate)
	}

	// A second assignment must fail: the row is no longer a placeholder.
	if err := store.AssignPlaceholder(placeholder.ID, v.ID, "2024-06-10"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound on assigned row, got %v", err)
	}
}

func TestListPlaceholdersDueBy(t *testing.T) {
	store := NewMemStore()
	due := seedReservation(t, store, &db.Reservation{
		Code: "P1", CustomerID: intptr(1), Type: db.TypeReplacement,
		PlaceholderSpare: true, Status: db.StatusPending,
		StartDate: "2024-06-03", ReplacementForReservationID: intptr(1),
	})
	seedReservation(t, store, &db.Reservation{
		Code: "P2", CustomerID: intptr(1), Type: db.TypeReplacement,
		PlaceholderSpare: true, Status: db.StatusPending,
		StartDate: "2024-07-15", ReplacementForReservationID: intptr(2),
	})

	got, err := store.ListPlaceholdersDueBy("2024-06-10")
	if err != nil {
		t.Fatalf("ListPlaceholdersDueBy: %v", err)
	}
	if len(got) != 1 || got[0].ID != due.ID {
		t.Fatalf("expected only the due placeholder, got %+v", got)
	}
}

func TestNoOverlapInvariantAfterWrites(t *testing.T) {
	store := NewMemStore()
	v := seedVehicle(t, store, "AB123CD")
	seedReservation(t, store, &db.Reservation{
		Code: "R1", VehicleID: &v.ID, CustomerID: intptr(1),
		StartDate: "2024-06-01", EndDate: strptr("2024-06-10"),
	})
	seedReservation(t, store, &db.Reservation{
		Code: "R2", VehicleID: &v.ID, CustomerID: intptr(2),
		StartDate: "2024-06-11", EndDate: strptr("2024-06-20"),
	})
	seedReservation(t, store, &db.Reservation{
		Code: "MB", VehicleID: &v.ID, Type: db.TypeMaintenanceBlock, Status: db.StatusActive,
		StartDate: "2024-06-05", EndDate: strptr("2024-06-15"),
	})

	all, err := store.ListReservations(ReservationFilter{VehicleID: v.ID})
	if err != nil {
		t.Fatalf("ListReservations: %v", err)
	}
	for i := range all {
		for j := i + 1; j < len(all); j++ {
			a, b := all[i], all[j]
			if a.Type == db.TypeMaintenanceBlock || b.Type == db.TypeMaintenanceBlock {
				continue
			}
			if !db.ClosedStatus(a.Status) && !db.ClosedStatus(b.Status) && a.Range().Overlaps(b.Range()) {
				t.Fatalf("standard/replacement reservations %s and %s overlap", a.Code, b.Code)
			}
		}
	}
}
