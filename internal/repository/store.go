package repository

import (
	"errors"

	"noleggio/internal/db"
)

// ErrNotFound is returned by lookups for missing or soft-deleted rows.
// Services translate it into a 404.
var ErrNotFound = errors.New("not found")

// ErrDuplicateEmail is returned when creating a user with an email that is
// already taken.
var ErrDuplicateEmail = errors.New("email already in use")

// ReservationFilter narrows admin listings. Zero values mean "any".
type ReservationFilter struct {
	VehicleID  int
	CustomerID int
	Status     string
	Type       string
	Date       string // reservations whose interval contains this date
}

// Store is the storage contract the services run against. Two
// implementations exist: SQLStore on Postgres and MemStore for tests and
// single-binary development; the driver is picked at startup.
type Store interface {
	// Vehicles
	CreateVehicle(v *db.Vehicle) error
	GetVehicle(id int) (*db.Vehicle, error)
	ListVehicles() ([]db.Vehicle, error)
	UpdateVehicle(v *db.Vehicle) error
	SetVehicleMaintenanceStatus(id int, status string) error
	DeleteVehicle(id int) error

	// Customers
	CreateCustomer(c *db.Customer) error
	GetCustomer(id int) (*db.Customer, error)
	ListCustomers() ([]db.Customer, error)
	UpdateCustomer(c *db.Customer) error
	DeleteCustomer(id int) error

	// Reservations
	CreateReservation(r *db.Reservation) error
	GetReservation(id int) (*db.Reservation, error)
	GetReservationByCode(code string) (*db.Reservation, error)
	ListReservations(f ReservationFilter) ([]db.Reservation, error)
	UpdateReservation(r *db.Reservation) error
	UpdateReservationStatus(id int, status string) error
	SetDepositInfo(id int, sessionID, status string) error
	SoftDeleteReservation(id int) error

	// Conflict checking and availability. endDate == nil means open-ended;
	// excludeID lets an update check against itself.
	CheckReservationConflicts(vehicleID int, startDate string, endDate *string, excludeID *int, isMaintenanceBlock bool) ([]db.Reservation, error)
	GetAvailableVehicles() ([]db.Vehicle, error)
	GetAvailableVehiclesInRange(startDate, endDate string, excludeVehicleID *int) ([]db.Vehicle, error)

	// Spare-vehicle workflow primitives
	GetLiveReplacementFor(originalReservationID int) (*db.Reservation, error)
	ListPlaceholdersDueBy(cutoffDate string) ([]db.Reservation, error)
	// AssignPlaceholder is the single-statement assignment write: it sets the
	// vehicle, clears the placeholder flag and resolves the end date, but
	// only on a row that still is a live unassigned placeholder.
	AssignPlaceholder(reservationID, vehicleID int, endDate string) error
	ListOpenMaintenanceBlocks(vehicleID int) ([]db.Reservation, error)
	CloseReservation(id int, endDate, status string) error

	// Status roll-forward (cron)
	ListConfirmedStartingBy(date string) ([]int, error)
	ListActiveStandardEndedBefore(date string) ([]int, error)
	UpdateReservationStatuses(ids []int, status string) error

	// Expenses
	CreateExpense(e *db.Expense) error
	ListExpenses(vehicleID int) ([]db.Expense, error)
	DeleteExpense(id int) error

	// Documents
	CreateDocument(d *db.Document) error
	ListDocuments(reservationID, vehicleID int) ([]db.Document, error)
	DeleteDocument(id int) error

	// Notifications
	CreateNotification(n *db.Notification) error
	ListNotifications(unreadOnly bool) ([]db.Notification, error)
	MarkNotificationRead(id int) error
	MarkNotificationsReadForReservation(reservationID int) error

	// Users
	CreateUser(u *db.User) error
	GetUserByEmail(email string) (*db.User, error)

	// Backup
	ExportSnapshot() (*db.Snapshot, error)
}
