package db

import "time"

// Vehicle maintenance status values.
const (
	MaintenanceOK        = "ok"
	MaintenanceInService = "in_service"
)

// Reservation status values.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusActive    = "active"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
	StatusReturned  = "returned"
)

// Reservation types.
const (
	TypeStandard         = "standard"
	TypeReplacement      = "replacement"
	TypeMaintenanceBlock = "maintenance_block"
)

// Notification priorities.
const (
	PriorityNormal = "normal"
	PriorityHigh   = "high"
)

// User roles.
const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
)

type Vehicle struct {
	ID                int
	LicensePlate      string
	Brand             string
	Model             string
	Year              int
	MaintenanceStatus string
	Odometer          int
	DailyRateCents    int
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

type Customer struct {
	ID            int
	FullName      string
	Email         string
	Phone         string
	LicenseNumber string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Reservation is the central entity. VehicleID is NULL for an unassigned
// placeholder spare; CustomerID is NULL for system-owned maintenance blocks.
// StartDate/EndDate are ISO calendar dates, a NULL EndDate means the rental
// is open-ended. Soft-deleted rows (DeletedAt set) are invisible to every
// conflict and listing query.
type Reservation struct {
	ID                          int
	Code                        string
	VehicleID                   *int
	CustomerID                  *int
	Type                        string
	Status                      string
	StartDate                   string
	EndDate                     *string
	PlaceholderSpare            bool
	ReplacementForReservationID *int
	Notes                       string
	DepositSessionID            string
	DepositStatus               string
	CreatedAt                   time.Time
	UpdatedAt                   time.Time
	DeletedAt                   *time.Time
}

type Expense struct {
	ID           int
	VehicleID    int
	Category     string
	AmountCents  int
	IncurredDate string
	Note         string
	CreatedAt    time.Time
}

type Document struct {
	ID            int
	ReservationID *int
	VehicleID     *int
	FileName      string
	ObjectKey     string
	ContentType   string
	SizeBytes     int64
	URL           string
	CreatedAt     time.Time
}

type Notification struct {
	ID            int
	Title         string
	Message       string
	Priority      string
	ReservationID *int
	Read          bool
	CreatedAt     time.Time
}

type User struct {
	ID           int
	Email        string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
}

// Snapshot is the backup export of the core tables.
type Snapshot struct {
	ExportedAt   time.Time     `json:"exported_at"`
	Vehicles     []Vehicle     `json:"vehicles"`
	Customers    []Customer    `json:"customers"`
	Reservations []Reservation `json:"reservations"`
	Expenses     []Expense     `json:"expenses"`
}
