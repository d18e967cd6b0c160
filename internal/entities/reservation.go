package entities

// CreateReservationRequest is the payload for a standard customer booking.
type CreateReservationRequest struct {
	VehicleID  int     `json:"vehicle_id"`
	CustomerID int     `json:"customer_id"`
	StartDate  string  `json:"start_date"`
	EndDate    *string `json:"end_date"` // null for open-ended rentals
	Notes      string  `json:"notes"`
}

// UpdateReservationRequest changes the dates or notes of a live reservation.
type UpdateReservationRequest struct {
	StartDate string  `json:"start_date"`
	EndDate   *string `json:"end_date"`
	Notes     string  `json:"notes"`
}

// ChangeStatusRequest moves a reservation through its lifecycle.
type ChangeStatusRequest struct {
	Status string `json:"status"`
}

// CreatePlaceholderRequest books a spare slot covering a broken-down rental
// before the concrete vehicle is known. CustomerID defaults to the original
// reservation's customer; EndDate may be null while the return date is open.
type CreatePlaceholderRequest struct {
	OriginalReservationID int     `json:"original_reservation_id"`
	CustomerID            int     `json:"customer_id"`
	StartDate             string  `json:"start_date"`
	EndDate               *string `json:"end_date"`
	Notes                 string  `json:"notes"`
}

// AssignVehicleRequest resolves a placeholder to a concrete vehicle. EndDate
// is required when the placeholder itself is open-ended.
type AssignVehicleRequest struct {
	VehicleID int     `json:"vehicle_id"`
	EndDate   *string `json:"end_date"`
}

// CreateReplacementRequest hands a courtesy vehicle to the customer of a
// running rental whose vehicle broke down.
type CreateReplacementRequest struct {
	OriginalReservationID int     `json:"original_reservation_id"`
	ReplacementVehicleID  int     `json:"replacement_vehicle_id"`
	StartDate             string  `json:"start_date"`
	EndDate               *string `json:"end_date"`
	Notes                 string  `json:"notes"`
}

// CloseReplacementRequest returns the courtesy vehicle.
type CloseReplacementRequest struct {
	EndDate string `json:"end_date"`
}

// CreateMaintenanceBlockRequest takes a vehicle out of the bookable fleet for
// a date range.
type CreateMaintenanceBlockRequest struct {
	VehicleID int     `json:"vehicle_id"`
	StartDate string  `json:"start_date"`
	EndDate   *string `json:"end_date"`
	Notes     string  `json:"notes"`
}

// CloseMaintenanceBlockRequest ends a maintenance block early (or on time).
type CloseMaintenanceBlockRequest struct {
	EndDate string `json:"end_date"`
}
