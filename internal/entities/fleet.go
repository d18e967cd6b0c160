package entities

// VehicleRequest creates or updates a fleet vehicle.
type VehicleRequest struct {
	LicensePlate   string `json:"license_plate"`
	Brand          string `json:"brand"`
	Model          string `json:"model"`
	Year           int    `json:"year"`
	Odometer       int    `json:"odometer"`
	DailyRateCents int    `json:"daily_rate_cents"`
}

// CustomerRequest creates or updates a customer.
type CustomerRequest struct {
	FullName      string `json:"full_name"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	LicenseNumber string `json:"license_number"`
}

// ExpenseRequest records a cost against a vehicle.
type ExpenseRequest struct {
	VehicleID    int    `json:"vehicle_id"`
	Category     string `json:"category"`
	AmountCents  int    `json:"amount_cents"`
	IncurredDate string `json:"incurred_date"`
	Note         string `json:"note"`
}

// AvailabilityQuery asks which vehicles are free for a date range.
type AvailabilityQuery struct {
	StartDate        string `json:"start_date"`
	EndDate          string `json:"end_date"`
	ExcludeVehicleID *int   `json:"exclude_vehicle_id"`
}
