package entities

// ReservationEmailData feeds the reservation status email template.
type ReservationEmailData struct {
	CustomerName    string
	ReservationCode string
	VehicleLabel    string
	StartDate       string
	EndDate         string
	Status          string
	CompanyName     string
	CurrentYear     int
}
