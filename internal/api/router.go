package api

import (
	"net/http"

	"noleggio/internal/auth"

	"github.com/gorilla/mux"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Auth          *AuthHandler
	Vehicles      *VehicleHandler
	Customers     *CustomerHandler
	Reservations  *ReservationHandler
	Spares        *SpareHandler
	Documents     *DocumentHandler
	Notifications *NotificationHandler
	Backup        *BackupHandler
}

// NewRouter builds the HTTP surface. Everything under /api except the login
// endpoint requires a valid staff token; destructive routes additionally
// require the admin role.
func NewRouter(h Handlers, jwtSecret string) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods("GET")

	r.HandleFunc("/api/auth/login", h.Auth.Login).Methods("POST")

	api := r.PathPrefix("/api").Subrouter()
	api.Use(auth.Middleware(jwtSecret))

	admin := func(fn http.HandlerFunc) http.Handler { return auth.RequireAdmin(fn) }

	api.Handle("/auth/register", admin(h.Auth.Register)).Methods("POST")

	// Fleet
	api.HandleFunc("/vehicles", h.Vehicles.CreateVehicle).Methods("POST")
	api.HandleFunc("/vehicles", h.Vehicles.ListVehicles).Methods("GET")
	api.HandleFunc("/vehicles/available", h.Vehicles.GetAvailableVehicles).Methods("GET")
	api.HandleFunc("/vehicles/availability", h.Vehicles.GetAvailableVehiclesInRange).Methods("GET")
	api.HandleFunc("/vehicles/{id}", h.Vehicles.GetVehicle).Methods("GET")
	api.HandleFunc("/vehicles/{id}", h.Vehicles.UpdateVehicle).Methods("PUT")
	api.Handle("/vehicles/{id}", admin(h.Vehicles.DeleteVehicle)).Methods("DELETE")
	api.HandleFunc("/vehicles/{id}/service", h.Vehicles.MarkForService).Methods("POST")
	api.HandleFunc("/vehicles/{id}/restore", h.Vehicles.RestoreVehicle).Methods("POST")

	// Customers
	api.HandleFunc("/customers", h.Customers.CreateCustomer).Methods("POST")
	api.HandleFunc("/customers", h.Customers.ListCustomers).Methods("GET")
	api.HandleFunc("/customers/{id}", h.Customers.GetCustomer).Methods("GET")
	api.HandleFunc("/customers/{id}", h.Customers.UpdateCustomer).Methods("PUT")
	api.Handle("/customers/{id}", admin(h.Customers.DeleteCustomer)).Methods("DELETE")

	// Reservations
	api.HandleFunc("/reservations", h.Reservations.CreateReservation).Methods("POST")
	api.HandleFunc("/reservations", h.Reservations.ListReservations).Methods("GET")
	api.HandleFunc("/reservations/conflicts", h.Reservations.CheckConflicts).Methods("GET")
	api.HandleFunc("/reservations/code/{code}", h.Reservations.GetReservationByCode).Methods("GET")
	api.HandleFunc("/reservations/{id}", h.Reservations.GetReservation).Methods("GET")
	api.HandleFunc("/reservations/{id}", h.Reservations.UpdateReservation).Methods("PUT")
	api.Handle("/reservations/{id}", admin(h.Reservations.DeleteReservation)).Methods("DELETE")
	api.HandleFunc("/reservations/{id}/status", h.Reservations.ChangeStatus).Methods("PUT")
	api.HandleFunc("/reservations/{id}/cancel", h.Reservations.CancelReservation).Methods("POST")
	api.HandleFunc("/reservations/{id}/deposit/verify", h.Reservations.VerifyDeposit).Methods("POST")
	api.HandleFunc("/reservations/{id}/contract", h.Reservations.RentalContract).Methods("GET")
	api.HandleFunc("/reservations/{id}/damage-check", h.Reservations.DamageCheckForm).Methods("GET")

	// Spare-vehicle workflow
	api.HandleFunc("/spares/placeholders", h.Spares.CreatePlaceholder).Methods("POST")
	api.HandleFunc("/spares/placeholders/due", h.Spares.ListPlaceholdersNeedingAssignment).Methods("GET")
	api.HandleFunc("/spares/placeholders/{id}/assign", h.Spares.AssignVehicle).Methods("POST")
	api.HandleFunc("/spares/replacements", h.Spares.CreateReplacement).Methods("POST")
	api.HandleFunc("/spares/replacements/{id}/close", h.Spares.CloseReplacement).Methods("POST")
	api.HandleFunc("/spares/maintenance-blocks", h.Spares.CreateMaintenanceBlock).Methods("POST")
	api.HandleFunc("/spares/maintenance-blocks/{id}/close", h.Spares.CloseMaintenanceBlock).Methods("POST")

	// Expenses
	api.HandleFunc("/expenses", h.Vehicles.CreateExpense).Methods("POST")
	api.HandleFunc("/expenses", h.Vehicles.ListExpenses).Methods("GET")
	api.Handle("/expenses/{id}", admin(h.Vehicles.DeleteExpense)).Methods("DELETE")

	// Documents
	api.HandleFunc("/documents", h.Documents.UploadDocument).Methods("POST")
	api.HandleFunc("/documents", h.Documents.ListDocuments).Methods("GET")
	api.Handle("/documents/{id}", admin(h.Documents.DeleteDocument)).Methods("DELETE")

	// Notifications
	api.HandleFunc("/notifications", h.Notifications.CreateNotification).Methods("POST")
	api.HandleFunc("/notifications", h.Notifications.ListNotifications).Methods("GET")
	api.HandleFunc("/notifications/{id}/read", h.Notifications.MarkRead).Methods("POST")

	// Backup
	api.Handle("/admin/backup", admin(h.Backup.TriggerBackup)).Methods("POST")

	return r
}
