package api

import (
	"net/http"

	"noleggio/internal/entities"
	"noleggio/internal/errors"
	"noleggio/internal/service"
)

type VehicleHandler struct {
	Fleet *service.FleetService
}

func NewVehicleHandler(fleet *service.FleetService) *VehicleHandler {
	return &VehicleHandler{Fleet: fleet}
}

func (h *VehicleHandler) CreateVehicle(w http.ResponseWriter, r *http.Request) {
	var req entities.VehicleRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	v, err := h.Fleet.CreateVehicle(req)
	if err != nil {
		errors.Write(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, v)
}

func (h *VehicleHandler) GetVehicle(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	v, err := h.Fleet.GetVehicle(id)
	if err != nil {
		errors.Write(w, err)
		return
	}
	respondJSON(w, http.StatusOK, v)
}

func (h *VehicleHandler) ListVehicles(w http.ResponseWriter, r *http.Request) {
	vehicles, err := h.Fleet.ListVehicles()
	if err != nil {
		errors.Write(w, err)
		return
	}
	respondJSON(w, http.StatusOK, vehicles)
}

func (h *VehicleHandler) UpdateVehicle(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req entities.VehicleRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	v, err := h.Fleet.UpdateVehicle(id, req)
	if err != nil {
		errors.Write(w, err)
		return
	}
	respondJSON(w, http.StatusOK, v)
}

func (h *VehicleHandler) DeleteVehicle(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.Fleet.DeleteVehicle(id); err != nil {
		errors.Write(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Vehicle deleted"})
}

// GetAvailableVehicles answers "what is free today".
func (h *VehicleHandler) GetAvailableVehicles(w http.ResponseWriter, r *http.Request) {
	vehicles, err := h.Fleet.GetAvailableVehicles()
	if err != nil {
		errors.Write(w, err)
		return
	}
	respondJSON(w, http.StatusOK, vehicles)
}

// GetAvailableVehiclesInRange answers "what is free for this whole period".
// exclude_vehicle_id hides the broken-down vehicle when picking a spare.
func (h *VehicleHandler) GetAvailableVehiclesInRange(w http.ResponseWriter, r *http.Request) {
	excludeID, ok := queryIntPtr(w, r, "exclude_vehicle_id")
	if !ok {
		return
	}
	q := entities.AvailabilityQuery{
		StartDate:        r.URL.Query().Get("start_date"),
		EndDate:          r.URL.Query().Get("end_date"),
		ExcludeVehicleID: excludeID,
	}
	vehicles, err := h.Fleet.GetAvailableVehiclesInRange(q)
	if err != nil {
		errors.Write(w, err)
		return
	}
	respondJSON(w, http.StatusOK, vehicles)
}

func (h *VehicleHandler) MarkForService(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	v, err := h.Fleet.MarkVehicleForService(id)
	if err != nil {
		errors.Write(w, err)
		return
	}
	respondJSON(w, http.StatusOK, v)
}

func (h *VehicleHandler) RestoreVehicle(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	v, err := h.Fleet.RestoreVehicle(id)
	if err != nil {
		errors.Write(w, err)
		return
	}
	respondJSON(w, http.StatusOK, v)
}

func (h *VehicleHandler) CreateExpense(w http.ResponseWriter, r *http.Request) {
	var req entities.ExpenseRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	e, err := h.Fleet.CreateExpense(req)
	if err != nil {
		errors.Write(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, e)
}

func (h *VehicleHandler) ListExpenses(w http.ResponseWriter, r *http.Request) {
	vehicleID, ok := queryInt(w, r, "vehicle_id")
	if !ok {
		return
	}
	expenses, err := h.Fleet.ListExpenses(vehicleID)
	if err != nil {
		errors.Write(w, err)
		return
	}
	respondJSON(w, http.StatusOK, expenses)
}

func (h *VehicleHandler) DeleteExpense(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.Fleet.DeleteExpense(id); err != nil {
		errors.Write(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Expense deleted"})
}
