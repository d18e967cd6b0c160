package api

import (
	"net/http"

	"noleggio/internal/entities"
	"noleggio/internal/errors"
	"noleggio/internal/service"
)

// defaultPlaceholderWindow is how far ahead the dashboard looks for
// placeholders still waiting for a vehicle.
const defaultPlaceholderWindow = 7

type SpareHandler struct {
	Service *service.SpareService
}

func NewSpareHandler(svc *service.SpareService) *SpareHandler {
	return &SpareHandler{Service: svc}
}

func (h *SpareHandler) CreatePlaceholder(w http.ResponseWriter, r *http.Request) {
	var req entities.CreatePlaceholderRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.Service.CreatePlaceholder(req)
	if err != nil {
		errors.Write(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, res)
}

func (h *SpareHandler) ListPlaceholdersNeedingAssignment(w http.ResponseWriter, r *http.Request) {
	daysAhead := defaultPlaceholderWindow
	if r.URL.Query().Get("days_ahead") != "" {
		v, ok := queryInt(w, r, "days_ahead")
		if !ok {
			return
		}
		daysAhead = v
	}
	due, err := h.Service.GetPlaceholderReservationsNeedingAssignment(daysAhead)
	if err != nil {
		errors.Write(w, err)
		return
	}
	respondJSON(w, http.StatusOK, due)
}

func (h *SpareHandler) AssignVehicle(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req entities.AssignVehicleRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.Service.AssignVehicleToPlaceholder(id, req)
	if err != nil {
		errors.Write(w, err)
		return
	}
	respondJSON(w, http.StatusOK, res)
}

func (h *SpareHandler) CreateReplacement(w http.ResponseWriter, r *http.Request) {
	var req entities.CreateReplacementRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.Service.CreateReplacementReservation(req)
	if err != nil {
		errors.Write(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, res)
}

func (h *SpareHandler) CloseReplacement(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req entities.CloseReplacementRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.Service.CloseReplacementReservation(id, req)
	if err != nil {
		errors.Write(w, err)
		return
	}
	respondJSON(w, http.StatusOK, res)
}

func (h *SpareHandler) CreateMaintenanceBlock(w http.ResponseWriter, r *http.Request) {
	var req entities.CreateMaintenanceBlockRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.Service.CreateMaintenanceBlock(req)
	if err != nil {
		errors.Write(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, res)
}

func (h *SpareHandler) CloseMaintenanceBlock(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req entities.CloseMaintenanceBlockRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.Service.CloseMaintenanceBlock(id, req)
	if err != nil {
		errors.Write(w, err)
		return
	}
	respondJSON(w, http.StatusOK, res)
}
