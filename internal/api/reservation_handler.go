package api

import (
	"fmt"
	"net/http"

	"noleggio/internal/entities"
	"noleggio/internal/errors"
	"noleggio/internal/pdf"
	"noleggio/internal/repository"
	"noleggio/internal/service"

	"github.com/gorilla/mux"
)

type ReservationHandler struct {
	Service  *service.ReservationService
	Payments *service.PaymentService

	CompanyName string
}

func NewReservationHandler(svc *service.ReservationService, payments *service.PaymentService, companyName string) *ReservationHandler {
	return &ReservationHandler{Service: svc, Payments: payments, CompanyName: companyName}
}

func (h *ReservationHandler) CreateReservation(w http.ResponseWriter, r *http.Request) {
	var req entities.CreateReservationRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.Service.CreateReservation(req)
	if err != nil {
		errors.Write(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, res)
}

func (h *ReservationHandler) GetReservation(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	res, err := h.Service.GetReservation(id)
	if err != nil {
		errors.Write(w, err)
		return
	}
	respondJSON(w, http.StatusOK, res)
}

func (h *ReservationHandler) GetReservationByCode(w http.ResponseWriter, r *http.Request) {
	res, err := h.Service.GetReservationByCode(mux.Vars(r)["code"])
	if err != nil {
		errors.Write(w, err)
		return
	}
	respondJSON(w, http.StatusOK, res)
}

func (h *ReservationHandler) ListReservations(w http.ResponseWriter, r *http.Request) {
	vehicleID, ok := queryInt(w, r, "vehicle_id")
	if !ok {
		return
	}
	customerID, ok := queryInt(w, r, "customer_id")
	if !ok {
		return
	}
	filter := repository.ReservationFilter{
		VehicleID:  vehicleID,
		CustomerID: customerID,
		Status:     r.URL.Query().Get("status"),
		Type:       r.URL.Query().Get("type"),
		Date:       r.URL.Query().Get("date"),
	}
	reservations, err := h.Service.ListReservations(filter)
	if err != nil {
		errors.Write(w, err)
		return
	}
	respondJSON(w, http.StatusOK, reservations)
}

func (h *ReservationHandler) UpdateReservation(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req entities.UpdateReservationRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.Service.UpdateReservation(id, req)
	if err != nil {
		errors.Write(w, err)
		return
	}
	respondJSON(w, http.StatusOK, res)
}

func (h *ReservationHandler) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req entities.ChangeStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.Service.ChangeStatus(id, req.Status)
	if err != nil {
		errors.Write(w, err)
		return
	}
	respondJSON(w, http.StatusOK, res)
}

func (h *ReservationHandler) CancelReservation(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	res, err := h.Service.CancelReservation(id)
	if err != nil {
		errors.Write(w, err)
		return
	}
	respondJSON(w, http.StatusOK, res)
}

func (h *ReservationHandler) DeleteReservation(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.Service.DeleteReservation(id); err != nil {
		errors.Write(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Reservation deleted"})
}

// CheckConflicts previews collisions for a candidate range without writing
// anything.
func (h *ReservationHandler) CheckConflicts(w http.ResponseWriter, r *http.Request) {
	vehicleID, ok := queryInt(w, r, "vehicle_id")
	if !ok {
		return
	}
	startDate := r.URL.Query().Get("start_date")

	var endDate *string
	if raw := r.URL.Query().Get("end_date"); raw != "" {
		endDate = &raw
	}
	excludeID, ok := queryIntPtr(w, r, "exclude_id")
	if !ok {
		return
	}
	isBlock := r.URL.Query().Get("maintenance_block") == "true"

	conflicts, err := h.Service.CheckConflicts(vehicleID, startDate, endDate, excludeID, isBlock)
	if err != nil {
		errors.Write(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"conflicts": conflicts,
		"available": len(conflicts) == 0,
	})
}

// VerifyDeposit polls the checkout session and reports the deposit state.
func (h *ReservationHandler) VerifyDeposit(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	res, err := h.Service.GetReservation(id)
	if err != nil {
		errors.Write(w, err)
		return
	}
	if !h.Payments.Enabled() {
		errors.Write(w, errors.Conflict("Payments are not configured"))
		return
	}
	status, err := h.Payments.VerifyDepositSession(res)
	if err != nil {
		errors.Write(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"deposit_status": status})
}

// RentalContract streams the printable contract PDF.
func (h *ReservationHandler) RentalContract(w http.ResponseWriter, r *http.Request) {
	h.servePDF(w, r, "contract", pdf.RentalContract)
}

// DamageCheckForm streams the inspection sheet PDF.
func (h *ReservationHandler) DamageCheckForm(w http.ResponseWriter, r *http.Request) {
	h.servePDF(w, r, "damage-check", pdf.DamageCheckForm)
}

func (h *ReservationHandler) servePDF(w http.ResponseWriter, r *http.Request, kind string, render func(pdf.ContractData) ([]byte, error)) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	data, err := h.Service.BuildContractData(id)
	if err != nil {
		errors.Write(w, err)
		return
	}
	data.CompanyName = h.CompanyName

	out, err := render(data)
	if err != nil {
		errors.Write(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%s-%s.pdf", kind, data.ReservationCode))
	w.Write(out)
}
