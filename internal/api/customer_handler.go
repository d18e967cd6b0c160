package api

import (
	"net/http"

	"noleggio/internal/entities"
	"noleggio/internal/errors"
	"noleggio/internal/service"
)

type CustomerHandler struct {
	Service *service.CustomerService
}

func NewCustomerHandler(svc *service.CustomerService) *CustomerHandler {
	return &CustomerHandler{Service: svc}
}

func (h *CustomerHandler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	var req entities.CustomerRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	c, err := h.Service.CreateCustomer(req)
	if err != nil {
		errors.Write(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, c)
}

func (h *CustomerHandler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	c, err := h.Service.GetCustomer(id)
	if err != nil {
		errors.Write(w, err)
		return
	}
	respondJSON(w, http.StatusOK, c)
}

func (h *CustomerHandler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := h.Service.ListCustomers()
	if err != nil {
		errors.Write(w, err)
		return
	}
	respondJSON(w, http.StatusOK, customers)
}

func (h *CustomerHandler) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req entities.CustomerRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	c, err := h.Service.UpdateCustomer(id, req)
	if err != nil {
		errors.Write(w, err)
		return
	}
	respondJSON(w, http.StatusOK, c)
}

func (h *CustomerHandler) DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.Service.DeleteCustomer(id); err != nil {
		errors.Write(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Customer deleted"})
}
