package api

import (
	"net/http"

	"noleggio/internal/entities"
	"noleggio/internal/errors"
	"noleggio/internal/service"
)

type AuthHandler struct {
	Service *service.AuthService
}

func NewAuthHandler(svc *service.AuthService) *AuthHandler {
	return &AuthHandler{Service: svc}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req entities.RegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	user, err := h.Service.Register(req)
	if err != nil {
		errors.Write(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"email": user.Email,
		"role":  user.Role,
	})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req entities.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	token, err := h.Service.Login(req)
	if err != nil {
		errors.Write(w, err)
		return
	}
	respondJSON(w, http.StatusOK, token)
}
