package api

import (
	"net/http"

	"noleggio/internal/db"
	"noleggio/internal/errors"
	"noleggio/internal/service"
)

type NotificationHandler struct {
	Service *service.NotifyService
}

func NewNotificationHandler(svc *service.NotifyService) *NotificationHandler {
	return &NotificationHandler{Service: svc}
}

func (h *NotificationHandler) CreateNotification(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title         string `json:"title"`
		Message       string `json:"message"`
		Priority      string `json:"priority"`
		ReservationID *int   `json:"reservation_id"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Title == "" {
		errors.Write(w, errors.BadRequest("title is required"))
		return
	}
	if req.Priority == "" {
		req.Priority = db.PriorityNormal
	}
	if req.Priority != db.PriorityNormal && req.Priority != db.PriorityHigh {
		errors.Write(w, errors.BadRequest("unknown priority %q", req.Priority))
		return
	}
	n, err := h.Service.CreateCustomNotification(req.Title, req.Message, req.Priority, req.ReservationID)
	if err != nil {
		errors.Write(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, n)
}

func (h *NotificationHandler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	unreadOnly := r.URL.Query().Get("unread") == "true"
	notifications, err := h.Service.ListNotifications(unreadOnly)
	if err != nil {
		errors.Write(w, err)
		return
	}
	respondJSON(w, http.StatusOK, notifications)
}

func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.Service.MarkNotificationRead(id); err != nil {
		errors.Write(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Notification read"})
}
