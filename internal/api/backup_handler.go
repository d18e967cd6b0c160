package api

import (
	"net/http"

	"noleggio/internal/errors"
	"noleggio/internal/service"
)

type BackupHandler struct {
	Service *service.BackupService
}

func NewBackupHandler(svc *service.BackupService) *BackupHandler {
	return &BackupHandler{Service: svc}
}

// TriggerBackup runs an on-demand snapshot export outside the nightly
// schedule.
func (h *BackupHandler) TriggerBackup(w http.ResponseWriter, r *http.Request) {
	url, err := h.Service.Run(r.Context())
	if err != nil {
		errors.Write(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"url": url})
}
