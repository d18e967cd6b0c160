package api

import (
	"net/http"

	"noleggio/internal/errors"
	"noleggio/internal/service"
)

// maxUploadBytes caps document uploads at 15 MiB.
const maxUploadBytes = 15 << 20

type DocumentHandler struct {
	Service *service.DocumentService
}

func NewDocumentHandler(svc *service.DocumentService) *DocumentHandler {
	return &DocumentHandler{Service: svc}
}

// UploadDocument accepts a multipart form with a "file" field plus optional
// reservation_id/vehicle_id fields.
func (h *DocumentHandler) UploadDocument(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		errors.Write(w, errors.BadRequest("invalid multipart form"))
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		errors.Write(w, errors.BadRequest("missing file field"))
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	resID, ok := formInt(w, r, "reservation_id")
	if !ok {
		return
	}
	vehID, ok := formInt(w, r, "vehicle_id")
	if !ok {
		return
	}
	var reservationID, vehicleID *int
	if resID > 0 {
		reservationID = &resID
	}
	if vehID > 0 {
		vehicleID = &vehID
	}

	doc, err := h.Service.UploadDocument(r.Context(), file, header.Filename, contentType, header.Size, reservationID, vehicleID)
	if err != nil {
		errors.Write(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, doc)
}

func (h *DocumentHandler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	reservationID, ok := queryInt(w, r, "reservation_id")
	if !ok {
		return
	}
	vehicleID, ok := queryInt(w, r, "vehicle_id")
	if !ok {
		return
	}
	docs, err := h.Service.ListDocuments(reservationID, vehicleID)
	if err != nil {
		errors.Write(w, err)
		return
	}
	respondJSON(w, http.StatusOK, docs)
}

func (h *DocumentHandler) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.Service.DeleteDocument(r.Context(), id); err != nil {
		errors.Write(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Document deleted"})
}
