package service

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"path"
	"time"

	"noleggio/internal/db"
	"noleggio/internal/errors"
	"noleggio/internal/repository"
	"noleggio/internal/storage"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// DocumentService stores rental paperwork (contracts, damage checks, scans)
// in the object store and its metadata in the database.
type DocumentService struct {
	store    repository.Store
	uploader *storage.Uploader
}

func NewDocumentService(store repository.Store, uploader *storage.Uploader) *DocumentService {
	return &DocumentService{store: store, uploader: uploader}
}

// UploadDocument streams a file to the bucket and records it. At least one
// of reservationID/vehicleID must anchor the document.
func (s *DocumentService) UploadDocument(ctx context.Context, body io.Reader, fileName, contentType string, sizeBytes int64, reservationID, vehicleID *int) (*db.Document, error) {
	if !s.uploader.Enabled() {
		return nil, errors.Conflict("Document storage is not configured")
	}
	if reservationID == nil && vehicleID == nil {
		return nil, errors.BadRequest("a document must reference a reservation or a vehicle")
	}
	if reservationID != nil {
		if _, err := s.store.GetReservation(*reservationID); err != nil {
			if stderrors.Is(err, repository.ErrNotFound) {
				return nil, errors.NotFound("Reservation %d not found", *reservationID)
			}
			return nil, fmt.Errorf("error getting reservation: %w", err)
		}
	}
	if vehicleID != nil {
		if _, err := s.store.GetVehicle(*vehicleID); err != nil {
			if stderrors.Is(err, repository.ErrNotFound) {
				return nil, errors.NotFound("Vehicle %d not found", *vehicleID)
			}
			return nil, fmt.Errorf("error getting vehicle: %w", err)
		}
	}

	key := fmt.Sprintf("documents/%s/%s%s", time.Now().UTC().Format("2006/01"), uuid.NewString(), path.Ext(fileName))
	url, err := s.uploader.Upload(ctx, body, key, contentType)
	if err != nil {
		return nil, fmt.Errorf("error uploading document: %w", err)
	}

	doc := &db.Document{
		ReservationID: reservationID,
		VehicleID:     vehicleID,
		FileName:      fileName,
		ObjectKey:     key,
		ContentType:   contentType,
		SizeBytes:     sizeBytes,
		URL:           url,
	}
	if err := s.store.CreateDocument(doc); err != nil {
		// The object is already in the bucket; try not to leak it.
		if delErr := s.uploader.Delete(ctx, key); delErr != nil {
			logrus.Errorf("Error cleaning up orphaned object %s: %v", key, delErr)
		}
		return nil, fmt.Errorf("error saving document: %w", err)
	}
	logrus.Infof("Document %s uploaded as %s", fileName, key)
	return doc, nil
}

// ListDocuments filters by reservation and/or vehicle (0 for any).
func (s *DocumentService) ListDocuments(reservationID, vehicleID int) ([]db.Document, error) {
	return s.store.ListDocuments(reservationID, vehicleID)
}

func (s *DocumentService) DeleteDocument(ctx context.Context, id int) error {
	docs, err := s.store.ListDocuments(0, 0)
	if err != nil {
		return fmt.Errorf("error listing documents: %w", err)
	}
	var doc *db.Document
	for i := range docs {
		if docs[i].ID == id {
			doc = &docs[i]
			break
		}
	}
	if doc == nil {
		return errors.NotFound("Document %d not found", id)
	}
	if err := s.store.DeleteDocument(id); err != nil {
		return fmt.Errorf("error deleting document: %w", err)
	}
	if s.uploader.Enabled() {
		if err := s.uploader.Delete(ctx, doc.ObjectKey); err != nil {
			logrus.Errorf("Error deleting object %s: %v", doc.ObjectKey, err)
		}
	}
	return nil
}
