package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"noleggio/internal/config"
	"noleggio/internal/errors"
	"noleggio/internal/repository"
	"noleggio/internal/storage"

	"github.com/sirupsen/logrus"
)

// BackupService exports the core tables as a JSON snapshot and ships it to
// the configured bucket. The nightly cron job and the manual trigger
// endpoint both land here.
type BackupService struct {
	store    repository.Store
	uploader *storage.Uploader
	cfg      config.Config
}

func NewBackupService(store repository.Store, uploader *storage.Uploader, cfg config.Config) *BackupService {
	return &BackupService{store: store, uploader: uploader, cfg: cfg}
}

// Run exports a snapshot and uploads it. It returns the object URL.
func (s *BackupService) Run(ctx context.Context) (string, error) {
	if !s.uploader.Enabled() {
		return "", errors.Conflict("Backups are disabled: S3 storage is not configured")
	}

	snapshot, err := s.store.ExportSnapshot()
	if err != nil {
		return "", fmt.Errorf("error exporting snapshot: %w", err)
	}

	payload, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", fmt.Errorf("error encoding snapshot: %w", err)
	}

	key := fmt.Sprintf("%s/snapshot-%s.json", s.cfg.BackupPrefix, time.Now().UTC().Format("20060102-150405"))
	url, err := s.uploader.Upload(ctx, bytes.NewReader(payload), key, "application/json")
	if err != nil {
		return "", fmt.Errorf("error uploading snapshot: %w", err)
	}

	logrus.Infof("Backup uploaded: %s (%d reservations, %d vehicles)",
		key, len(snapshot.Reservations), len(snapshot.Vehicles))
	return url, nil
}
