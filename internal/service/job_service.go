package service

import (
	"context"
	"fmt"

	"noleggio/internal/db"
	"noleggio/internal/interval"
	"noleggio/internal/repository"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// placeholderAlertWindow is how many days before pick-up an unassigned
// placeholder triggers a staff alert.
const placeholderAlertWindow = 2

// JobService schedules the recurring background work: the daily status
// roll-forward, the placeholder pick-up alerts and the nightly backup.
type JobService struct {
	store  repository.Store
	spares *SpareService
	notify *NotifyService
	backup *BackupService
	cron   *cron.Cron
}

func NewJobService(store repository.Store, spares *SpareService, notify *NotifyService, backup *BackupService) *JobService {
	return &JobService{
		store:  store,
		spares: spares,
		notify: notify,
		backup: backup,
		cron:   cron.New(),
	}
}

// Start registers the schedules and launches the cron loop.
func (s *JobService) Start() error {
	if _, err := s.cron.AddFunc("5 0 * * *", func() {
		if err := s.RollForwardReservationStatuses(); err != nil {
			logrus.Errorf("Status roll-forward failed: %v", err)
		}
	}); err != nil {
		return fmt.Errorf("error scheduling status roll-forward: %w", err)
	}

	if _, err := s.cron.AddFunc("0 8 * * *", func() {
		if err := s.AlertUnassignedPlaceholders(); err != nil {
			logrus.Errorf("Placeholder alert job failed: %v", err)
		}
	}); err != nil {
		return fmt.Errorf("error scheduling placeholder alerts: %w", err)
	}

	if _, err := s.cron.AddFunc("30 2 * * *", func() {
		if _, err := s.backup.Run(context.Background()); err != nil {
			logrus.Errorf("Nightly backup failed: %v", err)
		}
	}); err != nil {
		return fmt.Errorf("error scheduling backup: %w", err)
	}

	s.cron.Start()
	logrus.Info("Background jobs started")
	return nil
}

func (s *JobService) Stop() {
	s.cron.Stop()
}

// RollForwardReservationStatuses advances the lifecycle by calendar date:
// confirmed reservations whose start date has arrived become active, and
// active standard rentals past their end date become completed. Open-ended
// rentals never complete automatically.
func (s *JobService) RollForwardReservationStatuses() error {
	today := interval.Today()

	starting, err := s.store.ListConfirmedStartingBy(today)
	if err != nil {
		return fmt.Errorf("error listing starting reservations: %w", err)
	}
	if len(starting) > 0 {
		if err := s.store.UpdateReservationStatuses(starting, db.StatusActive); err != nil {
			return fmt.Errorf("error activating reservations: %w", err)
		}
		logrus.Infof("Activated %d reservations starting by %s", len(starting), today)
	}

	ended, err := s.store.ListActiveStandardEndedBefore(today)
	if err != nil {
		return fmt.Errorf("error listing ended reservations: %w", err)
	}
	if len(ended) > 0 {
		if err := s.store.UpdateReservationStatuses(ended, db.StatusCompleted); err != nil {
			return fmt.Errorf("error completing reservations: %w", err)
		}
		logrus.Infof("Completed %d reservations ended before %s", len(ended), today)
	}
	return nil
}

// AlertUnassignedPlaceholders raises a high-priority staff alert for every
// placeholder starting within the alert window that still has no vehicle.
func (s *JobService) AlertUnassignedPlaceholders() error {
	due, err := s.spares.GetPlaceholderReservationsNeedingAssignment(placeholderAlertWindow)
	if err != nil {
		return err
	}
	for i := range due {
		r := &due[i]
		if _, err := s.notify.CreateCustomNotification(
			"Placeholder needs a vehicle",
			fmt.Sprintf("Reservation %s starts on %s and has no vehicle assigned", r.Code, r.StartDate),
			db.PriorityHigh,
			&r.ID,
		); err != nil {
			return fmt.Errorf("error creating placeholder alert: %w", err)
		}
	}
	if len(due) > 0 {
		logrus.Infof("Raised %d placeholder alerts", len(due))
	}
	return nil
}
