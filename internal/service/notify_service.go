package service

import (
	"bytes"
	"fmt"
	"html/template"
	"path/filepath"
	"time"

	"noleggio/internal/config"
	"noleggio/internal/db"
	"noleggio/internal/entities"
	"noleggio/internal/repository"

	"github.com/sirupsen/logrus"
)

// NotifyService owns staff notifications and customer emails. Store writes
// are synchronous; the outbound email/SMS legs run in goroutines because the
// caller's request must not wait on SendGrid or Twilio.
type NotifyService struct {
	store  repository.Store
	sender *SenderService
	cfg    config.Config
	tmpl   *template.Template
}

func NewNotifyService(store repository.Store, sender *SenderService, cfg config.Config) *NotifyService {
	tmplPath := filepath.Join("internal", "templates", "reservation_email.html")
	tmpl, err := template.ParseFiles(tmplPath)
	if err != nil {
		logrus.Warnf("Could not parse email template %s, falling back to plain text: %v", tmplPath, err)
		tmpl = nil
	}
	return &NotifyService{store: store, sender: sender, cfg: cfg, tmpl: tmpl}
}

// CreateCustomNotification records a staff alert and fans it out to the
// configured staff channels. High-priority alerts also go out by SMS.
func (s *NotifyService) CreateCustomNotification(title, message, priority string, reservationID *int) (*db.Notification, error) {
	n := &db.Notification{
		Title:         title,
		Message:       message,
		Priority:      priority,
		ReservationID: reservationID,
	}
	if err := s.store.CreateNotification(n); err != nil {
		return nil, fmt.Errorf("error creating notification: %w", err)
	}

	if s.cfg.StaffAlertEmail != "" {
		go func(title, message string) {
			if err := s.sender.SendEmail(s.cfg.StaffAlertEmail, "Staff", title, message, ""); err != nil {
				logrus.Errorf("Staff alert email failed: %v", err)
			}
		}(title, message)
	}
	if priority == db.PriorityHigh && s.cfg.StaffAlertPhone != "" {
		go func(title, message string) {
			if err := s.sender.SendSMS(s.cfg.StaffAlertPhone, title+"\n"+message); err != nil {
				logrus.Errorf("Staff alert SMS failed: %v", err)
			}
		}(title, message)
	}
	return n, nil
}

func (s *NotifyService) ListNotifications(unreadOnly bool) ([]db.Notification, error) {
	return s.store.ListNotifications(unreadOnly)
}

func (s *NotifyService) MarkNotificationRead(id int) error {
	return s.store.MarkNotificationRead(id)
}

// SendReservationStatusEmail emails the customer about a status change.
// Failures are logged, never surfaced: the state change already happened.
func (s *NotifyService) SendReservationStatusEmail(toEmail, toName string, res *db.Reservation, vehicleLabel string) {
	if toEmail == "" {
		return
	}

	endDate := "open-ended"
	if res.EndDate != nil {
		endDate = *res.EndDate
	}
	data := entities.ReservationEmailData{
		CustomerName:    toName,
		ReservationCode: res.Code,
		VehicleLabel:    vehicleLabel,
		StartDate:       res.StartDate,
		EndDate:         endDate,
		Status:          res.Status,
		CompanyName:     s.cfg.CompanyName,
		CurrentYear:     time.Now().UTC().Year(),
	}

	subject := fmt.Sprintf("Your %s reservation is %s - Code: %s", s.cfg.CompanyName, res.Status, res.Code)
	plainBody := fmt.Sprintf(
		"Hello %s,\n\nYour reservation at %s is %s.\n\n"+
			"Reservation Details:\n"+
			"Reservation Code: %s\n"+
			"Vehicle: %s\n"+
			"Pick-up: %s\n"+
			"Return: %s\n\n"+
			"Thank you for choosing %s.",
		data.CustomerName, data.CompanyName, data.Status,
		data.ReservationCode, data.VehicleLabel, data.StartDate, data.EndDate,
		data.CompanyName,
	)

	htmlBody := ""
	if s.tmpl != nil {
		var buf bytes.Buffer
		if err := s.tmpl.Execute(&buf, data); err != nil {
			logrus.Errorf("Error executing email template for reservation %s: %v", res.Code, err)
		} else {
			htmlBody = buf.String()
		}
	}

	go func() {
		if err := s.sender.SendEmail(toEmail, toName, subject, plainBody, htmlBody); err != nil {
			logrus.Errorf("Reservation email for %s failed: %v", res.Code, err)
		}
	}()
}
