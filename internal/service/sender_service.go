package service

import (
	"fmt"
	"strings"

	"noleggio/internal/config"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/sirupsen/logrus"
	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
)

// SenderService wraps the outbound channels (SendGrid email, Twilio SMS).
// Channels with missing credentials are disabled: sends return an error and
// callers log it instead of failing the request.
type SenderService struct {
	cfg config.Config
}

func NewSenderService(cfg config.Config) *SenderService {
	return &SenderService{cfg: cfg}
}

func (s *SenderService) SendEmail(toEmail, toName, subject, plainBody, htmlBody string) error {
	if s.cfg.SendgridAPIKey == "" {
		return fmt.Errorf("SENDGRID_API_KEY is not configured, email not sent")
	}
	if s.cfg.SendgridFromEmail == "" {
		return fmt.Errorf("SENDGRID_FROM_EMAIL is not configured, email not sent")
	}

	from := mail.NewEmail(s.cfg.SendgridFromName, s.cfg.SendgridFromEmail)
	to := mail.NewEmail(toName, toEmail)
	message := mail.NewSingleEmail(from, subject, to, plainBody, htmlBody)

	client := sendgrid.NewSendClient(s.cfg.SendgridAPIKey)
	response, err := client.Send(message)
	if err != nil {
		return fmt.Errorf("failed to send email via SendGrid: %w", err)
	}
	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return fmt.Errorf("SendGrid returned status %d: %s", response.StatusCode, response.Body)
	}
	logrus.Infof("Email sent to %s (subject: %s)", toEmail, subject)
	return nil
}

func (s *SenderService) SendSMS(toNumber, messageBody string) error {
	if s.cfg.TwilioAccountSID == "" || s.cfg.TwilioAuthToken == "" || s.cfg.TwilioFromNumber == "" {
		return fmt.Errorf("Twilio credentials are not fully configured, SMS not sent")
	}
	if !strings.HasPrefix(toNumber, "+") {
		logrus.Warnf("Destination number %q is not in E.164 format, SMS may fail", toNumber)
	}

	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: s.cfg.TwilioAccountSID,
		Password: s.cfg.TwilioAuthToken,
	})

	params := &openapi.CreateMessageParams{}
	params.SetTo(toNumber)
	params.SetFrom(s.cfg.TwilioFromNumber)
	params.SetBody(messageBody)

	resp, err := client.Api.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("failed to send SMS: %w", err)
	}
	if resp != nil && resp.Sid != nil {
		logrus.Infof("SMS sent to %s (sid: %s)", toNumber, *resp.Sid)
	}
	return nil
}
