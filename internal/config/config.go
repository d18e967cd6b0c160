package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Config collects every environment knob in one place. All values come from
// the environment (optionally seeded from a .env file); integrations with an
// empty key are disabled rather than fatal so the service can run with a
// partial stack in development.
type Config struct {
	Port          string
	DatabaseURL   string
	StorageDriver string // "postgres" or "memory"

	JWTSecret string

	SendgridAPIKey    string
	SendgridFromEmail string
	SendgridFromName  string
	StaffAlertEmail   string

	TwilioAccountSID string
	TwilioAuthToken  string
	TwilioFromNumber string
	StaffAlertPhone  string

	StripeSecretKey  string
	StripeSuccessURL string
	StripeCancelURL  string

	S3Bucket          string
	S3Region          string
	S3AccessKeyID     string
	S3SecretAccessKey string
	BackupPrefix      string

	CompanyName string
}

// Load reads a .env file if present and collects the configuration.
func Load() Config {
	godotenv.Load()
	return Config{
		Port:          getenv("PORT", "8080"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		StorageDriver: getenv("STORAGE_DRIVER", "postgres"),

		JWTSecret: os.Getenv("JWT_SECRET"),

		SendgridAPIKey:    os.Getenv("SENDGRID_API_KEY"),
		SendgridFromEmail: os.Getenv("SENDGRID_FROM_EMAIL"),
		SendgridFromName:  getenv("SENDGRID_FROM_NAME", "Noleggio"),
		StaffAlertEmail:   os.Getenv("STAFF_ALERT_EMAIL"),

		TwilioAccountSID: os.Getenv("TWILIO_ACCOUNT_SID"),
		TwilioAuthToken:  os.Getenv("TWILIO_AUTH_TOKEN"),
		TwilioFromNumber: os.Getenv("TWILIO_FROM_NUMBER"),
		StaffAlertPhone:  os.Getenv("STAFF_ALERT_PHONE"),

		StripeSecretKey:  os.Getenv("STRIPE_SECRET_KEY"),
		StripeSuccessURL: os.Getenv("STRIPE_SUCCESS_URL"),
		StripeCancelURL:  os.Getenv("STRIPE_CANCEL_URL"),

		S3Bucket:          os.Getenv("S3_BUCKET"),
		S3Region:          getenv("S3_REGION", "eu-south-1"),
		S3AccessKeyID:     os.Getenv("S3_ACCESS_KEY_ID"),
		S3SecretAccessKey: os.Getenv("S3_SECRET_ACCESS_KEY"),
		BackupPrefix:      getenv("BACKUP_PREFIX", "backups"),

		CompanyName: getenv("COMPANY_NAME", "Noleggio"),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
