package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"

	"noleggio/internal/api"
	"noleggio/internal/config"
	"noleggio/internal/repository"
	"noleggio/internal/service"
	"noleggio/internal/storage"

	"github.com/gorilla/handlers"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

func main() {
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg := config.Load()
	if cfg.JWTSecret == "" {
		logrus.Fatal("JWT_SECRET not set")
	}

	store, err := openStore(cfg)
	if err != nil {
		logrus.Fatalf("Failed to open storage: %v", err)
	}

	uploader, err := storage.NewUploader(context.Background(), cfg)
	if err != nil {
		logrus.Fatalf("Failed to set up S3 storage: %v", err)
	}

	sender := service.NewSenderService(cfg)
	notify := service.NewNotifyService(store, sender, cfg)
	payments := service.NewPaymentService(store, cfg)
	reservations := service.NewReservationService(store, notify, payments)
	spares := service.NewSpareService(store, notify)
	fleet := service.NewFleetService(store, notify)
	customers := service.NewCustomerService(store)
	authSvc := service.NewAuthService(store, cfg)
	documents := service.NewDocumentService(store, uploader)
	backup := service.NewBackupService(store, uploader, cfg)

	jobs := service.NewJobService(store, spares, notify, backup)
	if err := jobs.Start(); err != nil {
		logrus.Fatalf("Failed to start background jobs: %v", err)
	}
	defer jobs.Stop()

	router := api.NewRouter(api.Handlers{
		Auth:          api.NewAuthHandler(authSvc),
		Vehicles:      api.NewVehicleHandler(fleet),
		Customers:     api.NewCustomerHandler(customers),
		Reservations:  api.NewReservationHandler(reservations, payments, cfg.CompanyName),
		Spares:        api.NewSpareHandler(spares),
		Documents:     api.NewDocumentHandler(documents),
		Notifications: api.NewNotificationHandler(notify),
		Backup:        api.NewBackupHandler(backup),
	}, cfg.JWTSecret)

	cors := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
	)

	logrus.Infof("Server running on port %s (storage: %s)", cfg.Port, cfg.StorageDriver)
	logrus.Fatal(http.ListenAndServe(":"+cfg.Port, handlers.LoggingHandler(os.Stdout, cors(router))))
}

func openStore(cfg config.Config) (repository.Store, error) {
	switch cfg.StorageDriver {
	case "memory":
		logrus.Warn("Using the in-memory store, data is lost on restart")
		return repository.NewMemStore(), nil
	default:
		conn, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		if err := conn.Ping(); err != nil {
			return nil, err
		}
		return repository.NewSQLStore(conn), nil
	}
}
