package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	httpapi "equipos-backend/internal/api/http"
	"equipos-backend/internal/config"
	"equipos-backend/internal/firebase"
	"equipos-backend/internal/logger"
	"equipos-backend/internal/repository/firestore"
	"equipos-backend/internal/retry"
	"equipos-backend/internal/service"
	"equipos-backend/internal/storage"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Equipos Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Firebase configuration", "mode", cfg.Firebase.Mode, "project_id", cfg.Firebase.ProjectID)

	ctx := context.Background()

	// Initialize document store
	db, app, err := firebase.NewDocStore(ctx, cfg.Firebase)
	if err != nil {
		logger.Error("Failed to initialize document store", "error", err)
		log.Fatalf("Failed to initialize document store: %v", err)
	}
	store := firestore.NewStore(db)
	defer store.Close()

	// Catalog preload is fatal: the UI cannot work without it
	catalogSvc := service.NewCatalogService(
		store.EquipmentRepository,
		store.EntityRepository,
		store.LookupRepository,
		retry.FromConfig(cfg.Retry),
		nil,
	)
	catalog, err := catalogSvc.Preload(ctx)
	if err != nil {
		logger.Error("Failed to preload catalog", "error", err)
		log.Fatalf("Failed to preload catalog: %v", err)
	}
	logger.Info("Catalog loaded", "equipos", len(catalog.Equipment), "clientes", len(catalog.Clients))

	// Initialize attachment storage
	attachments, err := storage.New(ctx, cfg.Storage, cfg.Firebase.StorageBucket, app)
	if err != nil {
		logger.Error("Failed to initialize storage", "type", cfg.Storage.Type, "error", err)
		log.Fatalf("Failed to initialize storage: %v", err)
	}
	maxUpload := int64(cfg.Storage.MaxFileSizeMB) << 20

	handler := httpapi.NewHandler(httpapi.Deps{
		Equipment:        store.EquipmentRepository,
		Entities:         store.EntityRepository,
		Rentals:          store.RentalRepository,
		Expenses:         store.ExpenseRepository,
		OperatorPayments: store.OperatorPaymentRepository,
		Advances:         store.AdvanceRepository,
		Maintenance:      store.MaintenanceRepository,
		Catalog:          catalogSvc,
		Dashboard:        service.NewDashboardService(store.ReportRepository, store.EquipmentRepository, store.EntityRepository),
		Accounts:         service.NewClientAccountService(store.ReportRepository, store.AdvanceRepository, store.EntityRepository, store.RentalRepository),
		Performance: service.NewPerformanceService(
			store.EquipmentRepository,
			store.RentalRepository,
			store.ExpenseRepository,
			store.OperatorPaymentRepository,
			store.MaintenanceRepository,
		),
		Attachments:    service.NewAttachmentService(store.RentalRepository, attachments),
		MaxUploadBytes: maxUpload,
		SignedURLTTL:   time.Duration(cfg.Storage.SignedURLMinutes) * time.Minute,
	})

	router := mux.NewRouter()
	// Local storage serves its own upload and download URLs
	if local, ok := attachments.(*storage.LocalStore); ok {
		logger.Info("Using local attachment storage", "upload_dir", cfg.Storage.UploadDir)
		httpapi.RegisterFileRoutes(router, local, maxUpload)
	}
	httpapi.RegisterRoutes(router, handler)

	srv := &http.Server{
		Addr:              cfg.GetServerAddress(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info("HTTP server listening", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server error", "error", err)
			log.Fatalf("Failed to serve: %v", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", "error", err)
	}
	logger.Info("HTTP server stopped")
}
