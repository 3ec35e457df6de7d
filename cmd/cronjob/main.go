package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"equipos-backend/internal/backup"
	"equipos-backend/internal/config"
	"equipos-backend/internal/firebase"
	"equipos-backend/internal/jobs"
	"equipos-backend/internal/logger"
	"equipos-backend/internal/repository/firestore"
	"equipos-backend/internal/retry"
	"equipos-backend/internal/scheduler"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	runOnce := flag.String("run-once", "", "Run a specific job once and exit (e.g., 'backup', 'all')")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Equipos Cronjob Runner...", "log_level", cfg.Log.Level)

	// Initialize document store
	db, _, err := firebase.NewDocStore(context.Background(), cfg.Firebase)
	if err != nil {
		logger.Error("Failed to initialize document store", "error", err)
		log.Fatalf("Failed to initialize document store: %v", err)
	}
	store := firestore.NewStore(db)
	defer store.Close()

	// Initialize Job Runner
	exporter := backup.NewExporter(store.RawRepository, cfg.Backup, retry.FromConfig(cfg.Retry))
	jobRunner := jobs.NewJobRunner(exporter, cfg)

	// Check if running a single job
	if *runOnce != "" {
		logger.Info("Running job once", "job", *runOnce)
		runJobOnce(jobRunner, *runOnce)
		logger.Info("Job execution completed", "job", *runOnce)
		return
	}

	// Initialize Scheduler
	cronScheduler := scheduler.NewScheduler(jobRunner)

	// Start scheduler
	cronScheduler.Start()
	logger.Info("Cronjob scheduler is running. Press Ctrl+C to stop.", "backup_schedule", cfg.Scheduler.Backup)

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// Graceful shutdown
	logger.Info("Shutting down cronjob scheduler...")
	cronScheduler.Stop()
	logger.Info("Cronjob scheduler stopped. Goodbye!")
}

// runJobOnce runs a specific job once and exits
func runJobOnce(jobRunner *jobs.JobRunner, jobName string) {
	switch jobName {
	case jobs.JobBackup:
		jobRunner.BackupDatabase()
	case "all":
		jobRunner.RunAll()
	default:
		logger.Error("Unknown job name", "job", jobName)
		fmt.Printf("Available jobs:\n")
		fmt.Printf("  - %s\n", jobs.JobBackup)
		fmt.Printf("  - all\n")
		os.Exit(1)
	}
}
