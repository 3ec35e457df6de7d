package jobs

import (
	"context"
	"time"

	"equipos-backend/internal/backup"
	"equipos-backend/internal/config"
	"equipos-backend/internal/logger"
)

// JobBackup is the name of the SQLite export job.
const JobBackup = "backup"

// backupTimeout bounds a single export run.
const backupTimeout = 30 * time.Minute

// Backuper writes one backup.
type Backuper interface {
	Run(ctx context.Context) (*backup.Result, error)
}

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	backups Backuper
	config  *config.Config
}

// NewJobRunner creates a new job runner with all dependencies
func NewJobRunner(backups Backuper, cfg *config.Config) *JobRunner {
	return &JobRunner{
		backups: backups,
		config:  cfg,
	}
}

func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// runWithRecovery wraps job execution with panic recovery
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func()) {
	log := logger.WithJob(jobName)
	defer func() {
		if r := recover(); r != nil {
			log.Error("Job panicked", "panic", r)
		}
	}()

	log.Info("Starting job")
	start := time.Now()
	jobFunc()
	log.Info("Job completed", "duration", time.Since(start))
}

// BackupDatabase exports the document store into a new SQLite file.
func (jr *JobRunner) BackupDatabase() {
	jr.runWithRecovery(JobBackup, func() {
		ctx, cancel := context.WithTimeout(context.Background(), backupTimeout)
		defer cancel()

		res, err := jr.backups.Run(ctx)
		if err != nil {
			logger.Error("Backup failed", "error", err)
			return
		}
		rows := 0
		for _, n := range res.Tables {
			rows += n
		}
		logger.Info("Backup finished", "path", res.Path, "tables", len(res.Tables), "rows", rows)
	})
}

// RunAll runs every job once (for manual execution)
func (jr *JobRunner) RunAll() {
	jr.BackupDatabase()
}
