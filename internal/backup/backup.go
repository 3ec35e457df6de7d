// Package backup exports the document store into SQLite files.
package backup

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/goccy/go-json"
	_ "github.com/mattn/go-sqlite3"

	"equipos-backend/internal/config"
	"equipos-backend/internal/domain"
	"equipos-backend/internal/logger"
	"equipos-backend/internal/repository"
	"equipos-backend/internal/retry"
)

const (
	filePrefix = "backup_"
	fileSuffix = ".db"
	timeLayout = "20060102_150405"

	// PaymentsTable holds every rental payments subcollection. Its ids are
	// <rental id>/<payment id>.
	PaymentsTable = "alquileres_pagos"
)

var tableName = regexp.MustCompile(`^[a-z_]+$`)

// Result describes one export.
type Result struct {
	Path   string
	Tables map[string]int
}

// Exporter copies collections into a SQLite database, one table per
// collection with the columns id, fecha and data (the document as JSON).
type Exporter struct {
	raw         repository.RawRepository
	dir         string
	keep        int
	collections []string
	policy      retry.Policy

	open func(path string) (*sql.DB, error)
	now  func() time.Time
}

// NewExporter builds an exporter. Collection scans are retried with policy.
func NewExporter(raw repository.RawRepository, cfg config.BackupConfig, policy retry.Policy) *Exporter {
	collections := cfg.Collections
	if len(collections) == 0 {
		collections = domain.TopLevelCollections
	}
	return &Exporter{
		raw:         raw,
		dir:         cfg.Dir,
		keep:        cfg.Keep,
		collections: collections,
		policy:      policy,
		open: func(path string) (*sql.DB, error) {
			return sql.Open("sqlite3", path)
		},
		now: time.Now,
	}
}

// Run writes a new backup file under the backup directory and prunes old ones.
func (e *Exporter) Run(ctx context.Context) (*Result, error) {
	if err := os.MkdirAll(e.dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create backup directory: %w", err)
	}
	path := filepath.Join(e.dir, filePrefix+e.now().UTC().Format(timeLayout)+fileSuffix)

	db, err := e.open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open backup file: %w", err)
	}
	defer db.Close()

	tables, err := e.Export(ctx, db)
	if err != nil {
		return nil, err
	}
	res := &Result{Path: path, Tables: tables}
	logger.Info("Backup written", "path", path, "tables", len(tables))

	removed, err := Prune(e.dir, e.keep)
	if err != nil {
		logger.Warn("Failed to prune old backups", "dir", e.dir, "error", err)
	} else if len(removed) > 0 {
		logger.Info("Old backups removed", "count", len(removed))
	}
	return res, nil
}

// Export copies every configured collection into db inside one transaction
// and returns the row count per table.
func (e *Exporter) Export(ctx context.Context, db *sql.DB) (map[string]int, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin backup transaction: %w", err)
	}
	defer tx.Rollback()

	tables := make(map[string]int, len(e.collections)+1)
	for _, coll := range e.collections {
		records, err := e.scan(ctx, coll)
		if err != nil {
			return nil, err
		}
		if err := writeTable(ctx, tx, coll, records, ""); err != nil {
			return nil, err
		}
		tables[coll] = len(records)

		if coll != domain.CollectionRentals {
			continue
		}
		count, err := e.exportPayments(ctx, tx, records)
		if err != nil {
			return nil, err
		}
		tables[PaymentsTable] = count
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit backup: %w", err)
	}
	return tables, nil
}

func (e *Exporter) exportPayments(ctx context.Context, tx *sql.Tx, rentals []domain.Record) (int, error) {
	if err := createTable(ctx, tx, PaymentsTable); err != nil {
		return 0, err
	}
	count := 0
	for _, rental := range rentals {
		payments, err := e.scan(ctx, domain.RentalPaymentsPath(rental.ID))
		if err != nil {
			return 0, err
		}
		if len(payments) == 0 {
			continue
		}
		if err := insertRows(ctx, tx, PaymentsTable, payments, rental.ID+"/"); err != nil {
			return 0, err
		}
		count += len(payments)
	}
	return count, nil
}

func (e *Exporter) scan(ctx context.Context, collection string) ([]domain.Record, error) {
	return retry.Value(ctx, e.policy, "backup scan "+collection, func() ([]domain.Record, error) {
		return e.raw.Scan(ctx, collection)
	})
}

func writeTable(ctx context.Context, tx *sql.Tx, table string, records []domain.Record, idPrefix string) error {
	if err := createTable(ctx, tx, table); err != nil {
		return err
	}
	return insertRows(ctx, tx, table, records, idPrefix)
}

func createTable(ctx context.Context, tx *sql.Tx, table string) error {
	if !tableName.MatchString(table) {
		return fmt.Errorf("invalid backup table name %q", table)
	}
	stmt := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (id TEXT PRIMARY KEY, fecha TEXT, data TEXT)`, table)
	if _, err := tx.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("failed to create table %s: %w", table, err)
	}
	return nil
}

func insertRows(ctx context.Context, tx *sql.Tx, table string, records []domain.Record, idPrefix string) error {
	for _, rec := range records {
		data, err := json.Marshal(rec.Fields)
		if err != nil {
			return fmt.Errorf("failed to encode %s/%s: %w", table, rec.ID, err)
		}
		var date any
		if d := rec.Fields.String(domain.FieldDate); d != "" {
			date = d
		}
		_, err = sq.Insert(table).
			Options("OR REPLACE").
			Columns("id", "fecha", "data").
			Values(idPrefix+rec.ID, date, string(data)).
			RunWith(tx).
			ExecContext(ctx)
		if err != nil {
			return fmt.Errorf("failed to insert %s/%s: %w", table, rec.ID, err)
		}
	}
	logger.Debug("Backup table written", "table", table, "rows", len(records))
	return nil
}

// Prune keeps the newest keep backup files in dir and returns the removed
// paths. keep <= 0 disables pruning.
func Prune(dir string, keep int) ([]string, error) {
	if keep <= 0 {
		return nil, nil
	}
	files, err := filepath.Glob(filepath.Join(dir, filePrefix+"*"+fileSuffix))
	if err != nil {
		return nil, err
	}
	// Timestamped names sort chronologically.
	sort.Sort(sort.Reverse(sort.StringSlice(files)))

	var removed []string
	for _, f := range files[min(keep, len(files)):] {
		if err := os.Remove(f); err != nil {
			return removed, fmt.Errorf("failed to remove %s: %w", f, err)
		}
		removed = append(removed, f)
	}
	return removed, nil
}
