// Package migration moves the legacy relational export into the document
// store and repairs documents already migrated. Every job runs in plan mode
// unless Options.Commit is set.
package migration

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"equipos-backend/internal/config"
	"equipos-backend/internal/docstore"
	"equipos-backend/internal/domain"
	"equipos-backend/internal/logger"
	"equipos-backend/internal/repository"
	"equipos-backend/internal/retry"
)

// Options controls a migration run.
type Options struct {
	Commit    bool
	BatchSize int
	ProjectID string
	PlanDir   string

	DetectThreshold float64
	CommitThreshold float64
	From            string
	To              string
	Limit           int

	OperatorPaymentCategory string
	DefaultAccountID        string
	Synonyms                []config.SynonymRule

	ReadsPerSecond float64
}

// OptionsFromConfig fills Options from the migration and legacy sections.
// Commit is always false; callers opt in explicitly.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		BatchSize:               cfg.Migration.BatchSize,
		ProjectID:               cfg.Legacy.ProjectID,
		PlanDir:                 cfg.Migration.PlanDir,
		DetectThreshold:         cfg.Migration.DetectThreshold,
		CommitThreshold:         cfg.Migration.CommitThreshold,
		OperatorPaymentCategory: cfg.Migration.OperatorPaymentCategory,
		DefaultAccountID:        cfg.Migration.DefaultAccountID,
		Synonyms:                cfg.Migration.Synonyms,
		ReadsPerSecond:          cfg.Migration.ReadsPerSecond,
	}
}

// Migrator runs migration jobs. It writes only through the raw repository's
// bulk writer.
type Migrator struct {
	source  Source
	raw     repository.RawRepository
	lookups repository.LookupRepository
	opts    Options
	policy  retry.Policy
	limiter *rate.Limiter
	plans   PlanWriter
	now     func() time.Time
}

// New creates a Migrator. source may be nil for jobs that only touch the
// document store; plans may be nil to skip CSV export.
func New(source Source, raw repository.RawRepository, lookups repository.LookupRepository,
	opts Options, policy retry.Policy, plans PlanWriter) *Migrator {
	if opts.BatchSize <= 0 || opts.BatchSize > docstore.MaxBatchSize {
		opts.BatchSize = docstore.MaxBatchSize
	}
	if opts.DetectThreshold == 0 {
		opts.DetectThreshold = 0.85
	}
	if opts.CommitThreshold == 0 {
		opts.CommitThreshold = 0.95
	}
	if opts.OperatorPaymentCategory == "" {
		opts.OperatorPaymentCategory = "PAGO HRS OPERADOR"
	}
	if opts.Synonyms == nil {
		opts.Synonyms = config.DefaultSynonyms
	}
	limit := rate.Inf
	if opts.ReadsPerSecond > 0 {
		limit = rate.Limit(opts.ReadsPerSecond)
	}
	return &Migrator{
		source:  source,
		raw:     raw,
		lookups: lookups,
		opts:    opts,
		policy:  policy,
		limiter: rate.NewLimiter(limit, 1),
		plans:   plans,
		now:     time.Now,
	}
}

// run collects the entries of one job and, in commit mode, forwards writes
// to a bulk writer.
type run struct {
	plan   *Plan
	writer repository.BulkWriter
	log    *slog.Logger
}

func (m *Migrator) begin(job string) *run {
	r := &run{plan: &Plan{RunID: uuid.NewString(), Job: job, Commit: m.opts.Commit}}
	r.log = logger.WithJob(job).With("run_id", r.plan.RunID)
	if m.opts.Commit {
		r.writer = m.raw.NewBulkWriter(m.opts.BatchSize)
	}
	r.log.Info("Migration job started", "commit", m.opts.Commit)
	return r
}

func (r *run) set(ctx context.Context, collection, id string, fields domain.Fields, merge bool) error {
	r.plan.add(Entry{Collection: collection, ID: id, Action: ActionSet, Values: summarize(fields)})
	if r.writer == nil {
		return nil
	}
	return r.writer.Set(ctx, collection, id, fields, merge)
}

func (r *run) update(ctx context.Context, collection, id string, fields domain.Fields) error {
	r.plan.add(Entry{Collection: collection, ID: id, Action: ActionUpdate, Values: summarize(fields)})
	if r.writer == nil {
		return nil
	}
	return r.writer.Update(ctx, collection, id, fields)
}

func (r *run) note(collection, id, action string, values map[string]string) {
	r.plan.add(Entry{Collection: collection, ID: id, Action: action, Values: values})
}

// finish flushes pending writes and exports the plan. Batches committed
// before a failure stay written and are reported in the returned plan.
func (m *Migrator) finish(ctx context.Context, r *run, jobErr error) (*Plan, error) {
	if r.writer != nil {
		if jobErr == nil {
			jobErr = r.writer.Flush(ctx)
		}
		stats := r.writer.Stats()
		r.plan.Writes = stats.Writes
		r.plan.Batches = stats.Batches
	}
	if m.plans != nil {
		path, err := m.plans.Write("plan", r.plan.Job, r.plan.Entries)
		if err != nil {
			r.log.Warn("Failed to export plan", "error", err)
		}
		r.plan.PlanFile = path
	}

	if jobErr != nil {
		r.log.Error("Migration job failed",
			"entries", len(r.plan.Entries), "writes", r.plan.Writes, "error", jobErr)
		return r.plan, fmt.Errorf("%s: %w", r.plan.Job, jobErr)
	}
	if m.opts.Commit {
		r.log.Info("Migration job committed",
			"writes", r.plan.Writes, "batches", len(r.plan.Batches))
	} else {
		r.log.Info("Dry run complete, nothing written", "entries", len(r.plan.Entries))
	}
	return r.plan, nil
}

// scan reads a collection, waiting on the limiter and retrying quota errors.
func (m *Migrator) scan(ctx context.Context, collection string, filters ...docstore.Filter) ([]domain.Record, error) {
	if err := m.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	records, err := retry.Value(ctx, m.policy, "scan "+collection, func() ([]domain.Record, error) {
		return m.raw.Scan(ctx, collection, filters...)
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(records, func(i, j int) bool { return records[i].ID < records[j].ID })
	return records, nil
}

// read paces a source read.
func (m *Migrator) read(ctx context.Context, read func() ([]domain.Fields, error)) ([]domain.Fields, error) {
	if m.source == nil {
		return nil, fmt.Errorf("legacy source is not configured")
	}
	if err := m.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return read()
}

// names maps document ids to their nombre, falling back to the id.
func names(records []domain.Record) map[string]string {
	out := make(map[string]string, len(records))
	for _, rec := range records {
		name := rec.Fields.String(domain.FieldName)
		if name == "" {
			name = rec.ID
		}
		out[rec.ID] = name
	}
	return out
}

func summarize(fields domain.Fields) map[string]string {
	out := make(map[string]string, len(fields))
	for k, v := range fields {
		switch t := v.(type) {
		case nil:
		case string:
			out[k] = t
		default:
			out[k] = fmt.Sprint(t)
		}
	}
	return out
}
