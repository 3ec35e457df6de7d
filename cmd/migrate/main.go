package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"equipos-backend/internal/config"
	"equipos-backend/internal/firebase"
	"equipos-backend/internal/logger"
	"equipos-backend/internal/migration"
	"equipos-backend/internal/repository/firestore"
	"equipos-backend/internal/retry"
)

// legacyJobs read from the relational export.
var legacyJobs = map[string]bool{
	migration.JobFull:        true,
	migration.JobRentals:     true,
	migration.JobExpenses:    true,
	migration.JobAdvances:    true,
	migration.JobMaintenance: true,
}

func main() {
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	job := flag.String("job", "", "Job to run: full, rentals, expenses, advances, maintenance, infer-equipment, normalize-ids, enrich-payments, import-csv")
	commit := flag.Bool("commit", false, "Write to the document store (default is plan mode)")
	threshold := flag.Float64("threshold", 0, "Minimum similarity to propose an equipment match")
	commitThreshold := flag.Float64("commit-threshold", 0, "Minimum similarity to write an equipment match")
	from := flag.String("from", "", "First date (YYYY-MM-DD) for infer-equipment")
	to := flag.String("to", "", "Last date (YYYY-MM-DD) for infer-equipment")
	limit := flag.Int("limit", 0, "Maximum documents processed by infer-equipment")
	project := flag.String("project", "", "Legacy project id (overrides config)")
	csvPath := flag.String("csv", "", "CSV file for import-csv")
	kind := flag.String("kind", "", "CSV kind for import-csv: gastos, pagos_operadores, mantenimientos")
	defaultAccount := flag.String("default-account", "", "Account id for operator payments without one")
	flag.Parse()

	if *job == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)

	opts := migration.OptionsFromConfig(cfg)
	opts.Commit = *commit
	opts.From, opts.To, opts.Limit = *from, *to, *limit
	if *threshold > 0 {
		opts.DetectThreshold = *threshold
	}
	if *commitThreshold > 0 {
		opts.CommitThreshold = *commitThreshold
	}
	if *project != "" {
		opts.ProjectID = *project
	}
	if *defaultAccount != "" {
		opts.DefaultAccountID = *defaultAccount
	}
	logger.Info("Starting migration", "job", *job, "commit", opts.Commit, "project_id", opts.ProjectID)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, _, err := firebase.NewDocStore(ctx, cfg.Firebase)
	if err != nil {
		log.Fatalf("Failed to initialize document store: %v", err)
	}
	store := firestore.NewStore(db)
	defer store.Close()

	var source migration.Source
	if legacyJobs[*job] {
		legacy, err := migration.OpenLegacySource(cfg.Legacy)
		if err != nil {
			logger.Error("Failed to open legacy database", "driver", cfg.Legacy.Driver, "error", err)
			log.Fatalf("Failed to open legacy database: %v", err)
		}
		defer legacy.Close()
		source = legacy
	}

	m := migration.New(source, store.RawRepository, store.LookupRepository, opts,
		retry.FromConfig(cfg.Retry), migration.NewCSVPlanWriter(opts.PlanDir))

	plans, err := runJob(ctx, m, *job, *kind, *csvPath)
	for _, p := range plans {
		report(p)
	}
	if err != nil {
		logger.Error("Migration failed", "job", *job, "error", err)
		os.Exit(1)
	}
	if !opts.Commit {
		fmt.Println("Plan mode: nothing was written. Re-run with -commit to apply.")
	}
}

func runJob(ctx context.Context, m *migration.Migrator, job, kind, csvPath string) ([]*migration.Plan, error) {
	one := func(p *migration.Plan, err error) ([]*migration.Plan, error) {
		if p == nil {
			return nil, err
		}
		return []*migration.Plan{p}, err
	}
	switch job {
	case migration.JobFull:
		return m.Full(ctx)
	case migration.JobRentals:
		return one(m.Rentals(ctx))
	case migration.JobExpenses:
		return one(m.ExpenseSplit(ctx))
	case migration.JobAdvances:
		return one(m.Advances(ctx))
	case migration.JobMaintenance:
		return one(m.Maintenance(ctx))
	case migration.JobInferEquipment:
		return one(m.InferExpenseEquipment(ctx))
	case migration.JobNormalizeIDs:
		return one(m.NormalizeIDs(ctx, migration.DefaultPasses()))
	case migration.JobEnrichPayments:
		return one(m.EnrichOperatorPayments(ctx))
	case migration.JobImportCSV:
		if csvPath == "" || kind == "" {
			return nil, fmt.Errorf("import-csv requires -csv and -kind")
		}
		return one(m.ImportCSV(ctx, kind, csvPath))
	default:
		return nil, fmt.Errorf("unknown job %q", job)
	}
}

func report(p *migration.Plan) {
	fmt.Printf("%s (run %s)\n", p.Job, p.RunID)
	for _, action := range []string{migration.ActionSet, migration.ActionUpdate, migration.ActionReview, migration.ActionPending, migration.ActionSkip} {
		if n := p.Count(action); n > 0 {
			fmt.Printf("  %-8s %d\n", action, n)
		}
	}
	if p.Commit {
		fmt.Printf("  writes   %d in %d batches\n", p.Writes, len(p.Batches))
	}
	if p.PlanFile != "" {
		fmt.Printf("  plan     %s\n", p.PlanFile)
	}
	if p.ResultFile != "" {
		fmt.Printf("  result   %s\n", p.ResultFile)
	}
}
