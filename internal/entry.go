// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/starford/vocabfix/internal/apperr"
	"github.com/starford/vocabfix/internal/corrector"
	"github.com/starford/vocabfix/internal/reference"
	"github.com/starford/vocabfix/internal/report"
	"github.com/starford/vocabfix/internal/storage"
)

func newApplication(opts []Option) (*application, error) {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return nil, fmt.Errorf("config is required")
	}
	if app.out == nil {
		app.out = os.Stdout
	}
	if app.logger == nil {
		app.logger = NewLogger(app.config.App)
	}
	slog.SetDefault(app.logger)
	return app, nil
}

// NewLogger builds the structured logger. Logs go to stderr so they never
// interleave with the console report on stdout.
func NewLogger(cfg ApplicationConfig) *slog.Logger {
	handlerOpts := &slog.HandlerOptions{Level: cfg.LogLevel}
	if cfg.LogFormat == LogFormatText {
		return slog.New(slog.NewTextHandler(os.Stderr, handlerOpts))
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, handlerOpts))
}

// Run performs one correction pass: load, build the reference map, report,
// correct, report again, save. It returns an error wrapping
// apperr.ErrUnmatched when placeholder records remain unresolved; the
// corrected records are still saved in that case.
func Run(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config
	runID := uuid.NewString()
	logger := app.logger.With(slog.String("run_id", runID))
	started := time.Now()

	logger.Info("Configuration loaded",
		slog.String("driver", cfg.Store.Driver),
		slog.String("placeholder", cfg.Placeholder),
		slog.String("reference", referenceSource(cfg.Reference)),
		slog.Bool("dry_run", cfg.DryRun))

	store, err := openStore(cfg.Store)
	if err != nil {
		return err
	}
	defer store.Close()

	p := report.NewPrinter(app.out, cfg.Report.SampleSize, cfg.Report.Verbose)

	p.Phase("Loading words from %s...", store.Location())
	records, err := store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load records: %w", err)
	}
	p.Phase("Loaded %d words", len(records))

	p.Phase("Building reference map...")
	ref, err := buildReference(cfg.Reference)
	if err != nil {
		return err
	}
	p.Phase("Reference map holds %d words", len(ref))

	p.Distribution("Before correction", report.Tally(records))

	p.Phase("\nCorrecting categories...")
	res := corrector.Apply(records, ref, corrector.WithPlaceholder(cfg.Placeholder))
	p.Corrections(res)
	p.Summary(res)

	p.Distribution("After correction", report.Tally(records))

	logger.Info("Correction pass finished",
		slog.Int("records", len(records)),
		slog.Int("fixed", res.Fixed),
		slog.Int("not_found", res.NotFound))

	if cfg.DryRun {
		p.Phase("\nDry run: %s left unchanged", store.Location())
	} else {
		p.Phase("\nSaving to %s...", store.Location())
		if err := store.Save(ctx, records); err != nil {
			return fmt.Errorf("save records: %w", err)
		}
		p.Phase("Done!")
	}

	if rec, ok := store.(storage.RunRecorder); ok {
		run := storage.Run{
			ID:         runID,
			StartedAt:  started,
			FinishedAt: time.Now(),
			Fixed:      res.Fixed,
			NotFound:   res.NotFound,
			DryRun:     cfg.DryRun,
		}
		if err := rec.RecordRun(ctx, run); err != nil {
			logger.Warn("failed to record run", slog.String("error", err.Error()))
		}
	}

	if res.NotFound > 0 {
		return fmt.Errorf("%w: %d of %d", apperr.ErrUnmatched, res.NotFound, res.Fixed+res.NotFound)
	}
	return nil
}

// Check prints the current category distribution and what a correction pass
// would do, without writing anything.
func Check(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config

	store, err := openStore(cfg.Store)
	if err != nil {
		return err
	}
	defer store.Close()

	p := report.NewPrinter(app.out, cfg.Report.SampleSize, cfg.Report.Verbose)

	p.Phase("Checking categories in %s...", store.Location())
	records, err := store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load records: %w", err)
	}

	table, err := loadTable(cfg.Reference)
	if err != nil {
		return err
	}
	buildOpts := []reference.BuildOption{reference.SkipEmptyWords(cfg.Reference.SkipEmptyWords)}
	ref := reference.Build(table, buildOpts...)

	p.Distribution("Categories", report.Tally(records))
	p.Pending(cfg.Placeholder, corrector.Inspect(records, ref, corrector.WithPlaceholder(cfg.Placeholder)))
	p.Overrides(reference.Overrides(table, buildOpts...))

	app.logger.Debug("check finished", slog.Int("records", len(records)))
	return nil
}

// Import appends the records of a JSON word file to the SQLite store.
func Import(ctx context.Context, from string, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config

	records, err := storage.NewJSONFile(from).Load(ctx)
	if err != nil {
		return fmt.Errorf("load records: %w", err)
	}

	db, err := storage.OpenSQLite(cfg.Store.SQLite.Path)
	if err != nil {
		return err
	}
	defer db.Close()

	n, err := db.Import(ctx, records)
	if err != nil {
		return fmt.Errorf("import records: %w", err)
	}

	fmt.Fprintf(app.out, "Imported %d words from %s into %s\n", n, from, db.Location())
	app.logger.Info("Import finished",
		slog.String("from", from),
		slog.String("sqlite_path", db.Location()),
		slog.Int("records", n))
	return nil
}

// History prints the most recent correction passes recorded in the SQLite store.
func History(ctx context.Context, limit int, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config

	db, err := storage.OpenSQLite(cfg.Store.SQLite.Path)
	if err != nil {
		return err
	}
	defer db.Close()

	runs, err := db.Runs(ctx, limit)
	if err != nil {
		return fmt.Errorf("read run history: %w", err)
	}

	p := report.NewPrinter(app.out, cfg.Report.SampleSize, cfg.Report.Verbose)
	p.Phase("Runs recorded in %s:", db.Location())
	p.Runs(runs)
	return nil
}

func openStore(cfg StoreConfig) (storage.Provider, error) {
	switch cfg.Driver {
	case DriverSQLite:
		db, err := storage.OpenSQLite(cfg.SQLite.Path)
		if err != nil {
			return nil, fmt.Errorf("init storage: %w", err)
		}
		return db, nil
	case DriverJSON, "":
		return storage.NewJSONFile(cfg.JSON.Path), nil
	default:
		return nil, fmt.Errorf("init storage: unknown driver %q", cfg.Driver)
	}
}

func loadTable(cfg ReferenceConfig) (*reference.Table, error) {
	if cfg.Path == "" {
		t, err := reference.DefaultTable()
		if err != nil {
			return nil, fmt.Errorf("load reference table: %w", err)
		}
		return t, nil
	}
	t, err := reference.LoadTableFile(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("load reference table: %w", err)
	}
	return t, nil
}

func buildReference(cfg ReferenceConfig) (reference.Map, error) {
	t, err := loadTable(cfg)
	if err != nil {
		return nil, err
	}
	return reference.Build(t, reference.SkipEmptyWords(cfg.SkipEmptyWords)), nil
}

func referenceSource(cfg ReferenceConfig) string {
	if cfg.Path == "" {
		return "embedded"
	}
	return cfg.Path
}
