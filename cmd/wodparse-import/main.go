package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/meltforce/wodparse/internal/config"
	"github.com/meltforce/wodparse/internal/importer"
	"github.com/meltforce/wodparse/internal/models"
	"github.com/meltforce/wodparse/internal/parser"
	"github.com/meltforce/wodparse/internal/storage"
	"github.com/meltforce/wodparse/internal/vocabulary"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	dir := flag.String("path", "", "directory of workout text files (required)")
	dryRun := flag.Bool("dry-run", false, "parse and report counts without saving")
	concurrency := flag.Int("concurrency", importer.DefaultConcurrency, "files parsed in parallel")
	stateDir := flag.String("state-dir", "", "directory for the import state database (default ~/.wodparse-import)")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if *dir == "" {
		fmt.Fprintf(os.Stderr, "Usage: wodparse-import -config config.yaml -path /path/to/workouts [-dry-run] [-concurrency N]\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	info, err := os.Stat(*dir)
	if err != nil || !info.IsDir() {
		log.Error("path does not exist or is not a directory", "path", *dir)
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if !cfg.Database.Enabled() && !*dryRun {
		log.Error("database is not configured; use -dry-run to parse without saving")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if *dryRun {
		log.Info("DRY RUN mode: nothing will be saved")
	}

	var (
		db    *storage.DB
		saver importer.Saver
	)
	if cfg.Database.Enabled() {
		dsn := cfg.Database.DSN()
		if err := storage.RunMigrations(dsn, "migrations"); err != nil {
			log.Error("migration failed", "error", err)
			os.Exit(1)
		}
		db, err = storage.New(ctx, dsn)
		if err != nil {
			log.Error("failed to connect database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		saver = db
		log.Info("database connected")
	}

	var base parser.Vocabulary
	if cfg.Vocabulary.Source == config.VocabularyDatabase {
		base = db.Vocabulary()
	} else if cfg.Vocabulary.CatalogPath != "" {
		base, err = vocabulary.Load(cfg.Vocabulary.CatalogPath)
	} else {
		base, err = vocabulary.Default()
	}
	if err != nil {
		log.Error("failed to load movement catalog", "error", err)
		os.Exit(1)
	}
	vocab, err := vocabulary.NewCached(base, cfg.Vocabulary.CacheSize)
	if err != nil {
		log.Error("failed to create vocabulary cache", "error", err)
		os.Exit(1)
	}
	p, err := parser.New(vocab, log)
	if err != nil {
		log.Error("failed to create parser", "error", err)
		os.Exit(1)
	}

	if *stateDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			log.Error("failed to get home directory", "error", err)
			os.Exit(1)
		}
		*stateDir = filepath.Join(home, ".wodparse-import")
	}
	state, err := importer.OpenStateDB(*stateDir)
	if err != nil {
		log.Error("failed to open state database", "error", err)
		os.Exit(1)
	}
	defer state.Close()

	imp, err := importer.New(p, saver, state, log, importer.Options{Concurrency: *concurrency, DryRun: *dryRun})
	if err != nil {
		log.Error("failed to create importer", "error", err)
		os.Exit(1)
	}

	var logID int64
	if db != nil && !*dryRun {
		logID, err = db.InsertImportLog(ctx, models.ImportLogRow{Source: *dir, Status: "running"})
		if err != nil {
			log.Warn("failed to record import start", "error", err)
		}
	}

	start := time.Now()
	stats, importErr := imp.Import(ctx, *dir)

	if logID != 0 {
		entry := models.ImportLogRow{
			Status:       "success",
			FilesSeen:    stats.FilesSeen,
			FilesParsed:  stats.FilesParsed,
			FilesSkipped: stats.FilesSkipped,
			FilesFailed:  stats.FilesErrored,
		}
		ms := int(time.Since(start).Milliseconds())
		entry.DurationMs = &ms
		if importErr != nil {
			msg := importErr.Error()
			entry.Status = "error"
			entry.ErrorMessage = &msg
		}
		// The run context may already be cancelled.
		if err := db.UpdateImportLog(context.Background(), logID, entry); err != nil {
			log.Warn("failed to record import result", "error", err)
		}
	}

	printStats(log, stats)
	if importErr != nil {
		log.Error("import failed", "error", importErr)
		os.Exit(1)
	}
	log.Info("import complete")
}

func printStats(log *slog.Logger, stats *importer.Stats) {
	log.Info("import stats",
		"files_seen", stats.FilesSeen,
		"files_parsed", stats.FilesParsed,
		"files_skipped", stats.FilesSkipped,
		"files_errored", stats.FilesErrored,
		"workouts_parsed", stats.WorkoutsParsed,
		"workouts_saved", stats.WorkoutsSaved,
		"workouts_unusable", stats.WorkoutsUnusable,
	)
	for _, level := range []parser.ConfidenceLevel{parser.Perfect, parser.High, parser.Medium, parser.Low} {
		if n := stats.ByLevel[level]; n > 0 {
			log.Info("confidence", "level", level, "workouts", n)
		}
	}
	if len(stats.Unresolved) > 0 {
		log.Info("unresolved movements (not in vocabulary)", "names", stats.Unresolved)
	}
}
