// cmd/scrape/main.go
// Harvests races, horses and registry rankings into PostgreSQL.
//
// Usage:
//
//	go run ./cmd/scrape races --start-year 2020 --end-year 2024 --grade 1
//	go run ./cmd/scrape horses --grade 4 --min-birth-year 2015
//	go run ./cmd/scrape registry jockey trainer --limit 300
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/padraicbc/keibadb/config"
	"github.com/padraicbc/keibadb/db"
	"github.com/padraicbc/keibadb/extract"
	"github.com/padraicbc/keibadb/fetch"
	applog "github.com/padraicbc/keibadb/logger"
	"github.com/padraicbc/keibadb/scraper"
	"github.com/padraicbc/keibadb/storage"
	"github.com/padraicbc/keibadb/validate"
)

var rootFlags struct {
	dryRun       bool
	skipExisting bool
	maxPages     int
	debug        bool
	jsonOut      bool
}

var rootCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Harvest netkeiba pages into the database",
	Long: `Fetches race, horse and registry pages one at a time, extracts their
records, validates them and upserts them.

Connection and pacing settings come from the environment or a .env file
(DATABASE_URL, SCRAPE_DELAY, FETCH_RETRIES, STRICT_VALIDATION, ...).`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&rootFlags.dryRun, "dry-run", false, "keep records in memory instead of writing to the database")
	rootCmd.PersistentFlags().BoolVar(&rootFlags.skipExisting, "skip-existing", false, "skip detail pages whose record is already stored")
	rootCmd.PersistentFlags().IntVar(&rootFlags.maxPages, "max-pages", scraper.DefaultMaxPages, "upper bound on list pages per run")
	rootCmd.PersistentFlags().BoolVar(&rootFlags.debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&rootFlags.jsonOut, "json", false, "print each run's tally as JSON on stdout")

	rootCmd.AddCommand(createTablesCmd)
}

// env is everything a sub-command needs to run.
type env struct {
	cfg   *config.Config
	log   *zap.Logger
	deps  scraper.Deps
	opts  scraper.Options
	close func()
}

func setup() (*env, error) {
	cfg := config.Load()
	debug := cfg.Debug || rootFlags.debug
	logger, err := applog.NewConsole(debug)
	if err != nil {
		return nil, err
	}
	zap.ReplaceGlobals(logger)

	e := &env{
		cfg: cfg,
		log: logger,
		opts: scraper.Options{
			SkipExisting: rootFlags.skipExisting,
			MaxPages:     rootFlags.maxPages,
		},
		close: func() { _ = logger.Sync() },
	}

	var store storage.Store
	if rootFlags.dryRun {
		logger.Info("dry run, records stay in memory")
		store = storage.NewMemory()
	} else {
		bdb := db.Setup(cfg)
		if err := db.CreateTables(context.Background(), bdb); err != nil {
			bdb.Close()
			return nil, err
		}
		store = storage.New(bdb)
		e.close = func() {
			bdb.Close()
			_ = logger.Sync()
		}
	}

	e.deps = scraper.Deps{
		Fetcher:   fetch.New(fetch.OptionsFromConfig(cfg), logger),
		Store:     store,
		Extractor: extract.New(extract.Options{StrictTables: cfg.StrictTables}),
		Policy:    validate.Policy{Strict: cfg.StrictValidation, RequireDistance: cfg.RequireDistance},
		Log:       logger,
	}
	return e, nil
}

// report logs a finished run and optionally prints it.
func (e *env) report(t scraper.Tally) error {
	e.log.Info("run finished", t.Fields()...)
	for _, f := range t.Failures {
		e.log.Warn("failed item", zap.String("kind", t.Kind), zap.String("id", f.ID), zap.String("reason", f.Reason))
	}
	if !rootFlags.jsonOut {
		return nil
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(t)
}

var createTablesCmd = &cobra.Command{
	Use:   "create-tables",
	Short: "Create any missing tables and exit",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg := config.Load()
		bdb := db.Setup(cfg)
		defer bdb.Close()
		if err := db.CreateTables(cmd.Context(), bdb); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d tables ready\n", len(db.Models))
		return nil
	},
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
