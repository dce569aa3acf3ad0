package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"newsagent/internal/config"
	"newsagent/internal/engine"
	"newsagent/internal/fetcher"
	"newsagent/internal/report"
	"newsagent/internal/storage"
	"newsagent/internal/summarize"
	"newsagent/internal/types"
)

var (
	cfgFile string
	verbose bool
	dbPath  string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "newsagent",
		Short: "newsagent — automated news harvesting pipeline",
		Long: `newsagent harvests news articles from configured sources.

One cycle walks every source's listing pages, discovers article links,
extracts title and body, skips duplicates by URL and content fingerprint,
summarizes (OpenAI, Hugging Face, or local extraction), and stores
everything in an embedded SQLite database.`,
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "database path override")

	rootCmd.AddCommand(runCmd())
	rootCmd.AddCommand(scheduleCmd())
	rootCmd.AddCommand(recentCmd())
	rootCmd.AddCommand(trendingCmd())
	rootCmd.AddCommand(reportCmd())
	rootCmd.AddCommand(exportCmd())
	rootCmd.AddCommand(purgeCmd())
	rootCmd.AddCommand(versionCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// runCmd creates the "run" subcommand: a single harvesting cycle.
func runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run one harvesting cycle across all configured sources",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := buildApp()
			if err != nil {
				return err
			}
			defer app.store.Close()

			ctx, cancel := signalContext()
			defer cancel()

			result, err := app.orch.RunCycle(ctx)
			if err != nil {
				return fmt.Errorf("cycle: %w", err)
			}

			fmt.Printf("Cycle %s in %s\n", result.Status, result.Duration.Round(time.Millisecond))
			fmt.Printf("  New articles:  %d\n", result.TotalNewArticles)
			fmt.Printf("  Duplicates:    %d\n", result.Stats.DuplicatesFound)
			fmt.Printf("  Blocked sites: %d\n", result.Stats.BlockedSites)
			fmt.Printf("  Success rate:  %.1f%%\n", result.Stats.SuccessRate())
			for source, refs := range result.ArticlesBySource {
				fmt.Printf("  %-20s %d\n", source, len(refs))
			}
			return nil
		},
	}
}

// scheduleCmd creates the "schedule" subcommand: repeated cycles.
func scheduleCmd() *cobra.Command {
	var (
		interval string
		maxRuns  int
	)
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Run cycles on an interval until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := buildApp()
			if err != nil {
				return err
			}
			defer app.store.Close()

			if interval != "" {
				d, err := time.ParseDuration(interval)
				if err != nil {
					return fmt.Errorf("invalid interval %q: %w", interval, err)
				}
				app.cfg.Scheduler.Interval = d
			}
			if maxRuns > 0 {
				app.cfg.Scheduler.MaxRuns = maxRuns
			}

			ctx, cancel := signalContext()
			defer cancel()

			sched := engine.NewScheduler(app.cfg.Scheduler, app.orch, app.logger)
			sched.OnCycle = app.autoExport(ctx)
			if err := sched.Start(ctx); err != nil {
				return err
			}

			<-ctx.Done()
			sched.Stop()
			return nil
		},
	}
	cmd.Flags().StringVarP(&interval, "interval", "i", "", "time between cycles (e.g. 2h)")
	cmd.Flags().IntVar(&maxRuns, "max-runs", 0, "stop after N cycles (0 = unlimited)")
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("newsagent %s\n", config.Version)
		},
	}
}

// app bundles the wired collaborators behind every subcommand.
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	store    *storage.Store
	orch     *engine.Orchestrator
	exporter *report.Exporter
	chain    *summarize.Chain
}

func buildApp() (*app, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if dbPath != "" {
		cfg.Storage.Path = dbPath
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}
	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	logger := setupLogger(cfg.Logging)

	store, err := storage.Open(cfg.Storage.Path, logger)
	if err != nil {
		return nil, err
	}

	f, err := fetcher.New(&cfg.Fetcher, logger)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("create fetcher: %w", err)
	}

	chain := summarize.NewChain(&cfg.Summarizer, logger)
	orch := engine.New(cfg, f, store, chain, logger)
	exporter := report.NewExporter(store, cfg.Storage.ExportDir, logger)

	return &app{
		cfg:      cfg,
		logger:   logger,
		store:    store,
		orch:     orch,
		exporter: exporter,
		chain:    chain,
	}, nil
}

// autoExport returns the scheduler hook that writes a JSON export after any
// cycle that produced ten or more new articles.
func (a *app) autoExport(ctx context.Context) func(result *types.CycleResult) {
	return func(result *types.CycleResult) {
		if result.TotalNewArticles < 10 {
			return
		}
		path, err := a.exporter.ExportJSON(ctx, 24*time.Hour, a.chain.Method())
		if err != nil {
			a.logger.Error("auto-export failed", "error", err)
			return
		}
		a.logger.Info("auto-export written", "path", path)
	}
}

// setupLogger creates the process logger from config.
func setupLogger(cfg config.LoggingConfig) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	return slog.New(handler)
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}
