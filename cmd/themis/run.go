package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"mercator-hq/themis/pkg/audit"
	"mercator-hq/themis/pkg/config"
	"mercator-hq/themis/pkg/mrl/parser"
	"mercator-hq/themis/pkg/policy/engine"
	"mercator-hq/themis/pkg/policy/engine/source"
	"mercator-hq/themis/pkg/policy/store"
	"mercator-hq/themis/pkg/server"
	"mercator-hq/themis/pkg/telemetry/logging"
	"mercator-hq/themis/pkg/telemetry/metrics"
)

var runFlags struct {
	listenAddress string
	rulesPath     string
	logLevel      string
	dryRun        bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the Themis decision server",
	Long: `Start the Themis decision server with the specified configuration.

The server loads the configured ruleset, optionally watches it for changes,
and serves decisions over HTTP while recording every decision to the audit
log.

Examples:
  # Start with default config
  themis run

  # Start with custom config
  themis run --config /etc/themis/config.yaml

  # Override listen address and ruleset
  themis run --listen 0.0.0.0:8458 --rules /etc/themis/rules.yaml

  # Validate config without starting the server
  themis run --dry-run`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runFlags.listenAddress, "listen", "l", "", "override listen address")
	runCmd.Flags().StringVar(&runFlags.rulesPath, "rules", "", "override ruleset file path")
	runCmd.Flags().StringVar(&runFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	runCmd.Flags().BoolVar(&runFlags.dryRun, "dry-run", false, "validate config without starting server")
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Apply flag overrides
	if runFlags.listenAddress != "" {
		cfg.Server.ListenAddress = runFlags.listenAddress
	}
	if runFlags.rulesPath != "" {
		cfg.Rules.Path = runFlags.rulesPath
	}
	if runFlags.logLevel != "" {
		cfg.Telemetry.Logging.Level = runFlags.logLevel
	}
	if verbose {
		cfg.Telemetry.Logging.Level = "debug"
	}

	if _, err := logging.Setup(logging.Config{
		Level:     cfg.Telemetry.Logging.Level,
		Format:    cfg.Telemetry.Logging.Format,
		AddSource: cfg.Telemetry.Logging.AddSource,
	}); err != nil {
		return fmt.Errorf("failed to configure logging: %w", err)
	}

	if runFlags.dryRun {
		fmt.Println("✓ Configuration valid")
		return nil
	}

	fmt.Printf("Mercator Themis v%s\n", Version)
	fmt.Printf("Loading configuration from: %s\n", cfgFile)
	fmt.Println("✓ Configuration loaded")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Metrics collector
	collector := metrics.NewCollector(metrics.Config{
		Enabled: cfg.Telemetry.Metrics.Enabled,
	}, nil)

	// Rule engine over the configured ruleset file
	ruleSource := source.NewFileSource(cfg.Rules.Path).
		WithParser(parser.NewParser().WithMaxRuleLength(cfg.Rules.MaxRuleLength))
	eng, err := engine.NewInterpreterEngine(ctx, ruleSource, slog.Default())
	if err != nil {
		for i := engine.CompileErrorCount(err); i > 0; i-- {
			collector.Engine().RecordParseError()
		}
		return fmt.Errorf("failed to load ruleset: %w", err)
	}
	defer eng.Close()
	collector.Engine().RecordReload("success", eng.RuleSet().Len())
	fmt.Printf("✓ Ruleset loaded (%d rules from %s)\n", eng.RuleSet().Len(), cfg.Rules.Path)

	// Revision store keeps the raw source of every loaded ruleset
	var revisions *store.RevisionStore
	if cfg.Store.Enabled {
		revisions, err = store.Open(cfg.Store.Path)
		if err != nil {
			return fmt.Errorf("failed to open revision store: %w", err)
		}
		defer revisions.Close()
		saveRevision(ctx, revisions, eng.RuleSet())
		fmt.Println("✓ Revision store initialized")
	}

	// Ruleset hot reload
	if cfg.Rules.Watch {
		watcher, err := engine.NewWatcher(cfg.Rules.Path, cfg.Rules.DebounceInterval, slog.Default())
		if err != nil {
			return fmt.Errorf("failed to create ruleset watcher: %w", err)
		}
		defer watcher.Stop()

		go watcher.Watch(ctx, func() error {
			if err := eng.Reload(ctx); err != nil {
				collector.Engine().RecordReload("failure", 0)
				for i := engine.CompileErrorCount(err); i > 0; i-- {
					collector.Engine().RecordParseError()
				}
				return err
			}
			rs := eng.RuleSet()
			collector.Engine().RecordReload("success", rs.Len())
			if revisions != nil {
				saveRevision(ctx, revisions, rs)
			}
			return nil
		})
		fmt.Println("✓ Ruleset watcher started")
	}

	// Audit recording
	var recorder *audit.Recorder
	if cfg.Audit.Enabled {
		var auditStorage audit.Storage
		switch cfg.Audit.Backend {
		case "sqlite":
			auditStorage, err = audit.NewSQLiteStorage(&audit.SQLiteConfig{
				Path:         cfg.Audit.SQLite.Path,
				MaxOpenConns: cfg.Audit.SQLite.MaxOpenConns,
				MaxIdleConns: cfg.Audit.SQLite.MaxIdleConns,
				WALMode:      cfg.Audit.SQLite.WALMode,
				BusyTimeout:  cfg.Audit.SQLite.BusyTimeout,
			})
			if err != nil {
				return fmt.Errorf("failed to create audit storage: %w", err)
			}
		case "memory":
			auditStorage = audit.NewMemoryStorage()
		default:
			return fmt.Errorf("unsupported audit backend: %s", cfg.Audit.Backend)
		}
		defer auditStorage.Close()

		recorder = audit.NewRecorder(auditStorage, &audit.RecorderConfig{
			Enabled:      true,
			AsyncBuffer:  cfg.Audit.AsyncBuffer,
			WriteTimeout: cfg.Audit.WriteTimeout,
			OnDrop:       collector.Engine().RecordAuditDrop,
		})
		defer recorder.Close()

		if cfg.Audit.Retention.PruneSchedule != "" {
			pruner := audit.NewPruner(auditStorage, &audit.RetentionConfig{
				RetentionDays: cfg.Audit.Retention.Days,
				MaxRecords:    cfg.Audit.Retention.MaxRecords,
				PruneSchedule: cfg.Audit.Retention.PruneSchedule,
			})
			if err := pruner.Start(ctx); err != nil {
				slog.Warn("failed to start retention scheduler", "error", err)
			} else {
				defer pruner.Stop()
			}
		}

		fmt.Printf("✓ Audit log initialized (%s backend)\n", cfg.Audit.Backend)
	}

	srv, err := server.NewServer(server.Options{
		Config:      &cfg.Server,
		Engine:      eng,
		Recorder:    recorder,
		Collector:   collector,
		MetricsPath: cfg.Telemetry.Metrics.Path,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	fmt.Println()
	fmt.Printf("✓ Server listening on %s\n", cfg.Server.ListenAddress)
	fmt.Printf("✓ Decision endpoint: http://%s/v1/decisions\n", cfg.Server.ListenAddress)
	if cfg.Telemetry.Metrics.Enabled {
		fmt.Printf("✓ Metrics endpoint: http://%s%s\n", cfg.Server.ListenAddress, cfg.Telemetry.Metrics.Path)
	}
	fmt.Println("\nPress Ctrl+C to stop")

	// Blocks until a shutdown signal or context cancellation.
	return srv.Start(ctx)
}

func saveRevision(ctx context.Context, revisions *store.RevisionStore, rs *engine.RuleSet) {
	if _, err := revisions.Save(ctx, &store.Revision{
		RuleSet:   rs.Name,
		Version:   rs.Version,
		RuleCount: rs.Len(),
		Source:    rs.SourceData,
	}); err != nil {
		slog.Warn("failed to record ruleset revision", "error", err)
	}
}
