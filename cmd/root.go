package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/hurou927/derivedcol/internal/config"
	"github.com/hurou927/derivedcol/internal/db"
	"github.com/hurou927/derivedcol/internal/inventory"
	"github.com/hurou927/derivedcol/internal/logging"
)

var (
	cfgPath      string
	snapshotPath string
	formatFlag   string
	logLevel     string
	cfg          *config.Config
	logger       *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "derivedcol",
	Short: "Validate derived column definitions against an inventory scope",
	Long: `derivedcol checks derived column definitions (an arithmetic expression over
named parameters bound to other columns) before they are saved: parameter names,
expression references, source column bindings, circular dependencies through other
derived columns, and column name collisions.

The column universe is read from PostgreSQL or from a YAML snapshot file.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if cfgPath != "" {
			cfg, err = config.Load(cfgPath)
			if err != nil {
				return err
			}
		} else {
			cfg = config.Default()
		}

		if snapshotPath != "" {
			cfg.UseSnapshotFile(snapshotPath)
		}
		if cmd.Flags().Changed("format") {
			cfg.Output = formatFlag
		}
		if cmd.Flags().Changed("log-level") {
			cfg.Log.Level = logLevel
		}

		logger, err = logging.New(cfg.Log.Level, cfg.Log.Format)
		if err != nil {
			return err
		}
		slog.SetDefault(logger)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to YAML config file")
	rootCmd.PersistentFlags().StringVar(&snapshotPath, "snapshot", "", "read columns from a YAML snapshot file instead of PostgreSQL")
	rootCmd.PersistentFlags().StringVar(&formatFlag, "format", "text", "output format")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
}

// Execute runs the root command.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

// loadSnapshot reads the column universe from the configured source. The
// returned cleanup closes any database pool that was opened.
func loadSnapshot(ctx context.Context) (*inventory.Snapshot, func(), error) {
	if cfg.Snapshot.Source == config.SourceFile {
		snap, err := inventory.LoadFile(cfg.Snapshot.Path)
		if err != nil {
			return nil, nil, err
		}
		logger.Debug("loaded snapshot file", "path", cfg.Snapshot.Path, "columns", len(snap.Columns))
		return snap, func() {}, nil
	}

	if err := cfg.ValidateForDatabase(); err != nil {
		return nil, nil, fmt.Errorf("invalid config: %w", err)
	}
	pool, err := db.NewPool(ctx, &cfg.Connection)
	if err != nil {
		return nil, nil, fmt.Errorf("connecting to database: %w", err)
	}
	snap, err := inventory.Load(ctx, pool, cfg.OrganizationID)
	if err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("loading inventory catalog: %w", err)
	}
	return snap, pool.Close, nil
}
