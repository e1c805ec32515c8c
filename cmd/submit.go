package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hurou927/derivedcol/internal/db"
	"github.com/hurou927/derivedcol/internal/derived"
	"github.com/hurou927/derivedcol/internal/inventory"
	"github.com/hurou927/derivedcol/internal/output"
	"github.com/hurou927/derivedcol/internal/store"
)

var submitDryRun bool

var submitCmd = &cobra.Command{
	Use:   "submit <definition.yaml>",
	Short: "Validate a definition and save it to PostgreSQL",
	Long: `Validates the definition against the current scope and, only when it has no
errors, creates it (no id) or updates it (with id). The canonical saved definition is
printed as JSON. With --dry-run the payload that would be sent is printed instead.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		def, err := inventory.LoadDefinitionFile(args[0])
		if err != nil {
			return err
		}

		snap, cleanup, err := loadSnapshot(ctx)
		if err != nil {
			return err
		}
		defer cleanup()

		report := derived.New(snap, derived.WithLogger(logger)).Validate(*def)
		if report.AnyErrors() {
			w, err := output.NewWriter(os.Stderr, "text")
			if err != nil {
				return err
			}
			if err := w.WriteResults([]output.Result{{Source: args[0], Definition: *def, Report: report}}); err != nil {
				return err
			}
			cmd.SilenceErrors = true
			return errInvalidDefinitions
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")

		if submitDryRun {
			return enc.Encode(def.Payload())
		}

		if err := cfg.ValidateForDatabase(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}
		pool, err := db.NewPool(ctx, &cfg.Connection)
		if err != nil {
			return fmt.Errorf("connecting to database: %w", err)
		}
		defer pool.Close()

		saved, err := store.New(pool, cfg.OrganizationID, logger).Save(ctx, *def)
		if err != nil {
			return err
		}
		return enc.Encode(saved)
	},
}

func init() {
	submitCmd.Flags().BoolVar(&submitDryRun, "dry-run", false, "print the payload without saving")
	rootCmd.AddCommand(submitCmd)
}
