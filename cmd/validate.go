package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hurou927/derivedcol/internal/derived"
	"github.com/hurou927/derivedcol/internal/inventory"
	"github.com/hurou927/derivedcol/internal/output"
)

var validateStored bool

// errInvalidDefinitions makes the process exit non-zero without an extra
// error line; the report already explains the problems.
var errInvalidDefinitions = errors.New("one or more definitions are invalid")

var validateCmd = &cobra.Command{
	Use:   "validate [definition.yaml ...]",
	Short: "Validate derived column definitions and report every problem",
	Long: `Validates each definition file against the column universe and prints a report
per definition. With --stored, every derived column already in the scope is
re-validated instead. Exits non-zero when any definition has errors.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 && !validateStored {
			return fmt.Errorf("pass at least one definition file or --stored")
		}

		snap, cleanup, err := loadSnapshot(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()

		var results []output.Result
		v := derived.New(snap, derived.WithLogger(logger))

		for _, path := range args {
			def, err := inventory.LoadDefinitionFile(path)
			if err != nil {
				return err
			}
			results = append(results, output.Result{Source: path, Definition: *def, Report: v.Validate(*def)})
		}
		if validateStored {
			for _, def := range snap.Definitions {
				results = append(results, output.Result{Source: "stored:" + def.ID, Definition: def, Report: v.Validate(def)})
			}
		}

		w, err := output.NewWriter(os.Stdout, cfg.Output)
		if err != nil {
			return err
		}
		if err := w.WriteResults(results); err != nil {
			return err
		}

		for _, r := range results {
			if r.Report.AnyErrors() {
				cmd.SilenceErrors = true
				return errInvalidDefinitions
			}
		}
		return nil
	},
}

func init() {
	validateCmd.Flags().BoolVar(&validateStored, "stored", false, "also validate every stored derived column")
	rootCmd.AddCommand(validateCmd)
}
