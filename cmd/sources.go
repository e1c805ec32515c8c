package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hurou927/derivedcol/internal/derived"
	"github.com/hurou927/derivedcol/internal/inventory"
)

var sourcesCmd = &cobra.Command{
	Use:   "sources <definition.yaml>",
	Short: "List the columns a definition's parameters may be bound to",
	Long: `Lists the columns of the definition's inventory type that can be used as a
parameter source: the definition's own column and columns that would create a
circular dependency are left out.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		def, err := inventory.LoadDefinitionFile(args[0])
		if err != nil {
			return err
		}

		snap, cleanup, err := loadSnapshot(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()

		v := derived.New(snap, derived.WithLogger(logger))
		for _, col := range v.EligibleSources(*def) {
			kind := "physical"
			if col.IsDerived {
				kind = "derived"
			}
			fmt.Fprintf(os.Stdout, "%s\t%s\t%s\n", col.ID, col.Name, kind)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sourcesCmd)
}
