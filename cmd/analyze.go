package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hurou927/derivedcol/internal/graph"
	"github.com/hurou927/derivedcol/internal/inventory"
)

var (
	analyzeFormat string
	analyzeType   string
	analyzeStrict bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze the derived column dependency graph",
	Long: `Builds the dependency graph of every stored derived column and outputs it in the
specified format, flagging cycles already present in stored data and bindings to
columns that no longer exist.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		snap, cleanup, err := loadSnapshot(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()

		if analyzeType != "" {
			t, err := inventory.ParseInventoryType(analyzeType)
			if err != nil {
				return err
			}
			snap = scopeTo(snap, t)
		}

		g := graph.Build(snap)
		topo := graph.TopoSortAll(g)
		if err := graph.ValidateCycles(g, topo); err != nil {
			logger.Warn("stored derived columns are circular", "error", err)
			if analyzeStrict {
				return err
			}
		}

		switch analyzeFormat {
		case "mermaid":
			return graph.WriteMermaid(os.Stdout, g)
		case "text":
			return graph.WriteText(os.Stdout, g)
		default:
			return fmt.Errorf("unknown format: %s (supported: mermaid, text)", analyzeFormat)
		}
	},
}

// scopeTo keeps the columns and definitions of one inventory type.
func scopeTo(snap *inventory.Snapshot, t inventory.InventoryType) *inventory.Snapshot {
	var defs []inventory.Definition
	for _, d := range snap.Definitions {
		if d.InventoryType == t {
			defs = append(defs, d)
		}
	}
	return inventory.NewSnapshot(snap.ColumnsOfType(t), defs)
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeFormat, "graph-format", "text", "output format: mermaid or text")
	analyzeCmd.Flags().StringVar(&analyzeType, "inventory-type", "", "restrict to one inventory type (Property, Tax Lot)")
	analyzeCmd.Flags().BoolVar(&analyzeStrict, "strict", false, "fail when stored derived columns are circular")
	rootCmd.AddCommand(analyzeCmd)
}
