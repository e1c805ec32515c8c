package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/hurou927/derivedcol/internal/derived"
	"github.com/hurou927/derivedcol/internal/inventory"
)

var (
	newType     string
	newName     string
	newParams   int
	newBindings []string
)

var newCmd = &cobra.Command{
	Use:   "new",
	Short: "Print a blank derived column definition as YAML",
	Long: `Prints a new, unsaved definition with generated parameter names (param_a,
param_b, ...) ready to be edited and passed to validate or submit. Bindings are
given as --bind param_a=<column id>.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := inventory.ParseInventoryType(newType)
		if err != nil {
			return err
		}

		def := derived.NewBlank(t)
		def.Name = newName
		for i := 1; i < newParams; i++ {
			if def, err = derived.AddParameter(def); err != nil {
				return err
			}
		}
		refs := make([]string, len(def.Parameters))
		for i, p := range def.Parameters {
			refs[i] = "$" + p.Name
		}
		def.Expression = strings.Join(refs, " + ")

		for _, b := range newBindings {
			name, col, ok := strings.Cut(b, "=")
			if !ok {
				return fmt.Errorf("invalid --bind %q (want param=column_id)", b)
			}
			if def, err = derived.SetSource(def, name, col); err != nil {
				return err
			}
		}

		enc := yaml.NewEncoder(os.Stdout)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(def)
	},
}

func init() {
	newCmd.Flags().StringVar(&newType, "inventory-type", "Property", "inventory type: Property or Tax Lot")
	newCmd.Flags().StringVar(&newName, "name", "", "column name")
	newCmd.Flags().IntVar(&newParams, "params", 1, "number of parameters to generate")
	newCmd.Flags().StringArrayVar(&newBindings, "bind", nil, "bind a parameter to a source column: param_a=<column id>")
	rootCmd.AddCommand(newCmd)
}
