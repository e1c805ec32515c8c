package store

import (
	"fmt"
	"strings"

	"github.com/hurou927/derivedcol/internal/inventory"
)

// buildParameterInsert builds one multi-row INSERT for a definition's
// parameters, keeping their order in the position column.
func buildParameterInsert(definitionID string, params []inventory.Parameter) (string, []any) {
	if len(params) == 0 {
		return "", nil
	}

	rows := make([]string, len(params))
	args := make([]any, 0, len(params)*4)
	argIdx := 1
	for i, p := range params {
		rows[i] = fmt.Sprintf("($%d, $%d, $%d, $%d)", argIdx, argIdx+1, argIdx+2, argIdx+3)
		args = append(args, definitionID, p.Name, p.SourceColumnID, i)
		argIdx += 4
	}

	q := "INSERT INTO derived_column_parameter (derived_column_id, parameter_name, source_column_id, position) VALUES " +
		strings.Join(rows, ", ")
	return q, args
}
