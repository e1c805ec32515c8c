package derived

import (
	"strings"

	"github.com/hurou927/derivedcol/internal/inventory"
)

// NameConflicts reports whether candidate equals the name of a column that
// is not the column owned by excludingDefinitionID. columns must already be
// filtered to the definition's inventory type. Names are case-sensitive.
func NameConflicts(candidate string, columns []inventory.Column, excludingDefinitionID string) bool {
	for _, c := range columns {
		if c.Name != candidate {
			continue
		}
		if excludingDefinitionID != "" && c.IsDerived && c.DerivedDefinitionID == excludingDefinitionID {
			continue
		}
		return true
	}
	return false
}

// InvalidName reports whether a column name is empty or blank.
func InvalidName(name string) bool {
	return strings.TrimSpace(name) == ""
}
