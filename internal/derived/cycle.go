package derived

import "github.com/hurou927/derivedcol/internal/inventory"

// IsCircular reports whether binding a parameter of the definition identified
// by editingDefinitionID to sourceColumnID would make the definition depend
// on itself, directly or through other derived columns.
//
// A new definition (empty id) has no persisted column, so only a direct
// self-reference could match and none can exist yet.
func IsCircular(snap *inventory.Snapshot, sourceColumnID, editingDefinitionID string) bool {
	src := snap.Column(sourceColumnID)
	if src == nil || !src.IsDerived {
		return false
	}
	if editingDefinitionID != "" && src.DerivedDefinitionID == editingDefinitionID {
		return true
	}

	own := snap.ColumnForDefinition(editingDefinitionID)
	if own == nil {
		return false
	}

	reachable := make(map[string]bool)
	collectReachable(snap, src.DerivedDefinitionID, reachable, make(map[string]bool))
	return reachable[own.ID]
}

// collectReachable adds to reachable every column the definition reads,
// following derived sources transitively. visited holds definition ids
// already expanded so a cycle already present in stored data terminates.
func collectReachable(snap *inventory.Snapshot, definitionID string, reachable, visited map[string]bool) {
	if visited[definitionID] {
		return
	}
	visited[definitionID] = true

	def := snap.Definition(definitionID)
	if def == nil {
		return
	}
	for _, p := range def.Parameters {
		reachable[p.SourceColumnID] = true
		col := snap.Column(p.SourceColumnID)
		if col != nil && col.IsDerived {
			collectReachable(snap, col.DerivedDefinitionID, reachable, visited)
		}
	}
}

