package inventory

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Snapshot is a read-only view of every column and derived column definition
// in one organization. It is treated as immutable for a validation pass.
type Snapshot struct {
	Columns     []Column     `yaml:"columns"`
	Definitions []Definition `yaml:"derived_columns"`

	columnsByID     map[string]*Column
	columnsByDefID  map[string]*Column
	definitionsByID map[string]*Definition
}

// NewSnapshot indexes the given columns and definitions.
func NewSnapshot(columns []Column, definitions []Definition) *Snapshot {
	s := &Snapshot{Columns: columns, Definitions: definitions}
	s.index()
	return s
}

func (s *Snapshot) index() {
	s.columnsByID = make(map[string]*Column, len(s.Columns))
	s.columnsByDefID = make(map[string]*Column)
	s.definitionsByID = make(map[string]*Definition, len(s.Definitions))

	for i := range s.Columns {
		c := &s.Columns[i]
		s.columnsByID[c.ID] = c
		if c.IsDerived && c.DerivedDefinitionID != "" {
			s.columnsByDefID[c.DerivedDefinitionID] = c
		}
	}
	for i := range s.Definitions {
		d := &s.Definitions[i]
		s.definitionsByID[d.ID] = d
	}
}

// Column returns the column with the given id, or nil.
func (s *Snapshot) Column(id string) *Column {
	return s.columnsByID[id]
}

// Definition returns the derived column definition with the given id, or nil.
func (s *Snapshot) Definition(id string) *Definition {
	if id == "" {
		return nil
	}
	return s.definitionsByID[id]
}

// ColumnForDefinition returns the column owned by a derived column
// definition, or nil when the definition has no persisted column.
func (s *Snapshot) ColumnForDefinition(definitionID string) *Column {
	if definitionID == "" {
		return nil
	}
	return s.columnsByDefID[definitionID]
}

// ColumnsOfType returns the columns of one inventory type, sorted by name.
func (s *Snapshot) ColumnsOfType(t InventoryType) []Column {
	var out []Column
	for _, c := range s.Columns {
		if c.InventoryType == t {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// LoadFile reads a YAML snapshot file.
func LoadFile(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot file: %w", err)
	}
	return ParseSnapshot(data)
}

// ParseSnapshot decodes a YAML snapshot document.
func ParseSnapshot(data []byte) (*Snapshot, error) {
	var s Snapshot
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing snapshot: %w", err)
	}
	if err := s.check(); err != nil {
		return nil, fmt.Errorf("invalid snapshot: %w", err)
	}
	s.index()
	return &s, nil
}

// check rejects structurally broken snapshots. Dangling references and
// stored cycles are left for the validator and the graph audit to report.
func (s *Snapshot) check() error {
	seen := make(map[string]bool, len(s.Columns))
	for i, c := range s.Columns {
		if c.ID == "" {
			return fmt.Errorf("columns[%d].id is required", i)
		}
		if seen[c.ID] {
			return fmt.Errorf("duplicate column id %q", c.ID)
		}
		seen[c.ID] = true
		if !c.InventoryType.Valid() {
			return fmt.Errorf("column %q has no inventory_type", c.ID)
		}
		if c.IsDerived && c.DerivedDefinitionID == "" {
			return fmt.Errorf("derived column %q has no derived_definition_id", c.ID)
		}
	}
	defs := make(map[string]bool, len(s.Definitions))
	for i, d := range s.Definitions {
		if d.ID == "" {
			return fmt.Errorf("derived_columns[%d].id is required", i)
		}
		if defs[d.ID] {
			return fmt.Errorf("duplicate derived column id %q", d.ID)
		}
		defs[d.ID] = true
		if !d.InventoryType.Valid() {
			return fmt.Errorf("derived column %q has no inventory_type", d.ID)
		}
	}
	return nil
}

// LoadDefinitionFile reads a single derived column definition from YAML.
func LoadDefinitionFile(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading definition file: %w", err)
	}
	var d Definition
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("parsing definition file: %w", err)
	}
	if !d.InventoryType.Valid() {
		return nil, fmt.Errorf("definition file %s: inventory_type is required", path)
	}
	return &d, nil
}
