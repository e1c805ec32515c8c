package inventory

import (
	"fmt"
	"strings"
)

// InventoryType scopes which columns a derived column may use as sources.
// The zero value is not a valid type, so a missing inventory_type is caught.
type InventoryType int

const (
	Property InventoryType = iota + 1
	TaxLot
)

// InventoryTypes lists every inventory type in display order.
var InventoryTypes = []InventoryType{Property, TaxLot}

func (t InventoryType) String() string {
	switch t {
	case Property:
		return "Property"
	case TaxLot:
		return "Tax Lot"
	default:
		return fmt.Sprintf("InventoryType(%d)", int(t))
	}
}

// ParseInventoryType accepts the display name ("Property", "Tax Lot") or the
// storage name ("PropertyState", "TaxLotState").
func ParseInventoryType(s string) (InventoryType, error) {
	switch strings.TrimSpace(s) {
	case "Property", "PropertyState":
		return Property, nil
	case "Tax Lot", "TaxLot", "TaxLotState":
		return TaxLot, nil
	}
	return 0, fmt.Errorf("unknown inventory type %q (supported: Property, Tax Lot)", s)
}

// Valid reports whether t is one of the known inventory types.
func (t InventoryType) Valid() bool {
	return t == Property || t == TaxLot
}

// TableName returns the table name columns of this type are stored under.
func (t InventoryType) TableName() string {
	switch t {
	case Property:
		return "PropertyState"
	case TaxLot:
		return "TaxLotState"
	default:
		return ""
	}
}

func (t InventoryType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *InventoryType) UnmarshalText(b []byte) error {
	v, err := ParseInventoryType(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// Column is any column of an inventory table, physical or derived.
// DerivedDefinitionID is set only when IsDerived is true.
type Column struct {
	ID                  string        `yaml:"id" json:"id"`
	Name                string        `yaml:"name" json:"name"`
	InventoryType       InventoryType `yaml:"inventory_type" json:"inventory_type"`
	IsDerived           bool          `yaml:"is_derived" json:"is_derived"`
	DerivedDefinitionID string        `yaml:"derived_definition_id,omitempty" json:"derived_definition_id,omitempty"`
}

// Parameter is one named input of a derived column definition.
type Parameter struct {
	Name           string `yaml:"parameter_name" json:"parameter_name"`
	SourceColumnID string `yaml:"source_column_id" json:"source_column_id"`
}

// Definition is a derived column definition. ID is empty until persisted.
type Definition struct {
	ID            string        `yaml:"id,omitempty" json:"id,omitempty"`
	Name          string        `yaml:"name" json:"name"`
	Expression    string        `yaml:"expression" json:"expression"`
	InventoryType InventoryType `yaml:"inventory_type" json:"inventory_type"`
	Parameters    []Parameter   `yaml:"parameters" json:"parameters"`
}

// IsNew reports whether the definition has not been persisted yet.
func (d *Definition) IsNew() bool {
	return d.ID == ""
}

// Clone returns a deep copy of the definition.
func (d Definition) Clone() Definition {
	out := d
	out.Parameters = append([]Parameter(nil), d.Parameters...)
	return out
}

// ParameterNames returns the parameter names in insertion order.
func (d *Definition) ParameterNames() []string {
	names := make([]string, len(d.Parameters))
	for i, p := range d.Parameters {
		names[i] = p.Name
	}
	return names
}

// Payload is the body sent to the persistence collaborator.
type Payload struct {
	Name          string        `json:"name"`
	Expression    string        `json:"expression"`
	InventoryType InventoryType `json:"inventory_type"`
	Parameters    []Parameter   `json:"parameters"`
}

// Payload returns the create/update body for the definition.
func (d *Definition) Payload() Payload {
	return Payload{
		Name:          d.Name,
		Expression:    d.Expression,
		InventoryType: d.InventoryType,
		Parameters:    append([]Parameter(nil), d.Parameters...),
	}
}
