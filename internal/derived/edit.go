package derived

import (
	"fmt"

	"github.com/hurou927/derivedcol/internal/inventory"
)

// NewBlank returns an unsaved definition with one generated parameter and an
// expression that references it.
func NewBlank(t inventory.InventoryType) inventory.Definition {
	return inventory.Definition{
		InventoryType: t,
		Expression:    "$param_a",
		Parameters:    []inventory.Parameter{{Name: "param_a"}},
	}
}

// AddParameter appends an unbound parameter with the next generated name.
func AddParameter(def inventory.Definition) (inventory.Definition, error) {
	name, err := NextParameterName(def.Parameters)
	if err != nil {
		return def, err
	}
	out := def.Clone()
	out.Parameters = append(out.Parameters, inventory.Parameter{Name: name})
	return out, nil
}

// RemoveParameter drops the parameter at index.
func RemoveParameter(def inventory.Definition, index int) (inventory.Definition, error) {
	if index < 0 || index >= len(def.Parameters) {
		return def, fmt.Errorf("parameter index %d out of range [0,%d)", index, len(def.Parameters))
	}
	out := def.Clone()
	out.Parameters = append(out.Parameters[:index], out.Parameters[index+1:]...)
	return out, nil
}

// SetSource binds the parameter named name to columnID.
func SetSource(def inventory.Definition, name, columnID string) (inventory.Definition, error) {
	out := def.Clone()
	for i := range out.Parameters {
		if out.Parameters[i].Name == name {
			out.Parameters[i].SourceColumnID = columnID
			return out, nil
		}
	}
	return def, fmt.Errorf("no parameter named %q", name)
}

// SetInventoryType switches the definition to t. Existing bindings belong to
// the old type's columns, so the name is cleared and the parameters are
// replaced by a single fresh one. Callers confirm with the user first.
// Setting the current type is a no-op.
func SetInventoryType(def inventory.Definition, t inventory.InventoryType) inventory.Definition {
	if def.InventoryType == t {
		return def.Clone()
	}
	out := def.Clone()
	out.InventoryType = t
	out.Name = ""
	out.Parameters = NewBlank(t).Parameters
	return out
}
