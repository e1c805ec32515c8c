// Package derived validates derived column definitions: parameter names,
// expression references, source column bindings and column names.
package derived

import (
	"log/slog"
	"strings"

	"github.com/hurou927/derivedcol/internal/inventory"
)

// Validator checks derived column definitions against one snapshot.
type Validator struct {
	snap   *inventory.Snapshot
	logger *slog.Logger
}

// Option configures a Validator.
type Option func(*Validator)

// WithLogger sets the logger used for debug output.
func WithLogger(l *slog.Logger) Option {
	return func(v *Validator) {
		v.logger = l
	}
}

// New creates a Validator over snap. The snapshot must not change while the
// validator is in use.
func New(snap *inventory.Snapshot, opts ...Option) *Validator {
	v := &Validator{
		snap:   snap,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Validate runs every rule over def and returns a fresh report. It never
// stops at the first problem and never modifies def.
func (v *Validator) Validate(def inventory.Definition) Report {
	report := Report{
		Name:       v.checkName(def),
		Expression: v.checkExpression(def),
		Parameters: make([]ParameterErrors, len(def.Parameters)),
	}
	for i := range def.Parameters {
		report.Parameters[i] = v.checkParameter(def, i)
	}

	v.logger.Debug("validated derived column",
		"name", def.Name,
		"id", def.ID,
		"inventory_type", def.InventoryType.String(),
		"parameters", len(def.Parameters),
		"errors", report.Count())

	return report
}

func (v *Validator) checkName(def inventory.Definition) NameErrors {
	if InvalidName(def.Name) {
		return NameErrors{InvalidColumnName: true}
	}
	return NameErrors{
		DuplicateColumnName: NameConflicts(def.Name, v.snap.ColumnsOfType(def.InventoryType), def.ID),
	}
}

func (v *Validator) checkExpression(def inventory.Definition) ExpressionErrors {
	var e ExpressionErrors
	if strings.TrimSpace(def.Expression) == "" {
		e.Empty = true
		return e
	}
	e.Undeclared = UndeclaredReferences(def.Expression, def.Parameters)
	if err := CheckSyntax(def.Expression); err != nil {
		e.Syntax = err.Error()
	}
	return e
}

func (v *Validator) checkParameter(def inventory.Definition, i int) ParameterErrors {
	p := def.Parameters[i]
	var e ParameterErrors

	e.InvalidParameterName = !ValidIdentifier(p.Name)
	e.DuplicateParameterName = HasDuplicateName(def.Parameters, i)
	if !e.InvalidParameterName {
		e.ExpressionMissingParameter = !References(def.Expression, p.Name)
	}

	e.InvalidSourceColumn = !v.eligibleSource(def, p.SourceColumnID)
	e.DuplicateSourceColumn = HasDuplicateSource(def.Parameters, i)
	e.CircularSourceColumn = IsCircular(v.snap, p.SourceColumnID, def.ID)

	return e
}

// eligibleSource reports whether id names a column of the definition's
// inventory type other than the definition's own column.
func (v *Validator) eligibleSource(def inventory.Definition, id string) bool {
	if id == "" {
		return false
	}
	col := v.snap.Column(id)
	if col == nil || col.InventoryType != def.InventoryType {
		return false
	}
	if def.ID != "" && col.IsDerived && col.DerivedDefinitionID == def.ID {
		return false
	}
	return true
}

// EligibleSources returns the columns def may bind parameters to, sorted by
// name. Columns that would close a cycle are left out.
func (v *Validator) EligibleSources(def inventory.Definition) []inventory.Column {
	var out []inventory.Column
	for _, c := range v.snap.ColumnsOfType(def.InventoryType) {
		if !v.eligibleSource(def, c.ID) || IsCircular(v.snap, c.ID, def.ID) {
			continue
		}
		out = append(out, c)
	}
	return out
}
