package derived

import (
	"fmt"
	"strings"
)

// ParameterErrors holds the validation flags of one parameter.
type ParameterErrors struct {
	InvalidParameterName       bool `json:"invalid_parameter_name"`
	DuplicateParameterName     bool `json:"duplicate_parameter_name"`
	InvalidSourceColumn        bool `json:"invalid_source_column"`
	DuplicateSourceColumn      bool `json:"duplicate_source_column"`
	CircularSourceColumn       bool `json:"circular_source_column"`
	ExpressionMissingParameter bool `json:"expression_missing_parameter"`
}

// Any reports whether any flag is set.
func (e ParameterErrors) Any() bool {
	return e.InvalidParameterName ||
		e.DuplicateParameterName ||
		e.InvalidSourceColumn ||
		e.DuplicateSourceColumn ||
		e.CircularSourceColumn ||
		e.ExpressionMissingParameter
}

// Flags returns the names of the set flags in a fixed order.
func (e ParameterErrors) Flags() []string {
	var out []string
	add := func(set bool, name string) {
		if set {
			out = append(out, name)
		}
	}
	add(e.InvalidParameterName, "invalid_parameter_name")
	add(e.DuplicateParameterName, "duplicate_parameter_name")
	add(e.InvalidSourceColumn, "invalid_source_column")
	add(e.DuplicateSourceColumn, "duplicate_source_column")
	add(e.CircularSourceColumn, "circular_source_column")
	add(e.ExpressionMissingParameter, "expression_missing_parameter")
	return out
}

// ExpressionErrors holds the definition-level expression problems.
type ExpressionErrors struct {
	Empty      bool     `json:"empty"`
	Undeclared []string `json:"undeclared,omitempty"`
	Syntax     string   `json:"syntax,omitempty"`
}

// Any reports whether the expression has any definition-level error.
func (e ExpressionErrors) Any() bool {
	return e.Empty || len(e.Undeclared) > 0 || e.Syntax != ""
}

// Message returns the user-facing expression error, or "" when there is none.
func (e ExpressionErrors) Message() string {
	var parts []string
	if e.Empty {
		parts = append(parts, "Expression cannot be empty")
	}
	if len(e.Undeclared) > 0 {
		refs := make([]string, len(e.Undeclared))
		for i, name := range e.Undeclared {
			refs[i] = "$" + name
		}
		parts = append(parts, fmt.Sprintf("Expression references undeclared parameters: %s", strings.Join(refs, ", ")))
	}
	if e.Syntax != "" {
		parts = append(parts, e.Syntax)
	}
	return strings.Join(parts, "; ")
}

// NameErrors holds the column-name flags.
type NameErrors struct {
	InvalidColumnName   bool `json:"invalid_column_name"`
	DuplicateColumnName bool `json:"duplicate_column_name"`
}

// Any reports whether any flag is set.
func (e NameErrors) Any() bool {
	return e.InvalidColumnName || e.DuplicateColumnName
}

// Report is the result of one validation pass. It is a fresh value on every
// call; callers compare reports rather than mutate them.
type Report struct {
	Name       NameErrors        `json:"name"`
	Expression ExpressionErrors  `json:"expression"`
	Parameters []ParameterErrors `json:"parameters"`
}

// AnyErrors reports whether any flag or message in the report is set.
// It gates submission.
func (r Report) AnyErrors() bool {
	if r.Name.Any() || r.Expression.Any() {
		return true
	}
	for _, p := range r.Parameters {
		if p.Any() {
			return true
		}
	}
	return false
}

// Count returns the number of set flags and messages.
func (r Report) Count() int {
	n := 0
	if r.Name.InvalidColumnName {
		n++
	}
	if r.Name.DuplicateColumnName {
		n++
	}
	if r.Expression.Empty {
		n++
	}
	n += len(r.Expression.Undeclared)
	if r.Expression.Syntax != "" {
		n++
	}
	for _, p := range r.Parameters {
		n += len(p.Flags())
	}
	return n
}
