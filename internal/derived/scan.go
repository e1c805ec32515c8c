package derived

import (
	"sort"
	"strings"

	"github.com/hurou927/derivedcol/internal/inventory"
)

// reference is one $name occurrence in an expression.
type reference struct {
	Name  string
	Start int // offset of the '$'
	End   int // offset just past the name
}

// scan walks expr and yields every well-formed $name reference in order.
// A reference is '$' followed by the maximal run of identifier characters;
// runs that are not valid identifiers (e.g. "$9x") produce nothing.
func scan(expr string) []reference {
	var refs []reference
	for i := 0; i < len(expr); i++ {
		if expr[i] != '$' {
			continue
		}
		j := i + 1
		for j < len(expr) && isIdentChar(expr[j]) {
			j++
		}
		if name := expr[i+1 : j]; ValidIdentifier(name) {
			refs = append(refs, reference{Name: name, Start: i, End: j})
		}
		i = j - 1
	}
	return refs
}

// ScanReferences returns the distinct parameter names referenced in expr,
// sorted.
func ScanReferences(expr string) []string {
	seen := make(map[string]bool)
	var names []string
	for _, r := range scan(expr) {
		if !seen[r.Name] {
			seen[r.Name] = true
			names = append(names, r.Name)
		}
	}
	sort.Strings(names)
	return names
}

// References reports whether expr contains $name as a whole token.
// "$area" does not match inside "$area2".
func References(expr, name string) bool {
	for _, r := range scan(expr) {
		if r.Name == name {
			return true
		}
	}
	return false
}

// UndeclaredReferences returns the names referenced in expr that are not
// declared parameters, sorted.
func UndeclaredReferences(expr string, params []inventory.Parameter) []string {
	declared := make(map[string]bool, len(params))
	for _, p := range params {
		declared[p.Name] = true
	}
	var out []string
	for _, name := range ScanReferences(expr) {
		if !declared[name] {
			out = append(out, name)
		}
	}
	return out
}

// rewrite replaces every reference with the result of fn.
func rewrite(expr string, fn func(name string) string) string {
	refs := scan(expr)
	if len(refs) == 0 {
		return expr
	}
	var b strings.Builder
	b.Grow(len(expr))
	last := 0
	for _, r := range refs {
		b.WriteString(expr[last:r.Start])
		b.WriteString(fn(r.Name))
		last = r.End
	}
	b.WriteString(expr[last:])
	return b.String()
}
