package derived

import (
	"errors"

	"github.com/hurou927/derivedcol/internal/inventory"
)

// ErrParameterNamesExhausted is returned when param_a through param_z are all
// in use and no further blank parameter can be added.
var ErrParameterNamesExhausted = errors.New("all generated parameter names param_a..param_z are in use")

// ValidIdentifier reports whether name matches [A-Za-z_][A-Za-z0-9_]*.
func ValidIdentifier(name string) bool {
	if name == "" {
		return false
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		if isIdentStart(c) {
			continue
		}
		if i > 0 && isDigit(c) {
			continue
		}
		return false
	}
	return true
}

func isIdentStart(c byte) bool {
	return c == '_' || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

func isIdentChar(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}

// HasDuplicateName reports whether any parameter other than the one at index
// shares its name.
func HasDuplicateName(params []inventory.Parameter, index int) bool {
	for i, p := range params {
		if i != index && p.Name == params[index].Name {
			return true
		}
	}
	return false
}

// HasDuplicateSource reports whether any parameter other than the one at
// index is bound to the same source column. Unbound parameters never match.
func HasDuplicateSource(params []inventory.Parameter, index int) bool {
	src := params[index].SourceColumnID
	if src == "" {
		return false
	}
	for i, p := range params {
		if i != index && p.SourceColumnID == src {
			return true
		}
	}
	return false
}

// NextParameterName returns the first of param_a..param_z not used by params.
func NextParameterName(params []inventory.Parameter) (string, error) {
	used := make(map[string]bool, len(params))
	for _, p := range params {
		used[p.Name] = true
	}
	for c := 'a'; c <= 'z'; c++ {
		name := "param_" + string(c)
		if !used[name] {
			return name, nil
		}
	}
	return "", ErrParameterNamesExhausted
}
