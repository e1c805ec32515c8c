package derived

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hurou927/derivedcol/internal/inventory"
)

func TestValidIdentifier(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"a", true},
		{"_x9", true},
		{"param_a", true},
		{"GFA2", true},
		{"9x", false},
		{"", false},
		{"a-b", false},
		{"a b", false},
		{"$a", false},
		{"é", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidIdentifier(tt.name))
		})
	}
}

func TestHasDuplicateName(t *testing.T) {
	dup := []inventory.Parameter{{Name: "a"}, {Name: "a"}}
	assert.True(t, HasDuplicateName(dup, 0))
	assert.True(t, HasDuplicateName(dup, 1))

	distinct := []inventory.Parameter{{Name: "a"}, {Name: "b"}}
	assert.False(t, HasDuplicateName(distinct, 0))
	assert.False(t, HasDuplicateName(distinct, 1))

	caseSensitive := []inventory.Parameter{{Name: "a"}, {Name: "A"}}
	assert.False(t, HasDuplicateName(caseSensitive, 0))
}

func TestHasDuplicateSource(t *testing.T) {
	params := []inventory.Parameter{
		{Name: "a", SourceColumnID: "c1"},
		{Name: "b", SourceColumnID: "c1"},
		{Name: "c", SourceColumnID: "c2"},
		{Name: "d"},
		{Name: "e"},
	}
	assert.True(t, HasDuplicateSource(params, 0))
	assert.True(t, HasDuplicateSource(params, 1))
	assert.False(t, HasDuplicateSource(params, 2))
	assert.False(t, HasDuplicateSource(params, 3), "unbound parameters are not duplicates of each other")
}

func TestNextParameterName(t *testing.T) {
	name, err := NextParameterName(nil)
	require.NoError(t, err)
	assert.Equal(t, "param_a", name)

	name, err = NextParameterName([]inventory.Parameter{{Name: "param_a"}, {Name: "param_c"}})
	require.NoError(t, err)
	assert.Equal(t, "param_b", name)

	var all []inventory.Parameter
	for c := 'a'; c <= 'z'; c++ {
		all = append(all, inventory.Parameter{Name: fmt.Sprintf("param_%c", c)})
	}
	_, err = NextParameterName(all)
	assert.ErrorIs(t, err, ErrParameterNamesExhausted)
}
