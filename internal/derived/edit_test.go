package derived

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hurou927/derivedcol/internal/inventory"
)

func TestNewBlank_IsValidOnceBoundAndNamed(t *testing.T) {
	def := NewBlank(inventory.Property)
	assert.True(t, def.IsNew())
	assert.Equal(t, []string{"param_a"}, def.ParameterNames())
	assert.Equal(t, "$param_a", def.Expression)

	def.Name = "copy_of_gfa"
	def, err := SetSource(def, "param_a", "gfa")
	require.NoError(t, err)
	assert.False(t, New(fixture()).Validate(def).AnyErrors())
}

func TestAddParameter(t *testing.T) {
	def := NewBlank(inventory.Property)

	next, err := AddParameter(def)
	require.NoError(t, err)
	assert.Equal(t, []string{"param_a", "param_b"}, next.ParameterNames())
	assert.Len(t, def.Parameters, 1, "input is not modified")

	for i := 0; i < 24; i++ {
		next, err = AddParameter(next)
		require.NoError(t, err)
	}
	assert.Len(t, next.Parameters, 26)

	_, err = AddParameter(next)
	assert.ErrorIs(t, err, ErrParameterNamesExhausted)
}

func TestRemoveParameter(t *testing.T) {
	def := *fixture().Definition("d1")

	out, err := RemoveParameter(def, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"y"}, out.ParameterNames())
	assert.Equal(t, []string{"x", "y"}, def.ParameterNames())

	_, err = RemoveParameter(def, 2)
	assert.Error(t, err)
}

func TestSetSource_UnknownParameter(t *testing.T) {
	_, err := SetSource(NewBlank(inventory.Property), "nope", "gfa")
	assert.Error(t, err)
}

func TestSetInventoryType(t *testing.T) {
	def := *fixture().Definition("d1")

	same := SetInventoryType(def, inventory.Property)
	assert.Equal(t, def, same)

	switched := SetInventoryType(def, inventory.TaxLot)
	assert.Equal(t, inventory.TaxLot, switched.InventoryType)
	assert.Empty(t, switched.Name)
	assert.Equal(t, []inventory.Parameter{{Name: "param_a"}}, switched.Parameters)
	assert.Equal(t, def.Expression, switched.Expression)
	assert.Equal(t, "eui", def.Name, "input is not modified")

	report := New(fixture()).Validate(switched)
	assert.True(t, report.Name.InvalidColumnName)
	assert.True(t, report.Parameters[0].InvalidSourceColumn)
}
