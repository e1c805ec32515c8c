package derived

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hurou927/derivedcol/internal/inventory"
	"github.com/hurou927/derivedcol/internal/testutil"
)

// fixture builds a Property scope with two physical columns (gfa, area),
// two derived columns c1 (d1) and c2 (d2) where d2 reads c1, and one tax lot
// column.
func fixture() *inventory.Snapshot {
	columns := []inventory.Column{
		{ID: "gfa", Name: "gross_floor_area", InventoryType: inventory.Property},
		{ID: "area", Name: "site_area", InventoryType: inventory.Property},
		{ID: "c1", Name: "eui", InventoryType: inventory.Property, IsDerived: true, DerivedDefinitionID: "d1"},
		{ID: "c2", Name: "eui_scaled", InventoryType: inventory.Property, IsDerived: true, DerivedDefinitionID: "d2"},
		{ID: "lot", Name: "lot_area", InventoryType: inventory.TaxLot},
	}
	defs := []inventory.Definition{
		{
			ID: "d1", Name: "eui", Expression: "$x / $y", InventoryType: inventory.Property,
			Parameters: []inventory.Parameter{{Name: "x", SourceColumnID: "gfa"}, {Name: "y", SourceColumnID: "area"}},
		},
		{
			ID: "d2", Name: "eui_scaled", Expression: "$e * 100", InventoryType: inventory.Property,
			Parameters: []inventory.Parameter{{Name: "e", SourceColumnID: "c1"}},
		},
	}
	return inventory.NewSnapshot(columns, defs)
}

func TestIsCircular(t *testing.T) {
	snap := fixture()

	t.Run("physical source", func(t *testing.T) {
		assert.False(t, IsCircular(snap, "gfa", "d1"))
	})
	t.Run("direct self reference", func(t *testing.T) {
		assert.True(t, IsCircular(snap, "c1", "d1"))
	})
	t.Run("transitive", func(t *testing.T) {
		// d2 reads c1, so d1 reading c2 closes c1 -> c2 -> c1.
		assert.True(t, IsCircular(snap, "c2", "d1"))
	})
	t.Run("acyclic derived source", func(t *testing.T) {
		assert.False(t, IsCircular(snap, "c1", "d2"))
	})
	t.Run("new definition", func(t *testing.T) {
		assert.False(t, IsCircular(snap, "c1", ""))
		assert.False(t, IsCircular(snap, "c2", ""))
	})
	t.Run("unknown source", func(t *testing.T) {
		assert.False(t, IsCircular(snap, "missing", "d1"))
	})
	t.Run("idempotent", func(t *testing.T) {
		assert.Equal(t, IsCircular(snap, "c2", "d1"), IsCircular(snap, "c2", "d1"))
	})
}

func TestIsCircular_LatentStoredCycle(t *testing.T) {
	// d1 and d2 already read each other in stored data; d3 is being edited.
	columns := []inventory.Column{
		{ID: "c1", Name: "a", IsDerived: true, DerivedDefinitionID: "d1"},
		{ID: "c2", Name: "b", IsDerived: true, DerivedDefinitionID: "d2"},
		{ID: "c3", Name: "c", IsDerived: true, DerivedDefinitionID: "d3"},
	}
	defs := []inventory.Definition{
		{ID: "d1", Parameters: []inventory.Parameter{{Name: "p", SourceColumnID: "c2"}}},
		{ID: "d2", Parameters: []inventory.Parameter{{Name: "p", SourceColumnID: "c1"}}},
		{ID: "d3"},
	}
	snap := inventory.NewSnapshot(columns, defs)

	assert.False(t, IsCircular(snap, "c1", "d3"))
	assert.True(t, IsCircular(snap, "c1", "d2"))
}

func TestNameConflicts(t *testing.T) {
	cols := fixture().ColumnsOfType(inventory.Property)

	assert.True(t, NameConflicts("gross_floor_area", cols, ""), "physical column name")
	assert.True(t, NameConflicts("gross_floor_area", cols, "d1"))
	assert.False(t, NameConflicts("eui", cols, "d1"), "own prior name")
	assert.True(t, NameConflicts("eui", cols, "d2"))
	assert.True(t, NameConflicts("eui", cols, ""))
	assert.False(t, NameConflicts("EUI", cols, ""), "names are case-sensitive")
	assert.False(t, NameConflicts("lot_area", cols, ""), "other inventory type")

	assert.True(t, InvalidName(""))
	assert.True(t, InvalidName("  "))
	assert.False(t, InvalidName("eui_check"))
}

func TestValidate_EndToEnd(t *testing.T) {
	v := New(fixture(), WithLogger(testutil.NewTestLogger(t)))
	def := inventory.Definition{
		Name:          "eui_check",
		Expression:    "$x / $y",
		InventoryType: inventory.Property,
		Parameters: []inventory.Parameter{
			{Name: "x", SourceColumnID: "gfa"},
			{Name: "y", SourceColumnID: "area"},
		},
	}

	report := v.Validate(def)
	assert.False(t, report.AnyErrors())
	assert.Equal(t, 0, report.Count())
	assert.Len(t, report.Parameters, 2)
	assert.Empty(t, report.Expression.Message())
}

func TestValidate_ConsistencyRoundTrip(t *testing.T) {
	v := New(fixture())
	def := inventory.Definition{
		Name:          "sum",
		Expression:    "$a + $b",
		InventoryType: inventory.Property,
		Parameters: []inventory.Parameter{
			{Name: "a", SourceColumnID: "gfa"},
			{Name: "b", SourceColumnID: "area"},
		},
	}
	require.False(t, v.Validate(def).AnyErrors())

	def.Expression = "$a * 2"
	report := v.Validate(def)
	assert.True(t, report.AnyErrors())
	assert.False(t, report.Parameters[0].ExpressionMissingParameter)
	assert.True(t, report.Parameters[1].ExpressionMissingParameter)
	assert.Equal(t, []string{"expression_missing_parameter"}, report.Parameters[1].Flags())
	assert.False(t, report.Expression.Any())

	def.Expression = "$a + $b + $c"
	report = v.Validate(def)
	assert.True(t, report.AnyErrors())
	assert.Equal(t, []string{"c"}, report.Expression.Undeclared)
	assert.Contains(t, report.Expression.Message(), "$c")
	for _, p := range report.Parameters {
		assert.False(t, p.Any())
	}
}

func TestValidate_ReportsEveryProblem(t *testing.T) {
	v := New(fixture(), WithLogger(testutil.NewTestLogger(t)))
	def := inventory.Definition{
		ID:            "d1",
		Name:          "gross_floor_area",
		Expression:    "$x + $x + $q",
		InventoryType: inventory.Property,
		Parameters: []inventory.Parameter{
			{Name: "x", SourceColumnID: "c2"},
			{Name: "x", SourceColumnID: "c2"},
			{Name: "9bad", SourceColumnID: "lot"},
			{Name: "unused"},
		},
	}

	report := v.Validate(def)

	assert.Equal(t, NameErrors{DuplicateColumnName: true}, report.Name)
	assert.Equal(t, []string{"q"}, report.Expression.Undeclared)

	assert.Equal(t, ParameterErrors{
		DuplicateParameterName: true,
		DuplicateSourceColumn:  true,
		CircularSourceColumn:   true,
	}, report.Parameters[0])
	assert.Equal(t, report.Parameters[0], report.Parameters[1])

	assert.Equal(t, ParameterErrors{
		InvalidParameterName: true,
		InvalidSourceColumn:  true,
	}, report.Parameters[2], "invalid names skip the expression check; tax lot column is ineligible")

	assert.Equal(t, ParameterErrors{
		InvalidSourceColumn:        true,
		ExpressionMissingParameter: true,
	}, report.Parameters[3])
}

func TestValidate_OwnColumnIsInvalidAndCircular(t *testing.T) {
	v := New(fixture())
	def := fixture().Definition("d1").Clone()
	def.Parameters[0].SourceColumnID = "c1"

	report := v.Validate(def)
	assert.True(t, report.Parameters[0].InvalidSourceColumn)
	assert.True(t, report.Parameters[0].CircularSourceColumn)
	assert.False(t, report.Name.Any(), "a definition may keep its own name")
}

func TestValidate_EmptyExpressionAndName(t *testing.T) {
	v := New(fixture())
	def := inventory.Definition{
		Name:          " ",
		Expression:    "  \t",
		InventoryType: inventory.Property,
		Parameters:    []inventory.Parameter{{Name: "a", SourceColumnID: "gfa"}},
	}

	report := v.Validate(def)
	assert.True(t, report.Name.InvalidColumnName)
	assert.False(t, report.Name.DuplicateColumnName)
	assert.True(t, report.Expression.Empty)
	assert.Equal(t, "Expression cannot be empty", report.Expression.Message())
	assert.True(t, report.Parameters[0].ExpressionMissingParameter)
}

func TestValidate_SyntaxError(t *testing.T) {
	v := New(fixture())
	def := inventory.Definition{
		Name:          "broken",
		Expression:    "$a +",
		InventoryType: inventory.Property,
		Parameters:    []inventory.Parameter{{Name: "a", SourceColumnID: "gfa"}},
	}

	report := v.Validate(def)
	assert.True(t, report.AnyErrors())
	assert.NotEmpty(t, report.Expression.Syntax)
	assert.False(t, report.Parameters[0].Any())
}

func TestValidate_MalformedExpressionsReport(t *testing.T) {
	v := New(fixture())
	for _, expr := range []string{
		"\\", "(", "[", "'", "$$", "$a +", "$a ? 1 : 2", "$a ?? $a", "$a ? $a",
		"$a + area", "a ?? b", "[]", "()", "$a > 1", "$a && $a", "'x'", "true",
	} {
		t.Run(expr, func(t *testing.T) {
			def := inventory.Definition{
				Name:          "broken",
				Expression:    expr,
				InventoryType: inventory.Property,
				Parameters:    []inventory.Parameter{{Name: "a", SourceColumnID: "gfa"}},
			}
			var report Report
			require.NotPanics(t, func() { report = v.Validate(def) })
			assert.NotEmpty(t, report.Expression.Syntax)
			assert.True(t, report.AnyErrors())
		})
	}
}

func TestValidate_Idempotent(t *testing.T) {
	v := New(fixture())
	def := inventory.Definition{
		ID:            "d1",
		Name:          "eui",
		Expression:    "$x / $z",
		InventoryType: inventory.Property,
		Parameters: []inventory.Parameter{
			{Name: "x", SourceColumnID: "c2"},
			{Name: "y", SourceColumnID: "area"},
		},
	}
	before := def.Clone()

	first := v.Validate(def)
	second := v.Validate(def)
	assert.Equal(t, first, second)
	assert.Equal(t, before, def, "validation must not modify the definition")
}

func TestEligibleSources(t *testing.T) {
	v := New(fixture())

	ids := func(cols []inventory.Column) []string {
		var out []string
		for _, c := range cols {
			out = append(out, c.ID)
		}
		return out
	}

	d1 := *fixture().Definition("d1")
	// own column c1 and circular c2 are excluded; sorted by name.
	assert.Equal(t, []string{"gfa", "area"}, ids(v.EligibleSources(d1)))

	blank := NewBlank(inventory.Property)
	assert.Equal(t, []string{"c1", "c2", "gfa", "area"}, ids(v.EligibleSources(blank)))

	lot := NewBlank(inventory.TaxLot)
	assert.Equal(t, []string{"lot"}, ids(v.EligibleSources(lot)))
}
