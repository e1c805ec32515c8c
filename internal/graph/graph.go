package graph

import (
	"sort"

	"github.com/hurou927/derivedcol/internal/inventory"
)

// Edge is a parameter binding: the derived column reads the source column.
type Edge struct {
	Parameter string
	Derived   string // column id of the derived column
	Source    string // column id of the source column
}

// Graph is the dependency graph of every column in a snapshot. Physical
// columns have no outgoing edges.
type Graph struct {
	// Columns maps column id -> column
	Columns map[string]*inventory.Column

	// Edges are bindings between two different known columns
	Edges []Edge

	// SelfRefs holds bindings of a derived column to itself, keyed by column id
	SelfRefs map[string][]Edge

	// Dangling holds bindings whose source column is not in the snapshot
	Dangling []Edge

	// Dependents maps source column id -> derived column ids reading it
	Dependents map[string][]string

	// Sources maps derived column id -> source column ids it reads
	Sources map[string][]string

	// adjacency for undirected connectivity
	Adjacency map[string]map[string]bool
}

// Build constructs the dependency graph of snap. Definitions without a
// persisted column are skipped.
func Build(snap *inventory.Snapshot) *Graph {
	g := &Graph{
		Columns:    make(map[string]*inventory.Column),
		SelfRefs:   make(map[string][]Edge),
		Dependents: make(map[string][]string),
		Sources:    make(map[string][]string),
		Adjacency:  make(map[string]map[string]bool),
	}

	for i := range snap.Columns {
		col := &snap.Columns[i]
		g.Columns[col.ID] = col
		g.Adjacency[col.ID] = make(map[string]bool)
	}

	for _, def := range snap.Definitions {
		owner := snap.ColumnForDefinition(def.ID)
		if owner == nil {
			continue
		}
		for _, p := range def.Parameters {
			edge := Edge{Parameter: p.Name, Derived: owner.ID, Source: p.SourceColumnID}

			if _, ok := g.Columns[p.SourceColumnID]; !ok {
				g.Dangling = append(g.Dangling, edge)
				continue
			}
			if p.SourceColumnID == owner.ID {
				g.SelfRefs[owner.ID] = append(g.SelfRefs[owner.ID], edge)
				continue
			}

			g.Edges = append(g.Edges, edge)
			g.Dependents[edge.Source] = appendUnique(g.Dependents[edge.Source], edge.Derived)
			g.Sources[edge.Derived] = appendUnique(g.Sources[edge.Derived], edge.Source)
			g.Adjacency[edge.Derived][edge.Source] = true
			g.Adjacency[edge.Source][edge.Derived] = true
		}
	}

	return g
}

func appendUnique(list []string, id string) []string {
	for _, v := range list {
		if v == id {
			return list
		}
	}
	return append(list, id)
}

// Roots returns the columns that read nothing, sorted.
func (g *Graph) Roots() []string {
	var roots []string
	for id := range g.Columns {
		if len(g.Sources[id]) == 0 {
			roots = append(roots, id)
		}
	}
	sort.Strings(roots)
	return roots
}

// Label returns a display label for a column id.
func (g *Graph) Label(id string) string {
	if col, ok := g.Columns[id]; ok && col.Name != "" {
		return col.Name
	}
	return id
}
