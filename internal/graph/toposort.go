package graph

import (
	"fmt"
	"sort"
	"strings"
)

// TopoResult holds an evaluation order of columns.
type TopoResult struct {
	// Order lists columns with every source before the columns reading it.
	Order []string
	// HasCycle is true if some derived columns depend on themselves.
	HasCycle bool
	// CycleColumns lists columns that lie on a cycle, sorted.
	CycleColumns []string
	// Blocked lists columns left unordered only because they read from a
	// cycle, sorted.
	Blocked []string
}

// TopoSort performs Kahn's algorithm on the given columns. Ties are broken by
// column id so the order is deterministic.
func TopoSort(g *Graph, columns []string) TopoResult {
	inSet := make(map[string]bool, len(columns))
	for _, id := range columns {
		inSet[id] = true
	}

	// in-degree = number of distinct sources within the subset
	inDegree := make(map[string]int, len(columns))
	for _, id := range columns {
		inDegree[id] = 0
		for _, src := range g.Sources[id] {
			if inSet[src] {
				inDegree[id]++
			}
		}
	}

	var ready []string
	for _, id := range columns {
		if inDegree[id] == 0 {
			ready = append(ready, id)
		}
	}
	sort.Strings(ready)

	var order []string
	for len(ready) > 0 {
		node := ready[0]
		ready = ready[1:]
		order = append(order, node)

		var unlocked []string
		for _, dep := range g.Dependents[node] {
			if !inSet[dep] {
				continue
			}
			inDegree[dep]--
			if inDegree[dep] == 0 {
				unlocked = append(unlocked, dep)
			}
		}
		if len(unlocked) > 0 {
			ready = append(ready, unlocked...)
			sort.Strings(ready)
		}
	}

	result := TopoResult{Order: order}

	if len(order) < len(columns) {
		result.HasCycle = true
		left := make(map[string]bool)
		for _, id := range columns {
			if inDegree[id] > 0 {
				left[id] = true
			}
		}
		for id := range left {
			if reachesItself(g, id, left) {
				result.CycleColumns = append(result.CycleColumns, id)
			} else {
				result.Blocked = append(result.Blocked, id)
			}
		}
		sort.Strings(result.CycleColumns)
		sort.Strings(result.Blocked)
	}

	return result
}

// reachesItself reports whether start can be reached again by following
// dependents within the given columns.
func reachesItself(g *Graph, start string, within map[string]bool) bool {
	visited := make(map[string]bool)
	stack := append([]string(nil), g.Dependents[start]...)
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if node == start {
			return true
		}
		if !within[node] || visited[node] {
			continue
		}
		visited[node] = true
		stack = append(stack, g.Dependents[node]...)
	}
	return false
}

// TopoSortAll orders every column in the graph.
func TopoSortAll(g *Graph) TopoResult {
	all := make([]string, 0, len(g.Columns))
	for id := range g.Columns {
		all = append(all, id)
	}
	return TopoSort(g, all)
}

// ValidateCycles returns an error naming the columns involved in stored
// cycles, including columns bound to themselves.
func ValidateCycles(g *Graph, result TopoResult) error {
	names := make([]string, 0, len(result.CycleColumns)+len(g.SelfRefs))
	seen := make(map[string]bool)
	for _, id := range result.CycleColumns {
		seen[id] = true
		names = append(names, g.Label(id))
	}
	for id := range g.SelfRefs {
		if !seen[id] {
			names = append(names, g.Label(id))
		}
	}
	if len(names) == 0 {
		return nil
	}
	sort.Strings(names)
	return fmt.Errorf("circular derived column dependency among: %s", strings.Join(names, ", "))
}
