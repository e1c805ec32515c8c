package graph

import "sort"

// Component is a set of columns connected through parameter bindings.
type Component struct {
	Columns []string
}

// FindComponents detects connected components using undirected BFS.
// Columns within a component and the components themselves are sorted.
// Physical columns nothing reads form no component unless includeIsolated.
func FindComponents(g *Graph, includeIsolated bool) []Component {
	visited := make(map[string]bool)
	var components []Component

	ids := make([]string, 0, len(g.Columns))
	for id := range g.Columns {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		if visited[id] {
			continue
		}
		if !includeIsolated && len(g.Adjacency[id]) == 0 && !g.Columns[id].IsDerived {
			continue
		}
		comp := bfs(g, id, visited)
		sort.Strings(comp)
		components = append(components, Component{Columns: comp})
	}

	return components
}

func bfs(g *Graph, start string, visited map[string]bool) []string {
	queue := []string{start}
	visited[start] = true
	var result []string

	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		result = append(result, node)

		for neighbor := range g.Adjacency[node] {
			if !visited[neighbor] {
				visited[neighbor] = true
				queue = append(queue, neighbor)
			}
		}
	}

	return result
}
