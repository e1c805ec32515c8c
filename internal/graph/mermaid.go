package graph

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// WriteMermaid writes the graph in Mermaid format to w. Each connected
// component is a subgraph; derived columns are drawn as rounded nodes and
// edges point from a source to the derived column reading it.
func WriteMermaid(w io.Writer, g *Graph) error {
	components := FindComponents(g, false)

	if _, err := fmt.Fprintln(w, "graph LR"); err != nil {
		return err
	}

	for i, comp := range components {
		fmt.Fprintf(w, "    subgraph component_%d\n", i+1)

		inComp := make(map[string]bool, len(comp.Columns))
		for _, id := range comp.Columns {
			inComp[id] = true
			fmt.Fprintf(w, "        %s\n", mermaidNode(g, id))
		}

		for _, edge := range sortedEdges(g.Edges) {
			if !inComp[edge.Derived] {
				continue
			}
			fmt.Fprintf(w, "        %s -->|%s| %s\n",
				mermaidID(edge.Source), mermaidLabel(edge.Parameter), mermaidID(edge.Derived))
		}

		for _, id := range comp.Columns {
			for _, edge := range g.SelfRefs[id] {
				fmt.Fprintf(w, "        %s -->|%s| %s\n",
					mermaidID(id), mermaidLabel(edge.Parameter), mermaidID(id))
			}
		}

		fmt.Fprintln(w, "    end")
		if i < len(components)-1 {
			fmt.Fprintln(w)
		}
	}

	return nil
}

// WriteText writes a text summary of the graph to w.
func WriteText(w io.Writer, g *Graph) error {
	components := FindComponents(g, false)

	derived := 0
	for _, col := range g.Columns {
		if col.IsDerived {
			derived++
		}
	}

	fmt.Fprintf(w, "Columns: %d (%d derived)\n", len(g.Columns), derived)
	fmt.Fprintf(w, "Bindings: %d\n", len(g.Edges)+countSelfRefs(g)+len(g.Dangling))
	fmt.Fprintf(w, "Connected Components: %d\n\n", len(components))

	topo := TopoSortAll(g)
	if err := ValidateCycles(g, topo); err != nil {
		fmt.Fprintf(w, "WARNING: %v\n\n", err)
	}

	if len(g.Dangling) > 0 {
		fmt.Fprintln(w, "WARNING: Bindings to unknown columns:")
		for _, edge := range sortedEdges(g.Dangling) {
			fmt.Fprintf(w, "  %s.$%s -> %s\n", g.Label(edge.Derived), edge.Parameter, edge.Source)
		}
		fmt.Fprintln(w)
	}

	if len(g.SelfRefs) > 0 {
		var self []string
		for id := range g.SelfRefs {
			self = append(self, g.Label(id))
		}
		sort.Strings(self)
		fmt.Fprintf(w, "Self-referencing columns: %v\n\n", self)
	}

	for i, comp := range components {
		fmt.Fprintf(w, "=== Component %d (%d columns) ===\n", i+1, len(comp.Columns))

		order := TopoSort(g, comp.Columns)
		if order.HasCycle {
			fmt.Fprintln(w, "  Evaluation order (partial, has cycle):")
		} else {
			fmt.Fprintln(w, "  Evaluation order:")
		}
		for j, id := range order.Order {
			col := g.Columns[id]
			kind := "physical"
			if col.IsDerived {
				kind = fmt.Sprintf("derived, %d sources", len(g.Sources[id]))
			}
			fmt.Fprintf(w, "    %d. %s [%s] (%s)\n", j+1, g.Label(id), col.InventoryType, kind)
		}
		if order.HasCycle {
			labels := make([]string, len(order.CycleColumns))
			for k, id := range order.CycleColumns {
				labels[k] = g.Label(id)
			}
			fmt.Fprintf(w, "  Cycle columns: %v\n", labels)
			if len(order.Blocked) > 0 {
				blocked := make([]string, len(order.Blocked))
				for k, id := range order.Blocked {
					blocked[k] = g.Label(id)
				}
				fmt.Fprintf(w, "  Blocked by cycle: %v\n", blocked)
			}
		}
		fmt.Fprintln(w)
	}

	return nil
}

func sortedEdges(edges []Edge) []Edge {
	out := append([]Edge(nil), edges...)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Derived != out[j].Derived {
			return out[i].Derived < out[j].Derived
		}
		if out[i].Parameter != out[j].Parameter {
			return out[i].Parameter < out[j].Parameter
		}
		return out[i].Source < out[j].Source
	})
	return out
}

func mermaidNode(g *Graph, id string) string {
	label := mermaidLabel(g.Label(id))
	if col := g.Columns[id]; col != nil && col.IsDerived {
		return fmt.Sprintf("%s(\"%s\")", mermaidID(id), label)
	}
	return fmt.Sprintf("%s[\"%s\"]", mermaidID(id), label)
}

// mermaidID converts a column id to a Mermaid-safe node ID.
func mermaidID(id string) string {
	var b strings.Builder
	b.WriteString("col_")
	for _, r := range id {
		if r == '_' || ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z') || ('0' <= r && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}

func mermaidLabel(s string) string {
	return strings.ReplaceAll(s, `"`, "#quot;")
}

func countSelfRefs(g *Graph) int {
	count := 0
	for _, edges := range g.SelfRefs {
		count += len(edges)
	}
	return count
}
