package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/hurou927/derivedcol/internal/derived"
	"github.com/hurou927/derivedcol/internal/inventory"
)

// Result pairs a definition with its validation report.
type Result struct {
	Source     string               `json:"source,omitempty"`
	Definition inventory.Definition `json:"definition"`
	Report     derived.Report       `json:"report"`
}

// Writer renders validation results.
type Writer struct {
	w      io.Writer
	format string
}

// NewWriter creates a writer for format "text" or "json".
func NewWriter(w io.Writer, format string) (*Writer, error) {
	switch format {
	case "text", "json":
		return &Writer{w: w, format: format}, nil
	default:
		return nil, fmt.Errorf("unknown format: %s (supported: text, json)", format)
	}
}

// WriteResults writes every result in the writer's format.
func (rw *Writer) WriteResults(results []Result) error {
	if rw.format == "json" {
		enc := json.NewEncoder(rw.w)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}
	for i, r := range results {
		if i > 0 {
			if _, err := fmt.Fprintln(rw.w); err != nil {
				return err
			}
		}
		if err := rw.writeText(r); err != nil {
			return err
		}
	}
	return nil
}

func (rw *Writer) writeText(r Result) error {
	var b strings.Builder

	title := r.Definition.Name
	if title == "" {
		title = "(unnamed)"
	}
	if r.Source != "" {
		title += " (" + r.Source + ")"
	}
	status := "OK"
	if r.Report.AnyErrors() {
		status = fmt.Sprintf("%d error(s)", r.Report.Count())
	}
	fmt.Fprintf(&b, "%s [%s]: %s\n", title, r.Definition.InventoryType, status)

	if r.Report.Name.InvalidColumnName {
		b.WriteString("  name: column name is required\n")
	}
	if r.Report.Name.DuplicateColumnName {
		fmt.Fprintf(&b, "  name: a column named %q already exists\n", r.Definition.Name)
	}
	if msg := r.Report.Expression.Message(); msg != "" {
		fmt.Fprintf(&b, "  expression: %s\n", msg)
	}
	for i, pe := range r.Report.Parameters {
		if !pe.Any() || i >= len(r.Definition.Parameters) {
			continue
		}
		p := r.Definition.Parameters[i]
		fmt.Fprintf(&b, "  parameter %d $%s -> %q: %s\n", i+1, p.Name, p.SourceColumnID, strings.Join(pe.Flags(), ", "))
	}

	_, err := io.WriteString(rw.w, b.String())
	return err
}
