// Package output renders lineage edges for the terminal and for
// machine consumption.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/lineagelabs/sqlens/internal/edges"
)

var columns = []string{"source_table", "source_column", "derived_table", "derived_column"}

// RenderEdges writes the edges to w in the requested format: "json",
// "csv", "md"/"markdown", or a bordered table for anything else.
func RenderEdges(w io.Writer, list []edges.Edge, format string) error {
	switch format {
	case "json":
		return renderJSON(w, list)
	case "csv":
		return renderCSV(w, list)
	case "md", "markdown":
		return renderMarkdown(w, list)
	default:
		return renderTable(w, list)
	}
}

func renderTable(w io.Writer, list []edges.Edge) error {
	if len(list) == 0 {
		_, _ = fmt.Fprintln(w, "(0 edges)")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)

	headerRow := make(table.Row, len(columns))
	for i, col := range columns {
		headerRow[i] = col
	}
	t.AppendHeader(headerRow)

	for _, e := range list {
		t.AppendRow(table.Row{e.SourceTable, e.SourceColumn, e.DerivedTable, e.DerivedColumn})
	}

	t.Render()
	_, _ = fmt.Fprintf(w, "(%d edges)\n", len(list))
	return nil
}

func renderJSON(w io.Writer, list []edges.Edge) error {
	if list == nil {
		list = []edges.Edge{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(list)
}

func renderCSV(w io.Writer, list []edges.Edge) error {
	_, _ = fmt.Fprintln(w, strings.Join(columns, ","))
	for _, e := range list {
		values := []string{
			escapeCSV(e.SourceTable),
			escapeCSV(e.SourceColumn),
			escapeCSV(e.DerivedTable),
			escapeCSV(e.DerivedColumn),
		}
		_, _ = fmt.Fprintln(w, strings.Join(values, ","))
	}
	return nil
}

func renderMarkdown(w io.Writer, list []edges.Edge) error {
	if len(list) == 0 {
		_, _ = fmt.Fprintln(w, "(0 edges)")
		return nil
	}

	_, _ = fmt.Fprintf(w, "| %s |\n", strings.Join(columns, " | "))
	seps := make([]string, len(columns))
	for i := range seps {
		seps[i] = "---"
	}
	_, _ = fmt.Fprintf(w, "| %s |\n", strings.Join(seps, " | "))

	for _, e := range list {
		_, _ = fmt.Fprintf(w, "| %s | %s | %s | %s |\n",
			e.SourceTable, e.SourceColumn, e.DerivedTable, e.DerivedColumn)
	}
	return nil
}

func escapeCSV(s string) string {
	if strings.ContainsAny(s, ",\"\n") {
		return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
	}
	return s
}
