package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lineagelabs/sqlens/internal/edges"
)

var sample = []edges.Edge{
	{SourceTable: "sales", SourceColumn: "amount", DerivedTable: "daily", DerivedColumn: "total"},
	{SourceTable: "<unknown>", SourceColumn: "n", DerivedTable: "daily", DerivedColumn: "n"},
}

func TestRenderCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderEdges(&buf, sample, "csv"))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "source_table,source_column,derived_table,derived_column", lines[0])
	assert.Equal(t, "sales,amount,daily,total", lines[1])
	assert.Equal(t, "<unknown>,n,daily,n", lines[2])
}

func TestRenderCSVEscapes(t *testing.T) {
	var buf bytes.Buffer
	list := []edges.Edge{{SourceTable: `a,"b`, SourceColumn: "c", DerivedTable: "d", DerivedColumn: "e"}}
	require.NoError(t, RenderEdges(&buf, list, "csv"))
	assert.Contains(t, buf.String(), `"a,""b",c,d,e`)
}

func TestRenderJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderEdges(&buf, sample, "json"))

	var decoded []map[string]string
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, "sales", decoded[0]["source_table"])
	assert.Equal(t, "total", decoded[0]["derived_column"])
}

func TestRenderJSONEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderEdges(&buf, nil, "json"))
	assert.Equal(t, "[]\n", buf.String())
}

func TestRenderMarkdown(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderEdges(&buf, sample, "markdown"))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "| source_table | source_column | derived_table | derived_column |", lines[0])
	assert.Equal(t, "| --- | --- | --- | --- |", lines[1])
	assert.Equal(t, "| sales | amount | daily | total |", lines[2])
}

func TestRenderTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderEdges(&buf, sample, "table"))

	out := buf.String()
	assert.Contains(t, out, "SOURCE_TABLE")
	assert.Contains(t, out, "sales")
	assert.Contains(t, out, "(2 edges)")
}

func TestRenderTableEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderEdges(&buf, nil, "table"))
	assert.Equal(t, "(0 edges)\n", buf.String())
}
