package batch

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lineagelabs/sqlens/internal/edges"
)

func TestExtractFrontmatter(t *testing.T) {
	content := `/*---
name: revenue_daily
owner: data-eng
tags: [finance, daily]
replacements:
  - old: "${t}"
    new: sales
---*/
SELECT amount FROM ${t}`

	fm, sql, err := ExtractFrontmatter(content)
	require.NoError(t, err)
	require.NotNil(t, fm)
	assert.Equal(t, "revenue_daily", fm.Name)
	assert.Equal(t, "data-eng", fm.Owner)
	assert.Equal(t, []string{"finance", "daily"}, fm.Tags)
	assert.Equal(t, "SELECT amount FROM ${t}", sql)

	rules := fm.Rules()
	require.Len(t, rules, 1)
	assert.Equal(t, "${t}", rules[0].Old)
	assert.Equal(t, "sales", rules[0].New)
}

func TestExtractFrontmatterAbsent(t *testing.T) {
	fm, sql, err := ExtractFrontmatter("SELECT a FROM t")
	require.NoError(t, err)
	assert.Nil(t, fm)
	assert.Equal(t, "SELECT a FROM t", sql)
}

func TestExtractFrontmatterUnknownField(t *testing.T) {
	content := `/*---
name: m
materialzed: table
---*/
SELECT 1`
	_, _, err := ExtractFrontmatter(content)
	assert.Error(t, err)
}

func TestExtractFileWithFrontmatter(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "model_v2.sql")
	content := `/*---
name: revenue_daily
replacements:
  - old: "${t}"
    new: sales
---*/
SELECT amount FROM ${t}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	e := testExtractor()
	got, err := e.ExtractFile(path)
	require.NoError(t, err)
	assert.Equal(t, []edges.Edge{
		{SourceTable: "sales", SourceColumn: "amount", DerivedTable: "revenue_daily", DerivedColumn: "amount"},
	}, got)
}
