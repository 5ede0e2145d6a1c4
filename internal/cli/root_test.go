package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lineagelabs/sqlens/internal/config"
)

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	config.ResetConfig()
	cmd := NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestVersionCommand(t *testing.T) {
	out, err := runCommand(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "sqlens")
}

func TestHelpListsCommands(t *testing.T) {
	out, err := runCommand(t, "--help")
	require.NoError(t, err)
	for _, expected := range []string{"extract", "expand", "clean", "version"} {
		assert.Contains(t, out, expected)
	}
}

func TestExtractFileCSV(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	path := filepath.Join(dir, "daily.sql")
	writeFile(t, path, "SELECT amount FROM sales")

	out, err := runCommand(t, "extract", path, "--output", "csv")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "source_table,source_column,derived_table,derived_column", lines[0])
	assert.Equal(t, "sales,amount,daily,amount", lines[1])
}

func TestExtractDirectory(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	writeFile(t, filepath.Join(dir, "a.sql"), "SELECT x FROM t")
	writeFile(t, filepath.Join(dir, "b.sql"), "SELECT y FROM t")

	out, err := runCommand(t, "extract", dir, "-o", "csv")
	require.NoError(t, err)
	assert.Contains(t, out, "t,x,a,x")
	assert.Contains(t, out, "t,y,b,y")
}

func TestExtractUsesConfiguredModelsDir(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	models := filepath.Join(dir, "queries")
	require.NoError(t, os.Mkdir(models, 0o755))
	writeFile(t, filepath.Join(models, "m.sql"), "SELECT id FROM users")
	writeFile(t, filepath.Join(dir, "sqlens.yaml"), "models_dir: queries\noutput: csv\n")

	out, err := runCommand(t, "extract")
	require.NoError(t, err)
	assert.Contains(t, out, "users,id,m,id")
}

func TestExtractAppliesConfiguredReplacements(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	writeFile(t, filepath.Join(dir, "m.sql"), "SELECT id FROM ${schema}.users")
	writeFile(t, filepath.Join(dir, "sqlens.yaml"),
		"replacements:\n  - old: \"${schema}\"\n    new: analytics\n")

	out, err := runCommand(t, "extract", filepath.Join(dir, "m.sql"), "-o", "csv")
	require.NoError(t, err)
	assert.Contains(t, out, "users,id,m,id")
}

func TestExtractMissingPath(t *testing.T) {
	chdir(t, t.TempDir())
	_, err := runCommand(t, "extract", "does-not-exist.sql")
	assert.Error(t, err)
}

func TestExpandCommand(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	path := filepath.Join(dir, "q.sql")
	writeFile(t, path, "WITH c AS (SELECT a, b FROM t) SELECT * FROM c")

	out, err := runCommand(t, "expand", path)
	require.NoError(t, err)
	assert.Contains(t, out, "c.a,")
	assert.Contains(t, out, "c.b")
	assert.NotContains(t, out, "*")
}

func TestExpandMainTable(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	path := filepath.Join(dir, "q.sql")
	writeFile(t, path, "WITH c AS (SELECT a FROM raw.events) SELECT a FROM c")

	out, err := runCommand(t, "expand", path, "--main-table")
	require.NoError(t, err)
	assert.Equal(t, "raw.events\n", out)
}

func TestCleanCommand(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	path := filepath.Join(dir, "q.sql")
	writeFile(t, path, "select a /* note */ from t")

	out, err := runCommand(t, "clean", path)
	require.NoError(t, err)
	assert.Contains(t, out, "SELECT")
	assert.Contains(t, out, "FROM t")
	assert.NotContains(t, out, "note")
}

func TestCleanCommandKeepsUnparseableInput(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	path := filepath.Join(dir, "broken.sql")
	writeFile(t, path, "SELEC a FORM t")

	out, err := runCommand(t, "clean", path)
	require.NoError(t, err)
	assert.Contains(t, out, "SELEC a FORM t")
}

// chdir changes into dir for the duration of the test, restoring the
// previous working directory on cleanup (equivalent of t.Chdir, which
// requires Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Errorf("restoring working directory: %v", err)
		}
	})
}
