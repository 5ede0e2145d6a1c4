package wrap

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lineagelabs/sqlens/pkg/parser"
)

func mustParseSelect(t *testing.T, sql string) *parser.SelectStmt {
	t.Helper()
	stmt, err := parser.Parse(sql)
	require.NoError(t, err)
	sel, ok := stmt.(*parser.SelectStmt)
	require.True(t, ok)
	return sel
}

func headerOf(t *testing.T, wrapped string) string {
	t.Helper()
	line, _, ok := strings.Cut(wrapped, "\n")
	require.True(t, ok, "wrapped statement should have a header line")
	return line
}

func TestInsertWithFilename(t *testing.T) {
	out, err := Insert("SELECT a, b AS total FROM orders", nil, "daily_orders.sql")
	require.NoError(t, err)
	assert.Equal(t, "INSERT INTO daily_orders (a, total)\nSELECT a, b AS total FROM orders", out)
}

func TestInsertSanitizesFilename(t *testing.T) {
	out, err := Insert("SELECT a FROM t", nil, "reports/2024-q1 summary.sql")
	require.NoError(t, err)
	assert.Equal(t, "INSERT INTO 2024_q1_summary (a)", headerOf(t, out))
}

func TestInsertFallsBackToMainTable(t *testing.T) {
	tests := []struct {
		name   string
		sql    string
		header string
	}{
		{
			name:   "qualified table",
			sql:    "SELECT x FROM warehouse.public.orders",
			header: "INSERT INTO dummy_orders (x)",
		},
		{
			name:   "no from clause",
			sql:    "SELECT 1 AS one",
			header: "INSERT INTO dummy_unknown (one)",
		},
		{
			name:   "through cte",
			sql:    "WITH c AS (SELECT * FROM raw.events) SELECT * FROM c",
			header: "INSERT INTO dummy_events (col_1)",
		},
		{
			name:   "through derived table",
			sql:    "SELECT t.a FROM (SELECT a FROM base) t",
			header: "INSERT INTO dummy_base (t.a)",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Insert(tt.sql, nil, "")
			require.NoError(t, err)
			assert.Equal(t, tt.header, headerOf(t, out))
		})
	}
}

func TestInsertColumnNaming(t *testing.T) {
	out, err := Insert("SELECT u.*, count(*) AS n, price * qty FROM users u", nil, "m.sql")
	require.NoError(t, err)
	assert.Equal(t, "INSERT INTO m (col_1, n, price * qty)", headerOf(t, out))
}

func TestInsertTableStarOutputReparses(t *testing.T) {
	out, err := Insert("WITH c AS (SELECT a, b FROM t) SELECT c.* FROM c", nil, "daily.sql")
	require.NoError(t, err)
	assert.Equal(t, "INSERT INTO daily (col_1)", headerOf(t, out))

	stmt, err := parser.Parse(out)
	require.NoError(t, err)
	ins, ok := stmt.(*parser.InsertStmt)
	require.True(t, ok)
	assert.Equal(t, []string{"col_1"}, ins.Columns)
}

func TestInsertAppliesRulesBeforeParsing(t *testing.T) {
	rules := []Rule{
		{Old: "${schema}", New: "analytics"},
		{Old: "analytics.users", New: "analytics.app_users"},
	}
	out, err := Insert("SELECT id FROM ${schema}.users", rules, "users.sql")
	require.NoError(t, err)
	assert.Contains(t, out, "FROM analytics.app_users")
}

func TestInsertLeavesExistingInsertAlone(t *testing.T) {
	out, err := Insert("INSERT INTO tgt (a) SELECT a FROM src", nil, "x.sql")
	require.NoError(t, err)
	assert.Equal(t, "INSERT INTO tgt (a) SELECT a FROM src", out)
}

func TestInsertReturnsInputOnParseError(t *testing.T) {
	in := "SELEC a FROM t"
	out, err := Insert(in, nil, "x.sql")
	require.Error(t, err)
	assert.Equal(t, in, out)
}

func TestMainTable(t *testing.T) {
	tests := []struct {
		sql  string
		want string
	}{
		{"SELECT a FROM orders", "orders"},
		{"SELECT a FROM s.orders o JOIN s.users u ON o.uid = u.id", "s.orders"},
		{"WITH a AS (SELECT 1 AS x), b AS (SELECT x FROM a) SELECT x FROM b", ""},
		{"WITH c AS (SELECT * FROM base) SELECT * FROM (SELECT * FROM c) d", "base"},
	}
	for _, tt := range tests {
		t.Run(tt.sql, func(t *testing.T) {
			sel := mustParseSelect(t, tt.sql)
			assert.Equal(t, tt.want, MainTable(sel))
		})
	}
}

func TestApplyOrder(t *testing.T) {
	rules := []Rule{{Old: "a", New: "b"}, {Old: "b", New: "c"}}
	assert.Equal(t, "c c", Apply("a b", rules))
}
