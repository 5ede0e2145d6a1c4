package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lineagelabs/sqlens/pkg/parser"
)

func buildFor(t *testing.T, sql string) Model {
	t.Helper()
	stmt, err := parser.Parse(sql)
	require.NoError(t, err)
	return Build(stmt)
}

func TestBuildBasicCTE(t *testing.T) {
	model := buildFor(t, "WITH a AS (SELECT x, y + 1 AS z FROM t) SELECT * FROM a")

	entry, ok := model.Lookup("a")
	require.True(t, ok)

	assert.Equal(t, []Column{
		{Name: "x", Expr: "x"},
		{Name: "z", Expr: "y + 1"},
	}, entry.Columns)
	assert.Equal(t, []string{"t"}, entry.SourceTables)
	assert.Empty(t, entry.SourceCTEs)
}

func TestBuildNoWithClause(t *testing.T) {
	model := buildFor(t, "SELECT a FROM t")
	assert.Empty(t, model)
}

func TestBuildCTEChain(t *testing.T) {
	model := buildFor(t, `WITH base AS (SELECT id FROM users),
agg AS (SELECT id FROM base JOIN orders ON base.id = orders.user_id)
SELECT * FROM agg`)

	base, ok := model.Lookup("base")
	require.True(t, ok)
	assert.Equal(t, []string{"users"}, base.SourceTables)

	agg, ok := model.Lookup("agg")
	require.True(t, ok)
	assert.Equal(t, []string{"orders"}, agg.SourceTables)
	assert.Equal(t, []string{"base"}, agg.SourceCTEs)
}

func TestBuildColumnNaming(t *testing.T) {
	model := buildFor(t, `WITH c AS (
SELECT id, u.name, total AS amount, price * qty, *
FROM u
) SELECT * FROM c`)

	entry, ok := model.Lookup("c")
	require.True(t, ok)

	assert.Equal(t, []Column{
		{Name: "id", Expr: "id"},
		{Name: "u.name", Expr: "u.name"},
		{Name: "amount", Expr: "total"},
		{Name: "col_4", Expr: "price * qty"},
		{Name: "*", Expr: "*"},
	}, entry.Columns)
}

func TestBuildQualifiedTables(t *testing.T) {
	model := buildFor(t, "WITH c AS (SELECT a FROM prod.sales.orders) SELECT * FROM c")

	entry, ok := model.Lookup("c")
	require.True(t, ok)
	assert.Equal(t, []string{"prod.sales.orders"}, entry.SourceTables)
}

func TestBuildSeesNestedSubqueryTables(t *testing.T) {
	model := buildFor(t, `WITH c AS (
SELECT x FROM (SELECT x FROM inner_t) sub WHERE EXISTS (SELECT 1 FROM guard_t)
) SELECT * FROM c`)

	entry, ok := model.Lookup("c")
	require.True(t, ok)
	assert.Equal(t, []string{"guard_t", "inner_t"}, entry.SourceTables)
}

func TestBuildDuplicateCTELastWins(t *testing.T) {
	model := buildFor(t, `WITH c AS (SELECT a FROM t1), c AS (SELECT b FROM t2) SELECT * FROM c`)

	entry, ok := model.Lookup("c")
	require.True(t, ok)
	assert.Equal(t, []string{"t2"}, entry.SourceTables)
	assert.Equal(t, []Column{{Name: "b", Expr: "b"}}, entry.Columns)
}

func TestBuildLookupIsCaseInsensitive(t *testing.T) {
	model := buildFor(t, "WITH Sales AS (SELECT a FROM t) SELECT * FROM sales")

	_, ok := model.Lookup("SALES")
	assert.True(t, ok)
	assert.Equal(t, []string{"Sales"}, model.Names())
}

func TestBuildUnionSourcesFromBothBranches(t *testing.T) {
	model := buildFor(t, "WITH c AS (SELECT a FROM t1 UNION ALL SELECT a FROM t2) SELECT * FROM c")

	entry, ok := model.Lookup("c")
	require.True(t, ok)
	assert.Equal(t, []string{"t1", "t2"}, entry.SourceTables)
	// Columns come from the first branch only.
	assert.Equal(t, []Column{{Name: "a", Expr: "a"}}, entry.Columns)
}
