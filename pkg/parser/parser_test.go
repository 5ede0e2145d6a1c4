package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustSelect(t *testing.T, sql string) *SelectStmt {
	t.Helper()
	stmt, err := ParseSelect(sql)
	require.NoError(t, err)
	return stmt
}

func TestParseSimpleSelect(t *testing.T) {
	stmt := mustSelect(t, "SELECT a, b FROM t")
	core := stmt.Body.Left

	require.Len(t, core.Columns, 2)
	assert.Equal(t, &ColumnRef{Column: "a"}, core.Columns[0].Expr)
	assert.Equal(t, &ColumnRef{Column: "b"}, core.Columns[1].Expr)

	table, ok := core.From.Source.(*TableName)
	require.True(t, ok)
	assert.Equal(t, "t", table.Name)
}

func TestParseSelectStar(t *testing.T) {
	stmt := mustSelect(t, "SELECT * FROM t")
	core := stmt.Body.Left
	require.Len(t, core.Columns, 1)
	assert.True(t, core.Columns[0].Star)
}

func TestParseQualifiedStar(t *testing.T) {
	stmt := mustSelect(t, "SELECT u.* FROM users u")
	core := stmt.Body.Left
	require.Len(t, core.Columns, 1)
	assert.Equal(t, "u", core.Columns[0].TableStar)

	table := core.From.Source.(*TableName)
	assert.Equal(t, "users", table.Name)
	assert.Equal(t, "u", table.Alias)
}

func TestParseStarExceptModifier(t *testing.T) {
	tests := []struct {
		name string
		sql  string
	}{
		{"except", "SELECT * EXCEPT (a, b) FROM t"},
		{"exclude", "SELECT * EXCLUDE (a, b) FROM t"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stmt := mustSelect(t, tt.sql)
			item := stmt.Body.Left.Columns[0]
			require.True(t, item.Star)
			require.Len(t, item.Modifiers, 1)
			mod, ok := item.Modifiers[0].(*ExcludeModifier)
			require.True(t, ok)
			assert.Equal(t, []string{"a", "b"}, mod.Columns)
		})
	}
}

func TestParseStarReplaceModifier(t *testing.T) {
	stmt := mustSelect(t, "SELECT * REPLACE (x + 1 AS x) FROM t")
	item := stmt.Body.Left.Columns[0]
	require.True(t, item.Star)
	require.Len(t, item.Modifiers, 1)
	mod, ok := item.Modifiers[0].(*ReplaceModifier)
	require.True(t, ok)
	require.Len(t, mod.Items, 1)
	assert.Equal(t, "x", mod.Items[0].Alias)
}

func TestParseTableStarWithModifier(t *testing.T) {
	stmt := mustSelect(t, "SELECT t.* EXCEPT (secret) FROM t")
	item := stmt.Body.Left.Columns[0]
	assert.Equal(t, "t", item.TableStar)
	require.Len(t, item.Modifiers, 1)
}

func TestParseExceptSetOperation(t *testing.T) {
	stmt := mustSelect(t, "SELECT a FROM t EXCEPT SELECT a FROM u")
	assert.Equal(t, SetOpExcept, stmt.Body.Op)
	require.NotNil(t, stmt.Body.Right)
}

func TestParseAliases(t *testing.T) {
	stmt := mustSelect(t, "SELECT a AS x, b y FROM t")
	core := stmt.Body.Left
	assert.Equal(t, "x", core.Columns[0].Alias)
	assert.Equal(t, "y", core.Columns[1].Alias)
}

func TestParseWithClause(t *testing.T) {
	stmt := mustSelect(t, "WITH base AS (SELECT id FROM users), agg AS (SELECT id FROM base) SELECT * FROM agg")
	require.NotNil(t, stmt.With)
	require.Len(t, stmt.With.CTEs, 2)
	assert.Equal(t, "base", stmt.With.CTEs[0].Name)
	assert.Equal(t, "agg", stmt.With.CTEs[1].Name)
}

func TestParseJoins(t *testing.T) {
	tests := []struct {
		sql      string
		joinType JoinType
	}{
		{"SELECT * FROM a JOIN b ON a.id = b.id", JoinInner},
		{"SELECT * FROM a INNER JOIN b ON a.id = b.id", JoinInner},
		{"SELECT * FROM a LEFT JOIN b ON a.id = b.id", JoinLeft},
		{"SELECT * FROM a LEFT OUTER JOIN b ON a.id = b.id", JoinLeft},
		{"SELECT * FROM a RIGHT JOIN b ON a.id = b.id", JoinRight},
		{"SELECT * FROM a FULL OUTER JOIN b ON a.id = b.id", JoinFull},
		{"SELECT * FROM a CROSS JOIN b", JoinCross},
		{"SELECT * FROM a, b", JoinComma},
	}
	for _, tt := range tests {
		t.Run(tt.sql, func(t *testing.T) {
			stmt := mustSelect(t, tt.sql)
			joins := stmt.Body.Left.From.Joins
			require.Len(t, joins, 1)
			assert.Equal(t, tt.joinType, joins[0].Type)
		})
	}
}

func TestParseJoinUsing(t *testing.T) {
	stmt := mustSelect(t, "SELECT * FROM a JOIN b USING (id, name)")
	joins := stmt.Body.Left.From.Joins
	require.Len(t, joins, 1)
	assert.Equal(t, []string{"id", "name"}, joins[0].Using)
}

func TestParseDerivedTable(t *testing.T) {
	stmt := mustSelect(t, "SELECT * FROM (SELECT id FROM users) sub")
	derived, ok := stmt.Body.Left.From.Source.(*DerivedTable)
	require.True(t, ok)
	assert.Equal(t, "sub", derived.Alias)
	require.NotNil(t, derived.Select)
}

func TestParseQualifiedTableName(t *testing.T) {
	stmt := mustSelect(t, "SELECT * FROM prod.sales.orders o")
	table := stmt.Body.Left.From.Source.(*TableName)
	assert.Equal(t, "prod", table.Catalog)
	assert.Equal(t, "sales", table.Schema)
	assert.Equal(t, "orders", table.Name)
	assert.Equal(t, "o", table.Alias)
	assert.Equal(t, "prod.sales.orders", table.Qualified())
}

func TestParseExpressionPrecedence(t *testing.T) {
	stmt := mustSelect(t, "SELECT a + b * c FROM t")
	expr := stmt.Body.Left.Columns[0].Expr
	bin, ok := expr.(*BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, TOKEN_PLUS, bin.Op)
	right, ok := bin.Right.(*BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, TOKEN_STAR, right.Op)
}

func TestParseBooleanPrecedence(t *testing.T) {
	stmt := mustSelect(t, "SELECT 1 FROM t WHERE a = 1 OR b = 2 AND c = 3")
	where, ok := stmt.Body.Left.Where.(*BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, TOKEN_OR, where.Op)
}

func TestParseFunctionCalls(t *testing.T) {
	stmt := mustSelect(t, "SELECT count(*), SUM(amount), coalesce(a, b, 0) FROM t")
	cols := stmt.Body.Left.Columns

	fn0 := cols[0].Expr.(*FuncCall)
	assert.Equal(t, "COUNT", fn0.Name)
	assert.True(t, fn0.Star)

	fn1 := cols[1].Expr.(*FuncCall)
	assert.Equal(t, "SUM", fn1.Name)
	require.Len(t, fn1.Args, 1)

	fn2 := cols[2].Expr.(*FuncCall)
	assert.Equal(t, "COALESCE", fn2.Name)
	require.Len(t, fn2.Args, 3)
}

func TestParseWindowFunction(t *testing.T) {
	stmt := mustSelect(t, "SELECT ROW_NUMBER() OVER (PARTITION BY dept ORDER BY salary DESC) FROM emp")
	fn := stmt.Body.Left.Columns[0].Expr.(*FuncCall)
	require.NotNil(t, fn.Window)
	require.Len(t, fn.Window.PartitionBy, 1)
	require.Len(t, fn.Window.OrderBy, 1)
	assert.True(t, fn.Window.OrderBy[0].Desc)
}

func TestParseWindowFrame(t *testing.T) {
	stmt := mustSelect(t, "SELECT SUM(x) OVER (ORDER BY d ROWS BETWEEN UNBOUNDED PRECEDING AND CURRENT ROW) FROM t")
	fn := stmt.Body.Left.Columns[0].Expr.(*FuncCall)
	require.NotNil(t, fn.Window.Frame)
	assert.Equal(t, FrameRows, fn.Window.Frame.Type)
	assert.Equal(t, FrameUnboundedPreceding, fn.Window.Frame.Start.Type)
	assert.Equal(t, FrameCurrentRow, fn.Window.Frame.End.Type)
}

func TestParseCaseExpression(t *testing.T) {
	stmt := mustSelect(t, "SELECT CASE WHEN x > 0 THEN 'pos' WHEN x < 0 THEN 'neg' ELSE 'zero' END FROM t")
	caseExpr, ok := stmt.Body.Left.Columns[0].Expr.(*CaseExpr)
	require.True(t, ok)
	assert.Len(t, caseExpr.Whens, 2)
	assert.NotNil(t, caseExpr.Else)
}

func TestParseCast(t *testing.T) {
	stmt := mustSelect(t, "SELECT CAST(x AS DECIMAL(10, 2)) FROM t")
	cast, ok := stmt.Body.Left.Columns[0].Expr.(*CastExpr)
	require.True(t, ok)
	assert.Equal(t, "DECIMAL(10, 2)", cast.TypeName)
}

func TestParseInAndBetween(t *testing.T) {
	stmt := mustSelect(t, "SELECT 1 FROM t WHERE a IN (1, 2, 3) AND b BETWEEN 1 AND 10")
	where := stmt.Body.Left.Where.(*BinaryExpr)
	assert.Equal(t, TOKEN_AND, where.Op)

	in, ok := where.Left.(*InExpr)
	require.True(t, ok)
	assert.Len(t, in.Values, 3)

	between, ok := where.Right.(*BetweenExpr)
	require.True(t, ok)
	assert.NotNil(t, between.Low)
	assert.NotNil(t, between.High)
}

func TestParseNotExists(t *testing.T) {
	stmt := mustSelect(t, "SELECT 1 FROM t WHERE NOT EXISTS (SELECT 1 FROM u)")
	exists, ok := stmt.Body.Left.Where.(*ExistsExpr)
	require.True(t, ok)
	assert.True(t, exists.Not)
	require.NotNil(t, exists.Select)

	stmt = mustSelect(t, "SELECT 1 FROM t WHERE NOT a")
	not, ok := stmt.Body.Left.Where.(*UnaryExpr)
	require.True(t, ok)
	assert.Equal(t, TOKEN_NOT, not.Op)
}

func TestParseInSubquery(t *testing.T) {
	stmt := mustSelect(t, "SELECT 1 FROM t WHERE id IN (SELECT id FROM banned)")
	in := stmt.Body.Left.Where.(*InExpr)
	require.NotNil(t, in.Query)
}

func TestParseUnion(t *testing.T) {
	stmt := mustSelect(t, "SELECT a FROM t UNION ALL SELECT b FROM u")
	assert.Equal(t, SetOpUnionAll, stmt.Body.Op)
	assert.True(t, stmt.Body.All)
	require.NotNil(t, stmt.Body.Right)
}

func TestParseQualifyClause(t *testing.T) {
	stmt := mustSelect(t, "SELECT x FROM t QUALIFY ROW_NUMBER() OVER (ORDER BY x) = 1")
	require.NotNil(t, stmt.Body.Left.Qualify)
}

func TestParseOrderLimitOffset(t *testing.T) {
	stmt := mustSelect(t, "SELECT a FROM t ORDER BY a DESC NULLS LAST LIMIT 10 OFFSET 5")
	core := stmt.Body.Left
	require.Len(t, core.OrderBy, 1)
	assert.True(t, core.OrderBy[0].Desc)
	require.NotNil(t, core.OrderBy[0].NullsFirst)
	assert.False(t, *core.OrderBy[0].NullsFirst)
	assert.NotNil(t, core.Limit)
	assert.NotNil(t, core.Offset)
}

func TestParseInsertSelect(t *testing.T) {
	stmt, err := Parse("INSERT INTO warehouse.dim_users (id, name) SELECT id, name FROM staging_users")
	require.NoError(t, err)

	insert, ok := stmt.(*InsertStmt)
	require.True(t, ok)
	assert.Equal(t, "warehouse.dim_users", insert.Table)
	assert.Equal(t, []string{"id", "name"}, insert.Columns)
	require.NotNil(t, insert.Select)
}

func TestParseErrors(t *testing.T) {
	tests := []string{
		"SELECT FROM",
		"SELECT a FROM t WHERE",
		"WITH x AS SELECT 1 SELECT * FROM x",
	}
	for _, sql := range tests {
		t.Run(sql, func(t *testing.T) {
			_, err := Parse(sql)
			assert.Error(t, err)
		})
	}
}

func TestParseErrorLocation(t *testing.T) {
	_, err := Parse("SELECT a FROM t WHERE")
	require.Error(t, err)
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Contains(t, perr.Error(), "line 1")
}

func TestCloneIsDeep(t *testing.T) {
	stmt := mustSelect(t, "WITH c AS (SELECT x FROM t) SELECT * FROM c")
	clone := stmt.Clone()

	clone.With.CTEs[0].Name = "renamed"
	clone.Body.Left.Columns[0].Star = false

	assert.Equal(t, "c", stmt.With.CTEs[0].Name)
	assert.True(t, stmt.Body.Left.Columns[0].Star)
}

func TestWalkSelectsVisitsNestedQueries(t *testing.T) {
	stmt := mustSelect(t, `WITH c AS (SELECT x FROM t)
SELECT (SELECT MAX(y) FROM u), z
FROM (SELECT z FROM v) d
WHERE EXISTS (SELECT 1 FROM w)`)

	count := 0
	WalkSelects(stmt, func(*SelectStmt) bool {
		count++
		return true
	})
	// outer + CTE body + scalar subquery + derived table + EXISTS
	assert.Equal(t, 5, count)
}
