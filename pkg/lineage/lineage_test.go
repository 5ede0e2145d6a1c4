package lineage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chainStrings(chains []Chain) [][]string {
	out := make([][]string, len(chains))
	for i, c := range chains {
		out[i] = []string(c)
	}
	return out
}

func TestChainsDirectColumns(t *testing.T) {
	chains, err := Chains("INSERT INTO tgt (id, name) SELECT id, name FROM users")
	require.NoError(t, err)

	assert.Equal(t, [][]string{
		{"tgt.id", "<default>.users.id"},
		{"tgt.name", "<default>.users.name"},
	}, chainStrings(chains))
}

func TestChainsSchemaQualifiedTable(t *testing.T) {
	chains, err := Chains("INSERT INTO tgt (amount) SELECT amount FROM sales.orders")
	require.NoError(t, err)

	require.Len(t, chains, 1)
	assert.Equal(t, []string{"tgt.amount", "sales.orders.amount"}, []string(chains[0]))
}

func TestChainsThroughCTE(t *testing.T) {
	sql := `INSERT INTO tgt (total)
WITH c AS (SELECT subtotal FROM t)
SELECT subtotal AS total FROM c`

	chains, err := Chains(sql)
	require.NoError(t, err)

	require.Len(t, chains, 1)
	assert.Equal(t, []string{"tgt.total", "c.subtotal", "<default>.t.subtotal"}, []string(chains[0]))
}

func TestChainsMultiHop(t *testing.T) {
	sql := `INSERT INTO d (total)
WITH c1 AS (SELECT price FROM t),
c2 AS (SELECT price AS subtotal FROM c1)
SELECT subtotal AS total FROM c2`

	chains, err := Chains(sql)
	require.NoError(t, err)

	require.Len(t, chains, 1)
	assert.Equal(t,
		[]string{"d.total", "c2.subtotal", "c1.price", "<default>.t.price"},
		[]string(chains[0]))
}

func TestChainsExpressionFansOut(t *testing.T) {
	chains, err := Chains("INSERT INTO tgt (total) SELECT price * qty AS total FROM orders")
	require.NoError(t, err)

	assert.Equal(t, [][]string{
		{"tgt.total", "<default>.orders.price"},
		{"tgt.total", "<default>.orders.qty"},
	}, chainStrings(chains))
}

func TestChainsJoinQualifiers(t *testing.T) {
	sql := `INSERT INTO tgt (uid, oid)
SELECT u.id, o.id FROM users u JOIN orders o ON u.id = o.user_id`

	chains, err := Chains(sql)
	require.NoError(t, err)

	assert.Equal(t, [][]string{
		{"tgt.uid", "<default>.users.id"},
		{"tgt.oid", "<default>.orders.id"},
	}, chainStrings(chains))
}

func TestChainsUnionMergesBranches(t *testing.T) {
	sql := `INSERT INTO tgt (v)
SELECT a FROM t1 UNION ALL SELECT b FROM t2`

	chains, err := Chains(sql)
	require.NoError(t, err)

	assert.Equal(t, [][]string{
		{"tgt.v", "<default>.t1.a"},
		{"tgt.v", "<default>.t2.b"},
	}, chainStrings(chains))
}

func TestChainsDerivedTable(t *testing.T) {
	sql := `INSERT INTO tgt (x)
SELECT x FROM (SELECT x FROM base) sub`

	chains, err := Chains(sql)
	require.NoError(t, err)

	require.Len(t, chains, 1)
	assert.Equal(t, []string{"tgt.x", "sub.x", "<default>.base.x"}, []string(chains[0]))
}

func TestChainsLiteralHasNoSources(t *testing.T) {
	chains, err := Chains("INSERT INTO tgt (flag) SELECT 1 AS flag FROM t")
	require.NoError(t, err)

	require.Len(t, chains, 1)
	assert.Equal(t, []string{"tgt.flag"}, []string(chains[0]))
}

func TestChainsUnresolvableColumn(t *testing.T) {
	sql := `INSERT INTO tgt (v)
SELECT mystery FROM a, b`

	chains, err := Chains(sql)
	require.NoError(t, err)

	require.Len(t, chains, 1)
	assert.Equal(t, []string{"tgt.v", "mystery"}, []string(chains[0]))
}

func TestChainsStarOverCTE(t *testing.T) {
	sql := `INSERT INTO tgt (x, y)
WITH c AS (SELECT x, y FROM t)
SELECT * FROM c`

	chains, err := Chains(sql)
	require.NoError(t, err)

	assert.Equal(t, [][]string{
		{"tgt.x", "c.x", "<default>.t.x"},
		{"tgt.y", "c.y", "<default>.t.y"},
	}, chainStrings(chains))
}

func TestChainsDuplicateCTELastWins(t *testing.T) {
	sql := `INSERT INTO tgt (v)
WITH c AS (SELECT a AS v FROM t1), c AS (SELECT b AS v FROM t2)
SELECT v FROM c`

	chains, err := Chains(sql)
	require.NoError(t, err)

	require.Len(t, chains, 1)
	assert.Equal(t, []string{"tgt.v", "c.v", "<default>.t2.b"}, []string(chains[0]))
}

func TestChainsAggregates(t *testing.T) {
	sql := `INSERT INTO tgt (total)
SELECT SUM(amount) AS total FROM payments GROUP BY user_id`

	chains, err := Chains(sql)
	require.NoError(t, err)

	require.Len(t, chains, 1)
	assert.Equal(t, []string{"tgt.total", "<default>.payments.amount"}, []string(chains[0]))
}

func TestChainsPlainSelect(t *testing.T) {
	chains, err := Chains("SELECT id FROM users")
	require.NoError(t, err)

	require.Len(t, chains, 1)
	assert.Equal(t, []string{"id", "<default>.users.id"}, []string(chains[0]))
}

func TestChainsParseError(t *testing.T) {
	_, err := Chains("INSERT INTO")
	assert.Error(t, err)
}

func TestChainsTargetColumnNamesWinOverAliases(t *testing.T) {
	chains, err := Chains("INSERT INTO tgt (renamed) SELECT id AS original FROM t")
	require.NoError(t, err)

	require.Len(t, chains, 1)
	assert.Equal(t, "tgt.renamed", chains[0][0])
}
