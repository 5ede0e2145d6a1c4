package lineage

import (
	"strings"

	"github.com/lineagelabs/sqlens/pkg/parser"
)

// DefaultSchema marks tables that carry no explicit schema qualifier.
const DefaultSchema = "<default>"

// Chain is one derivation path, ordered from the derived-most column to
// the source-most column. Each element is a dotted column identifier.
type Chain []string

// Chains parses an INSERT INTO ... SELECT statement and returns the
// derivation chains for every target column.
func Chains(sql string) ([]Chain, error) {
	stmt, err := parser.Parse(sql)
	if err != nil {
		return nil, err
	}
	return ChainsForStatement(stmt)
}

// ChainsForStatement returns derivation chains for an already parsed
// statement. A plain SELECT yields chains rooted at the output column
// names without a target table qualifier.
func ChainsForStatement(stmt parser.Statement) ([]Chain, error) {
	var target string
	var targetColumns []string
	var sel *parser.SelectStmt

	switch s := stmt.(type) {
	case *parser.InsertStmt:
		target = s.Table
		targetColumns = s.Columns
		sel = s.Select
	case *parser.SelectStmt:
		sel = s
	default:
		return nil, &ResolveError{Message: "unsupported statement type"}
	}
	if sel == nil || sel.Body == nil {
		return nil, &ResolveError{Message: "statement has no SELECT body"}
	}

	r := newResolver()
	rel := r.resolveSelectStmt(sel)

	var chains []Chain
	for i, col := range rel.columns {
		head := col.name
		if i < len(targetColumns) {
			head = targetColumns[i]
		}
		if target != "" {
			head = target + "." + head
		}
		chains = append(chains, assembleChains(head, col)...)
	}
	return chains, nil
}

// assembleChains walks the source graph of one output column and
// returns one chain per root-to-leaf path.
func assembleChains(head string, col *colNode) []Chain {
	var out []Chain
	visited := map[*colNode]bool{col: true}

	var walk func(prefix Chain, node *colNode)
	walk = func(prefix Chain, node *colNode) {
		if len(node.sources) == 0 {
			chain := make(Chain, len(prefix))
			copy(chain, prefix)
			out = append(out, chain)
			return
		}
		progressed := false
		for _, src := range node.sources {
			if visited[src] {
				continue
			}
			visited[src] = true
			walk(append(prefix, src.label), src)
			visited[src] = false
			progressed = true
		}
		if !progressed {
			chain := make(Chain, len(prefix))
			copy(chain, prefix)
			out = append(out, chain)
		}
	}

	walk(Chain{head}, col)
	return out
}

// physicalLabel renders a chain element for a physical table column.
// Tables without a schema qualifier get the <default> marker.
func physicalLabel(table, column string) string {
	if strings.Contains(table, ".") {
		return table + "." + column
	}
	return DefaultSchema + "." + table + "." + column
}

// ResolveError reports a structural problem with a statement that
// prevents lineage inference.
type ResolveError struct {
	Message string
}

func (e *ResolveError) Error() string {
	return "lineage: " + e.Message
}
