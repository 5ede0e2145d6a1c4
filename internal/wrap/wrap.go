// Package wrap turns bare SELECT queries into INSERT INTO ... SELECT
// statements so lineage inference has a concrete target table to anchor
// edges on. Queries extracted from dbt models or ad-hoc files rarely
// carry their destination, so a synthetic one is derived from the file
// name or the main source table.
package wrap

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/lineagelabs/sqlens/pkg/format"
	"github.com/lineagelabs/sqlens/pkg/parser"
)

// ErrNoSelect is returned when the input contains no SELECT to wrap.
var ErrNoSelect = errors.New("wrap: no SELECT statement found")

// Rule is a literal text substitution applied to the raw SQL before
// parsing. Rules run in order, so later rules see the output of
// earlier ones.
type Rule struct {
	Old string
	New string
}

// Apply runs every rule against the input in order.
func Apply(sql string, rules []Rule) string {
	for _, r := range rules {
		sql = strings.ReplaceAll(sql, r.Old, r.New)
	}
	return sql
}

var invalidTableChars = regexp.MustCompile(`[^a-zA-Z0-9_]`)

// TargetFromFilename derives a target table name from a file name by
// stripping the extension and replacing anything outside [a-zA-Z0-9_]
// with underscores.
func TargetFromFilename(name string) string {
	base := filepath.Base(name)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return invalidTableChars.ReplaceAllString(stem, "_")
}

// Insert applies the replacement rules and wraps the statement's SELECT
// with an INSERT INTO header. The target table comes from filename when
// one is given, otherwise "dummy_" plus the last path component of the
// main source table (or "dummy_unknown" when none can be found). The
// column list mirrors the outermost projection: aliases win, any star
// (bare or table-qualified) becomes a positional col_N name, and
// anything else is the rendered expression. The INSERT column grammar
// only takes bare identifiers, so star items never carry a qualifier.
//
// On parse failure the input is returned unchanged alongside the error
// so callers can degrade instead of dropping the query.
func Insert(sql string, rules []Rule, filename string) (string, error) {
	sql = Apply(sql, rules)

	stmt, err := parser.Parse(sql)
	if err != nil {
		return sql, fmt.Errorf("wrap: %w", err)
	}

	var sel *parser.SelectStmt
	switch s := stmt.(type) {
	case *parser.InsertStmt:
		// Already has a target; nothing to synthesize.
		return format.SQL(stmt), nil
	case *parser.SelectStmt:
		sel = s
	default:
		return sql, ErrNoSelect
	}

	target := TargetFromFilename(filename)
	if filename == "" {
		from := MainTable(sel)
		if from == "" {
			from = "unknown"
		}
		if i := strings.LastIndex(from, "."); i >= 0 {
			from = from[i+1:]
		}
		target = "dummy_" + from
	}

	cols := OutputColumns(sel)
	header := fmt.Sprintf("INSERT INTO %s (%s)", target, strings.Join(cols, ", "))
	return header + "\n" + format.SQL(sel), nil
}

// OutputColumns names the outermost projection of a statement. For set
// operations the left-most branch defines the shape.
func OutputColumns(sel *parser.SelectStmt) []string {
	core := sel.Body.Left
	cols := make([]string, 0, len(core.Columns))
	for i, item := range core.Columns {
		switch {
		case item.Alias != "":
			cols = append(cols, item.Alias)
		case item.Star, item.TableStar != "":
			cols = append(cols, fmt.Sprintf("col_%d", i+1))
		default:
			cols = append(cols, format.Expr(item.Expr))
		}
	}
	return cols
}

// MainTable finds the primary physical source table of a statement,
// drilling through derived tables and into CTE bodies until it lands on
// a real table name. Returns "" when the query has no FROM clause or
// bottoms out on something other than a table.
func MainTable(sel *parser.SelectStmt) string {
	ctes := map[string]*parser.SelectStmt{}
	if sel.With != nil {
		for _, cte := range sel.With.CTEs {
			ctes[strings.ToLower(cte.Name)] = cte.Select
		}
	}

	source := firstSource(sel)
	for i := 0; i < maxDrillDepth; i++ {
		switch t := source.(type) {
		case *parser.TableName:
			body, ok := ctes[strings.ToLower(t.Name)]
			if !ok || t.Schema != "" {
				return t.Qualified()
			}
			source = firstSource(body)
		case *parser.DerivedTable:
			source = firstSource(t.Select)
		case *parser.LateralTable:
			source = firstSource(t.Select)
		default:
			return ""
		}
	}
	return ""
}

// maxDrillDepth bounds CTE-reference cycles, which the grammar cannot
// rule out.
const maxDrillDepth = 64

func firstSource(sel *parser.SelectStmt) parser.TableRef {
	if sel == nil || sel.Body == nil || sel.Body.Left == nil {
		return nil
	}
	from := sel.Body.Left.From
	if from == nil {
		return nil
	}
	return from.Source
}
