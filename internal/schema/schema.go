// Package schema builds a per-CTE schema model from a parsed query.
//
// The model maps every CTE to its ordered output columns (name and
// defining expression text) and to the tables and CTEs it reads from.
// It is rebuilt from scratch before each expansion pass so it always
// reflects the current state of the tree.
package schema

import (
	"sort"
	"strconv"
	"strings"

	"github.com/lineagelabs/sqlens/pkg/format"
	"github.com/lineagelabs/sqlens/pkg/parser"
)

// Column is one output column of a CTE: its name and the rendered text
// of its defining expression.
type Column struct {
	Name string
	Expr string
}

// Entry describes one CTE: ordered columns plus the sorted sets of
// physical tables and sibling CTEs it references.
type Entry struct {
	Name         string
	Columns      []Column
	SourceTables []string
	SourceCTEs   []string
}

// ColumnNames returns the column names in declaration order.
func (e *Entry) ColumnNames() []string {
	names := make([]string, len(e.Columns))
	for i, c := range e.Columns {
		names[i] = c.Name
	}
	return names
}

// Model maps lower-cased CTE names to their schema entries. Duplicate
// CTE names resolve last-wins.
type Model map[string]*Entry

// Lookup finds a CTE entry by name, case-insensitively.
func (m Model) Lookup(name string) (*Entry, bool) {
	entry, ok := m[strings.ToLower(name)]
	return entry, ok
}

// Names returns the CTE names present in the model, sorted.
func (m Model) Names() []string {
	names := make([]string, 0, len(m))
	for _, entry := range m {
		names = append(names, entry.Name)
	}
	sort.Strings(names)
	return names
}

// Build derives the schema model for a statement. A statement without a
// WITH clause yields an empty model.
func Build(stmt parser.Statement) Model {
	model := make(Model)

	sel := mainSelect(stmt)
	if sel == nil || sel.With == nil {
		return model
	}

	// All CTE names are collected up front so that source classification
	// does not depend on declaration order.
	cteNames := make(map[string]bool, len(sel.With.CTEs))
	for _, cte := range sel.With.CTEs {
		cteNames[strings.ToLower(cte.Name)] = true
	}

	for _, cte := range sel.With.CTEs {
		entry := &Entry{Name: cte.Name}
		entry.Columns = projectionColumns(cte.Select)
		entry.SourceTables, entry.SourceCTEs = collectSources(cte.Select, cteNames)
		model[strings.ToLower(cte.Name)] = entry
	}
	return model
}

func mainSelect(stmt parser.Statement) *parser.SelectStmt {
	switch s := stmt.(type) {
	case *parser.SelectStmt:
		return s
	case *parser.InsertStmt:
		return s.Select
	default:
		return nil
	}
}

// projectionColumns derives the output columns of a statement from its
// first SELECT core.
func projectionColumns(sel *parser.SelectStmt) []Column {
	if sel == nil || sel.Body == nil || sel.Body.Left == nil {
		return nil
	}

	var columns []Column
	for i, item := range sel.Body.Left.Columns {
		columns = append(columns, projectionColumn(item, i))
	}
	return columns
}

func projectionColumn(item parser.SelectItem, index int) Column {
	switch {
	case item.Star:
		return Column{Name: "*", Expr: "*"}
	case item.TableStar != "":
		text := item.TableStar + ".*"
		return Column{Name: text, Expr: text}
	case item.Alias != "":
		return Column{Name: item.Alias, Expr: format.Expr(item.Expr)}
	}

	text := format.Expr(item.Expr)
	switch item.Expr.(type) {
	case *parser.ColumnRef, *parser.StarExpr:
		return Column{Name: text, Expr: text}
	default:
		return Column{Name: "col_" + strconv.Itoa(index+1), Expr: text}
	}
}

// collectSources scans every table reference reachable from the
// statement and splits it into physical tables and CTE references.
func collectSources(sel *parser.SelectStmt, cteNames map[string]bool) (tables, ctes []string) {
	tableSet := make(map[string]bool)
	cteSet := make(map[string]bool)

	parser.WalkSelects(sel, func(s *parser.SelectStmt) bool {
		walkBodies(s.Body, func(core *parser.SelectCore) {
			if core.From == nil {
				return
			}
			refs := []parser.TableRef{core.From.Source}
			for _, join := range core.From.Joins {
				refs = append(refs, join.Right)
			}
			for _, ref := range refs {
				name, ok := ref.(*parser.TableName)
				if !ok {
					continue
				}
				if name.Schema == "" && cteNames[strings.ToLower(name.Name)] {
					cteSet[name.Name] = true
				} else {
					tableSet[name.Qualified()] = true
				}
			}
		})
		return true
	})

	return sortedKeys(tableSet), sortedKeys(cteSet)
}

func walkBodies(body *parser.SelectBody, fn func(*parser.SelectCore)) {
	for ; body != nil; body = body.Right {
		if body.Left != nil {
			fn(body.Left)
		}
	}
}

func sortedKeys(set map[string]bool) []string {
	if len(set) == 0 {
		return nil
	}
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
