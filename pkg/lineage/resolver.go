package lineage

import (
	"strconv"
	"strings"

	"github.com/lineagelabs/sqlens/pkg/parser"
)

// colNode is one column in the derivation graph. Virtual columns (CTE
// and derived-table outputs) carry their upstream sources; physical and
// unresolved columns are terminal.
type colNode struct {
	name    string
	label   string
	sources []*colNode
}

// virtualRel is the resolved column set of a CTE, derived table, or the
// statement's main SELECT.
type virtualRel struct {
	name    string
	columns []*colNode
	byName  map[string]*colNode
}

func newVirtualRel(name string) *virtualRel {
	return &virtualRel{name: name, byName: make(map[string]*colNode)}
}

func (r *virtualRel) add(col *colNode) {
	r.columns = append(r.columns, col)
	r.byName[strings.ToLower(col.name)] = col
}

func (r *virtualRel) lookup(name string) (*colNode, bool) {
	col, ok := r.byName[strings.ToLower(name)]
	return col, ok
}

// scopeEntry is one FROM or JOIN operand visible to a SELECT core.
type scopeEntry struct {
	alias   string      // effective name used for qualification
	rel     *virtualRel // non-nil for CTEs and derived tables
	table   string      // qualified physical table name
	hasName bool
}

// resolver builds derivation graphs for the relations of a statement.
// Duplicate CTE names follow last-wins resolution.
type resolver struct {
	ctes map[string]*virtualRel
}

func newResolver() *resolver {
	return &resolver{ctes: make(map[string]*virtualRel)}
}

func (r *resolver) lookupCTE(name string) (*virtualRel, bool) {
	rel, ok := r.ctes[strings.ToLower(name)]
	return rel, ok
}

// resolveSelectStmt resolves a full statement and returns the relation
// for its main body.
func (r *resolver) resolveSelectStmt(stmt *parser.SelectStmt) *virtualRel {
	return r.resolveBody(stmt, "")
}

// resolveBody resolves a statement body, merging set-operation branches
// per column position. Its WITH clause, if any, shadows outer CTEs for
// this branch only.
func (r *resolver) resolveBody(stmt *parser.SelectStmt, name string) *virtualRel {
	out := newVirtualRel(name)
	if stmt == nil || stmt.Body == nil {
		return out
	}

	if stmt.With != nil {
		saved := r.ctes
		scoped := make(map[string]*virtualRel, len(saved))
		for k, v := range saved {
			scoped[k] = v
		}
		r.ctes = scoped
		for _, cte := range stmt.With.CTEs {
			r.ctes[strings.ToLower(cte.Name)] = r.resolveBody(cte.Select, cte.Name)
		}
		defer func() { r.ctes = saved }()
	}

	columns := r.resolveCore(stmt.Body.Left, name)

	for body := stmt.Body.Right; body != nil; body = body.Right {
		branch := r.resolveCore(body.Left, name)
		for i, col := range columns {
			if i < len(branch) {
				col.sources = mergeSources(col.sources, branch[i].sources)
			}
		}
	}

	for _, col := range columns {
		out.add(col)
	}
	return out
}

// resolveCore resolves one SELECT core into output columns.
func (r *resolver) resolveCore(core *parser.SelectCore, relName string) []*colNode {
	if core == nil {
		return nil
	}

	scope := r.buildScope(core.From)

	var columns []*colNode
	for i, item := range core.Columns {
		columns = append(columns, r.resolveSelectItem(item, i, scope, relName)...)
	}
	return columns
}

// buildScope registers FROM and JOIN operands as scope entries.
func (r *resolver) buildScope(from *parser.FromClause) []scopeEntry {
	if from == nil {
		return nil
	}
	refs := []parser.TableRef{from.Source}
	for _, join := range from.Joins {
		refs = append(refs, join.Right)
	}

	var scope []scopeEntry
	for _, ref := range refs {
		switch t := ref.(type) {
		case *parser.TableName:
			alias := t.Alias
			if alias == "" {
				alias = t.Name
			}
			if rel, ok := r.lookupCTE(t.Name); ok && t.Schema == "" {
				scope = append(scope, scopeEntry{alias: alias, rel: rel, hasName: true})
			} else {
				scope = append(scope, scopeEntry{alias: alias, table: t.Qualified(), hasName: true})
			}
		case *parser.DerivedTable:
			rel := r.resolveBody(t.Select, t.Alias)
			scope = append(scope, scopeEntry{alias: t.Alias, rel: rel, hasName: t.Alias != ""})
		case *parser.LateralTable:
			rel := r.resolveBody(t.Select, t.Alias)
			scope = append(scope, scopeEntry{alias: t.Alias, rel: rel, hasName: t.Alias != ""})
		}
	}
	return scope
}

// resolveSelectItem resolves one projection into output columns.
func (r *resolver) resolveSelectItem(item parser.SelectItem, index int, scope []scopeEntry, relName string) []*colNode {
	if item.Star || item.TableStar != "" {
		return r.expandStarItem(item, scope, relName)
	}

	name := item.Alias
	if name == "" {
		name = inferColumnName(item.Expr, index)
	}

	col := &colNode{name: name, label: qualifyLabel(relName, name)}
	for _, ref := range collectColumnRefs(item.Expr) {
		col.sources = mergeSources(col.sources, r.resolveRef(ref, scope))
	}
	return []*colNode{col}
}

// expandStarItem expands a * or t.* projection against the scope. CTE
// and derived-table sources contribute one output column per known
// column; physical sources are opaque and yield a single star column.
func (r *resolver) expandStarItem(item parser.SelectItem, scope []scopeEntry, relName string) []*colNode {
	var columns []*colNode

	matched := false
	for _, entry := range scope {
		if item.TableStar != "" && !strings.EqualFold(entry.alias, item.TableStar) {
			continue
		}
		matched = true
		if entry.rel != nil {
			for _, src := range entry.rel.columns {
				col := &colNode{
					name:    src.name,
					label:   qualifyLabel(relName, src.name),
					sources: []*colNode{src},
				}
				columns = append(columns, col)
			}
		} else if entry.hasName {
			// Opaque physical table: record the star itself so the
			// projection is not silently dropped.
			name := entry.alias + ".*"
			columns = append(columns, &colNode{name: name, label: qualifyLabel(relName, name)})
		}
	}

	if !matched {
		name := "*"
		if item.TableStar != "" {
			name = item.TableStar + ".*"
		}
		columns = append(columns, &colNode{name: name, label: qualifyLabel(relName, name)})
	}
	return columns
}

// resolveRef resolves one column reference against the scope.
func (r *resolver) resolveRef(ref *parser.ColumnRef, scope []scopeEntry) []*colNode {
	if ref.Table != "" {
		for i := range scope {
			entry := &scope[i]
			if !matchesQualifier(entry, ref.Table) {
				continue
			}
			if entry.rel != nil {
				if col, ok := entry.rel.lookup(ref.Column); ok {
					return []*colNode{col}
				}
				// Known relation, unknown column: still attribute it.
				return []*colNode{{
					name:  ref.Column,
					label: qualifyLabel(entry.rel.name, ref.Column),
				}}
			}
			return []*colNode{{
				name:  ref.Column,
				label: physicalLabel(entry.table, ref.Column),
			}}
		}
		// Qualifier names no scope entry; treat it as a table name.
		return []*colNode{{
			name:  ref.Column,
			label: physicalLabel(ref.Table, ref.Column),
		}}
	}

	// Unqualified: a single source owns every bare column.
	if len(scope) == 1 {
		entry := &scope[0]
		if entry.rel != nil {
			if col, ok := entry.rel.lookup(ref.Column); ok {
				return []*colNode{col}
			}
			return []*colNode{{
				name:  ref.Column,
				label: qualifyLabel(entry.rel.name, ref.Column),
			}}
		}
		if entry.table != "" {
			return []*colNode{{
				name:  ref.Column,
				label: physicalLabel(entry.table, ref.Column),
			}}
		}
		return []*colNode{{name: ref.Column, label: ref.Column}}
	}

	// Prefer a virtual relation that declares the column.
	for i := range scope {
		entry := &scope[i]
		if entry.rel == nil {
			continue
		}
		if col, ok := entry.rel.lookup(ref.Column); ok {
			return []*colNode{col}
		}
	}

	// Ambiguous or unknown: keep the bare column name.
	return []*colNode{{name: ref.Column, label: ref.Column}}
}

func matchesQualifier(entry *scopeEntry, qualifier string) bool {
	if strings.EqualFold(entry.alias, qualifier) {
		return true
	}
	return entry.table != "" && strings.EqualFold(entry.table, qualifier)
}

// collectColumnRefs gathers column references from an expression,
// skipping nested subqueries.
func collectColumnRefs(expr parser.Expr) []*parser.ColumnRef {
	var refs []*parser.ColumnRef
	parser.WalkExprs(expr, func(e parser.Expr) bool {
		switch x := e.(type) {
		case *parser.ColumnRef:
			refs = append(refs, x)
		case *parser.SubqueryExpr, *parser.ExistsExpr:
			return false
		}
		return true
	})
	return refs
}

// mergeSources appends b to a, dropping duplicate nodes and labels.
func mergeSources(a, b []*colNode) []*colNode {
	seen := make(map[*colNode]bool, len(a))
	labels := make(map[string]bool, len(a))
	for _, n := range a {
		seen[n] = true
		labels[n.label] = true
	}
	for _, n := range b {
		if seen[n] || labels[n.label] {
			continue
		}
		seen[n] = true
		labels[n.label] = true
		a = append(a, n)
	}
	return a
}

// qualifyLabel renders a chain element for a virtual relation column.
func qualifyLabel(relName, column string) string {
	if relName == "" {
		return column
	}
	return relName + "." + column
}

// inferColumnName derives a name for an unaliased projection.
func inferColumnName(expr parser.Expr, index int) string {
	switch e := expr.(type) {
	case *parser.ColumnRef:
		return e.Column
	case *parser.CastExpr:
		return inferColumnName(e.Expr, index)
	case *parser.ParenExpr:
		return inferColumnName(e.Expr, index)
	case *parser.StarExpr:
		if e.Table != "" {
			return e.Table + ".*"
		}
		return "*"
	default:
		return "col_" + strconv.Itoa(index+1)
	}
}
