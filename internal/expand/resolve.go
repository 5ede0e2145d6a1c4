package expand

import (
	"log/slog"
	"strings"

	"github.com/lineagelabs/sqlens/internal/schema"
	"github.com/lineagelabs/sqlens/pkg/parser"
)

// sourceDesc describes one FROM or JOIN operand during resolution.
type sourceDesc struct {
	name  string
	alias string
	entry *schema.Entry // non-nil when the operand is a CTE
}

// descriptors resolves FROM and JOIN operands into source descriptors.
// A derived table without an alias contributes no descriptor since it
// cannot be referenced for expansion.
func descriptors(from *parser.FromClause, model schema.Model) []sourceDesc {
	if from == nil {
		return nil
	}
	refs := []parser.TableRef{from.Source}
	for _, join := range from.Joins {
		refs = append(refs, join.Right)
	}

	var descs []sourceDesc
	for _, ref := range refs {
		switch t := ref.(type) {
		case *parser.TableName:
			alias := t.Alias
			if alias == "" {
				alias = t.Name
			}
			desc := sourceDesc{name: t.Name, alias: alias}
			if t.Schema == "" {
				if entry, ok := model.Lookup(t.Name); ok {
					desc.entry = entry
				}
			}
			descs = append(descs, desc)
		case *parser.DerivedTable:
			if t.Alias != "" {
				descs = append(descs, sourceDesc{name: t.Alias, alias: t.Alias})
			}
		case *parser.LateralTable:
			if t.Alias != "" {
				descs = append(descs, sourceDesc{name: t.Alias, alias: t.Alias})
			}
		}
	}
	return descs
}

// ResolveSelect rewrites wildcard projections in one SELECT core
// against the given schema model. The projection list is replaced in
// place; nothing else in the tree is touched.
func ResolveSelect(core *parser.SelectCore, model schema.Model, logger *slog.Logger) {
	if core == nil {
		return
	}
	if logger == nil {
		logger = slog.Default()
	}

	descs := descriptors(core.From, model)

	var columns []parser.SelectItem
	for _, item := range core.Columns {
		switch {
		case item.Star:
			columns = append(columns, resolveUnqualifiedStar(item, descs, logger)...)
		case item.TableStar != "":
			columns = append(columns, resolveQualifiedStar(item, model, logger)...)
		default:
			columns = append(columns, item)
		}
	}
	core.Columns = columns
}

// resolveUnqualifiedStar expands a bare * against every source. CTE
// sources become explicit alias-qualified columns; opaque sources are
// narrowed to a per-source wildcard. With no CTE source at all the
// original star is preserved unchanged.
func resolveUnqualifiedStar(item parser.SelectItem, descs []sourceDesc, logger *slog.Logger) []parser.SelectItem {
	cteSources := 0
	for _, d := range descs {
		if d.entry != nil {
			cteSources++
		}
	}
	if cteSources == 0 {
		return []parser.SelectItem{item}
	}

	var out []parser.SelectItem
	for _, d := range descs {
		if d.entry != nil {
			out = append(out, expandEntry(d.alias, d.entry, item.Modifiers)...)
			logger.Debug("expanded wildcard", "source", d.alias, "columns", len(d.entry.Columns))
		} else {
			out = append(out, parser.SelectItem{TableStar: d.alias, Modifiers: item.Modifiers})
		}
	}
	return out
}

// resolveQualifiedStar expands alias.* only when the qualifier names a
// CTE directly; any other qualified wildcard is left untouched.
func resolveQualifiedStar(item parser.SelectItem, model schema.Model, logger *slog.Logger) []parser.SelectItem {
	entry, ok := model.Lookup(item.TableStar)
	if !ok {
		return []parser.SelectItem{item}
	}
	logger.Debug("expanded wildcard", "source", item.TableStar, "columns", len(entry.Columns))
	return expandEntry(item.TableStar, entry, item.Modifiers)
}

// expandEntry emits one explicit projection per CTE column, honoring
// EXCEPT and REPLACE modifiers from the original star.
func expandEntry(alias string, entry *schema.Entry, mods []parser.StarModifier) []parser.SelectItem {
	excluded := make(map[string]bool)
	replacements := make(map[string]parser.ReplaceItem)
	for _, mod := range mods {
		switch m := mod.(type) {
		case *parser.ExcludeModifier:
			for _, col := range m.Columns {
				excluded[strings.ToLower(col)] = true
			}
		case *parser.ReplaceModifier:
			for _, r := range m.Items {
				replacements[strings.ToLower(r.Alias)] = r
			}
		}
	}

	var out []parser.SelectItem
	for _, col := range entry.Columns {
		if strings.Contains(col.Name, "*") {
			// The CTE itself is not expanded yet; defer to a later pass.
			out = append(out, parser.SelectItem{TableStar: alias})
			continue
		}
		// Schema names keep their original qualifiers; re-qualify with
		// the source alias using the base column name only.
		name := col.Name
		if i := strings.LastIndex(name, "."); i >= 0 {
			name = name[i+1:]
		}
		key := strings.ToLower(name)
		if excluded[key] {
			continue
		}
		if repl, ok := replacements[key]; ok {
			out = append(out, parser.SelectItem{
				Expr:  parser.CloneExpr(repl.Expr),
				Alias: repl.Alias,
			})
			continue
		}
		out = append(out, parser.SelectItem{
			Expr: &parser.ColumnRef{Table: alias, Column: name},
		})
	}
	return out
}
