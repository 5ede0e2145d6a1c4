// Package expand rewrites wildcard projections into explicit column
// lists by resolving them against the schemas of upstream CTEs.
//
// Expansion runs as a bounded fixpoint: the schema model is rebuilt
// before each pass, wildcards in CTE bodies are resolved in declaration
// order, the model is rebuilt again, and the main SELECT is resolved
// last. Wildcards over opaque physical tables stay as they are since
// their column sets are not locally knowable.
package expand

import (
	"log/slog"

	"github.com/lineagelabs/sqlens/internal/schema"
	"github.com/lineagelabs/sqlens/pkg/parser"
)

// MaxPasses bounds the fixpoint loop. A query with N levels of star
// chaining through CTEs resolves in at most N+1 passes; anything still
// unresolved at the bound is left partially expanded.
const MaxPasses = 5

// Statement expands wildcards in a statement in place. It returns true
// when no wildcard remains anywhere in the tree afterwards.
func Statement(stmt parser.Statement, logger *slog.Logger) bool {
	if logger == nil {
		logger = slog.Default()
	}

	sel := mainSelect(stmt)
	if sel == nil {
		return true
	}

	for pass := 1; pass <= MaxPasses; pass++ {
		model := schema.Build(stmt)

		if !HasWildcards(stmt) {
			return true
		}

		if sel.With != nil {
			for _, cte := range sel.With.CTEs {
				resolveStatementCores(cte.Select, model, logger)
			}
			model = schema.Build(stmt)
		}

		resolveBodyCores(sel.Body, model, logger)
	}

	if HasWildcards(stmt) {
		logger.Warn("wildcard expansion did not converge", "passes", MaxPasses)
		return false
	}
	return true
}

// HasWildcards reports whether any projection list reachable from the
// statement still contains a star item.
func HasWildcards(stmt parser.Statement) bool {
	found := false
	parser.WalkSelects(stmt, func(sel *parser.SelectStmt) bool {
		for body := sel.Body; body != nil; body = body.Right {
			if body.Left == nil {
				continue
			}
			for _, item := range body.Left.Columns {
				if item.Star || item.TableStar != "" {
					found = true
					return false
				}
			}
		}
		return !found
	})
	return found
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

func resolveStatementCores(sel *parser.SelectStmt, model schema.Model, logger *slog.Logger) {
	if sel == nil {
		return
	}
	resolveBodyCores(sel.Body, model, logger)
}

func resolveBodyCores(body *parser.SelectBody, model schema.Model, logger *slog.Logger) {
	for ; body != nil; body = body.Right {
		ResolveSelect(body.Left, model, logger)
	}
}
