// Package format renders parser AST nodes back to SQL text.
//
// Two renderings are provided: SQL produces a compact single-line form
// used when rewriting queries and recording column expressions, and
// Pretty produces an indented multi-line form for display.
package format

import "github.com/lineagelabs/sqlens/pkg/parser"

// SQL renders a statement as compact single-line SQL.
func SQL(stmt parser.Statement) string {
	p := newPrinter(true)
	p.formatStatement(stmt)
	return p.String()
}

// Expr renders an expression as compact single-line SQL.
func Expr(e parser.Expr) string {
	p := newPrinter(true)
	p.formatExpr(e)
	return p.String()
}

// Pretty renders a statement as indented multi-line SQL.
func Pretty(stmt parser.Statement) string {
	p := newPrinter(false)
	p.formatStatement(stmt)
	return p.String()
}
