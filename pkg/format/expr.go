package format

import (
	"strings"

	"github.com/lineagelabs/sqlens/pkg/parser"
)

func (p *Printer) formatExpr(e parser.Expr) {
	if e == nil {
		return
	}

	switch expr := e.(type) {
	case *parser.Literal:
		p.formatLiteral(expr)
	case *parser.ColumnRef:
		p.formatColumnRef(expr)
	case *parser.BinaryExpr:
		p.formatBinaryExpr(expr)
	case *parser.UnaryExpr:
		p.formatUnaryExpr(expr)
	case *parser.FuncCall:
		p.formatFuncCall(expr)
	case *parser.CaseExpr:
		p.formatCaseExpr(expr)
	case *parser.CastExpr:
		p.formatCastExpr(expr)
	case *parser.InExpr:
		p.formatInExpr(expr)
	case *parser.BetweenExpr:
		p.formatBetweenExpr(expr)
	case *parser.IsNullExpr:
		p.formatIsNullExpr(expr)
	case *parser.LikeExpr:
		p.formatLikeExpr(expr)
	case *parser.ParenExpr:
		p.formatParenExpr(expr)
	case *parser.SubqueryExpr:
		p.formatSubqueryExpr(expr)
	case *parser.ExistsExpr:
		p.formatExistsExpr(expr)
	case *parser.StarExpr:
		p.formatStarExpr(expr)
	}
}

func (p *Printer) formatLiteral(lit *parser.Literal) {
	switch lit.Type {
	case parser.LiteralString:
		p.write("'" + strings.ReplaceAll(lit.Value, "'", "''") + "'")
	default:
		p.write(lit.Value)
	}
}

func (p *Printer) formatColumnRef(ref *parser.ColumnRef) {
	if ref.Table != "" {
		p.write(ref.Table)
		p.write(".")
	}
	p.write(ref.Column)
}

func (p *Printer) formatBinaryExpr(expr *parser.BinaryExpr) {
	p.formatExpr(expr.Left)
	p.space()
	p.write(binaryOpText(expr.Op))
	p.space()
	p.formatExpr(expr.Right)
}

func binaryOpText(op parser.TokenType) string {
	switch op {
	case parser.TOKEN_AND:
		return "AND"
	case parser.TOKEN_OR:
		return "OR"
	default:
		return op.String()
	}
}

func (p *Printer) formatUnaryExpr(expr *parser.UnaryExpr) {
	switch expr.Op {
	case parser.TOKEN_NOT:
		p.keyword("NOT ")
	case parser.TOKEN_MINUS:
		p.write("-")
	case parser.TOKEN_PLUS:
		p.write("+")
	}
	p.formatExpr(expr.Expr)
}

func (p *Printer) formatFuncCall(fn *parser.FuncCall) {
	p.write(fn.Name)
	p.write("(")
	if fn.Star {
		p.write("*")
	} else {
		if fn.Distinct {
			p.keyword("DISTINCT ")
		}
		p.formatList(len(fn.Args), func(i int) {
			p.formatExpr(fn.Args[i])
		}, ",", false)
	}
	p.write(")")

	if fn.Filter != nil {
		p.keyword(" FILTER (WHERE ")
		p.formatExpr(fn.Filter)
		p.write(")")
	}

	if fn.Window != nil {
		p.keyword(" OVER ")
		p.formatWindowSpec(fn.Window)
	}
}

func (p *Printer) formatWindowSpec(spec *parser.WindowSpec) {
	p.write("(")
	needSpace := false

	if len(spec.PartitionBy) > 0 {
		p.keyword("PARTITION BY ")
		p.formatList(len(spec.PartitionBy), func(i int) {
			p.formatExpr(spec.PartitionBy[i])
		}, ",", false)
		needSpace = true
	}

	if len(spec.OrderBy) > 0 {
		if needSpace {
			p.space()
		}
		p.keyword("ORDER BY ")
		p.formatList(len(spec.OrderBy), func(i int) {
			p.formatOrderByItem(spec.OrderBy[i])
		}, ",", false)
		needSpace = true
	}

	if spec.Frame != nil {
		if needSpace {
			p.space()
		}
		p.formatFrameSpec(spec.Frame)
	}

	p.write(")")
}

func (p *Printer) formatFrameSpec(frame *parser.FrameSpec) {
	p.keyword(string(frame.Type))
	p.space()
	if frame.End != nil {
		p.keyword("BETWEEN ")
		p.formatFrameBound(frame.Start)
		p.keyword(" AND ")
		p.formatFrameBound(frame.End)
	} else {
		p.formatFrameBound(frame.Start)
	}
}

func (p *Printer) formatFrameBound(bound *parser.FrameBound) {
	switch bound.Type {
	case parser.FrameExprPreceding:
		p.formatExpr(bound.Offset)
		p.keyword(" PRECEDING")
	case parser.FrameExprFollowing:
		p.formatExpr(bound.Offset)
		p.keyword(" FOLLOWING")
	default:
		p.keyword(string(bound.Type))
	}
}

func (p *Printer) formatCaseExpr(expr *parser.CaseExpr) {
	p.keyword("CASE")
	if expr.Operand != nil {
		p.space()
		p.formatExpr(expr.Operand)
	}
	for _, when := range expr.Whens {
		p.keyword(" WHEN ")
		p.formatExpr(when.Condition)
		p.keyword(" THEN ")
		p.formatExpr(when.Result)
	}
	if expr.Else != nil {
		p.keyword(" ELSE ")
		p.formatExpr(expr.Else)
	}
	p.keyword(" END")
}

func (p *Printer) formatCastExpr(expr *parser.CastExpr) {
	p.keyword("CAST(")
	p.formatExpr(expr.Expr)
	p.keyword(" AS ")
	p.write(expr.TypeName)
	p.write(")")
}

func (p *Printer) formatInExpr(expr *parser.InExpr) {
	p.formatExpr(expr.Expr)
	if expr.Not {
		p.keyword(" NOT")
	}
	p.keyword(" IN (")
	if expr.Query != nil {
		p.formatCompactSelect(expr.Query)
	} else {
		p.formatList(len(expr.Values), func(i int) {
			p.formatExpr(expr.Values[i])
		}, ",", false)
	}
	p.write(")")
}

func (p *Printer) formatBetweenExpr(expr *parser.BetweenExpr) {
	p.formatExpr(expr.Expr)
	if expr.Not {
		p.keyword(" NOT")
	}
	p.keyword(" BETWEEN ")
	p.formatExpr(expr.Low)
	p.keyword(" AND ")
	p.formatExpr(expr.High)
}

func (p *Printer) formatIsNullExpr(expr *parser.IsNullExpr) {
	p.formatExpr(expr.Expr)
	if expr.Not {
		p.keyword(" IS NOT NULL")
	} else {
		p.keyword(" IS NULL")
	}
}

func (p *Printer) formatLikeExpr(expr *parser.LikeExpr) {
	p.formatExpr(expr.Expr)
	if expr.Not {
		p.keyword(" NOT")
	}
	if expr.ILike {
		p.keyword(" ILIKE ")
	} else {
		p.keyword(" LIKE ")
	}
	p.formatExpr(expr.Pattern)
}

func (p *Printer) formatParenExpr(expr *parser.ParenExpr) {
	p.write("(")
	p.formatExpr(expr.Expr)
	p.write(")")
}

func (p *Printer) formatSubqueryExpr(expr *parser.SubqueryExpr) {
	p.write("(")
	p.formatCompactSelect(expr.Select)
	p.write(")")
}

func (p *Printer) formatExistsExpr(expr *parser.ExistsExpr) {
	if expr.Not {
		p.keyword("NOT ")
	}
	p.keyword("EXISTS (")
	p.formatCompactSelect(expr.Select)
	p.write(")")
}

func (p *Printer) formatStarExpr(expr *parser.StarExpr) {
	if expr.Table != "" {
		p.write(expr.Table)
		p.write(".")
	}
	p.write("*")
}

// formatCompactSelect renders a nested statement on a single line even
// when the printer is in pretty mode.
func (p *Printer) formatCompactSelect(stmt *parser.SelectStmt) {
	if p.compact {
		p.formatSelectStmt(stmt)
		return
	}
	sub := newPrinter(true)
	sub.formatSelectStmt(stmt)
	p.write(sub.String())
}
