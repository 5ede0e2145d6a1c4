package format

import "github.com/lineagelabs/sqlens/pkg/parser"

func (p *Printer) formatStatement(stmt parser.Statement) {
	switch s := stmt.(type) {
	case *parser.SelectStmt:
		p.formatSelectStmt(s)
	case *parser.InsertStmt:
		p.formatInsertStmt(s)
	}
}

func (p *Printer) formatInsertStmt(stmt *parser.InsertStmt) {
	p.keyword("INSERT INTO ")
	p.write(stmt.Table)
	if len(stmt.Columns) > 0 {
		p.write(" (")
		p.formatList(len(stmt.Columns), func(i int) {
			p.write(stmt.Columns[i])
		}, ",", false)
		p.write(")")
	}
	p.writeln()
	p.formatSelectStmt(stmt.Select)
}

func (p *Printer) formatSelectStmt(stmt *parser.SelectStmt) {
	if stmt == nil {
		return
	}
	if stmt.With != nil {
		p.formatWithClause(stmt.With)
	}
	p.formatSelectBody(stmt.Body)
}

func (p *Printer) formatWithClause(with *parser.WithClause) {
	p.keyword("WITH ")
	if with.Recursive {
		p.keyword("RECURSIVE ")
	}
	p.formatList(len(with.CTEs), func(i int) {
		cte := with.CTEs[i]
		p.write(cte.Name)
		p.keyword(" AS (")
		p.writeln()
		p.indent()
		p.formatSelectStmt(cte.Select)
		p.dedent()
		p.writeln()
		p.write(")")
	}, ",", true)
	p.writeln()
}

func (p *Printer) formatSelectBody(body *parser.SelectBody) {
	if body == nil {
		return
	}
	p.formatSelectCore(body.Left)
	if body.Op != parser.SetOpNone && body.Right != nil {
		p.writeln()
		p.keyword(string(body.Op))
		p.writeln()
		p.formatSelectBody(body.Right)
	}
}

func (p *Printer) formatSelectCore(core *parser.SelectCore) {
	if core == nil {
		return
	}

	p.keyword("SELECT")
	if core.Distinct {
		p.keyword(" DISTINCT")
	}
	p.writeln()
	p.indent()
	p.formatList(len(core.Columns), func(i int) {
		p.formatSelectItem(core.Columns[i])
	}, ",", true)
	p.dedent()

	if core.From != nil {
		p.writeln()
		p.keyword("FROM ")
		p.formatTableRef(core.From.Source)
		for _, join := range core.From.Joins {
			p.formatJoin(join)
		}
	}

	if core.Where != nil {
		p.writeln()
		p.keyword("WHERE ")
		p.formatExpr(core.Where)
	}

	if len(core.GroupBy) > 0 {
		p.writeln()
		p.keyword("GROUP BY ")
		p.formatList(len(core.GroupBy), func(i int) {
			p.formatExpr(core.GroupBy[i])
		}, ",", false)
	}

	if core.Having != nil {
		p.writeln()
		p.keyword("HAVING ")
		p.formatExpr(core.Having)
	}

	if core.Qualify != nil {
		p.writeln()
		p.keyword("QUALIFY ")
		p.formatExpr(core.Qualify)
	}

	if len(core.OrderBy) > 0 {
		p.writeln()
		p.keyword("ORDER BY ")
		p.formatList(len(core.OrderBy), func(i int) {
			p.formatOrderByItem(core.OrderBy[i])
		}, ",", false)
	}

	if core.Limit != nil {
		p.writeln()
		p.keyword("LIMIT ")
		p.formatExpr(core.Limit)
		if core.Offset != nil {
			p.keyword(" OFFSET ")
			p.formatExpr(core.Offset)
		}
	}
}

func (p *Printer) formatSelectItem(item parser.SelectItem) {
	switch {
	case item.Star:
		p.write("*")
	case item.TableStar != "":
		p.write(item.TableStar)
		p.write(".*")
	default:
		p.formatExpr(item.Expr)
		if item.Alias != "" {
			p.keyword(" AS ")
			p.write(item.Alias)
		}
		return
	}

	for _, mod := range item.Modifiers {
		p.formatStarModifier(mod)
	}
}

func (p *Printer) formatStarModifier(mod parser.StarModifier) {
	switch m := mod.(type) {
	case *parser.ExcludeModifier:
		p.keyword(" EXCEPT (")
		p.formatList(len(m.Columns), func(i int) {
			p.write(m.Columns[i])
		}, ",", false)
		p.write(")")
	case *parser.ReplaceModifier:
		p.keyword(" REPLACE (")
		p.formatList(len(m.Items), func(i int) {
			p.formatExpr(m.Items[i].Expr)
			p.keyword(" AS ")
			p.write(m.Items[i].Alias)
		}, ",", false)
		p.write(")")
	}
}

func (p *Printer) formatTableRef(ref parser.TableRef) {
	switch t := ref.(type) {
	case *parser.TableName:
		p.write(t.Qualified())
		if t.Alias != "" {
			p.keyword(" AS ")
			p.write(t.Alias)
		}
	case *parser.DerivedTable:
		p.write("(")
		p.writeln()
		p.indent()
		p.formatSelectStmt(t.Select)
		p.dedent()
		p.writeln()
		p.write(")")
		if t.Alias != "" {
			p.keyword(" AS ")
			p.write(t.Alias)
		}
	case *parser.LateralTable:
		p.keyword("LATERAL (")
		p.writeln()
		p.indent()
		p.formatSelectStmt(t.Select)
		p.dedent()
		p.writeln()
		p.write(")")
		if t.Alias != "" {
			p.keyword(" AS ")
			p.write(t.Alias)
		}
	}
}

func (p *Printer) formatJoin(join *parser.Join) {
	if join.Type == parser.JoinComma {
		p.write(",")
		p.space()
		p.formatTableRef(join.Right)
		return
	}

	p.writeln()
	switch join.Type {
	case parser.JoinInner:
		p.keyword("JOIN ")
	case parser.JoinLeft:
		p.keyword("LEFT JOIN ")
	case parser.JoinRight:
		p.keyword("RIGHT JOIN ")
	case parser.JoinFull:
		p.keyword("FULL JOIN ")
	case parser.JoinCross:
		p.keyword("CROSS JOIN ")
	}
	p.formatTableRef(join.Right)

	if join.Condition != nil {
		p.keyword(" ON ")
		p.formatExpr(join.Condition)
	} else if len(join.Using) > 0 {
		p.keyword(" USING (")
		p.formatList(len(join.Using), func(i int) {
			p.write(join.Using[i])
		}, ",", false)
		p.write(")")
	}
}

func (p *Printer) formatOrderByItem(item parser.OrderByItem) {
	p.formatExpr(item.Expr)
	if item.Desc {
		p.keyword(" DESC")
	}
	if item.NullsFirst != nil {
		if *item.NullsFirst {
			p.keyword(" NULLS FIRST")
		} else {
			p.keyword(" NULLS LAST")
		}
	}
}
