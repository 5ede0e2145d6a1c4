package parser

// Deep copying of AST nodes. Cached statements are handed out as clones
// so callers can rewrite a tree without corrupting shared state.

// CloneStatement returns a deep copy of the statement.
func CloneStatement(stmt Statement) Statement {
	switch s := stmt.(type) {
	case *SelectStmt:
		return s.Clone()
	case *InsertStmt:
		return s.Clone()
	default:
		return nil
	}
}

// CloneExpr returns a deep copy of an expression.
func CloneExpr(e Expr) Expr {
	return cloneExpr(e)
}

// Clone returns a deep copy of the INSERT statement.
func (s *InsertStmt) Clone() *InsertStmt {
	if s == nil {
		return nil
	}
	out := &InsertStmt{Table: s.Table, Select: s.Select.Clone()}
	out.Columns = append([]string(nil), s.Columns...)
	return out
}

// Clone returns a deep copy of the SELECT statement.
func (s *SelectStmt) Clone() *SelectStmt {
	if s == nil {
		return nil
	}
	out := &SelectStmt{Body: s.Body.Clone()}
	if s.With != nil {
		w := &WithClause{Recursive: s.With.Recursive}
		for _, cte := range s.With.CTEs {
			w.CTEs = append(w.CTEs, &CTE{Name: cte.Name, Select: cte.Select.Clone()})
		}
		out.With = w
	}
	return out
}

// Clone returns a deep copy of the SELECT body.
func (b *SelectBody) Clone() *SelectBody {
	if b == nil {
		return nil
	}
	return &SelectBody{
		Left:  b.Left.Clone(),
		Op:    b.Op,
		All:   b.All,
		Right: b.Right.Clone(),
	}
}

// Clone returns a deep copy of the SELECT core.
func (c *SelectCore) Clone() *SelectCore {
	if c == nil {
		return nil
	}
	out := &SelectCore{
		Distinct: c.Distinct,
		Where:    cloneExpr(c.Where),
		Having:   cloneExpr(c.Having),
		Qualify:  cloneExpr(c.Qualify),
		Limit:    cloneExpr(c.Limit),
		Offset:   cloneExpr(c.Offset),
	}
	for _, item := range c.Columns {
		out.Columns = append(out.Columns, item.Clone())
	}
	if c.From != nil {
		out.From = c.From.Clone()
	}
	for _, e := range c.GroupBy {
		out.GroupBy = append(out.GroupBy, cloneExpr(e))
	}
	for _, o := range c.OrderBy {
		out.OrderBy = append(out.OrderBy, cloneOrderByItem(o))
	}
	return out
}

// Clone returns a deep copy of the SELECT item.
func (i SelectItem) Clone() SelectItem {
	out := SelectItem{
		Star:      i.Star,
		TableStar: i.TableStar,
		Expr:      cloneExpr(i.Expr),
		Alias:     i.Alias,
	}
	for _, m := range i.Modifiers {
		out.Modifiers = append(out.Modifiers, cloneStarModifier(m))
	}
	return out
}

func cloneStarModifier(m StarModifier) StarModifier {
	switch mod := m.(type) {
	case *ExcludeModifier:
		return &ExcludeModifier{Columns: append([]string(nil), mod.Columns...)}
	case *ReplaceModifier:
		out := &ReplaceModifier{}
		for _, item := range mod.Items {
			out.Items = append(out.Items, ReplaceItem{Expr: cloneExpr(item.Expr), Alias: item.Alias})
		}
		return out
	default:
		return nil
	}
}

// Clone returns a deep copy of the FROM clause.
func (f *FromClause) Clone() *FromClause {
	if f == nil {
		return nil
	}
	out := &FromClause{Source: cloneTableRef(f.Source)}
	for _, j := range f.Joins {
		out.Joins = append(out.Joins, &Join{
			Type:      j.Type,
			Right:     cloneTableRef(j.Right),
			Condition: cloneExpr(j.Condition),
			Using:     append([]string(nil), j.Using...),
		})
	}
	return out
}

func cloneTableRef(ref TableRef) TableRef {
	switch t := ref.(type) {
	case *TableName:
		cp := *t
		return &cp
	case *DerivedTable:
		return &DerivedTable{Select: t.Select.Clone(), Alias: t.Alias}
	case *LateralTable:
		return &LateralTable{Select: t.Select.Clone(), Alias: t.Alias}
	default:
		return nil
	}
}

func cloneOrderByItem(o OrderByItem) OrderByItem {
	out := OrderByItem{Expr: cloneExpr(o.Expr), Desc: o.Desc}
	if o.NullsFirst != nil {
		b := *o.NullsFirst
		out.NullsFirst = &b
	}
	return out
}

func cloneExpr(e Expr) Expr {
	if e == nil {
		return nil
	}
	switch x := e.(type) {
	case *ColumnRef:
		cp := *x
		return &cp
	case *Literal:
		cp := *x
		return &cp
	case *BinaryExpr:
		return &BinaryExpr{Left: cloneExpr(x.Left), Op: x.Op, Right: cloneExpr(x.Right)}
	case *UnaryExpr:
		return &UnaryExpr{Op: x.Op, Expr: cloneExpr(x.Expr)}
	case *FuncCall:
		out := &FuncCall{Name: x.Name, Distinct: x.Distinct, Star: x.Star, Filter: cloneExpr(x.Filter)}
		for _, arg := range x.Args {
			out.Args = append(out.Args, cloneExpr(arg))
		}
		if x.Window != nil {
			out.Window = cloneWindowSpec(x.Window)
		}
		return out
	case *CaseExpr:
		out := &CaseExpr{Operand: cloneExpr(x.Operand), Else: cloneExpr(x.Else)}
		for _, w := range x.Whens {
			out.Whens = append(out.Whens, WhenClause{
				Condition: cloneExpr(w.Condition),
				Result:    cloneExpr(w.Result),
			})
		}
		return out
	case *CastExpr:
		return &CastExpr{Expr: cloneExpr(x.Expr), TypeName: x.TypeName}
	case *InExpr:
		out := &InExpr{Expr: cloneExpr(x.Expr), Not: x.Not, Query: x.Query.Clone()}
		for _, v := range x.Values {
			out.Values = append(out.Values, cloneExpr(v))
		}
		return out
	case *BetweenExpr:
		return &BetweenExpr{
			Expr: cloneExpr(x.Expr),
			Not:  x.Not,
			Low:  cloneExpr(x.Low),
			High: cloneExpr(x.High),
		}
	case *IsNullExpr:
		return &IsNullExpr{Expr: cloneExpr(x.Expr), Not: x.Not}
	case *LikeExpr:
		return &LikeExpr{
			Expr:    cloneExpr(x.Expr),
			Not:     x.Not,
			Pattern: cloneExpr(x.Pattern),
			ILike:   x.ILike,
		}
	case *ParenExpr:
		return &ParenExpr{Expr: cloneExpr(x.Expr)}
	case *StarExpr:
		cp := *x
		return &cp
	case *SubqueryExpr:
		return &SubqueryExpr{Select: x.Select.Clone()}
	case *ExistsExpr:
		return &ExistsExpr{Not: x.Not, Select: x.Select.Clone()}
	default:
		return nil
	}
}

func cloneWindowSpec(w *WindowSpec) *WindowSpec {
	out := &WindowSpec{}
	for _, e := range w.PartitionBy {
		out.PartitionBy = append(out.PartitionBy, cloneExpr(e))
	}
	for _, o := range w.OrderBy {
		out.OrderBy = append(out.OrderBy, cloneOrderByItem(o))
	}
	if w.Frame != nil {
		frame := &FrameSpec{Type: w.Frame.Type}
		if w.Frame.Start != nil {
			frame.Start = &FrameBound{Type: w.Frame.Start.Type, Offset: cloneExpr(w.Frame.Start.Offset)}
		}
		if w.Frame.End != nil {
			frame.End = &FrameBound{Type: w.Frame.End.Type, Offset: cloneExpr(w.Frame.End.Offset)}
		}
		out.Frame = frame
	}
	return out
}
