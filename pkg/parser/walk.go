package parser

// AST traversal helpers used by star expansion and lineage inference.

// WalkSelects calls fn for every SelectStmt reachable from stmt,
// including CTE bodies, derived tables, and subquery expressions.
// Traversal is pre-order; fn returning false stops descent into that
// statement's children.
func WalkSelects(stmt Statement, fn func(*SelectStmt) bool) {
	switch s := stmt.(type) {
	case *SelectStmt:
		walkSelectStmt(s, fn)
	case *InsertStmt:
		walkSelectStmt(s.Select, fn)
	}
}

func walkSelectStmt(s *SelectStmt, fn func(*SelectStmt) bool) {
	if s == nil || !fn(s) {
		return
	}
	if s.With != nil {
		for _, cte := range s.With.CTEs {
			walkSelectStmt(cte.Select, fn)
		}
	}
	walkSelectBody(s.Body, fn)
}

func walkSelectBody(b *SelectBody, fn func(*SelectStmt) bool) {
	if b == nil {
		return
	}
	walkSelectCore(b.Left, fn)
	walkSelectBody(b.Right, fn)
}

func walkSelectCore(c *SelectCore, fn func(*SelectStmt) bool) {
	if c == nil {
		return
	}
	for _, item := range c.Columns {
		walkExprSelects(item.Expr, fn)
		for _, m := range item.Modifiers {
			if rep, ok := m.(*ReplaceModifier); ok {
				for _, r := range rep.Items {
					walkExprSelects(r.Expr, fn)
				}
			}
		}
	}
	if c.From != nil {
		walkTableRef(c.From.Source, fn)
		for _, j := range c.From.Joins {
			walkTableRef(j.Right, fn)
			walkExprSelects(j.Condition, fn)
		}
	}
	walkExprSelects(c.Where, fn)
	for _, e := range c.GroupBy {
		walkExprSelects(e, fn)
	}
	walkExprSelects(c.Having, fn)
	walkExprSelects(c.Qualify, fn)
	for _, o := range c.OrderBy {
		walkExprSelects(o.Expr, fn)
	}
	walkExprSelects(c.Limit, fn)
	walkExprSelects(c.Offset, fn)
}

func walkTableRef(ref TableRef, fn func(*SelectStmt) bool) {
	switch t := ref.(type) {
	case *DerivedTable:
		walkSelectStmt(t.Select, fn)
	case *LateralTable:
		walkSelectStmt(t.Select, fn)
	}
}

func walkExprSelects(e Expr, fn func(*SelectStmt) bool) {
	WalkExprs(e, func(sub Expr) bool {
		switch x := sub.(type) {
		case *SubqueryExpr:
			walkSelectStmt(x.Select, fn)
		case *ExistsExpr:
			walkSelectStmt(x.Select, fn)
		case *InExpr:
			walkSelectStmt(x.Query, fn)
		}
		return true
	})
}

// WalkExprs calls fn for every expression node reachable from e in
// pre-order. fn returning false stops descent into that node's children.
func WalkExprs(e Expr, fn func(Expr) bool) {
	if e == nil || !fn(e) {
		return
	}
	switch x := e.(type) {
	case *BinaryExpr:
		WalkExprs(x.Left, fn)
		WalkExprs(x.Right, fn)
	case *UnaryExpr:
		WalkExprs(x.Expr, fn)
	case *FuncCall:
		for _, arg := range x.Args {
			WalkExprs(arg, fn)
		}
		WalkExprs(x.Filter, fn)
		if x.Window != nil {
			for _, pe := range x.Window.PartitionBy {
				WalkExprs(pe, fn)
			}
			for _, o := range x.Window.OrderBy {
				WalkExprs(o.Expr, fn)
			}
		}
	case *CaseExpr:
		WalkExprs(x.Operand, fn)
		for _, w := range x.Whens {
			WalkExprs(w.Condition, fn)
			WalkExprs(w.Result, fn)
		}
		WalkExprs(x.Else, fn)
	case *CastExpr:
		WalkExprs(x.Expr, fn)
	case *InExpr:
		WalkExprs(x.Expr, fn)
		for _, v := range x.Values {
			WalkExprs(v, fn)
		}
	case *BetweenExpr:
		WalkExprs(x.Expr, fn)
		WalkExprs(x.Low, fn)
		WalkExprs(x.High, fn)
	case *IsNullExpr:
		WalkExprs(x.Expr, fn)
	case *LikeExpr:
		WalkExprs(x.Expr, fn)
		WalkExprs(x.Pattern, fn)
	case *ParenExpr:
		WalkExprs(x.Expr, fn)
	}
}
