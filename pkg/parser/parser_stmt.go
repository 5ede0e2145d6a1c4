package parser

import "strings"

// Statement parsing: INSERT header, WITH clause, CTEs, SELECT body,
// SELECT list, star modifiers, ORDER BY.
//
// Grammar:
//
//	insert_stmt   → INSERT INTO table_name ["(" ident_list ")"] statement
//	statement     → [WITH cte_list] select_body
//	cte_list      → cte ("," cte)*
//	cte           → identifier AS "(" statement ")"
//	select_body   → select_core [(UNION|INTERSECT|EXCEPT) [ALL|DISTINCT] select_body]
//	select_list   → select_item ("," select_item)*
//	select_item   → star_item | expr [AS identifier]
//	star_item     → ("*" | table "." "*") [EXCEPT|EXCLUDE "(" ident_list ")"] [REPLACE "(" replace_list ")"]
//	order_list    → order_item ("," order_item)*
//	order_item    → expr [ASC|DESC] [NULLS FIRST|LAST]

// parseInsertStatement parses an INSERT INTO ... SELECT statement.
func (p *Parser) parseInsertStatement() *InsertStmt {
	p.expect(TOKEN_INSERT)
	p.expect(TOKEN_INTO)

	stmt := &InsertStmt{}

	// Target table: possibly qualified name
	if !p.check(TOKEN_IDENT) {
		p.addError("expected target table name")
		return stmt
	}
	parts := []string{p.token.Literal}
	p.nextToken()
	for p.match(TOKEN_DOT) {
		if p.check(TOKEN_IDENT) {
			parts = append(parts, p.token.Literal)
			p.nextToken()
		}
	}
	stmt.Table = strings.Join(parts, ".")

	// Optional column list
	if p.match(TOKEN_LPAREN) {
		for {
			if p.check(TOKEN_IDENT) {
				stmt.Columns = append(stmt.Columns, p.token.Literal)
				p.nextToken()
			} else {
				p.addError("expected column name in INSERT column list")
				break
			}
			if !p.match(TOKEN_COMMA) {
				break
			}
		}
		p.expect(TOKEN_RPAREN)
	}

	stmt.Select = p.parseStatement()
	return stmt
}

// parseStatement parses a complete SELECT statement.
func (p *Parser) parseStatement() *SelectStmt {
	stmt := &SelectStmt{}

	// Optional WITH clause
	if p.check(TOKEN_WITH) {
		stmt.With = p.parseWithClause()
	}

	// Required SELECT body
	stmt.Body = p.parseSelectBody()

	return stmt
}

// parseWithClause parses a WITH clause with CTEs.
func (p *Parser) parseWithClause() *WithClause {
	p.expect(TOKEN_WITH)
	with := &WithClause{}

	// Optional RECURSIVE
	if p.match(TOKEN_RECURSIVE) {
		with.Recursive = true
	}

	// Parse CTE list
	for {
		cte := p.parseCTE()
		with.CTEs = append(with.CTEs, cte)

		if !p.match(TOKEN_COMMA) {
			break
		}
	}

	return with
}

// parseCTE parses a single CTE.
func (p *Parser) parseCTE() *CTE {
	cte := &CTE{}

	// CTE name
	if !p.check(TOKEN_IDENT) {
		p.addError("expected CTE name")
		return cte
	}
	cte.Name = p.token.Literal
	p.nextToken()

	// AS
	p.expect(TOKEN_AS)

	// ( SelectStatement )
	p.expect(TOKEN_LPAREN)
	cte.Select = p.parseStatement()
	p.expect(TOKEN_RPAREN)

	return cte
}

// parseSelectBody parses a SELECT body with possible set operations.
func (p *Parser) parseSelectBody() *SelectBody {
	body := &SelectBody{}
	body.Left = p.parseSelectCore()

	// Check for set operations.
	// EXCEPT is only a set operation when followed by SELECT; after a star
	// item it is a modifier, which parseSelectItem already consumed.
	if p.check(TOKEN_UNION) || p.check(TOKEN_INTERSECT) || p.check(TOKEN_EXCEPT) {
		switch p.token.Type {
		case TOKEN_UNION:
			p.nextToken()
			if p.match(TOKEN_ALL) {
				body.Op = SetOpUnionAll
				body.All = true
			} else {
				body.Op = SetOpUnion
				p.match(TOKEN_DISTINCT) // optional
			}
		case TOKEN_INTERSECT:
			p.nextToken()
			body.Op = SetOpIntersect
			p.match(TOKEN_ALL) // optional
		case TOKEN_EXCEPT:
			p.nextToken()
			body.Op = SetOpExcept
			p.match(TOKEN_ALL) // optional
		}

		// Parse the right side (recursively for chained operations)
		body.Right = p.parseSelectBody()
	}

	return body
}

// parseSelectCore parses a single SELECT clause.
func (p *Parser) parseSelectCore() *SelectCore {
	p.expect(TOKEN_SELECT)
	core := &SelectCore{}

	// DISTINCT / ALL
	if p.match(TOKEN_DISTINCT) {
		core.Distinct = true
	} else {
		p.match(TOKEN_ALL) // optional, consume if present
	}

	// SELECT list
	core.Columns = p.parseSelectList()

	// FROM clause
	if p.match(TOKEN_FROM) {
		core.From = p.parseFromClause()
	}

	// WHERE clause
	if p.match(TOKEN_WHERE) {
		core.Where = p.parseExpression()
	}

	// GROUP BY clause
	if p.match(TOKEN_GROUP) {
		p.expect(TOKEN_BY)
		core.GroupBy = p.parseExpressionList()
	}

	// HAVING clause
	if p.match(TOKEN_HAVING) {
		core.Having = p.parseExpression()
	}

	// QUALIFY clause (BigQuery/DuckDB)
	if p.checkSoft(softKeywordQualify) {
		p.nextToken()
		core.Qualify = p.parseExpression()
	}

	// ORDER BY clause
	if p.match(TOKEN_ORDER) {
		p.expect(TOKEN_BY)
		core.OrderBy = p.parseOrderByList()
	}

	// LIMIT clause
	if p.match(TOKEN_LIMIT) {
		core.Limit = p.parseExpression()

		// OFFSET clause
		if p.match(TOKEN_OFFSET) {
			core.Offset = p.parseExpression()
		}
	}

	return core
}

// parseSelectList parses the list of SELECT items.
func (p *Parser) parseSelectList() []SelectItem {
	var items []SelectItem

	for {
		item := p.parseSelectItem()
		items = append(items, item)

		if !p.match(TOKEN_COMMA) {
			break
		}
	}

	return items
}

// parseSelectItem parses a single SELECT item.
func (p *Parser) parseSelectItem() SelectItem {
	item := SelectItem{}

	// Unqualified *
	if p.check(TOKEN_STAR) {
		item.Star = true
		p.nextToken()
		item.Modifiers = p.parseStarModifiers()
		return item
	}

	// table.* pattern using 3-token lookahead (no rollback needed)
	if p.check(TOKEN_IDENT) && p.checkPeek(TOKEN_DOT) && p.checkPeek2(TOKEN_STAR) {
		tableName := p.token.Literal
		p.nextToken() // consume identifier
		p.nextToken() // consume DOT
		p.nextToken() // consume STAR
		item.TableStar = tableName
		item.Modifiers = p.parseStarModifiers()
		return item
	}

	// Regular expression
	item.Expr = p.parseExpression()

	// Optional alias
	if p.match(TOKEN_AS) {
		if p.check(TOKEN_IDENT) {
			item.Alias = p.token.Literal
			p.nextToken()
		} else {
			p.addError("expected alias after AS")
		}
	} else if p.check(TOKEN_IDENT) && !p.isKeyword(p.token) {
		// Alias without AS
		item.Alias = p.token.Literal
		p.nextToken()
	}

	return item
}

// parseStarModifiers parses EXCEPT/EXCLUDE and REPLACE modifiers after a star.
func (p *Parser) parseStarModifiers() []StarModifier {
	var mods []StarModifier

	for {
		switch {
		case (p.check(TOKEN_EXCEPT) || p.checkSoft(softKeywordExclude)) && p.checkPeek(TOKEN_LPAREN):
			p.nextToken() // consume EXCEPT/EXCLUDE
			p.expect(TOKEN_LPAREN)
			mod := &ExcludeModifier{}
			for {
				if p.check(TOKEN_IDENT) {
					mod.Columns = append(mod.Columns, p.token.Literal)
					p.nextToken()
				} else {
					p.addError("expected column name in star EXCEPT list")
					break
				}
				if !p.match(TOKEN_COMMA) {
					break
				}
			}
			p.expect(TOKEN_RPAREN)
			mods = append(mods, mod)

		case p.checkSoft(softKeywordReplace) && p.checkPeek(TOKEN_LPAREN):
			p.nextToken() // consume REPLACE
			p.expect(TOKEN_LPAREN)
			mod := &ReplaceModifier{}
			for {
				item := ReplaceItem{Expr: p.parseExpression()}
				p.expect(TOKEN_AS)
				if p.check(TOKEN_IDENT) {
					item.Alias = p.token.Literal
					p.nextToken()
				} else {
					p.addError("expected column name after AS in star REPLACE list")
				}
				mod.Items = append(mod.Items, item)
				if !p.match(TOKEN_COMMA) {
					break
				}
			}
			p.expect(TOKEN_RPAREN)
			mods = append(mods, mod)

		default:
			return mods
		}
	}
}

// parseOrderByList parses a list of ORDER BY items.
func (p *Parser) parseOrderByList() []OrderByItem {
	var items []OrderByItem

	for {
		item := p.parseOrderByItem()
		items = append(items, item)

		if !p.match(TOKEN_COMMA) {
			break
		}
	}

	return items
}

// parseOrderByItem parses a single ORDER BY item.
func (p *Parser) parseOrderByItem() OrderByItem {
	item := OrderByItem{}
	item.Expr = p.parseExpression()

	// ASC / DESC
	if p.match(TOKEN_ASC) {
		item.Desc = false
	} else if p.match(TOKEN_DESC) {
		item.Desc = true
	}

	// NULLS FIRST / LAST
	if p.match(TOKEN_NULLS) {
		if p.match(TOKEN_FIRST) {
			b := true
			item.NullsFirst = &b
		} else if p.match(TOKEN_LAST) {
			b := false
			item.NullsFirst = &b
		}
	}

	return item
}

// parseExpressionList parses a comma-separated list of expressions.
func (p *Parser) parseExpressionList() []Expr {
	var exprs []Expr

	for {
		expr := p.parseExpression()
		exprs = append(exprs, expr)

		if !p.match(TOKEN_COMMA) {
			break
		}
	}

	return exprs
}
