package parser

// FROM clause parsing: table names, derived tables, LATERAL, and joins.
//
// Grammar:
//
//	from_clause   → table_ref (join)*
//	table_ref     → table_name [alias] | "(" statement ")" [alias] | LATERAL "(" statement ")" [alias]
//	table_name    → identifier ("." identifier){0,2}
//	join          → join_type table_ref [ON expr | USING "(" ident_list ")"] | "," table_ref
//	join_type     → [INNER] JOIN | LEFT [OUTER] JOIN | RIGHT [OUTER] JOIN
//	              | FULL [OUTER] JOIN | CROSS JOIN

// parseFromClause parses the FROM clause with joins.
func (p *Parser) parseFromClause() *FromClause {
	from := &FromClause{}
	from.Source = p.parseTableRef()

	for {
		switch {
		case p.check(TOKEN_COMMA):
			p.nextToken()
			join := &Join{Type: JoinComma}
			join.Right = p.parseTableRef()
			from.Joins = append(from.Joins, join)

		case p.isJoinKeyword(p.token) && !p.check(TOKEN_ON) && !p.check(TOKEN_LATERAL):
			join := p.parseJoin()
			from.Joins = append(from.Joins, join)

		default:
			return from
		}
	}
}

// parseJoin parses a single JOIN clause.
func (p *Parser) parseJoin() *Join {
	join := &Join{Type: JoinInner}

	switch p.token.Type {
	case TOKEN_INNER:
		p.nextToken()
		p.expect(TOKEN_JOIN)
	case TOKEN_LEFT:
		join.Type = JoinLeft
		p.nextToken()
		p.match(TOKEN_OUTER)
		p.expect(TOKEN_JOIN)
	case TOKEN_RIGHT:
		join.Type = JoinRight
		p.nextToken()
		p.match(TOKEN_OUTER)
		p.expect(TOKEN_JOIN)
	case TOKEN_FULL:
		join.Type = JoinFull
		p.nextToken()
		p.match(TOKEN_OUTER)
		p.expect(TOKEN_JOIN)
	case TOKEN_CROSS:
		join.Type = JoinCross
		p.nextToken()
		p.expect(TOKEN_JOIN)
	case TOKEN_JOIN:
		p.nextToken()
	default:
		p.addError("expected JOIN keyword")
		p.nextToken()
	}

	join.Right = p.parseTableRef()

	switch {
	case p.match(TOKEN_ON):
		join.Condition = p.parseExpression()
	case p.check(TOKEN_IDENT) && equalFold(p.token.Literal, "using"):
		p.nextToken()
		p.expect(TOKEN_LPAREN)
		for {
			if p.check(TOKEN_IDENT) {
				join.Using = append(join.Using, p.token.Literal)
				p.nextToken()
			} else {
				p.addError("expected column name in USING list")
				break
			}
			if !p.match(TOKEN_COMMA) {
				break
			}
		}
		p.expect(TOKEN_RPAREN)
	}

	return join
}

// parseTableRef parses a single table reference.
func (p *Parser) parseTableRef() TableRef {
	// LATERAL subquery
	if p.match(TOKEN_LATERAL) {
		p.expect(TOKEN_LPAREN)
		lat := &LateralTable{Select: p.parseStatement()}
		p.expect(TOKEN_RPAREN)
		lat.Alias = p.parseTableAlias()
		return lat
	}

	// Derived table: ( SELECT ... )
	if p.check(TOKEN_LPAREN) {
		p.nextToken()
		derived := &DerivedTable{Select: p.parseStatement()}
		p.expect(TOKEN_RPAREN)
		derived.Alias = p.parseTableAlias()
		return derived
	}

	// Plain table name: name, schema.name, or catalog.schema.name
	if !p.check(TOKEN_IDENT) {
		p.addError("expected table name")
		return &TableName{}
	}

	parts := []string{p.token.Literal}
	p.nextToken()
	for p.check(TOKEN_DOT) && p.checkPeek(TOKEN_IDENT) {
		p.nextToken()
		parts = append(parts, p.token.Literal)
		p.nextToken()
	}

	table := &TableName{}
	switch len(parts) {
	case 1:
		table.Name = parts[0]
	case 2:
		table.Schema, table.Name = parts[0], parts[1]
	default:
		table.Catalog, table.Schema = parts[0], parts[1]
		table.Name = parts[len(parts)-1]
	}

	table.Alias = p.parseTableAlias()
	return table
}

// parseTableAlias parses an optional table alias, with or without AS.
func (p *Parser) parseTableAlias() string {
	if p.match(TOKEN_AS) {
		if p.check(TOKEN_IDENT) {
			alias := p.token.Literal
			p.nextToken()
			return alias
		}
		p.addError("expected alias after AS")
		return ""
	}

	if p.check(TOKEN_IDENT) && !p.isKeyword(p.token) && !p.isClauseKeyword(p.token) &&
		!p.checkSoftToken(p.token, "using") {
		alias := p.token.Literal
		p.nextToken()
		return alias
	}

	return ""
}
