package parser

import "strings"

// Primary expression parsing: literals, column references, function
// calls, CASE, CAST, EXISTS, parenthesized expressions, and subqueries.

// parsePrimaryExpr parses a primary expression.
func (p *Parser) parsePrimaryExpr() Expr {
	switch p.token.Type {
	case TOKEN_NUMBER:
		lit := &Literal{Type: LiteralNumber, Value: p.token.Literal}
		p.nextToken()
		return lit

	case TOKEN_STRING:
		lit := &Literal{Type: LiteralString, Value: p.token.Literal}
		p.nextToken()
		return lit

	case TOKEN_TRUE, TOKEN_FALSE:
		lit := &Literal{Type: LiteralBool, Value: strings.ToUpper(p.token.Literal)}
		p.nextToken()
		return lit

	case TOKEN_NULL:
		p.nextToken()
		return &Literal{Type: LiteralNull, Value: "NULL"}

	case TOKEN_CASE:
		return p.parseCaseExpr()

	case TOKEN_CAST:
		return p.parseCastExpr()

	case TOKEN_EXISTS:
		return p.parseExistsExpr()

	case TOKEN_STAR:
		p.nextToken()
		return &StarExpr{}

	case TOKEN_LPAREN:
		return p.parseParenOrSubquery()

	case TOKEN_IDENT:
		return p.parseIdentExpr()

	// Reserved words that double as zero-argument functions
	case TOKEN_CURRENT, TOKEN_LEFT, TOKEN_RIGHT, TOKEN_FILTER:
		if p.checkPeek(TOKEN_LPAREN) {
			name := p.token.Literal
			p.nextToken()
			return p.parseFuncCall(name)
		}
		ref := &ColumnRef{Column: p.token.Literal}
		p.nextToken()
		return ref

	default:
		p.addError("unexpected token " + p.token.Type.String() + " in expression")
		p.nextToken()
		return &Literal{Type: LiteralNull, Value: "NULL"}
	}
}

// parseIdentExpr parses an identifier-rooted expression: a bare column,
// a qualified column, a qualified star, or a function call.
func (p *Parser) parseIdentExpr() Expr {
	name := p.token.Literal
	p.nextToken()

	// Function call
	if p.check(TOKEN_LPAREN) {
		return p.parseFuncCall(name)
	}

	// Qualified reference: gather dotted parts
	if !p.check(TOKEN_DOT) {
		return &ColumnRef{Column: name}
	}

	parts := []string{name}
	for p.check(TOKEN_DOT) {
		if p.checkPeek(TOKEN_STAR) {
			p.nextToken()
			p.nextToken()
			return &StarExpr{Table: strings.Join(parts, ".")}
		}
		if !p.checkPeek(TOKEN_IDENT) {
			break
		}
		p.nextToken()
		parts = append(parts, p.token.Literal)
		p.nextToken()
	}

	column := parts[len(parts)-1]
	qualifier := strings.Join(parts[:len(parts)-1], ".")
	return &ColumnRef{Table: qualifier, Column: column}
}

// parseFuncCall parses a function call after the name has been consumed.
// Function names are normalized to upper case.
func (p *Parser) parseFuncCall(name string) Expr {
	fn := &FuncCall{Name: strings.ToUpper(name)}
	p.expect(TOKEN_LPAREN)

	if p.check(TOKEN_STAR) {
		fn.Star = true
		p.nextToken()
	} else if !p.check(TOKEN_RPAREN) {
		if p.match(TOKEN_DISTINCT) {
			fn.Distinct = true
		}
		fn.Args = p.parseExpressionList()
	}

	p.expect(TOKEN_RPAREN)

	// FILTER (WHERE expr)
	if p.check(TOKEN_FILTER) && p.checkPeek(TOKEN_LPAREN) {
		p.nextToken()
		p.expect(TOKEN_LPAREN)
		p.expect(TOKEN_WHERE)
		fn.Filter = p.parseExpression()
		p.expect(TOKEN_RPAREN)
	}

	// OVER (window spec)
	if p.check(TOKEN_OVER) {
		p.nextToken()
		fn.Window = p.parseWindowSpec()
	}

	return fn
}

// parseCaseExpr parses a CASE expression.
func (p *Parser) parseCaseExpr() Expr {
	p.expect(TOKEN_CASE)
	expr := &CaseExpr{}

	// Optional operand: CASE x WHEN ...
	if !p.check(TOKEN_WHEN) {
		expr.Operand = p.parseExpression()
	}

	for p.match(TOKEN_WHEN) {
		when := WhenClause{}
		when.Condition = p.parseExpression()
		p.expect(TOKEN_THEN)
		when.Result = p.parseExpression()
		expr.Whens = append(expr.Whens, when)
	}

	if p.match(TOKEN_ELSE) {
		expr.Else = p.parseExpression()
	}

	p.expect(TOKEN_END)
	return expr
}

// parseCastExpr parses CAST(expr AS type).
func (p *Parser) parseCastExpr() Expr {
	p.expect(TOKEN_CAST)
	p.expect(TOKEN_LPAREN)

	cast := &CastExpr{}
	cast.Expr = p.parseExpression()
	p.expect(TOKEN_AS)
	cast.TypeName = p.parseTypeName()
	p.expect(TOKEN_RPAREN)
	return cast
}

// parseTypeName parses a type name like VARCHAR, DECIMAL(10, 2), or DOUBLE PRECISION.
func (p *Parser) parseTypeName() string {
	var sb strings.Builder

	for p.check(TOKEN_IDENT) {
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(strings.ToUpper(p.token.Literal))
		p.nextToken()
	}

	if p.check(TOKEN_LPAREN) {
		sb.WriteByte('(')
		p.nextToken()
		for !p.check(TOKEN_RPAREN) && !p.check(TOKEN_EOF) {
			if p.check(TOKEN_COMMA) {
				sb.WriteString(", ")
			} else {
				sb.WriteString(p.token.Literal)
			}
			p.nextToken()
		}
		sb.WriteByte(')')
		p.expect(TOKEN_RPAREN)
	}

	if sb.Len() == 0 {
		p.addError("expected type name")
	}
	return sb.String()
}

// parseExistsExpr parses EXISTS (subquery).
func (p *Parser) parseExistsExpr() Expr {
	p.expect(TOKEN_EXISTS)
	p.expect(TOKEN_LPAREN)
	expr := &ExistsExpr{Select: p.parseStatement()}
	p.expect(TOKEN_RPAREN)
	return expr
}

// parseParenOrSubquery parses either a parenthesized expression or a
// scalar subquery.
func (p *Parser) parseParenOrSubquery() Expr {
	p.expect(TOKEN_LPAREN)

	if p.check(TOKEN_SELECT) || p.check(TOKEN_WITH) {
		sub := &SubqueryExpr{Select: p.parseStatement()}
		p.expect(TOKEN_RPAREN)
		return sub
	}

	inner := p.parseExpression()
	p.expect(TOKEN_RPAREN)
	return &ParenExpr{Expr: inner}
}
