package parser

// Expression parsing using Pratt-style precedence climbing.
//
// Precedence (lowest to highest):
//
//	OR
//	AND
//	NOT (prefix)
//	comparison: = != <> < > <= >= IS IN BETWEEN LIKE ILIKE
//	||
//	+ -
//	* / %
//	unary - +
//	primary

// Precedence levels.
const (
	precLowest = iota
	precOr
	precAnd
	precNot
	precComparison
	precConcat
	precAddSub
	precMulDiv
	precUnary
)

// precedence returns the binding power of the given token as an infix operator.
func (p *Parser) precedence(tok Token) int {
	switch tok.Type {
	case TOKEN_OR:
		return precOr
	case TOKEN_AND:
		return precAnd
	case TOKEN_EQ, TOKEN_NE, TOKEN_LT, TOKEN_GT, TOKEN_LE, TOKEN_GE,
		TOKEN_IS, TOKEN_IN, TOKEN_BETWEEN, TOKEN_LIKE, TOKEN_NOT:
		return precComparison
	case TOKEN_DPIPE:
		return precConcat
	case TOKEN_PLUS, TOKEN_MINUS:
		return precAddSub
	case TOKEN_STAR, TOKEN_SLASH, TOKEN_MOD:
		return precMulDiv
	case TOKEN_IDENT:
		if p.checkSoftToken(tok, softKeywordIlike) {
			return precComparison
		}
	}
	return precLowest
}

// parseExpression parses an expression at the lowest precedence.
func (p *Parser) parseExpression() Expr {
	return p.parseBinaryExpr(precLowest)
}

// parseBinaryExpr parses an expression with operators binding tighter
// than minPrec.
func (p *Parser) parseBinaryExpr(minPrec int) Expr {
	left := p.parseUnaryExpr()

	for {
		prec := p.precedence(p.token)
		if prec <= minPrec {
			return left
		}

		switch p.token.Type {
		case TOKEN_IS:
			left = p.parseIsExpr(left)
		case TOKEN_IN:
			left = p.parseInExpr(left, false)
		case TOKEN_BETWEEN:
			left = p.parseBetweenExpr(left, false)
		case TOKEN_LIKE:
			left = p.parseLikeExpr(left, false, false)
		case TOKEN_NOT:
			// NOT IN / NOT BETWEEN / NOT LIKE / NOT ILIKE
			switch {
			case p.checkPeek(TOKEN_IN):
				p.nextToken()
				left = p.parseInExpr(left, true)
			case p.checkPeek(TOKEN_BETWEEN):
				p.nextToken()
				left = p.parseBetweenExpr(left, true)
			case p.checkPeek(TOKEN_LIKE):
				p.nextToken()
				left = p.parseLikeExpr(left, true, false)
			case p.checkPeek(TOKEN_IDENT) && p.checkSoftToken(p.peek, softKeywordIlike):
				p.nextToken()
				left = p.parseLikeExpr(left, true, true)
			default:
				return left
			}
		case TOKEN_IDENT:
			if p.checkSoftToken(p.token, softKeywordIlike) {
				left = p.parseLikeExpr(left, false, true)
				continue
			}
			return left
		default:
			op := p.token.Type
			p.nextToken()
			right := p.parseBinaryExpr(prec)
			left = &BinaryExpr{Left: left, Op: op, Right: right}
		}
	}
}

// parseUnaryExpr parses prefix operators.
func (p *Parser) parseUnaryExpr() Expr {
	switch p.token.Type {
	case TOKEN_NOT:
		p.nextToken()
		if p.check(TOKEN_EXISTS) {
			exists := p.parseExistsExpr()
			if e, ok := exists.(*ExistsExpr); ok {
				e.Not = true
			}
			return exists
		}
		operand := p.parseBinaryExpr(precNot)
		return &UnaryExpr{Op: TOKEN_NOT, Expr: operand}
	case TOKEN_MINUS:
		p.nextToken()
		operand := p.parseBinaryExpr(precUnary)
		return &UnaryExpr{Op: TOKEN_MINUS, Expr: operand}
	case TOKEN_PLUS:
		p.nextToken()
		operand := p.parseBinaryExpr(precUnary)
		return &UnaryExpr{Op: TOKEN_PLUS, Expr: operand}
	}
	return p.parsePrimaryExpr()
}

// parseIsExpr parses IS [NOT] NULL / IS [NOT] TRUE|FALSE.
func (p *Parser) parseIsExpr(left Expr) Expr {
	p.expect(TOKEN_IS)
	not := p.match(TOKEN_NOT)

	switch p.token.Type {
	case TOKEN_NULL:
		p.nextToken()
		return &IsNullExpr{Expr: left, Not: not}
	case TOKEN_TRUE, TOKEN_FALSE:
		lit := &Literal{Type: LiteralBool, Value: p.token.Literal}
		p.nextToken()
		return &BinaryExpr{Left: left, Op: ternaryOp(not, TOKEN_NE, TOKEN_EQ), Right: lit}
	default:
		p.addError("expected NULL, TRUE, or FALSE after IS")
		return left
	}
}

func ternaryOp(cond bool, a, b TokenType) TokenType {
	if cond {
		return a
	}
	return b
}

// parseInExpr parses IN (value list) or IN (subquery).
func (p *Parser) parseInExpr(left Expr, not bool) Expr {
	p.expect(TOKEN_IN)
	p.expect(TOKEN_LPAREN)

	in := &InExpr{Expr: left, Not: not}

	if p.check(TOKEN_SELECT) || p.check(TOKEN_WITH) {
		in.Query = p.parseStatement()
	} else {
		in.Values = p.parseExpressionList()
	}

	p.expect(TOKEN_RPAREN)
	return in
}

// parseBetweenExpr parses BETWEEN low AND high.
func (p *Parser) parseBetweenExpr(left Expr, not bool) Expr {
	p.expect(TOKEN_BETWEEN)
	// Bounds bind tighter than AND so the range separator is not swallowed.
	low := p.parseBinaryExpr(precAnd)
	p.expect(TOKEN_AND)
	high := p.parseBinaryExpr(precAnd)
	return &BetweenExpr{Expr: left, Not: not, Low: low, High: high}
}

// parseLikeExpr parses LIKE / ILIKE pattern.
func (p *Parser) parseLikeExpr(left Expr, not, ilike bool) Expr {
	p.nextToken() // consume LIKE or ILIKE
	pattern := p.parseBinaryExpr(precComparison)
	return &LikeExpr{Expr: left, Not: not, Pattern: pattern, ILike: ilike}
}
