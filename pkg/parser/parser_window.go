package parser

// Window specification parsing for OVER clauses.
//
// Grammar:
//
//	window_spec → "(" [PARTITION BY expr_list] [ORDER BY order_list] [frame] ")"
//	frame       → (ROWS|RANGE|GROUPS) (frame_bound | BETWEEN frame_bound AND frame_bound)
//	frame_bound → UNBOUNDED PRECEDING | UNBOUNDED FOLLOWING
//	            | CURRENT ROW | expr PRECEDING | expr FOLLOWING

// parseWindowSpec parses a window specification after OVER.
func (p *Parser) parseWindowSpec() *WindowSpec {
	p.expect(TOKEN_LPAREN)
	spec := &WindowSpec{}

	if p.match(TOKEN_PARTITION) {
		p.expect(TOKEN_BY)
		spec.PartitionBy = p.parseExpressionList()
	}

	if p.match(TOKEN_ORDER) {
		p.expect(TOKEN_BY)
		spec.OrderBy = p.parseOrderByList()
	}

	if p.check(TOKEN_ROWS) || p.check(TOKEN_RANGE) || p.check(TOKEN_GROUPS) {
		spec.Frame = p.parseFrameSpec()
	}

	p.expect(TOKEN_RPAREN)
	return spec
}

// parseFrameSpec parses a window frame specification.
func (p *Parser) parseFrameSpec() *FrameSpec {
	frame := &FrameSpec{}

	switch p.token.Type {
	case TOKEN_ROWS:
		frame.Type = FrameRows
	case TOKEN_RANGE:
		frame.Type = FrameRange
	case TOKEN_GROUPS:
		frame.Type = FrameGroups
	}
	p.nextToken()

	if p.match(TOKEN_BETWEEN) {
		frame.Start = p.parseFrameBound()
		p.expect(TOKEN_AND)
		frame.End = p.parseFrameBound()
	} else {
		frame.Start = p.parseFrameBound()
	}

	return frame
}

// parseFrameBound parses a single frame bound.
func (p *Parser) parseFrameBound() *FrameBound {
	bound := &FrameBound{}

	switch {
	case p.match(TOKEN_UNBOUNDED):
		if p.match(TOKEN_PRECEDING) {
			bound.Type = FrameUnboundedPreceding
		} else if p.match(TOKEN_FOLLOWING) {
			bound.Type = FrameUnboundedFollowing
		} else {
			p.addError("expected PRECEDING or FOLLOWING after UNBOUNDED")
		}

	case p.match(TOKEN_CURRENT):
		p.expect(TOKEN_ROW)
		bound.Type = FrameCurrentRow

	default:
		bound.Offset = p.parseExpression()
		if p.match(TOKEN_PRECEDING) {
			bound.Type = FrameExprPreceding
		} else if p.match(TOKEN_FOLLOWING) {
			bound.Type = FrameExprFollowing
		} else {
			p.addError("expected PRECEDING or FOLLOWING in frame bound")
		}
	}

	return bound
}
