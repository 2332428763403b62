package parser

import (
	"idlc/internal/diag"
	"idlc/internal/syntax"
	"idlc/internal/token"
)

// parseFieldList разбирает поля через запятую до close (не съедая его).
// Параметры операций дополнительно допускают `stream`.
func (p *Parser) parseFieldList(close token.Kind, params bool) []*syntax.Field {
	var out []*syntax.Field
	for !p.at(close) && !p.at(token.EOF) {
		f, ok := p.parseField(params)
		if ok {
			out = append(out, f)
		} else {
			p.resyncUntil(token.Comma, close, token.RBrace, token.Semicolon)
		}
		if p.at(token.Comma) {
			p.advance()
			continue
		}
		if !p.at(close) && ok {
			p.err(diag.SynUnexpectedToken, "expected ',' or "+close.String()+", found "+describe(p.lx.Peek()))
			p.resyncUntil(close, token.RBrace, token.Semicolon)
		}
		break
	}
	return out
}

// field := doc attrs [tag(N)] name ':' [stream] Type
func (p *Parser) parseField(params bool) (*syntax.Field, bool) {
	first := p.lx.Peek()
	f := &syntax.Field{Decl: syntax.Decl{Doc: docOf(first), Span: first.Span}}
	attrs, ok := p.parseAttributes()
	if !ok {
		return nil, false
	}
	f.Attrs = attrs
	if p.at(token.KwTag) {
		if f.Tag, ok = p.parseTag(); !ok {
			return nil, false
		}
	}
	if f.Name, ok = p.parseIdent(); !ok {
		return nil, false
	}
	if _, ok = p.expect(token.Colon, diag.SynExpectColon, "expected ':' after '"+f.Name.Value+"'"); !ok {
		return nil, false
	}
	if p.at(token.KwStream) {
		streamTok := p.advance()
		if !params {
			p.report(diag.SynModifierNotAllowed, diag.SevError, streamTok.Span, "'stream' is only allowed on operation parameters and return members")
		}
		f.Stream = true
	}
	if f.Type, ok = p.parseType(); !ok {
		return nil, false
	}
	f.Span = f.Span.Cover(f.Type.Span)
	return f, true
}

// tag '(' int ')'
func (p *Parser) parseTag() (*syntax.Literal, bool) {
	kw := p.advance()
	if _, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "expected '(' after 'tag'"); !ok {
		return nil, false
	}
	lit, ok := p.parseIntLit()
	if !ok {
		return nil, false
	}
	rp, ok := p.expect(token.RParen, diag.SynUnclosedDelimiter, "expected ')' after tag value")
	if !ok {
		return nil, false
	}
	lit.Span = kw.Span.Cover(rp.Span)
	return lit, true
}

// [unchecked] enum Name [: Underlying] { enumerators }
func (p *Parser) parseEnum(decl syntax.Decl) (syntax.Item, bool) {
	e := &syntax.Enum{Decl: decl}
	if p.at(token.KwUnchecked) {
		p.advance()
		e.Unchecked = true
	}
	if _, ok := p.expect(token.KwEnum, diag.SynUnexpectedToken, "expected 'enum' after 'unchecked'"); !ok {
		return nil, false
	}
	name, ok := p.parseIdent()
	if !ok {
		return nil, false
	}
	e.Name = name
	if p.at(token.Colon) {
		p.advance()
		if e.Underlying, ok = p.parseType(); !ok {
			return nil, false
		}
	}
	if _, ok := p.expect(token.LBrace, diag.SynUnexpectedToken, "expected '{' to start enum body"); !ok {
		return nil, false
	}
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		en, ok := p.parseEnumerator()
		if ok {
			e.Enumerators = append(e.Enumerators, en)
		} else {
			p.resyncUntil(token.Comma, token.RBrace)
		}
		if p.at(token.Comma) {
			p.advance()
			continue
		}
		if !p.at(token.RBrace) && ok {
			p.err(diag.SynUnexpectedToken, "expected ',' or '}' after enumerator, found "+describe(p.lx.Peek()))
			p.resyncUntil(token.RBrace)
		}
		break
	}
	rb, ok := p.expect(token.RBrace, diag.SynUnclosedDelimiter, "expected '}' to close enum "+e.Name.Value)
	if !ok {
		return nil, false
	}
	e.Span = e.Span.Cover(rb.Span)
	return e, true
}

// enumerator := doc attrs [tag(N)] Name ['(' fields ')'] ['=' int]
func (p *Parser) parseEnumerator() (*syntax.Enumerator, bool) {
	first := p.lx.Peek()
	en := &syntax.Enumerator{Decl: syntax.Decl{Doc: docOf(first), Span: first.Span}}
	attrs, ok := p.parseAttributes()
	if !ok {
		return nil, false
	}
	en.Attrs = attrs
	if p.at(token.KwTag) {
		if en.Tag, ok = p.parseTag(); !ok {
			return nil, false
		}
	}
	if en.Name, ok = p.parseIdent(); !ok {
		return nil, false
	}
	en.Span = en.Span.Cover(en.Name.Span)
	if p.at(token.LParen) {
		p.advance()
		en.HasFields = true
		en.Fields = p.parseFieldList(token.RParen, false)
		rp, ok := p.expect(token.RParen, diag.SynUnclosedDelimiter, "expected ')' after enumerator fields")
		if !ok {
			return nil, false
		}
		en.Span = en.Span.Cover(rp.Span)
	}
	if p.at(token.Assign) {
		p.advance()
		if en.Value, ok = p.parseIntLit(); !ok {
			return nil, false
		}
		en.Span = en.Span.Cover(en.Value.Span)
	}
	return en, true
}

// operation := doc attrs [idempotent] Name '(' params ')' ['->' returns] [throws ...] ';'
func (p *Parser) parseOperation() (*syntax.Operation, bool) {
	first := p.lx.Peek()
	op := &syntax.Operation{Decl: syntax.Decl{Doc: docOf(first), Span: first.Span}}
	attrs, ok := p.parseAttributes()
	if !ok {
		return nil, false
	}
	op.Attrs = attrs
	if p.at(token.KwIdempotent) {
		p.advance()
		op.Idempotent = true
	}
	if op.Name, ok = p.parseIdent(); !ok {
		return nil, false
	}
	if _, ok = p.expect(token.LParen, diag.SynUnexpectedToken, "expected '(' after operation name"); !ok {
		return nil, false
	}
	op.Params = p.parseFieldList(token.RParen, true)
	if _, ok = p.expect(token.RParen, diag.SynUnclosedDelimiter, "expected ')' after parameters"); !ok {
		return nil, false
	}

	if p.at(token.Arrow) {
		p.advance()
		if !p.parseReturns(op) {
			return nil, false
		}
	}

	if p.at(token.KwThrows) {
		kw := p.advance()
		if !p.parseThrows(op) {
			return nil, false
		}
		op.ThrowsSpan = kw.Span.Cover(p.lastSpan)
	}

	semi, ok := p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after operation")
	if !ok {
		return nil, false
	}
	op.Span = op.Span.Cover(semi.Span)
	return op, true
}

// returns := '(' members ')' | [tag(N)] [stream] Type
func (p *Parser) parseReturns(op *syntax.Operation) bool {
	if p.at(token.LParen) {
		lp := p.advance()
		op.ReturnTuple = true
		op.Returns = p.parseFieldList(token.RParen, true)
		rp, ok := p.expect(token.RParen, diag.SynUnclosedDelimiter, "expected ')' after return members")
		if !ok {
			return false
		}
		if len(op.Returns) == 0 {
			p.report(diag.SynEmptyTypeList, diag.SevError, lp.Span.Cover(rp.Span), "return tuple must contain at least one member")
		}
		return true
	}
	first := p.lx.Peek()
	ret := &syntax.Field{Decl: syntax.Decl{Span: first.Span}}
	var ok bool
	if p.at(token.KwTag) {
		if ret.Tag, ok = p.parseTag(); !ok {
			return false
		}
	}
	if p.at(token.KwStream) {
		p.advance()
		ret.Stream = true
	}
	if ret.Type, ok = p.parseType(); !ok {
		return false
	}
	ret.Name = syntax.Ident{Span: ret.Type.Span}
	ret.Span = ret.Span.Cover(ret.Type.Span)
	op.Returns = []*syntax.Field{ret}
	return true
}

// throws Type | throws '(' Type {',' Type} ')'
func (p *Parser) parseThrows(op *syntax.Operation) bool {
	if !p.at(token.LParen) {
		t, ok := p.parseType()
		if !ok {
			return false
		}
		op.Throws = []*syntax.TypeExpr{t}
		return true
	}
	lp := p.advance()
	for !p.at(token.RParen) && !p.at(token.EOF) {
		t, ok := p.parseType()
		if !ok {
			return false
		}
		op.Throws = append(op.Throws, t)
		if !p.at(token.Comma) {
			break
		}
		p.advance()
	}
	rp, ok := p.expect(token.RParen, diag.SynUnclosedDelimiter, "expected ')' after exception list")
	if !ok {
		return false
	}
	if len(op.Throws) == 0 {
		p.report(diag.SynEmptyTypeList, diag.SevError, lp.Span.Cover(rp.Span), "exception list must not be empty")
	}
	return true
}
