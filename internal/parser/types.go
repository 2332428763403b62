package parser

import (
	"idlc/internal/diag"
	"idlc/internal/syntax"
	"idlc/internal/token"
)

// parseType := (Primitive | Sequence<T> | Dictionary<K, V> | [::]Ident{::Ident}) ['?']
func (p *Parser) parseType() (*syntax.TypeExpr, bool) {
	start := p.lx.Peek()
	var t *syntax.TypeExpr

	switch start.Kind {
	case token.Primitive:
		p.advance()
		t = &syntax.TypeExpr{
			Kind: syntax.TypePrimitive,
			Path: []syntax.Ident{{Raw: start.Text, Value: start.Text, Span: start.Span}},
			Span: start.Span,
		}
	case token.KwSequence, token.KwDictionary:
		p.advance()
		kind, arity := syntax.TypeSequence, 1
		if start.Kind == token.KwDictionary {
			kind, arity = syntax.TypeDictionary, 2
		}
		if _, ok := p.expect(token.Lt, diag.SynUnexpectedToken, "expected '<' after '"+start.Text+"'"); !ok {
			return nil, false
		}
		t = &syntax.TypeExpr{Kind: kind}
		for i := 0; i < arity; i++ {
			if i > 0 {
				if _, ok := p.expect(token.Comma, diag.SynUnexpectedToken, "expected ',' between dictionary key and value types"); !ok {
					return nil, false
				}
			}
			arg, ok := p.parseType()
			if !ok {
				return nil, false
			}
			t.Args = append(t.Args, arg)
		}
		gt, ok := p.expect(token.Gt, diag.SynUnclosedDelimiter, "expected '>' to close type arguments")
		if !ok {
			return nil, false
		}
		t.Span = start.Span.Cover(gt.Span)
	case token.Ident, token.ColonColon:
		t = &syntax.TypeExpr{Kind: syntax.TypeNamed}
		if start.Kind == token.ColonColon {
			p.advance()
			t.Absolute = true
		}
		for {
			seg, ok := p.parseIdent()
			if !ok {
				return nil, false
			}
			t.Path = append(t.Path, seg)
			if !p.at(token.ColonColon) {
				break
			}
			p.advance()
		}
		t.Span = start.Span.Cover(p.lastSpan)
	default:
		p.err(diag.SynExpectType, "expected type, found "+describe(start))
		return nil, false
	}

	if p.at(token.Question) {
		q := p.advance()
		t.Optional = true
		t.Span = t.Span.Cover(q.Span)
	}
	return t, true
}
