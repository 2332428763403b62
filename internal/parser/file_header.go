package parser

import (
	"idlc/internal/diag"
	"idlc/internal/syntax"
	"idlc/internal/token"
)

// parseModeDecl разбирает `mode = Slice2;` или устаревшее `encoding = 1;`.
func (p *Parser) parseModeDecl() {
	kw := p.advance()
	legacy := kw.Kind == token.KwEncoding

	if _, ok := p.expect(token.Assign, diag.SynUnexpectedToken, "expected '=' after '"+kw.Text+"'"); !ok {
		p.resyncItem()
		return
	}
	var valueTok token.Token
	switch {
	case legacy && p.at(token.IntLit):
		valueTok = p.advance()
	case !legacy && p.at(token.Ident):
		valueTok = p.advance()
	default:
		p.err(diag.SynExpectLiteral, "expected compilation mode value, found "+describe(p.lx.Peek()))
		p.resyncItem()
		return
	}
	semi, ok := p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after compilation mode")
	span := kw.Span.Cover(valueTok.Span)
	if ok {
		span = span.Cover(semi.Span)
	}

	decl := &syntax.ModeDecl{Value: valueTok.Text, Legacy: legacy, Span: span}
	switch {
	case p.file.Mode != nil:
		p.report(diag.SynDuplicateMode, diag.SevError, span, "compilation mode is already declared for this file")
	case p.seenItem:
		p.report(diag.SynModeNotFirst, diag.SevError, span, "compilation mode must be declared before any definition")
	default:
		p.file.Mode = decl
	}
}

// parseFileAttributes разбирает `[[name(args)]]`.
func (p *Parser) parseFileAttributes() {
	open := p.advance()
	attr, ok := p.parseAttributeBody(open)
	if !ok {
		p.resyncUntil(append([]token.Kind{token.RBracket}, itemStarters...)...)
		for p.at(token.RBracket) {
			p.advance()
		}
		return
	}
	if _, ok := p.expect(token.RBracket, diag.SynUnclosedDelimiter, "expected ']]' to close file attribute"); !ok {
		return
	}
	attr.Span = attr.Span.Cover(p.lastSpan)
	if p.seenItem {
		p.report(diag.SynFileAttrPosition, diag.SevError, attr.Span, "file attributes must precede all definitions")
		return
	}
	p.file.Attributes = append(p.file.Attributes, attr)
}

// parseAttributes разбирает подряд идущие `[name(args)]`.
func (p *Parser) parseAttributes() ([]syntax.Attribute, bool) {
	var attrs []syntax.Attribute
	for p.at(token.LBracket) {
		open := p.advance()
		attr, ok := p.parseAttributeBody(open)
		if !ok {
			return attrs, false
		}
		attrs = append(attrs, attr)
	}
	if p.at(token.LDoubleBracket) {
		p.err(diag.SynFileAttrPosition, "file attributes must precede all definitions")
		return attrs, false
	}
	return attrs, true
}

// parseAttributeBody: name ['(' literal {',' literal} ')'] ']'.
func (p *Parser) parseAttributeBody(open token.Token) (syntax.Attribute, bool) {
	name, ok := p.parseIdent()
	if !ok {
		return syntax.Attribute{}, false
	}
	attr := syntax.Attribute{Name: name}
	if p.at(token.LParen) {
		p.advance()
		for !p.at(token.RParen) {
			var lit syntax.Literal
			switch tok := p.lx.Peek(); tok.Kind {
			case token.StringLit:
				p.advance()
				lit = syntax.Literal{Kind: syntax.LitString, Text: tok.Text, Span: tok.Span}
			case token.IntLit, token.Minus:
				l, ok := p.parseIntLit()
				if !ok {
					return attr, false
				}
				lit = *l
			case token.Ident:
				p.advance()
				lit = syntax.Literal{Kind: syntax.LitIdent, Text: token.NormalizeIdent(tok.Text), Span: tok.Span}
			default:
				p.err(diag.SynExpectLiteral, "expected attribute argument, found "+describe(tok))
				return attr, false
			}
			attr.Args = append(attr.Args, lit)
			if !p.at(token.Comma) {
				break
			}
			p.advance()
		}
		if _, ok := p.expect(token.RParen, diag.SynUnclosedDelimiter, "expected ')' after attribute arguments"); !ok {
			return attr, false
		}
	}
	closeTok, ok := p.expect(token.RBracket, diag.SynUnclosedDelimiter, "expected ']' to close attribute")
	if !ok {
		return attr, false
	}
	attr.Span = open.Span.Cover(closeTok.Span)
	return attr, true
}
