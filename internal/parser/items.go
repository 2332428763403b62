package parser

import (
	"idlc/internal/diag"
	"idlc/internal/source"
	"idlc/internal/syntax"
	"idlc/internal/token"
)

// parseItem выбирает по первому токену нужный распознаватель определения.
func (p *Parser) parseItem() (syntax.Item, bool) {
	first := p.lx.Peek()
	doc := docOf(first)
	attrs, ok := p.parseAttributes()
	if !ok {
		return nil, false
	}
	decl := syntax.Decl{Doc: doc, Attrs: attrs, Span: first.Span}

	switch tok := p.lx.Peek(); tok.Kind {
	case token.KwModule:
		return p.parseModule(decl)
	case token.KwStruct, token.KwCompact:
		return p.parseStruct(decl)
	case token.KwException:
		return p.parseException(decl)
	case token.KwClass:
		return p.parseClass(decl)
	case token.KwInterface:
		return p.parseInterface(decl)
	case token.KwEnum, token.KwUnchecked:
		return p.parseEnum(decl)
	case token.KwCustom:
		return p.parseCustom(decl)
	case token.KwTypeAlias:
		return p.parseTypeAlias(decl)
	case token.KwMode, token.KwEncoding:
		p.report(diag.SynModeNotFirst, diag.SevError, tok.Span, "compilation mode must be declared at file level before any definition")
		return nil, false
	default:
		p.report(diag.SynUnexpectedTopLevel, diag.SevError, p.getDiagnosticSpan(), "expected a definition, found "+describe(tok))
		return nil, false
	}
}

// module A::B { items }
func (p *Parser) parseModule(decl syntax.Decl) (syntax.Item, bool) {
	p.advance() // module
	m := &syntax.Module{Decl: decl}
	for {
		seg, ok := p.parseIdent()
		if !ok {
			return nil, false
		}
		m.Path = append(m.Path, seg)
		if !p.at(token.ColonColon) {
			break
		}
		p.advance()
	}
	if _, ok := p.expect(token.LBrace, diag.SynUnexpectedToken, "expected '{' after module name"); !ok {
		return nil, false
	}
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		if p.atOr(token.KwMode, token.KwEncoding) {
			p.report(diag.SynModeNotFirst, diag.SevError, p.lx.Peek().Span, "compilation mode must be declared at file level")
			p.resyncItem()
			continue
		}
		item, ok := p.parseItem()
		if !ok {
			p.resyncItem()
			continue
		}
		m.Items = append(m.Items, item)
	}
	rb, ok := p.expect(token.RBrace, diag.SynUnclosedDelimiter, "expected '}' to close module "+m.Path[len(m.Path)-1].Value)
	if !ok {
		return nil, false
	}
	m.Span = m.Span.Cover(rb.Span)
	return m, true
}

// [compact] struct Name { fields }
func (p *Parser) parseStruct(decl syntax.Decl) (syntax.Item, bool) {
	s := &syntax.Struct{Decl: decl}
	if p.at(token.KwCompact) {
		p.advance()
		s.Compact = true
	}
	if _, ok := p.expect(token.KwStruct, diag.SynUnexpectedToken, "expected 'struct' after 'compact'"); !ok {
		return nil, false
	}
	name, ok := p.parseIdent()
	if !ok {
		return nil, false
	}
	s.Name = name
	fields, end, ok := p.parseFieldBlock()
	if !ok {
		return nil, false
	}
	s.Fields = fields
	s.Span = s.Span.Cover(end)
	return s, true
}

// exception Name [: Base] { fields }
func (p *Parser) parseException(decl syntax.Decl) (syntax.Item, bool) {
	p.advance()
	e := &syntax.Exception{Decl: decl}
	name, ok := p.parseIdent()
	if !ok {
		return nil, false
	}
	e.Name = name
	if p.at(token.Colon) {
		p.advance()
		if e.Base, ok = p.parseType(); !ok {
			return nil, false
		}
	}
	fields, end, ok := p.parseFieldBlock()
	if !ok {
		return nil, false
	}
	e.Fields = fields
	e.Span = e.Span.Cover(end)
	return e, true
}

// class Name [(compactId)] [: Base] { fields }
func (p *Parser) parseClass(decl syntax.Decl) (syntax.Item, bool) {
	p.advance()
	c := &syntax.Class{Decl: decl}
	name, ok := p.parseIdent()
	if !ok {
		return nil, false
	}
	c.Name = name
	if p.at(token.LParen) {
		p.advance()
		if c.CompactID, ok = p.parseIntLit(); !ok {
			return nil, false
		}
		if _, ok = p.expect(token.RParen, diag.SynUnclosedDelimiter, "expected ')' after compact type id"); !ok {
			return nil, false
		}
	}
	if p.at(token.Colon) {
		p.advance()
		if c.Base, ok = p.parseType(); !ok {
			return nil, false
		}
	}
	fields, end, ok := p.parseFieldBlock()
	if !ok {
		return nil, false
	}
	c.Fields = fields
	c.Span = c.Span.Cover(end)
	return c, true
}

// interface Name [: Base {, Base}] { operations }
func (p *Parser) parseInterface(decl syntax.Decl) (syntax.Item, bool) {
	p.advance()
	it := &syntax.Interface{Decl: decl}
	name, ok := p.parseIdent()
	if !ok {
		return nil, false
	}
	it.Name = name
	if p.at(token.Colon) {
		p.advance()
		for {
			base, ok := p.parseType()
			if !ok {
				return nil, false
			}
			it.Bases = append(it.Bases, base)
			if !p.at(token.Comma) {
				break
			}
			p.advance()
		}
	}
	if _, ok := p.expect(token.LBrace, diag.SynUnexpectedToken, "expected '{' to start interface body"); !ok {
		return nil, false
	}
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		op, ok := p.parseOperation()
		if !ok {
			p.resyncUntil(token.Semicolon, token.RBrace)
			if p.at(token.Semicolon) {
				p.advance()
			}
			continue
		}
		it.Operations = append(it.Operations, op)
	}
	rb, ok := p.expect(token.RBrace, diag.SynUnclosedDelimiter, "expected '}' to close interface "+it.Name.Value)
	if !ok {
		return nil, false
	}
	it.Span = it.Span.Cover(rb.Span)
	return it, true
}

// custom Name;
func (p *Parser) parseCustom(decl syntax.Decl) (syntax.Item, bool) {
	p.advance()
	c := &syntax.CustomType{Decl: decl}
	name, ok := p.parseIdent()
	if !ok {
		return nil, false
	}
	c.Name = name
	semi, ok := p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after custom type")
	if !ok {
		return nil, false
	}
	c.Span = c.Span.Cover(semi.Span)
	return c, true
}

// typealias Name = Type;
func (p *Parser) parseTypeAlias(decl syntax.Decl) (syntax.Item, bool) {
	p.advance()
	a := &syntax.TypeAlias{Decl: decl}
	name, ok := p.parseIdent()
	if !ok {
		return nil, false
	}
	a.Name = name
	if _, ok = p.expect(token.Assign, diag.SynUnexpectedToken, "expected '=' after type alias name"); !ok {
		return nil, false
	}
	if a.Type, ok = p.parseType(); !ok {
		return nil, false
	}
	semi, ok := p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after type alias")
	if !ok {
		return nil, false
	}
	a.Span = a.Span.Cover(semi.Span)
	return a, true
}

// parseFieldBlock: '{' [field {',' field} [',']] '}'
func (p *Parser) parseFieldBlock() ([]*syntax.Field, source.Span, bool) {
	if _, ok := p.expect(token.LBrace, diag.SynUnexpectedToken, "expected '{'"); !ok {
		return nil, source.Span{}, false
	}
	fields := p.parseFieldList(token.RBrace, false)
	rb, ok := p.expect(token.RBrace, diag.SynUnclosedDelimiter, "expected '}'")
	return fields, rb.Span, ok
}
