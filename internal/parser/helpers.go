package parser

import (
	"idlc/internal/diag"
	"idlc/internal/source"
	"idlc/internal/syntax"
	"idlc/internal/token"
)

// advance — съедает следующий токен и обновляет lastSpan
func (p *Parser) advance() token.Token {
	tok := p.lx.Next()
	if tok.Kind != token.EOF {
		p.lastSpan = tok.Span
	}
	return tok
}

// getDiagnosticSpan — на EOF указываем сразу за последним съеденным токеном.
func (p *Parser) getDiagnosticSpan() source.Span {
	peek := p.lx.Peek()
	if peek.Kind == token.EOF {
		return source.Span{File: p.lastSpan.File, Start: p.lastSpan.End, End: p.lastSpan.End}
	}
	return peek.Span
}

// expect — ожидаем конкретный токен. Если нет — репортим и возвращаем (invalid,false).
func (p *Parser) expect(k token.Kind, code diag.Code, msg string) (token.Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	sp := p.getDiagnosticSpan()
	p.report(code, diag.SevError, sp, msg+", found "+describe(p.lx.Peek()))
	return token.Token{Kind: token.Invalid, Span: sp}, false
}

func describe(tok token.Token) string {
	if tok.Kind == token.EOF || tok.Text == "" {
		return tok.Kind.String()
	}
	return "'" + tok.Text + "'"
}

// репортует ошибку и передает текущий спан
func (p *Parser) err(code diag.Code, msg string) bool {
	return p.report(code, diag.SevError, p.getDiagnosticSpan(), msg)
}

func (p *Parser) report(code diag.Code, sev diag.Severity, sp source.Span, msg string) bool {
	if p.opts.Reporter == nil {
		return false
	}
	if sev == diag.SevError {
		p.opts.CurrentErrors++
	}
	if sev == diag.SevError && p.opts.Enough() {
		return false // достигли максимального количества ошибок
	}
	p.opts.Reporter.Report(code, sev, sp, msg, nil)
	return true
}

// parseIdent ожидает идентификатор. Примитивы и ключевые слова без '\' не подходят.
func (p *Parser) parseIdent() (syntax.Ident, bool) {
	if p.at(token.Ident) {
		tok := p.advance()
		return syntax.Ident{Raw: tok.Text, Value: token.NormalizeIdent(tok.Text), Span: tok.Span}, true
	}
	msg := "expected identifier, found " + describe(p.lx.Peek())
	if p.lx.Peek().IsKeyword() {
		msg += " (keywords can be used as names with a '\\' prefix)"
	}
	p.err(diag.SynExpectIdentifier, msg)
	return syntax.Ident{}, false
}

// parseIntLit разбирает [-]IntLit.
func (p *Parser) parseIntLit() (*syntax.Literal, bool) {
	start := p.lx.Peek().Span
	neg := false
	if p.at(token.Minus) {
		p.advance()
		neg = true
	}
	tok, ok := p.expect(token.IntLit, diag.SynExpectLiteral, "expected integer literal")
	if !ok {
		return nil, false
	}
	text := tok.Text
	if neg {
		text = "-" + text
	}
	return &syntax.Literal{Kind: syntax.LitInt, Text: text, Span: start.Cover(tok.Span)}, true
}

// docOf converts the doc trivia preceding tok into lines without the `///` marker.
func docOf(tok token.Token) []syntax.DocLine {
	lines := tok.DocLines()
	if len(lines) == 0 {
		return nil
	}
	out := make([]syntax.DocLine, 0, len(lines))
	for _, tv := range lines {
		text := tv.Text[3:]
		sp := tv.Span
		sp.Start += 3
		if len(text) > 0 && text[0] == ' ' {
			text = text[1:]
			sp.Start++
		}
		out = append(out, syntax.DocLine{Text: text, Span: sp})
	}
	return out
}
