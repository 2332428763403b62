package parser

import (
	"slices"

	"idlc/internal/diag"
	"idlc/internal/lexer"
	"idlc/internal/source"
	"idlc/internal/syntax"
	"idlc/internal/token"
)

type Options struct {
	MaxErrors     uint
	CurrentErrors uint
	Reporter      diag.Reporter
}

// Enough - проверить, достигли ли мы максимального количества ошибок
func (o *Options) Enough() bool {
	if o.MaxErrors == 0 {
		return false
	}
	return o.CurrentErrors >= o.MaxErrors
}

// Result is the outcome of parsing one file.
type Result struct {
	File   *syntax.File
	Errors uint
}

// Parser — состояние парсера на один файл
type Parser struct {
	lx       *lexer.Lexer
	file     *syntax.File
	opts     Options
	lastSpan source.Span // span последнего съеденного токена для лучшей диагностики
	seenItem bool
}

// ParseFile — входная точка для разбора одного файла.
func ParseFile(f *source.File, opts Options) Result {
	p := &Parser{
		file:     &syntax.File{ID: f.ID},
		opts:     opts,
		lastSpan: source.Span{File: f.ID},
	}
	p.lx = lexer.New(f, lexer.Options{Reporter: lexReporter{p: p}})
	p.parseFile()
	return Result{File: p.file, Errors: p.opts.CurrentErrors}
}

// lexReporter routes lexer diagnostics through the parser's error budget.
type lexReporter struct{ p *Parser }

func (r lexReporter) Report(code diag.Code, sev diag.Severity, sp source.Span, msg string, _ []diag.Note) {
	r.p.report(code, sev, sp, msg)
}

func (p *Parser) at(k token.Kind) bool {
	return p.lx.Peek().Kind == k
}

func (p *Parser) atOr(kinds ...token.Kind) bool {
	return slices.Contains(kinds, p.lx.Peek().Kind)
}

// parseFile — основной цикл верхнего уровня.
func (p *Parser) parseFile() {
	start := p.lx.Peek().Span
	for !p.at(token.EOF) {
		switch p.lx.Peek().Kind {
		case token.KwMode, token.KwEncoding:
			p.parseModeDecl()
		case token.LDoubleBracket:
			p.parseFileAttributes()
		case token.RBrace:
			// на верхнем уровне '}' некому закрыть
			tok := p.advance()
			p.report(diag.SynUnexpectedToken, diag.SevError, tok.Span, "unexpected '}' without matching '{'")
		default:
			item, ok := p.parseItem()
			if !ok {
				p.resyncItem()
				continue
			}
			p.seenItem = true
			p.file.Items = append(p.file.Items, item)
		}
	}
	p.file.Span = start.Cover(p.lastSpan)
}

// itemStarters — токены, с которых может начинаться определение.
var itemStarters = []token.Kind{
	token.KwModule, token.KwStruct, token.KwCompact, token.KwException, token.KwClass,
	token.KwInterface, token.KwEnum, token.KwUnchecked, token.KwCustom, token.KwTypeAlias,
	token.LBracket, token.LDoubleBracket, token.KwMode, token.KwEncoding,
}

// resyncItem прокручивает до следующего определения, '}' или ';'.
func (p *Parser) resyncItem() {
	// хотя бы один токен, иначе зациклимся на стартере с ошибкой
	if !p.at(token.EOF) && !p.at(token.RBrace) {
		p.advance()
	}
	p.resyncUntil(append([]token.Kind{token.Semicolon, token.RBrace}, itemStarters...)...)
	if p.at(token.Semicolon) {
		p.advance()
	}
}

// resyncUntil съедает токены до одного из stop (не включая) или EOF.
func (p *Parser) resyncUntil(stop ...token.Kind) {
	for !p.at(token.EOF) && !p.atOr(stop...) {
		p.advance()
	}
}
