package lexer

import (
	"idlc/internal/diag"
	"idlc/internal/token"
)

// scanIdentOrKeyword сканирует идентификатор и проверяет через LookupKeyword.
func (lx *Lexer) scanIdentOrKeyword() token.Token {
	start := lx.cursor.Mark()
	if !lx.scanIdentBody() {
		return lx.scanOperatorOrPunct()
	}
	tok := lx.emit(token.Ident, start)
	if k, ok := token.LookupKeyword(tok.Text); ok {
		tok.Kind = k
	}
	return tok
}

// scanEscapedIdent handles `\name`: the result is always an identifier, even for keywords.
func (lx *Lexer) scanEscapedIdent() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // '\'
	if !lx.scanIdentBody() {
		sp := lx.cursor.SpanFrom(start)
		lx.errLex(diag.LexBadIdentifierEscape, sp, "'\\' must be followed by an identifier")
		return token.Token{Kind: token.Invalid, Span: sp, Text: lx.cursor.Slice(sp)}
	}
	return lx.emit(token.Ident, start)
}

// scanIdentBody consumes [start continue*]; false when the current rune cannot start an identifier.
func (lx *Lexer) scanIdentBody() bool {
	r, sz := lx.peekRune()
	if sz == 0 {
		return false
	}
	if r < utf8RuneSelf {
		if !isIdentStartByte(byte(r)) {
			return false
		}
	} else if !isIdentStartRune(r) {
		return false
	}
	lx.bumpRune()
	for {
		r, sz = lx.peekRune()
		if sz == 0 {
			return true
		}
		if r < utf8RuneSelf {
			if !isIdentContinueByte(byte(r)) {
				return true
			}
		} else if !isIdentContinueRune(r) {
			return true
		}
		lx.bumpRune()
	}
}
