package lexer

import (
	"idlc/internal/diag"
	"idlc/internal/token"
)

// collectLeadingTrivia собирает подряд идущие trivia перед значимым токеном.
// - ' ', '\t' и '\r' коалесцируются в один TriviaSpace
// - последовательные '\n' коалесцируются в один TriviaNewline
// - //... до \n -> TriviaLineComment, ///... -> TriviaDocLine
// - /* ... */ -> TriviaBlockComment (с вложенностью)
func (lx *Lexer) collectLeadingTrivia() {
	for !lx.cursor.EOF() {
		start := lx.cursor.Mark()
		switch b := lx.cursor.Peek(); {
		case b == ' ' || b == '\t' || b == '\r':
			for b2 := lx.cursor.Peek(); b2 == ' ' || b2 == '\t' || b2 == '\r'; b2 = lx.cursor.Peek() {
				lx.cursor.Bump()
			}
			lx.pushTrivia(token.TriviaSpace, start)
		case b == '\n':
			for lx.cursor.Peek() == '\n' {
				lx.cursor.Bump()
			}
			lx.pushTrivia(token.TriviaNewline, start)
		case b == '/' && lx.cursor.PeekAt(1) == '/':
			lx.cursor.Bump()
			lx.cursor.Bump()
			kind := token.TriviaLineComment
			// "////" — обычный комментарий-разделитель, не doc
			if lx.cursor.Peek() == '/' && lx.cursor.PeekAt(1) != '/' {
				kind = token.TriviaDocLine
			}
			for !lx.cursor.EOF() && lx.cursor.Peek() != '\n' {
				lx.cursor.Bump()
			}
			lx.pushTrivia(kind, start)
		case b == '/' && lx.cursor.PeekAt(1) == '*':
			lx.scanBlockComment(start)
		default:
			return
		}
	}
}

func (lx *Lexer) scanBlockComment(start Mark) {
	lx.cursor.Bump()
	lx.cursor.Bump()
	depth := 1
	for !lx.cursor.EOF() && depth > 0 {
		b0, b1 := lx.cursor.Peek(), lx.cursor.PeekAt(1)
		switch {
		case b0 == '/' && b1 == '*':
			lx.cursor.Bump()
			lx.cursor.Bump()
			depth++
		case b0 == '*' && b1 == '/':
			lx.cursor.Bump()
			lx.cursor.Bump()
			depth--
		default:
			lx.cursor.Bump()
		}
	}
	if depth > 0 {
		lx.errLex(diag.LexUnterminatedBlockComment, lx.cursor.SpanFrom(start), "unterminated block comment")
	}
	lx.pushTrivia(token.TriviaBlockComment, start)
}

func (lx *Lexer) pushTrivia(kind token.TriviaKind, start Mark) {
	sp := lx.cursor.SpanFrom(start)
	lx.hold = append(lx.hold, token.Trivia{Kind: kind, Span: sp, Text: lx.cursor.Slice(sp)})
}
