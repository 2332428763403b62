package token

import (
	"idlc/internal/source"
)

// Token represents a single source token with its location and trivia.
type Token struct {
	Kind    Kind
	Span    source.Span
	Text    string
	Leading []Trivia
}

// IsLiteral reports whether the token is an integer or string literal.
func (t Token) IsLiteral() bool {
	return t.Kind == IntLit || t.Kind == StringLit
}

// IsKeyword reports whether the token is a language keyword.
func (t Token) IsKeyword() bool {
	return t.Kind >= KwModule && t.Kind <= KwEncoding
}

// IsIdent reports whether the token is an identifier.
func (t Token) IsIdent() bool { return t.Kind == Ident }

// DocLines returns the doc-comment lines directly preceding the token.
// A blank line or a regular comment detaches earlier doc lines.
func (t Token) DocLines() []Trivia {
	start := len(t.Leading)
	newlines := 0
scan:
	for i := len(t.Leading) - 1; i >= 0; i-- {
		tv := t.Leading[i]
		switch tv.Kind {
		case TriviaDocLine:
			start = i
			newlines = 0
		case TriviaSpace:
		case TriviaNewline:
			newlines += len(tv.Text)
			if newlines > 1 {
				break scan
			}
		default:
			break scan
		}
	}
	var out []Trivia
	for _, tv := range t.Leading[start:] {
		if tv.Kind == TriviaDocLine {
			out = append(out, tv)
		}
	}
	return out
}
