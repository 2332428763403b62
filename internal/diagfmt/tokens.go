package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"idlc/internal/source"
	"idlc/internal/token"
)

// TokenOutput is one token of a --tokens dump.
type TokenOutput struct {
	Kind    string      `json:"kind"`
	Text    string      `json:"text,omitempty"`
	Span    source.Span `json:"span"`
	Leading []string    `json:"leading,omitempty"`
	Doc     []string    `json:"doc,omitempty"`
}

func leadingKinds(tok token.Token) (kinds, doc []string) {
	for _, tv := range tok.Leading {
		kinds = append(kinds, tv.Kind.String())
		if tv.Kind == token.TriviaDocLine {
			doc = append(doc, tv.Text)
		}
	}
	return kinds, doc
}

// FormatTokensPretty выводит токены в человекочитаемом формате
func FormatTokensPretty(w io.Writer, tokens []token.Token, fs *source.FileSet) error {
	for i, tok := range tokens {
		startPos, endPos := fs.Resolve(tok.Span)
		line := fmt.Sprintf("%3d: %-15s", i+1, tok.Kind.String())
		if tok.Text != "" {
			line += fmt.Sprintf(" %q", tok.Text)
		}
		line += fmt.Sprintf(" at %d:%d-%d:%d", startPos.Line, startPos.Col, endPos.Line, endPos.Col)
		if kinds, _ := leadingKinds(tok); len(kinds) > 0 {
			line += " (leading: " + strings.Join(kinds, ", ") + ")"
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
		if tok.Kind == token.EOF {
			break
		}
	}
	return nil
}

// FormatTokensJSON выводит токены в JSON формате
func FormatTokensJSON(w io.Writer, tokens []token.Token) error {
	output := make([]TokenOutput, 0, len(tokens))
	for _, tok := range tokens {
		kinds, doc := leadingKinds(tok)
		output = append(output, TokenOutput{
			Kind:    tok.Kind.String(),
			Text:    tok.Text,
			Span:    tok.Span,
			Leading: kinds,
			Doc:     doc,
		})
		if tok.Kind == token.EOF {
			break
		}
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}
