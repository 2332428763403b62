package ast

import (
	"strings"

	"idlc/internal/source"
	"idlc/internal/syntax"
)

// DocText is a run of doc-comment prose.
type DocText struct {
	Text string
	Span source.Span
}

// DocTag is `@param name: text` or `@returns [name]: text`.
type DocTag struct {
	Name string
	Text string
	Span source.Span
}

// DocLink names another definition, e.g. `@see A::B` or `@throws E`.
// Target is filled in by the resolver when the name resolves.
type DocLink struct {
	Name   string
	Text   string
	Span   source.Span
	Target Index
}

// DocComment is the structured form of the `///` lines above a definition.
type DocComment struct {
	Overview   *DocText
	Params     []DocTag
	Returns    []DocTag
	Throws     []DocLink
	See        []DocLink
	Deprecated *DocText
	Span       source.Span
}

// DocProblem is a malformed doc line; the builder reports it as a warning.
type DocProblem struct {
	Span source.Span
	Msg  string
}

// ParseDocComment structures raw doc lines. Unknown tags are returned as problems.
func ParseDocComment(lines []syntax.DocLine) (*DocComment, []DocProblem) {
	if len(lines) == 0 {
		return nil, nil
	}
	doc := &DocComment{Span: lines[0].Span.Cover(lines[len(lines)-1].Span)}
	var problems []DocProblem

	// appendTo продолжает последний открытый раздел
	var appendTo func(text string, sp source.Span)
	appendText := func(t *string, span *source.Span) func(string, source.Span) {
		return func(text string, sp source.Span) {
			if *t == "" {
				*t = text
			} else if text != "" {
				*t += "\n" + text
			}
			*span = span.Cover(sp)
		}
	}

	for _, line := range lines {
		text := strings.TrimSpace(line.Text)
		if !strings.HasPrefix(text, "@") {
			if appendTo == nil {
				if text == "" {
					continue
				}
				doc.Overview = &DocText{Span: line.Span}
				appendTo = appendText(&doc.Overview.Text, &doc.Overview.Span)
			}
			appendTo(text, line.Span)
			continue
		}

		// тег заканчивается на пробеле или ':' (`@returns: text`)
		tag, rest := text[1:], ""
		if i := strings.IndexAny(tag, " :\t"); i >= 0 {
			tag, rest = tag[:i], strings.TrimSpace(tag[i:])
		}
		switch tag {
		case "param":
			name, body := splitDocName(rest)
			if name == "" {
				problems = append(problems, DocProblem{Span: line.Span, Msg: "'@param' must name a parameter"})
				appendTo = nil
				continue
			}
			doc.Params = append(doc.Params, DocTag{Name: name, Text: body, Span: line.Span})
			last := &doc.Params[len(doc.Params)-1]
			appendTo = appendText(&last.Text, &last.Span)
		case "returns", "return":
			name, body := "", strings.TrimPrefix(rest, ":")
			if !strings.HasPrefix(rest, ":") && rest != "" {
				name, body = splitDocName(rest)
			}
			doc.Returns = append(doc.Returns, DocTag{Name: name, Text: strings.TrimSpace(body), Span: line.Span})
			last := &doc.Returns[len(doc.Returns)-1]
			appendTo = appendText(&last.Text, &last.Span)
		case "throws":
			name, body := splitDocName(rest)
			if name == "" {
				problems = append(problems, DocProblem{Span: line.Span, Msg: "'@throws' must name an exception"})
				appendTo = nil
				continue
			}
			doc.Throws = append(doc.Throws, DocLink{Name: name, Text: body, Span: line.Span})
			last := &doc.Throws[len(doc.Throws)-1]
			appendTo = appendText(&last.Text, &last.Span)
		case "see":
			name := strings.TrimSpace(strings.TrimSuffix(rest, "."))
			if name == "" {
				problems = append(problems, DocProblem{Span: line.Span, Msg: "'@see' must name a definition"})
				appendTo = nil
				continue
			}
			doc.See = append(doc.See, DocLink{Name: name, Span: line.Span})
			appendTo = nil
		case "deprecated":
			doc.Deprecated = &DocText{Text: rest, Span: line.Span}
			appendTo = appendText(&doc.Deprecated.Text, &doc.Deprecated.Span)
		default:
			problems = append(problems, DocProblem{Span: line.Span, Msg: "unknown doc comment tag '@" + tag + "'"})
			appendTo = nil
		}
	}
	return doc, problems
}

// splitDocName splits "name: text" or "name text".
func splitDocName(s string) (name, text string) {
	if i := strings.IndexAny(s, ": \t"); i >= 0 {
		return s[:i], strings.TrimSpace(strings.TrimLeft(s[i:], ": \t"))
	}
	return s, ""
}
