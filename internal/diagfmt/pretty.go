package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"idlc/internal/diag"
	"idlc/internal/source"
)

type palette struct {
	err, warn, note, code, gutter, caret *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		note:   color.New(color.FgCyan, color.Bold),
		code:   color.New(color.Bold),
		gutter: color.New(color.FgBlue),
		caret:  color.New(color.FgGreen, color.Bold),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.note, p.code, p.gutter, p.caret} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(s diag.Severity) *color.Color {
	switch s {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	}
	return p.note
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем контекст строки с подчёркиванием ^~~~ по Span, затем Notes с аналогичным форматом.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	p := newPalette(opts.Color)
	items := bag.Items()
	if opts.Max > 0 && opts.Max < len(items) {
		items = items[:opts.Max]
	}
	for i, d := range items {
		if i > 0 {
			fmt.Fprintln(w)
		}
		prettyOne(w, p, d, fs, opts)
	}
}

func prettyOne(w io.Writer, p palette, d diag.Diagnostic, fs *source.FileSet, opts PrettyOpts) {
	sev := p.severity(d.Severity).Sprint(strings.ToUpper(d.Severity.String()))
	code := p.code.Sprint(d.Code.ID())
	f, ok := fileOf(fs, d.Primary)
	if !ok {
		fmt.Fprintf(w, "<unknown>: %s %s: %s\n", sev, code, d.Message)
		return
	}
	start, end := fs.Resolve(d.Primary)
	path := formatPath(f, opts.PathMode, fs.BaseDir())
	fmt.Fprintf(w, "%s:%d:%d: %s %s: %s\n", path, start.Line, start.Col, sev, code, d.Message)
	writeSnippet(w, p, f, start, end, opts)

	if !opts.ShowNotes {
		return
	}
	for _, n := range d.Notes {
		nf, ok := fileOf(fs, n.Span)
		if !ok {
			fmt.Fprintf(w, "  %s: %s\n", p.note.Sprint("note"), n.Msg)
			continue
		}
		ns, _ := fs.Resolve(n.Span)
		npath := formatPath(nf, opts.PathMode, fs.BaseDir())
		fmt.Fprintf(w, "  %s: %s:%d:%d %s\n", p.note.Sprint("note"), npath, ns.Line, ns.Col, n.Msg)
	}
}

func fileOf(fs *source.FileSet, sp source.Span) (*source.File, bool) {
	if fs == nil || int(sp.File) >= fs.Len() {
		return nil, false
	}
	return fs.Get(sp.File), true
}

func writeSnippet(w io.Writer, p palette, f *source.File, start, end source.LineCol, opts PrettyOpts) {
	lines := contextLines(f, start.Line, opts.Context)
	gutter := len(fmt.Sprint(lines[len(lines)-1].number))
	for _, l := range lines {
		text := clip(expandTabs(l.text), opts.Width)
		fmt.Fprintf(w, "%s %s\n", p.gutter.Sprintf("%*d |", gutter, l.number), text)
		if l.number != start.Line {
			continue
		}
		pad, width := underline(l.text, start, end)
		marker := "^" + strings.Repeat("~", max(width-1, 0))
		fmt.Fprintf(w, "%s %s%s\n", p.gutter.Sprintf("%*s |", gutter, ""), strings.Repeat(" ", pad), p.caret.Sprint(marker))
	}
}

// underline returns the display offset and width of the span on its first line.
func underline(line string, start, end source.LineCol) (pad, width int) {
	from := min(int(start.Col)-1, len(line))
	to := len(line)
	if end.Line == start.Line {
		to = min(int(end.Col)-1, len(line))
	}
	pad = runewidth.StringWidth(expandTabs(line[:from]))
	if to > from {
		width = runewidth.StringWidth(line[from:to])
	}
	return pad, max(width, 1)
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", "    ")
}

func clip(s string, width uint8) string {
	if width == 0 || runewidth.StringWidth(s) <= int(width) {
		return s
	}
	return runewidth.Truncate(s, int(width), "…")
}
