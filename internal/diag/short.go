package diag

import (
	"fmt"
	"path/filepath"
	"strings"

	"idlc/internal/source"
)

// FormatShortDiagnostics renders diagnostics one per line as
// "file:row:col: severity: message", in report order. Notes follow their
// diagnostic as "file:row:col: note: message" when includeNotes is set.
func FormatShortDiagnostics(diags []Diagnostic, fs *source.FileSet, includeNotes bool) string {
	if fs == nil || len(diags) == 0 {
		return ""
	}
	var b strings.Builder
	for _, d := range diags {
		writeShortLine(&b, fs, d.Primary, d.Severity.String(), d.Message)
		if !includeNotes {
			continue
		}
		for _, n := range d.Notes {
			writeShortLine(&b, fs, n.Span, SevNote.String(), n.Msg)
		}
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func writeShortLine(b *strings.Builder, fs *source.FileSet, sp source.Span, sev, msg string) {
	path, line, col, ok := resolveSpan(fs, sp)
	if !ok {
		fmt.Fprintf(b, "<unknown>: %s: %s\n", sev, sanitizeMessage(msg))
		return
	}
	fmt.Fprintf(b, "%s:%d:%d: %s: %s\n", path, line, col, sev, sanitizeMessage(msg))
}

func resolveSpan(fs *source.FileSet, span source.Span) (path string, line, col uint32, ok bool) {
	if int(span.File) >= fs.Len() {
		return "", 0, 0, false
	}
	file := fs.Get(span.File)
	start, _ := fs.Resolve(span)
	p := filepath.ToSlash(file.FormatPath("relative", fs.BaseDir()))
	for strings.HasPrefix(p, "./") {
		p = strings.TrimPrefix(p, "./")
	}
	return p, start.Line, start.Col, true
}

func sanitizeMessage(msg string) string {
	return strings.ReplaceAll(msg, "\n", " ")
}
