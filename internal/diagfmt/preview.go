package diagfmt

import (
	"fmt"

	"fortio.org/safecast"

	"idlc/internal/source"
)

// contextLine is one source line shown under a diagnostic.
type contextLine struct {
	number uint32
	text   string
}

// contextLines returns the lines around line, clamped to the file.
func contextLines(f *source.File, line uint32, context int8) []contextLine {
	total, err := safecast.Conv[uint32](len(f.LineIdx) + 1)
	if err != nil {
		panic(fmt.Errorf("line count overflow: %w", err))
	}
	ctx, err := safecast.Conv[uint32](max(int(context), 0))
	if err != nil {
		panic(fmt.Errorf("context overflow: %w", err))
	}
	first := uint32(1)
	if line > ctx {
		first = line - ctx
	}
	last := min(line+ctx, total)
	out := make([]contextLine, 0, last-first+1)
	for n := first; n <= last; n++ {
		out = append(out, contextLine{number: n, text: f.GetLine(n)})
	}
	return out
}

func formatPath(f *source.File, mode PathMode, baseDir string) string {
	return f.FormatPath(mode.String(), baseDir)
}
