package diagfmt

import (
	"fmt"
	"io"

	"idlc/internal/diag"
	"idlc/internal/source"
)

// Short prints one line per diagnostic, suitable for editors and grep.
func Short(w io.Writer, bag *diag.Bag, fs *source.FileSet, includeNotes bool) error {
	out := diag.FormatShortDiagnostics(bag.Items(), fs, includeNotes)
	if out == "" {
		return nil
	}
	_, err := fmt.Fprintln(w, out)
	return err
}
