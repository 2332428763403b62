package ast

import (
	"strings"

	"idlc/internal/source"
)

// Mode is a wire-encoding dialect. Each file is compiled under exactly one.
type Mode uint8

const (
	ModeSlice1 Mode = iota + 1
	ModeSlice2
)

// DefaultMode applies to files without a mode declaration.
const DefaultMode = ModeSlice2

func (m Mode) String() string {
	switch m {
	case ModeSlice1:
		return "Slice1"
	case ModeSlice2:
		return "Slice2"
	}
	return "unknown"
}

// ParseMode accepts "Slice1"/"Slice2" and, for the legacy spelling, "1"/"2".
func ParseMode(value string, legacy bool) (Mode, bool) {
	if legacy {
		switch value {
		case "1":
			return ModeSlice1, true
		case "2":
			return ModeSlice2, true
		}
		return 0, false
	}
	switch strings.TrimSpace(value) {
	case "Slice1":
		return ModeSlice1, true
	case "Slice2":
		return ModeSlice2, true
	}
	return 0, false
}

// FileCompilationMode is the dialect declared by (or defaulted for) a file.
// Span is empty when the mode was not declared.
type FileCompilationMode struct {
	Mode     Mode
	Declared bool
	Raw      string // как написано, для диагностики неизвестного значения
	Known    bool
	Legacy   bool
	Span     source.Span
}

// FileMode is the same concept under its legacy `encoding = N;` spelling.
type FileMode = FileCompilationMode

// File is a compilation input after lowering.
type File struct {
	ID        source.FileID
	Path      string
	Mode      FileCompilationMode
	Attrs     []Attribute
	Items     []Index // top-level definitions in declaration order
	Reference bool
}
