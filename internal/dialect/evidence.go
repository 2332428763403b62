package dialect

import (
	"idlc/internal/ast"
	"idlc/internal/source"
)

// Hint records that a file uses a mode-dependent construct.
// It is not itself a diagnostic.
type Hint struct {
	Construct Construct
	Span      source.Span
}

// Evidence aggregates the mode-dependent constructs found in one file.
type Evidence struct {
	hints []Hint
}

// NewEvidence creates a new Evidence container.
func NewEvidence() *Evidence {
	return &Evidence{
		hints: make([]Hint, 0, 16),
	}
}

// Add appends a hint to the evidence collection.
func (e *Evidence) Add(c Construct, sp source.Span) {
	if e == nil {
		return
	}
	e.hints = append(e.hints, Hint{Construct: c, Span: sp})
}

// Hints returns the collected hints in insertion order.
func (e *Evidence) Hints() []Hint {
	if e == nil {
		return nil
	}
	return e.hints
}

// Rejected counts the hints mode does not accept.
func (e *Evidence) Rejected(mode ast.Mode) int {
	n := 0
	for _, h := range e.Hints() {
		if !Allows(h.Construct, mode) {
			n++
		}
	}
	return n
}
