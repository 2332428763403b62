package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"idlc/internal/ast"
	"idlc/internal/source"
)

// CheckSpanInvariants runs a minimal set of span invariants on a lowered file:
// 1) every top-level item belongs to the file and has a non-empty span
// 2) spans never reach past the end of the content
// 3) member spans are contained in their parent's span
func CheckSpanInvariants(a *ast.Ast, f *ast.File, sf *source.File) error {
	if a == nil || f == nil || sf == nil {
		return fmt.Errorf("nil ast or file")
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	var check func(idx ast.Index, outer source.Span, haveOuter bool) error
	check = func(idx ast.Index, outer source.Span, haveOuter bool) error {
		n, ok := a.Get(idx)
		if !ok {
			return fmt.Errorf("dangling index %d", idx)
		}
		sp := n.Span()
		if sp.End <= sp.Start {
			return fmt.Errorf("empty %s span: %v", n.Kind(), sp)
		}
		if sp.File != sf.ID {
			return fmt.Errorf("%s span file mismatch: got=%d want=%d", n.Kind(), sp.File, sf.ID)
		}
		if sp.End > lenContent {
			return fmt.Errorf("%s span end beyond content: %d > %d", n.Kind(), sp.End, lenContent)
		}
		if haveOuter && (sp.Start < outer.Start || sp.End > outer.End) {
			return fmt.Errorf("%s span %v is outside parent span %v", n.Kind(), sp, outer)
		}
		for _, child := range ast.Members(n) {
			if err := check(child, sp, true); err != nil {
				return err
			}
		}
		return nil
	}
	for _, it := range f.Items {
		if err := check(it, source.Span{}, false); err != nil {
			return err
		}
	}
	return nil
}
