package dialect

import "idlc/internal/ast"

// Classification is the result of scoring evidence for a file.
type Classification struct {
	// Mode accepts every construct the file uses; zero when no single mode does.
	Mode     ast.Mode
	Rejected map[ast.Mode]int
	Observed int
}

// Classifier picks the mode that fits a file's evidence.
// Callers apply their own policy to the result.
type Classifier struct{}

// Classify prefers current when it already fits.
func (Classifier) Classify(e *Evidence, current ast.Mode) Classification {
	res := Classification{
		Rejected: map[ast.Mode]int{
			ast.ModeSlice1: e.Rejected(ast.ModeSlice1),
			ast.ModeSlice2: e.Rejected(ast.ModeSlice2),
		},
		Observed: len(e.Hints()),
	}
	if res.Rejected[current] == 0 {
		res.Mode = current
		return res
	}
	for _, m := range []ast.Mode{ast.ModeSlice1, ast.ModeSlice2} {
		if res.Rejected[m] == 0 {
			res.Mode = m
			break
		}
	}
	return res
}
