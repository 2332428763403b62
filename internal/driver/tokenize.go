package driver

import (
	"idlc/internal/diag"
	"idlc/internal/lexer"
	"idlc/internal/source"
	"idlc/internal/token"
)

// TokenizeResult is the token stream of a single file.
type TokenizeResult struct {
	FileSet *source.FileSet
	File    *source.File
	Tokens  []token.Token
	Bag     *diag.Bag
}

// Tokenize lexes one file up to and including EOF.
func Tokenize(path string, maxDiagnostics int) (*TokenizeResult, error) {
	fs := source.NewFileSet()
	fileID, err := fs.Load(path, 0)
	if err != nil {
		return nil, err
	}
	file := fs.Get(fileID)
	bag := diag.NewBag(maxDiagnostics)
	lx := lexer.New(file, lexer.Options{Reporter: diag.BagReporter{Bag: bag}})
	return &TokenizeResult{FileSet: fs, File: file, Tokens: lx.All(), Bag: bag}, nil
}
