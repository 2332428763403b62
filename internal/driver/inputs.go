package driver

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"idlc/internal/diag"
	"idlc/internal/source"
)

// SourceExt is the extension picked up when a directory is given as input.
const SourceExt = ".idl"

type loadedFile struct {
	id        source.FileID
	path      string
	reference bool
}

// collectInputs loads sources, then references, skipping any path whose
// canonical form was already loaded. A file given as both stays a source.
func collectInputs(fset *source.FileSet, r diag.Reporter, sources, references []string) []loadedFile {
	seen := make(map[string]bool)
	var out []loadedFile
	failed := false

	add := func(paths []string, reference bool) {
		for _, p := range paths {
			expanded, err := expand(p)
			if err != nil {
				reportLoad(fset, r, p, err)
				failed = true
				continue
			}
			for _, path := range expanded {
				canon := source.Canonical(path)
				if seen[canon] {
					continue
				}
				seen[canon] = true
				var flags source.FileFlags
				if reference {
					flags = source.FileReference
				}
				id, err := fset.Load(path, flags)
				if err != nil {
					reportLoad(fset, r, path, err)
					failed = true
					continue
				}
				out = append(out, loadedFile{id: id, path: fset.Get(id).Path, reference: reference})
			}
		}
	}
	add(sources, false)
	add(references, true)

	if len(out) == 0 && !failed {
		diag.ReportError(r, diag.IONoInputs, source.Span{}, "no input files").
			WithNote(source.Span{}, fmt.Sprintf("pass files or directories containing %s files", SourceExt)).
			Emit()
	}
	return out
}

// expand turns a directory into its *.idl files (recursively, lexical order)
// and leaves a plain file as is.
func expand(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{path}, nil
	}
	var out []string
	err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if p != path && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(p) == SourceExt {
			out = append(out, p)
		}
		return nil
	})
	slices.Sort(out)
	return out, err
}

// reportLoad registers an empty placeholder so the diagnostic points at path.
func reportLoad(fset *source.FileSet, r diag.Reporter, path string, err error) {
	var pe *fs.PathError
	if errors.As(err, &pe) {
		err = pe.Err
	}
	id := fset.AddVirtual(path, nil)
	diag.ReportError(r, diag.IOLoadFileError, source.Span{File: id}, fmt.Sprintf("cannot load %s: %v", path, err)).Emit()
}
