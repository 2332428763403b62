// Package validate checks the resolved model against the compilation mode of
// each file and against the mode-independent legality rules.
package validate

import (
	"fmt"

	"idlc/internal/ast"
	"idlc/internal/diag"
	"idlc/internal/dialect"
	"idlc/internal/source"
)

// Options configure a validation pass.
type Options struct {
	Reporter diag.Reporter
}

// Result summarises a validation pass.
type Result struct {
	// Violations counts mode violations (ENC codes) across all files.
	Violations int
	// Suggested holds, per file with violations, the mode that would accept it.
	Suggested map[source.FileID]ast.Mode
}

// Validate walks every definition of every file. It never stops early:
// all violations of all files are reported.
func Validate(a *ast.Ast, opts Options) Result {
	res := Result{Suggested: make(map[source.FileID]ast.Mode)}
	if a == nil {
		return res
	}
	v := validator{
		ast:        a,
		result:     &res,
		compactIDs: make(map[int64]ast.Index),
	}
	for _, f := range a.Files() {
		v.file(f)
	}
	v.out.Flush(opts.Reporter)
	return res
}

type validator struct {
	ast    *ast.Ast
	result *Result
	out    diag.Deferred

	// состояние текущего файла
	mode     ast.Mode
	evidence *dialect.Evidence

	compactIDs map[int64]ast.Index
}

func (v *validator) file(f *ast.File) {
	v.mode = f.Mode.Mode
	v.evidence = dialect.NewEvidence()
	first := ast.NoIndex
	if len(f.Items) > 0 {
		first = f.Items[0]
	}

	if f.Mode.Declared && !f.Mode.Known {
		spelling := "mode = " + f.Mode.Raw
		if f.Mode.Legacy {
			spelling = "encoding = " + f.Mode.Raw
		}
		v.out.Error(key(first), diag.EncUnknownMode, f.Mode.Span,
			fmt.Sprintf("unknown compilation mode in '%s'", spelling)).
			AddNote(f.Mode.Span, "supported modes are Slice1 and Slice2; using "+f.Mode.Mode.String())
	}
	v.attributes(first, f.Attrs, true)

	before := v.result.Violations
	for _, idx := range f.Items {
		v.node(idx)
	}
	if v.result.Violations == before {
		return
	}
	c := dialect.Classifier{}.Classify(v.evidence, v.mode)
	if c.Mode == 0 || c.Mode == v.mode {
		return
	}
	v.result.Suggested[f.ID] = c.Mode
	sp := f.Mode.Span
	if sp.Empty() && first != ast.NoIndex {
		sp = ast.EntityOf(v.ast.Resolve(first)).Ident.Span
	}
	v.out.Add(key(first), diag.New(diag.SevNote, diag.EncInfo, sp,
		fmt.Sprintf("every construct in this file is supported by %s; consider declaring 'mode = %s;'", c.Mode, c.Mode)))
}

// violation reports a mode violation and records the construct as evidence.
func (v *validator) violation(owner ast.Index, c dialect.Construct, sp source.Span, what string) {
	v.evidence.Add(c, sp)
	if dialect.Allows(c, v.mode) {
		return
	}
	v.result.Violations++
	r := dialect.Lookup(c)
	msg := r.Message(v.mode)
	if what != "" {
		msg = what + ": " + msg
	}
	v.out.Error(key(owner), r.Code, sp, msg).AddNote(sp, "hint: "+r.Hint)
}

func (v *validator) node(idx ast.Index) {
	n := v.ast.Resolve(idx)
	if e := ast.EntityOf(n); e != nil {
		v.attributes(idx, e.Attrs, false)
	}
	switch n := n.(type) {
	case *ast.Module:
		for _, m := range n.Members {
			v.node(m)
		}
	case *ast.Struct:
		v.structDef(idx, n)
	case *ast.Class:
		v.classDef(idx, n)
	case *ast.Exception:
		if n.Base != nil {
			v.violation(idx, dialect.ConstructExceptionInheritance, n.Base.Span, "'"+n.QualifiedName()+"'")
		}
		v.fields(n.Fields)
	case *ast.Interface:
		for _, op := range n.Operations {
			v.node(op)
		}
	case *ast.Enum:
		v.enumDef(idx, n)
	case *ast.CustomType:
		v.violation(idx, dialect.ConstructCustomType, n.Ident.Span, "'"+n.QualifiedName()+"'")
	case *ast.TypeAlias:
		v.typeUse(idx, &n.Underlying, false)
	case *ast.Operation:
		v.operation(idx, n)
	}
}

func key(idx ast.Index) uint32 { return uint32(idx) }
