// Package visit is the read-only boundary between the compiler and its consumers.
//
// Walk is the only way a consumer sees the model, and it refuses to run while
// the compilation has errors: every reference reached through a Visitor is
// resolved.
package visit

import (
	"errors"
	"fmt"

	"idlc/internal/ast"
	"idlc/internal/diag"
)

// ErrHasErrors is returned by Walk when the compilation did not succeed.
var ErrHasErrors = errors.New("compilation has errors; the model is not visitable")

// Visitor receives one callback per construct. Containers get a Start and an
// End call around their members.
type Visitor interface {
	VisitFile(f *ast.File)

	VisitModuleStart(idx ast.Index, m *ast.Module)
	VisitModuleEnd(idx ast.Index, m *ast.Module)
	VisitStructStart(idx ast.Index, s *ast.Struct)
	VisitStructEnd(idx ast.Index, s *ast.Struct)
	VisitClassStart(idx ast.Index, c *ast.Class)
	VisitClassEnd(idx ast.Index, c *ast.Class)
	VisitExceptionStart(idx ast.Index, e *ast.Exception)
	VisitExceptionEnd(idx ast.Index, e *ast.Exception)
	VisitInterfaceStart(idx ast.Index, i *ast.Interface)
	VisitInterfaceEnd(idx ast.Index, i *ast.Interface)
	VisitEnumStart(idx ast.Index, e *ast.Enum)
	VisitEnumEnd(idx ast.Index, e *ast.Enum)
	VisitOperationStart(idx ast.Index, op *ast.Operation)
	VisitOperationEnd(idx ast.Index, op *ast.Operation)

	VisitCustomType(idx ast.Index, c *ast.CustomType)
	VisitTypeAlias(idx ast.Index, a *ast.TypeAlias)
	VisitEnumerator(idx ast.Index, e *ast.Enumerator)
	VisitField(idx ast.Index, f *ast.Field)
	VisitParameter(idx ast.Index, p *ast.Parameter)
	VisitTypeRef(ref *ast.TypeRef)
}

// Unit is what Walk needs from a finished compilation.
type Unit struct {
	Ast *ast.Ast
	Bag *diag.Bag
	// WarningsAsErrors makes warnings block the walk too.
	WarningsAsErrors bool
}

// Walk visits every source file in load order; reference files are skipped.
// Within a file definitions come in declaration (arena) order, containers
// around their members: module → definitions → members.
func Walk(u Unit, v Visitor) error {
	if u.Ast == nil {
		return errors.New("visit: nil model")
	}
	if u.Bag != nil && u.Bag.HasErrors(u.WarningsAsErrors) {
		return fmt.Errorf("%w (%d errors, %d warnings)", ErrHasErrors, u.Bag.ErrorCount(), u.Bag.WarningCount())
	}
	w := walker{ast: u.Ast, v: v}
	for _, f := range u.Ast.Files() {
		if f.Reference {
			continue
		}
		v.VisitFile(f)
		for _, idx := range f.Items {
			w.node(idx)
		}
	}
	return nil
}

type walker struct {
	ast *ast.Ast
	v   Visitor
}

func (w *walker) node(idx ast.Index) {
	switch n := w.ast.Resolve(idx).(type) {
	case *ast.Module:
		w.v.VisitModuleStart(idx, n)
		w.nodes(n.Members)
		w.v.VisitModuleEnd(idx, n)
	case *ast.Struct:
		w.v.VisitStructStart(idx, n)
		w.nodes(n.Fields)
		w.v.VisitStructEnd(idx, n)
	case *ast.Class:
		w.v.VisitClassStart(idx, n)
		if n.Base != nil {
			w.ref(n.Base)
		}
		w.nodes(n.Fields)
		w.v.VisitClassEnd(idx, n)
	case *ast.Exception:
		w.v.VisitExceptionStart(idx, n)
		if n.Base != nil {
			w.ref(n.Base)
		}
		w.nodes(n.Fields)
		w.v.VisitExceptionEnd(idx, n)
	case *ast.Interface:
		w.v.VisitInterfaceStart(idx, n)
		for i := range n.Bases {
			w.ref(&n.Bases[i])
		}
		w.nodes(n.Operations)
		w.v.VisitInterfaceEnd(idx, n)
	case *ast.Enum:
		w.v.VisitEnumStart(idx, n)
		if n.Underlying != nil {
			w.ref(n.Underlying)
		}
		w.nodes(n.Enumerators)
		w.v.VisitEnumEnd(idx, n)
	case *ast.Enumerator:
		w.v.VisitEnumerator(idx, n)
		w.nodes(n.Fields)
	case *ast.Operation:
		w.v.VisitOperationStart(idx, n)
		w.nodes(n.Params)
		w.nodes(n.Returns)
		for i := range n.Throws {
			w.ref(&n.Throws[i])
		}
		w.v.VisitOperationEnd(idx, n)
	case *ast.CustomType:
		w.v.VisitCustomType(idx, n)
	case *ast.TypeAlias:
		w.v.VisitTypeAlias(idx, n)
		w.ref(&n.Underlying)
	case *ast.Field:
		w.v.VisitField(idx, n)
		w.ref(&n.Type)
	case *ast.Parameter:
		w.v.VisitParameter(idx, n)
		w.ref(&n.Type)
	case *ast.Primitive, *ast.Sequence, *ast.Dictionary:
		// анонимные узлы достигаются только через ссылки
	default:
		panic(ast.InternalError{Msg: fmt.Sprintf("visit: unhandled node %T", n)})
	}
}

func (w *walker) nodes(list []ast.Index) {
	for _, idx := range list {
		w.node(idx)
	}
}

// ref hands the reference to the visitor, then the references nested in
// sequence and dictionary types.
func (w *walker) ref(r *ast.TypeRef) {
	w.v.VisitTypeRef(r)
	switch n := w.ast.Target(r).(type) {
	case *ast.Sequence:
		w.ref(&n.Element)
	case *ast.Dictionary:
		w.ref(&n.Key)
		w.ref(&n.Value)
	}
}

// BaseVisitor implements Visitor with no-ops; embed it and override what you need.
type BaseVisitor struct{}

func (BaseVisitor) VisitFile(*ast.File)                           {}
func (BaseVisitor) VisitModuleStart(ast.Index, *ast.Module)       {}
func (BaseVisitor) VisitModuleEnd(ast.Index, *ast.Module)         {}
func (BaseVisitor) VisitStructStart(ast.Index, *ast.Struct)       {}
func (BaseVisitor) VisitStructEnd(ast.Index, *ast.Struct)         {}
func (BaseVisitor) VisitClassStart(ast.Index, *ast.Class)         {}
func (BaseVisitor) VisitClassEnd(ast.Index, *ast.Class)           {}
func (BaseVisitor) VisitExceptionStart(ast.Index, *ast.Exception) {}
func (BaseVisitor) VisitExceptionEnd(ast.Index, *ast.Exception)   {}
func (BaseVisitor) VisitInterfaceStart(ast.Index, *ast.Interface) {}
func (BaseVisitor) VisitInterfaceEnd(ast.Index, *ast.Interface)   {}
func (BaseVisitor) VisitEnumStart(ast.Index, *ast.Enum)           {}
func (BaseVisitor) VisitEnumEnd(ast.Index, *ast.Enum)             {}
func (BaseVisitor) VisitOperationStart(ast.Index, *ast.Operation) {}
func (BaseVisitor) VisitOperationEnd(ast.Index, *ast.Operation)   {}
func (BaseVisitor) VisitCustomType(ast.Index, *ast.CustomType)    {}
func (BaseVisitor) VisitTypeAlias(ast.Index, *ast.TypeAlias)      {}
func (BaseVisitor) VisitEnumerator(ast.Index, *ast.Enumerator)    {}
func (BaseVisitor) VisitField(ast.Index, *ast.Field)              {}
func (BaseVisitor) VisitParameter(ast.Index, *ast.Parameter)      {}
func (BaseVisitor) VisitTypeRef(*ast.TypeRef)                     {}
