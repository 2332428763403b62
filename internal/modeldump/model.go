// Package modeldump renders the resolved model through the visitor boundary.
package modeldump

import (
	"fmt"
	"strconv"
	"strings"

	"idlc/internal/ast"
	"idlc/internal/source"
	"idlc/internal/visit"
)

// Node is one definition of the dumped model.
type Node struct {
	Kind      string            `json:"kind" yaml:"kind"`
	Name      string            `json:"name,omitempty" yaml:"name,omitempty"`
	Qualified string            `json:"qualified,omitempty" yaml:"qualified,omitempty"`
	Location  string            `json:"location,omitempty" yaml:"location,omitempty"`
	Type      string            `json:"type,omitempty" yaml:"type,omitempty"`
	Props     map[string]string `json:"props,omitempty" yaml:"props,omitempty"`
	Doc       string            `json:"doc,omitempty" yaml:"doc,omitempty"`
	Children  []*Node           `json:"children,omitempty" yaml:"children,omitempty"`
}

// Model is the dump of every visited source file.
type Model struct {
	Files []*Node `json:"files" yaml:"files"`
}

// Build walks the unit and collects the model. It fails exactly when Walk does.
func Build(u visit.Unit, fs *source.FileSet) (*Model, error) {
	c := &collector{ast: u.Ast, fs: fs, model: &Model{}}
	if err := visit.Walk(u, c); err != nil {
		return nil, err
	}
	return c.model, nil
}

// collector keeps a stack of open containers; leaves attach to the top.
type collector struct {
	visit.BaseVisitor
	ast   *ast.Ast
	fs    *source.FileSet
	model *Model
	stack []*Node
}

func (c *collector) push(n *Node) {
	c.attach(n)
	c.stack = append(c.stack, n)
}

func (c *collector) pop() { c.stack = c.stack[:len(c.stack)-1] }

func (c *collector) attach(n *Node) {
	top := c.stack[len(c.stack)-1]
	top.Children = append(top.Children, n)
}

func (c *collector) entity(kind string, e *ast.Entity) *Node {
	n := &Node{Kind: kind, Name: e.Name(), Qualified: e.QualifiedName(), Location: c.location(e.Ident.Span)}
	if e.Doc != nil && e.Doc.Overview != nil {
		n.Doc = e.Doc.Overview.Text
	}
	for _, a := range e.Attrs {
		args := make([]string, len(a.Args))
		for i, arg := range a.Args {
			args[i] = arg.Text
		}
		c.prop(n, "attr."+a.Directive, strings.Join(args, ", "))
	}
	return n
}

func (c *collector) prop(n *Node, k, v string) {
	if n.Props == nil {
		n.Props = make(map[string]string)
	}
	n.Props[k] = v
}

func (c *collector) location(sp source.Span) string {
	if c.fs == nil {
		return ""
	}
	start, _ := c.fs.Resolve(sp)
	return fmt.Sprintf("%s:%d:%d", c.fs.Get(sp.File).Path, start.Line, start.Col)
}

func (c *collector) refs(refs []ast.TypeRef) string {
	names := make([]string, len(refs))
	for i := range refs {
		names[i] = c.ast.RefName(&refs[i])
	}
	return strings.Join(names, ", ")
}

func (c *collector) VisitFile(f *ast.File) {
	n := &Node{Kind: "file", Name: f.Path}
	c.prop(n, "mode", f.Mode.Mode.String())
	c.model.Files = append(c.model.Files, n)
	c.stack = append(c.stack[:0], n)
}

func (c *collector) VisitModuleStart(_ ast.Index, m *ast.Module) {
	c.push(c.entity("module", &m.Entity))
}
func (c *collector) VisitModuleEnd(ast.Index, *ast.Module) { c.pop() }

func (c *collector) VisitStructStart(_ ast.Index, s *ast.Struct) {
	n := c.entity("struct", &s.Entity)
	if s.Compact {
		c.prop(n, "compact", "true")
	}
	c.push(n)
}
func (c *collector) VisitStructEnd(ast.Index, *ast.Struct) { c.pop() }

func (c *collector) VisitClassStart(_ ast.Index, cl *ast.Class) {
	n := c.entity("class", &cl.Entity)
	if cl.Base != nil {
		c.prop(n, "base", c.ast.RefName(cl.Base))
	}
	if cl.CompactID != nil {
		c.prop(n, "compact_id", strconv.FormatInt(cl.CompactID.Int, 10))
	}
	c.push(n)
}
func (c *collector) VisitClassEnd(ast.Index, *ast.Class) { c.pop() }

func (c *collector) VisitExceptionStart(_ ast.Index, e *ast.Exception) {
	n := c.entity("exception", &e.Entity)
	if e.Base != nil {
		c.prop(n, "base", c.ast.RefName(e.Base))
	}
	c.push(n)
}
func (c *collector) VisitExceptionEnd(ast.Index, *ast.Exception) { c.pop() }

func (c *collector) VisitInterfaceStart(_ ast.Index, i *ast.Interface) {
	n := c.entity("interface", &i.Entity)
	if len(i.Bases) > 0 {
		c.prop(n, "bases", c.refs(i.Bases))
	}
	c.push(n)
}
func (c *collector) VisitInterfaceEnd(ast.Index, *ast.Interface) { c.pop() }

func (c *collector) VisitEnumStart(_ ast.Index, e *ast.Enum) {
	n := c.entity("enum", &e.Entity)
	if e.Underlying != nil {
		n.Type = c.ast.RefName(e.Underlying)
	}
	if e.Unchecked {
		c.prop(n, "unchecked", "true")
	}
	c.push(n)
}
func (c *collector) VisitEnumEnd(ast.Index, *ast.Enum) {
	c.closeEnumerator()
	c.pop()
}

func (c *collector) VisitOperationStart(_ ast.Index, op *ast.Operation) {
	n := c.entity("operation", &op.Entity)
	if op.Idempotent {
		c.prop(n, "idempotent", "true")
	}
	if len(op.Throws) > 0 {
		c.prop(n, "throws", c.refs(op.Throws))
	}
	c.push(n)
}
func (c *collector) VisitOperationEnd(ast.Index, *ast.Operation) { c.pop() }

func (c *collector) VisitCustomType(_ ast.Index, ct *ast.CustomType) {
	c.attach(c.entity("custom", &ct.Entity))
}

func (c *collector) VisitTypeAlias(_ ast.Index, a *ast.TypeAlias) {
	n := c.entity("typealias", &a.Entity)
	n.Type = c.ast.RefName(&a.Underlying)
	c.attach(n)
}

// Enumerators are pushed so their fields nest under them; the next
// enumerator or the end of the enum closes them.
func (c *collector) VisitEnumerator(_ ast.Index, e *ast.Enumerator) {
	n := c.entity("enumerator", &e.Entity)
	c.prop(n, "value", strconv.FormatInt(e.Value, 10))
	c.closeEnumerator()
	c.push(n)
}

func (c *collector) closeEnumerator() {
	if top := c.stack[len(c.stack)-1]; top.Kind == "enumerator" {
		c.pop()
	}
}

func (c *collector) VisitField(_ ast.Index, f *ast.Field) {
	n := c.entity("field", &f.Entity)
	n.Type = c.ast.RefName(&f.Type)
	if f.Tag != nil {
		c.prop(n, "tag", strconv.FormatInt(f.Tag.Int, 10))
	}
	c.attach(n)
}

func (c *collector) VisitParameter(_ ast.Index, p *ast.Parameter) {
	kind := "parameter"
	if p.IsReturn {
		kind = "return"
	}
	n := c.entity(kind, &p.Entity)
	n.Type = c.ast.RefName(&p.Type)
	if p.Tag != nil {
		c.prop(n, "tag", strconv.FormatInt(p.Tag.Int, 10))
	}
	if p.Stream {
		c.prop(n, "stream", "true")
	}
	c.attach(n)
}
