package validate

import (
	"fmt"

	"idlc/internal/ast"
	"idlc/internal/diag"
)

// attributes warns about unknown directives and rejects bad argument counts.
// File-level attributes are checked with fileLevel set.
func (v *validator) attributes(owner ast.Index, attrs []ast.Attribute, fileLevel bool) {
	for _, a := range attrs {
		limit, known := ast.KnownAttributes[a.Directive]
		if !known {
			v.out.Warning(key(owner), diag.SemaUnknownAttribute, a.Span,
				fmt.Sprintf("unknown attribute '%s' is ignored", a.Directive))
			continue
		}
		if fileLevel && a.Directive == ast.AttrOneway {
			v.out.Error(key(owner), diag.SemaAttrInvalidArgs, a.Span,
				"'oneway' applies to operations, not files")
			continue
		}
		if limit >= 0 && len(a.Args) > limit {
			v.out.Error(key(owner), diag.SemaAttrInvalidArgs, a.Span,
				fmt.Sprintf("attribute '%s' takes at most %d argument(s), got %d", a.Directive, limit, len(a.Args)))
			continue
		}
		if a.Directive == ast.AttrDeprecated && len(a.Args) == 1 && a.Args[0].Kind != ast.LiteralString {
			v.out.Error(key(owner), diag.SemaAttrInvalidArgs, a.Args[0].Span,
				"the reason given to 'deprecated' must be a string")
		}
	}
}
