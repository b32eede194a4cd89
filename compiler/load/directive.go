package load

import (
	"go/ast"
	"go/token"
	"strings"
)

// Marker is the comment directive that marks a type for generation.
const Marker = "atomflag:gen"

// ParseDirective extracts the directive arguments from a raw comment line
// such as `//atomflag:gen ownership="Arc"`. ok is false if the comment
// is not an atomflag directive.
func ParseDirective(text string) (args string, ok bool) {
	rest, found := strings.CutPrefix(text, "//"+Marker)
	if !found {
		return "", false
	}
	if rest != "" && rest[0] != ' ' && rest[0] != '\t' {
		// A longer word such as "atomflag:generate".
		return "", false
	}
	return strings.TrimSpace(rest), true
}

// directives collects the atomflag directives of the given comment groups.
func directives(fset *token.FileSet, groups ...*ast.CommentGroup) []*Directive {
	var ds []*Directive
	for _, g := range groups {
		if g == nil {
			continue
		}
		for _, c := range g.List {
			args, ok := ParseDirective(c.Text)
			if !ok {
				continue
			}
			ds = append(ds, &Directive{
				Args:   args,
				Source: SourceComment,
				Pos:    fset.Position(c.Slash),
			})
		}
	}
	return ds
}
