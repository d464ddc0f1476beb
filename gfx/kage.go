package gfx

import (
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"strings"
)

const kageDirectivePrefix = "//kage:"

// kageUnit is one parsed Kage stage source. Kage is Go syntax, so go/parser
// handles it; identifiers such as vec4 are left unresolved.
type kageUnit struct {
	directives []string
	body       string // everything after the package clause, directives removed
	uniforms   []string
	funcs      []string
}

func parseKage(src string) (*kageUnit, error) {
	if strings.TrimSpace(src) == "" {
		return nil, errors.New("empty source")
	}
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, "", src, parser.ParseComments|parser.SkipObjectResolution)
	if err != nil {
		return nil, err
	}
	if f.Name.Name != "main" {
		return nil, fmt.Errorf("package must be main, got %s", f.Name.Name)
	}
	if len(f.Imports) > 0 {
		return nil, errors.New("imports are not allowed")
	}

	u := &kageUnit{}
	for _, cg := range f.Comments {
		for _, c := range cg.List {
			if strings.HasPrefix(c.Text, kageDirectivePrefix) {
				u.directives = append(u.directives, strings.TrimSpace(c.Text))
			}
		}
	}

	var body strings.Builder
	rest := src[fset.Position(f.Name.End()).Offset:]
	for _, line := range strings.SplitAfter(rest, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), kageDirectivePrefix) {
			continue
		}
		body.WriteString(line)
	}
	u.body = body.String()

	for _, decl := range f.Decls {
		switch d := decl.(type) {
		case *ast.GenDecl:
			if d.Tok != token.VAR {
				continue
			}
			for _, spec := range d.Specs {
				for _, n := range spec.(*ast.ValueSpec).Names {
					u.uniforms = append(u.uniforms, n.Name)
				}
			}
		case *ast.FuncDecl:
			u.funcs = append(u.funcs, d.Name.Name)
		}
	}
	return u, nil
}

func (u *kageUnit) hasFunc(name string) bool {
	for _, f := range u.funcs {
		if f == name {
			return true
		}
	}
	return false
}

// mergeKage joins stage units into a single Kage program. Directives are
// deduplicated and emitted first; bodies follow in stage order. The returned
// uniform list is in declaration order, which is also location order.
func mergeKage(units ...*kageUnit) (src string, uniforms []string) {
	var b strings.Builder
	seen := make(map[string]bool)
	for _, u := range units {
		for _, d := range u.directives {
			if seen[d] {
				continue
			}
			seen[d] = true
			b.WriteString(d)
			b.WriteByte('\n')
		}
	}
	b.WriteString("\npackage main\n")
	for _, u := range units {
		b.WriteString(u.body)
		if !strings.HasSuffix(u.body, "\n") {
			b.WriteByte('\n')
		}
		uniforms = append(uniforms, u.uniforms...)
	}
	return b.String(), uniforms
}
