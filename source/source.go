// Package source extracts annotated declarations from Go source code.
//
// Every type spec becomes a derivative.Declaration carrying the directives of
// its doc comment; struct fields carry the directives of their doc and line
// comments. Generated files (suffix _gen.go) and tests are skipped.
package source

import (
	"context"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/tools/go/packages"

	"github.com/arllen133/derivative"
	"github.com/arllen133/derivative/meta"
)

// ParseFile parses one file and returns its declarations. src follows the
// go/parser convention: nil means read filename from disk.
func ParseFile(fset *token.FileSet, filename string, src any) ([]derivative.Declaration, error) {
	file, err := parser.ParseFile(fset, filename, src, parser.ParseComments|parser.SkipObjectResolution)
	if err != nil {
		return nil, err
	}
	return FromFile(fset, file.Name.Name, file), nil
}

// ParseDir parses every non-test, non-generated Go file in dir.
func ParseDir(dir string) ([]derivative.Declaration, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !isSourceFile(e.Name()) {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	fset := token.NewFileSet()
	var decls []derivative.Declaration
	for _, name := range names {
		fileDecls, err := ParseFile(fset, filepath.Join(dir, name), nil)
		if err != nil {
			return nil, err
		}
		decls = append(decls, fileDecls...)
	}
	return decls, nil
}

// Load resolves package patterns with the go tool and extracts the
// declarations of every matched package, keyed by import path.
func Load(ctx context.Context, dir string, patterns ...string) (map[string][]derivative.Declaration, error) {
	cfg := &packages.Config{
		Context: ctx,
		Dir:     dir,
		Mode: packages.NeedName |
			packages.NeedFiles |
			packages.NeedCompiledGoFiles |
			packages.NeedSyntax,
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("derivative: failed to load packages: %w", err)
	}

	out := make(map[string][]derivative.Declaration, len(pkgs))
	for _, pkg := range pkgs {
		if len(pkg.Errors) > 0 {
			return nil, fmt.Errorf("derivative: package %s has errors: %v", pkg.PkgPath, pkg.Errors)
		}
		var decls []derivative.Declaration
		for _, file := range pkg.Syntax {
			name := pkg.Fset.Position(file.Pos()).Filename
			if !isSourceFile(filepath.Base(name)) {
				continue
			}
			decls = append(decls, FromFile(pkg.Fset, pkg.PkgPath, file)...)
		}
		out[pkg.PkgPath] = decls
	}
	return out, nil
}

func isSourceFile(name string) bool {
	return strings.HasSuffix(name, ".go") &&
		!strings.HasSuffix(name, "_test.go") &&
		!strings.HasSuffix(name, "_gen.go") &&
		!strings.HasPrefix(name, ".")
}

// FromFile extracts the declarations of a parsed file.
func FromFile(fset *token.FileSet, pkg string, file *ast.File) []derivative.Declaration {
	var decls []derivative.Declaration
	for _, d := range file.Decls {
		gd, ok := d.(*ast.GenDecl)
		if !ok || gd.Tok != token.TYPE {
			continue
		}
		for _, spec := range gd.Specs {
			ts := spec.(*ast.TypeSpec)

			// An ungrouped `type X ...` keeps its doc comment on the GenDecl.
			doc := ts.Doc
			if doc == nil && !gd.Lparen.IsValid() {
				doc = gd.Doc
			}

			decl := derivative.Declaration{
				Package: pkg,
				Name:    ts.Name.Name,
				Pos:     fset.Position(ts.Name.Pos()),
				Attrs:   directives(fset, doc),
			}
			if st, ok := ts.Type.(*ast.StructType); ok {
				decl.Fields = fields(fset, st)
			}
			decls = append(decls, decl)
		}
	}
	return decls
}

func fields(fset *token.FileSet, st *ast.StructType) []derivative.FieldDeclaration {
	var out []derivative.FieldDeclaration
	for _, field := range st.Fields.List {
		attrs := append(directives(fset, field.Doc), directives(fset, field.Comment)...)

		if len(field.Names) == 0 {
			// Embedded fields are named after their type.
			out = append(out, derivative.FieldDeclaration{
				Name:  embeddedName(field.Type),
				Pos:   fset.Position(field.Type.Pos()),
				Attrs: attrs,
			})
			continue
		}
		for _, name := range field.Names {
			out = append(out, derivative.FieldDeclaration{
				Name:  name.Name,
				Pos:   fset.Position(name.Pos()),
				Attrs: attrs,
			})
		}
	}
	return out
}

func directives(fset *token.FileSet, group *ast.CommentGroup) []meta.Attribute {
	if group == nil {
		return nil
	}
	var attrs []meta.Attribute
	for _, c := range group.List {
		if attr, ok := meta.ParseDirective(c.Text, fset.Position(c.Slash)); ok {
			attrs = append(attrs, attr)
		}
	}
	return attrs
}

// embeddedName returns the field name Go gives an embedded type.
func embeddedName(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.Ident:
		return t.Name
	case *ast.StarExpr:
		return embeddedName(t.X)
	case *ast.SelectorExpr:
		return t.Sel.Name
	case *ast.IndexExpr:
		return embeddedName(t.X)
	case *ast.IndexListExpr:
		return embeddedName(t.X)
	}
	return ""
}
