package checker

import (
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"io/fs"
	"path"
	"path/filepath"
	"strconv"

	"github.com/arllen133/derivative"
	"github.com/arllen133/derivative/gen"
)

// Config holds the parsed `gen.Config` of a directory.
type Config struct {
	Namespace    string
	IncludeTypes []string
	ExcludeTypes []string
	CatalogPath  string
	Workers      int
}

// ParseConfig reads `var _ = gen.Config{...}` from config.go in dir. It
// returns nil without error when the directory has no config.go.
func ParseConfig(dir string) (*Config, error) {
	configFile := filepath.Join(dir, gen.ConfigFileName)
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, configFile, nil, parser.SkipObjectResolution)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("derivative: failed to parse %s: %w", configFile, err)
	}

	cfg := &Config{
		Namespace: derivative.DefaultNamespace,
	}

	compLit := findConfigLit(file)
	if compLit == nil {
		return cfg, nil
	}

	for _, elt := range compLit.Elts {
		kv, ok := elt.(*ast.KeyValueExpr)
		if !ok {
			continue
		}
		key, ok := kv.Key.(*ast.Ident)
		if !ok {
			continue
		}

		switch key.Name {
		case "Namespace":
			if s, ok := stringValue(kv.Value); ok && s != "" {
				cfg.Namespace = s
			}
		case "IncludeTypes":
			cfg.IncludeTypes = parseTypeList(kv.Value)
		case "ExcludeTypes":
			cfg.ExcludeTypes = parseTypeList(kv.Value)
		case "CatalogPath":
			if s, ok := stringValue(kv.Value); ok && s != "" {
				// CatalogPath is relative to the config directory
				if !filepath.IsAbs(s) {
					s = filepath.Join(dir, s)
				}
				cfg.CatalogPath = s
			}
		case "Workers":
			if lit, ok := kv.Value.(*ast.BasicLit); ok && lit.Kind == token.INT {
				n, err := strconv.Atoi(lit.Value)
				if err != nil {
					return nil, fmt.Errorf("derivative: invalid Workers in %s: %w", configFile, err)
				}
				cfg.Workers = n
			}
		}
	}
	return cfg, nil
}

// findConfigLit returns the first gen.Config (or local Config) composite
// literal assigned by a var declaration.
func findConfigLit(file *ast.File) *ast.CompositeLit {
	for _, decl := range file.Decls {
		genDecl, ok := decl.(*ast.GenDecl)
		if !ok || genDecl.Tok != token.VAR {
			continue
		}
		for _, spec := range genDecl.Specs {
			valueSpec, ok := spec.(*ast.ValueSpec)
			if !ok || len(valueSpec.Values) == 0 {
				continue
			}
			compLit, ok := valueSpec.Values[0].(*ast.CompositeLit)
			if !ok {
				continue
			}
			if name := typeName(compLit.Type); name == "gen.Config" || name == "Config" {
				return compLit
			}
		}
	}
	return nil
}

func typeName(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.SelectorExpr:
		if ident, ok := t.X.(*ast.Ident); ok {
			return ident.Name + "." + t.Sel.Name
		}
	case *ast.Ident:
		return t.Name
	}
	return ""
}

func stringValue(expr ast.Expr) (string, bool) {
	lit, ok := expr.(*ast.BasicLit)
	if !ok || lit.Kind != token.STRING {
		return "", false
	}
	s, err := strconv.Unquote(lit.Value)
	return s, err == nil
}

// parseTypeList extracts type names from []any{...}: strings are taken as
// names or patterns, composite literals by their type name.
func parseTypeList(expr ast.Expr) []string {
	var result []string
	compLit, ok := expr.(*ast.CompositeLit)
	if !ok {
		return result
	}

	for _, elt := range compLit.Elts {
		switch v := elt.(type) {
		case *ast.BasicLit:
			if s, ok := stringValue(v); ok {
				result = append(result, s)
			}
		case *ast.CompositeLit:
			// models.User{}
			if name := literalTypeName(v); name != "" {
				result = append(result, name)
			}
		case *ast.UnaryExpr:
			// &models.User{}
			if comp, ok := v.X.(*ast.CompositeLit); ok {
				if name := literalTypeName(comp); name != "" {
					result = append(result, name)
				}
			}
		}
	}
	return result
}

func literalTypeName(lit *ast.CompositeLit) string {
	switch t := lit.Type.(type) {
	case *ast.SelectorExpr:
		return t.Sel.Name
	case *ast.Ident:
		return t.Name
	}
	return ""
}

// FilterDecls applies the Include/Exclude lists of cfg. Entries are matched
// as path.Match patterns, so plain names match exactly.
func FilterDecls(decls []derivative.Declaration, cfg *Config) []derivative.Declaration {
	if cfg == nil || (len(cfg.IncludeTypes) == 0 && len(cfg.ExcludeTypes) == 0) {
		return decls
	}

	var result []derivative.Declaration
	for _, d := range decls {
		if matchAny(cfg.ExcludeTypes, d.Name) {
			continue
		}
		if len(cfg.IncludeTypes) > 0 && !matchAny(cfg.IncludeTypes, d.Name) {
			continue
		}
		result = append(result, d)
	}
	return result
}

func matchAny(patterns []string, name string) bool {
	for _, p := range patterns {
		if ok, err := path.Match(p, name); err == nil && ok {
			return true
		}
	}
	return false
}
