package derivative

import (
	"fmt"
	"go/ast"
	"go/parser"
	"strings"
)

// Predicate is one type-constraint clause contributed by a `bound` option,
// e.g. `T: fmt.Stringer`. The layer does not look inside it.
type Predicate struct {
	Target     string
	Constraint string
}

func (p Predicate) String() string {
	return p.Target + ": " + p.Constraint
}

// Path references a user function such as `hashing.Pair` or `cmpName`.
type Path struct {
	Segments []string
	Text     string
}

func (p Path) String() string { return p.Text }

// Expr is a literal default-value expression.
type Expr struct {
	Node ast.Expr
	Text string
}

func (e Expr) String() string { return e.Text }

// BoundParser parses a non-empty `bound` payload into predicates.
type BoundParser func(string) ([]Predicate, error)

// PathParser parses a function reference.
type PathParser func(string) (Path, error)

// ExprParser parses a default-value expression.
type ExprParser func(string) (Expr, error)

// Parsers groups the embedded sub-language parsers. Nil fields fall back to
// the Go grammar parsers below.
type Parsers struct {
	Bound BoundParser
	Path  PathParser
	Expr  ExprParser
}

func (p Parsers) withDefaults() Parsers {
	if p.Bound == nil {
		p.Bound = ParseBounds
	}
	if p.Path == nil {
		p.Path = ParsePath
	}
	if p.Expr == nil {
		p.Expr = ParseExpr
	}
	return p
}

// ParseBounds parses a comma separated list of `Type: Constraint` clauses.
// Both sides must be valid Go expressions; a single trailing comma is allowed.
//
// Example:
//
//	ParseBounds("T: fmt.Stringer, K: comparable")
//	// [{T fmt.Stringer} {K comparable}]
func ParseBounds(src string) ([]Predicate, error) {
	clauses := splitTopLevel(src, ',')
	var out []Predicate
	for i, clause := range clauses {
		clause = strings.TrimSpace(clause)
		if clause == "" {
			if i == len(clauses)-1 && i > 0 {
				break
			}
			return nil, fmt.Errorf("empty clause in bound %q", src)
		}

		parts := splitTopLevel(clause, ':')
		if len(parts) != 2 {
			return nil, fmt.Errorf("expected `Type: Constraint`, found %q", clause)
		}
		target := strings.TrimSpace(parts[0])
		constraint := strings.TrimSpace(parts[1])
		if target == "" || constraint == "" {
			return nil, fmt.Errorf("expected `Type: Constraint`, found %q", clause)
		}
		if _, err := parser.ParseExpr(target); err != nil {
			return nil, fmt.Errorf("invalid bound target %q: %w", target, err)
		}
		if _, err := parser.ParseExpr(constraint); err != nil {
			return nil, fmt.Errorf("invalid constraint %q: %w", constraint, err)
		}
		out = append(out, Predicate{Target: target, Constraint: constraint})
	}
	return out, nil
}

// ParsePath parses an identifier or a dotted selector, optionally
// instantiated with type arguments, e.g. `pkg.Compare[int]`.
func ParsePath(src string) (Path, error) {
	text := strings.TrimSpace(src)
	expr, err := parser.ParseExpr(text)
	if err != nil {
		return Path{}, err
	}
	segments, ok := pathSegments(expr)
	if !ok {
		return Path{}, fmt.Errorf("expected a function path, found %q", text)
	}
	return Path{Segments: segments, Text: text}, nil
}

func pathSegments(expr ast.Expr) ([]string, bool) {
	switch e := expr.(type) {
	case *ast.Ident:
		return []string{e.Name}, true
	case *ast.SelectorExpr:
		head, ok := pathSegments(e.X)
		if !ok {
			return nil, false
		}
		return append(head, e.Sel.Name), true
	case *ast.IndexExpr:
		return pathSegments(e.X)
	case *ast.IndexListExpr:
		return pathSegments(e.X)
	default:
		return nil, false
	}
}

// ParseExpr parses any Go expression.
func ParseExpr(src string) (Expr, error) {
	text := strings.TrimSpace(src)
	node, err := parser.ParseExpr(text)
	if err != nil {
		return Expr{}, err
	}
	return Expr{Node: node, Text: text}, nil
}

// splitTopLevel splits s on sep outside brackets and string literals.
func splitTopLevel(s string, sep byte) []string {
	var parts []string
	depth := 0
	var quote byte
	start := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if quote != 0 {
			if c == '\\' && quote != '`' {
				i++
			} else if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '"', '\'', '`':
			quote = c
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case sep:
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, s[start:])
}
