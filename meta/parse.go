package meta

import (
	"fmt"
	"go/scanner"
	"go/token"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// DirectivePrefix starts every annotation comment. gofmt rewrites doc
// comment lines to `// @name`, so one space after the slashes is accepted too.
const DirectivePrefix = "//@"

// ParseDirective reads one comment line as an Attribute. It reports false for
// ordinary comments and for directives whose path is not a dotted identifier.
func ParseDirective(text string, pos token.Position) (Attribute, bool) {
	rest, ok := strings.CutPrefix(text, "//")
	if !ok {
		return Attribute{}, false
	}
	rest = strings.TrimPrefix(rest, " ")
	if !strings.HasPrefix(rest, "@") {
		return Attribute{}, false
	}
	rest = strings.TrimRightFunc(rest[1:], unicode.IsSpace)

	var path []string
	for {
		n := identLen(rest)
		if n == 0 {
			return Attribute{}, false
		}
		path = append(path, rest[:n])
		rest = rest[n:]
		if !strings.HasPrefix(rest, ".") {
			break
		}
		rest = rest[1:]
	}

	return Attribute{Path: path, Args: rest, Pos: pos}, true
}

// ParseMeta parses a standalone meta item such as `Debug(bound="T: any")`.
func ParseMeta(src string) (Meta, error) {
	toks, err := scan(src)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	name := p.next()
	if name.tok != token.IDENT {
		return nil, fmt.Errorf("expected identifier, found %s", name)
	}
	m, err := p.parseMeta(name.lit)
	if err != nil {
		return nil, err
	}
	if t := p.peek(); t.tok != token.EOF {
		return nil, fmt.Errorf("unexpected %s after meta", t)
	}
	return m, nil
}

func identLen(s string) int {
	n := 0
	for n < len(s) {
		r, size := utf8.DecodeRuneInString(s[n:])
		if r == '_' || unicode.IsLetter(r) || (n > 0 && unicode.IsDigit(r)) {
			n += size
			continue
		}
		break
	}
	return n
}

type item struct {
	tok token.Token
	lit string
}

func (i item) String() string {
	if i.lit != "" {
		return fmt.Sprintf("%s %q", i.tok, i.lit)
	}
	return i.tok.String()
}

// scan tokenizes src with the Go scanner; annotation arguments share Go's
// lexical grammar for identifiers and literals.
func scan(src string) ([]item, error) {
	fset := token.NewFileSet()
	file := fset.AddFile("", fset.Base(), len(src))

	var firstErr error
	var s scanner.Scanner
	s.Init(file, []byte(src), func(pos token.Position, msg string) {
		if firstErr == nil {
			firstErr = fmt.Errorf("column %d: %s", pos.Column, msg)
		}
	}, 0)

	var items []item
	for {
		_, tok, lit := s.Scan()
		if tok == token.EOF {
			break
		}
		// automatic semicolon at end of input
		if tok == token.SEMICOLON && lit == "\n" {
			continue
		}
		items = append(items, item{tok: tok, lit: lit})
	}
	if firstErr != nil {
		return nil, firstErr
	}
	return items, nil
}

type parser struct {
	toks []item
	i    int
}

func (p *parser) peek() item {
	if p.i >= len(p.toks) {
		return item{tok: token.EOF}
	}
	return p.toks[p.i]
}

func (p *parser) next() item {
	t := p.peek()
	if p.i < len(p.toks) {
		p.i++
	}
	return t
}

// parseMeta parses what follows an already consumed identifier.
func (p *parser) parseMeta(name string) (Meta, error) {
	switch p.peek().tok {
	case token.ASSIGN:
		p.next()
		lit, err := p.parseLit()
		if err != nil {
			return nil, err
		}
		return &NameValue{Name: name, Lit: lit}, nil
	case token.LPAREN:
		p.next()
		nested, err := p.parseNestedList()
		if err != nil {
			return nil, err
		}
		return &List{Name: name, Nested: nested}, nil
	default:
		return &Word{Name: name}, nil
	}
}

func (p *parser) parseNestedList() ([]Nested, error) {
	var out []Nested
	for {
		if p.peek().tok == token.RPAREN {
			p.next()
			return out, nil
		}
		n, err := p.parseNested()
		if err != nil {
			return nil, err
		}
		out = append(out, n)

		switch t := p.next(); t.tok {
		case token.COMMA:
		case token.RPAREN:
			return out, nil
		default:
			return nil, fmt.Errorf("expected `,` or `)`, found %s", t)
		}
	}
}

func (p *parser) parseNested() (Nested, error) {
	t := p.peek()
	if t.tok == token.IDENT && t.lit != "true" && t.lit != "false" {
		p.next()
		return p.parseMeta(t.lit)
	}
	return p.parseLit()
}

func (p *parser) parseLit() (Lit, error) {
	t := p.next()
	switch t.tok {
	case token.STRING:
		v, err := strconv.Unquote(t.lit)
		if err != nil {
			return nil, fmt.Errorf("invalid string literal %s: %w", t.lit, err)
		}
		return &Str{Value: v}, nil
	case token.INT:
		return &Int{Raw: t.lit}, nil
	case token.FLOAT, token.IMAG:
		return &Float{Raw: t.lit}, nil
	case token.CHAR:
		v, _, _, err := strconv.UnquoteChar(t.lit[1:len(t.lit)-1], '\'')
		if err != nil {
			return nil, fmt.Errorf("invalid rune literal %s: %w", t.lit, err)
		}
		return &Char{Value: v}, nil
	case token.IDENT:
		switch t.lit {
		case "true":
			return &Bool{Value: true}, nil
		case "false":
			return &Bool{Value: false}, nil
		}
	}
	return nil, fmt.Errorf("expected literal, found %s", t)
}
