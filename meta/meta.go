// Package meta models the annotation nodes attached to Go declarations.
//
// An annotation is written as a comment directive directly above a type spec
// or a struct field:
//
//	//@derivative(Debug(bound="T: fmt.Stringer", transparent="true"))
//	//@derive(Clone, Copy)
//	//@copy_clone_marker
//
// Every directive becomes an Attribute. Its arguments are interpreted lazily
// as a Meta, which is one of three surface shapes:
//
//	Word       name
//	NameValue  name = literal
//	List       name(nested, nested, ...)
//
// where each nested item is itself a Meta or a literal.
package meta

import (
	"fmt"
	"go/token"
	"strconv"
	"strings"
)

// Nested is an item inside a List: either a Meta or a Lit.
type Nested interface {
	nested()
	String() string
}

// Meta is the tagged variant Word | NameValue | List.
type Meta interface {
	Nested
	// MetaName returns the leading identifier of the meta item.
	MetaName() string
}

// Lit is a literal payload: Str, Int, Float, Char or Bool.
type Lit interface {
	Nested
	lit()
}

// Word is a bare identifier, e.g. `Debug`.
type Word struct {
	Name string
}

// NameValue is an identifier with a literal payload, e.g. `Debug="ignore"`.
type NameValue struct {
	Name string
	Lit  Lit
}

// List is an identifier with a parenthesized list, e.g. `Debug(bound="")`.
type List struct {
	Name   string
	Nested []Nested
}

func (*Word) nested()      {}
func (*NameValue) nested() {}
func (*List) nested()      {}

func (w *Word) MetaName() string      { return w.Name }
func (nv *NameValue) MetaName() string { return nv.Name }
func (l *List) MetaName() string      { return l.Name }

func (w *Word) String() string { return w.Name }

func (nv *NameValue) String() string {
	return nv.Name + " = " + nv.Lit.String()
}

func (l *List) String() string {
	parts := make([]string, 0, len(l.Nested))
	for _, n := range l.Nested {
		parts = append(parts, n.String())
	}
	return l.Name + "(" + strings.Join(parts, ", ") + ")"
}

// Str is a string literal; Value holds the unquoted text.
type Str struct {
	Value string
}

// Int is an integer literal kept in its source spelling.
type Int struct {
	Raw string
}

// Float is a floating point literal kept in its source spelling.
type Float struct {
	Raw string
}

// Char is a rune literal.
type Char struct {
	Value rune
}

// Bool is the `true` or `false` literal.
type Bool struct {
	Value bool
}

func (*Str) nested()   {}
func (*Int) nested()   {}
func (*Float) nested() {}
func (*Char) nested()  {}
func (*Bool) nested()  {}

func (*Str) lit()   {}
func (*Int) lit()   {}
func (*Float) lit() {}
func (*Char) lit()  {}
func (*Bool) lit()  {}

func (s *Str) String() string   { return strconv.Quote(s.Value) }
func (i *Int) String() string   { return i.Raw }
func (f *Float) String() string { return f.Raw }
func (c *Char) String() string  { return strconv.QuoteRune(c.Value) }
func (b *Bool) String() string  { return strconv.FormatBool(b.Value) }

// Attribute is one annotation directive as it appears in source.
type Attribute struct {
	// Path is the dotted attribute name, split on '.'.
	Path []string
	// Args is the raw text following the path, e.g. `(Debug)` or `= "x"`.
	Args string
	// Pos locates the directive in source.
	Pos token.Position
}

// Name returns the dotted path of the attribute.
func (a Attribute) Name() string {
	return strings.Join(a.Path, ".")
}

// IsBare reports whether the attribute is a single identifier with no
// arguments at all.
func (a Attribute) IsBare(name string) bool {
	return len(a.Path) == 1 && a.Path[0] == name && strings.TrimSpace(a.Args) == ""
}

// String renders the attribute in directive form, without the comment marker.
func (a Attribute) String() string {
	if a.Args == "" {
		return "@" + a.Name()
	}
	return "@" + a.Name() + a.Args
}

// ParseMeta interprets the attribute as a Meta item and reports why it could
// not, e.g. unbalanced parentheses, an unquoted payload or trailing text.
func (a Attribute) ParseMeta() (Meta, error) {
	if len(a.Path) != 1 {
		return nil, fmt.Errorf("attribute path %s has more than one segment", a.Name())
	}
	toks, err := scan(a.Args)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	m, err := p.parseMeta(a.Path[0])
	if err != nil {
		return nil, err
	}
	if t := p.peek(); t.tok != token.EOF {
		return nil, fmt.Errorf("unexpected %s after meta", t)
	}
	return m, nil
}

// Meta is ParseMeta for callers that only care whether the attribute is
// meta-shaped. Attributes that are not belong to other tools.
func (a Attribute) Meta() (Meta, bool) {
	m, err := a.ParseMeta()
	if err != nil {
		return nil, false
	}
	return m, true
}
