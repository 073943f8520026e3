package derivative

import (
	"fmt"

	"github.com/arllen133/derivative/meta"
)

// DefaultNamespace is the attribute name that owns annotation blocks.
const DefaultNamespace = "derivative"

// namespaceItems yields the nested items of every attribute in the namespace,
// in source order, with the position of the attribute they came from.
// Attributes of other tools are skipped; a namespace attribute whose
// arguments do not parse is a shape error.
func namespaceItems(attrs []meta.Attribute, namespace string) ([]positioned, error) {
	var out []positioned
	for _, attr := range attrs {
		owned := len(attr.Path) == 1 && attr.Path[0] == namespace
		m, err := attr.ParseMeta()
		if err != nil {
			if owned {
				e := shapeError(fmt.Sprintf("malformed `%s` attribute: %v", namespace, err))
				e.Pos = attr.Pos
				return nil, e
			}
			continue
		}
		list, ok := m.(*meta.List)
		if !ok || list.Name != namespace {
			continue
		}
		for _, n := range list.Nested {
			out = append(out, positioned{node: n, attr: attr})
		}
	}
	return out, nil
}

type positioned struct {
	node meta.Nested
	attr meta.Attribute
}

// option is one (name, optional value) pair of a canonical meta.
type option struct {
	Name     string
	Value    string
	HasValue bool
}

// canonicalMeta is the uniform shape every annotation block is reduced to:
//
//	Debug                  ("Debug", [])
//	Debug="ignore"         ("Debug", [("ignore", absent)])
//	Debug(bound="T: any")  ("Debug", [("bound", "T: any")])
type canonicalMeta struct {
	Name    string
	Options []option
}

// readMeta normalizes one nested item. Only string payloads are accepted.
func readMeta(n meta.Nested) (canonicalMeta, error) {
	switch m := n.(type) {
	case *meta.Word:
		return canonicalMeta{Name: m.Name}, nil

	case *meta.NameValue:
		s, err := stringLit(m.Lit)
		if err != nil {
			return canonicalMeta{}, err
		}
		return canonicalMeta{Name: m.Name, Options: []option{{Name: s}}}, nil

	case *meta.List:
		opts := make([]option, 0, len(m.Nested))
		for _, item := range m.Nested {
			nv, ok := item.(*meta.NameValue)
			if !ok {
				return canonicalMeta{}, shapeError("expected named value")
			}
			s, err := stringLit(nv.Lit)
			if err != nil {
				return canonicalMeta{}, err
			}
			opts = append(opts, option{Name: nv.Name, Value: s, HasValue: true})
		}
		return canonicalMeta{Name: m.Name, Options: opts}, nil

	default:
		return canonicalMeta{}, shapeError("expected meta but found literal")
	}
}

func stringLit(lit meta.Lit) (string, error) {
	if s, ok := lit.(*meta.Str); ok {
		return s.Value, nil
	}
	return "", shapeError("expected string")
}
