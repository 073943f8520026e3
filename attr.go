// Package derivative compiles `@derivative(...)` annotations attached to Go
// type declarations and struct fields into a validated configuration model
// for a code generator that derives Clone, Copy, Debug, Default, Eq, Hash
// and PartialEq implementations.
//
// Annotations are comment directives:
//
//	//@derive(Clone)
//	//@derivative(Copy)
//	//@derivative(Debug(bound="T: fmt.Stringer", transparent="true"))
//	type Pair[T any] struct {
//	    //@derivative(Hash(ignore="false", hash_with="hashing.Pair"))
//	    Left T
//	    //@derivative(Debug="ignore")
//	    Right T
//	}
//
// ParseType turns the attributes of a declaration into a TypeConfig and
// ParseField turns the attributes of one field into a FieldConfig. Both stop
// at the first error. A block for the same capability may appear several
// times; later blocks merge into the earlier ones.
package derivative

import (
	"github.com/arllen133/derivative/meta"
)

// TypeConfig is the configuration of one annotated declaration. A nil
// sub-configuration means the capability was not requested.
type TypeConfig struct {
	Clone     *TypeClone
	Copy      *TypeCopy
	Debug     *TypeDebug
	Default   *TypeDefault
	Eq        *TypeEq
	Hash      *TypeHash
	PartialEq *TypePartialEq
}

// TypeClone holds `derivative(Clone(...))` on a type.
type TypeClone struct {
	// Bounds is nil when no `bound` option was given.
	Bounds []Predicate
	// CloneFrom requests an explicit clone_from implementation.
	CloneFrom bool
	// CopyCloneMarker is set when the CopyCloneMarker attribute is present.
	CopyCloneMarker bool
}

// TypeCopy holds `derivative(Copy(...))` on a type.
type TypeCopy struct {
	Bounds []Predicate
	// DerivesClone is set when the type also carries a plain `derive(Clone)`.
	DerivesClone bool
}

// TypeDebug holds `derivative(Debug(...))` on a type.
type TypeDebug struct {
	Bounds      []Predicate
	Transparent bool
}

// TypeDefault holds `derivative(Default(...))` on a type.
type TypeDefault struct {
	Bounds []Predicate
	// New requests a `new` constructor as well.
	New bool
}

// TypeEq holds `derivative(Eq(...))` on a type.
type TypeEq struct {
	Bounds []Predicate
}

// TypeHash holds `derivative(Hash(...))` on a type.
type TypeHash struct {
	Bounds []Predicate
}

// TypePartialEq holds `derivative(PartialEq(...))` on a type.
type TypePartialEq struct {
	Bounds []Predicate
	// OnEnum allows the slow enum comparison (`feature_allow_slow_enum`).
	OnEnum bool
}

// FieldConfig is the configuration of one struct field. Every field takes
// part in every capability, so the sub-records are values.
type FieldConfig struct {
	Clone     FieldClone
	Copy      FieldCopy
	Debug     FieldDebug
	Default   FieldDefault
	Eq        FieldEq
	Hash      FieldHash
	PartialEq FieldPartialEq
}

type FieldClone struct {
	Bounds    []Predicate
	CloneWith *Path
}

type FieldCopy struct {
	Bounds []Predicate
}

type FieldDebug struct {
	Bounds     []Predicate
	FormatWith *Path
	Ignore     bool
}

type FieldDefault struct {
	Bounds []Predicate
	Value  *Expr
}

type FieldEq struct {
	Bounds []Predicate
}

type FieldHash struct {
	Bounds   []Predicate
	HashWith *Path
	Ignore   bool
}

type FieldPartialEq struct {
	Bounds      []Predicate
	CompareWith *Path
	Ignore      bool
}

// Decoder parses annotation lists. The zero value is not usable; use
// NewDecoder.
type Decoder struct {
	namespace string
	parsers   Parsers
}

// NewDecoder returns a decoder for namespace with the given sub-parsers.
// An empty namespace means DefaultNamespace.
func NewDecoder(namespace string, parsers Parsers) *Decoder {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	return &Decoder{namespace: namespace, parsers: parsers.withDefaults()}
}

var defaultDecoder = NewDecoder(DefaultNamespace, Parsers{})

// ParseType parses the attributes of a type declaration with the default
// namespace and sub-parsers.
func ParseType(attrs []meta.Attribute) (*TypeConfig, error) {
	return defaultDecoder.ParseType(attrs)
}

// ParseField parses the attributes of a struct field with the default
// namespace and sub-parsers.
func ParseField(attrs []meta.Attribute) (*FieldConfig, error) {
	return defaultDecoder.ParseField(attrs)
}

// ParseType parses the attributes of a type declaration.
func (d *Decoder) ParseType(attrs []meta.Attribute) (*TypeConfig, error) {
	cfg := &TypeConfig{}

	marker := hasCopyCloneMarker(attrs)
	plainClone := derivesClone(attrs)

	items, err := namespaceItems(attrs, d.namespace)
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		m, err := readMeta(item.node)
		if err != nil {
			return nil, withPos(err, item.attr.Pos)
		}
		if err := d.applyType(cfg, m, marker, plainClone); err != nil {
			return nil, withPos(err, item.attr.Pos)
		}
	}
	return cfg, nil
}

// applyType takes the current sub-configuration for the block's capability
// (or a fresh one), runs the option parser over it and stores it back, so
// repeated blocks accumulate.
func (d *Decoder) applyType(cfg *TypeConfig, m canonicalMeta, marker, plainClone bool) error {
	capability, ok := ParseCapability(m.Name)
	if !ok {
		return unknownTrait(m.Name)
	}

	switch capability {
	case Clone:
		clone := takeOrNew(cfg.Clone)
		clone.CopyCloneMarker = marker
		if err := d.typeCloneOptions(&clone, m.Options); err != nil {
			return err
		}
		cfg.Clone = &clone
	case Copy:
		c := takeOrNew(cfg.Copy)
		if plainClone {
			c.DerivesClone = true
		}
		if err := d.boundOnly(&c.Bounds, m.Options); err != nil {
			return err
		}
		cfg.Copy = &c
	case Debug:
		debug := takeOrNew(cfg.Debug)
		if err := d.typeDebugOptions(&debug, m.Options); err != nil {
			return err
		}
		cfg.Debug = &debug
	case Default:
		def := takeOrNew(cfg.Default)
		if err := d.typeDefaultOptions(&def, m.Options); err != nil {
			return err
		}
		cfg.Default = &def
	case Eq:
		eq := takeOrNew(cfg.Eq)
		if err := d.boundOnly(&eq.Bounds, m.Options); err != nil {
			return err
		}
		cfg.Eq = &eq
	case Hash:
		hash := takeOrNew(cfg.Hash)
		if err := d.boundOnly(&hash.Bounds, m.Options); err != nil {
			return err
		}
		cfg.Hash = &hash
	case PartialEq:
		pe := takeOrNew(cfg.PartialEq)
		if err := d.typePartialEqOptions(&pe, m.Options); err != nil {
			return err
		}
		cfg.PartialEq = &pe
	}
	return nil
}

func takeOrNew[T any](current *T) T {
	var v T
	if current != nil {
		v = *current
	}
	return v
}

// ParseField parses the attributes of a struct field.
func (d *Decoder) ParseField(attrs []meta.Attribute) (*FieldConfig, error) {
	cfg := &FieldConfig{}

	items, err := namespaceItems(attrs, d.namespace)
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		m, err := readMeta(item.node)
		if err != nil {
			return nil, withPos(err, item.attr.Pos)
		}
		if err := d.applyField(cfg, m); err != nil {
			return nil, withPos(err, item.attr.Pos)
		}
	}
	return cfg, nil
}

func (d *Decoder) applyField(cfg *FieldConfig, m canonicalMeta) error {
	capability, ok := ParseCapability(m.Name)
	if !ok {
		return unknownTrait(m.Name)
	}

	switch capability {
	case Clone:
		return d.fieldCloneOptions(&cfg.Clone, m.Options)
	case Copy:
		return d.boundOnly(&cfg.Copy.Bounds, m.Options)
	case Debug:
		return d.fieldDebugOptions(&cfg.Debug, m.Options)
	case Default:
		return d.fieldDefaultOptions(&cfg.Default, m.Options)
	case Eq:
		return d.boundOnly(&cfg.Eq.Bounds, m.Options)
	case Hash:
		return d.fieldHashOptions(&cfg.Hash, m.Options)
	case PartialEq:
		return d.fieldPartialEqOptions(&cfg.PartialEq, m.Options)
	}
	return nil
}
