package derivative

// Has reports whether the declaration requested capability c.
func (t *TypeConfig) Has(c Capability) bool {
	switch c {
	case Clone:
		return t.Clone != nil
	case Copy:
		return t.Copy != nil
	case Debug:
		return t.Debug != nil
	case Default:
		return t.Default != nil
	case Eq:
		return t.Eq != nil
	case Hash:
		return t.Hash != nil
	case PartialEq:
		return t.PartialEq != nil
	}
	return false
}

// Present lists the requested capabilities in declaration order.
func (t *TypeConfig) Present() []Capability {
	var out []Capability
	for _, c := range Capabilities {
		if t.Has(c) {
			out = append(out, c)
		}
	}
	return out
}

// Bound returns the bound list of capability c, nil when the capability is
// absent or no `bound` option was given.
func (t *TypeConfig) Bound(c Capability) []Predicate {
	switch c {
	case Clone:
		return t.CloneBound()
	case Copy:
		return t.CopyBound()
	case Debug:
		return t.DebugBound()
	case Default:
		return t.DefaultBound()
	case Eq:
		return t.EqBound()
	case Hash:
		return t.HashBound()
	case PartialEq:
		return t.PartialEqBound()
	}
	return nil
}

func (t *TypeConfig) CloneBound() []Predicate {
	if t.Clone == nil {
		return nil
	}
	return t.Clone.Bounds
}

func (t *TypeConfig) CloneFrom() bool {
	return t.Clone != nil && t.Clone.CloneFrom
}

func (t *TypeConfig) CopyCloneMarker() bool {
	return t.Clone != nil && t.Clone.CopyCloneMarker
}

func (t *TypeConfig) CopyBound() []Predicate {
	if t.Copy == nil {
		return nil
	}
	return t.Copy.Bounds
}

func (t *TypeConfig) DerivesClone() bool {
	return t.Copy != nil && t.Copy.DerivesClone
}

func (t *TypeConfig) DebugBound() []Predicate {
	if t.Debug == nil {
		return nil
	}
	return t.Debug.Bounds
}

func (t *TypeConfig) DebugTransparent() bool {
	return t.Debug != nil && t.Debug.Transparent
}

func (t *TypeConfig) DefaultBound() []Predicate {
	if t.Default == nil {
		return nil
	}
	return t.Default.Bounds
}

func (t *TypeConfig) DefaultNew() bool {
	return t.Default != nil && t.Default.New
}

func (t *TypeConfig) EqBound() []Predicate {
	if t.Eq == nil {
		return nil
	}
	return t.Eq.Bounds
}

func (t *TypeConfig) HashBound() []Predicate {
	if t.Hash == nil {
		return nil
	}
	return t.Hash.Bounds
}

func (t *TypeConfig) PartialEqBound() []Predicate {
	if t.PartialEq == nil {
		return nil
	}
	return t.PartialEq.Bounds
}

func (t *TypeConfig) PartialEqOnEnum() bool {
	return t.PartialEq != nil && t.PartialEq.OnEnum
}

// Bound returns the field's bound list for capability c.
func (f *FieldConfig) Bound(c Capability) []Predicate {
	switch c {
	case Clone:
		return f.Clone.Bounds
	case Copy:
		return f.Copy.Bounds
	case Debug:
		return f.Debug.Bounds
	case Default:
		return f.Default.Bounds
	case Eq:
		return f.Eq.Bounds
	case Hash:
		return f.Hash.Bounds
	case PartialEq:
		return f.PartialEq.Bounds
	}
	return nil
}

func (f *FieldConfig) CloneBound() []Predicate     { return f.Clone.Bounds }
func (f *FieldConfig) CloneWith() *Path            { return f.Clone.CloneWith }
func (f *FieldConfig) CopyBound() []Predicate      { return f.Copy.Bounds }
func (f *FieldConfig) DebugBound() []Predicate     { return f.Debug.Bounds }
func (f *FieldConfig) DebugFormatWith() *Path      { return f.Debug.FormatWith }
func (f *FieldConfig) IgnoreDebug() bool           { return f.Debug.Ignore }
func (f *FieldConfig) DefaultBound() []Predicate   { return f.Default.Bounds }
func (f *FieldConfig) DefaultValue() *Expr         { return f.Default.Value }
func (f *FieldConfig) EqBound() []Predicate        { return f.Eq.Bounds }
func (f *FieldConfig) HashBound() []Predicate      { return f.Hash.Bounds }
func (f *FieldConfig) HashWith() *Path             { return f.Hash.HashWith }
func (f *FieldConfig) IgnoreHash() bool            { return f.Hash.Ignore }
func (f *FieldConfig) PartialEqBound() []Predicate { return f.PartialEq.Bounds }
func (f *FieldConfig) PartialEqCompareWith() *Path { return f.PartialEq.CompareWith }
func (f *FieldConfig) IgnorePartialEq() bool       { return f.PartialEq.Ignore }
