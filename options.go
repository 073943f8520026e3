package derivative

// Recognized option names.
const (
	optBound       = "bound"
	optCloneFrom   = "clone_from"
	optTransparent = "transparent"
	optNew         = "new"
	optIgnore      = "ignore"
	optSlowEnum    = "feature_allow_slow_enum"
	optCloneWith   = "clone_with"
	optFormatWith  = "format_with"
	optHashWith    = "hash_with"
	optCompareWith = "compare_with"
	optValue       = "value"
)

func (d *Decoder) typeCloneOptions(clone *TypeClone, opts []option) error {
	for _, opt := range opts {
		var err error
		switch opt.Name {
		case optBound:
			err = d.parseBound(&clone.Bounds, opt)
		case optCloneFrom:
			clone.CloneFrom, err = parseBool(opt, true)
		default:
			return unknownAttribute(opt.Name, []string{optBound, optCloneFrom})
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (d *Decoder) typeDebugOptions(debug *TypeDebug, opts []option) error {
	for _, opt := range opts {
		var err error
		switch opt.Name {
		case optBound:
			err = d.parseBound(&debug.Bounds, opt)
		case optTransparent:
			debug.Transparent, err = parseBool(opt, true)
		default:
			return unknownAttribute(opt.Name, []string{optBound, optTransparent})
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (d *Decoder) typeDefaultOptions(def *TypeDefault, opts []option) error {
	for _, opt := range opts {
		var err error
		switch opt.Name {
		case optBound:
			err = d.parseBound(&def.Bounds, opt)
		case optNew:
			def.New, err = parseBool(opt, true)
		default:
			return unknownAttribute(opt.Name, []string{optBound, optNew})
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (d *Decoder) typePartialEqOptions(pe *TypePartialEq, opts []option) error {
	for _, opt := range opts {
		var err error
		switch opt.Name {
		case optBound:
			err = d.parseBound(&pe.Bounds, opt)
		case optSlowEnum:
			pe.OnEnum, err = parseBool(opt, true)
		default:
			return unknownAttribute(opt.Name, []string{optBound, optSlowEnum})
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// boundOnly serves every block whose single option is `bound`.
func (d *Decoder) boundOnly(bounds *[]Predicate, opts []option) error {
	for _, opt := range opts {
		if opt.Name != optBound {
			return unknownAttribute(opt.Name, []string{optBound})
		}
		if err := d.parseBound(bounds, opt); err != nil {
			return err
		}
	}
	return nil
}

func (d *Decoder) fieldCloneOptions(clone *FieldClone, opts []option) error {
	for _, opt := range opts {
		var err error
		switch opt.Name {
		case optBound:
			err = d.parseBound(&clone.Bounds, opt)
		case optCloneWith:
			clone.CloneWith, err = d.parsePath(opt)
		default:
			return unknownAttribute(opt.Name, []string{optBound, optCloneWith})
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (d *Decoder) fieldDebugOptions(debug *FieldDebug, opts []option) error {
	for _, opt := range opts {
		var err error
		switch opt.Name {
		case optBound:
			err = d.parseBound(&debug.Bounds, opt)
		case optFormatWith:
			debug.FormatWith, err = d.parsePath(opt)
		case optIgnore:
			debug.Ignore, err = parseBool(opt, true)
		default:
			return unknownAttribute(opt.Name, []string{optBound, optFormatWith, optIgnore})
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (d *Decoder) fieldDefaultOptions(def *FieldDefault, opts []option) error {
	for _, opt := range opts {
		switch opt.Name {
		case optBound:
			if err := d.parseBound(&def.Bounds, opt); err != nil {
				return err
			}
		case optValue:
			if !opt.HasValue {
				return missingValue(optValue)
			}
			expr, err := d.parsers.Expr(opt.Value)
			if err != nil {
				return subParserError(optValue, err)
			}
			def.Value = &expr
		default:
			return unknownAttribute(opt.Name, []string{optBound, optValue})
		}
	}
	return nil
}

func (d *Decoder) fieldHashOptions(hash *FieldHash, opts []option) error {
	for _, opt := range opts {
		var err error
		switch opt.Name {
		case optBound:
			err = d.parseBound(&hash.Bounds, opt)
		case optHashWith:
			hash.HashWith, err = d.parsePath(opt)
		case optIgnore:
			hash.Ignore, err = parseBool(opt, true)
		default:
			return unknownAttribute(opt.Name, []string{optBound, optHashWith, optIgnore})
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (d *Decoder) fieldPartialEqOptions(pe *FieldPartialEq, opts []option) error {
	for _, opt := range opts {
		var err error
		switch opt.Name {
		case optBound:
			err = d.parseBound(&pe.Bounds, opt)
		case optCompareWith:
			pe.CompareWith, err = d.parsePath(opt)
		case optIgnore:
			pe.Ignore, err = parseBool(opt, true)
		default:
			return unknownAttribute(opt.Name, []string{optBound, optCompareWith, optIgnore})
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// parseBound appends the predicates of a `bound` option. An empty payload
// appends nothing but still marks the bound list as given.
func (d *Decoder) parseBound(bounds *[]Predicate, opt option) error {
	if !opt.HasValue {
		return missingValue(optBound)
	}
	list := *bounds
	if list == nil {
		list = []Predicate{}
	}
	if opt.Value != "" {
		preds, err := d.parsers.Bound(opt.Value)
		if err != nil {
			return subParserError(optBound, err)
		}
		list = append(list, preds...)
	}
	*bounds = list
	return nil
}

func (d *Decoder) parsePath(opt option) (*Path, error) {
	if !opt.HasValue {
		return nil, missingValue(opt.Name)
	}
	path, err := d.parsers.Path(opt.Value)
	if err != nil {
		return nil, subParserError(opt.Name, err)
	}
	return &path, nil
}

// parseBool reads a toggle. A bare toggle takes bare; otherwise the payload
// must be "true" or "false".
func parseBool(opt option, bare bool) (bool, error) {
	if !opt.HasValue {
		return bare, nil
	}
	switch opt.Value {
	case "true":
		return true, nil
	case "false":
		return false, nil
	default:
		return false, invalidValue(opt.Name)
	}
}
