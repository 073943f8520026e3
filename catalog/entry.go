package catalog

import (
	"sort"
	"strconv"
	"strings"

	"golang.org/x/exp/constraints"

	"github.com/arllen133/derivative"
)

// Entry is one row of the capability catalog: a capability requested by a
// type, or the non-default settings of one field for one capability.
type Entry struct {
	Package    string `db:"pkg"`
	Type       string `db:"type_name"`
	Field      string `db:"field"` // empty for the type itself
	Capability string `db:"capability"`
	Bounds     string `db:"bounds"`
	Options    string `db:"options"`
}

// boundSep separates predicates; constraints may contain commas.
const boundSep = "; "

// EntriesFor flattens a compiled declaration into catalog rows. Failed
// results produce no rows.
func EntriesFor(pkg string, res derivative.Result) []Entry {
	if res.Err != nil || res.Type == nil {
		return nil
	}

	var out []Entry
	for _, c := range res.Type.Present() {
		out = append(out, Entry{
			Package:    pkg,
			Type:       res.Decl.Name,
			Capability: c.String(),
			Bounds:     joinBounds(res.Type.Bound(c)),
			Options:    encodeOptions(typeOptions(res.Type, c)),
		})
	}

	for _, f := range res.Fields {
		for _, c := range derivative.Capabilities {
			bounds := f.Config.Bound(c)
			opts := fieldOptions(f.Config, c)
			if bounds == nil && len(opts) == 0 {
				continue
			}
			out = append(out, Entry{
				Package:    pkg,
				Type:       res.Decl.Name,
				Field:      f.Name,
				Capability: c.String(),
				Bounds:     joinBounds(bounds),
				Options:    encodeOptions(opts),
			})
		}
	}
	return out
}

func joinBounds(bounds []derivative.Predicate) string {
	parts := make([]string, len(bounds))
	for i, p := range bounds {
		parts[i] = p.String()
	}
	return strings.Join(parts, boundSep)
}

// typeOptions collects the set flags of a type-level capability.
func typeOptions(t *derivative.TypeConfig, c derivative.Capability) map[string]string {
	opts := map[string]string{}
	flag := func(name string, set bool) {
		if set {
			opts[name] = ""
		}
	}
	switch c {
	case derivative.Clone:
		flag("clone_from", t.CloneFrom())
		flag(derivative.CopyCloneMarker, t.CopyCloneMarker())
	case derivative.Copy:
		flag("derives_clone", t.DerivesClone())
	case derivative.Debug:
		flag("transparent", t.DebugTransparent())
	case derivative.Default:
		flag("new", t.DefaultNew())
	case derivative.PartialEq:
		flag("feature_allow_slow_enum", t.PartialEqOnEnum())
	}
	return opts
}

func fieldOptions(f *derivative.FieldConfig, c derivative.Capability) map[string]string {
	opts := map[string]string{}
	path := func(name string, p *derivative.Path) {
		if p != nil {
			opts[name] = p.Text
		}
	}
	flag := func(name string, set bool) {
		if set {
			opts[name] = ""
		}
	}
	switch c {
	case derivative.Clone:
		path("clone_with", f.CloneWith())
	case derivative.Debug:
		path("format_with", f.DebugFormatWith())
		flag("ignore", f.IgnoreDebug())
	case derivative.Default:
		if v := f.DefaultValue(); v != nil {
			opts["value"] = v.Text
		}
	case derivative.Hash:
		path("hash_with", f.HashWith())
		flag("ignore", f.IgnoreHash())
	case derivative.PartialEq:
		path("compare_with", f.PartialEqCompareWith())
		flag("ignore", f.IgnorePartialEq())
	}
	return opts
}

// encodeOptions renders options in annotation syntax, sorted by name:
// `hash_with="my_hash", ignore`.
func encodeOptions(opts map[string]string) string {
	parts := make([]string, 0, len(opts))
	for _, name := range sortedKeys(opts) {
		if v := opts[name]; v != "" {
			parts = append(parts, name+"="+strconv.Quote(v))
		} else {
			parts = append(parts, name)
		}
	}
	return strings.Join(parts, ", ")
}

func sortedKeys[K constraints.Ordered, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
