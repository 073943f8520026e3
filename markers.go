package derivative

import (
	"github.com/arllen133/derivative/meta"
)

// CopyCloneMarker is the bare marker attribute a compiler front end attaches
// to types whose Clone was derived together with Copy. It is recognized only
// in its exact bare form: one path segment, no arguments.
const CopyCloneMarker = "copy_clone_marker"

// hasCopyCloneMarker is the narrow marker heuristic for Clone.
func hasCopyCloneMarker(attrs []meta.Attribute) bool {
	for _, attr := range attrs {
		if attr.IsBare(CopyCloneMarker) {
			return true
		}
	}
	return false
}

// derivesClone reports whether a plain `@derive(..., Clone, ...)` sits next
// to the namespaced blocks.
func derivesClone(attrs []meta.Attribute) bool {
	for _, attr := range attrs {
		m, ok := attr.Meta()
		if !ok {
			continue
		}
		list, ok := m.(*meta.List)
		if !ok || list.Name != "derive" {
			continue
		}
		for _, n := range list.Nested {
			if inner, ok := n.(meta.Meta); ok && inner.MetaName() == "Clone" {
				return true
			}
		}
	}
	return false
}
