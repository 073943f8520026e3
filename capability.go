package derivative

// Capability is one of the derivable behaviors an annotation block can
// configure. The set is closed.
type Capability int

const (
	Clone Capability = iota
	Copy
	Debug
	Default
	Eq
	Hash
	PartialEq
)

// Capabilities lists every capability in declaration order.
var Capabilities = []Capability{Clone, Copy, Debug, Default, Eq, Hash, PartialEq}

// String returns the capability as it is spelled in annotations.
func (c Capability) String() string {
	switch c {
	case Clone:
		return "Clone"
	case Copy:
		return "Copy"
	case Debug:
		return "Debug"
	case Default:
		return "Default"
	case Eq:
		return "Eq"
	case Hash:
		return "Hash"
	case PartialEq:
		return "PartialEq"
	default:
		return "Capability(?)"
	}
}

// ParseCapability maps an annotation block name to its capability.
func ParseCapability(name string) (Capability, bool) {
	switch name {
	case "Clone":
		return Clone, true
	case "Copy":
		return Copy, true
	case "Debug":
		return Debug, true
	case "Default":
		return Default, true
	case "Eq":
		return Eq, true
	case "Hash":
		return Hash, true
	case "PartialEq":
		return PartialEq, true
	default:
		return 0, false
	}
}

func capabilityNames() []string {
	names := make([]string, len(Capabilities))
	for i, c := range Capabilities {
		names[i] = c.String()
	}
	return names
}
