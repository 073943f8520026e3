package derivative

import (
	"errors"
	"fmt"
	"go/token"
	"sort"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Error kinds. Every *Error matches exactly one of them with errors.Is.
//
// Usage example:
//
//	cfg, err := derivative.ParseType(attrs)
//	if errors.Is(err, derivative.ErrUnknownTrait) {
//	    // a block named something other than a capability
//	}
var (
	ErrUnknownTrait     = errors.New("derivative: unknown trait")
	ErrUnknownAttribute = errors.New("derivative: unknown attribute")
	ErrShape            = errors.New("derivative: malformed annotation")
	ErrMissingValue     = errors.New("derivative: missing value")
	ErrInvalidValue     = errors.New("derivative: invalid value")
	ErrSubParser        = errors.New("derivative: sub-parser failed")
)

// Error describes why an annotation list was rejected. Error() is the plain
// diagnostic text; position and suggestion are kept separately so callers can
// render them however they like.
type Error struct {
	Kind error
	// Name is the offending capability or option name, if any.
	Name string
	Msg  string
	// Pos is the directive the error was found in. Zero when unknown.
	Pos token.Position
	// Suggestion is the closest known name for unknown trait/attribute
	// errors, empty when nothing is close.
	Suggestion string
	// Err is the sub-parser error for ErrSubParser.
	Err error
}

func (e *Error) Error() string { return e.Msg }

func (e *Error) Is(target error) bool { return target == e.Kind }

func (e *Error) Unwrap() error { return e.Err }

func unknownTrait(name string) *Error {
	return &Error{
		Kind:       ErrUnknownTrait,
		Name:       name,
		Msg:        fmt.Sprintf("unknown trait `%s`", name),
		Suggestion: suggest(name, capabilityNames()),
	}
}

func unknownAttribute(name string, known []string) *Error {
	return &Error{
		Kind:       ErrUnknownAttribute,
		Name:       name,
		Msg:        fmt.Sprintf("unknown attribute `%s`", name),
		Suggestion: suggest(name, known),
	}
}

func shapeError(msg string) *Error {
	return &Error{Kind: ErrShape, Msg: msg}
}

func missingValue(name string) *Error {
	return &Error{Kind: ErrMissingValue, Name: name, Msg: fmt.Sprintf("`%s` needs a value", name)}
}

func invalidValue(name string) *Error {
	return &Error{Kind: ErrInvalidValue, Name: name, Msg: fmt.Sprintf("invalid value for `%s`", name)}
}

func subParserError(name string, err error) *Error {
	return &Error{Kind: ErrSubParser, Name: name, Msg: err.Error(), Err: err}
}

// suggest returns the best fuzzy match for name among known.
func suggest(name string, known []string) string {
	if name == "" {
		return ""
	}
	ranks := fuzzy.RankFindFold(name, known)
	if len(ranks) == 0 {
		return ""
	}
	sort.Sort(ranks)
	return ranks[0].Target
}

// withPos stamps pos on err when it is an *Error without a position.
func withPos(err error, pos token.Position) error {
	var e *Error
	if errors.As(err, &e) && !e.Pos.IsValid() {
		e.Pos = pos
	}
	return err
}
