package checker

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/arllen133/derivative"
	"github.com/arllen133/derivative/catalog"
)

// Report is the outcome of checking a set of packages.
type Report struct {
	Packages []PackageReport `yaml:"packages"`
}

// PackageReport holds the compiled types and the diagnostics of one package.
type PackageReport struct {
	Path        string       `yaml:"path"`
	Types       []TypeReport `yaml:"types,omitempty"`
	Diagnostics []Diagnostic `yaml:"diagnostics,omitempty"`
}

// TypeReport lists what one type derives.
type TypeReport struct {
	Name         string             `yaml:"name"`
	Capabilities []CapabilityReport `yaml:"capabilities,omitempty"`
}

// CapabilityReport is one requested capability, or the settings of one field
// for a capability.
type CapabilityReport struct {
	Capability string `yaml:"capability"`
	Field      string `yaml:"field,omitempty"`
	Bounds     string `yaml:"bounds,omitempty"`
	Options    string `yaml:"options,omitempty"`
}

// Diagnostic is one rejected declaration.
type Diagnostic struct {
	Pos        string `yaml:"pos"`
	Type       string `yaml:"type"`
	Field      string `yaml:"field,omitempty"`
	Message    string `yaml:"message"`
	Suggestion string `yaml:"suggestion,omitempty"`
}

// String renders the diagnostic the way compilers do:
//
//	shapes.go:12:2: Pair.Left: unknown attribute `hsh_with` (did you mean `hash_with`?)
func (d Diagnostic) String() string {
	var b strings.Builder
	if d.Pos != "" {
		b.WriteString(d.Pos)
		b.WriteString(": ")
	}
	b.WriteString(d.Type)
	if d.Field != "" {
		b.WriteString(".")
		b.WriteString(d.Field)
	}
	b.WriteString(": ")
	b.WriteString(d.Message)
	if d.Suggestion != "" {
		fmt.Fprintf(&b, " (did you mean `%s`?)", d.Suggestion)
	}
	return b.String()
}

func newPackageReport(pkg string, results []derivative.Result) PackageReport {
	rep := PackageReport{Path: pkg}
	for _, res := range results {
		if res.Err != nil {
			rep.Diagnostics = append(rep.Diagnostics, diagnose(res))
			continue
		}
		t := TypeReport{Name: res.Decl.Name}
		for _, e := range catalog.EntriesFor(pkg, res) {
			t.Capabilities = append(t.Capabilities, CapabilityReport{
				Capability: e.Capability,
				Field:      e.Field,
				Bounds:     e.Bounds,
				Options:    e.Options,
			})
		}
		rep.Types = append(rep.Types, t)
	}
	return rep
}

func diagnose(res derivative.Result) Diagnostic {
	d := Diagnostic{Type: res.Decl.Name, Message: res.Err.Error()}
	if res.Decl.Pos.IsValid() {
		d.Pos = res.Decl.Pos.String()
	}

	var declErr *derivative.DeclError
	if errors.As(res.Err, &declErr) {
		d.Field = declErr.Field
		d.Message = declErr.Err.Error()
		if declErr.Pos.IsValid() {
			d.Pos = declErr.Pos.String()
		}
	}
	var annErr *derivative.Error
	if errors.As(res.Err, &annErr) {
		d.Suggestion = annErr.Suggestion
	}
	return d
}

// Diagnostics returns every diagnostic of the report in package order.
func (r *Report) Diagnostics() []Diagnostic {
	var out []Diagnostic
	for _, p := range r.Packages {
		out = append(out, p.Diagnostics...)
	}
	return out
}

// HasErrors reports whether any declaration was rejected.
func (r *Report) HasErrors() bool {
	for _, p := range r.Packages {
		if len(p.Diagnostics) > 0 {
			return true
		}
	}
	return false
}

// WriteYAML writes the report as a YAML document.
func (r *Report) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return err
	}
	return enc.Close()
}

// WriteText writes a short human readable listing:
//
//	example.com/shapes
//	  Pair
//	    Debug [T: fmt.Stringer] (transparent)
//	    Left: Hash (hash_with="hashing.Pair")
func (r *Report) WriteText(w io.Writer) error {
	var b strings.Builder
	for _, p := range r.Packages {
		b.WriteString(p.Path)
		b.WriteString("\n")
		for _, t := range p.Types {
			fmt.Fprintf(&b, "  %s\n", t.Name)
			if len(t.Capabilities) == 0 {
				b.WriteString("    (none)\n")
			}
			for _, c := range t.Capabilities {
				b.WriteString("    ")
				if c.Field != "" {
					b.WriteString(c.Field)
					b.WriteString(": ")
				}
				b.WriteString(c.Capability)
				if c.Bounds != "" {
					fmt.Fprintf(&b, " [%s]", c.Bounds)
				}
				if c.Options != "" {
					fmt.Fprintf(&b, " (%s)", c.Options)
				}
				b.WriteString("\n")
			}
		}
		for _, d := range p.Diagnostics {
			fmt.Fprintf(&b, "  error: %s\n", d)
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}
