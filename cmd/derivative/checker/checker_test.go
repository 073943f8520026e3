package checker_test

import (
	"bytes"
	"context"
	"go/token"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arllen133/derivative"
	"github.com/arllen133/derivative/catalog"
	"github.com/arllen133/derivative/cmd/derivative/checker"
	"github.com/arllen133/derivative/source"
)

const shapesSrc = `package shapes

//@derivative(Debug, Hash)
type Point struct {
	X int //@derivative(Hash(hsh_with="hashX"))
	Y int
}

// @derivative(Eq)
type Color int

type InternalCache struct{}
`

func shapesPkgs(t *testing.T) map[string][]derivative.Declaration {
	t.Helper()
	decls, err := source.ParseFile(token.NewFileSet(), "shapes.go", shapesSrc)
	require.NoError(t, err)
	return map[string][]derivative.Declaration{"example.com/shapes": decls}
}

func TestCheck(t *testing.T) {
	store, err := catalog.Open(":memory:")
	require.NoError(t, err)
	defer store.Close()
	require.NoError(t, store.Migrate(context.Background()))

	cfg := &checker.Config{ExcludeTypes: []string{"Internal*"}}
	c := checker.New(derivative.NewCompiler(), store, cfg, nil)

	report, err := c.Check(context.Background(), shapesPkgs(t))
	require.NoError(t, err)
	require.Len(t, report.Packages, 1)

	pkg := report.Packages[0]
	assert.Equal(t, "example.com/shapes", pkg.Path)
	require.Len(t, pkg.Types, 1)
	assert.Equal(t, checker.TypeReport{
		Name:         "Color",
		Capabilities: []checker.CapabilityReport{{Capability: "Eq"}},
	}, pkg.Types[0])

	require.True(t, report.HasErrors())
	diags := report.Diagnostics()
	require.Len(t, diags, 1)
	assert.Equal(t, checker.Diagnostic{
		Pos:        "shapes.go:5:8",
		Type:       "Point",
		Field:      "X",
		Message:    "unknown attribute `hsh_with`",
		Suggestion: "hash_with",
	}, diags[0])
	assert.Equal(t, "shapes.go:5:8: Point.X: unknown attribute `hsh_with` (did you mean `hash_with`?)", diags[0].String())

	t.Run("Catalog receives successful types", func(t *testing.T) {
		types, err := store.TypesWith(context.Background(), derivative.Eq)
		require.NoError(t, err)
		assert.Equal(t, []string{"example.com/shapes.Color"}, types)

		debug, err := store.TypesWith(context.Background(), derivative.Debug)
		require.NoError(t, err)
		assert.Empty(t, debug)
	})
}

func TestReportOutput(t *testing.T) {
	c := checker.New(derivative.NewCompiler(), nil, nil, nil)
	report, err := c.Check(context.Background(), shapesPkgs(t))
	require.NoError(t, err)

	t.Run("Text", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, report.WriteText(&buf))
		assert.Equal(t, "example.com/shapes\n"+
			"  Color\n"+
			"    Eq\n"+
			"  InternalCache\n"+
			"    (none)\n"+
			"  error: shapes.go:5:8: Point.X: unknown attribute `hsh_with` (did you mean `hash_with`?)\n",
			buf.String())
	})

	t.Run("YAML", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, report.WriteYAML(&buf))
		out := buf.String()
		assert.Contains(t, out, "path: example.com/shapes")
		assert.Contains(t, out, "- name: Color")
		assert.Contains(t, out, "capability: Eq")
		assert.Contains(t, out, "suggestion: hash_with")
		assert.NotContains(t, out, "field: \"\"")
	})
}

func TestDiagnosticWithoutPosition(t *testing.T) {
	d := checker.Diagnostic{Type: "T", Message: "unknown trait `Nope`"}
	assert.Equal(t, "T: unknown trait `Nope`", d.String())
}
