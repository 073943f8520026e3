package source_test

import (
	"context"
	"go/token"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arllen133/derivative"
	"github.com/arllen133/derivative/source"
)

const shapesSrc = `package shapes

import "fmt"

// Pair holds two values.
//
// @derive(Clone)
// @derivative(Copy)
//@derivative(Debug(bound="T: fmt.Stringer", transparent="true"))
type Pair[T fmt.Stringer] struct {
	//@derivative(Hash(ignore="false", hash_with="hashing.Pair"))
	Left T
	Right T //@derivative(Debug="ignore")
	A, B int
	*Base
}

type (
	// @derivative(Eq)
	Color int

	Base struct{}
)
`

func TestParseFile(t *testing.T) {
	fset := token.NewFileSet()
	decls, err := source.ParseFile(fset, "shapes.go", shapesSrc)
	require.NoError(t, err)
	require.Len(t, decls, 3)

	pair := decls[0]
	assert.Equal(t, "Pair", pair.Name)
	assert.Equal(t, "shapes", pair.Package)
	assert.Equal(t, 10, pair.Pos.Line)
	require.Len(t, pair.Attrs, 3)
	assert.Equal(t, "derive", pair.Attrs[0].Name())
	assert.Equal(t, 7, pair.Attrs[0].Pos.Line)

	var names []string
	for _, f := range pair.Fields {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"Left", "Right", "A", "B", "Base"}, names)
	assert.Len(t, pair.Fields[0].Attrs, 1)
	assert.Len(t, pair.Fields[1].Attrs, 1)
	assert.Empty(t, pair.Fields[2].Attrs)

	assert.Equal(t, "Color", decls[1].Name)
	assert.Len(t, decls[1].Attrs, 1)
	assert.Nil(t, decls[1].Fields)
	assert.Equal(t, "Base", decls[2].Name)
	assert.Empty(t, decls[2].Attrs)
}

func TestParseFileCompiles(t *testing.T) {
	fset := token.NewFileSet()
	decls, err := source.ParseFile(fset, "shapes.go", shapesSrc)
	require.NoError(t, err)

	results := derivative.NewCompiler().CompilePackage(context.Background(), decls)
	require.NoError(t, results[0].Err)

	pair := results[0]
	assert.True(t, pair.Type.DerivesClone())
	assert.True(t, pair.Type.DebugTransparent())
	assert.Equal(t, "T: fmt.Stringer", pair.Type.DebugBound()[0].String())
	assert.Equal(t, "hashing.Pair", pair.Fields[0].Config.HashWith().Text)
	assert.True(t, pair.Fields[1].Config.IgnoreDebug())

	assert.True(t, results[1].Type.Has(derivative.Eq))
}

func TestParseDir(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}
	write("a.go", "package p\n\n//@derivative(Debug)\ntype A struct{}\n")
	write("b.go", "package p\n\ntype B int\n")
	write("a_gen.go", "package p\n\ntype Generated struct{}\n")
	write("a_test.go", "package p\n\ntype InTest struct{}\n")

	decls, err := source.ParseDir(dir)
	require.NoError(t, err)
	require.Len(t, decls, 2)
	assert.Equal(t, "A", decls[0].Name)
	assert.Equal(t, "B", decls[1].Name)

	write("broken.go", "package p\n\ntype {")
	_, err = source.ParseDir(dir)
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	if testing.Short() {
		t.Skip("runs the go tool")
	}
	pkgs, err := source.Load(context.Background(), "..", "./examples/shapes")
	require.NoError(t, err)
	decls, ok := pkgs["github.com/arllen133/derivative/examples/shapes"]
	require.True(t, ok, "loaded %v", pkgs)
	assert.NotEmpty(t, decls)
}
