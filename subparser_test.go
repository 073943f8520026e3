package derivative

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBounds(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []Predicate
	}{
		{"Single", "T: fmt.Stringer", []Predicate{{"T", "fmt.Stringer"}}},
		{"Several", "T: fmt.Stringer, K: comparable", []Predicate{{"T", "fmt.Stringer"}, {"K", "comparable"}}},
		{"Trailing comma", "T: any,", []Predicate{{"T", "any"}}},
		{"Generic constraint", "M: Map[K, V], V: any", []Predicate{{"M", "Map[K, V]"}, {"V", "any"}}},
		{"Interface literal", "T: interface{ String() string }", []Predicate{{"T", "interface{ String() string }"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseBounds(tt.src)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	for _, src := range []string{"T", "T: ", ": any", "T: any,, K: any", ",", "T: fmt.", "T: a: b"} {
		_, err := ParseBounds(src)
		assert.Error(t, err, src)
	}
}

func TestParsePath(t *testing.T) {
	p, err := ParsePath(" hashing.Pair ")
	require.NoError(t, err)
	assert.Equal(t, Path{Segments: []string{"hashing", "Pair"}, Text: "hashing.Pair"}, p)

	p, err = ParsePath("cmp.Compare[int]")
	require.NoError(t, err)
	assert.Equal(t, []string{"cmp", "Compare"}, p.Segments)
	assert.Equal(t, "cmp.Compare[int]", p.String())

	for _, src := range []string{"", "f()", "a + b", `"name"`, "1.5"} {
		_, err := ParsePath(src)
		assert.Error(t, err, src)
	}
}

func TestParseExpr(t *testing.T) {
	e, err := ParseExpr(` []int{1, 2} `)
	require.NoError(t, err)
	assert.Equal(t, "[]int{1, 2}", e.Text)
	assert.NotNil(t, e.Node)

	_, err = ParseExpr("1 +")
	assert.Error(t, err)
}

func TestSplitTopLevel(t *testing.T) {
	assert.Equal(t, []string{"a", " f(b, c)", ` "d,e"`, " 'x'"}, splitTopLevel(`a, f(b, c), "d,e", 'x'`, ','))
	assert.Equal(t, []string{"a"}, splitTopLevel("a", ','))
	assert.Equal(t, []string{"", ""}, splitTopLevel(",", ','))
}
