package checker_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arllen133/derivative"
	"github.com/arllen133/derivative/cmd/derivative/checker"
)

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	err := os.WriteFile(filepath.Join(dir, "config.go"), []byte(content), 0644)
	if err != nil {
		t.Fatalf("failed to write config.go: %v", err)
	}
}

func TestParseConfig_NoConfigFile(t *testing.T) {
	dir := t.TempDir()

	cfg, err := checker.ParseConfig(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Should return nil when no config.go exists
	if cfg != nil {
		t.Errorf("expected nil config, got: %+v", cfg)
	}
}

func TestParseConfig_EmptyConfig(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `package test

import "github.com/arllen133/derivative/gen"

var _ = gen.Config{}
`)

	cfg, err := checker.ParseConfig(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg == nil {
		t.Fatal("expected non-nil config")
	}

	// Default values
	if cfg.Namespace != derivative.DefaultNamespace {
		t.Errorf("expected Namespace %q, got %q", derivative.DefaultNamespace, cfg.Namespace)
	}
	if cfg.CatalogPath != "" {
		t.Errorf("expected no catalog, got %q", cfg.CatalogPath)
	}
}

func TestParseConfig_Syntax(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "package test\n\nvar _ = gen.Config{")

	if _, err := checker.ParseConfig(dir); err == nil {
		t.Fatal("expected error for malformed config.go")
	}
}

func TestParseConfig_FullConfig(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `package test

import "github.com/arllen133/derivative/gen"

var _ = gen.Config{
	Namespace:    "derive_more",
	IncludeTypes: []any{"User", &Post{}, models.Order{}},
	ExcludeTypes: []any{"Internal*"},
	CatalogPath:  "catalog.db",
	Workers:      4,
}
`)

	cfg, err := checker.ParseConfig(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Namespace != "derive_more" {
		t.Errorf("expected Namespace 'derive_more', got '%s'", cfg.Namespace)
	}
	if len(cfg.IncludeTypes) != 3 || cfg.IncludeTypes[0] != "User" || cfg.IncludeTypes[1] != "Post" || cfg.IncludeTypes[2] != "Order" {
		t.Errorf("expected IncludeTypes ['User', 'Post', 'Order'], got %v", cfg.IncludeTypes)
	}
	if len(cfg.ExcludeTypes) != 1 || cfg.ExcludeTypes[0] != "Internal*" {
		t.Errorf("expected ExcludeTypes ['Internal*'], got %v", cfg.ExcludeTypes)
	}
	if want := filepath.Join(dir, "catalog.db"); cfg.CatalogPath != want {
		t.Errorf("expected CatalogPath %q, got %q", want, cfg.CatalogPath)
	}
	if cfg.Workers != 4 {
		t.Errorf("expected Workers 4, got %d", cfg.Workers)
	}
}

func TestFilterDecls(t *testing.T) {
	decls := []derivative.Declaration{{Name: "User"}, {Name: "Post"}, {Name: "InternalCache"}, {Name: "Order"}}
	names := func(ds []derivative.Declaration) []string {
		var out []string
		for _, d := range ds {
			out = append(out, d.Name)
		}
		return out
	}

	tests := []struct {
		name string
		cfg  *checker.Config
		want []string
	}{
		{"NoConfig", nil, []string{"User", "Post", "InternalCache", "Order"}},
		{"Exclude pattern", &checker.Config{ExcludeTypes: []string{"Internal*"}}, []string{"User", "Post", "Order"}},
		{"Include", &checker.Config{IncludeTypes: []string{"User", "Order"}}, []string{"User", "Order"}},
		{"Exclude wins", &checker.Config{IncludeTypes: []string{"*"}, ExcludeTypes: []string{"Post"}}, []string{"User", "InternalCache", "Order"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := names(checker.FilterDecls(decls, tt.cfg))
			if len(got) != len(tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("expected %v, got %v", tt.want, got)
					break
				}
			}
		})
	}
}
