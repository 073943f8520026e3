// Package checker drives the derivative compiler over loaded packages: it
// applies the directory's gen.Config, compiles every declaration, records the
// results in the catalog and builds a Report.
package checker

import (
	"context"
	"log/slog"
	"sort"

	"github.com/arllen133/derivative"
	"github.com/arllen133/derivative/catalog"
)

// Checker compiles packages of declarations.
type Checker struct {
	compiler *derivative.Compiler
	store    *catalog.Store
	cfg      *Config
	logger   *slog.Logger
}

// New creates a checker. store and cfg may be nil; a nil logger is silent.
func New(compiler *derivative.Compiler, store *catalog.Store, cfg *Config, logger *slog.Logger) *Checker {
	return &Checker{
		compiler: compiler,
		store:    store,
		cfg:      cfg,
		logger:   logger,
	}
}

// Check compiles every package, in import path order. Annotation errors end
// up in the report; the returned error is reserved for catalog failures.
func (c *Checker) Check(ctx context.Context, pkgs map[string][]derivative.Declaration) (*Report, error) {
	paths := make([]string, 0, len(pkgs))
	for p := range pkgs {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	report := &Report{}
	for _, pkg := range paths {
		decls := FilterDecls(pkgs[pkg], c.cfg)
		if c.logger != nil {
			c.logger.DebugContext(ctx, "checking package",
				slog.String("package", pkg),
				slog.Int("declarations", len(decls)),
				slog.Int("skipped", len(pkgs[pkg])-len(decls)),
			)
		}

		results := c.compiler.CompilePackage(ctx, decls)

		if c.store != nil {
			if err := c.store.Save(ctx, pkg, results); err != nil {
				return nil, err
			}
		}
		report.Packages = append(report.Packages, newPackageReport(pkg, results))
	}
	return report, nil
}
