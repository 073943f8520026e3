package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/arllen133/derivative"
	"github.com/arllen133/derivative/catalog"
	"github.com/arllen133/derivative/cmd/derivative/checker"
	"github.com/arllen133/derivative/source"
)

var (
	verbose     bool
	configDir   string
	catalogPath string
	namespace   string
)

// RootCmd is the root command for derivative
var RootCmd = &cobra.Command{
	Use:   "derivative",
	Short: "Check and inspect @derivative annotations",
	Long: `derivative compiles the @derivative(...) annotations of Go type
declarations and struct fields, reports malformed ones and records the
capabilities each type derives.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	return RootCmd.Execute()
}

func init() {
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log every compiled declaration")
	RootCmd.PersistentFlags().StringVarP(&configDir, "config", "c", ".", "Directory holding config.go")
	RootCmd.PersistentFlags().StringVar(&catalogPath, "catalog", "", "SQLite catalog to record results in (overrides config.go)")
	RootCmd.PersistentFlags().StringVarP(&namespace, "namespace", "n", "", "Annotation namespace (overrides config.go)")
}

func newLogger(w io.Writer) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// checkPackages loads patterns and runs the checker with the effective
// configuration: flag > config.go > default.
func checkPackages(ctx context.Context, logger *slog.Logger, patterns []string) (*checker.Report, error) {
	if len(patterns) == 0 {
		patterns = []string{"./..."}
	}

	cfg, err := checker.ParseConfig(configDir)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		cfg = &checker.Config{Namespace: derivative.DefaultNamespace}
	}
	if namespace != "" {
		cfg.Namespace = namespace
	}
	if catalogPath != "" {
		cfg.CatalogPath = catalogPath
	}

	var store *catalog.Store
	if cfg.CatalogPath != "" {
		store, err = catalog.Open(cfg.CatalogPath)
		if err != nil {
			return nil, err
		}
		defer store.Close()
		if err := store.Migrate(ctx); err != nil {
			return nil, err
		}
	}

	pkgs, err := source.Load(ctx, ".", patterns...)
	if err != nil {
		return nil, err
	}
	logger.Debug("packages loaded", slog.Int("count", len(pkgs)))

	compiler := derivative.NewCompiler(
		derivative.WithNamespace(cfg.Namespace),
		derivative.WithWorkers(cfg.Workers),
		derivative.WithLogger(logger),
	)
	return checker.New(compiler, store, cfg, logger).Check(ctx, pkgs)
}
