package derivative

import (
	"context"
	"errors"
	"fmt"
	"go/token"
	"runtime"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/arllen133/derivative/meta"
)

// Declaration is an annotated type declaration as seen by the compiler.
type Declaration struct {
	Package string
	Name    string
	Pos     token.Position
	Attrs   []meta.Attribute
	Fields  []FieldDeclaration
}

// FieldDeclaration is one struct field of a Declaration.
type FieldDeclaration struct {
	Name  string
	Pos   token.Position
	Attrs []meta.Attribute
}

// Result is the compiled configuration of one declaration. When Err is set
// Type and Fields are nil.
type Result struct {
	Decl   Declaration
	Type   *TypeConfig
	Fields []FieldResult
	Err    error
}

// FieldResult pairs a field name with its configuration.
type FieldResult struct {
	Name   string
	Config *FieldConfig
}

// DeclError locates an annotation error inside a declaration.
type DeclError struct {
	Type  string
	Field string // empty for type-level errors
	Pos   token.Position
	Err   error
}

func (e *DeclError) Error() string {
	where := e.Type
	if e.Field != "" {
		where += "." + e.Field
	}
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s: %s: %v", e.Pos, where, e.Err)
	}
	return fmt.Sprintf("%s: %v", where, e.Err)
}

func (e *DeclError) Unwrap() error { return e.Err }

// Option configures a Compiler
type Option func(*Compiler)

// WithNamespace changes the attribute name that owns annotation blocks.
func WithNamespace(namespace string) Option {
	return func(c *Compiler) {
		c.namespace = namespace
	}
}

// WithParsers replaces the embedded sub-language parsers.
func WithParsers(parsers Parsers) Option {
	return func(c *Compiler) {
		c.parsers = parsers
	}
}

// WithWorkers bounds the number of declarations compiled concurrently.
// Zero or less means runtime.NumCPU().
func WithWorkers(n int) Option {
	return func(c *Compiler) {
		c.workers = n
	}
}

// Compiler compiles whole declarations (type plus fields) and reports each
// one independently. It is safe for concurrent use.
//
// Usage example:
//
//	c := derivative.NewCompiler(
//	    derivative.WithLogger(slog.Default()),
//	    derivative.WithDefaultTracer(),
//	)
//	for _, res := range c.CompilePackage(ctx, decls) {
//	    if res.Err != nil {
//	        fmt.Println(res.Err)
//	    }
//	}
type Compiler struct {
	namespace string
	parsers   Parsers
	workers   int
	decoder   *Decoder
	obs       ObservabilityConfig
}

// NewCompiler creates a compiler with the given options.
func NewCompiler(opts ...Option) *Compiler {
	c := &Compiler{namespace: DefaultNamespace}
	for _, opt := range opts {
		opt(c)
	}
	if c.namespace == "" {
		c.namespace = DefaultNamespace
	}
	c.decoder = NewDecoder(c.namespace, c.parsers)
	return c
}

// Namespace returns the attribute name the compiler reads.
func (c *Compiler) Namespace() string { return c.namespace }

// CompileType compiles one declaration. Processing stops at the first error,
// which is returned as a *DeclError inside the result.
func (c *Compiler) CompileType(ctx context.Context, decl Declaration) Result {
	start := time.Now()
	_, span := c.startSpan(ctx, "derivative.compile.type")
	defer span.End()
	span.SetAttributes(
		attribute.String("derivative.package", decl.Package),
		attribute.String("derivative.type", decl.Name),
		attribute.Int("derivative.fields", len(decl.Fields)),
	)

	res := c.compile(decl)

	duration := time.Since(start)
	if res.Err != nil {
		span.RecordError(res.Err)
		span.SetStatus(codes.Error, res.Err.Error())
	}
	c.recordMetrics(ctx, decl.Package, duration, res.Err)
	c.logDecl(ctx, decl, duration, res.Err)
	return res
}

func (c *Compiler) compile(decl Declaration) Result {
	res := Result{Decl: decl}

	typ, err := c.decoder.ParseType(decl.Attrs)
	if err != nil {
		res.Err = &DeclError{Type: decl.Name, Pos: errPos(err, decl.Pos), Err: err}
		return res
	}

	fields := make([]FieldResult, 0, len(decl.Fields))
	for _, f := range decl.Fields {
		cfg, err := c.decoder.ParseField(f.Attrs)
		if err != nil {
			res.Err = &DeclError{Type: decl.Name, Field: f.Name, Pos: errPos(err, f.Pos), Err: err}
			return res
		}
		fields = append(fields, FieldResult{Name: f.Name, Config: cfg})
	}

	res.Type = typ
	res.Fields = fields
	return res
}

func errPos(err error, fallback token.Position) token.Position {
	var e *Error
	if errors.As(err, &e) && e.Pos.IsValid() {
		return e.Pos
	}
	return fallback
}

// CompilePackage compiles every declaration with a bounded worker pool.
// Declarations share no state, so a failure in one does not affect the
// others. Results are returned in input order.
func (c *Compiler) CompilePackage(ctx context.Context, decls []Declaration) []Result {
	ctx, span := c.startSpan(ctx, "derivative.compile.package")
	defer span.End()
	span.SetAttributes(attribute.Int("derivative.declarations", len(decls)))

	results := make([]Result, len(decls))
	if len(decls) == 0 {
		return results
	}

	numWorkers := c.workers
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	if numWorkers > len(decls) {
		numWorkers = len(decls)
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				results[idx] = c.CompileType(ctx, decls[idx])
			}
		}()
	}

	for i := range decls {
		select {
		case <-ctx.Done():
			results[i] = Result{Decl: decls[i], Err: ctx.Err()}
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	if failed > 0 {
		span.SetStatus(codes.Error, fmt.Sprintf("%d declarations rejected", failed))
	}
	return results
}
