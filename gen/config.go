package gen

// Config defines how a directory's annotations are checked.
// Place this in a file named `config.go` in the annotated package.
//
// The file is never compiled by the checker; it is read through the syntax
// tree, so values must be literals.
type Config struct {
	// Namespace is the attribute name that owns annotation blocks.
	// Default: "derivative"
	Namespace string

	// IncludeTypes restricts checking to these types.
	// Supports string names, glob patterns or type instances:
	// []any{"User", "Order*", &Post{}}
	// If empty, every type declaration is checked.
	IncludeTypes []any

	// ExcludeTypes lists types to skip, with the same forms as IncludeTypes.
	ExcludeTypes []any

	// CatalogPath is the SQLite catalog that receives the compiled
	// configurations. Relative to the directory. Empty disables the catalog.
	CatalogPath string

	// Workers bounds concurrent compilation. Zero means one per CPU.
	Workers int
}

// ConfigFileName is the convention filename for configuration.
const ConfigFileName = "config.go"
