// Package sqlplate builds SQL text from query templates with typed
// placeholders and conditional blocks.
//
//	sqlplate.Build("SELECT ?# FROM users WHERE id = ?d{ AND active = ?}",
//		[]string{"id", "name"}, 7, sqlplate.Skip())
//	// SELECT `id`, `name` FROM users WHERE id = 7
//
// Placeholders are ? (escaped value), ?d (integer), ?f (float), ?a (list of
// values) and ?# (identifier or list of identifiers). Text between { and }
// is removed when the skip value appears among the arguments.
//
// This package re-exports commonly used types and functions from
// subpackages for convenience. Advanced users can import subpackages
// directly:
//   - github.com/bawdo/sqlplate/builder (the build engine and its options)
//   - github.com/bawdo/sqlplate/dialects (escaping and identifier quoting)
//   - github.com/bawdo/sqlplate/values (argument values and the skip value)
//   - github.com/bawdo/sqlplate/template (template tokenizer)
package sqlplate

import (
	"github.com/hashicorp/go-hclog"

	"github.com/bawdo/sqlplate/builder"
	"github.com/bawdo/sqlplate/dialects"
	"github.com/bawdo/sqlplate/values"
)

// defaultBuilder serves the package-level Build: MySQL rules, global skip.
var defaultBuilder = builder.New()

// --- Building ---

// Builder builds SQL text from templates.
type Builder = builder.Builder

// Option configures a Builder.
type Option = builder.Option

// New creates a Builder. The default dialect is MySQL.
func New(opts ...Option) *builder.Builder {
	return builder.New(opts...)
}

// Build builds tpl with args using MySQL escaping rules.
func Build(tpl string, args ...any) (string, error) {
	return defaultBuilder.Build(tpl, args...)
}

// MustBuild is like Build but panics on error. Intended for templates and
// arguments fixed at compile time.
func MustBuild(tpl string, args ...any) string {
	s, err := defaultBuilder.Build(tpl, args...)
	if err != nil {
		panic("sqlplate: " + err.Error())
	}
	return s
}

// --- Values ---

// Value is a template argument.
type Value = values.Value

// Skip returns the value that removes conditional blocks when passed as an
// argument.
func Skip() values.Value {
	return values.Skip()
}

// IsSkip reports whether v is the skip value.
func IsSkip(v values.Value) bool {
	return values.IsSkip(v)
}

// --- Dialects ---

// Dialect renders engine-specific literals and identifiers.
type Dialect = dialects.Dialect

// MySQL returns the MySQL dialect.
func MySQL(opts ...dialects.Option) dialects.Dialect {
	return dialects.NewMySQL(opts...)
}

// Postgres returns the PostgreSQL dialect.
func Postgres(opts ...dialects.Option) dialects.Dialect {
	return dialects.NewPostgres(opts...)
}

// SQLite returns the SQLite dialect.
func SQLite(opts ...dialects.Option) dialects.Dialect {
	return dialects.NewSQLite(opts...)
}

// --- Options ---

// WithDialect selects the escaping and quoting rules.
func WithDialect(d dialects.Dialect) Option {
	return builder.WithDialect(d)
}

// WithEscaper routes string literals through a connection's escaper.
func WithEscaper(e dialects.Escaper) Option {
	return builder.WithEscaper(e)
}

// WithLogger traces builds through l.
func WithLogger(l hclog.Logger) Option {
	return builder.WithLogger(l)
}

// WithCacheSize sets the parsed template cache size; zero disables it.
func WithCacheSize(n int) Option {
	return builder.WithCacheSize(n)
}

// WithScopedBlocks removes only the blocks whose own arguments include the
// skip value.
//
// ⚠️ This differs from the default, where one skip value removes every
// block in the template.
func WithScopedBlocks() Option {
	return builder.WithScopedBlocks()
}
