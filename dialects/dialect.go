// Package dialects provides per-engine literal escaping and identifier
// quoting for built SQL text.
package dialects

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownEngine is returned for engine names with no dialect.
var ErrUnknownEngine = errors.New("unknown engine")

// Engine names accepted by ForEngine and Detect.
const (
	EngineMySQL    = "mysql"
	EnginePostgres = "postgres"
	EngineSQLite   = "sqlite"
)

// Engines lists the supported engine names.
var Engines = []string{EngineMySQL, EnginePostgres, EngineSQLite}

// Dialect renders the engine-specific pieces of a built query.
type Dialect interface {
	// Name returns the engine name.
	Name() string
	// QuoteIdentifier quotes a table or column name.
	QuoteIdentifier(name string) string
	// EscapeString escapes s for use between single quotes.
	EscapeString(s string) string
	// Bool renders a boolean literal.
	Bool(b bool) string
}

// Escaper is the string-escaping capability a connection provides.
type Escaper interface {
	EscapeString(s string) string
}

// EscaperFunc adapts an ordinary function to Escaper.
type EscaperFunc func(string) string

func (f EscaperFunc) EscapeString(s string) string { return f(s) }

// Option configures a dialect at construction time.
type Option func(*baseDialect)

// WithEscaper replaces the dialect's literal escaper, for example with one
// backed by a live connection.
func WithEscaper(e Escaper) Option {
	return func(b *baseDialect) {
		if e != nil {
			b.escaper = e
		}
	}
}

// baseDialect carries the behaviour shared by every engine. Engine types
// embed it and set the function fields.
type baseDialect struct {
	name       string
	quoteIdent func(string) string
	escaper    Escaper
	trueLit    string
	falseLit   string
}

func (b *baseDialect) applyOptions(opts []Option) {
	for _, o := range opts {
		o(b)
	}
}

func (b *baseDialect) Name() string { return b.name }

func (b *baseDialect) QuoteIdentifier(name string) string { return b.quoteIdent(name) }

func (b *baseDialect) EscapeString(s string) string { return b.escaper.EscapeString(s) }

func (b *baseDialect) Bool(v bool) string {
	if v {
		return b.trueLit
	}
	return b.falseLit
}

// ForEngine returns the dialect for an engine name, using the static escaping
// rules of a default server configuration.
func ForEngine(engine string, opts ...Option) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(engine)) {
	case EngineMySQL:
		return NewMySQL(opts...), nil
	case EnginePostgres, "postgresql", "pgx":
		return NewPostgres(opts...), nil
	case EngineSQLite, "sqlite3":
		return NewSQLite(opts...), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownEngine, engine)
}
