package dialects

import (
	"github.com/jackc/pgx/v5"

	"github.com/bawdo/sqlplate/internal/quoting"
)

// Postgres renders PostgreSQL-dialect text.
// Identifiers are quoted with double quotes: "table".
type Postgres struct {
	*baseDialect
}

// NewPostgres creates a PostgreSQL dialect. Booleans render as TRUE and
// FALSE since PostgreSQL does not cast integers to boolean.
func NewPostgres(opts ...Option) *Postgres {
	d := &Postgres{}
	d.baseDialect = &baseDialect{
		name:       EnginePostgres,
		quoteIdent: quotePostgres,
		escaper:    EscaperFunc(quoting.EscapeString),
		trueLit:    "TRUE",
		falseLit:   "FALSE",
	}
	d.applyOptions(opts)
	return d
}

// NonStandardStrings makes backslashes escape characters too, for servers
// with standard_conforming_strings off.
func NonStandardStrings() Option {
	return WithEscaper(EscaperFunc(quoting.EscapeStringBackslash))
}

// quotePostgres quotes one identifier the way pgx does, which also drops NUL
// bytes the server would reject.
func quotePostgres(name string) string {
	return pgx.Identifier{name}.Sanitize()
}
