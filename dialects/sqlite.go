package dialects

import (
	"github.com/bawdo/sqlplate/internal/quoting"
)

// SQLite renders SQLite-dialect text.
// Identifiers are quoted with double quotes (ANSI SQL).
type SQLite struct {
	*baseDialect
}

// NewSQLite creates a SQLite dialect. Booleans render as 1 and 0.
func NewSQLite(opts ...Option) *SQLite {
	d := &SQLite{}
	d.baseDialect = &baseDialect{
		name:       EngineSQLite,
		quoteIdent: quoting.DoubleQuote,
		escaper:    EscaperFunc(quoting.EscapeString),
		trueLit:    "1",
		falseLit:   "0",
	}
	d.applyOptions(opts)
	return d
}
