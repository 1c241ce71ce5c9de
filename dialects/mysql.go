package dialects

import (
	"github.com/bawdo/sqlplate/internal/quoting"
)

// MySQL renders MySQL-dialect text.
// Identifiers are quoted with backticks and strings use backslash escapes.
type MySQL struct {
	*baseDialect
}

// NewMySQL creates a MySQL dialect. Booleans render as 1 and 0.
func NewMySQL(opts ...Option) *MySQL {
	d := &MySQL{}
	d.baseDialect = &baseDialect{
		name:       EngineMySQL,
		quoteIdent: quoting.Backtick,
		escaper:    EscaperFunc(quoting.EscapeMySQL),
		trueLit:    "1",
		falseLit:   "0",
	}
	d.applyOptions(opts)
	return d
}

// NoBackslashEscapes switches string escaping to quote doubling, matching a
// server running with sql_mode NO_BACKSLASH_ESCAPES.
func NoBackslashEscapes() Option {
	return WithEscaper(EscaperFunc(quoting.EscapeString))
}
