// Package quoting provides shared identifier quoting and literal escaping
// primitives used by the dialects.
package quoting

import "strings"

// DoubleQuote quotes a SQL identifier using double quotes (SQLite, ANSI SQL).
// Internal double quotes are escaped by doubling them.
func DoubleQuote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// Backtick quotes a SQL identifier using backticks (MySQL).
// Internal backticks are escaped by doubling them.
func Backtick(s string) string {
	return "`" + strings.ReplaceAll(s, "`", "``") + "`"
}

// mysqlEscapes mirrors the server client library's real_escape_string table.
var mysqlEscapes = strings.NewReplacer(
	`\`, `\\`,
	"'", `\'`,
	`"`, `\"`,
	"\x00", `\0`,
	"\n", `\n`,
	"\r", `\r`,
	"\x1a", `\Z`,
)

// EscapeMySQL escapes a string for a single-quoted MySQL literal using
// backslash escapes, the way the server's client library does when
// NO_BACKSLASH_ESCAPES is not set.
//
// SECURITY: assumes a UTF-8 (or other ASCII-safe) connection character set.
// Multi-byte sets such as GBK or SJIS can hide a backslash inside a trailing
// byte; use a connection-aware escaper for those.
func EscapeMySQL(s string) string {
	return mysqlEscapes.Replace(s)
}

// EscapeString escapes a string literal by doubling single quotes only.
// This is the ANSI rule and the MySQL rule under NO_BACKSLASH_ESCAPES.
func EscapeString(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

// EscapeStringBackslash doubles single quotes and backslashes. Used for
// PostgreSQL connections with standard_conforming_strings off, where a
// backslash inside '...' is still an escape character.
func EscapeStringBackslash(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, "'", "''")
}
