package dialects

import (
	"context"
	"database/sql"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func TestMySQLDialect(t *testing.T) {
	t.Parallel()
	d := NewMySQL()
	assert.Equal(t, "mysql", d.Name())
	assert.Equal(t, "`name`", d.QuoteIdentifier("name"))
	assert.Equal(t, "`a``b`", d.QuoteIdentifier("a`b"))
	assert.Equal(t, `O\'Reilly`, d.EscapeString("O'Reilly"))
	assert.Equal(t, `a\\b`, d.EscapeString(`a\b`))
	assert.Equal(t, "1", d.Bool(true))
	assert.Equal(t, "0", d.Bool(false))
}

func TestMySQLNoBackslashEscapes(t *testing.T) {
	t.Parallel()
	d := NewMySQL(NoBackslashEscapes())
	assert.Equal(t, "O''Reilly", d.EscapeString("O'Reilly"))
	assert.Equal(t, `a\b`, d.EscapeString(`a\b`))
}

func TestPostgresDialect(t *testing.T) {
	t.Parallel()
	d := NewPostgres()
	assert.Equal(t, "postgres", d.Name())
	assert.Equal(t, `"users"`, d.QuoteIdentifier("users"))
	assert.Equal(t, `"us""ers"`, d.QuoteIdentifier(`us"ers`))
	assert.Equal(t, `"ab"`, d.QuoteIdentifier("a\x00b"))
	assert.Equal(t, "it''s", d.EscapeString("it's"))
	assert.Equal(t, `a\b`, d.EscapeString(`a\b`))
	assert.Equal(t, "TRUE", d.Bool(true))
	assert.Equal(t, "FALSE", d.Bool(false))

	ns := NewPostgres(NonStandardStrings())
	assert.Equal(t, `a\\b`, ns.EscapeString(`a\b`))
}

func TestSQLiteDialect(t *testing.T) {
	t.Parallel()
	d := NewSQLite()
	assert.Equal(t, "sqlite", d.Name())
	assert.Equal(t, `"t"`, d.QuoteIdentifier("t"))
	assert.Equal(t, "it''s", d.EscapeString("it's"))
	assert.Equal(t, "1", d.Bool(true))
}

func TestWithEscaper(t *testing.T) {
	t.Parallel()
	upper := EscaperFunc(strings.ToUpper)
	d := NewMySQL(WithEscaper(upper))
	assert.Equal(t, "ABC", d.EscapeString("abc"))

	kept := NewMySQL(WithEscaper(nil))
	assert.Equal(t, `\'`, kept.EscapeString("'"))
}

func TestForEngine(t *testing.T) {
	t.Parallel()
	tests := map[string]string{
		"mysql":      "mysql",
		" MySQL ":    "mysql",
		"postgres":   "postgres",
		"postgresql": "postgres",
		"pgx":        "postgres",
		"sqlite":     "sqlite",
		"sqlite3":    "sqlite",
	}
	for in, want := range tests {
		d, err := ForEngine(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, d.Name(), in)
	}

	_, err := ForEngine("oracle")
	require.ErrorIs(t, err, ErrUnknownEngine)
}

func TestDetectSQLite(t *testing.T) {
	t.Parallel()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	d, err := Detect(context.Background(), db, "sqlite")
	require.NoError(t, err)
	assert.Equal(t, "sqlite", d.Name())
	assert.Equal(t, "it''s", d.EscapeString("it's"))
}

func TestDetectUnknownEngine(t *testing.T) {
	t.Parallel()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = Detect(context.Background(), db, "oracle")
	require.ErrorIs(t, err, ErrUnknownEngine)
}

func TestDetectMySQLProbeFailsOnOtherEngine(t *testing.T) {
	t.Parallel()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = Detect(context.Background(), db, "mysql")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sql_mode")
}

func TestHasSQLMode(t *testing.T) {
	t.Parallel()
	assert.True(t, hasSQLMode("STRICT_TRANS_TABLES,NO_BACKSLASH_ESCAPES", "NO_BACKSLASH_ESCAPES"))
	assert.True(t, hasSQLMode("no_backslash_escapes", "NO_BACKSLASH_ESCAPES"))
	assert.False(t, hasSQLMode("ANSI_QUOTES", "NO_BACKSLASH_ESCAPES"))
	assert.False(t, hasSQLMode("", "NO_BACKSLASH_ESCAPES"))
}
