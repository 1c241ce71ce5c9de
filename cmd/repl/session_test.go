package main

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/bawdo/sqlplate/builder"
	"github.com/bawdo/sqlplate/internal/testutil"
	"github.com/bawdo/sqlplate/values"
)

// helper executes commands then returns GenerateSQL output.
func execSQL(t *testing.T, engine string, commands ...string) string {
	t.Helper()
	sess := NewSession(engine, nil, nil)
	sess.out = io.Discard
	for _, cmd := range commands {
		if err := sess.Execute(cmd); err != nil {
			t.Fatalf("command %q failed: %v", cmd, err)
		}
	}
	sql, err := sess.GenerateSQL()
	if err != nil {
		t.Fatalf("GenerateSQL failed: %v", err)
	}
	return sql
}

func TestSessionBuildsMySQL(t *testing.T) {
	t.Parallel()
	got := execSQL(t, "mysql",
		"template SELECT name FROM users WHERE user_id = 1{ AND block = ?d}",
		"arg true",
	)
	testutil.AssertSQL(t, got, "SELECT name FROM users WHERE user_id = 1 AND block = 1")
}

func TestSessionSkipDropsBlock(t *testing.T) {
	t.Parallel()
	got := execSQL(t, "mysql",
		"template SELECT ?# FROM users WHERE user_id = ?d{ AND block = ?d}",
		"arg ['name', 'email']",
		"arg 2",
		"skip",
	)
	testutil.AssertSQL(t, got, "SELECT `name`, `email` FROM users WHERE user_id = 2")
}

func TestSessionArgsReplaces(t *testing.T) {
	t.Parallel()
	got := execSQL(t, "mysql",
		"template SELECT * FROM users WHERE name = ? AND block = ?",
		"arg 'ignored'",
		"args 'Jack', NULL",
	)
	testutil.AssertSQL(t, got, "SELECT * FROM users WHERE name = 'Jack' AND block = NULL")
}

func TestSessionPostgresEngine(t *testing.T) {
	t.Parallel()
	got := execSQL(t, "mysql",
		"engine postgres",
		"template UPDATE ?# SET active = ? WHERE name = ?",
		"args users, false, 'O''Brien'",
	)
	testutil.AssertSQL(t, got, `UPDATE "users" SET active = FALSE WHERE name = 'O''Brien'`)
}

func TestSessionTemplateKeepsCase(t *testing.T) {
	t.Parallel()
	got := execSQL(t, "sqlite", "TEMPLATE select ?", "arg 'Ab'")
	testutil.AssertSQL(t, got, "select 'Ab'")
}

func TestSessionScopedBlocks(t *testing.T) {
	t.Parallel()
	tpl := "template SELECT 1{ AND a = ?}{ AND b = ?}"

	global := execSQL(t, "mysql", tpl, "args SKIP, 2")
	testutil.AssertSQL(t, global, "SELECT 1")

	scoped := execSQL(t, "mysql", "blocks scoped", tpl, "args SKIP, 2")
	testutil.AssertSQL(t, scoped, "SELECT 1 AND b = 2")
}

func TestSessionBlocksModeSurvivesEngineChange(t *testing.T) {
	t.Parallel()
	sess := NewSession("mysql", nil, nil)
	sess.out = io.Discard
	for _, cmd := range []string{"blocks scoped", "engine sqlite"} {
		if err := sess.Execute(cmd); err != nil {
			t.Fatalf("%s: %v", cmd, err)
		}
	}
	if !sess.builder.Scoped() {
		t.Error("expected scoped builder after engine change")
	}
	testutil.AssertEqual(t, sess.builder.Dialect().Name(), "sqlite")
}

func TestSessionClearAndReset(t *testing.T) {
	t.Parallel()
	sess := NewSession("mysql", nil, nil)
	sess.out = io.Discard
	_ = sess.Execute("template SELECT ?")
	_ = sess.Execute("arg 1")
	_ = sess.Execute("clear")
	testutil.AssertEqual(t, len(sess.args), 0)

	// Missing arguments render as NULL.
	sql, err := sess.GenerateSQL()
	testutil.AssertNoError(t, err)
	testutil.AssertSQL(t, sql, "SELECT NULL")

	_ = sess.Execute("reset")
	_, err = sess.GenerateSQL()
	testutil.AssertErrorIs(t, err, errNoTemplate)
}

func TestSessionBuildErrorsSurface(t *testing.T) {
	t.Parallel()
	sess := NewSession("mysql", nil, nil)
	sess.out = io.Discard
	_ = sess.Execute("template SELECT ? FROM t")
	_ = sess.Execute("skip")
	err := sess.Execute("sql")
	if !errors.Is(err, builder.ErrSkipOutsideBlock) {
		t.Errorf("expected ErrSkipOutsideBlock, got %v", err)
	}

	_ = sess.Execute("template SELECT * FROM t WHERE id IN (?a)")
	_ = sess.Execute("args 1")
	err = sess.Execute("sql")
	if !errors.Is(err, builder.ErrNotList) {
		t.Errorf("expected ErrNotList, got %v", err)
	}
}

func TestSessionShow(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	sess := NewSession("postgres", nil, nil)
	sess.out = &buf
	for _, cmd := range []string{
		"template SELECT ?{ AND x = ?d}",
		"arg 'it''s'",
		"skip",
		"show",
	} {
		if err := sess.Execute(cmd); err != nil {
			t.Fatalf("%s: %v", cmd, err)
		}
	}
	out := buf.String()
	for _, want := range []string{
		"postgres (blocks: global)",
		"2 placeholders, 1 blocks",
		"$1 = 'it''s'",
		"$2 = SKIP",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("show output missing %q:\n%s", want, out)
		}
	}
}

func TestSessionSQLPrints(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	sess := NewSession("mysql", nil, nil)
	sess.out = &buf
	_ = sess.Execute("template SELECT ?f")
	_ = sess.Execute("arg 1.5")
	if err := sess.Execute("build"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "SELECT 1.5") {
		t.Errorf("unexpected output: %q", buf.String())
	}
}

func TestSessionUsageErrors(t *testing.T) {
	t.Parallel()
	sess := NewSession("mysql", nil, nil)
	sess.out = io.Discard
	for _, cmd := range []string{
		"engine oracle",
		"blocks sometimes",
		"arg 'unterminated",
		"args 1, [2",
		"sql",
		"frobnicate",
	} {
		if err := sess.Execute(cmd); err == nil {
			t.Errorf("%q: expected error", cmd)
		}
	}
}

func TestSessionUnknownCommand(t *testing.T) {
	t.Parallel()
	sess := NewSession("mysql", nil, nil)
	err := sess.Execute("select 1")
	testutil.AssertError(t, err)
	if !strings.Contains(err.Error(), "unknown command: select") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestSessionInvalidEngineFallsBack(t *testing.T) {
	t.Parallel()
	sess := NewSession("oracle", nil, nil)
	testutil.AssertEqual(t, sess.engine, "mysql")
}

func TestSessionArgAppends(t *testing.T) {
	t.Parallel()
	sess := NewSession("mysql", nil, nil)
	sess.out = io.Discard
	_ = sess.Execute("arg 1")
	_ = sess.Execute("arg x")
	_ = sess.Execute("skip")
	testutil.AssertEqual(t, len(sess.args), 3)
	testutil.AssertEqual[values.Value](t, sess.args[1], values.String("x"))
	if !values.IsSkip(sess.args[2]) {
		t.Errorf("expected skip, got %v", sess.args[2])
	}
}

func TestCommandNames(t *testing.T) {
	t.Parallel()
	sess := NewSession("mysql", nil, nil)
	names := sess.commandNames()
	seen := map[string]bool{}
	for _, n := range names {
		if seen[n] {
			t.Errorf("duplicate command name %q", n)
		}
		seen[n] = true
	}
	for _, want := range []string{"template", "arg", "args", "skip", "sql", "blocks", "exit"} {
		if !seen[want] {
			t.Errorf("missing command %q in %v", want, names)
		}
	}
	if seen["tpl"] {
		t.Error("hidden alias tpl should not be listed")
	}
}

func TestNewLoggerLevels(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	l := newLogger("bogus", &buf)
	if !l.IsWarn() || l.IsInfo() {
		t.Error("unknown level should fall back to warn")
	}
	l = newLogger("trace", &buf)
	if !l.IsTrace() {
		t.Error("expected trace level")
	}
}

func TestIsValidEngine(t *testing.T) {
	t.Parallel()
	for _, e := range []string{"mysql", "postgres", "sqlite"} {
		if !isValidEngine(e) {
			t.Errorf("%q should be valid", e)
		}
	}
	if isValidEngine("oracle") {
		t.Error("oracle should be invalid")
	}
}
