package sqlplate_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/bawdo/sqlplate"
	"github.com/bawdo/sqlplate/builder"
)

// TestSimpleImportStyle demonstrates using the convenience package
func TestSimpleImportStyle(t *testing.T) {
	sql, err := sqlplate.Build(
		"SELECT ?# FROM users WHERE user_id = ?d{ AND block = ?d}",
		[]string{"name", "email"}, 2, sqlplate.Skip(),
	)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	expected := "SELECT `name`, `email` FROM users WHERE user_id = 2"
	if sql != expected {
		t.Errorf("Expected:\n%s\nGot:\n%s", expected, sql)
	}
}

// TestDialectBuilder demonstrates building for another engine
func TestDialectBuilder(t *testing.T) {
	b := sqlplate.New(sqlplate.WithDialect(sqlplate.Postgres()))
	sql, err := b.Build("UPDATE ?# SET active = ? WHERE name = ?", "users", false, "O'Brien")
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	expected := `UPDATE "users" SET active = FALSE WHERE name = 'O''Brien'`
	if sql != expected {
		t.Errorf("Expected:\n%s\nGot:\n%s", expected, sql)
	}
}

func TestSQLiteBuilder(t *testing.T) {
	b := sqlplate.New(sqlplate.WithDialect(sqlplate.SQLite()), sqlplate.WithCacheSize(0))
	sql, err := b.Build("SELECT ?# FROM t WHERE ok = ?", "a b", true)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if sql != `SELECT "a b" FROM t WHERE ok = 1` {
		t.Errorf("unexpected SQL: %s", sql)
	}
}

func TestScopedBlocksOption(t *testing.T) {
	b := sqlplate.New(sqlplate.WithScopedBlocks())
	sql, err := b.Build("SELECT 1{ AND a = ?}{ AND b = ?}", sqlplate.Skip(), 2)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if sql != "SELECT 1 AND b = 2" {
		t.Errorf("unexpected SQL: %s", sql)
	}
}

func TestSkipIsStable(t *testing.T) {
	if sqlplate.Skip() != sqlplate.Skip() {
		t.Error("expected Skip() to equal itself")
	}
	if !sqlplate.IsSkip(sqlplate.Skip()) {
		t.Error("expected IsSkip(Skip())")
	}
}

func TestMustBuildPanicsOnError(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	sqlplate.MustBuild("IN (?a)", 1)
}

func TestBuildReturnsWrappedErrors(t *testing.T) {
	_, err := sqlplate.Build("SELECT ?#", 1)
	if !errors.Is(err, builder.ErrInvalidIdentifier) {
		t.Errorf("expected ErrInvalidIdentifier, got %v", err)
	}
}

func ExampleBuild() {
	sql, _ := sqlplate.Build("SELECT * FROM users WHERE name = ? AND id IN (?a)", "Jack", []int{1, 2, 3})
	fmt.Println(sql)
	// Output: SELECT * FROM users WHERE name = 'Jack' AND id IN (1, 2, 3)
}

func ExampleSkip() {
	tpl := "SELECT name FROM users WHERE user_id = 1{ AND block = ?d}"
	fmt.Println(sqlplate.MustBuild(tpl, true))
	fmt.Println(sqlplate.MustBuild(tpl, sqlplate.Skip()))
	// Output:
	// SELECT name FROM users WHERE user_id = 1 AND block = 1
	// SELECT name FROM users WHERE user_id = 1
}
