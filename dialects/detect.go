package dialects

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// RowQuerier is satisfied by *sql.DB, *sql.Conn and *sql.Tx.
type RowQuerier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Detect builds the dialect for engine, asking the live connection which
// string escaping rule is in effect. Options are applied after detection,
// so WithEscaper still wins.
func Detect(ctx context.Context, q RowQuerier, engine string, opts ...Option) (Dialect, error) {
	var detected []Option
	switch strings.ToLower(strings.TrimSpace(engine)) {
	case EngineMySQL:
		var mode string
		if err := q.QueryRowContext(ctx, "SELECT @@SESSION.sql_mode").Scan(&mode); err != nil {
			return nil, fmt.Errorf("detect mysql sql_mode: %w", err)
		}
		if hasSQLMode(mode, "NO_BACKSLASH_ESCAPES") {
			detected = append(detected, NoBackslashEscapes())
		}
	case EnginePostgres, "postgresql", "pgx":
		var scs string
		if err := q.QueryRowContext(ctx, "SHOW standard_conforming_strings").Scan(&scs); err != nil {
			return nil, fmt.Errorf("detect postgres standard_conforming_strings: %w", err)
		}
		if strings.EqualFold(strings.TrimSpace(scs), "off") {
			detected = append(detected, NonStandardStrings())
		}
	case EngineSQLite, "sqlite3":
		var version string
		if err := q.QueryRowContext(ctx, "SELECT sqlite_version()").Scan(&version); err != nil {
			return nil, fmt.Errorf("detect sqlite: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEngine, engine)
	}
	return ForEngine(engine, append(detected, opts...)...)
}

func hasSQLMode(modes, want string) bool {
	for _, m := range strings.Split(modes, ",") {
		if strings.EqualFold(strings.TrimSpace(m), want) {
			return true
		}
	}
	return false
}
