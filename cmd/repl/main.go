// REPL binary for interactively building query templates and executing them.
//
// Configuration (flags, env vars, or a .env file in the working directory):
//
//	--engine, SQLPLATE_ENGINE=mysql|postgres|sqlite  (optional, prompted if absent)
//	--dsn, DATABASE_URL=<dsn>                         (optional, auto-connects if set)
//	--log-level, SQLPLATE_LOG_LEVEL=trace|debug|info|warn|error
//
// Usage:
//
//	go run ./cmd/repl
package main

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"os/user"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/ergochat/readline"
	"github.com/hashicorp/go-hclog"
	"github.com/joho/godotenv"

	"github.com/bawdo/sqlplate/dialects"
)

// CLI defines the command-line flags.
type CLI struct {
	Engine   string `help:"SQL dialect (mysql, postgres, sqlite)." env:"SQLPLATE_ENGINE"`
	DSN      string `name:"dsn" help:"Database DSN to connect to on start." env:"DATABASE_URL"`
	LogLevel string `help:"Log level (trace, debug, info, warn, error)." env:"SQLPLATE_LOG_LEVEL" default:"warn"`
	History  string `help:"History file path." type:"path"`
}

func main() {
	// A missing .env is the common case.
	_ = godotenv.Load()

	var cli CLI
	kong.Parse(&cli,
		kong.Name("sqlplate"),
		kong.Description("Interactive SQL template builder."),
	)

	logger := newLogger(cli.LogLevel, os.Stderr)

	rl, err := readline.NewFromConfig(&readline.Config{
		Prompt:          "[Config] ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "readline init: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = rl.Close() }()

	engine := loadEngine(rl, cli.Engine)
	sess := NewSession(engine, rl, logger)

	history := cli.History
	if history == "" {
		history = historyPath()
	}
	comp := &replCompleter{sess: sess}
	_ = rl.SetConfig(&readline.Config{
		Prompt:          "sqlplate> ",
		HistoryFile:     history,
		HistoryLimit:    500,
		AutoComplete:    comp,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})

	if cli.DSN != "" {
		fmt.Printf("[Config] Connecting via DATABASE_URL...\n")
		if err := sess.Execute("connect " + cli.DSN); err != nil {
			fmt.Fprintf(os.Stderr, "  Warning: DATABASE_URL connect failed: %v\n", err)
		}
	} else {
		loadConnection(rl, sess)
	}

	fmt.Println()
	fmt.Println("sqlplate REPL — type 'help' for commands, 'exit' to quit")
	fmt.Println()

	rl.SetPrompt("sqlplate> ")
	for {
		line, err := rl.ReadLine()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			break
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lower := strings.ToLower(line)
		if lower == "exit" || lower == "quit" {
			break
		}
		if err := sess.Execute(line); err != nil {
			fmt.Fprintf(os.Stderr, "  Error: %v\n", err)
		}
	}
	if sess.conn != nil {
		_ = sess.conn.close()
	}
	fmt.Println()
}

// newLogger builds the REPL logger. Unknown levels fall back to warn.
func newLogger(level string, w io.Writer) hclog.Logger {
	lvl := hclog.LevelFromString(level)
	if lvl == hclog.NoLevel {
		lvl = hclog.Warn
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:   "sqlplate",
		Level:  lvl,
		Output: w,
	})
}

func loadEngine(rl *readline.Instance, fromFlag string) string {
	engine := strings.TrimSpace(strings.ToLower(fromFlag))
	if engine != "" {
		if !isValidEngine(engine) {
			fmt.Fprintf(os.Stderr, "Warning: invalid engine %q, defaulting to mysql\n", engine)
			return dialects.EngineMySQL
		}
		fmt.Printf("[Config] Engine: %s\n", engine)
		return engine
	}

	choice := prompt(rl, "Select engine (mysql, postgres, sqlite)", dialects.EngineMySQL)
	choice = strings.TrimSpace(strings.ToLower(choice))
	if !isValidEngine(choice) {
		fmt.Fprintf(os.Stderr, "Warning: unknown engine %q, defaulting to mysql\n", choice)
		return dialects.EngineMySQL
	}
	fmt.Printf("[Config] Engine: %s\n", choice)
	return choice
}

func loadConnection(rl *readline.Instance, sess *Session) {
	answer := prompt(rl, "Connect to a database? (y/N)", "")
	answer = strings.TrimSpace(strings.ToLower(answer))
	if answer != "y" && answer != "yes" {
		fmt.Println("[Config] Skipped — use 'connect <dsn>' later to connect")
		return
	}

	dsn := buildDSN(rl, sess.engine)
	if dsn == "" {
		fmt.Println("[Config] No connection configured — use 'connect <dsn>' later")
		return
	}

	fmt.Printf("[Config] DSN: %s\n", sanitizeDSN(dsn))
	if err := sess.Execute("connect " + dsn); err != nil {
		fmt.Fprintf(os.Stderr, "  Warning: connect failed: %v\n", err)
		fmt.Println("[Config] Use 'connect <dsn>' later to retry")
	}
}

func buildDSN(rl *readline.Instance, engine string) string {
	switch engine {
	case dialects.EngineSQLite:
		return buildSQLiteDSN(rl)
	case dialects.EnginePostgres:
		return buildPostgresDSN(rl)
	default:
		return buildMySQLDSN(rl)
	}
}

// prompt prints a label with an optional default and returns the user's input
// (or the default if they press enter).
func prompt(rl *readline.Instance, label, defaultVal string) string {
	if rl == nil {
		return defaultVal
	}
	if defaultVal != "" {
		rl.SetPrompt(fmt.Sprintf("[Config]   %s [%s]: ", label, defaultVal))
	} else {
		rl.SetPrompt(fmt.Sprintf("[Config]   %s: ", label))
	}
	defer rl.SetPrompt("sqlplate> ")
	line, err := rl.ReadLine()
	if err != nil {
		return defaultVal
	}
	val := strings.TrimSpace(line)
	if val == "" {
		return defaultVal
	}
	return val
}

func buildSQLiteDSN(rl *readline.Instance) string {
	fmt.Println("[Config] SQLite connection setup:")
	return prompt(rl, "Database path", ":memory:")
}

func buildPostgresDSN(rl *readline.Instance) string {
	fmt.Println("[Config] PostgreSQL connection setup:")

	defaultUser := "postgres"
	if u, err := user.Current(); err == nil && u.Username != "" {
		defaultUser = u.Username
	}

	dbUser := prompt(rl, "User", defaultUser)
	dbPass := prompt(rl, "Password", "")
	host := prompt(rl, "Host", "localhost")
	port := prompt(rl, "Port", "5432")
	dbName := prompt(rl, "Database", dbUser)
	sslMode := prompt(rl, "SSL mode (disable/require/verify-full)", "disable")

	var userInfo *url.Userinfo
	if dbPass != "" {
		userInfo = url.UserPassword(dbUser, dbPass)
	} else {
		userInfo = url.User(dbUser)
	}
	u := &url.URL{
		Scheme:   "postgres",
		User:     userInfo,
		Host:     host + ":" + port,
		Path:     "/" + dbName,
		RawQuery: "sslmode=" + sslMode,
	}
	return u.String()
}

func buildMySQLDSN(rl *readline.Instance) string {
	fmt.Println("[Config] MySQL connection setup:")

	dbUser := prompt(rl, "User", "root")
	dbPass := prompt(rl, "Password", "")
	host := prompt(rl, "Host", "localhost")
	port := prompt(rl, "Port", "3306")
	dbName := prompt(rl, "Database", "")

	if dbName == "" {
		return ""
	}
	return mysqlDSN(dbUser, dbPass, host, port, dbName)
}

func isValidEngine(engine string) bool {
	for _, e := range dialects.Engines {
		if e == engine {
			return true
		}
	}
	return false
}

func historyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".sqlplate_history")
}
