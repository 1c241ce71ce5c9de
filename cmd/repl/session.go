package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/ergochat/readline"
	"github.com/hashicorp/go-hclog"

	"github.com/bawdo/sqlplate/builder"
	"github.com/bawdo/sqlplate/dialects"
	"github.com/bawdo/sqlplate/template"
	"github.com/bawdo/sqlplate/values"
)

var errNoTemplate = errors.New("no template defined (use 'template <sql>' first)")

const execTimeout = 30 * time.Second

// Session holds the REPL state: the current template and arguments, the
// active engine and block mode, and the optional database connection.
type Session struct {
	engine   string
	scoped   bool
	template string
	args     []values.Value
	builder  *builder.Builder
	commands []commandEntry // command registry (sorted by prefix length desc)
	conn     *dbConn        // nil when disconnected
	lastDSN  string         // remembers the previous DSN for reconnect
	rl       *readline.Instance
	logger   hclog.Logger
	out      io.Writer // destination for REPL output (default os.Stdout)
}

// NewSession creates a session for the given engine. A nil logger discards
// output.
func NewSession(engine string, rl *readline.Instance, logger hclog.Logger) *Session {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	s := &Session{
		rl:     rl,
		logger: logger,
		out:    os.Stdout,
	}
	s.setEngine(engine)
	s.initCommands()
	return s
}

func (s *Session) setEngine(engine string) {
	if !isValidEngine(engine) {
		engine = dialects.EngineMySQL
	}
	s.engine = engine
	s.rebuild()
}

// rebuild recreates the builder after the engine, block mode or connection
// changes. A live connection of the same engine supplies the detected
// dialect.
func (s *Session) rebuild() {
	var d dialects.Dialect
	if s.conn != nil && s.conn.engine == s.engine {
		d = s.conn.dialect
	} else {
		d, _ = dialects.ForEngine(s.engine)
	}
	opts := []builder.Option{
		builder.WithDialect(d),
		builder.WithLogger(s.logger.Named("builder")),
	}
	if s.scoped {
		opts = append(opts, builder.WithScopedBlocks())
	}
	s.builder = builder.New(opts...)
}

// GenerateSQL builds the current template with the current arguments.
func (s *Session) GenerateSQL() (string, error) {
	if s.template == "" {
		return "", errNoTemplate
	}
	return s.builder.BuildValues(s.template, s.args)
}

// Execute parses and runs a single REPL command.
func (s *Session) Execute(line string) error {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}
	lower := strings.ToLower(line)

	for _, cmd := range s.commands {
		if strings.HasSuffix(cmd.prefix, " ") {
			if strings.HasPrefix(lower, cmd.prefix) {
				return cmd.handler(line[len(cmd.prefix):])
			}
		} else {
			if lower == cmd.prefix {
				return cmd.handler("")
			}
		}
	}

	word := strings.Fields(line)[0]
	return fmt.Errorf("unknown command: %s (type 'help' for commands)", word)
}

// --- Command handlers ---

func (s *Session) cmdTemplate(args string) error {
	src := strings.TrimSpace(args)
	if src == "" {
		return errors.New("usage: template <sql>")
	}
	t := template.Parse(src)
	s.template = src
	_, _ = fmt.Fprintf(s.out, "  Template set (%d placeholders, %d blocks)\n", t.Placeholders(), t.Blocks())
	return nil
}

func (s *Session) cmdArg(args string) error {
	if strings.TrimSpace(args) == "" {
		return errors.New("usage: arg <value>")
	}
	v, err := parseValue(args)
	if err != nil {
		return err
	}
	s.args = append(s.args, v)
	_, _ = fmt.Fprintf(s.out, "  $%d = %s\n", len(s.args), formatArg(v))
	return nil
}

func (s *Session) cmdArgs(args string) error {
	parts := splitTopLevelCommas(args)
	if len(parts) == 0 {
		return errors.New("usage: args <value>, <value>, ...")
	}
	parsed := make([]values.Value, 0, len(parts))
	for i, p := range parts {
		v, err := parseValue(p)
		if err != nil {
			return fmt.Errorf("argument %d: %w", i+1, err)
		}
		parsed = append(parsed, v)
	}
	s.args = parsed
	_, _ = fmt.Fprintf(s.out, "  %d arguments set\n", len(s.args))
	return nil
}

func (s *Session) cmdSkip() error {
	s.args = append(s.args, values.Skip())
	_, _ = fmt.Fprintf(s.out, "  $%d = SKIP\n", len(s.args))
	return nil
}

func (s *Session) cmdClear() error {
	s.args = nil
	_, _ = fmt.Fprintln(s.out, "  Arguments cleared")
	return nil
}

func (s *Session) cmdShow() error {
	mode := "global"
	if s.scoped {
		mode = "scoped"
	}
	_, _ = fmt.Fprintf(s.out, "  Engine:   %s (blocks: %s)\n", s.engine, mode)
	if s.template == "" {
		_, _ = fmt.Fprintln(s.out, "  Template: (none)")
	} else {
		t := template.Parse(s.template)
		_, _ = fmt.Fprintf(s.out, "  Template: %s\n", s.template)
		_, _ = fmt.Fprintf(s.out, "            %d placeholders, %d blocks\n", t.Placeholders(), t.Blocks())
	}
	if len(s.args) == 0 {
		_, _ = fmt.Fprintln(s.out, "  Args:     (none)")
		return nil
	}
	_, _ = fmt.Fprintln(s.out, "  Args:")
	for i, v := range s.args {
		_, _ = fmt.Fprintf(s.out, "    $%d = %s\n", i+1, formatArg(v))
	}
	return nil
}

func (s *Session) cmdSQL() error {
	sql, err := s.GenerateSQL()
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(s.out, "  %s\n", sql)
	return nil
}

func (s *Session) cmdEngine(args string) error {
	name := strings.TrimSpace(strings.ToLower(args))
	if !isValidEngine(name) {
		return fmt.Errorf("unknown engine %q (choose: %s)", name, strings.Join(dialects.Engines, ", "))
	}
	s.setEngine(name)
	_, _ = fmt.Fprintf(s.out, "  Engine set to %s\n", s.engine)
	return nil
}

func (s *Session) cmdBlocks(args string) error {
	switch strings.TrimSpace(strings.ToLower(args)) {
	case "global":
		s.scoped = false
	case "scoped":
		s.scoped = true
	default:
		return errors.New("usage: blocks global|scoped")
	}
	s.rebuild()
	_, _ = fmt.Fprintf(s.out, "  Block mode set to %s\n", strings.TrimSpace(strings.ToLower(args)))
	return nil
}

func (s *Session) cmdConnect(args string) error {
	dsn := strings.TrimSpace(args)

	if s.conn != nil {
		return fmt.Errorf("already connected to %s (use 'disconnect' first)", sanitizeDSN(s.conn.dsn))
	}

	if dsn != "" {
		return s.connectWithDSN(dsn)
	}

	// Interactive: offer reconnect if we have a previous DSN, otherwise wizard.
	if s.lastDSN != "" {
		choice := prompt(s.rl, fmt.Sprintf("Reconnect to %s? (y/n/setup)", sanitizeDSN(s.lastDSN)), "y")
		switch strings.ToLower(choice) {
		case "y", "yes":
			return s.connectWithDSN(s.lastDSN)
		case "s", "setup":
			return s.connectViaWizard()
		default:
			_, _ = fmt.Fprintln(s.out, "  Connect cancelled")
			return nil
		}
	}

	return s.connectViaWizard()
}

func (s *Session) connectWithDSN(dsn string) error {
	ctx, cancel := context.WithTimeout(context.Background(), execTimeout)
	defer cancel()

	conn, err := connect(ctx, s.engine, dsn)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	s.conn = conn
	s.lastDSN = dsn
	s.rebuild()
	s.logger.Debug("connected", "engine", s.engine, "dsn", sanitizeDSN(dsn))
	_, _ = fmt.Fprintf(s.out, "  Connected to %s (%s)\n", sanitizeDSN(dsn), s.engine)
	return nil
}

func (s *Session) connectViaWizard() error {
	if s.rl == nil {
		return errors.New("usage: connect <dsn>")
	}
	dsn := buildDSN(s.rl, s.engine)
	if dsn == "" {
		_, _ = fmt.Fprintln(s.out, "  No connection configured")
		return nil
	}

	_, _ = fmt.Fprintf(s.out, "  DSN: %s\n", sanitizeDSN(dsn))
	return s.connectWithDSN(dsn)
}

func (s *Session) cmdDisconnect() error {
	if s.conn == nil {
		return errors.New("not connected")
	}
	dsn := sanitizeDSN(s.conn.dsn)
	if err := s.conn.close(); err != nil {
		return fmt.Errorf("disconnect: %w", err)
	}
	s.conn = nil
	s.rebuild()
	_, _ = fmt.Fprintf(s.out, "  Disconnected from %s\n", dsn)
	return nil
}

// cmdExec builds the current template and runs it on the connection.
func (s *Session) cmdExec() error {
	if s.conn == nil {
		return errors.New("not connected (use 'connect <dsn>' first)")
	}

	if s.conn.engine != s.engine {
		_, _ = fmt.Fprintf(s.out, "  Warning: connected to %s but engine is set to %s\n", s.conn.engine, s.engine)
	}

	sqlStr, err := s.GenerateSQL()
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(s.out, "  %s;\n", sqlStr)

	ctx, cancel := context.WithTimeout(context.Background(), execTimeout)
	defer cancel()
	result, err := s.conn.execQuery(ctx, sqlStr)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprint(s.out, result)
	return nil
}

func (s *Session) cmdTables() error {
	if s.conn == nil {
		return errors.New("not connected (use 'connect <dsn>' first)")
	}
	ctx, cancel := context.WithTimeout(context.Background(), execTimeout)
	defer cancel()
	if err := s.conn.loadSchema(ctx); err != nil {
		return fmt.Errorf("tables: %w", err)
	}
	tables := s.conn.schemaTables()
	if len(tables) == 0 {
		_, _ = fmt.Fprintln(s.out, "  No tables")
		return nil
	}
	for _, name := range tables {
		_, _ = fmt.Fprintf(s.out, "  table: %s\n", name)
	}
	return nil
}

func (s *Session) cmdReset() error {
	s.template = ""
	s.args = nil
	_, _ = fmt.Fprintln(s.out, "  Template and arguments cleared")
	return nil
}

func (s *Session) cmdHelp() {
	_, _ = fmt.Fprintln(s.out, `
  Templates:
    template <sql>            Set the query template
    arg <value>               Append an argument
    args <v1>, <v2>, ...      Replace all arguments
    skip                      Append the skip value (drops {...} blocks)
    clear                     Remove all arguments
    show                      Show the template and arguments
    sql                       Build and print the SQL
    build                     Alias for sql
    reset                     Clear the template and arguments

  Placeholders:
    ?                         Escaped value (string, number, bool, NULL)
    ?d                        Integer
    ?f                        Float
    ?a                        List of values, comma separated
    ?#                        Identifier or list of identifiers
    { ... }                   Conditional block, removed when SKIP is passed

  Values:
    NULL  true  false  SKIP  42  -1.5  'O''Brien'  [1, 'a', NULL]
    Bare words are taken as strings.

  Settings:
    engine <name>             Switch dialect (mysql, postgres, sqlite)
    blocks global|scoped      global: one SKIP drops every block
                              scoped: drop only blocks holding a SKIP

  Database:
    connect [dsn]             Connect (wizard when no DSN is given)
    disconnect                Close the connection
    exec                      Build and run the SQL
    run                       Alias for exec
    tables                    List tables in the connected database

    help                      Show this help
    exit / quit               Leave the REPL`)
}
