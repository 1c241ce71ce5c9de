package main

import (
	"sort"
	"strings"
)

// commandEntry maps a REPL prefix to its handler and optional tab-completer.
type commandEntry struct {
	prefix    string
	handler   func(args string) error
	completer func(args string) (completionContext, string) // nil = no arg completion
	hidden    bool                                          // excluded from commandNames()
}

// initCommands builds the command registry and sorts by prefix length descending.
func (s *Session) initCommands() {
	s.commands = []commandEntry{
		// --- display ---
		{prefix: "sql", handler: func(_ string) error { return s.cmdSQL() }},
		{prefix: "build", handler: func(_ string) error { return s.cmdSQL() }},
		{prefix: "show", handler: func(_ string) error { return s.cmdShow() }},
		{prefix: "reset", handler: func(_ string) error { return s.cmdReset() }},
		{prefix: "help", handler: func(_ string) error { s.cmdHelp(); return nil }},

		// --- template and arguments ---
		{prefix: "template ", handler: func(a string) error { return s.cmdTemplate(a) }},
		{prefix: "tpl ", handler: func(a string) error { return s.cmdTemplate(a) }, hidden: true},
		{prefix: "arg ", handler: func(a string) error { return s.cmdArg(a) }, completer: completeValueArgs},
		{prefix: "args ", handler: func(a string) error { return s.cmdArgs(a) }, completer: completeValueArgs},
		{prefix: "skip", handler: func(_ string) error { return s.cmdSkip() }},
		{prefix: "clear", handler: func(_ string) error { return s.cmdClear() }},

		// --- settings ---
		{prefix: "engine ", handler: func(a string) error { return s.cmdEngine(a) }, completer: completeEngineArgs},
		{prefix: "blocks ", handler: func(a string) error { return s.cmdBlocks(a) }, completer: completeBlocksArgs},

		// --- database connectivity ---
		{prefix: "connect ", handler: func(a string) error { return s.cmdConnect(a) }},
		{prefix: "connect", handler: func(_ string) error { return s.cmdConnect("") }},
		{prefix: "disconnect", handler: func(_ string) error { return s.cmdDisconnect() }},
		{prefix: "exec", handler: func(_ string) error { return s.cmdExec() }},
		{prefix: "run", handler: func(_ string) error { return s.cmdExec() }},
		{prefix: "tables", handler: func(_ string) error { return s.cmdTables() }},
	}

	// Sort by prefix length descending so longest prefixes match first.
	sort.SliceStable(s.commands, func(i, j int) bool {
		return len(s.commands[i].prefix) > len(s.commands[j].prefix)
	})
}

// commandNames derives the command name list from the registry for tab completion.
func (s *Session) commandNames() []string {
	seen := make(map[string]bool)
	var names []string
	for _, cmd := range s.commands {
		if cmd.hidden {
			continue
		}
		name := strings.TrimRight(cmd.prefix, " ")
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	// exit/quit are handled by the REPL loop, not Execute().
	for _, extra := range []string{"exit", "quit"} {
		if !seen[extra] {
			names = append(names, extra)
		}
	}
	sort.Strings(names)
	return names
}

// --- Shared completion helpers ---

// completeValueArgs completes the value being typed after arg/args:
// keywords and, when connected, table names.
func completeValueArgs(args string) (completionContext, string) {
	return contextValue, lastToken(strings.TrimLeft(args, "["))
}

// completeEngineArgs handles completion for the engine command.
func completeEngineArgs(args string) (completionContext, string) {
	return contextEngine, strings.TrimSpace(args)
}

// completeBlocksArgs handles completion for the blocks command.
func completeBlocksArgs(args string) (completionContext, string) {
	return contextBlocks, strings.TrimSpace(args)
}
