package main

import (
	"sort"
	"strings"

	"github.com/bawdo/sqlplate/dialects"
)

// completionContext describes what kind of completion is appropriate.
type completionContext int

const (
	contextCommand completionContext = iota // start of line or partial command
	contextValue                            // after arg/args
	contextEngine                           // after engine
	contextBlocks                           // after blocks
)

var blockModes = []string{"global", "scoped"}
var valueKeywords = []string{"NULL", "SKIP", "false", "true"}

// replCompleter implements readline's AutoCompleter interface.
type replCompleter struct {
	sess *Session
}

// Do returns completion candidates for the current line/cursor position.
// length is the number of chars from end of line[:pos] that form the prefix being completed.
// newLine contains the suffixes to append for each candidate.
func (c *replCompleter) Do(line []rune, pos int) (newLine [][]rune, length int) {
	lineStr := string(line[:pos])
	ctx, prefix := c.parseContext(lineStr)

	var candidates []string
	switch ctx {
	case contextCommand:
		candidates = filterPrefix(c.sess.commandNames(), prefix)
	case contextValue:
		candidates = c.completeValues(prefix)
	case contextEngine:
		candidates = filterPrefix(dialects.Engines, prefix)
	case contextBlocks:
		candidates = filterPrefix(blockModes, prefix)
	}

	for _, cand := range candidates {
		suffix := cand[len(prefix):]
		newLine = append(newLine, []rune(suffix+" "))
	}
	length = len([]rune(prefix))
	return
}

// parseContext examines the line up to cursor and determines what kind of
// completion is needed and the current prefix being typed.
func (c *replCompleter) parseContext(line string) (completionContext, string) {
	lower := strings.ToLower(line)

	for _, cmd := range c.sess.commands {
		if !strings.HasSuffix(cmd.prefix, " ") {
			continue // exact-match commands have no arg completion
		}
		if strings.HasPrefix(lower, cmd.prefix) && cmd.completer != nil {
			return cmd.completer(line[len(cmd.prefix):])
		}
	}

	return contextCommand, strings.TrimSpace(line)
}

// completeValues offers value keywords and, when connected, table names
// for use with ?#.
func (c *replCompleter) completeValues(prefix string) []string {
	names := append([]string(nil), valueKeywords...)
	if c.sess.conn != nil {
		tables := append([]string(nil), c.sess.conn.schemaTables()...)
		sort.Strings(tables)
		names = append(names, tables...)
	}
	return filterPrefix(dedup(names), prefix)
}

// filterPrefix returns items that start with prefix (case-insensitive).
func filterPrefix(items []string, prefix string) []string {
	if prefix == "" {
		result := make([]string, len(items))
		copy(result, items)
		return result
	}
	lowerPrefix := strings.ToLower(prefix)
	var result []string
	for _, item := range items {
		if strings.HasPrefix(strings.ToLower(item), lowerPrefix) {
			result = append(result, item)
		}
	}
	return result
}

// dedup removes duplicate strings.
func dedup(items []string) []string {
	seen := make(map[string]bool, len(items))
	var result []string
	for _, item := range items {
		if !seen[item] {
			seen[item] = true
			result = append(result, item)
		}
	}
	return result
}

// lastToken returns the last whitespace-separated token, handling commas.
func lastToken(s string) string {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == ' ' || s[i] == ',' || s[i] == '\t' {
			return s[i+1:]
		}
	}
	return s
}
