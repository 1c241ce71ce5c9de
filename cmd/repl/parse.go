package main

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/bawdo/sqlplate/values"
)

// parseValue reads one argument literal as typed at the prompt:
//
//	NULL, true, false, SKIP, 'quoted text', 42, -1.5, [1, 'a', NULL]
//
// Keywords are case-insensitive. Inside quotes '' is a literal quote.
// Bare words that match nothing else are taken as strings so that
// identifiers can be typed without quotes.
func parseValue(input string) (values.Value, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return nil, errors.New("empty value")
	}

	switch strings.ToUpper(s) {
	case "NULL":
		return values.Null{}, nil
	case "TRUE":
		return values.Bool(true), nil
	case "FALSE":
		return values.Bool(false), nil
	case "SKIP":
		return values.Skip(), nil
	}

	switch s[0] {
	case '\'':
		return parseQuoted(s)
	case '[':
		return parseList(s)
	}

	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return values.Int(i), nil
	} else if errors.Is(err, strconv.ErrRange) {
		d, derr := decimal.NewFromString(s)
		if derr != nil {
			return nil, fmt.Errorf("invalid number %q: %w", s, derr)
		}
		return values.NewDecimal(d), nil
	}

	if f, err := strconv.ParseFloat(s, 64); err == nil {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, fmt.Errorf("non-finite number %q", s)
		}
		return values.Float(f), nil
	}

	return values.String(s), nil
}

func parseQuoted(s string) (values.Value, error) {
	if len(s) < 2 || s[len(s)-1] != '\'' {
		return nil, fmt.Errorf("unterminated string %s", s)
	}
	body := s[1 : len(s)-1]
	var sb strings.Builder
	for i := 0; i < len(body); i++ {
		ch := body[i]
		if ch == '\'' {
			if i+1 < len(body) && body[i+1] == '\'' {
				i++
			} else {
				return nil, fmt.Errorf("unescaped quote in %s (use '')", s)
			}
		}
		sb.WriteByte(ch)
	}
	return values.String(sb.String()), nil
}

func parseList(s string) (values.Value, error) {
	if s[len(s)-1] != ']' {
		return nil, fmt.Errorf("unterminated list %s", s)
	}
	body := strings.TrimSpace(s[1 : len(s)-1])
	if body == "" {
		return values.List{}, nil
	}
	parts := splitTopLevelCommas(body)
	list := make(values.List, 0, len(parts))
	for i, p := range parts {
		v, err := parseValue(p)
		if err != nil {
			return nil, fmt.Errorf("list element %d: %w", i, err)
		}
		if !values.IsScalar(v) {
			return nil, fmt.Errorf("list element %d: lists hold scalars only", i)
		}
		list = append(list, v)
	}
	return list, nil
}

// formatArg renders v in the form parseValue accepts.
func formatArg(v values.Value) string {
	switch x := v.(type) {
	case nil, values.Null:
		return "NULL"
	case values.Bool:
		return strconv.FormatBool(bool(x))
	case values.Int:
		return strconv.FormatInt(int64(x), 10)
	case values.Float:
		s := strconv.FormatFloat(float64(x), 'g', -1, 64)
		if !strings.ContainsAny(s, ".eE") {
			s += ".0"
		}
		return s
	case values.Decimal:
		return x.String()
	case values.String:
		return "'" + strings.ReplaceAll(string(x), "'", "''") + "'"
	case values.List:
		parts := make([]string, len(x))
		for i, item := range x {
			parts[i] = formatArg(item)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	}
	if values.IsSkip(v) {
		return "SKIP"
	}
	return fmt.Sprintf("<%s>", v.Kind())
}

// splitTopLevelCommas splits s on commas outside quotes and brackets, so
// list elements like 'a, b' and nested brackets stay intact.
func splitTopLevelCommas(s string) []string {
	var parts []string
	var cur strings.Builder
	depth := 0
	inQuote := false
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch {
		case inQuote:
			if ch == '\'' {
				if i+1 < len(s) && s[i+1] == '\'' {
					cur.WriteByte(ch)
					i++
				} else {
					inQuote = false
				}
			}
			cur.WriteByte(ch)
		case ch == '\'':
			inQuote = true
			cur.WriteByte(ch)
		case ch == '[':
			depth++
			cur.WriteByte(ch)
		case ch == ']':
			depth--
			cur.WriteByte(ch)
		case ch == ',' && depth == 0:
			parts = append(parts, cur.String())
			cur.Reset()
		default:
			cur.WriteByte(ch)
		}
	}
	if cur.Len() > 0 || len(parts) > 0 {
		parts = append(parts, cur.String())
	}
	return parts
}
