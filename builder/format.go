package builder

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/bawdo/sqlplate/dialects"
	"github.com/bawdo/sqlplate/values"
)

var (
	minIntDecimal = decimal.NewFromInt(math.MinInt64)
	maxIntDecimal = decimal.NewFromInt(math.MaxInt64)
)

// escapeValue renders a scalar as a SQL literal.
func escapeValue(b *Builder, v values.Value) (string, error) {
	switch x := v.(type) {
	case nil, values.Null:
		return "NULL", nil
	case values.Bool:
		return b.dialect.Bool(bool(x)), nil
	case values.Int:
		return formatInt(int64(x)), nil
	case values.Float:
		return formatFloat(float64(x))
	case values.Decimal:
		return x.String(), nil
	case values.String:
		return "'" + b.escaper.EscapeString(string(x)) + "'", nil
	case values.List:
		return "", ErrUnexpectedList
	}
	if values.IsSkip(v) {
		return "", ErrSkipOutsideBlock
	}
	return "", fmt.Errorf("unsupported value kind %s", v.Kind())
}

// formatList renders a list as comma separated literals for IN (...) and
// VALUES (...).
func formatList(b *Builder, v values.Value) (string, error) {
	l, ok := v.(values.List)
	if !ok {
		return "", fmt.Errorf("%w, got %s", ErrNotList, kindOf(v))
	}
	parts := make([]string, len(l))
	for i, item := range l {
		s, err := escapeValue(b, item)
		if err != nil {
			return "", fmt.Errorf("list element %d: %w", i, err)
		}
		parts[i] = s
	}
	return strings.Join(parts, ", "), nil
}

// formatIdentifiers quotes one name or a list of names. Integers are
// quoted as their decimal text, so positional names like `1` work.
func formatIdentifiers(d dialects.Dialect, v values.Value) (string, error) {
	if l, ok := v.(values.List); ok {
		parts := make([]string, len(l))
		for i, item := range l {
			name, ok := identifierText(item)
			if !ok {
				return "", fmt.Errorf("list element %d: %w, got %s", i, ErrInvalidIdentifier, kindOf(item))
			}
			parts[i] = d.QuoteIdentifier(name)
		}
		return strings.Join(parts, ", "), nil
	}
	name, ok := identifierText(v)
	if !ok {
		return "", fmt.Errorf("%w, got %s", ErrInvalidIdentifier, kindOf(v))
	}
	return d.QuoteIdentifier(name), nil
}

func identifierText(v values.Value) (string, bool) {
	switch x := v.(type) {
	case values.String:
		return string(x), true
	case values.Int:
		return formatInt(int64(x)), true
	}
	return "", false
}

func kindOf(v values.Value) values.Kind {
	if v == nil {
		return values.KindNull
	}
	return v.Kind()
}

func formatInt(i int64) string {
	return strconv.FormatInt(i, 10)
}

// formatFloat uses plain notation for ordinary magnitudes and exponent
// notation for very large or very small ones. Both are valid numeric
// literals in every supported engine.
func formatFloat(f float64) (string, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "", fmt.Errorf("%w: %v", ErrNonFinite, f)
	}
	if f == 0 {
		return "0", nil
	}
	if abs := math.Abs(f); abs >= 1e-6 && abs < 1e21 {
		return strconv.FormatFloat(f, 'f', -1, 64), nil
	}
	return strconv.FormatFloat(f, 'g', -1, 64), nil
}

// toInt coerces v for ?d. Anything without a numeric reading is 0.
func toInt(v values.Value) int64 {
	switch x := v.(type) {
	case values.Bool:
		if x {
			return 1
		}
		return 0
	case values.Int:
		return int64(x)
	case values.Float:
		return floatToInt(float64(x))
	case values.Decimal:
		t := x.Truncate(0)
		if t.LessThan(minIntDecimal) || t.GreaterThan(maxIntDecimal) {
			return 0
		}
		return t.IntPart()
	case values.String:
		return stringToInt(string(x))
	}
	return 0
}

// toFloat coerces v for ?f. Anything without a numeric reading is 0.
func toFloat(v values.Value) float64 {
	switch x := v.(type) {
	case values.Bool:
		if x {
			return 1
		}
		return 0
	case values.Int:
		return float64(x)
	case values.Float:
		return float64(x)
	case values.Decimal:
		return clampFloat(x.InexactFloat64())
	case values.String:
		prefix, _ := numericPrefix(string(x))
		if prefix == "" {
			return 0
		}
		f, _ := strconv.ParseFloat(prefix, 64)
		return clampFloat(f)
	}
	return 0
}

// clampFloat saturates a converted magnitude beyond float64 at the largest
// finite value, as ?d saturates numeric text.
func clampFloat(f float64) float64 {
	switch {
	case math.IsInf(f, 1):
		return math.MaxFloat64
	case math.IsInf(f, -1):
		return -math.MaxFloat64
	}
	return f
}

// floatToInt truncates toward zero. NaN, infinities and values outside the
// int64 range become 0.
func floatToInt(f float64) int64 {
	if math.IsNaN(f) || f >= math.MaxInt64 || f < math.MinInt64 {
		return 0
	}
	return int64(f)
}

// stringToInt reads the leading number of s. Unlike floats, numeric text
// beyond the int64 range saturates.
func stringToInt(s string) int64 {
	prefix, isFloat := numericPrefix(s)
	if prefix == "" {
		return 0
	}
	if !isFloat {
		n, _ := strconv.ParseInt(prefix, 10, 64)
		return n
	}
	f, _ := strconv.ParseFloat(prefix, 64)
	switch {
	case math.IsNaN(f):
		return 0
	case f >= math.MaxInt64:
		return math.MaxInt64
	case f <= math.MinInt64:
		return math.MinInt64
	}
	return int64(f)
}

// numericPrefix returns the longest leading decimal number in s after
// leading whitespace, and whether it has a fraction or exponent.
func numericPrefix(s string) (string, bool) {
	s = strings.TrimLeft(s, " \t\n\r\v\f")
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	start := i
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	intDigits := i - start
	isFloat := false
	if i < len(s) && s[i] == '.' {
		j := i + 1
		for j < len(s) && isDigit(s[j]) {
			j++
		}
		if intDigits > 0 || j > i+1 {
			isFloat = true
			i = j
		}
	}
	if intDigits == 0 && !isFloat {
		return "", false
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		k := j
		for k < len(s) && isDigit(s[k]) {
			k++
		}
		if k > j {
			isFloat = true
			i = k
		}
	}
	return s[:i], isFloat
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
