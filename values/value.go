// Package values defines the argument values a template is built with.
//
// Value is a closed set of variants: Null, Bool, Int, Float, Decimal, String,
// List and the skip sentinel returned by Skip. Formatters switch over the
// concrete types; no other package can add a variant.
package values

import (
	"github.com/shopspring/decimal"
)

// Kind identifies the variant held by a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindDecimal
	KindString
	KindList
	KindSkip
)

var kindNames = [...]string{
	KindNull:    "null",
	KindBool:    "bool",
	KindInt:     "int",
	KindFloat:   "float",
	KindDecimal: "decimal",
	KindString:  "string",
	KindList:    "list",
	KindSkip:    "skip",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Value is a single template argument.
type Value interface {
	Kind() Kind
	sealed()
}

// Null is SQL NULL.
type Null struct{}

// Bool is a boolean value.
type Bool bool

// Int is a signed integer value.
type Int int64

// Float is a floating point value.
type Float float64

// Decimal is an exact numeric value.
type Decimal struct {
	decimal.Decimal
}

// String is a text value. It is always rendered as a quoted, escaped literal.
type String string

// List is an ordered list of scalar values, used by ?a and ?#.
type List []Value

type skipValue struct{}

func (Null) Kind() Kind      { return KindNull }
func (Bool) Kind() Kind      { return KindBool }
func (Int) Kind() Kind       { return KindInt }
func (Float) Kind() Kind     { return KindFloat }
func (Decimal) Kind() Kind   { return KindDecimal }
func (String) Kind() Kind    { return KindString }
func (List) Kind() Kind      { return KindList }
func (skipValue) Kind() Kind { return KindSkip }

func (Null) sealed()      {}
func (Bool) sealed()      {}
func (Int) sealed()       {}
func (Float) sealed()     {}
func (Decimal) sealed()   {}
func (String) sealed()    {}
func (List) sealed()      {}
func (skipValue) sealed() {}

// Skip returns the sentinel that marks conditional blocks for removal.
// Every call returns the same value and Skip() == Skip() holds.
func Skip() Value {
	return skipValue{}
}

// IsSkip reports whether v is the skip sentinel. Prefer it over ==, since
// comparing an interface holding a List panics.
func IsSkip(v Value) bool {
	_, ok := v.(skipValue)
	return ok
}

// IsScalar reports whether v may appear as a List element.
func IsScalar(v Value) bool {
	switch v.(type) {
	case List, skipValue:
		return false
	}
	return v != nil
}

// NewDecimal wraps d as a Value.
func NewDecimal(d decimal.Decimal) Decimal {
	return Decimal{Decimal: d}
}

// ContainsSkip reports whether the sentinel appears anywhere in args.
func ContainsSkip(args []Value) bool {
	for _, a := range args {
		if IsSkip(a) {
			return true
		}
	}
	return false
}

// At returns args[i], or Null when i is past the end.
func At(args []Value, i int) Value {
	if i < 0 || i >= len(args) || args[i] == nil {
		return Null{}
	}
	return args[i]
}
