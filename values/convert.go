package values

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"math"
	"math/big"
	"reflect"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrUnsupported is returned by Of for Go values with no Value mapping.
var ErrUnsupported = errors.New("unsupported argument type")

// TimeLayout is the text form used for time.Time arguments.
const TimeLayout = "2006-01-02 15:04:05.999999"

// Of converts a Go value to a Value.
//
// Supported: nil, Value, bool, signed and unsigned integers, floats,
// string, []byte, decimal.Decimal, uuid.UUID, time.Time, driver.Valuer,
// pointers to any of these (nil pointers are Null) and slices or arrays of
// scalars, which become a List.
func Of(v any) (Value, error) {
	if rv := reflect.ValueOf(v); rv.Kind() == reflect.Pointer && rv.IsNil() {
		return Null{}, nil
	}
	switch x := v.(type) {
	case nil:
		return Null{}, nil
	case Value:
		return x, nil
	case bool:
		return Bool(x), nil
	case int:
		return Int(x), nil
	case int8:
		return Int(x), nil
	case int16:
		return Int(x), nil
	case int32:
		return Int(x), nil
	case int64:
		return Int(x), nil
	case uint:
		return ofUint(uint64(x)), nil
	case uint8:
		return Int(x), nil
	case uint16:
		return Int(x), nil
	case uint32:
		return Int(x), nil
	case uint64:
		return ofUint(x), nil
	case float32:
		return ofFloat32(x), nil
	case float64:
		return Float(x), nil
	case string:
		return String(x), nil
	case []byte:
		return String(x), nil
	case decimal.Decimal:
		return NewDecimal(x), nil
	case uuid.UUID:
		return String(x.String()), nil
	case time.Time:
		return String(x.Format(TimeLayout)), nil
	case []any:
		return listOf(len(x), func(i int) any { return x[i] })
	case []string:
		l := make(List, len(x))
		for i, s := range x {
			l[i] = String(s)
		}
		return l, nil
	case driver.Valuer:
		dv, err := x.Value()
		if err != nil {
			return nil, fmt.Errorf("driver value: %w", err)
		}
		if _, again := dv.(driver.Valuer); again {
			return nil, fmt.Errorf("%w: %T", ErrUnsupported, v)
		}
		return Of(dv)
	}
	return ofReflect(v)
}

// OfAll converts every element of args with Of.
func OfAll(args []any) ([]Value, error) {
	out := make([]Value, len(args))
	for i, a := range args {
		v, err := Of(a)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i, err)
		}
		out[i] = v
	}
	return out, nil
}

// ofUint keeps values above MaxInt64 exact by promoting them to Decimal.
// ofFloat32 keeps the shortest decimal form of a float32, so 0.1 stays 0.1
// rather than its widened float64 expansion.
func ofFloat32(f float32) Value {
	if math.IsNaN(float64(f)) || math.IsInf(float64(f), 0) {
		return Float(f)
	}
	w, _ := strconv.ParseFloat(strconv.FormatFloat(float64(f), 'g', -1, 32), 64)
	return Float(w)
}

func ofUint(u uint64) Value {
	if u > math.MaxInt64 {
		return NewDecimal(decimal.NewFromBigInt(new(big.Int).SetUint64(u), 0))
	}
	return Int(u)
}

func ofReflect(v any) (Value, error) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer:
		return Of(rv.Elem().Interface())
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return List{}, nil
		}
		return listOf(rv.Len(), func(i int) any { return rv.Index(i).Interface() })
	case reflect.String:
		return String(rv.String()), nil
	case reflect.Bool:
		return Bool(rv.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Int(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return ofUint(rv.Uint()), nil
	case reflect.Float32:
		return ofFloat32(float32(rv.Float())), nil
	case reflect.Float64:
		return Float(rv.Float()), nil
	}
	return nil, fmt.Errorf("%w: %T", ErrUnsupported, v)
}

func listOf(n int, at func(int) any) (Value, error) {
	l := make(List, n)
	for i := range l {
		item, err := Of(at(i))
		if err != nil {
			return nil, fmt.Errorf("list element %d: %w", i, err)
		}
		if !IsScalar(item) {
			return nil, fmt.Errorf("list element %d: %w: nested %s", i, ErrUnsupported, item.Kind())
		}
		l[i] = item
	}
	return l, nil
}
