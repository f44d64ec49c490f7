package entities

import (
	"encoding/json"
	"math"
	"strconv"
)

// epsilon is the difference between 1.0 and the next representable float64.
var epsilon = math.Nextafter(1, 2) - 1

type ValueKind uint8

const (
	// ValueNull marks a property that is present on a feature but carries no value.
	ValueNull ValueKind = iota
	ValueString
	ValueNumber
	ValueBool
)

func (k ValueKind) String() string {
	switch k {
	case ValueString:
		return "string"
	case ValueNumber:
		return "number"
	case ValueBool:
		return "boolean"
	default:
		return "null"
	}
}

// Value is a feature property or a filter literal.
type Value struct {
	Kind ValueKind
	Str  string
	Num  float64
	Bool bool
}

func StringValue(s string) Value {
	return Value{Kind: ValueString, Str: s}
}

func NumberValue(n float64) Value {
	return Value{Kind: ValueNumber, Num: n}
}

func BoolValue(b bool) Value {
	return Value{Kind: ValueBool, Bool: b}
}

// Equals compares values of the same kind. Numbers are equal when they differ
// by less than machine epsilon. Null never equals anything.
func (v Value) Equals(other Value) bool {
	if v.Kind != other.Kind {
		return false
	}

	switch v.Kind {
	case ValueString:
		return v.Str == other.Str
	case ValueNumber:
		return math.Abs(v.Num-other.Num) < epsilon
	case ValueBool:
		return v.Bool == other.Bool
	default:
		return false
	}
}

func (v Value) String() string {
	switch v.Kind {
	case ValueString:
		return strconv.Quote(v.Str)
	case ValueNumber:
		return strconv.FormatFloat(v.Num, 'g', -1, 64)
	case ValueBool:
		return strconv.FormatBool(v.Bool)
	default:
		return "null"
	}
}

// ValueOf converts a decoded scalar into a Value. The second return is false
// for nil and for anything that is not a string, number or boolean.
func ValueOf(raw any) (Value, bool) {
	switch v := raw.(type) {
	case string:
		return StringValue(v), true
	case bool:
		return BoolValue(v), true
	case float64:
		return NumberValue(v), true
	case float32:
		return NumberValue(float64(v)), true
	case int:
		return NumberValue(float64(v)), true
	case int8:
		return NumberValue(float64(v)), true
	case int16:
		return NumberValue(float64(v)), true
	case int32:
		return NumberValue(float64(v)), true
	case int64:
		return NumberValue(float64(v)), true
	case uint:
		return NumberValue(float64(v)), true
	case uint8:
		return NumberValue(float64(v)), true
	case uint16:
		return NumberValue(float64(v)), true
	case uint32:
		return NumberValue(float64(v)), true
	case uint64:
		return NumberValue(float64(v)), true
	case json.Number:
		n, err := v.Float64()
		if err != nil {
			return Value{}, false
		}
		return NumberValue(n), true
	default:
		return Value{}, false
	}
}
