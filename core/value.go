package core

import (
	"fmt"
	"strconv"
	"strings"
)

// VarType is the declared type of a variable.
type VarType string

// Variable types.
const (
	Bool VarType = "BOOL"
	Int  VarType = "INT"
	Real VarType = "REAL"
	Time VarType = "TIME"
)

// ParseVarType parses a variable type name, case-insensitively.
func ParseVarType(s string) (VarType, error) {
	switch t := VarType(strings.ToUpper(strings.TrimSpace(s))); t {
	case Bool, Int, Real, Time:
		return t, nil
	default:
		return "", fmt.Errorf("unknown variable type %q", s)
	}
}

type valueKind uint8

const (
	kindBool valueKind = iota
	kindNumber
	kindText
)

// Value is a variable value or the result of evaluating an element: a
// boolean, a number or, for TIME variables, a literal string.
type Value struct {
	kind valueKind
	b    bool
	n    float64
	s    string
}

// BoolValue wraps a boolean.
func BoolValue(b bool) Value {
	return Value{kind: kindBool, b: b}
}

// NumberValue wraps a number.
func NumberValue(n float64) Value {
	return Value{kind: kindNumber, n: n}
}

// TextValue wraps a literal such as a TIME value "T#5s".
func TextValue(s string) Value {
	return Value{kind: kindText, s: s}
}

// IsNumber reports whether v holds a number.
func (v Value) IsNumber() bool {
	return v.kind == kindNumber
}

// IsBool reports whether v holds a boolean.
func (v Value) IsBool() bool {
	return v.kind == kindBool
}

// Bool is the truth value of v. Numbers are true when non-zero, text when
// non-empty.
func (v Value) Bool() bool {
	switch v.kind {
	case kindNumber:
		return v.n != 0
	case kindText:
		return v.s != ""
	default:
		return v.b
	}
}

// Number is the numeric value of v. Booleans are 1 or 0; TIME literals are
// their duration in milliseconds.
func (v Value) Number() float64 {
	switch v.kind {
	case kindBool:
		if v.b {
			return 1
		}
		return 0
	case kindText:
		if d, ok := ParseTimeLiteral(v.s); ok {
			return float64(d.Milliseconds())
		}
		f, err := strconv.ParseFloat(v.s, 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return v.n
	}
}

func (v Value) String() string {
	switch v.kind {
	case kindNumber:
		return strconv.FormatFloat(v.n, 'f', -1, 64)
	case kindText:
		return v.s
	default:
		if v.b {
			return "TRUE"
		}
		return "FALSE"
	}
}

// Interface returns the plain Go value: bool, float64 or string.
func (v Value) Interface() any {
	switch v.kind {
	case kindNumber:
		return v.n
	case kindText:
		return v.s
	default:
		return v.b
	}
}

// ParseValue parses text as a value of type t.
func ParseValue(text string, t VarType) (Value, error) {
	text = strings.TrimSpace(text)

	switch t {
	case Bool:
		switch strings.ToUpper(text) {
		case "TRUE", "1", "ON":
			return BoolValue(true), nil
		case "FALSE", "0", "OFF":
			return BoolValue(false), nil
		}
		return Value{}, fmt.Errorf("invalid BOOL value %q", text)
	case Int:
		n, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return Value{}, fmt.Errorf("invalid INT value %q: %w", text, err)
		}
		return NumberValue(float64(n)), nil
	case Real:
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return Value{}, fmt.Errorf("invalid REAL value %q: %w", text, err)
		}
		return NumberValue(f), nil
	case Time:
		if _, ok := ParseTimeLiteral(text); !ok {
			return Value{}, fmt.Errorf("invalid TIME value %q", text)
		}
		return TextValue(text), nil
	default:
		return Value{}, fmt.Errorf("unknown variable type %q", t)
	}
}

// InferValue guesses the type of a literal: booleans, integers, reals and
// T# time literals.
func InferValue(text string) (Value, VarType, error) {
	for _, t := range []VarType{Bool, Int, Real, Time} {
		if v, err := ParseValue(text, t); err == nil {
			if t == Bool && (text == "0" || text == "1") {
				continue
			}
			return v, t, nil
		}
	}
	return Value{}, "", fmt.Errorf("cannot infer the type of %q", text)
}

// coerce converts v to the representation of type t.
func coerce(v Value, t VarType) Value {
	switch t {
	case Bool:
		return BoolValue(v.Bool())
	case Int:
		return NumberValue(float64(int64(v.Number())))
	case Real:
		return NumberValue(v.Number())
	default:
		return v
	}
}
