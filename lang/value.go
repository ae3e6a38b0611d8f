package lang

import (
	"math"
	"strconv"
	"strings"
)

// Value is a runtime value of the coral language.
//
// The set of implementations is closed: [Integer], [Float], [String],
// [Boolean], [Null] and [*Func].
type Value interface {
	// Display returns the canonical text printed for the value.
	Display() string
	// Type returns the name of the value's type.
	Type() string

	value()
}

type (
	Integer int64
	Float   float64
	String  string
	Boolean bool
	Null    struct{}
)

// Func is a user-defined function together with the scope it was defined in.
type Func struct {
	Scope  *Namespace
	Name   string
	Params []string
	Body   []Statement
}

// Arity returns the number of declared parameters.
func (f *Func) Arity() int { return len(f.Params) }

func (Integer) value() {}
func (Float) value()   {}
func (String) value()  {}
func (Boolean) value() {}
func (Null) value()    {}
func (*Func) value()   {}

func (Integer) Type() string { return "integer" }
func (Float) Type() string   { return "float" }
func (String) Type() string  { return "string" }
func (Boolean) Type() string { return "boolean" }
func (Null) Type() string    { return "null" }
func (*Func) Type() string   { return "func" }

func (v Integer) Display() string { return strconv.FormatInt(int64(v), 10) }
func (v String) Display() string  { return string(v) }
func (v Boolean) Display() string { return strconv.FormatBool(bool(v)) }
func (Null) Display() string      { return "null" }
func (f *Func) Display() string   { return "<func " + f.Name + ">" }

// Display formats v in the shortest form that reads back as the same float.
// Integral values keep a trailing ".0" so they remain distinguishable from
// integers.
func (v Float) Display() string {
	f := float64(v)

	switch {
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	case math.IsNaN(f):
		return "nan"
	}

	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}

	return s
}

// Truthy reports whether v counts as true in a condition. Zero numbers, the
// empty string, false and null are falsy; everything else is truthy.
func Truthy(v Value) bool {
	switch v := v.(type) {
	case Integer:
		return v != 0
	case Float:
		return v != 0
	case String:
		return v != ""
	case Boolean:
		return bool(v)
	case Null, nil:
		return false
	default:
		return true
	}
}
