package table

import (
	"math"
	"strconv"
	"strings"
)

// Kind is the semantic type of a Value.
type Kind int

const (
	// KindNull marks a missing value.
	KindNull Kind = iota
	// KindNumber is a float64 value.
	KindNumber
	// KindString is a categorical/text value.
	KindString
	// KindBool is a boolean value.
	KindBool
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	default:
		return "unknown"
	}
}

// Value is a single table cell. The zero Value is null.
type Value struct {
	Kind Kind    `json:"kind"`
	Num  float64 `json:"num,omitempty"`
	Str  string  `json:"str,omitempty"`
	Bool bool    `json:"bool,omitempty"`
}

// Null returns the missing-value marker.
func Null() Value { return Value{} }

// Number returns a numeric Value. NaN is normalized to Null.
func Number(f float64) Value {
	if math.IsNaN(f) {
		return Null()
	}
	return Value{Kind: KindNumber, Num: f}
}

// String returns a categorical Value.
func String(s string) Value { return Value{Kind: KindString, Str: s} }

// Bool returns a boolean Value.
func Bool(b bool) Value { return Value{Kind: KindBool, Bool: b} }

// Int returns Number(float64(i)).
func Int(i int) Value { return Number(float64(i)) }

// IsNull reports whether v is missing.
func (v Value) IsNull() bool { return v.Kind == KindNull }

// Float returns the numeric payload. ok is false for non-numeric values.
func (v Value) Float() (f float64, ok bool) {
	if v.Kind != KindNumber {
		return 0, false
	}
	return v.Num, true
}

// Equal reports exact equality by kind and payload. Two nulls are equal.
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case KindNumber:
		return v.Num == o.Num
	case KindString:
		return v.Str == o.Str
	case KindBool:
		return v.Bool == o.Bool
	default:
		return true
	}
}

// Less orders values by kind (null < bool < number < string) and then by payload.
func (v Value) Less(o Value) bool {
	if v.Kind != o.Kind {
		return kindRank(v.Kind) < kindRank(o.Kind)
	}
	switch v.Kind {
	case KindNumber:
		return v.Num < o.Num
	case KindString:
		return v.Str < o.Str
	case KindBool:
		return !v.Bool && o.Bool
	default:
		return false
	}
}

func kindRank(k Kind) int {
	switch k {
	case KindNull:
		return 0
	case KindBool:
		return 1
	case KindNumber:
		return 2
	default:
		return 3
	}
}

// String renders v for output. Null renders as the empty string.
func (v Value) String() string {
	switch v.Kind {
	case KindNumber:
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	case KindString:
		return v.Str
	case KindBool:
		if v.Bool {
			return "True"
		}
		return "False"
	default:
		return ""
	}
}

// Hash returns a kind-tagged encoding such that a.Hash() == b.Hash() iff a.Equal(b).
func (v Value) Hash() string {
	switch v.Kind {
	case KindNumber:
		if v.Num == 0 {
			// +0 and -0 compare equal
			return "n:0"
		}
		return "n:" + strconv.FormatFloat(v.Num, 'g', -1, 64)
	case KindString:
		return "s:" + v.Str
	case KindBool:
		if v.Bool {
			return "b:1"
		}
		return "b:0"
	default:
		return "~"
	}
}

var nullTokens = map[string]bool{
	"": true, "na": true, "nan": true, "null": true, "none": true, "n/a": true, "<na>": true,
}

// Parse infers a Value from its text form: null tokens, numbers, booleans,
// then strings. Surrounding whitespace is dropped.
func Parse(s string) Value {
	t := strings.TrimSpace(s)
	if nullTokens[strings.ToLower(t)] {
		return Null()
	}
	if f, err := strconv.ParseFloat(t, 64); err == nil {
		return Number(f)
	}
	switch t {
	case "True", "true", "TRUE":
		return Bool(true)
	case "False", "false", "FALSE":
		return Bool(false)
	}
	return String(t)
}
