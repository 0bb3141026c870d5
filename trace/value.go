// SPDX-License-Identifier: Unlicense OR MIT

package trace

import (
	"fmt"
	"math"
)

// Kind identifies the variant held by a Value.
type Kind uint8

const (
	KindNone Kind = iota
	KindInt
	KindUint
	KindFloat
	KindEnum
	KindString
	// KindBlob is opaque data captured inline with the call.
	KindBlob
	// KindClientBuffer references a caller-side data buffer by id.
	KindClientBuffer
	KindArray
)

// Value is one decoded argument or return value.
type Value struct {
	Kind Kind

	Int   int64
	Uint  uint64
	Float float64
	Str   string
	// Ref is the id of a blob or client-side buffer.
	Ref   uint64
	Data  []byte
	Elems []Value
}

func Int(v int64) Value     { return Value{Kind: KindInt, Int: v} }
func Uint(v uint64) Value   { return Value{Kind: KindUint, Uint: v} }
func Float(v float64) Value { return Value{Kind: KindFloat, Float: v} }
func Enum(v uint32) Value   { return Value{Kind: KindEnum, Uint: uint64(v)} }
func String(s string) Value { return Value{Kind: KindString, Str: s} }

// Bool encodes a GLboolean.
func Bool(b bool) Value {
	if b {
		return Uint(1)
	}
	return Uint(0)
}

// Blob returns a blob value with the given id and contents.
func Blob(id uint64, data []byte) Value {
	return Value{Kind: KindBlob, Ref: id, Data: data}
}

// ClientBuffer returns a reference to client-side buffer id.
func ClientBuffer(id uint64) Value {
	return Value{Kind: KindClientBuffer, Ref: id}
}

func Array(elems ...Value) Value {
	return Value{Kind: KindArray, Elems: elems}
}

// Uints returns an array of unsigned integers, the shape of name
// arrays passed to glGen* and glDelete*.
func Uints(vs ...uint32) Value {
	a := Value{Kind: KindArray, Elems: make([]Value, len(vs))}
	for i, v := range vs {
		a.Elems[i] = Uint(uint64(v))
	}
	return a
}

// Ints returns an array of signed integers.
func Ints(vs ...int64) Value {
	a := Value{Kind: KindArray, Elems: make([]Value, len(vs))}
	for i, v := range vs {
		a.Elems[i] = Int(v)
	}
	return a
}

// Floats returns an array of floats.
func Floats(vs ...float64) Value {
	a := Value{Kind: KindArray, Elems: make([]Value, len(vs))}
	for i, v := range vs {
		a.Elems[i] = Float(v)
	}
	return a
}

// Strings returns an array of strings, as passed to glShaderSource.
func Strings(vs ...string) Value {
	a := Value{Kind: KindArray, Elems: make([]Value, len(vs))}
	for i, v := range vs {
		a.Elems[i] = String(v)
	}
	return a
}

// AsUint converts any scalar value to an unsigned integer. Negative
// integers wrap.
func (v Value) AsUint() uint64 {
	switch v.Kind {
	case KindInt:
		return uint64(v.Int)
	case KindUint, KindEnum:
		return v.Uint
	case KindFloat:
		return uint64(v.Float)
	case KindBlob, KindClientBuffer:
		return v.Ref
	case KindArray:
		if len(v.Elems) > 0 {
			return v.Elems[0].AsUint()
		}
	}
	return 0
}

// AsInt converts any scalar value to a signed integer.
func (v Value) AsInt() int64 {
	switch v.Kind {
	case KindInt:
		return v.Int
	case KindUint, KindEnum:
		return int64(v.Uint)
	case KindFloat:
		return int64(v.Float)
	case KindArray:
		if len(v.Elems) > 0 {
			return v.Elems[0].AsInt()
		}
	}
	return 0
}

// AsFloat converts any scalar value to a float.
func (v Value) AsFloat() float64 {
	switch v.Kind {
	case KindFloat:
		return v.Float
	case KindInt:
		return float64(v.Int)
	case KindUint, KindEnum:
		return float64(v.Uint)
	case KindArray:
		if len(v.Elems) > 0 {
			return v.Elems[0].AsFloat()
		}
	}
	return 0
}

// AsBool reports whether the value is non-zero.
func (v Value) AsBool() bool {
	if v.Kind == KindFloat {
		return v.Float != 0
	}
	return v.AsUint() != 0
}

// AsString returns the string held by v, joining string arrays.
func (v Value) AsString() string {
	switch v.Kind {
	case KindString:
		return v.Str
	case KindBlob:
		return string(v.Data)
	case KindArray:
		var s string
		for _, e := range v.Elems {
			s += e.AsString()
		}
		return s
	}
	return ""
}

// Len returns the number of elements of an array, 1 for other
// non-empty values and 0 for KindNone.
func (v Value) Len() int {
	switch v.Kind {
	case KindNone:
		return 0
	case KindArray:
		return len(v.Elems)
	}
	return 1
}

// At returns element i of an array. A scalar is its own element 0.
// Out of range indices return the zero Value.
func (v Value) At(i int) Value {
	if v.Kind != KindArray {
		if i == 0 {
			return v
		}
		return Value{}
	}
	if i < 0 || i >= len(v.Elems) {
		return Value{}
	}
	return v.Elems[i]
}

// Uints returns the elements of v converted to unsigned integers.
func (v Value) Uints() []uint64 {
	n := v.Len()
	out := make([]uint64, n)
	for i := 0; i < n; i++ {
		out[i] = v.At(i).AsUint()
	}
	return out
}

// Floats returns the elements of v converted to floats.
func (v Value) Floats() []float64 {
	n := v.Len()
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = v.At(i).AsFloat()
	}
	return out
}

// Equal reports whether v and o hold the same data.
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case KindArray:
		if len(v.Elems) != len(o.Elems) {
			return false
		}
		for i := range v.Elems {
			if !v.Elems[i].Equal(o.Elems[i]) {
				return false
			}
		}
		return true
	case KindFloat:
		return v.Float == o.Float || (math.IsNaN(v.Float) && math.IsNaN(o.Float))
	case KindBlob:
		return v.Ref == o.Ref && string(v.Data) == string(o.Data)
	}
	return v.Int == o.Int && v.Uint == o.Uint && v.Str == o.Str && v.Ref == o.Ref
}

func (v Value) String() string {
	switch v.Kind {
	case KindNone:
		return "<none>"
	case KindInt:
		return fmt.Sprint(v.Int)
	case KindUint:
		return fmt.Sprint(v.Uint)
	case KindEnum:
		return fmt.Sprintf("0x%x", v.Uint)
	case KindFloat:
		return fmt.Sprint(v.Float)
	case KindString:
		return fmt.Sprintf("%q", v.Str)
	case KindBlob:
		return fmt.Sprintf("blob#%d[%d]", v.Ref, len(v.Data))
	case KindClientBuffer:
		return fmt.Sprintf("csb#%d", v.Ref)
	case KindArray:
		return fmt.Sprint(v.Elems)
	}
	return fmt.Sprintf("Value(kind=%d)", v.Kind)
}
