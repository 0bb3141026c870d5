// SPDX-License-Identifier: Unlicense OR MIT

// Package anomaly classifies the problems found while interpreting a
// trace.
//
// A Protocol anomaly is a defect of the trace itself: a reference to a
// handle that is not live, a draw without a program, an unsupported
// binding target. An Assertion is a broken internal invariant and
// therefore a bug in the interpreter. Unsupported marks a call the
// interpreter has no handler for.
package anomaly

import (
	"fmt"
	"strings"
)

// Kind categorizes an anomaly.
type Kind uint8

const (
	KindProtocol Kind = iota + 1
	KindAssertion
	KindUnsupported
)

// Error describes one anomaly. Call and Func locate it in the stream
// when known.
type Error struct {
	Kind   Kind
	Func   string
	Call   uint64
	Handle uint64
	Detail string
	Cause  error
}

var (
	// ErrProtocol matches any protocol anomaly with errors.Is.
	ErrProtocol = &Error{Kind: KindProtocol}
	// ErrAssertion matches any assertion violation with errors.Is.
	ErrAssertion = &Error{Kind: KindAssertion}
	// ErrUnsupported matches any unsupported construct with errors.Is.
	ErrUnsupported = &Error{Kind: KindUnsupported}
)

func (k Kind) String() string {
	switch k {
	case KindProtocol:
		return "protocol"
	case KindAssertion:
		return "assertion"
	case KindUnsupported:
		return "unsupported"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteByte('[')
	b.WriteString(e.Kind.String())
	b.WriteByte(']')
	if e.Func != "" {
		fmt.Fprintf(&b, " %s", e.Func)
		if e.Call != 0 {
			fmt.Fprintf(&b, "#%d", e.Call)
		}
	}
	if e.Handle != 0 {
		fmt.Fprintf(&b, " handle %d", e.Handle)
	}
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Kind == t.Kind
	}
	return false
}

// At returns a copy of e located at the given call.
func (e *Error) At(fn string, call uint64) *Error {
	c := *e
	c.Func = fn
	c.Call = call
	return &c
}

// Protocol returns a protocol anomaly about handle.
func Protocol(handle uint64, format string, args ...any) *Error {
	return &Error{Kind: KindProtocol, Handle: handle, Detail: fmt.Sprintf(format, args...)}
}

// Assertion returns an assertion violation.
func Assertion(format string, args ...any) *Error {
	return &Error{Kind: KindAssertion, Detail: fmt.Sprintf(format, args...)}
}

// Unsupported returns an unsupported-construct anomaly for the named
// call.
func Unsupported(fn string) *Error {
	return &Error{Kind: KindUnsupported, Func: fn, Detail: "no handler"}
}

// Assert panics with an assertion violation when cond is false.
func Assert(cond bool, format string, args ...any) {
	if !cond {
		panic(Assertion(format, args...))
	}
}

// FromPanic converts a recovered value into an assertion violation.
// It reports false for panics that did not originate from Assert or
// an *Error of kind Assertion.
func FromPanic(r any) (*Error, bool) {
	e, ok := r.(*Error)
	if !ok || e.Kind != KindAssertion {
		return nil, false
	}
	return e, true
}
