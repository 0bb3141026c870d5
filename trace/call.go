// SPDX-License-Identifier: Unlicense OR MIT

// Package trace defines the decoded call records consumed by the state
// engine.
package trace

import (
	"fmt"
	"strings"
)

// Call is one decoded API call.
type Call struct {
	// Name is the API entry point, for example "glDrawArrays".
	Name string
	// Func caches the identifier of Name. Decoders may fill it in;
	// it is resolved from Name otherwise.
	Func Func
	// Thread is the id of the thread that issued the call.
	Thread uint64
	// Number is the position of the call in the stream.
	Number uint64
	Return Value
	Args   []Value
	// Injected marks calls synthesized by the capture layer rather
	// than issued by the application.
	Injected bool
}

// NewCall returns a call to name with the given arguments.
func NewCall(name string, args ...Value) *Call {
	return &Call{Name: name, Func: LookupFunc(name), Args: args}
}

// ID returns the identifier of the called function.
func (c *Call) ID() Func {
	if c.Func == FuncUnknown {
		c.Func = LookupFunc(c.Name)
	}
	return c.Func
}

// Arg returns argument i, or the zero Value when the call has fewer
// arguments.
func (c *Call) Arg(i int) Value {
	if i < 0 || i >= len(c.Args) {
		return Value{}
	}
	return c.Args[i]
}

// ClientBuffers calls f with the id of every client-side buffer
// referenced by the arguments, nested arrays included.
func (c *Call) ClientBuffers(f func(id uint64)) {
	var walk func(v Value)
	walk = func(v Value) {
		switch v.Kind {
		case KindClientBuffer:
			f(v.Ref)
		case KindArray:
			for _, e := range v.Elems {
				walk(e)
			}
		}
	}
	for _, a := range c.Args {
		walk(a)
	}
}

func (c *Call) String() string {
	args := make([]string, len(c.Args))
	for i, a := range c.Args {
		args[i] = a.String()
	}
	s := fmt.Sprintf("[%d] %s(%s)", c.Number, c.Name, strings.Join(args, ", "))
	if c.Return.Kind != KindNone {
		s += " = " + c.Return.String()
	}
	return s
}
