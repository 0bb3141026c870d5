// SPDX-License-Identifier: Unlicense OR MIT

/*
Package state reconstructs the state of an OpenGL ES and EGL process
from a stream of decoded calls.

An Engine is fed one call at a time, in stream order, with Interpret.
After every call the engine exposes the contexts and surfaces created
so far, the objects each context owns, the current bindings, and the
render passes inferred from the draws: maximal runs of draws into one
framebuffer configuration, with the load and store behavior of every
attachment.

The engine never executes calls and never rejects them. References to
objects that do not exist and similar defects of the trace are recorded
as protocol anomalies and the offending part of the call is skipped.

An Engine is not safe for concurrent use.
*/
package state

import (
	"errors"

	"go.uber.org/zap"
	"golang.org/x/exp/maps"

	"gltrace.org/internal/anomaly"
	"gltrace.org/internal/arena"
	ilog "gltrace.org/internal/log"
	"gltrace.org/trace"
)

// Class is the classification of an interpreted call.
type Class uint8

const (
	// ClassOther is the class of calls that do not set state.
	ClassOther Class = iota
	// ClassChange marks a state-setting call that changed state.
	ClassChange
	// ClassDuplicate marks a state-setting call that left state
	// unchanged.
	ClassDuplicate
)

// Stats counts interpreted calls by function.
type Stats struct {
	Calls      [trace.NumFuncs]int
	Duplicates [trace.NumFuncs]int
	Changes    [trace.NumFuncs]int
	// Ignored counts rendering calls issued without a current
	// context.
	Ignored int
	// Unsupported counts calls by name for which no handler exists.
	Unsupported map[string]int
	Anomalies   int
}

// Thread is the per-thread EGL state.
type Thread struct {
	ID      uint64
	Context *Context
	Draw    *Surface
	Read    *Surface
	Display uint64
	// API is the rendering API selected by eglBindAPI. EGL keeps it
	// per thread.
	API uint32
	// ClientBuffers maps a client-side buffer id to the number of the
	// last call that referenced it.
	ClientBuffers map[uint64]uint64
}

// Engine reconstructs GL and EGL state from a call stream.
type Engine struct {
	cfg      Config
	log      *zap.Logger
	analyzer ShaderAnalyzer

	contexts *arena.Arena[Context, *Context]
	surfaces *arena.Arena[Surface, *Surface]
	images   *arena.Arena[Image, *Image]
	displays map[uint64]*Display
	threads  map[uint64]*Thread

	frame      uint64
	call       *trace.Call
	lastNumber uint64
	started    bool

	stats     Stats
	classes   map[uint64]Class
	anomalies []*anomaly.Error
}

// New returns an engine configured by cfg.
func New(cfg Config, opts ...Option) (*Engine, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	e := &Engine{
		cfg:      cfg,
		contexts: arena.New[Context, *Context](),
		surfaces: arena.New[Surface, *Surface](),
		images:   arena.New[Image, *Image](),
		displays: make(map[uint64]*Display),
		threads:  make(map[uint64]*Thread),
		classes:  make(map[uint64]Class),
	}
	e.stats.Unsupported = make(map[string]int)
	for _, o := range opts {
		o(e)
	}
	if e.log == nil {
		if cfg.LogLevel == "" {
			e.log = ilog.Logger()
		} else {
			l, err := ilog.New(cfg.LogLevel)
			if err != nil {
				return nil, err
			}
			e.log = l
		}
	}
	return e, nil
}

// handlers maps a function to its interpreter. Entries are installed
// by the init functions of the interp files.
var handlers [trace.NumFuncs]func(e *Engine, t *Thread, c *trace.Call)

// Interpret applies one call to the engine state.
func (e *Engine) Interpret(c *trace.Call) {
	f := c.ID()
	e.call = c
	defer func() {
		e.call = nil
	}()
	defer e.recoverAssertion()

	if e.started && c.Number < e.lastNumber {
		e.protocol(0, "call number went backwards from %d", e.lastNumber)
	}
	e.started = true
	e.lastNumber = c.Number
	if f >= trace.NumFuncs {
		e.unsupported(c.Name)
		return
	}
	e.stats.Calls[f]++

	t := e.thread(c.Thread)
	c.ClientBuffers(func(id uint64) {
		t.ClientBuffers[id] = c.Number
	})

	h := handlers[f]
	if h == nil {
		e.unsupported(c.Name)
		return
	}
	if !f.EGL() && t.Context == nil {
		e.stats.Ignored++
		return
	}
	if t.Context != nil {
		t.Context.counters(e.frame).Calls++
	}
	h(e, t, c)
}

func (e *Engine) recoverAssertion() {
	r := recover()
	if r == nil {
		return
	}
	err, ok := anomaly.FromPanic(r)
	if !ok || e.cfg.Strict {
		panic(r)
	}
	e.report(err)
}

func (e *Engine) thread(id uint64) *Thread {
	t, ok := e.threads[id]
	if !ok {
		t = &Thread{ID: id, ClientBuffers: make(map[uint64]uint64)}
		e.threads[id] = t
	}
	return t
}

func (e *Engine) unsupported(name string) {
	n := e.stats.Unsupported[name]
	e.stats.Unsupported[name] = n + 1
	if n == 0 {
		e.report(anomaly.Unsupported(name))
	}
}

// observe records the outcome of a state-setting call and returns
// changed.
func (e *Engine) observe(changed bool) bool {
	f := e.call.ID()
	class := ClassDuplicate
	if changed {
		e.stats.Changes[f]++
		class = ClassChange
	} else {
		e.stats.Duplicates[f]++
	}
	if e.cfg.RecordDuplicates {
		e.classes[e.call.Number] = class
	}
	return changed
}

// protocol records a protocol anomaly for the current call.
func (e *Engine) protocol(handle uint64, format string, args ...any) {
	e.report(anomaly.Protocol(handle, format, args...))
}

// fail records err, which is typically returned by an arena.
func (e *Engine) fail(err error) {
	var a *anomaly.Error
	if !errors.As(err, &a) {
		a = &anomaly.Error{Kind: anomaly.KindProtocol, Cause: err}
	}
	e.report(a)
}

func (e *Engine) report(err *anomaly.Error) {
	if e.call != nil {
		err = err.At(e.call.Name, e.call.Number)
	}
	e.stats.Anomalies++
	if len(e.anomalies) < e.cfg.MaxAnomalies {
		e.anomalies = append(e.anomalies, err)
	}
	fields := []zap.Field{zap.String("func", err.Func), zap.Uint64("call", err.Call), zap.Error(err)}
	switch err.Kind {
	case anomaly.KindAssertion:
		e.log.Error("interpreter invariant violated", fields...)
	case anomaly.KindUnsupported:
		e.log.Info("unsupported call", fields...)
	default:
		e.log.Warn("trace anomaly", fields...)
	}
}

// Frame returns the number of the current frame. Frames are counted
// from 0 and advance on every swap.
func (e *Engine) Frame() uint64 {
	return e.frame
}

// Contexts returns every context created so far, destroyed ones
// included, in creation order.
func (e *Engine) Contexts() []*Context {
	return e.contexts.All()
}

// Surfaces returns every surface created so far in creation order.
func (e *Engine) Surfaces() []*Surface {
	return e.surfaces.All()
}

// Images returns every EGL image created so far.
func (e *Engine) Images() []*Image {
	return e.images.All()
}

// LiveContexts returns the number of contexts not yet destroyed.
func (e *Engine) LiveContexts() int {
	return e.contexts.Live()
}

// LiveSurfaces returns the number of surfaces not yet destroyed.
func (e *Engine) LiveSurfaces() int {
	return e.surfaces.Live()
}

// Current returns the context current on thread, or nil.
func (e *Engine) Current(thread uint64) *Context {
	if t, ok := e.threads[thread]; ok {
		return t.Context
	}
	return nil
}

// Thread returns the state of thread, or nil if the thread issued no
// call.
func (e *Engine) Thread(thread uint64) *Thread {
	return e.threads[thread]
}

// Stats returns a copy of the call counters.
func (e *Engine) Stats() Stats {
	s := e.stats
	s.Unsupported = maps.Clone(e.stats.Unsupported)
	return s
}

// Duplicates returns the number of calls to f that left state
// unchanged.
func (e *Engine) Duplicates(f trace.Func) int {
	return e.stats.Duplicates[f]
}

// Class returns the classification of the call with the given number.
// It is ClassOther for every call unless Config.RecordDuplicates is
// set.
func (e *Engine) Class(number uint64) Class {
	return e.classes[number]
}

// Anomalies returns the recorded anomalies in the order they were
// found.
func (e *Engine) Anomalies() []*anomaly.Error {
	return append([]*anomaly.Error(nil), e.anomalies...)
}

// ClientBufferLastUse returns, for thread, the number of the last call
// referencing each client-side buffer.
func (e *Engine) ClientBufferLastUse(thread uint64) map[uint64]uint64 {
	t, ok := e.threads[thread]
	if !ok {
		return nil
	}
	return maps.Clone(t.ClientBuffers)
}
