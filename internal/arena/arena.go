// SPDX-License-Identifier: Unlicense OR MIT

// Package arena implements handle-indexed object tables.
//
// An API handle (a GL object name or an EGL opaque pointer) may be
// recycled as soon as its object is destroyed. An Arena therefore maps
// every live handle to a stable index that is assigned once and never
// reused by the same Arena. Destroyed entries stay in the table so that
// reports can still refer to them.
package arena

import (
	"gltrace.org/internal/anomaly"
)

// Handle is an API assigned object name. Zero means none.
type Handle uint64

// Entry is the bookkeeping shared by every object kept in an Arena.
// Object types embed it.
type Entry struct {
	Handle Handle
	Index  int

	CreatedCall  uint64
	CreatedFrame uint64

	Destroyed      bool
	DestroyedCall  uint64
	DestroyedFrame uint64

	// LastFrame is the last frame in which the object was used.
	LastFrame uint64
	Label     string
}

// Base returns e. Embedding Entry makes an object usable with Arena.
func (e *Entry) Base() *Entry { return e }

// Live reports whether the entry has not been destroyed.
func (e *Entry) Live() bool { return !e.Destroyed }

// Object is the constraint satisfied by pointers to types embedding
// Entry.
type Object[T any] interface {
	*T
	Base() *Entry
}

// Arena is an ordered collection of objects of one category plus the
// mapping from live handles to indices.
type Arena[T any, PT Object[T]] struct {
	objs    []PT
	handles map[Handle]int
	live    int
}

// New returns an empty arena.
func New[T any, PT Object[T]]() *Arena[T, PT] {
	return &Arena[T, PT]{handles: make(map[Handle]int)}
}

// Add creates an object for handle and assigns it the next index.
// Handle zero and handles that are still live are protocol anomalies.
func (a *Arena[T, PT]) Add(h Handle, call, frame uint64) (PT, error) {
	if h == 0 {
		return nil, anomaly.Protocol(0, "cannot add the zero handle")
	}
	if _, exists := a.handles[h]; exists {
		return nil, anomaly.Protocol(uint64(h), "handle is already live")
	}
	idx := len(a.objs)
	o := PT(new(T))
	e := o.Base()
	e.Handle = h
	e.Index = idx
	e.CreatedCall = call
	e.CreatedFrame = frame
	e.LastFrame = frame
	a.objs = append(a.objs, o)
	a.handles[h] = idx
	a.live++
	return o, nil
}

// Remove records the destruction of the object named by h and frees
// the handle for reuse. Unknown and zero handles are ignored.
func (a *Arena[T, PT]) Remove(h Handle, call, frame uint64) bool {
	idx, ok := a.handles[h]
	if !ok {
		return false
	}
	e := a.objs[idx].Base()
	anomaly.Assert(!e.Destroyed, "arena: live handle %d maps to destroyed index %d", h, idx)
	e.Destroyed = true
	e.DestroyedCall = call
	e.DestroyedFrame = frame
	delete(a.handles, h)
	a.live--
	return true
}

// Contains reports whether h is live.
func (a *Arena[T, PT]) Contains(h Handle) bool {
	_, ok := a.handles[h]
	return ok
}

// Lookup returns the index of the live object named by h.
func (a *Arena[T, PT]) Lookup(h Handle) (int, bool) {
	idx, ok := a.handles[h]
	return idx, ok
}

// Remap returns the index of the live object named by h. Callers must
// check Contains first: a miss panics with an assertion violation.
func (a *Arena[T, PT]) Remap(h Handle) int {
	idx, ok := a.handles[h]
	if !ok {
		panic(anomaly.Assertion("arena: remap of handle %d which is not live", h))
	}
	return idx
}

// At returns the object at index. The object may be destroyed.
func (a *Arena[T, PT]) At(idx int) PT {
	anomaly.Assert(idx >= 0 && idx < len(a.objs), "arena: index %d out of range [0,%d)", idx, len(a.objs))
	return a.objs[idx]
}

// ID returns the live object named by h, or nil.
func (a *Arena[T, PT]) ID(h Handle) PT {
	idx, ok := a.handles[h]
	if !ok {
		return nil
	}
	return a.objs[idx]
}

// Len returns the number of objects ever added.
func (a *Arena[T, PT]) Len() int {
	return len(a.objs)
}

// Live returns the number of live objects.
func (a *Arena[T, PT]) Live() int {
	return a.live
}

// All returns every object in index order, destroyed ones included.
func (a *Arena[T, PT]) All() []PT {
	return append([]PT(nil), a.objs...)
}

// Each calls f for every live object in index order until f returns
// false.
func (a *Arena[T, PT]) Each(f func(PT) bool) {
	for _, o := range a.objs {
		if o.Base().Destroyed {
			continue
		}
		if !f(o) {
			return
		}
	}
}

// Touch records that the object at idx was used in frame.
func (a *Arena[T, PT]) Touch(idx int, frame uint64) {
	e := a.At(idx).Base()
	if frame > e.LastFrame {
		e.LastFrame = frame
	}
}

// MostRecentFrameDependency returns the latest frame in which any live
// object was used.
func (a *Arena[T, PT]) MostRecentFrameDependency() uint64 {
	var last uint64
	for _, idx := range a.handles {
		if f := a.objs[idx].Base().LastFrame; f > last {
			last = f
		}
	}
	return last
}
