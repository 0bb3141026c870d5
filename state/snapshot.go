// SPDX-License-Identifier: Unlicense OR MIT

package state

import (
	"github.com/jinzhu/copier"

	"gltrace.org/internal/anomaly"
	"gltrace.org/internal/arena"
)

// Snapshot is a copy of the engine state that stays valid while the
// engine interprets further calls.
type Snapshot struct {
	Frame    uint64
	Contexts []ContextSnapshot
	Surfaces []Surface
}

// ContextSnapshot is the copied state of one context.
type ContextSnapshot struct {
	Handle    arena.Handle
	Index     int
	Destroyed bool
	Binding   Binding
	Passes    []RenderPass
	// MostRecentFrame is the last frame in which any object of the
	// context was used.
	MostRecentFrame uint64
}

// Snapshot deep copies the binding state and render passes of every
// context and every surface, destroyed ones included.
func (e *Engine) Snapshot() *Snapshot {
	s := &Snapshot{Frame: e.frame}
	for _, c := range e.contexts.All() {
		cs := ContextSnapshot{
			Handle:          c.Handle,
			Index:           c.Index,
			Destroyed:       c.Destroyed,
			Binding:         deepCopy(&c.Binding),
			Passes:          make([]RenderPass, len(c.Passes)),
			MostRecentFrame: c.MostRecentFrameDependency(),
		}
		for i, p := range c.Passes {
			cs.Passes[i] = deepCopy(p)
		}
		s.Contexts = append(s.Contexts, cs)
	}
	for _, sf := range e.surfaces.All() {
		s.Surfaces = append(s.Surfaces, deepCopy(sf))
	}
	return s
}

func deepCopy[T any](src *T) T {
	var dst T
	err := copier.CopyWithOption(&dst, src, copier.Option{DeepCopy: true})
	anomaly.Assert(err == nil, "snapshot copy of %T: %v", dst, err)
	return dst
}
