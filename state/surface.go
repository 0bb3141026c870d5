// SPDX-License-Identifier: Unlicense OR MIT

package state

import (
	"gltrace.org/internal/arena"
)

// SurfaceType is the kind of an EGL surface.
type SurfaceType uint8

const (
	WindowSurface SurfaceType = iota
	PbufferSurface
	PixmapSurface
)

func (t SurfaceType) String() string {
	switch t {
	case WindowSurface:
		return "window"
	case PbufferSurface:
		return "pbuffer"
	case PixmapSurface:
		return "pixmap"
	}
	return "unknown"
}

// Surface is an EGL drawable.
type Surface struct {
	arena.Entry
	Display uint64
	Type    SurfaceType
	X, Y    int32
	Width   int32
	Height  int32

	// Contexts is the set of indices of contexts that drew to the
	// surface.
	Contexts map[int]struct{}
	// Threads is the set of threads that made the surface current.
	Threads map[uint64]struct{}

	Activations int
	Swaps       int
	// Preserve is set when the back buffer survives swaps.
	Preserve bool
}

func (s *Surface) init() {
	s.Contexts = make(map[int]struct{})
	s.Threads = make(map[uint64]struct{})
}

// Display is an EGL display connection.
type Display struct {
	Handle      uint64
	Initialized bool
}
