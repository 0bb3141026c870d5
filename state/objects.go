// SPDX-License-Identifier: Unlicense OR MIT

package state

import (
	"gltrace.org/internal/arena"
	"gltrace.org/internal/gl"
)

// Texture is a texture object and the storage last specified for it.
type Texture struct {
	arena.Entry
	// Target is the target the texture was first bound to.
	Target gl.Enum
	Format gl.Enum
	Width  int32
	Height int32
	Depth  int32
	Levels int32
	// Immutable is set by glTexStorage*.
	Immutable bool
	// Initialized reports whether any image data was specified.
	Initialized bool
	Params      map[gl.Enum]float64
	// Image is the EGLImage the texture was bound to, if any.
	Image arena.Handle
}

// Buffer is a buffer object.
type Buffer struct {
	arena.Entry
	Target      gl.Enum
	Size        int64
	Usage       gl.Enum
	Mapped      bool
	Initialized bool
}

// Renderbuffer is a renderbuffer object.
type Renderbuffer struct {
	arena.Entry
	Format      gl.Enum
	Width       int32
	Height      int32
	Samples     int32
	Initialized bool
}

// Sampler is a sampler object.
type Sampler struct {
	arena.Entry
	Params map[gl.Enum]float64
}

// Query is a query object.
type Query struct {
	arena.Entry
	Target gl.Enum
	Active bool
	// Uses counts glBeginQuery calls.
	Uses int
}

// TransformFeedback is a transform feedback object.
type TransformFeedback struct {
	arena.Entry
	Active bool
	Paused bool
	Mode   gl.Enum
}

// VertexAttrib is one generic vertex attribute of a vertex array.
type VertexAttrib struct {
	Enabled    bool
	Buffer     arena.Handle
	Size       int32
	Type       gl.Enum
	Normalized bool
	Integer    bool
	Stride     int32
	Offset     uint64
	// ClientBuffer is the id of the client-side array the attribute
	// sources from when Buffer is zero.
	ClientBuffer uint64
	Divisor      uint32
}

// VertexArray holds vertex attribute state and the element buffer binding.
type VertexArray struct {
	arena.Entry
	Buffers BufferBindings
	Attribs map[uint32]VertexAttrib
}

// Pipeline is a program pipeline object.
type Pipeline struct {
	arena.Entry
	// Stages maps a shader stage to the index of the program
	// providing it.
	Stages map[gl.Enum]int
}

// Image is an EGLImage.
type Image struct {
	arena.Entry
	Target  gl.Enum
	Buffer  uint64
	Context arena.Handle
}

func (t *Texture) init() {
	t.Params = make(map[gl.Enum]float64)
}

// specify records the dimensions of a mip level. Level 0 defines the
// texture size and format.
func (t *Texture) specify(level int32, format gl.Enum, w, h, d int32) {
	if level == 0 {
		t.Format = format
		t.Width, t.Height, t.Depth = w, h, d
	}
	t.Levels = max(t.Levels, level+1)
	t.Initialized = true
}

// setParam stores a texture or sampler parameter and reports whether it
// changed.
func setParam(params map[gl.Enum]float64, pname gl.Enum, v float64) bool {
	if old, ok := params[pname]; ok && old == v {
		return false
	}
	params[pname] = v
	return true
}

func (s *Sampler) init() {
	s.Params = make(map[gl.Enum]float64)
}

func (p *Pipeline) init() {
	p.Stages = make(map[gl.Enum]int)
}

func (v *VertexArray) init() {
	v.Buffers = make(BufferBindings)
	v.Attribs = make(map[uint32]VertexAttrib)
}

// unbind resets every binding of buffer h held by the vertex array.
func (v *VertexArray) unbind(h arena.Handle) {
	v.Buffers.unbind(h)
	for i, a := range v.Attribs {
		if a.Buffer == h {
			a.Buffer = 0
			v.Attribs[i] = a
		}
	}
}
