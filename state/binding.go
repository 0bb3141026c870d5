// SPDX-License-Identifier: Unlicense OR MIT

package state

import (
	"gltrace.org/internal/arena"
	"gltrace.org/internal/gl"
)

// BufferBinding is the buffer bound to one indexed binding point.
type BufferBinding struct {
	Buffer arena.Handle
	Offset int64
	// Size is zero for whole-buffer bindings.
	Size int64
}

// BufferBindings maps a target and binding index to a buffer.
// Non-indexed targets use index 0.
type BufferBindings map[gl.Enum]map[uint32]BufferBinding

func (bb BufferBindings) get(target gl.Enum, index uint32) BufferBinding {
	return bb[target][index]
}

func (bb BufferBindings) set(target gl.Enum, index uint32, b BufferBinding) bool {
	m, ok := bb[target]
	if !ok {
		if b.Buffer == 0 {
			return false
		}
		m = make(map[uint32]BufferBinding)
		bb[target] = m
	}
	if m[index] == b {
		return false
	}
	if b.Buffer == 0 {
		delete(m, index)
	} else {
		m[index] = b
	}
	return true
}

// unbind drops every binding of buffer h.
func (bb BufferBindings) unbind(h arena.Handle) {
	for _, m := range bb {
		for idx, b := range m {
			if b.Buffer == h {
				delete(m, idx)
			}
		}
	}
}

// Blend is the blend function and equation state.
type Blend struct {
	SrcRGB, DstRGB     gl.Enum
	SrcAlpha, DstAlpha gl.Enum
	EqRGB, EqAlpha     gl.Enum
	Color              [4]float32
}

// StencilFace is the stencil test configuration of one face.
type StencilFace struct {
	Func  gl.Enum
	Ref   int32
	Mask  uint32
	Fail  gl.Enum
	ZFail gl.Enum
	ZPass gl.Enum
}

// Fill is the state that decides what a clear or a draw writes.
type Fill struct {
	Scissor   [4]int32
	ColorMask [4]bool
	DepthMask bool
	// StencilWriteMask holds the front and back face write masks.
	StencilWriteMask [2]uint32

	ClearColor   [4]float32
	ClearDepth   float32
	ClearStencil int32

	DepthFunc     gl.Enum
	Blend         Blend
	CullFace      gl.Enum
	FrontFace     gl.Enum
	Stencil       [2]StencilFace
	PolygonOffset [2]float32
	LineWidth     float32
}

// Binding is the current-binding state of a context.
type Binding struct {
	DrawFramebuffer arena.Handle
	ReadFramebuffer arena.Handle
	// PrevDrawFramebuffer is the draw framebuffer bound before the
	// last change.
	PrevDrawFramebuffer arena.Handle

	ActiveUnit uint32
	// Textures maps a texture unit and target to a texture.
	Textures map[uint32]map[gl.Enum]arena.Handle
	Samplers map[uint32]arena.Handle
	// Buffers holds the context global indexed bindings: uniform,
	// shader storage, atomic counter and transform feedback buffers.
	// Other targets live in the bound vertex array.
	Buffers BufferBindings

	Program           arena.Handle
	Pipeline          arena.Handle
	VertexArray       arena.Handle
	Renderbuffer      arena.Handle
	TransformFeedback arena.Handle
	Queries           map[gl.Enum]arena.Handle

	Caps       map[gl.Enum]bool
	Viewport   [4]int32
	Fill       Fill
	PixelStore map[gl.Enum]int32
	Hints      map[gl.Enum]gl.Enum
}

func newBinding() Binding {
	stencil := StencilFace{Func: gl.ALWAYS, Mask: ^uint32(0), Fail: gl.KEEP, ZFail: gl.KEEP, ZPass: gl.KEEP}
	return Binding{
		Textures:   make(map[uint32]map[gl.Enum]arena.Handle),
		Samplers:   make(map[uint32]arena.Handle),
		Buffers:    make(BufferBindings),
		Queries:    make(map[gl.Enum]arena.Handle),
		Caps:       map[gl.Enum]bool{gl.DITHER: true},
		PixelStore: make(map[gl.Enum]int32),
		Hints:      make(map[gl.Enum]gl.Enum),
		Fill: Fill{
			ColorMask:        [4]bool{true, true, true, true},
			DepthMask:        true,
			StencilWriteMask: [2]uint32{^uint32(0), ^uint32(0)},
			ClearDepth:       1,
			DepthFunc:        gl.LESS,
			Blend: Blend{
				SrcRGB: gl.ONE, DstRGB: gl.ZERO,
				SrcAlpha: gl.ONE, DstAlpha: gl.ZERO,
				EqRGB: gl.FUNC_ADD, EqAlpha: gl.FUNC_ADD,
			},
			CullFace:  gl.BACK,
			FrontFace: gl.CCW,
			Stencil:   [2]StencilFace{stencil, stencil},
			LineWidth: 1,
		},
	}
}

// set assigns v to *dst and reports whether the value changed.
func set[T comparable](dst *T, v T) bool {
	if *dst == v {
		return false
	}
	*dst = v
	return true
}

// Enabled reports whether capability c is enabled.
func (b *Binding) Enabled(c gl.Enum) bool {
	return b.Caps[c]
}

func (b *Binding) setCap(c gl.Enum, enable bool) bool {
	if b.Caps[c] == enable {
		return false
	}
	b.Caps[c] = enable
	return true
}

// bindFramebuffer binds fb to target and reports whether the draw
// binding, or any binding, changed.
func (b *Binding) bindFramebuffer(target gl.Enum, fb arena.Handle) (drawChanged, changed bool) {
	prev := b.DrawFramebuffer
	switch target {
	case gl.FRAMEBUFFER:
		drawChanged = set(&b.DrawFramebuffer, fb)
		changed = set(&b.ReadFramebuffer, fb) || drawChanged
	case gl.DRAW_FRAMEBUFFER:
		drawChanged = set(&b.DrawFramebuffer, fb)
		changed = drawChanged
	case gl.READ_FRAMEBUFFER:
		changed = set(&b.ReadFramebuffer, fb)
	}
	if drawChanged {
		b.PrevDrawFramebuffer = prev
	}
	return drawChanged, changed
}

// Texture returns the texture bound to target on unit.
func (b *Binding) Texture(unit uint32, target gl.Enum) arena.Handle {
	return b.Textures[unit][target]
}

func (b *Binding) bindTexture(unit uint32, target gl.Enum, t arena.Handle) bool {
	m, ok := b.Textures[unit]
	if !ok {
		if t == 0 {
			return false
		}
		m = make(map[gl.Enum]arena.Handle)
		b.Textures[unit] = m
	}
	if m[target] == t {
		return false
	}
	if t == 0 {
		delete(m, target)
	} else {
		m[target] = t
	}
	return true
}

func (b *Binding) bindSampler(unit uint32, s arena.Handle) bool {
	if b.Samplers[unit] == s {
		return false
	}
	if s == 0 {
		delete(b.Samplers, unit)
	} else {
		b.Samplers[unit] = s
	}
	return true
}

func (b *Binding) unbindTexture(t arena.Handle) {
	for _, m := range b.Textures {
		for target, h := range m {
			if h == t {
				delete(m, target)
			}
		}
	}
}

func (b *Binding) unbindSampler(s arena.Handle) {
	for unit, h := range b.Samplers {
		if h == s {
			delete(b.Samplers, unit)
		}
	}
}

// unbindFramebuffer reverts bindings of a deleted framebuffer to the
// default framebuffer and reports whether the draw binding changed.
func (b *Binding) unbindFramebuffer(fb arena.Handle) bool {
	var drawChanged bool
	if b.DrawFramebuffer == fb {
		b.PrevDrawFramebuffer = fb
		b.DrawFramebuffer = 0
		drawChanged = true
	}
	if b.ReadFramebuffer == fb {
		b.ReadFramebuffer = 0
	}
	return drawChanged
}

func (b *Binding) unbindQuery(q arena.Handle) {
	for target, h := range b.Queries {
		if h == q {
			delete(b.Queries, target)
		}
	}
}

func (b *Binding) setPixelStore(pname gl.Enum, v int32) bool {
	if old, ok := b.PixelStore[pname]; ok && old == v {
		return false
	}
	b.PixelStore[pname] = v
	return true
}

func (b *Binding) setHint(target, mode gl.Enum) bool {
	if old, ok := b.Hints[target]; ok && old == mode {
		return false
	}
	b.Hints[target] = mode
	return true
}
