// SPDX-License-Identifier: Unlicense OR MIT

package state

import (
	"github.com/Masterminds/semver/v3"

	"gltrace.org/internal/arena"
	"gltrace.org/internal/gl"
)

// FrameCounters aggregates the work issued by a context in one frame.
type FrameCounters struct {
	Calls      int
	Draws      int
	Dispatches int
	Clears     int
	Passes     int
}

// Context is an EGL context and the GL objects it owns.
type Context struct {
	arena.Entry
	Display uint64
	// ShareRoot is the index of the root of the share chain the
	// context was created in, or -1. Objects are not shared: every
	// context keeps its own arenas.
	ShareRoot int
	// ClientVersion and MinorVersion are the versions requested at
	// creation.
	ClientVersion int
	MinorVersion  int
	// Version is the API version reported by glGetString, if seen.
	Version       *semver.Version
	VersionString string

	Textures           *arena.Arena[Texture, *Texture]
	Buffers            *arena.Arena[Buffer, *Buffer]
	Framebuffers       *arena.Arena[Framebuffer, *Framebuffer]
	Renderbuffers      *arena.Arena[Renderbuffer, *Renderbuffer]
	Shaders            *arena.Arena[Shader, *Shader]
	Programs           *arena.Arena[Program, *Program]
	Pipelines          *arena.Arena[Pipeline, *Pipeline]
	Samplers           *arena.Arena[Sampler, *Sampler]
	Queries            *arena.Arena[Query, *Query]
	TransformFeedbacks *arena.Arena[TransformFeedback, *TransformFeedback]
	VertexArrays       *arena.Arena[VertexArray, *VertexArray]

	// Default is the framebuffer named 0, backed by the draw surface.
	Default                  *Framebuffer
	DefaultVertexArray       *VertexArray
	DefaultTransformFeedback *TransformFeedback

	Binding Binding
	// Passes lists every render pass of the context in order.
	Passes []*RenderPass
	// Counters holds the per-frame work counters.
	Counters map[uint64]*FrameCounters

	// Surface is the draw surface the context was last made current
	// with.
	Surface arena.Handle
	// Activations counts eglMakeCurrent calls selecting the context.
	Activations int
	// Frames counts the swaps of the context's draw surface.
	Frames      int
	DebugGroups []string

	pass      *RenderPass
	passFrame uint64
	passIndex int
	// sized is set once viewport and scissor took the dimensions of
	// a draw surface.
	sized bool
}

func (c *Context) init() {
	c.ShareRoot = -1
	c.Textures = arena.New[Texture, *Texture]()
	c.Buffers = arena.New[Buffer, *Buffer]()
	c.Framebuffers = arena.New[Framebuffer, *Framebuffer]()
	c.Renderbuffers = arena.New[Renderbuffer, *Renderbuffer]()
	c.Shaders = arena.New[Shader, *Shader]()
	c.Programs = arena.New[Program, *Program]()
	c.Pipelines = arena.New[Pipeline, *Pipeline]()
	c.Samplers = arena.New[Sampler, *Sampler]()
	c.Queries = arena.New[Query, *Query]()
	c.TransformFeedbacks = arena.New[TransformFeedback, *TransformFeedback]()
	c.VertexArrays = arena.New[VertexArray, *VertexArray]()
	c.Default = newDefaultFramebuffer()
	c.DefaultVertexArray = &VertexArray{Entry: arena.Entry{Index: -1}}
	c.DefaultVertexArray.init()
	c.DefaultTransformFeedback = &TransformFeedback{Entry: arena.Entry{Index: -1}}
	c.Binding = newBinding()
	c.Counters = make(map[uint64]*FrameCounters)
}

func (c *Context) counters(frame uint64) *FrameCounters {
	fc, ok := c.Counters[frame]
	if !ok {
		fc = new(FrameCounters)
		c.Counters[frame] = fc
	}
	return fc
}

// framebuffer returns the framebuffer named h, or nil when h is not
// live.
func (c *Context) framebuffer(h arena.Handle) *Framebuffer {
	if h == 0 {
		return c.Default
	}
	return c.Framebuffers.ID(h)
}

// DrawFramebuffer returns the bound draw framebuffer.
func (c *Context) DrawFramebuffer() *Framebuffer {
	return c.framebuffer(c.Binding.DrawFramebuffer)
}

// ReadFramebuffer returns the bound read framebuffer.
func (c *Context) ReadFramebuffer() *Framebuffer {
	return c.framebuffer(c.Binding.ReadFramebuffer)
}

// targetFramebuffer returns the framebuffer bound to a framebuffer
// target.
func (c *Context) targetFramebuffer(target gl.Enum) *Framebuffer {
	if target == gl.READ_FRAMEBUFFER {
		return c.ReadFramebuffer()
	}
	return c.DrawFramebuffer()
}

// VertexArray returns the bound vertex array.
func (c *Context) VertexArray() *VertexArray {
	if c.Binding.VertexArray == 0 {
		return c.DefaultVertexArray
	}
	if v := c.VertexArrays.ID(c.Binding.VertexArray); v != nil {
		return v
	}
	return c.DefaultVertexArray
}

// TransformFeedback returns the bound transform feedback object.
func (c *Context) TransformFeedback() *TransformFeedback {
	if t := c.TransformFeedbacks.ID(c.Binding.TransformFeedback); t != nil {
		return t
	}
	return c.DefaultTransformFeedback
}

// bufferBinding returns the table holding bindings of target.
func (c *Context) bufferBindings(target gl.Enum) BufferBindings {
	if gl.IndexedBufferTarget(target) {
		return c.Binding.Buffers
	}
	return c.VertexArray().Buffers
}

// BoundBuffer returns the buffer bound to the generic binding point of
// target, or nil.
func (c *Context) BoundBuffer(target gl.Enum) *Buffer {
	b := c.bufferBindings(target).get(target, genericBinding(target))
	return c.Buffers.ID(b.Buffer)
}

// genericBinding is the binding index used by glBindBuffer. Indexed
// targets keep it apart from the indexed binding points.
func genericBinding(target gl.Enum) uint32 {
	if gl.IndexedBufferTarget(target) {
		return ^uint32(0)
	}
	return 0
}

// BoundTexture returns the texture bound to target on the active unit,
// or nil.
func (c *Context) BoundTexture(target gl.Enum) *Texture {
	return c.Textures.ID(c.Binding.Texture(c.Binding.ActiveUnit, gl.TextureTarget(target)))
}

// Program returns the program in use, or nil.
func (c *Context) Program() *Program {
	return c.Programs.ID(c.Binding.Program)
}

// drawPrograms returns the indices of the programs that execute a draw:
// the program in use, or the programs of the bound pipeline.
func (c *Context) drawPrograms() []*Program {
	if p := c.Program(); p != nil {
		return []*Program{p}
	}
	pl := c.Pipelines.ID(c.Binding.Pipeline)
	if pl == nil {
		return nil
	}
	var progs []*Program
	seen := make(map[int]bool)
	for _, stage := range gl.Stages {
		idx, ok := pl.Stages[stage]
		if !ok || seen[idx] {
			continue
		}
		seen[idx] = true
		if p := c.Programs.At(idx); p.Live() {
			progs = append(progs, p)
		}
	}
	return progs
}

// attachmentSize returns the dimensions of the image behind a.
func (c *Context) attachmentSize(a *Attachment, surfaces *arena.Arena[Surface, *Surface]) (w, h int32) {
	switch a.Kind {
	case TargetTexture:
		t := c.Textures.At(a.Index)
		l := min(max(a.Level, 0), 31)
		return max(t.Width>>l, 1), max(t.Height>>l, 1)
	case TargetRenderbuffer:
		r := c.Renderbuffers.At(a.Index)
		return r.Width, r.Height
	case TargetSurface:
		s := surfaces.At(a.Index)
		return s.Width, s.Height
	}
	return 0, 0
}

// MostRecentFrameDependency returns the latest frame in which any live
// object of the context was used.
func (c *Context) MostRecentFrameDependency() uint64 {
	return max(
		c.Textures.MostRecentFrameDependency(),
		c.Buffers.MostRecentFrameDependency(),
		c.Framebuffers.MostRecentFrameDependency(),
		c.Renderbuffers.MostRecentFrameDependency(),
		c.Shaders.MostRecentFrameDependency(),
		c.Programs.MostRecentFrameDependency(),
		c.Pipelines.MostRecentFrameDependency(),
		c.Samplers.MostRecentFrameDependency(),
		c.Queries.MostRecentFrameDependency(),
		c.TransformFeedbacks.MostRecentFrameDependency(),
		c.VertexArrays.MostRecentFrameDependency(),
	)
}
