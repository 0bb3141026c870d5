// SPDX-License-Identifier: Unlicense OR MIT

package state

import (
	"regexp"

	"github.com/Masterminds/semver/v3"

	"gltrace.org/internal/arena"
	"gltrace.org/internal/gl"
	"gltrace.org/trace"
)

func init() {
	handlers[trace.GlEnable] = (*Engine).glEnable
	handlers[trace.GlDisable] = (*Engine).glDisable
	handlers[trace.GlViewport] = (*Engine).glViewport
	handlers[trace.GlScissor] = (*Engine).glScissor
	handlers[trace.GlColorMask] = (*Engine).glColorMask
	handlers[trace.GlDepthMask] = (*Engine).glDepthMask
	handlers[trace.GlStencilMask] = (*Engine).glStencilMask
	handlers[trace.GlStencilMaskSeparate] = (*Engine).glStencilMaskSeparate
	handlers[trace.GlClearColor] = (*Engine).glClearColor
	handlers[trace.GlClearDepthf] = (*Engine).glClearDepthf
	handlers[trace.GlClearStencil] = (*Engine).glClearStencil
	handlers[trace.GlDepthFunc] = (*Engine).glDepthFunc
	handlers[trace.GlBlendFunc] = (*Engine).glBlendFunc
	handlers[trace.GlBlendFuncSeparate] = (*Engine).glBlendFuncSeparate
	handlers[trace.GlBlendEquation] = (*Engine).glBlendEquation
	handlers[trace.GlBlendEquationSeparate] = (*Engine).glBlendEquationSeparate
	handlers[trace.GlBlendColor] = (*Engine).glBlendColor
	handlers[trace.GlCullFace] = (*Engine).glCullFace
	handlers[trace.GlFrontFace] = (*Engine).glFrontFace
	handlers[trace.GlPolygonOffset] = (*Engine).glPolygonOffset
	handlers[trace.GlLineWidth] = (*Engine).glLineWidth
	handlers[trace.GlStencilFunc] = (*Engine).glStencilFunc
	handlers[trace.GlStencilFuncSeparate] = (*Engine).glStencilFuncSeparate
	handlers[trace.GlStencilOp] = (*Engine).glStencilOp
	handlers[trace.GlPixelStorei] = (*Engine).glPixelStorei
	handlers[trace.GlHint] = (*Engine).glHint

	handlers[trace.GlFlush] = (*Engine).noop
	handlers[trace.GlFinish] = (*Engine).noop
	handlers[trace.GlFenceSync] = (*Engine).noop
	handlers[trace.GlDeleteSync] = (*Engine).noop
	handlers[trace.GlClientWaitSync] = (*Engine).noop
	handlers[trace.GlWaitSync] = (*Engine).noop
	handlers[trace.GlMemoryBarrier] = (*Engine).noop
	handlers[trace.GlGetError] = (*Engine).noop
	handlers[trace.GlGetIntegerv] = (*Engine).noop
	handlers[trace.GlObjectLabel] = (*Engine).glObjectLabel
	handlers[trace.GlPushDebugGroup] = (*Engine).glPushDebugGroup
	handlers[trace.GlPopDebugGroup] = (*Engine).glPopDebugGroup
	handlers[trace.GlGetString] = (*Engine).glGetString
}

func (e *Engine) glEnable(t *Thread, c *trace.Call) {
	e.observe(t.Context.Binding.setCap(enum(c.Arg(0)), true))
}

func (e *Engine) glDisable(t *Thread, c *trace.Call) {
	e.observe(t.Context.Binding.setCap(enum(c.Arg(0)), false))
}

func box(c *trace.Call) [4]int32 {
	return [4]int32{int32(c.Arg(0).AsInt()), int32(c.Arg(1).AsInt()), int32(c.Arg(2).AsInt()), int32(c.Arg(3).AsInt())}
}

func float4(c *trace.Call) [4]float32 {
	return [4]float32{float32(c.Arg(0).AsFloat()), float32(c.Arg(1).AsFloat()), float32(c.Arg(2).AsFloat()), float32(c.Arg(3).AsFloat())}
}

func (e *Engine) glViewport(t *Thread, c *trace.Call) {
	e.observe(set(&t.Context.Binding.Viewport, box(c)))
}

func (e *Engine) glScissor(t *Thread, c *trace.Call) {
	e.observe(set(&t.Context.Binding.Fill.Scissor, box(c)))
}

func (e *Engine) glColorMask(t *Thread, c *trace.Call) {
	m := [4]bool{c.Arg(0).AsBool(), c.Arg(1).AsBool(), c.Arg(2).AsBool(), c.Arg(3).AsBool()}
	e.observe(set(&t.Context.Binding.Fill.ColorMask, m))
}

func (e *Engine) glDepthMask(t *Thread, c *trace.Call) {
	e.observe(set(&t.Context.Binding.Fill.DepthMask, c.Arg(0).AsBool()))
}

// faces returns the stencil face indices selected by face.
func faces(face gl.Enum) []int {
	switch face {
	case gl.FRONT:
		return []int{0}
	case gl.BACK:
		return []int{1}
	}
	return []int{0, 1}
}

func (e *Engine) stencilMask(ctx *Context, face gl.Enum, mask uint32) {
	var changed bool
	for _, i := range faces(face) {
		changed = set(&ctx.Binding.Fill.StencilWriteMask[i], mask) || changed
	}
	e.observe(changed)
}

func (e *Engine) glStencilMask(t *Thread, c *trace.Call) {
	e.stencilMask(t.Context, gl.FRONT_AND_BACK, uint32(c.Arg(0).AsUint()))
}

func (e *Engine) glStencilMaskSeparate(t *Thread, c *trace.Call) {
	e.stencilMask(t.Context, enum(c.Arg(0)), uint32(c.Arg(1).AsUint()))
}

func (e *Engine) glClearColor(t *Thread, c *trace.Call) {
	e.observe(set(&t.Context.Binding.Fill.ClearColor, float4(c)))
}

func (e *Engine) glClearDepthf(t *Thread, c *trace.Call) {
	e.observe(set(&t.Context.Binding.Fill.ClearDepth, float32(c.Arg(0).AsFloat())))
}

func (e *Engine) glClearStencil(t *Thread, c *trace.Call) {
	e.observe(set(&t.Context.Binding.Fill.ClearStencil, int32(c.Arg(0).AsInt())))
}

func (e *Engine) glDepthFunc(t *Thread, c *trace.Call) {
	e.observe(set(&t.Context.Binding.Fill.DepthFunc, enum(c.Arg(0))))
}

func (e *Engine) setBlend(ctx *Context, f func(b *Blend)) {
	b := ctx.Binding.Fill.Blend
	f(&b)
	e.observe(set(&ctx.Binding.Fill.Blend, b))
}

func (e *Engine) glBlendFunc(t *Thread, c *trace.Call) {
	src, dst := enum(c.Arg(0)), enum(c.Arg(1))
	e.setBlend(t.Context, func(b *Blend) {
		b.SrcRGB, b.DstRGB, b.SrcAlpha, b.DstAlpha = src, dst, src, dst
	})
}

func (e *Engine) glBlendFuncSeparate(t *Thread, c *trace.Call) {
	e.setBlend(t.Context, func(b *Blend) {
		b.SrcRGB, b.DstRGB = enum(c.Arg(0)), enum(c.Arg(1))
		b.SrcAlpha, b.DstAlpha = enum(c.Arg(2)), enum(c.Arg(3))
	})
}

func (e *Engine) glBlendEquation(t *Thread, c *trace.Call) {
	mode := enum(c.Arg(0))
	e.setBlend(t.Context, func(b *Blend) {
		b.EqRGB, b.EqAlpha = mode, mode
	})
}

func (e *Engine) glBlendEquationSeparate(t *Thread, c *trace.Call) {
	e.setBlend(t.Context, func(b *Blend) {
		b.EqRGB, b.EqAlpha = enum(c.Arg(0)), enum(c.Arg(1))
	})
}

func (e *Engine) glBlendColor(t *Thread, c *trace.Call) {
	col := float4(c)
	e.setBlend(t.Context, func(b *Blend) {
		b.Color = col
	})
}

func (e *Engine) glCullFace(t *Thread, c *trace.Call) {
	e.observe(set(&t.Context.Binding.Fill.CullFace, enum(c.Arg(0))))
}

func (e *Engine) glFrontFace(t *Thread, c *trace.Call) {
	e.observe(set(&t.Context.Binding.Fill.FrontFace, enum(c.Arg(0))))
}

func (e *Engine) glPolygonOffset(t *Thread, c *trace.Call) {
	off := [2]float32{float32(c.Arg(0).AsFloat()), float32(c.Arg(1).AsFloat())}
	e.observe(set(&t.Context.Binding.Fill.PolygonOffset, off))
}

func (e *Engine) glLineWidth(t *Thread, c *trace.Call) {
	e.observe(set(&t.Context.Binding.Fill.LineWidth, float32(c.Arg(0).AsFloat())))
}

func (e *Engine) setStencil(ctx *Context, face gl.Enum, f func(s *StencilFace)) {
	var changed bool
	for _, i := range faces(face) {
		s := ctx.Binding.Fill.Stencil[i]
		f(&s)
		changed = set(&ctx.Binding.Fill.Stencil[i], s) || changed
	}
	e.observe(changed)
}

func (e *Engine) stencilFunc(ctx *Context, face, fn gl.Enum, ref int32, mask uint32) {
	e.setStencil(ctx, face, func(s *StencilFace) {
		s.Func, s.Ref, s.Mask = fn, ref, mask
	})
}

func (e *Engine) glStencilFunc(t *Thread, c *trace.Call) {
	e.stencilFunc(t.Context, gl.FRONT_AND_BACK, enum(c.Arg(0)), int32(c.Arg(1).AsInt()), uint32(c.Arg(2).AsUint()))
}

func (e *Engine) glStencilFuncSeparate(t *Thread, c *trace.Call) {
	e.stencilFunc(t.Context, enum(c.Arg(0)), enum(c.Arg(1)), int32(c.Arg(2).AsInt()), uint32(c.Arg(3).AsUint()))
}

func (e *Engine) glStencilOp(t *Thread, c *trace.Call) {
	e.setStencil(t.Context, gl.FRONT_AND_BACK, func(s *StencilFace) {
		s.Fail, s.ZFail, s.ZPass = enum(c.Arg(0)), enum(c.Arg(1)), enum(c.Arg(2))
	})
}

func (e *Engine) glPixelStorei(t *Thread, c *trace.Call) {
	e.observe(t.Context.Binding.setPixelStore(enum(c.Arg(0)), int32(c.Arg(1).AsInt())))
}

func (e *Engine) glHint(t *Thread, c *trace.Call) {
	e.observe(t.Context.Binding.setHint(enum(c.Arg(0)), enum(c.Arg(1))))
}

// glObjectLabel names an object of the current context.
func (e *Engine) glObjectLabel(t *Thread, c *trace.Call) {
	ctx := t.Context
	h, label := handle(c.Arg(1)), c.Arg(3).AsString()
	var ok bool
	switch enum(c.Arg(0)) {
	case gl.TEXTURE:
		ok = setLabel(ctx.Textures.ID(h), label)
	case gl.BUFFER:
		ok = setLabel(ctx.Buffers.ID(h), label)
	case gl.FRAMEBUFFER:
		ok = setLabel(ctx.Framebuffers.ID(h), label)
	case gl.RENDERBUFFER:
		ok = setLabel(ctx.Renderbuffers.ID(h), label)
	case gl.SHADER:
		ok = setLabel(ctx.Shaders.ID(h), label)
	case gl.PROGRAM:
		ok = setLabel(ctx.Programs.ID(h), label)
	case gl.PROGRAM_PIPELINE:
		ok = setLabel(ctx.Pipelines.ID(h), label)
	case gl.SAMPLER:
		ok = setLabel(ctx.Samplers.ID(h), label)
	case gl.QUERY:
		ok = setLabel(ctx.Queries.ID(h), label)
	case gl.TRANSFORM_FEEDBACK:
		ok = setLabel(ctx.TransformFeedbacks.ID(h), label)
	case gl.VERTEX_ARRAY:
		ok = setLabel(ctx.VertexArrays.ID(h), label)
	default:
		e.protocol(uint64(h), "unsupported label identifier %v", enum(c.Arg(0)))
		return
	}
	if !ok {
		e.protocol(uint64(h), "labelled object is not live")
	}
}

func setLabel[T any, PT arena.Object[T]](o PT, label string) bool {
	if o == nil {
		return false
	}
	o.Base().Label = label
	return true
}

func (e *Engine) glPushDebugGroup(t *Thread, c *trace.Call) {
	ctx := t.Context
	ctx.DebugGroups = append(ctx.DebugGroups, c.Arg(3).AsString())
}

func (e *Engine) glPopDebugGroup(t *Thread, c *trace.Call) {
	ctx := t.Context
	if len(ctx.DebugGroups) == 0 {
		e.protocol(0, "debug group stack underflow")
		return
	}
	ctx.DebugGroups = ctx.DebugGroups[:len(ctx.DebugGroups)-1]
}

var versionRe = regexp.MustCompile(`(\d+)\.(\d+)(?:\.(\d+))?`)

// parseVersion extracts the version number from a GL_VERSION string
// such as "OpenGL ES 3.2 build 1.13".
func parseVersion(s string) (*semver.Version, error) {
	m := versionRe.FindString(s)
	if m == "" {
		return nil, semver.ErrInvalidSemVer
	}
	return semver.NewVersion(m)
}

func (e *Engine) glGetString(t *Thread, c *trace.Call) {
	if enum(c.Arg(0)) != gl.VERSION {
		return
	}
	ctx := t.Context
	s := c.Return.AsString()
	if s == "" || s == ctx.VersionString {
		return
	}
	v, err := parseVersion(s)
	if err != nil {
		e.protocol(0, "unparsable version string %q", s)
		return
	}
	ctx.VersionString = s
	ctx.Version = v
}
