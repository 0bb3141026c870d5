// SPDX-License-Identifier: Unlicense OR MIT

package state

import (
	"gltrace.org/internal/gl"
	"gltrace.org/trace"
)

func init() {
	handlers[trace.GlClear] = (*Engine).glClear
	handlers[trace.GlClearBufferfv] = (*Engine).glClearBuffer
	handlers[trace.GlClearBufferiv] = (*Engine).glClearBuffer
	handlers[trace.GlClearBufferuiv] = (*Engine).glClearBuffer
	handlers[trace.GlClearBufferfi] = (*Engine).glClearBuffer
	handlers[trace.GlDrawArrays] = (*Engine).glDrawArrays
	handlers[trace.GlDrawElements] = (*Engine).glDrawElements
	handlers[trace.GlDrawArraysInstanced] = (*Engine).glDrawArraysInstanced
	handlers[trace.GlDrawElementsInstanced] = (*Engine).glDrawElementsInstanced
	handlers[trace.GlDrawRangeElements] = (*Engine).glDrawRangeElements
	handlers[trace.GlDrawArraysIndirect] = (*Engine).glDrawIndirect
	handlers[trace.GlDrawElementsIndirect] = (*Engine).glDrawIndirect
	handlers[trace.GlDispatchCompute] = (*Engine).glDispatchCompute
	handlers[trace.GlDispatchComputeIndirect] = (*Engine).glDispatchCompute
}

// clearer accumulates the clears of one call.
type clearer struct {
	e      *Engine
	ctx    *Context
	fb     *Framebuffer
	base   ClearRecord
	points []gl.Enum
	dups   int
}

func (e *Engine) newClearer(ctx *Context) *clearer {
	fb := ctx.DrawFramebuffer()
	if fb == nil {
		e.protocol(uint64(ctx.Binding.DrawFramebuffer), "draw framebuffer is not live")
		return nil
	}
	fill := &ctx.Binding.Fill
	base := ClearRecord{
		Call:        e.number(),
		Frame:       e.frame,
		ColorMask:   fill.ColorMask,
		DepthFunc:   fill.DepthFunc,
		StencilMask: fill.StencilWriteMask,
	}
	if ctx.Binding.Enabled(gl.SCISSOR_TEST) {
		base.ScissorTest = true
		base.Scissor = fill.Scissor
	}
	return &clearer{e: e, ctx: ctx, fb: fb, base: base}
}

func (cl *clearer) clear(point gl.Enum, r ClearRecord) {
	a := cl.fb.Attachments[point]
	if a == nil {
		return
	}
	cl.points = append(cl.points, point)
	if a.recordClear(r, cl.e.cfg.ClearHistory) {
		cl.dups++
	}
}

func (cl *clearer) color(point gl.Enum, col [4]float64) {
	r := cl.base
	r.Kind = ClearColor
	r.Color = col
	cl.clear(point, r)
}

func (cl *clearer) depth(d float64) {
	r := cl.base
	r.Kind = ClearDepth
	r.Depth = d
	cl.clear(gl.DEPTH_ATTACHMENT, r)
}

func (cl *clearer) stencil(s int64) {
	r := cl.base
	r.Kind = ClearStencil
	r.Stencil = s
	cl.clear(gl.STENCIL_ATTACHMENT, r)
}

// done classifies the call: a clear is a duplicate when every
// attachment it wrote was already cleared the same way.
func (cl *clearer) done() {
	if len(cl.points) == 0 {
		return
	}
	cl.ctx.counters(cl.e.frame).Clears++
	cl.ctx.passWritten(cl.fb, cl.points)
	cl.e.observe(cl.dups < len(cl.points))
}

func (e *Engine) glClear(t *Thread, c *trace.Call) {
	ctx := t.Context
	cl := e.newClearer(ctx)
	if cl == nil {
		return
	}
	mask := c.Arg(0).AsUint()
	fill := &ctx.Binding.Fill
	if mask&gl.COLOR_BUFFER_BIT != 0 {
		var col [4]float64
		for i, v := range fill.ClearColor {
			col[i] = float64(v)
		}
		for _, p := range cl.fb.colorPoints() {
			cl.color(p, col)
		}
	}
	if mask&gl.DEPTH_BUFFER_BIT != 0 {
		cl.depth(float64(fill.ClearDepth))
	}
	if mask&gl.STENCIL_BUFFER_BIT != 0 {
		cl.stencil(int64(fill.ClearStencil))
	}
	cl.done()
}

// glClearBuffer handles the glClearBuffer{fv,iv,uiv,fi} family.
func (e *Engine) glClearBuffer(t *Thread, c *trace.Call) {
	ctx := t.Context
	cl := e.newClearer(ctx)
	if cl == nil {
		return
	}
	value := c.Arg(2)
	switch buf := enum(c.Arg(0)); buf {
	case gl.COLOR:
		p, ok := cl.fb.drawBufferPoint(int(c.Arg(1).AsInt()))
		if !ok {
			return
		}
		var col [4]float64
		for i := range col {
			col[i] = value.At(i).AsFloat()
		}
		cl.color(p, col)
	case gl.DEPTH:
		cl.depth(value.At(0).AsFloat())
	case gl.STENCIL:
		cl.stencil(value.At(0).AsInt())
	case gl.DEPTH_STENCIL:
		cl.depth(value.AsFloat())
		cl.stencil(c.Arg(3).AsInt())
	default:
		e.protocol(0, "unsupported clear buffer %v", buf)
		return
	}
	cl.done()
}

// beginWork returns the pass receiving a draw or dispatch, opening one
// when none is active.
func (e *Engine) beginWork(ctx *Context) *RenderPass {
	fb := ctx.DrawFramebuffer()
	if fb == nil {
		e.protocol(uint64(ctx.Binding.DrawFramebuffer), "draw framebuffer is not live")
		return nil
	}
	if fb.Index >= 0 {
		ctx.Framebuffers.Touch(fb.Index, e.frame)
	}
	// A pass left open by a context that did not present ends with
	// the frame.
	if ctx.pass != nil && (!ctx.passOn(fb) || ctx.pass.Frame != e.frame) {
		ctx.closePass()
	}
	p := ctx.pass
	if p == nil {
		p = ctx.openPass(fb, e.number(), e.frame)
	}
	p.LastCall = e.number()
	e.usePrograms(ctx, p)
	return p
}

// usePrograms adds the programs executing the work, and the textures
// their samplers read, to p. Sampler units come from the current
// uniform values.
func (e *Engine) usePrograms(ctx *Context, p *RenderPass) {
	progs := ctx.drawPrograms()
	if len(progs) == 0 {
		e.protocol(0, "no program in use")
		return
	}
	for _, prog := range progs {
		p.Programs[prog.Index] = struct{}{}
		ctx.Programs.Touch(prog.Index, e.frame)
		prog.samplerUnits(func(target gl.Enum, unit uint32) {
			idx, ok := ctx.Textures.Lookup(ctx.Binding.Texture(unit, target))
			if !ok {
				return
			}
			p.Textures[idx] = struct{}{}
			ctx.Textures.Touch(idx, e.frame)
		})
	}
}

// useVertexBuffers touches the buffers the bound vertex array sources
// from.
func (e *Engine) useVertexBuffers(ctx *Context) {
	v := ctx.VertexArray()
	if idx, ok := ctx.Buffers.Lookup(v.Buffers.get(gl.ELEMENT_ARRAY_BUFFER, 0).Buffer); ok {
		ctx.Buffers.Touch(idx, e.frame)
	}
	for _, a := range v.Attribs {
		if !a.Enabled {
			continue
		}
		if idx, ok := ctx.Buffers.Lookup(a.Buffer); ok {
			ctx.Buffers.Touch(idx, e.frame)
		}
	}
}

func (e *Engine) draw(ctx *Context, mode gl.Enum, count, instances uint64) {
	p := e.beginWork(ctx)
	if p == nil {
		return
	}
	p.Draws++
	p.Vertices += count * instances
	p.Primitives += gl.Primitives(mode, count) * instances
	fb := ctx.DrawFramebuffer()
	var points []gl.Enum
	for _, a := range fb.drawAttachments() {
		points = append(points, a.Point)
	}
	e.written(ctx, fb, points)
	e.useVertexBuffers(ctx)
	ctx.counters(e.frame).Draws++
}

func count(v trace.Value) uint64 {
	if n := v.AsInt(); n > 0 {
		return uint64(n)
	}
	return 0
}

func (e *Engine) glDrawArrays(t *Thread, c *trace.Call) {
	e.draw(t.Context, enum(c.Arg(0)), count(c.Arg(2)), 1)
}

func (e *Engine) glDrawElements(t *Thread, c *trace.Call) {
	e.draw(t.Context, enum(c.Arg(0)), count(c.Arg(1)), 1)
}

func (e *Engine) glDrawArraysInstanced(t *Thread, c *trace.Call) {
	e.draw(t.Context, enum(c.Arg(0)), count(c.Arg(2)), count(c.Arg(3)))
}

func (e *Engine) glDrawElementsInstanced(t *Thread, c *trace.Call) {
	e.draw(t.Context, enum(c.Arg(0)), count(c.Arg(1)), count(c.Arg(4)))
}

func (e *Engine) glDrawRangeElements(t *Thread, c *trace.Call) {
	e.draw(t.Context, enum(c.Arg(0)), count(c.Arg(3)), 1)
}

// glDrawIndirect handles the indirect draws, whose vertex counts live
// in buffer memory.
func (e *Engine) glDrawIndirect(t *Thread, c *trace.Call) {
	ctx := t.Context
	if idx, ok := ctx.Buffers.Lookup(ctx.bufferBindings(gl.DRAW_INDIRECT_BUFFER).get(gl.DRAW_INDIRECT_BUFFER, 0).Buffer); ok {
		ctx.Buffers.Touch(idx, e.frame)
	}
	e.draw(ctx, enum(c.Arg(0)), 0, 1)
}

func (e *Engine) glDispatchCompute(t *Thread, c *trace.Call) {
	ctx := t.Context
	p := e.beginWork(ctx)
	if p == nil {
		return
	}
	p.Dispatches++
	ctx.counters(e.frame).Dispatches++
}
