// SPDX-License-Identifier: Unlicense OR MIT

package state

import (
	"math/bits"

	"gltrace.org/internal/arena"
	"gltrace.org/internal/gl"
	"gltrace.org/trace"
)

func init() {
	handlers[trace.GlGenTextures] = (*Engine).glGenTextures
	handlers[trace.GlDeleteTextures] = (*Engine).glDeleteTextures
	handlers[trace.GlBindTexture] = (*Engine).glBindTexture
	handlers[trace.GlActiveTexture] = (*Engine).glActiveTexture
	handlers[trace.GlTexImage2D] = (*Engine).glTexImage2D
	handlers[trace.GlTexImage3D] = (*Engine).glTexImage3D
	handlers[trace.GlTexStorage2D] = (*Engine).glTexStorage2D
	handlers[trace.GlTexStorage3D] = (*Engine).glTexStorage3D
	handlers[trace.GlTexSubImage2D] = (*Engine).texContent
	handlers[trace.GlTexSubImage3D] = (*Engine).texContent
	handlers[trace.GlCompressedTexImage2D] = (*Engine).glTexImage2D
	handlers[trace.GlCompressedTexSubImage2D] = (*Engine).texContent
	handlers[trace.GlCopyTexImage2D] = (*Engine).glCopyTexImage2D
	handlers[trace.GlCopyTexSubImage2D] = (*Engine).glCopyTexSubImage2D
	handlers[trace.GlTexParameteri] = (*Engine).glTexParameter
	handlers[trace.GlTexParameterf] = (*Engine).glTexParameter
	handlers[trace.GlGenerateMipmap] = (*Engine).glGenerateMipmap
	handlers[trace.GlEGLImageTargetTexture2DOES] = (*Engine).glEGLImageTargetTexture2DOES

	handlers[trace.GlGenBuffers] = (*Engine).glGenBuffers
	handlers[trace.GlDeleteBuffers] = (*Engine).glDeleteBuffers
	handlers[trace.GlBindBuffer] = (*Engine).glBindBuffer
	handlers[trace.GlBindBufferBase] = (*Engine).glBindBufferBase
	handlers[trace.GlBindBufferRange] = (*Engine).glBindBufferRange
	handlers[trace.GlBufferData] = (*Engine).glBufferData
	handlers[trace.GlBufferSubData] = (*Engine).bufferContent
	handlers[trace.GlMapBufferRange] = (*Engine).glMapBufferRange
	handlers[trace.GlUnmapBuffer] = (*Engine).glUnmapBuffer
	handlers[trace.GlFlushMappedBufferRange] = (*Engine).bufferContent
	handlers[trace.GlCopyBufferSubData] = (*Engine).glCopyBufferSubData

	handlers[trace.GlGenRenderbuffers] = (*Engine).glGenRenderbuffers
	handlers[trace.GlDeleteRenderbuffers] = (*Engine).glDeleteRenderbuffers
	handlers[trace.GlBindRenderbuffer] = (*Engine).glBindRenderbuffer
	handlers[trace.GlRenderbufferStorage] = (*Engine).glRenderbufferStorage
	handlers[trace.GlRenderbufferStorageMultisample] = (*Engine).glRenderbufferStorageMultisample

	handlers[trace.GlGenSamplers] = (*Engine).glGenSamplers
	handlers[trace.GlDeleteSamplers] = (*Engine).glDeleteSamplers
	handlers[trace.GlBindSampler] = (*Engine).glBindSampler
	handlers[trace.GlSamplerParameteri] = (*Engine).glSamplerParameter
	handlers[trace.GlSamplerParameterf] = (*Engine).glSamplerParameter

	handlers[trace.GlGenQueries] = (*Engine).glGenQueries
	handlers[trace.GlDeleteQueries] = (*Engine).glDeleteQueries
	handlers[trace.GlBeginQuery] = (*Engine).glBeginQuery
	handlers[trace.GlEndQuery] = (*Engine).glEndQuery

	handlers[trace.GlGenTransformFeedbacks] = (*Engine).glGenTransformFeedbacks
	handlers[trace.GlDeleteTransformFeedbacks] = (*Engine).glDeleteTransformFeedbacks
	handlers[trace.GlBindTransformFeedback] = (*Engine).glBindTransformFeedback
	handlers[trace.GlBeginTransformFeedback] = (*Engine).glBeginTransformFeedback
	handlers[trace.GlEndTransformFeedback] = (*Engine).glEndTransformFeedback
	handlers[trace.GlPauseTransformFeedback] = (*Engine).glPauseTransformFeedback
	handlers[trace.GlResumeTransformFeedback] = (*Engine).glResumeTransformFeedback

	handlers[trace.GlGenVertexArrays] = (*Engine).glGenVertexArrays
	handlers[trace.GlDeleteVertexArrays] = (*Engine).glDeleteVertexArrays
	handlers[trace.GlBindVertexArray] = (*Engine).glBindVertexArray
	handlers[trace.GlVertexAttribPointer] = (*Engine).glVertexAttribPointer
	handlers[trace.GlVertexAttribIPointer] = (*Engine).glVertexAttribIPointer
	handlers[trace.GlEnableVertexAttribArray] = (*Engine).glEnableVertexAttribArray
	handlers[trace.GlDisableVertexAttribArray] = (*Engine).glDisableVertexAttribArray
	handlers[trace.GlVertexAttribDivisor] = (*Engine).glVertexAttribDivisor
}

// genNames adds the objects named by a glGen* name array.
func genNames[T any, PT arena.Object[T]](e *Engine, a *arena.Arena[T, PT], names trace.Value, setup func(PT)) {
	for _, n := range names.Uints() {
		o, err := a.Add(arena.Handle(n), e.number(), e.frame)
		if err != nil {
			e.fail(err)
			continue
		}
		if setup != nil {
			setup(o)
		}
	}
}

// deleteNames destroys the objects named by a glDelete* name array,
// calling release first. Unused and zero names are ignored.
func deleteNames[T any, PT arena.Object[T]](e *Engine, a *arena.Arena[T, PT], names trace.Value, release func(PT)) {
	for _, n := range names.Uints() {
		o := a.ID(arena.Handle(n))
		if o == nil {
			continue
		}
		if release != nil {
			release(o)
		}
		a.Remove(arena.Handle(n), e.number(), e.frame)
	}
}

// ensure returns the live object named h, creating it when a bind
// introduces a name that was never generated. It returns nil for the
// zero handle.
func ensure[T any, PT arena.Object[T]](e *Engine, a *arena.Arena[T, PT], h arena.Handle, setup func(PT)) PT {
	if h == 0 {
		return nil
	}
	if o := a.ID(h); o != nil {
		a.Touch(o.Base().Index, e.frame)
		return o
	}
	o, err := a.Add(h, e.number(), e.frame)
	if err != nil {
		e.fail(err)
		return nil
	}
	if setup != nil {
		setup(o)
	}
	return o
}

// lookup returns the live object named h and records a protocol
// anomaly when there is none.
func lookup[T any, PT arena.Object[T]](e *Engine, a *arena.Arena[T, PT], h arena.Handle, what string) PT {
	o := a.ID(h)
	if o == nil {
		e.protocol(uint64(h), "%s is not live", what)
		return nil
	}
	a.Touch(o.Base().Index, e.frame)
	return o
}

func enum(v trace.Value) gl.Enum {
	return gl.Enum(v.AsUint())
}

// hasData reports whether a data argument points at data.
func hasData(v trace.Value) bool {
	return v.Kind == trace.KindBlob || v.AsUint() != 0
}

func (e *Engine) glGenTextures(t *Thread, c *trace.Call) {
	genNames(e, t.Context.Textures, c.Arg(1), (*Texture).init)
}

func (e *Engine) glDeleteTextures(t *Thread, c *trace.Call) {
	ctx := t.Context
	deleteNames(e, ctx.Textures, c.Arg(1), func(tex *Texture) {
		ctx.Binding.unbindTexture(tex.Handle)
		e.detach(ctx, TargetTexture, tex.Handle)
	})
}

func (e *Engine) glBindTexture(t *Thread, c *trace.Call) {
	ctx := t.Context
	target, h := enum(c.Arg(0)), handle(c.Arg(1))
	tex := ensure(e, ctx.Textures, h, (*Texture).init)
	if h != 0 && tex == nil {
		return
	}
	if tex != nil && tex.Target == 0 {
		tex.Target = target
	}
	e.observe(ctx.Binding.bindTexture(ctx.Binding.ActiveUnit, target, h))
}

func (e *Engine) glActiveTexture(t *Thread, c *trace.Call) {
	unit := enum(c.Arg(0))
	if unit < gl.TEXTURE0 {
		e.protocol(0, "invalid texture unit %#x", uint32(unit))
		return
	}
	e.observe(set(&t.Context.Binding.ActiveUnit, uint32(unit-gl.TEXTURE0)))
}

// boundTexture returns the texture bound to target on the active unit.
func (e *Engine) boundTexture(ctx *Context, target gl.Enum) *Texture {
	tex := ctx.BoundTexture(target)
	if tex == nil {
		e.protocol(0, "no texture bound to %v", target)
		return nil
	}
	ctx.Textures.Touch(tex.Index, e.frame)
	return tex
}

func (e *Engine) specify(ctx *Context, target gl.Enum, level int64, format gl.Enum, w, h, d int64) {
	tex := e.boundTexture(ctx, target)
	if tex == nil {
		return
	}
	if tex.Immutable {
		e.protocol(uint64(tex.Handle), "respecification of immutable texture")
		return
	}
	tex.specify(int32(level), format, int32(w), int32(h), int32(d))
}

// glTexImage2D also handles glCompressedTexImage2D, which takes the
// same leading arguments.
func (e *Engine) glTexImage2D(t *Thread, c *trace.Call) {
	e.specify(t.Context, enum(c.Arg(0)), c.Arg(1).AsInt(), enum(c.Arg(2)), c.Arg(3).AsInt(), c.Arg(4).AsInt(), 1)
}

func (e *Engine) glTexImage3D(t *Thread, c *trace.Call) {
	e.specify(t.Context, enum(c.Arg(0)), c.Arg(1).AsInt(), enum(c.Arg(2)), c.Arg(3).AsInt(), c.Arg(4).AsInt(), c.Arg(5).AsInt())
}

func (e *Engine) storage(ctx *Context, target gl.Enum, levels int64, format gl.Enum, w, h, d int64) {
	tex := e.boundTexture(ctx, target)
	if tex == nil {
		return
	}
	if tex.Immutable {
		e.protocol(uint64(tex.Handle), "texture storage is already immutable")
		return
	}
	tex.specify(0, format, int32(w), int32(h), int32(d))
	tex.Levels = int32(levels)
	tex.Immutable = true
}

func (e *Engine) glTexStorage2D(t *Thread, c *trace.Call) {
	e.storage(t.Context, enum(c.Arg(0)), c.Arg(1).AsInt(), enum(c.Arg(2)), c.Arg(3).AsInt(), c.Arg(4).AsInt(), 1)
}

func (e *Engine) glTexStorage3D(t *Thread, c *trace.Call) {
	e.storage(t.Context, enum(c.Arg(0)), c.Arg(1).AsInt(), enum(c.Arg(2)), c.Arg(3).AsInt(), c.Arg(4).AsInt(), c.Arg(5).AsInt())
}

// texContent handles the sub-image uploads.
func (e *Engine) texContent(t *Thread, c *trace.Call) {
	if tex := e.boundTexture(t.Context, enum(c.Arg(0))); tex != nil {
		tex.Initialized = true
	}
}

func (e *Engine) glCopyTexImage2D(t *Thread, c *trace.Call) {
	ctx := t.Context
	e.readFrom(ctx)
	e.specify(ctx, enum(c.Arg(0)), c.Arg(1).AsInt(), enum(c.Arg(2)), c.Arg(5).AsInt(), c.Arg(6).AsInt(), 1)
}

func (e *Engine) glCopyTexSubImage2D(t *Thread, c *trace.Call) {
	e.readFrom(t.Context)
	e.texContent(t, c)
}

func (e *Engine) glTexParameter(t *Thread, c *trace.Call) {
	if tex := e.boundTexture(t.Context, enum(c.Arg(0))); tex != nil {
		e.observe(setParam(tex.Params, enum(c.Arg(1)), c.Arg(2).AsFloat()))
	}
}

func (e *Engine) glGenerateMipmap(t *Thread, c *trace.Call) {
	tex := e.boundTexture(t.Context, enum(c.Arg(0)))
	if tex == nil {
		return
	}
	if n := int32(bits.Len32(uint32(max(tex.Width, tex.Height, 1)))); !tex.Immutable && n > tex.Levels {
		tex.Levels = n
	}
}

func (e *Engine) glEGLImageTargetTexture2DOES(t *Thread, c *trace.Call) {
	tex := e.boundTexture(t.Context, enum(c.Arg(0)))
	if tex == nil {
		return
	}
	img := lookup(e, e.images, handle(c.Arg(1)), "image")
	if img == nil {
		return
	}
	tex.Image = img.Handle
	tex.Initialized = true
}

func (e *Engine) glGenBuffers(t *Thread, c *trace.Call) {
	genNames(e, t.Context.Buffers, c.Arg(1), nil)
}

func (e *Engine) glDeleteBuffers(t *Thread, c *trace.Call) {
	ctx := t.Context
	deleteNames(e, ctx.Buffers, c.Arg(1), func(b *Buffer) {
		ctx.Binding.Buffers.unbind(b.Handle)
		ctx.VertexArray().unbind(b.Handle)
	})
}

// bindBuffer binds h to the binding point (target, index) and reports
// whether the binding changed.
func (e *Engine) bindBuffer(ctx *Context, target gl.Enum, index uint32, b BufferBinding) (bool, bool) {
	if !gl.BufferTarget(target) {
		e.protocol(uint64(b.Buffer), "unsupported buffer target %v", target)
		return false, false
	}
	buf := ensure(e, ctx.Buffers, b.Buffer, nil)
	if b.Buffer != 0 && buf == nil {
		return false, false
	}
	if buf != nil && buf.Target == 0 {
		buf.Target = target
	}
	return ctx.bufferBindings(target).set(target, index, b), true
}

func (e *Engine) glBindBuffer(t *Thread, c *trace.Call) {
	target := enum(c.Arg(0))
	changed, ok := e.bindBuffer(t.Context, target, genericBinding(target), BufferBinding{Buffer: handle(c.Arg(1))})
	if ok {
		e.observe(changed)
	}
}

// bindIndexed binds an indexed binding point. The generic binding point
// of the target follows.
func (e *Engine) bindIndexed(ctx *Context, target gl.Enum, index uint32, b BufferBinding) {
	if !gl.IndexedBufferTarget(target) {
		e.protocol(uint64(b.Buffer), "target %v has no indexed binding points", target)
		return
	}
	changed, ok := e.bindBuffer(ctx, target, index, b)
	if !ok {
		return
	}
	ctx.Binding.Buffers.set(target, genericBinding(target), BufferBinding{Buffer: b.Buffer})
	e.observe(changed)
}

func (e *Engine) glBindBufferBase(t *Thread, c *trace.Call) {
	e.bindIndexed(t.Context, enum(c.Arg(0)), uint32(c.Arg(1).AsUint()), BufferBinding{Buffer: handle(c.Arg(2))})
}

func (e *Engine) glBindBufferRange(t *Thread, c *trace.Call) {
	b := BufferBinding{Buffer: handle(c.Arg(2)), Offset: c.Arg(3).AsInt(), Size: c.Arg(4).AsInt()}
	e.bindIndexed(t.Context, enum(c.Arg(0)), uint32(c.Arg(1).AsUint()), b)
}

// boundBuffer returns the buffer bound to target.
func (e *Engine) boundBuffer(ctx *Context, target gl.Enum) *Buffer {
	b := ctx.BoundBuffer(target)
	if b == nil {
		e.protocol(0, "no buffer bound to %v", target)
		return nil
	}
	ctx.Buffers.Touch(b.Index, e.frame)
	return b
}

func (e *Engine) glBufferData(t *Thread, c *trace.Call) {
	b := e.boundBuffer(t.Context, enum(c.Arg(0)))
	if b == nil {
		return
	}
	b.Size = c.Arg(1).AsInt()
	b.Usage = enum(c.Arg(3))
	b.Initialized = hasData(c.Arg(2))
}

// bufferContent handles calls that write part of a buffer.
func (e *Engine) bufferContent(t *Thread, c *trace.Call) {
	if b := e.boundBuffer(t.Context, enum(c.Arg(0))); b != nil {
		b.Initialized = true
	}
}

func (e *Engine) glMapBufferRange(t *Thread, c *trace.Call) {
	if b := e.boundBuffer(t.Context, enum(c.Arg(0))); b != nil {
		b.Mapped = true
	}
}

func (e *Engine) glUnmapBuffer(t *Thread, c *trace.Call) {
	if b := e.boundBuffer(t.Context, enum(c.Arg(0))); b != nil {
		b.Mapped = false
		b.Initialized = true
	}
}

func (e *Engine) glCopyBufferSubData(t *Thread, c *trace.Call) {
	ctx := t.Context
	src := e.boundBuffer(ctx, enum(c.Arg(0)))
	dst := e.boundBuffer(ctx, enum(c.Arg(1)))
	if src != nil && dst != nil {
		dst.Initialized = true
	}
}

func (e *Engine) glGenRenderbuffers(t *Thread, c *trace.Call) {
	genNames(e, t.Context.Renderbuffers, c.Arg(1), nil)
}

func (e *Engine) glDeleteRenderbuffers(t *Thread, c *trace.Call) {
	ctx := t.Context
	deleteNames(e, ctx.Renderbuffers, c.Arg(1), func(r *Renderbuffer) {
		if ctx.Binding.Renderbuffer == r.Handle {
			ctx.Binding.Renderbuffer = 0
		}
		e.detach(ctx, TargetRenderbuffer, r.Handle)
	})
}

func (e *Engine) glBindRenderbuffer(t *Thread, c *trace.Call) {
	ctx := t.Context
	h := handle(c.Arg(1))
	if rb := ensure(e, ctx.Renderbuffers, h, nil); h != 0 && rb == nil {
		return
	}
	e.observe(set(&ctx.Binding.Renderbuffer, h))
}

func (e *Engine) boundRenderbuffer(ctx *Context) *Renderbuffer {
	rb := ctx.Renderbuffers.ID(ctx.Binding.Renderbuffer)
	if rb == nil {
		e.protocol(0, "no renderbuffer bound")
		return nil
	}
	ctx.Renderbuffers.Touch(rb.Index, e.frame)
	return rb
}

func (e *Engine) glRenderbufferStorage(t *Thread, c *trace.Call) {
	if rb := e.boundRenderbuffer(t.Context); rb != nil {
		rb.Format = enum(c.Arg(1))
		rb.Width = int32(c.Arg(2).AsInt())
		rb.Height = int32(c.Arg(3).AsInt())
		rb.Samples = 0
		rb.Initialized = true
	}
}

func (e *Engine) glRenderbufferStorageMultisample(t *Thread, c *trace.Call) {
	if rb := e.boundRenderbuffer(t.Context); rb != nil {
		rb.Samples = int32(c.Arg(1).AsInt())
		rb.Format = enum(c.Arg(2))
		rb.Width = int32(c.Arg(3).AsInt())
		rb.Height = int32(c.Arg(4).AsInt())
		rb.Initialized = true
	}
}

func (e *Engine) glGenSamplers(t *Thread, c *trace.Call) {
	genNames(e, t.Context.Samplers, c.Arg(1), (*Sampler).init)
}

func (e *Engine) glDeleteSamplers(t *Thread, c *trace.Call) {
	ctx := t.Context
	deleteNames(e, ctx.Samplers, c.Arg(1), func(s *Sampler) {
		ctx.Binding.unbindSampler(s.Handle)
	})
}

func (e *Engine) glBindSampler(t *Thread, c *trace.Call) {
	ctx := t.Context
	h := handle(c.Arg(1))
	if h != 0 && lookup(e, ctx.Samplers, h, "sampler") == nil {
		return
	}
	e.observe(ctx.Binding.bindSampler(uint32(c.Arg(0).AsUint()), h))
}

func (e *Engine) glSamplerParameter(t *Thread, c *trace.Call) {
	if s := lookup(e, t.Context.Samplers, handle(c.Arg(0)), "sampler"); s != nil {
		e.observe(setParam(s.Params, enum(c.Arg(1)), c.Arg(2).AsFloat()))
	}
}

func (e *Engine) glGenQueries(t *Thread, c *trace.Call) {
	genNames(e, t.Context.Queries, c.Arg(1), nil)
}

func (e *Engine) glDeleteQueries(t *Thread, c *trace.Call) {
	ctx := t.Context
	deleteNames(e, ctx.Queries, c.Arg(1), func(q *Query) {
		ctx.Binding.unbindQuery(q.Handle)
	})
}

func (e *Engine) glBeginQuery(t *Thread, c *trace.Call) {
	ctx := t.Context
	target, h := enum(c.Arg(0)), handle(c.Arg(1))
	q := ensure(e, ctx.Queries, h, nil)
	if q == nil {
		e.protocol(uint64(h), "cannot begin query")
		return
	}
	if q.Active {
		e.protocol(uint64(h), "query is already active")
	}
	q.Target = target
	q.Active = true
	q.Uses++
	ctx.Binding.Queries[target] = h
}

func (e *Engine) glEndQuery(t *Thread, c *trace.Call) {
	ctx := t.Context
	target := enum(c.Arg(0))
	h, ok := ctx.Binding.Queries[target]
	if !ok {
		e.protocol(0, "no active query for %v", target)
		return
	}
	delete(ctx.Binding.Queries, target)
	if q := ctx.Queries.ID(h); q != nil {
		q.Active = false
	}
}

func (e *Engine) glGenTransformFeedbacks(t *Thread, c *trace.Call) {
	genNames(e, t.Context.TransformFeedbacks, c.Arg(1), nil)
}

func (e *Engine) glDeleteTransformFeedbacks(t *Thread, c *trace.Call) {
	ctx := t.Context
	deleteNames(e, ctx.TransformFeedbacks, c.Arg(1), func(tf *TransformFeedback) {
		if ctx.Binding.TransformFeedback == tf.Handle {
			ctx.Binding.TransformFeedback = 0
		}
	})
}

func (e *Engine) glBindTransformFeedback(t *Thread, c *trace.Call) {
	ctx := t.Context
	h := handle(c.Arg(1))
	if tf := ensure(e, ctx.TransformFeedbacks, h, nil); h != 0 && tf == nil {
		return
	}
	e.observe(set(&ctx.Binding.TransformFeedback, h))
}

func (e *Engine) glBeginTransformFeedback(t *Thread, c *trace.Call) {
	tf := t.Context.TransformFeedback()
	if tf.Active {
		e.protocol(uint64(tf.Handle), "transform feedback is already active")
	}
	tf.Active = true
	tf.Paused = false
	tf.Mode = enum(c.Arg(0))
}

func (e *Engine) glEndTransformFeedback(t *Thread, c *trace.Call) {
	tf := t.Context.TransformFeedback()
	tf.Active = false
	tf.Paused = false
}

func (e *Engine) glPauseTransformFeedback(t *Thread, c *trace.Call) {
	e.observe(set(&t.Context.TransformFeedback().Paused, true))
}

func (e *Engine) glResumeTransformFeedback(t *Thread, c *trace.Call) {
	e.observe(set(&t.Context.TransformFeedback().Paused, false))
}

func (e *Engine) glGenVertexArrays(t *Thread, c *trace.Call) {
	genNames(e, t.Context.VertexArrays, c.Arg(1), (*VertexArray).init)
}

func (e *Engine) glDeleteVertexArrays(t *Thread, c *trace.Call) {
	ctx := t.Context
	deleteNames(e, ctx.VertexArrays, c.Arg(1), func(v *VertexArray) {
		if ctx.Binding.VertexArray == v.Handle {
			ctx.Binding.VertexArray = 0
		}
	})
}

func (e *Engine) glBindVertexArray(t *Thread, c *trace.Call) {
	ctx := t.Context
	h := handle(c.Arg(0))
	if v := ensure(e, ctx.VertexArrays, h, (*VertexArray).init); h != 0 && v == nil {
		return
	}
	e.observe(set(&ctx.Binding.VertexArray, h))
}

// setAttrib applies f to vertex attribute index of the bound vertex
// array and observes the outcome.
func (e *Engine) setAttrib(ctx *Context, index uint32, f func(a *VertexAttrib)) {
	v := ctx.VertexArray()
	old := v.Attribs[index]
	a := old
	f(&a)
	if a != old {
		v.Attribs[index] = a
	}
	e.observe(a != old)
}

func (e *Engine) attribPointer(ctx *Context, index uint32, a VertexAttrib, ptr trace.Value) {
	a.Buffer = ctx.VertexArray().Buffers.get(gl.ARRAY_BUFFER, 0).Buffer
	if a.Buffer == 0 && ptr.Kind == trace.KindClientBuffer {
		a.ClientBuffer = ptr.Ref
	} else {
		a.Offset = ptr.AsUint()
	}
	if idx, ok := ctx.Buffers.Lookup(a.Buffer); ok {
		ctx.Buffers.Touch(idx, e.frame)
	}
	e.setAttrib(ctx, index, func(cur *VertexAttrib) {
		a.Enabled = cur.Enabled
		a.Divisor = cur.Divisor
		*cur = a
	})
}

func (e *Engine) glVertexAttribPointer(t *Thread, c *trace.Call) {
	a := VertexAttrib{
		Size:       int32(c.Arg(1).AsInt()),
		Type:       enum(c.Arg(2)),
		Normalized: c.Arg(3).AsBool(),
		Stride:     int32(c.Arg(4).AsInt()),
	}
	e.attribPointer(t.Context, uint32(c.Arg(0).AsUint()), a, c.Arg(5))
}

func (e *Engine) glVertexAttribIPointer(t *Thread, c *trace.Call) {
	a := VertexAttrib{
		Size:    int32(c.Arg(1).AsInt()),
		Type:    enum(c.Arg(2)),
		Integer: true,
		Stride:  int32(c.Arg(3).AsInt()),
	}
	e.attribPointer(t.Context, uint32(c.Arg(0).AsUint()), a, c.Arg(4))
}

func (e *Engine) glEnableVertexAttribArray(t *Thread, c *trace.Call) {
	e.setAttrib(t.Context, uint32(c.Arg(0).AsUint()), func(a *VertexAttrib) { a.Enabled = true })
}

func (e *Engine) glDisableVertexAttribArray(t *Thread, c *trace.Call) {
	e.setAttrib(t.Context, uint32(c.Arg(0).AsUint()), func(a *VertexAttrib) { a.Enabled = false })
}

func (e *Engine) glVertexAttribDivisor(t *Thread, c *trace.Call) {
	d := uint32(c.Arg(1).AsUint())
	e.setAttrib(t.Context, uint32(c.Arg(0).AsUint()), func(a *VertexAttrib) { a.Divisor = d })
}
