// SPDX-License-Identifier: Unlicense OR MIT

package state

import (
	"golang.org/x/exp/slices"

	"gltrace.org/internal/arena"
	"gltrace.org/internal/gl"
	"gltrace.org/trace"
)

func init() {
	handlers[trace.GlGenFramebuffers] = (*Engine).glGenFramebuffers
	handlers[trace.GlDeleteFramebuffers] = (*Engine).glDeleteFramebuffers
	handlers[trace.GlBindFramebuffer] = (*Engine).glBindFramebuffer
	handlers[trace.GlFramebufferTexture2D] = (*Engine).glFramebufferTexture2D
	handlers[trace.GlFramebufferTextureLayer] = (*Engine).glFramebufferTextureLayer
	handlers[trace.GlFramebufferTexture] = (*Engine).glFramebufferTexture
	handlers[trace.GlFramebufferRenderbuffer] = (*Engine).glFramebufferRenderbuffer
	handlers[trace.GlDrawBuffers] = (*Engine).glDrawBuffers
	handlers[trace.GlReadBuffer] = (*Engine).glReadBuffer
	handlers[trace.GlInvalidateFramebuffer] = (*Engine).glInvalidateFramebuffer
	handlers[trace.GlInvalidateSubFramebuffer] = (*Engine).glInvalidateSubFramebuffer
	handlers[trace.GlDiscardFramebufferEXT] = (*Engine).glInvalidateFramebuffer
	handlers[trace.GlCheckFramebufferStatus] = (*Engine).glCheckFramebufferStatus
	handlers[trace.GlBlitFramebuffer] = (*Engine).glBlitFramebuffer
	handlers[trace.GlReadPixels] = (*Engine).glReadPixels
}

func (e *Engine) glGenFramebuffers(t *Thread, c *trace.Call) {
	genNames(e, t.Context.Framebuffers, c.Arg(1), (*Framebuffer).init)
}

func (e *Engine) glDeleteFramebuffers(t *Thread, c *trace.Call) {
	ctx := t.Context
	deleteNames(e, ctx.Framebuffers, c.Arg(1), func(fb *Framebuffer) {
		if ctx.passOn(fb) {
			ctx.closePass()
		}
		ctx.Binding.unbindFramebuffer(fb.Handle)
	})
}

func (e *Engine) glBindFramebuffer(t *Thread, c *trace.Call) {
	ctx := t.Context
	target, h := enum(c.Arg(0)), handle(c.Arg(1))
	switch target {
	case gl.FRAMEBUFFER, gl.DRAW_FRAMEBUFFER, gl.READ_FRAMEBUFFER:
	default:
		e.protocol(uint64(h), "unsupported framebuffer target %v", target)
		return
	}
	if fb := ensure(e, ctx.Framebuffers, h, (*Framebuffer).init); h != 0 && fb == nil {
		return
	}
	drawChanged, changed := ctx.Binding.bindFramebuffer(target, h)
	if e.observe(changed) && drawChanged {
		ctx.closePass()
	}
}

// attach updates an attachment point of the framebuffer bound to
// target. Changing the framebuffer a pass draws into ends the pass.
func (e *Engine) attach(ctx *Context, target, point gl.Enum, a Attachment) {
	fb := ctx.targetFramebuffer(target)
	if fb == nil {
		return
	}
	if fb.Default() {
		e.protocol(0, "cannot attach to the default framebuffer")
		return
	}
	switch {
	case gl.IsColorAttachment(point):
	case point == gl.DEPTH_ATTACHMENT, point == gl.STENCIL_ATTACHMENT, point == gl.DEPTH_STENCIL_ATTACHMENT:
	default:
		e.protocol(uint64(a.Handle), "invalid attachment point %v", point)
		return
	}
	ctx.Framebuffers.Touch(fb.Index, e.frame)
	if e.observe(fb.attach(point, a)) && ctx.passOn(fb) {
		ctx.closePass()
	}
}

// textureAttachment resolves texture h for attachment. The zero handle
// yields an empty attachment, which detaches.
func (e *Engine) textureAttachment(ctx *Context, h arena.Handle, level, layer int32, texTarget gl.Enum) (Attachment, bool) {
	if h == 0 {
		return Attachment{}, true
	}
	tex := lookup(e, ctx.Textures, h, "texture")
	if tex == nil {
		return Attachment{}, false
	}
	if level < 0 || layer < 0 {
		e.protocol(uint64(h), "negative level %d or layer %d", level, layer)
		return Attachment{}, false
	}
	if texTarget == 0 {
		texTarget = tex.Target
	}
	return Attachment{Kind: TargetTexture, Handle: h, Index: tex.Index, Level: level, Layer: layer, TexTarget: texTarget}, true
}

func (e *Engine) glFramebufferTexture2D(t *Thread, c *trace.Call) {
	ctx := t.Context
	a, ok := e.textureAttachment(ctx, handle(c.Arg(3)), int32(c.Arg(4).AsInt()), 0, enum(c.Arg(2)))
	if ok {
		e.attach(ctx, enum(c.Arg(0)), enum(c.Arg(1)), a)
	}
}

func (e *Engine) glFramebufferTextureLayer(t *Thread, c *trace.Call) {
	ctx := t.Context
	a, ok := e.textureAttachment(ctx, handle(c.Arg(2)), int32(c.Arg(3).AsInt()), int32(c.Arg(4).AsInt()), 0)
	if ok {
		e.attach(ctx, enum(c.Arg(0)), enum(c.Arg(1)), a)
	}
}

func (e *Engine) glFramebufferTexture(t *Thread, c *trace.Call) {
	ctx := t.Context
	a, ok := e.textureAttachment(ctx, handle(c.Arg(2)), int32(c.Arg(3).AsInt()), 0, 0)
	if ok {
		e.attach(ctx, enum(c.Arg(0)), enum(c.Arg(1)), a)
	}
}

func (e *Engine) glFramebufferRenderbuffer(t *Thread, c *trace.Call) {
	ctx := t.Context
	var a Attachment
	if h := handle(c.Arg(3)); h != 0 {
		rb := lookup(e, ctx.Renderbuffers, h, "renderbuffer")
		if rb == nil {
			return
		}
		a = Attachment{Kind: TargetRenderbuffer, Handle: h, Index: rb.Index}
	}
	e.attach(ctx, enum(c.Arg(0)), enum(c.Arg(1)), a)
}

// detach removes attachments of a deleted image from the bound
// framebuffers.
func (e *Engine) detach(ctx *Context, kind TargetKind, h arena.Handle) {
	for _, fb := range []*Framebuffer{ctx.DrawFramebuffer(), ctx.ReadFramebuffer()} {
		if fb == nil || fb.Default() {
			continue
		}
		if fb.detach(kind, h) && ctx.passOn(fb) {
			ctx.closePass()
		}
	}
}

func enums(v trace.Value) []gl.Enum {
	out := make([]gl.Enum, v.Len())
	for i := range out {
		out[i] = enum(v.At(i))
	}
	return out
}

func (e *Engine) glDrawBuffers(t *Thread, c *trace.Call) {
	ctx := t.Context
	fb := ctx.DrawFramebuffer()
	if fb == nil {
		return
	}
	bufs := enums(c.Arg(1))
	if n := int(c.Arg(0).AsInt()); n < len(bufs) {
		bufs = bufs[:n]
	}
	changed := !slices.Equal(fb.DrawBuffers, bufs)
	if changed {
		fb.DrawBuffers = bufs
	}
	if e.observe(changed) && ctx.passOn(fb) {
		ctx.closePass()
	}
}

func (e *Engine) glReadBuffer(t *Thread, c *trace.Call) {
	if fb := t.Context.ReadFramebuffer(); fb != nil {
		e.observe(set(&fb.ReadBuffer, enum(c.Arg(0))))
	}
}

// glInvalidateFramebuffer also handles glDiscardFramebufferEXT.
func (e *Engine) glInvalidateFramebuffer(t *Thread, c *trace.Call) {
	ctx := t.Context
	fb := ctx.targetFramebuffer(enum(c.Arg(0)))
	if fb == nil {
		return
	}
	points := fb.invalidate(enums(c.Arg(2)))
	ctx.passInvalidated(fb, points)
}

// glInvalidateSubFramebuffer invalidates the attachments the region
// covers entirely. Partially invalidated attachments only lose their
// clear history.
func (e *Engine) glInvalidateSubFramebuffer(t *Thread, c *trace.Call) {
	ctx := t.Context
	fb := ctx.targetFramebuffer(enum(c.Arg(0)))
	if fb == nil {
		return
	}
	x, y := int32(c.Arg(3).AsInt()), int32(c.Arg(4).AsInt())
	w, h := int32(c.Arg(5).AsInt()), int32(c.Arg(6).AsInt())
	var full []gl.Enum
	for _, n := range enums(c.Arg(2)) {
		for _, p := range fb.resolvePoints(n) {
			a := fb.Attachments[p]
			if a == nil {
				continue
			}
			aw, ah := ctx.attachmentSize(a, e.surfaces)
			if x <= 0 && y <= 0 && x+w >= aw && y+h >= ah {
				full = append(full, p)
			} else {
				a.Clears = nil
			}
		}
	}
	fb.invalidate(full)
	ctx.passInvalidated(fb, full)
}

func (e *Engine) glCheckFramebufferStatus(t *Thread, c *trace.Call) {
	if fb := t.Context.targetFramebuffer(enum(c.Arg(0))); fb != nil {
		fb.Status = enum(c.Return)
	}
}

// readFrom records a read of the read buffer of the bound read
// framebuffer.
func (e *Engine) readFrom(ctx *Context) {
	fb := ctx.ReadFramebuffer()
	if fb == nil {
		return
	}
	if a := fb.readAttachment(); a != nil {
		a.Invalidated = false
	}
}

// written records a content write to points of fb other than by a
// clear.
func (e *Engine) written(ctx *Context, fb *Framebuffer, points []gl.Enum) {
	for _, p := range points {
		if a := fb.Attachments[p]; a != nil {
			a.written()
		}
	}
	ctx.passWritten(fb, points)
}

func (e *Engine) glBlitFramebuffer(t *Thread, c *trace.Call) {
	ctx := t.Context
	mask := c.Arg(8).AsUint()
	if mask&gl.COLOR_BUFFER_BIT != 0 {
		e.readFrom(ctx)
	}
	fb := ctx.DrawFramebuffer()
	if fb == nil {
		return
	}
	var points []gl.Enum
	if mask&gl.COLOR_BUFFER_BIT != 0 {
		points = append(points, fb.colorPoints()...)
	}
	if mask&gl.DEPTH_BUFFER_BIT != 0 {
		points = append(points, gl.DEPTH_ATTACHMENT)
	}
	if mask&gl.STENCIL_BUFFER_BIT != 0 {
		points = append(points, gl.STENCIL_ATTACHMENT)
	}
	e.written(ctx, fb, points)
}

func (e *Engine) glReadPixels(t *Thread, c *trace.Call) {
	e.readFrom(t.Context)
}
