// SPDX-License-Identifier: Unlicense OR MIT

package state

import (
	"gltrace.org/internal/arena"
	"gltrace.org/internal/gl"
)

func (e *Engine) number() uint64 {
	if e.call == nil {
		return 0
	}
	return e.call.Number
}

func (e *Engine) display(h uint64) *Display {
	d, ok := e.displays[h]
	if !ok {
		d = &Display{Handle: h}
		e.displays[h] = d
	}
	return d
}

// createContext registers the context h. A live share context links
// the new context to the root of its share chain.
func (e *Engine) createContext(h arena.Handle, display uint64, share arena.Handle) *Context {
	ctx, err := e.contexts.Add(h, e.number(), e.frame)
	if err != nil {
		e.fail(err)
		return nil
	}
	ctx.init()
	ctx.Display = display
	if share != 0 {
		root, ok := e.contexts.Lookup(share)
		if !ok {
			e.protocol(uint64(share), "share context is not live")
			return ctx
		}
		if r := e.contexts.At(root).ShareRoot; r >= 0 {
			root = r
		}
		ctx.ShareRoot = root
	}
	return ctx
}

func (e *Engine) destroyContext(h arena.Handle) {
	ctx := e.contexts.ID(h)
	if ctx == nil {
		e.protocol(uint64(h), "context is not live")
		return
	}
	ctx.closePass()
	e.contexts.Remove(h, e.number(), e.frame)
}

func (e *Engine) createSurface(h arena.Handle, display uint64, typ SurfaceType) *Surface {
	s, err := e.surfaces.Add(h, e.number(), e.frame)
	if err != nil {
		e.fail(err)
		return nil
	}
	s.init()
	s.Display = display
	s.Type = typ
	s.Preserve = e.cfg.PreserveOnSwap
	return s
}

func (e *Engine) destroySurface(h arena.Handle) {
	if !e.surfaces.Remove(h, e.number(), e.frame) {
		e.protocol(uint64(h), "surface is not live")
	}
}

// makeCurrent binds ctx and its surfaces to t. A zero context releases
// the thread.
func (e *Engine) makeCurrent(t *Thread, display uint64, draw, read, ctxh arena.Handle) {
	if ctxh == 0 {
		t.Context, t.Draw, t.Read = nil, nil, nil
		return
	}
	if draw != read {
		e.protocol(uint64(draw), "draw surface differs from read surface %d", read)
		return
	}
	ctx := e.contexts.ID(ctxh)
	if ctx == nil {
		e.protocol(uint64(ctxh), "context is not live")
		return
	}
	var s *Surface
	if draw != 0 {
		if s = e.surfaces.ID(draw); s == nil {
			e.protocol(uint64(draw), "surface is not live")
			return
		}
	}
	t.Context, t.Draw, t.Read = ctx, s, s
	t.Display = display
	ctx.Activations++
	e.contexts.Touch(ctx.Index, e.frame)
	if s == nil {
		return
	}
	s.Activations++
	s.Contexts[ctx.Index] = struct{}{}
	s.Threads[t.ID] = struct{}{}
	e.surfaces.Touch(s.Index, e.frame)
	e.bindSurface(ctx, s)
}

// bindSurface points the default framebuffer of ctx at s. The first
// surface with known dimensions sizes the viewport and scissor box.
func (e *Engine) bindSurface(ctx *Context, s *Surface) {
	att := Attachment{Kind: TargetSurface, Handle: s.Handle, Index: s.Index}
	fb := ctx.Default
	if ctx.passOn(fb) {
		if a := fb.Attachment(gl.COLOR_ATTACHMENT0); a == nil || !a.sameTarget(&att) {
			ctx.closePass()
		}
	}
	for _, p := range []gl.Enum{gl.COLOR_ATTACHMENT0, gl.DEPTH_ATTACHMENT, gl.STENCIL_ATTACHMENT} {
		fb.attach(p, att)
	}
	ctx.Surface = s.Handle
	e.sizeContext(ctx, s)
}

func (e *Engine) sizeContext(ctx *Context, s *Surface) {
	if ctx.sized || s.Width <= 0 || s.Height <= 0 {
		return
	}
	box := [4]int32{0, 0, s.Width, s.Height}
	ctx.Binding.Viewport = box
	ctx.Binding.Fill.Scissor = box
	ctx.sized = true
}

// swap presents s. The pass of the context drawing to s ends and a new
// frame starts.
func (e *Engine) swap(t *Thread, h arena.Handle) {
	s := e.surfaces.ID(h)
	if s == nil {
		e.protocol(uint64(h), "surface is not live")
		return
	}
	s.Swaps++
	e.surfaces.Touch(s.Index, e.frame)
	if ctx := t.Context; ctx != nil && ctx.Surface == s.Handle {
		ctx.closePass()
		ctx.Frames++
		if !s.Preserve {
			for _, a := range ctx.Default.Attachments {
				a.invalidate()
			}
		}
	}
	e.frame++
}

// resize records surface dimensions learnt after creation.
func (e *Engine) resize(s *Surface, w, h int32) {
	s.Width, s.Height = w, h
	for _, t := range e.threads {
		if t.Draw == s && t.Context != nil {
			e.sizeContext(t.Context, s)
		}
	}
}
