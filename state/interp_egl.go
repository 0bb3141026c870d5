// SPDX-License-Identifier: Unlicense OR MIT

package state

import (
	"gltrace.org/internal/arena"
	"gltrace.org/internal/gl"
	"gltrace.org/trace"
)

func init() {
	handlers[trace.EglGetDisplay] = (*Engine).eglGetDisplay
	handlers[trace.EglInitialize] = (*Engine).eglInitialize
	handlers[trace.EglTerminate] = (*Engine).eglTerminate
	handlers[trace.EglBindAPI] = (*Engine).eglBindAPI
	handlers[trace.EglChooseConfig] = (*Engine).noop
	handlers[trace.EglCreateContext] = (*Engine).eglCreateContext
	handlers[trace.EglDestroyContext] = (*Engine).eglDestroyContext
	handlers[trace.EglMakeCurrent] = (*Engine).eglMakeCurrent
	handlers[trace.EglCreateWindowSurface] = (*Engine).eglCreateWindowSurface
	handlers[trace.EglCreateWindowSurface2] = (*Engine).eglCreateWindowSurface2
	handlers[trace.EglCreatePbufferSurface] = (*Engine).eglCreatePbufferSurface
	handlers[trace.EglCreatePixmapSurface] = (*Engine).eglCreatePixmapSurface
	handlers[trace.EglDestroySurface] = (*Engine).eglDestroySurface
	handlers[trace.EglSurfaceAttrib] = (*Engine).eglSurfaceAttrib
	handlers[trace.EglQuerySurface] = (*Engine).eglQuerySurface
	handlers[trace.EglSwapBuffers] = (*Engine).eglSwapBuffers
	handlers[trace.EglSwapBuffersWithDamageKHR] = (*Engine).eglSwapBuffers
	handlers[trace.EglSwapInterval] = (*Engine).noop
	handlers[trace.EglGetCurrentContext] = (*Engine).noop
	handlers[trace.EglGetError] = (*Engine).noop
	handlers[trace.EglCreateImageKHR] = (*Engine).eglCreateImageKHR
	handlers[trace.EglDestroyImageKHR] = (*Engine).eglDestroyImageKHR
}

// noop handles calls that do not affect the tracked state.
func (e *Engine) noop(t *Thread, c *trace.Call) {}

// attribList decodes an EGL attribute list of key, value pairs
// terminated by EGL_NONE.
func attribList(v trace.Value) map[gl.Enum]int64 {
	m := make(map[gl.Enum]int64)
	for i := 0; i+1 < v.Len(); i += 2 {
		k := gl.Enum(v.At(i).AsUint())
		if k == gl.EGL_NONE {
			break
		}
		m[k] = v.At(i + 1).AsInt()
	}
	return m
}

func handle(v trace.Value) arena.Handle {
	return arena.Handle(v.AsUint())
}

func (e *Engine) eglGetDisplay(t *Thread, c *trace.Call) {
	if d := c.Return.AsUint(); d != 0 {
		e.display(d)
	}
}

func (e *Engine) eglInitialize(t *Thread, c *trace.Call) {
	e.display(c.Arg(0).AsUint()).Initialized = true
}

func (e *Engine) eglTerminate(t *Thread, c *trace.Call) {
	e.display(c.Arg(0).AsUint()).Initialized = false
}

func (e *Engine) eglBindAPI(t *Thread, c *trace.Call) {
	t.API = uint32(c.Arg(0).AsUint())
}

func (e *Engine) eglCreateContext(t *Thread, c *trace.Call) {
	h := handle(c.Return)
	if h == 0 {
		return
	}
	ctx := e.createContext(h, c.Arg(0).AsUint(), handle(c.Arg(2)))
	if ctx == nil {
		return
	}
	attrs := attribList(c.Arg(3))
	ctx.ClientVersion = 1
	if v, ok := attrs[gl.EGL_CONTEXT_CLIENT_VERSION]; ok {
		ctx.ClientVersion = int(v)
	}
	ctx.MinorVersion = int(attrs[gl.EGL_CONTEXT_MINOR_VERSION])
}

func (e *Engine) eglDestroyContext(t *Thread, c *trace.Call) {
	e.destroyContext(handle(c.Arg(1)))
}

func (e *Engine) eglMakeCurrent(t *Thread, c *trace.Call) {
	e.makeCurrent(t, c.Arg(0).AsUint(), handle(c.Arg(1)), handle(c.Arg(2)), handle(c.Arg(3)))
}

func (e *Engine) eglCreateWindowSurface(t *Thread, c *trace.Call) {
	if h := handle(c.Return); h != 0 {
		e.createSurface(h, c.Arg(0).AsUint(), WindowSurface)
	}
}

// eglCreateWindowSurface2 is eglCreateWindowSurface with the window
// geometry appended by the capture layer.
func (e *Engine) eglCreateWindowSurface2(t *Thread, c *trace.Call) {
	h := handle(c.Return)
	if h == 0 {
		return
	}
	s := e.createSurface(h, c.Arg(0).AsUint(), WindowSurface)
	if s == nil {
		return
	}
	s.X = int32(c.Arg(4).AsInt())
	s.Y = int32(c.Arg(5).AsInt())
	s.Width = int32(c.Arg(6).AsInt())
	s.Height = int32(c.Arg(7).AsInt())
}

func (e *Engine) eglCreatePbufferSurface(t *Thread, c *trace.Call) {
	h := handle(c.Return)
	if h == 0 {
		return
	}
	s := e.createSurface(h, c.Arg(0).AsUint(), PbufferSurface)
	if s == nil {
		return
	}
	attrs := attribList(c.Arg(2))
	s.Width = int32(attrs[gl.EGL_WIDTH])
	s.Height = int32(attrs[gl.EGL_HEIGHT])
}

func (e *Engine) eglCreatePixmapSurface(t *Thread, c *trace.Call) {
	if h := handle(c.Return); h != 0 {
		e.createSurface(h, c.Arg(0).AsUint(), PixmapSurface)
	}
}

func (e *Engine) eglDestroySurface(t *Thread, c *trace.Call) {
	e.destroySurface(handle(c.Arg(1)))
}

func (e *Engine) eglSurfaceAttrib(t *Thread, c *trace.Call) {
	s := e.surfaces.ID(handle(c.Arg(1)))
	if s == nil {
		e.protocol(c.Arg(1).AsUint(), "surface is not live")
		return
	}
	if gl.Enum(c.Arg(2).AsUint()) == gl.EGL_SWAP_BEHAVIOR {
		e.observe(set(&s.Preserve, gl.Enum(c.Arg(3).AsUint()) == gl.EGL_BUFFER_PRESERVED))
	}
}

func (e *Engine) eglQuerySurface(t *Thread, c *trace.Call) {
	s := e.surfaces.ID(handle(c.Arg(1)))
	if s == nil {
		e.protocol(c.Arg(1).AsUint(), "surface is not live")
		return
	}
	v := int32(c.Arg(3).AsInt())
	switch gl.Enum(c.Arg(2).AsUint()) {
	case gl.EGL_WIDTH:
		e.resize(s, v, s.Height)
	case gl.EGL_HEIGHT:
		e.resize(s, s.Width, v)
	}
}

func (e *Engine) eglSwapBuffers(t *Thread, c *trace.Call) {
	e.swap(t, handle(c.Arg(1)))
}

func (e *Engine) eglCreateImageKHR(t *Thread, c *trace.Call) {
	h := handle(c.Return)
	if h == 0 {
		return
	}
	img, err := e.images.Add(h, c.Number, e.frame)
	if err != nil {
		e.fail(err)
		return
	}
	img.Context = handle(c.Arg(1))
	img.Target = gl.Enum(c.Arg(2).AsUint())
	img.Buffer = c.Arg(3).AsUint()
}

func (e *Engine) eglDestroyImageKHR(t *Thread, c *trace.Call) {
	if !e.images.Remove(handle(c.Arg(1)), c.Number, e.frame) {
		e.protocol(c.Arg(1).AsUint(), "image is not live")
	}
}
