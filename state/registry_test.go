// SPDX-License-Identifier: Unlicense OR MIT

package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gltrace.org/internal/arena"
	"gltrace.org/internal/gl"
	"gltrace.org/trace"
)

func (p *player) createContext(h, share uint64) {
	p.ret(trace.Uint(h), "eglCreateContext", trace.Uint(testDisplay), trace.Uint(testConfig), trace.Uint(share),
		trace.Ints(gl.EGL_CONTEXT_CLIENT_VERSION, 3, gl.EGL_CONTEXT_MINOR_VERSION, 1, gl.EGL_NONE))
}

func TestShareChain(t *testing.T) {
	p := newPlayer(t)
	p.createContext(1, 0)
	p.createContext(2, 1)
	p.createContext(3, 2)
	ctxs := p.e.Contexts()
	require.Len(t, ctxs, 3)
	assert.Equal(t, -1, ctxs[0].ShareRoot)
	assert.Equal(t, 0, ctxs[1].ShareRoot)
	assert.Equal(t, 0, ctxs[2].ShareRoot)
	assert.Equal(t, 1, ctxs[2].MinorVersion)
	assert.NotSame(t, ctxs[0].Textures, ctxs[1].Textures)

	p.createContext(4, 99)
	assert.Equal(t, 4, p.e.LiveContexts())
	assert.Equal(t, -1, p.e.Contexts()[3].ShareRoot)
	assert.Len(t, p.e.Anomalies(), 1)
}

func TestContextHandleRecycling(t *testing.T) {
	p := newPlayer(t)
	p.createContext(1, 0)
	p.call("eglDestroyContext", trace.Uint(testDisplay), trace.Uint(1))
	assert.Equal(t, 0, p.e.LiveContexts())
	p.createContext(1, 0)
	ctxs := p.e.Contexts()
	require.Len(t, ctxs, 2)
	assert.True(t, ctxs[0].Destroyed)
	assert.Equal(t, uint64(2), ctxs[0].DestroyedCall)
	assert.Equal(t, 1, ctxs[1].Index)
	assert.Equal(t, arena.Handle(1), ctxs[1].Handle)

	p.createContext(1, 0)
	assert.Len(t, p.e.Contexts(), 2)
	assert.Len(t, p.e.Anomalies(), 1)
}

func TestMakeCurrentErrors(t *testing.T) {
	p := newPlayer(t)
	p.createContext(1, 0)
	p.ret(trace.Uint(5), "eglCreatePbufferSurface", trace.Uint(testDisplay), trace.Uint(testConfig),
		trace.Ints(gl.EGL_WIDTH, 32, gl.EGL_HEIGHT, 16, gl.EGL_NONE))
	p.ret(trace.Uint(6), "eglCreatePbufferSurface", trace.Uint(testDisplay), trace.Uint(testConfig),
		trace.Ints(gl.EGL_NONE))

	p.call("eglMakeCurrent", trace.Uint(testDisplay), trace.Uint(5), trace.Uint(6), trace.Uint(1))
	assert.Nil(t, p.e.Current(0))
	p.makeCurrent(7, 5)
	assert.Nil(t, p.e.Current(0))
	p.makeCurrent(1, 8)
	assert.Nil(t, p.e.Current(0))
	assert.Len(t, p.e.Anomalies(), 3)

	p.makeCurrent(1, 5)
	ctx := p.e.Current(0)
	require.NotNil(t, ctx)
	assert.Equal(t, [4]int32{0, 0, 32, 16}, ctx.Binding.Viewport)
	assert.Equal(t, [4]int32{0, 0, 32, 16}, ctx.Binding.Fill.Scissor)
	assert.Equal(t, 1, ctx.Activations)
	s := p.e.Surfaces()[0]
	assert.Equal(t, PbufferSurface, s.Type)
	assert.Contains(t, s.Contexts, ctx.Index)
	assert.Contains(t, s.Threads, uint64(0))

	// A second surface does not resize the viewport.
	p.makeCurrent(1, 6)
	assert.Equal(t, [4]int32{0, 0, 32, 16}, ctx.Binding.Viewport)

	p.makeCurrent(0, 0)
	assert.Nil(t, p.e.Current(0))
	assert.Equal(t, 2, ctx.Activations)
}

func TestSurfaceSizeFromQuery(t *testing.T) {
	p := newPlayer(t)
	p.createContext(1, 0)
	p.ret(trace.Uint(5), "eglCreateWindowSurface", trace.Uint(testDisplay), trace.Uint(testConfig), trace.Uint(77), trace.Ints(gl.EGL_NONE))
	p.makeCurrent(1, 5)
	ctx := p.e.Current(0)
	require.NotNil(t, ctx)
	assert.Equal(t, [4]int32{}, ctx.Binding.Viewport)

	p.call("eglQuerySurface", trace.Uint(testDisplay), trace.Uint(5), trace.Enum(gl.EGL_WIDTH), trace.Int(800))
	assert.Equal(t, [4]int32{}, ctx.Binding.Viewport)
	p.call("eglQuerySurface", trace.Uint(testDisplay), trace.Uint(5), trace.Enum(gl.EGL_HEIGHT), trace.Int(600))
	assert.Equal(t, [4]int32{0, 0, 800, 600}, ctx.Binding.Viewport)
	s := p.e.Surfaces()[0]
	assert.Equal(t, WindowSurface, s.Type)
	assert.Equal(t, "window", s.Type.String())
}

func TestDestroyContextClosesPass(t *testing.T) {
	p := newPlayer(t)
	ctx := p.window(1, 2, 64, 64)
	p.drawArrays(3)
	require.NotNil(t, ctx.OpenPass())
	p.call("eglDestroyContext", trace.Uint(testDisplay), trace.Uint(1))
	assert.Nil(t, ctx.OpenPass())
	assert.False(t, ctx.Passes[0].Active)
	assert.Equal(t, 0, p.e.LiveContexts())
}

func TestSwapFrames(t *testing.T) {
	p := newPlayer(t)
	ctx := p.window(1, 2, 64, 64)
	p.swap(2)
	p.swap(2)
	p.call("eglSwapBuffersWithDamageKHR", trace.Uint(testDisplay), trace.Uint(2), trace.Ints(0, 0, 4, 4), trace.Int(1))
	assert.Equal(t, uint64(3), p.e.Frame())
	assert.Equal(t, 3, ctx.Frames)
	assert.Equal(t, 3, p.e.Surfaces()[0].Swaps)

	p.swap(9)
	assert.Equal(t, uint64(3), p.e.Frame())
	assert.Len(t, p.e.Anomalies(), 1)

	p.call("eglDestroySurface", trace.Uint(testDisplay), trace.Uint(2))
	assert.Equal(t, 0, p.e.LiveSurfaces())
}

func TestThreadsHaveOwnContexts(t *testing.T) {
	p := newPlayer(t)
	first := p.window(1, 2, 64, 64)
	p.thread = 7
	p.createContext(3, 1)
	p.ret(trace.Uint(4), "eglCreatePbufferSurface", trace.Uint(testDisplay), trace.Uint(testConfig),
		trace.Ints(gl.EGL_WIDTH, 8, gl.EGL_HEIGHT, 8, gl.EGL_NONE))
	p.makeCurrent(3, 4)
	second := p.e.Current(7)
	require.NotNil(t, second)
	assert.NotSame(t, first, second)
	assert.Same(t, first, p.e.Current(0))
	assert.Equal(t, uint64(7), p.e.Thread(7).ID)
	assert.Nil(t, p.e.Thread(8))

	p.genTexture(1)
	assert.Equal(t, 1, second.Textures.Len())
	assert.Equal(t, 0, first.Textures.Len())
}

func TestImages(t *testing.T) {
	p := newPlayer(t)
	ctx := p.window(1, 2, 64, 64)
	p.ret(trace.Uint(40), "eglCreateImageKHR", trace.Uint(testDisplay), trace.Uint(0),
		trace.Enum(0x30b0), trace.Uint(123), trace.Ints(gl.EGL_NONE))
	require.Len(t, p.e.Images(), 1)
	p.genTexture(1)
	p.call("glBindTexture", trace.Enum(gl.TEXTURE_2D), trace.Uint(1))
	p.call("glEGLImageTargetTexture2DOES", trace.Enum(gl.TEXTURE_2D), trace.Uint(40))
	tex := ctx.Textures.At(0)
	assert.Equal(t, arena.Handle(40), tex.Image)
	assert.True(t, tex.Initialized)

	p.call("eglDestroyImageKHR", trace.Uint(testDisplay), trace.Uint(40))
	assert.True(t, p.e.Images()[0].Destroyed)
	p.call("eglDestroyImageKHR", trace.Uint(testDisplay), trace.Uint(40))
	assert.Len(t, p.e.Anomalies(), 1)
}

func TestBindAPIPerThread(t *testing.T) {
	p := newPlayer(t)
	p.call("eglBindAPI", trace.Enum(0x30a0))
	p.thread = 3
	p.call("eglBindAPI", trace.Enum(0x30a2))
	assert.Equal(t, uint32(0x30a0), p.e.Thread(0).API)
	assert.Equal(t, uint32(0x30a2), p.e.Thread(3).API)
}
