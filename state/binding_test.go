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

func TestBindingDefaults(t *testing.T) {
	b := newBinding()
	assert.True(t, b.Enabled(gl.DITHER))
	assert.False(t, b.Enabled(gl.BLEND))
	assert.False(t, b.Enabled(gl.SCISSOR_TEST))
	assert.Equal(t, [4]bool{true, true, true, true}, b.Fill.ColorMask)
	assert.Equal(t, gl.Enum(gl.LESS), b.Fill.DepthFunc)
	assert.Equal(t, float32(1), b.Fill.ClearDepth)
	assert.Equal(t, gl.Enum(gl.ALWAYS), b.Fill.Stencil[1].Func)
	assert.Equal(t, gl.Enum(gl.BACK), b.Fill.CullFace)
}

func TestBindingMutatorsReportChange(t *testing.T) {
	b := newBinding()
	assert.True(t, b.setCap(gl.BLEND, true))
	assert.False(t, b.setCap(gl.BLEND, true))
	assert.False(t, b.setCap(gl.CULL_FACE, false))

	assert.True(t, b.bindTexture(0, gl.TEXTURE_2D, 5))
	assert.False(t, b.bindTexture(0, gl.TEXTURE_2D, 5))
	assert.Equal(t, arena.Handle(5), b.Texture(0, gl.TEXTURE_2D))
	assert.Equal(t, arena.Handle(0), b.Texture(1, gl.TEXTURE_2D))
	b.unbindTexture(5)
	assert.Equal(t, arena.Handle(0), b.Texture(0, gl.TEXTURE_2D))

	draw, changed := b.bindFramebuffer(gl.READ_FRAMEBUFFER, 3)
	assert.False(t, draw)
	assert.True(t, changed)
	draw, changed = b.bindFramebuffer(gl.FRAMEBUFFER, 3)
	assert.True(t, draw)
	assert.True(t, changed)
	_, changed = b.bindFramebuffer(gl.DRAW_FRAMEBUFFER, 3)
	assert.False(t, changed)
	assert.True(t, b.unbindFramebuffer(3))
	assert.Equal(t, arena.Handle(0), b.DrawFramebuffer)
	assert.Equal(t, arena.Handle(0), b.ReadFramebuffer)
	assert.Equal(t, arena.Handle(3), b.PrevDrawFramebuffer)
}

func TestBufferBindings(t *testing.T) {
	bb := make(BufferBindings)
	assert.False(t, bb.set(gl.ARRAY_BUFFER, 0, BufferBinding{}))
	assert.True(t, bb.set(gl.ARRAY_BUFFER, 0, BufferBinding{Buffer: 2}))
	assert.False(t, bb.set(gl.ARRAY_BUFFER, 0, BufferBinding{Buffer: 2}))
	assert.True(t, bb.set(gl.UNIFORM_BUFFER, 1, BufferBinding{Buffer: 2, Offset: 256, Size: 64}))
	bb.unbind(2)
	assert.Equal(t, BufferBinding{}, bb.get(gl.ARRAY_BUFFER, 0))
	assert.Equal(t, BufferBinding{}, bb.get(gl.UNIFORM_BUFFER, 1))
}

func TestBufferBindingScopes(t *testing.T) {
	p := newPlayer(t)
	ctx := p.window(1, 2, 16, 16)
	p.call("glGenBuffers", trace.Int(2), trace.Uints(3, 4))
	p.call("glBindBuffer", trace.Enum(gl.ARRAY_BUFFER), trace.Uint(3))
	p.call("glBindBufferRange", trace.Enum(gl.UNIFORM_BUFFER), trace.Uint(1), trace.Uint(4), trace.Int(0), trace.Int(128))
	require.NotNil(t, ctx.BoundBuffer(gl.ARRAY_BUFFER))
	assert.Equal(t, gl.Enum(gl.ARRAY_BUFFER), ctx.BoundBuffer(gl.ARRAY_BUFFER).Target)
	require.NotNil(t, ctx.BoundBuffer(gl.UNIFORM_BUFFER))
	assert.Equal(t, BufferBinding{Buffer: 4, Size: 128}, ctx.Binding.Buffers.get(gl.UNIFORM_BUFFER, 1))

	// Vertex array scoped bindings follow the vertex array.
	p.call("glBindVertexArray", trace.Uint(9))
	assert.Nil(t, ctx.BoundBuffer(gl.ARRAY_BUFFER))
	assert.NotNil(t, ctx.BoundBuffer(gl.UNIFORM_BUFFER))
	assert.Equal(t, 1, ctx.VertexArrays.Live(), "bind creates unknown names")
	p.call("glBindVertexArray", trace.Uint(0))
	assert.NotNil(t, ctx.BoundBuffer(gl.ARRAY_BUFFER))

	p.call("glBufferData", trace.Enum(gl.ARRAY_BUFFER), trace.Int(64), trace.Blob(1, make([]byte, 64)), trace.Enum(gl.STATIC_DRAW))
	b := ctx.Buffers.ID(3)
	assert.Equal(t, int64(64), b.Size)
	assert.True(t, b.Initialized)

	p.call("glDeleteBuffers", trace.Int(1), trace.Uints(3))
	assert.Nil(t, ctx.BoundBuffer(gl.ARRAY_BUFFER))
	assert.Empty(t, p.e.Anomalies())

	p.call("glBindBuffer", trace.Enum(gl.TEXTURE_2D), trace.Uint(4))
	assert.Len(t, p.e.Anomalies(), 1)
}

func TestFixedFunctionState(t *testing.T) {
	p := newPlayer(t)
	ctx := p.window(1, 2, 16, 16)
	p.call("glBlendFunc", trace.Enum(gl.SRC_ALPHA), trace.Enum(gl.ONE_MINUS_SRC_ALPHA))
	p.call("glBlendFunc", trace.Enum(gl.SRC_ALPHA), trace.Enum(gl.ONE_MINUS_SRC_ALPHA))
	p.call("glViewport", trace.Int(0), trace.Int(0), trace.Int(8), trace.Int(8))
	p.call("glDepthFunc", trace.Enum(gl.LEQUAL))
	p.call("glLineWidth", trace.Float(2))

	blend := ctx.Binding.Fill.Blend
	assert.Equal(t, gl.Enum(gl.SRC_ALPHA), blend.SrcRGB)
	assert.Equal(t, gl.Enum(gl.ONE_MINUS_SRC_ALPHA), blend.DstAlpha)
	assert.Equal(t, 1, p.e.Duplicates(trace.GlBlendFunc))
	assert.Equal(t, [4]int32{0, 0, 8, 8}, ctx.Binding.Viewport)
	assert.Equal(t, gl.Enum(gl.LEQUAL), ctx.Binding.Fill.DepthFunc)
	assert.Equal(t, float32(2), ctx.Binding.Fill.LineWidth)
}
