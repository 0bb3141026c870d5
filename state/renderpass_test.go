// SPDX-License-Identifier: Unlicense OR MIT

package state

import (
	"errors"
	"testing"

	"gioui.org/shader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gltrace.org/internal/gl"
	"gltrace.org/trace"
)

// samplerAnalyzer declares a sampler2D named "tex" in fragment shaders.
type samplerAnalyzer struct{}

func (samplerAnalyzer) Analyze(stage gl.Enum, source string) (ShaderInfo, error) {
	info := ShaderInfo{Preprocessed: source}
	if stage == gl.FRAGMENT_SHADER {
		info.Samplers = []SamplerBinding{{
			TextureBinding: shader.TextureBinding{Name: "tex", Binding: 0},
			Type:           gl.SAMPLER_2D,
		}}
	}
	return info, nil
}

type failingAnalyzer struct{}

func (failingAnalyzer) Analyze(gl.Enum, string) (ShaderInfo, error) {
	return ShaderInfo{}, errors.New("syntax error")
}

// twoTargets sets up framebuffers 1 and 2, each with a color texture.
func twoTargets(p *player) {
	p.program(3, 1, 2)
	p.genFramebuffer(1)
	p.genFramebuffer(2)
	p.bindFramebuffer(1)
	p.colorTexture(1, 32, 32)
	p.bindFramebuffer(2)
	p.colorTexture(2, 32, 32)
}

func TestPassPerFramebufferRun(t *testing.T) {
	p := newPlayer(t)
	ctx := p.window(1, 2, 64, 64)
	twoTargets(p)

	p.bindFramebuffer(1)
	p.drawArrays(3)
	p.drawArrays(3)
	p.bindFramebuffer(2)
	p.drawArrays(3)
	p.bindFramebuffer(1)
	p.drawArrays(6)

	passes := ctx.RenderPasses(0)
	require.Len(t, passes, 3)
	var fbs []uint64
	var draws []int
	for i, rp := range passes {
		assert.Equal(t, i, rp.Index)
		fbs = append(fbs, uint64(rp.Framebuffer))
		draws = append(draws, rp.Draws)
	}
	assert.Equal(t, []uint64{1, 2, 1}, fbs)
	assert.Equal(t, []int{2, 1, 1}, draws)
	assert.False(t, passes[0].Active)
	assert.True(t, passes[2].Active)
	assert.Equal(t, uint64(2), passes[2].Primitives)
	assert.Equal(t, passes[2], ctx.OpenPass())

	p.swap(2)
	p.bindFramebuffer(2)
	p.drawArrays(3)
	next := ctx.RenderPasses(1)
	require.Len(t, next, 1)
	assert.Equal(t, 0, next[0].Index)
	assert.Equal(t, uint64(1), next[0].Frame)
	assert.Len(t, ctx.Passes, 4)
}

func TestLoadOps(t *testing.T) {
	p := newPlayer(t)
	ctx := p.window(1, 2, 64, 64)
	twoTargets(p)
	invalidate := func() {
		p.call("glInvalidateFramebuffer", trace.Enum(gl.FRAMEBUFFER), trace.Int(1), trace.Uints(gl.COLOR_ATTACHMENT0))
	}

	p.bindFramebuffer(1)
	p.drawArrays(3)
	invalidate()
	p.bindFramebuffer(2)
	p.drawArrays(3)
	p.bindFramebuffer(1)
	p.drawArrays(3)
	invalidate()
	p.bindFramebuffer(2)
	p.drawArrays(3)
	p.bindFramebuffer(1)
	p.clear(gl.COLOR_BUFFER_BIT)
	p.drawArrays(3)
	p.bindFramebuffer(2)

	passes := ctx.RenderPasses(0)
	require.Len(t, passes, 5)
	ops := func(rp *RenderPass) (LoadOp, StoreOp) {
		a, ok := rp.Attachment(gl.COLOR_ATTACHMENT0)
		require.True(t, ok)
		return a.Load, a.Store
	}
	tests := []struct {
		load  LoadOp
		store StoreOp
	}{
		{LoadOpLoad, StoreOpDontCare},
		{LoadOpLoad, StoreOpStore},
		{LoadOpDontCare, StoreOpDontCare},
		{LoadOpLoad, StoreOpStore},
		{LoadOpClear, StoreOpStore},
	}
	for i, test := range tests {
		load, store := ops(passes[i])
		assert.Equal(t, test.load, load, "pass %d load", i)
		assert.Equal(t, test.store, store, "pass %d store", i)
	}
	assert.Equal(t, "clear", LoadOpClear.String())
	assert.Equal(t, "dontcare", StoreOpDontCare.String())
}

func TestStoreOpRevokedByDraw(t *testing.T) {
	p := newPlayer(t)
	ctx := p.window(1, 2, 64, 64)
	twoTargets(p)
	p.bindFramebuffer(1)
	p.drawArrays(3)
	p.call("glInvalidateFramebuffer", trace.Enum(gl.FRAMEBUFFER), trace.Int(1), trace.Uints(gl.COLOR_ATTACHMENT0))
	rp := ctx.OpenPass()
	require.NotNil(t, rp)
	assert.Equal(t, StoreOpDontCare, rp.Attachments[0].Store)
	p.drawArrays(3)
	assert.Equal(t, StoreOpUnresolved, rp.Attachments[0].Store)
	p.bindFramebuffer(0)
	assert.Equal(t, StoreOpStore, rp.Attachments[0].Store)
}

func TestAttachmentChangeClosesPass(t *testing.T) {
	p := newPlayer(t)
	ctx := p.window(1, 2, 64, 64)
	twoTargets(p)
	p.bindFramebuffer(1)
	p.drawArrays(3)
	p.colorTexture(9, 32, 32)
	assert.Nil(t, ctx.OpenPass())
	p.drawArrays(3)
	assert.Len(t, ctx.RenderPasses(0), 2)

	// Binding the same framebuffer again keeps the pass.
	p.bindFramebuffer(1)
	p.drawArrays(3)
	assert.Len(t, ctx.RenderPasses(0), 2)
	assert.Equal(t, 1, p.e.Duplicates(trace.GlBindFramebuffer))
}

func TestProgramDeletionClosesPass(t *testing.T) {
	p := newPlayer(t)
	ctx := p.window(1, 2, 64, 64)
	p.program(3, 1, 2)
	p.drawArrays(3)
	p.call("glDeleteProgram", trace.Uint(3))
	assert.Nil(t, ctx.OpenPass())
	prog := ctx.Programs.At(0)
	assert.True(t, prog.Live(), "deletion waits until the program is unbound")

	p.ret(trace.Uint(4), "glCreateProgram")
	p.call("glUseProgram", trace.Uint(4))
	assert.False(t, prog.Live())
	assert.Equal(t, 2, ctx.Shaders.Live())
}

func TestSamplerTextures(t *testing.T) {
	p := newPlayer(t, WithShaderAnalyzer(samplerAnalyzer{}))
	ctx := p.window(1, 2, 64, 64)
	p.program(3, 1, 2)
	p.genTexture(8)
	p.genTexture(9)
	p.call("glBindTexture", trace.Enum(gl.TEXTURE_2D), trace.Uint(8))
	p.call("glActiveTexture", trace.Enum(gl.TEXTURE0+1))
	p.call("glBindTexture", trace.Enum(gl.TEXTURE_2D), trace.Uint(9))

	p.drawArrays(3)
	rp := ctx.OpenPass()
	require.NotNil(t, rp)
	assert.Equal(t, []int{0}, rp.TextureIndices(), "unit 0 until the sampler uniform is set")

	p.ret(trace.Int(0), "glGetUniformLocation", trace.Uint(3), trace.String("tex"))
	p.call("glUniform1i", trace.Int(0), trace.Int(1))
	p.drawArrays(3)
	assert.Equal(t, []int{0, 1}, rp.TextureIndices())

	prog := ctx.Programs.At(0)
	u := prog.Uniforms[0]
	require.NotNil(t, u)
	assert.Equal(t, "tex", u.Name)
	assert.Equal(t, int64(1), u.Value.AsInt())
	assert.Equal(t, "uniform sampler2D tex; void main() {}", prog.Stages[gl.FRAGMENT_SHADER].Info.Preprocessed)
	assert.NotEqual(t, [32]byte{}, prog.Checksum)
}

func TestShaderAnalysisFailure(t *testing.T) {
	p := newPlayer(t, WithShaderAnalyzer(failingAnalyzer{}))
	p.window(1, 2, 64, 64)
	p.ret(trace.Uint(1), "glCreateShader", trace.Enum(gl.VERTEX_SHADER))
	p.call("glShaderSource", trace.Uint(1), trace.Int(1), trace.Strings("void main() {"), trace.Uint(0))
	p.call("glCompileShader", trace.Uint(1))
	require.Len(t, p.e.Anomalies(), 1)
	assert.EqualError(t, errors.Unwrap(p.e.Anomalies()[0]), "syntax error")
}

func TestDrawWithoutProgram(t *testing.T) {
	p := newPlayer(t)
	ctx := p.window(1, 2, 64, 64)
	p.drawArrays(3)
	require.NotNil(t, ctx.OpenPass())
	assert.Equal(t, 1, ctx.OpenPass().Draws)
	assert.Len(t, p.e.Anomalies(), 1)
}

func TestInstancedDrawAndDispatch(t *testing.T) {
	p := newPlayer(t)
	ctx := p.window(1, 2, 64, 64)
	p.program(3, 1, 2)
	p.call("glDrawElementsInstanced", trace.Enum(gl.TRIANGLE_STRIP), trace.Int(4), trace.Enum(gl.UNSIGNED_SHORT),
		trace.Uint(0), trace.Int(10))
	p.call("glDispatchCompute", trace.Uint(8), trace.Uint(8), trace.Uint(1))
	rp := ctx.OpenPass()
	require.NotNil(t, rp)
	assert.Equal(t, uint64(40), rp.Vertices)
	assert.Equal(t, uint64(20), rp.Primitives)
	assert.Equal(t, 1, rp.Draws)
	assert.Equal(t, 1, rp.Dispatches)
	fc := ctx.Counters[0]
	assert.Equal(t, 1, fc.Draws)
	assert.Equal(t, 1, fc.Dispatches)
}

func TestSwapInvalidatesDefaultFramebuffer(t *testing.T) {
	for _, preserve := range []bool{false, true} {
		p := newPlayer(t)
		ctx := p.window(1, 2, 64, 64)
		if preserve {
			p.call("eglSurfaceAttrib", trace.Uint(testDisplay), trace.Uint(2),
				trace.Enum(gl.EGL_SWAP_BEHAVIOR), trace.Enum(gl.EGL_BUFFER_PRESERVED))
		}
		p.program(3, 1, 2)
		p.clear(gl.COLOR_BUFFER_BIT)
		p.drawArrays(3)
		p.swap(2)
		p.drawArrays(3)
		p.swap(2)

		first, ok := ctx.RenderPasses(0)[0].Attachment(gl.COLOR_ATTACHMENT0)
		require.True(t, ok)
		assert.Equal(t, LoadOpClear, first.Load)
		second, ok := ctx.RenderPasses(1)[0].Attachment(gl.COLOR_ATTACHMENT0)
		require.True(t, ok)
		want := LoadOpDontCare
		if preserve {
			want = LoadOpLoad
		}
		assert.Equal(t, want, second.Load, "preserve %v", preserve)
		assert.Equal(t, TargetSurface, second.Kind)
		assert.Equal(t, 2, ctx.Frames)
	}
}

func TestPassEndsWithFrameOfOtherContext(t *testing.T) {
	p := newPlayer(t)
	p.window(30, 40, 64, 64)

	p.thread = 1
	p.createContext(10, 0)
	p.ret(trace.Uint(11), "eglCreatePbufferSurface", trace.Uint(testDisplay), trace.Uint(testConfig),
		trace.Ints(gl.EGL_WIDTH, 16, gl.EGL_HEIGHT, 16, gl.EGL_NONE))
	p.makeCurrent(10, 11)
	offscreen := p.e.Current(1)
	require.NotNil(t, offscreen)
	p.program(3, 1, 2)
	p.drawArrays(3)

	p.thread = 0
	p.swap(40)

	p.thread = 1
	p.drawArrays(3)

	first := offscreen.RenderPasses(0)
	require.Len(t, first, 1)
	assert.False(t, first[0].Active)
	assert.Equal(t, 1, first[0].Draws)
	a, ok := first[0].Attachment(gl.COLOR_ATTACHMENT0)
	require.True(t, ok)
	assert.Equal(t, StoreOpStore, a.Store)

	next := offscreen.RenderPasses(1)
	require.Len(t, next, 1)
	assert.Equal(t, 0, next[0].Index)
	assert.Equal(t, uint64(1), next[0].Frame)
	assert.Equal(t, 1, next[0].Draws)
	assert.True(t, next[0].Active)
	assert.Equal(t, 1, offscreen.Counters[1].Passes)
	assert.Empty(t, p.e.Anomalies())
}
