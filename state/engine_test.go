// SPDX-License-Identifier: Unlicense OR MIT

package state

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"gltrace.org/internal/anomaly"
	"gltrace.org/internal/gl"
	"gltrace.org/trace"
)

const (
	testDisplay = 1
	testConfig  = 2
)

// player feeds numbered calls to an engine.
type player struct {
	t      *testing.T
	e      *Engine
	n      uint64
	thread uint64
}

func newPlayer(t *testing.T, opts ...Option) *player {
	return newPlayerConfig(t, DefaultConfig(), opts...)
}

func newPlayerConfig(t *testing.T, cfg Config, opts ...Option) *player {
	t.Helper()
	opts = append([]Option{WithLogger(zaptest.NewLogger(t))}, opts...)
	e, err := New(cfg, opts...)
	require.NoError(t, err)
	return &player{t: t, e: e}
}

func (p *player) call(name string, args ...trace.Value) *trace.Call {
	return p.ret(trace.Value{}, name, args...)
}

func (p *player) ret(ret trace.Value, name string, args ...trace.Value) *trace.Call {
	p.n++
	c := trace.NewCall(name, args...)
	c.Number = p.n
	c.Thread = p.thread
	c.Return = ret
	p.e.Interpret(c)
	return c
}

// window creates context ctx and a w×h window surface surf and makes
// them current.
func (p *player) window(ctx, surf uint64, w, h int64) *Context {
	p.ret(trace.Uint(testDisplay), "eglGetDisplay", trace.Uint(0))
	p.call("eglInitialize", trace.Uint(testDisplay), trace.Uint(0), trace.Uint(0))
	p.ret(trace.Uint(ctx), "eglCreateContext", trace.Uint(testDisplay), trace.Uint(testConfig), trace.Uint(0),
		trace.Ints(gl.EGL_CONTEXT_CLIENT_VERSION, 3, gl.EGL_NONE))
	p.ret(trace.Uint(surf), "eglCreateWindowSurface2", trace.Uint(testDisplay), trace.Uint(testConfig), trace.Uint(77),
		trace.Ints(gl.EGL_NONE), trace.Int(0), trace.Int(0), trace.Int(w), trace.Int(h))
	p.makeCurrent(ctx, surf)
	c := p.e.Current(p.thread)
	require.NotNil(p.t, c)
	return c
}

func (p *player) makeCurrent(ctx, surf uint64) {
	p.call("eglMakeCurrent", trace.Uint(testDisplay), trace.Uint(surf), trace.Uint(surf), trace.Uint(ctx))
}

func (p *player) swap(surf uint64) {
	p.call("eglSwapBuffers", trace.Uint(testDisplay), trace.Uint(surf))
}

func (p *player) genTexture(h uint32) {
	p.call("glGenTextures", trace.Int(1), trace.Uints(h))
}

func (p *player) genFramebuffer(h uint32) {
	p.call("glGenFramebuffers", trace.Int(1), trace.Uints(h))
}

func (p *player) bindFramebuffer(h uint32) {
	p.call("glBindFramebuffer", trace.Enum(gl.FRAMEBUFFER), trace.Uint(uint64(h)))
}

// colorTexture binds a new w×h RGBA8 texture to COLOR_ATTACHMENT0 of
// the bound framebuffer.
func (p *player) colorTexture(tex uint32, w, h int64) {
	p.genTexture(tex)
	p.call("glBindTexture", trace.Enum(gl.TEXTURE_2D), trace.Uint(uint64(tex)))
	p.call("glTexStorage2D", trace.Enum(gl.TEXTURE_2D), trace.Int(1), trace.Enum(gl.RGBA8), trace.Int(w), trace.Int(h))
	p.call("glFramebufferTexture2D", trace.Enum(gl.FRAMEBUFFER), trace.Enum(gl.COLOR_ATTACHMENT0),
		trace.Enum(gl.TEXTURE_2D), trace.Uint(uint64(tex)), trace.Int(0))
}

func (p *player) drawArrays(count int64) {
	p.call("glDrawArrays", trace.Enum(gl.TRIANGLES), trace.Int(0), trace.Int(count))
}

func (p *player) clear(mask uint32) *trace.Call {
	return p.call("glClear", trace.Uint(uint64(mask)))
}

// program creates, links and uses program h from a vertex and a
// fragment shader.
func (p *player) program(h, vs, fs uint64) {
	p.ret(trace.Uint(vs), "glCreateShader", trace.Enum(gl.VERTEX_SHADER))
	p.call("glShaderSource", trace.Uint(vs), trace.Int(1), trace.Strings("void main() {}"), trace.Uint(0))
	p.call("glCompileShader", trace.Uint(vs))
	p.ret(trace.Uint(fs), "glCreateShader", trace.Enum(gl.FRAGMENT_SHADER))
	p.call("glShaderSource", trace.Uint(fs), trace.Int(1), trace.Strings("uniform sampler2D tex; void main() {}"), trace.Uint(0))
	p.call("glCompileShader", trace.Uint(fs))
	p.ret(trace.Uint(h), "glCreateProgram")
	p.call("glAttachShader", trace.Uint(h), trace.Uint(vs))
	p.call("glAttachShader", trace.Uint(h), trace.Uint(fs))
	p.call("glLinkProgram", trace.Uint(h))
	p.call("glUseProgram", trace.Uint(h))
}

func anomalyKinds(e *Engine) []anomaly.Kind {
	var kinds []anomaly.Kind
	for _, a := range e.Anomalies() {
		kinds = append(kinds, a.Kind)
	}
	return kinds
}

func TestEndToEnd(t *testing.T) {
	p := newPlayer(t)
	p.window(10, 20, 640, 480)
	p.program(3, 1, 2)
	p.genTexture(1)
	p.call("glBindTexture", trace.Enum(gl.TEXTURE_2D), trace.Uint(1))
	p.call("glTexStorage2D", trace.Enum(gl.TEXTURE_2D), trace.Int(1), trace.Enum(gl.RGBA8), trace.Int(64), trace.Int(64))
	p.genFramebuffer(1)
	p.bindFramebuffer(1)
	p.call("glFramebufferTexture2D", trace.Enum(gl.FRAMEBUFFER), trace.Enum(gl.COLOR_ATTACHMENT0),
		trace.Enum(gl.TEXTURE_2D), trace.Uint(1), trace.Int(0))
	p.drawArrays(3)
	p.swap(20)

	e := p.e
	assert.Equal(t, 1, e.LiveContexts())
	assert.Equal(t, 1, e.LiveSurfaces())
	assert.Equal(t, uint64(1), e.Frame())
	assert.Empty(t, e.Anomalies())

	ctx := e.Contexts()[0]
	require.Equal(t, 1, ctx.Textures.Len())
	tex := ctx.Textures.At(0)
	assert.Equal(t, gl.Enum(gl.RGBA8), tex.Format)
	assert.Equal(t, int32(64), tex.Width)
	assert.Equal(t, int32(64), tex.Height)
	assert.True(t, tex.Initialized)
	assert.True(t, tex.Immutable)

	require.Equal(t, 1, ctx.Framebuffers.Len())
	fb := ctx.Framebuffers.At(0)
	assert.Equal(t, 1, fb.AttachmentCount())
	a := fb.Attachment(gl.COLOR_ATTACHMENT0)
	require.NotNil(t, a)
	assert.Equal(t, TargetTexture, a.Kind)
	assert.Equal(t, tex.Index, a.Index)

	passes := ctx.RenderPasses(0)
	require.Len(t, passes, 1)
	rp := passes[0]
	assert.False(t, rp.Active)
	assert.Equal(t, 1, rp.Draws)
	assert.Equal(t, uint64(1), rp.Primitives)
	assert.Equal(t, uint64(3), rp.Vertices)
	assert.Equal(t, []int{tex.Index}, rp.TextureIndices())
	assert.Equal(t, []int{0}, rp.ProgramIndices())
	pa, ok := rp.Attachment(gl.COLOR_ATTACHMENT0)
	require.True(t, ok)
	assert.Equal(t, StoreOpStore, pa.Store)
	assert.Nil(t, ctx.OpenPass())

	fc := ctx.Counters[0]
	require.NotNil(t, fc)
	assert.Equal(t, 1, fc.Draws)
	assert.Equal(t, 1, fc.Passes)
}

func TestBindTextureDuplicate(t *testing.T) {
	p := newPlayer(t)
	ctx := p.window(1, 2, 16, 16)
	p.genTexture(5)
	first := p.call("glBindTexture", trace.Enum(gl.TEXTURE_2D), trace.Uint(5))
	assert.Equal(t, 0, p.e.Duplicates(trace.GlBindTexture))
	second := p.call("glBindTexture", trace.Enum(gl.TEXTURE_2D), trace.Uint(5))
	assert.Equal(t, 1, p.e.Duplicates(trace.GlBindTexture))
	assert.Equal(t, ClassChange, p.e.Class(first.Number))
	assert.Equal(t, ClassDuplicate, p.e.Class(second.Number))
	assert.Equal(t, ctx.Textures.At(0), ctx.BoundTexture(gl.TEXTURE_2D))
	assert.Equal(t, 2, p.e.Stats().Calls[trace.GlBindTexture])
}

func TestClassWithoutRecording(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RecordDuplicates = false
	p := newPlayerConfig(t, cfg)
	p.window(1, 2, 16, 16)
	c := p.call("glEnable", trace.Enum(gl.DITHER))
	assert.Equal(t, ClassOther, p.e.Class(c.Number))
	assert.Equal(t, 1, p.e.Duplicates(trace.GlEnable))
}

func TestUnsupportedCall(t *testing.T) {
	p := newPlayer(t)
	p.window(1, 2, 16, 16)
	p.call("glDrawTransformFeedback")
	p.call("glDrawTransformFeedback")
	s := p.e.Stats()
	assert.Equal(t, 2, s.Unsupported["glDrawTransformFeedback"])
	require.Len(t, p.e.Anomalies(), 1)
	assert.True(t, errors.Is(p.e.Anomalies()[0], anomaly.ErrUnsupported))
}

func TestCallsWithoutContext(t *testing.T) {
	p := newPlayer(t)
	p.ret(trace.Uint(testDisplay), "eglGetDisplay", trace.Uint(0))
	p.call("glEnable", trace.Enum(gl.BLEND))
	p.drawArrays(3)
	p.ret(trace.Uint(1), "eglCreateContext", trace.Uint(testDisplay), trace.Uint(testConfig), trace.Uint(0), trace.Ints(gl.EGL_NONE))
	assert.Equal(t, 2, p.e.Stats().Ignored)
	assert.Equal(t, 1, p.e.LiveContexts())
	assert.Empty(t, p.e.Anomalies())
	assert.Equal(t, 1, p.e.Contexts()[0].ClientVersion)
}

func TestClientBufferLastUse(t *testing.T) {
	p := newPlayer(t)
	p.window(1, 2, 16, 16)
	p.call("glVertexAttribPointer", trace.Uint(0), trace.Int(2), trace.Enum(gl.FLOAT), trace.Bool(false), trace.Int(0), trace.ClientBuffer(7))
	c := p.call("glDrawElements", trace.Enum(gl.TRIANGLES), trace.Int(3), trace.Enum(gl.UNSIGNED_SHORT), trace.ClientBuffer(8))
	last := p.call("glVertexAttribPointer", trace.Uint(1), trace.Int(2), trace.Enum(gl.FLOAT), trace.Bool(false), trace.Int(0), trace.ClientBuffer(7))
	assert.Equal(t, map[uint64]uint64{7: last.Number, 8: c.Number}, p.e.ClientBufferLastUse(0))
	assert.Nil(t, p.e.ClientBufferLastUse(42))
}

func TestCallNumberBackwards(t *testing.T) {
	p := newPlayer(t)
	p.window(1, 2, 16, 16)
	c := trace.NewCall("glFlush")
	c.Number = 1
	p.e.Interpret(c)
	require.Len(t, p.e.Anomalies(), 1)
	a := p.e.Anomalies()[0]
	assert.True(t, errors.Is(a, anomaly.ErrProtocol))
	assert.Equal(t, "glFlush", a.Func)
}

func TestAnomalyBound(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxAnomalies = 2
	p := newPlayerConfig(t, cfg)
	p.window(1, 2, 16, 16)
	for i := 0; i < 5; i++ {
		p.call("glBindSampler", trace.Uint(0), trace.Uint(99))
	}
	assert.Len(t, p.e.Anomalies(), 2)
	assert.Equal(t, 5, p.e.Stats().Anomalies)
}

func TestAssertionRecovery(t *testing.T) {
	p := newPlayer(t)
	p.window(1, 2, 16, 16)
	handlers[trace.GlFinish] = func(*Engine, *Thread, *trace.Call) {
		anomaly.Assert(false, "broken")
	}
	defer func() { handlers[trace.GlFinish] = (*Engine).noop }()

	p.call("glFinish")
	require.Len(t, p.e.Anomalies(), 1)
	assert.True(t, errors.Is(p.e.Anomalies()[0], anomaly.ErrAssertion))

	p.e.cfg.Strict = true
	assert.Panics(t, func() { p.call("glFinish") })
}

func TestVersionString(t *testing.T) {
	p := newPlayer(t)
	ctx := p.window(1, 2, 16, 16)
	p.ret(trace.String("OpenGL ES 3.2 V@415.0"), "glGetString", trace.Enum(gl.VERSION))
	require.NotNil(t, ctx.Version)
	assert.Equal(t, uint64(3), ctx.Version.Major())
	assert.Equal(t, uint64(2), ctx.Version.Minor())
	assert.Equal(t, 3, ctx.ClientVersion)

	p.ret(trace.String("garbage"), "glGetString", trace.Enum(gl.VERSION))
	assert.Len(t, p.e.Anomalies(), 1)
	assert.Equal(t, uint64(2), ctx.Version.Minor())
}

func TestDebugGroupsAndLabels(t *testing.T) {
	p := newPlayer(t)
	ctx := p.window(1, 2, 16, 16)
	p.genTexture(4)
	p.call("glObjectLabel", trace.Enum(gl.TEXTURE), trace.Uint(4), trace.Int(-1), trace.String("atlas"))
	assert.Equal(t, "atlas", ctx.Textures.At(0).Label)

	p.call("glPushDebugGroup", trace.Enum(0), trace.Uint(0), trace.Int(-1), trace.String("frame"))
	assert.Equal(t, []string{"frame"}, ctx.DebugGroups)
	p.call("glPopDebugGroup")
	p.call("glPopDebugGroup")
	assert.Empty(t, ctx.DebugGroups)
	assert.Equal(t, []anomaly.Kind{anomaly.KindProtocol}, anomalyKinds(p.e))
}

func TestOutOfRangeFunc(t *testing.T) {
	p := newPlayer(t)
	p.window(1, 2, 16, 16)
	c := &trace.Call{Name: "glFrobnicate", Func: trace.Func(9999), Number: 100}
	require.NotPanics(t, func() { p.e.Interpret(c) })
	assert.Equal(t, []anomaly.Kind{anomaly.KindUnsupported}, anomalyKinds(p.e))
	assert.Equal(t, 1, p.e.Stats().Unsupported["glFrobnicate"])
	assert.Equal(t, 0, p.e.Stats().Ignored)
}
