// SPDX-License-Identifier: Unlicense OR MIT

package state

import (
	"golang.org/x/crypto/blake2b"
	"golang.org/x/exp/maps"

	"gltrace.org/internal/anomaly"
	"gltrace.org/internal/gl"
	"gltrace.org/trace"
)

func init() {
	handlers[trace.GlCreateShader] = (*Engine).glCreateShader
	handlers[trace.GlDeleteShader] = (*Engine).glDeleteShader
	handlers[trace.GlShaderSource] = (*Engine).glShaderSource
	handlers[trace.GlCompileShader] = (*Engine).glCompileShader
	handlers[trace.GlCreateProgram] = (*Engine).glCreateProgram
	handlers[trace.GlDeleteProgram] = (*Engine).glDeleteProgram
	handlers[trace.GlAttachShader] = (*Engine).glAttachShader
	handlers[trace.GlDetachShader] = (*Engine).glDetachShader
	handlers[trace.GlLinkProgram] = (*Engine).glLinkProgram
	handlers[trace.GlUseProgram] = (*Engine).glUseProgram
	handlers[trace.GlProgramBinary] = (*Engine).glProgramBinary
	handlers[trace.GlValidateProgram] = (*Engine).glValidateProgram
	handlers[trace.GlGetProgramiv] = (*Engine).glGetProgramiv
	handlers[trace.GlGetUniformLocation] = (*Engine).glGetUniformLocation
	handlers[trace.GlGetAttribLocation] = (*Engine).glGetAttribLocation
	handlers[trace.GlBindAttribLocation] = (*Engine).glBindAttribLocation
	handlers[trace.GlCreateShaderProgramv] = (*Engine).glCreateShaderProgramv
	handlers[trace.GlProgramParameteri] = (*Engine).glProgramParameteri
	handlers[trace.GlUniformBlockBinding] = (*Engine).glUniformBlockBinding

	handlers[trace.GlGenProgramPipelines] = (*Engine).glGenProgramPipelines
	handlers[trace.GlDeleteProgramPipelines] = (*Engine).glDeleteProgramPipelines
	handlers[trace.GlBindProgramPipeline] = (*Engine).glBindProgramPipeline
	handlers[trace.GlUseProgramStages] = (*Engine).glUseProgramStages

	for _, f := range []trace.Func{
		trace.GlUniform1i, trace.GlUniform2i, trace.GlUniform3i, trace.GlUniform4i,
		trace.GlUniform1f, trace.GlUniform2f, trace.GlUniform3f, trace.GlUniform4f,
	} {
		handlers[f] = (*Engine).glUniform
	}
	for _, f := range []trace.Func{
		trace.GlUniform1iv, trace.GlUniform2iv, trace.GlUniform3iv, trace.GlUniform4iv,
		trace.GlUniform1fv, trace.GlUniform2fv, trace.GlUniform3fv, trace.GlUniform4fv,
	} {
		handlers[f] = (*Engine).glUniformv
	}
	handlers[trace.GlUniformMatrix2fv] = (*Engine).glUniformMatrix
	handlers[trace.GlUniformMatrix3fv] = (*Engine).glUniformMatrix
	handlers[trace.GlUniformMatrix4fv] = (*Engine).glUniformMatrix
	handlers[trace.GlProgramUniform1i] = (*Engine).glProgramUniform
	handlers[trace.GlProgramUniform1f] = (*Engine).glProgramUniform
	handlers[trace.GlProgramUniform4fv] = (*Engine).glProgramUniformv
}

func (e *Engine) glCreateShader(t *Thread, c *trace.Call) {
	h := handle(c.Return)
	if h == 0 {
		return
	}
	s, err := t.Context.Shaders.Add(h, c.Number, e.frame)
	if err != nil {
		e.fail(err)
		return
	}
	s.Stage = enum(c.Arg(0))
}

func (e *Engine) glDeleteShader(t *Thread, c *trace.Call) {
	ctx := t.Context
	h := handle(c.Arg(0))
	if h == 0 {
		return
	}
	s := lookup(e, ctx.Shaders, h, "shader")
	if s == nil {
		return
	}
	if s.attached > 0 {
		s.deletePending = true
		return
	}
	ctx.Shaders.Remove(h, c.Number, e.frame)
}

func (e *Engine) glShaderSource(t *Thread, c *trace.Call) {
	if s := lookup(e, t.Context.Shaders, handle(c.Arg(0)), "shader"); s != nil {
		e.observe(set(&s.Source, c.Arg(2).AsString()))
	}
}

// analyze runs the shader analyzer, if any, over source.
func (e *Engine) analyze(stage gl.Enum, source string, h uint64) ShaderInfo {
	if e.analyzer == nil {
		return ShaderInfo{}
	}
	info, err := e.analyzer.Analyze(stage, source)
	if err != nil {
		e.report(&anomaly.Error{Kind: anomaly.KindProtocol, Handle: h, Detail: "shader analysis failed", Cause: err})
		return ShaderInfo{}
	}
	return info
}

func (e *Engine) glCompileShader(t *Thread, c *trace.Call) {
	s := lookup(e, t.Context.Shaders, handle(c.Arg(0)), "shader")
	if s == nil {
		return
	}
	s.Compiled = true
	s.Info = e.analyze(s.Stage, s.Source, uint64(s.Handle))
}

func (e *Engine) glCreateProgram(t *Thread, c *trace.Call) {
	h := handle(c.Return)
	if h == 0 {
		return
	}
	p, err := t.Context.Programs.Add(h, c.Number, e.frame)
	if err != nil {
		e.fail(err)
		return
	}
	p.init()
}

// releaseShader drops one attachment of s, destroying it when a
// deletion is pending.
func (e *Engine) releaseShader(ctx *Context, s *Shader) {
	s.attached--
	if s.attached == 0 && s.deletePending && s.Live() {
		ctx.Shaders.Remove(s.Handle, e.number(), e.frame)
	}
}

func (e *Engine) destroyProgram(ctx *Context, p *Program) {
	for _, idx := range p.Attached {
		e.releaseShader(ctx, ctx.Shaders.At(idx))
	}
	p.Attached = make(map[gl.Enum]int)
	ctx.Programs.Remove(p.Handle, e.number(), e.frame)
}

func (e *Engine) glDeleteProgram(t *Thread, c *trace.Call) {
	ctx := t.Context
	h := handle(c.Arg(0))
	if h == 0 {
		return
	}
	p := lookup(e, ctx.Programs, h, "program")
	if p == nil {
		return
	}
	if pass := ctx.pass; pass != nil {
		if _, used := pass.Programs[p.Index]; used || ctx.Binding.Program == h {
			ctx.closePass()
		}
	}
	if ctx.Binding.Program == h {
		p.deletePending = true
		return
	}
	e.destroyProgram(ctx, p)
}

func (e *Engine) glAttachShader(t *Thread, c *trace.Call) {
	ctx := t.Context
	p := lookup(e, ctx.Programs, handle(c.Arg(0)), "program")
	s := lookup(e, ctx.Shaders, handle(c.Arg(1)), "shader")
	if p == nil || s == nil {
		return
	}
	if old, ok := p.Attached[s.Stage]; ok {
		if old == s.Index {
			e.observe(false)
			return
		}
		e.protocol(uint64(s.Handle), "program already has a %v shader", s.Stage)
		e.releaseShader(ctx, ctx.Shaders.At(old))
	}
	p.Attached[s.Stage] = s.Index
	s.attached++
	e.observe(true)
}

func (e *Engine) glDetachShader(t *Thread, c *trace.Call) {
	ctx := t.Context
	p := lookup(e, ctx.Programs, handle(c.Arg(0)), "program")
	s := lookup(e, ctx.Shaders, handle(c.Arg(1)), "shader")
	if p == nil || s == nil {
		return
	}
	if idx, ok := p.Attached[s.Stage]; !ok || idx != s.Index {
		e.protocol(uint64(s.Handle), "shader is not attached to program %d", p.Handle)
		return
	}
	delete(p.Attached, s.Stage)
	e.releaseShader(ctx, s)
}

func (e *Engine) glLinkProgram(t *Thread, c *trace.Call) {
	ctx := t.Context
	if p := lookup(e, ctx.Programs, handle(c.Arg(0)), "program"); p != nil {
		p.link(ctx.Shaders)
	}
}

func (e *Engine) glUseProgram(t *Thread, c *trace.Call) {
	ctx := t.Context
	h := handle(c.Arg(0))
	if h != 0 && lookup(e, ctx.Programs, h, "program") == nil {
		return
	}
	old := ctx.Binding.Program
	if !e.observe(set(&ctx.Binding.Program, h)) {
		return
	}
	if p := ctx.Programs.ID(old); p != nil && p.deletePending {
		e.destroyProgram(ctx, p)
	}
}

func (e *Engine) glProgramBinary(t *Thread, c *trace.Call) {
	p := lookup(e, t.Context.Programs, handle(c.Arg(0)), "program")
	if p == nil {
		return
	}
	p.Binary = true
	p.Linked = true
	p.LinkCount++
	p.Checksum = blake2b.Sum256(c.Arg(2).Data)
	p.resetUniforms()
}

func (e *Engine) glValidateProgram(t *Thread, c *trace.Call) {
	lookup(e, t.Context.Programs, handle(c.Arg(0)), "program")
}

func (e *Engine) glGetProgramiv(t *Thread, c *trace.Call) {
	p := lookup(e, t.Context.Programs, handle(c.Arg(0)), "program")
	if p != nil && enum(c.Arg(1)) == gl.LINK_STATUS {
		p.Linked = c.Arg(2).AsBool()
	}
}

func (e *Engine) glGetUniformLocation(t *Thread, c *trace.Call) {
	if p := lookup(e, t.Context.Programs, handle(c.Arg(0)), "program"); p != nil {
		p.setLocation(c.Arg(1).AsString(), int32(c.Return.AsInt()))
	}
}

func (e *Engine) glGetAttribLocation(t *Thread, c *trace.Call) {
	p := lookup(e, t.Context.Programs, handle(c.Arg(0)), "program")
	if p == nil {
		return
	}
	if loc := c.Return.AsInt(); loc >= 0 {
		p.Attribs[c.Arg(1).AsString()] = uint32(loc)
	}
}

func (e *Engine) glBindAttribLocation(t *Thread, c *trace.Call) {
	p := lookup(e, t.Context.Programs, handle(c.Arg(0)), "program")
	if p == nil {
		return
	}
	name, loc := c.Arg(2).AsString(), uint32(c.Arg(1).AsUint())
	old, ok := p.Attribs[name]
	p.Attribs[name] = loc
	e.observe(!ok || old != loc)
}

func (e *Engine) glCreateShaderProgramv(t *Thread, c *trace.Call) {
	h := handle(c.Return)
	if h == 0 {
		return
	}
	p, err := t.Context.Programs.Add(h, c.Number, e.frame)
	if err != nil {
		e.fail(err)
		return
	}
	p.init()
	stage, src := enum(c.Arg(0)), c.Arg(2).AsString()
	p.Stages[stage] = StageLink{Shader: -1, Source: src, Info: e.analyze(stage, src, uint64(h))}
	p.Separable = true
	p.Linked = true
	p.LinkCount++
	p.Checksum = p.checksum()
}

func (e *Engine) glProgramParameteri(t *Thread, c *trace.Call) {
	p := lookup(e, t.Context.Programs, handle(c.Arg(0)), "program")
	if p != nil && enum(c.Arg(1)) == gl.PROGRAM_SEPARABLE {
		e.observe(set(&p.Separable, c.Arg(2).AsBool()))
	}
}

func (e *Engine) glUniformBlockBinding(t *Thread, c *trace.Call) {
	p := lookup(e, t.Context.Programs, handle(c.Arg(0)), "program")
	if p == nil {
		return
	}
	block, binding := uint32(c.Arg(1).AsUint()), uint32(c.Arg(2).AsUint())
	old, ok := p.BlockBindings[block]
	p.BlockBindings[block] = binding
	e.observe(!ok || old != binding)
}

func (e *Engine) glGenProgramPipelines(t *Thread, c *trace.Call) {
	genNames(e, t.Context.Pipelines, c.Arg(1), (*Pipeline).init)
}

func (e *Engine) glDeleteProgramPipelines(t *Thread, c *trace.Call) {
	ctx := t.Context
	deleteNames(e, ctx.Pipelines, c.Arg(1), func(p *Pipeline) {
		if ctx.Binding.Pipeline == p.Handle {
			ctx.Binding.Pipeline = 0
		}
	})
}

func (e *Engine) glBindProgramPipeline(t *Thread, c *trace.Call) {
	ctx := t.Context
	h := handle(c.Arg(0))
	if p := ensure(e, ctx.Pipelines, h, (*Pipeline).init); h != 0 && p == nil {
		return
	}
	e.observe(set(&ctx.Binding.Pipeline, h))
}

func (e *Engine) glUseProgramStages(t *Thread, c *trace.Call) {
	ctx := t.Context
	pl := lookup(e, ctx.Pipelines, handle(c.Arg(0)), "pipeline")
	if pl == nil {
		return
	}
	bitsSet := gl.Enum(c.Arg(1).AsUint())
	idx := -1
	if h := handle(c.Arg(2)); h != 0 {
		p := lookup(e, ctx.Programs, h, "program")
		if p == nil {
			return
		}
		idx = p.Index
	}
	old := maps.Clone(pl.Stages)
	for _, stage := range gl.Stages {
		if bitsSet&gl.StageBit(stage) == 0 {
			continue
		}
		if idx < 0 {
			delete(pl.Stages, stage)
		} else {
			pl.Stages[stage] = idx
		}
	}
	e.observe(!maps.Equal(old, pl.Stages))
}

// uniform stores v at location loc of p. Location -1 is ignored.
func (e *Engine) uniform(p *Program, loc int64, v trace.Value) {
	if p == nil || loc < 0 {
		return
	}
	e.observe(p.setUniform(int32(loc), v, e.number()))
}

func (e *Engine) currentProgram(ctx *Context) *Program {
	p := ctx.Program()
	if p == nil {
		e.protocol(0, "no program in use")
	}
	return p
}

// glUniform handles glUniform{1,2,3,4}{i,f}.
func (e *Engine) glUniform(t *Thread, c *trace.Call) {
	if len(c.Args) < 2 {
		return
	}
	v := c.Args[1]
	if len(c.Args) > 2 {
		v = trace.Array(c.Args[1:]...)
	}
	e.uniform(e.currentProgram(t.Context), c.Arg(0).AsInt(), v)
}

// glUniformv handles glUniform{1,2,3,4}{i,f}v.
func (e *Engine) glUniformv(t *Thread, c *trace.Call) {
	e.uniform(e.currentProgram(t.Context), c.Arg(0).AsInt(), c.Arg(2))
}

func (e *Engine) glUniformMatrix(t *Thread, c *trace.Call) {
	e.uniform(e.currentProgram(t.Context), c.Arg(0).AsInt(), c.Arg(3))
}

func (e *Engine) glProgramUniform(t *Thread, c *trace.Call) {
	p := lookup(e, t.Context.Programs, handle(c.Arg(0)), "program")
	e.uniform(p, c.Arg(1).AsInt(), c.Arg(2))
}

func (e *Engine) glProgramUniformv(t *Thread, c *trace.Call) {
	p := lookup(e, t.Context.Programs, handle(c.Arg(0)), "program")
	e.uniform(p, c.Arg(1).AsInt(), c.Arg(3))
}
