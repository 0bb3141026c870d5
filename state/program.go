// SPDX-License-Identifier: Unlicense OR MIT

package state

import (
	"encoding/binary"
	"strings"

	"gioui.org/shader"
	"golang.org/x/crypto/blake2b"

	"gltrace.org/internal/arena"
	"gltrace.org/internal/gl"
	"gltrace.org/trace"
)

// ShaderAnalyzer preprocesses and reflects shader sources. It is
// implemented by the shader-language front end of the embedding tool.
type ShaderAnalyzer interface {
	Analyze(stage gl.Enum, source string) (ShaderInfo, error)
}

// ShaderInfo is the analyzer output stored with a shader.
type ShaderInfo struct {
	Preprocessed string
	// Inputs are the vertex inputs of a vertex shader.
	Inputs []shader.InputLocation
	// Varyings are the values passed between stages.
	Varyings []shader.InputLocation
	Samplers []SamplerBinding
}

// SamplerBinding is a sampler uniform declared by a shader. Binding is
// the texture unit the sampler reads until a uniform call sets another.
type SamplerBinding struct {
	shader.TextureBinding
	// Type is the sampler uniform type, such as GL_SAMPLER_2D.
	Type gl.Enum
}

// Shader is a shader object and its last source.
type Shader struct {
	arena.Entry
	Stage    gl.Enum
	Source   string
	Compiled bool
	Info     ShaderInfo
	// attached counts the programs the shader is attached to.
	attached      int
	deletePending bool
}

// StageLink is a program stage as it was at link time.
type StageLink struct {
	// Shader is the index of the linked shader, or -1 for stages
	// created by glCreateShaderProgramv.
	Shader int
	Source string
	Info   ShaderInfo
}

// Uniform is the tracked value of one uniform location.
type Uniform struct {
	Name     string
	Location int32
	Value    trace.Value
	// LastChanged is the number of the call that last changed Value.
	LastChanged uint64
}

// Program is a program object with its linked stages and uniforms.
type Program struct {
	arena.Entry
	// Attached maps a stage to the index of the attached shader.
	Attached map[gl.Enum]int
	// Stages is the linked configuration.
	Stages    map[gl.Enum]StageLink
	Linked    bool
	LinkCount int
	Separable bool
	Binary    bool
	Checksum  [blake2b.Size256]byte

	Locations     map[string]int32
	Names         map[int32]string
	Uniforms      map[int32]*Uniform
	Attribs       map[string]uint32
	BlockBindings map[uint32]uint32

	deletePending bool
}

func (p *Program) init() {
	p.Attached = make(map[gl.Enum]int)
	p.Stages = make(map[gl.Enum]StageLink)
	p.Attribs = make(map[string]uint32)
	p.BlockBindings = make(map[uint32]uint32)
	p.resetUniforms()
}

func (p *Program) resetUniforms() {
	p.Locations = make(map[string]int32)
	p.Names = make(map[int32]string)
	p.Uniforms = make(map[int32]*Uniform)
}

// link snapshots the attached shaders into Stages.
func (p *Program) link(shaders *arena.Arena[Shader, *Shader]) {
	p.Stages = make(map[gl.Enum]StageLink)
	for stage, idx := range p.Attached {
		s := shaders.At(idx)
		p.Stages[stage] = StageLink{Shader: idx, Source: s.Source, Info: s.Info}
	}
	p.Linked = true
	p.LinkCount++
	p.Checksum = p.checksum()
	p.resetUniforms()
}

// checksum hashes the linked sources in pipeline stage order.
func (p *Program) checksum() [blake2b.Size256]byte {
	h, _ := blake2b.New256(nil)
	var buf [4]byte
	for _, stage := range gl.Stages {
		l, ok := p.Stages[stage]
		if !ok {
			continue
		}
		binary.LittleEndian.PutUint32(buf[:], uint32(stage))
		h.Write(buf[:])
		h.Write([]byte(l.Source))
	}
	var sum [blake2b.Size256]byte
	copy(sum[:], h.Sum(nil))
	return sum
}

// setLocation records the location returned for a uniform name.
// Array uniforms are also known by their base name.
func (p *Program) setLocation(name string, loc int32) {
	if loc < 0 {
		return
	}
	p.Locations[name] = loc
	p.Names[loc] = name
	if base, ok := strings.CutSuffix(name, "[0]"); ok {
		p.Locations[base] = loc
	} else if _, known := p.Locations[name+"[0]"]; !known {
		p.Locations[name+"[0]"] = loc
	}
}

// setUniform stores v at loc and reports whether the value changed.
func (p *Program) setUniform(loc int32, v trace.Value, call uint64) bool {
	u, ok := p.Uniforms[loc]
	if ok && u.Value.Equal(v) {
		return false
	}
	if !ok {
		u = &Uniform{Location: loc, Name: p.Names[loc]}
		p.Uniforms[loc] = u
	}
	u.Value = v
	u.LastChanged = call
	return true
}

// samplerUnits calls f with the texture target and unit of every
// sampler declared by the linked stages, using current uniform values.
func (p *Program) samplerUnits(f func(target gl.Enum, unit uint32)) {
	for _, stage := range gl.Stages {
		l, ok := p.Stages[stage]
		if !ok {
			continue
		}
		for _, s := range l.Info.Samplers {
			target := gl.SamplerTarget(s.Type)
			if target == gl.NONE {
				target = gl.TEXTURE_2D
			}
			unit := uint32(s.Binding)
			if loc, ok := p.Locations[s.Name]; ok {
				if u := p.Uniforms[loc]; u != nil && u.Value.Kind != trace.KindNone {
					unit = uint32(u.Value.AsInt())
				}
			}
			f(target, unit)
		}
	}
}
