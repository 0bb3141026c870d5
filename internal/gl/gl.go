// SPDX-License-Identifier: Unlicense OR MIT

// Package gl holds the OpenGL ES and EGL enumerants interpreted by the
// trace engine.
package gl

type Enum uint32

const (
	NONE  = 0x0
	FALSE = 0
	TRUE  = 1

	// Primitive modes.
	POINTS         = 0x0
	LINES          = 0x1
	LINE_LOOP      = 0x2
	LINE_STRIP     = 0x3
	TRIANGLES      = 0x4
	TRIANGLE_STRIP = 0x5
	TRIANGLE_FAN   = 0x6
	PATCHES        = 0xE

	// Clear bits.
	DEPTH_BUFFER_BIT   = 0x100
	STENCIL_BUFFER_BIT = 0x400
	COLOR_BUFFER_BIT   = 0x4000

	// Capabilities.
	CULL_FACE                = 0xb44
	DEPTH_TEST               = 0xb71
	STENCIL_TEST             = 0xb90
	DITHER                   = 0xbd0
	BLEND                    = 0xbe2
	SCISSOR_TEST             = 0xc11
	POLYGON_OFFSET_FILL      = 0x8037
	SAMPLE_ALPHA_TO_COVERAGE = 0x809e
	SAMPLE_COVERAGE          = 0x80a0
	PRIMITIVE_RESTART_FIXED  = 0x8d69
	RASTERIZER_DISCARD       = 0x8c89
	SAMPLE_MASK              = 0x8e51
	FRAMEBUFFER_SRGB         = 0x8db9
	DEBUG_OUTPUT             = 0x92e0

	// Faces and functions.
	FRONT          = 0x404
	BACK           = 0x405
	FRONT_AND_BACK = 0x408
	CW             = 0x900
	CCW            = 0x901
	NEVER          = 0x200
	LESS           = 0x201
	EQUAL          = 0x202
	LEQUAL         = 0x203
	GREATER        = 0x204
	NOTEQUAL       = 0x205
	GEQUAL         = 0x206
	ALWAYS         = 0x207
	KEEP           = 0x1e00
	FUNC_ADD       = 0x8006

	// Blend factors.
	ZERO                = 0x0
	ONE                 = 0x1
	SRC_ALPHA           = 0x302
	ONE_MINUS_SRC_ALPHA = 0x303
	DST_COLOR           = 0x306

	// Strings.
	VENDOR     = 0x1f00
	RENDERER   = 0x1f01
	VERSION    = 0x1f02
	EXTENSIONS = 0x1f03

	// Data types.
	BYTE           = 0x1400
	UNSIGNED_BYTE  = 0x1401
	SHORT          = 0x1402
	UNSIGNED_SHORT = 0x1403
	INT            = 0x1404
	UNSIGNED_INT   = 0x1405
	FLOAT          = 0x1406
	HALF_FLOAT     = 0x140b

	// Texture targets.
	TEXTURE_2D                  = 0xde1
	TEXTURE_3D                  = 0x806f
	TEXTURE_2D_ARRAY            = 0x8c1a
	TEXTURE_CUBE_MAP            = 0x8513
	TEXTURE_CUBE_MAP_POSITIVE_X = 0x8515
	TEXTURE_CUBE_MAP_NEGATIVE_Z = 0x851a
	TEXTURE_CUBE_MAP_ARRAY      = 0x9009
	TEXTURE_2D_MULTISAMPLE      = 0x9100
	TEXTURE_EXTERNAL_OES        = 0x8d65
	TEXTURE_BUFFER              = 0x8c2a
	TEXTURE0                    = 0x84c0

	// Texture formats.
	ALPHA              = 0x1906
	RGB                = 0x1907
	RGBA               = 0x1908
	LUMINANCE          = 0x1909
	RED                = 0x1903
	R8                 = 0x8229
	RG8                = 0x822b
	R16F               = 0x822d
	RGB8               = 0x8051
	RGBA8              = 0x8058
	RGBA16F            = 0x881a
	RGBA32F            = 0x8814
	SRGB8_ALPHA8       = 0x8c43
	RGB565             = 0x8d62
	DEPTH_COMPONENT16  = 0x81a5
	DEPTH_COMPONENT24  = 0x81a6
	DEPTH_COMPONENT32F = 0x8cac
	DEPTH24_STENCIL8   = 0x88f0
	DEPTH32F_STENCIL8  = 0x8cad
	STENCIL_INDEX8     = 0x8d48

	// Buffer targets.
	ARRAY_BUFFER              = 0x8892
	ELEMENT_ARRAY_BUFFER      = 0x8893
	PIXEL_PACK_BUFFER         = 0x88eb
	PIXEL_UNPACK_BUFFER       = 0x88ec
	UNIFORM_BUFFER            = 0x8a11
	TRANSFORM_FEEDBACK_BUFFER = 0x8c8e
	COPY_READ_BUFFER          = 0x8f36
	COPY_WRITE_BUFFER         = 0x8f37
	DRAW_INDIRECT_BUFFER      = 0x8f3f
	SHADER_STORAGE_BUFFER     = 0x90d2
	DISPATCH_INDIRECT_BUFFER  = 0x90ee
	ATOMIC_COUNTER_BUFFER     = 0x92c0

	STREAM_DRAW  = 0x88e0
	STATIC_DRAW  = 0x88e4
	DYNAMIC_DRAW = 0x88e8

	// Framebuffers.
	FRAMEBUFFER              = 0x8d40
	READ_FRAMEBUFFER         = 0x8ca8
	DRAW_FRAMEBUFFER         = 0x8ca9
	RENDERBUFFER             = 0x8d41
	COLOR_ATTACHMENT0        = 0x8ce0
	COLOR_ATTACHMENT15       = 0x8cef
	DEPTH_ATTACHMENT         = 0x8d00
	STENCIL_ATTACHMENT       = 0x8d20
	DEPTH_STENCIL_ATTACHMENT = 0x821a
	COLOR                    = 0x1800
	DEPTH                    = 0x1801
	STENCIL                  = 0x1802
	DEPTH_STENCIL            = 0x84f9
	FRAMEBUFFER_COMPLETE     = 0x8cd5

	// Shaders and programs.
	FRAGMENT_SHADER        = 0x8b30
	VERTEX_SHADER          = 0x8b31
	GEOMETRY_SHADER        = 0x8dd9
	TESS_CONTROL_SHADER    = 0x8e88
	TESS_EVALUATION_SHADER = 0x8e87
	COMPUTE_SHADER         = 0x91b9
	COMPILE_STATUS         = 0x8b81
	LINK_STATUS            = 0x8b82
	PROGRAM_SEPARABLE      = 0x8258

	VERTEX_SHADER_BIT          = 0x1
	FRAGMENT_SHADER_BIT        = 0x2
	GEOMETRY_SHADER_BIT        = 0x4
	TESS_CONTROL_SHADER_BIT    = 0x8
	TESS_EVALUATION_SHADER_BIT = 0x10
	COMPUTE_SHADER_BIT         = 0x20

	// Sampler uniform types.
	SAMPLER_2D                = 0x8b5e
	SAMPLER_3D                = 0x8b5f
	SAMPLER_CUBE              = 0x8b60
	SAMPLER_2D_SHADOW         = 0x8b62
	SAMPLER_2D_ARRAY          = 0x8dc1
	SAMPLER_EXTERNAL_OES      = 0x8d66
	SAMPLER_2D_MULTISAMPLE    = 0x9108
	SAMPLER_CUBE_MAP_ARRAY    = 0x900c
	INT_SAMPLER_2D            = 0x8dca
	UNSIGNED_INT_SAMPLER_2D   = 0x8dd2
	SAMPLER_2D_ARRAY_SHADOW   = 0x8dc4
	SAMPLER_CUBE_SHADOW       = 0x8dc5
	INT_SAMPLER_3D            = 0x8dcb
	UNSIGNED_INT_SAMPLER_3D   = 0x8dd3
	INT_SAMPLER_CUBE          = 0x8dcc
	UNSIGNED_INT_SAMPLER_CUBE = 0x8dd4

	// Queries.
	ANY_SAMPLES_PASSED                    = 0x8c2f
	ANY_SAMPLES_PASSED_CONSERVATIVE       = 0x8d6a
	TRANSFORM_FEEDBACK_PRIMITIVES_WRITTEN = 0x8c88
	TIME_ELAPSED_EXT                      = 0x88bf

	TRANSFORM_FEEDBACK = 0x8e22
	TEXTURE            = 0x1702
	BUFFER             = 0x82e0
	SHADER             = 0x82e1
	PROGRAM            = 0x82e2
	VERTEX_ARRAY       = 0x8074
	QUERY              = 0x82e3
	PROGRAM_PIPELINE   = 0x82e4
	SAMPLER            = 0x82e6

	// Swap behaviour.
	EGL_NONE                   = 0x3038
	EGL_WIDTH                  = 0x3057
	EGL_HEIGHT                 = 0x3056
	EGL_SWAP_BEHAVIOR          = 0x3093
	EGL_BUFFER_PRESERVED       = 0x3094
	EGL_BUFFER_DESTROYED       = 0x3095
	EGL_CONTEXT_CLIENT_VERSION = 0x3098
	EGL_CONTEXT_MINOR_VERSION  = 0x30fb
	EGL_OPENGL_ES_API          = 0x30a0
)

// MaxDrawBuffers bounds the color attachment points tracked per
// framebuffer.
const MaxDrawBuffers = COLOR_ATTACHMENT15 - COLOR_ATTACHMENT0 + 1

// IsColorAttachment reports whether e names COLOR_ATTACHMENTi.
func IsColorAttachment(e Enum) bool {
	return e >= COLOR_ATTACHMENT0 && e <= COLOR_ATTACHMENT15
}

// CubeFace reports whether e is one of the six cube map face targets.
func CubeFace(e Enum) bool {
	return e >= TEXTURE_CUBE_MAP_POSITIVE_X && e <= TEXTURE_CUBE_MAP_NEGATIVE_Z
}

// TextureTarget maps an image target, such as a cube face, to the
// target the texture is bound to.
func TextureTarget(e Enum) Enum {
	if CubeFace(e) {
		return TEXTURE_CUBE_MAP
	}
	return e
}

// SamplerTarget returns the texture target sampled by a sampler
// uniform type, or NONE for non-sampler types.
func SamplerTarget(typ Enum) Enum {
	switch typ {
	case SAMPLER_2D, SAMPLER_2D_SHADOW, INT_SAMPLER_2D, UNSIGNED_INT_SAMPLER_2D:
		return TEXTURE_2D
	case SAMPLER_3D, INT_SAMPLER_3D, UNSIGNED_INT_SAMPLER_3D:
		return TEXTURE_3D
	case SAMPLER_CUBE, SAMPLER_CUBE_SHADOW, INT_SAMPLER_CUBE, UNSIGNED_INT_SAMPLER_CUBE:
		return TEXTURE_CUBE_MAP
	case SAMPLER_2D_ARRAY, SAMPLER_2D_ARRAY_SHADOW:
		return TEXTURE_2D_ARRAY
	case SAMPLER_EXTERNAL_OES:
		return TEXTURE_EXTERNAL_OES
	case SAMPLER_2D_MULTISAMPLE:
		return TEXTURE_2D_MULTISAMPLE
	case SAMPLER_CUBE_MAP_ARRAY:
		return TEXTURE_CUBE_MAP_ARRAY
	}
	return NONE
}

// StageBit maps a shader type to its program pipeline stage bit.
func StageBit(stage Enum) Enum {
	switch stage {
	case VERTEX_SHADER:
		return VERTEX_SHADER_BIT
	case FRAGMENT_SHADER:
		return FRAGMENT_SHADER_BIT
	case GEOMETRY_SHADER:
		return GEOMETRY_SHADER_BIT
	case TESS_CONTROL_SHADER:
		return TESS_CONTROL_SHADER_BIT
	case TESS_EVALUATION_SHADER:
		return TESS_EVALUATION_SHADER_BIT
	case COMPUTE_SHADER:
		return COMPUTE_SHADER_BIT
	}
	return NONE
}

// Stages lists the shader stages in pipeline order.
var Stages = [...]Enum{VERTEX_SHADER, TESS_CONTROL_SHADER, TESS_EVALUATION_SHADER, GEOMETRY_SHADER, FRAGMENT_SHADER, COMPUTE_SHADER}

// Primitives returns the number of primitives assembled from count
// vertices in the given mode.
func Primitives(mode Enum, count uint64) uint64 {
	switch mode {
	case POINTS, PATCHES:
		return count
	case LINES:
		return count / 2
	case LINE_LOOP:
		if count < 2 {
			return 0
		}
		return count
	case LINE_STRIP:
		if count < 2 {
			return 0
		}
		return count - 1
	case TRIANGLES:
		return count / 3
	case TRIANGLE_STRIP, TRIANGLE_FAN:
		if count < 3 {
			return 0
		}
		return count - 2
	}
	return 0
}

// IndexedBufferTarget reports whether target belongs to the indexed
// binding family whose bindings are context global.
func IndexedBufferTarget(target Enum) bool {
	switch target {
	case UNIFORM_BUFFER, SHADER_STORAGE_BUFFER, ATOMIC_COUNTER_BUFFER, TRANSFORM_FEEDBACK_BUFFER:
		return true
	}
	return false
}

// BufferTarget reports whether target is a buffer binding point.
func BufferTarget(target Enum) bool {
	switch target {
	case ARRAY_BUFFER, ELEMENT_ARRAY_BUFFER, PIXEL_PACK_BUFFER, PIXEL_UNPACK_BUFFER,
		COPY_READ_BUFFER, COPY_WRITE_BUFFER, DRAW_INDIRECT_BUFFER, DISPATCH_INDIRECT_BUFFER,
		TEXTURE_BUFFER:
		return true
	}
	return IndexedBufferTarget(target)
}
