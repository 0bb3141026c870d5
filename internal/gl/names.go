// SPDX-License-Identifier: Unlicense OR MIT

package gl

import "fmt"

var names = map[Enum]string{
	TEXTURE_2D:               "GL_TEXTURE_2D",
	TEXTURE_3D:               "GL_TEXTURE_3D",
	TEXTURE_2D_ARRAY:         "GL_TEXTURE_2D_ARRAY",
	TEXTURE_CUBE_MAP:         "GL_TEXTURE_CUBE_MAP",
	TEXTURE_EXTERNAL_OES:     "GL_TEXTURE_EXTERNAL_OES",
	ARRAY_BUFFER:             "GL_ARRAY_BUFFER",
	ELEMENT_ARRAY_BUFFER:     "GL_ELEMENT_ARRAY_BUFFER",
	UNIFORM_BUFFER:           "GL_UNIFORM_BUFFER",
	SHADER_STORAGE_BUFFER:    "GL_SHADER_STORAGE_BUFFER",
	FRAMEBUFFER:              "GL_FRAMEBUFFER",
	READ_FRAMEBUFFER:         "GL_READ_FRAMEBUFFER",
	DRAW_FRAMEBUFFER:         "GL_DRAW_FRAMEBUFFER",
	RENDERBUFFER:             "GL_RENDERBUFFER",
	DEPTH_ATTACHMENT:         "GL_DEPTH_ATTACHMENT",
	STENCIL_ATTACHMENT:       "GL_STENCIL_ATTACHMENT",
	DEPTH_STENCIL_ATTACHMENT: "GL_DEPTH_STENCIL_ATTACHMENT",
	COLOR:                    "GL_COLOR",
	DEPTH:                    "GL_DEPTH",
	STENCIL:                  "GL_STENCIL",
	VERTEX_SHADER:            "GL_VERTEX_SHADER",
	FRAGMENT_SHADER:          "GL_FRAGMENT_SHADER",
	COMPUTE_SHADER:           "GL_COMPUTE_SHADER",
	BLEND:                    "GL_BLEND",
	DEPTH_TEST:               "GL_DEPTH_TEST",
	SCISSOR_TEST:             "GL_SCISSOR_TEST",
	STENCIL_TEST:             "GL_STENCIL_TEST",
	CULL_FACE:                "GL_CULL_FACE",
	DITHER:                   "GL_DITHER",
}

func (e Enum) String() string {
	if IsColorAttachment(e) {
		return fmt.Sprintf("GL_COLOR_ATTACHMENT%d", uint32(e-COLOR_ATTACHMENT0))
	}
	if n, ok := names[e]; ok {
		return n
	}
	return fmt.Sprintf("0x%04x", uint32(e))
}
