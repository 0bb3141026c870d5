// SPDX-License-Identifier: Unlicense OR MIT

package trace

// Func identifies an interpreted API entry point. The set is closed:
// names outside it decode to FuncUnknown.
type Func uint16

const (
	FuncUnknown Func = iota
	EglGetDisplay
	EglInitialize
	EglTerminate
	EglBindAPI
	EglChooseConfig
	EglCreateContext
	EglDestroyContext
	EglMakeCurrent
	EglCreateWindowSurface
	EglCreateWindowSurface2
	EglCreatePbufferSurface
	EglCreatePixmapSurface
	EglDestroySurface
	EglSurfaceAttrib
	EglQuerySurface
	EglSwapBuffers
	EglSwapBuffersWithDamageKHR
	EglSwapInterval
	EglGetCurrentContext
	EglGetError
	EglCreateImageKHR
	EglDestroyImageKHR
	GlGenTextures
	GlDeleteTextures
	GlBindTexture
	GlActiveTexture
	GlTexImage2D
	GlTexImage3D
	GlTexStorage2D
	GlTexStorage3D
	GlTexSubImage2D
	GlTexSubImage3D
	GlCompressedTexImage2D
	GlCompressedTexSubImage2D
	GlCopyTexImage2D
	GlCopyTexSubImage2D
	GlTexParameteri
	GlTexParameterf
	GlGenerateMipmap
	GlEGLImageTargetTexture2DOES
	GlGenBuffers
	GlDeleteBuffers
	GlBindBuffer
	GlBindBufferBase
	GlBindBufferRange
	GlBufferData
	GlBufferSubData
	GlMapBufferRange
	GlUnmapBuffer
	GlFlushMappedBufferRange
	GlCopyBufferSubData
	GlGenFramebuffers
	GlDeleteFramebuffers
	GlBindFramebuffer
	GlFramebufferTexture2D
	GlFramebufferTextureLayer
	GlFramebufferTexture
	GlFramebufferRenderbuffer
	GlDrawBuffers
	GlReadBuffer
	GlInvalidateFramebuffer
	GlInvalidateSubFramebuffer
	GlDiscardFramebufferEXT
	GlCheckFramebufferStatus
	GlBlitFramebuffer
	GlReadPixels
	GlGenRenderbuffers
	GlDeleteRenderbuffers
	GlBindRenderbuffer
	GlRenderbufferStorage
	GlRenderbufferStorageMultisample
	GlCreateShader
	GlDeleteShader
	GlShaderSource
	GlCompileShader
	GlCreateProgram
	GlDeleteProgram
	GlAttachShader
	GlDetachShader
	GlLinkProgram
	GlUseProgram
	GlProgramBinary
	GlValidateProgram
	GlGetProgramiv
	GlGetUniformLocation
	GlGetAttribLocation
	GlBindAttribLocation
	GlCreateShaderProgramv
	GlProgramParameteri
	GlUniformBlockBinding
	GlGenProgramPipelines
	GlDeleteProgramPipelines
	GlBindProgramPipeline
	GlUseProgramStages
	GlUniform1i
	GlUniform2i
	GlUniform3i
	GlUniform4i
	GlUniform1f
	GlUniform2f
	GlUniform3f
	GlUniform4f
	GlUniform1iv
	GlUniform2iv
	GlUniform3iv
	GlUniform4iv
	GlUniform1fv
	GlUniform2fv
	GlUniform3fv
	GlUniform4fv
	GlUniformMatrix2fv
	GlUniformMatrix3fv
	GlUniformMatrix4fv
	GlProgramUniform1i
	GlProgramUniform1f
	GlProgramUniform4fv
	GlGenSamplers
	GlDeleteSamplers
	GlBindSampler
	GlSamplerParameteri
	GlSamplerParameterf
	GlGenQueries
	GlDeleteQueries
	GlBeginQuery
	GlEndQuery
	GlGenTransformFeedbacks
	GlDeleteTransformFeedbacks
	GlBindTransformFeedback
	GlBeginTransformFeedback
	GlEndTransformFeedback
	GlPauseTransformFeedback
	GlResumeTransformFeedback
	GlGenVertexArrays
	GlDeleteVertexArrays
	GlBindVertexArray
	GlVertexAttribPointer
	GlVertexAttribIPointer
	GlEnableVertexAttribArray
	GlDisableVertexAttribArray
	GlVertexAttribDivisor
	GlEnable
	GlDisable
	GlViewport
	GlScissor
	GlColorMask
	GlDepthMask
	GlStencilMask
	GlStencilMaskSeparate
	GlClearColor
	GlClearDepthf
	GlClearStencil
	GlDepthFunc
	GlBlendFunc
	GlBlendFuncSeparate
	GlBlendEquation
	GlBlendEquationSeparate
	GlBlendColor
	GlCullFace
	GlFrontFace
	GlPolygonOffset
	GlLineWidth
	GlStencilFunc
	GlStencilFuncSeparate
	GlStencilOp
	GlPixelStorei
	GlHint
	GlClear
	GlClearBufferfv
	GlClearBufferiv
	GlClearBufferuiv
	GlClearBufferfi
	GlDrawArrays
	GlDrawElements
	GlDrawArraysInstanced
	GlDrawElementsInstanced
	GlDrawRangeElements
	GlDrawArraysIndirect
	GlDrawElementsIndirect
	GlDispatchCompute
	GlDispatchComputeIndirect
	GlMemoryBarrier
	GlFlush
	GlFinish
	GlFenceSync
	GlDeleteSync
	GlClientWaitSync
	GlWaitSync
	GlObjectLabel
	GlPushDebugGroup
	GlPopDebugGroup
	GlGetString
	GlGetError
	GlGetIntegerv

	// NumFuncs is the number of Func values, FuncUnknown included.
	NumFuncs
)

// funcNames is indexed by Func.
var funcNames = [NumFuncs]string{
	"",
	"eglGetDisplay",
	"eglInitialize",
	"eglTerminate",
	"eglBindAPI",
	"eglChooseConfig",
	"eglCreateContext",
	"eglDestroyContext",
	"eglMakeCurrent",
	"eglCreateWindowSurface",
	"eglCreateWindowSurface2",
	"eglCreatePbufferSurface",
	"eglCreatePixmapSurface",
	"eglDestroySurface",
	"eglSurfaceAttrib",
	"eglQuerySurface",
	"eglSwapBuffers",
	"eglSwapBuffersWithDamageKHR",
	"eglSwapInterval",
	"eglGetCurrentContext",
	"eglGetError",
	"eglCreateImageKHR",
	"eglDestroyImageKHR",
	"glGenTextures",
	"glDeleteTextures",
	"glBindTexture",
	"glActiveTexture",
	"glTexImage2D",
	"glTexImage3D",
	"glTexStorage2D",
	"glTexStorage3D",
	"glTexSubImage2D",
	"glTexSubImage3D",
	"glCompressedTexImage2D",
	"glCompressedTexSubImage2D",
	"glCopyTexImage2D",
	"glCopyTexSubImage2D",
	"glTexParameteri",
	"glTexParameterf",
	"glGenerateMipmap",
	"glEGLImageTargetTexture2DOES",
	"glGenBuffers",
	"glDeleteBuffers",
	"glBindBuffer",
	"glBindBufferBase",
	"glBindBufferRange",
	"glBufferData",
	"glBufferSubData",
	"glMapBufferRange",
	"glUnmapBuffer",
	"glFlushMappedBufferRange",
	"glCopyBufferSubData",
	"glGenFramebuffers",
	"glDeleteFramebuffers",
	"glBindFramebuffer",
	"glFramebufferTexture2D",
	"glFramebufferTextureLayer",
	"glFramebufferTexture",
	"glFramebufferRenderbuffer",
	"glDrawBuffers",
	"glReadBuffer",
	"glInvalidateFramebuffer",
	"glInvalidateSubFramebuffer",
	"glDiscardFramebufferEXT",
	"glCheckFramebufferStatus",
	"glBlitFramebuffer",
	"glReadPixels",
	"glGenRenderbuffers",
	"glDeleteRenderbuffers",
	"glBindRenderbuffer",
	"glRenderbufferStorage",
	"glRenderbufferStorageMultisample",
	"glCreateShader",
	"glDeleteShader",
	"glShaderSource",
	"glCompileShader",
	"glCreateProgram",
	"glDeleteProgram",
	"glAttachShader",
	"glDetachShader",
	"glLinkProgram",
	"glUseProgram",
	"glProgramBinary",
	"glValidateProgram",
	"glGetProgramiv",
	"glGetUniformLocation",
	"glGetAttribLocation",
	"glBindAttribLocation",
	"glCreateShaderProgramv",
	"glProgramParameteri",
	"glUniformBlockBinding",
	"glGenProgramPipelines",
	"glDeleteProgramPipelines",
	"glBindProgramPipeline",
	"glUseProgramStages",
	"glUniform1i",
	"glUniform2i",
	"glUniform3i",
	"glUniform4i",
	"glUniform1f",
	"glUniform2f",
	"glUniform3f",
	"glUniform4f",
	"glUniform1iv",
	"glUniform2iv",
	"glUniform3iv",
	"glUniform4iv",
	"glUniform1fv",
	"glUniform2fv",
	"glUniform3fv",
	"glUniform4fv",
	"glUniformMatrix2fv",
	"glUniformMatrix3fv",
	"glUniformMatrix4fv",
	"glProgramUniform1i",
	"glProgramUniform1f",
	"glProgramUniform4fv",
	"glGenSamplers",
	"glDeleteSamplers",
	"glBindSampler",
	"glSamplerParameteri",
	"glSamplerParameterf",
	"glGenQueries",
	"glDeleteQueries",
	"glBeginQuery",
	"glEndQuery",
	"glGenTransformFeedbacks",
	"glDeleteTransformFeedbacks",
	"glBindTransformFeedback",
	"glBeginTransformFeedback",
	"glEndTransformFeedback",
	"glPauseTransformFeedback",
	"glResumeTransformFeedback",
	"glGenVertexArrays",
	"glDeleteVertexArrays",
	"glBindVertexArray",
	"glVertexAttribPointer",
	"glVertexAttribIPointer",
	"glEnableVertexAttribArray",
	"glDisableVertexAttribArray",
	"glVertexAttribDivisor",
	"glEnable",
	"glDisable",
	"glViewport",
	"glScissor",
	"glColorMask",
	"glDepthMask",
	"glStencilMask",
	"glStencilMaskSeparate",
	"glClearColor",
	"glClearDepthf",
	"glClearStencil",
	"glDepthFunc",
	"glBlendFunc",
	"glBlendFuncSeparate",
	"glBlendEquation",
	"glBlendEquationSeparate",
	"glBlendColor",
	"glCullFace",
	"glFrontFace",
	"glPolygonOffset",
	"glLineWidth",
	"glStencilFunc",
	"glStencilFuncSeparate",
	"glStencilOp",
	"glPixelStorei",
	"glHint",
	"glClear",
	"glClearBufferfv",
	"glClearBufferiv",
	"glClearBufferuiv",
	"glClearBufferfi",
	"glDrawArrays",
	"glDrawElements",
	"glDrawArraysInstanced",
	"glDrawElementsInstanced",
	"glDrawRangeElements",
	"glDrawArraysIndirect",
	"glDrawElementsIndirect",
	"glDispatchCompute",
	"glDispatchComputeIndirect",
	"glMemoryBarrier",
	"glFlush",
	"glFinish",
	"glFenceSync",
	"glDeleteSync",
	"glClientWaitSync",
	"glWaitSync",
	"glObjectLabel",
	"glPushDebugGroup",
	"glPopDebugGroup",
	"glGetString",
	"glGetError",
	"glGetIntegerv",
}

var funcsByName = func() map[string]Func {
	m := make(map[string]Func, len(funcNames))
	for f, n := range funcNames {
		if n != "" {
			m[n] = Func(f)
		}
	}
	return m
}()

// LookupFunc returns the Func for an API name, or FuncUnknown.
func LookupFunc(name string) Func {
	return funcsByName[name]
}

// Name returns the API name of f.
func (f Func) Name() string {
	if f >= NumFuncs {
		return ""
	}
	return funcNames[f]
}

func (f Func) String() string {
	if n := f.Name(); n != "" {
		return n
	}
	return "unknown"
}

// EGL reports whether f belongs to the windowing binding. Windowing
// calls are interpreted even when the thread has no current context.
func (f Func) EGL() bool {
	return f >= EglGetDisplay && f <= EglDestroyImageKHR
}
