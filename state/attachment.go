// SPDX-License-Identifier: Unlicense OR MIT

package state

import (
	"golang.org/x/exp/slices"

	"gltrace.org/internal/arena"
	"gltrace.org/internal/gl"
)

// TargetKind is the category of the object behind an attachment.
type TargetKind uint8

const (
	TargetNone TargetKind = iota
	TargetTexture
	TargetRenderbuffer
	// TargetSurface is a buffer of the draw surface, attached to the
	// default framebuffer.
	TargetSurface
)

// ClearKind identifies the aspect written by a clear.
type ClearKind uint8

const (
	ClearColor ClearKind = iota
	ClearDepth
	ClearStencil
)

// ClearRecord is the fill state in effect for one clear of one
// attachment.
type ClearRecord struct {
	Call  uint64
	Frame uint64
	Kind  ClearKind

	ScissorTest bool
	// Scissor is zero unless ScissorTest is set.
	Scissor [4]int32

	Color     [4]float64
	ColorMask [4]bool

	Depth     float64
	DepthFunc gl.Enum

	Stencil     int64
	StencilMask [2]uint32

	// Duplicate is set when an earlier clear in the history writes
	// the same values to the same region.
	Duplicate bool
}

// matches reports whether r writes what o wrote.
func (r *ClearRecord) matches(o *ClearRecord) bool {
	if r.Kind != o.Kind || r.ScissorTest != o.ScissorTest || r.Scissor != o.Scissor {
		return false
	}
	switch r.Kind {
	case ClearColor:
		if r.ColorMask != o.ColorMask {
			return false
		}
		for i, on := range r.ColorMask {
			if on && r.Color[i] != o.Color[i] {
				return false
			}
		}
		return true
	case ClearDepth:
		return r.DepthFunc == o.DepthFunc && r.Depth == o.Depth
	case ClearStencil:
		return r.Stencil == o.Stencil && r.StencilMask == o.StencilMask
	}
	return false
}

// Attachment is the image attached to one attachment point.
type Attachment struct {
	Point  gl.Enum
	Kind   TargetKind
	Handle arena.Handle
	// Index is the arena index of the target.
	Index     int
	Level     int32
	Layer     int32
	TexTarget gl.Enum

	// Clears is the history of clears since the attachment contents
	// last changed by other means, oldest first.
	Clears []ClearRecord
	// Invalidated is set by glInvalidateFramebuffer and friends and
	// reset by content writes, clears and reads.
	Invalidated bool

	// cleared is set by a clear and consumed by the next pass that
	// uses the attachment.
	cleared bool
}

func (a *Attachment) sameTarget(o *Attachment) bool {
	return a.Kind == o.Kind && a.Handle == o.Handle && a.Index == o.Index &&
		a.Level == o.Level && a.Layer == o.Layer && a.TexTarget == o.TexTarget
}

// recordClear appends r to the clear history, keeping at most limit
// records, and reports whether r duplicates an earlier clear.
func (a *Attachment) recordClear(r ClearRecord, limit int) bool {
	for i := range a.Clears {
		if r.matches(&a.Clears[i]) {
			r.Duplicate = true
			break
		}
	}
	a.Clears = append(a.Clears, r)
	if limit > 0 && len(a.Clears) > limit {
		a.Clears = slices.Delete(a.Clears, 0, len(a.Clears)-limit)
	}
	a.cleared = true
	a.Invalidated = false
	return r.Duplicate
}

// written records a content write other than a clear.
func (a *Attachment) written() {
	a.Clears = nil
	a.cleared = false
	a.Invalidated = false
}

func (a *Attachment) invalidate() {
	a.Clears = nil
	a.cleared = false
	a.Invalidated = true
}

// Framebuffer is a framebuffer object or the default framebuffer.
type Framebuffer struct {
	arena.Entry
	Attachments map[gl.Enum]*Attachment
	DrawBuffers []gl.Enum
	ReadBuffer  gl.Enum
	// Status is the last result of glCheckFramebufferStatus.
	Status gl.Enum
}

func (f *Framebuffer) init() {
	f.Attachments = make(map[gl.Enum]*Attachment)
	f.DrawBuffers = []gl.Enum{gl.COLOR_ATTACHMENT0}
	f.ReadBuffer = gl.COLOR_ATTACHMENT0
}

// newDefaultFramebuffer returns the framebuffer backed by the draw
// surface of a context.
func newDefaultFramebuffer() *Framebuffer {
	f := &Framebuffer{Entry: arena.Entry{Index: -1}}
	f.Attachments = make(map[gl.Enum]*Attachment)
	f.DrawBuffers = []gl.Enum{gl.BACK}
	f.ReadBuffer = gl.BACK
	return f
}

// Default reports whether f is the default framebuffer of its context.
func (f *Framebuffer) Default() bool {
	return f.Handle == 0
}

// Attachment returns the attachment at point, or nil.
func (f *Framebuffer) Attachment(point gl.Enum) *Attachment {
	return f.Attachments[point]
}

// AttachmentCount returns the number of attachment points with an
// attached image.
func (f *Framebuffer) AttachmentCount() int {
	return len(f.Attachments)
}

// attach replaces the attachment at point and reports whether the
// configuration changed. A TargetNone attachment detaches. The
// combined depth-stencil point updates both depth and stencil.
func (f *Framebuffer) attach(point gl.Enum, a Attachment) bool {
	if point == gl.DEPTH_STENCIL_ATTACHMENT {
		d := f.attach(gl.DEPTH_ATTACHMENT, a)
		s := f.attach(gl.STENCIL_ATTACHMENT, a)
		return d || s
	}
	old, ok := f.Attachments[point]
	if a.Kind == TargetNone {
		if !ok {
			return false
		}
		delete(f.Attachments, point)
		return true
	}
	if ok && old.sameTarget(&a) {
		return false
	}
	a.Point = point
	a.Clears = nil
	a.cleared = false
	a.Invalidated = false
	f.Attachments[point] = &a
	return true
}

// detach removes every attachment referring to the given target and
// reports whether any was removed.
func (f *Framebuffer) detach(kind TargetKind, h arena.Handle) bool {
	var changed bool
	for point, a := range f.Attachments {
		if a.Kind == kind && a.Handle == h {
			delete(f.Attachments, point)
			changed = true
		}
	}
	return changed
}

// bufferPoint maps a draw or read buffer name to an attachment point.
func (f *Framebuffer) bufferPoint(buf gl.Enum) (gl.Enum, bool) {
	switch {
	case gl.IsColorAttachment(buf):
		return buf, true
	case f.Default() && (buf == gl.BACK || buf == gl.FRONT || buf == gl.COLOR):
		return gl.COLOR_ATTACHMENT0, true
	}
	return 0, false
}

// colorPoints returns the attachment points written by color output,
// derived from the current draw buffers.
func (f *Framebuffer) colorPoints() []gl.Enum {
	var points []gl.Enum
	for _, buf := range f.DrawBuffers {
		if p, ok := f.bufferPoint(buf); ok && f.Attachments[p] != nil {
			points = append(points, p)
		}
	}
	return points
}

// drawBufferPoint returns the attachment point of draw buffer i.
func (f *Framebuffer) drawBufferPoint(i int) (gl.Enum, bool) {
	if i < 0 || i >= len(f.DrawBuffers) {
		return 0, false
	}
	return f.bufferPoint(f.DrawBuffers[i])
}

// readAttachment returns the attachment read by glReadPixels and blit
// sources, or nil.
func (f *Framebuffer) readAttachment() *Attachment {
	if p, ok := f.bufferPoint(f.ReadBuffer); ok {
		return f.Attachments[p]
	}
	return nil
}

// drawAttachments returns the attachments written by a draw in
// attachment point order.
func (f *Framebuffer) drawAttachments() []*Attachment {
	var atts []*Attachment
	for _, p := range f.colorPoints() {
		atts = append(atts, f.Attachments[p])
	}
	for _, p := range []gl.Enum{gl.DEPTH_ATTACHMENT, gl.STENCIL_ATTACHMENT} {
		if a := f.Attachments[p]; a != nil {
			atts = append(atts, a)
		}
	}
	return atts
}

// resolvePoints maps an attachment name passed to an invalidate call to
// attachment points. GL_COLOR fans out to every active draw buffer.
func (f *Framebuffer) resolvePoints(name gl.Enum) []gl.Enum {
	switch name {
	case gl.COLOR:
		if f.Default() {
			return []gl.Enum{gl.COLOR_ATTACHMENT0}
		}
		return f.colorPoints()
	case gl.DEPTH, gl.DEPTH_ATTACHMENT:
		return []gl.Enum{gl.DEPTH_ATTACHMENT}
	case gl.STENCIL, gl.STENCIL_ATTACHMENT:
		return []gl.Enum{gl.STENCIL_ATTACHMENT}
	case gl.DEPTH_STENCIL_ATTACHMENT:
		return []gl.Enum{gl.DEPTH_ATTACHMENT, gl.STENCIL_ATTACHMENT}
	}
	if gl.IsColorAttachment(name) {
		return []gl.Enum{name}
	}
	return nil
}

// invalidate marks the named attachments invalidated and returns the
// affected points.
func (f *Framebuffer) invalidate(names []gl.Enum) []gl.Enum {
	var points []gl.Enum
	for _, n := range names {
		for _, p := range f.resolvePoints(n) {
			if a := f.Attachments[p]; a != nil {
				a.invalidate()
				points = append(points, p)
			}
		}
	}
	return points
}

// sortedPoints returns the attachment points of f in ascending order.
func (f *Framebuffer) sortedPoints() []gl.Enum {
	points := make([]gl.Enum, 0, len(f.Attachments))
	for p := range f.Attachments {
		points = append(points, p)
	}
	slices.Sort(points)
	return points
}
