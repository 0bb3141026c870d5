// SPDX-License-Identifier: Unlicense OR MIT

package state

import (
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"gltrace.org/internal/arena"
	"gltrace.org/internal/gl"
)

// LoadOp is the inferred treatment of attachment contents at the start
// of a render pass.
type LoadOp uint8

const (
	LoadOpLoad LoadOp = iota
	LoadOpClear
	LoadOpDontCare
)

// StoreOp is the inferred treatment of attachment contents at the end
// of a render pass.
type StoreOp uint8

const (
	// StoreOpUnresolved is the store op of an attachment of an open
	// pass that was not invalidated since its last write.
	StoreOpUnresolved StoreOp = iota
	StoreOpStore
	StoreOpDontCare
)

func (l LoadOp) String() string {
	switch l {
	case LoadOpLoad:
		return "load"
	case LoadOpClear:
		return "clear"
	case LoadOpDontCare:
		return "dontcare"
	}
	return "?"
}

func (s StoreOp) String() string {
	switch s {
	case StoreOpUnresolved:
		return "unresolved"
	case StoreOpStore:
		return "store"
	case StoreOpDontCare:
		return "dontcare"
	}
	return "?"
}

// PassAttachment is an attachment as used by a render pass.
type PassAttachment struct {
	Point  gl.Enum
	Kind   TargetKind
	Handle arena.Handle
	Index  int
	Load   LoadOp
	Store  StoreOp
}

// RenderPass is a maximal run of draws and dispatches into one
// framebuffer configuration.
type RenderPass struct {
	// Index is the position of the pass within its frame.
	Index  int
	Frame  uint64
	Active bool

	FirstCall uint64
	LastCall  uint64

	Framebuffer arena.Handle
	// FramebufferIndex is -1 for the default framebuffer.
	FramebufferIndex int
	Attachments      []PassAttachment

	// Index sets of the objects used by the pass.
	Renderbuffers map[int]struct{}
	Textures      map[int]struct{}
	Programs      map[int]struct{}

	Draws      int
	Dispatches int
	Vertices   uint64
	Primitives uint64
}

// Attachment returns the pass attachment at point.
func (p *RenderPass) Attachment(point gl.Enum) (PassAttachment, bool) {
	for _, a := range p.Attachments {
		if a.Point == point {
			return a, true
		}
	}
	return PassAttachment{}, false
}

// TextureIndices returns the sorted indices of the textures used.
func (p *RenderPass) TextureIndices() []int { return sortedSet(p.Textures) }

// RenderbufferIndices returns the sorted indices of the renderbuffers
// used.
func (p *RenderPass) RenderbufferIndices() []int { return sortedSet(p.Renderbuffers) }

// ProgramIndices returns the sorted indices of the programs used.
func (p *RenderPass) ProgramIndices() []int { return sortedSet(p.Programs) }

func sortedSet(s map[int]struct{}) []int {
	keys := maps.Keys(s)
	slices.Sort(keys)
	return keys
}

func loadOp(a *Attachment) LoadOp {
	switch {
	case a.cleared:
		return LoadOpClear
	case a.Invalidated:
		return LoadOpDontCare
	}
	return LoadOpLoad
}

// openPass starts a render pass into fb. Load ops are decided here and
// never revised.
func (c *Context) openPass(fb *Framebuffer, call, frame uint64) *RenderPass {
	if frame != c.passFrame {
		c.passFrame = frame
		c.passIndex = 0
	}
	p := &RenderPass{
		Index:            c.passIndex,
		Frame:            frame,
		Active:           true,
		FirstCall:        call,
		LastCall:         call,
		Framebuffer:      fb.Handle,
		FramebufferIndex: fb.Index,
		Renderbuffers:    make(map[int]struct{}),
		Textures:         make(map[int]struct{}),
		Programs:         make(map[int]struct{}),
	}
	c.passIndex++
	for _, point := range fb.sortedPoints() {
		a := fb.Attachments[point]
		p.Attachments = append(p.Attachments, PassAttachment{
			Point:  point,
			Kind:   a.Kind,
			Handle: a.Handle,
			Index:  a.Index,
			Load:   loadOp(a),
		})
		a.cleared = false
		switch a.Kind {
		case TargetTexture:
			p.Textures[a.Index] = struct{}{}
		case TargetRenderbuffer:
			p.Renderbuffers[a.Index] = struct{}{}
		}
	}
	c.pass = p
	c.Passes = append(c.Passes, p)
	c.counters(frame).Passes++
	return p
}

// closePass ends the open pass, if any. Store ops not decided by an
// invalidation become Store.
func (c *Context) closePass() {
	p := c.pass
	if p == nil {
		return
	}
	for i := range p.Attachments {
		if p.Attachments[i].Store == StoreOpUnresolved {
			p.Attachments[i].Store = StoreOpStore
		}
	}
	p.Active = false
	c.pass = nil
}

// passOn reports whether a pass into fb is open.
func (c *Context) passOn(fb *Framebuffer) bool {
	return c.pass != nil && c.pass.Framebuffer == fb.Handle
}

// passInvalidated records that the given points were invalidated while
// the pass into fb is open.
func (c *Context) passInvalidated(fb *Framebuffer, points []gl.Enum) {
	if !c.passOn(fb) {
		return
	}
	for i := range c.pass.Attachments {
		pa := &c.pass.Attachments[i]
		if slices.Contains(points, pa.Point) {
			pa.Store = StoreOpDontCare
		}
	}
}

// passWritten records a content write to the given points during the
// open pass into fb, revoking earlier DontCare store ops.
func (c *Context) passWritten(fb *Framebuffer, points []gl.Enum) {
	if !c.passOn(fb) {
		return
	}
	for i := range c.pass.Attachments {
		pa := &c.pass.Attachments[i]
		if pa.Store == StoreOpDontCare && slices.Contains(points, pa.Point) {
			pa.Store = StoreOpUnresolved
		}
	}
}

// RenderPasses returns the passes recorded for frame in order.
func (c *Context) RenderPasses(frame uint64) []*RenderPass {
	var passes []*RenderPass
	for _, p := range c.Passes {
		if p.Frame == frame {
			passes = append(passes, p)
		}
	}
	return passes
}

// OpenPass returns the active render pass, or nil.
func (c *Context) OpenPass() *RenderPass {
	return c.pass
}
