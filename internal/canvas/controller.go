// Package canvas translates pointer gestures into element geometry updates.
// One controller drives at most one gesture at a time: drag, resize by
// handle, or image crop.
package canvas

import (
	"go.uber.org/zap"

	"github.com/etherxppt/deckd/internal/deck"
)

// MinDimension is the floor for element width and height during resize,
// clamped per-handle rather than rejecting the gesture.
const MinDimension = 20

// Handle names one of the eight resize grips.
type Handle string

const (
	HandleN  Handle = "n"
	HandleS  Handle = "s"
	HandleE  Handle = "e"
	HandleW  Handle = "w"
	HandleNE Handle = "ne"
	HandleNW Handle = "nw"
	HandleSE Handle = "se"
	HandleSW Handle = "sw"
)

// State is the controller's gesture state.
type State int

const (
	Idle State = iota
	Dragging
	Resizing
	Cropping
)

// Rect is an axis-aligned rectangle in logical canvas units.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Controller runs the per-gesture state machine over a document's current
// slide. Intermediate frames are applied with history suppressed; the
// gesture end re-applies the final geometry with history on, so undo sees
// only gesture-start and gesture-end states.
type Controller struct {
	doc *deck.Document
	log *zap.Logger

	state     State
	elementID int64
	handle    Handle
	offsetX   float64
	offsetY   float64
	start     Rect
	crop      Rect
}

// NewController creates an idle controller over doc.
func NewController(doc *deck.Document, log *zap.Logger) *Controller {
	if log == nil {
		log = zap.NewNop()
	}
	return &Controller{doc: doc, log: log}
}

// State returns the current gesture state.
func (c *Controller) State() State { return c.state }

// element looks up the active element on the current slide. A nil return
// means the element vanished mid-gesture (for example a layout switch raced
// the pointer); every handler treats that as a no-op.
func (c *Controller) element() *deck.Element {
	s := c.doc.CurrentSlide()
	if s == nil {
		return nil
	}
	for i := range s.Elements {
		if s.Elements[i].ID == c.elementID {
			return &s.Elements[i]
		}
	}
	return nil
}

// BeginDrag starts a drag gesture at the given pointer position. Returns
// false if no such element exists or another gesture is active.
func (c *Controller) BeginDrag(elementID int64, pointerX, pointerY float64) bool {
	if c.state != Idle {
		return false
	}
	c.elementID = elementID
	el := c.element()
	if el == nil {
		c.elementID = 0
		return false
	}
	c.offsetX = pointerX - el.X
	c.offsetY = pointerY - el.Y
	c.state = Dragging
	return true
}

// DragTo moves the element under the pointer, clamped to non-negative
// coordinates, without pushing history.
func (c *Controller) DragTo(pointerX, pointerY float64) {
	if c.state != Dragging {
		return
	}
	if c.element() == nil {
		return
	}
	x := max(pointerX-c.offsetX, 0)
	y := max(pointerY-c.offsetY, 0)
	c.doc.PatchElement(c.elementID, deck.ElementPatch{X: &x, Y: &y}, true)
}

// EndDrag finishes the gesture, re-applying the final position with history
// enabled.
func (c *Controller) EndDrag() {
	if c.state != Dragging {
		return
	}
	c.state = Idle
	el := c.element()
	if el == nil {
		return
	}
	x, y := el.X, el.Y
	c.doc.PatchElement(c.elementID, deck.ElementPatch{X: &x, Y: &y}, false)
}

// BeginResize starts a resize gesture on the given handle, snapshotting the
// element's geometry. The snapshot decides which edges stay fixed.
func (c *Controller) BeginResize(elementID int64, handle Handle) bool {
	if c.state != Idle {
		return false
	}
	c.elementID = elementID
	el := c.element()
	if el == nil {
		c.elementID = 0
		return false
	}
	c.handle = handle
	c.start = Rect{X: el.X, Y: el.Y, Width: el.Width, Height: el.Height}
	c.state = Resizing
	return true
}

// resizeGeometry computes the element rectangle for a live pointer position
// against the gesture-start snapshot. Each handle recomputes its own edges
// and holds the opposite ones fixed; the minimum dimension is clamped per
// edge so the fixed edge never moves.
func resizeGeometry(start Rect, handle Handle, pointerX, pointerY float64) Rect {
	r := start
	right := start.X + start.Width
	bottom := start.Y + start.Height

	switch handle {
	case HandleE, HandleNE, HandleSE:
		r.Width = max(pointerX-start.X, MinDimension)
	case HandleW, HandleNW, HandleSW:
		x := min(pointerX, right-MinDimension)
		x = max(x, 0)
		r.X = x
		r.Width = right - x
	}

	switch handle {
	case HandleS, HandleSE, HandleSW:
		r.Height = max(pointerY-start.Y, MinDimension)
	case HandleN, HandleNE, HandleNW:
		y := min(pointerY, bottom-MinDimension)
		y = max(y, 0)
		r.Y = y
		r.Height = bottom - y
	}
	return r
}

// ResizeTo recomputes geometry for the live pointer position without pushing
// history.
func (c *Controller) ResizeTo(pointerX, pointerY float64) {
	if c.state != Resizing {
		return
	}
	if c.element() == nil {
		return
	}
	r := resizeGeometry(c.start, c.handle, pointerX, pointerY)
	c.doc.PatchElement(c.elementID, deck.ElementPatch{X: &r.X, Y: &r.Y, Width: &r.Width, Height: &r.Height}, true)
}

// EndResize finishes the gesture with a single history push.
func (c *Controller) EndResize() {
	if c.state != Resizing {
		return
	}
	c.state = Idle
	el := c.element()
	if el == nil {
		return
	}
	x, y, w, h := el.X, el.Y, el.Width, el.Height
	c.doc.PatchElement(c.elementID, deck.ElementPatch{X: &x, Y: &y, Width: &w, Height: &h}, false)
}
