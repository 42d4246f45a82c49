package canvas

import (
	"testing"

	"github.com/etherxppt/deckd/internal/deck"
)

func setupController(t *testing.T) (*deck.Document, *Controller, int64) {
	t.Helper()
	d := deck.New(nil)
	el := d.InsertElement(deck.Element{
		Type: deck.ElementShape, ShapeType: "rectangle",
		X: 200, Y: 200, Width: 100, Height: 100,
	})
	return d, NewController(d, nil), el.ID
}

func elementByID(t *testing.T, d *deck.Document, id int64) deck.Element {
	t.Helper()
	for _, el := range d.CurrentSlide().Elements {
		if el.ID == id {
			return el
		}
	}
	t.Fatalf("element %d not found", id)
	return deck.Element{}
}

func TestDragGesture(t *testing.T) {
	d, c, id := setupController(t)

	// Pointer down at (220, 230), inside the element: offset (20, 30).
	if !c.BeginDrag(id, 220, 230) {
		t.Fatal("BeginDrag refused")
	}
	c.DragTo(240, 240)
	c.DragTo(270, 260)
	c.EndDrag()

	el := elementByID(t, d, id)
	if el.X != 250 || el.Y != 230 {
		t.Errorf("position = (%v, %v), want (250, 230)", el.X, el.Y)
	}
	if c.State() != Idle {
		t.Errorf("state = %v, want Idle", c.State())
	}
}

func TestDragClampsToOrigin(t *testing.T) {
	d, c, id := setupController(t)
	c.BeginDrag(id, 200, 200)
	c.DragTo(-500, -500)
	c.EndDrag()

	el := elementByID(t, d, id)
	if el.X != 0 || el.Y != 0 {
		t.Errorf("position = (%v, %v), want (0, 0)", el.X, el.Y)
	}
}

// A gesture of many move frames plus the pointer-up commit produces exactly
// one history entry.
func TestDragCoalescesHistory(t *testing.T) {
	d, c, id := setupController(t)
	before := d.History().Len()

	c.BeginDrag(id, 200, 200)
	for i := 0; i < 25; i++ {
		c.DragTo(float64(200+i*2), float64(200+i))
	}
	c.EndDrag()

	if got := d.History().Len(); got != before+1 {
		t.Errorf("history grew by %d, want 1", got-before)
	}
}

func TestBeginDragUnknownElement(t *testing.T) {
	_, c, _ := setupController(t)
	if c.BeginDrag(999999, 0, 0) {
		t.Error("BeginDrag succeeded for unknown element")
	}
	if c.State() != Idle {
		t.Errorf("state = %v, want Idle", c.State())
	}
}

func TestDragSurvivesElementVanishing(t *testing.T) {
	d, c, id := setupController(t)
	c.BeginDrag(id, 200, 200)
	d.RemoveElement(id)

	// Handlers must be no-ops once the element is gone.
	c.DragTo(300, 300)
	c.EndDrag()
	if c.State() != Idle {
		t.Errorf("state = %v, want Idle", c.State())
	}
}

func TestResizeEastHandle(t *testing.T) {
	d, c, id := setupController(t)
	c.BeginResize(id, HandleE)
	c.ResizeTo(380, 0)
	c.EndResize()

	el := elementByID(t, d, id)
	if el.Width != 180 {
		t.Errorf("width = %v, want 180", el.Width)
	}
	if el.X != 200 || el.Y != 200 || el.Height != 100 {
		t.Errorf("fixed edges moved: %+v", el)
	}
}

func TestResizeWestHandleMovesX(t *testing.T) {
	d, c, id := setupController(t)
	c.BeginResize(id, HandleW)
	c.ResizeTo(150, 0)
	c.EndResize()

	el := elementByID(t, d, id)
	if el.X != 150 || el.Width != 150 {
		t.Errorf("got x=%v width=%v, want x=150 width=150", el.X, el.Width)
	}
}

func TestResizeNorthWestCorner(t *testing.T) {
	d, c, id := setupController(t)
	c.BeginResize(id, HandleNW)
	c.ResizeTo(180, 170)
	c.EndResize()

	el := elementByID(t, d, id)
	if el.X != 180 || el.Y != 170 {
		t.Errorf("origin = (%v, %v), want (180, 170)", el.X, el.Y)
	}
	if el.Width != 120 || el.Height != 130 {
		t.Errorf("size = (%v, %v), want (120, 130)", el.Width, el.Height)
	}
}

// Resize floor: no handle may shrink an element below 20 units, and the
// opposite edge stays fixed while clamping.
func TestResizeFloorAllHandles(t *testing.T) {
	handles := []Handle{HandleN, HandleS, HandleE, HandleW, HandleNE, HandleNW, HandleSE, HandleSW}
	for _, h := range handles {
		d, c, id := setupController(t)
		c.BeginResize(id, h)
		// Drive the pointer deep past the opposite edge.
		c.ResizeTo(-1000, -1000)
		c.ResizeTo(5000, 5000)
		c.ResizeTo(210, 210)
		c.EndResize()

		el := elementByID(t, d, id)
		if el.Width < 20 || el.Height < 20 {
			t.Errorf("handle %s: size = (%v, %v), below floor", h, el.Width, el.Height)
		}
		if el.Width < 0 || el.Height < 0 {
			t.Errorf("handle %s: negative dimension", h)
		}
	}
}

func TestResizeWestClampHoldsRightEdge(t *testing.T) {
	d, c, id := setupController(t)
	c.BeginResize(id, HandleW)
	c.ResizeTo(5000, 0)
	c.EndResize()

	el := elementByID(t, d, id)
	if el.Width != 20 {
		t.Errorf("width = %v, want 20", el.Width)
	}
	if el.X+el.Width != 300 {
		t.Errorf("right edge moved: x=%v width=%v", el.X, el.Width)
	}
}

func TestGestureExclusivity(t *testing.T) {
	_, c, id := setupController(t)
	c.BeginDrag(id, 200, 200)
	if c.BeginResize(id, HandleE) {
		t.Error("BeginResize succeeded during a drag")
	}
	c.EndDrag()
	if !c.BeginResize(id, HandleE) {
		t.Error("BeginResize refused while idle")
	}
}
