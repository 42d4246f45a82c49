package canvas

import (
	"go.uber.org/zap"

	"github.com/etherxppt/deckd/internal/deck"
	"github.com/etherxppt/deckd/internal/render"
)

// cropInset is the fraction of the image bounds the initial crop rectangle
// is inset by on each side.
const cropInset = 0.1

// BeginCrop starts a crop gesture on an image element. The crop rectangle is
// tracked in canvas units relative to the element's own origin, initialized
// to an inset of the image bounds. Non-image elements refuse the gesture.
func (c *Controller) BeginCrop(elementID int64) bool {
	if c.state != Idle {
		return false
	}
	c.elementID = elementID
	el := c.element()
	if el == nil || el.Type != deck.ElementImage {
		c.elementID = 0
		return false
	}
	c.crop = Rect{
		X:      el.Width * cropInset,
		Y:      el.Height * cropInset,
		Width:  el.Width * (1 - 2*cropInset),
		Height: el.Height * (1 - 2*cropInset),
	}
	c.state = Cropping
	return true
}

// CropRect returns the current crop sub-rectangle.
func (c *Controller) CropRect() Rect { return c.crop }

// SetCropRect replaces the crop rectangle, clamped inside the element
// bounds and floored at MinDimension.
func (c *Controller) SetCropRect(r Rect) {
	if c.state != Cropping {
		return
	}
	el := c.element()
	if el == nil {
		return
	}
	r.Width = max(r.Width, MinDimension)
	r.Height = max(r.Height, MinDimension)
	r.Width = min(r.Width, el.Width)
	r.Height = min(r.Height, el.Height)
	r.X = max(r.X, 0)
	r.Y = max(r.Y, 0)
	r.X = min(r.X, el.Width-r.Width)
	r.Y = min(r.Y, el.Height-r.Height)
	c.crop = r
}

// ApplyCrop rasterizes the crop sub-rectangle into a new bitmap, replacing
// the element's source and dimensions, and pushes one history entry. On
// rasterization failure the gesture is cancelled and the element is left
// untouched.
func (c *Controller) ApplyCrop() bool {
	if c.state != Cropping {
		return false
	}
	c.state = Idle
	el := c.element()
	if el == nil {
		return false
	}

	src, err := render.CropDataURL(el.Src, c.crop.X/el.Width, c.crop.Y/el.Height, c.crop.Width/el.Width, c.crop.Height/el.Height)
	if err != nil {
		c.log.Warn("crop rasterization failed", zap.Int64("element", el.ID), zap.Error(err))
		return false
	}
	w, h := c.crop.Width, c.crop.Height
	x := el.X + c.crop.X
	y := el.Y + c.crop.Y
	c.doc.PatchElement(c.elementID, deck.ElementPatch{Src: &src, X: &x, Y: &y, Width: &w, Height: &h}, false)
	return true
}

// CancelCrop discards the crop rectangle without mutating the element.
func (c *Controller) CancelCrop() {
	if c.state != Cropping {
		return
	}
	c.state = Idle
	c.crop = Rect{}
}
