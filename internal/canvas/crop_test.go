package canvas

import (
	"image"
	"image/color"
	"strings"
	"testing"

	"github.com/etherxppt/deckd/internal/deck"
	"github.com/etherxppt/deckd/internal/render"
)

func testImageDataURL(t *testing.T, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), A: 255})
		}
	}
	src, err := render.EncodeDataURL(img)
	if err != nil {
		t.Fatalf("EncodeDataURL: %v", err)
	}
	return src
}

func setupImage(t *testing.T) (*deck.Document, *Controller, int64) {
	t.Helper()
	d := deck.New(nil)
	el := d.InsertElement(deck.Element{
		Type: deck.ElementImage,
		Src:  testImageDataURL(t, 80, 60),
		X:    100, Y: 100, Width: 200, Height: 150,
	})
	return d, NewController(d, nil), el.ID
}

func approx(a, b float64) bool {
	d := a - b
	return d < 1e-9 && d > -1e-9
}

func TestBeginCropInitializesInsetRect(t *testing.T) {
	_, c, id := setupImage(t)
	if !c.BeginCrop(id) {
		t.Fatal("BeginCrop refused")
	}
	r := c.CropRect()
	if !approx(r.X, 20) || !approx(r.Y, 15) {
		t.Errorf("crop origin = (%v, %v), want (20, 15)", r.X, r.Y)
	}
	if !approx(r.Width, 160) || !approx(r.Height, 120) {
		t.Errorf("crop size = (%v, %v), want (160, 120)", r.Width, r.Height)
	}
}

func TestBeginCropRefusesNonImage(t *testing.T) {
	d := deck.New(nil)
	el := d.InsertElement(deck.Element{Type: deck.ElementShape, Width: 100, Height: 100})
	c := NewController(d, nil)
	if c.BeginCrop(el.ID) {
		t.Error("BeginCrop accepted a shape element")
	}
}

func TestSetCropRectClampsToBounds(t *testing.T) {
	_, c, id := setupImage(t)
	c.BeginCrop(id)

	c.SetCropRect(Rect{X: -50, Y: -50, Width: 9999, Height: 9999})
	r := c.CropRect()
	if r.X != 0 || r.Y != 0 || r.Width != 200 || r.Height != 150 {
		t.Errorf("crop = %+v, want full element bounds", r)
	}

	c.SetCropRect(Rect{X: 10, Y: 10, Width: 5, Height: 5})
	r = c.CropRect()
	if r.Width != MinDimension || r.Height != MinDimension {
		t.Errorf("crop size = (%v, %v), want floor %d", r.Width, r.Height, MinDimension)
	}
}

func TestApplyCropReplacesSource(t *testing.T) {
	d, c, id := setupImage(t)
	before := elementByID(t, d, id)
	c.BeginCrop(id)
	c.SetCropRect(Rect{X: 50, Y: 50, Width: 100, Height: 50})

	if !c.ApplyCrop() {
		t.Fatal("ApplyCrop failed")
	}
	el := elementByID(t, d, id)
	if el.Src == before.Src {
		t.Error("source not replaced")
	}
	if !strings.HasPrefix(el.Src, "data:image/png;base64,") {
		t.Errorf("src is not a png data url: %.40s", el.Src)
	}
	if el.Width != 100 || el.Height != 50 {
		t.Errorf("size = (%v, %v), want (100, 50)", el.Width, el.Height)
	}
	if el.X != 150 || el.Y != 150 {
		t.Errorf("position = (%v, %v), want (150, 150)", el.X, el.Y)
	}

	// The new bitmap matches the fractional sub-rectangle of the 80x60
	// source: half the width, a third of the height.
	img, err := render.DecodeDataURL(el.Src)
	if err != nil {
		t.Fatalf("DecodeDataURL: %v", err)
	}
	if img.Bounds().Dx() != 40 || img.Bounds().Dy() != 20 {
		t.Errorf("bitmap = %dx%d, want 40x20", img.Bounds().Dx(), img.Bounds().Dy())
	}
}

func TestCancelCropLeavesElementUntouched(t *testing.T) {
	d, c, id := setupImage(t)
	before := elementByID(t, d, id)
	histBefore := d.History().Len()

	c.BeginCrop(id)
	c.SetCropRect(Rect{X: 0, Y: 0, Width: 50, Height: 50})
	c.CancelCrop()

	after := elementByID(t, d, id)
	if after.Src != before.Src || after.Width != before.Width {
		t.Error("cancel mutated the element")
	}
	if d.History().Len() != histBefore {
		t.Error("cancel pushed history")
	}
	if c.State() != Idle {
		t.Errorf("state = %v, want Idle", c.State())
	}
}

func TestApplyCropBadSourceCancelsCleanly(t *testing.T) {
	d := deck.New(nil)
	el := d.InsertElement(deck.Element{Type: deck.ElementImage, Src: "not-a-data-url", Width: 100, Height: 100})
	c := NewController(d, nil)
	c.BeginCrop(el.ID)
	if c.ApplyCrop() {
		t.Error("ApplyCrop succeeded on an undecodable source")
	}
	if c.State() != Idle {
		t.Errorf("state = %v, want Idle", c.State())
	}
	got := elementByID(t, d, el.ID)
	if got.Src != "not-a-data-url" {
		t.Error("element mutated on failed crop")
	}
}
