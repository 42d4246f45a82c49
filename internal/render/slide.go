package render

import (
	"image"
	"strings"

	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"

	"github.com/etherxppt/deckd/internal/deck"
	"github.com/etherxppt/deckd/internal/richtext"
)

// Canvas dimensions for rasterized slides.
const (
	SlideWidth  = 1920
	SlideHeight = 1080
)

// geometryScale converts logical canvas units to raster pixels. The editor
// canvas is 960 logical units wide.
const geometryScale = SlideWidth / 960.0

// RenderSlide rasterizes one slide: background fill, title and content text,
// then the freeform element layer in order.
func RenderSlide(s deck.Slide) image.Image {
	dc := gg.NewContext(SlideWidth, SlideHeight)

	dc.SetHexColor(colorOr(s.Background, "#ffffff"))
	dc.Clear()

	dc.SetFontFace(basicfont.Face7x13)
	dc.SetHexColor(colorOr(s.TextColor, "#000000"))
	if s.Title != "" {
		drawScaled(dc, s.Title, 100, 150, 4)
	}
	body := s.Content
	if s.Layout == deck.LayoutTwoColumn || s.Layout == deck.LayoutComparison {
		body = twoColumnBody(s)
	}
	for i, line := range strings.Split(body, "\n") {
		drawScaled(dc, line, 100, 250+float64(i)*50, 2.5)
	}

	for _, el := range s.Elements {
		renderElement(dc, el, s)
	}
	return dc.Image()
}

func twoColumnBody(s deck.Slide) string {
	if s.Layout == deck.LayoutComparison {
		left := strings.TrimSpace(s.CompLeftTitle + "\n" + s.CompLeftContent)
		right := strings.TrimSpace(s.CompRightTitle + "\n" + s.CompRightContent)
		return left + "\n\n" + right
	}
	if s.ContentRight == "" {
		return s.ContentLeft
	}
	return s.ContentLeft + "\n\n" + s.ContentRight
}

// drawScaled draws text scaled up from the base bitmap face. The base face
// is tiny; scaling the context keeps placement simple.
func drawScaled(dc *gg.Context, text string, x, y, scale float64) {
	dc.Push()
	dc.ScaleAbout(scale, scale, x, y)
	dc.DrawString(text, x, y)
	dc.Pop()
}

func renderElement(dc *gg.Context, el deck.Element, s deck.Slide) {
	x := el.X * geometryScale
	y := el.Y * geometryScale
	w := el.Width * geometryScale
	h := el.Height * geometryScale

	switch el.Type {
	case deck.ElementShape:
		dc.SetHexColor(colorOr(el.Fill, "#cccccc"))
		if el.ShapeType == "circle" || el.ShapeType == "ellipse" {
			dc.DrawEllipse(x+w/2, y+h/2, w/2, h/2)
		} else {
			dc.DrawRectangle(x, y, w, h)
		}
		dc.FillPreserve()
		dc.SetHexColor(colorOr(el.Stroke, "#000000"))
		sw := el.StrokeWidth
		if sw <= 0 {
			sw = 1
		}
		dc.SetLineWidth(sw * geometryScale)
		dc.Stroke()
	case deck.ElementTextbox, deck.ElementEquation:
		dc.SetHexColor(colorOr(s.TextColor, "#000000"))
		for i, line := range strings.Split(richtext.PlainText(el.Content), "\n") {
			drawScaled(dc, line, x, y+20+float64(i)*40, 2)
		}
	case deck.ElementImage:
		img, err := DecodeDataURL(el.Src)
		if err != nil {
			// Unresolvable source: draw an outline placeholder.
			dc.SetHexColor("#999999")
			dc.SetLineWidth(2)
			dc.DrawRectangle(x, y, w, h)
			dc.Stroke()
			return
		}
		b := img.Bounds()
		dc.Push()
		dc.Translate(x, y)
		dc.Scale(w/float64(b.Dx()), h/float64(b.Dy()))
		dc.DrawImage(img, 0, 0)
		dc.Pop()
	case deck.ElementTable:
		renderTable(dc, el, s, x, y, w, h)
	}
}

func renderTable(dc *gg.Context, el deck.Element, s deck.Slide, x, y, w, h float64) {
	rows := len(el.Data)
	if rows == 0 {
		return
	}
	cols := len(el.Data[0])
	if cols == 0 {
		return
	}
	cw := w / float64(cols)
	rh := h / float64(rows)
	dc.SetHexColor(colorOr(s.TextColor, "#000000"))
	dc.SetLineWidth(1)
	for r, row := range el.Data {
		for c, cell := range row {
			cx := x + float64(c)*cw
			cy := y + float64(r)*rh
			dc.DrawRectangle(cx, cy, cw, rh)
			dc.Stroke()
			drawScaled(dc, cell, cx+6, cy+rh/2, 1.5)
		}
	}
}

func colorOr(c, fallback string) string {
	if strings.HasPrefix(c, "#") {
		return c
	}
	return fallback
}
