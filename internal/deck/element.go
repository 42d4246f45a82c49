package deck

import "go.uber.org/zap"

// findElement returns the index of the element with id on the slide, or -1.
func findElement(s *Slide, id int64) int {
	for i := range s.Elements {
		if s.Elements[i].ID == id {
			return i
		}
	}
	return -1
}

// InsertElement assigns the element a fresh id, appends it to the current
// slide, and pushes a history snapshot.
func (d *Document) InsertElement(el Element) *Element {
	s := d.CurrentSlide()
	el.ID = NewID()
	s.Elements = append(s.Elements, el)
	d.touch()
	d.hist.Push(d.Slides)
	return &s.Elements[len(s.Elements)-1]
}

// ElementPatch is a partial update to an element. Nil fields are untouched.
type ElementPatch struct {
	X           *float64    `json:"x,omitempty"`
	Y           *float64    `json:"y,omitempty"`
	Width       *float64    `json:"width,omitempty"`
	Height      *float64    `json:"height,omitempty"`
	Content     *string     `json:"content,omitempty"`
	Src         *string     `json:"src,omitempty"`
	ShapeType   *string     `json:"shapeType,omitempty"`
	Fill        *string     `json:"fill,omitempty"`
	Stroke      *string     `json:"stroke,omitempty"`
	StrokeWidth *float64    `json:"strokeWidth,omitempty"`
	ChartType   *string     `json:"chartType,omitempty"`
	Data        *[][]string `json:"data,omitempty"`
}

func (p ElementPatch) apply(el *Element) {
	if p.X != nil {
		el.X = *p.X
	}
	if p.Y != nil {
		el.Y = *p.Y
	}
	if p.Width != nil {
		el.Width = *p.Width
	}
	if p.Height != nil {
		el.Height = *p.Height
	}
	if p.Content != nil {
		el.Content = *p.Content
	}
	if p.Src != nil {
		el.Src = *p.Src
	}
	if p.ShapeType != nil {
		el.ShapeType = *p.ShapeType
	}
	if p.Fill != nil {
		el.Fill = *p.Fill
	}
	if p.Stroke != nil {
		el.Stroke = *p.Stroke
	}
	if p.StrokeWidth != nil {
		el.StrokeWidth = *p.StrokeWidth
	}
	if p.ChartType != nil {
		el.ChartType = *p.ChartType
	}
	if p.Data != nil {
		el.Data = *p.Data
	}
}

// PatchElement merges patch into the element with id on the current slide.
// Unknown ids are a silent no-op. skipHistory has the same coalescing
// semantics as UpdateSlide.
func (d *Document) PatchElement(id int64, patch ElementPatch, skipHistory bool) {
	s := d.CurrentSlide()
	i := findElement(s, id)
	if i < 0 {
		return
	}
	patch.apply(&s.Elements[i])
	d.touch()
	if !skipHistory {
		d.hist.Push(d.Slides)
	}
}

// RemoveElement deletes the element with id from the current slide.
func (d *Document) RemoveElement(id int64) {
	s := d.CurrentSlide()
	i := findElement(s, id)
	if i < 0 {
		return
	}
	s.Elements = append(s.Elements[:i], s.Elements[i+1:]...)
	d.touch()
	d.hist.Push(d.Slides)
}

// DuplicateElement clones the element with id, offset by (12, 12), without
// touching the source. Returns nil when the id is unknown.
func (d *Document) DuplicateElement(id int64) *Element {
	s := d.CurrentSlide()
	i := findElement(s, id)
	if i < 0 {
		return nil
	}
	cloned, err := cloneSlides([]Slide{{Elements: []Element{s.Elements[i]}}})
	if err != nil {
		d.log.Warn("duplicate element clone failed", zap.Error(err))
		return nil
	}
	dup := cloned[0].Elements[0]
	dup.ID = NewID()
	dup.X += 12
	dup.Y += 12
	s.Elements = append(s.Elements, dup)
	d.touch()
	d.hist.Push(d.Slides)
	return &s.Elements[len(s.Elements)-1]
}
