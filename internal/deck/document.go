package deck

import (
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Document is the single source of truth for one open presentation: the
// ordered slide list, the active slide cursor, presentation metadata, and the
// undo/redo history. Methods are not safe for concurrent use; callers that
// share a Document across goroutines must serialize access.
type Document struct {
	Slides  []Slide `json:"slides"`
	Current int     `json:"currentSlideIndex"`
	Meta    Meta    `json:"presentationMeta"`

	hist      *History
	clipboard *Slide
	log       *zap.Logger
}

// New creates a document with a single starter slide and the initial history
// snapshot. A nil logger is replaced with a no-op.
func New(log *zap.Logger) *Document {
	if log == nil {
		log = zap.NewNop()
	}
	now := time.Now().UTC()
	d := &Document{
		Meta: Meta{
			Title:       "Untitled",
			CreatedAt:   now,
			UpdatedAt:   now,
			SlideSize:   "16:9",
			ThemePreset: "default",
		},
		hist: NewHistory(log),
		log:  log,
	}
	bg, text := ThemeFor(d.Meta.ThemePreset)
	d.Slides = []Slide{{
		ID:         NewID(),
		Title:      "Slide 1",
		Content:    "Click to add content",
		Background: bg,
		TextColor:  text,
		Layout:     "title-content",
		LayoutMeta: LayoutMeta{Type: "title-content"},
		Elements:   []Element{},
	}}
	d.hist.Push(d.Slides)
	return d
}

// Load rebuilds a document around an existing slide list and metadata, for
// example one read back from storage. History starts fresh at the loaded
// state.
func Load(slides []Slide, meta Meta, log *zap.Logger) *Document {
	if log == nil {
		log = zap.NewNop()
	}
	d := &Document{Slides: slides, Meta: meta, hist: NewHistory(log), log: log}
	if len(d.Slides) == 0 {
		bg, text := ThemeFor(meta.ThemePreset)
		d.Slides = []Slide{{
			ID:         NewID(),
			Title:      "Slide 1",
			Content:    "Click to add content",
			Background: bg,
			TextColor:  text,
			Layout:     "title-content",
			LayoutMeta: LayoutMeta{Type: "title-content"},
			Elements:   []Element{},
		}}
	}
	d.clampCurrent()
	d.hist.Push(d.Slides)
	return d
}

// History exposes the document's undo/redo stack.
func (d *Document) History() *History { return d.hist }

// CurrentSlide returns a pointer to the active slide.
func (d *Document) CurrentSlide() *Slide {
	d.clampCurrent()
	return &d.Slides[d.Current]
}

// SlideByIndex returns the slide at index, or nil when out of range.
func (d *Document) SlideByIndex(index int) *Slide {
	if index < 0 || index >= len(d.Slides) {
		return nil
	}
	return &d.Slides[index]
}

func (d *Document) clampCurrent() {
	if d.Current < 0 {
		d.Current = 0
	}
	if d.Current > len(d.Slides)-1 {
		d.Current = len(d.Slides) - 1
	}
}

func (d *Document) touch() {
	d.Meta.UpdatedAt = time.Now().UTC()
}

// AddSlide appends a new slide with theme-derived colors, makes it current,
// and pushes a history snapshot. It always succeeds.
func (d *Document) AddSlide(layout string) *Slide {
	bg, text := ThemeFor(d.Meta.ThemePreset)
	s := Slide{
		ID:         NewID(),
		Title:      fmt.Sprintf("Slide %d", len(d.Slides)+1),
		Content:    "Click to add content",
		Background: bg,
		TextColor:  text,
		Layout:     layout,
		LayoutMeta: LayoutMeta{Type: layout},
		Elements:   []Element{},
	}
	d.Slides = append(d.Slides, s)
	d.Current = len(d.Slides) - 1
	d.touch()
	d.hist.Push(d.Slides)
	return &d.Slides[d.Current]
}

// SlidePatch is a partial update to a slide. Nil fields are left untouched.
type SlidePatch struct {
	Title            *string      `json:"title,omitempty"`
	Content          *string      `json:"content,omitempty"`
	Background       *string      `json:"background,omitempty"`
	TextColor        *string      `json:"textColor,omitempty"`
	ContentLeft      *string      `json:"contentLeft,omitempty"`
	ContentRight     *string      `json:"contentRight,omitempty"`
	CompLeftTitle    *string      `json:"compLeftTitle,omitempty"`
	CompLeftContent  *string      `json:"compLeftContent,omitempty"`
	CompRightTitle   *string      `json:"compRightTitle,omitempty"`
	CompRightContent *string      `json:"compRightContent,omitempty"`
	ImageSrc         *string      `json:"imageSrc,omitempty"`
	Elements         *[]Element   `json:"elements,omitempty"`
	Animations       *[]Animation `json:"animations,omitempty"`
}

func (p SlidePatch) apply(s *Slide) {
	setStr := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	setStr(&s.Title, p.Title)
	setStr(&s.Content, p.Content)
	setStr(&s.Background, p.Background)
	setStr(&s.TextColor, p.TextColor)
	setStr(&s.ContentLeft, p.ContentLeft)
	setStr(&s.ContentRight, p.ContentRight)
	setStr(&s.CompLeftTitle, p.CompLeftTitle)
	setStr(&s.CompLeftContent, p.CompLeftContent)
	setStr(&s.CompRightTitle, p.CompRightTitle)
	setStr(&s.CompRightContent, p.CompRightContent)
	setStr(&s.ImageSrc, p.ImageSrc)
	if p.Elements != nil {
		s.Elements = *p.Elements
	}
	if p.Animations != nil {
		s.Animations = *p.Animations
	}
}

// UpdateSlide merges patch into the slide at index. With skipHistory set the
// mutation is applied without a history push; drag and resize use this to
// coalesce intermediate frames, and the gesture's final call must push a
// normalizing snapshot. Out-of-range indexes are a silent no-op.
func (d *Document) UpdateSlide(index int, patch SlidePatch, skipHistory bool) {
	s := d.SlideByIndex(index)
	if s == nil {
		return
	}
	patch.apply(s)
	d.touch()
	if !skipHistory {
		d.hist.Push(d.Slides)
	}
}

// DeleteSlide removes the slide at index and re-clamps the cursor. Deleting
// the last remaining slide is refused.
func (d *Document) DeleteSlide(index int) {
	if len(d.Slides) <= 1 || index < 0 || index >= len(d.Slides) {
		return
	}
	d.Slides = append(d.Slides[:index], d.Slides[index+1:]...)
	d.clampCurrent()
	d.touch()
	d.hist.Push(d.Slides)
}

// DuplicateSlide deep-clones the slide at index, gives it a fresh id and a
// " Copy" title suffix, and inserts it immediately after the source.
func (d *Document) DuplicateSlide(index int) *Slide {
	src := d.SlideByIndex(index)
	if src == nil {
		return nil
	}
	cloned, err := cloneSlides([]Slide{*src})
	if err != nil {
		d.log.Warn("duplicate slide clone failed", zap.Error(err))
		return nil
	}
	dup := cloned[0]
	dup.ID = NewID()
	dup.Title = src.Title + " Copy"
	d.Slides = append(d.Slides, Slide{})
	copy(d.Slides[index+2:], d.Slides[index+1:])
	d.Slides[index+1] = dup
	d.touch()
	d.hist.Push(d.Slides)
	return &d.Slides[index+1]
}

// ResetSlide restores the slide's content placeholder and clears its
// elements.
func (d *Document) ResetSlide(index int) {
	s := d.SlideByIndex(index)
	if s == nil {
		return
	}
	s.Content = "Click to add content"
	s.Elements = []Element{}
	d.touch()
	d.hist.Push(d.Slides)
}

// ReorderSlides moves the slide at from to position to and makes it current.
// Equal indexes are a no-op.
func (d *Document) ReorderSlides(from, to int) {
	if from == to || from < 0 || from >= len(d.Slides) || to < 0 || to >= len(d.Slides) {
		return
	}
	moved := d.Slides[from]
	rest := append(d.Slides[:from:from], d.Slides[from+1:]...)
	d.Slides = append(rest[:to:to], append([]Slide{moved}, rest[to:]...)...)
	d.Current = to
	d.touch()
	d.hist.Push(d.Slides)
}

// Copy stores a deep clone of the current slide on the clipboard.
func (d *Document) Copy() {
	cloned, err := cloneSlides([]Slide{*d.CurrentSlide()})
	if err != nil {
		d.log.Warn("clipboard copy failed", zap.Error(err))
		return
	}
	d.clipboard = &cloned[0]
}

// Paste appends a clone of the clipboard slide with a fresh id. No-op when
// the clipboard is empty.
func (d *Document) Paste() *Slide {
	if d.clipboard == nil {
		return nil
	}
	cloned, err := cloneSlides([]Slide{*d.clipboard})
	if err != nil {
		d.log.Warn("clipboard paste failed", zap.Error(err))
		return nil
	}
	s := cloned[0]
	s.ID = NewID()
	d.Slides = append(d.Slides, s)
	d.touch()
	d.hist.Push(d.Slides)
	return &d.Slides[len(d.Slides)-1]
}

// Undo restores the previous history snapshot. The cursor is clamped against
// the restored slide count so it can never reference a removed slide.
func (d *Document) Undo() bool {
	restored, ok := d.hist.Undo()
	if !ok {
		return false
	}
	d.Slides = restored
	d.clampCurrent()
	return true
}

// Redo restores the next history snapshot, clamping the cursor the same way
// as Undo.
func (d *Document) Redo() bool {
	restored, ok := d.hist.Redo()
	if !ok {
		return false
	}
	d.Slides = restored
	d.clampCurrent()
	return true
}
