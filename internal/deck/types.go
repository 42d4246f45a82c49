package deck

import (
	"sync"
	"time"
)

// ElementType identifies the kind of freeform object placed on a slide.
type ElementType string

const (
	ElementTextbox  ElementType = "textbox"
	ElementImage    ElementType = "image"
	ElementShape    ElementType = "shape"
	ElementChart    ElementType = "chart"
	ElementTable    ElementType = "table"
	ElementIcon     ElementType = "icon"
	ElementEquation ElementType = "equation"
	ElementVideo    ElementType = "video"
	ElementAudio    ElementType = "audio"
)

// Element is a freeform positioned object layered on top of a slide's base
// layout. Geometry is in logical canvas units. Only the fields relevant to
// the element's Type are populated.
type Element struct {
	ID     int64       `json:"id"`
	Type   ElementType `json:"type"`
	X      float64     `json:"x"`
	Y      float64     `json:"y"`
	Width  float64     `json:"width"`
	Height float64     `json:"height"`

	Content     string            `json:"content,omitempty"`     // textbox, equation (serialized rich text)
	Src         string            `json:"src,omitempty"`         // image, video, audio
	ShapeType   string            `json:"shapeType,omitempty"`   // shape
	Fill        string            `json:"fill,omitempty"`        // shape
	Stroke      string            `json:"stroke,omitempty"`      // shape
	StrokeWidth float64           `json:"strokeWidth,omitempty"` // shape
	ChartType   string            `json:"chartType,omitempty"`   // chart
	Data        [][]string        `json:"data,omitempty"`        // table rows, chart rows
	IconName    string            `json:"iconName,omitempty"`    // icon
	Style       map[string]string `json:"style,omitempty"`
}

// Animation binds a named entrance/exit effect to an element on the slide.
type Animation struct {
	ElementID  int64  `json:"elementId"`
	Type       string `json:"type"`
	DurationMS int    `json:"durationMs,omitempty"`
}

// Region describes one area of a multi-region layout.
type Region struct {
	Type string `json:"type"`
}

// LayoutMeta mirrors the slide's layout tag plus layout-specific structure.
type LayoutMeta struct {
	Type    string   `json:"type"`
	Columns int      `json:"columns,omitempty"`
	Regions []Region `json:"regions,omitempty"`
}

// Slide is one page of the presentation. Exactly one layout's field set is
// semantically live at a time; switching layouts migrates content between
// field sets (see ApplyLayout).
type Slide struct {
	ID         int64      `json:"id"`
	Title      string     `json:"title"`
	Content    string     `json:"content"`
	Background string     `json:"background"`
	TextColor  string     `json:"textColor"`
	Layout     string     `json:"layout"`
	LayoutMeta LayoutMeta `json:"layoutMeta"`
	Elements   []Element  `json:"elements"`

	ContentLeft      string `json:"contentLeft,omitempty"`
	ContentRight     string `json:"contentRight,omitempty"`
	CompLeftTitle    string `json:"compLeftTitle,omitempty"`
	CompLeftContent  string `json:"compLeftContent,omitempty"`
	CompRightTitle   string `json:"compRightTitle,omitempty"`
	CompRightContent string `json:"compRightContent,omitempty"`
	ImageSrc         string `json:"imageSrc,omitempty"`

	Animations []Animation `json:"animations,omitempty"`
}

// HeaderFooter holds the per-variant header or footer text.
type HeaderFooter struct {
	Default string `json:"default"`
	First   string `json:"first"`
	Even    string `json:"even"`
	Odd     string `json:"odd"`
}

// Meta is presentation-level metadata.
type Meta struct {
	Title       string       `json:"title"`
	Author      string       `json:"author"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
	SlideSize   string       `json:"slideSize"`
	ThemePreset string       `json:"themePreset"`
	Header      HeaderFooter `json:"header"`
	Footer      HeaderFooter `json:"footer"`
}

// themeColors maps a theme preset to the background/text colors used for new
// slides. Unknown presets fall back to white on black.
var themeColors = map[string]struct{ BG, Text string }{
	"default": {BG: "#1B1A17", Text: "#F0A500"},
	"ocean":   {BG: "#0b132b", Text: "#e0e6f1"},
	"forest":  {BG: "#0f1f14", Text: "#e6f2ea"},
}

// ThemeFor returns the new-slide colors for a theme preset.
func ThemeFor(preset string) (bg, text string) {
	if c, ok := themeColors[preset]; ok {
		return c.BG, c.Text
	}
	return "#ffffff", "#000000"
}

var (
	idMu   sync.Mutex
	lastID int64
)

// NewID returns a unique id derived from the wall clock in milliseconds.
// Consecutive calls within the same millisecond are bumped so ids stay
// unique within a process.
func NewID() int64 {
	idMu.Lock()
	defer idMu.Unlock()
	id := time.Now().UnixMilli()
	if id <= lastID {
		id = lastID + 1
	}
	lastID = id
	return id
}
