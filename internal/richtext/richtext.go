// Package richtext models formatted text as an ordered run list with style
// spans, decoupled from any rendering surface. Formatting operations take
// explicit character ranges; HTML only appears at the serialization
// boundary (see html.go).
package richtext

// Style is the character-level formatting of a run.
type Style struct {
	Bold      bool `json:"bold,omitempty"`
	Italic    bool `json:"italic,omitempty"`
	Underline bool `json:"underline,omitempty"`
}

// Run is a maximal span of identically styled text.
type Run struct {
	Text  string `json:"text"`
	Style Style  `json:"style,omitempty"`
}

// BlockKind distinguishes paragraphs from list items.
type BlockKind string

const (
	Paragraph   BlockKind = "paragraph"
	BulletItem  BlockKind = "bullet"
	OrderedItem BlockKind = "ordered"
)

// Alignment is per-block horizontal alignment.
type Alignment string

const (
	AlignLeft    Alignment = "left"
	AlignCenter  Alignment = "center"
	AlignRight   Alignment = "right"
	AlignJustify Alignment = "justify"
)

// Block is one paragraph or list item.
type Block struct {
	Kind   BlockKind `json:"kind"`
	Align  Alignment `json:"align,omitempty"`
	Indent int       `json:"indent,omitempty"`
	Runs   []Run     `json:"runs"`
}

// Document is an ordered list of blocks.
type Document struct {
	Blocks []Block `json:"blocks"`
}

// Range addresses characters in the document's plain text, where blocks are
// joined by single newlines. End is exclusive.
type Range struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

const maxIndent = 8

// Text returns the block's plain text.
func (b Block) Text() string {
	var out []byte
	for _, r := range b.Runs {
		out = append(out, r.Text...)
	}
	return string(out)
}

// Text returns the document's plain text with blocks joined by newlines.
func (d *Document) Text() string {
	var out []byte
	for i, b := range d.Blocks {
		if i > 0 {
			out = append(out, '\n')
		}
		out = append(out, b.Text()...)
	}
	return string(out)
}

// FromText builds a document of plain paragraphs from newline-separated
// text.
func FromText(text string) *Document {
	d := &Document{}
	start := 0
	for i := 0; i <= len(text); i++ {
		if i == len(text) || text[i] == '\n' {
			b := Block{Kind: Paragraph}
			if i > start {
				b.Runs = []Run{{Text: text[start:i]}}
			}
			d.Blocks = append(d.Blocks, b)
			start = i + 1
		}
	}
	if len(d.Blocks) == 0 {
		d.Blocks = []Block{{Kind: Paragraph}}
	}
	return d
}

// blockSpan reports the plain-text offsets [start, end) covered by block i.
func (d *Document) blockSpan(i int) (int, int) {
	start := 0
	for j := 0; j < i; j++ {
		start += len(d.Blocks[j].Text()) + 1
	}
	return start, start + len(d.Blocks[i].Text())
}

func clampRange(d *Document, r Range) Range {
	n := len(d.Text())
	if r.Start < 0 {
		r.Start = 0
	}
	if r.End > n {
		r.End = n
	}
	if r.End < r.Start {
		r.End = r.Start
	}
	return r
}

// splitRuns splits a block's run list so that offset (relative to the block)
// falls on a run boundary.
func splitRuns(b *Block, offset int) {
	pos := 0
	for i := 0; i < len(b.Runs); i++ {
		n := len(b.Runs[i].Text)
		if offset > pos && offset < pos+n {
			head := Run{Text: b.Runs[i].Text[:offset-pos], Style: b.Runs[i].Style}
			tail := Run{Text: b.Runs[i].Text[offset-pos:], Style: b.Runs[i].Style}
			b.Runs = append(b.Runs[:i], append([]Run{head, tail}, b.Runs[i+1:]...)...)
			return
		}
		pos += n
	}
}

// eachRunInRange calls f for every run fully inside the document range,
// splitting runs at the range boundaries first.
func (d *Document) eachRunInRange(r Range, f func(run *Run)) {
	r = clampRange(d, r)
	for i := range d.Blocks {
		bStart, bEnd := d.blockSpan(i)
		if bEnd <= r.Start || bStart >= r.End {
			continue
		}
		lo := max(r.Start-bStart, 0)
		hi := min(r.End-bStart, bEnd-bStart)
		splitRuns(&d.Blocks[i], lo)
		splitRuns(&d.Blocks[i], hi)
		pos := 0
		for j := range d.Blocks[i].Runs {
			n := len(d.Blocks[i].Runs[j].Text)
			if pos >= lo && pos+n <= hi {
				f(&d.Blocks[i].Runs[j])
			}
			pos += n
		}
	}
	d.normalize()
}

// normalize merges adjacent runs with identical style and drops empty runs.
func (d *Document) normalize() {
	for i := range d.Blocks {
		var merged []Run
		for _, run := range d.Blocks[i].Runs {
			if run.Text == "" {
				continue
			}
			if len(merged) > 0 && merged[len(merged)-1].Style == run.Style {
				merged[len(merged)-1].Text += run.Text
				continue
			}
			merged = append(merged, run)
		}
		d.Blocks[i].Runs = merged
	}
}

// rangeHas reports whether every character in the range carries the style
// selected by get. An empty range reports false.
func (d *Document) rangeHas(r Range, get func(Style) bool) bool {
	r = clampRange(d, r)
	if r.Start == r.End {
		return false
	}
	all := true
	any := false
	d.eachRunInRange(r, func(run *Run) {
		any = true
		if !get(run.Style) {
			all = false
		}
	})
	return any && all
}

// ApplyBold toggles bold over the range: if the whole range is already bold
// it is unbolded, otherwise bolded.
func (d *Document) ApplyBold(r Range) {
	set := !d.rangeHas(r, func(s Style) bool { return s.Bold })
	d.eachRunInRange(r, func(run *Run) { run.Style.Bold = set })
}

// ApplyItalic toggles italic over the range.
func (d *Document) ApplyItalic(r Range) {
	set := !d.rangeHas(r, func(s Style) bool { return s.Italic })
	d.eachRunInRange(r, func(run *Run) { run.Style.Italic = set })
}

// ApplyUnderline toggles underline over the range.
func (d *Document) ApplyUnderline(r Range) {
	set := !d.rangeHas(r, func(s Style) bool { return s.Underline })
	d.eachRunInRange(r, func(run *Run) { run.Style.Underline = set })
}

// eachBlockInRange calls f on every block the range touches. A collapsed
// range touches the block containing its caret.
func (d *Document) eachBlockInRange(r Range, f func(b *Block)) {
	r = clampRange(d, r)
	for i := range d.Blocks {
		bStart, bEnd := d.blockSpan(i)
		if r.Start <= bEnd && r.End >= bStart {
			f(&d.Blocks[i])
		}
	}
}

// SetAlignment sets the horizontal alignment of every block in the range.
func (d *Document) SetAlignment(r Range, align Alignment) {
	d.eachBlockInRange(r, func(b *Block) { b.Align = align })
}

// Indent increases the indent level of every block in the range.
func (d *Document) Indent(r Range) {
	d.eachBlockInRange(r, func(b *Block) {
		if b.Indent < maxIndent {
			b.Indent++
		}
	})
}

// Outdent decreases the indent level of every block in the range.
func (d *Document) Outdent(r Range) {
	d.eachBlockInRange(r, func(b *Block) {
		if b.Indent > 0 {
			b.Indent--
		}
	})
}

// ToggleList converts the blocks in the range to list items of the given
// kind. If every touched block already is that kind, they revert to plain
// paragraphs. Changing the kind of an existing list retags the whole
// touched span, mirroring list-style changes applied to a list ancestor.
func (d *Document) ToggleList(r Range, kind BlockKind) {
	if kind != BulletItem && kind != OrderedItem {
		return
	}
	all := true
	d.eachBlockInRange(r, func(b *Block) {
		if b.Kind != kind {
			all = false
		}
	})
	target := kind
	if all {
		target = Paragraph
	}
	d.eachBlockInRange(r, func(b *Block) { b.Kind = target })
}
