package richtext

import "testing"

func TestFromTextSplitsParagraphs(t *testing.T) {
	d := FromText("one\ntwo\nthree")
	if len(d.Blocks) != 3 {
		t.Fatalf("got %d blocks, want 3", len(d.Blocks))
	}
	if d.Text() != "one\ntwo\nthree" {
		t.Errorf("round trip = %q", d.Text())
	}
}

func TestApplyBoldSplitsRuns(t *testing.T) {
	d := FromText("hello world")
	d.ApplyBold(Range{Start: 6, End: 11})

	runs := d.Blocks[0].Runs
	if len(runs) != 2 {
		t.Fatalf("got %d runs, want 2: %+v", len(runs), runs)
	}
	if runs[0].Text != "hello " || runs[0].Style.Bold {
		t.Errorf("run 0 = %+v", runs[0])
	}
	if runs[1].Text != "world" || !runs[1].Style.Bold {
		t.Errorf("run 1 = %+v", runs[1])
	}
}

func TestApplyBoldTogglesOff(t *testing.T) {
	d := FromText("hello")
	d.ApplyBold(Range{Start: 0, End: 5})
	d.ApplyBold(Range{Start: 0, End: 5})

	if d.Blocks[0].Runs[0].Style.Bold {
		t.Error("double apply did not unbold")
	}
	if len(d.Blocks[0].Runs) != 1 {
		t.Errorf("runs not merged back: %+v", d.Blocks[0].Runs)
	}
}

func TestMixedRangeBecomesBold(t *testing.T) {
	d := FromText("abcdef")
	d.ApplyBold(Range{Start: 0, End: 3})
	// Range covers bold and plain text: the whole range becomes bold.
	d.ApplyBold(Range{Start: 0, End: 6})
	if len(d.Blocks[0].Runs) != 1 || !d.Blocks[0].Runs[0].Style.Bold {
		t.Errorf("runs = %+v, want one bold run", d.Blocks[0].Runs)
	}
}

func TestStylesStack(t *testing.T) {
	d := FromText("text")
	d.ApplyBold(Range{Start: 0, End: 4})
	d.ApplyItalic(Range{Start: 0, End: 4})
	d.ApplyUnderline(Range{Start: 2, End: 4})

	runs := d.Blocks[0].Runs
	if len(runs) != 2 {
		t.Fatalf("got %d runs, want 2", len(runs))
	}
	if !runs[0].Style.Bold || !runs[0].Style.Italic || runs[0].Style.Underline {
		t.Errorf("run 0 style = %+v", runs[0].Style)
	}
	if !runs[1].Style.Underline {
		t.Errorf("run 1 style = %+v", runs[1].Style)
	}
}

func TestRangeAcrossBlocks(t *testing.T) {
	d := FromText("abc\ndef")
	d.ApplyBold(Range{Start: 2, End: 5})

	if d.Blocks[0].Runs[1].Text != "c" || !d.Blocks[0].Runs[1].Style.Bold {
		t.Errorf("block 0 runs = %+v", d.Blocks[0].Runs)
	}
	if d.Blocks[1].Runs[0].Text != "d" || !d.Blocks[1].Runs[0].Style.Bold {
		t.Errorf("block 1 runs = %+v", d.Blocks[1].Runs)
	}
}

func TestToggleList(t *testing.T) {
	d := FromText("a\nb\nc")
	d.ToggleList(Range{Start: 0, End: 3}, BulletItem)
	if d.Blocks[0].Kind != BulletItem || d.Blocks[1].Kind != BulletItem {
		t.Errorf("blocks not converted: %v %v", d.Blocks[0].Kind, d.Blocks[1].Kind)
	}
	if d.Blocks[2].Kind != Paragraph {
		t.Errorf("block outside range converted: %v", d.Blocks[2].Kind)
	}

	// Changing kind retags; toggling the same kind reverts to paragraphs.
	d.ToggleList(Range{Start: 0, End: 3}, OrderedItem)
	if d.Blocks[0].Kind != OrderedItem {
		t.Errorf("kind = %v, want ordered", d.Blocks[0].Kind)
	}
	d.ToggleList(Range{Start: 0, End: 3}, OrderedItem)
	if d.Blocks[0].Kind != Paragraph {
		t.Errorf("kind = %v, want paragraph", d.Blocks[0].Kind)
	}
}

func TestIndentOutdentClamped(t *testing.T) {
	d := FromText("x")
	r := Range{Start: 0, End: 1}
	d.Outdent(r)
	if d.Blocks[0].Indent != 0 {
		t.Errorf("outdent below zero: %d", d.Blocks[0].Indent)
	}
	for i := 0; i < 20; i++ {
		d.Indent(r)
	}
	if d.Blocks[0].Indent != maxIndent {
		t.Errorf("indent = %d, want %d", d.Blocks[0].Indent, maxIndent)
	}
}

func TestSetAlignment(t *testing.T) {
	d := FromText("a\nb")
	d.SetAlignment(Range{Start: 0, End: 1}, AlignCenter)
	if d.Blocks[0].Align != AlignCenter {
		t.Errorf("align = %v, want center", d.Blocks[0].Align)
	}
}

func TestSerializeRoundTrip(t *testing.T) {
	d := FromText("hello world\nsecond")
	d.ApplyBold(Range{Start: 0, End: 5})
	d.ToggleList(Range{Start: 12, End: 18}, BulletItem)
	d.SetAlignment(Range{Start: 12, End: 18}, AlignRight)

	markup := Serialize(d)
	back := Parse(markup)

	if back.Text() != d.Text() {
		t.Errorf("text = %q, want %q", back.Text(), d.Text())
	}
	if !back.Blocks[0].Runs[0].Style.Bold {
		t.Error("bold lost in round trip")
	}
	if back.Blocks[1].Kind != BulletItem {
		t.Errorf("kind = %v, want bullet", back.Blocks[1].Kind)
	}
	if back.Blocks[1].Align != AlignRight {
		t.Errorf("align = %v, want right", back.Blocks[1].Align)
	}
}

func TestSerializeMarkupShape(t *testing.T) {
	d := FromText("item")
	d.ToggleList(Range{Start: 0, End: 4}, OrderedItem)
	got := Serialize(d)
	want := "<ol><li>item</li></ol>"
	if got != want {
		t.Errorf("markup = %q, want %q", got, want)
	}
}

func TestSerializeEscapesText(t *testing.T) {
	d := FromText("a < b & c")
	markup := Serialize(d)
	back := Parse(markup)
	if back.Text() != "a < b & c" {
		t.Errorf("text = %q", back.Text())
	}
}

func TestParseLegacyMarkup(t *testing.T) {
	d := Parse(`<p>plain <strong>bold</strong> and <em>italic</em></p><ul><li>one</li><li>two</li></ul>`)
	if len(d.Blocks) != 3 {
		t.Fatalf("got %d blocks, want 3: %+v", len(d.Blocks), d.Blocks)
	}
	runs := d.Blocks[0].Runs
	if len(runs) != 4 {
		t.Fatalf("got %d runs, want 4: %+v", len(runs), runs)
	}
	if !runs[1].Style.Bold {
		t.Errorf("strong not bold: %+v", runs[1])
	}
	if !runs[3].Style.Italic {
		t.Errorf("em not italic: %+v", runs[3])
	}
	if d.Blocks[1].Kind != BulletItem || d.Blocks[2].Kind != BulletItem {
		t.Errorf("list items: %v %v", d.Blocks[1].Kind, d.Blocks[2].Kind)
	}
}

func TestPlainTextPassthrough(t *testing.T) {
	if got := PlainText("no markup here"); got != "no markup here" {
		t.Errorf("got %q", got)
	}
	if got := PlainText("<p><b>x</b>y</p>"); got != "xy" {
		t.Errorf("got %q", got)
	}
}
