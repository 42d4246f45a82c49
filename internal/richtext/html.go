package richtext

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// Serialize renders the document to the HTML-like syntax stored in element
// content fields. Consecutive list items are wrapped in a shared ul/ol.
func Serialize(d *Document) string {
	var sb strings.Builder
	var openList BlockKind
	closeList := func() {
		switch openList {
		case BulletItem:
			sb.WriteString("</ul>")
		case OrderedItem:
			sb.WriteString("</ol>")
		}
		openList = ""
	}

	for _, b := range d.Blocks {
		if b.Kind != openList {
			closeList()
			switch b.Kind {
			case BulletItem:
				sb.WriteString("<ul>")
				openList = BulletItem
			case OrderedItem:
				sb.WriteString("<ol>")
				openList = OrderedItem
			}
		}
		tag := "p"
		if b.Kind == BulletItem || b.Kind == OrderedItem {
			tag = "li"
		}
		sb.WriteByte('<')
		sb.WriteString(tag)
		if b.Align != "" && b.Align != AlignLeft {
			fmt.Fprintf(&sb, " align=%q", b.Align)
		}
		if b.Indent > 0 {
			fmt.Fprintf(&sb, " data-indent=%q", strconv.Itoa(b.Indent))
		}
		sb.WriteByte('>')
		for _, run := range b.Runs {
			writeRun(&sb, run)
		}
		sb.WriteString("</" + tag + ">")
	}
	closeList()
	return sb.String()
}

func writeRun(sb *strings.Builder, run Run) {
	if run.Style.Bold {
		sb.WriteString("<b>")
	}
	if run.Style.Italic {
		sb.WriteString("<i>")
	}
	if run.Style.Underline {
		sb.WriteString("<u>")
	}
	sb.WriteString(html.EscapeString(run.Text))
	if run.Style.Underline {
		sb.WriteString("</u>")
	}
	if run.Style.Italic {
		sb.WriteString("</i>")
	}
	if run.Style.Bold {
		sb.WriteString("</b>")
	}
}

// Parse reads the HTML-like syntax back into a document. Unknown tags are
// transparent; their text content is kept. Markup that fails to parse
// degrades to a single plain paragraph of the raw input.
func Parse(markup string) *Document {
	root, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return FromText(markup)
	}
	p := &parser{}
	p.walk(root, Style{}, "")
	p.flush()
	if len(p.doc.Blocks) == 0 {
		p.doc.Blocks = []Block{{Kind: Paragraph}}
	}
	return &p.doc
}

type parser struct {
	doc     Document
	current *Block
}

func (p *parser) flush() {
	if p.current != nil {
		p.doc.Blocks = append(p.doc.Blocks, *p.current)
		p.current = nil
	}
}

func (p *parser) begin(kind BlockKind, n *html.Node) {
	p.flush()
	b := Block{Kind: kind}
	for _, attr := range n.Attr {
		switch attr.Key {
		case "align":
			b.Align = Alignment(attr.Val)
		case "data-indent":
			if v, err := strconv.Atoi(attr.Val); err == nil && v > 0 {
				b.Indent = min(v, maxIndent)
			}
		case "style":
			if a := alignFromStyle(attr.Val); a != "" {
				b.Align = a
			}
		}
	}
	p.current = &b
}

func alignFromStyle(style string) Alignment {
	for _, decl := range strings.Split(style, ";") {
		k, v, ok := strings.Cut(decl, ":")
		if ok && strings.TrimSpace(k) == "text-align" {
			return Alignment(strings.TrimSpace(v))
		}
	}
	return ""
}

func (p *parser) appendText(text string, style Style) {
	if text == "" {
		return
	}
	if p.current == nil {
		p.current = &Block{Kind: Paragraph}
	}
	runs := p.current.Runs
	if len(runs) > 0 && runs[len(runs)-1].Style == style {
		runs[len(runs)-1].Text += text
		p.current.Runs = runs
		return
	}
	p.current.Runs = append(runs, Run{Text: text, Style: style})
}

// walk descends the node tree carrying the inherited character style and the
// list kind of the nearest ul/ol ancestor.
func (p *parser) walk(n *html.Node, style Style, list BlockKind) {
	switch n.Type {
	case html.TextNode:
		text := strings.ReplaceAll(n.Data, "\n", " ")
		if strings.TrimSpace(text) != "" {
			p.appendText(text, style)
		}
		return
	case html.ElementNode:
		switch n.Data {
		case "b", "strong":
			style.Bold = true
		case "i", "em":
			style.Italic = true
		case "u":
			style.Underline = true
		case "ul":
			list = BulletItem
		case "ol":
			list = OrderedItem
		case "p", "div":
			p.begin(Paragraph, n)
		case "li":
			kind := list
			if kind == "" {
				kind = BulletItem
			}
			p.begin(kind, n)
		case "br":
			p.flush()
			p.current = &Block{Kind: Paragraph}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		p.walk(c, style, list)
	}
	if n.Type == html.ElementNode {
		switch n.Data {
		case "p", "div", "li":
			p.flush()
		}
	}
}

// PlainText strips all markup, returning the text content with blocks
// joined by newlines. Non-markup input passes through unchanged.
func PlainText(markup string) string {
	if !strings.Contains(markup, "<") {
		return markup
	}
	return Parse(markup).Text()
}
