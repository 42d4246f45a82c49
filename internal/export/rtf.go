package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/etherxppt/deckd/internal/deck"
)

func exportRTF(slides []deck.Slide, basename string, opts Options) ([]string, error) {
	var b strings.Builder
	b.WriteString(`{\rtf1\ansi\deff0 {\fonttbl {\f0 Times New Roman;}}`)
	for i, s := range slides {
		title := s.Title
		if title == "" {
			title = "Untitled"
		}
		fmt.Fprintf(&b, `\par\b Slide %d: %s\b0\par`, i+1, escapeRTF(title))
		b.WriteString(escapeRTF(s.Content))
		b.WriteString(`\par\par`)
		if opts.Progress != nil {
			opts.Progress(i+1, len(slides))
		}
	}
	b.WriteString("}")

	path := filepath.Join(opts.Dir, basename+".rtf")
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return nil, fmt.Errorf("writing %s: %w", path, err)
	}
	return []string{path}, nil
}

// escapeRTF escapes RTF control characters and maps newlines to \par. Text
// outside ASCII is emitted as \uN? escapes so the file stays 7-bit clean.
func escapeRTF(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r == '\\' || r == '{' || r == '}':
			b.WriteByte('\\')
			b.WriteRune(r)
		case r == '\n':
			b.WriteString(`\par `)
		case r == '\r':
		case r > 127:
			fmt.Fprintf(&b, `\u%d?`, r)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
