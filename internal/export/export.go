// Package export turns a slide document into files on disk: real raster
// output for png/jpeg, real RTF text, canonical JSON, and JSON-wrapped
// placeholders for the binary office formats.
package export

import (
	"encoding/json"
	"fmt"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/etherxppt/deckd/internal/deck"
	"github.com/etherxppt/deckd/internal/render"
)

// Options controls where exported files land and how progress is reported.
type Options struct {
	Dir      string      // output directory, "." when empty
	Log      *zap.Logger // nil means no logging
	Progress func(done, total int)
}

// jpegQuality matches the 0.9 quality the slide rasterizer has always used.
const jpegQuality = 90

// Export writes slides to one or more files named after basename and
// returns the paths written. png and jpeg produce one image per slide;
// every other format produces a single file. Formats without a native
// serializer get a JSON-wrapped payload under the target extension, and an
// unknown format falls back to a plain JSON export.
func Export(slides []deck.Slide, format, basename string, opts Options) ([]string, error) {
	if opts.Dir == "" {
		opts.Dir = "."
	}
	if opts.Log == nil {
		opts.Log = zap.NewNop()
	}
	if basename == "" {
		basename = "presentation"
	}

	switch format {
	case "png":
		return exportImages(slides, basename, "png", opts)
	case "jpeg":
		return exportImages(slides, basename, "jpg", opts)
	case "rtf":
		return exportRTF(slides, basename, opts)
	case "json":
		return exportJSON(slides, basename, opts)
	case "pptx", "pdf", "odp", "docx", "mp4":
		opts.Log.Warn("format has no native serializer, writing JSON payload",
			zap.String("format", format))
		return exportWrapped(slides, format, basename, opts)
	default:
		opts.Log.Warn("unsupported export format, falling back to JSON",
			zap.String("format", format))
		return exportJSON(slides, basename, opts)
	}
}

func exportImages(slides []deck.Slide, basename, ext string, opts Options) ([]string, error) {
	paths := make([]string, 0, len(slides))
	for i, s := range slides {
		img := render.RenderSlide(s)
		path := filepath.Join(opts.Dir, fmt.Sprintf("%s_slide_%d.%s", basename, i+1, ext))
		f, err := os.Create(path)
		if err != nil {
			return paths, fmt.Errorf("creating %s: %w", path, err)
		}
		if ext == "png" {
			err = png.Encode(f, img)
		} else {
			err = jpeg.Encode(f, img, &jpeg.Options{Quality: jpegQuality})
		}
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return paths, fmt.Errorf("encoding %s: %w", path, err)
		}
		paths = append(paths, path)
		if opts.Progress != nil {
			opts.Progress(i+1, len(slides))
		}
	}
	return paths, nil
}

func exportJSON(slides []deck.Slide, basename string, opts Options) ([]string, error) {
	payload := struct {
		Slides     []deck.Slide `json:"slides"`
		ExportedAt time.Time    `json:"exportedAt"`
	}{Slides: slides, ExportedAt: time.Now().UTC()}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling presentation: %w", err)
	}
	path := filepath.Join(opts.Dir, basename+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return nil, fmt.Errorf("writing %s: %w", path, err)
	}
	if opts.Progress != nil {
		opts.Progress(len(slides), len(slides))
	}
	return []string{path}, nil
}

// exportWrapped writes the delegated-format payload: the raw slides tagged
// with the requested format, under that format's extension. mp4 additionally
// carries a naive duration of five seconds per slide.
func exportWrapped(slides []deck.Slide, format, basename string, opts Options) ([]string, error) {
	payload := map[string]any{
		"slides": slides,
		"format": format,
	}
	if format == "mp4" {
		payload["duration"] = len(slides) * 5
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshaling %s payload: %w", format, err)
	}
	path := filepath.Join(opts.Dir, basename+"."+format)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return nil, fmt.Errorf("writing %s: %w", path, err)
	}
	if opts.Progress != nil {
		opts.Progress(len(slides), len(slides))
	}
	return []string{path}, nil
}
