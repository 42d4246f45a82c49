package deck

import (
	"encoding/json"
	"fmt"

	"go.uber.org/zap"
)

// History is a linear undo/redo stack over full snapshots of the slide list.
// Snapshots are deep clones; Undo/Redo only move the cursor and copy out,
// never mutating stored entries.
type History struct {
	entries [][]Slide
	index   int
	log     *zap.Logger
}

// NewHistory creates an empty history. A nil logger is replaced with a no-op.
func NewHistory(log *zap.Logger) *History {
	if log == nil {
		log = zap.NewNop()
	}
	return &History{index: -1, log: log}
}

// CloneSlides returns a deep copy of the slide list.
func CloneSlides(slides []Slide) ([]Slide, error) {
	return cloneSlides(slides)
}

// cloneSlides deep-clones a slide list through JSON, matching the snapshot
// semantics of the document format.
func cloneSlides(slides []Slide) ([]Slide, error) {
	data, err := json.Marshal(slides)
	if err != nil {
		return nil, fmt.Errorf("marshaling snapshot: %w", err)
	}
	var out []Slide
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("unmarshaling snapshot: %w", err)
	}
	return out, nil
}

// Push records a new snapshot, discarding any redo branch beyond the cursor.
// A snapshot that fails to clone is logged and dropped; the cursor does not
// advance and the live document is unaffected.
func (h *History) Push(slides []Slide) {
	snapshot, err := cloneSlides(slides)
	if err != nil {
		h.log.Warn("history snapshot failed", zap.Error(err))
		return
	}
	base := h.entries[:h.index+1]
	h.entries = append(base[:len(base):len(base)], snapshot)
	h.index = len(base)
}

// Undo moves the cursor back one entry and returns a copy of that snapshot.
// Returns false when already at the oldest entry.
func (h *History) Undo() ([]Slide, bool) {
	if h.index <= 0 {
		return nil, false
	}
	restored, err := cloneSlides(h.entries[h.index-1])
	if err != nil {
		h.log.Warn("history restore failed", zap.Error(err))
		return nil, false
	}
	h.index--
	return restored, true
}

// Redo moves the cursor forward one entry and returns a copy of that
// snapshot. Returns false when already at the newest entry.
func (h *History) Redo() ([]Slide, bool) {
	if h.index >= len(h.entries)-1 {
		return nil, false
	}
	restored, err := cloneSlides(h.entries[h.index+1])
	if err != nil {
		h.log.Warn("history restore failed", zap.Error(err))
		return nil, false
	}
	h.index++
	return restored, true
}

// Len returns the number of stored snapshots.
func (h *History) Len() int { return len(h.entries) }

// Index returns the cursor position, -1 when empty.
func (h *History) Index() int { return h.index }

// CanUndo reports whether Undo would succeed.
func (h *History) CanUndo() bool { return h.index > 0 }

// CanRedo reports whether Redo would succeed.
func (h *History) CanRedo() bool { return h.index < len(h.entries)-1 }
