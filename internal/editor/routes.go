package editor

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/etherxppt/deckd/internal/canvas"
	"github.com/etherxppt/deckd/internal/deck"
)

// RegisterRoutes mounts the editing surface for open decks. Every mutation
// operates on the session's in-memory document; persistence is autosave's
// job.
func RegisterRoutes(r chi.Router, mgr *Manager) {
	r.Route("/api/decks/{id}/editor", func(r chi.Router) {
		r.Get("/", getDocumentHandler(mgr))
		r.Post("/slides", addSlideHandler(mgr))
		r.Patch("/slides/{index}", updateSlideHandler(mgr))
		r.Delete("/slides/{index}", deleteSlideHandler(mgr))
		r.Post("/slides/{index}/duplicate", duplicateSlideHandler(mgr))
		r.Post("/slides/{index}/reset", resetSlideHandler(mgr))
		r.Post("/slides/{index}/layout", applyLayoutHandler(mgr))
		r.Post("/slides/reorder", reorderHandler(mgr))
		r.Post("/undo", undoHandler(mgr))
		r.Post("/redo", redoHandler(mgr))
		r.Post("/elements", insertElementHandler(mgr))
		r.Patch("/elements/{elementID}", patchElementHandler(mgr))
		r.Delete("/elements/{elementID}", removeElementHandler(mgr))
		r.Post("/elements/{elementID}/duplicate", duplicateElementHandler(mgr))
		r.Post("/gesture", gestureHandler(mgr))
		r.Post("/save", saveHandler(mgr))
	})
}

// documentView is the wire shape of an open document.
type documentView struct {
	Slides  []deck.Slide `json:"slides"`
	Current int          `json:"currentSlideIndex"`
	Meta    deck.Meta    `json:"presentationMeta"`
	CanUndo bool         `json:"canUndo"`
	CanRedo bool         `json:"canRedo"`
}

func viewOf(doc *deck.Document) documentView {
	return documentView{
		Slides:  doc.Slides,
		Current: doc.Current,
		Meta:    doc.Meta,
		CanUndo: doc.History().CanUndo(),
		CanRedo: doc.History().CanRedo(),
	}
}

// withSession resolves the session for the request and runs f under its
// lock, replying with the updated document view.
func withSession(mgr *Manager, w http.ResponseWriter, r *http.Request, f func(doc *deck.Document, ctrl *canvas.Controller)) {
	id := chi.URLParam(r, "id")
	s, err := mgr.Open(r.Context(), id)
	if err != nil {
		http.Error(w, "deck not found", http.StatusNotFound)
		return
	}
	var view documentView
	s.With(func(doc *deck.Document, ctrl *canvas.Controller) {
		f(doc, ctrl)
		view = viewOf(doc)
	})
	writeJSON(w, http.StatusOK, view)
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return false
	}
	return true
}

func getDocumentHandler(mgr *Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		s, err := mgr.Open(r.Context(), id)
		if err != nil {
			http.Error(w, "deck not found", http.StatusNotFound)
			return
		}
		var view documentView
		s.View(func(doc *deck.Document) { view = viewOf(doc) })
		writeJSON(w, http.StatusOK, view)
	}
}

func addSlideHandler(mgr *Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Layout string `json:"layout"`
		}
		if !decodeBody(w, r, &req) {
			return
		}
		if req.Layout == "" {
			req.Layout = deck.LayoutBlank
		}
		withSession(mgr, w, r, func(doc *deck.Document, _ *canvas.Controller) {
			doc.AddSlide(req.Layout)
		})
	}
}

func updateSlideHandler(mgr *Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Patch       deck.SlidePatch `json:"patch"`
			SkipHistory bool            `json:"skipHistory"`
		}
		if !decodeBody(w, r, &req) {
			return
		}
		index, ok := indexParam(w, r)
		if !ok {
			return
		}
		withSession(mgr, w, r, func(doc *deck.Document, _ *canvas.Controller) {
			doc.UpdateSlide(index, req.Patch, req.SkipHistory)
		})
	}
}

func deleteSlideHandler(mgr *Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		index, ok := indexParam(w, r)
		if !ok {
			return
		}
		withSession(mgr, w, r, func(doc *deck.Document, _ *canvas.Controller) {
			doc.DeleteSlide(index)
		})
	}
}

func duplicateSlideHandler(mgr *Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		index, ok := indexParam(w, r)
		if !ok {
			return
		}
		withSession(mgr, w, r, func(doc *deck.Document, _ *canvas.Controller) {
			doc.DuplicateSlide(index)
		})
	}
}

func resetSlideHandler(mgr *Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		index, ok := indexParam(w, r)
		if !ok {
			return
		}
		withSession(mgr, w, r, func(doc *deck.Document, _ *canvas.Controller) {
			doc.ResetSlide(index)
		})
	}
}

func applyLayoutHandler(mgr *Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Layout string `json:"layout"`
		}
		if !decodeBody(w, r, &req) {
			return
		}
		if req.Layout == "" {
			http.Error(w, "layout is required", http.StatusBadRequest)
			return
		}
		index, ok := indexParam(w, r)
		if !ok {
			return
		}
		withSession(mgr, w, r, func(doc *deck.Document, _ *canvas.Controller) {
			doc.ApplyLayout(index, req.Layout)
		})
	}
}

func reorderHandler(mgr *Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			From int `json:"from"`
			To   int `json:"to"`
		}
		if !decodeBody(w, r, &req) {
			return
		}
		withSession(mgr, w, r, func(doc *deck.Document, _ *canvas.Controller) {
			doc.ReorderSlides(req.From, req.To)
		})
	}
}

func undoHandler(mgr *Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		withSession(mgr, w, r, func(doc *deck.Document, _ *canvas.Controller) {
			doc.Undo()
		})
	}
}

func redoHandler(mgr *Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		withSession(mgr, w, r, func(doc *deck.Document, _ *canvas.Controller) {
			doc.Redo()
		})
	}
}

func insertElementHandler(mgr *Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var el deck.Element
		if !decodeBody(w, r, &el) {
			return
		}
		if el.Type == "" {
			http.Error(w, "type is required", http.StatusBadRequest)
			return
		}
		withSession(mgr, w, r, func(doc *deck.Document, _ *canvas.Controller) {
			doc.InsertElement(el)
		})
	}
}

func patchElementHandler(mgr *Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Patch       deck.ElementPatch `json:"patch"`
			SkipHistory bool              `json:"skipHistory"`
		}
		if !decodeBody(w, r, &req) {
			return
		}
		elID, ok := elementParam(w, r)
		if !ok {
			return
		}
		withSession(mgr, w, r, func(doc *deck.Document, _ *canvas.Controller) {
			doc.PatchElement(elID, req.Patch, req.SkipHistory)
		})
	}
}

func removeElementHandler(mgr *Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		elID, ok := elementParam(w, r)
		if !ok {
			return
		}
		withSession(mgr, w, r, func(doc *deck.Document, _ *canvas.Controller) {
			doc.RemoveElement(elID)
		})
	}
}

func duplicateElementHandler(mgr *Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		elID, ok := elementParam(w, r)
		if !ok {
			return
		}
		withSession(mgr, w, r, func(doc *deck.Document, _ *canvas.Controller) {
			doc.DuplicateElement(elID)
		})
	}
}

// gestureRequest is one pointer event in a drag/resize/crop gesture.
type gestureRequest struct {
	Action    string        `json:"action"` // drag-start, drag-move, drag-end, resize-start, resize-move, resize-end, crop-start, crop-set, crop-apply, crop-cancel
	ElementID int64         `json:"elementId,omitempty"`
	Handle    canvas.Handle `json:"handle,omitempty"`
	X         float64       `json:"x,omitempty"`
	Y         float64       `json:"y,omitempty"`
	Rect      *canvas.Rect  `json:"rect,omitempty"`
}

func gestureHandler(mgr *Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req gestureRequest
		if !decodeBody(w, r, &req) {
			return
		}
		withSession(mgr, w, r, func(_ *deck.Document, ctrl *canvas.Controller) {
			switch req.Action {
			case "drag-start":
				ctrl.BeginDrag(req.ElementID, req.X, req.Y)
			case "drag-move":
				ctrl.DragTo(req.X, req.Y)
			case "drag-end":
				ctrl.EndDrag()
			case "resize-start":
				ctrl.BeginResize(req.ElementID, req.Handle)
			case "resize-move":
				ctrl.ResizeTo(req.X, req.Y)
			case "resize-end":
				ctrl.EndResize()
			case "crop-start":
				ctrl.BeginCrop(req.ElementID)
			case "crop-set":
				if req.Rect != nil {
					ctrl.SetCropRect(*req.Rect)
				}
			case "crop-apply":
				ctrl.ApplyCrop()
			case "crop-cancel":
				ctrl.CancelCrop()
			}
		})
	}
}

func saveHandler(mgr *Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		s, err := mgr.Open(r.Context(), id)
		if err != nil {
			http.Error(w, "deck not found", http.StatusNotFound)
			return
		}
		if err := mgr.flush(r.Context(), s); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func indexParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		http.Error(w, "invalid slide index", http.StatusBadRequest)
		return 0, false
	}
	return index, true
}

func elementParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "elementID"), 10, 64)
	if err != nil {
		http.Error(w, "invalid element id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
