// Package editor hosts open-document editing sessions: one Document plus
// its history and gesture controller per deck, with periodic autosave back
// to the deck store.
package editor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/etherxppt/deckd/internal/canvas"
	"github.com/etherxppt/deckd/internal/deck"
	"github.com/etherxppt/deckd/internal/deckstore"
)

// Session is one open presentation. All document access goes through the
// session mutex; document methods themselves are not safe for concurrent
// use.
type Session struct {
	DeckID string

	mu    sync.Mutex
	doc   *deck.Document
	ctrl  *canvas.Controller
	dirty bool
}

// With runs f while holding the session lock and marks the document dirty
// for the next autosave pass.
func (s *Session) With(f func(doc *deck.Document, ctrl *canvas.Controller)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f(s.doc, s.ctrl)
	s.dirty = true
}

// View runs f while holding the session lock without marking the document
// dirty.
func (s *Session) View(f func(doc *deck.Document)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f(s.doc)
}

// Manager owns all open sessions and the autosave loop.
type Manager struct {
	store    *deckstore.Store
	log      *zap.Logger
	interval time.Duration

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewManager creates a session manager flushing dirty sessions to the store
// every interval. A non-positive interval disables autosave.
func NewManager(store *deckstore.Store, interval time.Duration, log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{
		store:    store,
		log:      log,
		interval: interval,
		sessions: make(map[string]*Session),
	}
}

// Open returns the session for a deck, loading the document from the store
// on first use.
func (m *Manager) Open(ctx context.Context, deckID string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[deckID]; ok {
		return s, nil
	}

	stored, err := m.store.GetDeck(ctx, deckID)
	if err != nil {
		return nil, fmt.Errorf("opening deck %s: %w", deckID, err)
	}
	doc := deck.Load(stored.Slides, stored.Meta, m.log)
	s := &Session{
		DeckID: deckID,
		doc:    doc,
		ctrl:   canvas.NewController(doc, m.log),
	}
	m.sessions[deckID] = s
	return s, nil
}

// Get returns an already-open session, or nil.
func (m *Manager) Get(deckID string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessions[deckID]
}

// Close flushes and drops a session.
func (m *Manager) Close(ctx context.Context, deckID string) error {
	m.mu.Lock()
	s, ok := m.sessions[deckID]
	delete(m.sessions, deckID)
	m.mu.Unlock()
	if !ok {
		return nil
	}
	return m.flush(ctx, s)
}

// flush writes the session's document to the store.
func (m *Manager) flush(ctx context.Context, s *Session) error {
	s.mu.Lock()
	slides, err := deck.CloneSlides(s.doc.Slides)
	meta := s.doc.Meta
	s.dirty = false
	s.mu.Unlock()
	if err != nil {
		return fmt.Errorf("snapshotting session %s: %w", s.DeckID, err)
	}
	return m.store.SaveDocument(ctx, s.DeckID, slides, meta)
}

// Run drives the autosave loop until ctx is cancelled. Save failures are
// logged and never block editing.
func (m *Manager) Run(ctx context.Context) {
	if m.interval <= 0 {
		return
	}
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			m.FlushAll(context.Background())
			return
		case <-ticker.C:
			m.FlushAll(ctx)
		}
	}
}

// FlushAll saves every dirty session.
func (m *Manager) FlushAll(ctx context.Context) {
	m.mu.Lock()
	open := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		open = append(open, s)
	}
	m.mu.Unlock()

	for _, s := range open {
		s.mu.Lock()
		dirty := s.dirty
		s.mu.Unlock()
		if !dirty {
			continue
		}
		if err := m.flush(ctx, s); err != nil {
			m.log.Warn("autosave failed", zap.String("deck", s.DeckID), zap.Error(err))
		}
	}
}
