// Package deckstore persists presentations to SQLite.
package deckstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/etherxppt/deckd/internal/db"
	"github.com/etherxppt/deckd/internal/deck"
)

// Store provides CRUD operations for saved decks.
type Store struct {
	db *db.DB
}

// NewStore creates a new deck store.
func NewStore(d *db.DB) *Store {
	return &Store{db: d}
}

// document is the JSON shape of the persisted deck body.
type document struct {
	Slides []deck.Slide `json:"slides"`
	Meta   deck.Meta    `json:"presentationMeta"`
}

// CreateDeck inserts a new deck.
func (s *Store) CreateDeck(ctx context.Context, d *Deck) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	d.CreatedAt = now
	d.UpdatedAt = now
	if d.Slides == nil {
		d.Slides = []deck.Slide{}
	}

	body, err := json.Marshal(document{Slides: d.Slides, Meta: d.Meta})
	if err != nil {
		return fmt.Errorf("marshaling document: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO decks (id, title, author, document, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		d.ID, d.Title, d.Author, string(body), d.CreatedAt, d.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("creating deck: %w", err)
	}
	return nil
}

// GetDeck retrieves a deck by ID.
func (s *Store) GetDeck(ctx context.Context, id string) (*Deck, error) {
	d := &Deck{}
	var body string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, title, author, document, created_at, updated_at FROM decks WHERE id = ?`, id,
	).Scan(&d.ID, &d.Title, &d.Author, &body, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("getting deck: %w", err)
	}
	var doc document
	if err := json.Unmarshal([]byte(body), &doc); err != nil {
		return nil, fmt.Errorf("unmarshaling document: %w", err)
	}
	d.Slides = doc.Slides
	d.Meta = doc.Meta
	return d, nil
}

// ListDecks returns summaries of all decks, most recently updated first.
func (s *Store) ListDecks(ctx context.Context) ([]DeckSummary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, author, document, created_at, updated_at FROM decks ORDER BY updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing decks: %w", err)
	}
	defer rows.Close()

	var result []DeckSummary
	for rows.Next() {
		var sum DeckSummary
		var body string
		if err := rows.Scan(&sum.ID, &sum.Title, &sum.Author, &body, &sum.CreatedAt, &sum.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning deck: %w", err)
		}
		var doc document
		if err := json.Unmarshal([]byte(body), &doc); err != nil {
			return nil, fmt.Errorf("unmarshaling document: %w", err)
		}
		sum.SlideCount = len(doc.Slides)
		result = append(result, sum)
	}
	return result, rows.Err()
}

// SaveDocument replaces a deck's slides and metadata, used by autosave and
// explicit saves.
func (s *Store) SaveDocument(ctx context.Context, id string, slides []deck.Slide, meta deck.Meta) error {
	body, err := json.Marshal(document{Slides: slides, Meta: meta})
	if err != nil {
		return fmt.Errorf("marshaling document: %w", err)
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE decks SET title=?, document=?, updated_at=? WHERE id=?`,
		meta.Title, string(body), time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("saving document: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeleteDeck removes a deck by ID.
func (s *Store) DeleteDeck(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM decks WHERE id=?`, id)
	if err != nil {
		return fmt.Errorf("deleting deck: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
