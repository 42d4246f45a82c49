package deckstore

import (
	"time"

	"github.com/etherxppt/deckd/internal/deck"
)

// Deck is one saved presentation.
type Deck struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Author    string    `json:"author"`
	Slides    []deck.Slide `json:"slides"`
	Meta      deck.Meta `json:"presentationMeta"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DeckSummary is the listing view of a deck, without the document body.
type DeckSummary struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Author     string    `json:"author"`
	SlideCount int       `json:"slide_count"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
