package deckstore

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes mounts deck CRUD endpoints on the given router.
func RegisterRoutes(r chi.Router, store *Store) {
	r.Get("/api/decks", listDecksHandler(store))
	r.Get("/api/decks/{id}", getDeckHandler(store))
	r.Post("/api/decks", createDeckHandler(store))
	r.Delete("/api/decks/{id}", deleteDeckHandler(store))
}

func listDecksHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := store.ListDecks(r.Context())
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if result == nil {
			result = []DeckSummary{}
		}
		writeJSON(w, http.StatusOK, result)
	}
}

func getDeckHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		d, err := store.GetDeck(r.Context(), id)
		if err != nil {
			http.Error(w, "deck not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, d)
	}
}

func createDeckHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var d Deck
		if err := json.NewDecoder(r.Body).Decode(&d); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
		if d.Title == "" {
			d.Title = "Untitled"
		}
		if err := store.CreateDeck(r.Context(), &d); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusCreated, d)
	}
}

func deleteDeckHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if err := store.DeleteDeck(r.Context(), id); err != nil {
			http.Error(w, "deck not found", http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
