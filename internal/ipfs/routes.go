package ipfs

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes mounts the IPFS save/load pass-through.
func RegisterRoutes(r chi.Router, client *Client) {
	r.Post("/api/ipfs/save", saveHandler(client))
	r.Get("/api/ipfs/load/{hash}", loadHandler(client))
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func saveHandler(client *Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, err := io.ReadAll(r.Body)
		if err != nil || len(data) == 0 || !json.Valid(data) {
			writeJSON(w, http.StatusBadRequest, map[string]any{
				"success": false,
				"error":   "request body must be JSON",
			})
			return
		}

		hash, remote := client.Save(r.Context(), data)
		msg := "Presentation saved to IPFS"
		if !remote {
			msg = "Presentation saved locally (IPFS not available)"
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"success":  true,
			"ipfsHash": hash,
			"message":  msg,
		})
	}
}

func loadHandler(client *Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		hash := chi.URLParam(r, "hash")

		if strings.HasPrefix(hash, localPrefix) {
			writeJSON(w, http.StatusOK, map[string]any{
				"success": false,
				"error":   "Local presentations cannot be loaded",
			})
			return
		}

		data, err := client.Load(r.Context(), hash)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]any{
				"success": false,
				"error":   err.Error(),
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"data":    json.RawMessage(data),
		})
	}
}
