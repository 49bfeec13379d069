package handlers

import (
	"net/http"
	"strconv"

	"recipebox/internal/store"
)

// Recent lists (GET) or clears (DELETE) the caller's recently viewed recipes.
func (h *Handlers) Recent(w http.ResponseWriter, r *http.Request) {
	if !h.available(w, r) {
		return
	}
	ctx := r.Context()
	userID := h.currentActor(r).UserID

	switch r.Method {
	case http.MethodGet:
		limit := store.DefaultRecentLimit
		if raw := r.URL.Query().Get("limit"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed < 1 {
				writeJSONError(w, http.StatusBadRequest, "limit must be a positive number")
				return
			}
			limit = parsed
		}
		recent, err := h.recent.ListRecent(ctx, userID, limit)
		if err != nil {
			writeStoreError(w, r, err, "load recently viewed recipes")
			return
		}
		if recent == nil {
			recent = []store.RecentRecipe{}
		}
		writeJSON(w, http.StatusOK, recent)
	case http.MethodDelete:
		if err := h.recent.Clear(ctx, userID); err != nil {
			writeStoreError(w, r, err, "clear recently viewed recipes")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}
