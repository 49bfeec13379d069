package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/alexedwards/scs/v2"
	"gorm.io/gorm"

	applog "recipebox/internal/log"
	"recipebox/internal/store"
)

// Handlers serves the JSON API. Every dependency is injected through New.
type Handlers struct {
	sessions  *scs.SessionManager
	database  *gorm.DB
	users     *store.UserStore
	recipes   *store.RecipeStore
	favorites *store.FavoriteRegistry
	shopping  *store.ShoppingList
	recent    *store.RecentLedger
	plans     *store.MealPlanStore
}

// New wires the stores onto database. A nil database leaves every data
// endpoint answering 503.
func New(sm *scs.SessionManager, database *gorm.DB) *Handlers {
	h := &Handlers{sessions: sm, database: database}
	if database != nil {
		h.users = store.NewUserStore(database)
		h.recipes = store.NewRecipeStore(database)
		h.favorites = store.NewFavoriteRegistry(database)
		h.shopping = store.NewShoppingList(database)
		h.recent = store.NewRecentLedger(database)
		h.plans = store.NewMealPlanStore(database)
	}
	return h
}

// available reports 503 when no data source was configured.
func (h *Handlers) available(w http.ResponseWriter, r *http.Request) bool {
	if h.database == nil {
		applog.Debug(r.Context(), "request without database", "path", r.URL.Path)
		writeJSONError(w, http.StatusServiceUnavailable, "service unavailable")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		applog.Error(context.Background(), "failed to encode json response", "error", err)
	}
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func decodeJSON(r *http.Request, dst any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dst)
}

// writeStoreError maps the store error taxonomy onto HTTP statuses. action
// completes the "unable to ..." message shown for persistence failures.
func writeStoreError(w http.ResponseWriter, r *http.Request, err error, action string) {
	ctx := r.Context()
	switch {
	case errors.Is(err, store.ErrValidation):
		applog.Debug(ctx, "request rejected", "action", action, "error", err)
		writeJSONError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, store.ErrPermission):
		applog.Debug(ctx, "request forbidden", "action", action, "error", err)
		writeJSONError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, store.ErrNotFound):
		writeJSONError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, store.ErrInvalidCredentials):
		writeJSONError(w, http.StatusUnauthorized, err.Error())
	default:
		applog.Error(ctx, "request failed", "action", action, "error", err)
		writeJSONError(w, http.StatusInternalServerError, "unable to "+action)
	}
}

func parseID(value string) (uint, bool) {
	id, err := strconv.ParseUint(strings.TrimSpace(value), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func pathID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	id, ok := parseID(r.PathValue("id"))
	if !ok {
		applog.Debug(r.Context(), "invalid identifier", "identifier", r.PathValue("id"))
		http.NotFound(w, r)
	}
	return id, ok
}
