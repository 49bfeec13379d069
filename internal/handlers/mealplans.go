package handlers

import (
	"net/http"
	"strings"
	"time"

	"recipebox/internal/export"
	applog "recipebox/internal/log"
	"recipebox/internal/store"
)

const planDateLayout = "2006-01-02"

// mealPlanRequest carries either recipe_id or custom_name. Notes only apply
// to custom meals.
type mealPlanRequest struct {
	Date       string `json:"date"`
	Slot       string `json:"slot"`
	RecipeID   *uint  `json:"recipe_id"`
	CustomName string `json:"custom_name"`
	Notes      string `json:"notes"`
}

func (h *Handlers) choiceFrom(w http.ResponseWriter, r *http.Request, payload mealPlanRequest) (store.MealChoice, bool) {
	custom := strings.TrimSpace(payload.CustomName)
	switch {
	case payload.RecipeID != nil && custom != "":
		writeJSONError(w, http.StatusBadRequest, "choose a recipe or a custom meal, not both")
		return nil, false
	case payload.RecipeID != nil:
		if _, ok := h.visibleRecipe(w, r, *payload.RecipeID, actor{Role: store.RoleGuest}); !ok {
			return nil, false
		}
		return store.RecipeMeal{RecipeID: *payload.RecipeID}, true
	case custom != "":
		return store.CustomMeal{Name: custom, Notes: payload.Notes}, true
	default:
		writeJSONError(w, http.StatusBadRequest, "a recipe or a custom meal is required")
		return nil, false
	}
}

// requestedWeek reads ?week= and snaps it to its Monday. Without the
// parameter the current week is used.
func requestedWeek(w http.ResponseWriter, r *http.Request) (time.Time, bool) {
	raw := strings.TrimSpace(r.URL.Query().Get("week"))
	if raw == "" {
		return store.StartOfWeek(time.Now().UTC()), true
	}
	day, err := time.Parse(planDateLayout, raw)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "week must be formatted as YYYY-MM-DD")
		return time.Time{}, false
	}
	return store.StartOfWeek(day), true
}

func (h *Handlers) loadWeek(w http.ResponseWriter, r *http.Request) (store.Week, bool) {
	start, ok := requestedWeek(w, r)
	if !ok {
		return store.Week{}, false
	}
	entries, err := h.plans.GetForWeek(r.Context(), h.currentActor(r).UserID, start)
	if err != nil {
		writeStoreError(w, r, err, "load meal plan")
		return store.Week{}, false
	}
	return store.BuildWeek(start, entries), true
}

// MealPlans returns the caller's week grid (GET) or plans a meal (POST).
func (h *Handlers) MealPlans(w http.ResponseWriter, r *http.Request) {
	if !h.available(w, r) {
		return
	}

	switch r.Method {
	case http.MethodGet:
		week, ok := h.loadWeek(w, r)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, week)
	case http.MethodPost:
		h.createMealPlan(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h *Handlers) createMealPlan(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var payload mealPlanRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	date, err := time.Parse(planDateLayout, strings.TrimSpace(payload.Date))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "date must be formatted as YYYY-MM-DD")
		return
	}
	choice, ok := h.choiceFrom(w, r, payload)
	if !ok {
		return
	}

	userID := h.currentActor(r).UserID
	id, err := h.plans.Create(ctx, userID, date, payload.Slot, choice)
	if err != nil {
		writeStoreError(w, r, err, "plan meal")
		return
	}
	entry, err := h.plans.GetByID(ctx, id)
	if err != nil {
		writeStoreError(w, r, err, "load meal plan entry")
		return
	}
	applog.Debug(ctx, "meal planned", "user_id", userID, "entry_id", id)
	writeJSON(w, http.StatusCreated, entry)
}

// ownedEntry loads the entry in the path. Entries of other users answer 404.
func (h *Handlers) ownedEntry(w http.ResponseWriter, r *http.Request) (*store.PlanEntry, bool) {
	id, ok := pathID(w, r)
	if !ok {
		return nil, false
	}
	entry, err := h.plans.GetByID(r.Context(), id)
	if err == nil && entry.UserID != h.currentActor(r).UserID {
		err = &store.NotFoundError{Entity: "meal plan entry", ID: id}
	}
	if err != nil {
		writeStoreError(w, r, err, "load meal plan entry")
		return nil, false
	}
	return entry, true
}

// MealPlan shows, changes or deletes one of the caller's entries. A change
// replaces the meal choice; date and slot stay.
func (h *Handlers) MealPlan(w http.ResponseWriter, r *http.Request) {
	if !h.available(w, r) {
		return
	}
	entry, ok := h.ownedEntry(w, r)
	if !ok {
		return
	}
	ctx := r.Context()

	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, entry)
	case http.MethodPut:
		var payload mealPlanRequest
		if err := decodeJSON(r, &payload); err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid request payload")
			return
		}
		choice, ok := h.choiceFrom(w, r, payload)
		if !ok {
			return
		}
		if err := h.plans.Update(ctx, entry.ID, choice); err != nil {
			writeStoreError(w, r, err, "update meal plan entry")
			return
		}
		updated, err := h.plans.GetByID(ctx, entry.ID)
		if err != nil {
			writeStoreError(w, r, err, "load meal plan entry")
			return
		}
		writeJSON(w, http.StatusOK, updated)
	case http.MethodDelete:
		if err := h.plans.Delete(ctx, entry.ID); err != nil {
			writeStoreError(w, r, err, "delete meal plan entry")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// ExportMealPlan downloads the requested week as a workbook.
func (h *Handlers) ExportMealPlan(w http.ResponseWriter, r *http.Request) {
	if !h.available(w, r) {
		return
	}
	week, ok := h.loadWeek(w, r)
	if !ok {
		return
	}
	workbook, err := export.Week(week)
	if err != nil {
		writeStoreError(w, r, err, "export meal plan")
		return
	}
	filename := "meal-plan-" + week.Start.Format(planDateLayout) + ".xlsx"
	writeWorkbook(w, r, filename, func() error { return export.Write(w, workbook) })
}
