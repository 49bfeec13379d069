package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	applog "recipebox/internal/log"
	"recipebox/internal/store"
	"recipebox/models"
)

type ingredientResponse struct {
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
}

type stepResponse struct {
	Sequence    int    `json:"sequence"`
	Description string `json:"description"`
}

type recipeResponse struct {
	ID          uint                 `json:"id"`
	Title       string               `json:"title"`
	Image       string               `json:"image"`
	MealType    string               `json:"meal_type,omitempty"`
	Active      bool                 `json:"active"`
	Ingredients []ingredientResponse `json:"ingredients"`
	Steps       []stepResponse       `json:"steps"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
}

type favoriteResponse struct {
	RecipeID uint `json:"recipe_id"`
	Favorite bool `json:"favorite"`
}

func projectRecipe(recipe models.Recipe) recipeResponse {
	response := recipeResponse{
		ID:          recipe.ID,
		Title:       recipe.Title,
		Image:       recipe.Image,
		MealType:    recipe.MealTypeName(),
		Active:      recipe.Active,
		Ingredients: make([]ingredientResponse, 0, len(recipe.Ingredients)),
		Steps:       make([]stepResponse, 0, len(recipe.Steps)),
		CreatedAt:   recipe.CreatedAt,
		UpdatedAt:   recipe.UpdatedAt,
	}
	for _, ing := range recipe.Ingredients {
		response.Ingredients = append(response.Ingredients, ingredientResponse{Name: ing.Name, Quantity: ing.Quantity})
	}
	for _, step := range recipe.Steps {
		response.Steps = append(response.Steps, stepResponse{Sequence: step.Sequence, Description: step.Description})
	}
	return response
}

func projectRecipes(recipes []models.Recipe) []recipeResponse {
	responses := make([]recipeResponse, 0, len(recipes))
	for _, recipe := range recipes {
		responses = append(responses, projectRecipe(recipe))
	}
	return responses
}

// Recipes lists or creates recipes. Listing accepts q, meal_type and all=1;
// the last one includes inactive recipes and is limited to admins.
func (h *Handlers) Recipes(w http.ResponseWriter, r *http.Request) {
	if !h.available(w, r) {
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.listRecipes(w, r)
	case http.MethodPost:
		h.createRecipe(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h *Handlers) listRecipes(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := r.URL.Query()
	keyword := strings.TrimSpace(query.Get("q"))
	mealType := query.Get("meal_type")

	var (
		recipes []models.Recipe
		err     error
	)
	switch {
	case query.Get("all") == "1":
		caller := h.currentActor(r)
		if !caller.Role.Can(store.CapViewInactive) {
			writeStoreError(w, r, &store.PermissionError{Role: caller.Role, Capability: store.CapViewInactive}, "list recipes")
			return
		}
		recipes, err = h.recipes.FetchAll(ctx)
	case keyword != "":
		recipes, err = h.recipes.Search(ctx, keyword, mealType)
	default:
		recipes, err = h.recipes.FetchActive(ctx, mealType)
	}
	if err != nil {
		writeStoreError(w, r, err, "load recipes")
		return
	}

	writeJSON(w, http.StatusOK, projectRecipes(recipes))
}

func (h *Handlers) createRecipe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller := h.currentActor(r)
	if !caller.Role.Can(store.CapCreateRecipe) {
		writeStoreError(w, r, &store.PermissionError{Role: caller.Role, Capability: store.CapCreateRecipe}, "create recipe")
		return
	}

	var payload store.RecipeInput
	if err := decodeJSON(r, &payload); err != nil {
		applog.Debug(ctx, "invalid recipe payload", "error", err)
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	id, err := h.recipes.Create(ctx, payload)
	if err != nil {
		writeStoreError(w, r, err, "create recipe")
		return
	}

	recipe, err := h.recipes.FetchByID(ctx, id)
	if err != nil {
		writeStoreError(w, r, err, "load recipe")
		return
	}
	writeJSON(w, http.StatusCreated, projectRecipe(*recipe))
}

// visibleRecipe loads id and hides inactive recipes from callers that may
// not see them.
func (h *Handlers) visibleRecipe(w http.ResponseWriter, r *http.Request, id uint, caller actor) (*models.Recipe, bool) {
	recipe, err := h.recipes.FetchByID(r.Context(), id)
	if err != nil {
		writeStoreError(w, r, err, "load recipe")
		return nil, false
	}
	if !recipe.Active && !caller.Role.Can(store.CapViewInactive) {
		writeStoreError(w, r, &store.NotFoundError{Entity: "recipe", ID: id}, "load recipe")
		return nil, false
	}
	return recipe, true
}

// Recipe shows, replaces or deletes one recipe. Showing a recipe to a
// signed-in user records the view.
func (h *Handlers) Recipe(w http.ResponseWriter, r *http.Request) {
	if !h.available(w, r) {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	ctx := r.Context()
	caller := h.currentActor(r)

	switch r.Method {
	case http.MethodGet:
		recipe, ok := h.visibleRecipe(w, r, id, caller)
		if !ok {
			return
		}
		if caller.signedIn() && recipe.Active {
			if err := h.recent.RecordView(ctx, caller.UserID, id); err != nil {
				applog.Warn(ctx, "failed to record recipe view", "recipe_id", id, "error", err)
			}
		}
		writeJSON(w, http.StatusOK, projectRecipe(*recipe))
	case http.MethodPut:
		var payload store.RecipeInput
		if err := decodeJSON(r, &payload); err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid request payload")
			return
		}
		if err := h.recipes.Update(ctx, id, payload, caller.Role); err != nil {
			writeStoreError(w, r, err, "update recipe")
			return
		}
		recipe, err := h.recipes.FetchByID(ctx, id)
		if err != nil {
			writeStoreError(w, r, err, "load recipe")
			return
		}
		writeJSON(w, http.StatusOK, projectRecipe(*recipe))
	case http.MethodDelete:
		if err := h.recipes.Delete(ctx, id, caller.Role); err != nil {
			writeStoreError(w, r, err, "delete recipe")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// Favorite reads (GET), sets (PUT) or clears (DELETE) the caller's favorite
// flag on a recipe.
func (h *Handlers) Favorite(w http.ResponseWriter, r *http.Request) {
	if !h.available(w, r) {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	ctx := r.Context()
	caller := h.currentActor(r)

	switch r.Method {
	case http.MethodGet:
		favorite, err := h.favorites.IsFavorite(ctx, caller.UserID, id)
		if err != nil {
			writeStoreError(w, r, err, "load favorite")
			return
		}
		writeJSON(w, http.StatusOK, favoriteResponse{RecipeID: id, Favorite: favorite})
	case http.MethodPut, http.MethodDelete:
		favorite := r.Method == http.MethodPut
		if favorite {
			if _, ok := h.visibleRecipe(w, r, id, actor{UserID: caller.UserID, Role: store.RoleGuest}); !ok {
				return
			}
		}
		if err := h.favorites.SetFavorite(ctx, caller.UserID, id, favorite); err != nil {
			writeStoreError(w, r, err, "update favorite")
			return
		}
		writeJSON(w, http.StatusOK, favoriteResponse{RecipeID: id, Favorite: favorite})
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// Favorites lists the caller's favorited active recipes.
func (h *Handlers) Favorites(w http.ResponseWriter, r *http.Request) {
	if !h.available(w, r) {
		return
	}
	recipes, err := h.favorites.List(r.Context(), h.currentActor(r).UserID)
	if err != nil {
		writeStoreError(w, r, err, "load favorites")
		return
	}
	writeJSON(w, http.StatusOK, projectRecipes(recipes))
}

// Suggestions returns active titles matching q for search-as-you-type.
func (h *Handlers) Suggestions(w http.ResponseWriter, r *http.Request) {
	if !h.available(w, r) {
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	titles, err := h.recipes.Suggest(r.Context(), r.URL.Query().Get("q"), limit)
	if err != nil {
		writeStoreError(w, r, err, "load suggestions")
		return
	}
	writeJSON(w, http.StatusOK, titles)
}

// MealTypes lists the meal-type catalogue.
func (h *Handlers) MealTypes(w http.ResponseWriter, r *http.Request) {
	if !h.available(w, r) {
		return
	}
	types, err := h.recipes.MealTypes(r.Context())
	if err != nil {
		writeStoreError(w, r, err, "load meal types")
		return
	}
	writeJSON(w, http.StatusOK, types)
}
