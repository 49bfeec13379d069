package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"

	"github.com/alexedwards/scs/v2"
	"gorm.io/gorm"

	"recipebox/internal/db"
	"recipebox/internal/store"
	"recipebox/models"
)

var unsafeDSN = regexp.MustCompile(`[^A-Za-z0-9_]+`)

func withTestSessionManager(t *testing.T) *scs.SessionManager {
	t.Helper()
	return scs.New()
}

func withTestDatabase(t *testing.T) *gorm.DB {
	t.Helper()
	database, err := db.OpenMemory("handlers_" + unsafeDSN.ReplaceAllString(t.Name(), "_"))
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := database.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return database
}

func newTestHandlers(t *testing.T) (*Handlers, *scs.SessionManager, *gorm.DB) {
	t.Helper()
	sm := withTestSessionManager(t)
	database := withTestDatabase(t)
	return New(sm, database), sm, database
}

func createUser(t *testing.T, database *gorm.DB, username string, role store.Role) models.User {
	t.Helper()
	user := models.User{Username: username, PasswordHash: "hash", Role: role.String()}
	if err := database.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user %s: %v", username, err)
	}
	return user
}

// loadSession attaches an empty session to req.
func loadSession(t *testing.T, sm *scs.SessionManager, req *http.Request) *http.Request {
	t.Helper()
	ctx, err := sm.Load(req.Context(), "")
	if err != nil {
		t.Fatalf("failed to load session context: %v", err)
	}
	return req.WithContext(ctx)
}

func authenticateRequest(t *testing.T, sm *scs.SessionManager, req *http.Request, user models.User) *http.Request {
	t.Helper()
	req = loadSession(t, sm, req)
	sm.Put(req.Context(), sessionUserIDKey, int(user.ID))
	sm.Put(req.Context(), sessionAuthenticatedKey, true)
	sm.Put(req.Context(), sessionUserRoleKey, user.Role)
	return req
}

func jsonRequest(t *testing.T, method, target string, payload any) *http.Request {
	t.Helper()
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("failed to encode payload: %v", err)
		}
		body = bytes.NewReader(encoded)
	}
	req := httptest.NewRequest(method, target, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

func serve(handler http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), dst); err != nil {
		t.Fatalf("failed to decode response %q: %v", rec.Body.String(), err)
	}
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("expected status %d, got %d: %s", want, rec.Code, rec.Body.String())
	}
}

func pancakesInput() store.RecipeInput {
	return store.RecipeInput{
		Title:    "Pancakes",
		Image:    "pancakes.jpg",
		MealType: "Breakfast",
		Ingredients: []store.IngredientInput{
			{Name: "Flour", Quantity: "200 g"},
			{Name: "Egg", Quantity: "2"},
		},
		Steps: []string{"Whisk", "Fry"},
	}
}

func seedRecipe(t *testing.T, database *gorm.DB, input store.RecipeInput) uint {
	t.Helper()
	id, err := store.NewRecipeStore(database).Create(t.Context(), input)
	if err != nil {
		t.Fatalf("failed to seed recipe: %v", err)
	}
	return id
}
