package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alexedwards/scs/v2"

	"recipebox/internal/db/mock"
	"recipebox/internal/handlers"
)

func newTestRouter(t *testing.T, loginRate int) http.Handler {
	t.Helper()
	database, err := mock.New(context.Background())
	if err != nil {
		t.Fatalf("failed to build mock database: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := database.DB(); err == nil {
			sqlDB.Close()
		}
	})
	sm := scs.New()
	return sm.LoadAndSave(newRouter(handlers.New(sm, database), newRateLimiter(loginRate)))
}

func TestNewRouterRegistersHealthRoute(t *testing.T) {
	router := newRouter(handlers.New(nil, nil), newRateLimiter(0))
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected /healthz to return 200, got %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected application/json content type, got %q", ct)
	}
}

func TestRouterPublicAndProtectedRoutes(t *testing.T) {
	router := newTestRouter(t, 0)

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodGet, "/api/recipes", http.StatusOK},
		{http.MethodGet, "/api/recipes/1", http.StatusOK},
		{http.MethodGet, "/api/recipes/suggestions?q=pan", http.StatusOK},
		{http.MethodGet, "/api/meal-types", http.StatusOK},
		{http.MethodPost, "/api/recipes", http.StatusUnauthorized},
		{http.MethodDelete, "/api/recipes/1", http.StatusUnauthorized},
		{http.MethodGet, "/api/recipes/1/favorite", http.StatusUnauthorized},
		{http.MethodGet, "/api/favorites", http.StatusUnauthorized},
		{http.MethodGet, "/api/shopping-list", http.StatusUnauthorized},
		{http.MethodGet, "/api/shopping-list/export", http.StatusUnauthorized},
		{http.MethodGet, "/api/recent", http.StatusUnauthorized},
		{http.MethodGet, "/api/meal-plans", http.StatusUnauthorized},
		{http.MethodGet, "/api/meal-plans/export", http.StatusUnauthorized},
		{http.MethodGet, "/api/auth/me", http.StatusUnauthorized},
		{http.MethodPatch, "/api/recipes/1", http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(tt.method, tt.path, nil))
		if rr.Code != tt.want {
			t.Fatalf("%s %s: expected %d, got %d", tt.method, tt.path, tt.want, rr.Code)
		}
	}
}

func TestRouterRateLimitsLogin(t *testing.T) {
	router := newTestRouter(t, 2)

	statuses := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"username":"demo","password":"wrong"}`))
		req.RemoteAddr = "203.0.113.7:5000"
		router.ServeHTTP(rr, req)
		statuses = append(statuses, rr.Code)
	}

	if statuses[0] != http.StatusUnauthorized || statuses[1] != http.StatusUnauthorized {
		t.Fatalf("expected first attempts to reach the handler, got %v", statuses)
	}
	if statuses[2] != http.StatusTooManyRequests {
		t.Fatalf("expected third attempt to be throttled, got %v", statuses)
	}
}
