package server

import (
	"context"
	"net/http"

	"recipebox/internal/handlers"
	applog "recipebox/internal/log"
)

func newRouter(h *handlers.Handlers, loginLimiter *rateLimiter) http.Handler {
	mux := http.NewServeMux()
	applog.Debug(context.Background(), "registering http routes")

	public := func(pattern string, handler http.HandlerFunc) {
		mux.HandleFunc(pattern, handler)
		applog.Debug(context.Background(), "route registered", "pattern", pattern)
	}
	protected := func(pattern string, handler http.HandlerFunc) {
		mux.Handle(pattern, h.RequireAuthentication(handler))
		applog.Debug(context.Background(), "route registered", "pattern", pattern, "protected", true)
	}

	public("GET /healthz", h.Health)

	public("POST /api/auth/register", h.Register)
	mux.Handle("POST /api/auth/login", loginLimiter.Limit(http.HandlerFunc(h.Login)))
	applog.Debug(context.Background(), "route registered", "pattern", "POST /api/auth/login", "rateLimited", true)
	public("POST /api/auth/logout", h.Logout)
	protected("GET /api/auth/me", h.Me)

	public("GET /api/meal-types", h.MealTypes)

	public("GET /api/recipes", h.Recipes)
	protected("POST /api/recipes", h.Recipes)
	public("GET /api/recipes/suggestions", h.Suggestions)
	public("GET /api/recipes/{id}", h.Recipe)
	protected("PUT /api/recipes/{id}", h.Recipe)
	protected("DELETE /api/recipes/{id}", h.Recipe)
	protected("/api/recipes/{id}/favorite", h.Favorite)
	protected("GET /api/favorites", h.Favorites)

	protected("GET /api/shopping-list", h.ShoppingList)
	protected("POST /api/shopping-list/import", h.ImportShoppingList)
	protected("POST /api/shopping-list/items", h.AddShoppingItem)
	protected("/api/shopping-list/items/{name}", h.ShoppingItem)
	protected("PUT /api/shopping-list/items/{name}/purchased", h.ShoppingItemPurchased)
	protected("GET /api/shopping-list/export", h.ExportShoppingList)

	protected("/api/recent", h.Recent)

	protected("/api/meal-plans", h.MealPlans)
	protected("GET /api/meal-plans/export", h.ExportMealPlan)
	protected("/api/meal-plans/{id}", h.MealPlan)

	return mux
}
