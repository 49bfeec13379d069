package mock

import (
	"context"
	"testing"
	"time"

	"recipebox/internal/store"
	"recipebox/models"
)

func TestNewSeedsExpectedRecords(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db, err := New(ctx)
	if err != nil {
		t.Fatalf("mock database initialization failed: %v", err)
	}

	recipes := store.NewRecipeStore(db)
	active, err := recipes.FetchActive(ctx, "")
	if err != nil {
		t.Fatalf("fetch active recipes: %v", err)
	}
	if len(active) != len(demoRecipes)-1 {
		t.Fatalf("expected %d active recipes, got %d", len(demoRecipes)-1, len(active))
	}

	all, err := recipes.FetchAll(ctx)
	if err != nil {
		t.Fatalf("fetch all recipes: %v", err)
	}
	if len(all) != len(demoRecipes) {
		t.Fatalf("expected %d recipes including inactive, got %d", len(demoRecipes), len(all))
	}

	users := store.NewUserStore(db)
	admin, err := users.Authenticate(ctx, AdminUsername, AdminPassword)
	if err != nil {
		t.Fatalf("authenticate admin: %v", err)
	}
	if store.UserRole(admin) != store.RoleAdmin {
		t.Fatalf("expected admin role, got %q", admin.Role)
	}

	demo, err := users.Authenticate(ctx, DemoUsername, DemoPassword)
	if err != nil {
		t.Fatalf("authenticate demo user: %v", err)
	}

	items, err := store.NewShoppingList(db).GetList(ctx, demo.ID)
	if err != nil {
		t.Fatalf("shopping list: %v", err)
	}
	if len(items) == 0 {
		t.Fatal("expected shopping list derived from favorites")
	}

	recent, err := store.NewRecentLedger(db).ListRecent(ctx, demo.ID, 0)
	if err != nil {
		t.Fatalf("recent list: %v", err)
	}
	if len(recent) != 2 || recent[0].Title != "Buttermilk Pancakes" {
		t.Fatalf("unexpected recent list %+v", recent)
	}

	entries, err := store.NewMealPlanStore(db).GetForWeek(ctx, demo.ID, store.StartOfWeek(time.Now()))
	if err != nil {
		t.Fatalf("meal plan week: %v", err)
	}
	if len(entries) != 4 {
		t.Fatalf("expected 4 meal plan entries, got %d", len(entries))
	}
}

func TestNewReturnsIndependentDatabases(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	first, err := New(ctx)
	if err != nil {
		t.Fatalf("first mock database: %v", err)
	}
	second, err := New(ctx)
	if err != nil {
		t.Fatalf("second mock database: %v", err)
	}

	if err := first.Create(&models.MealType{Name: "Supper"}).Error; err != nil {
		t.Fatalf("insert meal type: %v", err)
	}

	var count int64
	if err := second.Model(&models.MealType{}).Where("name = ?", "Supper").Count(&count).Error; err != nil {
		t.Fatalf("count meal types: %v", err)
	}
	if count != 0 {
		t.Fatal("expected mock databases to be isolated")
	}
}
