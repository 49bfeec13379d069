package mock

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"gorm.io/gorm"

	"recipebox/internal/db"
	applog "recipebox/internal/log"
	"recipebox/internal/store"
	"recipebox/models"
)

// Demo accounts created by New.
const (
	AdminUsername = "admin"
	AdminPassword = "recipebox-admin"
	DemoUsername  = "demo"
	DemoPassword  = "recipebox-demo"
)

var instances atomic.Int64

// New returns an in-memory sqlite database seeded with demo accounts,
// recipes, favorites, view history and a meal plan for the current week.
// Every call yields a separate database.
func New(ctx context.Context) (*gorm.DB, error) {
	applog.Debug(ctx, "initialising mock database")

	database, err := db.OpenMemory(fmt.Sprintf("recipebox-mock-%d", instances.Add(1)))
	if err != nil {
		return nil, err
	}

	if err := seed(ctx, database); err != nil {
		return nil, fmt.Errorf("seed mock database: %w", err)
	}

	applog.Debug(ctx, "mock database ready")
	return database, nil
}

var demoRecipes = []store.RecipeInput{
	{
		Title:    "Buttermilk Pancakes",
		Image:    "pancakes.jpg",
		MealType: "Breakfast",
		Ingredients: []store.IngredientInput{
			{Name: "Flour", Quantity: "200 g"},
			{Name: "Buttermilk", Quantity: "300 ml"},
			{Name: "Egg", Quantity: "1"},
			{Name: "Butter", Quantity: "30 g"},
		},
		Steps: []string{
			"Whisk flour, buttermilk and egg into a smooth batter.",
			"Rest the batter for ten minutes.",
			"Fry ladlefuls in butter until golden on both sides.",
		},
	},
	{
		Title:    "Tomato Lentil Soup",
		Image:    "lentil-soup.jpg",
		MealType: "Lunch",
		Ingredients: []store.IngredientInput{
			{Name: "Red lentils", Quantity: "250 g"},
			{Name: "Tomato", Quantity: "4"},
			{Name: "Onion", Quantity: "1"},
			{Name: "Vegetable stock", Quantity: "1 l"},
		},
		Steps: []string{
			"Soften the chopped onion.",
			"Add lentils, tomatoes and stock and simmer for 25 minutes.",
			"Blend until smooth and season.",
		},
	},
	{
		Title:    "Roast Chicken Traybake",
		Image:    "traybake.jpg",
		MealType: "Dinner",
		Ingredients: []store.IngredientInput{
			{Name: "Chicken thighs", Quantity: "6"},
			{Name: "Potato", Quantity: "600 g"},
			{Name: "Onion", Quantity: "2"},
			{Name: "Olive oil", Quantity: "2 tbsp"},
		},
		Steps: []string{
			"Heat the oven to 200C.",
			"Toss everything with oil and salt on a tray.",
			"Roast for 45 minutes, turning once.",
		},
	},
	{
		Title:    "Lemon Posset",
		Image:    "posset.jpg",
		MealType: "Dessert",
		Ingredients: []store.IngredientInput{
			{Name: "Double cream", Quantity: "600 ml"},
			{Name: "Sugar", Quantity: "150 g"},
			{Name: "Lemon", Quantity: "2"},
		},
		Steps: []string{
			"Boil cream and sugar for three minutes.",
			"Stir in lemon juice, pour into glasses and chill.",
		},
	},
	{
		Title:    "Retired Aspic",
		Image:    "aspic.jpg",
		MealType: "Other",
		Ingredients: []store.IngredientInput{
			{Name: "Gelatin", Quantity: "4 sheets"},
		},
		Steps: []string{"Set overnight."},
	},
}

func seed(ctx context.Context, database *gorm.DB) error {
	applog.Debug(ctx, "seeding mock database")

	users := store.NewUserStore(database)
	recipes := store.NewRecipeStore(database)
	favorites := store.NewFavoriteRegistry(database)
	recent := store.NewRecentLedger(database)
	plans := store.NewMealPlanStore(database)

	if _, err := users.Register(ctx, AdminUsername, AdminPassword, store.RoleAdmin); err != nil {
		return err
	}
	demo, err := users.Register(ctx, DemoUsername, DemoPassword, store.RoleRegistered)
	if err != nil {
		return err
	}

	ids := make([]uint, 0, len(demoRecipes))
	for i, input := range demoRecipes {
		id, err := recipes.Create(ctx, input)
		if err != nil {
			return fmt.Errorf("recipe %d (%s): %w", i, input.Title, err)
		}
		ids = append(ids, id)
	}
	if err := recipes.Delete(ctx, ids[len(ids)-1], store.RoleRegistered); err != nil {
		return err
	}

	for _, id := range ids[:2] {
		if err := favorites.SetFavorite(ctx, demo.ID, id, true); err != nil {
			return err
		}
	}
	for _, id := range []uint{ids[2], ids[0]} {
		if err := recent.RecordView(ctx, demo.ID, id); err != nil {
			return err
		}
	}

	week := store.StartOfWeek(time.Now())
	entries := []struct {
		day    int
		slot   string
		choice store.MealChoice
	}{
		{0, models.SlotBreakfast, store.RecipeMeal{RecipeID: ids[0]}},
		{0, models.SlotDinner, store.RecipeMeal{RecipeID: ids[2]}},
		{2, models.SlotLunch, store.RecipeMeal{RecipeID: ids[1]}},
		{4, models.SlotDinner, store.CustomMeal{Name: "Pizza night", Notes: "Order from the corner place"}},
	}
	for _, entry := range entries {
		if _, err := plans.Create(ctx, demo.ID, week.AddDate(0, 0, entry.day), entry.slot, entry.choice); err != nil {
			return err
		}
	}

	return nil
}
