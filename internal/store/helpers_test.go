package store

import (
	"context"
	"regexp"
	"testing"
	"time"

	"recipebox/internal/db"
	"recipebox/models"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var unsafeDSN = regexp.MustCompile(`[^A-Za-z0-9_]+`)

// openTestDB returns a migrated in-memory database private to t.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	database, err := db.OpenMemory("store_" + unsafeDSN.ReplaceAllString(t.Name(), "_"))
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := database.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return database
}

func pancakes() RecipeInput {
	return RecipeInput{
		Title:    "Pancakes",
		Image:    "pancakes.jpg",
		MealType: "Breakfast",
		Ingredients: []IngredientInput{
			{Name: "Flour", Quantity: "200 g"},
			{Name: "Egg", Quantity: "2"},
			{Name: "Milk", Quantity: "300 ml"},
		},
		Steps: []string{"Whisk everything", "Rest the batter", "Fry in a hot pan"},
	}
}

func createRecipe(t *testing.T, recipes *RecipeStore, input RecipeInput) uint {
	t.Helper()
	id, err := recipes.Create(context.Background(), input)
	require.NoError(t, err)
	require.NotZero(t, id)
	return id
}

func simpleRecipe(title string, ingredients ...string) RecipeInput {
	input := RecipeInput{Title: title, Image: title + ".jpg", Steps: []string{"Cook"}}
	for _, name := range ingredients {
		input.Ingredients = append(input.Ingredients, IngredientInput{Name: name})
	}
	return input
}

func countRows(t *testing.T, database *gorm.DB, model any, query string, args ...any) int64 {
	t.Helper()
	var n int64
	tx := database.Model(model)
	if query != "" {
		tx = tx.Where(query, args...)
	}
	require.NoError(t, tx.Count(&n).Error)
	return n
}

func ingredientNames(recipe *models.Recipe) []string {
	names := make([]string, 0, len(recipe.Ingredients))
	for _, ing := range recipe.Ingredients {
		names = append(names, ing.Name)
	}
	return names
}

// steppingClock returns a clock that advances a minute on every call.
func steppingClock(start time.Time) func() time.Time {
	current := start
	return func() time.Time {
		current = current.Add(time.Minute)
		return current
	}
}
