package store

import (
	"context"
	"testing"

	"recipebox/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetFavoriteIsIdempotentUpsert(t *testing.T) {
	database := openTestDB(t)
	recipes := NewRecipeStore(database)
	favorites := NewFavoriteRegistry(database)
	ctx := context.Background()
	id := createRecipe(t, recipes, pancakes())

	favorite, err := favorites.IsFavorite(ctx, 1, id)
	require.NoError(t, err)
	assert.False(t, favorite)

	require.NoError(t, favorites.SetFavorite(ctx, 1, id, true))
	require.NoError(t, favorites.SetFavorite(ctx, 1, id, true))

	favorite, err = favorites.IsFavorite(ctx, 1, id)
	require.NoError(t, err)
	assert.True(t, favorite)
	assert.EqualValues(t, 1, countRows(t, database, &models.Rating{}, "user_id = ? AND recipe_id = ?", 1, id))

	require.NoError(t, favorites.SetFavorite(ctx, 1, id, false))
	favorite, err = favorites.IsFavorite(ctx, 1, id)
	require.NoError(t, err)
	assert.False(t, favorite)
	assert.EqualValues(t, 1, countRows(t, database, &models.Rating{}, ""))
}

func TestSetFavoriteRequiresIDs(t *testing.T) {
	favorites := NewFavoriteRegistry(openTestDB(t))

	assert.ErrorIs(t, favorites.SetFavorite(context.Background(), 0, 1, true), ErrValidation)
	assert.ErrorIs(t, favorites.SetFavorite(context.Background(), 1, 0, true), ErrValidation)
}

func TestFavoritesListOnlyFlaggedActiveRecipes(t *testing.T) {
	database := openTestDB(t)
	recipes := NewRecipeStore(database)
	favorites := NewFavoriteRegistry(database)
	ctx := context.Background()

	waffles := createRecipe(t, recipes, simpleRecipe("Waffles", "Flour"))
	apple := createRecipe(t, recipes, simpleRecipe("Apple Pie", "Apple"))
	retired := createRecipe(t, recipes, simpleRecipe("Aspic", "Gelatin"))
	unflagged := createRecipe(t, recipes, simpleRecipe("Broth", "Bones"))
	others := createRecipe(t, recipes, simpleRecipe("Curry", "Rice"))

	for _, id := range []uint{waffles, apple, retired, unflagged} {
		require.NoError(t, favorites.SetFavorite(ctx, 7, id, true))
	}
	require.NoError(t, favorites.SetFavorite(ctx, 7, unflagged, false))
	require.NoError(t, favorites.SetFavorite(ctx, 8, others, true))
	require.NoError(t, recipes.Delete(ctx, retired, RoleRegistered))

	list, err := favorites.List(ctx, 7)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Apple Pie", list[0].Title)
	assert.Equal(t, "Waffles", list[1].Title)
}
