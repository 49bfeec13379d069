package store

import (
	"context"
	"errors"

	applog "recipebox/internal/log"
	"recipebox/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FavoriteRegistry tracks per-user favorite flags on recipes.
type FavoriteRegistry struct {
	db *gorm.DB
}

func NewFavoriteRegistry(db *gorm.DB) *FavoriteRegistry {
	return &FavoriteRegistry{db: db}
}

func (r *FavoriteRegistry) IsFavorite(ctx context.Context, userID, recipeID uint) (bool, error) {
	var rating models.Rating
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Take(&rating).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, persistence("read favorite", err)
	}
	return rating.IsFavorite, nil
}

// SetFavorite creates or overwrites the flag in one statement. Concurrent
// toggles resolve to the last write.
func (r *FavoriteRegistry) SetFavorite(ctx context.Context, userID, recipeID uint, favorite bool) error {
	if userID == 0 || recipeID == 0 {
		return newValidationError("user and recipe are required")
	}

	rating := models.Rating{UserID: userID, RecipeID: recipeID, IsFavorite: favorite}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "recipe_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"is_favorite"}),
	}).Create(&rating).Error
	if err != nil {
		return persistence("set favorite", err)
	}

	applog.Debug(ctx, "favorite set", "user_id", userID, "recipe_id", recipeID, "favorite", favorite)
	return nil
}

// List returns the user's favorited active recipes ordered by title.
func (r *FavoriteRegistry) List(ctx context.Context, userID uint) ([]models.Recipe, error) {
	var recipes []models.Recipe
	err := r.db.WithContext(ctx).Model(&models.Recipe{}).
		Preload("MealTypeLink.MealType").
		Joins("JOIN ratings ON ratings.recipe_id = recipes.id").
		Where("ratings.user_id = ? AND ratings.is_favorite = ? AND recipes.active = ?", userID, true, true).
		Order("recipes.title").
		Order("recipes.id").
		Find(&recipes).Error
	if err != nil {
		return nil, persistence("list favorites", err)
	}
	return recipes, nil
}
