package store

import (
	"context"
	"errors"
	"strings"

	applog "recipebox/internal/log"
	"recipebox/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AllMealTypes is the meal-type filter value that disables filtering.
const AllMealTypes = "All"

const defaultSuggestLimit = 10

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// containsPattern is a LIKE pattern, used with ESCAPE '!', matching text
// literally anywhere in a lower-cased column.
func containsPattern(text string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(strings.TrimSpace(text))) + "%"
}

// IngredientInput is one ingredient line of a recipe write.
type IngredientInput struct {
	Name     string `json:"name" validate:"required,max=255"`
	Quantity string `json:"quantity" validate:"max=255"`
}

// RecipeInput is the full replacement state of a recipe. Steps are stored in
// slice order and numbered from 1.
type RecipeInput struct {
	Title       string            `json:"title" validate:"required,max=255"`
	Image       string            `json:"image" validate:"required"`
	MealType    string            `json:"meal_type" validate:"max=64"`
	Ingredients []IngredientInput `json:"ingredients" validate:"required,min=1,dive"`
	Steps       []string          `json:"steps" validate:"required,min=1,dive,required"`
}

func (in RecipeInput) normalized() RecipeInput {
	out := RecipeInput{
		Title:    strings.TrimSpace(in.Title),
		Image:    strings.TrimSpace(in.Image),
		MealType: strings.TrimSpace(in.MealType),
	}
	if in.Ingredients != nil {
		out.Ingredients = make([]IngredientInput, len(in.Ingredients))
		for i, ing := range in.Ingredients {
			out.Ingredients[i] = IngredientInput{
				Name:     strings.TrimSpace(ing.Name),
				Quantity: strings.TrimSpace(ing.Quantity),
			}
		}
	}
	if in.Steps != nil {
		out.Steps = make([]string, len(in.Steps))
		for i, step := range in.Steps {
			out.Steps[i] = strings.TrimSpace(step)
		}
	}
	return out
}

// RecipeStore owns a recipe together with its ingredients, steps and
// meal-type link. Every write replaces the whole aggregate in one transaction.
type RecipeStore struct {
	db *gorm.DB
}

func NewRecipeStore(db *gorm.DB) *RecipeStore {
	return &RecipeStore{db: db}
}

// Create inserts an active recipe and all of its children.
func (s *RecipeStore) Create(ctx context.Context, input RecipeInput) (uint, error) {
	input = input.normalized()
	if err := validateStruct(input); err != nil {
		return 0, err
	}

	recipe := models.Recipe{Title: input.Title, Image: input.Image, Active: true}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(&recipe).Error; err != nil {
			return err
		}
		return writeChildren(tx, recipe.ID, input)
	})
	if err != nil {
		applog.Error(ctx, "create recipe rolled back", "title", input.Title, "error", err)
		return 0, persistence("create recipe", err)
	}

	applog.Debug(ctx, "recipe created", "recipe_id", recipe.ID)
	return recipe.ID, nil
}

// Update replaces an active recipe's fields and children. Only admins may
// edit; an inactive or missing recipe yields NotFoundError.
func (s *RecipeStore) Update(ctx context.Context, id uint, input RecipeInput, actor Role) error {
	if err := actor.require(CapEditRecipe); err != nil {
		return err
	}
	input = input.normalized()
	if err := validateStruct(input); err != nil {
		return err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Recipe{}).
			Where("id = ? AND active = ?", id, true).
			Updates(map[string]any{"title": input.Title, "image": input.Image})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return &NotFoundError{Entity: "recipe", ID: id}
		}

		if err := deleteChildren(tx, id); err != nil {
			return err
		}
		return writeChildren(tx, id, input)
	})
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			applog.Error(ctx, "update recipe rolled back", "recipe_id", id, "error", err)
		}
		return persistence("update recipe", err)
	}

	applog.Debug(ctx, "recipe updated", "recipe_id", id)
	return nil
}

// Delete removes a recipe. Admins purge it with its children; registered
// users only mark it inactive, which is a no-op on a missing recipe.
func (s *RecipeStore) Delete(ctx context.Context, id uint, actor Role) error {
	if actor.Can(CapPurgeRecipe) {
		return s.purge(ctx, id)
	}
	if err := actor.require(CapDeleteRecipe); err != nil {
		return err
	}

	result := s.db.WithContext(ctx).Model(&models.Recipe{}).Where("id = ?", id).Update("active", false)
	if result.Error != nil {
		return persistence("deactivate recipe", result.Error)
	}

	applog.Debug(ctx, "recipe deactivated", "recipe_id", id, "rows", result.RowsAffected)
	return nil
}

func (s *RecipeStore) purge(ctx context.Context, id uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := deleteChildren(tx, id); err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&models.Recipe{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return &NotFoundError{Entity: "recipe", ID: id}
		}
		return nil
	})
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			applog.Error(ctx, "purge recipe rolled back", "recipe_id", id, "error", err)
		}
		return persistence("purge recipe", err)
	}

	applog.Debug(ctx, "recipe purged", "recipe_id", id)
	return nil
}

// deleteChildren removes steps, ingredients and the meal-type link, in that order.
func deleteChildren(tx *gorm.DB, recipeID uint) error {
	if err := tx.Where("recipe_id = ?", recipeID).Delete(&models.Step{}).Error; err != nil {
		return err
	}
	if err := tx.Where("recipe_id = ?", recipeID).Delete(&models.Ingredient{}).Error; err != nil {
		return err
	}
	return tx.Where("recipe_id = ?", recipeID).Delete(&models.RecipeMealType{}).Error
}

func writeChildren(tx *gorm.DB, recipeID uint, input RecipeInput) error {
	if input.MealType != "" {
		mealType, err := resolveMealType(tx, input.MealType)
		if err != nil {
			return err
		}
		link := models.RecipeMealType{RecipeID: recipeID, MealTypeID: mealType.ID}
		if err := tx.Omit(clause.Associations).Create(&link).Error; err != nil {
			return err
		}
	}

	ingredients := make([]models.Ingredient, 0, len(input.Ingredients))
	for _, ing := range input.Ingredients {
		ingredients = append(ingredients, models.Ingredient{RecipeID: recipeID, Name: ing.Name, Quantity: ing.Quantity})
	}
	if err := tx.Create(&ingredients).Error; err != nil {
		return err
	}

	steps := make([]models.Step, 0, len(input.Steps))
	for i, description := range input.Steps {
		steps = append(steps, models.Step{RecipeID: recipeID, Description: description, Sequence: i + 1})
	}
	return tx.Create(&steps).Error
}

func resolveMealType(tx *gorm.DB, name string) (models.MealType, error) {
	var mealType models.MealType
	err := tx.Where(models.MealType{Name: name}).FirstOrCreate(&mealType).Error
	return mealType, err
}

func (s *RecipeStore) withChildren(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).Model(&models.Recipe{}).
		Preload("Ingredients", func(db *gorm.DB) *gorm.DB { return db.Order("ingredients.id") }).
		Preload("Steps", func(db *gorm.DB) *gorm.DB { return db.Order("steps.step_order") }).
		Preload("MealTypeLink.MealType")
}

func filterMealType(query *gorm.DB, mealType string) *gorm.DB {
	mealType = strings.TrimSpace(mealType)
	if mealType == "" || mealType == AllMealTypes {
		return query
	}
	return query.
		Joins("JOIN recipe_meal_types ON recipe_meal_types.recipe_id = recipes.id").
		Joins("JOIN meal_types ON meal_types.id = recipe_meal_types.meal_type_id").
		Where("meal_types.name = ?", mealType)
}

func (s *RecipeStore) list(op string, query *gorm.DB) ([]models.Recipe, error) {
	var recipes []models.Recipe
	if err := query.Order("recipes.id DESC").Find(&recipes).Error; err != nil {
		return nil, persistence(op, err)
	}
	return recipes, nil
}

// FetchActive lists active recipes, newest first, optionally restricted to a
// meal type. An empty filter or AllMealTypes matches everything.
func (s *RecipeStore) FetchActive(ctx context.Context, mealType string) ([]models.Recipe, error) {
	query := filterMealType(s.withChildren(ctx), mealType).Where("recipes.active = ?", true)
	return s.list("fetch active recipes", query)
}

// Search matches keyword literally and case-insensitively anywhere in the
// title of active recipes.
func (s *RecipeStore) Search(ctx context.Context, keyword, mealType string) ([]models.Recipe, error) {
	query := filterMealType(s.withChildren(ctx), mealType).
		Where("recipes.active = ?", true).
		Where("LOWER(recipes.title) LIKE ? ESCAPE '!'", containsPattern(keyword))
	return s.list("search recipes", query)
}

// FetchAll lists every recipe including inactive ones.
func (s *RecipeStore) FetchAll(ctx context.Context) ([]models.Recipe, error) {
	return s.list("fetch all recipes", s.withChildren(ctx))
}

// FetchByID loads one recipe regardless of its active flag. Callers that show
// recipes to non-admins check Active themselves.
func (s *RecipeStore) FetchByID(ctx context.Context, id uint) (*models.Recipe, error) {
	var recipe models.Recipe
	err := s.withChildren(ctx).Where("recipes.id = ?", id).Take(&recipe).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &NotFoundError{Entity: "recipe", ID: id}
	}
	if err != nil {
		return nil, persistence("fetch recipe", err)
	}
	return &recipe, nil
}

// MealTypes lists the meal-type catalogue in id order.
func (s *RecipeStore) MealTypes(ctx context.Context) ([]models.MealType, error) {
	var types []models.MealType
	if err := s.db.WithContext(ctx).Order("id").Find(&types).Error; err != nil {
		return nil, persistence("list meal types", err)
	}
	return types, nil
}

// Suggest returns up to limit distinct active titles containing text.
func (s *RecipeStore) Suggest(ctx context.Context, text string, limit int) ([]string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return []string{}, nil
	}
	if limit <= 0 {
		limit = defaultSuggestLimit
	}

	titles := []string{}
	err := s.db.WithContext(ctx).Model(&models.Recipe{}).
		Distinct("title").
		Where("active = ? AND LOWER(title) LIKE ? ESCAPE '!'", true, containsPattern(text)).
		Order("title").
		Limit(limit).
		Pluck("title", &titles).Error
	if err != nil {
		return nil, persistence("suggest titles", err)
	}
	return titles, nil
}
