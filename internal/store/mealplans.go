package store

import (
	"context"
	"strings"
	"time"

	applog "recipebox/internal/log"
	"recipebox/models"

	"gorm.io/gorm"
)

// MealChoice is what fills a planner slot: a RecipeMeal or a CustomMeal.
type MealChoice interface {
	mealChoice()
}

// RecipeMeal plans an existing recipe.
type RecipeMeal struct {
	RecipeID uint
}

// CustomMeal plans free text with optional notes.
type CustomMeal struct {
	Name  string
	Notes string
}

func (RecipeMeal) mealChoice() {}
func (CustomMeal) mealChoice() {}

// PlanEntry is a meal-plan row joined with its recipe title.
type PlanEntry struct {
	ID          uint      `json:"id"`
	UserID      uint      `json:"user_id"`
	Date        time.Time `json:"date"`
	Slot        string    `json:"slot"`
	RecipeID    *uint     `json:"recipe_id,omitempty"`
	RecipeTitle string    `json:"recipe_title,omitempty"`
	CustomName  *string   `json:"custom_name,omitempty"`
	Notes       *string   `json:"notes,omitempty"`
}

// Choice rebuilds the tagged value the entry was written from.
func (e PlanEntry) Choice() MealChoice {
	if e.RecipeID != nil {
		return RecipeMeal{RecipeID: *e.RecipeID}
	}
	custom := CustomMeal{}
	if e.CustomName != nil {
		custom.Name = *e.CustomName
	}
	if e.Notes != nil {
		custom.Notes = *e.Notes
	}
	return custom
}

// Label is the recipe title or the custom meal name.
func (e PlanEntry) Label() string {
	if e.RecipeID != nil {
		return e.RecipeTitle
	}
	if e.CustomName != nil {
		return *e.CustomName
	}
	return ""
}

// MealPlanStore is CRUD over dated planner slots.
type MealPlanStore struct {
	db *gorm.DB
}

func NewMealPlanStore(db *gorm.DB) *MealPlanStore {
	return &MealPlanStore{db: db}
}

// PlanDay truncates t to midnight UTC of its calendar date.
func PlanDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

type choiceColumns struct {
	recipeID   *uint
	customName *string
	notes      *string
}

func columnsFor(choice MealChoice) (choiceColumns, error) {
	switch c := choice.(type) {
	case RecipeMeal:
		if c.RecipeID == 0 {
			return choiceColumns{}, newValidationError("recipe is required")
		}
		id := c.RecipeID
		return choiceColumns{recipeID: &id}, nil
	case CustomMeal:
		name := strings.TrimSpace(c.Name)
		if name == "" {
			return choiceColumns{}, newValidationError("custom meal name is required")
		}
		cols := choiceColumns{customName: &name}
		if notes := strings.TrimSpace(c.Notes); notes != "" {
			cols.notes = &notes
		}
		return cols, nil
	default:
		return choiceColumns{}, newValidationError("a recipe or a custom meal is required")
	}
}

// Create plans choice in slot on date for the user.
func (s *MealPlanStore) Create(ctx context.Context, userID uint, date time.Time, slot string, choice MealChoice) (uint, error) {
	var problems []string
	if userID == 0 {
		problems = append(problems, "user is required")
	}
	if date.IsZero() {
		problems = append(problems, "plan date is required")
	}
	normalizedSlot := models.NormalizeMealSlot(slot)
	if normalizedSlot == "" {
		problems = append(problems, "meal slot must be one of "+strings.Join(models.MealSlots, ", "))
	}
	cols, err := columnsFor(choice)
	if err != nil {
		return 0, err
	}
	if len(problems) > 0 {
		return 0, newValidationError(problems...)
	}

	plan := models.MealPlan{
		UserID:         userID,
		RecipeID:       cols.recipeID,
		PlanDate:       PlanDay(date),
		MealType:       normalizedSlot,
		CustomMealName: cols.customName,
		Notes:          cols.notes,
	}
	if err := s.db.WithContext(ctx).Create(&plan).Error; err != nil {
		return 0, persistence("create meal plan", err)
	}

	applog.Debug(ctx, "meal plan created", "plan_id", plan.ID, "user_id", userID, "slot", normalizedSlot)
	return plan.ID, nil
}

// Update replaces what the entry plans. Date and slot stay as they are.
func (s *MealPlanStore) Update(ctx context.Context, id uint, choice MealChoice) error {
	cols, err := columnsFor(choice)
	if err != nil {
		return err
	}

	result := s.db.WithContext(ctx).Model(&models.MealPlan{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"recipe_id":        cols.recipeID,
			"custom_meal_name": cols.customName,
			"notes":            cols.notes,
		})
	if result.Error != nil {
		return persistence("update meal plan", result.Error)
	}
	if result.RowsAffected == 0 {
		return &NotFoundError{Entity: "meal plan", ID: id}
	}

	applog.Debug(ctx, "meal plan updated", "plan_id", id)
	return nil
}

func (s *MealPlanStore) Delete(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.MealPlan{})
	if result.Error != nil {
		return persistence("delete meal plan", result.Error)
	}
	if result.RowsAffected == 0 {
		return &NotFoundError{Entity: "meal plan", ID: id}
	}

	applog.Debug(ctx, "meal plan deleted", "plan_id", id)
	return nil
}

type planRow struct {
	models.MealPlan `gorm:"embedded"`
	RecipeTitle     *string
}

func (r planRow) entry() PlanEntry {
	entry := PlanEntry{
		ID:         r.ID,
		UserID:     r.UserID,
		Date:       r.PlanDate.UTC(),
		Slot:       r.MealType,
		RecipeID:   r.RecipeID,
		CustomName: r.CustomMealName,
		Notes:      r.Notes,
	}
	if r.RecipeTitle != nil {
		entry.RecipeTitle = *r.RecipeTitle
	}
	return entry
}

func (s *MealPlanStore) entries(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).Table("meal_plans").
		Select("meal_plans.*, recipes.title AS recipe_title").
		Joins("LEFT JOIN recipes ON recipes.id = meal_plans.recipe_id")
}

func (s *MealPlanStore) GetByID(ctx context.Context, id uint) (*PlanEntry, error) {
	var rows []planRow
	err := s.entries(ctx).Where("meal_plans.id = ?", id).Limit(1).Scan(&rows).Error
	if err != nil {
		return nil, persistence("fetch meal plan", err)
	}
	if len(rows) == 0 {
		return nil, &NotFoundError{Entity: "meal plan", ID: id}
	}
	entry := rows[0].entry()
	return &entry, nil
}

// GetForWeek returns the user's entries dated within the seven days starting
// at weekStart. Entries pointing at inactive or removed recipes are left out.
func (s *MealPlanStore) GetForWeek(ctx context.Context, userID uint, weekStart time.Time) ([]PlanEntry, error) {
	start := PlanDay(weekStart)
	end := start.AddDate(0, 0, 7)

	var rows []planRow
	err := s.entries(ctx).
		Where("meal_plans.user_id = ? AND meal_plans.plan_date >= ? AND meal_plans.plan_date < ?", userID, start, end).
		Where("(meal_plans.recipe_id IS NULL OR recipes.active = ?)", true).
		Order("meal_plans.plan_date").
		Order("meal_plans.id").
		Scan(&rows).Error
	if err != nil {
		return nil, persistence("fetch meal plan week", err)
	}

	entries := make([]PlanEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, row.entry())
	}
	return entries, nil
}
