package models

import (
	"strings"
	"time"
)

const (
	SlotBreakfast = "Breakfast"
	SlotLunch     = "Lunch"
	SlotDinner    = "Dinner"
	SlotSnack     = "Snack"
)

// MealSlots lists the planner slots in display order.
var MealSlots = []string{SlotBreakfast, SlotLunch, SlotDinner, SlotSnack}

// MealPlan is a sparse record: exactly one of RecipeID or CustomMealName is set.
type MealPlan struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	UserID         uint      `gorm:"not null;index:idx_meal_plans_user_date" json:"user_id"`
	RecipeID       *uint     `gorm:"index" json:"recipe_id,omitempty"`
	PlanDate       time.Time `gorm:"not null;index:idx_meal_plans_user_date" json:"plan_date"`
	MealType       string    `gorm:"type:varchar(32);not null" json:"meal_type"`
	CustomMealName *string   `gorm:"type:varchar(255)" json:"custom_meal_name,omitempty"`
	Notes          *string   `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// ValidMealSlot reports whether value is one of the planner slots.
func ValidMealSlot(value string) bool {
	for _, slot := range MealSlots {
		if slot == value {
			return true
		}
	}
	return false
}

// NormalizeMealSlot maps value onto a planner slot, ignoring case and
// surrounding space. It returns "" when nothing matches.
func NormalizeMealSlot(value string) string {
	trimmed := strings.TrimSpace(value)
	for _, slot := range MealSlots {
		if strings.EqualFold(slot, trimmed) {
			return slot
		}
	}
	return ""
}
