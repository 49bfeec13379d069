package models

import "time"

// Recipe is the aggregate root. Ingredients, steps and the meal-type link are
// owned rows that are always rewritten together with it.
type Recipe struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"not null;index" json:"title"`
	Image     string    `gorm:"not null" json:"image"`
	Active    bool      `gorm:"not null;default:true;index" json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Ingredients  []Ingredient    `gorm:"foreignKey:RecipeID" json:"ingredients,omitempty"`
	Steps        []Step          `gorm:"foreignKey:RecipeID" json:"steps,omitempty"`
	MealTypeLink *RecipeMealType `gorm:"foreignKey:RecipeID" json:"-"`
}

// MealTypeName returns the tagged meal type, or "" when the recipe is untagged
// or the link was not preloaded.
func (r Recipe) MealTypeName() string {
	if r.MealTypeLink == nil {
		return ""
	}
	return r.MealTypeLink.MealType.Name
}
