package models

// Ingredient is a free-text line item of a recipe.
type Ingredient struct {
	ID       uint   `gorm:"primaryKey" json:"-"`
	RecipeID uint   `gorm:"not null;index" json:"-"`
	Name     string `gorm:"not null" json:"name"`
	Quantity string `json:"quantity"`
}
