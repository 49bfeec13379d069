package models

// Default meal-type catalogue, seeded in this order.
var DefaultMealTypes = []string{"Breakfast", "Lunch", "Dinner", "Snack", "Dessert", "Other"}

type MealType struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"type:varchar(64);uniqueIndex;not null" json:"name"`
}

// RecipeMealType links a recipe to at most one meal type; RecipeID is the key.
type RecipeMealType struct {
	RecipeID   uint     `gorm:"primaryKey;autoIncrement:false"`
	MealTypeID uint     `gorm:"not null;index"`
	MealType   MealType `gorm:"foreignKey:MealTypeID"`
}
