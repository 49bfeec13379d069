package models

// Rating holds a user's favorite flag for a recipe. The table keeps the name
// the original schema used.
type Rating struct {
	UserID     uint `gorm:"primaryKey;autoIncrement:false"`
	RecipeID   uint `gorm:"primaryKey;autoIncrement:false;index"`
	IsFavorite bool `gorm:"not null"`
}
