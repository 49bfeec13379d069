package models

// Step is one instruction of a recipe. Sequence is 1-based and dense.
type Step struct {
	ID          uint   `gorm:"primaryKey" json:"-"`
	RecipeID    uint   `gorm:"not null;index" json:"-"`
	Description string `gorm:"type:text;not null" json:"description"`
	Sequence    int    `gorm:"column:step_order;not null" json:"sequence"`
}
