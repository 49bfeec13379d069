package models

// ShoppingItem is a tracked shopping-list row. It is a point-in-time copy of
// an ingredient name, never a reference to an ingredient row.
type ShoppingItem struct {
	UserID         uint    `gorm:"primaryKey;autoIncrement:false"`
	IngredientName string  `gorm:"primaryKey;type:varchar(255)"`
	Quantity       *string `gorm:"type:varchar(255)"`
	Purchased      bool    `gorm:"not null"`
}

func (ShoppingItem) TableName() string {
	return "shopping_lists"
}
