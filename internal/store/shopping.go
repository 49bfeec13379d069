package store

import (
	"context"
	"sort"
	"strings"

	applog "recipebox/internal/log"
	"recipebox/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ShoppingEntry is one line of a user's shopping list. Tracked is true when
// the line has its own shopping_lists row; derived-only lines are never
// purchased.
type ShoppingEntry struct {
	Name      string  `json:"name"`
	Quantity  *string `json:"quantity,omitempty"`
	Purchased bool    `json:"purchased"`
	Tracked   bool    `json:"tracked"`
}

// ShoppingItemInput is a manual add or edit of a tracked line.
type ShoppingItemInput struct {
	Name      string  `json:"name" validate:"required,max=255"`
	Quantity  *string `json:"quantity" validate:"omitempty,max=255"`
	Purchased bool    `json:"purchased"`
}

// ShoppingList merges ingredients of favorited active recipes with the rows
// a user tracks by hand.
type ShoppingList struct {
	db *gorm.DB
}

func NewShoppingList(db *gorm.DB) *ShoppingList {
	return &ShoppingList{db: db}
}

type derivedIngredient struct {
	Name     string
	Quantity string
}

// derived returns one ingredient per name from the user's favorited active
// recipes. The first occurrence by recipe then ingredient id wins.
func derived(tx *gorm.DB, userID uint) ([]derivedIngredient, error) {
	var rows []derivedIngredient
	err := tx.Table("ingredients").
		Select("ingredients.name, ingredients.quantity").
		Joins("JOIN recipes ON recipes.id = ingredients.recipe_id").
		Joins("JOIN ratings ON ratings.recipe_id = recipes.id").
		Where("ratings.user_id = ? AND ratings.is_favorite = ? AND recipes.active = ?", userID, true, true).
		Order("ingredients.recipe_id").
		Order("ingredients.id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(rows))
	unique := rows[:0]
	for _, row := range rows {
		if seen[row.Name] {
			continue
		}
		seen[row.Name] = true
		unique = append(unique, row)
	}
	return unique, nil
}

func optionalQuantity(quantity string) *string {
	if quantity == "" {
		return nil
	}
	return &quantity
}

// GetList returns tracked rows and derived ingredients merged by name, with
// tracked rows taking precedence. Names compare case-sensitively.
func (l *ShoppingList) GetList(ctx context.Context, userID uint) ([]ShoppingEntry, error) {
	tx := l.db.WithContext(ctx)

	ingredients, err := derived(tx, userID)
	if err != nil {
		return nil, persistence("derive shopping list", err)
	}

	var tracked []models.ShoppingItem
	if err := tx.Where("user_id = ?", userID).Find(&tracked).Error; err != nil {
		return nil, persistence("read shopping list", err)
	}

	merged := make(map[string]ShoppingEntry, len(ingredients)+len(tracked))
	for _, ing := range ingredients {
		merged[ing.Name] = ShoppingEntry{Name: ing.Name, Quantity: optionalQuantity(ing.Quantity)}
	}
	for _, item := range tracked {
		merged[item.IngredientName] = ShoppingEntry{
			Name:      item.IngredientName,
			Quantity:  item.Quantity,
			Purchased: item.Purchased,
			Tracked:   true,
		}
	}

	entries := make([]ShoppingEntry, 0, len(merged))
	for _, entry := range merged {
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}

// ImportFromFavorites copies derived ingredients into tracked rows as
// unpurchased. Names that already have a row keep their state and quantity.
func (l *ShoppingList) ImportFromFavorites(ctx context.Context, userID uint) error {
	if userID == 0 {
		return newValidationError("user is required")
	}
	tx := l.db.WithContext(ctx)

	ingredients, err := derived(tx, userID)
	if err != nil {
		return persistence("derive shopping list", err)
	}
	if len(ingredients) == 0 {
		return nil
	}

	items := make([]models.ShoppingItem, 0, len(ingredients))
	for _, ing := range ingredients {
		items = append(items, models.ShoppingItem{
			UserID:         userID,
			IngredientName: ing.Name,
			Quantity:       optionalQuantity(ing.Quantity),
		})
	}

	result := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "ingredient_name"}},
		DoNothing: true,
	}).Create(&items)
	if result.Error != nil {
		return persistence("import shopping list", result.Error)
	}

	applog.Debug(ctx, "shopping list imported", "user_id", userID, "candidates", len(items), "rows", result.RowsAffected)
	return nil
}

// SetPurchased drops the tracked row for name and, when purchased is true,
// inserts a fresh purchased row without a quantity. Turning purchased off
// therefore forgets the row and any quantity it carried.
func (l *ShoppingList) SetPurchased(ctx context.Context, userID uint, name string, purchased bool) error {
	name = strings.TrimSpace(name)
	if userID == 0 || name == "" {
		return newValidationError("user and ingredient name are required")
	}

	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("user_id = ? AND ingredient_name = ?", userID, name).
			Delete(&models.ShoppingItem{}).Error
		if err != nil || !purchased {
			return err
		}
		return tx.Create(&models.ShoppingItem{UserID: userID, IngredientName: name, Purchased: true}).Error
	})
	if err != nil {
		applog.Error(ctx, "set purchased rolled back", "user_id", userID, "ingredient", name, "error", err)
		return persistence("set purchased", err)
	}

	applog.Debug(ctx, "purchased state set", "user_id", userID, "ingredient", name, "purchased", purchased)
	return nil
}

func normalizeItem(input ShoppingItemInput) ShoppingItemInput {
	input.Name = strings.TrimSpace(input.Name)
	if input.Quantity != nil {
		quantity := strings.TrimSpace(*input.Quantity)
		input.Quantity = optionalQuantity(quantity)
	}
	return input
}

func upsertItem(tx *gorm.DB, userID uint, input ShoppingItemInput, columns ...string) error {
	item := models.ShoppingItem{
		UserID:         userID,
		IngredientName: input.Name,
		Quantity:       input.Quantity,
		Purchased:      input.Purchased,
	}
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "ingredient_name"}},
		DoUpdates: clause.AssignmentColumns(columns),
	}).Create(&item).Error
}

// AddItem tracks name with the given quantity. An existing row keeps its
// purchased flag and takes the new quantity.
func (l *ShoppingList) AddItem(ctx context.Context, userID uint, input ShoppingItemInput) error {
	input = normalizeItem(input)
	if userID == 0 {
		return newValidationError("user is required")
	}
	if err := validateStruct(input); err != nil {
		return err
	}

	if err := upsertItem(l.db.WithContext(ctx), userID, input, "quantity"); err != nil {
		return persistence("add shopping item", err)
	}

	applog.Debug(ctx, "shopping item added", "user_id", userID, "ingredient", input.Name)
	return nil
}

// UpdateItem rewrites the tracked row oldName as input. A row already named
// input.Name is replaced. When oldName is not tracked the item is inserted.
func (l *ShoppingList) UpdateItem(ctx context.Context, userID uint, oldName string, input ShoppingItemInput) error {
	oldName = strings.TrimSpace(oldName)
	input = normalizeItem(input)
	if userID == 0 || oldName == "" {
		return newValidationError("user and current ingredient name are required")
	}
	if err := validateStruct(input); err != nil {
		return err
	}

	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if input.Name != oldName {
			err := tx.Where("user_id = ? AND ingredient_name = ?", userID, input.Name).
				Delete(&models.ShoppingItem{}).Error
			if err != nil {
				return err
			}
		}

		result := tx.Model(&models.ShoppingItem{}).
			Where("user_id = ? AND ingredient_name = ?", userID, oldName).
			Updates(map[string]any{
				"ingredient_name": input.Name,
				"quantity":        input.Quantity,
				"purchased":       input.Purchased,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected > 0 {
			return nil
		}
		return upsertItem(tx, userID, input, "quantity", "purchased")
	})
	if err != nil {
		applog.Error(ctx, "update shopping item rolled back", "user_id", userID, "ingredient", oldName, "error", err)
		return persistence("update shopping item", err)
	}

	applog.Debug(ctx, "shopping item updated", "user_id", userID, "from", oldName, "to", input.Name)
	return nil
}

// RemoveItem stops tracking name. Removing an untracked name is a no-op.
func (l *ShoppingList) RemoveItem(ctx context.Context, userID uint, name string) error {
	name = strings.TrimSpace(name)
	if userID == 0 || name == "" {
		return newValidationError("user and ingredient name are required")
	}

	err := l.db.WithContext(ctx).
		Where("user_id = ? AND ingredient_name = ?", userID, name).
		Delete(&models.ShoppingItem{}).Error
	if err != nil {
		return persistence("remove shopping item", err)
	}

	applog.Debug(ctx, "shopping item removed", "user_id", userID, "ingredient", name)
	return nil
}
