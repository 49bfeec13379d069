package store

import (
	"context"
	"time"

	applog "recipebox/internal/log"
	"recipebox/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	// RecentRetention is how many views are kept per user.
	RecentRetention = 10
	// DefaultRecentLimit applies when ListRecent is called without a limit.
	DefaultRecentLimit = 5
)

// RecentRecipe is a summary row of the recently-viewed list.
type RecentRecipe struct {
	RecipeID uint      `json:"recipe_id"`
	Title    string    `json:"title"`
	Image    string    `json:"image"`
	ViewedAt time.Time `json:"viewed_at"`
}

// RecentLedger keeps one row per viewed (user, recipe) pair and trims each
// user's history to RecentRetention rows.
type RecentLedger struct {
	db  *gorm.DB
	now func() time.Time
}

func NewRecentLedger(db *gorm.DB) *RecentLedger {
	return &RecentLedger{db: db, now: func() time.Time { return time.Now().UTC() }}
}

// RecordView stamps the pair with the current time and then trims the
// user's history. Zero ids are ignored.
func (l *RecentLedger) RecordView(ctx context.Context, userID, recipeID uint) error {
	if userID == 0 || recipeID == 0 {
		return nil
	}

	view := models.RecentlyViewed{UserID: userID, RecipeID: recipeID, ViewedAt: l.now()}
	err := l.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "recipe_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"viewed_at"}),
	}).Create(&view).Error
	if err != nil {
		return persistence("record view", err)
	}

	return l.trim(ctx, userID)
}

// trim runs after the view is committed and re-reads the history, so it only
// drops rows that are already older than the newest RecentRetention.
func (l *RecentLedger) trim(ctx context.Context, userID uint) error {
	tx := l.db.WithContext(ctx)

	var ids []uint
	err := tx.Model(&models.RecentlyViewed{}).
		Where("user_id = ?", userID).
		Order("viewed_at DESC").
		Order("id DESC").
		Pluck("id", &ids).Error
	if err != nil {
		return persistence("read view history", err)
	}
	if len(ids) <= RecentRetention {
		return nil
	}

	stale := ids[RecentRetention:]
	if err := tx.Where("id IN ?", stale).Delete(&models.RecentlyViewed{}).Error; err != nil {
		return persistence("trim view history", err)
	}

	applog.Debug(ctx, "view history trimmed", "user_id", userID, "removed", len(stale))
	return nil
}

// ListRecent returns up to limit active recipes, most recently viewed first.
// A limit of zero or less means DefaultRecentLimit.
func (l *RecentLedger) ListRecent(ctx context.Context, userID uint, limit int) ([]RecentRecipe, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}

	recent := []RecentRecipe{}
	err := l.db.WithContext(ctx).Table("recently_viewed").
		Select("recently_viewed.recipe_id, recipes.title, recipes.image, recently_viewed.viewed_at").
		Joins("JOIN recipes ON recipes.id = recently_viewed.recipe_id").
		Where("recently_viewed.user_id = ? AND recipes.active = ?", userID, true).
		Order("recently_viewed.viewed_at DESC").
		Order("recently_viewed.id DESC").
		Limit(limit).
		Scan(&recent).Error
	if err != nil {
		return nil, persistence("list recent views", err)
	}
	return recent, nil
}

// Clear drops the user's whole history.
func (l *RecentLedger) Clear(ctx context.Context, userID uint) error {
	err := l.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.RecentlyViewed{}).Error
	if err != nil {
		return persistence("clear view history", err)
	}
	applog.Debug(ctx, "view history cleared", "user_id", userID)
	return nil
}
