package models

import "time"

type RecentlyViewed struct {
	ID       uint      `gorm:"primaryKey"`
	UserID   uint      `gorm:"not null;uniqueIndex:idx_recently_viewed_user_recipe"`
	RecipeID uint      `gorm:"not null;uniqueIndex:idx_recently_viewed_user_recipe"`
	ViewedAt time.Time `gorm:"not null;index"`
}

func (RecentlyViewed) TableName() string {
	return "recently_viewed"
}
