package domain

import (
	"time"

	"gorm.io/datatypes"
)

// UserBehaviorProfile is the stored result of the behavior analysis. One row
// per session, overwritten on every refresh.
type UserBehaviorProfile struct {
	ID                 uint64            `gorm:"primaryKey;autoIncrement" json:"id"`
	SessionID          string            `gorm:"column:session_id;type:varchar(64);uniqueIndex;not null" json:"session_id"`
	InterestCategories datatypes.JSONMap `gorm:"column:interest_categories;type:jsonb" json:"interest_categories"`
	EngagementScore    float64           `gorm:"column:engagement_score;default:0" json:"engagement_score"`
	BehaviorPattern    string            `gorm:"column:behavior_pattern;type:varchar(50)" json:"behavior_pattern"`
	LastUpdated        time.Time         `gorm:"column:last_updated" json:"last_updated"`
}

func (UserBehaviorProfile) TableName() string {
	return "user_behavior_profiles"
}

// ProductAnalytics keeps per-product aggregate counters, one row per product.
type ProductAnalytics struct {
	ID             uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID      uint64    `gorm:"column:product_id;uniqueIndex;not null" json:"product_id"`
	ViewCount      int64     `gorm:"column:view_count;default:0" json:"view_count"`
	ClickCount     int64     `gorm:"column:click_count;default:0" json:"click_count"`
	VideoPlayCount int64     `gorm:"column:video_play_count;default:0" json:"video_play_count"`
	LastUpdated    time.Time `gorm:"column:last_updated" json:"last_updated"`
}

func (ProductAnalytics) TableName() string {
	return "product_analytics"
}

// PopularProduct is a catalog product joined with its view counters, used by
// the dashboard.
type PopularProduct struct {
	Product    Product `json:"product"`
	ViewCount  int64   `json:"views"`
	ClickCount int64   `json:"clicks"`
}
