package domain

import (
	"time"

	"gorm.io/datatypes"
)

// CREATE TABLE public.user_sessions (
//     id            VARCHAR(64) PRIMARY KEY,
//     user_agent    TEXT,
//     ip_address    VARCHAR(45),
//     referrer      TEXT,
//     landing_page  TEXT,
//     duration      INTEGER DEFAULT 0,
//     created_at    TIMESTAMPTZ DEFAULT NOW(),
//     last_activity TIMESTAMPTZ DEFAULT NOW()
// );

type UserSession struct {
	ID           string    `gorm:"primaryKey;type:varchar(64)" json:"id"`
	UserAgent    string    `gorm:"column:user_agent;type:text" json:"user_agent"`
	IPAddress    string    `gorm:"column:ip_address;type:varchar(45)" json:"ip_address"`
	Referrer     string    `gorm:"column:referrer;type:text" json:"referrer"`
	LandingPage  string    `gorm:"column:landing_page;type:text" json:"landing_page"`
	Duration     int       `gorm:"column:duration;default:0" json:"duration"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	LastActivity time.Time `gorm:"column:last_activity" json:"last_activity"`
}

func (UserSession) TableName() string {
	return "user_sessions"
}

// Event types the score engine counts explicitly. Any other type is still
// recorded and contributes to total_events.
const (
	EventTypeProductView = "product_view"
	EventTypeImageClick  = "image_click"
	EventTypeVideoPlay   = "video_play"
	EventTypeSessionEnd  = "session_end"
)

// UserEvent is immutable once recorded; ordered by timestamp within a session.
type UserEvent struct {
	ID        uint64            `gorm:"primaryKey;autoIncrement" json:"id"`
	SessionID string            `gorm:"column:session_id;type:varchar(64);not null;index:idx_session_event" json:"session_id"`
	EventType string            `gorm:"column:event_type;type:varchar(50);not null;index:idx_session_event" json:"event_type"`
	ProductID *uint64           `gorm:"column:product_id;index:idx_product_events" json:"product_id"`
	Payload   datatypes.JSONMap `gorm:"column:payload;type:jsonb" json:"payload"`
	Timestamp time.Time         `gorm:"column:timestamp;autoCreateTime;index" json:"timestamp"`
}

func (UserEvent) TableName() string {
	return "user_events"
}
