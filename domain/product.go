package domain

import (
	"time"
)

// CREATE TABLE public.products (
//     id          BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
//     title       TEXT NOT NULL,
//     description TEXT,
//     status      TEXT NOT NULL DEFAULT 'draft',
//     created_at  TIMESTAMPTZ DEFAULT NOW(),
//     updated_at  TIMESTAMPTZ DEFAULT NOW()
// );

const (
	ProductStatusDraft       = "draft"
	ProductStatusPublished   = "published"
	ProductStatusUnpublished = "unpublished"
)

type Product struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	Title       string    `gorm:"column:title;type:text;not null;index" json:"title"`
	Description string    `gorm:"column:description;type:text" json:"description"`
	Status      string    `gorm:"column:status;type:text;not null;default:draft" json:"status"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Product) TableName() string {
	return "products"
}

// ValidProductStatus reports whether s is one of the allowed status values.
func ValidProductStatus(s string) bool {
	return s == ProductStatusDraft || s == ProductStatusPublished || s == ProductStatusUnpublished
}

const (
	ProductImageTypeMain   = "main"
	ProductImageTypeDetail = "detail"
)

// ProductImage holds image metadata only; the bytes live wherever the URL
// points, this service never stores files itself.
type ProductImage struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID uint64    `gorm:"column:product_id;not null;index" json:"product_id"`
	Type      string    `gorm:"column:type;type:text;not null" json:"type"`
	URL       string    `gorm:"column:url;type:text;not null" json:"url"`
	SortOrder int       `gorm:"column:sort_order;default:0" json:"sort_order"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (ProductImage) TableName() string {
	return "product_images"
}

type ProductVideo struct {
	ID              uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID       uint64    `gorm:"column:product_id;not null;index" json:"product_id"`
	URL             string    `gorm:"column:url;type:text;not null" json:"url"`
	DurationSeconds int       `gorm:"column:duration_seconds" json:"duration_seconds"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (ProductVideo) TableName() string {
	return "product_videos"
}
