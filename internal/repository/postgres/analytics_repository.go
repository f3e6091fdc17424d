package postgres

import (
	"context"
	"fmt"
	"time"

	"shopTrace/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AnalyticsRepository struct {
	DB *gorm.DB
}

func NewAnalyticsRepository(db *gorm.DB) *AnalyticsRepository {
	return &AnalyticsRepository{
		DB: db,
	}
}

// Ensure creates the counter row for a product if it does not exist yet.
func (r *AnalyticsRepository) Ensure(ctx context.Context, productID uint64) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	row := domain.ProductAnalytics{ProductID: productID, LastUpdated: time.Now()}
	err := r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "product_id"}},
			DoNothing: true,
		}).
		Create(&row).Error
	if err != nil {
		return fmt.Errorf("failed to ensure analytics row: %w", err)
	}

	return nil
}

// IncrementViewCount bumps the per-product view counter, creating the row on
// first view.
func (r *AnalyticsRepository) IncrementViewCount(ctx context.Context, productID uint64) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	now := time.Now()
	row := domain.ProductAnalytics{ProductID: productID, ViewCount: 1, LastUpdated: now}
	err := r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "product_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"view_count":   gorm.Expr("product_analytics.view_count + 1"),
				"last_updated": now,
			}),
		}).
		Create(&row).Error
	if err != nil {
		return fmt.Errorf("failed to increment view count: %w", err)
	}

	return nil
}

// TopPublishedByViews returns published product ids by descending stored
// view count. Ties break on ascending product id for a stable ordering.
func (r *AnalyticsRepository) TopPublishedByViews(ctx context.Context, limit int) ([]uint64, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var ids []uint64
	err := r.DB.WithContext(ctx).
		Model(&domain.ProductAnalytics{}).
		Joins("JOIN products ON products.id = product_analytics.product_id").
		Where("products.status = ?", domain.ProductStatusPublished).
		Order("product_analytics.view_count DESC, product_analytics.product_id ASC").
		Limit(limit).
		Pluck("product_analytics.product_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find popular products: %w", err)
	}

	return ids, nil
}

// PopularPublished returns the top published products joined with their
// counters, for the dashboard.
func (r *AnalyticsRepository) PopularPublished(ctx context.Context, limit int) ([]domain.PopularProduct, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var counters []domain.ProductAnalytics
	err := r.DB.WithContext(ctx).
		Model(&domain.ProductAnalytics{}).
		Joins("JOIN products ON products.id = product_analytics.product_id").
		Where("products.status = ?", domain.ProductStatusPublished).
		Order("product_analytics.view_count DESC, product_analytics.product_id ASC").
		Limit(limit).
		Find(&counters).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find popular products: %w", err)
	}
	if len(counters) == 0 {
		return []domain.PopularProduct{}, nil
	}

	productIDs := make([]uint64, 0, len(counters))
	for _, c := range counters {
		productIDs = append(productIDs, c.ProductID)
	}

	var products []domain.Product
	if err := r.DB.WithContext(ctx).Where("id IN ?", productIDs).Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to load popular product details: %w", err)
	}

	byID := make(map[uint64]domain.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	popular := make([]domain.PopularProduct, 0, len(counters))
	for _, c := range counters {
		p, ok := byID[c.ProductID]
		if !ok {
			continue
		}
		popular = append(popular, domain.PopularProduct{
			Product:    p,
			ViewCount:  c.ViewCount,
			ClickCount: c.ClickCount,
		})
	}

	return popular, nil
}
