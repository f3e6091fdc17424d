package postgres

import (
	"context"
	"fmt"

	"shopTrace/domain"

	"gorm.io/gorm"
)

type EventRepository struct {
	DB *gorm.DB
}

func NewEventRepository(db *gorm.DB) *EventRepository {
	return &EventRepository{
		DB: db,
	}
}

func (r *EventRepository) Create(ctx context.Context, event *domain.UserEvent) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).Create(event).Error; err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}

	return nil
}

// FindBySession returns the session's full event list in timestamp order.
func (r *EventRepository) FindBySession(ctx context.Context, sessionID string) ([]domain.UserEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var events []domain.UserEvent
	err := r.DB.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("timestamp ASC, id ASC").
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find session events: %w", err)
	}

	return events, nil
}

func (r *EventRepository) CountBySession(ctx context.Context, sessionID string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("context error: %w", err)
	}

	var count int64
	err := r.DB.WithContext(ctx).
		Model(&domain.UserEvent{}).
		Where("session_id = ?", sessionID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count session events: %w", err)
	}

	return count, nil
}

func (r *EventRepository) Count(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("context error: %w", err)
	}

	var count int64
	if err := r.DB.WithContext(ctx).Model(&domain.UserEvent{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count events: %w", err)
	}

	return count, nil
}

// DistinctViewedProducts returns the distinct product ids a session viewed
// via product_view events.
func (r *EventRepository) DistinctViewedProducts(ctx context.Context, sessionID string) ([]uint64, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var ids []uint64
	err := r.DB.WithContext(ctx).
		Model(&domain.UserEvent{}).
		Where("session_id = ? AND event_type = ? AND product_id IS NOT NULL",
			sessionID, domain.EventTypeProductView).
		Distinct("product_id").
		Pluck("product_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find viewed products: %w", err)
	}

	return ids, nil
}

// SessionsViewingAny returns up to limit distinct other sessions that viewed
// at least one of the given products. Each session counts once regardless of
// how many matching view events it has.
func (r *EventRepository) SessionsViewingAny(ctx context.Context, productIDs []uint64, excludeSessionID string, limit int) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}
	if len(productIDs) == 0 {
		return []string{}, nil
	}

	var sessionIDs []string
	err := r.DB.WithContext(ctx).
		Model(&domain.UserEvent{}).
		Where("event_type = ? AND product_id IN ? AND session_id <> ?",
			domain.EventTypeProductView, productIDs, excludeSessionID).
		Distinct("session_id").
		Limit(limit).
		Pluck("session_id", &sessionIDs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find co-visiting sessions: %w", err)
	}

	return sessionIDs, nil
}

// TopViewedProducts ranks products by view-event count across the given
// sessions, most viewed first, ties broken by ascending product id so the
// ordering is deterministic.
func (r *EventRepository) TopViewedProducts(ctx context.Context, sessionIDs []string, excluded []uint64, limit int) ([]uint64, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}
	if len(sessionIDs) == 0 {
		return []uint64{}, nil
	}

	query := r.DB.WithContext(ctx).
		Model(&domain.UserEvent{}).
		Where("event_type = ? AND session_id IN ? AND product_id IS NOT NULL",
			domain.EventTypeProductView, sessionIDs)
	if len(excluded) > 0 {
		query = query.Where("product_id NOT IN ?", excluded)
	}

	var ids []uint64
	err := query.
		Group("product_id").
		Order("COUNT(id) DESC, product_id ASC").
		Limit(limit).
		Pluck("product_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to rank co-visited products: %w", err)
	}

	return ids, nil
}
