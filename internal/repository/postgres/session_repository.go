package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"shopTrace/domain"

	"gorm.io/gorm"
)

type SessionRepository struct {
	DB *gorm.DB
}

func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{
		DB: db,
	}
}

func (r *SessionRepository) FindByID(ctx context.Context, id string) (domain.UserSession, error) {
	if err := ctx.Err(); err != nil {
		return domain.UserSession{}, fmt.Errorf("context error: %w", err)
	}

	var session domain.UserSession
	err := r.DB.WithContext(ctx).First(&session, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.UserSession{}, errors.New("session not found")
		}
		return domain.UserSession{}, fmt.Errorf("failed to find session: %w", err)
	}

	return session, nil
}

func (r *SessionRepository) Create(ctx context.Context, session *domain.UserSession) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).Create(session).Error; err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}

	return nil
}

func (r *SessionRepository) UpdateDuration(ctx context.Context, id string, durationSeconds int) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	result := r.DB.WithContext(ctx).
		Model(&domain.UserSession{}).
		Where("id = ?", id).
		Update("duration", durationSeconds)
	if result.Error != nil {
		return fmt.Errorf("failed to update session duration: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.New("session not found")
	}

	return nil
}

func (r *SessionRepository) TouchActivity(ctx context.Context, id string, at time.Time) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	err := r.DB.WithContext(ctx).
		Model(&domain.UserSession{}).
		Where("id = ?", id).
		Update("last_activity", at).Error
	if err != nil {
		return fmt.Errorf("failed to touch session: %w", err)
	}

	return nil
}

func (r *SessionRepository) Count(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("context error: %w", err)
	}

	var count int64
	if err := r.DB.WithContext(ctx).Model(&domain.UserSession{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count sessions: %w", err)
	}

	return count, nil
}

func (r *SessionRepository) CountCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("context error: %w", err)
	}

	var count int64
	err := r.DB.WithContext(ctx).
		Model(&domain.UserSession{}).
		Where("created_at >= ?", since).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count recent sessions: %w", err)
	}

	return count, nil
}
