package postgres

import (
	"context"
	"errors"
	"fmt"

	"shopTrace/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProfileRepository struct {
	DB *gorm.DB
}

func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{
		DB: db,
	}
}

// Upsert overwrites the session's profile row, creating it on first
// analysis. One row per session, enforced by the unique index.
func (r *ProfileRepository) Upsert(ctx context.Context, profile *domain.UserBehaviorProfile) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	err := r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "session_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"interest_categories", "engagement_score", "behavior_pattern", "last_updated",
			}),
		}).
		Create(profile).Error
	if err != nil {
		return fmt.Errorf("failed to upsert behavior profile: %w", err)
	}

	return nil
}

func (r *ProfileRepository) FindBySession(ctx context.Context, sessionID string) (domain.UserBehaviorProfile, error) {
	if err := ctx.Err(); err != nil {
		return domain.UserBehaviorProfile{}, fmt.Errorf("context error: %w", err)
	}

	var profile domain.UserBehaviorProfile
	err := r.DB.WithContext(ctx).First(&profile, "session_id = ?", sessionID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.UserBehaviorProfile{}, errors.New("behavior profile not found")
		}
		return domain.UserBehaviorProfile{}, fmt.Errorf("failed to find behavior profile: %w", err)
	}

	return profile, nil
}

// PatternDistribution counts stored profiles per behavior pattern.
func (r *ProfileRepository) PatternDistribution(ctx context.Context) (map[string]int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var rows []struct {
		BehaviorPattern string
		Total           int64
	}
	err := r.DB.WithContext(ctx).
		Model(&domain.UserBehaviorProfile{}).
		Select("behavior_pattern, COUNT(id) AS total").
		Group("behavior_pattern").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load pattern distribution: %w", err)
	}

	distribution := make(map[string]int64, len(rows))
	for _, row := range rows {
		distribution[row.BehaviorPattern] = row.Total
	}

	return distribution, nil
}
