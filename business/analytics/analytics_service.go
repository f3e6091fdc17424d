package analytics

import (
	"context"
	"fmt"
	"time"

	"shopTrace/domain"
	"shopTrace/pkg/logger"
)

const popularProductCount = 5

// ---- Repository interfaces ----

type SessionRepository interface {
	Count(ctx context.Context) (int64, error)
	CountCreatedSince(ctx context.Context, since time.Time) (int64, error)
}

type EventRepository interface {
	Count(ctx context.Context) (int64, error)
}

type ProductRepository interface {
	CountByStatus(ctx context.Context, status string) (int64, error)
}

type AnalyticsRepository interface {
	PopularPublished(ctx context.Context, limit int) ([]domain.PopularProduct, error)
}

type ProfileRepository interface {
	PatternDistribution(ctx context.Context) (map[string]int64, error)
}

// ---- Results ----

type Summary struct {
	TotalSessions int64 `json:"total_sessions"`
	TotalEvents   int64 `json:"total_events"`
	TotalProducts int64 `json:"total_products"`
	TodaySessions int64 `json:"today_sessions"`
}

type Dashboard struct {
	Summary              Summary                 `json:"summary"`
	PopularProducts      []domain.PopularProduct `json:"popular_products"`
	BehaviorDistribution map[string]int64        `json:"behavior_distribution"`
}

// ---- Service ----

type analyticsService struct {
	sessionRepo   SessionRepository
	eventRepo     EventRepository
	productRepo   ProductRepository
	analyticsRepo AnalyticsRepository
	profileRepo   ProfileRepository
}

func NewAnalyticsService(
	sessionRepo SessionRepository,
	eventRepo EventRepository,
	productRepo ProductRepository,
	analyticsRepo AnalyticsRepository,
	profileRepo ProfileRepository,
) *analyticsService {
	return &analyticsService{
		sessionRepo:   sessionRepo,
		eventRepo:     eventRepo,
		productRepo:   productRepo,
		analyticsRepo: analyticsRepo,
		profileRepo:   profileRepo,
	}
}

func (s *analyticsService) GetDashboard(ctx context.Context) (Dashboard, error) {
	if err := ctx.Err(); err != nil {
		return Dashboard{}, fmt.Errorf("context error: %w", err)
	}

	totalSessions, err := s.sessionRepo.Count(ctx)
	if err != nil {
		logger.Error("failed to count sessions", err)
		return Dashboard{}, err
	}

	totalEvents, err := s.eventRepo.Count(ctx)
	if err != nil {
		logger.Error("failed to count events", err)
		return Dashboard{}, err
	}

	totalProducts, err := s.productRepo.CountByStatus(ctx, domain.ProductStatusPublished)
	if err != nil {
		logger.Error("failed to count published products", err)
		return Dashboard{}, err
	}

	startOfDay := time.Now().UTC().Truncate(24 * time.Hour)
	todaySessions, err := s.sessionRepo.CountCreatedSince(ctx, startOfDay)
	if err != nil {
		logger.Error("failed to count today's sessions", err)
		return Dashboard{}, err
	}

	popular, err := s.analyticsRepo.PopularPublished(ctx, popularProductCount)
	if err != nil {
		logger.Error("failed to load popular products", err)
		return Dashboard{}, err
	}
	if popular == nil {
		popular = []domain.PopularProduct{}
	}

	distribution, err := s.profileRepo.PatternDistribution(ctx)
	if err != nil {
		logger.Error("failed to load behavior distribution", err)
		return Dashboard{}, err
	}

	return Dashboard{
		Summary: Summary{
			TotalSessions: totalSessions,
			TotalEvents:   totalEvents,
			TotalProducts: totalProducts,
			TodaySessions: todaySessions,
		},
		PopularProducts:      popular,
		BehaviorDistribution: distribution,
	}, nil
}
