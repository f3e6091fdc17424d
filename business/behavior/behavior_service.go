package behavior

import (
	"context"
	"time"

	"shopTrace/domain"
	"shopTrace/pkg/logger"
	"shopTrace/pkg/metrics"

	"gorm.io/datatypes"
)

// ---- Repository interfaces ----

type SessionRepository interface {
	FindByID(ctx context.Context, id string) (domain.UserSession, error)
}

type EventRepository interface {
	FindBySession(ctx context.Context, sessionID string) ([]domain.UserEvent, error)
}

type ProfileRepository interface {
	Upsert(ctx context.Context, profile *domain.UserBehaviorProfile) error
}

// ProfileCache keeps the freshest profile per session for cheap reads.
// Optional; a nil cache disables write-through.
type ProfileCache interface {
	Set(ctx context.Context, profile domain.UserBehaviorProfile) error
}

// ---- Results ----

// InterestSummary reports what a session looked at: up to the first 10
// distinct viewed product ids plus the true total view count, which may
// exceed 10.
type InterestSummary struct {
	ViewedProducts []uint64  `json:"viewed_products"`
	TotalViews     int       `json:"total_views"`
	LastUpdated    time.Time `json:"last_updated"`
}

const maxInterestProducts = 10

// Analysis is the full outcome of one behavior evaluation.
type Analysis struct {
	Pattern         Pattern         `json:"behavior_pattern"`
	EngagementScore float64         `json:"engagement_score"`
	Interests       InterestSummary `json:"interest_categories"`
	Features        FeatureVector   `json:"features"`
}

// defaultAnalysis is the total-failure fallback: pattern unknown, score 0.
// Deliberately distinct from the neutral 50.0 used when only scoring
// misbehaves.
func defaultAnalysis() Analysis {
	return Analysis{
		Pattern:         PatternUnknown,
		EngagementScore: 0.0,
		Interests: InterestSummary{
			ViewedProducts: []uint64{},
			TotalViews:     0,
		},
	}
}

// ---- Service ----

type Service struct {
	sessionRepo SessionRepository
	eventRepo   EventRepository
	profileRepo ProfileRepository
	cache       ProfileCache
	scoreCfg    ScoreConfig
}

func NewService(
	sessionRepo SessionRepository,
	eventRepo EventRepository,
	profileRepo ProfileRepository,
	cache ProfileCache,
	scoreCfg ScoreConfig,
) *Service {
	return &Service{
		sessionRepo: sessionRepo,
		eventRepo:   eventRepo,
		profileRepo: profileRepo,
		cache:       cache,
		scoreCfg:    scoreCfg,
	}
}

// AnalyzeBehavior evaluates a session's full event history. It is total from
// the caller's perspective: any store failure degrades to the default
// analysis instead of an error.
func (s *Service) AnalyzeBehavior(ctx context.Context, sessionID string) Analysis {
	session, err := s.sessionRepo.FindByID(ctx, sessionID)
	if err != nil {
		logger.Error("failed to load session for analysis", err, "session_id", sessionID)
		return defaultAnalysis()
	}

	events, err := s.eventRepo.FindBySession(ctx, sessionID)
	if err != nil {
		logger.Error("failed to load session events for analysis", err, "session_id", sessionID)
		return defaultAnalysis()
	}

	features := ExtractFeatures(session.Duration, events)
	score := EngagementScore(s.scoreCfg, features)
	pattern := ClassifyPattern(features, score)

	return Analysis{
		Pattern:         pattern,
		EngagementScore: score,
		Interests:       extractInterests(events),
		Features:        features,
	}
}

// RefreshProfile recomputes the analysis and overwrites the session's stored
// profile (one row per session, never appended). Failures are logged and
// swallowed so event ingestion is never blocked by profile bookkeeping.
func (s *Service) RefreshProfile(ctx context.Context, sessionID string) {
	analysis := s.AnalyzeBehavior(ctx, sessionID)

	profile := &domain.UserBehaviorProfile{
		SessionID: sessionID,
		InterestCategories: datatypes.JSONMap{
			"viewed_products": analysis.Interests.ViewedProducts,
			"total_views":     analysis.Interests.TotalViews,
			"last_updated":    analysis.Interests.LastUpdated.Format(time.RFC3339),
		},
		EngagementScore: analysis.EngagementScore,
		BehaviorPattern: string(analysis.Pattern),
		LastUpdated:     time.Now(),
	}

	if err := s.profileRepo.Upsert(ctx, profile); err != nil {
		logger.Error("failed to store behavior profile", err, "session_id", sessionID)
		return
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, *profile); err != nil {
			logger.Warn("failed to cache behavior profile", "error", err.Error(), "session_id", sessionID)
		}
	}

	metrics.ProfileRefreshTotal.Inc()

	logger.Debug("behavior profile refreshed",
		"session_id", sessionID,
		"pattern", analysis.Pattern,
		"score", analysis.EngagementScore,
	)
}

// extractInterests scans product_view events only, keeping the first
// distinct viewed ids in order.
func extractInterests(events []domain.UserEvent) InterestSummary {
	viewed := make([]uint64, 0, maxInterestProducts)
	seen := make(map[uint64]struct{})
	total := 0

	for _, e := range events {
		if e.EventType != domain.EventTypeProductView || e.ProductID == nil {
			continue
		}
		total++

		pid := *e.ProductID
		if _, ok := seen[pid]; ok {
			continue
		}
		if len(viewed) < maxInterestProducts {
			seen[pid] = struct{}{}
			viewed = append(viewed, pid)
		}
	}

	return InterestSummary{
		ViewedProducts: viewed,
		TotalViews:     total,
		LastUpdated:    time.Now().UTC(),
	}
}
