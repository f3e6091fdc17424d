package recommend

import (
	"context"
	"fmt"

	"shopTrace/pkg/logger"
	"shopTrace/pkg/metrics"
)

// coVisitSessionCap bounds how many contributing sessions the co-visitation
// lookup may touch. Fixed constant, not a tunable: it exists to cap
// worst-case query cost.
const coVisitSessionCap = 100

// DefaultLimit is the result-count limit applied when the caller does not
// ask for a specific one.
const DefaultLimit = 5

// ---- Repository interfaces ----

type EventRepository interface {
	// DistinctViewedProducts returns the distinct product ids the session
	// has viewed via product_view events.
	DistinctViewedProducts(ctx context.Context, sessionID string) ([]uint64, error)

	// SessionsViewingAny returns up to limit distinct session ids, other
	// than excludeSessionID, with at least one product_view of any given
	// product.
	SessionsViewingAny(ctx context.Context, productIDs []uint64, excludeSessionID string, limit int) ([]string, error)

	// TopViewedProducts counts product_view occurrences per product across
	// the given sessions, skipping excluded and null product ids, and
	// returns the top-limit ids by descending count (ties by ascending id).
	TopViewedProducts(ctx context.Context, sessionIDs []string, excluded []uint64, limit int) ([]uint64, error)
}

type CatalogRepository interface {
	// TopPublishedByViews returns published product ids ordered by
	// descending stored view count.
	TopPublishedByViews(ctx context.Context, limit int) ([]uint64, error)
}

// ---- Service ----

type Service struct {
	eventRepo   EventRepository
	catalogRepo CatalogRepository
}

func NewService(eventRepo EventRepository, catalogRepo CatalogRepository) *Service {
	return &Service{
		eventRepo:   eventRepo,
		catalogRepo: catalogRepo,
	}
}

// GetRecommendations produces a ranked, de-duplicated list of product ids
// for a session. currentProductID of 0 means no product is being viewed.
// The result never exceeds limit, never contains the session's viewed
// products or the current product, and the call never fails: every internal
// error degrades to the popularity tier and finally to an empty list.
func (s *Service) GetRecommendations(ctx context.Context, sessionID string, currentProductID uint64, limit int) []uint64 {
	if limit <= 0 {
		return []uint64{}
	}

	viewed, err := s.eventRepo.DistinctViewedProducts(ctx, sessionID)
	if err != nil {
		logger.Error("failed to load view history", err, "session_id", sessionID)
		return s.popularFallback(ctx, limit)
	}

	// no personalization signal yet, go straight to global popularity
	if len(viewed) == 0 {
		return s.popularFallback(ctx, limit)
	}

	recs, err := s.similarProducts(ctx, sessionID, viewed, currentProductID, limit)
	if err != nil {
		logger.Error("co-visitation lookup failed", err, "session_id", sessionID)
		return s.popularFallback(ctx, limit)
	}
	if len(recs) == 0 {
		return s.popularFallback(ctx, limit)
	}

	metrics.RecommendServedTotal.WithLabelValues("covisit").Inc()
	return recs
}

// similarProducts is the personalized tier: find sessions that co-visited
// any of the viewed products, then rank what else those sessions looked at.
func (s *Service) similarProducts(
	ctx context.Context,
	sessionID string,
	viewed []uint64,
	currentProductID uint64,
	limit int,
) ([]uint64, error) {

	excluded := make([]uint64, 0, len(viewed)+1)
	excluded = append(excluded, viewed...)
	if currentProductID != 0 {
		excluded = append(excluded, currentProductID)
	}

	sessions, err := s.eventRepo.SessionsViewingAny(ctx, viewed, sessionID, coVisitSessionCap)
	if err != nil {
		return nil, fmt.Errorf("find co-visiting sessions: %w", err)
	}
	if len(sessions) == 0 {
		return []uint64{}, nil
	}

	recs, err := s.eventRepo.TopViewedProducts(ctx, sessions, excluded, limit)
	if err != nil {
		return nil, fmt.Errorf("rank co-visited products: %w", err)
	}

	return recs, nil
}

// popularFallback is the last tier: published products by stored view count.
// It must never fail the overall request, so even its own errors collapse to
// an empty result.
func (s *Service) popularFallback(ctx context.Context, limit int) []uint64 {
	popular, err := s.catalogRepo.TopPublishedByViews(ctx, limit)
	if err != nil {
		logger.Error("popularity fallback failed", err)
		metrics.RecommendServedTotal.WithLabelValues("empty").Inc()
		return []uint64{}
	}
	if popular == nil {
		popular = []uint64{}
	}

	metrics.RecommendServedTotal.WithLabelValues("popular").Inc()
	return popular
}
