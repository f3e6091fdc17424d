package tracking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"shopTrace/domain"
	"shopTrace/pkg/logger"
	"shopTrace/pkg/metrics"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// profileRefreshInterval is the event cadence for recomputing a session's
// behavior profile. The trigger is read-count-then-act against the shared
// event store: under concurrent writers it may fire twice or get skipped for
// a given multiple, which is acceptable. Do not add synchronization here, it
// would change the observable trigger frequency.
const profileRefreshInterval = 5

// ---- Repository interfaces ----

type SessionRepository interface {
	FindByID(ctx context.Context, id string) (domain.UserSession, error)
	Create(ctx context.Context, session *domain.UserSession) error
	UpdateDuration(ctx context.Context, id string, durationSeconds int) error
	TouchActivity(ctx context.Context, id string, at time.Time) error
}

type EventRepository interface {
	Create(ctx context.Context, event *domain.UserEvent) error
	CountBySession(ctx context.Context, sessionID string) (int64, error)
}

type AnalyticsRepository interface {
	IncrementViewCount(ctx context.Context, productID uint64) error
}

type ProfileRepository interface {
	FindBySession(ctx context.Context, sessionID string) (domain.UserBehaviorProfile, error)
}

// ProfileCache serves profile reads without touching postgres; optional.
type ProfileCache interface {
	Get(ctx context.Context, sessionID string) (domain.UserBehaviorProfile, error)
}

// BehaviorAnalyzer recomputes and stores a session's behavior profile.
type BehaviorAnalyzer interface {
	RefreshProfile(ctx context.Context, sessionID string)
}

// ---- Service ----

type SessionMeta struct {
	UserAgent   string
	IPAddress   string
	Referrer    string
	LandingPage string
}

type EventInput struct {
	SessionID string
	EventType string
	ProductID *uint64
	Payload   map[string]any
}

type Service struct {
	sessionRepo   SessionRepository
	eventRepo     EventRepository
	analyticsRepo AnalyticsRepository
	profileRepo   ProfileRepository
	cache         ProfileCache
	analyzer      BehaviorAnalyzer
}

func NewService(
	sessionRepo SessionRepository,
	eventRepo EventRepository,
	analyticsRepo AnalyticsRepository,
	profileRepo ProfileRepository,
	cache ProfileCache,
	analyzer BehaviorAnalyzer,
) *Service {
	return &Service{
		sessionRepo:   sessionRepo,
		eventRepo:     eventRepo,
		analyticsRepo: analyticsRepo,
		profileRepo:   profileRepo,
		cache:         cache,
		analyzer:      analyzer,
	}
}

// EnsureSession resolves an existing session or creates a fresh one. An
// empty id means the visitor has no cookie yet and gets a new uuid.
func (s *Service) EnsureSession(ctx context.Context, sessionID string, meta SessionMeta) (domain.UserSession, error) {
	if err := ctx.Err(); err != nil {
		return domain.UserSession{}, fmt.Errorf("context error: %w", err)
	}

	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	session, err := s.sessionRepo.FindByID(ctx, sessionID)
	if err == nil {
		return session, nil
	}

	session = domain.UserSession{
		ID:           sessionID,
		UserAgent:    meta.UserAgent,
		IPAddress:    meta.IPAddress,
		Referrer:     meta.Referrer,
		LandingPage:  meta.LandingPage,
		LastActivity: time.Now(),
	}
	if err := s.sessionRepo.Create(ctx, &session); err != nil {
		return domain.UserSession{}, fmt.Errorf("failed to create session: %w", err)
	}

	logger.Debug("session created", "session_id", sessionID)

	return session, nil
}

// TouchSession bumps the session's last-activity timestamp.
func (s *Service) TouchSession(ctx context.Context, sessionID string) error {
	if err := s.sessionRepo.TouchActivity(ctx, sessionID, time.Now()); err != nil {
		return fmt.Errorf("failed to touch session: %w", err)
	}
	return nil
}

// RecordEvent appends an immutable event to the session's log. A
// session_end event copies its total_time payload into the session
// duration. Every profileRefreshInterval-th event triggers a behavior
// profile refresh; refresh failures never surface here.
func (s *Service) RecordEvent(ctx context.Context, input EventInput) (uint64, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("context error: %w", err)
	}
	if input.SessionID == "" {
		return 0, errors.New("session id is required")
	}
	if input.EventType == "" {
		return 0, errors.New("event type is required")
	}

	event := domain.UserEvent{
		SessionID: input.SessionID,
		EventType: input.EventType,
		ProductID: input.ProductID,
		Payload:   datatypes.JSONMap(input.Payload),
	}
	if err := s.eventRepo.Create(ctx, &event); err != nil {
		return 0, fmt.Errorf("failed to record event: %w", err)
	}

	metrics.EventsTrackedTotal.WithLabelValues(input.EventType).Inc()

	if input.EventType == domain.EventTypeSessionEnd {
		duration := intFromPayload(input.Payload, "total_time")
		if err := s.sessionRepo.UpdateDuration(ctx, input.SessionID, duration); err != nil {
			logger.Error("failed to update session duration", err, "session_id", input.SessionID)
		}
	}

	count, err := s.eventRepo.CountBySession(ctx, input.SessionID)
	if err != nil {
		logger.Error("failed to count session events", err, "session_id", input.SessionID)
		return event.ID, nil
	}
	if count > 0 && count%profileRefreshInterval == 0 {
		s.analyzer.RefreshProfile(ctx, input.SessionID)
	}

	return event.ID, nil
}

// RecordProductView logs a product_view event and bumps the product's view
// counter. Used by the product detail endpoint; it does not participate in
// the refresh cadence, only /events ingestion does.
func (s *Service) RecordProductView(ctx context.Context, sessionID string, productID uint64) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	event := domain.UserEvent{
		SessionID: sessionID,
		EventType: domain.EventTypeProductView,
		ProductID: &productID,
		Payload:   datatypes.JSONMap{"page": "product_detail"},
	}
	if err := s.eventRepo.Create(ctx, &event); err != nil {
		return fmt.Errorf("failed to record product view: %w", err)
	}

	metrics.EventsTrackedTotal.WithLabelValues(domain.EventTypeProductView).Inc()

	if err := s.analyticsRepo.IncrementViewCount(ctx, productID); err != nil {
		logger.Error("failed to increment product view count", err, "product_id", productID)
	}

	return nil
}

// Profile returns the stored behavior profile for a session, serving from
// the cache when possible.
func (s *Service) Profile(ctx context.Context, sessionID string) (domain.UserBehaviorProfile, error) {
	if s.cache != nil {
		if profile, err := s.cache.Get(ctx, sessionID); err == nil {
			return profile, nil
		}
	}

	profile, err := s.profileRepo.FindBySession(ctx, sessionID)
	if err != nil {
		return domain.UserBehaviorProfile{}, err
	}

	return profile, nil
}

// intFromPayload reads an integer-ish payload value; JSON numbers decode as
// float64.
func intFromPayload(payload map[string]any, key string) int {
	if payload == nil {
		return 0
	}
	switch v := payload[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	case int64:
		return int(v)
	default:
		return 0
	}
}
