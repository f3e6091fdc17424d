package tracking

import (
	"context"
	"errors"
	"testing"
	"time"

	"shopTrace/domain"
)

type fakeSessionRepo struct {
	sessions map[string]domain.UserSession
	created  []domain.UserSession

	durations map[string]int
	findErr   error
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{
		sessions:  make(map[string]domain.UserSession),
		durations: make(map[string]int),
	}
}

func (r *fakeSessionRepo) FindByID(_ context.Context, id string) (domain.UserSession, error) {
	if r.findErr != nil {
		return domain.UserSession{}, r.findErr
	}
	s, ok := r.sessions[id]
	if !ok {
		return domain.UserSession{}, errors.New("session not found")
	}
	return s, nil
}

func (r *fakeSessionRepo) Create(_ context.Context, session *domain.UserSession) error {
	r.sessions[session.ID] = *session
	r.created = append(r.created, *session)
	return nil
}

func (r *fakeSessionRepo) UpdateDuration(_ context.Context, id string, durationSeconds int) error {
	r.durations[id] = durationSeconds
	return nil
}

func (r *fakeSessionRepo) TouchActivity(_ context.Context, _ string, _ time.Time) error {
	return nil
}

type fakeEventRepo struct {
	events   []domain.UserEvent
	count    int64
	countErr error
}

func (r *fakeEventRepo) Create(_ context.Context, event *domain.UserEvent) error {
	event.ID = uint64(len(r.events) + 1)
	r.events = append(r.events, *event)
	return nil
}

func (r *fakeEventRepo) CountBySession(_ context.Context, _ string) (int64, error) {
	if r.countErr != nil {
		return 0, r.countErr
	}
	return r.count, nil
}

type fakeAnalyticsRepo struct {
	incremented []uint64
}

func (r *fakeAnalyticsRepo) IncrementViewCount(_ context.Context, productID uint64) error {
	r.incremented = append(r.incremented, productID)
	return nil
}

type fakeProfileRepo struct {
	profile domain.UserBehaviorProfile
	err     error
	calls   int
}

func (r *fakeProfileRepo) FindBySession(_ context.Context, _ string) (domain.UserBehaviorProfile, error) {
	r.calls++
	return r.profile, r.err
}

type fakeProfileCache struct {
	profile domain.UserBehaviorProfile
	err     error
}

func (c *fakeProfileCache) Get(_ context.Context, _ string) (domain.UserBehaviorProfile, error) {
	return c.profile, c.err
}

type fakeAnalyzer struct {
	refreshed []string
}

func (a *fakeAnalyzer) RefreshProfile(_ context.Context, sessionID string) {
	a.refreshed = append(a.refreshed, sessionID)
}

func newTestService(sessionRepo *fakeSessionRepo, eventRepo *fakeEventRepo, analyzer *fakeAnalyzer) (*Service, *fakeAnalyticsRepo) {
	analyticsRepo := &fakeAnalyticsRepo{}
	svc := NewService(sessionRepo, eventRepo, analyticsRepo, &fakeProfileRepo{}, nil, analyzer)
	return svc, analyticsRepo
}

func TestEnsureSession_CreatesWithFreshID(t *testing.T) {
	sessionRepo := newFakeSessionRepo()
	svc, _ := newTestService(sessionRepo, &fakeEventRepo{}, &fakeAnalyzer{})

	session, err := svc.EnsureSession(context.Background(), "", SessionMeta{
		UserAgent:   "test-agent",
		LandingPage: "/products/1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if session.ID == "" {
		t.Fatal("session id should be generated")
	}
	if len(sessionRepo.created) != 1 {
		t.Fatalf("created = %d, want 1", len(sessionRepo.created))
	}
	if sessionRepo.created[0].UserAgent != "test-agent" {
		t.Errorf("UserAgent = %q, want test-agent", sessionRepo.created[0].UserAgent)
	}
}

func TestEnsureSession_ReturnsExisting(t *testing.T) {
	sessionRepo := newFakeSessionRepo()
	sessionRepo.sessions["s1"] = domain.UserSession{ID: "s1", UserAgent: "old-agent"}
	svc, _ := newTestService(sessionRepo, &fakeEventRepo{}, &fakeAnalyzer{})

	session, err := svc.EnsureSession(context.Background(), "s1", SessionMeta{UserAgent: "new-agent"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if session.UserAgent != "old-agent" {
		t.Errorf("existing session should not be overwritten, got agent %q", session.UserAgent)
	}
	if len(sessionRepo.created) != 0 {
		t.Errorf("created = %d, want 0", len(sessionRepo.created))
	}
}

func TestRecordEvent_Validation(t *testing.T) {
	svc, _ := newTestService(newFakeSessionRepo(), &fakeEventRepo{}, &fakeAnalyzer{})

	if _, err := svc.RecordEvent(context.Background(), EventInput{EventType: "product_view"}); err == nil {
		t.Error("expected error for missing session id")
	}
	if _, err := svc.RecordEvent(context.Background(), EventInput{SessionID: "s1"}); err == nil {
		t.Error("expected error for missing event type")
	}
}

func TestRecordEvent_RefreshTriggersOnMultipleOfFive(t *testing.T) {
	cases := []struct {
		count       int64
		wantRefresh int
	}{
		{count: 4, wantRefresh: 0},
		{count: 5, wantRefresh: 1},
		{count: 7, wantRefresh: 0},
		{count: 10, wantRefresh: 1},
	}

	for _, tc := range cases {
		analyzer := &fakeAnalyzer{}
		eventRepo := &fakeEventRepo{count: tc.count}
		svc, _ := newTestService(newFakeSessionRepo(), eventRepo, analyzer)

		_, err := svc.RecordEvent(context.Background(), EventInput{
			SessionID: "s1",
			EventType: domain.EventTypeImageClick,
		})
		if err != nil {
			t.Fatalf("count %d: unexpected error: %v", tc.count, err)
		}
		if len(analyzer.refreshed) != tc.wantRefresh {
			t.Errorf("count %d: refreshes = %d, want %d", tc.count, len(analyzer.refreshed), tc.wantRefresh)
		}
	}
}

func TestRecordEvent_CountFailureSkipsRefreshNotEvent(t *testing.T) {
	analyzer := &fakeAnalyzer{}
	eventRepo := &fakeEventRepo{countErr: errors.New("db down")}
	svc, _ := newTestService(newFakeSessionRepo(), eventRepo, analyzer)

	eventID, err := svc.RecordEvent(context.Background(), EventInput{
		SessionID: "s1",
		EventType: domain.EventTypeProductView,
	})
	if err != nil {
		t.Fatalf("event must still be recorded, got error: %v", err)
	}
	if eventID == 0 {
		t.Error("event id should be set")
	}
	if len(analyzer.refreshed) != 0 {
		t.Errorf("refreshes = %d, want 0", len(analyzer.refreshed))
	}
}

func TestRecordEvent_SessionEndCopiesDuration(t *testing.T) {
	sessionRepo := newFakeSessionRepo()
	svc, _ := newTestService(sessionRepo, &fakeEventRepo{count: 1}, &fakeAnalyzer{})

	// JSON numbers decode as float64
	_, err := svc.RecordEvent(context.Background(), EventInput{
		SessionID: "s1",
		EventType: domain.EventTypeSessionEnd,
		Payload:   map[string]any{"total_time": float64(245)},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := sessionRepo.durations["s1"]; got != 245 {
		t.Errorf("duration = %d, want 245", got)
	}
}

func TestRecordEvent_SessionEndWithoutTotalTime(t *testing.T) {
	sessionRepo := newFakeSessionRepo()
	svc, _ := newTestService(sessionRepo, &fakeEventRepo{count: 1}, &fakeAnalyzer{})

	_, err := svc.RecordEvent(context.Background(), EventInput{
		SessionID: "s1",
		EventType: domain.EventTypeSessionEnd,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := sessionRepo.durations["s1"]; got != 0 {
		t.Errorf("duration = %d, want 0 for missing payload", got)
	}
}

func TestRecordProductView_BumpsCounterWithoutRefresh(t *testing.T) {
	analyzer := &fakeAnalyzer{}
	eventRepo := &fakeEventRepo{count: 5}
	svc, analyticsRepo := newTestService(newFakeSessionRepo(), eventRepo, analyzer)

	if err := svc.RecordProductView(context.Background(), "s1", 42); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(eventRepo.events) != 1 {
		t.Fatalf("events = %d, want 1", len(eventRepo.events))
	}
	if eventRepo.events[0].EventType != domain.EventTypeProductView {
		t.Errorf("event type = %q, want product_view", eventRepo.events[0].EventType)
	}
	if len(analyticsRepo.incremented) != 1 || analyticsRepo.incremented[0] != 42 {
		t.Errorf("incremented = %v, want [42]", analyticsRepo.incremented)
	}
	if len(analyzer.refreshed) != 0 {
		t.Errorf("detail views must not trigger a refresh, got %d", len(analyzer.refreshed))
	}
}

func TestProfile_CacheHitSkipsStore(t *testing.T) {
	profileRepo := &fakeProfileRepo{}
	cache := &fakeProfileCache{profile: domain.UserBehaviorProfile{SessionID: "s1", BehaviorPattern: "bounce"}}
	svc := NewService(newFakeSessionRepo(), &fakeEventRepo{}, &fakeAnalyticsRepo{}, profileRepo, cache, &fakeAnalyzer{})

	profile, err := svc.Profile(context.Background(), "s1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if profile.BehaviorPattern != "bounce" {
		t.Errorf("pattern = %q, want bounce", profile.BehaviorPattern)
	}
	if profileRepo.calls != 0 {
		t.Errorf("store calls = %d, want 0 on cache hit", profileRepo.calls)
	}
}

func TestProfile_CacheMissFallsBackToStore(t *testing.T) {
	profileRepo := &fakeProfileRepo{profile: domain.UserBehaviorProfile{SessionID: "s1", BehaviorPattern: "moderate_engagement"}}
	cache := &fakeProfileCache{err: errors.New("profile not cached")}
	svc := NewService(newFakeSessionRepo(), &fakeEventRepo{}, &fakeAnalyticsRepo{}, profileRepo, cache, &fakeAnalyzer{})

	profile, err := svc.Profile(context.Background(), "s1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if profile.BehaviorPattern != "moderate_engagement" {
		t.Errorf("pattern = %q, want moderate_engagement", profile.BehaviorPattern)
	}
	if profileRepo.calls != 1 {
		t.Errorf("store calls = %d, want 1", profileRepo.calls)
	}
}
