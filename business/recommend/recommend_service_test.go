package recommend

import (
	"context"
	"errors"
	"testing"
)

type fakeEventRepo struct {
	viewed    []uint64
	viewedErr error

	sessions    []string
	sessionsErr error

	top    []uint64
	topErr error

	gotExcluded     []uint64
	gotSessionCap   int
	gotRankedLimit  int
	gotExcludedSess string
}

func (r *fakeEventRepo) DistinctViewedProducts(_ context.Context, _ string) ([]uint64, error) {
	return r.viewed, r.viewedErr
}

func (r *fakeEventRepo) SessionsViewingAny(_ context.Context, _ []uint64, excludeSessionID string, limit int) ([]string, error) {
	r.gotExcludedSess = excludeSessionID
	r.gotSessionCap = limit
	return r.sessions, r.sessionsErr
}

func (r *fakeEventRepo) TopViewedProducts(_ context.Context, _ []string, excluded []uint64, limit int) ([]uint64, error) {
	r.gotExcluded = excluded
	r.gotRankedLimit = limit
	return r.top, r.topErr
}

type fakeCatalogRepo struct {
	popular []uint64
	err     error
	calls   int
}

func (r *fakeCatalogRepo) TopPublishedByViews(_ context.Context, limit int) ([]uint64, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	if len(r.popular) > limit {
		return r.popular[:limit], nil
	}
	return r.popular, nil
}

func TestGetRecommendations_CoVisitationTier(t *testing.T) {
	eventRepo := &fakeEventRepo{
		viewed:   []uint64{1, 2},
		sessions: []string{"other-1", "other-2"},
		top:      []uint64{5, 6, 7},
	}
	catalog := &fakeCatalogRepo{popular: []uint64{9}}
	svc := NewService(eventRepo, catalog)

	recs := svc.GetRecommendations(context.Background(), "s1", 3, 5)

	if len(recs) != 3 || recs[0] != 5 || recs[1] != 6 || recs[2] != 7 {
		t.Errorf("recs = %v, want [5 6 7]", recs)
	}
	if catalog.calls != 0 {
		t.Errorf("popularity tier called %d times, want 0", catalog.calls)
	}
	if eventRepo.gotExcludedSess != "s1" {
		t.Errorf("co-visit lookup must exclude the requesting session, got %q", eventRepo.gotExcludedSess)
	}
	if eventRepo.gotSessionCap != coVisitSessionCap {
		t.Errorf("session cap = %d, want %d", eventRepo.gotSessionCap, coVisitSessionCap)
	}
}

func TestGetRecommendations_ExcludesViewedAndCurrent(t *testing.T) {
	eventRepo := &fakeEventRepo{
		viewed:   []uint64{1, 2},
		sessions: []string{"other-1"},
		top:      []uint64{8},
	}
	svc := NewService(eventRepo, &fakeCatalogRepo{})

	svc.GetRecommendations(context.Background(), "s1", 3, 5)

	want := map[uint64]bool{1: true, 2: true, 3: true}
	if len(eventRepo.gotExcluded) != len(want) {
		t.Fatalf("excluded = %v, want ids 1,2,3", eventRepo.gotExcluded)
	}
	for _, id := range eventRepo.gotExcluded {
		if !want[id] {
			t.Errorf("unexpected excluded id %d", id)
		}
	}
}

func TestGetRecommendations_ZeroCurrentProductNotExcluded(t *testing.T) {
	eventRepo := &fakeEventRepo{
		viewed:   []uint64{1},
		sessions: []string{"other-1"},
		top:      []uint64{8},
	}
	svc := NewService(eventRepo, &fakeCatalogRepo{})

	svc.GetRecommendations(context.Background(), "s1", 0, 5)

	if len(eventRepo.gotExcluded) != 1 || eventRepo.gotExcluded[0] != 1 {
		t.Errorf("excluded = %v, want [1]", eventRepo.gotExcluded)
	}
}

func TestGetRecommendations_NoHistoryFallsBackToPopular(t *testing.T) {
	catalog := &fakeCatalogRepo{popular: []uint64{3, 4}}
	svc := NewService(&fakeEventRepo{viewed: nil}, catalog)

	recs := svc.GetRecommendations(context.Background(), "s1", 0, 5)

	if len(recs) != 2 || recs[0] != 3 || recs[1] != 4 {
		t.Errorf("recs = %v, want [3 4]", recs)
	}
	if catalog.calls != 1 {
		t.Errorf("popularity tier calls = %d, want 1", catalog.calls)
	}
}

func TestGetRecommendations_HistoryErrorFallsBackToPopular(t *testing.T) {
	catalog := &fakeCatalogRepo{popular: []uint64{3}}
	svc := NewService(&fakeEventRepo{viewedErr: errors.New("db down")}, catalog)

	recs := svc.GetRecommendations(context.Background(), "s1", 0, 5)

	if len(recs) != 1 || recs[0] != 3 {
		t.Errorf("recs = %v, want [3]", recs)
	}
}

func TestGetRecommendations_EmptyCoVisitFallsBackToPopular(t *testing.T) {
	catalog := &fakeCatalogRepo{popular: []uint64{9}}
	eventRepo := &fakeEventRepo{
		viewed:   []uint64{1},
		sessions: []string{},
	}
	svc := NewService(eventRepo, catalog)

	recs := svc.GetRecommendations(context.Background(), "s1", 0, 5)

	if len(recs) != 1 || recs[0] != 9 {
		t.Errorf("recs = %v, want [9]", recs)
	}
}

func TestGetRecommendations_TotalFailureReturnsEmptyNotNil(t *testing.T) {
	svc := NewService(
		&fakeEventRepo{viewedErr: errors.New("db down")},
		&fakeCatalogRepo{err: errors.New("db down")},
	)

	recs := svc.GetRecommendations(context.Background(), "s1", 0, 5)

	if recs == nil {
		t.Fatal("recs is nil, want empty slice")
	}
	if len(recs) != 0 {
		t.Errorf("recs = %v, want empty", recs)
	}
}

func TestGetRecommendations_NonPositiveLimit(t *testing.T) {
	eventRepo := &fakeEventRepo{viewed: []uint64{1}}
	catalog := &fakeCatalogRepo{popular: []uint64{2}}
	svc := NewService(eventRepo, catalog)

	for _, limit := range []int{0, -1} {
		recs := svc.GetRecommendations(context.Background(), "s1", 0, limit)
		if recs == nil || len(recs) != 0 {
			t.Errorf("limit %d: recs = %v, want empty", limit, recs)
		}
	}
	if catalog.calls != 0 {
		t.Errorf("no store calls expected for non-positive limits, got %d", catalog.calls)
	}
}

func TestGetRecommendations_LimitPassedToRanking(t *testing.T) {
	eventRepo := &fakeEventRepo{
		viewed:   []uint64{1},
		sessions: []string{"other-1"},
		top:      []uint64{5, 6},
	}
	svc := NewService(eventRepo, &fakeCatalogRepo{})

	recs := svc.GetRecommendations(context.Background(), "s1", 0, 2)

	if eventRepo.gotRankedLimit != 2 {
		t.Errorf("ranking limit = %d, want 2", eventRepo.gotRankedLimit)
	}
	if len(recs) > 2 {
		t.Errorf("recs = %v, exceeds limit 2", recs)
	}
}
