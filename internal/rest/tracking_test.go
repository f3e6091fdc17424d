package rest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"shopTrace/business/tracking"
	"shopTrace/domain"
	"shopTrace/internal/middleware"

	"github.com/labstack/echo/v4"
)

type fakeTrackingService struct {
	recorded []tracking.EventInput
	profile  domain.UserBehaviorProfile
}

func (s *fakeTrackingService) RecordEvent(_ context.Context, input tracking.EventInput) (uint64, error) {
	s.recorded = append(s.recorded, input)
	return uint64(len(s.recorded)), nil
}

func (s *fakeTrackingService) Profile(_ context.Context, _ string) (domain.UserBehaviorProfile, error) {
	return s.profile, nil
}

func postEvent(t *testing.T, handler *TrackingHandler, sessionID, body string) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/events", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if sessionID != "" {
		c.Set(middleware.ContextSessionID, sessionID)
	}

	if err := handler.TrackEvent(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	return rec
}

func TestTrackEvent_AcceptsUnknownEventTypes(t *testing.T) {
	svc := &fakeTrackingService{}
	handler := NewTrackingHandler(svc)

	rec := postEvent(t, handler, "s1", `{"event_type":"page_view"}`)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d (body: %s)", rec.Code, http.StatusCreated, rec.Body.String())
	}
	if len(svc.recorded) != 1 {
		t.Fatalf("recorded = %d, want 1", len(svc.recorded))
	}
	if svc.recorded[0].EventType != "page_view" {
		t.Errorf("event type = %q, want page_view passed through unchanged", svc.recorded[0].EventType)
	}
	if svc.recorded[0].SessionID != "s1" {
		t.Errorf("session id = %q, want s1", svc.recorded[0].SessionID)
	}
}

func TestTrackEvent_RejectsEmptyEventType(t *testing.T) {
	svc := &fakeTrackingService{}
	handler := NewTrackingHandler(svc)

	rec := postEvent(t, handler, "s1", `{"event_type":""}`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
	if len(svc.recorded) != 0 {
		t.Errorf("recorded = %d, want 0", len(svc.recorded))
	}
}

func TestTrackEvent_RequiresSession(t *testing.T) {
	svc := &fakeTrackingService{}
	handler := NewTrackingHandler(svc)

	rec := postEvent(t, handler, "", `{"event_type":"product_view"}`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
	if len(svc.recorded) != 0 {
		t.Errorf("recorded = %d, want 0", len(svc.recorded))
	}
}
