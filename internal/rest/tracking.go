package rest

import (
	"context"
	"net/http"
	"time"

	"shopTrace/business/tracking"
	"shopTrace/domain"
	"shopTrace/internal/middleware"
	"shopTrace/pkg/logger"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type TrackingService interface {
	RecordEvent(ctx context.Context, input tracking.EventInput) (uint64, error)
	Profile(ctx context.Context, sessionID string) (domain.UserBehaviorProfile, error)
}

type TrackingHandler struct {
	trackingService TrackingService
	validator       *validator.Validate
	timeout         time.Duration
}

func NewTrackingHandler(trackingService TrackingService) *TrackingHandler {
	return &TrackingHandler{
		trackingService: trackingService,
		validator:       validator.New(),
		timeout:         10 * time.Second,
	}
}

// EventType is deliberately an open string: unknown types are still recorded
// and count toward total_events and the profile refresh cadence.
type TrackEventRequest struct {
	EventType string         `json:"event_type" validate:"required"`
	ProductID *uint64        `json:"product_id"`
	Payload   map[string]any `json:"payload"`
}

func (h *TrackingHandler) TrackEvent(c echo.Context) error {
	sessionID := middleware.SessionIDFromContext(c)
	if sessionID == "" {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "session id is required"})
	}

	var req TrackEventRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("failed to bind event request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validator.Struct(&req); err != nil {
		logger.Error("failed to validate event request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	eventID, err := h.trackingService.RecordEvent(ctx, tracking.EventInput{
		SessionID: sessionID,
		EventType: req.EventType,
		ProductID: req.ProductID,
		Payload:   req.Payload,
	})
	if err != nil {
		logger.Error("failed to record event", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated(map[string]interface{}{
		"event_id":   eventID,
		"session_id": sessionID,
	}))
}

func (h *TrackingHandler) GetProfile(c echo.Context) error {
	sessionID := middleware.SessionIDFromContext(c)
	if sessionID == "" {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "session id is required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	profile, err := h.trackingService.Profile(ctx, sessionID)
	if err != nil {
		if err.Error() == "behavior profile not found" {
			return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
		}
		logger.Error("failed to load behavior profile", err, "session_id", sessionID)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(profile))
}
