package rest

import (
	"context"
	"net/http"
	"time"

	"shopTrace/business/analytics"
	"shopTrace/pkg/logger"

	"github.com/AMFarhan21/fres"
	"github.com/labstack/echo/v4"
)

type AnalyticsService interface {
	GetDashboard(ctx context.Context) (analytics.Dashboard, error)
}

type AnalyticsHandler struct {
	analyticsService AnalyticsService
	timeout          time.Duration
}

func NewAnalyticsHandler(analyticsService AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsService: analyticsService,
		timeout:          15 * time.Second,
	}
}

func (h *AnalyticsHandler) GetDashboard(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	dashboard, err := h.analyticsService.GetDashboard(ctx)
	if err != nil {
		logger.Error("failed to build dashboard", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(dashboard))
}
