package rest

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"shopTrace/business/recommend"
	"shopTrace/domain"
	"shopTrace/internal/middleware"
	"shopTrace/pkg/logger"
	"shopTrace/pkg/metrics"

	"github.com/AMFarhan21/fres"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
)

type RecommendService interface {
	GetRecommendations(ctx context.Context, sessionID string, currentProductID uint64, limit int) []uint64
}

// CatalogResolver turns ranked product ids into published catalog entries.
type CatalogResolver interface {
	GetPublishedByIDs(ctx context.Context, ids []uint64) ([]domain.Product, error)
}

type RecommendHandler struct {
	recommendService RecommendService
	catalogResolver  CatalogResolver
	timeout          time.Duration
}

func NewRecommendHandler(recommendService RecommendService, catalogResolver CatalogResolver) *RecommendHandler {
	return &RecommendHandler{
		recommendService: recommendService,
		catalogResolver:  catalogResolver,
		timeout:          10 * time.Second,
	}
}

func (h *RecommendHandler) GetRecommendations(c echo.Context) error {
	productID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		logger.Error("invalid product id", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	limit := recommend.DefaultLimit
	if raw := c.QueryParam("limit"); raw != "" {
		if parsed, perr := strconv.Atoi(raw); perr == nil && parsed > 0 {
			limit = parsed
		}
	}

	sessionID := middleware.SessionIDFromContext(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	timer := prometheus.NewTimer(metrics.RecommendLatency)
	ids := h.recommendService.GetRecommendations(ctx, sessionID, productID, limit)
	timer.ObserveDuration()

	products, err := h.catalogResolver.GetPublishedByIDs(ctx, ids)
	if err != nil {
		logger.Error("failed to resolve recommended products", err)
		products = []domain.Product{}
	}
	if products == nil {
		products = []domain.Product{}
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(map[string]interface{}{
		"product_id":      productID,
		"recommendations": products,
	}))
}
