package rest

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"shopTrace/business/product"
	"shopTrace/domain"
	"shopTrace/internal/middleware"
	"shopTrace/pkg/logger"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// ResponseError represent the response error struct
type ResponseError struct {
	Message string `json:"message"`
}

type ProductService interface {
	GetPublishedProducts(ctx context.Context, search string, page int) (product.ProductPage, error)
	GetAdminProducts(ctx context.Context, search string, page int) (product.ProductPage, error)
	GetProductByID(ctx context.Context, id uint64) (*product.ProductDetail, error)
	CreateProduct(ctx context.Context, p *domain.Product) (*domain.Product, error)
	UpdateProductStatus(ctx context.Context, id uint64, status string) error
	DeleteProduct(ctx context.Context, id uint64) error
	AddProductImage(ctx context.Context, image *domain.ProductImage) error
	AddProductVideo(ctx context.Context, video *domain.ProductVideo) error
}

// ViewRecorder logs the product_view event for the detail endpoint.
type ViewRecorder interface {
	RecordProductView(ctx context.Context, sessionID string, productID uint64) error
}

type ProductHandler struct {
	productService ProductService
	viewRecorder   ViewRecorder
	validator      *validator.Validate
	timeout        time.Duration
}

func NewProductHandler(productService ProductService, viewRecorder ViewRecorder) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		viewRecorder:   viewRecorder,
		validator:      validator.New(),
		timeout:        10 * time.Second,
	}
}

type CreateProductRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
}

type UpdateProductStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=draft published unpublished"`
}

type AddProductImageRequest struct {
	Type      string `json:"type" validate:"required,oneof=main detail"`
	URL       string `json:"url" validate:"required,url"`
	SortOrder int    `json:"sort_order" validate:"gte=0"`
}

type AddProductVideoRequest struct {
	URL             string `json:"url" validate:"required,url"`
	DurationSeconds int    `json:"duration_seconds" validate:"gte=0"`
}

func (h *ProductHandler) GetPublishedProducts(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	search := c.QueryParam("search")

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	pageResult, err := h.productService.GetPublishedProducts(ctx, search, page)
	if err != nil {
		logger.Error("failed to list products", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, pageResult)
}

func (h *ProductHandler) GetProductByID(c echo.Context) error {
	productID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		logger.Error("invalid product id", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	detail, err := h.productService.GetProductByID(ctx, productID)
	if err != nil {
		if err.Error() == "product not found" {
			return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	// best effort: a failed view event must not break the page
	sessionID := middleware.SessionIDFromContext(c)
	if sessionID != "" {
		if verr := h.viewRecorder.RecordProductView(ctx, sessionID, productID); verr != nil {
			logger.Warn("failed to record product view", "error", verr.Error(), "product_id", productID)
		}
	}

	return c.JSON(http.StatusOK, detail)
}

func (h *ProductHandler) GetAdminProducts(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	search := c.QueryParam("search")

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	pageResult, err := h.productService.GetAdminProducts(ctx, search, page)
	if err != nil {
		logger.Error("failed to list admin products", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, pageResult)
}

func (h *ProductHandler) CreateProduct(c echo.Context) error {
	var req CreateProductRequest

	if err := c.Bind(&req); err != nil {
		logger.Error("failed to bind request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validator.Struct(&req); err != nil {
		logger.Error("failed to validate product request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	newProduct, err := h.productService.CreateProduct(ctx, &domain.Product{
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		logger.Error("failed to create product", err)
		if err.Error() == "product title is required" {
			return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated(newProduct))
}

func (h *ProductHandler) UpdateProductStatus(c echo.Context) error {
	productID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		logger.Error("invalid product id", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	var req UpdateProductStatusRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("failed to bind request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validator.Struct(&req); err != nil {
		logger.Error("failed to validate status request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	if err := h.productService.UpdateProductStatus(ctx, productID, req.Status); err != nil {
		logger.Error("failed to update product status", err)
		if err.Error() == "product not found" {
			return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
		}
		if err.Error() == "invalid product status" || err.Error() == "invalid product id" {
			return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(map[string]interface{}{
		"product_id": productID,
		"status":     req.Status,
	}))
}

func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	productID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		logger.Error("invalid product id", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	if err := h.productService.DeleteProduct(ctx, productID); err != nil {
		logger.Error("failed to delete product", err)
		if err.Error() == "product not found" || err.Error() == "invalid product id" {
			return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(map[string]interface{}{
		"product_id": productID,
	}))
}

func (h *ProductHandler) AddProductImage(c echo.Context) error {
	productID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		logger.Error("invalid product id", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	var req AddProductImageRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validator.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	image := &domain.ProductImage{
		ProductID: productID,
		Type:      req.Type,
		URL:       req.URL,
		SortOrder: req.SortOrder,
	}
	if err := h.productService.AddProductImage(ctx, image); err != nil {
		if err.Error() == "product not found" {
			return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated(image))
}

func (h *ProductHandler) AddProductVideo(c echo.Context) error {
	productID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		logger.Error("invalid product id", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	var req AddProductVideoRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validator.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	video := &domain.ProductVideo{
		ProductID:       productID,
		URL:             req.URL,
		DurationSeconds: req.DurationSeconds,
	}
	if err := h.productService.AddProductVideo(ctx, video); err != nil {
		if err.Error() == "product not found" {
			return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated(video))
}
