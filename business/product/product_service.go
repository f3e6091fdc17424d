package product

import (
	"context"
	"errors"
	"fmt"

	"shopTrace/domain"
	"shopTrace/pkg/logger"
)

// ProductRepository contract interface
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	FindByID(ctx context.Context, id uint64) (domain.Product, error)
	FindPaged(ctx context.Context, status, search string, page, perPage int) ([]domain.Product, int64, error)
	UpdateStatus(ctx context.Context, id uint64, status string) error
	Delete(ctx context.Context, id uint64) error

	FindPublishedByIDs(ctx context.Context, ids []uint64) ([]domain.Product, error)

	CreateImage(ctx context.Context, image *domain.ProductImage) error
	CreateVideo(ctx context.Context, video *domain.ProductVideo) error
	FindImagesByProduct(ctx context.Context, productID uint64) ([]domain.ProductImage, error)
	FindVideosByProduct(ctx context.Context, productID uint64) ([]domain.ProductVideo, error)
}

// AnalyticsRepository ensures every product has its counter row.
type AnalyticsRepository interface {
	Ensure(ctx context.Context, productID uint64) error
}

const (
	publicPageSize = 10
	adminPageSize  = 20
)

type ProductPage struct {
	Products    []domain.Product `json:"products"`
	Total       int64            `json:"total"`
	Pages       int              `json:"pages"`
	CurrentPage int              `json:"current_page"`
}

type ProductDetail struct {
	domain.Product
	MainImages   []domain.ProductImage `json:"main_images"`
	DetailImages []domain.ProductImage `json:"detail_images"`
	Videos       []domain.ProductVideo `json:"videos"`
}

type productService struct {
	productRepo   ProductRepository
	analyticsRepo AnalyticsRepository
}

func NewProductService(productRepo ProductRepository, analyticsRepo AnalyticsRepository) *productService {
	return &productService{
		productRepo:   productRepo,
		analyticsRepo: analyticsRepo,
	}
}

func (s *productService) GetPublishedProducts(ctx context.Context, search string, page int) (ProductPage, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when listing published products")
		return ProductPage{}, fmt.Errorf("context error: %w", err)
	}

	if page < 1 {
		page = 1
	}

	products, total, err := s.productRepo.FindPaged(ctx, domain.ProductStatusPublished, search, page, publicPageSize)
	if err != nil {
		logger.Error("failed to list published products", err)
		return ProductPage{}, err
	}

	return buildPage(products, total, page, publicPageSize), nil
}

func (s *productService) GetAdminProducts(ctx context.Context, search string, page int) (ProductPage, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when listing admin products")
		return ProductPage{}, fmt.Errorf("context error: %w", err)
	}

	if page < 1 {
		page = 1
	}

	products, total, err := s.productRepo.FindPaged(ctx, "", search, page, adminPageSize)
	if err != nil {
		logger.Error("failed to list admin products", err)
		return ProductPage{}, err
	}

	return buildPage(products, total, page, adminPageSize), nil
}

func (s *productService) GetProductByID(ctx context.Context, id uint64) (*ProductDetail, error) {
	if id == 0 {
		logger.Error("invalid product id")
		return nil, errors.New("invalid product id")
	}

	if err := ctx.Err(); err != nil {
		logger.Error("context error when getting product")
		return nil, fmt.Errorf("context error: %w", err)
	}

	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		logger.Error("failed to find product by id", err.Error())
		return nil, err
	}

	images, err := s.productRepo.FindImagesByProduct(ctx, id)
	if err != nil {
		logger.Error("failed to load product images", err)
		return nil, err
	}

	videos, err := s.productRepo.FindVideosByProduct(ctx, id)
	if err != nil {
		logger.Error("failed to load product videos", err)
		return nil, err
	}

	detail := &ProductDetail{Product: product, Videos: videos}
	detail.MainImages = make([]domain.ProductImage, 0)
	detail.DetailImages = make([]domain.ProductImage, 0)
	for _, img := range images {
		if img.Type == domain.ProductImageTypeMain {
			detail.MainImages = append(detail.MainImages, img)
		} else {
			detail.DetailImages = append(detail.DetailImages, img)
		}
	}

	return detail, nil
}

// GetPublishedByIDs resolves product ids to their published catalog entries,
// preserving the order of ids (recommendation ranking order).
func (s *productService) GetPublishedByIDs(ctx context.Context, ids []uint64) ([]domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	products, err := s.productRepo.FindPublishedByIDs(ctx, ids)
	if err != nil {
		logger.Error("failed to resolve products by ids", err)
		return nil, err
	}

	byID := make(map[uint64]domain.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	ordered := make([]domain.Product, 0, len(products))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			ordered = append(ordered, p)
		}
	}

	return ordered, nil
}

func (s *productService) CreateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when creating product")
		return nil, fmt.Errorf("context error: %w", err)
	}

	// Validation
	if product.Title == "" {
		logger.Error("Invalid product data: title is required")
		return nil, errors.New("product title is required")
	}

	// new products always start as drafts
	product.Status = domain.ProductStatusDraft

	if err := s.productRepo.Create(ctx, product); err != nil {
		logger.Error("failed to create new product", err)
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	if err := s.analyticsRepo.Ensure(ctx, product.ID); err != nil {
		logger.Error("failed to create product analytics row", err)
	}

	logger.Info("product created successfully", "product_id", product.ID)

	return product, nil
}

func (s *productService) UpdateProductStatus(ctx context.Context, id uint64, status string) error {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when updating product status")
		return fmt.Errorf("context error: %w", err)
	}

	if id == 0 {
		logger.Error("invalid product id")
		return errors.New("invalid product id")
	}

	if !domain.ValidProductStatus(status) {
		logger.Error("invalid product status", "status", status)
		return errors.New("invalid product status")
	}

	// Verify product exists
	if _, err := s.productRepo.FindByID(ctx, id); err != nil {
		logger.Error("product not found", err)
		return errors.New("product not found")
	}

	if err := s.productRepo.UpdateStatus(ctx, id, status); err != nil {
		logger.Error("failed to update product status", err)
		return fmt.Errorf("failed to update product status: %w", err)
	}

	logger.Info("product status updated", "product_id", id, "status", status)

	return nil
}

func (s *productService) DeleteProduct(ctx context.Context, id uint64) error {
	if id == 0 {
		logger.Error("invalid product id when deleting product")
		return errors.New("invalid product id")
	}

	if err := ctx.Err(); err != nil {
		logger.Error("context error when deleting product")
		return fmt.Errorf("context error: %w", err)
	}

	// Verify product exists
	if _, err := s.productRepo.FindByID(ctx, id); err != nil {
		logger.Error("product not found", err)
		return errors.New("product not found")
	}

	if err := s.productRepo.Delete(ctx, id); err != nil {
		logger.Error("failed to delete product", err)
		return fmt.Errorf("failed to delete product: %w", err)
	}

	logger.Info("product deleted", "product_id", id)

	return nil
}

func (s *productService) AddProductImage(ctx context.Context, image *domain.ProductImage) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if image.URL == "" {
		return errors.New("image url is required")
	}
	if image.Type != domain.ProductImageTypeMain && image.Type != domain.ProductImageTypeDetail {
		return errors.New("invalid image type")
	}

	if _, err := s.productRepo.FindByID(ctx, image.ProductID); err != nil {
		logger.Error("product not found", err)
		return errors.New("product not found")
	}

	if err := s.productRepo.CreateImage(ctx, image); err != nil {
		logger.Error("failed to attach product image", err)
		return fmt.Errorf("failed to attach product image: %w", err)
	}

	return nil
}

func (s *productService) AddProductVideo(ctx context.Context, video *domain.ProductVideo) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if video.URL == "" {
		return errors.New("video url is required")
	}

	if _, err := s.productRepo.FindByID(ctx, video.ProductID); err != nil {
		logger.Error("product not found", err)
		return errors.New("product not found")
	}

	if err := s.productRepo.CreateVideo(ctx, video); err != nil {
		logger.Error("failed to attach product video", err)
		return fmt.Errorf("failed to attach product video: %w", err)
	}

	return nil
}

func buildPage(products []domain.Product, total int64, page, perPage int) ProductPage {
	if products == nil {
		products = []domain.Product{}
	}

	pages := int(total) / perPage
	if int(total)%perPage != 0 {
		pages++
	}

	return ProductPage{
		Products:    products,
		Total:       total,
		Pages:       pages,
		CurrentPage: page,
	}
}
