package product

import (
	"context"
	"errors"
	"testing"

	"shopTrace/domain"
)

type fakeProductRepo struct {
	products map[uint64]domain.Product
	images   []domain.ProductImage
	videos   []domain.ProductVideo
	nextID   uint64
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: make(map[uint64]domain.Product), nextID: 1}
}

func (r *fakeProductRepo) Create(_ context.Context, product *domain.Product) error {
	product.ID = r.nextID
	r.nextID++
	r.products[product.ID] = *product
	return nil
}

func (r *fakeProductRepo) FindByID(_ context.Context, id uint64) (domain.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return domain.Product{}, errors.New("product not found")
	}
	return p, nil
}

func (r *fakeProductRepo) FindPaged(_ context.Context, status, _ string, _, _ int) ([]domain.Product, int64, error) {
	var out []domain.Product
	for _, p := range r.products {
		if status == "" || p.Status == status {
			out = append(out, p)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeProductRepo) FindPublishedByIDs(_ context.Context, ids []uint64) ([]domain.Product, error) {
	var out []domain.Product
	for _, id := range ids {
		if p, ok := r.products[id]; ok && p.Status == domain.ProductStatusPublished {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakeProductRepo) UpdateStatus(_ context.Context, id uint64, status string) error {
	p, ok := r.products[id]
	if !ok {
		return errors.New("product not found or already deleted")
	}
	p.Status = status
	r.products[id] = p
	return nil
}

func (r *fakeProductRepo) Delete(_ context.Context, id uint64) error {
	if _, ok := r.products[id]; !ok {
		return errors.New("product not found or already deleted")
	}
	delete(r.products, id)
	return nil
}

func (r *fakeProductRepo) CreateImage(_ context.Context, image *domain.ProductImage) error {
	r.images = append(r.images, *image)
	return nil
}

func (r *fakeProductRepo) CreateVideo(_ context.Context, video *domain.ProductVideo) error {
	r.videos = append(r.videos, *video)
	return nil
}

func (r *fakeProductRepo) FindImagesByProduct(_ context.Context, productID uint64) ([]domain.ProductImage, error) {
	var out []domain.ProductImage
	for _, img := range r.images {
		if img.ProductID == productID {
			out = append(out, img)
		}
	}
	return out, nil
}

func (r *fakeProductRepo) FindVideosByProduct(_ context.Context, productID uint64) ([]domain.ProductVideo, error) {
	var out []domain.ProductVideo
	for _, v := range r.videos {
		if v.ProductID == productID {
			out = append(out, v)
		}
	}
	return out, nil
}

type fakeAnalyticsRepo struct {
	ensured []uint64
	err     error
}

func (r *fakeAnalyticsRepo) Ensure(_ context.Context, productID uint64) error {
	if r.err != nil {
		return r.err
	}
	r.ensured = append(r.ensured, productID)
	return nil
}

func TestCreateProduct_ForcesDraftStatus(t *testing.T) {
	repo := newFakeProductRepo()
	analyticsRepo := &fakeAnalyticsRepo{}
	svc := NewProductService(repo, analyticsRepo)

	created, err := svc.CreateProduct(context.Background(), &domain.Product{
		Title:  "Ceramic Mug",
		Status: domain.ProductStatusPublished,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.Status != domain.ProductStatusDraft {
		t.Errorf("status = %q, want draft regardless of input", created.Status)
	}
	if len(analyticsRepo.ensured) != 1 || analyticsRepo.ensured[0] != created.ID {
		t.Errorf("analytics row not ensured: %v", analyticsRepo.ensured)
	}
}

func TestCreateProduct_RequiresTitle(t *testing.T) {
	svc := NewProductService(newFakeProductRepo(), &fakeAnalyticsRepo{})

	if _, err := svc.CreateProduct(context.Background(), &domain.Product{}); err == nil {
		t.Error("expected error for empty title")
	}
}

func TestCreateProduct_AnalyticsFailureNonFatal(t *testing.T) {
	svc := NewProductService(newFakeProductRepo(), &fakeAnalyticsRepo{err: errors.New("db down")})

	created, err := svc.CreateProduct(context.Background(), &domain.Product{Title: "Lamp"})
	if err != nil {
		t.Fatalf("analytics failure must not fail product creation: %v", err)
	}
	if created.ID == 0 {
		t.Error("product id should be set")
	}
}

func TestUpdateProductStatus(t *testing.T) {
	repo := newFakeProductRepo()
	svc := NewProductService(repo, &fakeAnalyticsRepo{})

	created, err := svc.CreateProduct(context.Background(), &domain.Product{Title: "Lamp"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := svc.UpdateProductStatus(context.Background(), created.ID, "shipped"); err == nil {
		t.Error("expected error for unknown status")
	}
	if err := svc.UpdateProductStatus(context.Background(), 999, domain.ProductStatusPublished); err == nil {
		t.Error("expected error for missing product")
	}

	if err := svc.UpdateProductStatus(context.Background(), created.ID, domain.ProductStatusPublished); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	updated, _ := repo.FindByID(context.Background(), created.ID)
	if updated.Status != domain.ProductStatusPublished {
		t.Errorf("status = %q, want published", updated.Status)
	}
}

func TestGetProductByID_SplitsMediaByType(t *testing.T) {
	repo := newFakeProductRepo()
	svc := NewProductService(repo, &fakeAnalyticsRepo{})

	created, err := svc.CreateProduct(context.Background(), &domain.Product{Title: "Chair"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	repo.images = []domain.ProductImage{
		{ProductID: created.ID, Type: domain.ProductImageTypeMain, URL: "https://cdn/img-1.jpg"},
		{ProductID: created.ID, Type: domain.ProductImageTypeDetail, URL: "https://cdn/img-2.jpg"},
		{ProductID: created.ID, Type: domain.ProductImageTypeDetail, URL: "https://cdn/img-3.jpg"},
	}
	repo.videos = []domain.ProductVideo{
		{ProductID: created.ID, URL: "https://cdn/vid-1.mp4"},
	}

	detail, err := svc.GetProductByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(detail.MainImages) != 1 || len(detail.DetailImages) != 2 || len(detail.Videos) != 1 {
		t.Errorf("media split wrong: main=%d detail=%d videos=%d",
			len(detail.MainImages), len(detail.DetailImages), len(detail.Videos))
	}
}

func TestGetPublishedByIDs_PreservesOrderAndFiltersUnpublished(t *testing.T) {
	repo := newFakeProductRepo()
	svc := NewProductService(repo, &fakeAnalyticsRepo{})

	repo.products[1] = domain.Product{ID: 1, Title: "A", Status: domain.ProductStatusPublished}
	repo.products[2] = domain.Product{ID: 2, Title: "B", Status: domain.ProductStatusDraft}
	repo.products[3] = domain.Product{ID: 3, Title: "C", Status: domain.ProductStatusPublished}

	products, err := svc.GetPublishedByIDs(context.Background(), []uint64{3, 2, 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(products) != 2 {
		t.Fatalf("products = %d, want 2 (draft filtered out)", len(products))
	}
	if products[0].ID != 3 || products[1].ID != 1 {
		t.Errorf("order = [%d %d], want [3 1]", products[0].ID, products[1].ID)
	}
}

func TestBuildPage(t *testing.T) {
	page := buildPage(nil, 25, 2, 10)

	if page.Products == nil {
		t.Error("Products should never be nil")
	}
	if page.Pages != 3 {
		t.Errorf("Pages = %d, want 3", page.Pages)
	}
	if page.CurrentPage != 2 {
		t.Errorf("CurrentPage = %d, want 2", page.CurrentPage)
	}
}
