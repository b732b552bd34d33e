package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/cetler74/modern-e-commerce-platform/models"
	"github.com/cetler74/modern-e-commerce-platform/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// --- Mocks ---

type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) List(ctx context.Context, filter models.ProductFilter) ([]models.Product, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.Product), args.Get(1).(int64), args.Error(2)
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductRepository) FindBySlug(ctx context.Context, slug string) (*models.Product, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductRepository) Create(ctx context.Context, product *models.Product, categoryIDs []uuid.UUID) error {
	args := m.Called(ctx, product, categoryIDs)
	return args.Error(0)
}

func (m *MockProductRepository) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	args := m.Called(ctx, id, updates)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductRepository) FindVariant(ctx context.Context, productID, variantID uuid.UUID) (*models.ProductVariant, error) {
	args := m.Called(ctx, productID, variantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ProductVariant), args.Error(1)
}

func (m *MockProductRepository) ResolveVariant(ctx context.Context, variantID uuid.UUID) (*models.VariantSnapshot, error) {
	args := m.Called(ctx, variantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.VariantSnapshot), args.Error(1)
}

type MockProductCache struct {
	mock.Mock
}

func (m *MockProductCache) GetList(ctx context.Context, filter models.ProductFilter) (*models.ProductListResponse, bool) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Bool(1)
	}
	return args.Get(0).(*models.ProductListResponse), args.Bool(1)
}

func (m *MockProductCache) SetList(ctx context.Context, filter models.ProductFilter, resp *models.ProductListResponse) error {
	args := m.Called(ctx, filter, resp)
	return args.Error(0)
}

func (m *MockProductCache) Invalidate(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockPresigner struct {
	mock.Mock
}

func (m *MockPresigner) PresignPut(ctx context.Context, key, contentType string, expiry time.Duration) (string, map[string]string, error) {
	args := m.Called(ctx, key, contentType, expiry)
	if args.Get(1) == nil {
		return args.String(0), nil, args.Error(2)
	}
	return args.String(0), args.Get(1).(map[string]string), args.Error(2)
}

// --- Tests ---

func TestListProducts(t *testing.T) {
	ctx := context.Background()
	expectedFilter := models.ProductFilter{Status: models.ProductStatusActive, Search: "mug", Limit: 20}

	t.Run("Cache hit skips the repository", func(t *testing.T) {
		repo := new(MockProductRepository)
		cache := new(MockProductCache)
		cached := &models.ProductListResponse{Products: []models.Product{{Name: "Mug"}}, Total: 1}
		cache.On("GetList", ctx, expectedFilter).Return(cached, true).Once()

		svc := NewProductService(repo, cache, nil, nil, testLogger())
		resp, svcErr := svc.ListProducts(ctx, models.ProductFilter{Search: "  mug "})

		require.Nil(t, svcErr)
		assert.Same(t, cached, resp)
		repo.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
		cache.AssertExpectations(t)
	})

	t.Run("Cache miss loads and stores the page", func(t *testing.T) {
		repo := new(MockProductRepository)
		cache := new(MockProductCache)
		cache.On("GetList", ctx, expectedFilter).Return(nil, false).Once()
		repo.On("List", ctx, expectedFilter).Return([]models.Product{{Name: "Mug"}}, int64(1), nil).Once()
		cache.On("SetList", ctx, expectedFilter, mock.AnythingOfType("*models.ProductListResponse")).Return(nil).Once()

		svc := NewProductService(repo, cache, nil, nil, testLogger())
		resp, svcErr := svc.ListProducts(ctx, models.ProductFilter{Search: "mug"})

		require.Nil(t, svcErr)
		assert.Equal(t, int64(1), resp.Total)
		repo.AssertExpectations(t)
		cache.AssertExpectations(t)
	})

	t.Run("Limit is capped and empty results are a list", func(t *testing.T) {
		repo := new(MockProductRepository)
		capped := models.ProductFilter{Status: models.ProductStatusDraft, Limit: 100}
		repo.On("List", ctx, capped).Return(nil, int64(0), nil).Once()

		svc := NewProductService(repo, nil, nil, nil, testLogger())
		resp, svcErr := svc.ListProducts(ctx, models.ProductFilter{Status: models.ProductStatusDraft, Limit: 500})

		require.Nil(t, svcErr)
		assert.NotNil(t, resp.Products)
		assert.Empty(t, resp.Products)
		repo.AssertExpectations(t)
	})
}

func TestGetProduct_ByIDOrSlug(t *testing.T) {
	ctx := context.Background()
	repo := new(MockProductRepository)
	product := &models.Product{ID: uuid.New(), Name: "Mug", Slug: "mug"}
	repo.On("FindByID", ctx, product.ID).Return(product, nil).Once()
	repo.On("FindBySlug", ctx, "mug").Return(product, nil).Once()
	repo.On("FindBySlug", ctx, "missing").Return(nil, gorm.ErrRecordNotFound).Once()

	svc := NewProductService(repo, nil, nil, nil, testLogger())

	got, svcErr := svc.GetProduct(ctx, product.ID.String())
	require.Nil(t, svcErr)
	assert.Equal(t, product.ID, got.ID)

	got, svcErr = svc.GetProduct(ctx, "mug")
	require.Nil(t, svcErr)
	assert.Equal(t, product.ID, got.ID)

	_, svcErr = svc.GetProduct(ctx, "missing")
	require.NotNil(t, svcErr)
	assert.Equal(t, KindNotFound, svcErr.Kind)
	repo.AssertExpectations(t)
}

func TestCreateProduct(t *testing.T) {
	ctx := context.Background()
	admin := adminIdentity(models.PermProductsCreate)

	t.Run("Success - slug, defaults and cache invalidation", func(t *testing.T) {
		repo := new(MockProductRepository)
		cache := new(MockProductCache)
		repo.On("Create", ctx, mock.MatchedBy(func(p *models.Product) bool {
			return p.Slug == "organic-coffee-beans" &&
				p.Status == models.ProductStatusDraft &&
				len(p.Variants) == 2 && p.Variants[0].Position == 1 && p.Variants[1].Position == 5 &&
				p.Images != nil && p.Tags != nil
		}), []uuid.UUID(nil)).Return(nil).Once()
		cache.On("Invalidate", ctx).Return(nil).Once()

		svc := NewProductService(repo, cache, nil, nil, testLogger())
		product, svcErr := svc.CreateProduct(ctx, admin, &models.CreateProductRequest{
			Name:  "Organic Coffee Beans",
			Price: 18,
			Variants: []models.VariantInput{
				{Name: "250g"},
				{Name: "1kg", Position: 5},
			},
		})

		require.Nil(t, svcErr)
		assert.Equal(t, "organic-coffee-beans", product.Slug)
		repo.AssertExpectations(t)
		cache.AssertExpectations(t)
	})

	t.Run("Failure - duplicate slug", func(t *testing.T) {
		repo := new(MockProductRepository)
		repo.On("Create", ctx, mock.Anything, mock.Anything).Return(uniqueErr(repository.ConstraintProductSlug)).Once()

		svc := NewProductService(repo, nil, nil, nil, testLogger())
		_, svcErr := svc.CreateProduct(ctx, admin, &models.CreateProductRequest{Name: "Mug", Price: 5})

		require.NotNil(t, svcErr)
		assert.Equal(t, KindAlreadyExists, svcErr.Kind)
		assert.Equal(t, "Product with this name already exists", svcErr.Message)
	})

	t.Run("Failure - name without slug characters", func(t *testing.T) {
		repo := new(MockProductRepository)
		svc := NewProductService(repo, nil, nil, nil, testLogger())
		_, svcErr := svc.CreateProduct(ctx, admin, &models.CreateProductRequest{Name: "???", Price: 5})

		require.NotNil(t, svcErr)
		assert.Equal(t, KindInvalidArgument, svcErr.Kind)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Failure - missing permission", func(t *testing.T) {
		repo := new(MockProductRepository)
		svc := NewProductService(repo, nil, nil, nil, testLogger())
		_, svcErr := svc.CreateProduct(ctx, customerIdentity(uuid.New()), &models.CreateProductRequest{Name: "Mug", Price: 5})

		require.NotNil(t, svcErr)
		assert.Equal(t, KindPermissionDenied, svcErr.Kind)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestUpdateProduct_RenameRegeneratesSlug(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()
	repo := new(MockProductRepository)
	cache := new(MockProductCache)

	name := "Blue Ceramic Mug"
	price := 14.5
	repo.On("Update", ctx, id, map[string]interface{}{
		"name":  name,
		"slug":  "blue-ceramic-mug",
		"price": price,
		"tags":  `["kitchen"]`,
	}).Return(nil).Once()
	cache.On("Invalidate", ctx).Return(nil).Once()
	repo.On("FindByID", ctx, id).Return(&models.Product{ID: id, Name: name, Slug: "blue-ceramic-mug", Price: price}, nil).Once()

	svc := NewProductService(repo, cache, nil, nil, testLogger())
	product, svcErr := svc.UpdateProduct(ctx, adminIdentity(models.PermProductsUpdate), id,
		&models.UpdateProductRequest{Name: &name, Price: &price, Tags: []string{"kitchen"}})

	require.Nil(t, svcErr)
	assert.Equal(t, "blue-ceramic-mug", product.Slug)
	repo.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestUpdateProduct_NotFound(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()
	repo := new(MockProductRepository)
	price := 3.0
	repo.On("Update", ctx, id, mock.Anything).Return(gorm.ErrRecordNotFound).Once()

	svc := NewProductService(repo, nil, nil, nil, testLogger())
	_, svcErr := svc.UpdateProduct(ctx, adminIdentity(models.PermProductsUpdate), id, &models.UpdateProductRequest{Price: &price})

	require.NotNil(t, svcErr)
	assert.Equal(t, KindNotFound, svcErr.Kind)
}

func TestDeleteProduct(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()
	repo := new(MockProductRepository)
	cache := new(MockProductCache)
	repo.On("Delete", ctx, id).Return(nil).Once()
	cache.On("Invalidate", ctx).Return(nil).Once()

	svc := NewProductService(repo, cache, nil, nil, testLogger())
	assert.Equal(t, KindPermissionDenied, svc.DeleteProduct(ctx, adminIdentity(models.PermProductsUpdate), id).Kind)
	require.Nil(t, svc.DeleteProduct(ctx, adminIdentity(models.PermProductsDelete), id))
	repo.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestPresignUpload(t *testing.T) {
	ctx := context.Background()
	admin := adminIdentity(models.PermProductsCreate)

	t.Run("Success - key is namespaced and sanitized", func(t *testing.T) {
		presigner := new(MockPresigner)
		presigner.On("PresignPut", ctx, mock.MatchedBy(func(key string) bool {
			return strings.HasPrefix(key, "products/") && strings.HasSuffix(key, "/summer-hero.jpg")
		}), "image/jpeg", uploadURLExpiry).
			Return("https://bucket.s3.amazonaws.com/signed", map[string]string{"Content-Type": "image/jpeg"}, nil).Once()

		svc := NewProductService(new(MockProductRepository), nil, presigner, nil, testLogger())
		resp, svcErr := svc.PresignUpload(ctx, admin, &models.PresignUploadRequest{Filename: `C:\photos\Summer Hero.JPG`, ContentType: "image/jpeg"})

		require.Nil(t, svcErr)
		assert.Equal(t, "https://bucket.s3.amazonaws.com/signed", resp.UploadURL)
		assert.True(t, strings.HasSuffix(resp.Key, "/summer-hero.jpg"))
		presigner.AssertExpectations(t)
	})

	t.Run("Failure - content type", func(t *testing.T) {
		presigner := new(MockPresigner)
		svc := NewProductService(new(MockProductRepository), nil, presigner, nil, testLogger())
		_, svcErr := svc.PresignUpload(ctx, admin, &models.PresignUploadRequest{Filename: "notes.pdf", ContentType: "application/pdf"})

		require.NotNil(t, svcErr)
		assert.Equal(t, KindInvalidArgument, svcErr.Kind)
		presigner.AssertNotCalled(t, "PresignPut", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Failure - uploads not configured", func(t *testing.T) {
		svc := NewProductService(new(MockProductRepository), nil, nil, nil, testLogger())
		_, svcErr := svc.PresignUpload(ctx, admin, &models.PresignUploadRequest{Filename: "a.png", ContentType: "image/png"})

		require.NotNil(t, svcErr)
		assert.Equal(t, KindInternal, svcErr.Kind)
	})
}
