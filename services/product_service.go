package services

import (
	"context"
	"path"
	"strings"
	"time"

	"github.com/cetler74/modern-e-commerce-platform/models"
	"github.com/cetler74/modern-e-commerce-platform/repository"
	aws_pkg "github.com/cetler74/modern-e-commerce-platform/pkg/aws"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const uploadURLExpiry = 15 * time.Minute

// ProductService defines catalog browsing and administration.
type ProductService interface {
	ListProducts(ctx context.Context, filter models.ProductFilter) (*models.ProductListResponse, *ServiceError)
	GetProduct(ctx context.Context, idOrSlug string) (*models.Product, *ServiceError)
	CreateProduct(ctx context.Context, identity models.Identity, req *models.CreateProductRequest) (*models.Product, *ServiceError)
	UpdateProduct(ctx context.Context, identity models.Identity, id uuid.UUID, req *models.UpdateProductRequest) (*models.Product, *ServiceError)
	DeleteProduct(ctx context.Context, identity models.Identity, id uuid.UUID) *ServiceError
	PresignUpload(ctx context.Context, identity models.Identity, req *models.PresignUploadRequest) (*models.PresignUploadResponse, *ServiceError)
}

type productServiceImpl struct {
	repo      repository.ProductRepository
	cache     repository.ProductCache
	presigner aws_pkg.UploadPresigner
	metrics   aws_pkg.MetricsRecorder
	logger    *zap.Logger
}

// NewProductService creates a new ProductService. cache and presigner may be nil.
func NewProductService(
	repo repository.ProductRepository,
	cache repository.ProductCache,
	presigner aws_pkg.UploadPresigner,
	metrics aws_pkg.MetricsRecorder,
	logger *zap.Logger,
) ProductService {
	return &productServiceImpl{
		repo:      repo,
		cache:     cache,
		presigner: presigner,
		metrics:   metrics,
		logger:    logger,
	}
}

// ListProducts defaults to active products, 20 per page, and serves repeated pages from the cache.
func (s *productServiceImpl) ListProducts(ctx context.Context, filter models.ProductFilter) (*models.ProductListResponse, *ServiceError) {
	if filter.Status == "" {
		filter.Status = models.ProductStatusActive
	}
	filter.Search = strings.TrimSpace(filter.Search)
	filter.Limit, filter.Offset = normalizePage(filter.Limit, filter.Offset, 20, 100)

	if s.cache != nil {
		if cached, ok := s.cache.GetList(ctx, filter); ok {
			recordCount(ctx, s.metrics, aws_pkg.MetricCacheHits, map[string]string{"Cache": "products"})
			return cached, nil
		}
		recordCount(ctx, s.metrics, aws_pkg.MetricCacheMisses, map[string]string{"Cache": "products"})
	}

	products, total, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to list products", zap.Error(err))
		return nil, internal("Failed to list products")
	}
	if products == nil {
		products = []models.Product{}
	}
	resp := &models.ProductListResponse{Products: products, Total: total}

	if s.cache != nil {
		if err := s.cache.SetList(ctx, filter, resp); err != nil {
			s.logger.Warn("Failed to cache product list", zap.Error(err))
		}
	}
	return resp, nil
}

// GetProduct accepts either a product id or its slug.
func (s *productServiceImpl) GetProduct(ctx context.Context, idOrSlug string) (*models.Product, *ServiceError) {
	var (
		product *models.Product
		err     error
	)
	if id, parseErr := uuid.Parse(idOrSlug); parseErr == nil {
		product, err = s.repo.FindByID(ctx, id)
	} else {
		product, err = s.repo.FindBySlug(ctx, idOrSlug)
	}
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, notFound("Product not found")
		}
		s.logger.Error("Failed to load product", zap.String("product", idOrSlug), zap.Error(err))
		return nil, internal("Failed to load product")
	}
	return product, nil
}

func (s *productServiceImpl) CreateProduct(ctx context.Context, identity models.Identity, req *models.CreateProductRequest) (*models.Product, *ServiceError) {
	if !identity.Can(models.PermProductsCreate) {
		return nil, permissionDenied("Insufficient permissions")
	}

	slug := Slugify(req.Name)
	if slug == "" {
		return nil, invalidArgument("Product name must contain letters or digits")
	}
	status := req.Status
	if status == "" {
		status = models.ProductStatusDraft
	}

	product := &models.Product{
		Name:           req.Name,
		Slug:           slug,
		Description:    req.Description,
		Price:          req.Price,
		CompareAtPrice: req.CompareAtPrice,
		SKU:            req.SKU,
		Status:         status,
		Images:         nonNilStrings(req.Images),
		Tags:           nonNilStrings(req.Tags),
	}
	for i, v := range req.Variants {
		position := v.Position
		if position == 0 {
			position = i + 1
		}
		product.Variants = append(product.Variants, models.ProductVariant{
			Name:     v.Name,
			SKU:      v.SKU,
			Price:    v.Price,
			Position: position,
		})
	}

	if err := s.repo.Create(ctx, product, req.CategoryIDs); err != nil {
		if repository.IsUniqueViolation(err, repository.ConstraintProductSlug) {
			return nil, alreadyExists("Product with this name already exists")
		}
		s.logger.Error("Failed to create product", zap.String("slug", slug), zap.Error(err))
		return nil, internal("Failed to create product")
	}

	s.invalidate(ctx)
	recordCount(ctx, s.metrics, aws_pkg.MetricProductsCreated, nil)
	s.logger.Info("Product created", zap.String("product_id", product.ID.String()), zap.String("slug", slug))
	return product, nil
}

// UpdateProduct writes the provided fields. A rename regenerates the slug.
func (s *productServiceImpl) UpdateProduct(ctx context.Context, identity models.Identity, id uuid.UUID, req *models.UpdateProductRequest) (*models.Product, *ServiceError) {
	if !identity.Can(models.PermProductsUpdate) {
		return nil, permissionDenied("Insufficient permissions")
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		slug := Slugify(*req.Name)
		if slug == "" {
			return nil, invalidArgument("Product name must contain letters or digits")
		}
		updates["name"] = *req.Name
		updates["slug"] = slug
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Price != nil {
		updates["price"] = *req.Price
	}
	if req.CompareAtPrice != nil {
		updates["compare_at_price"] = *req.CompareAtPrice
	}
	if req.SKU != nil {
		updates["sku"] = *req.SKU
	}
	if req.Status != nil {
		updates["status"] = *req.Status
	}
	if req.Images != nil {
		updates["images"] = jsonStrings(req.Images)
	}
	if req.Tags != nil {
		updates["tags"] = jsonStrings(req.Tags)
	}

	if len(updates) > 0 {
		if err := s.repo.Update(ctx, id, updates); err != nil {
			if repository.IsNotFound(err) {
				return nil, notFound("Product not found")
			}
			if repository.IsUniqueViolation(err, repository.ConstraintProductSlug) {
				return nil, alreadyExists("Product with this name already exists")
			}
			s.logger.Error("Failed to update product", zap.String("product_id", id.String()), zap.Error(err))
			return nil, internal("Failed to update product")
		}
		s.invalidate(ctx)
	}

	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, notFound("Product not found")
		}
		s.logger.Error("Failed to reload product", zap.String("product_id", id.String()), zap.Error(err))
		return nil, internal("Failed to update product")
	}
	return product, nil
}

func (s *productServiceImpl) DeleteProduct(ctx context.Context, identity models.Identity, id uuid.UUID) *ServiceError {
	if !identity.Can(models.PermProductsDelete) {
		return permissionDenied("Insufficient permissions")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if repository.IsNotFound(err) {
			return notFound("Product not found")
		}
		s.logger.Error("Failed to delete product", zap.String("product_id", id.String()), zap.Error(err))
		return internal("Failed to delete product")
	}
	s.invalidate(ctx)
	s.logger.Info("Product deleted", zap.String("product_id", id.String()))
	return nil
}

// PresignUpload returns a short-lived S3 PUT URL for a product image or video.
func (s *productServiceImpl) PresignUpload(ctx context.Context, identity models.Identity, req *models.PresignUploadRequest) (*models.PresignUploadResponse, *ServiceError) {
	if !identity.Can(models.PermProductsCreate) {
		return nil, permissionDenied("Insufficient permissions")
	}
	if s.presigner == nil {
		return nil, internal("Media uploads are not configured")
	}
	if !strings.HasPrefix(req.ContentType, "image/") && !strings.HasPrefix(req.ContentType, "video/") {
		return nil, invalidArgument("Only image and video uploads are allowed")
	}

	name := path.Base(strings.ReplaceAll(req.Filename, "\\", "/"))
	ext := strings.ToLower(path.Ext(name))
	base := Slugify(strings.TrimSuffix(name, path.Ext(name)))
	if base == "" {
		base = "file"
	}
	key := "products/" + uuid.NewString() + "/" + base + ext

	url, headers, err := s.presigner.PresignPut(ctx, key, req.ContentType, uploadURLExpiry)
	if err != nil {
		s.logger.Error("Failed to presign upload", zap.String("key", key), zap.Error(err))
		return nil, internal("Failed to create upload URL")
	}
	return &models.PresignUploadResponse{UploadURL: url, Key: key, Headers: headers}, nil
}

func (s *productServiceImpl) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Error("Failed to invalidate product cache", zap.Error(err))
	}
}

func nonNilStrings(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
