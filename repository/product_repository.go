package repository

import (
	"context"

	"github.com/cetler74/modern-e-commerce-platform/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProductRepository defines data access for the catalog.
type ProductRepository interface {
	List(ctx context.Context, filter models.ProductFilter) ([]models.Product, int64, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	FindBySlug(ctx context.Context, slug string) (*models.Product, error)
	Create(ctx context.Context, product *models.Product, categoryIDs []uuid.UUID) error
	Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindVariant(ctx context.Context, productID, variantID uuid.UUID) (*models.ProductVariant, error)
	ResolveVariant(ctx context.Context, variantID uuid.UUID) (*models.VariantSnapshot, error)
}

// GormProductRepository implements ProductRepository using GORM.
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository.
func NewGormProductRepository(db *gorm.DB) ProductRepository {
	return &GormProductRepository{db: db}
}

// List returns one page of products matching filter, newest first, and the total match count.
func (r *GormProductRepository) List(ctx context.Context, filter models.ProductFilter) ([]models.Product, int64, error) {
	var products []models.Product
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Product{})
	if filter.Status != "" {
		query = query.Where("products.status = ?", filter.Status)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("(products.name ILIKE ? OR products.description ILIKE ?)", like, like)
	}
	if filter.Category != "" {
		query = query.Where(
			"EXISTS (SELECT 1 FROM product_categories pc JOIN categories c ON c.id = pc.category_id "+
				"WHERE pc.product_id = products.id AND c.slug = ?)", filter.Category)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Preload("Variants", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Order("products.created_at DESC").
		Offset(filter.Offset).
		Limit(filter.Limit).
		Find(&products).Error
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func (r *GormProductRepository) detailed(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Variants", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("Categories")
}

func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.detailed(ctx).Where("id = ?", id).First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *GormProductRepository) FindBySlug(ctx context.Context, slug string) (*models.Product, error) {
	var product models.Product
	if err := r.detailed(ctx).Where("slug = ?", slug).First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// Create inserts the product with its variants and links existing categories.
func (r *GormProductRepository) Create(ctx context.Context, product *models.Product, categoryIDs []uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Categories").Create(product).Error; err != nil {
			return err
		}
		if len(categoryIDs) == 0 {
			return nil
		}
		var categories []models.Category
		if err := tx.Where("id IN ?", categoryIDs).Find(&categories).Error; err != nil {
			return err
		}
		if len(categories) == 0 {
			return nil
		}
		if err := tx.Model(product).Omit("Categories.*").Association("Categories").Append(categories); err != nil {
			return err
		}
		product.Categories = categories
		return nil
	})
}

func (r *GormProductRepository) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	result := r.db.WithContext(ctx).Model(&models.Product{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes the product, its variants and its category links.
func (r *GormProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM product_categories WHERE product_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", id).Delete(&models.ProductVariant{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&models.Product{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// FindVariant returns the variant only if it belongs to productID.
func (r *GormProductRepository) FindVariant(ctx context.Context, productID, variantID uuid.UUID) (*models.ProductVariant, error) {
	var variant models.ProductVariant
	err := r.db.WithContext(ctx).
		Where("id = ? AND product_id = ?", variantID, productID).
		First(&variant).Error
	if err != nil {
		return nil, err
	}
	return &variant, nil
}

// ResolveVariant joins a variant with its product. The price is the variant's own price when set,
// otherwise the product's.
func (r *GormProductRepository) ResolveVariant(ctx context.Context, variantID uuid.UUID) (*models.VariantSnapshot, error) {
	var rows []models.VariantSnapshot
	err := r.db.WithContext(ctx).
		Table("product_variants pv").
		Select("pv.id AS variant_id, p.id AS product_id, p.name AS product_name, pv.name AS variant_name, "+
			"COALESCE(pv.sku, p.sku) AS sku, COALESCE(pv.price, p.price) AS price, p.status AS product_state").
		Joins("JOIN products p ON p.id = pv.product_id").
		Where("pv.id = ?", variantID).
		Limit(1).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &rows[0], nil
}
