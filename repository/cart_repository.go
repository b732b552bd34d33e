package repository

import (
	"context"

	"github.com/cetler74/modern-e-commerce-platform/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const upsertCartItemSQL = `INSERT INTO cart_items (id, user_id, product_id, variant_id, quantity, price, created_at, updated_at)
VALUES (gen_random_uuid(), ?, ?, ?, ?, ?, NOW(), NOW())
ON CONFLICT (user_id, product_id, COALESCE(variant_id, '00000000-0000-0000-0000-000000000000'::uuid))
DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity, updated_at = NOW()
RETURNING id, user_id, product_id, variant_id, quantity, price, created_at, updated_at`

// CartRepository defines data access for per-user cart lines.
type CartRepository interface {
	ListLines(ctx context.Context, userID uuid.UUID, forUpdate bool) ([]models.CartLine, error)
	AddOrMerge(ctx context.Context, item *models.CartItem) error
	FindByID(ctx context.Context, userID, id uuid.UUID) (*models.CartItem, error)
	UpdateQuantity(ctx context.Context, userID, id uuid.UUID, quantity int) error
	Delete(ctx context.Context, userID, id uuid.UUID) error
	Clear(ctx context.Context, userID uuid.UUID) (int64, error)
	DeleteLines(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) (int64, error)
}

// GormCartRepository implements CartRepository using GORM.
type GormCartRepository struct {
	db *gorm.DB
}

// NewGormCartRepository creates a new GormCartRepository.
func NewGormCartRepository(db *gorm.DB) CartRepository {
	return &GormCartRepository{db: db}
}

// ListLines returns the user's cart joined with live product and variant data, newest first.
// With forUpdate the cart rows stay locked until the surrounding transaction ends.
func (r *GormCartRepository) ListLines(ctx context.Context, userID uuid.UUID, forUpdate bool) ([]models.CartLine, error) {
	var lines []models.CartLine
	query := r.db.WithContext(ctx).
		Table("cart_items ci").
		Select("ci.id, ci.product_id, ci.variant_id, COALESCE(p.name, '') AS product_name, " +
			"v.name AS variant_name, COALESCE(v.sku, p.sku) AS sku, ci.price, ci.quantity, " +
			"p.images->>0 AS image, ci.created_at, COALESCE(p.status, '') AS product_status, " +
			"p.id IS NULL AS product_missing, " +
			"(ci.variant_id IS NOT NULL AND v.id IS NULL) AS variant_missing").
		Joins("LEFT JOIN products p ON p.id = ci.product_id").
		Joins("LEFT JOIN product_variants v ON v.id = ci.variant_id").
		Where("ci.user_id = ?", userID).
		Order("ci.created_at DESC")
	if forUpdate {
		query = query.Clauses(clause.Locking{Strength: "UPDATE", Table: clause.Table{Name: "ci"}})
	}
	if err := query.Scan(&lines).Error; err != nil {
		return nil, err
	}
	for i := range lines {
		lines[i].MarkAvailability()
	}
	return lines, nil
}

// AddOrMerge inserts a cart line or, when the (user, product, variant) line exists, adds to its
// quantity in the same statement. item is refreshed with the stored row.
func (r *GormCartRepository) AddOrMerge(ctx context.Context, item *models.CartItem) error {
	return r.db.WithContext(ctx).
		Raw(upsertCartItemSQL, item.UserID, item.ProductID, item.VariantID, item.Quantity, item.Price).
		Scan(item).Error
}

func (r *GormCartRepository) FindByID(ctx context.Context, userID, id uuid.UUID) (*models.CartItem, error) {
	var item models.CartItem
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *GormCartRepository) UpdateQuantity(ctx context.Context, userID, id uuid.UUID, quantity int) error {
	result := r.db.WithContext(ctx).
		Model(&models.CartItem{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("quantity", quantity)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormCartRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.CartItem{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Clear deletes every line of the user's cart and reports how many were removed.
func (r *GormCartRepository) Clear(ctx context.Context, userID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.CartItem{})
	return result.RowsAffected, result.Error
}

// DeleteLines removes only the given lines of the user's cart. Checkout uses it so a line added
// after the cart was read survives.
func (r *GormCartRepository) DeleteLines(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND id IN ?", userID, ids).
		Delete(&models.CartItem{})
	return result.RowsAffected, result.Error
}
