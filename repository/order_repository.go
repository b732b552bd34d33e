package repository

import (
	"context"

	"github.com/cetler74/modern-e-commerce-platform/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OrderRepository defines data access for orders and their line items.
type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	FindByIdempotencyKey(ctx context.Context, key string) (*models.Order, error)
	List(ctx context.Context, filter models.OrderFilter) ([]models.Order, int64, error)
	LockByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	Update(ctx context.Context, id uuid.UUID, update models.OrderUpdate) error
}

// GormOrderRepository implements OrderRepository using GORM.
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository.
func NewGormOrderRepository(db *gorm.DB) OrderRepository {
	return &GormOrderRepository{db: db}
}

// Create inserts the order and its line items. Inside an outer transaction the insert runs under a
// savepoint, so a unique violation leaves the outer transaction usable for a retry.
func (r *GormOrderRepository) Create(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(order).Error
	})
}

func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("LineItems", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Where("id = ?", id).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *GormOrderRepository) FindByIdempotencyKey(ctx context.Context, key string) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).Where("idempotency_key = ?", key).First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// List returns one page of orders, newest first, and the total match count.
func (r *GormOrderRepository) List(ctx context.Context, filter models.OrderFilter) ([]models.Order, int64, error) {
	var orders []models.Order
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Order{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.FinancialStatus != "" {
		query = query.Where("financial_status = ?", filter.FinancialStatus)
	}
	if filter.CustomerID != nil {
		query = query.Where("customer_id = ?", *filter.CustomerID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Order("created_at DESC").
		Offset(filter.Offset).
		Limit(filter.Limit).
		Find(&orders).Error
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// LockByID loads the order holding a row lock until the transaction ends.
func (r *GormOrderRepository) LockByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// Update writes the mutable order fields that are set in update.
func (r *GormOrderRepository) Update(ctx context.Context, id uuid.UUID, update models.OrderUpdate) error {
	updates := map[string]interface{}{}
	if update.Status != nil {
		updates["status"] = *update.Status
	}
	if update.FinancialStatus != nil {
		updates["financial_status"] = *update.FinancialStatus
	}
	if update.Notes != nil {
		updates["notes"] = *update.Notes
	}
	if update.ProcessedAt != nil {
		updates["processed_at"] = *update.ProcessedAt
	}
	if update.ShippedAt != nil {
		updates["shipped_at"] = *update.ShippedAt
	}
	if update.DeliveredAt != nil {
		updates["delivered_at"] = *update.DeliveredAt
	}
	if update.CancelledAt != nil {
		updates["cancelled_at"] = *update.CancelledAt
	}
	if len(updates) == 0 {
		return nil
	}

	result := r.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
