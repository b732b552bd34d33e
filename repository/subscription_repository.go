package repository

import (
	"context"

	"github.com/cetler74/modern-e-commerce-platform/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SubscriptionRepository defines data access for plans, subscriptions and their items.
type SubscriptionRepository interface {
	FindActivePlan(ctx context.Context, id uuid.UUID) (*models.SubscriptionPlan, error)
	ListActivePlans(ctx context.Context) ([]models.SubscriptionPlan, error)
	Create(ctx context.Context, sub *models.Subscription) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Subscription, error)
	LockByID(ctx context.Context, id uuid.UUID) (*models.Subscription, error)
	UpdateFields(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error
	ReplaceItems(ctx context.Context, id uuid.UUID, items []models.SubscriptionItem) error
	List(ctx context.Context, filter models.SubscriptionFilter) ([]models.Subscription, int64, error)
}

// GormSubscriptionRepository implements SubscriptionRepository using GORM.
type GormSubscriptionRepository struct {
	db *gorm.DB
}

// NewGormSubscriptionRepository creates a new GormSubscriptionRepository.
func NewGormSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &GormSubscriptionRepository{db: db}
}

func (r *GormSubscriptionRepository) FindActivePlan(ctx context.Context, id uuid.UUID) (*models.SubscriptionPlan, error) {
	var plan models.SubscriptionPlan
	err := r.db.WithContext(ctx).
		Where("id = ? AND is_active = ?", id, true).
		First(&plan).Error
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *GormSubscriptionRepository) ListActivePlans(ctx context.Context) ([]models.SubscriptionPlan, error) {
	var plans []models.SubscriptionPlan
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("price ASC, name ASC").
		Find(&plans).Error
	return plans, err
}

// Create inserts the subscription and its items together.
func (r *GormSubscriptionRepository) Create(ctx context.Context, sub *models.Subscription) error {
	return r.db.WithContext(ctx).Create(sub).Error
}

func (r *GormSubscriptionRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Subscription, error) {
	var sub models.Subscription
	err := r.db.WithContext(ctx).
		Select("subscriptions.*, subscription_plans.name AS plan_name").
		Joins("LEFT JOIN subscription_plans ON subscription_plans.id = subscriptions.plan_id").
		Where("subscriptions.id = ?", id).
		First(&sub).Error
	if err != nil {
		return nil, err
	}
	if err := r.attachItems(ctx, []*models.Subscription{&sub}); err != nil {
		return nil, err
	}
	return &sub, nil
}

// LockByID loads the subscription row holding a lock until the transaction ends.
func (r *GormSubscriptionRepository) LockByID(ctx context.Context, id uuid.UUID) (*models.Subscription, error) {
	var sub models.Subscription
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&sub).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *GormSubscriptionRepository) UpdateFields(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	result := r.db.WithContext(ctx).Model(&models.Subscription{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ReplaceItems deletes every item of the subscription and inserts items in their place.
func (r *GormSubscriptionRepository) ReplaceItems(ctx context.Context, id uuid.UUID, items []models.SubscriptionItem) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("subscription_id = ?", id).Delete(&models.SubscriptionItem{}).Error; err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	for i := range items {
		items[i].SubscriptionID = id
	}
	return db.Create(&items).Error
}

// List returns one page of subscriptions, newest first, with plan names and items.
func (r *GormSubscriptionRepository) List(ctx context.Context, filter models.SubscriptionFilter) ([]models.Subscription, int64, error) {
	var subs []models.Subscription
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Subscription{})
	if filter.CustomerID != nil {
		query = query.Where("subscriptions.customer_id = ?", *filter.CustomerID)
	}
	if filter.Status != "" {
		query = query.Where("subscriptions.status = ?", filter.Status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Select("subscriptions.*, subscription_plans.name AS plan_name").
		Joins("LEFT JOIN subscription_plans ON subscription_plans.id = subscriptions.plan_id").
		Order("subscriptions.created_at DESC").
		Offset(filter.Offset).
		Limit(filter.Limit).
		Find(&subs).Error
	if err != nil {
		return nil, 0, err
	}

	ptrs := make([]*models.Subscription, len(subs))
	for i := range subs {
		ptrs[i] = &subs[i]
	}
	if err := r.attachItems(ctx, ptrs); err != nil {
		return nil, 0, err
	}
	return subs, total, nil
}

// attachItems loads items with their product and variant names for all subs in one query.
func (r *GormSubscriptionRepository) attachItems(ctx context.Context, subs []*models.Subscription) error {
	if len(subs) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, len(subs))
	byID := make(map[uuid.UUID]*models.Subscription, len(subs))
	for i, sub := range subs {
		ids[i] = sub.ID
		byID[sub.ID] = sub
		sub.Items = []models.SubscriptionItem{}
	}

	var items []models.SubscriptionItem
	err := r.db.WithContext(ctx).
		Model(&models.SubscriptionItem{}).
		Select("subscription_items.*, COALESCE(p.name, '') AS product_name, COALESCE(v.name, '') AS variant_name").
		Joins("LEFT JOIN product_variants v ON v.id = subscription_items.variant_id").
		Joins("LEFT JOIN products p ON p.id = v.product_id").
		Where("subscription_items.subscription_id IN ?", ids).
		Order("subscription_items.created_at ASC").
		Find(&items).Error
	if err != nil {
		return err
	}
	for _, item := range items {
		if sub, ok := byID[item.SubscriptionID]; ok {
			sub.Items = append(sub.Items, item)
		}
	}
	return nil
}
