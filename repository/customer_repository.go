package repository

import (
	"context"
	"time"

	"github.com/cetler74/modern-e-commerce-platform/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CustomerRepository defines data access for customers and their lifetime aggregates.
type CustomerRepository interface {
	Create(ctx context.Context, customer *models.Customer) error
	FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Customer, error)
	LockByUserID(ctx context.Context, userID uuid.UUID) (*models.Customer, error)
	RecordOrder(ctx context.Context, customerID uuid.UUID, total float64, at time.Time) error
}

// GormCustomerRepository implements CustomerRepository using GORM.
type GormCustomerRepository struct {
	db *gorm.DB
}

// NewGormCustomerRepository creates a new GormCustomerRepository.
func NewGormCustomerRepository(db *gorm.DB) CustomerRepository {
	return &GormCustomerRepository{db: db}
}

func (r *GormCustomerRepository) Create(ctx context.Context, customer *models.Customer) error {
	return r.db.WithContext(ctx).Create(customer).Error
}

func (r *GormCustomerRepository) withEmail(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&models.Customer{}).
		Select("customers.*, users.email").
		Joins("JOIN users ON users.id = customers.user_id")
}

// FindByUserID returns the customer with the owning user's email.
func (r *GormCustomerRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Customer, error) {
	var customer models.Customer
	if err := r.withEmail(ctx).Where("customers.user_id = ?", userID).First(&customer).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

// LockByUserID is FindByUserID holding a row lock on the customer until the transaction ends.
func (r *GormCustomerRepository) LockByUserID(ctx context.Context, userID uuid.UUID) (*models.Customer, error) {
	var customer models.Customer
	err := r.withEmail(ctx).
		Clauses(clause.Locking{Strength: "UPDATE", Table: clause.Table{Name: "customers"}}).
		Where("customers.user_id = ?", userID).
		First(&customer).Error
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

// RecordOrder adds an order to the customer's lifetime counters.
func (r *GormCustomerRepository) RecordOrder(ctx context.Context, customerID uuid.UUID, total float64, at time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&models.Customer{}).
		Where("id = ?", customerID).
		Updates(map[string]interface{}{
			"total_spent":   gorm.Expr("total_spent + ?", total),
			"orders_count":  gorm.Expr("orders_count + 1"),
			"last_order_at": at,
			"updated_at":    at,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
