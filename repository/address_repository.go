package repository

import (
	"context"

	"github.com/cetler74/modern-e-commerce-platform/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AddressRepository defines data access for saved customer addresses.
// Every lookup is scoped by customer so one customer can never touch another's rows.
type AddressRepository interface {
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]models.Address, error)
	FindByID(ctx context.Context, customerID, id uuid.UUID) (*models.Address, error)
	Create(ctx context.Context, address *models.Address) error
	Update(ctx context.Context, customerID, id uuid.UUID, updates map[string]interface{}) error
	ClearDefault(ctx context.Context, customerID uuid.UUID) error
	Delete(ctx context.Context, customerID, id uuid.UUID) error
}

// GormAddressRepository implements AddressRepository using GORM.
type GormAddressRepository struct {
	db *gorm.DB
}

// NewGormAddressRepository creates a new GormAddressRepository.
func NewGormAddressRepository(db *gorm.DB) AddressRepository {
	return &GormAddressRepository{db: db}
}

// ListByCustomer returns the default address first, then newest first.
func (r *GormAddressRepository) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]models.Address, error) {
	var addresses []models.Address
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("is_default DESC, created_at DESC").
		Find(&addresses).Error
	return addresses, err
}

func (r *GormAddressRepository) FindByID(ctx context.Context, customerID, id uuid.UUID) (*models.Address, error) {
	var address models.Address
	err := r.db.WithContext(ctx).
		Where("id = ? AND customer_id = ?", id, customerID).
		First(&address).Error
	if err != nil {
		return nil, err
	}
	return &address, nil
}

func (r *GormAddressRepository) Create(ctx context.Context, address *models.Address) error {
	return r.db.WithContext(ctx).Create(address).Error
}

func (r *GormAddressRepository) Update(ctx context.Context, customerID, id uuid.UUID, updates map[string]interface{}) error {
	result := r.db.WithContext(ctx).
		Model(&models.Address{}).
		Where("id = ? AND customer_id = ?", id, customerID).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ClearDefault unsets the default flag on every address of the customer.
func (r *GormAddressRepository) ClearDefault(ctx context.Context, customerID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.Address{}).
		Where("customer_id = ? AND is_default = ?", customerID, true).
		Update("is_default", false).Error
}

func (r *GormAddressRepository) Delete(ctx context.Context, customerID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND customer_id = ?", id, customerID).
		Delete(&models.Address{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
