package models

import (
	"time"

	"github.com/google/uuid"
)

// Customer holds the purchasing side of a user and its lifetime aggregates.
type Customer struct {
	ID             uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID         uuid.UUID  `gorm:"type:uuid;uniqueIndex;not null" json:"userId"`
	CustomerNumber string     `gorm:"type:varchar(64);uniqueIndex;not null" json:"customerNumber"`
	TotalSpent     float64    `gorm:"type:numeric(12,2);not null;default:0" json:"totalSpent"`
	OrdersCount    int        `gorm:"not null;default:0" json:"ordersCount"`
	LastOrderAt    *time.Time `json:"lastOrderAt,omitempty"`
	CreatedAt      time.Time  `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt      time.Time  `gorm:"autoUpdateTime" json:"updatedAt"`

	// Email is joined from users and never persisted on this table.
	Email string `gorm:"->;-:migration" json:"email,omitempty"`
}

// Address is a saved customer address. Orders and subscriptions copy it rather than reference it.
type Address struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CustomerID uuid.UUID `gorm:"type:uuid;index;not null" json:"-"`
	Type       string    `gorm:"type:varchar(20);not null" json:"type"`
	FirstName  *string   `json:"firstName,omitempty"`
	LastName   *string   `json:"lastName,omitempty"`
	Company    *string   `json:"company,omitempty"`
	Address1   string    `gorm:"not null" json:"address1"`
	Address2   *string   `json:"address2,omitempty"`
	City       string    `gorm:"not null" json:"city"`
	Province   *string   `json:"province,omitempty"`
	Country    string    `gorm:"not null" json:"country"`
	Zip        string    `gorm:"not null" json:"zip"`
	Phone      *string   `json:"phone,omitempty"`
	IsDefault  bool      `gorm:"not null;default:false" json:"isDefault"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"-"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"-"`
}

// AddressSnapshot is the copy of an address stored on orders and subscriptions.
type AddressSnapshot struct {
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Company   string `json:"company,omitempty"`
	Address1  string `json:"address1" binding:"required"`
	Address2  string `json:"address2,omitempty"`
	City      string `json:"city" binding:"required"`
	Province  string `json:"province,omitempty"`
	Country   string `json:"country" binding:"required"`
	Zip       string `json:"zip" binding:"required"`
	Phone     string `json:"phone,omitempty"`
}

// AddAddressRequest is the payload for POST /users/addresses.
type AddAddressRequest struct {
	Type      string  `json:"type" binding:"required,oneof=billing shipping"`
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Company   *string `json:"company"`
	Address1  string  `json:"address1" binding:"required"`
	Address2  *string `json:"address2"`
	City      string  `json:"city" binding:"required"`
	Province  *string `json:"province"`
	Country   string  `json:"country" binding:"required"`
	Zip       string  `json:"zip" binding:"required"`
	Phone     *string `json:"phone"`
	IsDefault bool    `json:"isDefault"`
}

// UpdateAddressRequest is the payload for PATCH /users/addresses/:id.
type UpdateAddressRequest struct {
	Type      *string `json:"type" binding:"omitempty,oneof=billing shipping"`
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Company   *string `json:"company"`
	Address1  *string `json:"address1"`
	Address2  *string `json:"address2"`
	City      *string `json:"city"`
	Province  *string `json:"province"`
	Country   *string `json:"country"`
	Zip       *string `json:"zip"`
	Phone     *string `json:"phone"`
	IsDefault *bool   `json:"isDefault"`
}

// AddressListResponse is the body of GET /users/addresses.
type AddressListResponse struct {
	Addresses []Address `json:"addresses"`
}
