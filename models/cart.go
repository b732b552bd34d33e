package models

import (
	"time"

	"github.com/google/uuid"
)

// CartItem is one line of a user's cart. Quantity is always >= 1; lines are deleted, never zeroed.
type CartItem struct {
	ID        uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID    uuid.UUID  `gorm:"type:uuid;index;not null" json:"-"`
	ProductID uuid.UUID  `gorm:"type:uuid;not null" json:"productId"`
	VariantID *uuid.UUID `gorm:"type:uuid" json:"variantId,omitempty"`
	Quantity  int        `gorm:"not null;check:quantity > 0" json:"quantity"`
	Price     float64    `gorm:"type:numeric(12,2);not null" json:"price"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updatedAt"`
}

// CartLine is a cart item joined with live product data.
type CartLine struct {
	ID          uuid.UUID  `json:"id"`
	ProductID   uuid.UUID  `json:"productId"`
	VariantID   *uuid.UUID `json:"variantId,omitempty"`
	ProductName string     `json:"productName"`
	VariantName *string    `json:"variantName,omitempty"`
	SKU         *string    `json:"sku,omitempty"`
	Price       float64    `json:"price"`
	Quantity    int        `json:"quantity"`
	Image       *string    `json:"image,omitempty"`
	CreatedAt   time.Time  `json:"-"`

	// Set when the product or the referenced variant no longer exists.
	ProductMissing bool          `json:"-"`
	VariantMissing bool          `json:"-"`
	ProductStatus  ProductStatus `json:"-"`

	// Unavailable lines stay listed so they can be removed, but count toward neither totals nor checkout.
	Unavailable bool `json:"unavailable"`
}

// MarkAvailability derives Unavailable from the joined product and variant state. A line is
// unavailable when its product or variant is gone or the product is archived.
func (l *CartLine) MarkAvailability() {
	l.Unavailable = l.ProductMissing || l.VariantMissing || l.ProductStatus == ProductStatusArchived
}

// AddToCartRequest is the payload for POST /cart/items.
type AddToCartRequest struct {
	ProductID uuid.UUID  `json:"productId" binding:"required"`
	VariantID *uuid.UUID `json:"variantId"`
	Quantity  int        `json:"quantity" binding:"required,min=1"`
}

// UpdateCartItemRequest is the payload for PATCH /cart/items/:id.
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

// CartResponse is the body of GET /cart.
type CartResponse struct {
	Items     []CartLine `json:"items"`
	Subtotal  float64    `json:"subtotal"`
	ItemCount int        `json:"itemCount"`
}
