package models

import (
	"time"

	"github.com/google/uuid"
)

// ProductStatus controls storefront visibility.
type ProductStatus string

const (
	ProductStatusDraft    ProductStatus = "draft"
	ProductStatusActive   ProductStatus = "active"
	ProductStatusArchived ProductStatus = "archived"
)

// Product is a catalog entry. Variants optionally override Price and SKU.
type Product struct {
	ID             uuid.UUID        `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name           string           `gorm:"not null" json:"name"`
	Slug           string           `gorm:"type:varchar(255);uniqueIndex;not null" json:"slug"`
	Description    string           `json:"description,omitempty"`
	Price          float64          `gorm:"type:numeric(12,2);not null" json:"price"`
	CompareAtPrice *float64         `gorm:"type:numeric(12,2)" json:"compareAtPrice,omitempty"`
	SKU            *string          `gorm:"type:varchar(100)" json:"sku,omitempty"`
	Status         ProductStatus    `gorm:"type:varchar(20);not null;default:'draft';index" json:"status"`
	Images         []string         `gorm:"type:jsonb;serializer:json" json:"images"`
	Tags           []string         `gorm:"type:jsonb;serializer:json" json:"tags"`
	Variants       []ProductVariant `gorm:"foreignKey:ProductID" json:"variants,omitempty"`
	Categories     []Category       `gorm:"many2many:product_categories" json:"categories,omitempty"`
	CreatedAt      time.Time        `gorm:"autoCreateTime;index" json:"createdAt"`
	UpdatedAt      time.Time        `gorm:"autoUpdateTime" json:"updatedAt"`
}

// ProductVariant is a purchasable configuration of a product.
type ProductVariant struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProductID uuid.UUID `gorm:"type:uuid;index;not null" json:"productId"`
	Name      string    `gorm:"not null" json:"name"`
	SKU       *string   `gorm:"type:varchar(100)" json:"sku,omitempty"`
	Price     *float64  `gorm:"type:numeric(12,2)" json:"price,omitempty"`
	Position  int       `gorm:"not null;default:0" json:"position"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// Category groups products for storefront navigation.
type Category struct {
	ID   uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name string    `gorm:"not null" json:"name"`
	Slug string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"slug"`
}

// VariantSnapshot is a resolved variant with its parent product, used wherever a price or title is copied.
type VariantSnapshot struct {
	VariantID    uuid.UUID
	ProductID    uuid.UUID
	ProductName  string
	VariantName  string
	SKU          *string
	Price        float64
	ProductState ProductStatus
}

// ProductFilter selects products for listing.
type ProductFilter struct {
	Status   ProductStatus
	Search   string
	Category string
	Limit    int
	Offset   int
}

// ProductListResponse is the body of GET /products.
type ProductListResponse struct {
	Products []Product `json:"products"`
	Total    int64     `json:"total"`
}

// VariantInput describes a variant on create.
type VariantInput struct {
	Name     string   `json:"name" binding:"required"`
	SKU      *string  `json:"sku"`
	Price    *float64 `json:"price" binding:"omitempty,gte=0"`
	Position int      `json:"position"`
}

// CreateProductRequest is the payload for POST /products.
type CreateProductRequest struct {
	Name           string         `json:"name" binding:"required"`
	Description    string         `json:"description"`
	Price          float64        `json:"price" binding:"gte=0"`
	CompareAtPrice *float64       `json:"compareAtPrice" binding:"omitempty,gte=0"`
	SKU            *string        `json:"sku"`
	Status         ProductStatus  `json:"status" binding:"omitempty,oneof=draft active archived"`
	Images         []string       `json:"images"`
	Tags           []string       `json:"tags"`
	CategoryIDs    []uuid.UUID    `json:"categoryIds"`
	Variants       []VariantInput `json:"variants" binding:"dive"`
}

// UpdateProductRequest only touches provided fields.
type UpdateProductRequest struct {
	Name           *string        `json:"name"`
	Description    *string        `json:"description"`
	Price          *float64       `json:"price" binding:"omitempty,gte=0"`
	CompareAtPrice *float64       `json:"compareAtPrice" binding:"omitempty,gte=0"`
	SKU            *string        `json:"sku"`
	Status         *ProductStatus `json:"status" binding:"omitempty,oneof=draft active archived"`
	Images         []string       `json:"images"`
	Tags           []string       `json:"tags"`
}

// PresignUploadRequest asks for a product media upload URL.
type PresignUploadRequest struct {
	Filename    string `json:"filename" binding:"required"`
	ContentType string `json:"contentType" binding:"required"`
}

// PresignUploadResponse carries a presigned S3 PUT URL.
type PresignUploadResponse struct {
	UploadURL string            `json:"uploadUrl"`
	Key       string            `json:"key"`
	Headers   map[string]string `json:"headers"`
}
