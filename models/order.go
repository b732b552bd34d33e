package models

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatus is the fulfillment lifecycle of an order.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusConfirmed  OrderStatus = "confirmed"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// FinancialStatus is the payment lifecycle of an order, independent of fulfillment.
type FinancialStatus string

const (
	FinancialStatusPending           FinancialStatus = "pending"
	FinancialStatusAuthorized        FinancialStatus = "authorized"
	FinancialStatusPaid              FinancialStatus = "paid"
	FinancialStatusPartiallyRefunded FinancialStatus = "partially_refunded"
	FinancialStatusRefunded          FinancialStatus = "refunded"
	FinancialStatusVoided            FinancialStatus = "voided"
)

// DefaultCurrency is used for every order.
const DefaultCurrency = "USD"

// Order is an immutable purchase snapshot. Only status, financial status, notes and the
// status timestamps change after creation.
type Order struct {
	ID              uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderNumber     string          `gorm:"type:varchar(64);uniqueIndex;not null" json:"orderNumber"`
	CustomerID      uuid.UUID       `gorm:"type:uuid;index;not null" json:"customerId"`
	Email           string          `gorm:"not null" json:"email"`
	Status          OrderStatus     `gorm:"type:varchar(20);not null;index" json:"status"`
	FinancialStatus FinancialStatus `gorm:"type:varchar(30);not null" json:"financialStatus"`
	Subtotal        float64         `gorm:"type:numeric(12,2);not null" json:"subtotal"`
	TaxAmount       float64         `gorm:"type:numeric(12,2);not null" json:"taxAmount"`
	ShippingAmount  float64         `gorm:"type:numeric(12,2);not null" json:"shippingAmount"`
	DiscountAmount  float64         `gorm:"type:numeric(12,2);not null;default:0" json:"discountAmount"`
	TotalAmount     float64         `gorm:"type:numeric(12,2);not null" json:"totalAmount"`
	Currency        string          `gorm:"type:varchar(3);not null" json:"currency"`
	BillingAddress  AddressSnapshot `gorm:"type:jsonb;serializer:json" json:"billingAddress"`
	ShippingAddress AddressSnapshot `gorm:"type:jsonb;serializer:json" json:"shippingAddress"`
	Notes           *string         `json:"notes,omitempty"`
	PaymentMethod   *string         `gorm:"type:varchar(50)" json:"paymentMethod,omitempty"`
	IdempotencyKey  *string         `gorm:"type:varchar(255);uniqueIndex" json:"-"`
	ProcessedAt     *time.Time      `json:"processedAt,omitempty"`
	ShippedAt       *time.Time      `json:"shippedAt,omitempty"`
	DeliveredAt     *time.Time      `json:"deliveredAt,omitempty"`
	CancelledAt     *time.Time      `json:"cancelledAt,omitempty"`
	LineItems       []OrderLineItem `gorm:"foreignKey:OrderID" json:"items,omitempty"`
	CreatedAt       time.Time       `gorm:"autoCreateTime;index" json:"createdAt"`
	UpdatedAt       time.Time       `gorm:"autoUpdateTime" json:"updatedAt"`
}

// OrderLineItem copies product data at order time so later catalog edits do not rewrite history.
type OrderLineItem struct {
	ID            uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderID       uuid.UUID  `gorm:"type:uuid;index;not null" json:"-"`
	ProductID     uuid.UUID  `gorm:"type:uuid;not null" json:"productId"`
	VariantID     *uuid.UUID `gorm:"type:uuid" json:"variantId,omitempty"`
	Title         string     `gorm:"not null" json:"title"`
	VariantTitle  *string    `json:"variantTitle,omitempty"`
	SKU           *string    `json:"sku,omitempty"`
	Quantity      int        `gorm:"not null" json:"quantity"`
	Price         float64    `gorm:"type:numeric(12,2);not null" json:"price"`
	TotalDiscount float64    `gorm:"type:numeric(12,2);not null;default:0" json:"totalDiscount"`
	CreatedAt     time.Time  `gorm:"autoCreateTime" json:"-"`
}

// OrderFilter selects orders for listing. CustomerID is nil for an unrestricted listing.
type OrderFilter struct {
	Status          OrderStatus
	FinancialStatus FinancialStatus
	CustomerID      *uuid.UUID
	Limit           int
	Offset          int
}

// OrderUpdate carries the mutable order fields.
type OrderUpdate struct {
	Status          *OrderStatus
	FinancialStatus *FinancialStatus
	Notes           *string
	ProcessedAt     *time.Time
	ShippedAt       *time.Time
	DeliveredAt     *time.Time
	CancelledAt     *time.Time
}

// CheckoutRequest is the payload for POST /checkout.
type CheckoutRequest struct {
	BillingAddress  AddressSnapshot `json:"billingAddress" binding:"required"`
	ShippingAddress AddressSnapshot `json:"shippingAddress" binding:"required"`
	PaymentMethod   string          `json:"paymentMethod" binding:"required"`
	Notes           *string         `json:"notes"`
}

// CheckoutResponse is returned by POST /checkout and replayed for a repeated idempotency key.
type CheckoutResponse struct {
	OrderID     uuid.UUID   `json:"orderId"`
	OrderNumber string      `json:"orderNumber"`
	TotalAmount float64     `json:"totalAmount"`
	Status      OrderStatus `json:"status"`
}

// OrderItemInput is a line of a direct order or a subscription item set.
type OrderItemInput struct {
	ProductVariantID uuid.UUID `json:"productVariantId" binding:"required"`
	Quantity         int       `json:"quantity" binding:"required,min=1"`
}

// CreateOrderRequest is the payload for POST /orders.
type CreateOrderRequest struct {
	Items           []OrderItemInput `json:"items" binding:"required,min=1,dive"`
	BillingAddress  AddressSnapshot  `json:"billingAddress" binding:"required"`
	ShippingAddress AddressSnapshot  `json:"shippingAddress" binding:"required"`
	Notes           *string          `json:"notes"`
}

// CreateOrderResponse is returned by POST /orders.
type CreateOrderResponse struct {
	ID          uuid.UUID `json:"id"`
	OrderNumber string    `json:"orderNumber"`
	TotalAmount float64   `json:"totalAmount"`
}

// UpdateOrderRequest is the payload for PATCH /orders/:id.
type UpdateOrderRequest struct {
	Status          *OrderStatus     `json:"status" binding:"omitempty,order_status"`
	FinancialStatus *FinancialStatus `json:"financialStatus" binding:"omitempty,financial_status"`
	Notes           *string          `json:"notes"`
}

// OrderListResponse is the body of GET /orders.
type OrderListResponse struct {
	Orders []Order `json:"orders"`
	Total  int64   `json:"total"`
}

// OrderEvent is published to SNS when an order is created or changes status.
type OrderEvent struct {
	EventType       string          `json:"event_type"`
	OrderID         string          `json:"order_id"`
	OrderNumber     string          `json:"order_number"`
	CustomerID      string          `json:"customer_id"`
	Status          OrderStatus     `json:"status"`
	FinancialStatus FinancialStatus `json:"financial_status"`
	TotalAmount     float64         `json:"total_amount"`
	Currency        string          `json:"currency"`
	Timestamp       time.Time       `json:"timestamp"`
}
