package models

import (
	"time"

	"github.com/google/uuid"
)

// BillingInterval is the calendar unit a subscription period advances by.
type BillingInterval string

const (
	BillingIntervalDaily     BillingInterval = "daily"
	BillingIntervalWeekly    BillingInterval = "weekly"
	BillingIntervalMonthly   BillingInterval = "monthly"
	BillingIntervalQuarterly BillingInterval = "quarterly"
	BillingIntervalYearly    BillingInterval = "yearly"
)

// SubscriptionStatus is the lifecycle state of a subscription. Expired is set by an external job.
type SubscriptionStatus string

const (
	SubscriptionStatusActive    SubscriptionStatus = "active"
	SubscriptionStatusPaused    SubscriptionStatus = "paused"
	SubscriptionStatusCancelled SubscriptionStatus = "cancelled"
	SubscriptionStatusExpired   SubscriptionStatus = "expired"
)

// SubscriptionAction is a lifecycle command accepted by PUT /subscriptions/:id.
type SubscriptionAction string

const (
	SubscriptionActionPause       SubscriptionAction = "pause"
	SubscriptionActionResume      SubscriptionAction = "resume"
	SubscriptionActionCancel      SubscriptionAction = "cancel"
	SubscriptionActionUpdateItems SubscriptionAction = "update_items"
)

// SubscriptionPlan defines the billing cadence. Read-only to this service.
type SubscriptionPlan struct {
	ID                   uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name                 string          `gorm:"not null" json:"name"`
	Description          string          `json:"description,omitempty"`
	BillingInterval      BillingInterval `gorm:"type:varchar(20);not null" json:"billingInterval"`
	BillingIntervalCount int             `gorm:"not null;default:1" json:"billingIntervalCount"`
	TrialPeriodDays      int             `gorm:"not null;default:0" json:"trialPeriodDays"`
	Price                float64         `gorm:"type:numeric(12,2);not null;default:0" json:"price"`
	IsActive             bool            `gorm:"not null;default:true" json:"isActive"`
	CreatedAt            time.Time       `gorm:"autoCreateTime" json:"createdAt"`
}

// Subscription is a recurring order schedule owned by a customer.
type Subscription struct {
	ID                 uuid.UUID          `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CustomerID         uuid.UUID          `gorm:"type:uuid;index;not null" json:"customerId"`
	PlanID             uuid.UUID          `gorm:"type:uuid;not null" json:"planId"`
	Status             SubscriptionStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	CurrentPeriodStart time.Time          `gorm:"not null" json:"currentPeriodStart"`
	CurrentPeriodEnd   time.Time          `gorm:"not null" json:"currentPeriodEnd"`
	TrialStart         *time.Time         `json:"trialStart,omitempty"`
	TrialEnd           *time.Time         `json:"trialEnd,omitempty"`
	NextBillingDate    time.Time          `gorm:"not null" json:"nextBillingDate"`
	PausedAt           *time.Time         `json:"pausedAt,omitempty"`
	CancelledAt        *time.Time         `json:"cancelledAt,omitempty"`
	BillingAddress     AddressSnapshot    `gorm:"type:jsonb;serializer:json" json:"billingAddress"`
	ShippingAddress    AddressSnapshot    `gorm:"type:jsonb;serializer:json" json:"shippingAddress"`
	Items              []SubscriptionItem `gorm:"foreignKey:SubscriptionID" json:"items,omitempty"`
	CreatedAt          time.Time          `gorm:"autoCreateTime;index" json:"createdAt"`
	UpdatedAt          time.Time          `gorm:"autoUpdateTime" json:"updatedAt"`

	PlanName string `gorm:"->;-:migration" json:"planName,omitempty"`
}

// SubscriptionItem is a line of a subscription. Price is always resolved server-side.
type SubscriptionItem struct {
	ID             uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	SubscriptionID uuid.UUID `gorm:"type:uuid;index;not null" json:"-"`
	VariantID      uuid.UUID `gorm:"type:uuid;not null" json:"productVariantId"`
	Quantity       int       `gorm:"not null" json:"quantity"`
	Price          float64   `gorm:"type:numeric(12,2);not null" json:"price"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"-"`

	ProductName string `gorm:"->;-:migration" json:"productName,omitempty"`
	VariantName string `gorm:"->;-:migration" json:"variantName,omitempty"`
}

// BillingPeriod is the computed schedule of a new subscription.
type BillingPeriod struct {
	CurrentPeriodStart time.Time
	CurrentPeriodEnd   time.Time
	TrialStart         *time.Time
	TrialEnd           *time.Time
	NextBillingDate    time.Time
}

// CreateSubscriptionRequest is the payload for POST /subscriptions.
type CreateSubscriptionRequest struct {
	PlanID          uuid.UUID        `json:"planId" binding:"required"`
	Items           []OrderItemInput `json:"items" binding:"required,min=1,dive"`
	BillingAddress  AddressSnapshot  `json:"billingAddress" binding:"required"`
	ShippingAddress AddressSnapshot  `json:"shippingAddress" binding:"required"`
}

// CreateSubscriptionResponse is returned by POST /subscriptions.
type CreateSubscriptionResponse struct {
	ID              uuid.UUID          `json:"id"`
	Status          SubscriptionStatus `json:"status"`
	NextBillingDate time.Time          `json:"nextBillingDate"`
	TrialEnd        *time.Time         `json:"trialEnd,omitempty"`
}

// ManageSubscriptionRequest is the payload for PUT /subscriptions/:id.
type ManageSubscriptionRequest struct {
	Action SubscriptionAction `json:"action" binding:"required"`
	Items  []OrderItemInput   `json:"items" binding:"omitempty,dive"`
}

// SubscriptionFilter selects subscriptions for listing.
type SubscriptionFilter struct {
	CustomerID *uuid.UUID
	Status     SubscriptionStatus
	Limit      int
	Offset     int
}

// SubscriptionListResponse is the body of GET /subscriptions.
type SubscriptionListResponse struct {
	Subscriptions []Subscription `json:"subscriptions"`
	Total         int64          `json:"total"`
}

// SubscriptionEvent is published to SNS on creation and lifecycle changes.
type SubscriptionEvent struct {
	EventType       string             `json:"event_type"`
	SubscriptionID  string             `json:"subscription_id"`
	CustomerID      string             `json:"customer_id"`
	Status          SubscriptionStatus `json:"status"`
	Action          string             `json:"action,omitempty"`
	NextBillingDate time.Time          `json:"next_billing_date"`
	Timestamp       time.Time          `json:"timestamp"`
}

// ManageSubscriptionResponse is returned by PUT /subscriptions/:id.
type ManageSubscriptionResponse struct {
	Success bool               `json:"success"`
	Message string             `json:"message"`
	Status  SubscriptionStatus `json:"status"`
}
