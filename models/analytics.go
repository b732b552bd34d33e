package models

import (
	"time"

	"github.com/google/uuid"
)

// AnalyticsEvent is a tracked storefront interaction. UserID is nil for anonymous visitors.
type AnalyticsEvent struct {
	ID         uuid.UUID              `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	EventType  string                 `gorm:"type:varchar(100);not null;index" json:"eventType"`
	UserID     *uuid.UUID             `gorm:"type:uuid" json:"userId,omitempty"`
	SessionID  *string                `gorm:"type:varchar(255)" json:"sessionId,omitempty"`
	Properties map[string]interface{} `gorm:"type:jsonb;serializer:json" json:"properties"`
	CreatedAt  time.Time              `gorm:"autoCreateTime;index" json:"createdAt"`
}

// TrackEventRequest is the payload for POST /analytics/events.
type TrackEventRequest struct {
	EventType  string                 `json:"eventType" binding:"required"`
	SessionID  *string                `json:"sessionId"`
	Properties map[string]interface{} `json:"properties"`
}

// DashboardMetrics is the body of GET /analytics/dashboard.
type DashboardMetrics struct {
	TotalRevenue        float64 `json:"totalRevenue"`
	TotalOrders         int64   `json:"totalOrders"`
	TotalCustomers      int64   `json:"totalCustomers"`
	ActiveSubscriptions int64   `json:"activeSubscriptions"`
	RevenueGrowth       float64 `json:"revenueGrowth"`
	OrderGrowth         float64 `json:"orderGrowth"`
	CustomerGrowth      float64 `json:"customerGrowth"`
	SubscriptionGrowth  float64 `json:"subscriptionGrowth"`
}

// PeriodTotals aggregates orders created in a window.
type PeriodTotals struct {
	Revenue   float64
	Orders    int64
	Customers int64
}

// SalesBucket is one row of the sales report.
type SalesBucket struct {
	Date              string  `json:"date"`
	Revenue           float64 `json:"revenue"`
	Orders            int64   `json:"orders"`
	AverageOrderValue float64 `json:"averageOrderValue"`
}

// SalesReport is the body of GET /analytics/sales.
type SalesReport struct {
	Data         []SalesBucket `json:"data"`
	TotalRevenue float64       `json:"totalRevenue"`
	TotalOrders  int64         `json:"totalOrders"`
}

// ProductPerformance is one row of the top products report.
type ProductPerformance struct {
	ProductID   uuid.UUID `json:"productId"`
	ProductName string    `json:"productName"`
	TotalSold   int64     `json:"totalSold"`
	Revenue     float64   `json:"revenue"`
}

// ProductPerformanceResponse is the body of GET /analytics/products.
type ProductPerformanceResponse struct {
	Products []ProductPerformance `json:"products"`
}

// ReportGrouping buckets the sales report.
type ReportGrouping string

const (
	GroupByDay   ReportGrouping = "day"
	GroupByWeek  ReportGrouping = "week"
	GroupByMonth ReportGrouping = "month"
)

// SalesQuery selects the sales report window. Nil bounds fall back to the last 30 days.
type SalesQuery struct {
	From    *time.Time
	To      *time.Time
	GroupBy ReportGrouping
}

// TopProductsQuery selects the product performance window.
type TopProductsQuery struct {
	From  *time.Time
	To    *time.Time
	Limit int
}
