package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/cetler74/modern-e-commerce-platform/models"

	"gorm.io/gorm"
)

// ReportRepository runs the aggregate queries behind the admin dashboard.
type ReportRepository interface {
	PeriodTotals(ctx context.Context, from, to time.Time) (models.PeriodTotals, error)
	ActiveSubscriptions(ctx context.Context) (int64, error)
	SalesBuckets(ctx context.Context, from, to time.Time, groupBy models.ReportGrouping) ([]models.SalesBucket, error)
	SalesTotals(ctx context.Context, from, to time.Time) (float64, int64, error)
	TopProducts(ctx context.Context, from, to time.Time, limit int) ([]models.ProductPerformance, error)
}

// GormReportRepository implements ReportRepository using GORM.
type GormReportRepository struct {
	db *gorm.DB
}

// NewGormReportRepository creates a new GormReportRepository.
func NewGormReportRepository(db *gorm.DB) ReportRepository {
	return &GormReportRepository{db: db}
}

// PeriodTotals aggregates every order created in [from, to).
func (r *GormReportRepository) PeriodTotals(ctx context.Context, from, to time.Time) (models.PeriodTotals, error) {
	var totals models.PeriodTotals
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Select("COALESCE(SUM(total_amount), 0) AS revenue, COUNT(*) AS orders, COUNT(DISTINCT customer_id) AS customers").
		Where("created_at >= ? AND created_at < ?", from, to).
		Scan(&totals).Error
	return totals, err
}

func (r *GormReportRepository) ActiveSubscriptions(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Subscription{}).
		Where("status = ?", models.SubscriptionStatusActive).
		Count(&count).Error
	return count, err
}

func bucketExpr(groupBy models.ReportGrouping) string {
	switch groupBy {
	case models.GroupByWeek:
		return "DATE_TRUNC('week', created_at)"
	case models.GroupByMonth:
		return "DATE_TRUNC('month', created_at)"
	default:
		return "DATE_TRUNC('day', created_at)"
	}
}

// SalesBuckets groups paid orders created in [from, to] by day, week or month.
func (r *GormReportRepository) SalesBuckets(ctx context.Context, from, to time.Time, groupBy models.ReportGrouping) ([]models.SalesBucket, error) {
	var rows []struct {
		Bucket  time.Time
		Revenue float64
		Orders  int64
	}
	expr := bucketExpr(groupBy)
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Select(fmt.Sprintf("%s AS bucket, SUM(total_amount) AS revenue, COUNT(*) AS orders", expr)).
		Where("created_at >= ? AND created_at <= ? AND financial_status = ?", from, to, models.FinancialStatusPaid).
		Group(expr).
		Order("bucket").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	buckets := make([]models.SalesBucket, 0, len(rows))
	for _, row := range rows {
		bucket := models.SalesBucket{
			Date:    row.Bucket.UTC().Format("2006-01-02"),
			Revenue: row.Revenue,
			Orders:  row.Orders,
		}
		if row.Orders > 0 {
			bucket.AverageOrderValue = row.Revenue / float64(row.Orders)
		}
		buckets = append(buckets, bucket)
	}
	return buckets, nil
}

// SalesTotals sums paid orders created in [from, to].
func (r *GormReportRepository) SalesTotals(ctx context.Context, from, to time.Time) (float64, int64, error) {
	var row struct {
		Revenue float64
		Orders  int64
	}
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Select("COALESCE(SUM(total_amount), 0) AS revenue, COUNT(*) AS orders").
		Where("created_at >= ? AND created_at <= ? AND financial_status = ?", from, to, models.FinancialStatusPaid).
		Scan(&row).Error
	return row.Revenue, row.Orders, err
}

// TopProducts ranks products by revenue from paid orders created in [from, to]. Products deleted
// since keep the title copied onto their line items.
func (r *GormReportRepository) TopProducts(ctx context.Context, from, to time.Time, limit int) ([]models.ProductPerformance, error) {
	var rows []models.ProductPerformance
	err := r.db.WithContext(ctx).
		Table("order_line_items oli").
		Select("oli.product_id, COALESCE(MAX(p.name), MAX(oli.title)) AS product_name, "+
			"SUM(oli.quantity) AS total_sold, SUM(oli.quantity * oli.price) AS revenue").
		Joins("JOIN orders o ON o.id = oli.order_id").
		Joins("LEFT JOIN products p ON p.id = oli.product_id").
		Where("o.created_at >= ? AND o.created_at <= ? AND o.financial_status = ?", from, to, models.FinancialStatusPaid).
		Group("oli.product_id").
		Order("revenue DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}
