package services

import (
	"context"
	"time"

	"github.com/cetler74/modern-e-commerce-platform/models"
	"github.com/cetler74/modern-e-commerce-platform/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultReportWindow = 30 * 24 * time.Hour

var dashboardPeriods = map[string]int{
	"7d":  7,
	"30d": 30,
	"90d": 90,
	"1y":  365,
}

// AnalyticsService defines event tracking and the admin reports.
type AnalyticsService interface {
	Track(ctx context.Context, userID *uuid.UUID, req *models.TrackEventRequest) *ServiceError
	Dashboard(ctx context.Context, identity models.Identity, period string) (*models.DashboardMetrics, *ServiceError)
	Sales(ctx context.Context, identity models.Identity, query models.SalesQuery) (*models.SalesReport, *ServiceError)
	TopProducts(ctx context.Context, identity models.Identity, query models.TopProductsQuery) (*models.ProductPerformanceResponse, *ServiceError)
}

type analyticsServiceImpl struct {
	sink    repository.EventSink
	reports repository.ReportRepository
	logger  *zap.Logger
	now     func() time.Time
}

// NewAnalyticsService creates a new AnalyticsService.
func NewAnalyticsService(sink repository.EventSink, reports repository.ReportRepository, logger *zap.Logger) AnalyticsService {
	return newAnalyticsService(sink, reports, logger, time.Now)
}

func newAnalyticsService(sink repository.EventSink, reports repository.ReportRepository, logger *zap.Logger, now func() time.Time) *analyticsServiceImpl {
	return &analyticsServiceImpl{sink: sink, reports: reports, logger: logger, now: now}
}

// Track records a storefront event. userID is nil for anonymous visitors.
func (s *analyticsServiceImpl) Track(ctx context.Context, userID *uuid.UUID, req *models.TrackEventRequest) *ServiceError {
	properties := req.Properties
	if properties == nil {
		properties = map[string]interface{}{}
	}
	event := &models.AnalyticsEvent{
		EventType:  req.EventType,
		UserID:     userID,
		SessionID:  req.SessionID,
		Properties: properties,
		CreatedAt:  s.now().UTC(),
	}
	if err := s.sink.Record(ctx, event); err != nil {
		s.logger.Error("Failed to record analytics event", zap.String("event_type", req.EventType), zap.Error(err))
		return internal("Failed to record event")
	}
	return nil
}

// Dashboard compares the trailing period with the one before it. Unknown periods fall back to 30 days.
func (s *analyticsServiceImpl) Dashboard(ctx context.Context, identity models.Identity, period string) (*models.DashboardMetrics, *ServiceError) {
	if !identity.Can(models.PermAnalyticsRead) {
		return nil, permissionDenied("Insufficient permissions")
	}

	days, ok := dashboardPeriods[period]
	if !ok {
		days = 30
	}
	now := s.now().UTC()
	start := now.AddDate(0, 0, -days)
	previousStart := now.AddDate(0, 0, -2*days)

	current, err := s.reports.PeriodTotals(ctx, start, now)
	if err != nil {
		s.logger.Error("Failed to load dashboard totals", zap.Error(err))
		return nil, internal("Failed to load dashboard")
	}
	previous, err := s.reports.PeriodTotals(ctx, previousStart, start)
	if err != nil {
		s.logger.Error("Failed to load previous dashboard totals", zap.Error(err))
		return nil, internal("Failed to load dashboard")
	}
	active, err := s.reports.ActiveSubscriptions(ctx)
	if err != nil {
		s.logger.Error("Failed to count active subscriptions", zap.Error(err))
		return nil, internal("Failed to load dashboard")
	}

	return &models.DashboardMetrics{
		TotalRevenue:        current.Revenue,
		TotalOrders:         current.Orders,
		TotalCustomers:      current.Customers,
		ActiveSubscriptions: active,
		RevenueGrowth:       Growth(current.Revenue, previous.Revenue),
		OrderGrowth:         Growth(float64(current.Orders), float64(previous.Orders)),
		CustomerGrowth:      Growth(float64(current.Customers), float64(previous.Customers)),
		// No subscription history is kept, so there is nothing to compare against.
		SubscriptionGrowth: 0,
	}, nil
}

// Growth is the percentage change from previous to current. A zero baseline reports 100 when
// anything happened and 0 otherwise.
func Growth(current, previous float64) float64 {
	if previous == 0 {
		if current > 0 {
			return 100
		}
		return 0
	}
	return (current - previous) / previous * 100
}

func (s *analyticsServiceImpl) Sales(ctx context.Context, identity models.Identity, query models.SalesQuery) (*models.SalesReport, *ServiceError) {
	if !identity.Can(models.PermAnalyticsRead) {
		return nil, permissionDenied("Insufficient permissions")
	}

	from, to, svcErr := s.window(query.From, query.To)
	if svcErr != nil {
		return nil, svcErr
	}
	groupBy := query.GroupBy
	switch groupBy {
	case models.GroupByDay, models.GroupByWeek, models.GroupByMonth:
	case "":
		groupBy = models.GroupByDay
	default:
		return nil, invalidArgument("groupBy must be one of day, week, month")
	}

	buckets, err := s.reports.SalesBuckets(ctx, from, to, groupBy)
	if err != nil {
		s.logger.Error("Failed to load sales buckets", zap.Error(err))
		return nil, internal("Failed to load sales report")
	}
	revenue, orders, err := s.reports.SalesTotals(ctx, from, to)
	if err != nil {
		s.logger.Error("Failed to load sales totals", zap.Error(err))
		return nil, internal("Failed to load sales report")
	}
	if buckets == nil {
		buckets = []models.SalesBucket{}
	}
	return &models.SalesReport{Data: buckets, TotalRevenue: revenue, TotalOrders: orders}, nil
}

func (s *analyticsServiceImpl) TopProducts(ctx context.Context, identity models.Identity, query models.TopProductsQuery) (*models.ProductPerformanceResponse, *ServiceError) {
	if !identity.Can(models.PermAnalyticsRead) {
		return nil, permissionDenied("Insufficient permissions")
	}

	from, to, svcErr := s.window(query.From, query.To)
	if svcErr != nil {
		return nil, svcErr
	}
	limit, _ := normalizePage(query.Limit, 0, 10, 100)

	products, err := s.reports.TopProducts(ctx, from, to, limit)
	if err != nil {
		s.logger.Error("Failed to load product performance", zap.Error(err))
		return nil, internal("Failed to load product performance")
	}
	if products == nil {
		products = []models.ProductPerformance{}
	}
	return &models.ProductPerformanceResponse{Products: products}, nil
}

// window resolves optional report bounds: to defaults to now and from to 30 days before to.
func (s *analyticsServiceImpl) window(from, to *time.Time) (time.Time, time.Time, *ServiceError) {
	end := s.now().UTC()
	if to != nil {
		end = to.UTC()
	}
	start := end.Add(-defaultReportWindow)
	if from != nil {
		start = from.UTC()
	}
	if start.After(end) {
		return time.Time{}, time.Time{}, invalidArgument("startDate must not be after endDate")
	}
	return start, end, nil
}
