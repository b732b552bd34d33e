package services

import (
	"context"
	"time"

	"github.com/cetler74/modern-e-commerce-platform/common/logger"
	"github.com/cetler74/modern-e-commerce-platform/common/metrics"
	"github.com/cetler74/modern-e-commerce-platform/models"
	"github.com/cetler74/modern-e-commerce-platform/repository"
	aws_pkg "github.com/cetler74/modern-e-commerce-platform/pkg/aws"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SubscriptionService defines subscription creation, listing and lifecycle management.
type SubscriptionService interface {
	CreateSubscription(ctx context.Context, identity models.Identity, req *models.CreateSubscriptionRequest) (*models.CreateSubscriptionResponse, *ServiceError)
	ListSubscriptions(ctx context.Context, identity models.Identity, filter models.SubscriptionFilter) (*models.SubscriptionListResponse, *ServiceError)
	ManageSubscription(ctx context.Context, identity models.Identity, id uuid.UUID, req *models.ManageSubscriptionRequest) (*models.ManageSubscriptionResponse, *ServiceError)
	ListPlans(ctx context.Context) ([]models.SubscriptionPlan, *ServiceError)
}

// SubscriptionDeps groups the collaborators of the subscription service.
type SubscriptionDeps struct {
	Transactor    repository.Transactor
	Subscriptions repository.SubscriptionRepository
	Customers     repository.CustomerRepository
	SNS           aws_pkg.SNSPublisher
	TopicArn      string
	Metrics       aws_pkg.MetricsRecorder
	Logger        *zap.Logger
}

type subscriptionServiceImpl struct {
	tx            repository.Transactor
	subscriptions repository.SubscriptionRepository
	customers     repository.CustomerRepository
	events        *eventPublisher
	metrics       aws_pkg.MetricsRecorder
	logger        *zap.Logger
	now           func() time.Time
}

// NewSubscriptionService creates a new SubscriptionService.
func NewSubscriptionService(deps SubscriptionDeps) SubscriptionService {
	return newSubscriptionService(deps, time.Now)
}

func newSubscriptionService(deps SubscriptionDeps, now func() time.Time) *subscriptionServiceImpl {
	return &subscriptionServiceImpl{
		tx:            deps.Transactor,
		subscriptions: deps.Subscriptions,
		customers:     deps.Customers,
		events:        newEventPublisher(deps.SNS, deps.TopicArn, nil, deps.Logger),
		metrics:       deps.Metrics,
		logger:        deps.Logger,
		now:           now,
	}
}

// CreateSubscription starts an active subscription whose first period is derived from the plan.
// Item prices are always re-read from the catalog.
func (s *subscriptionServiceImpl) CreateSubscription(ctx context.Context, identity models.Identity, req *models.CreateSubscriptionRequest) (*models.CreateSubscriptionResponse, *ServiceError) {
	if len(req.Items) == 0 {
		return nil, invalidArgument("Subscription must contain at least one item")
	}

	now := s.now().UTC()
	var sub *models.Subscription
	err := s.tx.WithinTransaction(ctx, func(tx repository.Repositories) error {
		customer, err := tx.Customers.FindByUserID(ctx, identity.UserID)
		if err != nil {
			if repository.IsNotFound(err) {
				return notFound("Customer not found")
			}
			return err
		}

		plan, err := tx.Subscriptions.FindActivePlan(ctx, req.PlanID)
		if err != nil {
			if repository.IsNotFound(err) {
				return notFound("Subscription plan not found")
			}
			return err
		}

		items, err := subscriptionItems(ctx, tx.Products, req.Items)
		if err != nil {
			return err
		}

		period, err := ComputeBillingPeriod(plan, now)
		if err != nil {
			return invalidState("Subscription plan has an invalid billing interval")
		}
		sub = &models.Subscription{
			CustomerID:         customer.ID,
			PlanID:             plan.ID,
			Status:             models.SubscriptionStatusActive,
			CurrentPeriodStart: period.CurrentPeriodStart,
			CurrentPeriodEnd:   period.CurrentPeriodEnd,
			TrialStart:         period.TrialStart,
			TrialEnd:           period.TrialEnd,
			NextBillingDate:    period.NextBillingDate,
			BillingAddress:     req.BillingAddress,
			ShippingAddress:    req.ShippingAddress,
			Items:              items,
			PlanName:           plan.Name,
		}
		return tx.Subscriptions.Create(ctx, sub)
	})
	if err != nil {
		svcErr := asServiceError(err, "Failed to create subscription")
		if svcErr.Kind == KindInternal {
			logger.For(ctx, s.logger).Error("Failed to create subscription", zap.String("user_id", identity.UserID.String()), zap.Error(err))
		}
		return nil, svcErr
	}

	recordCount(ctx, s.metrics, aws_pkg.MetricSubscriptionsCreated, nil)
	s.publish(ctx, "subscription_created", sub, "")
	logger.For(ctx, s.logger).Info("Subscription created",
		zap.String("subscription_id", sub.ID.String()),
		zap.Time("next_billing_date", sub.NextBillingDate),
	)

	return &models.CreateSubscriptionResponse{
		ID:              sub.ID,
		Status:          sub.Status,
		NextBillingDate: sub.NextBillingDate,
		TrialEnd:        sub.TrialEnd,
	}, nil
}

func (s *subscriptionServiceImpl) ListSubscriptions(ctx context.Context, identity models.Identity, filter models.SubscriptionFilter) (*models.SubscriptionListResponse, *ServiceError) {
	filter.Limit, filter.Offset = normalizePage(filter.Limit, filter.Offset, 20, 100)

	if !identity.Can(models.PermSubscriptionsReadAll) {
		customer, err := s.customers.FindByUserID(ctx, identity.UserID)
		if err != nil {
			if repository.IsNotFound(err) {
				return &models.SubscriptionListResponse{Subscriptions: []models.Subscription{}}, nil
			}
			logger.For(ctx, s.logger).Error("Failed to load customer", zap.String("user_id", identity.UserID.String()), zap.Error(err))
			return nil, internal("Failed to list subscriptions")
		}
		filter.CustomerID = &customer.ID
	}

	subs, total, err := s.subscriptions.List(ctx, filter)
	if err != nil {
		logger.For(ctx, s.logger).Error("Failed to list subscriptions", zap.Error(err))
		return nil, internal("Failed to list subscriptions")
	}
	if subs == nil {
		subs = []models.Subscription{}
	}
	return &models.SubscriptionListResponse{Subscriptions: subs, Total: total}, nil
}

// ManageSubscription applies a lifecycle action to a subscription owned by the caller. The row is
// locked so concurrent actions are applied one at a time.
func (s *subscriptionServiceImpl) ManageSubscription(ctx context.Context, identity models.Identity, id uuid.UUID, req *models.ManageSubscriptionRequest) (*models.ManageSubscriptionResponse, *ServiceError) {
	now := s.now().UTC()
	var (
		resp *models.ManageSubscriptionResponse
		sub  *models.Subscription
	)
	err := s.tx.WithinTransaction(ctx, func(tx repository.Repositories) error {
		customer, err := tx.Customers.FindByUserID(ctx, identity.UserID)
		if err != nil {
			if repository.IsNotFound(err) {
				return notFound("Subscription not found")
			}
			return err
		}
		sub, err = tx.Subscriptions.LockByID(ctx, id)
		if err != nil {
			if repository.IsNotFound(err) {
				return notFound("Subscription not found")
			}
			return err
		}
		if sub.CustomerID != customer.ID {
			return notFound("Subscription not found")
		}

		resp, err = s.apply(ctx, tx, sub, req, now)
		return err
	})
	ok := err == nil
	metrics.ObserveSubscriptionAction(string(req.Action), ok)
	if err != nil {
		svcErr := asServiceError(err, "Failed to update subscription")
		if svcErr.Kind == KindInternal {
			logger.For(ctx, s.logger).Error("Failed to update subscription", zap.String("subscription_id", id.String()), zap.Error(err))
		}
		return nil, svcErr
	}

	if req.Action == models.SubscriptionActionCancel {
		recordCount(ctx, s.metrics, aws_pkg.MetricSubscriptionsCanceled, nil)
	}
	s.publish(ctx, "subscription_changed", sub, string(req.Action))
	return resp, nil
}

// apply runs one transition of the lifecycle state machine and updates sub in place.
func (s *subscriptionServiceImpl) apply(ctx context.Context, tx repository.Repositories, sub *models.Subscription, req *models.ManageSubscriptionRequest, now time.Time) (*models.ManageSubscriptionResponse, error) {
	switch req.Action {
	case models.SubscriptionActionPause:
		if sub.Status != models.SubscriptionStatusActive {
			return nil, invalidState("Only active subscriptions can be paused")
		}
		if err := tx.Subscriptions.UpdateFields(ctx, sub.ID, map[string]interface{}{
			"status":    models.SubscriptionStatusPaused,
			"paused_at": now,
		}); err != nil {
			return nil, err
		}
		sub.Status, sub.PausedAt = models.SubscriptionStatusPaused, &now
		return manageResponse(sub, "Subscription paused successfully"), nil

	case models.SubscriptionActionResume:
		if sub.Status != models.SubscriptionStatusPaused {
			return nil, invalidState("Only paused subscriptions can be resumed")
		}
		if err := tx.Subscriptions.UpdateFields(ctx, sub.ID, map[string]interface{}{
			"status":    models.SubscriptionStatusActive,
			"paused_at": nil,
		}); err != nil {
			return nil, err
		}
		sub.Status, sub.PausedAt = models.SubscriptionStatusActive, nil
		return manageResponse(sub, "Subscription resumed successfully"), nil

	case models.SubscriptionActionCancel:
		if sub.Status == models.SubscriptionStatusCancelled {
			return nil, invalidState("Subscription is already cancelled")
		}
		if err := tx.Subscriptions.UpdateFields(ctx, sub.ID, map[string]interface{}{
			"status":       models.SubscriptionStatusCancelled,
			"cancelled_at": now,
		}); err != nil {
			return nil, err
		}
		sub.Status, sub.CancelledAt = models.SubscriptionStatusCancelled, &now
		return manageResponse(sub, "Subscription cancelled successfully"), nil

	case models.SubscriptionActionUpdateItems:
		if len(req.Items) == 0 {
			return nil, invalidArgument("Items are required for update_items action")
		}
		items, err := subscriptionItems(ctx, tx.Products, req.Items)
		if err != nil {
			return nil, err
		}
		if err := tx.Subscriptions.ReplaceItems(ctx, sub.ID, items); err != nil {
			return nil, err
		}
		if err := tx.Subscriptions.UpdateFields(ctx, sub.ID, map[string]interface{}{"updated_at": now}); err != nil {
			return nil, err
		}
		sub.Items = items
		return manageResponse(sub, "Subscription items updated successfully"), nil

	default:
		return nil, invalidArgument("Invalid action")
	}
}

func (s *subscriptionServiceImpl) ListPlans(ctx context.Context) ([]models.SubscriptionPlan, *ServiceError) {
	plans, err := s.subscriptions.ListActivePlans(ctx)
	if err != nil {
		logger.For(ctx, s.logger).Error("Failed to list subscription plans", zap.Error(err))
		return nil, internal("Failed to list subscription plans")
	}
	if plans == nil {
		plans = []models.SubscriptionPlan{}
	}
	return plans, nil
}

func (s *subscriptionServiceImpl) publish(ctx context.Context, eventType string, sub *models.Subscription, action string) {
	s.events.publish(ctx, eventType, models.SubscriptionEvent{
		EventType:       eventType,
		SubscriptionID:  sub.ID.String(),
		CustomerID:      sub.CustomerID.String(),
		Status:          sub.Status,
		Action:          action,
		NextBillingDate: sub.NextBillingDate,
		Timestamp:       s.now(),
	}, zap.String("subscription_id", sub.ID.String()))
}

func manageResponse(sub *models.Subscription, message string) *models.ManageSubscriptionResponse {
	return &models.ManageSubscriptionResponse{Success: true, Message: message, Status: sub.Status}
}

// subscriptionItems prices each input line from the catalog, failing on the first unknown variant.
func subscriptionItems(ctx context.Context, products repository.ProductRepository, input []models.OrderItemInput) ([]models.SubscriptionItem, error) {
	resolved, err := resolveItems(ctx, products, input)
	if err != nil {
		return nil, err
	}
	items := make([]models.SubscriptionItem, 0, len(resolved))
	for _, r := range resolved {
		items = append(items, models.SubscriptionItem{
			VariantID:   r.snapshot.VariantID,
			Quantity:    r.quantity,
			Price:       r.snapshot.Price,
			ProductName: r.snapshot.ProductName,
			VariantName: r.snapshot.VariantName,
		})
	}
	return items, nil
}
