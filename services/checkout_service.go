package services

import (
	"context"
	"errors"
	"time"

	"github.com/cetler74/modern-e-commerce-platform/common/logger"
	"github.com/cetler74/modern-e-commerce-platform/common/metrics"
	"github.com/cetler74/modern-e-commerce-platform/models"
	"github.com/cetler74/modern-e-commerce-platform/repository"
	aws_pkg "github.com/cetler74/modern-e-commerce-platform/pkg/aws"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const maxIdempotencyKeyLength = 200

// CheckoutService converts a user's cart into an order.
type CheckoutService interface {
	// Checkout places an order from the caller's cart. replayed is true when idempotencyKey was
	// already used by the caller and the original result is returned instead.
	Checkout(ctx context.Context, identity models.Identity, req *models.CheckoutRequest, idempotencyKey string) (resp *models.CheckoutResponse, replayed bool, svcErr *ServiceError)
}

// CheckoutDeps groups the collaborators of the checkout service.
type CheckoutDeps struct {
	Transactor  repository.Transactor
	Orders      repository.OrderRepository
	Idempotency repository.IdempotencyStore
	Pricing     Pricing
	SNS         aws_pkg.SNSPublisher
	TopicArn    string
	Queue       EventSender
	Metrics     aws_pkg.MetricsRecorder
	Logger      *zap.Logger
}

type checkoutServiceImpl struct {
	tx           repository.Transactor
	orders       repository.OrderRepository
	idempotency  repository.IdempotencyStore
	pricing      Pricing
	events       *eventPublisher
	metrics      aws_pkg.MetricsRecorder
	logger       *zap.Logger
	now          func() time.Time
	orderNumbers OrderNumberFunc
}

// NewCheckoutService creates a new CheckoutService.
func NewCheckoutService(deps CheckoutDeps) CheckoutService {
	return newCheckoutService(deps, time.Now, DefaultOrderNumber)
}

func newCheckoutService(deps CheckoutDeps, now func() time.Time, numbers OrderNumberFunc) *checkoutServiceImpl {
	return &checkoutServiceImpl{
		tx:           deps.Transactor,
		orders:       deps.Orders,
		idempotency:  deps.Idempotency,
		pricing:      deps.Pricing,
		events:       newEventPublisher(deps.SNS, deps.TopicArn, deps.Queue, deps.Logger),
		metrics:      deps.Metrics,
		logger:       deps.Logger,
		now:          now,
		orderNumbers: numbers,
	}
}

// Checkout runs entirely inside one transaction with the customer and cart rows locked: the order
// and its line items are inserted, the cart is emptied and the customer aggregates are updated.
func (s *checkoutServiceImpl) Checkout(ctx context.Context, identity models.Identity, req *models.CheckoutRequest, idempotencyKey string) (*models.CheckoutResponse, bool, *ServiceError) {
	if len(idempotencyKey) > maxIdempotencyKeyLength {
		return nil, false, invalidArgument("Idempotency-Key is too long")
	}

	var storedKey *string
	if idempotencyKey != "" {
		scoped := identity.UserID.String() + ":" + idempotencyKey
		storedKey = &scoped
		if resp, svcErr := s.replay(ctx, identity.UserID, idempotencyKey, scoped); svcErr != nil || resp != nil {
			return resp, resp != nil, svcErr
		}
	}

	now := s.now().UTC()
	var order *models.Order
	err := s.tx.WithinTransaction(ctx, func(tx repository.Repositories) error {
		customer, err := tx.Customers.LockByUserID(ctx, identity.UserID)
		if err != nil {
			if repository.IsNotFound(err) {
				return notFound("Customer not found")
			}
			return err
		}

		lines, err := tx.Carts.ListLines(ctx, identity.UserID, true)
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			return invalidState("Cart is empty")
		}

		priced := make([]PricedLine, 0, len(lines))
		items := make([]models.OrderLineItem, 0, len(lines))
		lineIDs := make([]uuid.UUID, 0, len(lines))
		for _, line := range lines {
			if line.Unavailable {
				return notFound("Product no longer available: " + line.ProductID.String())
			}
			lineIDs = append(lineIDs, line.ID)
			priced = append(priced, PricedLine{UnitPrice: line.Price, Quantity: line.Quantity})
			items = append(items, models.OrderLineItem{
				ProductID:    line.ProductID,
				VariantID:    line.VariantID,
				Title:        line.ProductName,
				VariantTitle: line.VariantName,
				SKU:          line.SKU,
				Quantity:     line.Quantity,
				Price:        line.Price,
			})
		}
		totals := s.pricing.Totals(priced)

		paymentMethod := req.PaymentMethod
		order = &models.Order{
			CustomerID:      customer.ID,
			Email:           customer.Email,
			Status:          models.OrderStatusConfirmed,
			FinancialStatus: models.FinancialStatusPaid,
			Subtotal:        totals.Subtotal,
			TaxAmount:       totals.Tax,
			ShippingAmount:  totals.Shipping,
			DiscountAmount:  totals.Discount,
			TotalAmount:     totals.Total,
			Currency:        models.DefaultCurrency,
			BillingAddress:  req.BillingAddress,
			ShippingAddress: req.ShippingAddress,
			Notes:           req.Notes,
			PaymentMethod:   &paymentMethod,
			IdempotencyKey:  storedKey,
			ProcessedAt:     &now,
			LineItems:       items,
		}
		if err := createOrderWithUniqueNumber(ctx, tx.Orders, order, now, s.orderNumbers); err != nil {
			return err
		}

		if _, err := tx.Carts.DeleteLines(ctx, identity.UserID, lineIDs); err != nil {
			return err
		}
		return tx.Customers.RecordOrder(ctx, customer.ID, order.TotalAmount, now)
	})
	if err != nil {
		if errors.Is(err, errIdempotencyConflict) && storedKey != nil {
			// A concurrent request with the same key committed first.
			if resp, svcErr := s.replay(ctx, identity.UserID, idempotencyKey, *storedKey); svcErr != nil || resp != nil {
				return resp, resp != nil, svcErr
			}
		}
		svcErr := asServiceError(err, "Failed to process checkout")
		switch {
		case svcErr.Kind == KindInvalidState:
			metrics.ObserveCheckout("empty_cart", 0)
		case svcErr.Kind == KindInternal:
			metrics.ObserveCheckout("failed", 0)
			logger.For(ctx, s.logger).Error("Checkout failed", zap.String("user_id", identity.UserID.String()), zap.Error(err))
		default:
			metrics.ObserveCheckout("failed", 0)
		}
		return nil, false, svcErr
	}

	if storedKey != nil && s.idempotency != nil {
		if err := s.idempotency.Remember(ctx, identity.UserID, idempotencyKey, order.ID); err != nil {
			logger.For(ctx, s.logger).Warn("Failed to cache idempotency key", zap.String("order_id", order.ID.String()), zap.Error(err))
		}
	}

	metrics.ObserveCheckout("created", order.TotalAmount)
	recordCount(ctx, s.metrics, aws_pkg.MetricCartCheckouts, nil)
	recordCount(ctx, s.metrics, aws_pkg.MetricOrdersCreated, map[string]string{"Source": "checkout"})
	recordValue(ctx, s.metrics, aws_pkg.MetricOrderAmount, order.TotalAmount, nil)
	s.publishOrderCreated(ctx, order)

	logger.For(ctx, s.logger).Info("Checkout completed",
		zap.String("order_id", order.ID.String()),
		zap.String("order_number", order.OrderNumber),
		zap.Float64("total", order.TotalAmount),
		zap.Int("line_items", len(order.LineItems)),
	)
	return checkoutResponse(order), false, nil
}

// replay returns the response of an earlier checkout that used the same key, or nil when the key
// is unused. Redis answers first; the unique column on orders is authoritative.
func (s *checkoutServiceImpl) replay(ctx context.Context, userID uuid.UUID, key, scoped string) (*models.CheckoutResponse, *ServiceError) {
	if s.idempotency != nil {
		orderID, ok, err := s.idempotency.Lookup(ctx, userID, key)
		if err != nil {
			logger.For(ctx, s.logger).Warn("Idempotency cache lookup failed", zap.Error(err))
		} else if ok {
			order, err := s.orders.FindByID(ctx, orderID)
			if err == nil {
				return s.replayed(ctx, order), nil
			}
			if !repository.IsNotFound(err) {
				logger.For(ctx, s.logger).Error("Failed to load replayed order", zap.String("order_id", orderID.String()), zap.Error(err))
				return nil, internal("Failed to process checkout")
			}
		}
	}

	order, err := s.orders.FindByIdempotencyKey(ctx, scoped)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, nil
		}
		logger.For(ctx, s.logger).Error("Failed to look up idempotency key", zap.Error(err))
		return nil, internal("Failed to process checkout")
	}
	return s.replayed(ctx, order), nil
}

func (s *checkoutServiceImpl) replayed(ctx context.Context, order *models.Order) *models.CheckoutResponse {
	metrics.ObserveCheckout("replayed", 0)
	recordCount(ctx, s.metrics, aws_pkg.MetricCheckoutReplays, nil)
	logger.For(ctx, s.logger).Info("Checkout replayed", zap.String("order_id", order.ID.String()))
	return checkoutResponse(order)
}

// checkoutResponse reports the status the order was created with, so a replay is identical to the
// first response even after fulfillment has moved on.
func checkoutResponse(order *models.Order) *models.CheckoutResponse {
	return &models.CheckoutResponse{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		TotalAmount: order.TotalAmount,
		Status:      models.OrderStatusConfirmed,
	}
}

func (s *checkoutServiceImpl) publishOrderCreated(ctx context.Context, order *models.Order) {
	s.events.publish(ctx, "order_created", orderEvent("order_created", order, s.now()),
		zap.String("order_id", order.ID.String()))
}

func orderEvent(eventType string, order *models.Order, at time.Time) models.OrderEvent {
	return models.OrderEvent{
		EventType:       eventType,
		OrderID:         order.ID.String(),
		OrderNumber:     order.OrderNumber,
		CustomerID:      order.CustomerID.String(),
		Status:          order.Status,
		FinancialStatus: order.FinancialStatus,
		TotalAmount:     order.TotalAmount,
		Currency:        order.Currency,
		Timestamp:       at,
	}
}
