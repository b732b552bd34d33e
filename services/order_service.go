package services

import (
	"context"
	"fmt"
	"time"

	"github.com/cetler74/modern-e-commerce-platform/common/logger"
	"github.com/cetler74/modern-e-commerce-platform/models"
	"github.com/cetler74/modern-e-commerce-platform/repository"
	aws_pkg "github.com/cetler74/modern-e-commerce-platform/pkg/aws"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OrderService defines direct order creation and order management.
type OrderService interface {
	CreateOrder(ctx context.Context, identity models.Identity, req *models.CreateOrderRequest) (*models.CreateOrderResponse, *ServiceError)
	ListOrders(ctx context.Context, identity models.Identity, filter models.OrderFilter) (*models.OrderListResponse, *ServiceError)
	GetOrder(ctx context.Context, identity models.Identity, id uuid.UUID) (*models.Order, *ServiceError)
	UpdateOrder(ctx context.Context, identity models.Identity, id uuid.UUID, req *models.UpdateOrderRequest) (*models.Order, *ServiceError)
}

// OrderDeps groups the collaborators of the order service.
type OrderDeps struct {
	Transactor repository.Transactor
	Orders     repository.OrderRepository
	Customers  repository.CustomerRepository
	Products   repository.ProductRepository
	Pricing    Pricing
	SNS        aws_pkg.SNSPublisher
	TopicArn   string
	Queue      EventSender
	Metrics    aws_pkg.MetricsRecorder
	Logger     *zap.Logger
}

type orderServiceImpl struct {
	tx           repository.Transactor
	orders       repository.OrderRepository
	customers    repository.CustomerRepository
	products     repository.ProductRepository
	pricing      Pricing
	events       *eventPublisher
	metrics      aws_pkg.MetricsRecorder
	logger       *zap.Logger
	now          func() time.Time
	orderNumbers OrderNumberFunc
}

// NewOrderService creates a new OrderService.
func NewOrderService(deps OrderDeps) OrderService {
	return newOrderService(deps, time.Now, DefaultOrderNumber)
}

func newOrderService(deps OrderDeps, now func() time.Time, numbers OrderNumberFunc) *orderServiceImpl {
	return &orderServiceImpl{
		tx:           deps.Transactor,
		orders:       deps.Orders,
		customers:    deps.Customers,
		products:     deps.Products,
		pricing:      deps.Pricing,
		events:       newEventPublisher(deps.SNS, deps.TopicArn, deps.Queue, deps.Logger),
		metrics:      deps.Metrics,
		logger:       deps.Logger,
		now:          now,
		orderNumbers: numbers,
	}
}

// CreateOrder places a pending order from explicit variant lines. Prices come from the catalog and
// any unknown variant fails the whole request.
func (s *orderServiceImpl) CreateOrder(ctx context.Context, identity models.Identity, req *models.CreateOrderRequest) (*models.CreateOrderResponse, *ServiceError) {
	if len(req.Items) == 0 {
		return nil, invalidArgument("Order must contain at least one item")
	}

	now := s.now().UTC()
	var order *models.Order
	err := s.tx.WithinTransaction(ctx, func(tx repository.Repositories) error {
		customer, err := tx.Customers.FindByUserID(ctx, identity.UserID)
		if err != nil {
			if repository.IsNotFound(err) {
				return notFound("Customer not found")
			}
			return err
		}

		resolved, err := resolveItems(ctx, tx.Products, req.Items)
		if err != nil {
			return err
		}

		priced := make([]PricedLine, 0, len(resolved))
		items := make([]models.OrderLineItem, 0, len(resolved))
		for _, r := range resolved {
			variantID := r.snapshot.VariantID
			variantName := r.snapshot.VariantName
			priced = append(priced, PricedLine{UnitPrice: r.snapshot.Price, Quantity: r.quantity})
			items = append(items, models.OrderLineItem{
				ProductID:    r.snapshot.ProductID,
				VariantID:    &variantID,
				Title:        r.snapshot.ProductName,
				VariantTitle: &variantName,
				SKU:          r.snapshot.SKU,
				Quantity:     r.quantity,
				Price:        r.snapshot.Price,
			})
		}
		totals := s.pricing.Totals(priced)

		order = &models.Order{
			CustomerID:      customer.ID,
			Email:           customer.Email,
			Status:          models.OrderStatusPending,
			FinancialStatus: models.FinancialStatusPending,
			Subtotal:        totals.Subtotal,
			TaxAmount:       totals.Tax,
			ShippingAmount:  totals.Shipping,
			DiscountAmount:  totals.Discount,
			TotalAmount:     totals.Total,
			Currency:        models.DefaultCurrency,
			BillingAddress:  req.BillingAddress,
			ShippingAddress: req.ShippingAddress,
			Notes:           req.Notes,
			LineItems:       items,
		}
		return createOrderWithUniqueNumber(ctx, tx.Orders, order, now, s.orderNumbers)
	})
	if err != nil {
		svcErr := asServiceError(err, "Failed to create order")
		if svcErr.Kind == KindInternal {
			logger.For(ctx, s.logger).Error("Failed to create order", zap.String("user_id", identity.UserID.String()), zap.Error(err))
		}
		return nil, svcErr
	}

	recordCount(ctx, s.metrics, aws_pkg.MetricOrdersCreated, map[string]string{"Source": "direct"})
	s.events.publish(ctx, "order_created", orderEvent("order_created", order, s.now()),
		zap.String("order_id", order.ID.String()))
	logger.For(ctx, s.logger).Info("Order created", zap.String("order_id", order.ID.String()), zap.String("order_number", order.OrderNumber))

	return &models.CreateOrderResponse{ID: order.ID, OrderNumber: order.OrderNumber, TotalAmount: order.TotalAmount}, nil
}

// ListOrders is restricted to the caller's own orders unless the caller may read all orders.
func (s *orderServiceImpl) ListOrders(ctx context.Context, identity models.Identity, filter models.OrderFilter) (*models.OrderListResponse, *ServiceError) {
	filter.Limit, filter.Offset = normalizePage(filter.Limit, filter.Offset, 20, 100)

	if !identity.Can(models.PermOrdersReadAll) {
		customer, err := s.customers.FindByUserID(ctx, identity.UserID)
		if err != nil {
			if repository.IsNotFound(err) {
				return &models.OrderListResponse{Orders: []models.Order{}, Total: 0}, nil
			}
			logger.For(ctx, s.logger).Error("Failed to load customer", zap.String("user_id", identity.UserID.String()), zap.Error(err))
			return nil, internal("Failed to list orders")
		}
		filter.CustomerID = &customer.ID
	}

	orders, total, err := s.orders.List(ctx, filter)
	if err != nil {
		logger.For(ctx, s.logger).Error("Failed to list orders", zap.Error(err))
		return nil, internal("Failed to list orders")
	}
	if orders == nil {
		orders = []models.Order{}
	}
	return &models.OrderListResponse{Orders: orders, Total: total}, nil
}

func (s *orderServiceImpl) GetOrder(ctx context.Context, identity models.Identity, id uuid.UUID) (*models.Order, *ServiceError) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, notFound("Order not found")
		}
		logger.For(ctx, s.logger).Error("Failed to load order", zap.String("order_id", id.String()), zap.Error(err))
		return nil, internal("Failed to load order")
	}

	if identity.Can(models.PermOrdersReadAll) {
		return order, nil
	}
	customer, err := s.customers.FindByUserID(ctx, identity.UserID)
	if err != nil && !repository.IsNotFound(err) {
		logger.For(ctx, s.logger).Error("Failed to load customer", zap.String("user_id", identity.UserID.String()), zap.Error(err))
		return nil, internal("Failed to load order")
	}
	if customer == nil || customer.ID != order.CustomerID {
		return nil, permissionDenied("Access denied")
	}
	return order, nil
}

// UpdateOrder changes status, financial status or notes. Status changes follow the fulfillment
// lifecycle and stamp the matching timestamp.
func (s *orderServiceImpl) UpdateOrder(ctx context.Context, identity models.Identity, id uuid.UUID, req *models.UpdateOrderRequest) (*models.Order, *ServiceError) {
	if !identity.Can(models.PermOrdersUpdate) {
		return nil, permissionDenied("Insufficient permissions")
	}

	now := s.now().UTC()
	statusChanged := false
	err := s.tx.WithinTransaction(ctx, func(tx repository.Repositories) error {
		current, err := tx.Orders.LockByID(ctx, id)
		if err != nil {
			if repository.IsNotFound(err) {
				return notFound("Order not found")
			}
			return err
		}

		update := models.OrderUpdate{FinancialStatus: req.FinancialStatus, Notes: req.Notes}
		if req.Status != nil && *req.Status != current.Status {
			if svcErr := ValidateOrderTransition(current.Status, *req.Status); svcErr != nil {
				return svcErr
			}
			update.Status = req.Status
			statusChanged = true
			switch *req.Status {
			case models.OrderStatusProcessing:
				update.ProcessedAt = &now
			case models.OrderStatusShipped:
				update.ShippedAt = &now
			case models.OrderStatusDelivered:
				update.DeliveredAt = &now
			case models.OrderStatusCancelled:
				update.CancelledAt = &now
			}
		}
		return tx.Orders.Update(ctx, id, update)
	})
	if err != nil {
		svcErr := asServiceError(err, "Failed to update order")
		if svcErr.Kind == KindInternal {
			logger.For(ctx, s.logger).Error("Failed to update order", zap.String("order_id", id.String()), zap.Error(err))
		}
		return nil, svcErr
	}

	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		logger.For(ctx, s.logger).Error("Failed to reload order", zap.String("order_id", id.String()), zap.Error(err))
		return nil, internal("Failed to update order")
	}

	if statusChanged {
		s.events.publish(ctx, "order_status_changed", orderEvent("order_status_changed", order, now),
			zap.String("order_id", order.ID.String()), zap.String("status", string(order.Status)))
	}
	return order, nil
}

var orderStatusRank = map[models.OrderStatus]int{
	models.OrderStatusPending:    0,
	models.OrderStatusConfirmed:  1,
	models.OrderStatusProcessing: 2,
	models.OrderStatusShipped:    3,
	models.OrderStatusDelivered:  4,
}

// ValidateOrderTransition allows forward moves along pending → confirmed → processing → shipped →
// delivered, and cancellation from any state before delivered. Delivered and cancelled are final.
func ValidateOrderTransition(from, to models.OrderStatus) *ServiceError {
	if from == to {
		return nil
	}
	if from == models.OrderStatusCancelled || from == models.OrderStatusDelivered {
		return invalidState(fmt.Sprintf("Order is already %s", from))
	}
	if to == models.OrderStatusCancelled {
		return nil
	}
	toRank, ok := orderStatusRank[to]
	if !ok {
		return invalidArgument(fmt.Sprintf("Unknown order status %q", to))
	}
	if toRank <= orderStatusRank[from] {
		return invalidState(fmt.Sprintf("Cannot move order from %s to %s", from, to))
	}
	return nil
}

type resolvedItem struct {
	snapshot *models.VariantSnapshot
	quantity int
}

// resolveItems looks up every variant and fails on the first one that is missing or archived.
func resolveItems(ctx context.Context, products repository.ProductRepository, items []models.OrderItemInput) ([]resolvedItem, error) {
	out := make([]resolvedItem, 0, len(items))
	for _, item := range items {
		if item.Quantity < 1 {
			return nil, invalidArgument("Quantity must be greater than 0")
		}
		snap, err := products.ResolveVariant(ctx, item.ProductVariantID)
		if err != nil {
			if repository.IsNotFound(err) {
				return nil, notFound("Product variant not found: " + item.ProductVariantID.String())
			}
			return nil, err
		}
		if snap.ProductState == models.ProductStatusArchived {
			return nil, notFound("Product variant not found: " + item.ProductVariantID.String())
		}
		out = append(out, resolvedItem{snapshot: snap, quantity: item.Quantity})
	}
	return out, nil
}

// normalizePage applies the default and maximum page size and clamps a negative offset.
func normalizePage(limit, offset, def, max int) (int, int) {
	if limit <= 0 {
		limit = def
	}
	if limit > max {
		limit = max
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
