package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cetler74/modern-e-commerce-platform/models"
	"github.com/cetler74/modern-e-commerce-platform/repository"
	aws_pkg "github.com/cetler74/modern-e-commerce-platform/pkg/aws"

	"github.com/google/uuid"
)

const maxOrderNumberAttempts = 5

// OrderNumberFunc returns the order number to try on the given zero-based attempt.
type OrderNumberFunc func(now time.Time, attempt int) string

// DefaultOrderNumber is ORD-<unix ms> on the first attempt and ORD-<unix ms>-<6 hex> afterwards.
func DefaultOrderNumber(now time.Time, attempt int) string {
	if attempt == 0 {
		return fmt.Sprintf("ORD-%d", now.UnixMilli())
	}
	return fmt.Sprintf("ORD-%d-%s", now.UnixMilli(), strings.ToUpper(uuid.NewString()[:6]))
}

var (
	errOrderNumberExhausted = errors.New("no unique order number after retries")
	errIdempotencyConflict  = errors.New("idempotency key already used")
)

// createOrderWithUniqueNumber inserts order, drawing a new number whenever the previous one collides.
func createOrderWithUniqueNumber(ctx context.Context, orders repository.OrderRepository, order *models.Order, now time.Time, next OrderNumberFunc) error {
	for attempt := 0; attempt < maxOrderNumberAttempts; attempt++ {
		order.ID = uuid.Nil
		for i := range order.LineItems {
			order.LineItems[i].ID = uuid.Nil
			order.LineItems[i].OrderID = uuid.Nil
		}
		order.OrderNumber = next(now, attempt)

		err := orders.Create(ctx, order)
		switch {
		case err == nil:
			return nil
		case repository.IsUniqueViolation(err, repository.ConstraintOrderNumber):
			continue
		case repository.IsUniqueViolation(err, repository.ConstraintIdempotencyKey):
			return errIdempotencyConflict
		default:
			return err
		}
	}
	return errOrderNumberExhausted
}

func recordCount(ctx context.Context, m aws_pkg.MetricsRecorder, name string, dims map[string]string) {
	if m == nil || !m.IsEnabled() {
		return
	}
	_ = m.RecordCount(ctx, name, dims)
}

func recordValue(ctx context.Context, m aws_pkg.MetricsRecorder, name string, value float64, dims map[string]string) {
	if m == nil || !m.IsEnabled() {
		return
	}
	_ = m.RecordValue(ctx, name, value, dims)
}
