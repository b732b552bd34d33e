package controllers

import (
	"errors"

	"github.com/cetler74/modern-e-commerce-platform/models"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	orderStatuses = map[models.OrderStatus]bool{
		models.OrderStatusPending:    true,
		models.OrderStatusConfirmed:  true,
		models.OrderStatusProcessing: true,
		models.OrderStatusShipped:    true,
		models.OrderStatusDelivered:  true,
		models.OrderStatusCancelled:  true,
	}

	financialStatuses = map[models.FinancialStatus]bool{
		models.FinancialStatusPending:           true,
		models.FinancialStatusAuthorized:        true,
		models.FinancialStatusPaid:              true,
		models.FinancialStatusPartiallyRefunded: true,
		models.FinancialStatusRefunded:          true,
		models.FinancialStatusVoided:            true,
	}
)

// RegisterValidators adds the order_status and financial_status binding tags to gin's validator.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("gin binding engine is not a go-playground validator")
	}
	if err := v.RegisterValidation("order_status", validOrderStatus); err != nil {
		return err
	}
	return v.RegisterValidation("financial_status", validFinancialStatus)
}

func validOrderStatus(fl validator.FieldLevel) bool {
	return orderStatuses[models.OrderStatus(fl.Field().String())]
}

func validFinancialStatus(fl validator.FieldLevel) bool {
	return financialStatuses[models.FinancialStatus(fl.Field().String())]
}
