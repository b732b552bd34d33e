package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/cetler74/modern-e-commerce-platform/models"
	"github.com/cetler74/modern-e-commerce-platform/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockCheckoutService struct {
	mock.Mock
}

func (m *MockCheckoutService) Checkout(ctx context.Context, identity models.Identity, req *models.CheckoutRequest, idempotencyKey string) (*models.CheckoutResponse, bool, *services.ServiceError) {
	args := m.Called(ctx, identity, req, idempotencyKey)
	var resp *models.CheckoutResponse
	if args.Get(0) != nil {
		resp = args.Get(0).(*models.CheckoutResponse)
	}
	var svcErr *services.ServiceError
	if args.Get(2) != nil {
		svcErr = args.Get(2).(*services.ServiceError)
	}
	return resp, args.Bool(1), svcErr
}

const checkoutBody = `{"billingAddress":` + addressJSON + `,"shippingAddress":` + addressJSON + `,"paymentMethod":"card"}`

func newCheckoutRouter(svc services.CheckoutService, identity *models.Identity) *gin.Engine {
	controller := NewCheckoutController(svc)
	router := gin.New()
	if identity != nil {
		router.Use(withIdentity(*identity))
	}
	router.POST("/checkout", controller.Checkout)
	return router
}

func TestCheckoutController(t *testing.T) {
	identity := customerIdentity()
	result := &models.CheckoutResponse{
		OrderID:     uuid.New(),
		OrderNumber: "ORD-1706745600000-42",
		TotalAmount: 59.4,
		Status:      models.OrderStatusPending,
	}

	t.Run("Success - 201 Created", func(t *testing.T) {
		mockService := new(MockCheckoutService)
		mockService.On("Checkout", mock.Anything, identity, mock.MatchedBy(func(req *models.CheckoutRequest) bool {
			return req.PaymentMethod == "card" && req.ShippingAddress.City == "London"
		}), "key-1").Return(result, false, nil).Once()

		recorder := performRequest(newCheckoutRouter(mockService, &identity), http.MethodPost, "/checkout", checkoutBody,
			map[string]string{IdempotencyKeyHeader: " key-1 "})

		assert.Equal(t, http.StatusCreated, recorder.Code)
		assert.Empty(t, recorder.Header().Get(IdempotentReplayedHeader))
		var body models.CheckoutResponse
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
		assert.Equal(t, result.OrderNumber, body.OrderNumber)
		assert.Equal(t, 59.4, body.TotalAmount)
		mockService.AssertExpectations(t)
	})

	t.Run("Replay - 200 OK with marker header", func(t *testing.T) {
		mockService := new(MockCheckoutService)
		mockService.On("Checkout", mock.Anything, identity, mock.Anything, "key-1").Return(result, true, nil).Once()

		recorder := performRequest(newCheckoutRouter(mockService, &identity), http.MethodPost, "/checkout", checkoutBody,
			map[string]string{IdempotencyKeyHeader: "key-1"})

		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.Equal(t, "true", recorder.Header().Get(IdempotentReplayedHeader))
		mockService.AssertExpectations(t)
	})

	t.Run("Empty cart - 409 Conflict", func(t *testing.T) {
		mockService := new(MockCheckoutService)
		mockService.On("Checkout", mock.Anything, identity, mock.Anything, "").
			Return(nil, false, &services.ServiceError{Kind: services.KindInvalidState, StatusCode: http.StatusConflict, Message: "Cart is empty"}).Once()

		recorder := performRequest(newCheckoutRouter(mockService, &identity), http.MethodPost, "/checkout", checkoutBody, nil)

		assert.Equal(t, http.StatusConflict, recorder.Code)
		assert.JSONEq(t, `{"error":"Cart is empty"}`, recorder.Body.String())
		mockService.AssertExpectations(t)
	})

	t.Run("Missing shipping address - 400 Bad Request", func(t *testing.T) {
		mockService := new(MockCheckoutService)

		body := `{"billingAddress":` + addressJSON + `,"paymentMethod":"card"}`
		recorder := performRequest(newCheckoutRouter(mockService, &identity), http.MethodPost, "/checkout", body, nil)

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		mockService.AssertNotCalled(t, "Checkout")
	})

	t.Run("Anonymous - 401 Unauthorized", func(t *testing.T) {
		mockService := new(MockCheckoutService)

		recorder := performRequest(newCheckoutRouter(mockService, nil), http.MethodPost, "/checkout", checkoutBody, nil)

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
		mockService.AssertNotCalled(t, "Checkout")
	})
}
