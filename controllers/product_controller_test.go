package controllers

import (
	"context"
	"net/http"
	"testing"

	"github.com/cetler74/modern-e-commerce-platform/models"
	"github.com/cetler74/modern-e-commerce-platform/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockProductService struct {
	mock.Mock
}

func (m *MockProductService) ListProducts(ctx context.Context, filter models.ProductFilter) (*models.ProductListResponse, *services.ServiceError) {
	args := m.Called(ctx, filter)
	return retArg[*models.ProductListResponse](args, 0), svcErrArg(args, 1)
}

func (m *MockProductService) GetProduct(ctx context.Context, idOrSlug string) (*models.Product, *services.ServiceError) {
	args := m.Called(ctx, idOrSlug)
	return retArg[*models.Product](args, 0), svcErrArg(args, 1)
}

func (m *MockProductService) CreateProduct(ctx context.Context, identity models.Identity, req *models.CreateProductRequest) (*models.Product, *services.ServiceError) {
	args := m.Called(ctx, identity, req)
	return retArg[*models.Product](args, 0), svcErrArg(args, 1)
}

func (m *MockProductService) UpdateProduct(ctx context.Context, identity models.Identity, id uuid.UUID, req *models.UpdateProductRequest) (*models.Product, *services.ServiceError) {
	args := m.Called(ctx, identity, id, req)
	return retArg[*models.Product](args, 0), svcErrArg(args, 1)
}

func (m *MockProductService) DeleteProduct(ctx context.Context, identity models.Identity, id uuid.UUID) *services.ServiceError {
	return svcErrArg(m.Called(ctx, identity, id), 0)
}

func (m *MockProductService) PresignUpload(ctx context.Context, identity models.Identity, req *models.PresignUploadRequest) (*models.PresignUploadResponse, *services.ServiceError) {
	args := m.Called(ctx, identity, req)
	return retArg[*models.PresignUploadResponse](args, 0), svcErrArg(args, 1)
}

func newProductRouter(svc services.ProductService, identity models.Identity) *gin.Engine {
	controller := NewProductController(svc)
	router := gin.New()
	router.GET("/products", controller.ListProducts)
	router.GET("/products/:id", controller.GetProduct)
	authed := router.Group("/", withIdentity(identity))
	authed.POST("/products", controller.CreateProduct)
	authed.POST("/products/uploads", controller.PresignUpload)
	authed.PATCH("/products/:id", controller.UpdateProduct)
	authed.DELETE("/products/:id", controller.DeleteProduct)
	return router
}

func TestProductController(t *testing.T) {
	identity := customerIdentity()

	t.Run("List passes filters", func(t *testing.T) {
		mockService := new(MockProductService)
		mockService.On("ListProducts", mock.Anything, models.ProductFilter{
			Status:   models.ProductStatus("active"),
			Search:   "mug",
			Category: "kitchen",
			Limit:    12,
			Offset:   24,
		}).Return(&models.ProductListResponse{Products: []models.Product{}}, nil).Once()

		recorder := performRequest(newProductRouter(mockService, identity), http.MethodGet,
			"/products?status=active&search=mug&category=kitchen&limit=12&offset=24", "", nil)

		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.JSONEq(t, `{"products":[],"total":0}`, recorder.Body.String())
		mockService.AssertExpectations(t)
	})

	t.Run("Get by slug", func(t *testing.T) {
		mockService := new(MockProductService)
		mockService.On("GetProduct", mock.Anything, "enamel-mug").
			Return(nil, &services.ServiceError{Kind: services.KindNotFound, StatusCode: http.StatusNotFound, Message: "Product not found"}).Once()

		recorder := performRequest(newProductRouter(mockService, identity), http.MethodGet, "/products/enamel-mug", "", nil)

		assert.Equal(t, http.StatusNotFound, recorder.Code)
		assert.JSONEq(t, `{"error":"Product not found"}`, recorder.Body.String())
		mockService.AssertExpectations(t)
	})

	t.Run("Create with bad status - 400 Bad Request", func(t *testing.T) {
		mockService := new(MockProductService)

		recorder := performRequest(newProductRouter(mockService, identity), http.MethodPost, "/products",
			`{"name":"Enamel Mug","price":12,"status":"sold"}`, nil)

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		mockService.AssertNotCalled(t, "CreateProduct")
	})

	t.Run("Create without permission - 403 Forbidden", func(t *testing.T) {
		mockService := new(MockProductService)
		mockService.On("CreateProduct", mock.Anything, identity, mock.Anything).
			Return(nil, &services.ServiceError{Kind: services.KindPermissionDenied, StatusCode: http.StatusForbidden, Message: "Insufficient permissions"}).Once()

		recorder := performRequest(newProductRouter(mockService, identity), http.MethodPost, "/products",
			`{"name":"Enamel Mug","price":12}`, nil)

		assert.Equal(t, http.StatusForbidden, recorder.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("Delete - 204 No Content", func(t *testing.T) {
		id := uuid.New()
		mockService := new(MockProductService)
		mockService.On("DeleteProduct", mock.Anything, identity, id).Return(nil).Once()

		recorder := performRequest(newProductRouter(mockService, identity), http.MethodDelete, "/products/"+id.String(), "", nil)

		assert.Equal(t, http.StatusNoContent, recorder.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("Presign upload - 200 OK", func(t *testing.T) {
		mockService := new(MockProductService)
		mockService.On("PresignUpload", mock.Anything, identity, &models.PresignUploadRequest{Filename: "hero.jpg", ContentType: "image/jpeg"}).
			Return(&models.PresignUploadResponse{UploadURL: "https://bucket.s3.amazonaws.com/products/hero.jpg", Key: "products/hero.jpg"}, nil).Once()

		recorder := performRequest(newProductRouter(mockService, identity), http.MethodPost, "/products/uploads",
			`{"filename":"hero.jpg","contentType":"image/jpeg"}`, nil)

		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.Contains(t, recorder.Body.String(), `"key":"products/hero.jpg"`)
		mockService.AssertExpectations(t)
	})
}
