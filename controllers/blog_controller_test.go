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

type MockBlogService struct {
	mock.Mock
}

func (m *MockBlogService) ListPosts(ctx context.Context, filter models.BlogFilter) (*models.BlogListResponse, *services.ServiceError) {
	args := m.Called(ctx, filter)
	return retArg[*models.BlogListResponse](args, 0), svcErrArg(args, 1)
}

func (m *MockBlogService) GetPost(ctx context.Context, idOrSlug string) (*models.BlogPost, *services.ServiceError) {
	args := m.Called(ctx, idOrSlug)
	return retArg[*models.BlogPost](args, 0), svcErrArg(args, 1)
}

func (m *MockBlogService) CreatePost(ctx context.Context, identity models.Identity, req *models.CreateBlogPostRequest) (*models.BlogPostRef, *services.ServiceError) {
	args := m.Called(ctx, identity, req)
	return retArg[*models.BlogPostRef](args, 0), svcErrArg(args, 1)
}

func (m *MockBlogService) UpdatePost(ctx context.Context, identity models.Identity, id uuid.UUID, req *models.UpdateBlogPostRequest) (*models.BlogPostRef, *services.ServiceError) {
	args := m.Called(ctx, identity, id, req)
	return retArg[*models.BlogPostRef](args, 0), svcErrArg(args, 1)
}

func (m *MockBlogService) DeletePost(ctx context.Context, identity models.Identity, id uuid.UUID) *services.ServiceError {
	return svcErrArg(m.Called(ctx, identity, id), 0)
}

func newBlogRouter(svc services.BlogService, identity models.Identity) *gin.Engine {
	controller := NewBlogController(svc)
	router := gin.New()
	router.GET("/blog", controller.ListPosts)
	router.GET("/blog/:id", controller.GetPost)
	authed := router.Group("/", withIdentity(identity))
	authed.POST("/blog", controller.CreatePost)
	authed.PATCH("/blog/:id", controller.UpdatePost)
	authed.DELETE("/blog/:id", controller.DeletePost)
	return router
}

func TestBlogController(t *testing.T) {
	identity := customerIdentity()

	t.Run("List by tag", func(t *testing.T) {
		mockService := new(MockBlogService)
		mockService.On("ListPosts", mock.Anything, models.BlogFilter{Tag: "recipes"}).
			Return(&models.BlogListResponse{Posts: []models.BlogPost{}}, nil).Once()

		recorder := performRequest(newBlogRouter(mockService, identity), http.MethodGet, "/blog?tag=recipes", "", nil)

		assert.Equal(t, http.StatusOK, recorder.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("Create - 201 Created", func(t *testing.T) {
		id := uuid.New()
		mockService := new(MockBlogService)
		mockService.On("CreatePost", mock.Anything, identity, mock.MatchedBy(func(req *models.CreateBlogPostRequest) bool {
			return req.Title == "Spring Menu" && req.Status == models.BlogStatus("published")
		})).Return(&models.BlogPostRef{ID: id, Slug: "spring-menu"}, nil).Once()

		recorder := performRequest(newBlogRouter(mockService, identity), http.MethodPost, "/blog",
			`{"title":"Spring Menu","content":"Asparagus.","status":"published"}`, nil)

		assert.Equal(t, http.StatusCreated, recorder.Code)
		assert.JSONEq(t, `{"id":"`+id.String()+`","slug":"spring-menu"}`, recorder.Body.String())
		mockService.AssertExpectations(t)
	})

	t.Run("Update with unknown status - 400 Bad Request", func(t *testing.T) {
		mockService := new(MockBlogService)

		recorder := performRequest(newBlogRouter(mockService, identity), http.MethodPatch, "/blog/"+uuid.NewString(), `{"status":"hidden"}`, nil)

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		mockService.AssertNotCalled(t, "UpdatePost")
	})

	t.Run("Delete - 204 No Content", func(t *testing.T) {
		id := uuid.New()
		mockService := new(MockBlogService)
		mockService.On("DeletePost", mock.Anything, identity, id).Return(nil).Once()

		recorder := performRequest(newBlogRouter(mockService, identity), http.MethodDelete, "/blog/"+id.String(), "", nil)

		assert.Equal(t, http.StatusNoContent, recorder.Code)
		mockService.AssertExpectations(t)
	})
}
