package controllers

import (
	"net/http"

	"github.com/cetler74/modern-e-commerce-platform/models"
	"github.com/cetler74/modern-e-commerce-platform/services"

	"github.com/gin-gonic/gin"
)

// BlogController handles CMS posts.
type BlogController struct {
	blogService services.BlogService
}

// NewBlogController creates a new BlogController.
func NewBlogController(svc services.BlogService) *BlogController {
	return &BlogController{blogService: svc}
}

// ListPosts handles GET /blog
func (bc *BlogController) ListPosts(ctx *gin.Context) {
	limit, offset := parsePaginationParams(ctx)
	filter := models.BlogFilter{
		Status: models.BlogStatus(ctx.Query("status")),
		Tag:    ctx.Query("tag"),
		Limit:  limit,
		Offset: offset,
	}

	resp, svcErr := bc.blogService.ListPosts(ctx.Request.Context(), filter)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}

	ctx.JSON(http.StatusOK, resp)
}

// GetPost handles GET /blog/:id, where :id is a UUID or a slug.
func (bc *BlogController) GetPost(ctx *gin.Context) {
	post, svcErr := bc.blogService.GetPost(ctx.Request.Context(), ctx.Param("id"))
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}

	ctx.JSON(http.StatusOK, post)
}

// CreatePost handles POST /blog
func (bc *BlogController) CreatePost(ctx *gin.Context) {
	identity, ok := requireIdentity(ctx)
	if !ok {
		return
	}
	var req models.CreateBlogPostRequest
	if !bindJSON(ctx, &req) {
		return
	}

	ref, svcErr := bc.blogService.CreatePost(ctx.Request.Context(), identity, &req)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}

	ctx.JSON(http.StatusCreated, ref)
}

// UpdatePost handles PATCH /blog/:id
func (bc *BlogController) UpdatePost(ctx *gin.Context) {
	identity, ok := requireIdentity(ctx)
	if !ok {
		return
	}
	id, ok := uuidParam(ctx, "id")
	if !ok {
		return
	}
	var req models.UpdateBlogPostRequest
	if !bindJSON(ctx, &req) {
		return
	}

	ref, svcErr := bc.blogService.UpdatePost(ctx.Request.Context(), identity, id, &req)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}

	ctx.JSON(http.StatusOK, ref)
}

// DeletePost handles DELETE /blog/:id
func (bc *BlogController) DeletePost(ctx *gin.Context) {
	identity, ok := requireIdentity(ctx)
	if !ok {
		return
	}
	id, ok := uuidParam(ctx, "id")
	if !ok {
		return
	}

	if svcErr := bc.blogService.DeletePost(ctx.Request.Context(), identity, id); svcErr != nil {
		respondError(ctx, svcErr)
		return
	}

	ctx.Status(http.StatusNoContent)
}
