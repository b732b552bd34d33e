package controllers

import (
	"net/http"

	"github.com/cetler74/modern-e-commerce-platform/models"
	"github.com/cetler74/modern-e-commerce-platform/services"

	"github.com/gin-gonic/gin"
)

// ProductController handles catalog requests.
type ProductController struct {
	productService services.ProductService
}

// NewProductController creates a new ProductController.
func NewProductController(svc services.ProductService) *ProductController {
	return &ProductController{productService: svc}
}

// ListProducts handles GET /products
func (pc *ProductController) ListProducts(ctx *gin.Context) {
	limit, offset := parsePaginationParams(ctx)
	filter := models.ProductFilter{
		Status:   models.ProductStatus(ctx.Query("status")),
		Search:   ctx.Query("search"),
		Category: ctx.Query("category"),
		Limit:    limit,
		Offset:   offset,
	}

	resp, svcErr := pc.productService.ListProducts(ctx.Request.Context(), filter)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}

	ctx.JSON(http.StatusOK, resp)
}

// GetProduct handles GET /products/:id, where :id is a UUID or a slug.
func (pc *ProductController) GetProduct(ctx *gin.Context) {
	product, svcErr := pc.productService.GetProduct(ctx.Request.Context(), ctx.Param("id"))
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}

	ctx.JSON(http.StatusOK, product)
}

// CreateProduct handles POST /products
func (pc *ProductController) CreateProduct(ctx *gin.Context) {
	identity, ok := requireIdentity(ctx)
	if !ok {
		return
	}
	var req models.CreateProductRequest
	if !bindJSON(ctx, &req) {
		return
	}

	product, svcErr := pc.productService.CreateProduct(ctx.Request.Context(), identity, &req)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}

	ctx.JSON(http.StatusCreated, product)
}

// UpdateProduct handles PATCH /products/:id
func (pc *ProductController) UpdateProduct(ctx *gin.Context) {
	identity, ok := requireIdentity(ctx)
	if !ok {
		return
	}
	id, ok := uuidParam(ctx, "id")
	if !ok {
		return
	}
	var req models.UpdateProductRequest
	if !bindJSON(ctx, &req) {
		return
	}

	product, svcErr := pc.productService.UpdateProduct(ctx.Request.Context(), identity, id, &req)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}

	ctx.JSON(http.StatusOK, product)
}

// DeleteProduct handles DELETE /products/:id
func (pc *ProductController) DeleteProduct(ctx *gin.Context) {
	identity, ok := requireIdentity(ctx)
	if !ok {
		return
	}
	id, ok := uuidParam(ctx, "id")
	if !ok {
		return
	}

	if svcErr := pc.productService.DeleteProduct(ctx.Request.Context(), identity, id); svcErr != nil {
		respondError(ctx, svcErr)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// PresignUpload handles POST /products/uploads
func (pc *ProductController) PresignUpload(ctx *gin.Context) {
	identity, ok := requireIdentity(ctx)
	if !ok {
		return
	}
	var req models.PresignUploadRequest
	if !bindJSON(ctx, &req) {
		return
	}

	resp, svcErr := pc.productService.PresignUpload(ctx.Request.Context(), identity, &req)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}

	ctx.JSON(http.StatusOK, resp)
}
