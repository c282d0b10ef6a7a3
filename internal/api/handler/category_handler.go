package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"reviewhub/internal/api/dto"
	"reviewhub/internal/api/middleware"
	"reviewhub/internal/api/service"
)

type CategoryHandler struct {
	categoryService service.CategoryService
	authMiddleware  gin.HandlerFunc
}

func NewCategoryHandler(categoryService service.CategoryService, authMiddleware gin.HandlerFunc) *CategoryHandler {
	return &CategoryHandler{
		categoryService: categoryService,
		authMiddleware:  authMiddleware,
	}
}

// RegisterRoutes registers category routes. Listing is public, writes are
// admin only.
func (h *CategoryHandler) RegisterRoutes(router *gin.RouterGroup) {
	categories := router.Group("/categories")
	{
		categories.GET("", h.List)

		categories.POST("", h.authMiddleware, middleware.RequireAdmin(), h.Create)
		categories.DELETE("/:slug", h.authMiddleware, middleware.RequireAdmin(), h.Delete)
	}
}

// List returns categories with optional name search.
// GET /api/v1/categories?search=&page=1&page_size=20
func (h *CategoryHandler) List(c *gin.Context) {
	page, pageSize := parsePagination(c)

	result, err := h.categoryService.List(c.Request.Context(), c.Query("search"), page, pageSize)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Create adds a category.
// POST /api/v1/categories
func (h *CategoryHandler) Create(c *gin.Context) {
	var req dto.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	category, err := h.categoryService.Create(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, category)
}

// Delete removes a category by slug.
// DELETE /api/v1/categories/:slug
func (h *CategoryHandler) Delete(c *gin.Context) {
	if err := h.categoryService.Delete(c.Request.Context(), c.Param("slug")); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
