package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"reviewhub/internal/api/dto"
	"reviewhub/internal/api/middleware"
	"reviewhub/internal/api/service"
)

type GenreHandler struct {
	genreService   service.GenreService
	authMiddleware gin.HandlerFunc
}

func NewGenreHandler(genreService service.GenreService, authMiddleware gin.HandlerFunc) *GenreHandler {
	return &GenreHandler{
		genreService:   genreService,
		authMiddleware: authMiddleware,
	}
}

// RegisterRoutes registers genre routes. Listing is public, writes are
// admin only.
func (h *GenreHandler) RegisterRoutes(router *gin.RouterGroup) {
	genres := router.Group("/genres")
	{
		genres.GET("", h.List)

		genres.POST("", h.authMiddleware, middleware.RequireAdmin(), h.Create)
		genres.DELETE("/:slug", h.authMiddleware, middleware.RequireAdmin(), h.Delete)
	}
}

// List returns genres with optional name search.
// GET /api/v1/genres?search=&page=1&page_size=20
func (h *GenreHandler) List(c *gin.Context) {
	page, pageSize := parsePagination(c)

	result, err := h.genreService.List(c.Request.Context(), c.Query("search"), page, pageSize)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Create adds a genre.
// POST /api/v1/genres
func (h *GenreHandler) Create(c *gin.Context) {
	var req dto.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	genre, err := h.genreService.Create(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, genre)
}

// Delete removes a genre by slug.
// DELETE /api/v1/genres/:slug
func (h *GenreHandler) Delete(c *gin.Context) {
	if err := h.genreService.Delete(c.Request.Context(), c.Param("slug")); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
