package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"reviewhub/internal/api/dto"
	"reviewhub/internal/api/middleware"
	"reviewhub/internal/api/repository"
	"reviewhub/internal/api/service"
)

type TitleHandler struct {
	titleService   service.TitleService
	authMiddleware gin.HandlerFunc
}

func NewTitleHandler(titleService service.TitleService, authMiddleware gin.HandlerFunc) *TitleHandler {
	return &TitleHandler{
		titleService:   titleService,
		authMiddleware: authMiddleware,
	}
}

// RegisterRoutes registers title routes. Reads are public, writes are
// admin only.
func (h *TitleHandler) RegisterRoutes(router *gin.RouterGroup) {
	titles := router.Group("/titles")
	{
		titles.GET("", h.List)
		titles.GET("/:title_id", h.Get)

		titles.POST("", h.authMiddleware, middleware.RequireAdmin(), h.Create)
		titles.PATCH("/:title_id", h.authMiddleware, middleware.RequireAdmin(), h.Update)
		titles.DELETE("/:title_id", h.authMiddleware, middleware.RequireAdmin(), h.Delete)
	}
}

// List returns titles filtered by category, genre, name and year.
// GET /api/v1/titles?category=&genre=&name=&year=&page=1&page_size=20
func (h *TitleHandler) List(c *gin.Context) {
	page, pageSize := parsePagination(c)

	filter := repository.TitleFilter{
		CategorySlug: c.Query("category"),
		GenreSlug:    c.Query("genre"),
		Name:         c.Query("name"),
	}
	if yearParam := c.Query("year"); yearParam != "" {
		year, err := strconv.Atoi(yearParam)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid year filter"})
			return
		}
		filter.Year = year
	}

	result, err := h.titleService.List(c.Request.Context(), filter, page, pageSize)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Get returns a single title with its derived rating.
// GET /api/v1/titles/:title_id
func (h *TitleHandler) Get(c *gin.Context) {
	titleID, ok := parseIDParam(c, "title_id")
	if !ok {
		return
	}

	title, err := h.titleService.GetByID(c.Request.Context(), titleID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, title)
}

// Create adds a title.
// POST /api/v1/titles
func (h *TitleHandler) Create(c *gin.Context) {
	var req dto.CreateTitleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	title, err := h.titleService.Create(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, title)
}

// Update partially updates a title.
// PATCH /api/v1/titles/:title_id
func (h *TitleHandler) Update(c *gin.Context) {
	titleID, ok := parseIDParam(c, "title_id")
	if !ok {
		return
	}

	var req dto.UpdateTitleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	title, err := h.titleService.Update(c.Request.Context(), titleID, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, title)
}

// Delete removes a title and, via cascade, its reviews and comments.
// DELETE /api/v1/titles/:title_id
func (h *TitleHandler) Delete(c *gin.Context) {
	titleID, ok := parseIDParam(c, "title_id")
	if !ok {
		return
	}

	if err := h.titleService.Delete(c.Request.Context(), titleID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
