package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"reviewhub/internal/api/dto"
	"reviewhub/internal/api/middleware"
	"reviewhub/internal/api/service"
)

type ReviewHandler struct {
	reviewService  service.ReviewService
	authMiddleware gin.HandlerFunc
}

func NewReviewHandler(reviewService service.ReviewService, authMiddleware gin.HandlerFunc) *ReviewHandler {
	return &ReviewHandler{
		reviewService:  reviewService,
		authMiddleware: authMiddleware,
	}
}

// RegisterRoutes registers review routes nested under a title. Reads are
// public; creating needs authentication, editing needs author, moderator
// or admin.
func (h *ReviewHandler) RegisterRoutes(router *gin.RouterGroup) {
	reviews := router.Group("/titles/:title_id/reviews")
	{
		reviews.GET("", h.List)
		reviews.GET("/:review_id", h.Get)

		reviews.POST("", h.authMiddleware, h.Create)
		reviews.PATCH("/:review_id", h.authMiddleware, h.Update)
		reviews.DELETE("/:review_id", h.authMiddleware, h.Delete)
	}
}

// List returns the reviews of a title.
// GET /api/v1/titles/:title_id/reviews
func (h *ReviewHandler) List(c *gin.Context) {
	titleID, ok := parseIDParam(c, "title_id")
	if !ok {
		return
	}
	page, pageSize := parsePagination(c)

	result, err := h.reviewService.ListByTitle(c.Request.Context(), titleID, page, pageSize)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Get returns a single review.
// GET /api/v1/titles/:title_id/reviews/:review_id
func (h *ReviewHandler) Get(c *gin.Context) {
	titleID, ok := parseIDParam(c, "title_id")
	if !ok {
		return
	}
	reviewID, ok := parseIDParam(c, "review_id")
	if !ok {
		return
	}

	review, err := h.reviewService.GetByID(c.Request.Context(), titleID, reviewID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, review)
}

// Create posts a review. One review per author per title.
// POST /api/v1/titles/:title_id/reviews
func (h *ReviewHandler) Create(c *gin.Context) {
	titleID, ok := parseIDParam(c, "title_id")
	if !ok {
		return
	}

	var req dto.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	review, err := h.reviewService.Create(c.Request.Context(), middleware.CurrentUser(c), titleID, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, review)
}

// Update partially updates a review.
// PATCH /api/v1/titles/:title_id/reviews/:review_id
func (h *ReviewHandler) Update(c *gin.Context) {
	titleID, ok := parseIDParam(c, "title_id")
	if !ok {
		return
	}
	reviewID, ok := parseIDParam(c, "review_id")
	if !ok {
		return
	}

	var req dto.UpdateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	review, err := h.reviewService.Update(c.Request.Context(), middleware.CurrentUser(c), titleID, reviewID, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, review)
}

// Delete removes a review.
// DELETE /api/v1/titles/:title_id/reviews/:review_id
func (h *ReviewHandler) Delete(c *gin.Context) {
	titleID, ok := parseIDParam(c, "title_id")
	if !ok {
		return
	}
	reviewID, ok := parseIDParam(c, "review_id")
	if !ok {
		return
	}

	if err := h.reviewService.Delete(c.Request.Context(), middleware.CurrentUser(c), titleID, reviewID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
