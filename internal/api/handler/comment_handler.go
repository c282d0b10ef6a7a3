package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"reviewhub/internal/api/dto"
	"reviewhub/internal/api/middleware"
	"reviewhub/internal/api/service"
)

type CommentHandler struct {
	commentService service.CommentService
	authMiddleware gin.HandlerFunc
}

func NewCommentHandler(commentService service.CommentService, authMiddleware gin.HandlerFunc) *CommentHandler {
	return &CommentHandler{
		commentService: commentService,
		authMiddleware: authMiddleware,
	}
}

// RegisterRoutes registers comment routes nested under a review.
func (h *CommentHandler) RegisterRoutes(router *gin.RouterGroup) {
	comments := router.Group("/titles/:title_id/reviews/:review_id/comments")
	{
		comments.GET("", h.List)
		comments.GET("/:comment_id", h.Get)

		comments.POST("", h.authMiddleware, h.Create)
		comments.PATCH("/:comment_id", h.authMiddleware, h.Update)
		comments.DELETE("/:comment_id", h.authMiddleware, h.Delete)
	}
}

// List returns the comments of a review.
// GET /api/v1/titles/:title_id/reviews/:review_id/comments
func (h *CommentHandler) List(c *gin.Context) {
	titleID, ok := parseIDParam(c, "title_id")
	if !ok {
		return
	}
	reviewID, ok := parseIDParam(c, "review_id")
	if !ok {
		return
	}
	page, pageSize := parsePagination(c)

	result, err := h.commentService.ListByReview(c.Request.Context(), titleID, reviewID, page, pageSize)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Get returns a single comment.
// GET /api/v1/titles/:title_id/reviews/:review_id/comments/:comment_id
func (h *CommentHandler) Get(c *gin.Context) {
	titleID, ok := parseIDParam(c, "title_id")
	if !ok {
		return
	}
	reviewID, ok := parseIDParam(c, "review_id")
	if !ok {
		return
	}
	commentID, ok := parseIDParam(c, "comment_id")
	if !ok {
		return
	}

	comment, err := h.commentService.GetByID(c.Request.Context(), titleID, reviewID, commentID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, comment)
}

// Create posts a comment on a review.
// POST /api/v1/titles/:title_id/reviews/:review_id/comments
func (h *CommentHandler) Create(c *gin.Context) {
	titleID, ok := parseIDParam(c, "title_id")
	if !ok {
		return
	}
	reviewID, ok := parseIDParam(c, "review_id")
	if !ok {
		return
	}

	var req dto.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	comment, err := h.commentService.Create(c.Request.Context(), middleware.CurrentUser(c), titleID, reviewID, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, comment)
}

// Update replaces a comment's text.
// PATCH /api/v1/titles/:title_id/reviews/:review_id/comments/:comment_id
func (h *CommentHandler) Update(c *gin.Context) {
	titleID, ok := parseIDParam(c, "title_id")
	if !ok {
		return
	}
	reviewID, ok := parseIDParam(c, "review_id")
	if !ok {
		return
	}
	commentID, ok := parseIDParam(c, "comment_id")
	if !ok {
		return
	}

	var req dto.UpdateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	comment, err := h.commentService.Update(c.Request.Context(), middleware.CurrentUser(c), titleID, reviewID, commentID, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, comment)
}

// Delete removes a comment.
// DELETE /api/v1/titles/:title_id/reviews/:review_id/comments/:comment_id
func (h *CommentHandler) Delete(c *gin.Context) {
	titleID, ok := parseIDParam(c, "title_id")
	if !ok {
		return
	}
	reviewID, ok := parseIDParam(c, "review_id")
	if !ok {
		return
	}
	commentID, ok := parseIDParam(c, "comment_id")
	if !ok {
		return
	}

	if err := h.commentService.Delete(c.Request.Context(), middleware.CurrentUser(c), titleID, reviewID, commentID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
