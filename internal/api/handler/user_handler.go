package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"reviewhub/internal/api/dto"
	"reviewhub/internal/api/middleware"
	"reviewhub/internal/api/service"
)

type UserHandler struct {
	userService    service.UserService
	authMiddleware gin.HandlerFunc
}

func NewUserHandler(userService service.UserService, authMiddleware gin.HandlerFunc) *UserHandler {
	return &UserHandler{
		userService:    userService,
		authMiddleware: authMiddleware,
	}
}

// RegisterRoutes registers user management routes. /users/me is available
// to any authenticated user, everything else is admin only.
func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	users := router.Group("/users", h.authMiddleware)
	{
		users.GET("/me", h.GetSelf)
		users.PATCH("/me", h.UpdateSelf)

		admin := users.Group("", middleware.RequireAdmin())
		{
			admin.GET("", h.List)
			admin.POST("", h.Create)
			admin.GET("/:username", h.Get)
			admin.PATCH("/:username", h.Update)
			admin.DELETE("/:username", h.Delete)
		}
	}
}

// GetSelf returns the authenticated user's own profile.
// GET /api/v1/users/me
func (h *UserHandler) GetSelf(c *gin.Context) {
	user, err := h.userService.GetSelf(c.Request.Context(), middleware.CurrentUser(c).ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateSelf updates the authenticated user's own profile. The request type
// has no role field, so a submitted role is dropped silently.
// PATCH /api/v1/users/me
func (h *UserHandler) UpdateSelf(c *gin.Context) {
	var req dto.UpdateSelfRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.userService.UpdateSelf(c.Request.Context(), middleware.CurrentUser(c).ID, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// List returns users with optional username search.
// GET /api/v1/users?search=&page=1&page_size=20
func (h *UserHandler) List(c *gin.Context) {
	page, pageSize := parsePagination(c)

	result, err := h.userService.List(c.Request.Context(), c.Query("search"), page, pageSize)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Create adds a user with an optional role.
// POST /api/v1/users
func (h *UserHandler) Create(c *gin.Context) {
	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.userService.Create(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

// Get returns a user by username.
// GET /api/v1/users/:username
func (h *UserHandler) Get(c *gin.Context) {
	user, err := h.userService.GetByUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// Update partially updates a user, including the role.
// PATCH /api/v1/users/:username
func (h *UserHandler) Update(c *gin.Context) {
	var req dto.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.userService.Update(c.Request.Context(), c.Param("username"), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// Delete removes a user by username.
// DELETE /api/v1/users/:username
func (h *UserHandler) Delete(c *gin.Context) {
	if err := h.userService.Delete(c.Request.Context(), c.Param("username")); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
