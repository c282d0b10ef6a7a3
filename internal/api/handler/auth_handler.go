package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"reviewhub/internal/api/dto"
	"reviewhub/internal/api/service"
)

type AuthHandler struct {
	authService service.AuthService
}

func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// RegisterRoutes registers the public auth endpoints. Extra middleware, such
// as a stricter rate limit, applies to the whole group.
func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup, mw ...gin.HandlerFunc) {
	auth := router.Group("/auth", mw...)
	{
		auth.POST("/signup", h.Signup)
		auth.POST("/token", h.Token)
	}
}

// Signup starts or refreshes a confirmation-code signup.
// POST /api/v1/auth/signup
func (h *AuthHandler) Signup(c *gin.Context) {
	var req dto.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.authService.Signup(c.Request.Context(), req.Username, req.Email)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SignupResponse{
		Email:    user.Email,
		Username: user.Username,
	})
}

// Token exchanges a confirmation code for an access token. An unknown
// username is a 404, a wrong or spent code for a known username is a 400.
// POST /api/v1/auth/token
func (h *AuthHandler) Token(c *gin.Context) {
	var req dto.TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, err := h.authService.IssueToken(c.Request.Context(), req.Username, req.ConfirmationCode)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		if errors.Is(err, service.ErrInvalidCode) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.TokenResponse{Token: token})
}
