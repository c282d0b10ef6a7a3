package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"reviewhub/internal/api/models"
	"reviewhub/internal/api/permissions"
	"reviewhub/internal/api/repository"
	"reviewhub/internal/api/service"
)

const (
	ContextUserKey   = "currentUser"
	ContextUserIDKey = "userID"
)

// AuthMiddleware is a Gin middleware for JWT authentication of API requests.
// It checks for the presence and validity of a JWT token in the Authorization
// header and loads the current account state so role changes take effect
// without waiting for token expiry.
func AuthMiddleware(authService service.AuthService, users repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Get token from header
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			c.Abort()
			return
		}

		// Extract token (format: "Bearer <token>")
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header format"})
			c.Abort()
			return
		}

		user, err := resolveUser(c, authService, users, parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			c.Abort()
			return
		}

		c.Set(ContextUserKey, user)
		c.Set(ContextUserIDKey, user.ID)

		c.Next()
	}
}

func resolveUser(c *gin.Context, authService service.AuthService, users repository.UserRepository, tokenString string) (*models.User, error) {
	claims, err := authService.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return nil, service.ErrInvalidToken
	}

	user, err := users.FindByID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, service.ErrInvalidToken
		}
		return nil, err
	}
	return user, nil
}

// CurrentUser returns the authenticated user set by AuthMiddleware, or nil
// when the request is anonymous.
func CurrentUser(c *gin.Context) *models.User {
	value, exists := c.Get(ContextUserKey)
	if !exists {
		return nil
	}
	user, ok := value.(*models.User)
	if !ok {
		return nil
	}
	return user
}

// RequireAdmin allows only administrators through. Must run after
// AuthMiddleware.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !permissions.IsAdmin(CurrentUser(c)) {
			c.JSON(http.StatusForbidden, gin.H{"error": "administrator access required"})
			c.Abort()
			return
		}
		c.Next()
	}
}
