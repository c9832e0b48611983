// Package middleware holds gin middlewares shared across the route table.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/vortexcart/api/internal/domain/models"
	"github.com/vortexcart/api/internal/service/auth"
)

const userContextKey = "currentUser"

// Protect rejects requests without a valid bearer token and attaches the
// authenticated user to the gin context.
func Protect(authSvc *auth.Service, logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "not authorized, no token"})
			return
		}

		token := strings.TrimPrefix(header, "Bearer ")
		user, err := authSvc.VerifyToken(c.Request.Context(), token)
		if err != nil {
			logger.Debug("token verification failed", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "not authorized, token failed"})
			return
		}

		c.Set(userContextKey, user)
		c.Next()
	}
}

// AdminOnly requires the authenticated user to hold the admin role. Must run
// after Protect.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil || !user.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "not authorized as an admin"})
			return
		}
		c.Next()
	}
}

// CurrentUser returns the user attached by Protect, or nil.
func CurrentUser(c *gin.Context) *models.User {
	value, ok := c.Get(userContextKey)
	if !ok {
		return nil
	}
	user, _ := value.(*models.User)
	return user
}
