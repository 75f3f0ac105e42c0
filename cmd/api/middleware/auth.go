package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/vishalm342/ShelfSense/cmd/api/auth"
	"github.com/vishalm342/ShelfSense/cmd/api/services"
	"github.com/vishalm342/ShelfSense/internal/logger"
)

// ContextUserIDKey is the gin context key holding the authenticated
// user's ObjectID hex string.
const ContextUserIDKey = "user_id"

// UserAuthMiddleware verifies the JWT in the Authorization header and
// stores the authenticated user ID in the gin context.
func UserAuthMiddleware(authSvc *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := auth.ExtractBearerToken(c)
		if err != nil {
			auth.AbortWithUnauthorized(c, err)
			return
		}

		userID, err := authSvc.ParseAccessToken(token)
		if err != nil {
			logger.Log.Warnf("token parse error: %v", err)
			auth.AbortWithUnauthorized(c, err)
			return
		}

		c.Set(ContextUserIDKey, userID)
		c.Next()
	}
}

// UserID returns the authenticated user ID set by UserAuthMiddleware.
func UserID(c *gin.Context) string {
	return c.GetString(ContextUserIDKey)
}
