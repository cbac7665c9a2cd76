package middleware

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/pupskillswap/skillswap-api/internal/apperrors"
	"github.com/pupskillswap/skillswap-api/internal/constants"
)

// RequireAuth resolves the caller identity: a session user id when one
// exists, otherwise the X-User-ID header set by the API gateway.
// Requests with neither are rejected before reaching a handler.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := ""

		session := sessions.Default(c)
		if v, ok := session.Get(constants.ContextKeyUserID).(string); ok {
			userID = v
		}
		if userID == "" {
			userID = c.GetHeader(constants.HeaderUserID)
		}

		if userID == "" {
			apperrors.Respond(c, apperrors.Unauthenticated("Missing or invalid authentication."))
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyUserID, userID)
		c.Next()
	}
}

// GetUserID retrieves the current user id from context
func GetUserID(c *gin.Context) (string, bool) {
	value, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return "", false
	}

	userID, ok := value.(string)
	if !ok || userID == "" {
		return "", false
	}
	return userID, true
}
