package middleware

import (
	"college_chatbot_backend/internal/model"
	"college_chatbot_backend/internal/util"
	"college_chatbot_backend/pkg/logger"
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Authenticator validates a token against the session store.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*util.Claims, error)
}

// TokenFromRequest looks for a session token in the X-Session-Token header, a
// Bearer Authorization header, the token query parameter and the session cookie,
// in that order.
func TokenFromRequest(c *gin.Context) string {
	if t := strings.TrimSpace(c.GetHeader(util.SessionHeader)); t != "" {
		return t
	}
	if authHeader := c.GetHeader("Authorization"); strings.HasPrefix(authHeader, "Bearer ") {
		if t := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer ")); t != "" {
			return t
		}
	}
	if t := c.Query(util.TokenQuery); t != "" {
		return t
	}
	if t, err := c.Cookie(util.SessionCookie); err == nil {
		return t
	}
	return ""
}

func AuthMiddleware(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := TokenFromRequest(c)
		if tokenString == "" {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		claims, err := auth.Authenticate(c.Request.Context(), tokenString)
		if err != nil {
			logger.Log.Debug("Rejected session token", zap.String("path", c.Request.URL.Path), zap.Error(err))
			util.Unauthorized(c)
			c.Abort()
			return
		}

		c.Set("user", claims)
		c.Next()
	}
}

// RoleMiddleware admits the listed roles. Admins are always admitted.
func RoleMiddleware(roles ...model.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := util.GetUserFromContext(c)
		if user == nil {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		hasRole := user.Role == model.Admin
		for _, role := range roles {
			if user.Role == role {
				hasRole = true
				break
			}
		}

		if !hasRole {
			util.Forbidden(c)
			c.Abort()
			return
		}
		c.Next()
	}
}
