package middleware

import (
	"context"
	"strings"

	"horizontravels/internal/domain"
	"horizontravels/internal/domain/models"

	"github.com/gin-gonic/gin"
)

const (
	requestContextKey = "request_context"
	userRoleKey       = "userRole"
)

// Authenticator turns a session token into the caller's identity.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (domain.RequestContext, error)
}

// SessionToken reads the session from the cookie, falling back to a Bearer header.
func SessionToken(c *gin.Context, cookieName string) string {
	if cookieName != "" {
		if v, err := c.Cookie(cookieName); err == nil && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	h := strings.TrimSpace(c.GetHeader("Authorization"))
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

// Session attaches the caller's identity when a valid session is presented.
// Anonymous requests pass through; RequireRoles decides what needs a login.
func Session(auth Authenticator, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := SessionToken(c, cookieName)
		if token == "" || auth == nil {
			c.Next()
			return
		}
		rc, err := auth.Authenticate(c.Request.Context(), token)
		if err == nil {
			role := models.RoleUser
			if rc.IsAdmin {
				role = models.RoleAdmin
			}
			c.Set(requestContextKey, rc)
			c.Set(userRoleKey, role)
		}
		c.Next()
	}
}

// GetRequestContext returns the authenticated caller, if any.
func GetRequestContext(c *gin.Context) (domain.RequestContext, bool) {
	if c == nil {
		return domain.RequestContext{}, false
	}
	v, ok := c.Get(requestContextKey)
	if !ok {
		return domain.RequestContext{}, false
	}
	rc, ok := v.(domain.RequestContext)
	return rc, ok
}

func abortJSON(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"error":      message,
		"code":       code,
		"message":    message,
		"request_id": GetRequestID(c),
	})
}

// RequireLogin rejects anonymous requests.
func RequireLogin() gin.HandlerFunc {
	return RequireRoles(models.RoleAdmin, models.RoleUser)
}

// RequireAdmin only lets administrators through.
func RequireAdmin() gin.HandlerFunc {
	return RequireRoles(models.RoleAdmin)
}
