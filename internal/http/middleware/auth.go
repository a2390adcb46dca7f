package middleware

import (
	"context"
	"net/http"
	"strings"

	"tasktracker/internal/domain"

	"github.com/gin-gonic/gin"
)

const identityKey = "identity"

// SessionCookie is the cookie the auth handlers set on sign-in.
const SessionCookie = "session_token"

// SessionResolver turns a bearer token into an identity or nil.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) *domain.Identity
}

// Session resolves the request's session, if any, and attaches the
// identity to the gin context. It never rejects; RequireAuth does that.
// OPTIONS preflight requests skip resolution entirely.
func Session(resolver SessionResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		identity := resolver.Resolve(c.Request.Context(), extractToken(c))
		if identity != nil {
			c.Set(identityKey, identity)
		}
		c.Next()
	}
}

// RequireAuth rejects requests that carry no authenticated identity,
// before any body or parameter validation runs.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := Identity(c); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"status":  "error",
				"message": "Unauthorized",
			})
			return
		}
		c.Next()
	}
}

// RequireAdmin rejects authenticated non-admin callers with 403.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := Identity(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"status":  "error",
				"message": "Unauthorized",
			})
			return
		}
		if !identity.User.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"status":  "error",
				"message": "Forbidden",
			})
			return
		}
		c.Next()
	}
}

// Identity returns the authenticated identity attached by Session.
// Handlers read it once and pass the user down as an explicit argument.
func Identity(c *gin.Context) (*domain.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return nil, false
	}
	identity, ok := v.(*domain.Identity)
	if !ok || identity == nil || identity.User == nil {
		return nil, false
	}
	return identity, true
}

// SetIdentity attaches an identity directly, used by tests.
func SetIdentity(c *gin.Context, identity *domain.Identity) {
	c.Set(identityKey, identity)
}

func extractToken(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); h != "" {
		if strings.HasPrefix(h, "Bearer ") {
			return strings.TrimPrefix(h, "Bearer ")
		}
		return ""
	}
	if cookie, err := c.Cookie(SessionCookie); err == nil {
		return cookie
	}
	return ""
}
