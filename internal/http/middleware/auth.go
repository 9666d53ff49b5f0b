package middleware

import (
	"net/http"

	"backoffice/internal/auth"
	"backoffice/internal/domain"

	"github.com/gin-gonic/gin"
)

const (
	ctxUserID    = "userID"
	ctxUserRole  = "userRole"
	ctxUserEmail = "userEmail"
)

// AuthOptional parses a Bearer token when present and stores the user on the context.
// Requests without a token, or with a bad one, pass through anonymous.
func AuthOptional(iss auth.Issuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		if raw := auth.BearerToken(c.GetHeader("Authorization")); raw != "" {
			if claims, err := iss.ParseToken(raw); err == nil {
				c.Set(ctxUserID, claims.UserID)
				c.Set(ctxUserRole, claims.Role)
				c.Set(ctxUserEmail, claims.Email)
			}
		}
		c.Next()
	}
}

// RequireAuth rejects requests that AuthOptional could not authenticate.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(ctxUserID) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":      "unauthorized",
				"request_id": GetRequestID(c),
			})
			return
		}
		c.Next()
	}
}

// CurrentUser returns the authenticated user, if any.
func CurrentUser(c *gin.Context) (domain.RequestContext, bool) {
	id := c.GetString(ctxUserID)
	if id == "" {
		return domain.RequestContext{}, false
	}
	return domain.RequestContext{
		UserID: id,
		Email:  c.GetString(ctxUserEmail),
		Role:   c.GetString(ctxUserRole),
	}, true
}
