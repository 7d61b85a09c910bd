// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements bearer-token authentication. RequireAuth resolves the
// Authorization header to a user via the injected Authenticator and attaches
// the account to the request context; every route behind it can rely on
// AuthUser returning a non-nil user.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/customercar/go-support-backend/internal/domain"
)

const (
	// authUserKey is the Gin context key holding the authenticated *domain.User.
	authUserKey = "authUser"
	// userIDKey mirrors the user id as a plain string for the rate limiter
	// and request logger.
	userIDKey = "userID"
)

// Authenticator resolves a plaintext bearer token to its user. Implemented
// by services.AuthService.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*domain.User, error)
}

// RequireAuth rejects requests without a valid bearer token and attaches the
// authenticated user to the Gin context.
//
// Responses use the same JSON envelope as the handlers package; the envelope
// is written inline here to keep the middleware free of a handlers import.
func RequireAuth(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			incAuthFailure("missing")
			abortUnauthorized(c, "missing bearer token")
			return
		}
		user, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			incAuthFailure("invalid")
			abortUnauthorized(c, "invalid or expired token")
			return
		}
		c.Set(authUserKey, user)
		c.Set(userIDKey, user.ID)
		c.Next()
	}
}

// AuthUser returns the authenticated user attached by RequireAuth, or nil
// when the route is not behind authentication.
func AuthUser(c *gin.Context) *domain.User {
	if v, ok := c.Get(authUserKey); ok {
		if u, ok := v.(*domain.User); ok {
			return u
		}
	}
	return nil
}

// bearerToken extracts the credential from an "Authorization: Bearer x"
// header. The scheme comparison is case-insensitive per RFC 7235.
func bearerToken(header string) string {
	const prefix = "bearer "
	if len(header) <= len(prefix) {
		return ""
	}
	if !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}

// abortUnauthorized writes a 401 error envelope and stops the chain.
func abortUnauthorized(c *gin.Context, msg string) {
	rid, _ := c.Get(requestIDKey)
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"request_id": asString(rid),
		"code":       "unauthorized",
		"message":    msg,
	})
}
