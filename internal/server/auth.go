package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/pharmakart/backend/internal/domain"
	"github.com/pharmakart/backend/internal/port"
)

type ctxKey int

const userKey ctxKey = iota

type claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// AuthMiddleware resolves the caller from a Bearer token and stores the
// UserRef in the request context for the guard to pick up.
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		tokenStr := strings.TrimPrefix(header, "Bearer ")

		parsed := &claims{}
		token, err := jwt.ParseWithClaims(tokenStr, parsed, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		user := domain.UserRef{ID: parsed.Subject, Role: domain.Role(parsed.Role)}

		ctx := context.WithValue(c.Request.Context(), userKey, user)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

type jwtGuard struct{}

// NewGuard returns the AccessGuard backed by the auth middleware above.
func NewGuard() port.AccessGuard {
	return jwtGuard{}
}

func (jwtGuard) CurrentUser(ctx context.Context) (domain.UserRef, error) {
	user, ok := ctx.Value(userKey).(domain.UserRef)
	if !ok {
		return domain.UserRef{}, errors.New("no authenticated user in context")
	}

	return user, nil
}

func (jwtGuard) IsOwner(user domain.UserRef, ownerID string) bool {
	return user.Owns(ownerID)
}
