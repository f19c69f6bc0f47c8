// Package middleware holds the gin middleware for the API: the cookie
// auth gate, the seller gate, request logging, CORS, and rate limiting.
package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/thelocalstore/store-api/internal/storage"
	"github.com/thelocalstore/store-api/internal/token"
)

// AccessCookie is the cookie the auth gate reads.
const AccessCookie = "accessToken"

// userKey is where Authenticate parks the resolved user in the gin
// context.
const userKey = "currentUser"

// UserLoader resolves the token subject to a live account.
type UserLoader interface {
	FindUserByID(ctx context.Context, id uuid.UUID) (*storage.User, error)
}

// Authenticate verifies the access-token cookie and attaches the user to
// the context. An expired token gets a distinct message so clients know
// to refresh instead of re-login.
func Authenticate(tokens *token.Service, users UserLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		cookie, err := c.Cookie(AccessCookie)
		if err != nil {
			abortUnauthenticated(c, "Unauthenticated")
			return
		}

		subject, err := tokens.Verify(token.Access, cookie)
		if err != nil {
			if errors.Is(err, token.ErrExpired) {
				abortUnauthenticated(c, "Token Expired")
				return
			}
			abortUnauthenticated(c, "Unauthenticated")
			return
		}

		userID, err := uuid.Parse(subject)
		if err != nil {
			abortUnauthenticated(c, "Unauthenticated")
			return
		}

		user, err := users.FindUserByID(c.Request.Context(), userID)
		if err != nil {
			abortUnauthenticated(c, "Unauthenticated")
			return
		}

		c.Set(userKey, user)
		c.Next()
	}
}

// RequireSeller sits behind Authenticate and rejects accounts without
// the seller role.
func RequireSeller() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil || !user.HasRole(storage.RoleSeller) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"status":  "fail",
				"message": "seller account required",
			})
			return
		}
		c.Next()
	}
}

// CurrentUser returns the user Authenticate resolved, or nil on
// unauthenticated routes.
func CurrentUser(c *gin.Context) *storage.User {
	v, ok := c.Get(userKey)
	if !ok {
		return nil
	}
	user, _ := v.(*storage.User)
	return user
}

func abortUnauthenticated(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"status":  "fail",
		"message": message,
	})
}
