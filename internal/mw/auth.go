package mw

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"joybor-backend/internal/authn"
	"joybor-backend/internal/model"
	"joybor-backend/internal/store"
)

const userContextKey = "currentUser"

// RequireAuth validates the bearer access token, loads the account and puts
// it in the request context. Blocked and inactive accounts are rejected.
func RequireAuth(issuer *authn.TokenIssuer, s store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		claims, err := issuer.Parse(token, authn.KindAccess)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		user, err := s.GetUser(c.Request.Context(), claims.UserID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "account no longer exists"})
			return
		}
		if user.Status != model.UserActive {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "account is not active"})
			return
		}

		c.Set(userContextKey, user)
		c.Next()
	}
}

// CurrentUser returns the authenticated user set by RequireAuth, or nil.
func CurrentUser(c *gin.Context) *model.User {
	v, ok := c.Get(userContextKey)
	if !ok {
		return nil
	}
	user, _ := v.(*model.User)
	return user
}
