package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/honorwa/honor-wallet/models"
)

const sessionKey = "session"

// Authenticator resolves a bearer token to a live session.
type Authenticator interface {
	Authenticate(token string) (models.Session, error)
}

// AuthMiddleware requires "Authorization: Bearer <token>" and stores the
// session in the gin context. Websocket clients may pass ?token= instead.
func AuthMiddleware(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		if token == "" {
			token = c.Query("token")
		}
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "bearer token is required in 'Authorization' header"})
			return
		}
		session, err := auth.Authenticate(token)
		if err != nil {
			logrus.WithError(err).Debug("AuthMiddleware: rejected token")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "invalid or expired token"})
			return
		}
		c.Set(sessionKey, session)
		c.Next()
	}
}

// RequireAdmin must run after AuthMiddleware.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		session, ok := Session(c)
		if !ok || !session.Role.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "admin role required"})
			return
		}
		c.Next()
	}
}

// Session returns the session stored by AuthMiddleware.
func Session(c *gin.Context) (models.Session, bool) {
	v, ok := c.Get(sessionKey)
	if !ok {
		return models.Session{}, false
	}
	session, ok := v.(models.Session)
	return session, ok
}
