// Package middleware provides request filters and security checks for the application.
// File: middleware/auth.go
package middleware

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"go-iron-flow/logger"
)

// -------------- authentication middleware --------------

// AuthRequired ensures the caller holds a logged-in session. The "user"
// session variable is set by the login handler; requests without it are
// rejected before reaching any mutating route.
func AuthRequired(c *gin.Context) {
	session := sessions.Default(c)
	user := session.Get("user")

	if user == nil {
		logger.Warn.Printf("AuthRequired: no user in session for %s %s", c.Request.Method, c.Request.URL.Path)
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	c.Set("user", user)
	c.Next()
}
