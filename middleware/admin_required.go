// Package middleware - middleware/admin_required.go
package middleware

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"go-iron-flow/logger"
)

// AdminRequired gates the administrative routes (lifecycle transitions,
// category configuration, judging). Must run after AuthRequired.
func AdminRequired(c *gin.Context) {
	session := sessions.Default(c)
	isAdmin, ok := session.Get("isAdmin").(bool)

	if !ok || !isAdmin {
		logger.Warn.Printf("AdminRequired: non-admin access to %s %s", c.Request.Method, c.Request.URL.Path)
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "administrator access required"})
		return
	}

	c.Next()
}
