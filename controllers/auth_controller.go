// Package controllers handles administrator authentication and session management.
// File: controllers/auth_controller.go
package controllers

import (
	"net/http"
	"os"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"go-iron-flow/logger"
)

// ------------------ authentication utilities ------------------

// checkPasswordHash verifies the plain-text password against the stored
// bcrypt hash.
func checkPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// ------------------ login handling ------------------

// PerformLogin authenticates the meet administrator against the
// credentials configured in the environment and stores the identity in
// the session.
func PerformLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username and password are required"})
		return
	}

	adminUser := os.Getenv("ADMIN_USERNAME")
	adminHash := os.Getenv("ADMIN_PASSWORD_HASH")
	if adminUser == "" || adminHash == "" {
		logger.Error.Println("PerformLogin: admin credentials are not configured")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login is not configured"})
		return
	}

	if req.Username != adminUser || !checkPasswordHash(req.Password, adminHash) {
		logger.Warn.Printf("PerformLogin: failed login for user %q", req.Username)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	session := sessions.Default(c)
	session.Set("user", req.Username)
	session.Set("isAdmin", true)
	if err := session.Save(); err != nil {
		logger.Error.Printf("PerformLogin: failed to save session: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to start session"})
		return
	}

	logger.Info.Printf("PerformLogin: %q logged in", req.Username)
	c.JSON(http.StatusOK, gin.H{"user": req.Username})
}

// Logout clears the session.
func Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	if err := session.Save(); err != nil {
		logger.Error.Printf("Logout: failed to clear session: %v", err)
	}
	c.JSON(http.StatusOK, gin.H{"status": "logged out"})
}
