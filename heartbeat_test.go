// file: heartbeat_test.go
package main

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestHeartbeatHandler_MissingTerminalID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewHeartbeatManager()
	router := gin.New()
	router.GET("/heartbeat", h.HeartbeatHandler)

	req, _ := http.NewRequest("GET", "/heartbeat", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHeartbeatHandler_TracksTerminal(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewHeartbeatManager()
	router := gin.New()
	router.GET("/heartbeat", h.HeartbeatHandler)

	req, _ := http.NewRequest("GET", "/heartbeat?terminal_id=platform-1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, h.ActiveTerminals(time.Minute), "platform-1")
}

func TestActiveTerminals_ExpiresQuietTerminals(t *testing.T) {
	h := NewHeartbeatManager()
	h.mu.Lock()
	h.activeTerminals["stale"] = time.Now().Add(-2 * time.Minute)
	h.activeTerminals["fresh"] = time.Now()
	h.mu.Unlock()

	active := h.ActiveTerminals(time.Minute)
	assert.Contains(t, active, "fresh")
	assert.NotContains(t, active, "stale")
}
