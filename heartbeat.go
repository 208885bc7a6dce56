// file: heartbeat.go
package main

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"go-iron-flow/logger"
)

// HeartbeatManager tracks which judge terminals are alive. A terminal
// that stops pinging is dropped after the timeout, so the meet admin
// can see a dead platform before attempts go unjudged.
type HeartbeatManager struct {
	activeTerminals map[string]time.Time
	mu              sync.Mutex
}

// NewHeartbeatManager initializes a heartbeat tracker.
func NewHeartbeatManager() *HeartbeatManager {
	return &HeartbeatManager{
		activeTerminals: make(map[string]time.Time),
	}
}

// HeartbeatHandler updates the last-seen timestamp of a judge terminal.
func (h *HeartbeatManager) HeartbeatHandler(c *gin.Context) {
	terminalID := c.Query("terminal_id")
	if terminalID == "" {
		logger.Warn.Println("[HeartbeatHandler] missing terminal ID in query params")
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing terminal ID"})
		return
	}

	h.mu.Lock()
	h.activeTerminals[terminalID] = time.Now()
	h.mu.Unlock()

	logger.Debug.Printf("[HeartbeatHandler] heartbeat from terminal=%s", terminalID)
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ActiveTerminals returns the terminals seen within the timeout.
func (h *HeartbeatManager) ActiveTerminals(timeout time.Duration) []string {
	h.mu.Lock()
	defer h.mu.Unlock()

	var active []string
	for id, lastSeen := range h.activeTerminals {
		if time.Since(lastSeen) <= timeout {
			active = append(active, id)
		}
	}
	return active
}

// CleanupInactiveTerminals periodically removes terminals that have
// gone quiet.
func (h *HeartbeatManager) CleanupInactiveTerminals(timeout time.Duration) {
	ticker := time.NewTicker(timeout)
	go func() {
		for range ticker.C {
			h.mu.Lock()
			for id, lastSeen := range h.activeTerminals {
				if time.Since(lastSeen) > timeout {
					logger.Info.Printf("[CleanupInactiveTerminals] removing inactive terminal=%s (timeout=%v)", id, timeout)
					delete(h.activeTerminals, id)
				}
			}
			h.mu.Unlock()
		}
	}()
}
