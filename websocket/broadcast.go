// Package websocket - websocket/broadcast.go
package websocket

import (
	"encoding/json"

	"go-iron-flow/logger"
)

// HandleMessages listens on the broadcast channel and fans messages out
// to subscribed connections. Run once, as a goroutine, from main.
func HandleMessages() {
	for {
		msg := <-broadcast

		var msgMap map[string]interface{}
		var tournamentFilter string
		if err := json.Unmarshal(msg, &msgMap); err == nil {
			if id, ok := msgMap["tournamentId"].(string); ok {
				tournamentFilter = id
			}
		}

		connectionsMu.Lock()
		for c := range connections {
			if tournamentFilter != "" && c.tournamentID != tournamentFilter {
				continue
			}
			select {
			case c.send <- msg:
			default:
				// slow consumer: drop rather than stall the platform
				logger.Warn.Printf("Dropping broadcast message for connection %v", c.conn.RemoteAddr())
			}
		}
		connectionsMu.Unlock()
	}
}

// BroadcastMessage sends a message to every client subscribed to the
// given tournament. The tournamentId key is added for filtering.
func BroadcastMessage(tournamentID string, message map[string]interface{}) {
	message["tournamentId"] = tournamentID

	msg, err := json.Marshal(message)
	if err != nil {
		logger.Error.Printf("Error marshalling broadcast message: %v", err)
		return
	}
	broadcast <- msg
}
