// Package websocket - websocket/globals.go
package websocket

import "sync"

// connections tracks every live scoreboard client.
var (
	connections   = make(map[*Connection]bool)
	connectionsMu sync.Mutex
)

// broadcast carries marshalled messages to HandleMessages for fan-out.
var broadcast = make(chan []byte, 64)
