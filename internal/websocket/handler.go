package websocket

import (
	"github.com/gofiber/websocket/v2"
)

// ServeWs registers the connection and blocks until it closes.
func ServeWs(hub *Hub, c *websocket.Conn, username string) {
	client := &Client{Hub: hub, Conn: c, Username: username, Send: make(chan []byte, 256)}
	if !hub.registerClient(client) {
		_ = c.Close()
		return
	}

	go client.writePump()
	client.readPump()
}
