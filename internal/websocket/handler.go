package websocket

import (
	"github.com/gofiber/websocket/v2"
)

// ServeWs attaches a connection to the hub and blocks until it closes.
func ServeWs(hub *Hub, c *websocket.Conn, seriesID, userID int64) {
	client := &Client{Hub: hub, Conn: c, SeriesID: seriesID, UserID: userID, Send: make(chan []byte, sendBuffer)}
	if !hub.Register(client) {
		c.Close()
		return
	}

	go client.writePump()
	client.readPump()
}
