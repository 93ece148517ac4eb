package server

import (
	"sync"
	"time"

	"dashboard-builder/src/models"

	"github.com/gorilla/websocket"
)

// -----------------------------------------------------------------------------
// Constants
// -----------------------------------------------------------------------------

const (
	writeWait      = 2 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 1024 * 1024 // 1MB for larger JSON messages
)

// -----------------------------------------------------------------------------
// Client Structure
// -----------------------------------------------------------------------------

type Client struct {
	hub  *APIServer
	conn *websocket.Conn
	send chan *models.MPushMessage

	// Subscription set; empty means every type. Written by the hub on
	// subscribe commands, read during broadcasts.
	subMutex   sync.RWMutex
	subscribed map[models.WidgetType]struct{}
}

// -----------------------------------------------------------------------------

func (c *Client) setSubscription(types []string) {
	c.subMutex.Lock()
	defer c.subMutex.Unlock()

	c.subscribed = make(map[models.WidgetType]struct{})
	for _, raw := range types {
		if models.IsValidWidgetType(raw) {
			c.subscribed[models.WidgetType(raw)] = struct{}{}
		}
	}
}

// -----------------------------------------------------------------------------

func (c *Client) isSubscribed(t models.WidgetType) bool {
	c.subMutex.RLock()
	defer c.subMutex.RUnlock()

	_, ok := c.subscribed[t]
	return ok
}

// -----------------------------------------------------------------------------

func (c *Client) subscribedToAll() bool {
	c.subMutex.RLock()
	defer c.subMutex.RUnlock()

	return len(c.subscribed) == 0
}

// -----------------------------------------------------------------------------
// readPump - handles incoming messages from client
// Act as a Watchdog for the connection
// -----------------------------------------------------------------------------

func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
		c.hub.Logger.Info("Client disconnected")
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.Logger.Info("WebSocket error: %v", err)
			}
			break
		}
		// Handle the message (subscribe commands)
		c.hub.HandleClientMessage(c, message)
	}
}

// -----------------------------------------------------------------------------
// writePump - sends messages to client
// -----------------------------------------------------------------------------

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			// Write JSON message
			if err := c.conn.WriteJSON(message); err != nil {
				c.hub.Logger.Info("Write error: %v", err)
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
