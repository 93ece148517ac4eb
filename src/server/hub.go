package server

import (
	"encoding/json"
	"net/http"
	"time"

	"dashboard-builder/src/models"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// -----------------------------------------------------------------------------
// Hub Pattern Implementation
// -----------------------------------------------------------------------------

// handleWebsockets is the main Hub loop
func (s *APIServer) handleWebsockets() {
	for {
		select {
		case client := <-s.register:
			s.clients[client] = struct{}{}

		case client := <-s.unregister:
			if _, ok := s.clients[client]; ok {
				delete(s.clients, client)
				close(client.send)
			}

		case message := <-s.broadcast:
			// Record state, then fan out per-client filtered copies
			for _, resp := range message.Responses {
				s.recordResponse(resp)
			}

			for client := range s.clients {
				filtered := filterForClient(message, client)
				if filtered == nil {
					continue
				}
				select {
				case client.send <- filtered:
					// Message sent successfully
				default:
					// Client too slow, disconnect to prevent Hub blocking
					delete(s.clients, client)
					close(client.send)
				}
			}
		}
	}
}

// -----------------------------------------------------------------------------

// BroadcastResponses queues freshly generated envelopes for every subscriber.
// Called from the refresh ticker; the buffered channel absorbs bursts.
func (s *APIServer) BroadcastResponses(responses map[models.WidgetType]*models.MWidgetDataResponse) {
	if len(responses) == 0 {
		return
	}

	s.broadcast <- &models.MPushMessage{
		Type:      "UPDATE",
		Responses: responses,
		Timestamp: time.Now().UnixMilli(),
	}
}

// -----------------------------------------------------------------------------

// filterForClient narrows a push message down to the client's subscription.
// Returns nil when nothing in the message interests the client.
func filterForClient(message *models.MPushMessage, client *Client) *models.MPushMessage {
	if client.subscribedToAll() {
		return message
	}

	filtered := make(map[models.WidgetType]*models.MWidgetDataResponse)
	for t, resp := range message.Responses {
		if client.isSubscribed(t) {
			filtered[t] = resp
		}
	}
	if len(filtered) == 0 {
		return nil
	}

	return &models.MPushMessage{
		Type:      message.Type,
		Responses: filtered,
		Timestamp: message.Timestamp,
	}
}

// -----------------------------------------------------------------------------
// WebSocket Handlers
// -----------------------------------------------------------------------------

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// -----------------------------------------------------------------------------

func (s *APIServer) handleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.Logger.Info("Failed to upgrade websocket: %v", err)
		return
	}

	client := &Client{
		hub:  s,
		conn: conn,
		// Buffered channel to prevent blocking the Hub loop
		send:       make(chan *models.MPushMessage, 256),
		subscribed: make(map[models.WidgetType]struct{}),
	}

	s.register <- client

	// Start goroutines for reading/writing
	go client.writePump()
	go client.readPump()
}

// -----------------------------------------------------------------------------
// Client Message Handling
// -----------------------------------------------------------------------------

func (s *APIServer) HandleClientMessage(client *Client, message []byte) {
	var cmd models.MSubscribeCommand
	if err := json.Unmarshal(message, &cmd); err != nil {
		s.Logger.Info("Failed to parse client command: %v, disconnecting client", err)
		client.conn.Close()
		return
	}

	if cmd.Command != "subscribe" {
		return
	}

	client.setSubscription(cmd.Types)

	// Replay the most recent envelope per subscribed type so a fresh client
	// renders before the next refresh tick.
	response := s.initialResponse(client)

	// Use select to avoid blocking if client's send buffer is full
	select {
	case client.send <- response:
	default:
		// Client buffer full; the next broadcast will catch it up anyway.
	}
}

// -----------------------------------------------------------------------------
// Response Filtering
// -----------------------------------------------------------------------------

func (s *APIServer) initialResponse(client *Client) *models.MPushMessage {
	s.stateMutex.RLock()
	defer s.stateMutex.RUnlock()

	responses := make(map[models.WidgetType]*models.MWidgetDataResponse)
	for t, buf := range s.history {
		if !client.subscribedToAll() && !client.isSubscribed(t) {
			continue
		}
		if recent := buf.GetLatest(1); len(recent) > 0 {
			responses[t] = recent[0]
		}
	}

	return &models.MPushMessage{
		Type:      "INITIAL",
		Responses: responses,
		Timestamp: time.Now().UnixMilli(),
	}
}
