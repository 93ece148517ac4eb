package models

// -----------------------------------------------------------------------------
// WebSocket Push Structures
// -----------------------------------------------------------------------------

// MPushMessage is the payload broadcast to websocket subscribers. Type is
// "INITIAL" for the replay sent on connect and "UPDATE" for refresh ticks.
type MPushMessage struct {
	Type      string                              `json:"type"`
	Responses map[WidgetType]*MWidgetDataResponse `json:"responses"`
	Timestamp int64                               `json:"timestamp"`
}

// -----------------------------------------------------------------------------

// MSubscribeCommand is the only client-to-server websocket message. An empty
// Types list subscribes to every built-in widget type.
type MSubscribeCommand struct {
	Command string   `json:"command"`
	Types   []string `json:"types"`
}
