package models

// -----------------------------------------------------------------------------
// Per-Widget Transient State
// -----------------------------------------------------------------------------

// MWidgetState is the transient fetch state of one widget. The zero value is
// the default state: not loading, no error, no data.
type MWidgetState struct {
	IsLoading bool        `json:"isLoading"`
	Error     string      `json:"error"` // empty string means no error
	Data      interface{} `json:"data"`
}

// -----------------------------------------------------------------------------

// DefaultWidgetState returns the state reported for widgets that were never
// fetched (or were removed).
func DefaultWidgetState() MWidgetState {
	return MWidgetState{}
}
