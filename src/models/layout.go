package models

// -----------------------------------------------------------------------------
// Dashboard Layout (unit of persistence)
// -----------------------------------------------------------------------------

// MDashboardLayout is the ordered collection of widgets plus metadata. Widget
// ids are unique within a layout. Every mutation bumps UpdatedAt.
type MDashboardLayout struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Widgets   []MWidgetConfig `json:"widgets"`
	CreatedAt int64           `json:"createdAt"` // unix ms
	UpdatedAt int64           `json:"updatedAt"` // unix ms
}

// -----------------------------------------------------------------------------

// Clone returns a deep copy of the layout so callers can hand out snapshots
// without exposing the internal widget slice.
func (l *MDashboardLayout) Clone() *MDashboardLayout {
	if l == nil {
		return nil
	}
	cp := *l
	cp.Widgets = make([]MWidgetConfig, len(l.Widgets))
	copy(cp.Widgets, l.Widgets)
	return &cp
}

// -----------------------------------------------------------------------------
// Persistence Records
// -----------------------------------------------------------------------------

// MStoredLayout is the durable record for one layout. Version is a monotonic
// counter incremented on every save of the same id.
type MStoredLayout struct {
	ID      string           `json:"id"`
	Name    string           `json:"name"`
	Data    MDashboardLayout `json:"data"`
	SavedAt int64            `json:"savedAt"` // unix ms
	Version int64            `json:"version"`
}

// -----------------------------------------------------------------------------

// MCacheEntry is one record of the durable widget-data cache. Entries are only
// ever evicted by TTL checks at read time.
type MCacheEntry struct {
	Key       string      `json:"key"`
	Value     interface{} `json:"value"`
	Timestamp int64       `json:"timestamp"` // unix ms
}
