package models

// -----------------------------------------------------------------------------
// Widget Types (Closed Set)
// -----------------------------------------------------------------------------

// WidgetType tags the supported chart kinds. Adding a member requires updating
// the generator dispatch, the schema validators and the registry together.
type WidgetType string

const (
	WidgetTypeBar     WidgetType = "bar"
	WidgetTypeLine    WidgetType = "line"
	WidgetTypeTreemap WidgetType = "treemap"
	WidgetTypeScatter WidgetType = "scatter"
)

// -----------------------------------------------------------------------------

// AllWidgetTypes returns the closed set of built-in widget types.
func AllWidgetTypes() []WidgetType {
	return []WidgetType{WidgetTypeBar, WidgetTypeLine, WidgetTypeTreemap, WidgetTypeScatter}
}

// -----------------------------------------------------------------------------

// IsValidWidgetType reports whether s names one of the built-in types.
func IsValidWidgetType(s string) bool {
	switch WidgetType(s) {
	case WidgetTypeBar, WidgetTypeLine, WidgetTypeTreemap, WidgetTypeScatter:
		return true
	}
	return false
}

// -----------------------------------------------------------------------------
// Widget Configuration
// -----------------------------------------------------------------------------

// MWidgetPosition is the grid placement of one widget.
type MWidgetPosition struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

// -----------------------------------------------------------------------------

// MWidgetConfig describes one chart instance placed on the dashboard grid.
// DataSource is the key into the remote data endpoint namespace; it usually
// equals Type but the coupling is by convention only.
type MWidgetConfig struct {
	ID              string          `json:"id"`
	Type            WidgetType      `json:"type"`
	Title           string          `json:"title"`
	DataSource      string          `json:"dataSource"`
	Position        MWidgetPosition `json:"position"`
	RefreshInterval int64           `json:"refreshInterval,omitempty"` // ms, 0 = no auto refresh
}

// -----------------------------------------------------------------------------
// Widget Data Envelope
// -----------------------------------------------------------------------------

// MWidgetDataResponse wraps generated chart data. Data holds the variant
// matching Type: []MBarPoint, []MLinePoint, *MTreemapNode or []MScatterPoint
// on the server path, or the decoded-JSON equivalent on the client path.
type MWidgetDataResponse struct {
	Type      WidgetType  `json:"type"`
	Data      interface{} `json:"data"`
	Timestamp int64       `json:"timestamp"` // unix ms
}
