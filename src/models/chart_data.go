package models

// -----------------------------------------------------------------------------
// Chart Data Variants (one per WidgetType)
// -----------------------------------------------------------------------------

// MBarPoint is one category entry of a bar chart.
type MBarPoint struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// -----------------------------------------------------------------------------

// MLinePoint is one sample of a time series. Timestamp carries either an
// int64 unix-ms value or a string, both are accepted on the wire.
type MLinePoint struct {
	Timestamp interface{} `json:"timestamp"`
	Value     float64     `json:"value"`
	Label     string      `json:"label,omitempty"`
}

// -----------------------------------------------------------------------------

// MTreemapNode is a node of the hierarchical treemap structure. Leaves carry a
// Value, inner nodes carry Children. Depth is unbounded but finite.
type MTreemapNode struct {
	Name     string         `json:"name"`
	Value    float64        `json:"value,omitempty"`
	Children []MTreemapNode `json:"children,omitempty"`
}

// -----------------------------------------------------------------------------

// MScatterPoint is one x/y sample of a scatter plot.
type MScatterPoint struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Label string  `json:"label,omitempty"`
}
