package schemas

import (
	"encoding/json"
	"fmt"

	"dashboard-builder/src/helpers"
	"dashboard-builder/src/models"
)

// -----------------------------------------------------------------------------
// Envelope Decoding (client path)
// -----------------------------------------------------------------------------

// DecodeEnvelope parses raw JSON into a typed envelope. The generic form is
// validated against the schema for the declared type before the data is
// decoded into its concrete variant, so a payload whose shape does not match
// its own type tag is rejected rather than silently zero-filled.
func DecodeEnvelope(raw []byte) (*models.MWidgetDataResponse, error) {
	var wire struct {
		Type      string          `json:"type"`
		Data      json.RawMessage `json:"data"`
		Timestamp int64           `json:"timestamp"`
	}
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, &helpers.ValidationError{DashboardError: helpers.DashboardError{Message: "envelope is not valid JSON", Cause: err}}
	}
	if !models.IsValidWidgetType(wire.Type) {
		return nil, newValidationError(fmt.Sprintf("envelope has unknown type '%s'", wire.Type), nil)
	}

	var genericData interface{}
	if err := json.Unmarshal(wire.Data, &genericData); err != nil {
		return nil, &helpers.ValidationError{DashboardError: helpers.DashboardError{Message: "envelope data is not valid JSON", Cause: err}}
	}

	resp := &models.MWidgetDataResponse{
		Type:      models.WidgetType(wire.Type),
		Data:      genericData,
		Timestamp: wire.Timestamp,
	}
	if err := ValidateEnvelope(resp); err != nil {
		return nil, err
	}

	// Shape is known good, re-decode into the concrete variant.
	switch resp.Type {
	case models.WidgetTypeBar:
		var points []models.MBarPoint
		if err := json.Unmarshal(wire.Data, &points); err != nil {
			return nil, newValidationError("bar data decode failed", err)
		}
		resp.Data = points
	case models.WidgetTypeLine:
		var points []models.MLinePoint
		if err := json.Unmarshal(wire.Data, &points); err != nil {
			return nil, newValidationError("line data decode failed", err)
		}
		resp.Data = points
	case models.WidgetTypeTreemap:
		var root models.MTreemapNode
		if err := json.Unmarshal(wire.Data, &root); err != nil {
			return nil, newValidationError("treemap data decode failed", err)
		}
		resp.Data = &root
	case models.WidgetTypeScatter:
		var points []models.MScatterPoint
		if err := json.Unmarshal(wire.Data, &points); err != nil {
			return nil, newValidationError("scatter data decode failed", err)
		}
		resp.Data = points
	}

	return resp, nil
}
