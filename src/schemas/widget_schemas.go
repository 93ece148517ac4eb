package schemas

import (
	"fmt"

	"dashboard-builder/src/helpers"
	"dashboard-builder/src/models"
)

// Structural validators for each chart data variant and for the envelope
// wrapping them. Validation is non-strict: unknown extra fields are permitted,
// required fields must be present with the correct primitive type.
//
// Each validator accepts either the typed model values produced by the
// generators or the generic map/slice form produced by decoding JSON, so the
// same contract guards both the server's generation path and the client's
// network path.

// -----------------------------------------------------------------------------
// Validator Dispatch
// -----------------------------------------------------------------------------

// ValidatorFunc checks one chart data variant.
type ValidatorFunc func(data interface{}) error

var validators = map[models.WidgetType]ValidatorFunc{
	models.WidgetTypeBar:     ValidateBarData,
	models.WidgetTypeLine:    ValidateLineData,
	models.WidgetTypeTreemap: ValidateTreemapData,
	models.WidgetTypeScatter: ValidateScatterData,
}

// -----------------------------------------------------------------------------

// ValidatorFor returns the validator registered for a widget type.
func ValidatorFor(t models.WidgetType) (ValidatorFunc, bool) {
	v, ok := validators[t]
	return v, ok
}

// -----------------------------------------------------------------------------

// ValidateEnvelope checks the full response wrapper. The data shape must match
// the schema registered for the envelope's type, not just any known variant.
func ValidateEnvelope(resp *models.MWidgetDataResponse) error {
	if resp == nil {
		return newValidationError("envelope is nil", nil)
	}
	if !models.IsValidWidgetType(string(resp.Type)) {
		return newValidationError(fmt.Sprintf("envelope has unknown type '%s'", resp.Type), nil)
	}
	if resp.Timestamp <= 0 {
		return newValidationError("envelope timestamp must be positive", nil)
	}

	validate := validators[resp.Type]
	if err := validate(resp.Data); err != nil {
		return newValidationError(fmt.Sprintf("data does not match schema for type '%s'", resp.Type), err)
	}
	return nil
}

// -----------------------------------------------------------------------------
// Bar
// -----------------------------------------------------------------------------

// ValidateBarData checks an ordered sequence of {label, value} entries.
func ValidateBarData(data interface{}) error {
	switch v := data.(type) {
	case []models.MBarPoint:
		for i, p := range v {
			if p.Label == "" {
				return newValidationError(fmt.Sprintf("bar entry %d missing label", i), nil)
			}
		}
		return nil
	case []interface{}:
		for i, item := range v {
			entry, ok := item.(map[string]interface{})
			if !ok {
				return newValidationError(fmt.Sprintf("bar entry %d is not an object", i), nil)
			}
			if err := requireString(entry, "label"); err != nil {
				return newValidationError(fmt.Sprintf("bar entry %d", i), err)
			}
			if err := requireNumber(entry, "value"); err != nil {
				return newValidationError(fmt.Sprintf("bar entry %d", i), err)
			}
		}
		return nil
	default:
		return newValidationError(fmt.Sprintf("bar data must be a sequence, got %T", data), nil)
	}
}

// -----------------------------------------------------------------------------
// Line
// -----------------------------------------------------------------------------

// ValidateLineData checks a sequence of {timestamp, value, label?} samples.
// Timestamps are accepted as numbers or strings.
func ValidateLineData(data interface{}) error {
	switch v := data.(type) {
	case []models.MLinePoint:
		for i, p := range v {
			if !isNumberOrString(p.Timestamp) {
				return newValidationError(fmt.Sprintf("line entry %d timestamp must be a number or string", i), nil)
			}
		}
		return nil
	case []interface{}:
		for i, item := range v {
			entry, ok := item.(map[string]interface{})
			if !ok {
				return newValidationError(fmt.Sprintf("line entry %d is not an object", i), nil)
			}
			ts, present := entry["timestamp"]
			if !present || !isNumberOrString(ts) {
				return newValidationError(fmt.Sprintf("line entry %d timestamp must be a number or string", i), nil)
			}
			if err := requireNumber(entry, "value"); err != nil {
				return newValidationError(fmt.Sprintf("line entry %d", i), err)
			}
			if err := optionalString(entry, "label"); err != nil {
				return newValidationError(fmt.Sprintf("line entry %d", i), err)
			}
		}
		return nil
	default:
		return newValidationError(fmt.Sprintf("line data must be a sequence, got %T", data), nil)
	}
}

// -----------------------------------------------------------------------------
// Treemap
// -----------------------------------------------------------------------------

// ValidateTreemapData checks a single recursive root node. Every node, root or
// nested, must carry a name; value and children are optional. Terminates on
// any finite tree.
func ValidateTreemapData(data interface{}) error {
	switch v := data.(type) {
	case *models.MTreemapNode:
		if v == nil {
			return newValidationError("treemap root is nil", nil)
		}
		return validateTypedNode(v, "root")
	case models.MTreemapNode:
		return validateTypedNode(&v, "root")
	case map[string]interface{}:
		return validateGenericNode(v, "root")
	default:
		return newValidationError(fmt.Sprintf("treemap data must be a single node object, got %T", data), nil)
	}
}

// -----------------------------------------------------------------------------

func validateTypedNode(node *models.MTreemapNode, path string) error {
	if node.Name == "" {
		return newValidationError(fmt.Sprintf("treemap node at %s missing name", path), nil)
	}
	for i := range node.Children {
		child := path + fmt.Sprintf(".children[%d]", i)
		if err := validateTypedNode(&node.Children[i], child); err != nil {
			return err
		}
	}
	return nil
}

// -----------------------------------------------------------------------------

func validateGenericNode(node map[string]interface{}, path string) error {
	if err := requireString(node, "name"); err != nil {
		return newValidationError(fmt.Sprintf("treemap node at %s", path), err)
	}
	if raw, present := node["value"]; present && !isNumber(raw) {
		return newValidationError(fmt.Sprintf("treemap node at %s value must be a number", path), nil)
	}

	raw, present := node["children"]
	if !present {
		return nil
	}
	children, ok := raw.([]interface{})
	if !ok {
		return newValidationError(fmt.Sprintf("treemap node at %s children must be a sequence", path), nil)
	}
	for i, item := range children {
		childPath := path + fmt.Sprintf(".children[%d]", i)
		child, ok := item.(map[string]interface{})
		if !ok {
			return newValidationError(fmt.Sprintf("treemap node at %s is not an object", childPath), nil)
		}
		if err := validateGenericNode(child, childPath); err != nil {
			return err
		}
	}
	return nil
}

// -----------------------------------------------------------------------------
// Scatter
// -----------------------------------------------------------------------------

// ValidateScatterData checks a sequence of {x, y, label?} samples.
func ValidateScatterData(data interface{}) error {
	switch v := data.(type) {
	case []models.MScatterPoint:
		return nil
	case []interface{}:
		for i, item := range v {
			entry, ok := item.(map[string]interface{})
			if !ok {
				return newValidationError(fmt.Sprintf("scatter entry %d is not an object", i), nil)
			}
			if err := requireNumber(entry, "x"); err != nil {
				return newValidationError(fmt.Sprintf("scatter entry %d", i), err)
			}
			if err := requireNumber(entry, "y"); err != nil {
				return newValidationError(fmt.Sprintf("scatter entry %d", i), err)
			}
			if err := optionalString(entry, "label"); err != nil {
				return newValidationError(fmt.Sprintf("scatter entry %d", i), err)
			}
		}
		return nil
	default:
		return newValidationError(fmt.Sprintf("scatter data must be a sequence, got %T", data), nil)
	}
}

// -----------------------------------------------------------------------------
// Field Helpers
// -----------------------------------------------------------------------------

func newValidationError(msg string, cause error) error {
	return &helpers.ValidationError{DashboardError: helpers.DashboardError{Message: msg, Cause: cause}}
}

// -----------------------------------------------------------------------------

func requireString(entry map[string]interface{}, key string) error {
	raw, present := entry[key]
	if !present {
		return fmt.Errorf("missing %s", key)
	}
	if _, ok := raw.(string); !ok {
		return fmt.Errorf("%s must be a string", key)
	}
	return nil
}

// -----------------------------------------------------------------------------

func optionalString(entry map[string]interface{}, key string) error {
	raw, present := entry[key]
	if !present {
		return nil
	}
	if _, ok := raw.(string); !ok {
		return fmt.Errorf("%s must be a string", key)
	}
	return nil
}

// -----------------------------------------------------------------------------

func requireNumber(entry map[string]interface{}, key string) error {
	raw, present := entry[key]
	if !present {
		return fmt.Errorf("missing %s", key)
	}
	if !isNumber(raw) {
		return fmt.Errorf("%s must be a number", key)
	}
	return nil
}

// -----------------------------------------------------------------------------

func isNumber(v interface{}) bool {
	switch v.(type) {
	case float64, float32, int, int32, int64:
		return true
	}
	return false
}

// -----------------------------------------------------------------------------

func isNumberOrString(v interface{}) bool {
	if _, ok := v.(string); ok {
		return true
	}
	return isNumber(v)
}
