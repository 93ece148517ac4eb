package registry

import (
	"sync"

	"dashboard-builder/src/models"
)

// -----------------------------------------------------------------------------
// Widget Registry
// -----------------------------------------------------------------------------

// MWidgetDefinition binds a widget type to a renderable component and its grid
// constraints. Component is an opaque handle; the registry knows nothing about
// rendering beyond associating the handle with its type.
type MWidgetDefinition struct {
	Component interface{}
	DataType  models.WidgetType
	MinWidth  int
	MinHeight int
}

// -----------------------------------------------------------------------------

// WidgetRegistry is a pure associative lookup from widget type to definition.
// Registration is an idempotent upsert: the last definition for a type wins.
type WidgetRegistry struct {
	mu      sync.RWMutex
	widgets map[models.WidgetType]MWidgetDefinition
}

// -----------------------------------------------------------------------------

func NewWidgetRegistry() *WidgetRegistry {
	return &WidgetRegistry{
		widgets: make(map[models.WidgetType]MWidgetDefinition),
	}
}

// -----------------------------------------------------------------------------

// Register adds or replaces the definition for a type.
func (r *WidgetRegistry) Register(t models.WidgetType, def MWidgetDefinition) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.widgets[t] = def
}

// -----------------------------------------------------------------------------

// GetComponent returns the registered component handle, or nil if the type is
// unknown.
func (r *WidgetRegistry) GetComponent(t models.WidgetType) interface{} {
	r.mu.RLock()
	defer r.mu.RUnlock()

	def, ok := r.widgets[t]
	if !ok {
		return nil
	}
	return def.Component
}

// -----------------------------------------------------------------------------

// GetDefinition returns the full definition, or nil if the type is unknown.
func (r *WidgetRegistry) GetDefinition(t models.WidgetType) *MWidgetDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	def, ok := r.widgets[t]
	if !ok {
		return nil
	}
	return &def
}

// -----------------------------------------------------------------------------

// IsRegistered checks whether a type has a definition.
func (r *WidgetRegistry) IsRegistered(t models.WidgetType) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.widgets[t]
	return ok
}

// -----------------------------------------------------------------------------

// GetAvailableTypes returns every registered type.
func (r *WidgetRegistry) GetAvailableTypes() []models.WidgetType {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]models.WidgetType, 0, len(r.widgets))
	for t := range r.widgets {
		types = append(types, t)
	}
	return types
}

// -----------------------------------------------------------------------------
// Built-in Registration
// -----------------------------------------------------------------------------

// RegisterBuiltins populates the registry with the four built-in chart types
// and their layout constraints. Called once at process start.
func RegisterBuiltins(r *WidgetRegistry) {
	r.Register(models.WidgetTypeBar, MWidgetDefinition{
		Component: "BarChart",
		DataType:  models.WidgetTypeBar,
		MinWidth:  3,
		MinHeight: 2,
	})
	r.Register(models.WidgetTypeLine, MWidgetDefinition{
		Component: "LineChart",
		DataType:  models.WidgetTypeLine,
		MinWidth:  3,
		MinHeight: 2,
	})
	r.Register(models.WidgetTypeTreemap, MWidgetDefinition{
		Component: "TreemapChart",
		DataType:  models.WidgetTypeTreemap,
		MinWidth:  4,
		MinHeight: 3,
	})
	r.Register(models.WidgetTypeScatter, MWidgetDefinition{
		Component: "ScatterChart",
		DataType:  models.WidgetTypeScatter,
		MinWidth:  3,
		MinHeight: 2,
	})
}
