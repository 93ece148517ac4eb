package dashboard

import (
	"sync"
	"time"

	"dashboard-builder/src/helpers"
	"dashboard-builder/src/logger"
	"dashboard-builder/src/models"

	"github.com/google/uuid"
)

// -----------------------------------------------------------------------------
// Dashboard State Store
// -----------------------------------------------------------------------------

// Store is the single process-wide container for the active layout and every
// widget's transient fetch state. Mutators operate copy-on-write: the current
// layout pointer is swapped atomically under the lock, so a reader holding a
// snapshot never observes a partially-applied mutation.
type Store struct {
	mu           sync.RWMutex
	layout       *models.MDashboardLayout
	widgetStates map[string]models.MWidgetState
	Logger       *logger.Logger
}

// -----------------------------------------------------------------------------

func NewStore(log *logger.Logger) *Store {
	return &Store{
		widgetStates: make(map[string]models.MWidgetState),
		Logger:       log,
	}
}

// -----------------------------------------------------------------------------
// Layout Management
// -----------------------------------------------------------------------------

// NewLayout mints an empty layout with fresh ids and timestamps.
func NewLayout(name string) *models.MDashboardLayout {
	now := time.Now().UnixMilli()
	return &models.MDashboardLayout{
		ID:        uuid.NewString(),
		Name:      name,
		Widgets:   []models.MWidgetConfig{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// -----------------------------------------------------------------------------

// SetLayout replaces the active layout wholesale.
func (s *Store) SetLayout(layout *models.MDashboardLayout) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.layout = layout.Clone()
}

// -----------------------------------------------------------------------------

// GetLayout returns a snapshot of the active layout, or nil when none is set.
// The snapshot is a deep copy; callers may not mutate shared state through it.
func (s *Store) GetLayout() *models.MDashboardLayout {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.layout.Clone()
}

// -----------------------------------------------------------------------------

// AddWidget appends a widget to the active layout and marks its state as
// loading. Fails when no layout is active.
func (s *Store) AddWidget(widget models.MWidgetConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.layout == nil {
		return &helpers.DashboardError{Message: "no active layout"}
	}

	next := s.layout.Clone()
	next.Widgets = append(next.Widgets, widget)
	next.UpdatedAt = time.Now().UnixMilli()
	s.layout = next

	s.widgetStates[widget.ID] = models.MWidgetState{IsLoading: true}
	return nil
}

// -----------------------------------------------------------------------------

// RemoveWidget drops a widget from the layout and discards its transient
// state. Unknown ids are a no-op.
func (s *Store) RemoveWidget(widgetID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.layout == nil {
		return
	}

	next := s.layout.Clone()
	kept := next.Widgets[:0]
	for _, w := range next.Widgets {
		if w.ID != widgetID {
			kept = append(kept, w)
		}
	}
	next.Widgets = kept
	next.UpdatedAt = time.Now().UnixMilli()
	s.layout = next

	// State must go with the widget, otherwise the map grows without bound.
	delete(s.widgetStates, widgetID)
}

// -----------------------------------------------------------------------------

// UpdateWidgetPosition replaces one widget's position, leaving every other
// field and widget untouched, and bumps the layout's UpdatedAt.
func (s *Store) UpdateWidgetPosition(widgetID string, position models.MWidgetPosition) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.layout == nil {
		return
	}

	next := s.layout.Clone()
	for i := range next.Widgets {
		if next.Widgets[i].ID == widgetID {
			next.Widgets[i].Position = position
		}
	}
	next.UpdatedAt = time.Now().UnixMilli()
	s.layout = next
}

// -----------------------------------------------------------------------------

// GetWidget returns the config of one widget, or nil if absent.
func (s *Store) GetWidget(widgetID string) *models.MWidgetConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.layout == nil {
		return nil
	}
	for i := range s.layout.Widgets {
		if s.layout.Widgets[i].ID == widgetID {
			w := s.layout.Widgets[i]
			return &w
		}
	}
	return nil
}

// -----------------------------------------------------------------------------
// Widget Data Management
// -----------------------------------------------------------------------------

// SetWidgetData replaces the whole state record of one widget.
func (s *Store) SetWidgetData(widgetID string, state models.MWidgetState) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.widgetStates[widgetID] = state
}

// -----------------------------------------------------------------------------

// SetWidgetLoading updates only the loading flag, preserving error and data.
func (s *Store) SetWidgetLoading(widgetID string, isLoading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := s.widgetStates[widgetID]
	state.IsLoading = isLoading
	s.widgetStates[widgetID] = state
}

// -----------------------------------------------------------------------------

// SetWidgetError updates only the error message, preserving loading and data.
func (s *Store) SetWidgetError(widgetID string, errMsg string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := s.widgetStates[widgetID]
	state.Error = errMsg
	s.widgetStates[widgetID] = state
}

// -----------------------------------------------------------------------------

// GetWidgetState returns the widget's state, or the default zero state for
// ids never seen. Never faults.
func (s *Store) GetWidgetState(widgetID string) models.MWidgetState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state, ok := s.widgetStates[widgetID]
	if !ok {
		return models.DefaultWidgetState()
	}
	return state
}

// -----------------------------------------------------------------------------

// WidgetCount returns the number of widgets in the active layout.
func (s *Store) WidgetCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.layout == nil {
		return 0
	}
	return len(s.layout.Widgets)
}
