package dashboard

import (
	"testing"

	"dashboard-builder/src/logger"
	"dashboard-builder/src/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// -----------------------------------------------------------------------------

func newTestStore() *Store {
	return NewStore(logger.NewLogger("ERROR", "test"))
}

func lineWidget(id string) models.MWidgetConfig {
	return models.MWidgetConfig{
		ID:         id,
		Type:       models.WidgetTypeLine,
		Title:      "line chart",
		DataSource: "line",
		Position:   models.MWidgetPosition{X: 0, Y: 0, W: 6, H: 3},
	}
}

// -----------------------------------------------------------------------------

func TestAddWidgetToEmptyLayout(t *testing.T) {
	s := newTestStore()
	s.SetLayout(NewLayout("Test"))

	require.NoError(t, s.AddWidget(lineWidget("w9")))

	layout := s.GetLayout()
	require.Len(t, layout.Widgets, 1)
	assert.Equal(t, "w9", layout.Widgets[0].ID)

	state := s.GetWidgetState("w9")
	assert.True(t, state.IsLoading)
}

// -----------------------------------------------------------------------------

func TestAddWidgetWithoutLayoutFails(t *testing.T) {
	s := newTestStore()

	err := s.AddWidget(lineWidget("w1"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no active layout")
}

// -----------------------------------------------------------------------------

func TestRemoveWidgetResetsState(t *testing.T) {
	s := newTestStore()
	s.SetLayout(NewLayout("Test"))
	require.NoError(t, s.AddWidget(lineWidget("w1")))

	s.SetWidgetData("w1", models.MWidgetState{Data: "payload"})
	s.RemoveWidget("w1")

	assert.Equal(t, 0, s.WidgetCount())
	assert.Equal(t, models.DefaultWidgetState(), s.GetWidgetState("w1"))
}

// -----------------------------------------------------------------------------

func TestGetWidgetStateUnknownIDDefaults(t *testing.T) {
	s := newTestStore()

	state := s.GetWidgetState("never-seen")
	assert.False(t, state.IsLoading)
	assert.Empty(t, state.Error)
	assert.Nil(t, state.Data)
}

// -----------------------------------------------------------------------------

func TestUpdateWidgetPosition(t *testing.T) {
	s := newTestStore()
	s.SetLayout(NewLayout("Test"))
	require.NoError(t, s.AddWidget(lineWidget("w1")))

	before := s.GetLayout()

	s.UpdateWidgetPosition("w1", models.MWidgetPosition{X: 4, Y: 2, W: 6, H: 3})

	after := s.GetLayout()
	assert.Equal(t, 4, after.Widgets[0].Position.X)
	assert.Equal(t, 2, after.Widgets[0].Position.Y)
	// Everything but the position survives untouched
	assert.Equal(t, before.Widgets[0].Title, after.Widgets[0].Title)
	assert.Equal(t, before.Widgets[0].DataSource, after.Widgets[0].DataSource)
}

// -----------------------------------------------------------------------------

func TestPartialStateMerges(t *testing.T) {
	s := newTestStore()

	s.SetWidgetData("w1", models.MWidgetState{IsLoading: true, Data: "payload"})

	s.SetWidgetError("w1", "fetch failed")
	state := s.GetWidgetState("w1")
	assert.True(t, state.IsLoading, "error update must preserve loading flag")
	assert.Equal(t, "payload", state.Data, "error update must preserve data")
	assert.Equal(t, "fetch failed", state.Error)

	s.SetWidgetLoading("w1", false)
	state = s.GetWidgetState("w1")
	assert.False(t, state.IsLoading)
	assert.Equal(t, "fetch failed", state.Error, "loading update must preserve error")
}

// -----------------------------------------------------------------------------

func TestLayoutSnapshotsAreIsolated(t *testing.T) {
	s := newTestStore()
	s.SetLayout(NewLayout("Test"))
	require.NoError(t, s.AddWidget(lineWidget("w1")))

	snapshot := s.GetLayout()
	snapshot.Widgets[0].Title = "mutated"

	assert.Equal(t, "line chart", s.GetLayout().Widgets[0].Title)
}

// -----------------------------------------------------------------------------

func TestGetWidget(t *testing.T) {
	s := newTestStore()
	s.SetLayout(NewLayout("Test"))
	require.NoError(t, s.AddWidget(lineWidget("w1")))

	w := s.GetWidget("w1")
	require.NotNil(t, w)
	assert.Equal(t, models.WidgetTypeLine, w.Type)

	assert.Nil(t, s.GetWidget("missing"))
}
