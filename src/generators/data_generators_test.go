package generators

import (
	"fmt"
	"testing"

	"dashboard-builder/src/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// -----------------------------------------------------------------------------

func TestRegistryDispatch(t *testing.T) {
	reg := NewRegistry(nil)

	for _, typ := range models.AllWidgetTypes() {
		g, ok := reg.Get(typ)
		require.True(t, ok, "generator missing for %s", typ)
		require.NotNil(t, g)
		assert.NotNil(t, g(0))
	}

	_, ok := reg.Get("gauge")
	assert.False(t, ok)
}

// -----------------------------------------------------------------------------

func TestRegistryHonorsConfiguredPointCounts(t *testing.T) {
	reg := NewRegistry(&models.MGeneratorConfig{LinePoints: 5, ScatterPoints: 7})

	lineGen, _ := reg.Get(models.WidgetTypeLine)
	line := lineGen(0).([]models.MLinePoint)
	assert.Len(t, line, 5)

	scatterGen, _ := reg.Get(models.WidgetTypeScatter)
	scatter := scatterGen(0).([]models.MScatterPoint)
	assert.Len(t, scatter, 7)
}

// -----------------------------------------------------------------------------

func TestGenerateBarData(t *testing.T) {
	seed := 100
	points := GenerateBarData(seed).([]models.MBarPoint)

	require.Len(t, points, 4)
	for i, p := range points {
		assert.Equal(t, fmt.Sprintf("Q%d", i+1), p.Label)
		// rand in [0,100), offsets 20 + seed + i*10
		assert.GreaterOrEqual(t, p.Value, float64(20+seed+i*10))
		assert.Less(t, p.Value, float64(120+seed+i*10))
	}
}

// -----------------------------------------------------------------------------

func TestGenerateLineData(t *testing.T) {
	seed := 50
	points := GenerateLineData(12, seed).([]models.MLinePoint)

	require.Len(t, points, 12)

	var prev int64
	for i, p := range points {
		ts, ok := p.Timestamp.(int64)
		require.True(t, ok, "timestamp should be numeric on the server path")
		if i > 0 {
			assert.Greater(t, ts, prev, "timestamps must be strictly increasing")
			assert.Equal(t, int64(3600000), ts-prev, "samples are hourly")
		}
		prev = ts

		assert.Equal(t, fmt.Sprintf("Hour %d", i), p.Label)
		assert.GreaterOrEqual(t, p.Value, float64(40+seed))
		assert.Less(t, p.Value, float64(90+seed))
	}
}

// -----------------------------------------------------------------------------

func TestGenerateTreemapData(t *testing.T) {
	seed := 10
	root := GenerateTreemapData(seed).(*models.MTreemapNode)

	assert.Equal(t, "Analytics", root.Name)
	require.Len(t, root.Children, 2)

	frontend := root.Children[0]
	assert.Equal(t, "Frontend", frontend.Name)
	require.Len(t, frontend.Children, 3)
	assert.Equal(t, "React", frontend.Children[0].Name)
	assert.Equal(t, float64(35+seed), frontend.Children[0].Value)

	backend := root.Children[1]
	assert.Equal(t, "Backend", backend.Name)
	require.Len(t, backend.Children, 3)
	assert.Equal(t, "Node.js", backend.Children[0].Name)
	assert.Equal(t, float64(40+seed), backend.Children[0].Value)
}

// -----------------------------------------------------------------------------

func TestGenerateScatterData(t *testing.T) {
	seed := 200
	points := GenerateScatterData(50, seed).([]models.MScatterPoint)

	require.Len(t, points, 50)
	for i, p := range points {
		assert.GreaterOrEqual(t, p.X, float64(seed))
		assert.Less(t, p.X, float64(seed+100))
		assert.GreaterOrEqual(t, p.Y, float64(seed))
		assert.Less(t, p.Y, float64(seed+100))
		assert.Equal(t, fmt.Sprintf("Point %d", i), p.Label)
	}
}
