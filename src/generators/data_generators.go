package generators

import (
	"fmt"
	"math/rand"
	"time"

	"dashboard-builder/src/models"
)

// Synthetic data generators, one per widget type. Magnitudes are random but
// the shape of every result is deterministic and conforms to the variant's
// schema. The seed perturbs values so repeated calls look different.

// -----------------------------------------------------------------------------
// Defaults
// -----------------------------------------------------------------------------

const (
	DefaultLinePoints    = 12
	DefaultScatterPoints = 50
)

var barCategories = []string{"Q1", "Q2", "Q3", "Q4"}

// -----------------------------------------------------------------------------
// Dispatch
// -----------------------------------------------------------------------------

// GeneratorFunc produces one chart data variant from an integer seed.
type GeneratorFunc func(seed int) interface{}

// -----------------------------------------------------------------------------

// Registry maps widget types to generators. Point counts for line and scatter
// data are fixed at construction.
type Registry struct {
	generators map[models.WidgetType]GeneratorFunc
}

// -----------------------------------------------------------------------------

// NewRegistry builds the dispatch table for all built-in types.
func NewRegistry(cfg *models.MGeneratorConfig) *Registry {
	linePoints := DefaultLinePoints
	scatterPoints := DefaultScatterPoints
	if cfg != nil {
		if cfg.LinePoints > 0 {
			linePoints = cfg.LinePoints
		}
		if cfg.ScatterPoints > 0 {
			scatterPoints = cfg.ScatterPoints
		}
	}

	return &Registry{
		generators: map[models.WidgetType]GeneratorFunc{
			models.WidgetTypeBar: GenerateBarData,
			models.WidgetTypeLine: func(seed int) interface{} {
				return GenerateLineData(linePoints, seed)
			},
			models.WidgetTypeTreemap: GenerateTreemapData,
			models.WidgetTypeScatter: func(seed int) interface{} {
				return GenerateScatterData(scatterPoints, seed)
			},
		},
	}
}

// -----------------------------------------------------------------------------

// Get returns the generator for a widget type. An unrecognized type yields
// (nil, false), never a panic.
func (r *Registry) Get(t models.WidgetType) (GeneratorFunc, bool) {
	g, ok := r.generators[t]
	return g, ok
}

// -----------------------------------------------------------------------------
// Generators
// -----------------------------------------------------------------------------

// GenerateBarData produces one value per fixed quarterly category.
func GenerateBarData(seed int) interface{} {
	points := make([]models.MBarPoint, 0, len(barCategories))
	for i, label := range barCategories {
		points = append(points, models.MBarPoint{
			Label: label,
			Value: float64(rand.Intn(100) + 20 + seed + i*10),
		})
	}
	return points
}

// -----------------------------------------------------------------------------

// GenerateLineData produces a series of hourly samples ending at the current
// time, timestamps strictly increasing.
func GenerateLineData(points int, seed int) interface{} {
	now := time.Now().UnixMilli()
	data := make([]models.MLinePoint, 0, points)

	for i := 0; i < points; i++ {
		ts := now - int64(points-i)*time.Hour.Milliseconds()
		data = append(data, models.MLinePoint{
			Timestamp: ts,
			Value:     float64(rand.Intn(50) + 40 + seed),
			Label:     fmt.Sprintf("Hour %d", i),
		})
	}

	return data
}

// -----------------------------------------------------------------------------

// GenerateTreemapData produces a fixed two-level hierarchy with leaf values
// offset by the seed.
func GenerateTreemapData(seed int) interface{} {
	s := float64(seed)
	return &models.MTreemapNode{
		Name: "Analytics",
		Children: []models.MTreemapNode{
			{
				Name: "Frontend",
				Children: []models.MTreemapNode{
					{Name: "React", Value: 35 + s},
					{Name: "Vue", Value: 25 + s},
					{Name: "Angular", Value: 20 + s},
				},
			},
			{
				Name: "Backend",
				Children: []models.MTreemapNode{
					{Name: "Node.js", Value: 40 + s},
					{Name: "Python", Value: 30 + s},
					{Name: "Java", Value: 15 + s},
				},
			},
		},
	}
}

// -----------------------------------------------------------------------------

// GenerateScatterData produces independent uniform-random samples in
// [seed, seed+100).
func GenerateScatterData(points int, seed int) interface{} {
	data := make([]models.MScatterPoint, 0, points)
	for i := 0; i < points; i++ {
		data = append(data, models.MScatterPoint{
			X:     rand.Float64()*100 + float64(seed),
			Y:     rand.Float64()*100 + float64(seed),
			Label: fmt.Sprintf("Point %d", i),
		})
	}
	return data
}
