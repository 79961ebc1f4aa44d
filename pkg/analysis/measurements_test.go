package analysis

import (
	"testing"

	"github.com/philipparndt/cupforge/pkg/geometry"
	"github.com/philipparndt/cupforge/pkg/stl"
	"github.com/stretchr/testify/assert"
)

func TestAnalyzeModel(t *testing.T) {
	v := geometry.NewVector3
	m := stl.NewModel("tetra")
	m.AddTriangle(geometry.NewTriangle(v(0, 0, -1), v(0, 0, 0), v(0, 1, 0), v(1, 0, 0)))
	m.AddTriangle(geometry.NewTriangle(v(0, -1, 0), v(0, 0, 0), v(1, 0, 0), v(0, 0, 1)))
	m.AddTriangle(geometry.NewTriangle(v(-1, 0, 0), v(0, 0, 0), v(0, 0, 1), v(0, 1, 0)))
	m.AddTriangle(geometry.NewTriangle(v(1, 1, 1), v(1, 0, 0), v(0, 1, 0), v(0, 0, 1)))
	m.AddTriangle(geometry.NewTriangle(v(0, 0, 1), v(0, 0, 0), v(0, 0, 0), v(0, 0, 0)))

	result := AnalyzeModel(m)

	assert.Equal(t, 5, result.TriangleCount)
	assert.Equal(t, 1, result.DegenerateTris)
	assert.Equal(t, 15, result.EdgeCount)
	assert.InDelta(t, 1.0/6.0, result.Volume, 1e-12)
	assert.InDelta(t, 1.0, result.BoxVolume, 1e-12)
	assert.Equal(t, v(1, 1, 1), result.Dimensions)
	assert.InDelta(t, 0.0, result.MinEdgeLength, 1e-12)
	assert.InDelta(t, 1.4142135623, result.MaxEdgeLength, 1e-9)
}

func TestAnalyzeEmptyModel(t *testing.T) {
	result := AnalyzeModel(stl.NewModel("empty"))

	assert.Equal(t, 0, result.TriangleCount)
	assert.Equal(t, 0.0, result.MinEdgeLength)
	assert.Equal(t, geometry.Vector3{}, result.Dimensions)
}

func TestFormatVector(t *testing.T) {
	assert.Equal(t, "(1.000000, -2.500000, 0.000000)", FormatVector(geometry.NewVector3(1, -2.5, 0)))
	assert.Equal(t, "2.000000 mm", FormatMeasurement(2, "mm"))
	assert.Equal(t, "2.000000 units", FormatMeasurement(2, ""))
}
