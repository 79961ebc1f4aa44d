package analysis

import (
	"fmt"
	"math"

	"github.com/philipparndt/cupforge/pkg/geometry"
	"github.com/philipparndt/cupforge/pkg/stl"
)

// MeasurementResult contains various measurements of a mesh
type MeasurementResult struct {
	BoundingBox    geometry.BoundingBox
	Dimensions     geometry.Vector3
	Volume         float64
	BoxVolume      float64
	SurfaceArea    float64
	TriangleCount  int
	DegenerateTris int
	EdgeCount      int
	MinEdgeLength  float64
	MaxEdgeLength  float64
	AvgEdgeLength  float64
}

// degenerateArea is the area under which a triangle counts as degenerate
const degenerateArea = 1e-12

// AnalyzeModel performs comprehensive analysis on a mesh
func AnalyzeModel(model *stl.Model) *MeasurementResult {
	result := &MeasurementResult{
		BoundingBox:   model.BoundingBox(),
		SurfaceArea:   model.SurfaceArea(),
		Volume:        model.Volume(),
		TriangleCount: model.TriangleCount(),
	}

	if !result.BoundingBox.Empty() {
		result.Dimensions = result.BoundingBox.Size()
		result.BoxVolume = result.BoundingBox.Volume()
	}

	minLength := math.MaxFloat64
	maxLength := 0.0
	totalLength := 0.0

	for _, triangle := range model.Triangles {
		if triangle.Degenerate(degenerateArea) {
			result.DegenerateTris++
		}
		for _, length := range triangle.EdgeLengths() {
			result.EdgeCount++
			totalLength += length
			minLength = math.Min(minLength, length)
			maxLength = math.Max(maxLength, length)
		}
	}

	if result.EdgeCount > 0 {
		result.MinEdgeLength = minLength
		result.MaxEdgeLength = maxLength
		result.AvgEdgeLength = totalLength / float64(result.EdgeCount)
	}

	return result
}

// FormatMeasurement formats a measurement with appropriate units
func FormatMeasurement(value float64, unit string) string {
	if unit == "" {
		unit = "units"
	}
	return fmt.Sprintf("%.6f %s", value, unit)
}

// FormatVector formats a 3D vector
func FormatVector(v geometry.Vector3) string {
	return fmt.Sprintf("(%.6f, %.6f, %.6f)", v.X, v.Y, v.Z)
}
