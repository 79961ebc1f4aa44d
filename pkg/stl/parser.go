package stl

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	"github.com/philipparndt/cupforge/pkg/geometry"
)

// Parse reads an ASCII or binary STL file. Binary files are recognised by
// their size, so headers starting with "solid" are handled too. The model is
// named after the file.
func Parse(filename string) (*Model, error) {
	triangles, err := render.LoadSTL(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read STL %s: %w", filename, err)
	}
	name := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	return FromTriangles(name, triangles), nil
}

// FromTriangles builds a model from a kernel triangle mesh. Normals are
// derived from the winding order.
func FromTriangles(name string, triangles []*sdf.Triangle3) *Model {
	model := &Model{
		Name:      name,
		Triangles: make([]geometry.Triangle, 0, len(triangles)),
	}
	for _, t := range triangles {
		if t == nil {
			continue
		}
		tri := geometry.Triangle{
			V1: geometry.FromVec(t[0]),
			V2: geometry.FromVec(t[1]),
			V3: geometry.FromVec(t[2]),
		}
		tri.Normal = tri.CalculateNormal()
		model.AddTriangle(tri)
	}
	return model
}
