package kernel

import (
	"context"
	"fmt"

	"github.com/deadsy/sdfx/render"
	"github.com/philipparndt/cupforge/pkg/stl"
)

// DefaultMeshCells is the number of marching-cubes cells along the longest
// side of a solid's bounding box.
const DefaultMeshCells = 200

// MeshOptions controls tessellation
type MeshOptions struct {
	// Cells is the mesh resolution; zero means DefaultMeshCells
	Cells int
}

// Mesh tessellates the solid into triangles using the kernel's octree
// marching-cubes renderer.
func (s *Solid) Mesh(ctx context.Context, opts MeshOptions) (*stl.Model, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cells := opts.Cells
	if cells == 0 {
		cells = DefaultMeshCells
	}
	if cells < 0 {
		return nil, fmt.Errorf("%w: mesh cells %d", ErrInvalidDimension, cells)
	}

	triangles := render.ToTriangles(s.sdf, render.NewMarchingCubesOctree(cells))
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(triangles) == 0 {
		return nil, ErrEmptyMesh
	}
	return stl.FromTriangles("", triangles), nil
}
