package kernel

import (
	"github.com/deadsy/sdfx/sdf"
	"github.com/philipparndt/cupforge/pkg/openscad"
)

// Cut subtracts tool from s
func Cut(s, tool *Solid) *Solid {
	result := sdf.Difference3D(s.sdf, tool.sdf)
	return newSolid(result, survivingEdges(result, s, tool),
		openscad.Difference{Base: s.csg, Tool: tool.csg})
}

// Fuse merges two solids into one
func Fuse(a, b *Solid) *Solid {
	result := sdf.Union3D(a.sdf, b.sdf)
	return newSolid(result, survivingEdges(result, a, b),
		openscad.Union{Children: []openscad.Node{a.csg, b.csg}})
}
