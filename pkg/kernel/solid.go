// Package kernel is a small solid-modelling layer over the sdfx
// signed-distance kernel. Solids are opaque handles: an SDF plus the analytic
// edges that lie on its boundary, which is what the fillet builder needs to
// round corners after boolean operations.
package kernel

import (
	"fmt"

	"github.com/deadsy/sdfx/sdf"
	"github.com/philipparndt/cupforge/pkg/geometry"
	"github.com/philipparndt/cupforge/pkg/openscad"
)

// boundaryTol is the distance under which a sampled point counts as lying on
// a solid's surface.
const boundaryTol = 1e-6

// edgeSamples is the number of points used to test circular edges
const edgeSamples = 12

// Edge is a circular boundary edge of a solid
type Edge struct {
	Curve geometry.Circle
	Label string
}

func (e Edge) String() string {
	if e.Label == "" {
		return e.Curve.String()
	}
	return fmt.Sprintf("%s %s", e.Label, e.Curve)
}

// Solid is a handle to a closed shape held by the kernel
type Solid struct {
	sdf   sdf.SDF3
	edges []Edge
	csg   openscad.Node
}

func newSolid(s sdf.SDF3, edges []Edge, csg openscad.Node) *Solid {
	return &Solid{sdf: s, edges: edges, csg: csg}
}

// CSG returns the construction history of the solid as an OpenSCAD tree
func (s *Solid) CSG() openscad.Node {
	return s.csg
}

// Evaluate returns the signed distance from p to the surface: negative inside,
// positive outside.
func (s *Solid) Evaluate(p geometry.Vector3) float64 {
	return s.sdf.Evaluate(p.Vec())
}

// Contains reports whether p lies strictly inside the solid
func (s *Solid) Contains(p geometry.Vector3) bool {
	return s.Evaluate(p) < 0
}

// BoundingBox returns the kernel's bounding box of the solid
func (s *Solid) BoundingBox() geometry.BoundingBox {
	bb := s.sdf.BoundingBox()
	return geometry.BoundingBox{
		Min: geometry.FromVec(bb.Min),
		Max: geometry.FromVec(bb.Max),
	}
}

// Edges returns the solid's edges in a stable order
func (s *Solid) Edges() []Edge {
	out := make([]Edge, len(s.edges))
	copy(out, s.edges)
	return out
}

// hasEdge reports whether e is one of the solid's edges
func (s *Solid) hasEdge(e Edge) bool {
	for _, own := range s.edges {
		if own.Curve.Equal(e.Curve, boundaryTol) {
			return true
		}
	}
	return false
}

// onBoundary reports whether the whole curve lies on the surface of s
func onBoundary(s sdf.SDF3, c geometry.Circle) bool {
	for _, p := range c.Sample(edgeSamples) {
		d := s.Evaluate(p.Vec())
		if d > boundaryTol || d < -boundaryTol {
			return false
		}
	}
	return true
}

// survivingEdges keeps the edges of the operands that still lie on the surface
// of the result, dropping duplicates.
func survivingEdges(result sdf.SDF3, operands ...*Solid) []Edge {
	var edges []Edge
	for _, op := range operands {
	next:
		for _, e := range op.edges {
			for _, kept := range edges {
				if kept.Curve.Equal(e.Curve, boundaryTol) {
					continue next
				}
			}
			if onBoundary(result, e.Curve) {
				edges = append(edges, e)
			}
		}
	}
	return edges
}
