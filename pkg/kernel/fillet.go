package kernel

import (
	"fmt"
	"math"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/philipparndt/cupforge/pkg/geometry"
	"github.com/philipparndt/cupforge/pkg/openscad"
)

const (
	// probeAngles is the number of meridian planes checked around an edge
	probeAngles = 8
	// probeSteps is the grid resolution used across a fillet's square region
	probeSteps = 4
	// overlapTol is the slack under which two fillet regions merely touch
	overlapTol = 1e-9
)

// fillet is an accepted rounding of one circular edge. In the meridian
// half-plane of the edge (rho = distance from the edge's axis, h = height
// along the axis relative to the edge) the corner sits at (R, 0) and the
// rounded square spans from the corner towards (R+sr*radius, sh*radius).
type fillet struct {
	edge   Edge
	radius float64
	sr, sh float64
	convex bool
}

// meridian maps p into the edge's (rho, h) half-plane
func meridian(c geometry.Circle, p v3.Vec) (rho, h float64) {
	d := p.Sub(c.Center.Vec())
	n := c.Normal.Vec()
	h = d.Dot(n)
	rho = d.Sub(n.MulScalar(h)).Length()
	return rho, h
}

// fromMeridian maps a (rho, h) point at angle t back into world space
func fromMeridian(c geometry.Circle, rho, h, t float64) geometry.Vector3 {
	u, v := c.Basis()
	dir := u.Mul(math.Cos(t)).Add(v.Mul(math.Sin(t)))
	return c.Center.Add(dir.Mul(rho)).Add(c.Normal.Mul(h))
}

// region returns the signed distance to the area removed (convex) or added
// (concave) by the fillet: the square between corner and fillet centre minus
// the disk of the fillet radius.
func (f fillet) region(rho, h float64) float64 {
	r := f.radius
	R := f.edge.Curve.Radius

	// square centred halfway between corner and fillet centre
	qx := math.Abs(rho-(R+f.sr*r/2)) - r/2
	qy := math.Abs(h-f.sh*r/2) - r/2
	outside := math.Hypot(math.Max(qx, 0), math.Max(qy, 0))
	inside := math.Min(math.Max(qx, qy), 0)
	square := outside + inside

	disk := math.Hypot(rho-(R+f.sr*r), h-f.sh*r) - r
	return math.Max(square, -disk)
}

// apply combines the fillet with the distance d of the unrounded solid at p
func (f fillet) apply(p v3.Vec, d float64) float64 {
	rho, h := meridian(f.edge.Curve, p)
	if f.convex {
		return math.Max(d, -f.region(rho, h))
	}
	return math.Min(d, f.region(rho, h))
}

// bounds is a box enclosing the fillet's region in world space
func (f fillet) bounds() geometry.BoundingBox {
	c := f.edge.Curve
	reach := c.Radius + f.radius
	box := geometry.NewBoundingBox()
	for _, p := range c.Sample(edgeSamples) {
		dir := p.Sub(c.Center).Normalize()
		far := c.Center.Add(dir.Mul(reach))
		box.Extend(far.Add(c.Normal.Mul(f.radius)))
		box.Extend(far.Sub(c.Normal.Mul(f.radius)))
	}
	// the sampled polygon can sit inside the true circle
	pad := geometry.NewVector3(f.radius, f.radius, f.radius)
	box.Min = box.Min.Sub(pad)
	box.Max = box.Max.Add(pad)
	return box
}

// filletSDF3 rounds a set of edges of a base distance field
type filletSDF3 struct {
	base    sdf.SDF3
	fillets []fillet
	bb      sdf.Box3
}

func (s *filletSDF3) Evaluate(p v3.Vec) float64 {
	d := s.base.Evaluate(p)
	for _, f := range s.fillets {
		d = f.apply(p, d)
	}
	return d
}

func (s *filletSDF3) BoundingBox() sdf.Box3 {
	return s.bb
}

// FilletBuilder rounds edges of a solid. Edges are added one at a time; each
// Add either accepts the edge or reports why it cannot be rounded, and Shape
// computes the rounded solid from the accepted edges.
type FilletBuilder struct {
	base    *Solid
	fillets []fillet
}

// NewFilletBuilder starts a fillet operation on s
func NewFilletBuilder(s *Solid) *FilletBuilder {
	return &FilletBuilder{base: s}
}

// Len returns the number of accepted edges
func (b *FilletBuilder) Len() int {
	return len(b.fillets)
}

// Add requests a fillet of the given radius on edge e
func (b *FilletBuilder) Add(radius float64, e Edge) error {
	if radius <= 0 || math.IsNaN(radius) || math.IsInf(radius, 0) {
		return fmt.Errorf("%w: %g", ErrInvalidRadius, radius)
	}
	if !b.base.hasEdge(e) {
		return fmt.Errorf("%w: %s", ErrUnknownEdge, e)
	}
	for _, f := range b.fillets {
		if f.edge.Curve.Equal(e.Curve, boundaryTol) {
			return fmt.Errorf("%w: %s", ErrDuplicateEdge, e)
		}
	}

	f, err := b.classify(radius, e)
	if err != nil {
		return err
	}
	if err := b.checkRoom(f); err != nil {
		return err
	}
	b.fillets = append(b.fillets, f)
	return nil
}

// material reports whether the unrounded solid has material at (rho, h) on
// every probed meridian plane of edge e.
func (b *FilletBuilder) material(e Edge, rho, h float64) bool {
	for i := 0; i < probeAngles; i++ {
		t := 2 * math.Pi * float64(i) / probeAngles
		if !b.base.Contains(fromMeridian(e.Curve, rho, h, t)) {
			return false
		}
	}
	return true
}

// void reports whether the unrounded solid is empty at (rho, h) on every
// probed meridian plane of edge e.
func (b *FilletBuilder) void(e Edge, rho, h float64) bool {
	for i := 0; i < probeAngles; i++ {
		t := 2 * math.Pi * float64(i) / probeAngles
		if b.base.Evaluate(fromMeridian(e.Curve, rho, h, t)) <= 0 {
			return false
		}
	}
	return true
}

// classify looks at the four quadrants around the edge. A convex corner has
// material in exactly one of them, a concave corner in exactly three.
func (b *FilletBuilder) classify(radius float64, e Edge) (fillet, error) {
	R := e.Curve.Radius
	eps := math.Min(radius, R) * 0.01

	type quadrant struct{ sr, sh float64 }
	quadrants := []quadrant{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}

	var solid, empty []quadrant
	for _, q := range quadrants {
		rho, h := R+q.sr*eps, q.sh*eps
		switch {
		case b.material(e, rho, h):
			solid = append(solid, q)
		case b.void(e, rho, h):
			empty = append(empty, q)
		default:
			return fillet{}, fmt.Errorf("%w: %s changes shape along its length", ErrNotCorner, e)
		}
	}

	switch {
	case len(solid) == 1:
		return fillet{edge: e, radius: radius, sr: solid[0].sr, sh: solid[0].sh, convex: true}, nil
	case len(empty) == 1:
		return fillet{edge: e, radius: radius, sr: empty[0].sr, sh: empty[0].sh, convex: false}, nil
	default:
		return fillet{}, fmt.Errorf("%w: %s is flat or degenerate (%d of 4 quadrants filled)", ErrNotCorner, e, len(solid))
	}
}

// checkRoom verifies that both faces next to the edge extend at least the
// fillet radius, so the rounding stays inside the material it replaces.
func (b *FilletBuilder) checkRoom(f fillet) error {
	R := f.edge.Curve.Radius
	r := f.radius
	if !f.convex && f.sr < 0 && r >= R {
		return fmt.Errorf("%w: radius %g reaches the axis of %s", ErrInsufficientMaterial, r, f.edge)
	}
	if f.convex && f.sr < 0 && r > R {
		return fmt.Errorf("%w: radius %g reaches the axis of %s", ErrInsufficientMaterial, r, f.edge)
	}

	eps := math.Min(r, R) * 0.01
	for i := 1; i <= probeSteps; i++ {
		a := r * (float64(i) - 0.5) / probeSteps
		if f.convex {
			for j := 1; j <= probeSteps; j++ {
				c := r * (float64(j) - 0.5) / probeSteps
				if !b.material(f.edge, R+f.sr*a, f.sh*c) {
					return fmt.Errorf("%w: radius %g on %s", ErrInsufficientMaterial, r, f.edge)
				}
			}
			continue
		}
		// concave: the filled square must be empty, and material must run
		// along both of its sides
		for j := 1; j <= probeSteps; j++ {
			c := r * (float64(j) - 0.5) / probeSteps
			if !b.void(f.edge, R+f.sr*a, f.sh*c) {
				return fmt.Errorf("%w: radius %g on %s collides with other geometry", ErrInsufficientMaterial, r, f.edge)
			}
		}
		if !b.material(f.edge, R+f.sr*a, -f.sh*eps) || !b.material(f.edge, R-f.sr*eps, f.sh*a) {
			return fmt.Errorf("%w: radius %g on %s", ErrInsufficientMaterial, r, f.edge)
		}
	}
	return nil
}

// Shape computes the rounded solid
func (b *FilletBuilder) Shape() (*Solid, error) {
	if len(b.fillets) == 0 {
		return nil, ErrNothingToFillet
	}
	for i := range b.fillets {
		for j := i + 1; j < len(b.fillets); j++ {
			if overlaps(b.fillets[i], b.fillets[j]) {
				return nil, fmt.Errorf("%w: %s and %s", ErrFilletOverlap, b.fillets[i].edge, b.fillets[j].edge)
			}
		}
	}

	bb := b.base.sdf.BoundingBox()
	for _, f := range b.fillets {
		if f.convex {
			continue
		}
		fb := f.bounds()
		bb = sdf.Box3{
			Min: v3.Vec{X: math.Min(bb.Min.X, fb.Min.X), Y: math.Min(bb.Min.Y, fb.Min.Y), Z: math.Min(bb.Min.Z, fb.Min.Z)},
			Max: v3.Vec{X: math.Max(bb.Max.X, fb.Max.X), Y: math.Max(bb.Max.Y, fb.Max.Y), Z: math.Max(bb.Max.Z, fb.Max.Z)},
		}
	}

	fillets := make([]fillet, len(b.fillets))
	copy(fillets, b.fillets)
	rounded := &filletSDF3{base: b.base.sdf, fillets: fillets, bb: bb}

	// rounded edges are no longer sharp, the rest survive
	var edges []Edge
	for _, e := range b.base.edges {
		filleted := false
		for _, f := range fillets {
			if f.edge.Curve.Equal(e.Curve, boundaryTol) {
				filleted = true
				break
			}
		}
		if !filleted {
			edges = append(edges, e)
		}
	}
	note := fmt.Sprintf("fillet r=%g on %d edge(s), rendered sharp here", fillets[0].radius, len(fillets))
	return newSolid(rounded, edges, openscad.Note{Text: note, Child: b.base.csg}), nil
}

// overlaps reports whether two fillet regions share interior. Coaxial edges
// are compared exactly in their common meridian plane; anything else falls
// back to comparing world-space bounds.
func overlaps(a, b fillet) bool {
	ca, cb := a.edge.Curve, b.edge.Curve
	if math.Abs(math.Abs(ca.Normal.Dot(cb.Normal))-1) <= boundaryTol {
		offset := cb.Center.Sub(ca.Center)
		along := offset.Dot(ca.Normal)
		if offset.Sub(ca.Normal.Mul(along)).Length() <= boundaryTol {
			bsh := b.sh
			if ca.Normal.Dot(cb.Normal) < 0 {
				bsh = -bsh
			}
			aRho0, aRho1 := span(ca.Radius, a.sr*a.radius)
			aH0, aH1 := span(0, a.sh*a.radius)
			bRho0, bRho1 := span(cb.Radius, b.sr*b.radius)
			bH0, bH1 := span(along, bsh*b.radius)
			return aRho0 < bRho1-overlapTol && bRho0 < aRho1-overlapTol &&
				aH0 < bH1-overlapTol && bH0 < aH1-overlapTol
		}
	}
	ba, bb := a.bounds(), b.bounds()
	return ba.Min.X < bb.Max.X && bb.Min.X < ba.Max.X &&
		ba.Min.Y < bb.Max.Y && bb.Min.Y < ba.Max.Y &&
		ba.Min.Z < bb.Max.Z && bb.Min.Z < ba.Max.Z
}

// span orders the interval [start, start+delta]
func span(start, delta float64) (float64, float64) {
	if delta < 0 {
		return start + delta, start
	}
	return start, start + delta
}
