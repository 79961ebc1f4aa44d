package kernel

import (
	"fmt"
	"math"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/philipparndt/cupforge/pkg/geometry"
	"github.com/philipparndt/cupforge/pkg/openscad"
)

// Axis is a placement frame: an origin, a main direction and a reference
// X direction perpendicular to it.
type Axis struct {
	Origin    geometry.Vector3
	Direction geometry.Vector3
	XDir      geometry.Vector3
}

// DefaultAxis is the world frame: origin at zero, main direction +Z
func DefaultAxis() Axis {
	return Axis{
		Direction: geometry.NewVector3(0, 0, 1),
		XDir:      geometry.NewVector3(1, 0, 0),
	}
}

// Validate checks that the frame directions are usable
func (a Axis) Validate() error {
	for _, v := range []geometry.Vector3{a.Origin, a.Direction, a.XDir} {
		if !finite(v.X) || !finite(v.Y) || !finite(v.Z) {
			return fmt.Errorf("%w: axis component %v is not finite", ErrInvalidDimension, v)
		}
	}
	if a.Direction.Length() == 0 {
		return fmt.Errorf("%w: axis direction is zero", ErrInvalidDimension)
	}
	if a.XDir.Length() == 0 {
		return fmt.Errorf("%w: axis x direction is zero", ErrInvalidDimension)
	}
	if math.Abs(a.Direction.Normalize().Dot(a.XDir.Normalize())) > 1e-9 {
		return fmt.Errorf("%w: axis x direction is not perpendicular to the main direction", ErrInvalidDimension)
	}
	return nil
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// positive reports whether x is a usable dimension: finite and above zero
func positive(x float64) bool {
	return x > 0 && !math.IsInf(x, 0)
}

// MakeCylinder builds a solid cylinder standing on the XY plane:
// x²+y² <= radius², 0 <= z <= height.
func MakeCylinder(radius, height float64) (*Solid, error) {
	if !positive(radius) || !positive(height) {
		return nil, fmt.Errorf("%w: cylinder radius %g, height %g", ErrInvalidDimension, radius, height)
	}
	c, err := sdf.Cylinder3D(height, radius, 0)
	if err != nil {
		return nil, fmt.Errorf("cylinder: %w", err)
	}
	c = sdf.Transform3D(c, sdf.Translate3d(v3.Vec{X: 0, Y: 0, Z: height / 2}))

	axis := DefaultAxis()
	label := fmt.Sprintf("cylinder(r=%g,h=%g)", radius, height)
	bottom, err := geometry.NewCircle(axis.Origin, axis.Direction, radius)
	if err != nil {
		return nil, err
	}
	top, err := geometry.NewCircle(axis.Origin.Add(axis.Direction.Mul(height)), axis.Direction, radius)
	if err != nil {
		return nil, err
	}

	return newSolid(c, []Edge{
		{Curve: bottom, Label: label + " bottom"},
		{Curve: top, Label: label + " top"},
	}, openscad.Cylinder{Radius: radius, Height: height}), nil
}

// torusSDF3 is a torus around an arbitrary axis
type torusSDF3 struct {
	center v3.Vec
	normal v3.Vec
	major  float64
	minor  float64
	bb     sdf.Box3
}

func (t *torusSDF3) Evaluate(p v3.Vec) float64 {
	d := p.Sub(t.center)
	h := d.Dot(t.normal)
	radial := d.Sub(t.normal.MulScalar(h)).Length()
	return math.Hypot(radial-t.major, h) - t.minor
}

func (t *torusSDF3) BoundingBox() sdf.Box3 {
	return t.bb
}

// MakeTorus builds a torus whose tube centre line is a circle of radius major
// around the axis, with tube radius minor.
func MakeTorus(axis Axis, major, minor float64) (*Solid, error) {
	if !positive(major) || !positive(minor) {
		return nil, fmt.Errorf("%w: torus radii %g, %g", ErrInvalidDimension, major, minor)
	}
	if minor >= major {
		return nil, fmt.Errorf("%w: torus minor radius %g must be below major radius %g", ErrInvalidDimension, minor, major)
	}
	if err := axis.Validate(); err != nil {
		return nil, err
	}

	n := axis.Direction.Normalize()
	// Per world axis, the band extends major*sin(angle to the normal) plus the tube
	extent := func(ni float64) float64 {
		return minor + major*math.Sqrt(math.Max(0, 1-ni*ni))
	}
	half := v3.Vec{X: extent(n.X), Y: extent(n.Y), Z: extent(n.Z)}
	c := axis.Origin.Vec()

	return newSolid(&torusSDF3{
		center: c,
		normal: n.Vec(),
		major:  major,
		minor:  minor,
		bb:     sdf.Box3{Min: c.Sub(half), Max: c.Add(half)},
	}, nil, openscad.Torus{
		Center:    axis.Origin,
		Direction: n,
		Major:     major,
		Minor:     minor,
	}), nil
}
