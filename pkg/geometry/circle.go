package geometry

import (
	"fmt"
	"math"
)

// Circle is a circular curve in 3D space: the shape of every edge produced by
// the revolved primitives the kernel builds.
type Circle struct {
	Center Vector3 // Circle center in 3D
	Radius float64 // Circle radius
	Normal Vector3 // Unit normal of the plane containing the circle
}

// NewCircle creates a circle, normalizing the plane normal
func NewCircle(center, normal Vector3, radius float64) (Circle, error) {
	if radius <= 0 {
		return Circle{}, fmt.Errorf("circle radius must be positive, got %g", radius)
	}
	n := normal.Normalize()
	if n.Length() == 0 {
		return Circle{}, fmt.Errorf("circle normal must be non-zero")
	}
	return Circle{Center: center, Radius: radius, Normal: n}, nil
}

// Basis returns two unit vectors spanning the circle's plane. The first one is
// the reference direction used by Point(0).
func (c Circle) Basis() (u, v Vector3) {
	// Pick the world axis least aligned with the normal as a seed
	seed := NewVector3(1, 0, 0)
	if math.Abs(c.Normal.X) > 0.9 {
		seed = NewVector3(0, 1, 0)
	}
	u = seed.Sub(c.Normal.Mul(seed.Dot(c.Normal))).Normalize()
	v = c.Normal.Cross(u)
	return u, v
}

// Point returns the point at parameter t (radians) on the circle
func (c Circle) Point(t float64) Vector3 {
	u, v := c.Basis()
	return c.Center.
		Add(u.Mul(c.Radius * math.Cos(t))).
		Add(v.Mul(c.Radius * math.Sin(t)))
}

// Sample returns n points evenly spaced around the circle
func (c Circle) Sample(n int) []Vector3 {
	if n <= 0 {
		return nil
	}
	points := make([]Vector3, n)
	for i := range points {
		points[i] = c.Point(2 * math.Pi * float64(i) / float64(n))
	}
	return points
}

// Length returns the circumference
func (c Circle) Length() float64 {
	return 2 * math.Pi * c.Radius
}

// Equal reports whether two circles coincide within eps. Opposite normals
// describe the same curve.
func (c Circle) Equal(other Circle, eps float64) bool {
	if math.Abs(c.Radius-other.Radius) > eps || c.Center.Distance(other.Center) > eps {
		return false
	}
	return math.Abs(math.Abs(c.Normal.Dot(other.Normal))-1) <= eps
}

// String formats the circle for status output
func (c Circle) String() string {
	return fmt.Sprintf("circle(center=(%.3f, %.3f, %.3f), r=%.3f)",
		c.Center.X, c.Center.Y, c.Center.Z, c.Radius)
}
