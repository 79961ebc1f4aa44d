package openscad

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/philipparndt/cupforge/pkg/geometry"
)

// DefaultFragments is the $fn value written at the top of generated scripts
const DefaultFragments = 96

// Node is an element of a constructive solid geometry tree that can be
// written as OpenSCAD source
type Node interface {
	emit(e *emitter)
}

// Cylinder stands on the XY plane, like OpenSCAD's cylinder()
type Cylinder struct {
	Radius, Height float64
}

// Torus is a torus around Direction through Center
type Torus struct {
	Center       geometry.Vector3
	Direction    geometry.Vector3
	Major, Minor float64
}

// Difference subtracts Tool from Base
type Difference struct {
	Base, Tool Node
}

// Union merges its children
type Union struct {
	Children []Node
}

// Note attaches a comment to a subtree, used for operations OpenSCAD cannot
// express directly
type Note struct {
	Text  string
	Child Node
}

// Write renders the tree rooted at n as an OpenSCAD script
func Write(w io.Writer, n Node) error {
	bw := bufio.NewWriter(w)
	e := &emitter{w: bw}
	e.line("// generated by cupforge")
	e.line("$fn = %d;", DefaultFragments)
	e.line("")
	n.emit(e)
	if e.err != nil {
		return e.err
	}
	return bw.Flush()
}

type emitter struct {
	w     *bufio.Writer
	depth int
	err   error
}

func (e *emitter) line(format string, args ...any) {
	if e.err != nil {
		return
	}
	indent := strings.Repeat("    ", e.depth)
	_, e.err = fmt.Fprintf(e.w, indent+format+"\n", args...)
}

func (e *emitter) block(header string, children ...Node) {
	e.line("%s {", header)
	e.depth++
	for _, c := range children {
		c.emit(e)
	}
	e.depth--
	e.line("}")
}

func (c Cylinder) emit(e *emitter) {
	e.line("cylinder(r=%s, h=%s);", num(c.Radius), num(c.Height))
}

func (t Torus) emit(e *emitter) {
	e.line("translate(%s)", vec(t.Center))
	e.depth++
	if axis, angle, ok := rotationFromZ(t.Direction); ok {
		e.line("rotate(a=%s, v=%s)", num(angle), vec(axis))
		e.depth++
		defer func() { e.depth-- }()
	}
	e.line("rotate_extrude()")
	e.line("    translate([%s, 0]) circle(r=%s);", num(t.Major), num(t.Minor))
	e.depth--
}

func (d Difference) emit(e *emitter) {
	e.block("difference()", d.Base, d.Tool)
}

func (u Union) emit(e *emitter) {
	e.block("union()", u.Children...)
}

func (n Note) emit(e *emitter) {
	for _, l := range strings.Split(n.Text, "\n") {
		e.line("// %s", l)
	}
	n.Child.emit(e)
}

// rotationFromZ returns the axis-angle rotation (degrees) that turns +Z onto
// dir; ok is false when no rotation is needed
func rotationFromZ(dir geometry.Vector3) (geometry.Vector3, float64, bool) {
	d := dir.Normalize()
	z := geometry.NewVector3(0, 0, 1)
	cos := d.Dot(z)
	if cos > 1-1e-12 {
		return geometry.Vector3{}, 0, false
	}
	if cos < -1+1e-12 {
		return geometry.NewVector3(1, 0, 0), 180, true
	}
	axis := z.Cross(d).Normalize()
	return axis, math.Acos(cos) * 180 / math.Pi, true
}

func num(f float64) string {
	if f == 0 {
		return "0"
	}
	return strconv.FormatFloat(f, 'g', 10, 64)
}

func vec(v geometry.Vector3) string {
	return fmt.Sprintf("[%s, %s, %s]", num(v.X), num(v.Y), num(v.Z))
}
