package openscad

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/philipparndt/cupforge/pkg/geometry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteCupTree(t *testing.T) {
	inner := Cylinder{Radius: 18, Height: 48}
	handle := Torus{
		Center:    geometry.NewVector3(25, 0, 25),
		Direction: geometry.NewVector3(0, 1, 0),
		Major:     10,
		Minor:     4,
	}
	tree := Union{Children: []Node{
		Note{Text: "fillet r=3 on 1 edge", Child: Difference{Base: Cylinder{Radius: 20, Height: 50}, Tool: inner}},
		Difference{Base: handle, Tool: inner},
	}}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, tree))
	out := buf.String()

	assert.Contains(t, out, "$fn = 96;")
	assert.Contains(t, out, "// fillet r=3 on 1 edge")
	assert.Contains(t, out, "cylinder(r=20, h=50);")
	assert.Equal(t, 2, strings.Count(out, "cylinder(r=18, h=48);"))
	assert.Contains(t, out, "translate([25, 0, 25])")
	assert.Contains(t, out, "rotate(a=90, v=[-1, 0, 0])")
	assert.Contains(t, out, "translate([10, 0]) circle(r=4);")
	assert.Equal(t, strings.Count(out, "{"), strings.Count(out, "}"))
}

func TestRotationFromZ(t *testing.T) {
	_, _, ok := rotationFromZ(geometry.NewVector3(0, 0, 5))
	assert.False(t, ok)

	axis, angle, ok := rotationFromZ(geometry.NewVector3(0, 0, -1))
	assert.True(t, ok)
	assert.Equal(t, 180.0, angle)
	assert.Equal(t, geometry.NewVector3(1, 0, 0), axis)
}

func TestRenderToSTLWithoutBinary(t *testing.T) {
	r := NewRenderer(t.TempDir())
	r.binary = "openscad-not-installed-for-tests"
	err := r.RenderToSTL(context.Background(), "cup.scad", "cup.stl")
	assert.ErrorContains(t, err, "not found in PATH")
}
