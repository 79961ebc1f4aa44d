package stl

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const asciiTetra = `solid tetra
facet normal 0 0 -1
 outer loop
  vertex 0 0 0
  vertex 0 1 0
  vertex 1 0 0
 endloop
endfacet
facet normal 0 -1 0
 outer loop
  vertex 0 0 0
  vertex 1 0 0
  vertex 0 0 1
 endloop
endfacet
facet normal -1 0 0
 outer loop
  vertex 0 0 0
  vertex 0 0 1
  vertex 0 1 0
 endloop
endfacet
facet normal 1 1 1
 outer loop
  vertex 1 0 0
  vertex 0 1 0
  vertex 0 0 1
 endloop
endfacet
endsolid tetra
`

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func binaryTetra(t *testing.T, header string) []byte {
	t.Helper()
	model, err := Parse(writeFile(t, "tetra.stl", []byte(asciiTetra)))
	require.NoError(t, err)

	var buf bytes.Buffer
	head := make([]byte, 80)
	copy(head, header)
	buf.Write(head)
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, uint32(len(model.Triangles))))
	for _, tri := range model.Triangles {
		for _, v := range [4][3]float64{
			{tri.Normal.X, tri.Normal.Y, tri.Normal.Z},
			{tri.V1.X, tri.V1.Y, tri.V1.Z},
			{tri.V2.X, tri.V2.Y, tri.V2.Z},
			{tri.V3.X, tri.V3.Y, tri.V3.Z},
		} {
			require.NoError(t, binary.Write(&buf, binary.LittleEndian, [3]float32{float32(v[0]), float32(v[1]), float32(v[2])}))
		}
		require.NoError(t, binary.Write(&buf, binary.LittleEndian, uint16(0)))
	}
	return buf.Bytes()
}

func TestParseASCII(t *testing.T) {
	model, err := Parse(writeFile(t, "tetra.stl", []byte(asciiTetra)))
	require.NoError(t, err)

	assert.Equal(t, "tetra", model.Name)
	assert.Equal(t, 4, model.TriangleCount())
	assert.InDelta(t, 1.0/6.0, model.Volume(), 1e-9)
}

func TestParseBinaryWithSolidHeader(t *testing.T) {
	// Some exporters start binary headers with "solid"; the size check wins
	data := binaryTetra(t, "solid exported by a binary writer")

	model, err := Parse(writeFile(t, "exported.stl", data))
	require.NoError(t, err)
	assert.Equal(t, "exported", model.Name)
	assert.Equal(t, 4, model.TriangleCount())
	assert.InDelta(t, 1.0/6.0, model.Volume(), 1e-6)

	bbox := model.BoundingBox()
	assert.InDelta(t, 1.0, bbox.Size().X, 1e-6)
}

func TestParseErrors(t *testing.T) {
	_, err := Parse(filepath.Join(t.TempDir(), "missing.stl"))
	assert.Error(t, err)

	_, err = Parse(writeFile(t, "short.stl", []byte("sol")))
	assert.Error(t, err)
}

func TestFromTrianglesDerivesNormals(t *testing.T) {
	model := FromTriangles("floor", []*sdf.Triangle3{
		{v3.Vec{X: 0, Y: 0, Z: 0}, v3.Vec{X: 1, Y: 0, Z: 0}, v3.Vec{X: 0, Y: 1, Z: 0}},
		nil,
	})

	require.Equal(t, 1, model.TriangleCount())
	assert.Equal(t, "floor", model.Name)
	assert.InDelta(t, 1.0, model.Triangles[0].Normal.Z, 1e-12)
	assert.InDelta(t, 0.5, model.SurfaceArea(), 1e-12)
}

func TestSaveWritesBinarySTL(t *testing.T) {
	model, err := Parse(writeFile(t, "tetra.stl", []byte(asciiTetra)))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "copy.stl")
	require.NoError(t, model.Save(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, int64(84+50*4), info.Size())

	err = model.Save(filepath.Join(t.TempDir(), "missing", "copy.stl"))
	assert.ErrorContains(t, err, "failed to write STL")
}
