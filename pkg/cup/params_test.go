package cup

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/philipparndt/cupforge/pkg/geometry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultParamsMatchReferenceCup(t *testing.T) {
	p := DefaultParams()

	assert.Equal(t, CylinderParams{Radius: 20, Height: 50}, p.Body)
	assert.Equal(t, CylinderParams{Radius: 18, Height: 48}, p.Hollow)
	assert.Equal(t, 3.0, p.Fillet.Radius)
	assert.Equal(t, geometry.NewVector3(25, 0, 25), p.Handle.Center)
	assert.Equal(t, geometry.NewVector3(0, 1, 0), p.Handle.Direction)
	assert.Equal(t, 10.0, p.Handle.MajorRadius)
	assert.Equal(t, 4.0, p.Handle.MinorRadius)
	assert.Equal(t, "cup_model.step", p.Output.STEP)
	assert.NoError(t, p.Validate())
}

func TestLoadParams(t *testing.T) {
	t.Run("missing file yields defaults", func(t *testing.T) {
		p, err := LoadParams(filepath.Join(t.TempDir(), "absent.yaml"))
		require.NoError(t, err)
		assert.Equal(t, DefaultParams(), p)
	})

	t.Run("file overrides only what it names", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "cup.yaml")
		content := "fillet:\n  radius: 1.5\nhandle:\n  center: {x: 30, y: 0, z: 20}\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		p, err := LoadParams(path)
		require.NoError(t, err)
		assert.Equal(t, 1.5, p.Fillet.Radius)
		assert.Equal(t, geometry.NewVector3(30, 0, 20), p.Handle.Center)
		assert.Equal(t, 20.0, p.Body.Radius)
	})

	t.Run("malformed file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("body: [not, a, map"), 0o644))

		_, err := LoadParams(path)
		assert.ErrorContains(t, err, "failed to parse params")
	})

	t.Run("nan in file is rejected by validation", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nan.yaml")
		require.NoError(t, os.WriteFile(path, []byte("body:\n  radius: .nan\n"), 0o644))

		p, err := LoadParams(path)
		require.NoError(t, err)
		assert.True(t, math.IsNaN(p.Body.Radius))
		assert.Error(t, p.Validate())
	})

	t.Run("environment overrides resolution", func(t *testing.T) {
		t.Setenv(ResolutionEnv, "64")
		p, err := LoadParams("")
		require.NoError(t, err)
		assert.Equal(t, 64, p.Output.Resolution)
	})

	t.Run("invalid environment value", func(t *testing.T) {
		t.Setenv(ResolutionEnv, "fine")
		_, err := LoadParams("")
		assert.Error(t, err)
	})
}

func TestSaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cup.yaml")
	p := DefaultParams()
	p.Fillet.Radius = 0.5
	require.NoError(t, p.Save(path))

	loaded, err := LoadParams(path)
	require.NoError(t, err)
	assert.Equal(t, p, loaded)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(p *Params)
	}{
		{"zero body radius", func(p *Params) { p.Body.Radius = 0 }},
		{"negative hollow height", func(p *Params) { p.Hollow.Height = -1 }},
		{"zero handle radius", func(p *Params) { p.Handle.MinorRadius = 0 }},
		{"tube wider than ring", func(p *Params) { p.Handle.MinorRadius = 12 }},
		{"missing output", func(p *Params) { p.Output.STEP = "" }},
		{"negative resolution", func(p *Params) { p.Output.Resolution = -5 }},
		{"nan body radius", func(p *Params) { p.Body.Radius = math.NaN() }},
		{"infinite body height", func(p *Params) { p.Body.Height = math.Inf(1) }},
		{"nan hollow radius", func(p *Params) { p.Hollow.Radius = math.NaN() }},
		{"nan handle major radius", func(p *Params) { p.Handle.MajorRadius = math.NaN() }},
		{"infinite handle minor radius", func(p *Params) { p.Handle.MinorRadius = math.Inf(1) }},
		{"nan handle center", func(p *Params) { p.Handle.Center.X = math.NaN() }},
		{"infinite handle direction", func(p *Params) { p.Handle.Direction.Y = math.Inf(-1) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParams()
			tt.mutate(&p)
			assert.Error(t, p.Validate())
		})
	}

	p := DefaultParams()
	p.Fillet.Radius = -1
	assert.NoError(t, p.Validate(), "fillet radius is judged per edge")
}
