package cup

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"

	"github.com/philipparndt/cupforge/pkg/geometry"
	"gopkg.in/yaml.v3"
)

// ResolutionEnv overrides the mesh resolution of a loaded params file
const ResolutionEnv = "CUPFORGE_RESOLUTION"

// Params describes the cup. The defaults reproduce the reference model.
type Params struct {
	Body   CylinderParams `yaml:"body"`
	Hollow CylinderParams `yaml:"hollow"`
	Fillet FilletParams   `yaml:"fillet"`
	Handle HandleParams   `yaml:"handle"`
	Output OutputParams   `yaml:"output"`
}

// CylinderParams sizes a cylinder standing on the XY plane
type CylinderParams struct {
	Radius float64 `yaml:"radius"`
	Height float64 `yaml:"height"`
}

// FilletParams configures rounding of the hollow body's edges
type FilletParams struct {
	Radius float64 `yaml:"radius"`
}

// HandleParams places the toroidal handle
type HandleParams struct {
	Center      geometry.Vector3 `yaml:"center"`
	Direction   geometry.Vector3 `yaml:"direction"`
	XDirection  geometry.Vector3 `yaml:"x_direction"`
	MajorRadius float64          `yaml:"major_radius"`
	MinorRadius float64          `yaml:"minor_radius"`
}

// OutputParams names the produced files
type OutputParams struct {
	STEP string `yaml:"step"`
	// STL and SCAD are optional sidecar files
	STL  string `yaml:"stl"`
	SCAD string `yaml:"scad"`
	// Resolution is the number of mesh cells along the longest side
	Resolution int `yaml:"resolution"`
}

// DefaultParams returns the reference cup
func DefaultParams() Params {
	return Params{
		Body:   CylinderParams{Radius: 20, Height: 50},
		Hollow: CylinderParams{Radius: 18, Height: 48},
		Fillet: FilletParams{Radius: 3.0},
		Handle: HandleParams{
			Center:      geometry.NewVector3(25, 0, 25),
			Direction:   geometry.NewVector3(0, 1, 0),
			XDirection:  geometry.NewVector3(1, 0, 0),
			MajorRadius: 10,
			MinorRadius: 4,
		},
		Output: OutputParams{
			STEP:       "cup_model.step",
			Resolution: 200,
		},
	}
}

// LoadParams reads a YAML params file over the defaults. A missing file
// yields the defaults.
func LoadParams(path string) (Params, error) {
	p := DefaultParams()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return Params{}, fmt.Errorf("failed to read params: %w", err)
		default:
			if err := yaml.Unmarshal(data, &p); err != nil {
				return Params{}, fmt.Errorf("failed to parse params: %w", err)
			}
		}
	}

	if err := p.applyEnvOverrides(); err != nil {
		return Params{}, err
	}
	return p, nil
}

func (p *Params) applyEnvOverrides() error {
	if v := os.Getenv(ResolutionEnv); v != "" {
		res, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", ResolutionEnv, v, err)
		}
		p.Output.Resolution = res
	}
	return nil
}

// Save writes the params as YAML
func (p Params) Save(path string) error {
	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal params: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write params: %w", err)
	}
	return nil
}

// Validate checks the dimensions the kernel cannot build with. The fillet
// radius is not checked here: an unusable radius is reported per edge and
// the build falls back to the sharp body.
func (p Params) Validate() error {
	if !positive(p.Body.Radius) || !positive(p.Body.Height) {
		return fmt.Errorf("body radius and height must be positive")
	}
	if !positive(p.Hollow.Radius) || !positive(p.Hollow.Height) {
		return fmt.Errorf("hollow radius and height must be positive")
	}
	if !positive(p.Handle.MajorRadius) || !positive(p.Handle.MinorRadius) {
		return fmt.Errorf("handle radii must be positive")
	}
	for _, v := range []struct {
		name string
		vec  geometry.Vector3
	}{
		{"center", p.Handle.Center},
		{"direction", p.Handle.Direction},
		{"x_direction", p.Handle.XDirection},
	} {
		if !finite(v.vec.X) || !finite(v.vec.Y) || !finite(v.vec.Z) {
			return fmt.Errorf("handle %s must be finite", v.name)
		}
	}
	if p.Handle.MinorRadius >= p.Handle.MajorRadius {
		return fmt.Errorf("handle minor radius must be smaller than the major radius")
	}
	if p.Output.STEP == "" {
		return fmt.Errorf("output step path is required")
	}
	if p.Output.Resolution < 0 {
		return fmt.Errorf("output resolution must not be negative")
	}
	return nil
}

// positive reports whether x is finite and above zero; NaN fails
func positive(x float64) bool {
	return x > 0 && !math.IsInf(x, 0)
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
