package cup

import (
	"context"
	"fmt"
	"os"

	"github.com/philipparndt/cupforge/pkg/analysis"
	"github.com/philipparndt/cupforge/pkg/kernel"
	"github.com/philipparndt/cupforge/pkg/openscad"
	"github.com/philipparndt/cupforge/pkg/step"
	"github.com/philipparndt/cupforge/pkg/stl"
	"go.uber.org/zap"
)

const (
	msgStepDone   = "Cup STEP file created successfully."
	msgStepFailed = "Failed to create the STEP file."
)

// ExportResult describes the written files
type ExportResult struct {
	Status   step.Status
	STEPPath string
	Faces    int
	Stats    *analysis.MeasurementResult
}

// Export tessellates the cup and writes the STEP file, then any sidecar files
// configured in the params. The returned status is step.RetDone when the STEP
// file was written; the error carries the reason for any other status, or
// the sidecar failure when the STEP file itself succeeded.
func (b *Builder) Export(ctx context.Context, res *Result) (*ExportResult, error) {
	p := b.Params.Output
	log := b.logger()
	out := &ExportResult{Status: step.RetVoid, STEPPath: p.STEP}

	fail := func(status step.Status, err error) (*ExportResult, error) {
		out.Status = status
		b.say(msgStepFailed)
		return out, err
	}

	if res == nil || res.Cup == nil {
		return fail(step.RetError, fmt.Errorf("nothing to export"))
	}

	model, err := res.Cup.Mesh(ctx, kernel.MeshOptions{Cells: p.Resolution})
	if err != nil {
		if ctx.Err() != nil {
			return fail(step.RetStop, err)
		}
		return fail(step.RetFail, fmt.Errorf("tessellation failed: %w", err))
	}
	model.Name = "cup"
	out.Stats = analysis.AnalyzeModel(model)
	log.Info("Cup tessellated",
		zap.Int("triangles", out.Stats.TriangleCount),
		zap.Float64("volume", out.Stats.Volume))

	writer := step.NewWriter("cup")
	if status := writer.Transfer(model); status != step.RetDone {
		return fail(status, fmt.Errorf("transfer to STEP failed: %s", status))
	}
	out.Faces = writer.FaceCount()

	status, err := writer.Write(ctx, p.STEP)
	out.Status = status
	if status != step.RetDone {
		b.say(msgStepFailed)
		return out, err
	}
	b.say(msgStepDone)
	log.Info("STEP written", zap.String("path", p.STEP), zap.Int("faces", out.Faces))

	if err := b.writeSidecars(res.Cup, model); err != nil {
		b.say("Failed to write sidecar file: %v", err)
		return out, err
	}
	return out, nil
}

// writeSidecars writes the optional STL and OpenSCAD copies of the cup
func (b *Builder) writeSidecars(cup *kernel.Solid, model *stl.Model) error {
	p := b.Params.Output
	log := b.logger()
	if p.STL != "" {
		if err := model.Save(p.STL); err != nil {
			return err
		}
		log.Info("STL written", zap.String("path", p.STL))
	}
	if p.SCAD != "" {
		if err := writeSCAD(p.SCAD, cup); err != nil {
			return err
		}
		log.Info("OpenSCAD script written", zap.String("path", p.SCAD))
	}
	return nil
}

func writeSCAD(path string, s *kernel.Solid) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := openscad.Write(f, s.CSG()); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}
