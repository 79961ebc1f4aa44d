package cup

import (
	"github.com/philipparndt/cupforge/pkg/kernel"
	"go.uber.org/zap"
)

// fillet tries to round every edge of the hollow body. Each edge gets its own
// verdict; the rounded solid is computed only when at least one edge was
// accepted, and is nil when rounding is not possible.
func (b *Builder) fillet(hollow *kernel.Solid) (FilletReport, *kernel.Solid) {
	log := b.logger()
	report := FilletReport{Radius: b.Params.Fillet.Radius}

	builder := kernel.NewFilletBuilder(hollow)
	for _, edge := range hollow.Edges() {
		err := builder.Add(report.Radius, edge)
		report.Edges = append(report.Edges, EdgeResult{Edge: edge, Err: err})
		if err != nil {
			b.say("Failed to add fillet to edge: %v", err)
			log.Debug("Edge rejected", zap.Stringer("edge", edge), zap.Error(err))
		}
	}

	if report.Accepted() == 0 {
		b.say("No valid edges found for filleting.")
		return report, nil
	}

	rounded, err := builder.Shape()
	if err != nil {
		report.ShapeErr = err
		b.say("Fillet creation failed: %v", err)
		log.Warn("Fillet creation failed", zap.Error(err))
		return report, nil
	}
	report.Applied = true
	return report, rounded
}
