// Package cup builds the parametric cup-with-handle and exports it.
package cup

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/philipparndt/cupforge/pkg/kernel"
	"go.uber.org/zap"
)

// EdgeResult is the fillet verdict for one edge of the hollow body
type EdgeResult struct {
	Edge kernel.Edge
	Err  error
}

// Accepted reports whether the edge was added to the fillet
func (r EdgeResult) Accepted() bool {
	return r.Err == nil
}

// FilletReport describes what happened to the fillet step
type FilletReport struct {
	Radius float64
	Edges  []EdgeResult
	// Applied is true when the body in the result is the rounded one
	Applied bool
	// ShapeErr is set when edges were accepted but rounding failed
	ShapeErr error
}

// Accepted returns the number of edges added to the fillet
func (r FilletReport) Accepted() int {
	n := 0
	for _, e := range r.Edges {
		if e.Accepted() {
			n++
		}
	}
	return n
}

// Result holds the intermediate and final solids of a build
type Result struct {
	Body          *kernel.Solid
	Inner         *kernel.Solid
	Hollow        *kernel.Solid
	Rounded       *kernel.Solid
	Handle        *kernel.Solid
	TrimmedHandle *kernel.Solid
	Cup           *kernel.Solid
	Fillet        FilletReport
}

// Builder runs the construction sequence. Console receives the human status
// lines; Logger receives structured progress.
type Builder struct {
	Params  Params
	Logger  *zap.Logger
	Console io.Writer
}

// NewBuilder creates a builder printing status lines to stdout
func NewBuilder(p Params, logger *zap.Logger) *Builder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Builder{Params: p, Logger: logger, Console: os.Stdout}
}

func (b *Builder) say(format string, args ...any) {
	if b.Console == nil {
		return
	}
	fmt.Fprintf(b.Console, format+"\n", args...)
}

func (b *Builder) logger() *zap.Logger {
	if b.Logger == nil {
		return zap.NewNop()
	}
	return b.Logger
}

// Build constructs the cup: hollow body, rounded edges where possible, and the
// handle trimmed against the interior and fused to the body.
func (b *Builder) Build(ctx context.Context) (*Result, error) {
	p := b.Params
	log := b.logger()
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("invalid params: %w", err)
	}

	res := &Result{}
	var err error

	res.Body, err = kernel.MakeCylinder(p.Body.Radius, p.Body.Height)
	if err != nil {
		return nil, fmt.Errorf("body: %w", err)
	}
	res.Inner, err = kernel.MakeCylinder(p.Hollow.Radius, p.Hollow.Height)
	if err != nil {
		return nil, fmt.Errorf("hollow: %w", err)
	}
	res.Hollow = kernel.Cut(res.Body, res.Inner)
	log.Debug("Hollow body built", zap.Int("edges", len(res.Hollow.Edges())))

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res.Fillet, res.Rounded = b.fillet(res.Hollow)
	if res.Rounded == nil {
		b.say("Skipping filleting due to errors.")
		res.Rounded = res.Hollow
	}
	log.Info("Fillet step finished",
		zap.Float64("radius", res.Fillet.Radius),
		zap.Int("edges", len(res.Fillet.Edges)),
		zap.Int("accepted", res.Fillet.Accepted()),
		zap.Bool("applied", res.Fillet.Applied))

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res.Handle, err = kernel.MakeTorus(kernel.Axis{
		Origin:    p.Handle.Center,
		Direction: p.Handle.Direction,
		XDir:      p.Handle.XDirection,
	}, p.Handle.MajorRadius, p.Handle.MinorRadius)
	if err != nil {
		return nil, fmt.Errorf("handle: %w", err)
	}
	res.TrimmedHandle = kernel.Cut(res.Handle, res.Inner)
	res.Cup = kernel.Fuse(res.Rounded, res.TrimmedHandle)
	log.Debug("Handle fused", zap.Int("edges", len(res.Cup.Edges())))

	return res, nil
}
