package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/philipparndt/cupforge/pkg/analysis"
	"github.com/philipparndt/cupforge/pkg/cup"
	"github.com/philipparndt/cupforge/pkg/watcher"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	buildConfig string
	buildWatch  bool
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the cup and export it as STEP",
	Long: `Build the hollow cup, round its edges where the fillet radius fits,
fuse the trimmed handle and write the result to a STEP file.
Edges that cannot take the fillet are reported and skipped; when no edge can
be rounded the sharp body is used.`,
	Args: cobra.NoArgs,
	RunE: runBuild,
}

func init() {
	rootCmd.AddCommand(buildCmd)

	buildCmd.Flags().StringVarP(&buildConfig, "config", "c", "", "YAML params file (defaults reproduce the reference cup)")
	buildCmd.Flags().StringP("output", "o", "", "STEP output path (default cup_model.step)")
	buildCmd.Flags().String("stl", "", "Also keep the tessellated mesh as STL at this path")
	buildCmd.Flags().String("scad", "", "Also write an OpenSCAD script of the construction")
	buildCmd.Flags().IntP("resolution", "r", 0, "Mesh cells along the longest side")
	buildCmd.Flags().Float64("fillet-radius", 0, "Fillet radius for the body edges")
	buildCmd.Flags().BoolVarP(&buildWatch, "watch", "w", false, "Rebuild whenever the params file changes")
}

// loadParams reads the params file and applies the overrides of whichever
// of the command's flags were set
func loadParams(cmd *cobra.Command, config string) (cup.Params, error) {
	p, err := cup.LoadParams(config)
	if err != nil {
		return cup.Params{}, err
	}
	flags := cmd.Flags()
	if flags.Changed("output") {
		p.Output.STEP, _ = flags.GetString("output")
	}
	if flags.Changed("stl") {
		p.Output.STL, _ = flags.GetString("stl")
	}
	if flags.Changed("scad") {
		p.Output.SCAD, _ = flags.GetString("scad")
	}
	if flags.Changed("resolution") {
		p.Output.Resolution, _ = flags.GetInt("resolution")
	}
	if flags.Changed("fillet-radius") {
		p.Fillet.Radius, _ = flags.GetFloat64("fillet-radius")
	}
	return p, nil
}

func runBuild(cmd *cobra.Command, args []string) error {
	if buildWatch && buildConfig == "" {
		return errors.New("--watch needs a params file (--config)")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	err := buildOnce(ctx, cmd)
	if !buildWatch {
		return err
	}
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
	}
	return watchParams(ctx, cmd)
}

func buildOnce(ctx context.Context, cmd *cobra.Command) error {
	p, err := loadParams(cmd, buildConfig)
	if err != nil {
		return err
	}

	start := time.Now()
	b := cup.NewBuilder(p, logger)
	b.Console = cmd.OutOrStdout()

	res, err := b.Build(ctx)
	if err != nil {
		return err
	}
	out, err := b.Export(ctx, res)
	if err != nil {
		return err
	}

	logger.Info("Build finished",
		zap.String("step", out.STEPPath),
		zap.Stringer("status", out.Status),
		zap.Duration("elapsed", time.Since(start)))

	if verbose {
		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "  Fillet: %d of %d edges accepted, applied: %t\n",
			res.Fillet.Accepted(), len(res.Fillet.Edges), res.Fillet.Applied)
		fmt.Fprintf(w, "  Faces: %d\n", out.Faces)
		fmt.Fprintf(w, "  Size: %s\n", analysis.FormatVector(out.Stats.Dimensions))
		fmt.Fprintf(w, "  Volume: %s\n", analysis.FormatMeasurement(out.Stats.Volume, "mm³"))
	}
	return nil
}

func watchParams(ctx context.Context, cmd *cobra.Command) error {
	fw, err := watcher.NewFileWatcher(200*time.Millisecond, logger)
	if err != nil {
		return err
	}
	defer fw.Close()

	rebuild := make(chan struct{}, 1)
	if err := fw.Watch([]string{buildConfig}, func(string) {
		select {
		case rebuild <- struct{}{}:
		default:
		}
	}); err != nil {
		return err
	}
	go fw.Run(ctx)

	fmt.Fprintf(cmd.OutOrStdout(), "Watching %s for changes (Ctrl+C to stop)\n", buildConfig)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-rebuild:
			if err := buildOnce(ctx, cmd); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
			}
		}
	}
}
