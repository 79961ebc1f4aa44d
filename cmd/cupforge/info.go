package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/philipparndt/cupforge/pkg/analysis"
	"github.com/philipparndt/cupforge/pkg/openscad"
	"github.com/philipparndt/cupforge/pkg/stl"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var infoCmd = &cobra.Command{
	Use:   "info [file]",
	Short: "Display mesh statistics of an STL or OpenSCAD file",
	Long: `Show dimensions, triangle count, surface area, enclosed volume and edge
statistics. OpenSCAD scripts (for example from build --scad) are rendered with
the openscad binary first.`,
	Args: cobra.ExactArgs(1),
	RunE: runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	filename := args[0]
	meshFile := filename

	if strings.EqualFold(filepath.Ext(filename), ".scad") {
		dir, err := os.MkdirTemp("", "cupforge-info-")
		if err != nil {
			return err
		}
		defer os.RemoveAll(dir)

		meshFile = filepath.Join(dir, "render.stl")
		workDir, err := os.Getwd()
		if err != nil {
			return err
		}
		logger.Debug("Rendering OpenSCAD script", zap.String("file", filename))
		if err := openscad.NewRenderer(workDir).RenderToSTL(cmd.Context(), filename, meshFile); err != nil {
			return err
		}
	}

	model, err := stl.Parse(meshFile)
	if err != nil {
		return fmt.Errorf("parsing STL file: %w", err)
	}

	result := analysis.AnalyzeModel(model)
	w := cmd.OutOrStdout()

	fmt.Fprintln(w, "Mesh Information")
	fmt.Fprintln(w, "================")
	if model.Name != "" {
		fmt.Fprintf(w, "Name: %s\n", model.Name)
	}
	fmt.Fprintf(w, "File: %s\n\n", filename)

	fmt.Fprintln(w, "Model Statistics:")
	fmt.Fprintf(w, "  Triangles: %d\n", result.TriangleCount)
	if result.DegenerateTris > 0 {
		fmt.Fprintf(w, "  Degenerate triangles: %d\n", result.DegenerateTris)
	}
	fmt.Fprintf(w, "  Edges: %d\n", result.EdgeCount)
	fmt.Fprintf(w, "  Surface Area: %.6f square units\n", result.SurfaceArea)
	fmt.Fprintf(w, "  Volume: %.6f cubic units\n\n", result.Volume)

	fmt.Fprintln(w, "Bounding Box:")
	fmt.Fprintf(w, "  Min: %s\n", analysis.FormatVector(result.BoundingBox.Min))
	fmt.Fprintf(w, "  Max: %s\n", analysis.FormatVector(result.BoundingBox.Max))
	fmt.Fprintf(w, "  Center: %s\n\n", analysis.FormatVector(result.BoundingBox.Center()))

	fmt.Fprintln(w, "Dimensions:")
	fmt.Fprintf(w, "  Width (X): %.6f units\n", result.Dimensions.X)
	fmt.Fprintf(w, "  Depth (Y): %.6f units\n", result.Dimensions.Y)
	fmt.Fprintf(w, "  Height (Z): %.6f units\n", result.Dimensions.Z)
	fmt.Fprintf(w, "  Diagonal: %.6f units\n", result.BoundingBox.Diagonal())
	fmt.Fprintf(w, "  Box Volume: %.6f cubic units\n\n", result.BoxVolume)

	fmt.Fprintln(w, "Edge Lengths:")
	fmt.Fprintf(w, "  Minimum: %.6f units\n", result.MinEdgeLength)
	fmt.Fprintf(w, "  Maximum: %.6f units\n", result.MaxEdgeLength)
	fmt.Fprintf(w, "  Average: %.6f units\n", result.AvgEdgeLength)
	return nil
}
