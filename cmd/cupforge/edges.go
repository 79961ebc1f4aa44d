package main

import (
	"fmt"
	"io"

	"github.com/philipparndt/cupforge/pkg/cup"
	"github.com/spf13/cobra"
)

var (
	edgesConfig       string
	edgesFilletRadius float64
)

var edgesCmd = &cobra.Command{
	Use:   "edges",
	Short: "List the hollow body's edges and their fillet verdicts",
	Long:  "Build the hollow body and show, for every edge, whether the configured fillet radius can be applied and why not.",
	Args:  cobra.NoArgs,
	RunE:  runEdges,
}

func init() {
	rootCmd.AddCommand(edgesCmd)

	edgesCmd.Flags().StringVarP(&edgesConfig, "config", "c", "", "YAML params file")
	edgesCmd.Flags().Float64Var(&edgesFilletRadius, "fillet-radius", 0, "Fillet radius to test")
}

func runEdges(cmd *cobra.Command, args []string) error {
	p, err := loadParams(cmd, edgesConfig)
	if err != nil {
		return err
	}

	b := cup.NewBuilder(p, logger)
	b.Console = io.Discard
	res, err := b.Build(cmd.Context())
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	report := res.Fillet
	fmt.Fprintf(w, "Fillet radius %.3f: %d of %d edges accepted\n", report.Radius, report.Accepted(), len(report.Edges))
	fmt.Fprintln(w, "====================")
	fmt.Fprintf(w, "%-6s %-50s %s\n", "Index", "Edge", "Verdict")
	for i, e := range report.Edges {
		verdict := "accepted"
		if !e.Accepted() {
			verdict = e.Err.Error()
		}
		fmt.Fprintf(w, "%-6d %-50s %s\n", i+1, e.Edge.String(), verdict)
	}

	switch {
	case report.Applied:
		fmt.Fprintln(w, "\nRounded body is used.")
	case report.ShapeErr != nil:
		fmt.Fprintf(w, "\nRounding failed (%v); the sharp body is used.\n", report.ShapeErr)
	default:
		fmt.Fprintln(w, "\nNo edge can be rounded; the sharp body is used.")
	}
	return nil
}
