package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/chazu/stencilstation/pkg/kernel/bbox"
	"github.com/chazu/stencilstation/pkg/preview"
	"github.com/chazu/stencilstation/pkg/studio"
)

var (
	previewOut       string
	previewGenerator string
	previewScale     float64
)

// previewCmd draws the stencil inserts as PNG images.
var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Draw a top-view PNG of every stencil insert",
	Long: `Generates the inserts selected by --generator and draws each one as
seen from above: the plate, the window outline, and every groove, hole,
and socket the cutter removes. No meshes are built, so previews are fast.`,
	Args: cobra.NoArgs,
	RunE: runPreview,
}

func init() {
	previewCmd.Flags().StringVarP(&previewOut, "out", "o", "out", "Output directory")
	previewCmd.Flags().StringVarP(&previewGenerator, "generator", "g", "", "Generator to run (overrides the configuration)")
	previewCmd.Flags().Float64Var(&previewScale, "scale", preview.DefaultPixelsPerMM, "Pixels per millimetre")
}

func runPreview(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	kind, err := resolveKind(previewGenerator, cfg)
	if err != nil {
		return err
	}

	// Planning only validates track profiles; the bounding-box kernel
	// keeps it free of geometry work.
	app := studio.NewApp(bbox.New(), logger)
	plan, err := app.Plan(cfg, kind, false)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, w := range plan.Warnings {
		fmt.Fprintf(out, "warning: %s\n", w)
	}
	if len(plan.Designs) == 0 {
		fmt.Fprintf(out, "generator %s has no stencil designs to preview\n", kind)
		return nil
	}

	if err := os.MkdirAll(previewOut, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	opts := preview.Options{PixelsPerMM: previewScale, Groove: plan.Groove()}
	for _, d := range plan.Designs {
		path := filepath.Join(previewOut, d.Name+".png")
		if err := preview.SavePNG(path, d, cfg, opts); err != nil {
			return err
		}
		fmt.Fprintln(out, path)
	}
	return nil
}
