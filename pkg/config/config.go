// Package config holds the render-time parameters of the stencil station.
// A Config is read once at the start of a render (from YAML, over the
// defaults) and is read-only afterwards; it is passed explicitly to every
// builder instead of living in package-level state.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds every tunable of a render.
type Config struct {
	// Drawable window of the inserts, in mm.
	WindowWidth  float64 `yaml:"window_width"`
	WindowHeight float64 `yaml:"window_height"`

	// Solid material between the window edge and the border.
	Margin      float64 `yaml:"margin"`
	BorderWidth float64 `yaml:"border_width"`

	// Thickness of the stencil inserts and the top frame.
	PlateThickness float64 `yaml:"plate_thickness"`
	// Thickness of the magnetic base plate.
	BaseThickness float64 `yaml:"base_thickness"`

	MagnetDiameter  float64 `yaml:"magnet_diameter"`
	MagnetThickness float64 `yaml:"magnet_thickness"`
	MagnetClearance float64 `yaml:"magnet_clearance"`

	// Tolerance pushes cutting solids past coplanar faces.
	Tolerance float64 `yaml:"tolerance"`

	Graph GraphBounds `yaml:"graph"`

	// Resolution is the number of marching-cubes cells along the longest
	// side of a part.
	Resolution int `yaml:"resolution"`
	// CurveSteps is the default sample count for swept curves.
	CurveSteps int `yaml:"curve_steps"`

	// Pen selects an entry of the pen profile catalog.
	Pen int `yaml:"pen"`
	// Generator selects the assembly to emit.
	Generator string `yaml:"generator"`

	// GridSpacing is the graph-space distance between grid lines.
	GridSpacing float64    `yaml:"grid_spacing"`
	Polar       PolarGuide `yaml:"polar"`

	// SVGLayers lists vector files, one stencil insert per file.
	SVGLayers []string `yaml:"svg_layers"`
	// Curves are user-supplied parametric functions written in Lisp.
	Curves []CurveSpec `yaml:"curves"`
}

// GraphBounds are the "graphing calculator" axis bounds mapped onto the window.
type GraphBounds struct {
	XMin float64 `yaml:"x_min"`
	XMax float64 `yaml:"x_max"`
	YMin float64 `yaml:"y_min"`
	YMax float64 `yaml:"y_max"`
}

// PolarGuide configures the polar angle stencil.
type PolarGuide struct {
	Rings  int `yaml:"rings"`
	Spokes int `yaml:"spokes"`
}

// CurveSpec is a user curve: a Lisp program defining (curve t) -> [x y]
// in virtual coordinates.
type CurveSpec struct {
	Name   string `yaml:"name"`
	Source string `yaml:"source"`
	Steps  int    `yaml:"steps"`
}

// Default returns the stock configuration: a 100x100 mm window, 3 mm
// inserts and 10x2 mm disc magnets.
func Default() Config {
	return Config{
		WindowWidth:     100,
		WindowHeight:    100,
		Margin:          8,
		BorderWidth:     12,
		PlateThickness:  3,
		BaseThickness:   5,
		MagnetDiameter:  10,
		MagnetThickness: 2,
		MagnetClearance: 0.2,
		Tolerance:       0.01,
		Graph: GraphBounds{
			XMin: -10, XMax: 10,
			YMin: -10, YMax: 10,
		},
		Resolution:  200,
		CurveSteps:  60,
		Pen:         2,
		Generator:   GeneratorAll,
		GridSpacing: 1,
		Polar: PolarGuide{
			Rings:  4,
			Spokes: 12,
		},
	}
}

// InsertWidth is the outer width of a stencil insert (window plus margins).
func (c Config) InsertWidth() float64 {
	return c.WindowWidth + 2*c.Margin
}

// InsertHeight is the outer height of a stencil insert.
func (c Config) InsertHeight() float64 {
	return c.WindowHeight + 2*c.Margin
}

// OuterWidth is the width of the base plate and top frame.
func (c Config) OuterWidth() float64 {
	return c.InsertWidth() + 2*c.BorderWidth
}

// OuterHeight is the height of the base plate and top frame.
func (c Config) OuterHeight() float64 {
	return c.InsertHeight() + 2*c.BorderWidth
}

// InvalidError is returned when a configuration has blocking validation errors.
type InvalidError struct {
	Errors []ValidationError
}

func (e *InvalidError) Error() string {
	msgs := make([]string, len(e.Errors))
	for i, ve := range e.Errors {
		msgs[i] = ve.Error()
	}
	return "invalid configuration: " + strings.Join(msgs, "; ")
}

// Parse decodes YAML over the defaults and validates the result. Keys that
// are absent keep their default value.
func Parse(data []byte) (Config, []ValidationError, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, nil, fmt.Errorf("config: decode: %w", err)
	}
	return check(cfg)
}

// Load reads and parses a YAML configuration file. An empty path yields the
// defaults. Warnings are returned alongside a valid configuration.
func Load(path string) (Config, []ValidationError, error) {
	if path == "" {
		return check(Default())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg, warnings, err := Parse(data)
	if err != nil {
		return Config{}, warnings, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, warnings, nil
}

// check splits validation findings and rejects configurations with errors.
func check(cfg Config) (Config, []ValidationError, error) {
	var errs, warnings []ValidationError
	for _, ve := range Validate(cfg) {
		if ve.Severity == SeverityWarning {
			warnings = append(warnings, ve)
		} else {
			errs = append(errs, ve)
		}
	}
	if len(errs) > 0 {
		return Config{}, warnings, &InvalidError{Errors: errs}
	}
	return cfg, warnings, nil
}
