package config

import (
	"fmt"
	"math"

	"github.com/chazu/stencilstation/pkg/pen"
)

// ValidationSeverity indicates whether a finding rejects the configuration
// or is merely informational.
type ValidationSeverity int

const (
	SeverityError   ValidationSeverity = iota // rejects the configuration
	SeverityWarning                           // informational
)

func (s ValidationSeverity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("ValidationSeverity(%d)", int(s))
	}
}

// ValidationError describes a single validation finding.
type ValidationError struct {
	Field    string             // yaml key of the offending parameter
	Message  string             // human-readable description
	Severity ValidationSeverity // error or warning
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Severity, e.Field, e.Message)
}

// Generator names accepted by the generator key.
const (
	GeneratorBase       = "base"
	GeneratorGraphing   = "graphing"
	GeneratorDecorative = "decorative"
	GeneratorFunctions  = "functions"
	GeneratorMisc       = "misc"
	GeneratorAll        = "all"
)

// Generators lists the valid generator names in display order.
var Generators = []string{
	GeneratorBase,
	GeneratorGraphing,
	GeneratorDecorative,
	GeneratorFunctions,
	GeneratorMisc,
	GeneratorAll,
}

// MinSkin is the material left between a magnet pocket and the far face
// of its plate.
const MinSkin = 0.4

// maxResolution is the marching-cubes resolution above which renders get slow.
const maxResolution = 600

// Validate checks every parameter and returns all findings. An empty slice
// means the configuration is valid. Validate never mutates cfg.
func Validate(cfg Config) []ValidationError {
	var errs []ValidationError
	errs = append(errs, validateSizes(cfg)...)
	errs = append(errs, validateGraph(cfg)...)
	errs = append(errs, validatePen(cfg)...)
	errs = append(errs, validateMagnets(cfg)...)
	errs = append(errs, validateRender(cfg)...)
	errs = append(errs, validateCurves(cfg)...)
	return errs
}

func errorf(field, format string, args ...any) ValidationError {
	return ValidationError{Field: field, Message: fmt.Sprintf(format, args...), Severity: SeverityError}
}

func warnf(field, format string, args ...any) ValidationError {
	return ValidationError{Field: field, Message: fmt.Sprintf(format, args...), Severity: SeverityWarning}
}

func positive(field string, v float64) []ValidationError {
	if !(v > 0) || math.IsInf(v, 0) {
		return []ValidationError{errorf(field, "is %.4g, must be positive", v)}
	}
	return nil
}

func nonNegative(field string, v float64) []ValidationError {
	if !(v >= 0) || math.IsInf(v, 0) {
		return []ValidationError{errorf(field, "is %.4g, must not be negative", v)}
	}
	return nil
}

// validateSizes checks the physical dimensions of the plates.
func validateSizes(cfg Config) []ValidationError {
	var errs []ValidationError
	errs = append(errs, positive("window_width", cfg.WindowWidth)...)
	errs = append(errs, positive("window_height", cfg.WindowHeight)...)
	errs = append(errs, positive("plate_thickness", cfg.PlateThickness)...)
	errs = append(errs, positive("base_thickness", cfg.BaseThickness)...)
	errs = append(errs, nonNegative("margin", cfg.Margin)...)
	errs = append(errs, nonNegative("border_width", cfg.BorderWidth)...)
	errs = append(errs, nonNegative("tolerance", cfg.Tolerance)...)
	if cfg.Tolerance > cfg.PlateThickness/4 {
		errs = append(errs, errorf("tolerance", "%.4g is too large for a %.4g mm plate", cfg.Tolerance, cfg.PlateThickness))
	}
	return errs
}

// validateGraph rejects degenerate graph axes; a zero-width axis would
// divide by zero in every coordinate mapping.
func validateGraph(cfg Config) []ValidationError {
	var errs []ValidationError
	check := func(field string, lo, hi float64) {
		switch {
		case math.IsNaN(lo) || math.IsNaN(hi) || math.IsInf(lo, 0) || math.IsInf(hi, 0):
			errs = append(errs, errorf(field, "bounds must be finite"))
		case lo == hi:
			errs = append(errs, errorf(field, "degenerate axis: min and max are both %.4g", lo))
		case lo > hi:
			errs = append(errs, warnf(field, "min %.4g is greater than max %.4g; the axis is mirrored", lo, hi))
		}
	}
	check("graph.x", cfg.Graph.XMin, cfg.Graph.XMax)
	check("graph.y", cfg.Graph.YMin, cfg.Graph.YMax)
	if cfg.GridSpacing <= 0 {
		errs = append(errs, errorf("grid_spacing", "is %.4g, must be positive", cfg.GridSpacing))
	} else if span := math.Abs(cfg.Graph.XMax - cfg.Graph.XMin); span/cfg.GridSpacing > 200 {
		errs = append(errs, warnf("grid_spacing", "%.0f grid lines across the window", span/cfg.GridSpacing))
	}
	return errs
}

// validatePen checks the pen selection against the catalog and the plate.
func validatePen(cfg Config) []ValidationError {
	if cfg.Pen < 0 || cfg.Pen >= len(pen.Catalog) {
		return []ValidationError{errorf("pen", "index %d out of range [0,%d]", cfg.Pen, len(pen.Catalog)-1)}
	}
	p := pen.Catalog[cfg.Pen]
	if err := p.Validate(cfg.PlateThickness); err != nil {
		return []ValidationError{errorf("pen", "%s: %v", p.Name, err)}
	}
	return nil
}

// validateMagnets checks that the magnet sockets fit the base plate and border.
func validateMagnets(cfg Config) []ValidationError {
	var errs []ValidationError
	errs = append(errs, positive("magnet_diameter", cfg.MagnetDiameter)...)
	errs = append(errs, positive("magnet_thickness", cfg.MagnetThickness)...)
	errs = append(errs, nonNegative("magnet_clearance", cfg.MagnetClearance)...)
	// Pockets sit in the base top face and the frame bottom face.
	depth := cfg.MagnetThickness + cfg.MagnetClearance
	if depth+MinSkin > cfg.BaseThickness {
		errs = append(errs, errorf("magnet_thickness", "%.4g mm pockets leave less than %.4g mm of a %.4g mm base", depth, MinSkin, cfg.BaseThickness))
	}
	if depth+MinSkin > cfg.PlateThickness {
		errs = append(errs, errorf("magnet_thickness", "%.4g mm pockets leave less than %.4g mm of a %.4g mm frame", depth, MinSkin, cfg.PlateThickness))
	}
	if cfg.MagnetDiameter+cfg.MagnetClearance > cfg.BorderWidth {
		errs = append(errs, warnf("border_width", "%.4g mm border is narrower than the %.4g mm magnet sockets", cfg.BorderWidth, cfg.MagnetDiameter+cfg.MagnetClearance))
	}
	return errs
}

// validateRender checks resolution, sampling and the generator selection.
func validateRender(cfg Config) []ValidationError {
	var errs []ValidationError
	if cfg.Resolution <= 0 {
		errs = append(errs, errorf("resolution", "is %d, must be positive", cfg.Resolution))
	} else if cfg.Resolution > maxResolution {
		errs = append(errs, warnf("resolution", "%d cells per side will render slowly", cfg.Resolution))
	}
	if cfg.CurveSteps <= 0 {
		errs = append(errs, errorf("curve_steps", "is %d, must be positive", cfg.CurveSteps))
	}
	if cfg.Polar.Rings < 0 || cfg.Polar.Spokes < 0 {
		errs = append(errs, errorf("polar", "rings and spokes must not be negative"))
	}
	known := false
	for _, g := range Generators {
		if cfg.Generator == g {
			known = true
			break
		}
	}
	if !known {
		errs = append(errs, errorf("generator", "unknown generator %q", cfg.Generator))
	}
	return errs
}

// validateCurves checks user curve declarations. The Lisp source itself is
// compiled later by the engine.
func validateCurves(cfg Config) []ValidationError {
	var errs []ValidationError
	seen := make(map[string]bool)
	for i, c := range cfg.Curves {
		field := fmt.Sprintf("curves[%d]", i)
		if c.Name == "" {
			errs = append(errs, errorf(field, "name is required"))
		} else if seen[c.Name] {
			errs = append(errs, errorf(field, "duplicate curve name %q", c.Name))
		}
		seen[c.Name] = true
		if c.Source == "" {
			errs = append(errs, errorf(field, "source is required"))
		}
		if c.Steps < 0 {
			errs = append(errs, errorf(field, "steps is %d, must not be negative", c.Steps))
		}
	}
	return errs
}
