// Package coords translates between the three coordinate spaces of a
// stencil:
//
//   - virtual (T): normalized [-1,1] x [-1,1], independent of plate size,
//   - scene (S): physical millimeters on the plate, centered on the window,
//   - graph (G): user-chosen "graphing calculator" bounds.
//
// All mappings are affine interpolations between axis bounds.
package coords

import (
	"errors"
	"fmt"
	"math"
)

// ErrDegenerateAxis is returned when an axis has zero width.
var ErrDegenerateAxis = errors.New("coords: degenerate axis")

// Axis is the (Min, Max) bound pair of a 1-D linear space.
type Axis struct {
	Min float64
	Max float64
}

// Span returns Max - Min.
func (a Axis) Span() float64 {
	return a.Max - a.Min
}

// Validate rejects non-finite and zero-width axes.
func (a Axis) Validate() error {
	if math.IsNaN(a.Min) || math.IsNaN(a.Max) || math.IsInf(a.Min, 0) || math.IsInf(a.Max, 0) {
		return fmt.Errorf("coords: axis [%g, %g] is not finite", a.Min, a.Max)
	}
	if a.Min == a.Max {
		return fmt.Errorf("%w: [%g, %g]", ErrDegenerateAxis, a.Min, a.Max)
	}
	return nil
}

// Map carries v from axis a to axis b:
//
//	(v - a.Min) * (b.Max - b.Min) / (a.Max - a.Min) + b.Min
func Map(v float64, a, b Axis) (float64, error) {
	if a.Max == a.Min {
		return 0, fmt.Errorf("%w: [%g, %g]", ErrDegenerateAxis, a.Min, a.Max)
	}
	return lerp(v, a, b), nil
}

// lerp is Map without the degenerate-axis check.
func lerp(v float64, a, b Axis) float64 {
	return (v-a.Min)*(b.Max-b.Min)/(a.Max-a.Min) + b.Min
}

// Space is a 2-D coordinate space: one axis per dimension.
type Space struct {
	X Axis
	Y Axis
}

// Validate checks both axes.
func (s Space) Validate() error {
	if err := s.X.Validate(); err != nil {
		return fmt.Errorf("x: %w", err)
	}
	if err := s.Y.Validate(); err != nil {
		return fmt.Errorf("y: %w", err)
	}
	return nil
}

// Virtual is the normalized space shared by every stencil.
var Virtual = Space{X: Axis{Min: -1, Max: 1}, Y: Axis{Min: -1, Max: 1}}
