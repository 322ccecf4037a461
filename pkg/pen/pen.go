// Package pen describes the pens a stencil can guide and computes the
// cross-section of the groove cut for each of them.
//
// A groove is narrow at the paper (MinWidth, the tip) for ShaftDepth mm,
// then opens up along a bevel towards MaxWidth (the cone or barrel of the
// pen) until it reaches the top of the plate.
package pen

import (
	"errors"
	"fmt"
	"math"

	"github.com/chazu/stencilstation/pkg/geom"
)

// Profile is the immutable description of one pen's groove.
type Profile struct {
	Name       string  `json:"name"`
	MinWidth   float64 `json:"min_width"`   // groove width at the tip, mm
	MaxWidth   float64 `json:"max_width"`   // groove width at the top of the bevel, mm
	BevelAngle float64 `json:"bevel_angle"` // included angle of the pen cone, degrees
	ShaftDepth float64 `json:"shaft_depth"` // height of the straight tip section, mm
}

// Catalog is the fixed table of supported pens, selected by index.
var Catalog = [7]Profile{
	{Name: "fineliner-0.3", MinWidth: 0.8, MaxWidth: 1.6, BevelAngle: 60, ShaftDepth: 1.0},
	{Name: "fineliner-0.5", MinWidth: 1.0, MaxWidth: 2.0, BevelAngle: 60, ShaftDepth: 1.0},
	{Name: "gel-0.7", MinWidth: 1.4, MaxWidth: 3.0, BevelAngle: 70, ShaftDepth: 1.2},
	{Name: "ballpoint", MinWidth: 1.6, MaxWidth: 3.5, BevelAngle: 80, ShaftDepth: 1.0},
	{Name: "pencil-0.5", MinWidth: 0.9, MaxWidth: 2.0, BevelAngle: 40, ShaftDepth: 1.5},
	{Name: "bullet-marker", MinWidth: 2.4, MaxWidth: 5.0, BevelAngle: 90, ShaftDepth: 0.8},
	{Name: "straight-2mm", MinWidth: 2.0, MaxWidth: 2.0, BevelAngle: 90, ShaftDepth: 1.5},
}

// ErrUnknownPen is returned by Select for an out-of-range index.
var ErrUnknownPen = errors.New("pen: unknown profile index")

// Select returns the catalog entry at index i.
func Select(i int) (Profile, error) {
	if i < 0 || i >= len(Catalog) {
		return Profile{}, fmt.Errorf("%w: %d (catalog has %d entries)", ErrUnknownPen, i, len(Catalog))
	}
	return Catalog[i], nil
}

// degenerateEps is the bevel height below which a groove is straight-walled.
const degenerateEps = 1e-6

// Validate checks the profile invariants against a plate thickness.
func (p Profile) Validate(plate float64) error {
	finite := func(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
	switch {
	case !finite(p.MinWidth) || !finite(p.MaxWidth) || !finite(p.BevelAngle) || !finite(p.ShaftDepth):
		return errors.New("profile parameters must be finite")
	case p.MinWidth <= 0:
		return fmt.Errorf("min width %.4g must be positive", p.MinWidth)
	case p.MinWidth > p.MaxWidth:
		return fmt.Errorf("min width %.4g exceeds max width %.4g", p.MinWidth, p.MaxWidth)
	case p.BevelAngle <= 0 || p.BevelAngle >= 180:
		return fmt.Errorf("bevel angle %.4g must be in (0, 180) degrees", p.BevelAngle)
	case p.ShaftDepth < 0:
		return fmt.Errorf("shaft depth %.4g must not be negative", p.ShaftDepth)
	case p.ShaftDepth > plate:
		return fmt.Errorf("shaft depth %.4g exceeds plate thickness %.4g", p.ShaftDepth, plate)
	}
	return nil
}

// BevelHeight returns the height of the bevel above the shaft. The bevel
// ends where the wall reaches MaxWidth or the top of the plate, whichever
// comes first; it is never taller than the material above the shaft. When
// both happen at the same height the groove is cut straight-walled.
func (p Profile) BevelHeight(plate float64) float64 {
	theta := (90 - p.BevelAngle/2) * math.Pi / 180
	adj := (p.MaxWidth - p.MinWidth) / 2
	opp := plate - p.ShaftDepth
	toWidth := adj / math.Cos(theta)
	toTop := opp / math.Sin(theta)
	if math.Abs(toWidth-toTop) <= degenerateEps {
		return 0
	}
	h := math.Min(toWidth, toTop)
	h = math.Min(h, opp)
	if h <= degenerateEps || math.IsNaN(h) {
		return 0
	}
	return h
}

// Straight reports whether the groove degenerates to a straight-walled channel.
func (p Profile) Straight(plate float64) bool {
	return p.BevelHeight(plate) == 0
}

// ConstructionError reports a profile polygon that cannot be handed to a
// boolean stage.
type ConstructionError struct {
	Profile Profile
	Err     error
}

func (e *ConstructionError) Error() string {
	return fmt.Sprintf("pen: profile %q: %v", e.Profile.Name, e.Err)
}

func (e *ConstructionError) Unwrap() error {
	return e.Err
}

// HalfProfile returns the right half of the groove cross-section in the
// (lateral, height) plane, starting at the floor center and running
// counter-clockwise to the top center. The floor and top are pushed out by
// tol so the cut fully pierces the plate.
func (p Profile) HalfProfile(plate, tol float64) (geom.Polygon, error) {
	if err := p.Validate(plate); err != nil {
		return nil, &ConstructionError{Profile: p, Err: err}
	}
	floor, top := -tol, plate+tol
	var half geom.Polygon
	if bt := p.BevelHeight(plate); bt == 0 {
		w := p.MinWidth / 2
		half = geom.Polygon{
			{X: 0, Y: floor},
			{X: w, Y: floor},
			{X: w, Y: top},
			{X: 0, Y: top},
		}
	} else {
		half = geom.Polygon{
			{X: 0, Y: floor},
			{X: p.MinWidth / 2, Y: floor},
			{X: p.MinWidth / 2, Y: p.ShaftDepth},
			{X: p.MaxWidth / 2, Y: p.ShaftDepth + bt},
		}
		if top-(p.ShaftDepth+bt) > degenerateEps {
			half = append(half, geom.Vec2{X: p.MaxWidth / 2, Y: top})
		}
		half = append(half, geom.Vec2{X: 0, Y: top})
	}
	if err := half.Validate(); err != nil {
		return nil, &ConstructionError{Profile: p, Err: err}
	}
	return half, nil
}

// CrossSection returns the full, mirrored groove cross-section centered on
// the lateral origin.
func (p Profile) CrossSection(plate, tol float64) (geom.Polygon, error) {
	half, err := p.HalfProfile(plate, tol)
	if err != nil {
		return nil, err
	}
	// Drop the two center vertices; they would sit mid-edge.
	right := half[1 : len(half)-1]
	full := make(geom.Polygon, 0, 2*len(right))
	full = append(full, right...)
	full = append(full, right.MirrorX()...)
	if err := full.Validate(); err != nil {
		return nil, &ConstructionError{Profile: p, Err: err}
	}
	return full, nil
}
