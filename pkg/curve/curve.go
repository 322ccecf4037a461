// Package curve samples parametric curves in virtual space and turns them
// into polylines ready to be swept by a pen track.
//
// Curve functions are arbitrary (they may come from user Lisp code), so
// evaluation is fallible: a sample whose evaluation fails, is not finite,
// or leaves the culling window is skipped and never aborts the sweep.
package curve

import (
	"errors"
	"fmt"
	"math"

	"github.com/chazu/stencilstation/pkg/geom"
)

// CullBound is the virtual-space half-width beyond which samples are
// dropped. It is larger than the [-1,1] window so tracks leaving the window
// still run cleanly off the edge of the insert.
const CullBound = 1.9

// Func maps a parameter t in [-1, 1] to a point in virtual space.
type Func func(t float64) (geom.Vec2, error)

// ErrNotFinite marks a sample whose value is NaN or infinite.
var ErrNotFinite = errors.New("curve: value is not finite")

// ErrOutOfBounds marks a sample outside the culling window.
var ErrOutOfBounds = errors.New("curve: value outside culling window")

// Sample is one evaluation of a curve.
type Sample struct {
	T   float64
	P   geom.Vec2
	Err error // nil when the sample is usable
}

// OK reports whether the sample takes part in the sweep.
func (s Sample) OK() bool {
	return s.Err == nil
}

// Path is the sampled polyline of a curve.
type Path struct {
	Samples []Sample
}

// SamplePath evaluates f at steps+1 evenly spaced parameters from -1 to 1
// inclusive. Samples that fail, are not finite, or fall outside CullBound
// are kept with a non-nil Err.
func SamplePath(f Func, steps int) (Path, error) {
	if steps <= 0 {
		return Path{}, fmt.Errorf("curve: steps must be positive, got %d", steps)
	}
	samples := make([]Sample, steps+1)
	for i := 0; i <= steps; i++ {
		t := -1 + 2*float64(i)/float64(steps)
		samples[i] = evaluate(f, t)
	}
	return Path{Samples: samples}, nil
}

// evaluate runs f once, turning panics and bad values into sample errors.
func evaluate(f Func, t float64) (s Sample) {
	s.T = t
	defer func() {
		if r := recover(); r != nil {
			s.Err = fmt.Errorf("curve: panic at t=%g: %v", t, r)
		}
	}()
	p, err := f(t)
	switch {
	case err != nil:
		s.Err = err
	case !p.IsFinite():
		s.Err = fmt.Errorf("%w at t=%g", ErrNotFinite, t)
	case math.Abs(p.X) > CullBound || math.Abs(p.Y) > CullBound:
		s.Err = fmt.Errorf("%w at t=%g: %v", ErrOutOfBounds, t, p)
	}
	s.P = p
	return s
}

// Points returns the positions of the usable samples.
func (p Path) Points() []geom.Vec2 {
	pts := make([]geom.Vec2, 0, len(p.Samples))
	for _, s := range p.Samples {
		if s.OK() {
			pts = append(pts, s.P)
		}
	}
	return pts
}

// Culled returns the number of skipped samples.
func (p Path) Culled() int {
	n := 0
	for _, s := range p.Samples {
		if !s.OK() {
			n++
		}
	}
	return n
}

// Segment is the chord between two consecutive usable samples.
type Segment struct {
	From    geom.Vec2
	To      geom.Vec2
	Length  float64
	Bearing float64 // degrees counter-clockwise from +X
}

// Mid returns the chord midpoint.
func (s Segment) Mid() geom.Vec2 {
	return s.From.Lerp(s.To, 0.5)
}

// NewSegment builds the chord from a to b.
func NewSegment(a, b geom.Vec2) Segment {
	d := b.Sub(a)
	return Segment{From: a, To: b, Length: d.Length(), Bearing: d.Bearing()}
}

// Segments returns one chord per pair of consecutive samples where both
// samples are usable. A skipped sample suppresses the two chords touching
// it; the rest of the path is unaffected.
func (p Path) Segments() []Segment {
	var segs []Segment
	for i := 1; i < len(p.Samples); i++ {
		a, b := p.Samples[i-1], p.Samples[i]
		if !a.OK() || !b.OK() {
			continue
		}
		segs = append(segs, NewSegment(a.P, b.P))
	}
	return segs
}

// TotalLength sums the chord lengths.
func (p Path) TotalLength() float64 {
	var l float64
	for _, s := range p.Segments() {
		l += s.Length
	}
	return l
}

// Map returns a copy of the path with every sample position transformed,
// typically virtual -> scene. Sample errors are preserved.
func (p Path) Map(fn func(geom.Vec2) geom.Vec2) Path {
	out := Path{Samples: make([]Sample, len(p.Samples))}
	for i, s := range p.Samples {
		out.Samples[i] = Sample{T: s.T, P: fn(s.P), Err: s.Err}
	}
	return out
}
