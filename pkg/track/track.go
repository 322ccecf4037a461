// Package track turns a pen profile into the solids that cut pen-guiding
// grooves into a stencil plate.
//
// All positions are scene coordinates in mm on the plate's XY plane. The
// plate occupies z in [0, Plate]; every cutter spans [-Tolerance,
// Plate+Tolerance] so it pierces both faces cleanly.
package track

import (
	"errors"
	"fmt"

	"github.com/chazu/stencilstation/pkg/curve"
	"github.com/chazu/stencilstation/pkg/geom"
	"github.com/chazu/stencilstation/pkg/kernel"
	"github.com/chazu/stencilstation/pkg/pen"
)

// minSegment is the chord length below which a segment is dropped; the
// sockets at its ends already cover it.
const minSegment = 1e-6

var (
	// ErrEmptySweep is returned when a path has no usable sample.
	ErrEmptySweep = errors.New("track: sweep has no usable samples")
	// ErrRingTooSmall is returned for a ring whose groove would cross its center.
	ErrRingTooSmall = errors.New("track: ring radius smaller than groove half-width")
)

// Builder creates groove cutters for one pen on one plate thickness.
type Builder struct {
	k       kernel.Kernel
	profile pen.Profile
	plate   float64
	tol     float64

	half    kernel.Shape // right half profile, for revolving
	section kernel.Shape // full cross-section, for extruding
	width   float64      // widest groove width
}

// NewBuilder validates the profile against the plate and prepares its
// half and full cross-sections.
func NewBuilder(k kernel.Kernel, p pen.Profile, plate, tol float64) (*Builder, error) {
	half, err := p.HalfProfile(plate, tol)
	if err != nil {
		return nil, fmt.Errorf("track: %w", err)
	}
	full, err := p.CrossSection(plate, tol)
	if err != nil {
		return nil, fmt.Errorf("track: %w", err)
	}
	hs, err := k.Polygon(half)
	if err != nil {
		return nil, fmt.Errorf("track: half profile: %w", err)
	}
	fs, err := k.Polygon(full)
	if err != nil {
		return nil, fmt.Errorf("track: cross-section: %w", err)
	}
	return &Builder{
		k:       k,
		profile: p,
		plate:   plate,
		tol:     tol,
		half:    hs,
		section: fs,
		width:   full.Bounds().Size().X,
	}, nil
}

// Profile returns the pen profile the builder cuts for.
func (b *Builder) Profile() pen.Profile { return b.profile }

// Kernel returns the kernel the builder creates solids with.
func (b *Builder) Kernel() kernel.Kernel { return b.k }

// Width returns the widest groove width, at the top of the plate.
func (b *Builder) Width() float64 { return b.width }

// Socket is a round hole shaped like the pen: the half profile revolved
// around a vertical axis through p.
func (b *Builder) Socket(p geom.Vec2) (kernel.Solid, error) {
	s, err := b.k.Revolve(b.half)
	if err != nil {
		return nil, fmt.Errorf("track: socket at %v: %w", p, err)
	}
	return b.k.Translate(s, p.X, p.Y, 0), nil
}

// Segment extrudes the cross-section along the chord seg, centered
// between its ends.
func (b *Builder) Segment(seg curve.Segment) (kernel.Solid, error) {
	if !(seg.Length > minSegment) {
		return nil, fmt.Errorf("track: segment %v -> %v is too short (%g mm)", seg.From, seg.To, seg.Length)
	}
	s := b.k.Extrude(b.section, seg.Length)
	// Stand the profile up (lateral stays X, height becomes Z), then turn
	// the extrusion axis onto the chord bearing.
	s = b.k.Rotate(s, 90, 0, seg.Bearing-90)
	mid := seg.Mid()
	return b.k.Translate(s, mid.X, mid.Y, 0), nil
}

// Line is a straight groove from a to b with rounded ends.
func (b *Builder) Line(from, to geom.Vec2) (kernel.Solid, error) {
	seg, err := b.Segment(curve.NewSegment(from, to))
	if err != nil {
		return nil, err
	}
	capA, err := b.Socket(from)
	if err != nil {
		return nil, err
	}
	capB, err := b.Socket(to)
	if err != nil {
		return nil, err
	}
	return b.k.Union(seg, capA, capB), nil
}

// Ring is a circular groove of radius r around c: the cross-section
// offset by r and revolved.
func (b *Builder) Ring(c geom.Vec2, r float64) (kernel.Solid, error) {
	if r < b.width/2 {
		return nil, fmt.Errorf("%w: r=%g, half-width=%g", ErrRingTooSmall, r, b.width/2)
	}
	s, err := b.k.Revolve(b.k.Translate2D(b.section, r, 0))
	if err != nil {
		return nil, fmt.Errorf("track: ring r=%g: %w", r, err)
	}
	return b.k.Translate(s, c.X, c.Y, 0), nil
}

// Hole is a round opening whose wall is the pen profile, so the pen tip
// traces a circle of radius r around c.
func (b *Builder) Hole(c geom.Vec2, r float64) (kernel.Solid, error) {
	ring, err := b.Ring(c, r)
	if err != nil {
		return nil, err
	}
	core, err := b.k.Cylinder(b.plate+2*b.tol, r)
	if err != nil {
		return nil, fmt.Errorf("track: hole r=%g: %w", r, err)
	}
	core = b.k.Translate(core, c.X, c.Y, b.plate/2)
	return b.k.Union(ring, core), nil
}

// SweepResult is a swept groove plus what the sampler had to drop.
type SweepResult struct {
	Solid    kernel.Solid
	Segments int // extruded chords
	Sockets  int // rounded joints
	Culled   int // skipped samples
}

// Sweep cuts a groove along a sampled path given in scene coordinates:
// one extruded chord per usable segment and a socket at every usable
// sample so consecutive chords join without gaps. Skipped samples break
// the groove locally but never abort the sweep.
func (b *Builder) Sweep(path curve.Path) (SweepResult, error) {
	res := SweepResult{Culled: path.Culled()}
	var parts []kernel.Solid

	for _, seg := range path.Segments() {
		if seg.Length <= minSegment {
			continue
		}
		s, err := b.Segment(seg)
		if err != nil {
			return SweepResult{}, err
		}
		parts = append(parts, s)
		res.Segments++
	}

	var last geom.Vec2
	placed := false
	for _, smp := range path.Samples {
		if !smp.OK() {
			continue
		}
		if placed && smp.P.ApproxEqual(last, minSegment) {
			continue
		}
		s, err := b.Socket(smp.P)
		if err != nil {
			return SweepResult{}, err
		}
		parts = append(parts, s)
		res.Sockets++
		last, placed = smp.P, true
	}

	if len(parts) == 0 {
		return SweepResult{}, ErrEmptySweep
	}
	res.Solid = b.k.Union(parts[0], parts[1:]...)
	return res, nil
}

// Outline cuts straight through the plate along a closed 2D outline, for
// shapes imported from vector files.
func (b *Builder) Outline(poly geom.Polygon) (kernel.Solid, error) {
	s, err := b.k.Polygon(poly)
	if err != nil {
		return nil, fmt.Errorf("track: outline: %w", err)
	}
	h := b.plate + 2*b.tol
	return b.k.Translate(b.k.Extrude(s, h), 0, 0, b.plate/2), nil
}
