// Package stencil describes stencil inserts as data: the grooves, holes
// and outlines to cut, all in scene millimeters. A Design knows nothing
// about solids until Cutter hands it to a track.Builder.
package stencil

import (
	"errors"
	"fmt"

	"github.com/chazu/stencilstation/pkg/curve"
	"github.com/chazu/stencilstation/pkg/geom"
	"github.com/chazu/stencilstation/pkg/kernel"
	"github.com/chazu/stencilstation/pkg/track"
)

// ErrEmptyDesign is returned when a design produces no cutter at all.
var ErrEmptyDesign = errors.New("stencil: design has nothing to cut")

// Line is a straight groove with rounded ends.
type Line struct {
	From geom.Vec2
	To   geom.Vec2
}

// Circle is a round hole traced at Radius around Center.
type Circle struct {
	Center geom.Vec2
	Radius float64
}

// Sweep is a sampled curve in scene coordinates.
type Sweep struct {
	Name string
	Path curve.Path
}

// Design is one stencil insert.
type Design struct {
	Name     string
	Lines    []Line
	Holes    []Circle
	Sockets  []geom.Vec2
	Sweeps   []Sweep
	Outlines []geom.Polygon
}

// IsEmpty reports whether the design has no features.
func (d *Design) IsEmpty() bool {
	return len(d.Lines) == 0 && len(d.Holes) == 0 && len(d.Sockets) == 0 &&
		len(d.Sweeps) == 0 && len(d.Outlines) == 0
}

// Bounds returns the extent of all feature positions (not widened by the
// groove width).
func (d *Design) Bounds() geom.Box2 {
	b := geom.EmptyBox()
	for _, l := range d.Lines {
		b = b.Extend(l.From).Extend(l.To)
	}
	for _, h := range d.Holes {
		r := geom.V2(h.Radius, h.Radius)
		b = b.Extend(h.Center.Sub(r)).Extend(h.Center.Add(r))
	}
	for _, s := range d.Sockets {
		b = b.Extend(s)
	}
	for _, s := range d.Sweeps {
		for _, p := range s.Path.Points() {
			b = b.Extend(p)
		}
	}
	for _, o := range d.Outlines {
		ob := o.Bounds()
		b = b.Extend(ob.Min).Extend(ob.Max)
	}
	return b
}

// Report summarizes what Cutter built and what it had to skip.
type Report struct {
	Features int
	Segments int
	Sockets  int
	Culled   int
	// EmptySweeps names sweeps whose every sample was culled.
	EmptySweeps []string
}

// Cutter builds the union of every feature's cutting solid. Sweeps that
// lose every sample are reported and skipped; any other construction
// failure is returned.
func (d *Design) Cutter(b *track.Builder) (kernel.Solid, Report, error) {
	var (
		parts []kernel.Solid
		rep   Report
	)
	add := func(s kernel.Solid) {
		parts = append(parts, s)
		rep.Features++
	}

	for i, l := range d.Lines {
		s, err := b.Line(l.From, l.To)
		if err != nil {
			return nil, rep, fmt.Errorf("stencil: %s: line %d: %w", d.Name, i, err)
		}
		add(s)
	}
	for i, h := range d.Holes {
		s, err := b.Hole(h.Center, h.Radius)
		if err != nil {
			return nil, rep, fmt.Errorf("stencil: %s: hole %d: %w", d.Name, i, err)
		}
		add(s)
	}
	for i, p := range d.Sockets {
		s, err := b.Socket(p)
		if err != nil {
			return nil, rep, fmt.Errorf("stencil: %s: socket %d: %w", d.Name, i, err)
		}
		add(s)
	}
	for _, sw := range d.Sweeps {
		res, err := b.Sweep(sw.Path)
		if errors.Is(err, track.ErrEmptySweep) {
			rep.EmptySweeps = append(rep.EmptySweeps, sw.Name)
			rep.Culled += sw.Path.Culled()
			continue
		}
		if err != nil {
			return nil, rep, fmt.Errorf("stencil: %s: sweep %s: %w", d.Name, sw.Name, err)
		}
		add(res.Solid)
		rep.Segments += res.Segments
		rep.Sockets += res.Sockets
		rep.Culled += res.Culled
	}
	for i, o := range d.Outlines {
		s, err := b.Outline(o)
		if err != nil {
			return nil, rep, fmt.Errorf("stencil: %s: outline %d: %w", d.Name, i, err)
		}
		add(s)
	}

	if len(parts) == 0 {
		return nil, rep, fmt.Errorf("%w: %s", ErrEmptyDesign, d.Name)
	}
	return b.Kernel().Union(parts[0], parts[1:]...), rep, nil
}
