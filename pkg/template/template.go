// Package template builds the fixed parts of the stencil station: the
// magnetic base plate, the top frame that clamps an insert, and the
// insert blank every stencil is cut from.
//
// Parts are modeled lying on the print bed: z runs from 0 up to the
// part's thickness, and the window center is the XY origin.
package template

import (
	"fmt"

	"github.com/chazu/stencilstation/pkg/config"
	"github.com/chazu/stencilstation/pkg/geom"
	"github.com/chazu/stencilstation/pkg/kernel"
)

const (
	// TabWidth and TabDepth size the alignment tabs on the insert's left
	// and right edges.
	TabWidth = 8.0
	TabDepth = 2.0
	// FitClearance is the gap between an insert and the frame opening.
	FitClearance = 0.2
)

// Plates builds template parts for one configuration.
type Plates struct {
	k   kernel.Kernel
	cfg config.Config
}

// New returns a Plates for cfg.
func New(k kernel.Kernel, cfg config.Config) *Plates {
	return &Plates{k: k, cfg: cfg}
}

// slab is a w x h plate of thickness z resting on z=0.
func (p *Plates) slab(w, h, z float64) (kernel.Solid, error) {
	r, err := p.k.Rect(w, h)
	if err != nil {
		return nil, err
	}
	return p.lay(r, z), nil
}

// lay extrudes a footprint to thickness z resting on z=0.
func (p *Plates) lay(s kernel.Shape, z float64) kernel.Solid {
	return p.k.Translate(p.k.Extrude(s, z), 0, 0, z/2)
}

// insertOutline is the footprint of an insert: the plate with one tab on
// each side.
func (p *Plates) insertOutline() (kernel.Shape, error) {
	cfg := p.cfg
	body, err := p.k.Rect(cfg.InsertWidth(), cfg.InsertHeight())
	if err != nil {
		return nil, err
	}
	tab, err := p.k.Rect(TabDepth, TabWidth)
	if err != nil {
		return nil, err
	}
	x := cfg.InsertWidth()/2 + TabDepth/2
	return p.k.Union2D(body, p.k.Translate2D(tab, x, 0), p.k.Translate2D(tab, -x, 0)), nil
}

// MagnetPositions returns the magnet centers, one per border corner.
func (p *Plates) MagnetPositions() []geom.Vec2 {
	x := p.cfg.OuterWidth()/2 - p.cfg.BorderWidth/2
	y := p.cfg.OuterHeight()/2 - p.cfg.BorderWidth/2
	return []geom.Vec2{{X: x, Y: y}, {X: -x, Y: y}, {X: x, Y: -y}, {X: -x, Y: -y}}
}

// magnetPockets cuts the four magnet pockets into the face of a plate of
// thickness z: the top face when top is set, the bottom face otherwise.
// The pocket depth leaves config.MinSkin of material on the far face.
func (p *Plates) magnetPockets(z float64, top bool) (kernel.Solid, error) {
	cfg := p.cfg
	r := (cfg.MagnetDiameter + cfg.MagnetClearance) / 2
	depth := cfg.MagnetThickness + cfg.MagnetClearance
	if depth+config.MinSkin > z {
		return nil, fmt.Errorf("template: %.4g mm magnet pockets break through a %.4g mm plate", depth, z)
	}
	disc, err := p.k.Circle(r)
	if err != nil {
		return nil, err
	}
	pos := p.MagnetPositions()[0]
	return MirrorQuad(p.k, func() (kernel.Solid, error) {
		c := p.k.Extrude(disc, depth+cfg.Tolerance)
		zc := (depth - cfg.Tolerance) / 2
		if top {
			zc = z - zc
		}
		return p.k.Translate(c, pos.X, pos.Y, zc), nil
	})
}

// Base is the magnetic base plate with pockets on its top face.
func (p *Plates) Base() (kernel.Solid, error) {
	cfg := p.cfg
	plate, err := p.slab(cfg.OuterWidth(), cfg.OuterHeight(), cfg.BaseThickness)
	if err != nil {
		return nil, fmt.Errorf("template: base: %w", err)
	}
	pockets, err := p.magnetPockets(cfg.BaseThickness, true)
	if err != nil {
		return nil, fmt.Errorf("template: base magnets: %w", err)
	}
	return p.k.Difference(plate, pockets), nil
}

// Frame is the top frame: an opening that takes one insert with its
// tabs, and magnet pockets on the bottom face matching the base.
func (p *Plates) Frame() (kernel.Solid, error) {
	cfg := p.cfg
	z := cfg.PlateThickness
	outer, err := p.k.Rect(cfg.OuterWidth(), cfg.OuterHeight())
	if err != nil {
		return nil, fmt.Errorf("template: frame: %w", err)
	}
	insert, err := p.insertOutline()
	if err != nil {
		return nil, fmt.Errorf("template: frame opening: %w", err)
	}
	opening := p.k.Offset2D(insert, FitClearance)
	plate := p.lay(p.k.Difference2D(outer, opening), z)
	pockets, err := p.magnetPockets(z, false)
	if err != nil {
		return nil, fmt.Errorf("template: frame magnets: %w", err)
	}
	return p.k.Difference(plate, pockets), nil
}

// Blank is an uncut insert with its alignment tabs.
func (p *Plates) Blank() (kernel.Solid, error) {
	cfg := p.cfg
	z := cfg.PlateThickness
	plate, err := p.slab(cfg.InsertWidth(), cfg.InsertHeight(), z)
	if err != nil {
		return nil, fmt.Errorf("template: blank: %w", err)
	}
	tabs, err := MirrorKeep(p.k, kernel.AxisX, func() (kernel.Solid, error) {
		t, err := p.slab(TabDepth, TabWidth, z)
		if err != nil {
			return nil, err
		}
		return p.k.Translate(t, cfg.InsertWidth()/2+TabDepth/2, 0, 0), nil
	})
	if err != nil {
		return nil, fmt.Errorf("template: blank tabs: %w", err)
	}
	return p.k.Union(plate, tabs), nil
}

// Insert cuts a stencil's grooves out of a blank. The cutter is clipped
// to the insert body so grooves that run off the edge never reach the
// tabs.
func (p *Plates) Insert(cutter kernel.Solid) (kernel.Solid, error) {
	blank, err := p.Blank()
	if err != nil {
		return nil, err
	}
	cfg := p.cfg
	z := cfg.PlateThickness
	body, err := p.k.Box(cfg.InsertWidth(), cfg.InsertHeight(), z+2*cfg.Tolerance)
	if err != nil {
		return nil, fmt.Errorf("template: insert: %w", err)
	}
	clip := p.k.Translate(body, 0, 0, z/2)
	return p.k.Difference(blank, p.k.Intersection(cutter, clip)), nil
}
