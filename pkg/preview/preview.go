// Package preview draws top-view PNG previews of stencil inserts: the
// insert plate with every groove, hole, and socket the cutter will take
// out of it.
package preview

import (
	"fmt"
	"io"

	"github.com/gogpu/gg"

	"github.com/chazu/stencilstation/pkg/config"
	"github.com/chazu/stencilstation/pkg/geom"
	"github.com/chazu/stencilstation/pkg/stencil"
)

// DefaultPixelsPerMM is the preview scale.
const DefaultPixelsPerMM = 4.0

// Colors, "#rrggbb".
const (
	PlateColor  = "#efe9da"
	WindowColor = "#c9c2ae"
	GrooveColor = "#1f2a44"
)

// Options controls a preview.
type Options struct {
	PixelsPerMM float64
	// Groove is the groove width in mm.
	Groove float64
}

// canvas maps plate millimetres (y up, origin at the window center) to
// pixels.
type canvas struct {
	dc     *gg.Context
	scale  float64
	cx, cy float64
}

func (c canvas) pt(p geom.Vec2) (float64, float64) {
	return c.cx + p.X*c.scale, c.cy - p.Y*c.scale
}

func (c canvas) moveTo(p geom.Vec2) { c.dc.MoveTo(c.pt(p)) }
func (c canvas) lineTo(p geom.Vec2) { c.dc.LineTo(c.pt(p)) }

// Render draws d on an insert sized by cfg.
func Render(d *stencil.Design, cfg config.Config, opts Options) (*gg.Context, error) {
	if opts.PixelsPerMM <= 0 {
		opts.PixelsPerMM = DefaultPixelsPerMM
	}
	if opts.Groove <= 0 {
		return nil, fmt.Errorf("preview: groove width %g must be positive", opts.Groove)
	}
	s := opts.PixelsPerMM
	w, h := cfg.InsertWidth(), cfg.InsertHeight()
	dc := gg.NewContext(int(w*s+0.5), int(h*s+0.5))
	c := canvas{dc: dc, scale: s, cx: w * s / 2, cy: h * s / 2}

	dc.ClearWithColor(gg.Hex(PlateColor))

	// Window outline.
	dc.SetHexColor(WindowColor)
	dc.SetLineWidth(1)
	x, y := c.pt(geom.V2(-cfg.WindowWidth/2, cfg.WindowHeight/2))
	dc.DrawRectangle(x, y, cfg.WindowWidth*s, cfg.WindowHeight*s)
	if err := dc.Stroke(); err != nil {
		return nil, fmt.Errorf("preview: window: %w", err)
	}

	if err := grooves(c, d, opts.Groove*s); err != nil {
		return nil, fmt.Errorf("preview: %s: %w", d.Name, err)
	}
	return dc, nil
}

func grooves(c canvas, d *stencil.Design, width float64) error {
	dc := c.dc
	dc.SetHexColor(GrooveColor)
	dc.SetLineWidth(width)
	dc.SetLineCap(gg.LineCapRound)
	dc.SetLineJoin(gg.LineJoinRound)

	for _, l := range d.Lines {
		c.moveTo(l.From)
		c.lineTo(l.To)
	}
	for _, sw := range d.Sweeps {
		for _, seg := range sw.Path.Segments() {
			c.moveTo(seg.From)
			c.lineTo(seg.To)
		}
	}
	for _, o := range d.Outlines {
		if len(o) == 0 {
			continue
		}
		c.moveTo(o[0])
		for _, p := range o[1:] {
			c.lineTo(p)
		}
		dc.ClosePath()
	}
	for _, h := range d.Holes {
		x, y := c.pt(h.Center)
		dc.DrawCircle(x, y, h.Radius*c.scale)
	}
	if err := dc.Stroke(); err != nil {
		return err
	}

	// Sockets and hole interiors are cut through.
	for _, h := range d.Holes {
		x, y := c.pt(h.Center)
		dc.DrawCircle(x, y, h.Radius*c.scale)
	}
	for _, p := range d.Sockets {
		x, y := c.pt(p)
		dc.DrawCircle(x, y, width/2)
	}
	return dc.Fill()
}

// WritePNG renders d and encodes it to w.
func WritePNG(w io.Writer, d *stencil.Design, cfg config.Config, opts Options) error {
	dc, err := Render(d, cfg, opts)
	if err != nil {
		return err
	}
	defer dc.Close()
	return dc.EncodePNG(w)
}

// SavePNG renders d into the file at path.
func SavePNG(path string, d *stencil.Design, cfg config.Config, opts Options) error {
	dc, err := Render(d, cfg, opts)
	if err != nil {
		return err
	}
	defer dc.Close()
	if err := dc.SavePNG(path); err != nil {
		return fmt.Errorf("preview: save %s: %w", path, err)
	}
	return nil
}
