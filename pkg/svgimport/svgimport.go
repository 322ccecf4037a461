// Package svgimport reads closed outlines from SVG files so they can be
// cut through a stencil insert. Curves are flattened, the drawing is
// fitted into the window, and the y axis is flipped to point up.
package svgimport

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/chazu/stencilstation/pkg/geom"
	"github.com/rustyoz/svg"
)

// ErrNoOutlines is returned when a drawing has no usable closed shape.
var ErrNoOutlines = errors.New("svgimport: no closed outlines")

// Options controls flattening and fitting.
type Options struct {
	// Width and Height are the target window in mm, centered on the origin.
	Width  float64
	Height float64
	// Margin is kept clear inside the window on every side.
	Margin float64
	// Flatness is the maximum distance, in drawing units, between a
	// curve and its flattened polyline.
	Flatness float64
	// CircleSegments is the vertex count of flattened circles.
	CircleSegments int
}

// DefaultOptions fits into a w x h window.
func DefaultOptions(w, h float64) Options {
	return Options{Width: w, Height: h, Flatness: 0.05, CircleSegments: 48}
}

// Result holds the imported outlines, in window coordinates.
type Result struct {
	Outlines []geom.Polygon
	// Open counts subpaths that were never closed.
	Open int
	// Invalid counts closed subpaths rejected as degenerate or
	// self-intersecting.
	Invalid int
}

// LoadFile imports the SVG file at path.
func LoadFile(path string, opts Options) (Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return Result{}, fmt.Errorf("svgimport: %w", err)
	}
	defer f.Close()
	res, err := Load(f, opts)
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", path, err)
	}
	return res, nil
}

// Load imports an SVG drawing from r.
func Load(r io.Reader, opts Options) (Result, error) {
	if !(opts.Width > 2*opts.Margin) || !(opts.Height > 2*opts.Margin) {
		return Result{}, fmt.Errorf("svgimport: window %gx%g too small for margin %g", opts.Width, opts.Height, opts.Margin)
	}
	if opts.Flatness <= 0 {
		opts.Flatness = 0.05
	}
	if opts.CircleSegments < 8 {
		opts.CircleSegments = 8
	}

	doc, err := svg.ParseSvgFromReader(r, "", 1.0)
	if err != nil {
		return Result{}, fmt.Errorf("svgimport: parse: %w", err)
	}
	paths, open, err := collect(doc, opts)
	if err != nil {
		return Result{}, err
	}

	res := Result{Open: open}
	var raw []geom.Polygon
	for _, p := range paths {
		poly := clean(p)
		if poly.Validate() != nil {
			res.Invalid++
			continue
		}
		raw = append(raw, poly)
	}
	if len(raw) == 0 {
		return res, ErrNoOutlines
	}
	res.Outlines = fit(raw, opts)
	return res, nil
}

// collect drains the drawing instructions into closed polylines.
func collect(doc *svg.Svg, opts Options) ([][]geom.Vec2, int, error) {
	var (
		closed [][]geom.Vec2
		cur    []geom.Vec2
		open   int
	)
	finish := func() {
		if len(cur) > 1 {
			open++
		}
		cur = nil
	}

	draw, errs := doc.ParseDrawingInstructions()
	for draw != nil {
		select {
		case ins, ok := <-draw:
			if !ok {
				draw = nil
				continue
			}
			switch ins.Kind {
			case svg.MoveInstruction:
				finish()
				cur = append(cur, tuple(ins.M))
			case svg.LineInstruction:
				if len(cur) == 0 {
					continue
				}
				cur = append(cur, tuple(ins.M))
			case svg.CurveInstruction:
				if len(cur) == 0 || ins.CurvePoints == nil {
					continue
				}
				cp := ins.CurvePoints
				flattenCubic(cur[len(cur)-1], tuple(cp.C1), tuple(cp.C2), tuple(cp.T), opts.Flatness, 0, &cur)
			case svg.CloseInstruction:
				if len(cur) > 2 {
					closed = append(closed, cur)
				}
				cur = nil
			case svg.CircleInstruction:
				if ins.M == nil || ins.Radius == nil || *ins.Radius <= 0 {
					continue
				}
				closed = append(closed, circle(tuple(ins.M), *ins.Radius, opts.CircleSegments))
			}
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			if err != nil {
				return nil, 0, fmt.Errorf("svgimport: %w", err)
			}
		}
	}
	// A parse error may still be pending once the instructions run out.
	select {
	case err, ok := <-errs:
		if ok && err != nil {
			return nil, 0, fmt.Errorf("svgimport: %w", err)
		}
	default:
	}
	finish()
	return closed, open, nil
}

func tuple(t *svg.Tuple) geom.Vec2 {
	if t == nil {
		return geom.Vec2{}
	}
	return geom.V2(t[0], t[1])
}

// maxDepth bounds the bezier subdivision.
const maxDepth = 16

// flattenCubic appends the flattened cubic p0..p3 (excluding p0) to out
// by recursive de Casteljau subdivision.
func flattenCubic(p0, p1, p2, p3 geom.Vec2, flatness float64, depth int, out *[]geom.Vec2) {
	if depth >= maxDepth || (lineDist(p1, p0, p3) <= flatness && lineDist(p2, p0, p3) <= flatness) {
		*out = append(*out, p3)
		return
	}
	m01 := p0.Lerp(p1, 0.5)
	m12 := p1.Lerp(p2, 0.5)
	m23 := p2.Lerp(p3, 0.5)
	m012 := m01.Lerp(m12, 0.5)
	m123 := m12.Lerp(m23, 0.5)
	mid := m012.Lerp(m123, 0.5)
	flattenCubic(p0, m01, m012, mid, flatness, depth+1, out)
	flattenCubic(mid, m123, m23, p3, flatness, depth+1, out)
}

// lineDist is the distance from p to the line through a and b.
func lineDist(p, a, b geom.Vec2) float64 {
	d := b.Sub(a)
	l := d.Length()
	if l == 0 {
		return p.Sub(a).Length()
	}
	return math.Abs(geom.Cross(d, p.Sub(a))) / l
}

func circle(c geom.Vec2, r float64, n int) []geom.Vec2 {
	pts := make([]geom.Vec2, n)
	for i := range pts {
		a := 2 * math.Pi * float64(i) / float64(n)
		pts[i] = geom.V2(c.X+r*math.Cos(a), c.Y+r*math.Sin(a))
	}
	return pts
}

// clean drops repeated vertices, including a closing copy of the first.
func clean(pts []geom.Vec2) geom.Polygon {
	const eps = 1e-9
	out := make(geom.Polygon, 0, len(pts))
	for _, p := range pts {
		if len(out) > 0 && p.ApproxEqual(out[len(out)-1], eps) {
			continue
		}
		out = append(out, p)
	}
	for len(out) > 1 && out[len(out)-1].ApproxEqual(out[0], eps) {
		out = out[:len(out)-1]
	}
	return out
}

// fit scales the outlines uniformly into the window, centers them and
// flips y. Every result is counter-clockwise.
func fit(polys []geom.Polygon, opts Options) []geom.Polygon {
	b := geom.EmptyBox()
	for _, p := range polys {
		pb := p.Bounds()
		b = b.Extend(pb.Min).Extend(pb.Max)
	}
	size := b.Size()
	s := math.Min((opts.Width-2*opts.Margin)/size.X, (opts.Height-2*opts.Margin)/size.Y)
	c := b.Center()

	out := make([]geom.Polygon, len(polys))
	for i, p := range polys {
		q := make(geom.Polygon, len(p))
		for j, v := range p {
			q[j] = geom.V2((v.X-c.X)*s, -(v.Y-c.Y)*s)
		}
		if q.SignedArea() < 0 {
			q = q.Reversed()
		}
		out[i] = q
	}
	return out
}
