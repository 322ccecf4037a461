package stencil

import (
	"fmt"
	"math"
	"sort"

	"github.com/chazu/stencilstation/pkg/config"
	"github.com/chazu/stencilstation/pkg/coords"
	"github.com/chazu/stencilstation/pkg/curve"
	"github.com/chazu/stencilstation/pkg/geom"
)

// DefaultBridge is the width of plate material left between grooves that
// would otherwise meet and cut an island out of the insert.
const DefaultBridge = 1.5

// maxGridLines caps the grid lines per axis.
const maxGridLines = 40

// Layout places catalog designs on one window.
type Layout struct {
	Config config.Config
	Mapper *coords.Mapper
	// Groove is the widest groove width of the selected pen.
	Groove float64
	Bridge float64
}

// NewLayout builds a Layout with the default bridge width.
func NewLayout(cfg config.Config, m *coords.Mapper, groove float64) Layout {
	return Layout{Config: cfg, Mapper: m, Groove: groove, Bridge: DefaultBridge}
}

// pullback is how far a groove end stops short of a crossing groove.
func (l Layout) pullback() float64 {
	return (l.Bridge + l.Groove) / 2
}

func (l Layout) halfWindow() geom.Vec2 {
	return geom.V2(l.Config.WindowWidth/2, l.Config.WindowHeight/2)
}

// sweep samples a virtual-space curve and maps it onto the plate.
func (l Layout) sweep(name string, f curve.Func, steps int) (Sweep, error) {
	p, err := curve.SamplePath(f, steps)
	if err != nil {
		return Sweep{}, fmt.Errorf("stencil: %s: %w", name, err)
	}
	return Sweep{Name: name, Path: p.Map(l.Mapper.VirtualToScene)}, nil
}

// ---------------------------------------------------------------------------
// Graph paper
// ---------------------------------------------------------------------------

// gridTicks returns the multiples of spacing inside [lo, hi].
func gridTicks(lo, hi, spacing float64) []float64 {
	if lo > hi {
		lo, hi = hi, lo
	}
	var ticks []float64
	for k := math.Ceil(lo/spacing - 1e-9); k*spacing <= hi+1e-9; k++ {
		ticks = append(ticks, k*spacing)
	}
	return ticks
}

// spans splits [lo, hi] at the given cuts and shrinks each piece by pull
// at both ends. Pieces that vanish are dropped.
func spans(lo, hi float64, cuts []float64, pull float64) [][2]float64 {
	pts := []float64{lo, hi}
	for _, c := range cuts {
		if c > lo && c < hi {
			pts = append(pts, c)
		}
	}
	sort.Float64s(pts)
	var out [][2]float64
	for i := 1; i < len(pts); i++ {
		a, b := pts[i-1]+pull, pts[i]-pull
		if b-a > 1e-6 {
			out = append(out, [2]float64{a, b})
		}
	}
	return out
}

// Grid is graph paper in graph units: lines at every GridSpacing, broken
// by bridges where they cross. The spacing doubles until cells are wide
// enough to keep their bridges. The axes carry short ticks at the
// configured spacing, doubled until adjacent ticks clear each other.
func (l Layout) Grid() (*Design, error) {
	cfg, m := l.Config, l.Mapper
	spacing := cfg.GridSpacing
	if !(spacing > 0) {
		return nil, fmt.Errorf("stencil: grid: spacing %g must be positive", spacing)
	}
	minCell := 3 * (l.Bridge + l.Groove)
	cell := func(s float64) float64 {
		return math.Min(math.Abs(m.GraphToSceneX(s)-m.GraphToSceneX(0)),
			math.Abs(m.GraphToSceneY(s)-m.GraphToSceneY(0)))
	}
	for cell(spacing) < minCell ||
		len(gridTicks(cfg.Graph.XMin, cfg.Graph.XMax, spacing)) > maxGridLines ||
		len(gridTicks(cfg.Graph.YMin, cfg.Graph.YMax, spacing)) > maxGridLines {
		spacing *= 2
	}

	var xs, ys []float64
	for _, gx := range gridTicks(cfg.Graph.XMin, cfg.Graph.XMax, spacing) {
		xs = append(xs, m.GraphToSceneX(gx))
	}
	for _, gy := range gridTicks(cfg.Graph.YMin, cfg.Graph.YMax, spacing) {
		ys = append(ys, m.GraphToSceneY(gy))
	}

	hw := l.halfWindow()
	d := &Design{Name: "grid"}
	for _, x := range xs {
		for _, s := range spans(-hw.Y, hw.Y, ys, l.pullback()) {
			d.Lines = append(d.Lines, Line{From: geom.V2(x, s[0]), To: geom.V2(x, s[1])})
		}
	}
	for _, y := range ys {
		for _, s := range spans(-hw.X, hw.X, xs, l.pullback()) {
			d.Lines = append(d.Lines, Line{From: geom.V2(s[0], y), To: geom.V2(s[1], y)})
		}
	}

	// Axis ticks cross the axis grooves between grid lines.
	free := func(v float64, lines []float64) bool {
		for _, g := range lines {
			if math.Abs(v-g) < l.Bridge+l.Groove {
				return false
			}
		}
		return true
	}
	tick := l.Bridge + l.Groove
	tickSpacing := cfg.GridSpacing
	for cell(tickSpacing) < tick ||
		len(gridTicks(cfg.Graph.XMin, cfg.Graph.XMax, tickSpacing)) > 2*maxGridLines ||
		len(gridTicks(cfg.Graph.YMin, cfg.Graph.YMax, tickSpacing)) > 2*maxGridLines {
		tickSpacing *= 2
	}
	ox, oy := m.GraphToSceneX(0), m.GraphToSceneY(0)
	if math.Abs(oy) <= hw.Y {
		for _, gx := range gridTicks(cfg.Graph.XMin, cfg.Graph.XMax, tickSpacing) {
			if x := m.GraphToSceneX(gx); free(x, xs) {
				d.Lines = append(d.Lines, Line{From: geom.V2(x, oy-tick), To: geom.V2(x, oy+tick)})
			}
		}
	}
	if math.Abs(ox) <= hw.X {
		for _, gy := range gridTicks(cfg.Graph.YMin, cfg.Graph.YMax, tickSpacing) {
			if y := m.GraphToSceneY(gy); free(y, ys) {
				d.Lines = append(d.Lines, Line{From: geom.V2(ox-tick, y), To: geom.V2(ox+tick, y)})
			}
		}
	}

	if d.IsEmpty() {
		return nil, fmt.Errorf("%w: grid too coarse for the window", ErrEmptyDesign)
	}
	return d, nil
}

// ---------------------------------------------------------------------------
// Polar guide
// ---------------------------------------------------------------------------

// arc returns a virtual-space curve tracing a scene arc of radius r
// around the window center from a0 to a1 (radians).
func (l Layout) arc(r, a0, a1 float64) curve.Func {
	return func(t float64) (geom.Vec2, error) {
		a := a0 + (t+1)/2*(a1-a0)
		return l.Mapper.SceneToVirtual(geom.V2(r*math.Cos(a), r*math.Sin(a))), nil
	}
}

// Polar is a protractor-style guide: concentric ring arcs broken at every
// spoke, spokes broken at every ring, and a socket at the center.
func (l Layout) Polar() (*Design, error) {
	rings, spokes := l.Config.Polar.Rings, l.Config.Polar.Spokes
	if rings <= 0 || spokes <= 0 {
		return nil, fmt.Errorf("stencil: polar: rings (%d) and spokes (%d) must be positive", rings, spokes)
	}
	hw := l.halfWindow()
	outer := 0.9 * math.Min(hw.X, hw.Y)
	pull := l.pullback()
	step := 2 * math.Pi / float64(spokes)

	d := &Design{Name: "polar", Sockets: []geom.Vec2{{}}}
	for i := 1; i <= rings; i++ {
		r := outer * float64(i) / float64(rings)
		delta := pull / r
		for j := 0; j < spokes; j++ {
			a0 := float64(j)*step + delta
			a1 := float64(j+1)*step - delta
			if a1-a0 <= 0 {
				continue
			}
			steps := int(math.Max(4, math.Ceil(r*(a1-a0)/2)))
			sw, err := l.sweep(fmt.Sprintf("ring%d-arc%d", i, j), l.arc(r, a0, a1), steps)
			if err != nil {
				return nil, err
			}
			d.Sweeps = append(d.Sweeps, sw)
		}
	}
	for j := 0; j < spokes; j++ {
		dir := geom.V2(math.Cos(float64(j)*step), math.Sin(float64(j)*step))
		for i := 1; i < rings; i++ {
			r0 := outer*float64(i)/float64(rings) + pull
			r1 := outer*float64(i+1)/float64(rings) - pull
			if r1-r0 <= 1e-6 {
				continue
			}
			d.Lines = append(d.Lines, Line{From: dir.Scale(r0), To: dir.Scale(r1)})
		}
	}
	return d, nil
}

// ---------------------------------------------------------------------------
// Misc
// ---------------------------------------------------------------------------

// Markers places alignment sockets in the window corners and center.
func (l Layout) Markers() *Design {
	hw := l.halfWindow()
	in := hw.Sub(geom.V2(l.Groove, l.Groove))
	return &Design{
		Name: "markers",
		Sockets: []geom.Vec2{
			{X: -in.X, Y: -in.Y},
			{X: in.X, Y: -in.Y},
			{X: in.X, Y: in.Y},
			{X: -in.X, Y: in.Y},
			{},
		},
	}
}

// CircleRadii are the hole radii of the circle template, in mm.
var CircleRadii = []float64{2.5, 4, 5, 7.5, 10, 12.5, 15}

// Circles is a circle template: holes of CircleRadii packed in rows from
// the top-left corner of the window. Radii that do not fit are left out.
func (l Layout) Circles() (*Design, error) {
	hw := l.halfWindow()
	gap := l.Bridge + l.Groove
	d := &Design{Name: "circles"}

	x, y := -hw.X, hw.Y
	rowHeight := 0.0
	for _, r := range CircleRadii {
		if r < l.Groove/2 {
			continue
		}
		size := 2*r + l.Groove
		if x+size > hw.X {
			x = -hw.X
			y -= rowHeight + gap
			rowHeight = 0
		}
		if x+size > hw.X || y-size < -hw.Y {
			continue
		}
		d.Holes = append(d.Holes, Circle{Center: geom.V2(x+size/2, y-size/2), Radius: r})
		x += size + gap
		rowHeight = math.Max(rowHeight, size)
	}
	if len(d.Holes) == 0 {
		return nil, fmt.Errorf("%w: no circle fits the window", ErrEmptyDesign)
	}
	return d, nil
}

// ---------------------------------------------------------------------------
// Curves
// ---------------------------------------------------------------------------

// Plot sweeps y = f(x) across the whole window, in graph units.
func (l Layout) Plot(name string, f func(x float64) float64, steps int) (*Design, error) {
	sw, err := l.sweep(name, curve.Graph(l.Mapper, f), steps)
	if err != nil {
		return nil, err
	}
	return &Design{Name: name, Sweeps: []Sweep{sw}}, nil
}

// Parametric sweeps a virtual-space curve.
func (l Layout) Parametric(name string, f curve.Func, steps int) (*Design, error) {
	sw, err := l.sweep(name, f, steps)
	if err != nil {
		return nil, err
	}
	return &Design{Name: name, Sweeps: []Sweep{sw}}, nil
}

// Functions returns the function demos scaled to the graph bounds: a
// parabola through the top corners, two periods of a sine, and a
// hyperbola whose pole is culled.
func (l Layout) Functions() ([]*Design, error) {
	g := l.Config.Graph
	xr := math.Max(math.Abs(g.XMin), math.Abs(g.XMax))
	yr := math.Max(math.Abs(g.YMin), math.Abs(g.YMax))
	steps := l.Config.CurveSteps

	plots := []struct {
		name string
		f    func(x float64) float64
	}{
		{"parabola", func(x float64) float64 { return yr * x * x / (xr * xr) }},
		{"sine", func(x float64) float64 { return yr / 2 * math.Sin(2*math.Pi*x/xr) }},
		{"hyperbola", func(x float64) float64 { return xr * yr / 10 / x }},
	}
	designs := make([]*Design, 0, len(plots))
	for _, p := range plots {
		d, err := l.Plot(p.name, p.f, steps)
		if err != nil {
			return nil, err
		}
		designs = append(designs, d)
	}
	return designs, nil
}

// Decorative returns the rose and Lissajous designs.
func (l Layout) Decorative() ([]*Design, error) {
	steps := 4 * l.Config.CurveSteps
	rose, err := l.Parametric("rose", curve.Rose(0.8, 3), steps)
	if err != nil {
		return nil, err
	}
	liss, err := l.Parametric("lissajous", curve.Lissajous(0.8, 0.8, 3, 2, math.Pi/2), steps)
	if err != nil {
		return nil, err
	}
	return []*Design{rose, liss}, nil
}
