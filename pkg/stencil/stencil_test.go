package stencil

import (
	"errors"
	"math"
	"sort"
	"testing"

	"github.com/chazu/stencilstation/pkg/config"
	"github.com/chazu/stencilstation/pkg/coords"
	"github.com/chazu/stencilstation/pkg/curve"
	"github.com/chazu/stencilstation/pkg/geom"
	"github.com/chazu/stencilstation/pkg/kernel/bbox"
	"github.com/chazu/stencilstation/pkg/pen"
	"github.com/chazu/stencilstation/pkg/track"
)

// testLayout uses the default 100 mm window, graph [-10,10] and the gel
// pen (3 mm groove).
func testLayout(t *testing.T) Layout {
	t.Helper()
	cfg := config.Default()
	m, err := coords.FromConfig(cfg)
	if err != nil {
		t.Fatalf("FromConfig: %v", err)
	}
	return NewLayout(cfg, m, 3)
}

func testBuilder(t *testing.T) (*track.Builder, *bbox.Kernel) {
	t.Helper()
	k := bbox.New()
	p, _ := pen.Select(2)
	b, err := track.NewBuilder(k, p, 3, 0.01)
	if err != nil {
		t.Fatalf("NewBuilder: %v", err)
	}
	return b, k
}

func TestGridTicks(t *testing.T) {
	got := gridTicks(-3.5, 2, 1)
	want := []float64{-3, -2, -1, 0, 1, 2}
	if len(got) != len(want) {
		t.Fatalf("gridTicks = %v, want %v", got, want)
	}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-12 {
			t.Errorf("tick %d = %f, want %f", i, got[i], want[i])
		}
	}
	if got := gridTicks(4, -4, 4); len(got) != 3 {
		t.Errorf("reversed bounds ticks = %v", got)
	}
}

func TestSpans(t *testing.T) {
	got := spans(0, 10, []float64{5, 20}, 1)
	if len(got) != 2 || got[0] != [2]float64{1, 4} || got[1] != [2]float64{6, 9} {
		t.Errorf("spans = %v", got)
	}
	if got := spans(0, 2, nil, 1); len(got) != 0 {
		t.Errorf("vanishing span kept: %v", got)
	}
}

func TestGridDefault(t *testing.T) {
	l := testLayout(t)
	d, err := l.Grid()
	if err != nil {
		t.Fatalf("Grid: %v", err)
	}
	// Spacing doubles to 4 graph units (20 mm cells): 5 lines per axis,
	// each broken into 6 spans, plus 16 ticks per axis.
	if got := len(d.Lines); got != 5*6*2+16*2 {
		t.Errorf("lines = %d, want %d", got, 5*6*2+16*2)
	}
	b := d.Bounds()
	if b.Min.X < -50-l.pullback() || b.Max.X > 50+l.pullback() {
		t.Errorf("grid bounds %v..%v leave the window", b.Min, b.Max)
	}
	for _, ln := range d.Lines {
		if ln.From.ApproxEqual(ln.To, 1e-9) {
			t.Errorf("zero-length line at %v", ln.From)
		}
	}
}

func TestGridFineSpacingThinsTicks(t *testing.T) {
	l := testLayout(t)
	l.Config.GridSpacing = 0.5 // 2.5 mm, narrower than one groove plus bridge
	d, err := l.Grid()
	if err != nil {
		t.Fatalf("Grid: %v", err)
	}
	tick := l.Bridge + l.Groove
	var xs []float64
	for _, ln := range d.Lines {
		vertical := math.Abs(ln.From.X-ln.To.X) < 1e-9
		if vertical && math.Abs(ln.From.Y+ln.To.Y) < 1e-9 && math.Abs(ln.To.Y-ln.From.Y-2*tick) < 1e-9 {
			xs = append(xs, ln.From.X)
		}
	}
	// Ticks thin to 1 graph unit (5 mm), the same as the default grid.
	if len(xs) != 16 {
		t.Fatalf("x-axis ticks = %d, want 16", len(xs))
	}
	sort.Float64s(xs)
	for i := 1; i < len(xs); i++ {
		if gap := xs[i] - xs[i-1]; gap < tick-1e-9 {
			t.Errorf("ticks at %g and %g overlap (gap %g < %g)", xs[i-1], xs[i], gap, tick)
		}
	}
}

func TestGridRejectsBadSpacing(t *testing.T) {
	l := testLayout(t)
	l.Config.GridSpacing = 0
	if _, err := l.Grid(); err == nil {
		t.Error("expected error for zero spacing")
	}
}

func TestPolar(t *testing.T) {
	l := testLayout(t)
	d, err := l.Polar()
	if err != nil {
		t.Fatalf("Polar: %v", err)
	}
	if len(d.Sweeps) != 4*12 {
		t.Errorf("arcs = %d, want 48", len(d.Sweeps))
	}
	if len(d.Lines) != 3*12 {
		t.Errorf("spoke pieces = %d, want 36", len(d.Lines))
	}
	if len(d.Sockets) != 1 || d.Sockets[0] != (geom.Vec2{}) {
		t.Errorf("sockets = %v, want the center", d.Sockets)
	}
	for _, sw := range d.Sweeps {
		if sw.Path.Culled() != 0 {
			t.Errorf("%s culled %d samples", sw.Name, sw.Path.Culled())
		}
		for _, p := range sw.Path.Points() {
			if r := p.Length(); r > 45+1e-9 {
				t.Errorf("%s point %v outside outer ring", sw.Name, p)
			}
		}
	}
}

func TestMarkersAndCircles(t *testing.T) {
	l := testLayout(t)
	if got := len(l.Markers().Sockets); got != 5 {
		t.Errorf("markers = %d, want 5", got)
	}

	d, err := l.Circles()
	if err != nil {
		t.Fatalf("Circles: %v", err)
	}
	if len(d.Holes) != len(CircleRadii) {
		t.Fatalf("holes = %d, want %d", len(d.Holes), len(CircleRadii))
	}
	for i, a := range d.Holes {
		for _, b := range d.Holes[i+1:] {
			if dist := a.Center.Sub(b.Center).Length(); dist < a.Radius+b.Radius+l.Groove {
				t.Errorf("holes r=%g and r=%g overlap", a.Radius, b.Radius)
			}
		}
		if math.Abs(a.Center.X)+a.Radius > 50 || math.Abs(a.Center.Y)+a.Radius > 50 {
			t.Errorf("hole r=%g at %v leaves the window", a.Radius, a.Center)
		}
	}
}

func TestFunctions(t *testing.T) {
	l := testLayout(t)
	designs, err := l.Functions()
	if err != nil {
		t.Fatalf("Functions: %v", err)
	}
	if len(designs) != 3 {
		t.Fatalf("designs = %d, want 3", len(designs))
	}
	byName := map[string]*Design{}
	for _, d := range designs {
		byName[d.Name] = d
	}
	if got := byName["parabola"].Sweeps[0].Path.Culled(); got != 0 {
		t.Errorf("parabola culled %d samples", got)
	}
	hyp := byName["hyperbola"].Sweeps[0].Path
	if hyp.Samples[l.Config.CurveSteps/2].OK() {
		t.Error("hyperbola pole should be culled")
	}
	if len(hyp.Segments()) == 0 {
		t.Error("hyperbola lost every segment")
	}
}

func TestDecorative(t *testing.T) {
	l := testLayout(t)
	designs, err := l.Decorative()
	if err != nil {
		t.Fatalf("Decorative: %v", err)
	}
	if len(designs) != 2 || designs[0].Name != "rose" || designs[1].Name != "lissajous" {
		t.Fatalf("unexpected designs: %v", designs)
	}
	b := designs[0].Bounds()
	if b.Max.X > 40+1e-6 || b.Min.X < -40-1e-6 {
		t.Errorf("rose bounds %v..%v exceed 0.8 of the half window", b.Min, b.Max)
	}
}

func TestCutter(t *testing.T) {
	l := testLayout(t)
	b, k := testBuilder(t)
	s, rep, err := l.Markers().Cutter(b)
	if err != nil {
		t.Fatalf("Cutter: %v", err)
	}
	if rep.Features != 5 || k.Ops["revolve"] != 5 {
		t.Errorf("report = %+v, revolves = %d", rep, k.Ops["revolve"])
	}
	min, max := s.BoundingBox()
	if math.Abs(min[0]-(-47-1.5)) > 1e-6 || math.Abs(max[0]-(47+1.5)) > 1e-6 {
		t.Errorf("marker cutter x range %f..%f", min[0], max[0])
	}
}

func TestCutterSkipsEmptySweeps(t *testing.T) {
	b, _ := testBuilder(t)
	lost, _ := curve.SamplePath(curve.Constant(geom.V2(3, 3)), 4)
	kept, _ := curve.SamplePath(curve.Line(geom.V2(-0.5, 0), geom.V2(0.5, 0)), 4)
	d := &Design{
		Name: "mixed",
		Sweeps: []Sweep{
			{Name: "lost", Path: lost},
			{Name: "kept", Path: kept.Map(func(p geom.Vec2) geom.Vec2 { return p.Scale(50) })},
		},
	}
	_, rep, err := d.Cutter(b)
	if err != nil {
		t.Fatalf("Cutter: %v", err)
	}
	if len(rep.EmptySweeps) != 1 || rep.EmptySweeps[0] != "lost" {
		t.Errorf("empty sweeps = %v", rep.EmptySweeps)
	}
	if rep.Culled != 5 || rep.Segments != 4 {
		t.Errorf("report = %+v", rep)
	}

	_, _, err = (&Design{Name: "nothing"}).Cutter(b)
	if !errors.Is(err, ErrEmptyDesign) {
		t.Errorf("expected ErrEmptyDesign, got %v", err)
	}
}
