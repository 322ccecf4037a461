package coords

import (
	"errors"
	"math"
	"testing"

	"github.com/chazu/stencilstation/pkg/config"
	"github.com/chazu/stencilstation/pkg/geom"
)

const tol = 1e-9

func TestMapEndpoints(t *testing.T) {
	a := Axis{Min: -1, Max: 1}
	b := Axis{Min: 0, Max: 100}
	tests := []struct {
		in, want float64
	}{
		{-1, 0},
		{0, 50},
		{1, 100},
		{0.5, 75},
	}
	for _, tt := range tests {
		got, err := Map(tt.in, a, b)
		if err != nil {
			t.Fatalf("Map(%f): %v", tt.in, err)
		}
		if math.Abs(got-tt.want) > tol {
			t.Errorf("Map(%f) = %f, want %f", tt.in, got, tt.want)
		}
	}
}

func TestMapDegenerateAxis(t *testing.T) {
	_, err := Map(1, Axis{Min: 2, Max: 2}, Axis{Min: 0, Max: 1})
	if !errors.Is(err, ErrDegenerateAxis) {
		t.Fatalf("expected ErrDegenerateAxis, got %v", err)
	}
	if err := (Axis{Min: 3, Max: 3}).Validate(); !errors.Is(err, ErrDegenerateAxis) {
		t.Errorf("Validate: expected ErrDegenerateAxis, got %v", err)
	}
	if err := (Axis{Min: 0, Max: math.Inf(1)}).Validate(); err == nil {
		t.Error("Validate: expected error for infinite bound")
	}
}

// axisPairs covers increasing, decreasing and offset bounds.
var axisPairs = []struct {
	a, b Axis
}{
	{Axis{-1, 1}, Axis{-50, 50}},
	{Axis{-10, 10}, Axis{-1, 1}},
	{Axis{0, 3}, Axis{7, -2}},
	{Axis{-2.5, 11}, Axis{100, 100.5}},
	{Axis{1e-3, 2e-3}, Axis{-1e4, 1e4}},
}

func TestMapStaysInRangeAndRoundTrips(t *testing.T) {
	for _, p := range axisPairs {
		for i := 0; i <= 100; i++ {
			v := p.a.Min + p.a.Span()*float64(i)/100
			got, err := Map(v, p.a, p.b)
			if err != nil {
				t.Fatalf("Map: %v", err)
			}
			slack := 1e-9 * math.Max(1, math.Abs(p.b.Span()))
			if got < math.Min(p.b.Min, p.b.Max)-slack || got > math.Max(p.b.Min, p.b.Max)+slack {
				t.Errorf("Map(%g, %v, %v) = %g outside target", v, p.a, p.b, got)
			}
			back, err := Map(got, p.b, p.a)
			if err != nil {
				t.Fatalf("Map back: %v", err)
			}
			if math.Abs(back-v) > 1e-9*math.Max(1, math.Abs(p.a.Span())) {
				t.Errorf("round trip %g -> %g -> %g", v, got, back)
			}
		}
	}
}

func TestMapComposesThroughIntermediate(t *testing.T) {
	a := Axis{-10, 10}
	b := Axis{-1, 1}
	c := Axis{-60, 60}
	for i := 0; i <= 20; i++ {
		v := -10 + float64(i)
		ab, _ := Map(v, a, b)
		chained, _ := Map(ab, b, c)
		direct, _ := Map(v, a, c)
		if math.Abs(chained-direct) > tol {
			t.Errorf("v=%g: chained %g != direct %g", v, chained, direct)
		}
	}
}

func testMapper(t *testing.T) *Mapper {
	t.Helper()
	cfg := config.Default()
	cfg.WindowWidth = 120
	cfg.WindowHeight = 80
	cfg.Graph = config.GraphBounds{XMin: -3, XMax: 9, YMin: -2, YMax: 2}
	m, err := FromConfig(cfg)
	if err != nil {
		t.Fatalf("FromConfig: %v", err)
	}
	return m
}

func TestGraphToSceneMatchesChain(t *testing.T) {
	m := testMapper(t)
	for i := 0; i <= 24; i++ {
		for j := 0; j <= 8; j++ {
			g := geom.V2(-3+float64(i)/2, -2+float64(j)/2)
			direct := m.GraphToScene(g)
			chained := m.VirtualToScene(m.GraphToVirtual(g))
			if !direct.ApproxEqual(chained, tol) {
				t.Errorf("g=%v: direct %v != chained %v", g, direct, chained)
			}
		}
	}
}

func TestMapperCorners(t *testing.T) {
	m := testMapper(t)
	if got := m.GraphToScene(geom.V2(-3, -2)); !got.ApproxEqual(geom.V2(-60, -40), tol) {
		t.Errorf("graph min corner -> %v, want (-60,-40)", got)
	}
	if got := m.GraphToScene(geom.V2(9, 2)); !got.ApproxEqual(geom.V2(60, 40), tol) {
		t.Errorf("graph max corner -> %v, want (60,40)", got)
	}
	if got := m.VirtualToScene(geom.V2(0, 0)); !got.ApproxEqual(geom.V2(0, 0), tol) {
		t.Errorf("virtual origin -> %v, want scene origin", got)
	}
}

func TestMapperInverses(t *testing.T) {
	m := testMapper(t)
	p := geom.V2(0.37, -0.81)
	if got := m.SceneToVirtual(m.VirtualToScene(p)); !got.ApproxEqual(p, tol) {
		t.Errorf("scene round trip: %v != %v", got, p)
	}
	if got := m.GraphToVirtual(m.VirtualToGraph(p)); !got.ApproxEqual(p, tol) {
		t.Errorf("graph round trip: %v != %v", got, p)
	}
	s := geom.V2(12.5, -7)
	if got := m.GraphToScene(m.SceneToGraph(s)); !got.ApproxEqual(s, tol) {
		t.Errorf("scene/graph round trip: %v != %v", got, s)
	}
}

func TestNewMapperRejectsDegenerateGraph(t *testing.T) {
	cfg := config.Default()
	cfg.Graph.YMin, cfg.Graph.YMax = 4, 4
	if _, err := FromConfig(cfg); !errors.Is(err, ErrDegenerateAxis) {
		t.Fatalf("expected ErrDegenerateAxis, got %v", err)
	}
	cfg = config.Default()
	cfg.WindowWidth = 0
	if _, err := FromConfig(cfg); !errors.Is(err, ErrDegenerateAxis) {
		t.Fatalf("zero window: expected ErrDegenerateAxis, got %v", err)
	}
}
