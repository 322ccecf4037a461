package track

import (
	"errors"
	"math"
	"testing"

	"github.com/chazu/stencilstation/pkg/curve"
	"github.com/chazu/stencilstation/pkg/geom"
	"github.com/chazu/stencilstation/pkg/kernel"
	"github.com/chazu/stencilstation/pkg/kernel/bbox"
	"github.com/chazu/stencilstation/pkg/kernel/sdfx"
	"github.com/chazu/stencilstation/pkg/pen"
)

const (
	plate = 3.0
	tol   = 0.01
	eps   = 1e-6
)

// gel pen: 3 mm wide at the top of the plate.
func newBuilder(t *testing.T, k kernel.Kernel) *Builder {
	t.Helper()
	p, err := pen.Select(2)
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	b, err := NewBuilder(k, p, plate, tol)
	if err != nil {
		t.Fatalf("NewBuilder: %v", err)
	}
	return b
}

func checkBox(t *testing.T, name string, s kernel.Solid, wantMin, wantMax [3]float64) {
	t.Helper()
	min, max := s.BoundingBox()
	for i := 0; i < 3; i++ {
		if math.Abs(min[i]-wantMin[i]) > eps || math.Abs(max[i]-wantMax[i]) > eps {
			t.Errorf("%s: bounds %v..%v, want %v..%v", name, min, max, wantMin, wantMax)
			return
		}
	}
}

func TestBuilderWidth(t *testing.T) {
	b := newBuilder(t, bbox.New())
	if math.Abs(b.Width()-3.0) > eps {
		t.Errorf("Width() = %f, want 3", b.Width())
	}
}

func TestNewBuilderRejectsBadProfile(t *testing.T) {
	bad := pen.Profile{Name: "bad", MinWidth: 2, MaxWidth: 1, BevelAngle: 60, ShaftDepth: 1}
	_, err := NewBuilder(bbox.New(), bad, plate, tol)
	var ce *pen.ConstructionError
	if !errors.As(err, &ce) {
		t.Fatalf("expected ConstructionError, got %v", err)
	}
}

func TestSocket(t *testing.T) {
	b := newBuilder(t, bbox.New())
	s, err := b.Socket(geom.V2(10, 5))
	if err != nil {
		t.Fatalf("Socket: %v", err)
	}
	checkBox(t, "socket", s, [3]float64{8.5, 3.5, -tol}, [3]float64{11.5, 6.5, plate + tol})
}

func TestSegmentOrientation(t *testing.T) {
	tests := []struct {
		name     string
		from, to geom.Vec2
		min, max [3]float64
	}{
		{
			name: "east",
			from: geom.V2(0, 0), to: geom.V2(10, 0),
			min: [3]float64{0, -1.5, -tol}, max: [3]float64{10, 1.5, plate + tol},
		},
		{
			name: "north",
			from: geom.V2(2, 0), to: geom.V2(2, 8),
			min: [3]float64{0.5, 0, -tol}, max: [3]float64{3.5, 8, plate + tol},
		},
		{
			name: "west",
			from: geom.V2(0, 4), to: geom.V2(-6, 4),
			min: [3]float64{-6, 2.5, -tol}, max: [3]float64{0, 5.5, plate + tol},
		},
	}
	b := newBuilder(t, bbox.New())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := b.Segment(curve.NewSegment(tt.from, tt.to))
			if err != nil {
				t.Fatalf("Segment: %v", err)
			}
			checkBox(t, tt.name, s, tt.min, tt.max)
		})
	}
}

func TestSegmentRejectsZeroLength(t *testing.T) {
	b := newBuilder(t, bbox.New())
	if _, err := b.Segment(curve.NewSegment(geom.V2(1, 1), geom.V2(1, 1))); err == nil {
		t.Error("expected error for zero-length segment")
	}
}

func TestLineHasRoundedEnds(t *testing.T) {
	b := newBuilder(t, bbox.New())
	s, err := b.Line(geom.V2(0, 0), geom.V2(10, 0))
	if err != nil {
		t.Fatalf("Line: %v", err)
	}
	checkBox(t, "line", s, [3]float64{-1.5, -1.5, -tol}, [3]float64{11.5, 1.5, plate + tol})
}

func TestRing(t *testing.T) {
	b := newBuilder(t, bbox.New())
	s, err := b.Ring(geom.V2(0, 0), 10)
	if err != nil {
		t.Fatalf("Ring: %v", err)
	}
	checkBox(t, "ring", s, [3]float64{-11.5, -11.5, -tol}, [3]float64{11.5, 11.5, plate + tol})

	if _, err := b.Ring(geom.V2(0, 0), 1); !errors.Is(err, ErrRingTooSmall) {
		t.Errorf("expected ErrRingTooSmall, got %v", err)
	}
}

func TestHole(t *testing.T) {
	b := newBuilder(t, bbox.New())
	s, err := b.Hole(geom.V2(5, 0), 6)
	if err != nil {
		t.Fatalf("Hole: %v", err)
	}
	checkBox(t, "hole", s, [3]float64{-2.5, -7.5, -tol}, [3]float64{12.5, 7.5, plate + tol})
}

func scenePath(t *testing.T, f curve.Func, steps int) curve.Path {
	t.Helper()
	p, err := curve.SamplePath(f, steps)
	if err != nil {
		t.Fatalf("SamplePath: %v", err)
	}
	return p.Map(func(v geom.Vec2) geom.Vec2 { return v.Scale(50) })
}

func TestSweep(t *testing.T) {
	k := bbox.New()
	b := newBuilder(t, k)
	res, err := b.Sweep(scenePath(t, curve.Line(geom.V2(-0.5, -0.5), geom.V2(0.5, 0.5)), 4))
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if res.Segments != 4 || res.Sockets != 5 || res.Culled != 0 {
		t.Errorf("result = %+v, want 4 segments, 5 sockets", res)
	}
	if k.Ops["extrude"] != 4 {
		t.Errorf("extrusions = %d, want 4", k.Ops["extrude"])
	}
	min, max := res.Solid.BoundingBox()
	if min[0] > -25-1.5+eps || max[0] < 25+1.5-eps {
		t.Errorf("sweep x range %f..%f too small", min[0], max[0])
	}
}

func TestSweepSkipsCulledSamples(t *testing.T) {
	b := newBuilder(t, bbox.New())
	f := func(t float64) (geom.Vec2, error) {
		if t == 0 {
			return geom.V2(math.NaN(), 0), nil
		}
		return geom.V2(t/2, 0), nil
	}
	res, err := b.Sweep(scenePath(t, f, 4))
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if res.Segments != 2 || res.Sockets != 4 || res.Culled != 1 {
		t.Errorf("result = %+v, want 2 segments, 4 sockets, 1 culled", res)
	}
}

func TestSweepConstantCurve(t *testing.T) {
	b := newBuilder(t, bbox.New())
	res, err := b.Sweep(scenePath(t, curve.Constant(geom.V2(0.1, 0.1)), 10))
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if res.Segments != 0 || res.Sockets != 1 {
		t.Errorf("result = %+v, want a single socket", res)
	}
}

func TestSweepAllCulled(t *testing.T) {
	b := newBuilder(t, bbox.New())
	_, err := b.Sweep(scenePath(t, curve.Constant(geom.V2(5, 5)), 3))
	if !errors.Is(err, ErrEmptySweep) {
		t.Errorf("expected ErrEmptySweep, got %v", err)
	}
}

func TestOutline(t *testing.T) {
	b := newBuilder(t, bbox.New())
	sq := geom.Polygon{geom.V2(0, 0), geom.V2(10, 0), geom.V2(10, 10), geom.V2(0, 10)}
	s, err := b.Outline(sq)
	if err != nil {
		t.Fatalf("Outline: %v", err)
	}
	checkBox(t, "outline", s, [3]float64{0, 0, -tol}, [3]float64{10, 10, plate + tol})

	if _, err := b.Outline(geom.Polygon{geom.V2(0, 0), geom.V2(1, 0)}); err == nil {
		t.Error("expected error for degenerate outline")
	}
}

func TestLineMeshesWithSdfx(t *testing.T) {
	k := sdfx.New(sdfx.WithMeshCells(48))
	b := newBuilder(t, k)
	s, err := b.Line(geom.V2(0, 0), geom.V2(10, 0))
	if err != nil {
		t.Fatalf("Line: %v", err)
	}
	m, err := k.ToMesh(s)
	if err != nil {
		t.Fatalf("ToMesh: %v", err)
	}
	min, max := m.Bounds()
	const slack = 0.5
	if math.Abs(min[0]+1.5) > slack || math.Abs(max[0]-11.5) > slack {
		t.Errorf("mesh x range %f..%f, want ~-1.5..11.5", min[0], max[0])
	}
	if math.Abs(max[1]-1.5) > slack || math.Abs(max[2]-(plate+tol)) > slack {
		t.Errorf("mesh max %v, want y ~1.5, z ~3", max)
	}
}
