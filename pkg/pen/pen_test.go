package pen

import (
	"errors"
	"math"
	"testing"

	"github.com/chazu/stencilstation/pkg/geom"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

const (
	plate = 3.0
	tol   = 0.01
)

var approx = cmpopts.EquateApprox(0, 1e-9)

func TestCatalogProfilesAreValid(t *testing.T) {
	for i, p := range Catalog {
		if err := p.Validate(plate); err != nil {
			t.Errorf("catalog[%d] %s: %v", i, p.Name, err)
		}
	}
}

func TestSelect(t *testing.T) {
	p, err := Select(1)
	if err != nil {
		t.Fatalf("Select(1): %v", err)
	}
	if p != Catalog[1] {
		t.Errorf("Select(1) = %+v, want %+v", p, Catalog[1])
	}
	for _, i := range []int{-1, len(Catalog)} {
		if _, err := Select(i); !errors.Is(err, ErrUnknownPen) {
			t.Errorf("Select(%d) error = %v, want ErrUnknownPen", i, err)
		}
	}
}

func TestHalfProfileOuterEdgeStrictlyIncreasing(t *testing.T) {
	for _, p := range Catalog {
		t.Run(p.Name, func(t *testing.T) {
			half, err := p.HalfProfile(plate, tol)
			if err != nil {
				t.Fatalf("HalfProfile: %v", err)
			}
			if !half.IsSimple() {
				t.Fatalf("half profile is not simple: %v", half)
			}
			edge := half[1 : len(half)-1] // wall, floor to top
			for i := 1; i < len(edge); i++ {
				if !(edge[i].Y > edge[i-1].Y) {
					t.Errorf("outer edge y not strictly increasing at %d: %v then %v", i, edge[i-1], edge[i])
				}
			}
			if got := edge[0].Y; got != -tol {
				t.Errorf("floor y = %f, want %f", got, -tol)
			}
			if got := half[len(half)-1].Y; got != plate+tol {
				t.Errorf("top y = %f, want %f", got, plate+tol)
			}
		})
	}
}

func TestHalfProfileVertices(t *testing.T) {
	p := Profile{Name: "test", MinWidth: 1, MaxWidth: 2, BevelAngle: 60, ShaftDepth: 1}
	// theta = 60 deg: to width = 0.5/cos(60) = 1, to top = 2/sin(60) > 1.
	half, err := p.HalfProfile(plate, tol)
	if err != nil {
		t.Fatalf("HalfProfile: %v", err)
	}
	want := geom.Polygon{
		{X: 0, Y: -tol},
		{X: 0.5, Y: -tol},
		{X: 0.5, Y: 1},
		{X: 1, Y: 2},
		{X: 1, Y: plate + tol},
		{X: 0, Y: plate + tol},
	}
	if diff := cmp.Diff(want, half, approx); diff != "" {
		t.Errorf("half profile mismatch (-want +got):\n%s", diff)
	}
}

func TestBevelLimitedByPlateTop(t *testing.T) {
	// A wide, shallow cone would overshoot a thin plate.
	p := Profile{Name: "wide", MinWidth: 1, MaxWidth: 9, BevelAngle: 30, ShaftDepth: 1}
	h := p.BevelHeight(2)
	if h > 1+1e-12 {
		t.Fatalf("bevel height %f overshoots the 1 mm of material above the shaft", h)
	}
	half, err := p.HalfProfile(2, tol)
	if err != nil {
		t.Fatalf("HalfProfile: %v", err)
	}
	for _, v := range half {
		if v.Y > 2+tol {
			t.Errorf("vertex %v above plate top", v)
		}
	}
}

func TestDegenerateBevelIsRectangular(t *testing.T) {
	p := Profile{Name: "straight", MinWidth: 2, MaxWidth: 2, BevelAngle: 90, ShaftDepth: 1}
	if h := p.BevelHeight(plate); h != 0 {
		t.Fatalf("bevel height = %f, want 0", h)
	}
	if !p.Straight(plate) {
		t.Error("expected straight-walled groove")
	}
	half, err := p.HalfProfile(plate, tol)
	if err != nil {
		t.Fatalf("HalfProfile: %v", err)
	}
	want := geom.Polygon{
		{X: 0, Y: -tol},
		{X: 1, Y: -tol},
		{X: 1, Y: plate + tol},
		{X: 0, Y: plate + tol},
	}
	if diff := cmp.Diff(want, half, approx); diff != "" {
		t.Errorf("rectangular profile mismatch (-want +got):\n%s", diff)
	}
}

func TestShaftThroughPlateIsStraight(t *testing.T) {
	p := Profile{Name: "deep", MinWidth: 1, MaxWidth: 3, BevelAngle: 60, ShaftDepth: plate}
	if !p.Straight(plate) {
		t.Fatalf("shaft depth == plate should leave no room for a bevel, got %f", p.BevelHeight(plate))
	}
	half, err := p.HalfProfile(plate, tol)
	if err != nil {
		t.Fatalf("HalfProfile: %v", err)
	}
	if len(half) != 4 {
		t.Errorf("expected 4 vertices, got %d", len(half))
	}
}

func TestBevelMeetingWidthAtTopIsStraight(t *testing.T) {
	// theta = 45 deg and adj == opp, so the wall reaches MaxWidth exactly
	// at the plate top.
	p := Profile{Name: "tie", MinWidth: 1, MaxWidth: 5, BevelAngle: 90, ShaftDepth: 1}
	if h := p.BevelHeight(plate); h != 0 {
		t.Fatalf("bevel height = %f, want 0", h)
	}
	if !p.Straight(plate) {
		t.Error("expected straight-walled groove")
	}
	half, err := p.HalfProfile(plate, tol)
	if err != nil {
		t.Fatalf("HalfProfile: %v", err)
	}
	if len(half) != 4 || !half.IsSimple() {
		t.Errorf("expected a simple 4-vertex profile, got %v", half)
	}

	// Nudging the shaft down leaves a real bevel again.
	p.ShaftDepth = 0.9
	if p.Straight(plate) {
		t.Error("bevel vanished once the heights differ")
	}
}

func TestCrossSection(t *testing.T) {
	for _, p := range Catalog {
		full, err := p.CrossSection(plate, tol)
		if err != nil {
			t.Fatalf("%s: CrossSection: %v", p.Name, err)
		}
		if full.SignedArea() <= 0 {
			t.Errorf("%s: cross-section not counter-clockwise", p.Name)
		}
		b := full.Bounds()
		if math.Abs(b.Min.X+b.Max.X) > 1e-12 {
			t.Errorf("%s: cross-section not centered: %v", p.Name, b)
		}
		if math.Abs(b.Size().X-p.MaxWidth) > 1e-9 && !p.Straight(plate) {
			t.Errorf("%s: width %f, want %f", p.Name, b.Size().X, p.MaxWidth)
		}
	}
}

func TestInvalidProfiles(t *testing.T) {
	tests := []struct {
		name string
		p    Profile
	}{
		{"min above max", Profile{MinWidth: 3, MaxWidth: 2, BevelAngle: 60, ShaftDepth: 1}},
		{"zero angle", Profile{MinWidth: 1, MaxWidth: 2, BevelAngle: 0, ShaftDepth: 1}},
		{"flat angle", Profile{MinWidth: 1, MaxWidth: 2, BevelAngle: 180, ShaftDepth: 1}},
		{"shaft too deep", Profile{MinWidth: 1, MaxWidth: 2, BevelAngle: 60, ShaftDepth: 4}},
		{"zero width", Profile{MinWidth: 0, MaxWidth: 2, BevelAngle: 60, ShaftDepth: 1}},
		{"nan", Profile{MinWidth: math.NaN(), MaxWidth: 2, BevelAngle: 60, ShaftDepth: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.p.HalfProfile(plate, tol)
			var ce *ConstructionError
			if !errors.As(err, &ce) {
				t.Fatalf("expected ConstructionError, got %v", err)
			}
		})
	}
}
