package curve

import (
	"math"

	"github.com/chazu/stencilstation/pkg/coords"
	"github.com/chazu/stencilstation/pkg/geom"
)

// Constant always returns p.
func Constant(p geom.Vec2) Func {
	return func(float64) (geom.Vec2, error) { return p, nil }
}

// Line runs from a (t=-1) to b (t=1).
func Line(a, b geom.Vec2) Func {
	return func(t float64) (geom.Vec2, error) {
		return a.Lerp(b, (t+1)/2), nil
	}
}

// Circle runs once around center c with radius r, starting at angle 0.
func Circle(c geom.Vec2, r float64) Func {
	return func(t float64) (geom.Vec2, error) {
		a := (t + 1) * math.Pi
		return geom.Vec2{X: c.X + r*math.Cos(a), Y: c.Y + r*math.Sin(a)}, nil
	}
}

// Lissajous traces (ax*sin(a*pi*t + phase), ay*sin(b*pi*t)).
func Lissajous(ax, ay, a, b, phase float64) Func {
	return func(t float64) (geom.Vec2, error) {
		return geom.Vec2{
			X: ax * math.Sin(a*math.Pi*t+phase),
			Y: ay * math.Sin(b*math.Pi*t),
		}, nil
	}
}

// Rose traces the polar rose r = amp*cos(k*theta) over a full turn.
func Rose(amp, k float64) Func {
	return func(t float64) (geom.Vec2, error) {
		theta := (t + 1) * math.Pi
		r := amp * math.Cos(k*theta)
		return geom.Vec2{X: r * math.Cos(theta), Y: r * math.Sin(theta)}, nil
	}
}

// Graph plots y = f(x) given in graph-space units. The curve parameter is
// the virtual x coordinate, so the function spans the whole window.
func Graph(m *coords.Mapper, f func(x float64) float64) Func {
	return func(t float64) (geom.Vec2, error) {
		x := m.VirtualToGraphX(t)
		return geom.Vec2{X: t, Y: m.GraphToVirtualY(f(x))}, nil
	}
}

// GraphParametric plots (fx(u), fy(u)) in graph-space units for u swept
// from uMin to uMax.
func GraphParametric(m *coords.Mapper, uMin, uMax float64, fx, fy func(u float64) float64) Func {
	return func(t float64) (geom.Vec2, error) {
		u := uMin + (t+1)/2*(uMax-uMin)
		return m.GraphToVirtual(geom.Vec2{X: fx(u), Y: fy(u)}), nil
	}
}
