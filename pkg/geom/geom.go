// Package geom holds the backend-neutral 2D value types shared by the
// coordinate, profile, curve and stencil packages. Kernel implementations
// convert these into their own vector types at the boundary.
package geom

import (
	"fmt"
	"math"
)

// Vec2 is a 2D point or vector.
type Vec2 struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// V2 is shorthand for Vec2{X: x, Y: y}.
func V2(x, y float64) Vec2 {
	return Vec2{X: x, Y: y}
}

// Add returns the component-wise sum of two vectors.
func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{X: v.X + o.X, Y: v.Y + o.Y}
}

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{X: v.X - o.X, Y: v.Y - o.Y}
}

// Scale multiplies both components by k.
func (v Vec2) Scale(k float64) Vec2 {
	return Vec2{X: v.X * k, Y: v.Y * k}
}

// Length returns the Euclidean norm.
func (v Vec2) Length() float64 {
	return math.Hypot(v.X, v.Y)
}

// Lerp interpolates between v (t=0) and o (t=1).
func (v Vec2) Lerp(o Vec2, t float64) Vec2 {
	return Vec2{X: v.X + (o.X-v.X)*t, Y: v.Y + (o.Y-v.Y)*t}
}

// Bearing returns the direction of v in degrees, counter-clockwise from +X,
// in the range (-180, 180].
func (v Vec2) Bearing() float64 {
	return math.Atan2(v.Y, v.X) * 180 / math.Pi
}

// IsFinite reports whether neither component is NaN or infinite.
func (v Vec2) IsFinite() bool {
	return !math.IsNaN(v.X) && !math.IsNaN(v.Y) && !math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0)
}

// ApproxEqual reports whether v and o differ by at most tol in each component.
func (v Vec2) ApproxEqual(o Vec2, tol float64) bool {
	return math.Abs(v.X-o.X) <= tol && math.Abs(v.Y-o.Y) <= tol
}

func (v Vec2) String() string {
	return fmt.Sprintf("(%.4g, %.4g)", v.X, v.Y)
}

// Cross returns the z component of the 3D cross product of a and b.
func Cross(a, b Vec2) float64 {
	return a.X*b.Y - a.Y*b.X
}

// Box2 is an axis-aligned bounding rectangle.
type Box2 struct {
	Min, Max Vec2
}

// Size returns the width and height of the box.
func (b Box2) Size() Vec2 {
	return b.Max.Sub(b.Min)
}

// Center returns the midpoint of the box.
func (b Box2) Center() Vec2 {
	return b.Min.Lerp(b.Max, 0.5)
}

// Extend grows the box to include p.
func (b Box2) Extend(p Vec2) Box2 {
	return Box2{
		Min: Vec2{X: math.Min(b.Min.X, p.X), Y: math.Min(b.Min.Y, p.Y)},
		Max: Vec2{X: math.Max(b.Max.X, p.X), Y: math.Max(b.Max.Y, p.Y)},
	}
}

// EmptyBox returns a box that any Extend call will replace.
func EmptyBox() Box2 {
	return Box2{
		Min: Vec2{X: math.Inf(1), Y: math.Inf(1)},
		Max: Vec2{X: math.Inf(-1), Y: math.Inf(-1)},
	}
}
