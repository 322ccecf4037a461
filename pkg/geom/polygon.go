package geom

import (
	"errors"
	"fmt"
	"math"
)

// eps is the tolerance used by the orientation predicates.
const eps = 1e-9

// Polygon is a closed polygon; the last vertex connects back to the first.
type Polygon []Vec2

// ErrTooFewVertices is returned by Validate for polygons with fewer than
// three vertices.
var ErrTooFewVertices = errors.New("polygon has fewer than 3 vertices")

// SignedArea returns the shoelace area: positive for counter-clockwise winding.
func (p Polygon) SignedArea() float64 {
	var a float64
	for i := range p {
		j := (i + 1) % len(p)
		a += Cross(p[i], p[j])
	}
	return a / 2
}

// Bounds returns the bounding box of the vertices.
func (p Polygon) Bounds() Box2 {
	b := EmptyBox()
	for _, v := range p {
		b = b.Extend(v)
	}
	return b
}

// Reversed returns a copy with the vertex order reversed.
func (p Polygon) Reversed() Polygon {
	out := make(Polygon, len(p))
	for i, v := range p {
		out[len(p)-1-i] = v
	}
	return out
}

// MirrorX returns a copy mirrored across the Y axis (x -> -x), with the
// vertex order reversed so the winding is preserved.
func (p Polygon) MirrorX() Polygon {
	out := make(Polygon, len(p))
	for i, v := range p {
		out[len(p)-1-i] = Vec2{X: -v.X, Y: v.Y}
	}
	return out
}

// Translate returns a copy moved by d.
func (p Polygon) Translate(d Vec2) Polygon {
	out := make(Polygon, len(p))
	for i, v := range p {
		out[i] = v.Add(d)
	}
	return out
}

// Validate checks that the polygon has at least three finite vertices,
// non-zero area and no self-intersections.
func (p Polygon) Validate() error {
	if len(p) < 3 {
		return ErrTooFewVertices
	}
	for i, v := range p {
		if !v.IsFinite() {
			return fmt.Errorf("vertex %d is not finite: %v", i, v)
		}
	}
	if math.Abs(p.SignedArea()) < eps {
		return errors.New("polygon has zero area")
	}
	if i, j, ok := p.firstIntersection(); ok {
		return fmt.Errorf("edges %d and %d intersect", i, j)
	}
	return nil
}

// IsSimple reports whether Validate succeeds.
func (p Polygon) IsSimple() bool {
	return p.Validate() == nil
}

// firstIntersection returns the first pair of edges that touch or cross,
// ignoring the shared endpoint of neighbouring edges.
func (p Polygon) firstIntersection() (int, int, bool) {
	n := len(p)
	for i := 0; i < n; i++ {
		a0, a1 := p[i], p[(i+1)%n]
		if a0.ApproxEqual(a1, eps) {
			return i, (i + 1) % n, true
		}
		for j := i + 1; j < n; j++ {
			b0, b1 := p[j], p[(j+1)%n]
			adjacent := j == i+1 || (i == 0 && j == n-1)
			if adjacent {
				// Neighbours share one vertex; they only conflict if they fold back
				// onto each other.
				shared, other, far := a1, a0, b1
				if i == 0 && j == n-1 {
					shared, other, far = a0, a1, b0
				}
				if math.Abs(Cross(other.Sub(shared), far.Sub(shared))) < eps &&
					dot(other.Sub(shared), far.Sub(shared)) > 0 {
					return i, j, true
				}
				continue
			}
			if segmentsIntersect(a0, a1, b0, b1) {
				return i, j, true
			}
		}
	}
	return 0, 0, false
}

func dot(a, b Vec2) float64 {
	return a.X*b.X + a.Y*b.Y
}

func orientation(a, b, c Vec2) int {
	v := Cross(b.Sub(a), c.Sub(a))
	switch {
	case v > eps:
		return 1
	case v < -eps:
		return -1
	}
	return 0
}

func onSegment(a, b, p Vec2) bool {
	return p.X <= math.Max(a.X, b.X)+eps && p.X >= math.Min(a.X, b.X)-eps &&
		p.Y <= math.Max(a.Y, b.Y)+eps && p.Y >= math.Min(a.Y, b.Y)-eps
}

// segmentsIntersect reports whether closed segments ab and cd share a point.
func segmentsIntersect(a, b, c, d Vec2) bool {
	o1 := orientation(a, b, c)
	o2 := orientation(a, b, d)
	o3 := orientation(c, d, a)
	o4 := orientation(c, d, b)
	if o1 != o2 && o3 != o4 {
		return true
	}
	switch {
	case o1 == 0 && onSegment(a, b, c):
		return true
	case o2 == 0 && onSegment(a, b, d):
		return true
	case o3 == 0 && onSegment(c, d, a):
		return true
	case o4 == 0 && onSegment(c, d, b):
		return true
	}
	return false
}
