// Package kernel defines the abstract geometry kernel interface.
// Implementations (sdfx) provide 2D profiles, solid modeling and
// boolean operations behind this interface. The kernel abstraction
// allows swapping backends without changing the rest of the system.
//
// Conventions: 2D shapes live in the XY plane. Extrude produces a solid
// centered on z=0. Revolve spins a shape around the Y axis, mapping 2D x
// to the radius and 2D y to z.
package kernel

import "github.com/chazu/stencilstation/pkg/geom"

// Shape is an opaque handle to a 2D region.
type Shape interface {
	// Bounds returns the axis-aligned bounding box.
	Bounds() geom.Box2
}

// Solid is an opaque handle to a geometry kernel solid.
// Implementations wrap their internal representation.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max [3]float64)
}

// Axis selects a mirror plane by its normal.
type Axis int

const (
	AxisX Axis = iota // mirror x -> -x
	AxisY             // mirror y -> -y
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	}
	return "unknown"
}

// Kernel is the abstract geometry kernel interface.
type Kernel interface {
	// 2D primitives
	Polygon(p geom.Polygon) (Shape, error)
	Circle(radius float64) (Shape, error)
	Rect(w, h float64) (Shape, error) // centered on the origin

	// 2D operations
	Union2D(a Shape, rest ...Shape) Shape
	Difference2D(a, b Shape) Shape
	Translate2D(s Shape, x, y float64) Shape
	Offset2D(s Shape, d float64) Shape

	// 2D -> 3D
	Extrude(s Shape, height float64) Solid
	Revolve(s Shape) (Solid, error)

	// 3D primitives, centered on the origin
	Box(x, y, z float64) (Solid, error)
	Cylinder(height, radius float64) (Solid, error)

	// Boolean operations
	Union(a Solid, rest ...Solid) Solid
	Difference(a, b Solid) Solid
	Intersection(a, b Solid) Solid

	// Transforms
	Translate(s Solid, x, y, z float64) Solid
	Rotate(s Solid, x, y, z float64) Solid // Euler angles in degrees, applied X then Y then Z
	Mirror(s Solid, axis Axis) Solid

	// Mesh output
	ToMesh(s Solid) (*Mesh, error)
}
