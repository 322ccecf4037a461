// Package sdfx implements the kernel.Kernel interface using the
// github.com/deadsy/sdfx SDF-based CAD library.
package sdfx

import (
	"fmt"
	"math"

	"github.com/chazu/stencilstation/pkg/geom"
	"github.com/chazu/stencilstation/pkg/kernel"
	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Compile-time interface check.
var _ kernel.Kernel = (*SdfxKernel)(nil)

// DefaultMeshCells controls marching cubes tessellation resolution: the
// number of cells along the longest axis of a solid.
const DefaultMeshCells = 200

// sdfxShape wraps an sdf.SDF2 to implement kernel.Shape.
type sdfxShape struct {
	s sdf.SDF2
}

// Bounds returns the axis-aligned bounding box.
func (s *sdfxShape) Bounds() geom.Box2 {
	bb := s.s.BoundingBox()
	return geom.Box2{Min: geom.V2(bb.Min.X, bb.Min.Y), Max: geom.V2(bb.Max.X, bb.Max.Y)}
}

// sdfxSolid wraps an sdf.SDF3 to implement kernel.Solid.
type sdfxSolid struct {
	s sdf.SDF3
}

// BoundingBox returns the axis-aligned bounding box.
func (s *sdfxSolid) BoundingBox() (min, max [3]float64) {
	bb := s.s.BoundingBox()
	min = [3]float64{bb.Min.X, bb.Min.Y, bb.Min.Z}
	max = [3]float64{bb.Max.X, bb.Max.Y, bb.Max.Z}
	return min, max
}

// SdfxKernel implements kernel.Kernel using sdfx.
type SdfxKernel struct {
	meshCells int
}

// Option configures an SdfxKernel.
type Option func(*SdfxKernel)

// WithMeshCells sets the marching cubes resolution. Values below 8 are
// raised to 8.
func WithMeshCells(n int) Option {
	return func(k *SdfxKernel) {
		if n < 8 {
			n = 8
		}
		k.meshCells = n
	}
}

// New returns a new SdfxKernel.
func New(opts ...Option) *SdfxKernel {
	k := &SdfxKernel{meshCells: DefaultMeshCells}
	for _, opt := range opts {
		opt(k)
	}
	return k
}

// MeshCells returns the marching cubes resolution in use.
func (k *SdfxKernel) MeshCells() int {
	return k.meshCells
}

func unwrap2(s kernel.Shape) sdf.SDF2 {
	return s.(*sdfxShape).s
}

func wrap2(s sdf.SDF2) kernel.Shape {
	return &sdfxShape{s: s}
}

// unwrap extracts the underlying sdf.SDF3 from a kernel.Solid.
func unwrap(s kernel.Solid) sdf.SDF3 {
	return s.(*sdfxSolid).s
}

// wrap creates a kernel.Solid from an sdf.SDF3.
func wrap(s sdf.SDF3) kernel.Solid {
	return &sdfxSolid{s: s}
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180.0
}

// ---------------------------------------------------------------------------
// 2D
// ---------------------------------------------------------------------------

// Polygon validates p and builds the region it encloses.
func (k *SdfxKernel) Polygon(p geom.Polygon) (kernel.Shape, error) {
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("sdfx: polygon: %w", err)
	}
	verts := make([]v2.Vec, len(p))
	for i, v := range p {
		verts[i] = v2.Vec{X: v.X, Y: v.Y}
	}
	s, err := sdf.Polygon2D(verts)
	if err != nil {
		return nil, fmt.Errorf("sdfx: polygon: %w", err)
	}
	return wrap2(s), nil
}

// Circle creates a disc centered on the origin.
func (k *SdfxKernel) Circle(radius float64) (kernel.Shape, error) {
	s, err := sdf.Circle2D(radius)
	if err != nil {
		return nil, fmt.Errorf("sdfx: circle: %w", err)
	}
	return wrap2(s), nil
}

// Rect creates a w x h rectangle centered on the origin.
func (k *SdfxKernel) Rect(w, h float64) (kernel.Shape, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("sdfx: rect: size %gx%g must be positive", w, h)
	}
	return wrap2(sdf.Box2D(v2.Vec{X: w, Y: h}, 0)), nil
}

// Union2D returns the union of the given shapes.
func (k *SdfxKernel) Union2D(a kernel.Shape, rest ...kernel.Shape) kernel.Shape {
	if len(rest) == 0 {
		return a
	}
	all := make([]sdf.SDF2, 0, len(rest)+1)
	all = append(all, unwrap2(a))
	for _, s := range rest {
		all = append(all, unwrap2(s))
	}
	return wrap2(sdf.Union2D(all...))
}

// Difference2D returns a - b.
func (k *SdfxKernel) Difference2D(a, b kernel.Shape) kernel.Shape {
	return wrap2(sdf.Difference2D(unwrap2(a), unwrap2(b)))
}

// Translate2D moves a shape by (x, y).
func (k *SdfxKernel) Translate2D(s kernel.Shape, x, y float64) kernel.Shape {
	return wrap2(sdf.Transform2D(unwrap2(s), sdf.Translate2d(v2.Vec{X: x, Y: y})))
}

// Offset2D grows (d > 0) or shrinks (d < 0) a shape.
func (k *SdfxKernel) Offset2D(s kernel.Shape, d float64) kernel.Shape {
	return wrap2(sdf.Offset2D(unwrap2(s), d))
}

// Extrude sweeps a shape along Z; the result is centered on z=0.
func (k *SdfxKernel) Extrude(s kernel.Shape, height float64) kernel.Solid {
	return wrap(sdf.Extrude3D(unwrap2(s), height))
}

// Revolve spins a shape a full turn around the Y axis. The 2D x
// coordinate becomes the radius and the 2D y coordinate becomes z.
func (k *SdfxKernel) Revolve(s kernel.Shape) (kernel.Solid, error) {
	r, err := sdf.Revolve3D(unwrap2(s))
	if err != nil {
		return nil, fmt.Errorf("sdfx: revolve: %w", err)
	}
	return wrap(r), nil
}

// ---------------------------------------------------------------------------
// 3D
// ---------------------------------------------------------------------------

// Box creates a box with the given dimensions centered on the origin.
func (k *SdfxKernel) Box(x, y, z float64) (kernel.Solid, error) {
	s, err := sdf.Box3D(v3.Vec{X: x, Y: y, Z: z}, 0)
	if err != nil {
		return nil, fmt.Errorf("sdfx: box: %w", err)
	}
	return wrap(s), nil
}

// Cylinder creates a Z-aligned cylinder centered on the origin.
func (k *SdfxKernel) Cylinder(height, radius float64) (kernel.Solid, error) {
	s, err := sdf.Cylinder3D(height, radius, 0)
	if err != nil {
		return nil, fmt.Errorf("sdfx: cylinder: %w", err)
	}
	return wrap(s), nil
}

// Union returns the union of the given solids.
func (k *SdfxKernel) Union(a kernel.Solid, rest ...kernel.Solid) kernel.Solid {
	if len(rest) == 0 {
		return a
	}
	all := make([]sdf.SDF3, 0, len(rest)+1)
	all = append(all, unwrap(a))
	for _, s := range rest {
		all = append(all, unwrap(s))
	}
	return wrap(sdf.Union3D(all...))
}

// Difference returns the difference a - b.
func (k *SdfxKernel) Difference(a, b kernel.Solid) kernel.Solid {
	return wrap(sdf.Difference3D(unwrap(a), unwrap(b)))
}

// Intersection returns the intersection of two solids.
func (k *SdfxKernel) Intersection(a, b kernel.Solid) kernel.Solid {
	return wrap(sdf.Intersect3D(unwrap(a), unwrap(b)))
}

// Translate moves a solid by (x, y, z).
func (k *SdfxKernel) Translate(s kernel.Solid, x, y, z float64) kernel.Solid {
	m := sdf.Translate3d(v3.Vec{X: x, Y: y, Z: z})
	return wrap(sdf.Transform3D(unwrap(s), m))
}

// Rotate rotates a solid by Euler angles (degrees) around X, Y, Z axes.
func (k *SdfxKernel) Rotate(s kernel.Solid, x, y, z float64) kernel.Solid {
	m := sdf.RotateZ(radians(z)).Mul(sdf.RotateY(radians(y))).Mul(sdf.RotateX(radians(x)))
	return wrap(sdf.Transform3D(unwrap(s), m))
}

// Mirror reflects a solid across the plane normal to axis.
func (k *SdfxKernel) Mirror(s kernel.Solid, axis kernel.Axis) kernel.Solid {
	m := sdf.MirrorYZ()
	if axis == kernel.AxisY {
		m = sdf.MirrorXZ()
	}
	return wrap(sdf.Transform3D(unwrap(s), m))
}

// ToMesh converts a solid to a triangle mesh using marching cubes.
func (k *SdfxKernel) ToMesh(s kernel.Solid) (*kernel.Mesh, error) {
	sdf3 := unwrap(s)

	renderer := render.NewMarchingCubesUniform(k.meshCells)
	triangles := render.ToTriangles(sdf3, renderer)
	if len(triangles) == 0 {
		return nil, fmt.Errorf("sdfx: mesh: solid produced no triangles at %d cells", k.meshCells)
	}

	numVerts := len(triangles) * 3

	vertices := make([]float32, 0, numVerts*3)
	normals := make([]float32, 0, numVerts*3)
	indices := make([]uint32, 0, numVerts)

	for i, tri := range triangles {
		// Compute face normal.
		n := tri.Normal()
		nx := float32(n.X)
		ny := float32(n.Y)
		nz := float32(n.Z)

		for j := 0; j < 3; j++ {
			v := tri[j]
			vertices = append(vertices, float32(v.X), float32(v.Y), float32(v.Z))
			normals = append(normals, nx, ny, nz)
			indices = append(indices, uint32(i*3+j))
		}
	}

	return &kernel.Mesh{
		Vertices: vertices,
		Normals:  normals,
		Indices:  indices,
	}, nil
}
