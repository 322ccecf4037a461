// Package bbox implements kernel.Kernel with axis-aligned bounding boxes
// only. It is exact for translations, unions and box-aligned shapes and
// conservative everywhere else, which makes it a fast stand-in for
// layout checks and tests. Every call is counted in Ops.
package bbox

import (
	"errors"
	"fmt"
	"math"

	"github.com/chazu/stencilstation/pkg/geom"
	"github.com/chazu/stencilstation/pkg/kernel"
)

// Compile-time interface check.
var _ kernel.Kernel = (*Kernel)(nil)

// Shape is a 2D bounding box.
type Shape struct {
	Box geom.Box2
}

func (s *Shape) Bounds() geom.Box2 { return s.Box }

// Solid is a 3D bounding box.
type Solid struct {
	Min, Max [3]float64
}

func (s *Solid) BoundingBox() (min, max [3]float64) { return s.Min, s.Max }

// Kernel counts operations by name.
type Kernel struct {
	Ops map[string]int
}

// New returns an empty Kernel.
func New() *Kernel {
	return &Kernel{Ops: make(map[string]int)}
}

func (k *Kernel) count(op string) {
	if k.Ops == nil {
		k.Ops = make(map[string]int)
	}
	k.Ops[op]++
}

func shape(s kernel.Shape) geom.Box2 { return s.(*Shape).Box }
func solid(s kernel.Solid) *Solid    { return s.(*Solid) }

// ---------------------------------------------------------------------------
// 2D
// ---------------------------------------------------------------------------

func (k *Kernel) Polygon(p geom.Polygon) (kernel.Shape, error) {
	k.count("polygon")
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("bbox: polygon: %w", err)
	}
	return &Shape{Box: p.Bounds()}, nil
}

func (k *Kernel) Circle(r float64) (kernel.Shape, error) {
	k.count("circle")
	if r <= 0 {
		return nil, fmt.Errorf("bbox: circle: radius %g must be positive", r)
	}
	return &Shape{Box: geom.Box2{Min: geom.V2(-r, -r), Max: geom.V2(r, r)}}, nil
}

func (k *Kernel) Rect(w, h float64) (kernel.Shape, error) {
	k.count("rect")
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("bbox: rect: size %gx%g must be positive", w, h)
	}
	return &Shape{Box: geom.Box2{Min: geom.V2(-w/2, -h/2), Max: geom.V2(w/2, h/2)}}, nil
}

func (k *Kernel) Union2D(a kernel.Shape, rest ...kernel.Shape) kernel.Shape {
	k.count("union2d")
	b := shape(a)
	for _, s := range rest {
		r := shape(s)
		b = b.Extend(r.Min).Extend(r.Max)
	}
	return &Shape{Box: b}
}

func (k *Kernel) Difference2D(a, _ kernel.Shape) kernel.Shape {
	k.count("difference2d")
	return &Shape{Box: shape(a)}
}

func (k *Kernel) Translate2D(s kernel.Shape, x, y float64) kernel.Shape {
	k.count("translate2d")
	b := shape(s)
	d := geom.V2(x, y)
	return &Shape{Box: geom.Box2{Min: b.Min.Add(d), Max: b.Max.Add(d)}}
}


func (k *Kernel) Offset2D(s kernel.Shape, d float64) kernel.Shape {
	k.count("offset2d")
	b := shape(s)
	return &Shape{Box: geom.Box2{Min: b.Min.Sub(geom.V2(d, d)), Max: b.Max.Add(geom.V2(d, d))}}
}

func (k *Kernel) Extrude(s kernel.Shape, h float64) kernel.Solid {
	k.count("extrude")
	b := shape(s)
	return &Solid{Min: [3]float64{b.Min.X, b.Min.Y, -h / 2}, Max: [3]float64{b.Max.X, b.Max.Y, h / 2}}
}

func (k *Kernel) Revolve(s kernel.Shape) (kernel.Solid, error) {
	k.count("revolve")
	b := shape(s)
	r := math.Max(math.Abs(b.Min.X), math.Abs(b.Max.X))
	if r == 0 {
		return nil, errors.New("bbox: revolve: shape has no radial extent")
	}
	return &Solid{Min: [3]float64{-r, -r, b.Min.Y}, Max: [3]float64{r, r, b.Max.Y}}, nil
}

// ---------------------------------------------------------------------------
// 3D
// ---------------------------------------------------------------------------

func (k *Kernel) Box(x, y, z float64) (kernel.Solid, error) {
	k.count("box")
	if x <= 0 || y <= 0 || z <= 0 {
		return nil, fmt.Errorf("bbox: box: size %gx%gx%g must be positive", x, y, z)
	}
	return &Solid{Min: [3]float64{-x / 2, -y / 2, -z / 2}, Max: [3]float64{x / 2, y / 2, z / 2}}, nil
}

func (k *Kernel) Cylinder(h, r float64) (kernel.Solid, error) {
	k.count("cylinder")
	if h <= 0 || r <= 0 {
		return nil, fmt.Errorf("bbox: cylinder: height %g and radius %g must be positive", h, r)
	}
	return &Solid{Min: [3]float64{-r, -r, -h / 2}, Max: [3]float64{r, r, h / 2}}, nil
}

func (k *Kernel) Union(a kernel.Solid, rest ...kernel.Solid) kernel.Solid {
	k.count("union")
	out := *solid(a)
	for _, s := range rest {
		b := solid(s)
		for i := 0; i < 3; i++ {
			out.Min[i] = math.Min(out.Min[i], b.Min[i])
			out.Max[i] = math.Max(out.Max[i], b.Max[i])
		}
	}
	return &out
}

func (k *Kernel) Difference(a, _ kernel.Solid) kernel.Solid {
	k.count("difference")
	out := *solid(a)
	return &out
}

func (k *Kernel) Intersection(a, b kernel.Solid) kernel.Solid {
	k.count("intersection")
	out := *solid(a)
	o := solid(b)
	for i := 0; i < 3; i++ {
		out.Min[i] = math.Max(out.Min[i], o.Min[i])
		out.Max[i] = math.Min(out.Max[i], o.Max[i])
	}
	return &out
}

func (k *Kernel) Translate(s kernel.Solid, x, y, z float64) kernel.Solid {
	k.count("translate")
	out := *solid(s)
	d := [3]float64{x, y, z}
	for i := 0; i < 3; i++ {
		out.Min[i] += d[i]
		out.Max[i] += d[i]
	}
	return &out
}

// Rotate returns the box around the eight rotated corners.
func (k *Kernel) Rotate(s kernel.Solid, x, y, z float64) kernel.Solid {
	k.count("rotate")
	in := solid(s)
	rad := math.Pi / 180
	sx, cx := math.Sincos(x * rad)
	sy, cy := math.Sincos(y * rad)
	sz, cz := math.Sincos(z * rad)
	out := Solid{
		Min: [3]float64{math.Inf(1), math.Inf(1), math.Inf(1)},
		Max: [3]float64{math.Inf(-1), math.Inf(-1), math.Inf(-1)},
	}
	for c := 0; c < 8; c++ {
		p := [3]float64{in.Min[0], in.Min[1], in.Min[2]}
		for i := 0; i < 3; i++ {
			if c&(1<<i) != 0 {
				p[i] = in.Max[i]
			}
		}
		// X, then Y, then Z.
		p[1], p[2] = p[1]*cx-p[2]*sx, p[1]*sx+p[2]*cx
		p[0], p[2] = p[0]*cy+p[2]*sy, -p[0]*sy+p[2]*cy
		p[0], p[1] = p[0]*cz-p[1]*sz, p[0]*sz+p[1]*cz
		for i := 0; i < 3; i++ {
			out.Min[i] = math.Min(out.Min[i], p[i])
			out.Max[i] = math.Max(out.Max[i], p[i])
		}
	}
	return &out
}

func (k *Kernel) Mirror(s kernel.Solid, axis kernel.Axis) kernel.Solid {
	k.count("mirror")
	out := *solid(s)
	i := 0
	if axis == kernel.AxisY {
		i = 1
	}
	out.Min[i], out.Max[i] = -out.Max[i], -out.Min[i]
	return &out
}

// ToMesh emits the 12 triangles of the bounding box.
func (k *Kernel) ToMesh(s kernel.Solid) (*kernel.Mesh, error) {
	k.count("mesh")
	b := solid(s)
	for i := 0; i < 3; i++ {
		if !(b.Max[i] > b.Min[i]) {
			return nil, fmt.Errorf("bbox: mesh: empty solid %v..%v", b.Min, b.Max)
		}
	}
	corner := func(c int) [3]float32 {
		var p [3]float32
		for i := 0; i < 3; i++ {
			if c&(1<<i) != 0 {
				p[i] = float32(b.Max[i])
			} else {
				p[i] = float32(b.Min[i])
			}
		}
		return p
	}
	// Outward-wound quads as corner indices (bit 0 = x, bit 1 = y, bit 2 = z).
	faces := []struct {
		quad   [4]int
		normal [3]float32
	}{
		{[4]int{0, 2, 3, 1}, [3]float32{0, 0, -1}},
		{[4]int{4, 5, 7, 6}, [3]float32{0, 0, 1}},
		{[4]int{0, 1, 5, 4}, [3]float32{0, -1, 0}},
		{[4]int{2, 6, 7, 3}, [3]float32{0, 1, 0}},
		{[4]int{0, 4, 6, 2}, [3]float32{-1, 0, 0}},
		{[4]int{1, 3, 7, 5}, [3]float32{1, 0, 0}},
	}
	m := &kernel.Mesh{}
	for _, f := range faces {
		for _, tri := range [2][3]int{{0, 1, 2}, {0, 2, 3}} {
			for _, j := range tri {
				p := corner(f.quad[j])
				m.Vertices = append(m.Vertices, p[0], p[1], p[2])
				m.Normals = append(m.Normals, f.normal[0], f.normal[1], f.normal[2])
				m.Indices = append(m.Indices, uint32(len(m.Indices)))
			}
		}
	}
	return m, nil
}
