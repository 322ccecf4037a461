package sdfx

import (
	"fmt"

	"github.com/chazu/stencilstation/pkg/kernel"
	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Triangles converts a mesh back into sdfx triangles. Meshes from any
// kernel are accepted.
func Triangles(m *kernel.Mesh) ([]*sdf.Triangle3, error) {
	if len(m.Indices)%3 != 0 {
		return nil, fmt.Errorf("sdfx: mesh has %d indices, not a multiple of 3", len(m.Indices))
	}
	nv := uint32(m.VertexCount())
	vertex := func(i uint32) v3.Vec {
		return v3.Vec{
			X: float64(m.Vertices[i*3]),
			Y: float64(m.Vertices[i*3+1]),
			Z: float64(m.Vertices[i*3+2]),
		}
	}
	tris := make([]*sdf.Triangle3, 0, m.TriangleCount())
	for t := 0; t < m.TriangleCount(); t++ {
		var tri sdf.Triangle3
		for j := 0; j < 3; j++ {
			idx := m.Indices[t*3+j]
			if idx >= nv {
				return nil, fmt.Errorf("sdfx: triangle %d: index %d out of range", t, idx)
			}
			tri[j] = vertex(idx)
		}
		tris = append(tris, &tri)
	}
	return tris, nil
}

// SaveSTL writes m to path as a binary STL file.
func SaveSTL(path string, m *kernel.Mesh) error {
	tris, err := Triangles(m)
	if err != nil {
		return err
	}
	if err := render.SaveSTL(path, tris); err != nil {
		return fmt.Errorf("sdfx: save %s: %w", path, err)
	}
	return nil
}
