// Package tessellate walks an assembly graph and produces triangle meshes
// using a geometry kernel. One mesh is produced per part.
package tessellate

import (
	"errors"
	"fmt"

	"github.com/chazu/stencilstation/pkg/graph"
	"github.com/chazu/stencilstation/pkg/kernel"
	"github.com/chazu/stencilstation/pkg/stencil"
	"github.com/chazu/stencilstation/pkg/template"
	"github.com/chazu/stencilstation/pkg/track"
)

// Builders bundles what turns part nodes into solids. All three must share
// the same kernel.
type Builders struct {
	Kernel kernel.Kernel
	Plates *template.Plates
	Tracks *track.Builder
}

// Part is one tessellated part.
type Part struct {
	Name string
	Role graph.Role
	Mesh *kernel.Mesh
	// Report is the cutter summary of an insert; zero for other roles.
	Report stencil.Report
}

// transformStack accumulates spatial transforms during graph traversal.
type transformStack struct {
	translations []graph.Vec3
	rotations    []graph.Vec3
}

func (ts *transformStack) push(translation, rotation graph.Vec3) {
	ts.translations = append(ts.translations, translation)
	ts.rotations = append(ts.rotations, rotation)
}

func (ts *transformStack) pop() {
	if len(ts.translations) > 0 {
		ts.translations = ts.translations[:len(ts.translations)-1]
		ts.rotations = ts.rotations[:len(ts.rotations)-1]
	}
}

// translation returns the sum of all translations on the stack.
func (ts *transformStack) translation() graph.Vec3 {
	var sum graph.Vec3
	for _, t := range ts.translations {
		sum = sum.Add(t)
	}
	return sum
}

// rotation returns the sum of all rotations on the stack.
func (ts *transformStack) rotation() graph.Vec3 {
	var sum graph.Vec3
	for _, r := range ts.rotations {
		sum = sum.Add(r)
	}
	return sum
}

// Tessellate walks the graph and produces one mesh per part, in traversal
// order. The tessellator is read-only and never mutates the graph.
func Tessellate(g *graph.DesignGraph, b Builders) ([]Part, error) {
	if g == nil {
		return nil, nil
	}
	if b.Kernel == nil || b.Plates == nil || b.Tracks == nil {
		return nil, errors.New("tessellate: incomplete builders")
	}

	var parts []Part
	ts := &transformStack{}

	for _, rootID := range g.Roots {
		root := g.Get(rootID)
		if root == nil {
			continue
		}
		collected, err := walkNode(g, b, root, ts)
		if err != nil {
			return nil, fmt.Errorf("tessellate: error walking root %s: %w", rootID.Short(), err)
		}
		parts = append(parts, collected...)
	}

	return parts, nil
}

// walkNode recursively traverses a node and its children, collecting parts.
func walkNode(g *graph.DesignGraph, b Builders, n *graph.Node, ts *transformStack) ([]Part, error) {
	switch n.Kind {
	case graph.NodePart:
		p, err := handlePart(b, n, ts)
		if err != nil {
			return nil, err
		}
		return []Part{p}, nil

	case graph.NodeTransform:
		td, ok := n.Data.(graph.TransformData)
		if !ok {
			return nil, fmt.Errorf("transform node %s has unexpected data type %T", n.ID.Short(), n.Data)
		}
		var translation, rotation graph.Vec3
		if td.Translation != nil {
			translation = *td.Translation
		}
		if td.Rotation != nil {
			rotation = *td.Rotation
		}
		ts.push(translation, rotation)
		defer ts.pop()
		return walkChildren(g, b, n, ts)

	case graph.NodeGroup:
		return walkChildren(g, b, n, ts)

	default:
		return nil, fmt.Errorf("unknown node kind: %v", n.Kind)
	}
}

func walkChildren(g *graph.DesignGraph, b Builders, n *graph.Node, ts *transformStack) ([]Part, error) {
	var parts []Part
	for _, child := range g.Children(n) {
		collected, err := walkNode(g, b, child, ts)
		if err != nil {
			return nil, err
		}
		parts = append(parts, collected...)
	}
	return parts, nil
}

// Solid builds the untransformed solid of a part. An insert whose design
// has nothing to cut comes out as a plain blank.
func Solid(b Builders, pd graph.PartData) (kernel.Solid, stencil.Report, error) {
	switch pd.Role {
	case graph.RoleBase:
		s, err := b.Plates.Base()
		return s, stencil.Report{}, err
	case graph.RoleFrame:
		s, err := b.Plates.Frame()
		return s, stencil.Report{}, err
	case graph.RoleInsert:
		if pd.Design == nil {
			s, err := b.Plates.Blank()
			return s, stencil.Report{}, err
		}
		cutter, rep, err := pd.Design.Cutter(b.Tracks)
		if errors.Is(err, stencil.ErrEmptyDesign) {
			s, err := b.Plates.Blank()
			return s, rep, err
		}
		if err != nil {
			return nil, rep, err
		}
		s, err := b.Plates.Insert(cutter)
		return s, rep, err
	default:
		return nil, stencil.Report{}, fmt.Errorf("unknown part role %v", pd.Role)
	}
}

// handlePart creates and meshes the geometry of a part node.
func handlePart(b Builders, n *graph.Node, ts *transformStack) (Part, error) {
	pd, ok := n.Data.(graph.PartData)
	if !ok {
		return Part{}, fmt.Errorf("part node %s has unsupported data type %T", n.ID.Short(), n.Data)
	}
	name := n.Name
	if name == "" {
		name = n.ID.Short()
	}

	solid, rep, err := Solid(b, pd)
	if err != nil {
		return Part{}, fmt.Errorf("part %s: %w", name, err)
	}

	// Apply accumulated rotation first, then translation.
	if rot := ts.rotation(); !rot.IsZero() {
		solid = b.Kernel.Rotate(solid, rot.X, rot.Y, rot.Z)
	}
	if tr := ts.translation(); !tr.IsZero() {
		solid = b.Kernel.Translate(solid, tr.X, tr.Y, tr.Z)
	}

	mesh, err := b.Kernel.ToMesh(solid)
	if err != nil {
		return Part{}, fmt.Errorf("tessellate: ToMesh failed for part %s: %w", name, err)
	}
	mesh.PartName = name
	mesh.Color = pd.Color

	return Part{Name: name, Role: pd.Role, Mesh: mesh, Report: rep}, nil
}
