// Package generator turns an output selection into an assembly graph:
// which template parts and which stencil inserts a render emits.
package generator

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/chazu/stencilstation/pkg/config"
	"github.com/chazu/stencilstation/pkg/coords"
	"github.com/chazu/stencilstation/pkg/engine"
	"github.com/chazu/stencilstation/pkg/graph"
	"github.com/chazu/stencilstation/pkg/stencil"
	"github.com/chazu/stencilstation/pkg/svgimport"
)

// Kind selects what a render emits.
type Kind string

const (
	KindBase       Kind = config.GeneratorBase
	KindGraphing   Kind = config.GeneratorGraphing
	KindDecorative Kind = config.GeneratorDecorative
	KindFunctions  Kind = config.GeneratorFunctions
	KindMisc       Kind = config.GeneratorMisc
	KindAll        Kind = config.GeneratorAll
)

// ParseKind validates a generator name.
func ParseKind(s string) (Kind, error) {
	for _, g := range config.Generators {
		if s == g {
			return Kind(s), nil
		}
	}
	return "", fmt.Errorf("generator: unknown kind %q (want one of %s)", s, strings.Join(config.Generators, ", "))
}

// Display colors, "#rrggbb".
const (
	BaseColor  = "#3c3f44"
	FrameColor = "#8c939d"
)

// InsertPalette colors inserts in emission order.
var InsertPalette = []string{"#e8a33d", "#4f9dde", "#6cc070", "#d9607a", "#a77fd6", "#45c1b4"}

// Inputs is everything Build reads.
type Inputs struct {
	Config config.Config
	Mapper *coords.Mapper
	// Groove is the widest groove width of the selected pen.
	Groove float64
	// Engine compiles the configured user curves. A nil Engine skips them.
	Engine *engine.Engine
	// Assembled stacks the frame and inserts on the base for viewing
	// instead of leaving every part on the print bed.
	Assembled bool
}

// Result is a built assembly.
type Result struct {
	Graph *graph.DesignGraph
	// Designs lists the insert designs in emission order.
	Designs []*stencil.Design
	// Warnings are non-fatal findings: skipped user curves and SVG paths,
	// and graph validation warnings.
	Warnings []string
}

// builder accumulates the assembly.
type builder struct {
	in     Inputs
	g      *graph.DesignGraph
	res    *Result
	names  map[string]int
	bed    []graph.NodeID // children of the root group
	insert []graph.NodeID // children of the inserts group
}

// Build assembles the parts selected by kind.
func Build(kind Kind, in Inputs) (*Result, error) {
	if in.Mapper == nil {
		return nil, fmt.Errorf("generator: no coordinate mapper")
	}
	b := &builder{
		in:    in,
		g:     graph.New(),
		res:   &Result{},
		names: make(map[string]int),
	}
	b.res.Graph = b.g

	layout := stencil.NewLayout(in.Config, in.Mapper, in.Groove)
	steps := []struct {
		kinds []Kind
		run   func(stencil.Layout) error
	}{
		{[]Kind{KindBase, KindAll}, b.templates},
		{[]Kind{KindGraphing, KindAll}, b.graphing},
		{[]Kind{KindDecorative, KindAll}, b.decorative},
		{[]Kind{KindFunctions, KindAll}, b.functions},
		{[]Kind{KindMisc, KindAll}, b.misc},
	}
	known := false
	for _, s := range steps {
		if !contains(s.kinds, kind) {
			continue
		}
		known = true
		if err := s.run(layout); err != nil {
			return nil, fmt.Errorf("generator: %s: %w", kind, err)
		}
	}
	if !known {
		return nil, fmt.Errorf("generator: unknown kind %q", kind)
	}

	b.finish()
	findings := graph.Validate(b.g)
	if graph.HasErrors(findings) {
		var errs []error
		for _, ve := range findings {
			if ve.Severity == graph.SeverityError {
				errs = append(errs, ve)
			}
		}
		return nil, fmt.Errorf("generator: %s: invalid assembly: %w", kind, errors.Join(errs...))
	}
	for _, ve := range findings {
		b.warnf("%s", ve.Message)
	}
	return b.res, nil
}

func contains(ks []Kind, k Kind) bool {
	for _, x := range ks {
		if x == k {
			return true
		}
	}
	return false
}

func (b *builder) warnf(format string, args ...any) {
	b.res.Warnings = append(b.res.Warnings, fmt.Sprintf(format, args...))
}

// unique makes part names distinct by numbering repeats.
func (b *builder) unique(name string) string {
	b.names[name]++
	if n := b.names[name]; n > 1 {
		return fmt.Sprintf("%s-%d", name, n)
	}
	return name
}

func (b *builder) part(name string, pd graph.PartData) graph.NodeID {
	name = b.unique(name)
	id := graph.NewNodeID("part/" + name)
	b.g.AddNode(&graph.Node{ID: id, Kind: graph.NodePart, Name: name, Data: pd})
	return id
}

// place wraps id in a translation when assembling, and returns the node
// to hang in the tree.
func (b *builder) place(id graph.NodeID, z float64) graph.NodeID {
	if !b.in.Assembled || z == 0 {
		return id
	}
	t := graph.Vec3{Z: z}
	pid := graph.NewNodeID("place/" + string(id))
	b.g.AddNode(&graph.Node{
		ID:       pid,
		Kind:     graph.NodeTransform,
		Children: []graph.NodeID{id},
		Data:     graph.TransformData{Translation: &t},
	})
	return pid
}

func (b *builder) addInsert(d *stencil.Design) {
	color := InsertPalette[len(b.res.Designs)%len(InsertPalette)]
	b.res.Designs = append(b.res.Designs, d)
	id := b.part("insert-"+d.Name, graph.PartData{Role: graph.RoleInsert, Design: d, Color: color})
	b.insert = append(b.insert, b.place(id, b.in.Config.BaseThickness))
}

// finish hangs everything under one root group.
func (b *builder) finish() {
	if len(b.insert) > 0 {
		id := graph.NewNodeID("group/inserts")
		b.g.AddNode(&graph.Node{
			ID: id, Kind: graph.NodeGroup, Name: "inserts",
			Children: b.insert,
			Data:     graph.GroupData{Description: "stencil inserts"},
		})
		b.bed = append(b.bed, id)
	}
	root := graph.NewNodeID("group/station")
	b.g.AddNode(&graph.Node{
		ID: root, Kind: graph.NodeGroup, Name: "station",
		Children: b.bed,
		Data:     graph.GroupData{Description: "stencil station"},
	})
	b.g.AddRoot(root)
}

// ---------------------------------------------------------------------------
// Kinds
// ---------------------------------------------------------------------------

func (b *builder) templates(stencil.Layout) error {
	base := b.part("base", graph.PartData{Role: graph.RoleBase, Color: BaseColor})
	frame := b.part("frame", graph.PartData{Role: graph.RoleFrame, Color: FrameColor})
	b.bed = append(b.bed, base, b.place(frame, b.in.Config.BaseThickness))
	blank := b.part("insert-blank", graph.PartData{Role: graph.RoleInsert, Color: InsertPalette[0]})
	b.insert = append(b.insert, b.place(blank, b.in.Config.BaseThickness))
	return nil
}

func (b *builder) graphing(l stencil.Layout) error {
	grid, err := l.Grid()
	if err != nil {
		return err
	}
	polar, err := l.Polar()
	if err != nil {
		return err
	}
	b.addInsert(grid)
	b.addInsert(polar)
	return nil
}

func (b *builder) decorative(l stencil.Layout) error {
	ds, err := l.Decorative()
	if err != nil {
		return err
	}
	for _, d := range ds {
		b.addInsert(d)
	}
	return nil
}

func (b *builder) functions(l stencil.Layout) error {
	ds, err := l.Functions()
	if err != nil {
		return err
	}
	for _, d := range ds {
		b.addInsert(d)
	}
	if b.in.Engine == nil {
		return nil
	}
	for _, spec := range b.in.Config.Curves {
		d, err := b.userCurve(l, spec)
		if err != nil {
			return err
		}
		if d != nil {
			b.addInsert(d)
		}
	}
	return nil
}

// userCurve compiles and sweeps one configured Lisp curve. A curve that
// fails to compile is skipped with a warning.
func (b *builder) userCurve(l stencil.Layout, spec config.CurveSpec) (*stencil.Design, error) {
	c, evalErrs, err := b.in.Engine.CompileCurve(spec.Name, spec.Source)
	if err != nil {
		return nil, err
	}
	if len(evalErrs) > 0 {
		for _, e := range evalErrs {
			b.warnf("curve %s: %v", spec.Name, e)
		}
		return nil, nil
	}
	defer c.Close()

	steps := spec.Steps
	if steps <= 0 {
		steps = b.in.Config.CurveSteps
	}
	d, err := l.Parametric(spec.Name, c.Func(), steps)
	if err != nil {
		return nil, err
	}
	if n := d.Sweeps[0].Path.Culled(); n > 0 {
		b.warnf("curve %s: %d of %d samples skipped", spec.Name, n, steps+1)
	}
	return d, nil
}

func (b *builder) misc(l stencil.Layout) error {
	b.addInsert(l.Markers())
	circles, err := l.Circles()
	if err != nil {
		return err
	}
	b.addInsert(circles)

	cfg := b.in.Config
	for _, path := range cfg.SVGLayers {
		opts := svgimport.DefaultOptions(cfg.WindowWidth, cfg.WindowHeight)
		opts.Margin = b.in.Groove
		res, err := svgimport.LoadFile(path, opts)
		if err != nil {
			return err
		}
		name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		if res.Open > 0 || res.Invalid > 0 {
			b.warnf("svg %s: skipped %d open and %d invalid paths", name, res.Open, res.Invalid)
		}
		b.addInsert(&stencil.Design{Name: name, Outlines: res.Outlines})
	}
	return nil
}
