// Package studio runs a whole render: configuration in, assembly graph
// and meshes out, with every non-fatal finding collected for display.
package studio

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/chazu/stencilstation/pkg/config"
	"github.com/chazu/stencilstation/pkg/coords"
	"github.com/chazu/stencilstation/pkg/engine"
	"github.com/chazu/stencilstation/pkg/generator"
	"github.com/chazu/stencilstation/pkg/graph"
	"github.com/chazu/stencilstation/pkg/kernel"
	"github.com/chazu/stencilstation/pkg/pen"
	"github.com/chazu/stencilstation/pkg/stencil"
	"github.com/chazu/stencilstation/pkg/tessellate"
	"github.com/chazu/stencilstation/pkg/template"
	"github.com/chazu/stencilstation/pkg/track"
)

// colorPalette colors parts that come without a display color.
var colorPalette = []string{
	"#4A90D9", "#E67E22", "#2ECC71", "#9B59B6",
	"#E74C3C", "#1ABC9C", "#F39C12", "#3498DB",
}

// App holds the long-lived pieces of the pipeline.
type App struct {
	log    *zap.Logger
	engine *engine.Engine
	kernel kernel.Kernel
}

// NewApp creates an App rendering through k. A nil logger discards logs.
func NewApp(k kernel.Kernel, log *zap.Logger) *App {
	if log == nil {
		log = zap.NewNop()
	}
	return &App{log: log, engine: engine.NewEngine(), kernel: k}
}

// MeshData is the serializable mesh format of a rendered part.
type MeshData struct {
	Vertices []float32 `json:"vertices"`
	Normals  []float32 `json:"normals"`
	Indices  []uint32  `json:"indices"`
	PartName string    `json:"partName"`
	Role     string    `json:"role"`
	Color    string    `json:"color"`
}

// MessageData is one error or warning. Line is set for user curve source
// errors.
type MessageData struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

// Result is the full outcome of a render.
type Result struct {
	Meshes   []MeshData    `json:"meshes"`
	Errors   []MessageData `json:"errors"`
	Warnings []MessageData `json:"warnings"`

	// Parts keeps the kernel meshes for writing STL files.
	Parts []tessellate.Part `json:"-"`
}

// OK reports whether the render produced meshes without errors.
func (r *Result) OK() bool {
	return len(r.Errors) == 0
}

// Plan is a generated assembly before tessellation.
type Plan struct {
	Config   config.Config
	Pen      pen.Profile
	Graph    *graph.DesignGraph
	Designs  []*stencil.Design
	Warnings []string

	tracks *track.Builder
}

// Groove is the widest groove width of the plan's pen.
func (p *Plan) Groove() float64 {
	return p.tracks.Width()
}

// Plan builds the assembly graph selected by kind.
func (a *App) Plan(cfg config.Config, kind generator.Kind, assembled bool) (*Plan, error) {
	p, err := pen.Select(cfg.Pen)
	if err != nil {
		return nil, err
	}
	m, err := coords.FromConfig(cfg)
	if err != nil {
		return nil, err
	}
	tracks, err := track.NewBuilder(a.kernel, p, cfg.PlateThickness, cfg.Tolerance)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	res, err := generator.Build(kind, generator.Inputs{
		Config:    cfg,
		Mapper:    m,
		Groove:    tracks.Width(),
		Engine:    a.engine,
		Assembled: assembled,
	})
	if err != nil {
		return nil, err
	}
	a.log.Debug("assembly generated",
		zap.String("generator", string(kind)),
		zap.String("pen", p.Name),
		zap.Int("nodes", res.Graph.NodeCount()),
		zap.Int("inserts", len(res.Graph.PartsByRole(graph.RoleInsert))),
		zap.Int("designs", len(res.Designs)),
		zap.Duration("elapsed", time.Since(start)))
	for _, w := range res.Warnings {
		a.log.Warn("generator", zap.String("warning", w))
	}

	return &Plan{
		Config:   cfg,
		Pen:      p,
		Graph:    res.Graph,
		Designs:  res.Designs,
		Warnings: res.Warnings,
		tracks:   tracks,
	}, nil
}

// Render generates and tessellates the parts selected by kind. Failures
// are reported in the result rather than returned.
func (a *App) Render(cfg config.Config, kind generator.Kind, assembled bool) *Result {
	result := &Result{
		Meshes:   []MeshData{},
		Errors:   []MessageData{},
		Warnings: []MessageData{},
	}

	// Step 1: Generate the assembly graph.
	plan, err := a.Plan(cfg, kind, assembled)
	if err != nil {
		a.log.Error("generate failed", zap.Error(err))
		result.Errors = append(result.Errors, MessageData{Message: err.Error()})
		return result
	}
	for _, w := range plan.Warnings {
		result.Warnings = append(result.Warnings, MessageData{Message: w})
	}

	// Step 2: Tessellate the assembly into triangle meshes.
	start := time.Now()
	parts, err := tessellate.Tessellate(plan.Graph, tessellate.Builders{
		Kernel: a.kernel,
		Plates: template.New(a.kernel, cfg),
		Tracks: plan.tracks,
	})
	if err != nil {
		a.log.Error("tessellate failed", zap.Error(err))
		result.Errors = append(result.Errors, MessageData{Message: "tessellation failed: " + err.Error()})
		return result
	}
	a.log.Info("render complete",
		zap.Int("parts", len(parts)),
		zap.Uint64("curves_compiled", a.engine.Compiled()),
		zap.Duration("elapsed", time.Since(start)))

	// Step 3: Report culling and convert meshes.
	result.Parts = parts
	for i, p := range parts {
		rep := p.Report
		if rep.Culled > 0 {
			a.log.Debug("samples skipped", zap.String("part", p.Name), zap.Int("culled", rep.Culled))
		}
		for _, name := range rep.EmptySweeps {
			msg := fmt.Sprintf("%s: curve %s has no drawable samples", p.Name, name)
			a.log.Warn("empty sweep", zap.String("part", p.Name), zap.String("curve", name))
			result.Warnings = append(result.Warnings, MessageData{Message: msg})
		}

		color := p.Mesh.Color
		if color == "" {
			color = colorPalette[i%len(colorPalette)]
		}
		result.Meshes = append(result.Meshes, MeshData{
			Vertices: p.Mesh.Vertices,
			Normals:  p.Mesh.Normals,
			Indices:  p.Mesh.Indices,
			PartName: p.Name,
			Role:     p.Role.String(),
			Color:    color,
		})
	}

	return result
}

// CheckCurve compiles a user curve without rendering it, for editors and
// the validate command.
func (a *App) CheckCurve(spec config.CurveSpec) []MessageData {
	c, evalErrs, err := a.engine.CompileCurve(spec.Name, spec.Source)
	if err != nil {
		return []MessageData{{Message: err.Error()}}
	}
	if len(evalErrs) > 0 {
		out := make([]MessageData, len(evalErrs))
		for i, e := range evalErrs {
			out[i] = MessageData{Line: e.Line, Col: e.Col, Message: e.Message}
		}
		return out
	}
	c.Close()
	return nil
}
