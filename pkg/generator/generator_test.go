package generator

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chazu/stencilstation/pkg/config"
	"github.com/chazu/stencilstation/pkg/coords"
	"github.com/chazu/stencilstation/pkg/engine"
	"github.com/chazu/stencilstation/pkg/graph"
)

func testInputs(t *testing.T, cfg config.Config) Inputs {
	t.Helper()
	m, err := coords.FromConfig(cfg)
	require.NoError(t, err)
	return Inputs{Config: cfg, Mapper: m, Groove: 3, Engine: engine.NewEngine()}
}

func partNames(g *graph.DesignGraph) []string {
	var names []string
	for _, p := range g.Parts() {
		names = append(names, p.Name)
	}
	return names
}

func TestParseKind(t *testing.T) {
	for _, name := range config.Generators {
		k, err := ParseKind(name)
		require.NoError(t, err)
		assert.Equal(t, Kind(name), k)
	}
	_, err := ParseKind("everything")
	assert.ErrorContains(t, err, "unknown kind")
}

func TestBuildBase(t *testing.T) {
	res, err := Build(KindBase, testInputs(t, config.Default()))
	require.NoError(t, err)
	assert.Equal(t, []string{"base", "frame", "insert-blank"}, partNames(res.Graph))
	assert.Empty(t, res.Designs)
	assert.Empty(t, res.Warnings)
	assert.Empty(t, graph.Validate(res.Graph))
	require.Len(t, res.Graph.Roots, 1)
	assert.Equal(t, "station", res.Graph.Get(res.Graph.Roots[0]).Name)

	base := res.Graph.Lookup("base").Data.(graph.PartData)
	assert.Equal(t, graph.RoleBase, base.Role)
	assert.Equal(t, BaseColor, base.Color)
}

func TestBuildGraphingAndDecorative(t *testing.T) {
	in := testInputs(t, config.Default())

	res, err := Build(KindGraphing, in)
	require.NoError(t, err)
	assert.Equal(t, []string{"insert-grid", "insert-polar"}, partNames(res.Graph))

	res, err = Build(KindDecorative, in)
	require.NoError(t, err)
	assert.Equal(t, []string{"insert-lissajous", "insert-rose"}, partNames(res.Graph))
	require.Len(t, res.Designs, 2)
	assert.Equal(t, "rose", res.Designs[0].Name)

	first := res.Graph.Lookup("insert-rose").Data.(graph.PartData)
	second := res.Graph.Lookup("insert-lissajous").Data.(graph.PartData)
	assert.Equal(t, InsertPalette[0], first.Color)
	assert.Equal(t, InsertPalette[1], second.Color)
}

func TestBuildFunctionsWithUserCurves(t *testing.T) {
	cfg := config.Default()
	cfg.Curves = []config.CurveSpec{
		{Name: "cubic", Source: "(defn curve [t] [t (* t t t)])", Steps: 20},
		{Name: "sine", Source: "(defn curve [t] [t (/ (* 0.5 t) t)])"},
		{Name: "broken", Source: "(defn curve [t] [t t]"},
	}
	res, err := Build(KindFunctions, testInputs(t, cfg))
	require.NoError(t, err)

	names := partNames(res.Graph)
	assert.Contains(t, names, "insert-cubic")
	assert.Contains(t, names, "insert-sine")
	assert.Contains(t, names, "insert-sine-2", "a user curve clashing with a demo gets a numbered name")
	assert.NotContains(t, names, "insert-broken")
	assert.Len(t, names, 5)

	var sawBroken, sawCulled bool
	for _, w := range res.Warnings {
		sawBroken = sawBroken || strings.HasPrefix(w, "curve broken:")
		sawCulled = sawCulled || strings.Contains(w, "curve sine: 1 of 61 samples skipped")
	}
	assert.True(t, sawBroken, "warnings: %v", res.Warnings)
	assert.True(t, sawCulled, "warnings: %v", res.Warnings)
}

func TestBuildFunctionsWithoutEngine(t *testing.T) {
	cfg := config.Default()
	cfg.Curves = []config.CurveSpec{{Name: "cubic", Source: "(defn curve [t] [t t])"}}
	in := testInputs(t, cfg)
	in.Engine = nil
	res, err := Build(KindFunctions, in)
	require.NoError(t, err)
	assert.Len(t, res.Designs, 3)
}

func TestBuildMiscWithSVG(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "logo.svg")
	svg := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 10 10"><path d="M1 1 L9 1 L9 9 L1 9 Z"/></svg>`
	require.NoError(t, os.WriteFile(path, []byte(svg), 0o644))

	cfg := config.Default()
	cfg.SVGLayers = []string{path}
	res, err := Build(KindMisc, testInputs(t, cfg))
	require.NoError(t, err)
	assert.Equal(t, []string{"insert-circles", "insert-logo", "insert-markers"}, partNames(res.Graph))

	logo := res.Graph.Lookup("insert-logo").Data.(graph.PartData)
	require.Len(t, logo.Design.Outlines, 1)
	b := logo.Design.Outlines[0].Bounds()
	// Fitted into the 100 mm window less one groove width on each side.
	assert.InDelta(t, 47, b.Max.X, 1e-6)
	assert.InDelta(t, -47, b.Min.Y, 1e-6)
}

func TestBuildMiscMissingSVG(t *testing.T) {
	cfg := config.Default()
	cfg.SVGLayers = []string{filepath.Join(t.TempDir(), "missing.svg")}
	_, err := Build(KindMisc, testInputs(t, cfg))
	assert.Error(t, err)
}

func TestBuildAll(t *testing.T) {
	res, err := Build(KindAll, testInputs(t, config.Default()))
	require.NoError(t, err)
	// base, frame, blank + grid, polar + rose, lissajous
	// + parabola, sine, hyperbola + markers, circles
	assert.Len(t, res.Graph.Parts(), 12)
	assert.Len(t, res.Designs, 9)
	assert.False(t, graph.HasErrors(graph.Validate(res.Graph)))
}

func TestBuildAssembled(t *testing.T) {
	in := testInputs(t, config.Default())
	in.Assembled = true
	res, err := Build(KindBase, in)
	require.NoError(t, err)

	root := res.Graph.Get(res.Graph.Roots[0])
	children := res.Graph.Children(root)
	require.Len(t, children, 3) // base, placed frame, inserts group
	assert.Equal(t, graph.NodePart, children[0].Kind)
	require.Equal(t, graph.NodeTransform, children[1].Kind)
	td := children[1].Data.(graph.TransformData)
	assert.Equal(t, 5.0, td.Translation.Z)
	assert.Equal(t, "frame", res.Graph.Children(children[1])[0].Name)
}

func TestBuildRejects(t *testing.T) {
	in := testInputs(t, config.Default())
	_, err := Build(Kind("nope"), in)
	assert.ErrorContains(t, err, "unknown kind")

	in.Mapper = nil
	_, err = Build(KindBase, in)
	assert.Error(t, err)
}
