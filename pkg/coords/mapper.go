package coords

import (
	"fmt"

	"github.com/chazu/stencilstation/pkg/config"
	"github.com/chazu/stencilstation/pkg/geom"
)

// Mapper chains the graph, virtual and scene spaces. Its axes are validated
// once by NewMapper; afterwards no mapping can fail.
type Mapper struct {
	virtual Space
	scene   Space
	graph   Space
}

// NewMapper builds a Mapper from explicit spaces.
func NewMapper(virtual, scene, graph Space) (*Mapper, error) {
	for _, s := range []struct {
		name  string
		space Space
	}{
		{"virtual", virtual},
		{"scene", scene},
		{"graph", graph},
	} {
		if err := s.space.Validate(); err != nil {
			return nil, fmt.Errorf("coords: %s space: %w", s.name, err)
		}
	}
	return &Mapper{virtual: virtual, scene: scene, graph: graph}, nil
}

// FromConfig builds the Mapper for a render: the scene space is the window
// centered on the origin, the graph space the configured bounds.
func FromConfig(cfg config.Config) (*Mapper, error) {
	scene := Space{
		X: Axis{Min: -cfg.WindowWidth / 2, Max: cfg.WindowWidth / 2},
		Y: Axis{Min: -cfg.WindowHeight / 2, Max: cfg.WindowHeight / 2},
	}
	graph := Space{
		X: Axis{Min: cfg.Graph.XMin, Max: cfg.Graph.XMax},
		Y: Axis{Min: cfg.Graph.YMin, Max: cfg.Graph.YMax},
	}
	return NewMapper(Virtual, scene, graph)
}

// Virtual returns the virtual space.
func (m *Mapper) Virtual() Space { return m.virtual }

// Scene returns the scene space.
func (m *Mapper) Scene() Space { return m.scene }

// Graph returns the graph space.
func (m *Mapper) Graph() Space { return m.graph }

// Graph -> virtual.

func (m *Mapper) GraphToVirtualX(x float64) float64 { return lerp(x, m.graph.X, m.virtual.X) }
func (m *Mapper) GraphToVirtualY(y float64) float64 { return lerp(y, m.graph.Y, m.virtual.Y) }

// Virtual -> scene.

func (m *Mapper) VirtualToSceneX(x float64) float64 { return lerp(x, m.virtual.X, m.scene.X) }
func (m *Mapper) VirtualToSceneY(y float64) float64 { return lerp(y, m.virtual.Y, m.scene.Y) }

// Inverses back into virtual space.

func (m *Mapper) SceneToVirtualX(x float64) float64 { return lerp(x, m.scene.X, m.virtual.X) }
func (m *Mapper) SceneToVirtualY(y float64) float64 { return lerp(y, m.scene.Y, m.virtual.Y) }
func (m *Mapper) VirtualToGraphX(x float64) float64 { return lerp(x, m.virtual.X, m.graph.X) }
func (m *Mapper) VirtualToGraphY(y float64) float64 { return lerp(y, m.virtual.Y, m.graph.Y) }

// GraphToSceneX maps graph x straight to scene x without the virtual hop.
func (m *Mapper) GraphToSceneX(x float64) float64 { return lerp(x, m.graph.X, m.scene.X) }

// GraphToSceneY maps graph y straight to scene y without the virtual hop.
func (m *Mapper) GraphToSceneY(y float64) float64 { return lerp(y, m.graph.Y, m.scene.Y) }

func (m *Mapper) SceneToGraphX(x float64) float64 { return lerp(x, m.scene.X, m.graph.X) }
func (m *Mapper) SceneToGraphY(y float64) float64 { return lerp(y, m.scene.Y, m.graph.Y) }

// GraphToVirtual maps a point from graph to virtual space.
func (m *Mapper) GraphToVirtual(p geom.Vec2) geom.Vec2 {
	return geom.Vec2{X: m.GraphToVirtualX(p.X), Y: m.GraphToVirtualY(p.Y)}
}

// VirtualToScene maps a point from virtual to scene space.
func (m *Mapper) VirtualToScene(p geom.Vec2) geom.Vec2 {
	return geom.Vec2{X: m.VirtualToSceneX(p.X), Y: m.VirtualToSceneY(p.Y)}
}

// SceneToVirtual maps a point from scene to virtual space.
func (m *Mapper) SceneToVirtual(p geom.Vec2) geom.Vec2 {
	return geom.Vec2{X: m.SceneToVirtualX(p.X), Y: m.SceneToVirtualY(p.Y)}
}

// VirtualToGraph maps a point from virtual to graph space.
func (m *Mapper) VirtualToGraph(p geom.Vec2) geom.Vec2 {
	return geom.Vec2{X: m.VirtualToGraphX(p.X), Y: m.VirtualToGraphY(p.Y)}
}

// GraphToScene maps a point from graph to scene space directly.
func (m *Mapper) GraphToScene(p geom.Vec2) geom.Vec2 {
	return geom.Vec2{X: m.GraphToSceneX(p.X), Y: m.GraphToSceneY(p.Y)}
}

// SceneToGraph maps a point from scene to graph space directly.
func (m *Mapper) SceneToGraph(p geom.Vec2) geom.Vec2 {
	return geom.Vec2{X: m.SceneToGraphX(p.X), Y: m.SceneToGraphY(p.Y)}
}

