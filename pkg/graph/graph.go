package graph

import "sort"

// DesignGraph is the assembly of one render: plate parts under placement
// transforms and groups. The generator builds a fresh graph per render and
// nothing mutates it after validation.
type DesignGraph struct {
	Nodes     map[NodeID]*Node  `json:"nodes"`
	Roots     []NodeID          `json:"roots"`
	NameIndex map[string]NodeID `json:"name_index"`
}

// New creates an empty DesignGraph.
func New() *DesignGraph {
	return &DesignGraph{
		Nodes:     make(map[NodeID]*Node),
		NameIndex: make(map[string]NodeID),
	}
}

// AddNode adds a node. A second node with the same name shadows the first
// in the name index; Validate reports the clash.
func (g *DesignGraph) AddNode(n *Node) {
	g.Nodes[n.ID] = n
	if n.Name != "" {
		g.NameIndex[n.Name] = n.ID
	}
}

// AddRoot registers a node ID as a root of the graph.
func (g *DesignGraph) AddRoot(id NodeID) {
	g.Roots = append(g.Roots, id)
}

// Lookup returns the node with the given name, or nil.
func (g *DesignGraph) Lookup(name string) *Node {
	id, ok := g.NameIndex[name]
	if !ok {
		return nil
	}
	return g.Nodes[id]
}

// Get returns the node with the given ID, or nil.
func (g *DesignGraph) Get(id NodeID) *Node {
	return g.Nodes[id]
}

// Part returns the payload of the part named name.
func (g *DesignGraph) Part(name string) (PartData, bool) {
	n := g.Lookup(name)
	if n == nil || n.Kind != NodePart {
		return PartData{}, false
	}
	pd, ok := n.Data.(PartData)
	return pd, ok
}

// Parts returns all part nodes sorted by name.
func (g *DesignGraph) Parts() []*Node {
	var parts []*Node
	for _, n := range g.Nodes {
		if n.Kind == NodePart {
			parts = append(parts, n)
		}
	}
	sort.Slice(parts, func(i, j int) bool { return parts[i].Name < parts[j].Name })
	return parts
}

// PartsByRole returns the parts built from the given template, sorted by
// name.
func (g *DesignGraph) PartsByRole(role Role) []*Node {
	var out []*Node
	for _, n := range g.Parts() {
		if pd, ok := n.Data.(PartData); ok && pd.Role == role {
			out = append(out, n)
		}
	}
	return out
}

// Children returns the child nodes of the given node.
func (g *DesignGraph) Children(n *Node) []*Node {
	children := make([]*Node, 0, len(n.Children))
	for _, cid := range n.Children {
		if c := g.Nodes[cid]; c != nil {
			children = append(children, c)
		}
	}
	return children
}

// NodeCount returns the total number of nodes.
func (g *DesignGraph) NodeCount() int {
	return len(g.Nodes)
}
