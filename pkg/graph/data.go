package graph

import "github.com/chazu/stencilstation/pkg/stencil"

// ---------------------------------------------------------------------------
// Parts
// ---------------------------------------------------------------------------

// Role says which template a part is built from.
type Role int

const (
	RoleBase   Role = iota // magnetic base plate
	RoleFrame              // top frame clamping the insert
	RoleInsert             // stencil insert: blank minus a design
)

func (r Role) String() string {
	switch r {
	case RoleBase:
		return "base"
	case RoleFrame:
		return "frame"
	case RoleInsert:
		return "insert"
	default:
		return "unknown"
	}
}

// PartData describes one printable part. Only inserts carry a design; an
// insert without one is a plain blank.
type PartData struct {
	Role   Role            `json:"role"`
	Design *stencil.Design `json:"design,omitempty"`
	Color  string          `json:"color,omitempty"` // "#rrggbb" display color
}

func (PartData) nodeData() {}

// ---------------------------------------------------------------------------
// Transform
// ---------------------------------------------------------------------------

// TransformData places its children. Rotation is applied before
// translation.
type TransformData struct {
	Translation *Vec3 `json:"translation,omitempty"`
	Rotation    *Vec3 `json:"rotation,omitempty"` // Euler angles in degrees
}

func (TransformData) nodeData() {}

// ---------------------------------------------------------------------------
// Group
// ---------------------------------------------------------------------------

// GroupData represents a logical grouping such as "graphing inserts".
type GroupData struct {
	Description string `json:"description,omitempty"`
}

func (GroupData) nodeData() {}
