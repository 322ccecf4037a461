package template

import (
	"fmt"

	"github.com/chazu/stencilstation/pkg/kernel"
)

// BuildFunc produces one solid. Combinators call it exactly once.
type BuildFunc func() (kernel.Solid, error)

// MirrorKeep builds a solid and unions it with its mirror image across
// the plane normal to axis.
func MirrorKeep(k kernel.Kernel, axis kernel.Axis, build BuildFunc) (kernel.Solid, error) {
	s, err := build()
	if err != nil {
		return nil, fmt.Errorf("mirror %s: %w", axis, err)
	}
	return k.Union(s, k.Mirror(s, axis)), nil
}

// MirrorQuad builds a solid in one quadrant and repeats it in all four.
func MirrorQuad(k kernel.Kernel, build BuildFunc) (kernel.Solid, error) {
	return MirrorKeep(k, kernel.AxisY, func() (kernel.Solid, error) {
		return MirrorKeep(k, kernel.AxisX, build)
	})
}
