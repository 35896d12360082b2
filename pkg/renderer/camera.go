package renderer

import (
	"github.com/df07/go-simple-pathtracer/pkg/core"
)

// Camera generates rays for rendering
type Camera struct {
	origin          core.Vec3
	lowerLeftCorner core.Vec3
	horizontal      core.Vec3
	vertical        core.Vec3
}

// NewCamera creates a camera from its viewport basis
func NewCamera(config CameraConfig) *Camera {
	return &Camera{
		origin:          config.Origin,
		lowerLeftCorner: config.LowerLeft,
		horizontal:      config.Horizontal,
		vertical:        config.Vertical,
	}
}

// GetRay generates a ray with a unit direction for viewport coordinates (u, v).
// (0, 0) is the lower left corner and (1, 1) the upper right.
func (c *Camera) GetRay(u, v float32) core.Ray {
	direction := c.lowerLeftCorner.
		Add(c.horizontal.Multiply(u)).
		Add(c.vertical.Multiply(v)).
		Subtract(c.origin)

	return core.NewRay(c.origin, direction.Normalize())
}
