package renderer

import (
	"fmt"

	"github.com/df07/go-simple-pathtracer/pkg/core"
)

// CameraConfig describes the fixed pinhole camera.
// Rays leave Origin towards LowerLeft + u*Horizontal + v*Vertical.
type CameraConfig struct {
	Origin     core.Vec3
	LowerLeft  core.Vec3
	Horizontal core.Vec3
	Vertical   core.Vec3
}

// DefaultCameraConfig returns the 2:1 camera looking down -z
func DefaultCameraConfig() CameraConfig {
	return CameraConfig{
		Origin:     core.NewVec3(0, 0, 0),
		LowerLeft:  core.NewVec3(-2, -1, -1),
		Horizontal: core.NewVec3(4, 0, 0),
		Vertical:   core.NewVec3(0, 2, 0),
	}
}

// Config contains rendering configuration
type Config struct {
	Width           int     // Image width in pixels
	Height          int     // Image height in pixels
	SamplesPerPixel int     // Number of jittered rays averaged per pixel
	MaxDepth        int     // Bounces after which a path returns the background
	TMin            float32 // Near bound of the hit window, avoids self-intersection
	TMax            float32 // Far bound of the hit window
	Gamma           float32 // Display gamma, colors are raised to 1/Gamma
	Attenuation     float32 // Factor applied to light at every bounce
	NumWorkers      int     // Number of parallel workers (0 = use CPU count)
	Seed            int64   // Base seed for the per-pixel random streams
	Camera          CameraConfig
}

// DefaultConfig returns sensible default values
func DefaultConfig() Config {
	return Config{
		Width:           200,
		Height:          100,
		SamplesPerPixel: 100,
		MaxDepth:        100,
		TMin:            0.001,
		TMax:            10000,
		Gamma:           2.0,
		Attenuation:     0.5,
		NumWorkers:      8,
		Seed:            42,
		Camera:          DefaultCameraConfig(),
	}
}

// Validate reports the first invalid field
func (c Config) Validate() error {
	switch {
	case c.Width <= 0 || c.Height <= 0:
		return fmt.Errorf("image size must be positive, got %dx%d", c.Width, c.Height)
	case c.SamplesPerPixel <= 0:
		return fmt.Errorf("samples per pixel must be positive, got %d", c.SamplesPerPixel)
	case c.MaxDepth <= 0:
		return fmt.Errorf("max depth must be positive, got %d", c.MaxDepth)
	case c.TMin < 0 || c.TMin >= c.TMax:
		return fmt.Errorf("hit window must satisfy 0 <= tMin < tMax, got (%g, %g)", c.TMin, c.TMax)
	case c.Gamma <= 0:
		return fmt.Errorf("gamma must be positive, got %g", c.Gamma)
	case c.Attenuation < 0 || c.Attenuation > 1:
		return fmt.Errorf("attenuation must be within [0, 1], got %g", c.Attenuation)
	case c.NumWorkers < 0:
		return fmt.Errorf("worker count cannot be negative, got %d", c.NumWorkers)
	}
	return nil
}
