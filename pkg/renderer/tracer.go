package renderer

import (
	"math/rand"

	"github.com/df07/go-simple-pathtracer/pkg/core"
	"github.com/df07/go-simple-pathtracer/pkg/scene"
)

var (
	skyWhite = core.NewVec3(1.0, 1.0, 1.0)
	skyBlue  = core.NewVec3(0.5, 0.7, 1.0)
)

// Background returns the sky gradient seen along the ray,
// white at the horizon and below blending to light blue straight up
func Background(ray core.Ray) core.Vec3 {
	unitDirection := ray.Direction.Normalize()
	t := 0.5 * (unitDirection.Y + 1.0)
	return skyWhite.Lerp(skyBlue, t)
}

// Tracer computes the color carried back along a ray
type Tracer struct {
	scene       *scene.Scene
	maxDepth    int
	tMin, tMax  float32
	attenuation float32
}

// NewTracer creates a tracer for the scene using the config's depth, hit window and attenuation
func NewTracer(s *scene.Scene, config Config) *Tracer {
	return &Tracer{
		scene:       s,
		maxDepth:    config.MaxDepth,
		tMin:        config.TMin,
		tMax:        config.TMax,
		attenuation: config.Attenuation,
	}
}

// Trace returns the color for a ray that has already bounced depth times
func (t *Tracer) Trace(ray core.Ray, depth int, random *rand.Rand) core.Vec3 {
	color, _ := t.trace(ray, depth, random)
	return color
}

// trace also reports how many scene intersection queries the path made
func (t *Tracer) trace(ray core.Ray, depth int, random *rand.Rand) (core.Vec3, int) {
	// Bounce limit reached: fall back to the sky instead of black
	if depth >= t.maxDepth {
		return Background(ray), 0
	}

	hit, isHit := t.scene.Hit(ray, t.tMin, t.tMax)
	if !isHit {
		return Background(ray), 1
	}

	scattered, didScatter := t.scene.Material(hit.Material).Scatter(ray, hit, random)
	if !didScatter {
		return core.Vec3{}, 1 // Material absorbed the ray
	}

	incoming, rays := t.trace(scattered, depth+1, random)
	return incoming.Multiply(t.attenuation), rays + 1
}
