package renderer

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/chewxy/math32"

	"github.com/df07/go-simple-pathtracer/pkg/core"
	"github.com/df07/go-simple-pathtracer/pkg/scene"
)

// ErrPoolClosed is returned when the worker pool stops before every pixel has been delivered
var ErrPoolClosed = errors.New("worker pool closed unexpectedly")

// DefaultLogger implements core.Logger by writing to stdout
type DefaultLogger struct{}

func (dl *DefaultLogger) Printf(format string, args ...interface{}) {
	fmt.Printf(format, args...)
}

// NewDefaultLogger creates a new default logger
func NewDefaultLogger() core.Logger {
	return &DefaultLogger{}
}

// ProgressFunc is called from the rendering goroutine after each finished pixel
type ProgressFunc func(done, total int)

// Result is a finished render
type Result struct {
	Pixels []byte // Row-major RGB, 3 bytes per pixel, top row first
	Width  int
	Height int
	Stats  RenderStats
}

// Raytracer handles the rendering process
type Raytracer struct {
	scene    *scene.Scene
	config   Config
	camera   *Camera
	tracer   *Tracer
	logger   core.Logger
	progress ProgressFunc
}

// NewRaytracer creates a new raytracer. A nil logger falls back to stdout.
func NewRaytracer(s *scene.Scene, config Config, logger core.Logger) (*Raytracer, error) {
	if s == nil {
		return nil, errors.New("scene is nil")
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid render config: %w", err)
	}
	if logger == nil {
		logger = NewDefaultLogger()
	}

	return &Raytracer{
		scene:  s,
		config: config,
		camera: NewCamera(config.Camera),
		tracer: NewTracer(s, config),
		logger: logger,
	}, nil
}

// SetProgressCallback registers a callback for pixel completion
func (rt *Raytracer) SetProgressCallback(progress ProgressFunc) {
	rt.progress = progress
}

// Config returns the validated configuration
func (rt *Raytracer) Config() Config {
	return rt.config
}

// Render traces every pixel on the worker pool and assembles the image.
// The output only depends on the scene and config, not on worker count or scheduling.
func (rt *Raytracer) Render() (*Result, error) {
	startTime := time.Now()
	width, height := rt.config.Width, rt.config.Height

	pool := NewWorkerPool(rt.config.NumWorkers, 64*max(rt.config.NumWorkers, 1), rt.samplePixel)
	rt.logger.Printf("Rendering %s at %dx%d, %d samples per pixel (using %d workers)...\n",
		rt.scene.Name, width, height, rt.config.SamplesPerPixel, pool.GetNumWorkers())

	pool.Start()
	go func() {
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				pool.SubmitTask(PixelJob{X: x, Y: y})
			}
		}
		pool.Stop()
	}()

	pixels := make([]byte, width*height*3)
	stats, err := rt.collect(pool, pixels)
	if err != nil {
		return nil, err
	}
	stats.Workers = pool.GetNumWorkers()
	stats.Elapsed = time.Since(startTime)

	rt.logger.Printf("Render completed in %v (%d rays, %.1f rays per sample)\n",
		stats.Elapsed, stats.RaysTraced, stats.AverageRaysPerSample())

	return &Result{Pixels: pixels, Width: width, Height: height, Stats: stats}, nil
}

// collect receives exactly len(pixels)/3 samples and writes them into the buffer
func (rt *Raytracer) collect(pool *WorkerPool, pixels []byte) (RenderStats, error) {
	var stats RenderStats
	total := len(pixels) / 3

	for done := 1; done <= total; done++ {
		sample, ok := pool.GetResult()
		if !ok {
			return RenderStats{}, fmt.Errorf("%w after %d of %d pixels", ErrPoolClosed, done-1, total)
		}

		pixels[sample.Index] = quantize(sample.Color.X)
		pixels[sample.Index+1] = quantize(sample.Color.Y)
		pixels[sample.Index+2] = quantize(sample.Color.Z)
		stats.AddPixel(rt.config.SamplesPerPixel, sample.Rays)

		if rt.progress != nil {
			rt.progress(done, total)
		}
	}

	return stats, nil
}

// samplePixel averages the configured number of jittered samples for one pixel
func (rt *Raytracer) samplePixel(job PixelJob, random *rand.Rand) PixelSample {
	index := job.Y*rt.config.Width + job.X
	random.Seed(pixelSeed(rt.config.Seed, index))

	var colorAccum core.Vec3
	rays := 0
	for s := 0; s < rt.config.SamplesPerPixel; s++ {
		ray := rt.primaryRay(job.X, job.Y, random)
		color, n := rt.tracer.trace(ray, 0, random)
		colorAccum = colorAccum.Add(color)
		rays += n
	}

	colorVec := colorAccum.Divide(float32(rt.config.SamplesPerPixel)).GammaCorrect(rt.config.Gamma)
	return PixelSample{Index: index * 3, Color: colorVec, Rays: rays}
}

// primaryRay jitters a camera ray inside pixel (x, y); row 0 is the top of the image
func (rt *Raytracer) primaryRay(x, y int, random *rand.Rand) core.Ray {
	u := (float32(x) + random.Float32()) / float32(rt.config.Width)
	v := (float32(rt.config.Height-y) + random.Float32()) / float32(rt.config.Height)
	return rt.camera.GetRay(u, v)
}

// pixelSeed derives an independent stream per pixel (splitmix64 finalizer)
func pixelSeed(seed int64, index int) int64 {
	z := uint64(seed) + uint64(index+1)*0x9E3779B97F4A7C15
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	return int64(z ^ (z >> 31))
}

// quantize clamps a channel to [0, 1] and maps it to a byte
func quantize(c float32) uint8 {
	if math32.IsNaN(c) {
		return 0
	}
	return uint8(math32.Min(math32.Max(c, 0), 1) * 255.99)
}
