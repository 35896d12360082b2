package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/df07/go-simple-pathtracer/pkg/config"
	"github.com/df07/go-simple-pathtracer/pkg/core"
	"github.com/df07/go-simple-pathtracer/pkg/output"
	"github.com/df07/go-simple-pathtracer/pkg/renderer"
	"github.com/df07/go-simple-pathtracer/pkg/scene"
)

// cliOptions are the flags that do not map onto config.Settings
type cliOptions struct {
	thumbnail bool
	publish   bool
}

func main() {
	// Parse command line flags
	sceneType := flag.String("scene", "default", "Built-in scene name or path to a .json scene file")
	width := flag.Int("width", 0, "Image width in pixels")
	height := flag.Int("height", 0, "Image height in pixels")
	samples := flag.Int("samples", 0, "Samples per pixel")
	depth := flag.Int("depth", 0, "Maximum bounce depth")
	workers := flag.Int("workers", 0, "Number of parallel workers (0 = use CPU count)")
	seed := flag.Int64("seed", 0, "Base random seed")
	out := flag.String("out", "", "Output PNG path")
	thumb := flag.Bool("thumb", false, "Also write a thumbnail next to the output")
	publish := flag.Bool("publish", false, "Upload the render to the configured S3 bucket")
	envFile := flag.String("env", ".env", "Environment file to load before reading PATHTRACER_* variables")
	help := flag.Bool("help", false, "Show help information")
	flag.Parse()

	// Show help if requested
	if *help {
		fmt.Println("Simple Path Tracer")
		fmt.Println("Usage: pathtracer [options]")
		fmt.Println()
		fmt.Println("Options:")
		flag.PrintDefaults()
		fmt.Println()
		fmt.Println("Available scenes:")
		for _, info := range scene.ListBuiltinScenes() {
			fmt.Printf("  %-10s - %s\n", info.ID, info.Description)
		}
		fmt.Println("  <file>.json - Scene description with materials, spheres, triangles and PLY meshes")
		return
	}

	settings, err := config.Load(*envFile)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Flags given explicitly win over the environment
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "scene":
			settings.Scene = *sceneType
		case "width":
			settings.Width = *width
		case "height":
			settings.Height = *height
		case "samples":
			settings.Samples = *samples
		case "depth":
			settings.MaxDepth = *depth
		case "workers":
			settings.Workers = *workers
		case "seed":
			settings.Seed = *seed
		case "out":
			settings.Output = *out
		}
	})

	logger := renderer.NewDefaultLogger()
	if host, err := config.HostInfo(); err == nil {
		logger.Printf("Host: %s\n", host)
	}

	if err := run(settings, cliOptions{thumbnail: *thumb, publish: *publish}, logger); err != nil {
		log.Fatalf("Render failed: %v", err)
	}
}

// createScene resolves a built-in scene name or a JSON scene path
func createScene(sceneType string) (*scene.Scene, error) {
	if sceneType == "" {
		return nil, errors.New("scene name is empty")
	}
	return scene.Resolve(sceneType)
}

func run(settings config.Settings, options cliOptions, logger core.Logger) error {
	selectedScene, err := createScene(settings.Scene)
	if err != nil {
		return err
	}
	logger.Printf("Using %s scene (%d primitives)...\n", selectedScene.Name, selectedScene.GetPrimitiveCount())

	renderConfig, err := settings.RenderConfig()
	if err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}

	raytracer, err := renderer.NewRaytracer(selectedScene, renderConfig, logger)
	if err != nil {
		return err
	}
	raytracer.SetProgressCallback(progressLogger(logger))

	result, err := raytracer.Render()
	if err != nil {
		return err
	}

	img, err := output.ToImage(result.Pixels, result.Width, result.Height)
	if err != nil {
		return err
	}
	if err := output.WritePNG(settings.Output, img); err != nil {
		return err
	}
	logger.Printf("Render saved as %s (average luminance %.3f)\n", settings.Output, output.AverageLuminance(img))

	if options.thumbnail {
		width := settings.ThumbnailWidth
		if width <= 0 {
			width = max(result.Width/4, 1)
		}
		thumb, err := output.Thumbnail(img, width)
		if err != nil {
			return err
		}
		thumbPath := thumbnailPath(settings.Output)
		if err := output.WritePNG(thumbPath, thumb); err != nil {
			return err
		}
		logger.Printf("Thumbnail saved as %s\n", thumbPath)
	}

	if options.publish {
		publisher, err := output.NewS3Publisher(settings.S3, logger)
		if err != nil {
			return err
		}
		data, err := output.PNGBytes(img)
		if err != nil {
			return err
		}
		key := fmt.Sprintf("%s/render_%s.png", selectedScene.Name, time.Now().Format("20060102_150405"))
		url, err := publisher.Publish(context.Background(), key, data)
		if err != nil {
			return err
		}
		logger.Printf("Published to %s\n", url)
	}

	return nil
}

// progressLogger reports every tenth of the image
func progressLogger(logger core.Logger) renderer.ProgressFunc {
	lastDecile := 0
	return func(done, total int) {
		decile := done * 10 / total
		if decile > lastDecile {
			lastDecile = decile
			logger.Printf("  %3d%% (%d/%d pixels)\n", decile*10, done, total)
		}
	}
}

// thumbnailPath inserts _thumb before the extension
func thumbnailPath(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + "_thumb" + ext
}
