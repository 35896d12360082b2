package server

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/df07/go-simple-pathtracer/pkg/config"
	"github.com/df07/go-simple-pathtracer/pkg/output"
	"github.com/df07/go-simple-pathtracer/pkg/renderer"
	"github.com/df07/go-simple-pathtracer/pkg/scene"
)

// Request limits
const (
	maxImageSize  = 1920
	maxSamples    = 1024
	maxDepthLimit = 500
	maxWorkers    = 256
)

// Server handles web requests for the path tracer
type Server struct {
	echo      *echo.Echo
	settings  config.Settings
	scenesDir string              // Directory scanned for JSON scene files
	publisher *output.S3Publisher // nil when S3 is not configured
}

// NewServer creates a new web server. S3 publishing is enabled when settings name a bucket.
func NewServer(settings config.Settings, scenesDir string) (*Server, error) {
	s := &Server{
		echo:      echo.New(),
		settings:  settings,
		scenesDir: scenesDir,
	}

	publisher, err := output.NewS3Publisher(settings.S3, renderer.NewDefaultLogger())
	switch {
	case errors.Is(err, output.ErrS3NotConfigured):
		log.Printf("S3 bucket not configured, publishing disabled")
	case err != nil:
		return nil, err
	default:
		s.publisher = publisher
	}

	s.echo.HideBanner = true
	s.echo.Use(corsMiddleware)

	s.echo.GET("/api/health", s.handleHealth)
	s.echo.GET("/api/scenes", s.handleScenes)
	s.echo.POST("/api/render", s.handleRender)
	s.echo.GET("/api/render.png", s.handleRenderPNG)
	s.echo.GET("/api/inspect", s.handleInspect)

	return s, nil
}

// Handler exposes the routes for embedding and tests
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start starts the web server
func (s *Server) Start() error {
	addr := ":" + s.settings.Port
	log.Printf("Starting web server on http://localhost%s", addr)
	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func corsMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		c.Response().Header().Set("Access-Control-Allow-Origin", "*")
		c.Response().Header().Set("Access-Control-Allow-Methods", "GET, POST")
		c.Response().Header().Set("Access-Control-Allow-Headers", "Content-Type, Accept")

		if c.Request().Method == http.MethodOptions {
			return c.NoContent(http.StatusOK)
		}

		return next(c)
	}
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// handleScenes lists built-in scenes followed by scene files
func (s *Server) handleScenes(c echo.Context) error {
	scenes := scene.ListBuiltinScenes()
	files, err := scene.ListSceneFiles(s.scenesDir)
	if err != nil {
		return jsonError(c, http.StatusInternalServerError, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"scenes": append(scenes, files...)})
}

// resolveScene only loads files that were found in the scenes directory
func (s *Server) resolveScene(name string) (*scene.Scene, error) {
	if sceneObj, err := scene.NewBuiltinScene(name); err == nil {
		return sceneObj, nil
	}

	files, err := scene.ListSceneFiles(s.scenesDir)
	if err != nil {
		return nil, err
	}
	for _, info := range files {
		if info.ID == name || info.DisplayName == name {
			return scene.Load(info.FilePath)
		}
	}
	return nil, fmt.Errorf("unknown scene: %q", name)
}

func jsonError(c echo.Context, status int, err error) error {
	return c.JSON(status, map[string]string{"error": err.Error()})
}

// parseIntParam parses an integer query parameter with validation
func parseIntParam(c echo.Context, key string, defaultValue, min, max int) (int, error) {
	if value := c.QueryParam(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		return checkRange(key, parsed, min, max)
	}
	return defaultValue, nil
}

func checkRange(key string, value, min, max int) (int, error) {
	if value < min || value > max {
		return 0, fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, value)
	}
	return value, nil
}
