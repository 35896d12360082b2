package server

import (
	"encoding/base64"
	"fmt"
	"image"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/df07/go-simple-pathtracer/pkg/core"
	"github.com/df07/go-simple-pathtracer/pkg/output"
	"github.com/df07/go-simple-pathtracer/pkg/renderer"
)

// RenderRequest represents a render request from the client.
// Zero values fall back to the server settings.
type RenderRequest struct {
	Scene          string `json:"scene"`
	Width          int    `json:"width"`
	Height         int    `json:"height"`
	Samples        int    `json:"samples"`
	MaxDepth       int    `json:"maxDepth"`
	Workers        int    `json:"workers"`
	Seed           *int64 `json:"seed,omitempty"`
	ThumbnailWidth int    `json:"thumbnailWidth"`
	Publish        bool   `json:"publish"`
}

// Stats represents render statistics
type Stats struct {
	TotalPixels      int     `json:"totalPixels"`
	TotalSamples     int     `json:"totalSamples"`
	RaysTraced       int64   `json:"raysTraced"`
	Workers          int     `json:"workers"`
	ElapsedMs        int64   `json:"elapsedMs"`
	RaysPerSecond    float64 `json:"raysPerSecond"`
	AverageLuminance float64 `json:"averageLuminance"`
}

// RenderResponse is returned by POST /api/render
type RenderResponse struct {
	Scene     string           `json:"scene"`
	Width     int              `json:"width"`
	Height    int              `json:"height"`
	Image     string           `json:"image"`               // Base64 encoded PNG
	Thumbnail string           `json:"thumbnail,omitempty"` // Base64 encoded PNG
	Stats     Stats            `json:"stats"`
	Console   []ConsoleMessage `json:"console"`
	URL       string           `json:"url,omitempty"` // Set when the render was published
}

// handleRender renders synchronously and returns the PNG inside a JSON document
func (s *Server) handleRender(c echo.Context) error {
	req := new(RenderRequest)
	if err := c.Bind(req); err != nil {
		return jsonError(c, http.StatusBadRequest, fmt.Errorf("invalid request: %w", err))
	}
	if err := s.applyDefaults(req); err != nil {
		return jsonError(c, http.StatusBadRequest, err)
	}
	if req.Publish && s.publisher == nil {
		return jsonError(c, http.StatusBadRequest, output.ErrS3NotConfigured)
	}

	consoleChan := make(chan ConsoleMessage, 256)
	logger := NewWebLogger(fmt.Sprintf("render-%d", time.Now().UnixNano()), consoleChan)

	img, stats, err := s.render(req, logger)
	if err != nil {
		return jsonError(c, http.StatusBadRequest, err)
	}

	data, err := output.PNGBytes(img)
	if err != nil {
		return jsonError(c, http.StatusInternalServerError, err)
	}

	response := RenderResponse{
		Scene:  req.Scene,
		Width:  req.Width,
		Height: req.Height,
		Image:  base64.StdEncoding.EncodeToString(data),
		Stats:  stats,
	}

	if req.ThumbnailWidth > 0 {
		thumb, err := output.Thumbnail(img, req.ThumbnailWidth)
		if err != nil {
			return jsonError(c, http.StatusBadRequest, err)
		}
		thumbData, err := output.PNGBytes(thumb)
		if err != nil {
			return jsonError(c, http.StatusInternalServerError, err)
		}
		response.Thumbnail = base64.StdEncoding.EncodeToString(thumbData)
	}

	if req.Publish {
		key := fmt.Sprintf("%s/%dx%d_%d.png", req.Scene, req.Width, req.Height, time.Now().Unix())
		url, err := s.publisher.Publish(c.Request().Context(), key, data)
		if err != nil {
			return jsonError(c, http.StatusBadGateway, err)
		}
		response.URL = url
	}

	response.Console = drainConsole(consoleChan)
	return c.JSON(http.StatusOK, response)
}

// handleRenderPNG renders from query parameters and returns the image itself
func (s *Server) handleRenderPNG(c echo.Context) error {
	req := &RenderRequest{Scene: c.QueryParam("scene")}

	var err error
	if req.Width, err = parseIntParam(c, "width", 0, 1, maxImageSize); err != nil {
		return jsonError(c, http.StatusBadRequest, err)
	}
	if req.Height, err = parseIntParam(c, "height", 0, 1, maxImageSize); err != nil {
		return jsonError(c, http.StatusBadRequest, err)
	}
	if req.Samples, err = parseIntParam(c, "samples", 0, 1, maxSamples); err != nil {
		return jsonError(c, http.StatusBadRequest, err)
	}
	if err := s.applyDefaults(req); err != nil {
		return jsonError(c, http.StatusBadRequest, err)
	}

	img, _, err := s.render(req, NewWebLogger("png", nil))
	if err != nil {
		return jsonError(c, http.StatusBadRequest, err)
	}

	data, err := output.PNGBytes(img)
	if err != nil {
		return jsonError(c, http.StatusInternalServerError, err)
	}
	return c.Blob(http.StatusOK, "image/png", data)
}

// applyDefaults fills zero fields from the server settings and enforces request limits
func (s *Server) applyDefaults(req *RenderRequest) error {
	if req.Scene == "" {
		req.Scene = s.settings.Scene
	}
	if req.Width == 0 {
		req.Width = s.settings.Width
	}
	if req.Height == 0 {
		req.Height = s.settings.Height
	}
	if req.Samples == 0 {
		req.Samples = s.settings.Samples
	}
	if req.MaxDepth == 0 {
		req.MaxDepth = s.settings.MaxDepth
	}
	if req.Workers == 0 {
		req.Workers = s.settings.Workers
	}

	var err error
	if req.Width, err = checkRange("width", req.Width, 1, maxImageSize); err != nil {
		return err
	}
	if req.Height, err = checkRange("height", req.Height, 1, maxImageSize); err != nil {
		return err
	}
	if req.Samples, err = checkRange("samples", req.Samples, 1, maxSamples); err != nil {
		return err
	}
	if req.MaxDepth, err = checkRange("maxDepth", req.MaxDepth, 1, maxDepthLimit); err != nil {
		return err
	}
	if req.Workers, err = checkRange("workers", req.Workers, 0, maxWorkers); err != nil {
		return err
	}
	if req.ThumbnailWidth, err = checkRange("thumbnailWidth", req.ThumbnailWidth, 0, req.Width); err != nil {
		return err
	}
	return nil
}

// render runs one synchronous render for a validated request
func (s *Server) render(req *RenderRequest, logger core.Logger) (*image.RGBA, Stats, error) {
	sceneObj, err := s.resolveScene(req.Scene)
	if err != nil {
		return nil, Stats{}, err
	}

	settings := s.settings
	settings.Width = req.Width
	settings.Height = req.Height
	settings.Samples = req.Samples
	settings.MaxDepth = req.MaxDepth
	settings.Workers = req.Workers
	if req.Seed != nil {
		settings.Seed = *req.Seed
	}

	renderConfig, err := settings.RenderConfig()
	if err != nil {
		return nil, Stats{}, err
	}

	raytracer, err := renderer.NewRaytracer(sceneObj, renderConfig, logger)
	if err != nil {
		return nil, Stats{}, err
	}

	result, err := raytracer.Render()
	if err != nil {
		return nil, Stats{}, err
	}

	img, err := output.ToImage(result.Pixels, result.Width, result.Height)
	if err != nil {
		return nil, Stats{}, err
	}

	return img, Stats{
		TotalPixels:      result.Stats.TotalPixels,
		TotalSamples:     result.Stats.TotalSamples,
		RaysTraced:       result.Stats.RaysTraced,
		Workers:          result.Stats.Workers,
		ElapsedMs:        result.Stats.Elapsed.Milliseconds(),
		RaysPerSecond:    result.Stats.RaysPerSecond(),
		AverageLuminance: output.AverageLuminance(img),
	}, nil
}
