package server

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/df07/go-simple-pathtracer/pkg/core"
	"github.com/df07/go-simple-pathtracer/pkg/geometry"
	"github.com/df07/go-simple-pathtracer/pkg/material"
	"github.com/df07/go-simple-pathtracer/pkg/renderer"
	"github.com/df07/go-simple-pathtracer/pkg/scene"
)

// InspectResponse represents the JSON response for object inspection
type InspectResponse struct {
	Hit           bool                   `json:"hit"`
	ShapeIndex    int                    `json:"shapeIndex"`
	MaterialIndex int                    `json:"materialIndex"`
	MaterialType  string                 `json:"materialType,omitempty"`
	GeometryType  string                 `json:"geometryType,omitempty"`
	Point         [3]float32             `json:"point"`
	Normal        [3]float32             `json:"normal"`
	Distance      float32                `json:"distance"`
	Properties    map[string]interface{} `json:"properties,omitempty"`
}

func vecArray(v core.Vec3) [3]float32 {
	return [3]float32{v.X, v.Y, v.Z}
}

// extractMaterialInfo describes a material with type assertions
func extractMaterialInfo(mat material.Material) (string, map[string]interface{}) {
	properties := make(map[string]interface{})

	switch m := mat.(type) {
	case *material.Lambertian:
		if table := m.Table(); table != nil {
			properties["tableSize"] = table.Size()
		}
		return "lambertian", properties
	case *material.Metal:
		return "metal", properties
	default:
		return "unknown", properties
	}
}

// extractGeometryInfo describes a shape with type assertions
func extractGeometryInfo(shape geometry.Shape) (string, map[string]interface{}) {
	properties := make(map[string]interface{})

	switch geom := shape.(type) {
	case *geometry.Sphere:
		properties["center"] = vecArray(geom.Center)
		properties["radius"] = geom.Radius
		return "sphere", properties
	case *geometry.Triangle:
		properties["vertices"] = [3][3]float32{vecArray(geom.V0), vecArray(geom.V1), vecArray(geom.V2)}
		properties["faceNormal"] = vecArray(geom.Normal())
		return "triangle", properties
	default:
		return "unknown", properties
	}
}

// inspectPixel casts the unjittered ray through the centre of a pixel
func inspectPixel(sceneObj *scene.Scene, config renderer.Config, pixelX, pixelY int) InspectResponse {
	camera := renderer.NewCamera(config.Camera)
	u := (float32(pixelX) + 0.5) / float32(config.Width)
	v := (float32(config.Height-pixelY) + 0.5) / float32(config.Height)
	ray := camera.GetRay(u, v)

	index, hit, isHit := sceneObj.HitShape(ray, config.TMin, config.TMax)
	if !isHit {
		return InspectResponse{Hit: false, ShapeIndex: -1, MaterialIndex: -1}
	}

	materialType, materialProps := extractMaterialInfo(sceneObj.Material(hit.Material))
	geometryType, geometryProps := extractGeometryInfo(sceneObj.Shapes[index])

	return InspectResponse{
		Hit:           true,
		ShapeIndex:    index,
		MaterialIndex: hit.Material,
		MaterialType:  materialType,
		GeometryType:  geometryType,
		Point:         vecArray(hit.Point),
		Normal:        vecArray(hit.Normal),
		Distance:      hit.T,
		Properties: map[string]interface{}{
			"material": materialProps,
			"geometry": geometryProps,
		},
	}
}

// handleInspect handles ray casting inspection requests
func (s *Server) handleInspect(c echo.Context) error {
	req := &RenderRequest{Scene: c.QueryParam("scene")}

	var err error
	if req.Width, err = parseIntParam(c, "width", 0, 1, maxImageSize); err != nil {
		return jsonError(c, http.StatusBadRequest, err)
	}
	if req.Height, err = parseIntParam(c, "height", 0, 1, maxImageSize); err != nil {
		return jsonError(c, http.StatusBadRequest, err)
	}
	if err := s.applyDefaults(req); err != nil {
		return jsonError(c, http.StatusBadRequest, err)
	}

	pixelX, err := strconv.Atoi(c.QueryParam("x"))
	if err != nil {
		return jsonError(c, http.StatusBadRequest, fmt.Errorf("invalid x coordinate"))
	}
	pixelY, err := strconv.Atoi(c.QueryParam("y"))
	if err != nil {
		return jsonError(c, http.StatusBadRequest, fmt.Errorf("invalid y coordinate"))
	}
	if pixelX < 0 || pixelX >= req.Width || pixelY < 0 || pixelY >= req.Height {
		return jsonError(c, http.StatusBadRequest, fmt.Errorf("pixel coordinates out of bounds"))
	}

	sceneObj, err := s.resolveScene(req.Scene)
	if err != nil {
		return jsonError(c, http.StatusBadRequest, err)
	}

	config, err := s.inspectConfig(req.Width, req.Height)
	if err != nil {
		return jsonError(c, http.StatusInternalServerError, err)
	}

	return c.JSON(http.StatusOK, inspectPixel(sceneObj, config, pixelX, pixelY))
}

// inspectConfig derives the camera and ray bounds from the same settings /api/render uses
func (s *Server) inspectConfig(width, height int) (renderer.Config, error) {
	settings := s.settings
	settings.Width = width
	settings.Height = height
	config, err := settings.RenderConfig()
	if err != nil {
		return renderer.Config{}, fmt.Errorf("server settings: %w", err)
	}
	return config, nil
}
