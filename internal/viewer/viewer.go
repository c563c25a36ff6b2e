// Package viewer holds the frame state of the model viewer: camera, orbit
// controller, shader and the model built from the open scene. It talks to
// the GPU only through render.Backend.
package viewer

import (
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Faultbox/sheep3d/internal/assets"
	"github.com/Faultbox/sheep3d/internal/config"
	"github.com/Faultbox/sheep3d/internal/engine/camera"
	"github.com/Faultbox/sheep3d/internal/engine/material"
	"github.com/Faultbox/sheep3d/internal/engine/model"
	"github.com/Faultbox/sheep3d/internal/engine/render"
	"github.com/Faultbox/sheep3d/internal/engine/shader"
	"github.com/Faultbox/sheep3d/internal/engine/texture"
	"github.com/Faultbox/sheep3d/internal/logger"
	"github.com/Faultbox/sheep3d/internal/scene"
	"github.com/Faultbox/sheep3d/pkg/math"
)

// Model is the model type the viewer draws.
type Model = model.Model[*material.Material]

// Viewer owns everything drawn in a frame.
type Viewer struct {
	backend render.Backend
	assets  *assets.Manager
	log     *zap.Logger

	Camera *camera.Camera
	Orbit  *camera.OrbitController
	Shader *shader.BasicShader

	path     string
	model    *Model
	textures []*texture.Texture2D
	files    []string // texture files read for the open scene
}

// New creates a viewer for a width x height viewport. The camera lens and
// starting orbit come from cfg.
func New(b render.Backend, am *assets.Manager, cfg config.CameraConfig, width, height int) (*Viewer, error) {
	cam := camera.New(1)
	cam.FieldOfView = cfg.FieldOfView
	cam.Near = cfg.Near
	cam.Far = cfg.Far
	cam.Orthographic = cfg.Orthographic
	cam.OrthographicSize = cfg.OrthographicSize

	orbit := camera.NewOrbitController()
	orbit.Distance = cfg.Distance
	orbit.Pitch = math.Deg2Rad * cfg.Pitch
	orbit.Yaw = math.Deg2Rad * cfg.Yaw

	sh, err := shader.NewBasicShader(b, cam)
	if err != nil {
		return nil, errors.Wrap(err, "viewer shader")
	}

	v := &Viewer{
		backend: b,
		assets:  am,
		log:     logger.Named("viewer"),
		Camera:  cam,
		Orbit:   orbit,
		Shader:  sh,
	}
	v.Resize(width, height)
	orbit.Apply(cam)
	return v, nil
}

// Path returns the path of the open scene, or "".
func (v *Viewer) Path() string { return v.path }

// Model returns the model built from the open scene, or nil.
func (v *Viewer) Model() *Model { return v.model }

// Open loads the scene at path and replaces the current model with it. On
// failure the current model stays in place.
func (v *Viewer) Open(path string) error {
	asset, err := v.assets.Scene(path)
	if err != nil {
		return err
	}

	var (
		textures []*texture.Texture2D
		files    []string
	)
	convert := func(m *scene.Material) (*material.Material, error) {
		mat, err := scene.BasicMaterial(m)
		if err != nil || m == nil {
			return mat, err
		}
		if file := asset.Scene.ResolveTexture(m); file != "" {
			files = append(files, file)
			tex, err := v.texture(file)
			if err != nil {
				v.log.Warn("texture unavailable", zap.String("file", file), zap.Error(err))
			} else {
				mat.Texture = tex
				textures = append(textures, tex)
			}
		}
		return mat, nil
	}

	mdl := model.New[*material.Material](strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
	if err := scene.Build(v.backend, asset.Scene, v.Shader, convert, mdl); err != nil {
		for _, tex := range textures {
			tex.Delete()
		}
		return errors.Wrapf(err, "build %s", path)
	}

	v.release()
	v.path = path
	v.model = mdl
	v.textures = textures
	v.files = files
	v.Frame()

	verts, faces := mdl.Counts()
	v.log.Info("scene opened",
		zap.String("path", path),
		zap.Stringer("handle", asset.Handle),
		zap.Int("meshes", len(mdl.Meshes)),
		zap.Int("vertices", verts),
		zap.Int("faces", faces),
	)
	return nil
}

func (v *Viewer) texture(file string) (*texture.Texture2D, error) {
	img, err := v.assets.Image(file)
	if err != nil {
		return nil, err
	}
	return texture.Upload(v.backend, img)
}

// Reload drops the cached copies of the open scene and its textures and
// opens it again.
func (v *Viewer) Reload() error {
	if v.path == "" {
		return nil
	}
	v.assets.Invalidate(v.path)
	for _, file := range v.files {
		v.assets.Invalidate(file)
	}
	return v.Open(v.path)
}

// Frame points the orbit controller at the model's bounds.
func (v *Viewer) Frame() {
	if v.model == nil {
		return
	}
	b := v.model.Bounds()
	if b.Empty() {
		return
	}
	r := b.Radius()
	if r <= 0 {
		r = 1
	}
	v.Orbit.FitToRadius(b.Center(), r, v.Camera)
	if need := r * 4; v.Camera.Far < need {
		v.Camera.Far = need
	}
	v.Orbit.Apply(v.Camera)
}

// Resize updates the backend viewport and the camera aspect ratio.
func (v *Viewer) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	v.backend.Viewport(width, height)
	v.Camera.SetViewport(width, height)
}

// Drag orbits the camera by a mouse movement in pixels.
func (v *Viewer) Drag(dx, dy float32) {
	v.Orbit.HandleDrag(dx, dy)
}

// Zoom moves the camera toward or away from the center by wheel steps.
func (v *Viewer) Zoom(steps float32) {
	v.Orbit.HandleZoom(steps)
	if v.Camera.Orthographic {
		v.Camera.OrthographicSize *= 1 - steps*v.Orbit.ZoomSensitivity
		if v.Camera.OrthographicSize < 0.01 {
			v.Camera.OrthographicSize = 0.01
		}
	}
}

// Update writes the orbit pose into the camera.
func (v *Viewer) Update() {
	v.Orbit.Apply(v.Camera)
}

// Tick renders one frame: clear, apply the orbit to the camera, draw.
func (v *Viewer) Tick() error {
	v.backend.Clear()
	v.Update()
	return v.Draw()
}

// Draw draws the model without clearing.
func (v *Viewer) Draw() error {
	if v.model == nil {
		return nil
	}
	return v.model.Draw()
}

func (v *Viewer) release() {
	if v.model != nil {
		v.model.Delete()
		v.model = nil
	}
	for _, tex := range v.textures {
		tex.Delete()
	}
	v.textures = nil
	v.files = nil
}

// Close releases the model, textures and shader.
func (v *Viewer) Close() {
	v.release()
	v.Shader.Delete()
}
