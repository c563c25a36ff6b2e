// Package app runs the interactive viewer: window, input and the frame loop.
package app

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/sheep3d/internal/assets"
	"github.com/Faultbox/sheep3d/internal/config"
	"github.com/Faultbox/sheep3d/internal/engine/input"
	"github.com/Faultbox/sheep3d/internal/engine/render/glbackend"
	"github.com/Faultbox/sheep3d/internal/engine/window"
	"github.com/Faultbox/sheep3d/internal/logger"
	"github.com/Faultbox/sheep3d/internal/viewer"
)

// App is the main application instance.
type App struct {
	config  *config.Config
	running bool
	log     *zap.Logger

	window  *window.Window
	backend *glbackend.Backend
	input   *input.Input
	assets  *assets.Manager
	viewer  *viewer.Viewer
	watcher *viewer.Watcher
}

// New creates the window and GL context and opens the configured scene.
func New(cfg *config.Config) (*App, error) {
	log := logger.Named("app")
	log.Info("initializing viewer",
		zap.String("title", cfg.Window.Title),
		zap.Int("width", cfg.Window.Width),
		zap.Int("height", cfg.Window.Height),
		zap.String("scene", cfg.Scene.Path),
	)

	a := &App{config: cfg, log: log}

	// Create window (this also creates OpenGL context)
	var err error
	a.window, err = window.New(window.Config{
		Title:      cfg.Window.Title,
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		Fullscreen: cfg.Window.Fullscreen,
		VSync:      cfg.Window.VSync,
	})
	if err != nil {
		return nil, errors.Wrap(err, "create window")
	}

	// Backend AFTER window, since the OpenGL context must exist
	a.backend, err = glbackend.New(glbackend.DefaultConfig())
	if err != nil {
		a.Close()
		return nil, errors.Wrap(err, "create backend")
	}

	a.input = input.New()
	a.assets = assets.NewManager()

	w, h := a.window.DrawableSize()
	a.viewer, err = viewer.New(a.backend, a.assets, cfg.Camera, w, h)
	if err != nil {
		a.Close()
		return nil, err
	}

	if cfg.Scene.Path != "" {
		if err := a.viewer.Open(cfg.Scene.Path); err != nil {
			a.Close()
			return nil, err
		}
		a.updateTitle()

		if cfg.Scene.Watch {
			a.watcher, err = viewer.Watch(cfg.Scene.Path)
			if err != nil {
				// keep running without hot reload
				log.Warn("scene watch disabled", zap.Error(err))
			}
		}
	}

	log.Info("viewer initialized")
	return a, nil
}

// Run starts the frame loop. Each tick polls input, reloads a changed
// scene, updates the camera, draws and swaps, in that order.
func (a *App) Run() error {
	a.running = true

	frameCount := 0
	fpsTimer := time.Now()

	a.log.Info("starting frame loop")

	for a.running {
		if a.input.Update() {
			break
		}
		a.handleEvents()

		if a.watcher != nil && viewer.Pending(a.watcher.Changes()) {
			a.reload()
		}

		if err := a.viewer.Tick(); err != nil {
			return errors.Wrap(err, "draw")
		}

		a.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			a.log.Debug("fps", zap.Int("count", frameCount))
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	a.running = false
	return nil
}

func (a *App) handleEvents() {
	for _, event := range a.input.Events() {
		switch event.Type {
		case input.EventWindowResize:
			a.viewer.Resize(a.window.DrawableSize())
		case input.EventKeyDown:
			switch event.Key {
			case sdl.SCANCODE_ESCAPE:
				a.running = false
			case sdl.SCANCODE_R:
				a.reload()
			case sdl.SCANCODE_F:
				a.viewer.Frame()
			case sdl.SCANCODE_O:
				a.viewer.Camera.Orthographic = !a.viewer.Camera.Orthographic
			}
		case input.EventMouseMove:
			if a.input.IsButtonDown(sdl.BUTTON_LEFT) {
				a.viewer.Drag(event.DeltaX, event.DeltaY)
			}
		case input.EventMouseWheel:
			a.viewer.Zoom(event.DeltaY)
		}
	}
}

// reload rebuilds the scene. A broken file leaves the last good model on
// screen.
func (a *App) reload() {
	if err := a.viewer.Reload(); err != nil {
		a.log.Error("scene reload failed", zap.Error(err))
		return
	}
	a.updateTitle()
}

func (a *App) updateTitle() {
	m := a.viewer.Model()
	if m == nil {
		return
	}
	verts, faces := m.Counts()
	a.window.SetTitle(fmt.Sprintf("%s - %s (%d vertices, %d faces)", a.config.Window.Title, m.Name, verts, faces))
}

// Close releases the scene, GPU objects and the window.
func (a *App) Close() {
	a.log.Info("closing viewer")

	if a.watcher != nil {
		a.watcher.Close()
	}
	if a.viewer != nil {
		a.viewer.Close()
	}
	if a.assets != nil {
		a.assets.Close()
	}
	if a.backend != nil {
		a.backend.Close()
	}
	if a.window != nil {
		a.window.Close()
	}
}
