// Package assets loads scenes and texture images from disk and caches them
// by path.
package assets

import (
	"image"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Faultbox/sheep3d/internal/engine/texture"
	"github.com/Faultbox/sheep3d/internal/logger"
	"github.com/Faultbox/sheep3d/internal/scene"
)

// SceneAsset is a parsed scene plus the handle it was cached under. A
// reload after Invalidate gets a new handle.
type SceneAsset struct {
	Handle uuid.UUID
	Path   string
	Scene  *scene.Scene
}

// Stats reports cache usage.
type Stats struct {
	Scenes, Images int
	Hits, Misses   int
}

// Manager caches scenes and decoded images. It is safe for concurrent use;
// loads of the same path racing each other may both hit the disk.
type Manager struct {
	scenes *Cache[*SceneAsset]
	images *Cache[image.Image]

	loadScene   func(path string) (*scene.Scene, error)
	decodeImage func(path string) (image.Image, error)
}

// NewManager creates a new asset manager reading from the filesystem.
func NewManager() *Manager {
	return &Manager{
		scenes:      NewCache[*SceneAsset](),
		images:      NewCache[image.Image](),
		loadScene:   scene.Load,
		decodeImage: texture.DecodeFile,
	}
}

// Key normalizes a path into the form the caches are keyed by.
func Key(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}

// Scene returns the cached scene at path, loading it on a miss.
func (m *Manager) Scene(path string) (*SceneAsset, error) {
	key := Key(path)
	if a, ok := m.scenes.Get(key); ok {
		return a, nil
	}

	s, err := m.loadScene(path)
	if err != nil {
		return nil, err
	}
	a := &SceneAsset{Handle: uuid.New(), Path: key, Scene: s}
	m.scenes.Set(key, a)

	logger.Debug("scene cached", zap.String("path", key), zap.Stringer("handle", a.Handle))
	return a, nil
}

// Image returns the cached decoded image at path, decoding it on a miss.
func (m *Manager) Image(path string) (image.Image, error) {
	key := Key(path)
	if img, ok := m.images.Get(key); ok {
		return img, nil
	}

	img, err := m.decodeImage(path)
	if err != nil {
		return nil, errors.Wrapf(err, "image %s", path)
	}
	m.images.Set(key, img)
	return img, nil
}

// Invalidate drops any scene or image cached for path and reports whether
// something was dropped.
func (m *Manager) Invalidate(path string) bool {
	key := Key(path)
	s := m.scenes.Delete(key)
	i := m.images.Delete(key)
	if s || i {
		logger.Debug("asset invalidated", zap.String("path", key))
	}
	return s || i
}

// Stats returns cache statistics over both caches.
func (m *Manager) Stats() Stats {
	sh, sm := m.scenes.Stats()
	ih, im := m.images.Stats()
	return Stats{
		Scenes: m.scenes.Len(),
		Images: m.images.Len(),
		Hits:   sh + ih,
		Misses: sm + im,
	}
}

// Close empties the caches.
func (m *Manager) Close() {
	m.scenes.Clear()
	m.images.Clear()
}
