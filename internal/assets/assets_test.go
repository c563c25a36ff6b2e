package assets

import (
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/sheep3d/internal/scene"
)

func countingManager() (*Manager, *int, *int) {
	m := NewManager()
	scenes, images := 0, 0
	m.loadScene = func(path string) (*scene.Scene, error) {
		scenes++
		if filepath.Ext(path) == ".bad" {
			return nil, scene.ErrUnsupportedFormat
		}
		return &scene.Scene{Source: path, Root: &scene.Node{Name: "root"}}, nil
	}
	m.decodeImage = func(string) (image.Image, error) {
		images++
		return image.NewRGBA(image.Rect(0, 0, 1, 1)), nil
	}
	return m, &scenes, &images
}

func TestSceneCached(t *testing.T) {
	m, loads, _ := countingManager()

	a, err := m.Scene("models/ship.json")
	require.NoError(t, err)
	b, err := m.Scene("models/../models/ship.json")
	require.NoError(t, err)

	assert.Same(t, a, b)
	assert.Equal(t, 1, *loads)
	assert.Equal(t, Key("models/ship.json"), a.Path)

	st := m.Stats()
	assert.Equal(t, Stats{Scenes: 1, Hits: 1, Misses: 1}, st)
}

func TestInvalidateReloadsWithNewHandle(t *testing.T) {
	m, loads, _ := countingManager()

	a, err := m.Scene("ship.json")
	require.NoError(t, err)
	assert.True(t, m.Invalidate("ship.json"))
	assert.False(t, m.Invalidate("ship.json"))

	b, err := m.Scene("ship.json")
	require.NoError(t, err)
	assert.Equal(t, 2, *loads)
	assert.NotEqual(t, a.Handle, b.Handle)
}

func TestSceneErrorsNotCached(t *testing.T) {
	m, loads, _ := countingManager()

	_, err := m.Scene("ship.bad")
	assert.True(t, errors.Is(err, scene.ErrUnsupportedFormat))
	_, err = m.Scene("ship.bad")
	assert.Error(t, err)
	assert.Equal(t, 2, *loads)
	assert.Zero(t, m.Stats().Scenes)
}

func TestImageCached(t *testing.T) {
	m, _, decodes := countingManager()

	_, err := m.Image("tex/a.png")
	require.NoError(t, err)
	_, err = m.Image("tex/a.png")
	require.NoError(t, err)
	assert.Equal(t, 1, *decodes)

	m.Close()
	assert.Equal(t, Stats{}, m.Stats())
}

func TestManagerReadsFilesystem(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tri.json")
	doc := `{"rootnode": {"name": "tri", "meshes": [0]},
		"meshes": [{"vertices": [0,0,0, 1,0,0, 0,1,0], "faces": [[0,1,2]]}]}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	m := NewManager()
	a, err := m.Scene(path)
	require.NoError(t, err)
	assert.Equal(t, "tri", a.Scene.Root.Name)

	_, err = m.Image(filepath.Join(dir, "missing.png"))
	assert.Error(t, err)
}

func TestCache(t *testing.T) {
	c := NewCache[int]()
	c.Set("a", 1)

	v, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)
	_, ok = c.Get("b")
	assert.False(t, ok)

	hits, misses := c.Stats()
	assert.Equal(t, 1, hits)
	assert.Equal(t, 1, misses)

	assert.True(t, c.Delete("a"))
	assert.Zero(t, c.Len())
}
