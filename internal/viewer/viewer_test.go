package viewer

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/sheep3d/internal/assets"
	"github.com/Faultbox/sheep3d/internal/config"
	"github.com/Faultbox/sheep3d/internal/engine/render/rendertest"
	"github.com/Faultbox/sheep3d/internal/engine/shader"
	"github.com/Faultbox/sheep3d/pkg/math"
)

const triangle = `{
  "rootnode": {"name": "tri", "meshes": [0]},
  "meshes": [{"name": "triMesh", "vertices": [0,0,0, 1,0,0, 0,1,0], "faces": [[0,1,2]]}]
}`

func newViewer(t *testing.T) (*Viewer, *rendertest.Recorder) {
	t.Helper()
	rec := rendertest.NewRecorder().Declare(
		[]string{shader.AttributePosition, shader.AttributeNormal, shader.AttributeTextureCoords},
		[]string{
			shader.UniformProjectionViewModel,
			shader.UniformTransposedInversedModel,
			shader.UniformDiffuseColor,
			shader.UniformHasTexture,
			shader.UniformSampler,
		},
	)
	v, err := New(rec, assets.NewManager(), config.Default().Camera, 800, 600)
	require.NoError(t, err)
	return v, rec
}

// sceneDir copies the quad fixture into a temp dir so tests can rewrite it.
func sceneDir(t *testing.T) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("..", "scene", "testdata", "quad.json"))
	require.NoError(t, err)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "quad.json"), data, 0o644))
	return dir
}

func writePNG(t *testing.T, path string) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
}

func TestNewSetsViewport(t *testing.T) {
	v, rec := newViewer(t)

	assert.Equal(t, 800, rec.ViewportWidth)
	assert.Equal(t, 600, rec.ViewportHeight)
	assert.InDelta(t, 800.0/600.0, v.Camera.AspectRatio, 1e-6)
	assert.Equal(t, float32(45), v.Camera.FieldOfView)
	assert.Nil(t, v.Model())

	v.Resize(1024, 0)
	assert.Equal(t, 800, rec.ViewportWidth)
}

func TestOpenBuildsAndFrames(t *testing.T) {
	v, rec := newViewer(t)
	dir := sceneDir(t)

	require.NoError(t, v.Open(filepath.Join(dir, "quad.json")))
	require.NotNil(t, v.Model())
	assert.Equal(t, "quad", v.Model().Name)
	require.Len(t, v.Model().Meshes, 1)

	// quad spans (5,1,0)..(7,3,0) after the node matrices
	assert.True(t, v.Orbit.Center.ApproxEqual(math.Vec3{X: 6, Y: 2}, 1e-5))

	// the texture file is missing; the mesh draws untextured
	assert.False(t, v.Model().Meshes[0].Material.Textured())

	rec.Reset()
	require.NoError(t, v.Tick())
	names := rec.Names()
	require.NotEmpty(t, names)
	assert.Equal(t, "Clear", names[0])
	call, ok := rec.Last("DrawElements")
	require.True(t, ok)
	assert.Equal(t, int32(6), call.Args[0])
}

func TestTickWithoutModelOnlyClears(t *testing.T) {
	v, rec := newViewer(t)
	rec.Reset()
	require.NoError(t, v.Tick())
	assert.Equal(t, []string{"Clear"}, rec.Names())

	rec.Reset()
	require.NoError(t, v.Draw())
	assert.Empty(t, rec.Names())
}

func TestTickAppliesOrbitBeforeDrawing(t *testing.T) {
	v, rec := newViewer(t)
	require.NoError(t, v.Open(filepath.Join(sceneDir(t), "quad.json")))

	v.Drag(120, 40)
	rec.Reset()
	require.NoError(t, v.Tick())

	assert.Equal(t, "Clear", rec.Names()[0])
	assert.True(t, v.Camera.Transform.Position.ApproxEqual(v.Orbit.Position(), 1e-5))

	// the uploaded matrix uses the camera as moved this frame
	mm := v.Model().Meshes[0]
	var want math.Mat4
	v.Camera.ProjectionViewWorld(mm.Transform.WorldMatrix(nil), &want)
	got, ok := rec.UniformMatrix4Named(shader.UniformProjectionViewModel)
	require.True(t, ok)
	assert.True(t, want.ApproxEqual(got, 1e-5))
}

func TestOpenFailureKeepsModel(t *testing.T) {
	v, _ := newViewer(t)
	dir := sceneDir(t)
	path := filepath.Join(dir, "quad.json")
	require.NoError(t, v.Open(path))
	before := v.Model()

	assert.Error(t, v.Open(filepath.Join(dir, "missing.json")))
	assert.Error(t, v.Open(filepath.Join(dir, "quad.obj")))
	assert.Same(t, before, v.Model())
	assert.Equal(t, path, v.Path())
}

func TestReloadPicksUpChanges(t *testing.T) {
	v, rec := newViewer(t)
	dir := sceneDir(t)
	path := filepath.Join(dir, "quad.json")
	require.NoError(t, v.Open(path))
	old := rec.Live()
	require.Len(t, old, 2)

	require.NoError(t, os.WriteFile(path, []byte(triangle), 0o644))
	// cached until invalidated
	require.NoError(t, v.Open(path))
	verts, _ := v.Model().Counts()
	assert.Equal(t, 4, verts)

	require.NoError(t, v.Reload())
	verts, faces := v.Model().Counts()
	assert.Equal(t, 3, verts)
	assert.Equal(t, 1, faces)

	// only the new mesh's vertex and index buffers survive
	live := rec.Live()
	assert.Len(t, live, 2)
	for _, id := range old {
		assert.True(t, rec.Buffers[id].Deleted)
	}
}

func TestReloadWithoutSceneIsNoop(t *testing.T) {
	v, _ := newViewer(t)
	assert.NoError(t, v.Reload())
	assert.Nil(t, v.Model())
}

func TestTexturesUploadedAndReleased(t *testing.T) {
	v, rec := newViewer(t)
	dir := sceneDir(t)
	writePNG(t, filepath.Join(dir, "textures", "paint.png"))

	require.NoError(t, v.Open(filepath.Join(dir, "quad.json")))
	mat := v.Model().Meshes[0].Material
	require.True(t, mat.Textured())
	require.Len(t, rec.Textures, 1)

	rec.Reset()
	require.NoError(t, v.Draw())
	assert.Equal(t, 1, rec.Count("BindTexture"))

	v.Close()
	for _, tex := range rec.Textures {
		assert.True(t, tex.Deleted)
	}
	assert.Empty(t, rec.Live())
	assert.Nil(t, v.Model())
}

func TestDragAndZoom(t *testing.T) {
	v, _ := newViewer(t)
	yaw, dist := v.Orbit.Yaw, v.Orbit.Distance

	v.Drag(100, 0)
	v.Zoom(1)
	v.Update()

	assert.NotEqual(t, yaw, v.Orbit.Yaw)
	assert.Less(t, v.Orbit.Distance, dist)
	assert.True(t, v.Camera.Transform.Position.ApproxEqual(v.Orbit.Position(), 1e-5))
}

func TestZoomShrinksOrthographicSize(t *testing.T) {
	v, _ := newViewer(t)
	v.Camera.Orthographic = true
	size := v.Camera.OrthographicSize

	v.Zoom(1)
	assert.Less(t, v.Camera.OrthographicSize, size)

	for i := 0; i < 200; i++ {
		v.Zoom(5)
	}
	assert.GreaterOrEqual(t, v.Camera.OrthographicSize, float32(0.01))
}
