package camera

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/sheep3d/pkg/math"
)

const eps = 1e-4

func TestNewDefaults(t *testing.T) {
	c := New(1.5)
	assert.Equal(t, float32(1.5), c.AspectRatio)
	assert.Equal(t, float32(0.1), c.Near)
	assert.Equal(t, float32(1000), c.Far)
	assert.Equal(t, float32(45), c.FieldOfView)
	assert.False(t, c.Orthographic)
	assert.Equal(t, float32(5), c.OrthographicSize)
}

func TestProjectionPerspective(t *testing.T) {
	c := New(1)

	got := c.Projection(nil)
	want := math.Mat4{
		2.4142135, 0, 0, 0,
		0, 2.4142135, 0, 0,
		0, 0, -1.0002, -1,
		0, 0, -0.20002, 0,
	}
	assert.True(t, got.ApproxEqual(want, eps), "got %v", *got)
}

func TestProjectionOrthographic(t *testing.T) {
	c := New(2)
	c.Orthographic = true
	c.OrthographicSize = 3

	got := c.Projection(nil)
	want := math.Ortho(-6, 6, -3, 3, 0.1, 1000)
	assert.Equal(t, want, *got)
}

func TestViewAtIdentityLooksDownPositiveZ(t *testing.T) {
	// With no rotation the forward column is +Z, so the view turns the
	// world half a revolution about Y.
	c := New(1)
	got := c.View(nil)
	want := math.Mat4{
		-1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, -1, 0,
		0, 0, 0, 1,
	}
	assert.True(t, got.ApproxEqual(want, eps), "got %v", *got)
}

func TestViewLookingDownNegativeZIsIdentity(t *testing.T) {
	c := New(1)
	c.Transform.Rotation.RotateY(180)

	got := c.View(nil)
	assert.True(t, got.ApproxEqual(math.Identity(), eps), "got %v", *got)
}

func TestDefaultCameraView(t *testing.T) {
	c := NewDefault(800, 600, false)
	assert.InDelta(t, 800.0/600.0, c.AspectRatio, 1e-6)

	view := c.View(nil)
	assert.True(t, view.ApproxEqual(math.Translate(0, 0, -5), eps), "got %v", *view)

	// The origin sits straight ahead of the camera.
	p := view.TransformPoint(math.Vec3{})
	assert.InDelta(t, -5, p.Z, eps)
}

func TestViewUsesParentTransform(t *testing.T) {
	c := NewDefault(1, 1, false)
	rig := New(1).Transform
	rig.Position = math.Vec3{X: 10}
	require.NoError(t, c.Transform.SetParent(rig))

	view := c.View(nil)
	p := view.TransformPoint(math.Vec3{X: 10})
	assert.InDelta(t, 0, p.X, eps)
	assert.InDelta(t, -5, p.Z, eps)
}

func TestProjectionViewWorld(t *testing.T) {
	c := NewDefault(4, 3, false)
	world := math.Translate(1, 2, 3).Mul(math.RotateX(0.5))

	var out math.Mat4
	got := c.ProjectionViewWorld(&world, &out)
	assert.Same(t, &out, got)

	want := c.Projection(nil).Mul(*c.View(nil)).Mul(world)
	assert.True(t, got.ApproxEqual(want, eps))

	// Repeated calls cycle the scratch pool without disturbing the result.
	for i := 0; i < 25; i++ {
		c.ProjectionViewWorld(&world, nil)
	}
	assert.True(t, c.ProjectionViewWorld(&world, nil).ApproxEqual(want, eps))
}

func TestSetViewportIgnoresZeroHeight(t *testing.T) {
	c := New(2)
	c.SetViewport(100, 0)
	assert.Equal(t, float32(2), c.AspectRatio)
	c.SetViewport(100, 50)
	assert.Equal(t, float32(2), c.AspectRatio)
}

func TestCheckBasis(t *testing.T) {
	c := NewDefault(1, 1, false)
	assert.NoError(t, c.CheckBasis())

	c.Transform.Scale = math.Vec3{X: 1, Y: 0, Z: 1}
	assert.ErrorIs(t, c.CheckBasis(), ErrDegenerateBasis)
}

func TestOrbitFacesCenter(t *testing.T) {
	o := NewOrbitController()
	o.Center = math.Vec3{X: 1, Y: 2, Z: 3}
	o.Distance = 10
	o.Yaw = 0.7
	o.Pitch = 0.4

	c := New(1)
	o.Apply(c)
	require.NoError(t, c.CheckBasis())

	p := c.View(nil).TransformPoint(o.Center)
	assert.InDelta(t, 0, p.X, eps)
	assert.InDelta(t, 0, p.Y, eps)
	assert.InDelta(t, -10, p.Z, eps)
}

func TestOrbitAtZeroMatchesDefaultCamera(t *testing.T) {
	o := NewOrbitController()
	c := New(1)
	o.Apply(c)

	d := NewDefault(1, 1, false)
	assert.True(t, c.View(nil).ApproxEqual(*d.View(nil), eps))
}

func TestOrbitClamps(t *testing.T) {
	o := NewOrbitController()
	o.HandleDrag(0, 1e6)
	assert.Equal(t, o.MaxPitch, o.Pitch)
	o.HandleDrag(0, -1e6)
	assert.Equal(t, o.MinPitch, o.Pitch)

	for i := 0; i < 100; i++ {
		o.HandleZoom(5)
	}
	assert.Equal(t, o.MinDistance, o.Distance)
}

func TestOrbitFitToRadius(t *testing.T) {
	o := NewOrbitController()
	c := New(1)
	c.FieldOfView = 60
	o.FitToRadius(math.Vec3{Y: 1}, 2, c)

	assert.Equal(t, math.Vec3{Y: 1}, o.Center)
	assert.InDelta(t, 4, o.Distance, eps)
}
