// Package camera derives projection and view matrices from a transform.
package camera

import (
	"github.com/chewxy/math32"
	"github.com/pkg/errors"

	"github.com/Faultbox/sheep3d/internal/engine/transform"
	"github.com/Faultbox/sheep3d/pkg/math"
	"github.com/Faultbox/sheep3d/pkg/pool"
)

// Default lens parameters.
const (
	DefaultNear             = 0.1
	DefaultFar              = 1000
	DefaultFieldOfView      = 45
	DefaultOrthographicSize = 5
)

// ErrDegenerateBasis is returned by CheckBasis when the camera's world
// forward or up axis cannot define a view.
var ErrDegenerateBasis = errors.New("camera: degenerate view basis")

// Scratch storage for the matrix chains below. Borrowed values never
// outlive the call that took them.
var (
	vectors  = pool.New[math.Vec3](10)
	matrices = pool.New[math.Mat4](10)
)

// Camera is a view into the scene positioned by its own Transform.
type Camera struct {
	Transform *transform.Transform

	AspectRatio float32
	Near        float32
	Far         float32
	// FieldOfView is the vertical field of view in degrees.
	FieldOfView float32

	Orthographic bool
	// OrthographicSize is half the visible height in orthographic mode.
	OrthographicSize float32
}

// New creates a perspective camera with default lens parameters.
func New(aspectRatio float32) *Camera {
	return &Camera{
		Transform:        transform.New(),
		AspectRatio:      aspectRatio,
		Near:             DefaultNear,
		Far:              DefaultFar,
		FieldOfView:      DefaultFieldOfView,
		OrthographicSize: DefaultOrthographicSize,
	}
}

// NewDefault creates a camera for a width x height viewport, placed at
// z=5 and turned around to look down -Z at the origin.
func NewDefault(width, height int, orthographic bool) *Camera {
	c := New(1)
	c.SetViewport(width, height)
	c.Orthographic = orthographic
	c.Transform.Position.Z = 5
	c.Transform.Rotation.RotateY(180)
	return c
}

// SetViewport updates the aspect ratio from a viewport size.
// Zero heights are ignored.
func (c *Camera) SetViewport(width, height int) {
	if height <= 0 {
		return
	}
	c.AspectRatio = float32(width) / float32(height)
}

// Projection writes the projection matrix into out and returns it.
// A nil out allocates a new matrix.
func (c *Camera) Projection(out *math.Mat4) *math.Mat4 {
	if out == nil {
		out = new(math.Mat4)
	}
	if c.Orthographic {
		h := c.OrthographicSize
		w := h * c.AspectRatio
		*out = math.Ortho(-w, w, -h, h, c.Near, c.Far)
		return out
	}
	*out = math.Perspective(math.Deg2Rad*c.FieldOfView, c.AspectRatio, c.Near, c.Far)
	return out
}

// View writes the view matrix into out and returns it.
// The eye is the transform's world position, the target is one unit along
// the world forward axis (column 2) and up is the world Y axis (column 1).
// A nil out allocates a new matrix.
func (c *Camera) View(out *math.Mat4) *math.Mat4 {
	if out == nil {
		out = new(math.Mat4)
	}
	world := c.Transform.WorldMatrix(matrices.Next())
	eye := c.Transform.WorldPosition(vectors.Next())
	forward := vectors.Next()
	*forward = world.Forward()
	up := vectors.Next()
	*up = world.Up()

	*out = math.LookAt(*eye, eye.Add(*forward), *up)
	return out
}

// ProjectionViewWorld writes projection * view * world into out and
// returns it. This is the matrix handed to a shader per draw call.
// A nil out allocates a new matrix.
func (c *Camera) ProjectionViewWorld(world *math.Mat4, out *math.Mat4) *math.Mat4 {
	if out == nil {
		out = new(math.Mat4)
	}
	projection := c.Projection(matrices.Next())
	view := c.View(matrices.Next())
	*out = projection.Mul(*view).Mul(*world)
	return out
}

// CheckBasis reports ErrDegenerateBasis when the world forward or up axis
// is zero-length or the two are parallel.
func (c *Camera) CheckBasis() error {
	world := c.Transform.WorldMatrix(matrices.Next())
	forward, up := world.Forward(), world.Up()
	if math32.IsNaN(forward.X + forward.Y + forward.Z + up.X + up.Y + up.Z) {
		return errors.Wrap(ErrDegenerateBasis, "NaN axis")
	}
	if forward.Length() < 1e-6 || up.Length() < 1e-6 {
		return errors.Wrap(ErrDegenerateBasis, "zero-length axis")
	}
	if forward.Cross(up).Length() < 1e-6*forward.Length()*up.Length() {
		return errors.Wrap(ErrDegenerateBasis, "forward parallel to up")
	}
	return nil
}
