package camera

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/sheep3d/pkg/math"
)

// OrbitController moves a camera transform on a sphere around a center point.
type OrbitController struct {
	Center math.Vec3

	// Spherical coordinates
	Distance float32
	Pitch    float32 // vertical angle, radians
	Yaw      float32 // horizontal angle, radians

	// Constraints
	MinDistance float32
	MaxDistance float32
	MinPitch    float32
	MaxPitch    float32

	// Sensitivity
	DragSensitivity float32
	ZoomSensitivity float32
}

// NewOrbitController creates an orbit controller with default settings.
func NewOrbitController() *OrbitController {
	return &OrbitController{
		Distance:        5,
		MinDistance:     0.5,
		MaxDistance:     500,
		MinPitch:        -1.5,
		MaxPitch:        1.5,
		DragSensitivity: 0.005,
		ZoomSensitivity: 0.1,
	}
}

// Position returns the eye position in world space.
func (o *OrbitController) Position() math.Vec3 {
	sp, cp := math32.Sincos(o.Pitch)
	sy, cy := math32.Sincos(o.Yaw)
	return o.Center.Add(math.Vec3{
		X: o.Distance * cp * sy,
		Y: o.Distance * sp,
		Z: o.Distance * cp * cy,
	})
}

// Rotation returns the orientation whose forward axis points from the eye
// to the center: yaw half a turn past Yaw, then pitch about the local X axis.
func (o *OrbitController) Rotation() math.Quat {
	yaw := math.QuatFromAxisAngle(math.Vec3{Y: 1}, o.Yaw+math32.Pi)
	pitch := math.QuatFromAxisAngle(math.Vec3{X: 1}, o.Pitch)
	return yaw.Mul(pitch).Normalize()
}

// Apply writes the controller's pose into the camera transform.
func (o *OrbitController) Apply(c *Camera) {
	c.Transform.Position = o.Position()
	c.Transform.Rotation = o.Rotation()
}

// HandleDrag updates rotation based on mouse drag delta.
func (o *OrbitController) HandleDrag(deltaX, deltaY float32) {
	o.Yaw -= deltaX * o.DragSensitivity
	o.Pitch += deltaY * o.DragSensitivity
	o.Pitch = clamp(o.Pitch, o.MinPitch, o.MaxPitch)
}

// HandleZoom updates distance based on scroll wheel delta.
func (o *OrbitController) HandleZoom(delta float32) {
	o.Distance -= delta * o.Distance * o.ZoomSensitivity
	o.Distance = clamp(o.Distance, o.MinDistance, o.MaxDistance)
}

// FitToRadius centers on a point and backs off far enough to see a sphere
// of the given radius with the camera's field of view.
func (o *OrbitController) FitToRadius(center math.Vec3, radius float32, c *Camera) {
	o.Center = center
	half := math.Deg2Rad * c.FieldOfView / 2
	d := radius / math32.Sin(half)
	if d < o.MinDistance {
		d = o.MinDistance
	}
	if d > o.MaxDistance {
		o.MaxDistance = d * 2
	}
	o.Distance = d
	if c.Orthographic {
		c.OrthographicSize = radius
	}
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
