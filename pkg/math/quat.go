package math

import "github.com/chewxy/math32"

// Quat represents a quaternion for 3D rotations.
// Components are stored as X, Y, Z, W where W is the scalar part.
type Quat struct {
	X, Y, Z, W float32
}

// QuatIdentity returns an identity quaternion (no rotation).
func QuatIdentity() Quat {
	return Quat{X: 0, Y: 0, Z: 0, W: 1}
}

// QuatFromAxisAngle creates a quaternion from axis-angle rotation.
// axis should be normalized, angle is in radians.
func QuatFromAxisAngle(axis Vec3, angle float32) Quat {
	s, c := math32.Sincos(angle / 2)
	return Quat{
		X: axis.X * s,
		Y: axis.Y * s,
		Z: axis.Z * s,
		W: c,
	}
}

// Normalize returns a normalized quaternion.
// Near-zero quaternions collapse to identity.
func (q Quat) Normalize() Quat {
	length := math32.Sqrt(q.Dot(q))
	if length < 0.0001 {
		return QuatIdentity()
	}
	invLen := 1.0 / length
	return Quat{
		X: q.X * invLen,
		Y: q.Y * invLen,
		Z: q.Z * invLen,
		W: q.W * invLen,
	}
}

// Dot returns the dot product of two quaternions.
func (q Quat) Dot(other Quat) float32 {
	return q.X*other.X + q.Y*other.Y + q.Z*other.Z + q.W*other.W
}

// Mul multiplies two quaternions (q then other, in local space).
func (q Quat) Mul(other Quat) Quat {
	return Quat{
		X: q.W*other.X + q.X*other.W + q.Y*other.Z - q.Z*other.Y,
		Y: q.W*other.Y - q.X*other.Z + q.Y*other.W + q.Z*other.X,
		Z: q.W*other.Z + q.X*other.Y - q.Y*other.X + q.Z*other.W,
		W: q.W*other.W - q.X*other.X - q.Y*other.Y - q.Z*other.Z,
	}
}

// RotateX rotates q in place around its local X axis by degrees.
func (q *Quat) RotateX(degrees float32) {
	q.rotate(Vec3{X: 1}, degrees)
}

// RotateY rotates q in place around its local Y axis by degrees.
func (q *Quat) RotateY(degrees float32) {
	q.rotate(Vec3{Y: 1}, degrees)
}

// RotateZ rotates q in place around its local Z axis by degrees.
func (q *Quat) RotateZ(degrees float32) {
	q.rotate(Vec3{Z: 1}, degrees)
}

// rotate composes an axis rotation and renormalizes so repeated
// per-frame rotations do not drift away from unit length.
func (q *Quat) rotate(axis Vec3, degrees float32) {
	*q = q.Mul(QuatFromAxisAngle(axis, degrees*Deg2Rad)).Normalize()
}

// Rotate applies the rotation to a vector.
func (q Quat) Rotate(v Vec3) Vec3 {
	u := Vec3{q.X, q.Y, q.Z}
	t := u.Cross(v).Scale(2)
	return v.Add(t.Scale(q.W)).Add(u.Cross(t))
}

// ToMat4 converts the quaternion to a 4x4 rotation matrix.
func (q Quat) ToMat4() Mat4 {
	return FromRotationTranslationScale(q.Normalize(), Vec3{}, Vec3{1, 1, 1})
}
