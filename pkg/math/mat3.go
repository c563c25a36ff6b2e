package math

// Mat3 is a 3x3 column-major matrix, used for rotation and normal matrices.
type Mat3 [9]float32

// Mat3FromMat4 returns the upper-left 3x3 portion of m.
func Mat3FromMat4(m Mat4) Mat3 {
	return Mat3{
		m[0], m[1], m[2],
		m[4], m[5], m[6],
		m[8], m[9], m[10],
	}
}

// NormalMatrix returns transpose(inverse(world)) reduced to 3x3, the matrix
// that keeps normals perpendicular under non-uniform scale.
func NormalMatrix(world Mat4) Mat3 {
	return Mat3FromMat4(world.Inverse().Transpose())
}

// Mat4 widens m to a 4x4 matrix with no translation.
func (m Mat3) Mat4() Mat4 {
	return Mat4{
		m[0], m[1], m[2], 0,
		m[3], m[4], m[5], 0,
		m[6], m[7], m[8], 0,
		0, 0, 0, 1,
	}
}

// Ptr returns a pointer to the first element (for OpenGL uniform calls).
func (m *Mat3) Ptr() *float32 {
	return &m[0]
}
