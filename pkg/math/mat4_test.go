package math

import (
	"math"
	"testing"
)

func TestIdentity(t *testing.T) {
	m := Identity()
	// Diagonal should be 1
	if m[0] != 1 || m[5] != 1 || m[10] != 1 || m[15] != 1 {
		t.Error("Identity diagonal should be 1")
	}
	// Off-diagonal should be 0
	if m[1] != 0 || m[4] != 0 {
		t.Error("Identity off-diagonal should be 0")
	}
}

func TestMulIdentity(t *testing.T) {
	m := Translate(1, 2, 3)
	result := m.Mul(Identity())

	if result != m {
		t.Errorf("M * I should equal M: got %v, want %v", result, m)
	}
}

func TestMulOrder(t *testing.T) {
	// Translate after scale: point is scaled first, then moved.
	m := Translate(10, 0, 0).Mul(Scale(2, 2, 2))
	got := m.TransformPoint(Vec3{1, 0, 0})
	if got != (Vec3{12, 0, 0}) {
		t.Errorf("T*S applied to (1,0,0): got %v, want (12, 0, 0)", got)
	}
}

func TestTranslate(t *testing.T) {
	m := Translate(5, 10, 15)

	// Translation lives in column 3 (indices 12, 13, 14)
	if m.Translation() != (Vec3{5, 10, 15}) {
		t.Errorf("Translate: got %v, want (5, 10, 15)", m.Translation())
	}
}

func TestTranspose(t *testing.T) {
	m := Mat4{
		1, 2, 3, 4,
		5, 6, 7, 8,
		9, 10, 11, 12,
		13, 14, 15, 16,
	}
	tr := m.Transpose()
	if tr[1] != 5 || tr[4] != 2 || tr[12] != 4 || tr[3] != 13 {
		t.Errorf("Transpose: got %v", tr)
	}
	if tr.Transpose() != m {
		t.Error("Transpose twice should return the original matrix")
	}
}

func TestRotateY90(t *testing.T) {
	m := RotateY(float32(math.Pi / 2))
	result := m.TransformPoint(Vec3{1, 0, 0})

	// After 90 degree Y rotation, (1,0,0) should become approximately (0,0,-1)
	if abs(result.X) > 0.001 || abs(result.Y) > 0.001 || abs(result.Z+1) > 0.001 {
		t.Errorf("RotateY 90: got %v, want (0, 0, -1)", result)
	}
}

func TestFromRotationTranslationScale(t *testing.T) {
	q := QuatFromAxisAngle(Vec3{Y: 1}, float32(math.Pi/2))
	pos := Vec3{1, 2, 3}
	scale := Vec3{2, 3, 4}

	got := FromRotationTranslationScale(q, pos, scale)
	want := Translate(1, 2, 3).Mul(RotateY(float32(math.Pi / 2))).Mul(Scale(2, 3, 4))

	if !got.ApproxEqual(want, 1e-5) {
		t.Errorf("FromRotationTranslationScale:\ngot  %v\nwant %v", got, want)
	}
}

func TestAxes(t *testing.T) {
	m := RotateY(float32(math.Pi))

	fwd := m.Forward()
	if abs(fwd.X) > 1e-6 || abs(fwd.Z+1) > 1e-6 {
		t.Errorf("Forward after 180 Y: got %v, want (0, 0, -1)", fwd)
	}
	if m.Up() != (Vec3{0, 1, 0}) {
		t.Errorf("Up after 180 Y: got %v, want (0, 1, 0)", m.Up())
	}
}

func TestPerspective(t *testing.T) {
	fov := float32(math.Pi / 4) // 45 degrees
	m := Perspective(fov, 1.0, 0.1, 100.0)

	f := float32(1 / math.Tan(math.Pi/8))
	if abs(m[0]-f) > 1e-5 || abs(m[5]-f) > 1e-5 {
		t.Errorf("Perspective focal length: got (%f, %f), want %f", m[0], m[5], f)
	}
	if m[15] != 0 {
		t.Errorf("Perspective [15] should be 0, got %f", m[15])
	}
	if m[11] != -1 {
		t.Errorf("Perspective [11] should be -1, got %f", m[11])
	}
}

func TestOrtho(t *testing.T) {
	m := Ortho(-2, 2, -1, 1, 0.1, 100)

	// Corner of the box maps to the NDC corner
	p := m.TransformPoint(Vec3{2, 1, -0.1})
	if abs(p.X-1) > 1e-5 || abs(p.Y-1) > 1e-5 || abs(p.Z+1) > 1e-5 {
		t.Errorf("Ortho corner: got %v, want (1, 1, -1)", p)
	}
	if m[15] != 1 {
		t.Errorf("Ortho [15] should be 1, got %f", m[15])
	}
}

func TestLookAtDownNegativeZ(t *testing.T) {
	// An eye at the origin looking down -Z with +Y up is the identity view.
	m := LookAt(Vec3{}, Vec3{0, 0, -1}, Vec3{0, 1, 0})
	if !m.ApproxEqual(Identity(), 1e-6) {
		t.Errorf("LookAt down -Z should be identity, got %v", m)
	}
}

func TestLookAtMovesEyeToOrigin(t *testing.T) {
	eye := Vec3{0, 0, 5}
	m := LookAt(eye, Vec3{}, Vec3{0, 1, 0})

	p := m.TransformPoint(eye)
	if p.Length() > 1e-5 {
		t.Errorf("eye should map to origin, got %v", p)
	}
}

func TestInverse(t *testing.T) {
	m := Translate(1, 2, 3).Mul(RotateX(0.3)).Mul(Scale(2, 2, 2))
	inv, ok := m.Invert()
	if !ok {
		t.Fatal("matrix should be invertible")
	}
	if !m.Mul(inv).ApproxEqual(Identity(), 1e-5) {
		t.Errorf("M * M^-1 should be identity, got %v", m.Mul(inv))
	}
}

func TestInverseSingular(t *testing.T) {
	m := Scale(0, 1, 1)
	if _, ok := m.Invert(); ok {
		t.Error("Invert should report singular matrix")
	}
	if m.Inverse() != Identity() {
		t.Error("Inverse of singular matrix should fall back to identity")
	}
}

func TestNormalMatrix(t *testing.T) {
	// Non-uniform scale: normal matrix is the inverse scale.
	n := NormalMatrix(Scale(2, 4, 1))
	if abs(n[0]-0.5) > 1e-6 || abs(n[4]-0.25) > 1e-6 || abs(n[8]-1) > 1e-6 {
		t.Errorf("NormalMatrix diagonal: got (%f, %f, %f)", n[0], n[4], n[8])
	}
}

func TestMat3RoundTrip(t *testing.T) {
	m3 := Mat3{
		1, 2, 3,
		4, 5, 6,
		7, 8, 9,
	}
	m4 := m3.Mat4()

	if m4[0] != 1 || m4[1] != 2 || m4[2] != 3 {
		t.Error("Mat3.Mat4 column 0 incorrect")
	}
	if m4[4] != 4 || m4[5] != 5 || m4[6] != 6 {
		t.Error("Mat3.Mat4 column 1 incorrect")
	}
	if m4[15] != 1 {
		t.Errorf("Mat3.Mat4 [15] should be 1, got %f", m4[15])
	}
	if Mat3FromMat4(m4) != m3 {
		t.Error("Mat3FromMat4 should recover the 3x3 block")
	}
}

func abs(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
