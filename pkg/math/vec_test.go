package math

import (
	"testing"
)

func TestVec2Add(t *testing.T) {
	got := Vec2{1, 2}.Add(Vec2{3, 4})
	want := Vec2{4, 6}
	if got != want {
		t.Errorf("Vec2.Add() = %v, want %v", got, want)
	}
}

func TestVec2Length(t *testing.T) {
	got := Vec2{3, 4}.Length()
	if got != 5 {
		t.Errorf("Vec2.Length() = %v, want 5", got)
	}
}

func TestVec3Add(t *testing.T) {
	got := Vec3{1, 2, 3}.Add(Vec3{4, 5, 6})
	want := Vec3{5, 7, 9}
	if got != want {
		t.Errorf("Vec3.Add() = %v, want %v", got, want)
	}
}

func TestVec3Cross(t *testing.T) {
	got := Vec3{1, 0, 0}.Cross(Vec3{0, 1, 0})
	want := Vec3{0, 0, 1}
	if got != want {
		t.Errorf("Vec3.Cross() = %v, want %v", got, want)
	}
}

func TestVec3NormalizeZero(t *testing.T) {
	if got := (Vec3{}).Normalize(); !got.IsZero() {
		t.Errorf("Normalize of zero vector = %v, want zero", got)
	}
}

func TestAngleConstants(t *testing.T) {
	if abs(180*Deg2Rad-3.14159265) > 1e-6 {
		t.Errorf("180 * Deg2Rad = %v, want pi", 180*Deg2Rad)
	}
	if abs(Deg2Rad*Rad2Deg-1) > 1e-6 {
		t.Errorf("Deg2Rad * Rad2Deg = %v, want 1", Deg2Rad*Rad2Deg)
	}
}

func TestVec3ApproxEqual(t *testing.T) {
	a := Vec3{1, 2, 3}
	if !a.ApproxEqual(Vec3{1.0000001, 2, 3}, 1e-5) {
		t.Error("expected nearly equal vectors to compare equal")
	}
	if a.ApproxEqual(Vec3{1, 2, 3.1}, 1e-5) {
		t.Error("expected distinct vectors to differ")
	}
}
