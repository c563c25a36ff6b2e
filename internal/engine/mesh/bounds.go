package mesh

import (
	"github.com/Faultbox/sheep3d/pkg/math"
)

// Bounds is an axis-aligned bounding box. The zero value is empty.
type Bounds struct {
	Min, Max math.Vec3
	valid    bool
}

// Empty reports whether no point has been added.
func (b Bounds) Empty() bool { return !b.valid }

// Extend grows the box to contain p.
func (b *Bounds) Extend(p math.Vec3) {
	if !b.valid {
		b.Min, b.Max, b.valid = p, p, true
		return
	}
	b.Min.X = min(b.Min.X, p.X)
	b.Min.Y = min(b.Min.Y, p.Y)
	b.Min.Z = min(b.Min.Z, p.Z)
	b.Max.X = max(b.Max.X, p.X)
	b.Max.Y = max(b.Max.Y, p.Y)
	b.Max.Z = max(b.Max.Z, p.Z)
}

// Union grows the box to contain o.
func (b *Bounds) Union(o Bounds) {
	if o.Empty() {
		return
	}
	b.Extend(o.Min)
	b.Extend(o.Max)
}

// Center returns the middle of the box.
func (b Bounds) Center() math.Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// Radius returns half the diagonal, the radius of a sphere around Center
// that contains the box.
func (b Bounds) Radius() float32 {
	return b.Max.Sub(b.Min).Length() * 0.5
}

// Bounds returns the box around the mesh positions transformed by m.
func (m *Mesh) Bounds(world math.Mat4) Bounds {
	var b Bounds
	for i := 0; i < m.VertexCount(); i++ {
		b.Extend(world.TransformPoint(m.position(i)))
	}
	return b
}
